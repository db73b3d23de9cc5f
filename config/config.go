package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoUri       string
	DbName         string
	Tenant         string
	AuthTarget     string
	WebPort        string
	AllowedOrigins []string
	RequestTimeout time.Duration
	FeedPageSize   int64
	S3Region       string
	S3Bucket       string
	MediaUrlPrefix string
	LogLevel       string
}

// Load reads .env (when present) and then the process environment. The error
// only reports a missing or unreadable .env file; the returned config is always
// usable.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg := &Config{
		MongoUri:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DbName:         getEnv("DB_NAME", "photo_feed"),
		Tenant:         getEnv("TENANT", "default"),
		AuthTarget:     getEnv("AUTH_TARGET", "localhost:50051"),
		WebPort:        getEnv("WEB_PORT", ":8081"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		FeedPageSize:   int64(getEnvAsInt("FEED_PAGE_SIZE", 10)),
		S3Region:       getEnv("S3_REGION", "ap-south-1"),
		S3Bucket:       getEnv("S3_BUCKET", "photo-feed-media"),
		MediaUrlPrefix: getEnv("MEDIA_URL_PREFIX", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	// the feed view-model decides hasMore from a full page, so the page size can't grow past 10.
	if cfg.FeedPageSize <= 0 || cfg.FeedPageSize > 10 {
		cfg.FeedPageSize = 10
	}
	return cfg, envErr
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil && value > 0 {
		return value
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}

	values := []string{}
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultVal
	}
	return values
}
