package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "TENANT", "REQUEST_TIMEOUT", "FEED_PAGE_SIZE", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, _ := Load()
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoUri)
	assert.Equal(t, "default", cfg.Tenant)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(10), cfg.FeedPageSize)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TENANT", "acme")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("FEED_PAGE_SIZE", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, _ := Load()
	assert.Equal(t, "acme", cfg.Tenant)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(5), cfg.FeedPageSize)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestPageSizeIsClamped(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "50")
	cfg, _ := Load()
	assert.Equal(t, int64(10), cfg.FeedPageSize)

	t.Setenv("FEED_PAGE_SIZE", "abc")
	cfg, _ = Load()
	assert.Equal(t, int64(10), cfg.FeedPageSize)

	t.Setenv("REQUEST_TIMEOUT", "-1s")
	cfg, _ = Load()
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadReportsMissingEnvFile(t *testing.T) {
	inDir(t, t.TempDir())
	t.Setenv("TENANT", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Equal(t, "default", cfg.Tenant)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_NAME=from_file\n"), 0o600))
	inDir(t, dir)
	t.Setenv("DB_NAME", "")
	require.NoError(t, os.Unsetenv("DB_NAME"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.DbName)
}
