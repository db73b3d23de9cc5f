package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kotlang/photoFeedGo/api"
	"github.com/Kotlang/photoFeedGo/config"
	"github.com/Kotlang/photoFeedGo/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, envErr := config.Load()
	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	if envErr != nil {
		logger.Info("No .env file loaded", zap.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inject, err := NewInject(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed wiring services", zap.Error(err))
	}

	server := api.NewServer(
		inject.SessionStore,
		inject.PostRepository,
		inject.SocialStatsService,
		inject.UserProfileService,
		inject.FeedRegistry)

	httpServer := &http.Server{
		Addr:              cfg.WebPort,
		Handler:           server.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting web server", zap.String("port", cfg.WebPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Web server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed shutting down web server", zap.Error(err))
	}
	inject.Close(shutdownCtx)
}
