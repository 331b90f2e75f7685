// Package main provides the entry point for the webhook server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	appConfig "github.com/prscope/prscope/internal/config"
	"github.com/prscope/prscope/internal/database"
	"github.com/prscope/prscope/internal/database/migrate"
	"github.com/prscope/prscope/internal/githubclient"
	"github.com/prscope/prscope/internal/health"
	"github.com/prscope/prscope/internal/middleware"
	webhookRouter "github.com/prscope/prscope/internal/webhook/router"
	"github.com/prscope/prscope/pkg/logger"
	"github.com/prscope/prscope/pkg/retry"
)

func main() {
	cfg := appConfig.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := retry.DoWithResult(ctx, retry.PostgresConfig(), func() (*gorm.DB, error) {
		return database.New(cfg.Database)
	})
	if err != nil {
		zlog.Fatalw("failed to connect to database", "error", err)
	}

	if err := migrate.Up(db); err != nil {
		zlog.Fatalw("failed to apply migrations", "error", err)
	}

	var privateKey []byte
	if cfg.GitHub.PrivateKeyPath != "" {
		privateKey, err = os.ReadFile(cfg.GitHub.PrivateKeyPath)
		if err != nil {
			zlog.Fatalw("failed to read GitHub App private key", "error", err)
		}
	}
	if len(privateKey) == 0 {
		zlog.Warnw("no GitHub App credentials configured, categorization will be unavailable")
	}
	clients := githubclient.NewFactory(cfg.GitHub, privateKey, zlog)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.Recovery(zlog), middleware.Logger(zlog))

	r.GET("/health", health.New(db, zlog).Check)
	webhookRouter.RegisterRoutes(r, db, cfg.GitHub, clients, zlog)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Infow("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	zlog.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Errorw("graceful shutdown failed", "error", err)
	}
}
