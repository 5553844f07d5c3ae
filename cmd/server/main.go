package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/config"
	"github.com/realtyblog/internal/db"
	"github.com/realtyblog/internal/handler"
	"github.com/realtyblog/internal/logging"
	"github.com/realtyblog/internal/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	if cfg.UsesDevSecret() {
		logger.Warn("SESSION_SECRET is not set, using the development secret")
	}

	// 初始化数据库
	driver, database := db.Describe(cfg.Database)
	gdb, err := db.Open(cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		defer sqlDB.Close()
	}

	// 数据库暂不可用时继续启动，由健康检查报告 503。
	migrated := true
	if err := db.Migrate(gdb); err != nil {
		migrated = false
		logger.Error("database migration failed", "driver", driver, "database", database, "error", err)
	} else {
		logger.Info("database ready", "driver", driver, "database", database)
	}

	api := handler.NewAPI(gdb, cfg, logger)

	if migrated && cfg.AdminUsername != "" {
		created, err := api.Admins().EnsureUser(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
		switch {
		case err != nil:
			logger.Error("ensuring admin user failed", "username", cfg.AdminUsername, "error", err)
		case created:
			logger.Info("admin user created", "username", cfg.AdminUsername)
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Warn("upload directory unavailable", "dir", cfg.UploadDir, "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(api, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("running server: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
