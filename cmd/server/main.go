package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobmate/internal/app"
	"jobmate/internal/config"
	"jobmate/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	c, err := app.NewContainer(cfg, l)
	if err != nil {
		l.Fatal("failed to init container", zap.Error(err))
	}

	bootstrap, cleanup, err := app.Bootstrap(c)
	if err != nil {
		l.Fatal("failed to bootstrap app", zap.Error(err))
	}
	defer func() {
		if err := cleanup(); err != nil {
			l.Warn("cleanup error", zap.Error(err))
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		l.Fatal("invalid HTTP port", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("listening", zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment), zap.String("addr", addr))
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("server error", zap.Error(err))
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			l.Warn("shutdown error", zap.Error(err))
		}
	}
}
