package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"portal/internal/config"
	"portal/internal/daemon"
	"portal/internal/logging"
	"portal/internal/tasks"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, sink, err := logging.New(logging.Options{
		Dir:           cfg.LogDir,
		MaxBytes:      cfg.Logging.MaxBytes,
		MaxBackups:    cfg.Logging.MaxBackups,
		MinLevel:      cfg.Logging.Level,
		Console:       os.Stderr,
		ConsoleFormat: cfg.Logging.ConsoleFormat,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer sink.Close() //nolint:errcheck

	store, err := tasks.Open(cfg)
	if err != nil {
		logger.Error("open task store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		logger.Error("create daemon", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", slog.String("error", err.Error()))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("portald shutting down")
}
