package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tablebook/internal/config"
	"tablebook/internal/logger"
	"tablebook/internal/notify"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	cfg.NATS.ClientID = "tablebook-notifier"

	service, err := notify.NewService(cfg, notify.LogDeliverer{})
	if err != nil {
		logger.Fatal("Failed to create notifier service", "error", err)
	}

	if err := service.Start(); err != nil {
		logger.Fatal("Failed to start notifier consumers", "error", err)
	}

	slog.Info("Notifier service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := service.Shutdown(); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	slog.Info("Notifier service stopped")
}
