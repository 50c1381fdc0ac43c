package notify

import (
	"log/slog"

	"tablebook/internal/config"
	"tablebook/internal/messaging"
	"tablebook/internal/models"
)

const queueGroup = "notifier"

// Service consumes booking lifecycle events and notification messages
// from NATS and hands them to a Deliverer.
type Service struct {
	nats     *messaging.NATSClient
	handlers *Handlers
}

func NewService(cfg *config.Config, deliverer Deliverer) (*Service, error) {
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	return &Service{
		nats:     natsClient,
		handlers: NewHandlers(deliverer),
	}, nil
}

func (s *Service) Start() error {
	slog.Info("Starting notifier consumers")

	if _, err := s.nats.SubscribeQueue(models.SubjectNotify, queueGroup, s.handlers.HandleNotification); err != nil {
		return err
	}
	if _, err := s.nats.SubscribeQueue(models.EventBookingCreated, queueGroup, s.handlers.HandleBookingCreated); err != nil {
		return err
	}
	if _, err := s.nats.SubscribeQueue(models.EventBookingConfirmed, queueGroup, s.handlers.HandleBookingConfirmed); err != nil {
		return err
	}
	if _, err := s.nats.SubscribeQueue(models.EventBookingExpired, queueGroup, s.handlers.HandleBookingExpired); err != nil {
		return err
	}
	// Rejections carry the same payload shape as expirations.
	if _, err := s.nats.SubscribeQueue(models.EventBookingRejected, queueGroup, s.handlers.HandleBookingExpired); err != nil {
		return err
	}

	slog.Info("All notifier consumers started")
	return nil
}

func (s *Service) Shutdown() error {
	slog.Info("Shutting down notifier service")

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
			return err
		}
	}
	return nil
}
