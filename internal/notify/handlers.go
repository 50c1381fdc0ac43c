package notify

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"tablebook/internal/models"
)

// Deliverer pushes a message to a recipient's channel (chat bot, email
// gateway). The notifier service stays agnostic of the actual transport.
type Deliverer interface {
	Deliver(recipient, message string) error
}

// LogDeliverer writes notifications to the structured log. Used when no
// real delivery channel is configured and in tests.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(recipient, message string) error {
	slog.Info("Delivering notification", "recipient", recipient, "message", message)
	return nil
}

type Handlers struct {
	deliverer Deliverer
}

func NewHandlers(deliverer Deliverer) *Handlers {
	return &Handlers{deliverer: deliverer}
}

// HandleNotification delivers a ready-made message to its recipient.
func (h *Handlers) HandleNotification(m *stan.Msg) {
	var msg models.NotificationMessage
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		slog.Error("Failed to unmarshal notification", "error", err)
		return
	}

	if err := h.deliverer.Deliver(msg.Recipient, msg.Message); err != nil {
		slog.Error("Failed to deliver notification",
			"recipient", msg.Recipient, "error", err)
		return
	}

	m.Ack()
}

// HandleBookingCreated records new reservations for analytics and audit.
func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	slog.Info("Booking created",
		"booking_id", event.BookingID,
		"event_id", event.EventID,
		"user_id", event.UserID,
		"seats", len(event.SeatIDs),
		"total_price", event.TotalPrice)

	m.Ack()
}

func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		return
	}

	slog.Info("Booking confirmed",
		"booking_id", event.BookingID,
		"event_id", event.EventID,
		"user_id", event.UserID)

	m.Ack()
}

func (h *Handlers) HandleBookingExpired(m *stan.Msg) {
	var event models.BookingExpiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking expired event", "error", err)
		return
	}

	slog.Info("Booking released",
		"booking_id", event.BookingID,
		"event_id", event.EventID,
		"user_id", event.UserID,
		"reason", event.Reason)

	m.Ack()
}
