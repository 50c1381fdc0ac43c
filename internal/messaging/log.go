package messaging

import (
	"context"
	"log/slog"
)

// LogNotifier is the sink used when NATS is not configured (and in tests).
// It records what would have been delivered and drops it.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, recipient, message string) error {
	slog.Info("Notification (log sink)", "recipient", recipient, "message", message)
	return nil
}

func (n *LogNotifier) PublishEvent(subject string, _ any) error {
	slog.Debug("Event published (log sink)", "subject", subject)
	return nil
}
