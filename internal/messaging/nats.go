package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/stan.go"

	"tablebook/internal/models"
)

type Config struct {
	URL       string
	ClusterID string
	ClientID  string
}

// NATSClient publishes booking lifecycle events and user notifications to
// NATS Streaming. Delivery is fire-and-forget from the engine's point of
// view; publish errors are logged by callers and never affect reservations.
type NATSClient struct {
	conn stan.Conn
}

func NewNATSClient(cfg Config) (*NATSClient, error) {
	// Unique client id to avoid conflicts between restarted instances.
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.New().String()[:8])

	conn, err := stan.Connect(cfg.ClusterID, clientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	slog.Info("Connected to NATS Streaming",
		"url", cfg.URL, "cluster", cfg.ClusterID, "client", clientID)

	return &NATSClient{conn: conn}, nil
}

func (nc *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := nc.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}

	return nil
}

// Notify sends a message towards a user (or the "admins" broadcast target)
// through the notification subject.
func (nc *NATSClient) Notify(_ context.Context, recipient, message string) error {
	return nc.Publish(models.SubjectNotify, models.NotificationMessage{
		Recipient: recipient,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// PublishEvent publishes a typed booking lifecycle event.
func (nc *NATSClient) PublishEvent(subject string, payload any) error {
	return nc.Publish(subject, payload)
}

func (nc *NATSClient) SubscribeQueue(subject, queue string, handler stan.MsgHandler) (stan.Subscription, error) {
	sub, err := nc.conn.QueueSubscribe(subject, queue, handler,
		stan.DurableName(subject+"-"+queue+"-durable"),
		stan.AckWait(30*time.Second),
		stan.MaxInflight(1))
	if err != nil {
		return nil, fmt.Errorf("failed to queue subscribe to subject %s: %w", subject, err)
	}

	slog.Info("Subscribed to subject", "subject", subject, "queue", queue)
	return sub, nil
}

func (nc *NATSClient) Close() error {
	if nc.conn != nil {
		return nc.conn.Close()
	}
	return nil
}
