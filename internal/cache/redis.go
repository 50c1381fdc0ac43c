package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventsListKey = "events:list"

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// Client caches the raw JSON of the public event catalog. Cache failures
// degrade to store reads; they are never surfaced to callers.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	return &Client{client: rdb, ttl: cfg.TTL}, nil
}

// GetEventsListRaw returns the cached catalog JSON, or an error on miss.
func (c *Client) GetEventsListRaw(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, eventsListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("events list not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetEventsListRaw stores the catalog JSON with the configured TTL.
func (c *Client) SetEventsListRaw(ctx context.Context, data []byte) error {
	return c.client.Set(ctx, eventsListKey, data, c.ttl).Err()
}

// InvalidateEventsList drops the cached catalog after an admin mutation.
func (c *Client) InvalidateEventsList(ctx context.Context) error {
	return c.client.Del(ctx, eventsListKey).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
