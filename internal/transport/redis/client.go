package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

// Publisher broadcasts session events over Redis pub/sub, one channel per session.
// Nothing is stored in Redis.
type Publisher struct {
	client *redis.Client
	prefix string
}

// New - connects to Redis and checks the connection.
func New(ctx context.Context, addr, prefix string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewPublisher(client, prefix), nil
}

func NewPublisher(client *redis.Client, prefix string) *Publisher {
	return &Publisher{
		client: client,
		prefix: prefix,
	}
}

// Channel - name of the channel a session's events go to.
func (that *Publisher) Channel(sessionID string) string {
	return that.prefix + ":" + sessionID
}

func (that *Publisher) Publish(ctx context.Context, event entity.SessionEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.Channel(event.View.ID), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event in Redis: %w", err)
	}

	return nil
}

func (that *Publisher) Close() error {
	if err := that.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
