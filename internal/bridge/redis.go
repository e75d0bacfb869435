package bridge

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher mirrors every payload published on a Bridge into a Redis
// stream, standing in for the "MQTT bridge to a game engine" class of
// external collaborator the core transport is explicitly not responsible
// for. Any pub/sub sink satisfies the same role; Redis is one concrete
// choice among the ecosystem's many.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisPublisher wraps an existing client. The caller owns the client's
// lifecycle (Close it themselves when done).
func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream}
}

// Publish writes payload to the configured stream as a base64-encoded
// field, since Redis stream fields are most portably treated as text.
func (p *RedisPublisher) Publish(ctx context.Context, payload []byte) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"payload": base64.StdEncoding.EncodeToString(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("bridge: redis xadd: %w", err)
	}
	return nil
}

// Forward attaches a RedisPublisher to a Bridge's Subscriber stream,
// republishing every payload the subscriber receives until ctx is done or
// sub is closed.
func (p *RedisPublisher) Forward(ctx context.Context, sub *Subscriber) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Closed:
			return
		case payload := <-sub.Out:
			if err := p.Publish(ctx, payload); err != nil {
				return
			}
		}
	}
}
