package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes fan-out events over redis pub/sub. Subscribers that
// are offline simply miss the event; nothing is queued.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}
