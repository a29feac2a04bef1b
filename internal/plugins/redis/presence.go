package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// onlineWindow is how long after its last heartbeat a member still counts
// as online.
const onlineWindow = 30 * time.Second

type RedisPresenceStore struct {
	rdb *redis.Client
}

func NewRedisPresenceStore(rdb *redis.Client) *RedisPresenceStore {
	return &RedisPresenceStore{rdb: rdb}
}

func (p *RedisPresenceStore) key(chatID string) string {
	return "presence:" + chatID
}

// Heartbeat adds/updates the user in the chat's ZSet with the current
// timestamp.
func (p *RedisPresenceStore) Heartbeat(
	ctx context.Context,
	chatID string,
	userID string,
	ttl time.Duration,
) error {
	key := p.key(chatID)
	now := time.Now().Unix()

	err := p.rdb.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: userID,
	}).Err()
	if err != nil {
		return err
	}

	// Expire the whole ZSet so an abandoned chat doesn't leak memory.
	return p.rdb.Expire(ctx, key, ttl*2).Err()
}

// Online returns members who have checked in within the online window.
func (p *RedisPresenceStore) Online(ctx context.Context, chatID string) ([]string, error) {
	key := p.key(chatID)
	threshold := time.Now().Add(-onlineWindow).Unix()

	// Remove stale members first (self-cleaning)
	p.rdb.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(threshold, 10))

	return p.rdb.ZRange(ctx, key, 0, -1).Result()
}

// Clear deletes the entire ZSet for the chat.
func (p *RedisPresenceStore) Clear(ctx context.Context, chatID string) error {
	return p.rdb.Del(ctx, p.key(chatID)).Err()
}
