package contracts

import (
	"context"
	"time"
)

// PresenceStore tracks which members of a chat are currently online,
// backed by a per-chat ZSET of heartbeat timestamps.
type PresenceStore interface {
	// Heartbeat refreshes the caller's timestamp and the key's TTL.
	Heartbeat(ctx context.Context, chatID, userID string, ttl time.Duration) error
	// Online prunes stale entries and returns the remaining member ids.
	Online(ctx context.Context, chatID string) ([]string, error)
	// Clear drops the chat's presence set entirely.
	Clear(ctx context.Context, chatID string) error
}
