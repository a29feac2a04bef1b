package contracts

import "context"

// Store is the typed adapter over the external key-value store. It exposes
// only per-key primitives; there is no multi-key transaction, so every
// cross-key invariant in the services is a sequence of independent calls.
//
// Absent keys are not errors: Get/HGet report presence through the bool,
// collection reads return empty results.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error

	HGet(ctx context.Context, key, field string) (string, bool, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)

	ZAdd(ctx context.Context, key string, score float64, member string) error
	// ZRevRange returns members ordered by descending score over the rank
	// range [start, stop]; negative ranks count from the end, -1 being the
	// last element.
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}
