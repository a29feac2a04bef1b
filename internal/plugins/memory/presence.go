package memory

import (
	"context"
	"sync"
	"time"
)

// MemoryPresenceStore mirrors the redis presence semantics closely enough
// for service tests: last heartbeat per member, pruned on read.
type MemoryPresenceStore struct {
	mu    sync.Mutex
	beats map[string]map[string]time.Time

	window time.Duration
}

func NewMemoryPresenceStore() *MemoryPresenceStore {
	return &MemoryPresenceStore{
		beats:  make(map[string]map[string]time.Time),
		window: 30 * time.Second,
	}
}

func (p *MemoryPresenceStore) Heartbeat(ctx context.Context, chatID, userID string, ttl time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.beats[chatID] == nil {
		p.beats[chatID] = make(map[string]time.Time)
	}
	p.beats[chatID][userID] = time.Now()
	return nil
}

func (p *MemoryPresenceStore) Online(ctx context.Context, chatID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	threshold := time.Now().Add(-p.window)
	var online []string
	for userID, at := range p.beats[chatID] {
		if at.Before(threshold) {
			delete(p.beats[chatID], userID)
			continue
		}
		online = append(online, userID)
	}
	return online, nil
}

func (p *MemoryPresenceStore) Clear(ctx context.Context, chatID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.beats, chatID)
	return nil
}
