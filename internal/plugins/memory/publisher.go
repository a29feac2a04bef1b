package memory

import (
	"context"
	"sync"
)

// PublishedEvent is one captured fan-out publish.
type PublishedEvent struct {
	Channel string
	Payload []byte
}

// MemoryPublisher records publishes so tests can assert on the fan-out
// contract. Err, when set, simulates a broker outage.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent

	Err error
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{Channel: channel, Payload: payload})
	return nil
}

func (p *MemoryPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}
