package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
)

// eventEnvelope is the wire shape pushed to subscribers.
type eventEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Notifier translates domain events into broker publishes. Every publish is
// fire-and-forget: a broker failure is logged and swallowed so it can never
// fail the durable operation that triggered it.
type Notifier struct {
	pub contracts.Publisher
	log *slog.Logger
}

func NewNotifier(log *slog.Logger, pub contracts.Publisher) *Notifier {
	return &Notifier{
		log: log,
		pub: pub,
	}
}

func (n *Notifier) Publish(ctx context.Context, channel, event string, payload interface{}) {
	raw, err := json.Marshal(eventEnvelope{Event: event, Payload: payload})
	if err != nil {
		n.log.WarnContext(ctx, "notifier - publish - marshal failed", "channel", channel, "event", event, "err", err)
		return
	}
	if err := n.pub.Publish(ctx, channel, raw); err != nil {
		n.log.WarnContext(ctx, "notifier - publish - broker push failed", "channel", channel, "event", event, "err", err)
		return
	}
	n.log.DebugContext(ctx, "notifier - publish - broker push success", "channel", channel, "event", event)
}
