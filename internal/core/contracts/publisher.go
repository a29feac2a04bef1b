package contracts

import "context"

// Publisher is the external pub/sub broker. Delivery is best-effort: no
// acknowledgment, no retry, no ordering relative to the durable write that
// triggered the publish.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
