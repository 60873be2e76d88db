package interfaces

import (
	"context"
	"encoding/json"

	domaintypes "sealchat/internal/domain/types"
)

// EventHandler receives the raw payload of one inbound event. Handlers for a
// channel are invoked one at a time, in delivery order.
type EventHandler func(payload json.RawMessage)

// Channel is one live, bidirectional event connection to a chat server.
type Channel interface {
	// Emit sends one event without waiting for any reply. A payload of nil
	// sends an event with no data.
	Emit(ctx context.Context, event string, payload any) error

	// Request sends one event and waits for the correlated acknowledgement,
	// returning its raw payload.
	Request(ctx context.Context, event string, payload any) (json.RawMessage, error)

	// Subscribe registers handler for event and returns the function that
	// removes exactly that registration. Calling it more than once is safe.
	Subscribe(event string, handler EventHandler) (unsubscribe func())

	// Start begins delivering inbound events. Events that arrive between the
	// dial and Start are held, so handlers subscribed before Start see
	// everything the server sent. Calling Start again has no effect.
	Start()

	// Done is closed once the channel has stopped for any reason.
	Done() <-chan struct{}

	// Err reports why the channel stopped, or nil while it is live.
	Err() error

	// Close stops the channel and waits for its goroutines.
	Close() error
}

// Dialer opens channels to chat servers.
type Dialer interface {
	Dial(ctx context.Context, endpoint domaintypes.Endpoint) (Channel, error)
}
