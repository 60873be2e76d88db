package interfaces

import (
	"context"

	domaintypes "sealchat/internal/domain/types"
)

// ChatService is the session controller surface used by the CLI.
type ChatService interface {
	Connect(ctx context.Context, endpoint domaintypes.Endpoint) error
	Resume(ctx context.Context) (bool, error)
	Disconnect() error
	Forget() error

	Send(ctx context.Context, text string) error
	SendPlain(ctx context.Context, text string) error
	Rename(ctx context.Context, name domaintypes.Username) error

	Connected() bool
	Endpoint() (domaintypes.Endpoint, bool)
	Self() domaintypes.Username
	Users() []domaintypes.Username
	Messages() []domaintypes.RenderedMessage
	Updates() <-chan struct{}
}
