package interfaces

import domaintypes "sealchat/internal/domain/types"

// EndpointStore remembers the last chat server endpoint for the current
// login session so a returning user is not prompted again.
type EndpointStore interface {
	SaveEndpoint(endpoint domaintypes.Endpoint) error
	LoadEndpoint() (domaintypes.Endpoint, bool, error)
	ClearEndpoint() error
	Close() error
}
