package relay

import (
	"fmt"
	"net/url"
	"strings"

	"sealchat/internal/domain"
)

// DefaultPath is appended to endpoints that do not name a path.
const DefaultPath = "/socket"

// NormalizeEndpoint turns user input such as "10.0.0.5:3000" or
// "https://chat.example" into a WebSocket URL. Empty paths get path.
func NormalizeEndpoint(endpoint domain.Endpoint, path string) (string, error) {
	raw := strings.TrimSpace(endpoint.String())
	if raw == "" {
		return "", fmt.Errorf("empty endpoint")
	}
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q: missing host", endpoint)
	}
	if u.Path == "" || u.Path == "/" {
		if path == "" {
			path = DefaultPath
		}
		u.Path = path
	}
	return u.String(), nil
}
