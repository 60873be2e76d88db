package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// EndpointKey is the single well-known key under which the endpoint is kept.
const EndpointKey = "sealchat.endpoint"

// SessionDir returns the default state directory: $XDG_RUNTIME_DIR/sealchat,
// or a per-user directory under the system temp dir when that is unset.
func SessionDir() string {
	if d := os.Getenv("XDG_RUNTIME_DIR"); d != "" {
		return filepath.Join(d, "sealchat")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("sealchat-%d", os.Getuid()))
}
