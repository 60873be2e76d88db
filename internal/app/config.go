package app

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"sealchat/internal/messagelog"
	"sealchat/internal/relay"
	"sealchat/internal/store"
)

// Endpoint store backends.
const (
	StorePebble = "pebble"
	StoreFile   = "file"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	StateDir      string        `validate:"required"`                          // session-scoped state, e.g. $XDG_RUNTIME_DIR/sealchat
	Store         string        `validate:"oneof=pebble file"`                 // endpoint store backend
	LogLevel      string        `validate:"oneof=trace debug info warn error"` // zerolog level
	LogFormat     string        `validate:"oneof=text json"`                   // console or JSON lines
	MetricsAddr   string        `validate:"omitempty,hostname_port"`           // empty disables the metrics listener
	MaxMessages   int           `validate:"gte=0"`                             // message log retention, 0 keeps everything
	SendRate      float64       `validate:"gte=0"`                             // sends per second, 0 disables limiting
	SendBurst     int           `validate:"gte=0"`                             // limiter bucket size
	SocketPath    string        `validate:"required,startswith=/"`             // WebSocket path on the server
	RenameTimeout time.Duration `validate:"gt=0"`                              // bound on waiting for a rename ack
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		StateDir:      store.SessionDir(),
		Store:         StorePebble,
		LogLevel:      "warn",
		LogFormat:     "text",
		MaxMessages:   messagelog.DefaultLimit,
		SendRate:      5,
		SendBurst:     10,
		SocketPath:    relay.DefaultPath,
		RenameTimeout: 10 * time.Second,
	}
}

var validate = validator.New()

// Validate reports the first invalid field of cfg.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
