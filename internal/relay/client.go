package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"sealchat/internal/domain"
)

// Options tunes the WebSocket channel. Zero fields take the defaults below.
type Options struct {
	Path             string
	HandshakeTimeout time.Duration
	WriteWait        time.Duration
	PongWait         time.Duration
	MaxMessageSize   int64
	QueueSize        int
}

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteWait        = 10 * time.Second
	defaultPongWait         = 60 * time.Second
	defaultMaxMessageSize   = 64 << 10
	defaultQueueSize        = 64
)

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.WriteWait <= 0 {
		o.WriteWait = defaultWriteWait
	}
	if o.PongWait <= 0 {
		o.PongWait = defaultPongWait
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = defaultMaxMessageSize
	}
	if o.QueueSize <= 0 {
		o.QueueSize = defaultQueueSize
	}
	return o
}

// pingPeriod must stay below PongWait.
func (o Options) pingPeriod() time.Duration { return o.PongWait * 9 / 10 }

// Dialer opens WebSocket channels.
type Dialer struct {
	opts Options
	ws   *websocket.Dialer
	log  zerolog.Logger
}

// NewDialer returns a Dialer using opts.
func NewDialer(opts Options, log zerolog.Logger) *Dialer {
	opts = opts.withDefaults()
	return &Dialer{
		opts: opts,
		ws: &websocket.Dialer{
			HandshakeTimeout: opts.HandshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
		log: log.With().Str("component", "relay").Logger(),
	}
}

// Dial connects to endpoint and starts the channel.
func (d *Dialer) Dial(ctx context.Context, endpoint domain.Endpoint) (domain.Channel, error) {
	return d.DialConn(ctx, endpoint)
}

// DialConn is Dial returning the concrete type.
func (d *Dialer) DialConn(ctx context.Context, endpoint domain.Endpoint) (*Conn, error) {
	u, err := NormalizeEndpoint(endpoint, d.opts.Path)
	if err != nil {
		return nil, err
	}
	ws, resp, err := d.ws.DialContext(ctx, u, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay dial %s: %s: %w", u, resp.Status, err)
		}
		return nil, fmt.Errorf("relay dial %s: %w", u, err)
	}
	log := d.log.With().Str("endpoint", u).Logger()
	log.Info().Msg("connected")
	return newConn(ws, d.opts, log), nil
}

var _ domain.Dialer = (*Dialer)(nil)
