package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"sealchat/internal/domain"
)

type subscription struct {
	id      uint64
	handler domain.EventHandler
}

// Conn is a live WebSocket channel to one chat server.
type Conn struct {
	ws   *websocket.Conn
	opts Options
	log  zerolog.Logger

	send chan []byte

	mu       sync.Mutex
	handlers map[string][]subscription
	nextID   uint64
	pending  map[string]chan json.RawMessage
	err      error

	started   chan struct{}
	startOnce sync.Once
	done      chan struct{}
	closeOnce sync.Once
	cancel    context.CancelFunc
	group     *errgroup.Group
}

func newConn(ws *websocket.Conn, opts Options, log zerolog.Logger) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	c := &Conn{
		ws:       ws,
		opts:     opts,
		log:      log,
		send:     make(chan []byte, opts.QueueSize),
		handlers: make(map[string][]subscription),
		pending:  make(map[string]chan json.RawMessage),
		started:  make(chan struct{}),
		done:     make(chan struct{}),
		cancel:   cancel,
		group:    g,
	}
	g.Go(c.readLoop)
	g.Go(func() error { return c.writeLoop(gctx) })
	return c
}

// Emit queues one event for sending. It does not wait for the write.
func (c *Conn) Emit(ctx context.Context, event string, payload any) error {
	f, err := NewFrame(event, payload)
	if err != nil {
		return fmt.Errorf("relay: encode %s: %w", event, err)
	}
	return c.enqueue(ctx, f)
}

// Request sends event with a fresh correlation id and waits for the matching
// acknowledgement, the channel to stop, or ctx to end.
func (c *Conn) Request(ctx context.Context, event string, payload any) (json.RawMessage, error) {
	f, err := NewFrame(event, payload)
	if err != nil {
		return nil, fmt.Errorf("relay: encode %s: %w", event, err)
	}
	f.Ack = uuid.NewString()

	reply := make(chan json.RawMessage, 1)
	c.mu.Lock()
	c.pending[f.Ack] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, f.Ack)
		c.mu.Unlock()
	}()

	if err := c.enqueue(ctx, f); err != nil {
		return nil, err
	}
	select {
	case data := <-reply:
		return data, nil
	case <-c.done:
		return nil, c.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe registers handler for event. The returned function removes this
// registration only and may be called any number of times.
func (c *Conn) Subscribe(event string, handler domain.EventHandler) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[event] = append(c.handlers[event], subscription{id: id, handler: handler})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			subs := c.handlers[event]
			i := slices.IndexFunc(subs, func(s subscription) bool { return s.id == id })
			if i < 0 {
				return
			}
			subs = slices.Delete(slices.Clone(subs), i, i+1)
			if len(subs) == 0 {
				delete(c.handlers, event)
				return
			}
			c.handlers[event] = subs
		})
	}
}

// Subscribers returns the number of handlers registered for event.
func (c *Conn) Subscribers(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers[event])
}

// Start lets the reader goroutine begin dispatching frames.
func (c *Conn) Start() {
	c.startOnce.Do(func() { close(c.started) })
}

// Done is closed when the connection stops.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Err returns why the connection stopped, or nil while it is live.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close sends a close frame, stops both goroutines and waits for them.
func (c *Conn) Close() error {
	c.stop(ErrClosed)
	c.cancel()
	_ = c.group.Wait()
	return nil
}

func (c *Conn) stop(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Conn) enqueue(ctx context.Context, f Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("relay: encode frame: %w", err)
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.send <- b:
		c.log.Debug().Str("event", f.Event).Msg("queued")
		return nil
	case <-c.done:
		return ErrClosed
	default:
		c.log.Warn().Str("event", f.Event).Msg("outbound queue full; dropping event")
		return ErrQueueFull
	}
}

func (c *Conn) readLoop() error {
	select {
	case <-c.started:
	case <-c.done:
		return nil
	}

	c.ws.SetReadLimit(c.opts.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.log.Warn().Err(err).Msg("connection lost")
				}
			}
			c.stop(fmt.Errorf("relay: read: %w", err))
			return err
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.log.Warn().Err(err).Msg("discarding malformed frame")
			continue
		}
		c.dispatch(f)
	}
}

func (c *Conn) dispatch(f Frame) {
	if f.Event == domain.EventAck {
		c.mu.Lock()
		reply, ok := c.pending[f.Ack]
		delete(c.pending, f.Ack)
		c.mu.Unlock()
		if !ok {
			c.log.Debug().Str("ack", f.Ack).Msg("ack without pending request")
			return
		}
		reply <- f.Data
		return
	}

	c.mu.Lock()
	subs := slices.Clone(c.handlers[f.Event])
	c.mu.Unlock()

	c.log.Debug().Str("event", f.Event).Int("subscribers", len(subs)).Msg("received")
	for _, s := range subs {
		s.handler(f.Data)
	}
}

func (c *Conn) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.opts.WriteWait))
			return nil
		case b := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				c.stop(fmt.Errorf("relay: write: %w", err))
				return err
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteWait)); err != nil {
				c.stop(fmt.Errorf("relay: ping: %w", err))
				return err
			}
		}
	}
}

var _ domain.Channel = (*Conn)(nil)
