package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/messagelog"
	"sealchat/internal/metrics"
	"sealchat/internal/roster"
	"sealchat/internal/services/codec"
)

var (
	// ErrRenameRejected indicates the server refused the requested name.
	ErrRenameRejected = errors.New("rename rejected by server")
	// ErrEndpointUnreachable indicates no channel could be established.
	ErrEndpointUnreachable = errors.New("endpoint unreachable")
	// ErrNotConnected indicates there is no live session; the event was dropped.
	ErrNotConnected = errors.New("not connected")
	// ErrRateLimited indicates the send limiter refused; the event was dropped.
	ErrRateLimited = errors.New("send rate exceeded")
	// ErrNotReady indicates the server has not sent the roster snapshot yet,
	// so there is no local name to change.
	ErrNotReady = errors.New("session not ready")
)

// Deps are the collaborators of a Controller. Dialer and Keys are required.
// A nil Store disables endpoint persistence; nil Codec and Metrics get
// defaults.
type Deps struct {
	Dialer  domain.Dialer
	Store   domain.EndpointStore
	Keys    *crypto.Keyring
	Codec   *codec.Service
	Log     zerolog.Logger
	Metrics *metrics.Metrics
}

// Options tune a Controller.
type Options struct {
	// MaxMessages caps the message log; zero or less keeps everything.
	MaxMessages int
	// SendRate is the sustained number of sends per second; zero disables
	// limiting.
	SendRate float64
	// SendBurst is the limiter's bucket size; it defaults to 1.
	SendBurst int
}

// session is one dialled channel plus everything subscribed on it.
type session struct {
	gen      uint64
	endpoint domain.Endpoint
	ch       domain.Channel

	unsubs      []func()
	releaseOnce sync.Once
}

// release unsubscribes every handler of the session and closes its channel.
// It must not be called with Controller.mu held.
func (s *session) release() {
	s.releaseOnce.Do(func() {
		for _, off := range s.unsubs {
			off()
		}
		_ = s.ch.Close()
	})
}

// Controller owns the live session and its projections.
type Controller struct {
	deps    Deps
	log     zerolog.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter
	updates chan struct{}

	// connectMu serialises session changes.
	connectMu sync.Mutex

	mu       sync.Mutex
	gen      uint64
	sess     *session
	endpoint domain.Endpoint
	roster   roster.Roster
	messages *messagelog.Log
	opened   openedCache
}

// New returns a Controller with no session.
func New(deps Deps, opts Options) *Controller {
	if deps.Codec == nil {
		deps.Codec = codec.New()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	c := &Controller{
		deps:     deps,
		log:      deps.Log.With().Str("component", "chat").Logger(),
		metrics:  deps.Metrics,
		updates:  make(chan struct{}, 1),
		messages: messagelog.New(opts.MaxMessages),
		opened:   openedCache{},
	}
	if opts.SendRate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.SendRate), max(opts.SendBurst, 1))
	}
	return c
}

// Connect tears down any current session and starts a new one at endpoint.
// The endpoint is remembered once the channel is up.
func (c *Controller) Connect(ctx context.Context, endpoint domain.Endpoint) error {
	endpoint = domain.Endpoint(strings.TrimSpace(endpoint.String()))
	if endpoint == "" {
		return fmt.Errorf("%w: empty endpoint", ErrEndpointUnreachable)
	}

	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	c.teardown()

	ch, err := c.deps.Dialer.Dial(ctx, endpoint)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint.String()).Msg("dial failed")
		return fmt.Errorf("%w: %s: %w", ErrEndpointUnreachable, endpoint, err)
	}

	c.mu.Lock()
	c.gen++
	s := &session{gen: c.gen, endpoint: endpoint, ch: ch}
	c.sess = s
	c.endpoint = endpoint
	c.roster = roster.Roster{}
	c.messages.Reset()
	clear(c.opened)
	c.subscribe(s)
	c.mu.Unlock()

	ch.Start()
	go c.watch(s)

	if err := ch.Emit(ctx, domain.EventGetMessages, nil); err != nil {
		c.teardown()
		return fmt.Errorf("request history: %w", err)
	}

	if c.deps.Store != nil {
		if err := c.deps.Store.SaveEndpoint(endpoint); err != nil {
			c.log.Warn().Err(err).Msg("remember endpoint")
		}
	}

	c.metrics.Connected.Set(1)
	c.log.Info().Str("endpoint", endpoint.String()).Msg("session started")
	c.signal()
	return nil
}

// Resume connects to the remembered endpoint. It reports false when there
// is none.
func (c *Controller) Resume(ctx context.Context) (bool, error) {
	if c.deps.Store == nil {
		return false, nil
	}
	endpoint, ok, err := c.deps.Store.LoadEndpoint()
	if err != nil {
		return false, fmt.Errorf("load endpoint: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, c.Connect(ctx, endpoint)
}

// Disconnect ends the current session, if any.
func (c *Controller) Disconnect() error {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()
	c.teardown()
	return nil
}

// Forget clears the remembered endpoint. The current session is unaffected.
func (c *Controller) Forget() error {
	if c.deps.Store == nil {
		return nil
	}
	return c.deps.Store.ClearEndpoint()
}

// Send seals text with the process keyring and emits it.
func (c *Controller) Send(ctx context.Context, text string) error {
	if text == "" {
		return crypto.ErrEmptyPlaintext
	}
	ch, err := c.outbound()
	if err != nil {
		return err
	}
	out, err := c.deps.Codec.Seal(c.deps.Keys, text)
	if err != nil {
		c.metrics.Sends.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	return c.emit(ctx, ch, out)
}

// SendPlain emits text without encryption.
func (c *Controller) SendPlain(ctx context.Context, text string) error {
	if text == "" {
		return crypto.ErrEmptyPlaintext
	}
	ch, err := c.outbound()
	if err != nil {
		return err
	}
	return c.emit(ctx, ch, c.deps.Codec.Plain(text))
}

// Rename asks the server for a new name and waits for its answer. Local state
// changes only when the server accepts.
func (c *Controller) Rename(ctx context.Context, name domain.Username) error {
	name = domain.Username(strings.TrimSpace(name.String()))
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrRenameRejected)
	}

	c.mu.Lock()
	s := c.sess
	ready := c.roster.Ready()
	c.mu.Unlock()
	if s == nil {
		c.metrics.Renames.WithLabelValues(metrics.ResultOffline).Inc()
		return ErrNotConnected
	}
	if !ready {
		c.metrics.Renames.WithLabelValues(metrics.ResultNotReady).Inc()
		return ErrNotReady
	}

	raw, err := s.ch.Request(ctx, domain.EventChangeName, domain.RenameRequest{Name: name})
	if err != nil {
		c.metrics.Renames.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("rename: %w", err)
	}
	var accepted bool
	if err := json.Unmarshal(raw, &accepted); err != nil {
		c.metrics.Renames.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("rename: decode ack: %w", err)
	}
	if !accepted {
		c.metrics.Renames.WithLabelValues(metrics.ResultRejected).Inc()
		return fmt.Errorf("%w: %s", ErrRenameRejected, name)
	}

	c.mu.Lock()
	if c.gen == s.gen {
		c.roster = roster.RenameSelf(c.roster, name)
		c.metrics.RosterSize.Set(float64(c.roster.Len()))
	}
	c.mu.Unlock()

	c.metrics.Renames.WithLabelValues(metrics.ResultOK).Inc()
	c.signal()
	return nil
}

// Connected reports whether a session is live.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// Endpoint returns the endpoint of the current or most recent session.
func (c *Controller) Endpoint() (domain.Endpoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint, c.endpoint != ""
}

// Roster returns the current roster value.
func (c *Controller) Roster() roster.Roster {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roster
}

// Self returns the local participant's name.
func (c *Controller) Self() domain.Username { return c.Roster().Self() }

// Users returns the connected participants.
func (c *Controller) Users() []domain.Username { return c.Roster().Users() }

// Messages returns the log in display order, opened for display. Each
// message was opened once on arrival; rendering reuses that result.
func (c *Controller) Messages() []domain.RenderedMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	sorted := c.messages.Sorted()
	c.opened.prune(sorted)
	return codec.Render(cachedOpener{cache: c.opened, fallback: c.deps.Codec}, sorted)
}

// Updates delivers a signal after any change to the session or its
// projections. Signals coalesce; readers re-read state on each one.
func (c *Controller) Updates() <-chan struct{} { return c.updates }

func (c *Controller) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// teardown detaches the current session and releases it.
func (c *Controller) teardown() {
	c.mu.Lock()
	s := c.sess
	c.sess = nil
	c.gen++
	c.mu.Unlock()
	if s == nil {
		return
	}
	s.release()
	c.metrics.Connected.Set(0)
	c.log.Info().Str("endpoint", s.endpoint.String()).Msg("session ended")
	c.signal()
}

// watch marks the session disconnected when its channel stops on its own.
func (c *Controller) watch(s *session) {
	<-s.ch.Done()

	c.mu.Lock()
	current := c.sess == s
	if current {
		c.sess = nil
		c.gen++
	}
	c.mu.Unlock()
	if !current {
		return
	}
	s.release()
	c.metrics.Connected.Set(0)
	c.log.Warn().Err(s.ch.Err()).Str("endpoint", s.endpoint.String()).Msg("connection lost")
	c.signal()
}

func (c *Controller) outbound() (domain.Channel, error) {
	c.mu.Lock()
	s := c.sess
	c.mu.Unlock()
	if s == nil {
		c.metrics.Sends.WithLabelValues(metrics.ResultOffline).Inc()
		return nil, ErrNotConnected
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.metrics.Sends.WithLabelValues(metrics.ResultRateLimited).Inc()
		return nil, ErrRateLimited
	}
	return s.ch, nil
}

func (c *Controller) emit(ctx context.Context, ch domain.Channel, out domain.OutgoingMessage) error {
	if err := ch.Emit(ctx, domain.EventMessage, out); err != nil {
		c.metrics.Sends.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("send: %w", err)
	}
	c.metrics.Sends.WithLabelValues(metrics.ResultOK).Inc()
	return nil
}

var _ domain.ChatService = (*Controller)(nil)
