package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"sealchat/internal/domain"
)

var errFakeClosed = errors.New("fake channel closed")

type fakeSub struct {
	event   string
	handler domain.EventHandler
	active  bool
}

type sent struct {
	event   string
	payload json.RawMessage
}

// fakeChannel is an in-memory domain.Channel. Events are delivered
// synchronously on the caller's goroutine.
type fakeChannel struct {
	mu      sync.Mutex
	subs    []*fakeSub
	sent    []sent
	started bool
	closed  bool
	err     error

	// reply answers Request; nil acknowledges with true.
	reply func(event string, payload json.RawMessage) (json.RawMessage, error)

	done chan struct{}
	once sync.Once
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{done: make(chan struct{})}
}

func (f *fakeChannel) Emit(_ context.Context, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errFakeClosed
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.sent = append(f.sent, sent{event: event, payload: raw})
	return nil
}

func (f *fakeChannel) Request(ctx context.Context, event string, payload any) (json.RawMessage, error) {
	if err := f.Emit(ctx, event, payload); err != nil {
		return nil, err
	}
	f.mu.Lock()
	reply := f.reply
	last := f.sent[len(f.sent)-1].payload
	f.mu.Unlock()
	if reply == nil {
		return json.RawMessage("true"), nil
	}
	return reply(event, last)
}

func (f *fakeChannel) Subscribe(event string, handler domain.EventHandler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeSub{event: event, handler: handler, active: true}
	f.subs = append(f.subs, s)
	return func() {
		f.mu.Lock()
		s.active = false
		f.mu.Unlock()
	}
}

func (f *fakeChannel) Start() {
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()
}

func (f *fakeChannel) Done() <-chan struct{} { return f.done }

func (f *fakeChannel) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeChannel) Close() error {
	f.stop(errFakeClosed)
	return nil
}

func (f *fakeChannel) stop(err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.err = err
		f.mu.Unlock()
		close(f.done)
	})
}

// drop simulates the server going away.
func (f *fakeChannel) drop() { f.stop(io.EOF) }

// deliver hands payload to the active subscribers of event.
func (f *fakeChannel) deliver(event string, payload any) {
	f.dispatch(event, payload, false)
}

// deliverStale also reaches handlers that were unsubscribed, as a dispatch
// already in flight during teardown would.
func (f *fakeChannel) deliverStale(event string, payload any) {
	f.dispatch(event, payload, true)
}

func (f *fakeChannel) dispatch(event string, payload any, stale bool) {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			panic(err)
		}
	}
	f.mu.Lock()
	var handlers []domain.EventHandler
	for _, s := range f.subs {
		if s.event == event && (s.active || stale) {
			handlers = append(handlers, s.handler)
		}
	}
	f.mu.Unlock()
	for _, h := range handlers {
		h(raw)
	}
}

func (f *fakeChannel) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if s.active {
			n++
		}
	}
	return n
}

func (f *fakeChannel) sentEvents() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sent...)
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeDialer hands out pre-registered channels by endpoint.
type fakeDialer struct {
	mu       sync.Mutex
	channels map[domain.Endpoint]*fakeChannel
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{channels: map[domain.Endpoint]*fakeChannel{}}
}

func (d *fakeDialer) add(endpoint domain.Endpoint) *fakeChannel {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := newFakeChannel()
	d.channels[endpoint] = ch
	return ch
}

func (d *fakeDialer) Dial(_ context.Context, endpoint domain.Endpoint) (domain.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch, ok := d.channels[endpoint]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return ch, nil
}
