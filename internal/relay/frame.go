package relay

import (
	"encoding/json"
	"errors"
)

var (
	// ErrClosed is returned for operations on a stopped connection.
	ErrClosed = errors.New("relay: connection closed")
	// ErrQueueFull is returned when the outbound queue cannot take an event.
	ErrQueueFull = errors.New("relay: outbound queue full")
)

// Frame is the wire form of one event.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   string          `json:"ack,omitempty"`
}

// NewFrame encodes payload into a frame for event. A nil payload yields a
// frame without data.
func NewFrame(event string, payload any) (Frame, error) {
	f := Frame{Event: event}
	if payload == nil {
		return f, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	f.Data = b
	return f, nil
}
