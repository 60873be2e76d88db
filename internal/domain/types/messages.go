package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Millis is a server timestamp in Unix milliseconds. Servers that send a
// fractional value are truncated to the whole millisecond.
type Millis int64

// UnmarshalJSON accepts an integer or fractional JSON number, or null.
func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*m = Millis(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return fmt.Errorf("timestamp %q out of range", n)
	}
	*m = Millis(math.Trunc(f))
	return nil
}

// Message is one entry of the shared chat log as delivered by the server.
//
// Value holds ciphertext when Key is set and plaintext otherwise. Key is the
// encoded session secret of the sender. Time is assigned by the server in
// Unix milliseconds and is the only ordering key for display.
type Message struct {
	Value string    `json:"value"`
	Key   string    `json:"key,omitempty"`
	User  Username  `json:"user,omitempty"`
	Time  Millis    `json:"time"`
	ID    MessageID `json:"id,omitempty"`
}

// Encrypted reports whether the message carries an encoded key.
func (m Message) Encrypted() bool { return m.Key != "" }

// Timestamp returns Time as a time.Time.
func (m Message) Timestamp() time.Time { return time.UnixMilli(int64(m.Time)) }

// OutgoingMessage is the payload of a client-sent "message" event.
type OutgoingMessage struct {
	Value string `json:"value"`
	Key   string `json:"key,omitempty"`
}

// RenderedMessage is a Message after decryption, ready for display.
// Err is set when the message could not be decoded or decrypted; Text is
// then empty and the message should be shown as undecipherable.
type RenderedMessage struct {
	ID        MessageID
	User      Username
	Text      string
	Time      time.Time
	Encrypted bool
	Err       error
}

// Undecipherable reports whether the message failed to open.
func (m RenderedMessage) Undecipherable() bool { return m.Err != nil }
