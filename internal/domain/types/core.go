package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Username is a participant display name. It is unique within a roster at
// any instant but is not a stable identity: a rename replaces the value.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Endpoint is a chat server address as entered by the user or stored.
type Endpoint string

// String returns the string form of the endpoint.
func (e Endpoint) String() string { return string(e) }

// MessageID is the server-assigned identifier of a message. Servers may send
// it as a JSON string or a JSON number; a number keeps its literal text, so
// 1 and "1" name the same message while 1 and 1.0 do not.
type MessageID string

// String returns the string form of the identifier.
func (id MessageID) String() string { return string(id) }

// UnmarshalJSON accepts a quoted string, a number or null.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MessageID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("message id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("message id %q: %w", n, err)
	}
	*id = MessageID(n.String())
	return nil
}
