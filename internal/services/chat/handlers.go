package chat

import (
	"encoding/json"
	"fmt"

	"sealchat/internal/domain"
	"sealchat/internal/roster"
)

// mutation applies one decoded event to the projections. It runs with c.mu
// held; decoding and decryption happen before the lock is taken.
type mutation func()

// subscribe registers the session's handlers. Called with c.mu held.
func (c *Controller) subscribe(s *session) {
	c.on(s, domain.EventInit, c.onInit)
	c.on(s, domain.EventMessage, c.onMessage)
	c.on(s, domain.EventDeleteMessage, c.onDeleteMessage)
	c.on(s, domain.EventUserJoined, c.onUserJoined)
	c.on(s, domain.EventUserLeft, c.onUserLeft)
	c.on(s, domain.EventChangeName, c.onChangeName)
}

// on subscribes decode for event on s. The mutation it returns is applied
// only while s is still the current session.
func (c *Controller) on(s *session, event string, decode func(raw json.RawMessage) (mutation, error)) {
	off := s.ch.Subscribe(event, func(raw json.RawMessage) {
		c.metrics.Events.WithLabelValues(event).Inc()

		apply, err := decode(raw)
		if err != nil {
			c.log.Warn().Err(err).Str("event", event).Msg("discarding event")
			return
		}

		c.mu.Lock()
		if c.gen != s.gen {
			c.mu.Unlock()
			c.log.Debug().Str("event", event).Msg("dropping event from a closed session")
			return
		}
		apply()
		c.metrics.RosterSize.Set(float64(c.roster.Len()))
		c.metrics.LogSize.Set(float64(c.messages.Len()))
		c.mu.Unlock()

		c.signal()
	})
	s.unsubs = append(s.unsubs, off)
}

func (c *Controller) onInit(raw json.RawMessage) (mutation, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return func() { c.roster = roster.Apply(c.roster, roster.Snapshot(snap)) }, nil
}

func (c *Controller) onMessage(raw json.RawMessage) (mutation, error) {
	var msg domain.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	text, openErr := c.deps.Codec.Open(msg)

	return func() {
		if !c.messages.Append(msg) {
			c.log.Debug().Str("id", msg.ID.String()).Msg("duplicate message")
			return
		}
		c.opened[msg] = openResult{text: text, err: openErr}
		if openErr != nil {
			c.metrics.Undecipherable.Inc()
			c.log.Debug().Err(openErr).Str("user", msg.User.String()).Msg("undecipherable message")
		}
	}, nil
}

func (c *Controller) onDeleteMessage(raw json.RawMessage) (mutation, error) {
	var id domain.MessageID
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("decode message id: %w", err)
	}
	return func() {
		if !c.messages.Delete(id) {
			c.log.Debug().Str("id", id.String()).Msg("delete of unknown message")
		}
	}, nil
}

func (c *Controller) onUserJoined(raw json.RawMessage) (mutation, error) {
	var name domain.Username
	if err := json.Unmarshal(raw, &name); err != nil {
		return nil, fmt.Errorf("decode username: %w", err)
	}
	return func() { c.roster = roster.Apply(c.roster, roster.Joined(name)) }, nil
}

func (c *Controller) onUserLeft(raw json.RawMessage) (mutation, error) {
	var name domain.Username
	if err := json.Unmarshal(raw, &name); err != nil {
		return nil, fmt.Errorf("decode username: %w", err)
	}
	return func() { c.roster = roster.Apply(c.roster, roster.Left(name)) }, nil
}

func (c *Controller) onChangeName(raw json.RawMessage) (mutation, error) {
	var r domain.Rename
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode rename: %w", err)
	}
	return func() { c.roster = roster.Apply(c.roster, roster.Renamed(r)) }, nil
}
