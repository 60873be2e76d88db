// Package messagelog keeps the messages received during one chat session.
//
// Messages are stored in arrival order. Display order is derived on demand by
// Sorted, ascending by server time, and never written back to storage.
package messagelog

import (
	"cmp"
	"slices"

	"sealchat/internal/domain"
)

// DefaultLimit is the retention limit used when none is configured.
const DefaultLimit = 1000

// Log holds the session's messages. It is not safe for concurrent use;
// callers serialise access.
type Log struct {
	entries []domain.Message
	limit   int
}

// New returns an empty log that keeps at most limit messages. A limit of zero
// or less keeps everything.
func New(limit int) *Log {
	return &Log{limit: limit}
}

// Append stores msg. A message whose id is already present is ignored so a
// redelivered event does not duplicate it; messages without an id always
// append. It reports whether msg was stored.
func (l *Log) Append(msg domain.Message) bool {
	if msg.ID != "" && l.index(msg.ID) >= 0 {
		return false
	}
	l.entries = append(l.entries, msg)
	if l.limit > 0 && len(l.entries) > l.limit {
		l.evictOldest()
	}
	return true
}

// Delete removes the message with id. An unknown id leaves the log untouched
// and returns false.
func (l *Log) Delete(id domain.MessageID) bool {
	if id == "" {
		return false
	}
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true
}

// Sorted returns a new slice of every stored message in display order.
func (l *Log) Sorted() []domain.Message {
	out := slices.Clone(l.entries)
	slices.SortStableFunc(out, Compare)
	return out
}

// Arrived returns a copy of the messages in arrival order.
func (l *Log) Arrived() []domain.Message { return slices.Clone(l.entries) }

// Len returns the number of stored messages.
func (l *Log) Len() int { return len(l.entries) }

// Reset drops every message.
func (l *Log) Reset() { l.entries = nil }

// Compare orders messages by time, then by the remaining fields so that two
// logs holding the same messages render identically whatever the arrival
// order was.
func Compare(a, b domain.Message) int {
	return cmp.Or(
		cmp.Compare(a.Time, b.Time),
		cmp.Compare(a.ID, b.ID),
		cmp.Compare(a.User, b.User),
		cmp.Compare(a.Value, b.Value),
		cmp.Compare(a.Key, b.Key),
	)
}

func (l *Log) index(id domain.MessageID) int {
	return slices.IndexFunc(l.entries, func(m domain.Message) bool { return m.ID == id })
}

// evictOldest drops the message that sorts first.
func (l *Log) evictOldest() {
	oldest := 0
	for i := 1; i < len(l.entries); i++ {
		if Compare(l.entries[i], l.entries[oldest]) < 0 {
			oldest = i
		}
	}
	l.entries = slices.Delete(l.entries, oldest, oldest+1)
}
