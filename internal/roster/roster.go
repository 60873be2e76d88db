// Package roster folds presence events into the list of connected
// participants.
//
// A Roster is an immutable value: every transition returns a new Roster and
// leaves its input untouched, so an older value held by a renderer never
// changes underneath it. Names are the only identifier the protocol has, so
// removal and replacement act on the first matching name.
package roster

import (
	"slices"

	"sealchat/internal/domain"
)

// Roster is the set of connected participants plus the local participant's
// current name. The zero value is an empty roster that has not yet seen a
// snapshot.
type Roster struct {
	self  domain.Username
	users []domain.Username
	ready bool
}

// Event is one roster input. It is implemented by Snapshot, Joined, Left and
// Renamed.
type Event interface {
	apply(Roster) Roster
}

// Snapshot replaces the roster wholesale.
type Snapshot domain.Snapshot

// Joined adds one participant.
type Joined domain.Username

// Left removes one participant.
type Left domain.Username

// Renamed replaces one participant's name.
type Renamed domain.Rename

// Apply folds ev into prev. Deltas that arrive before the first snapshot are
// ignored because the snapshot supersedes them.
func Apply(prev Roster, ev Event) Roster {
	if ev == nil {
		return prev
	}
	if _, ok := ev.(Snapshot); !ok && !prev.ready {
		return prev
	}
	return ev.apply(prev)
}

// Fold applies events in order starting from prev.
func Fold(prev Roster, events ...Event) Roster {
	for _, ev := range events {
		prev = Apply(prev, ev)
	}
	return prev
}

// RenameSelf returns prev with the local participant renamed to name. It is
// applied only after the server has acknowledged the rename.
func RenameSelf(prev Roster, name domain.Username) Roster {
	return Apply(prev, Renamed{OldName: prev.self, NewName: name})
}

func (s Snapshot) apply(Roster) Roster {
	users := make([]domain.Username, 0, len(s.Users))
	for _, u := range s.Users {
		if !slices.Contains(users, u) {
			users = append(users, u)
		}
	}
	return Roster{self: s.Name, users: users, ready: true}
}

func (j Joined) apply(prev Roster) Roster {
	name := domain.Username(j)
	if prev.Contains(name) {
		return prev
	}
	next := prev.clone(len(prev.users) + 1)
	next.users = append(next.users, name)
	return next
}

func (l Left) apply(prev Roster) Roster {
	i := slices.Index(prev.users, domain.Username(l))
	if i < 0 {
		return prev
	}
	next := prev.clone(len(prev.users))
	next.users = slices.Delete(next.users, i, i+1)
	return next
}

func (r Renamed) apply(prev Roster) Roster {
	next := prev.clone(len(prev.users))
	if next.self == r.OldName {
		next.self = r.NewName
	}
	if r.OldName == r.NewName {
		return next
	}
	i := slices.Index(next.users, r.OldName)
	if i < 0 {
		return next
	}
	if slices.Contains(next.users, r.NewName) {
		next.users = slices.Delete(next.users, i, i+1)
		return next
	}
	next.users[i] = r.NewName
	return next
}

// clone copies r with a fresh backing array of at least capacity n.
func (r Roster) clone(n int) Roster {
	users := make([]domain.Username, len(r.users), max(n, len(r.users)))
	copy(users, r.users)
	r.users = users
	return r
}

// Self returns the local participant's current name.
func (r Roster) Self() domain.Username { return r.self }

// Ready reports whether a snapshot has been applied.
func (r Roster) Ready() bool { return r.ready }

// Users returns a copy of the participant names in roster order.
func (r Roster) Users() []domain.Username { return slices.Clone(r.users) }

// Len returns the number of participants.
func (r Roster) Len() int { return len(r.users) }

// Contains reports whether name is in the roster.
func (r Roster) Contains(name domain.Username) bool {
	return slices.Contains(r.users, name)
}

// Equal reports whether two rosters hold the same names in the same order
// and the same local name.
func (r Roster) Equal(o Roster) bool {
	return r.self == o.self && r.ready == o.ready && slices.Equal(r.users, o.users)
}
