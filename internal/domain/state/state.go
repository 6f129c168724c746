// Package state advances the coordination snapshot through a closed set of
// intents. Apply is pure: it never mutates its input and a rejected intent
// leaves the snapshot exactly as it was.
package state

import (
	"slices"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// Intent is a named state change. The set is closed to this package.
type Intent interface {
	// Kind is a stable snake_case name used in logs and metrics.
	Kind() string
	apply(s model.Snapshot) (model.Snapshot, error)
}

// Apply runs intent against snap followed by the integrity pass. On error
// snap is returned unchanged together with the error.
func Apply(snap model.Snapshot, intent Intent) (model.Snapshot, error) {
	if intent == nil {
		return snap, ErrNilIntent
	}
	next, err := intent.apply(snap.Normalize())
	if err != nil {
		return snap, err
	}
	return Reconcile(next), nil
}

// Helpers below never write into an input slice. Each returns fresh backing
// storage so published snapshots stay immutable.

func appendTo[T any](items []T, v T) []T {
	return append(slices.Clip(items), v)
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := slices.Clone(items)
	out[i] = v
	return out
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func keep[T any](items []T, ok func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		if ok(v) {
			out = append(out, v)
		}
	}
	return out
}

func memberIndex(team []model.TeamMember, id string) int {
	return slices.IndexFunc(team, func(m model.TeamMember) bool { return m.ID == id })
}

func sessionIndex(sessions []model.Session, id string) int {
	return slices.IndexFunc(sessions, func(s model.Session) bool { return s.ID == id })
}

func noteIndex(notes []model.Note, id string) int {
	return slices.IndexFunc(notes, func(n model.Note) bool { return n.ID == id })
}

func summaryIndex(summaries []model.Summary, id string) int {
	return slices.IndexFunc(summaries, func(s model.Summary) bool { return s.ID == id })
}
