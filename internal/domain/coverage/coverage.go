// Package coverage derives membership, conflicts and coverage statistics
// from sessions, team members and attendance links.
//
// Every function is pure and safe for concurrent use. Dangling references
// (an attendance link to a session or member that no longer exists) are
// treated as "no match" rather than an error.
package coverage

import (
	"slices"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// rankSize caps MostCovered and LeastCovered.
const rankSize = 3

// MembersAttendingSession returns the team members linked to sessionID, in
// team order. Duplicate links never produce duplicate members.
func MembersAttendingSession(sessionID string, attendance []model.Attendance, team []model.TeamMember) []model.TeamMember {
	ids := make(map[string]struct{})
	for _, a := range attendance {
		if a.SessionID == sessionID {
			ids[a.MemberID] = struct{}{}
		}
	}

	out := make([]model.TeamMember, 0, len(ids))
	if len(ids) == 0 {
		return out
	}
	for _, m := range team {
		if _, ok := ids[m.ID]; ok {
			out = append(out, m)
			delete(ids, m.ID)
		}
	}
	return out
}

// SessionsForMember returns the sessions memberID is linked to, in sessions order.
func SessionsForMember(memberID string, attendance []model.Attendance, sessions []model.Session) []model.Session {
	ids := make(map[string]struct{})
	for _, a := range attendance {
		if a.MemberID == memberID {
			ids[a.SessionID] = struct{}{}
		}
	}

	out := make([]model.Session, 0, len(ids))
	if len(ids) == 0 {
		return out
	}
	for _, s := range sessions {
		if _, ok := ids[s.ID]; ok {
			out = append(out, s)
			delete(ids, s.ID)
		}
	}
	return out
}

// SessionsOverlap reports whether a and b share a day and their half-open
// [start, end) intervals intersect. It is symmetric and true for a session
// compared with itself. A session with an unparsable time overlaps nothing.
func SessionsOverlap(a, b model.Session) bool {
	if a.Day != b.Day {
		return false
	}
	startA, endA, ok := a.Span()
	if !ok {
		return false
	}
	startB, endB, ok := b.Span()
	if !ok {
		return false
	}
	return startA < endB && startB < endA
}

// HasConflict reports whether session overlaps any attended session other
// than itself. Conflicts are advisory and never block attendance.
func HasConflict(session model.Session, attended []model.Session) bool {
	for _, other := range attended {
		if other.ID == session.ID {
			continue
		}
		if SessionsOverlap(session, other) {
			return true
		}
	}
	return false
}

// ConflictPair is two overlapping sessions on one member's schedule.
type ConflictPair struct {
	First  model.Session `json:"first"`
	Second model.Session `json:"second"`
}

// Conflicts lists every overlapping pair among memberID's sessions. Pairs
// follow sessions order.
func Conflicts(memberID string, sessions []model.Session, attendance []model.Attendance) []ConflictPair {
	attended := SessionsForMember(memberID, attendance, sessions)
	out := make([]ConflictPair, 0)
	for i := range attended {
		for j := i + 1; j < len(attended); j++ {
			if SessionsOverlap(attended[i], attended[j]) {
				out = append(out, ConflictPair{First: attended[i], Second: attended[j]})
			}
		}
	}
	return out
}

// SessionCount pairs a session with its number of attendees.
type SessionCount struct {
	Session model.Session `json:"session"`
	Count   int           `json:"count"`
}

// Ranking is the coverage view of a schedule.
type Ranking struct {
	// MostCovered holds up to three sessions with the highest counts.
	MostCovered []model.Session `json:"mostCovered"`
	// LeastCovered holds up to three sessions with the lowest non-zero
	// counts, kept in the descending order of Counts.
	LeastCovered []model.Session `json:"leastCovered"`
	// Counts holds every session, sorted by descending count with ties in
	// input order.
	Counts []SessionCount `json:"counts"`
}

// Rank counts attendees per session and picks the most and least covered.
// Sessions without attendees never appear in LeastCovered.
func Rank(sessions []model.Session, attendance []model.Attendance) Ranking {
	perSession := make(map[string]map[string]struct{}, len(sessions))
	for _, a := range attendance {
		members, ok := perSession[a.SessionID]
		if !ok {
			members = make(map[string]struct{})
			perSession[a.SessionID] = members
		}
		members[a.MemberID] = struct{}{}
	}

	counts := make([]SessionCount, 0, len(sessions))
	for _, s := range sessions {
		counts = append(counts, SessionCount{Session: s, Count: len(perSession[s.ID])})
	}
	slices.SortStableFunc(counts, func(a, b SessionCount) int {
		return b.Count - a.Count
	})

	most := make([]model.Session, 0, rankSize)
	for _, c := range counts[:min(rankSize, len(counts))] {
		most = append(most, c.Session)
	}

	covered := make([]SessionCount, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			covered = append(covered, c)
		}
	}
	least := make([]model.Session, 0, rankSize)
	for _, c := range covered[max(0, len(covered)-rankSize):] {
		least = append(least, c.Session)
	}

	return Ranking{MostCovered: most, LeastCovered: least, Counts: counts}
}

// ScheduleOrder returns a copy of sessions sorted by day, then start time.
func ScheduleOrder(sessions []model.Session) []model.Session {
	out := slices.Clone(sessions)
	if out == nil {
		out = []model.Session{}
	}
	slices.SortStableFunc(out, func(a, b model.Session) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		return compareStart(a, b)
	})
	return out
}

// compareStart orders by start minute; unparsable times sort last.
func compareStart(a, b model.Session) int {
	sa, _, okA := a.Span()
	sb, _, okB := b.Span()
	switch {
	case okA && okB:
		return sa - sb
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}
