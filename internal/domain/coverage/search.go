package coverage

import (
	"slices"
	"strings"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// SummariesForSession returns the summaries attached to sessionID in input order.
func SummariesForSession(sessionID string, summaries []model.Summary) []model.Summary {
	out := make([]model.Summary, 0)
	for _, s := range summaries {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out
}

// NotesForSession returns the notes attached to sessionID in input order.
func NotesForSession(sessionID string, notes []model.Note) []model.Note {
	out := make([]model.Note, 0)
	for _, n := range notes {
		if n.SessionID == sessionID {
			out = append(out, n)
		}
	}
	return out
}

// Filter narrows the session browser. Zero fields match everything.
type Filter struct {
	Term  string // case-insensitive match on title, description, speaker name
	Day   int
	Track string
	Room  string
}

// Apply returns the sessions matching f in input order.
func (f Filter) Apply(sessions []model.Session) []model.Session {
	term := strings.ToLower(strings.TrimSpace(f.Term))
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if term != "" &&
			!strings.Contains(strings.ToLower(s.Title), term) &&
			!strings.Contains(strings.ToLower(s.Description), term) &&
			!strings.Contains(strings.ToLower(s.Speaker.Name), term) {
			continue
		}
		if f.Day != 0 && s.Day != f.Day {
			continue
		}
		if f.Track != "" && s.Track != f.Track {
			continue
		}
		if f.Room != "" && s.Room != f.Room {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Facets returns the sorted distinct tracks and rooms across sessions.
func Facets(sessions []model.Session) (tracks, rooms []string) {
	tracks = make([]string, 0)
	rooms = make([]string, 0)
	for _, s := range sessions {
		if s.Track != "" {
			tracks = append(tracks, s.Track)
		}
		if s.Room != "" {
			rooms = append(rooms, s.Room)
		}
	}
	slices.Sort(tracks)
	slices.Sort(rooms)
	return slices.Compact(tracks), slices.Compact(rooms)
}

// SummaryQuery filters the knowledge board.
type SummaryQuery struct {
	Term      string
	Day       int
	AuthorIDs []string
}

// SearchSummaries returns matching summaries, newest first. When Term or Day
// is set, summaries whose session cannot be resolved are dropped.
func SearchSummaries(q SummaryQuery, summaries []model.Summary, sessions []model.Session) []model.Summary {
	byID := make(map[string]model.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
	}
	term := strings.ToLower(strings.TrimSpace(q.Term))

	out := make([]model.Summary, 0, len(summaries))
	for _, sum := range summaries {
		session, known := byID[sum.SessionID]
		if term != "" && (!known || !summaryMatches(term, sum, session)) {
			continue
		}
		if q.Day != 0 && (!known || session.Day != q.Day) {
			continue
		}
		if len(q.AuthorIDs) > 0 && !slices.Contains(q.AuthorIDs, sum.AuthorID) {
			continue
		}
		out = append(out, sum)
	}

	slices.SortStableFunc(out, func(a, b model.Summary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func summaryMatches(term string, sum model.Summary, session model.Session) bool {
	if strings.Contains(strings.ToLower(session.Title), term) ||
		strings.Contains(strings.ToLower(sum.ActionableInsights), term) {
		return true
	}
	for _, t := range sum.KeyTakeaways {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	for _, r := range sum.Resources {
		if strings.Contains(strings.ToLower(r), term) {
			return true
		}
	}
	return false
}
