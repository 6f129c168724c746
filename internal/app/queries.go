package service

import (
	"fmt"
	"io"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/export"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/state"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
)

// Read helpers work on one snapshot so every answer is internally
// consistent, even while intents are being applied.

// Sessions returns the filtered agenda in schedule order.
func (s *Service) Sessions(f coverage.Filter) []model.Session {
	return coverage.ScheduleOrder(f.Apply(s.Snapshot().Sessions))
}

// Facets lists the distinct tracks and rooms for filter menus.
func (s *Service) Facets() (tracks, rooms []string) {
	return coverage.Facets(s.Snapshot().Sessions)
}

// SessionDetail gathers attendees, notes and summaries for one session.
func (s *Service) SessionDetail(id string) (types.SessionDetail, error) {
	snap := s.Snapshot()
	sess, ok := snap.Session(id)
	if !ok {
		return types.SessionDetail{}, fmt.Errorf("%w: session %q", state.ErrNotFound, id)
	}
	members := coverage.MembersAttendingSession(id, snap.Attendance, snap.Team)
	attendees := make([]types.Attendee, len(members))
	for i, m := range members {
		attended := coverage.SessionsForMember(m.ID, snap.Attendance, snap.Sessions)
		attendees[i] = types.Attendee{TeamMember: m, Conflict: coverage.HasConflict(sess, attended)}
	}
	return types.SessionDetail{
		Session:   sess,
		Attendees: attendees,
		Notes:     coverage.NotesForSession(id, snap.Notes),
		Summaries: coverage.SummariesForSession(id, snap.Summaries),
	}, nil
}

// MemberSessions is one member's schedule in time order.
func (s *Service) MemberSessions(memberID string) ([]model.Session, error) {
	snap := s.Snapshot()
	if _, ok := snap.Member(memberID); !ok {
		return nil, fmt.Errorf("%w: member %q", state.ErrNotFound, memberID)
	}
	return coverage.ScheduleOrder(coverage.SessionsForMember(memberID, snap.Attendance, snap.Sessions)), nil
}

// MemberConflicts lists overlapping pairs on one member's schedule.
func (s *Service) MemberConflicts(memberID string) ([]coverage.ConflictPair, error) {
	snap := s.Snapshot()
	if _, ok := snap.Member(memberID); !ok {
		return nil, fmt.Errorf("%w: member %q", state.ErrNotFound, memberID)
	}
	return coverage.Conflicts(memberID, snap.Sessions, snap.Attendance), nil
}

// Coverage ranks sessions by how many members attend.
func (s *Service) Coverage() coverage.Ranking {
	snap := s.Snapshot()
	return coverage.Rank(snap.Sessions, snap.Attendance)
}

// Briefing summarizes one conference day.
func (s *Service) Briefing(day int) (coverage.DailyBriefing, error) {
	if day < model.MinDay || day > model.MaxDay {
		return coverage.DailyBriefing{}, fmt.Errorf("%w: day %d outside %d..%d", ErrInvalidInput, day, model.MinDay, model.MaxDay)
	}
	snap := s.Snapshot()
	return coverage.Briefing(day, snap.Sessions, snap.Attendance, snap.Team), nil
}

// Notes lists notes for sessionID, or all notes when it is empty.
func (s *Service) Notes(sessionID string) []model.Note {
	snap := s.Snapshot()
	if sessionID == "" {
		return snap.Notes
	}
	return coverage.NotesForSession(sessionID, snap.Notes)
}

// SearchSummaries filters summaries, newest first.
func (s *Service) SearchSummaries(q coverage.SummaryQuery) []model.Summary {
	snap := s.Snapshot()
	return coverage.SearchSummaries(q, snap.Summaries, snap.Sessions)
}

// ExportCSV writes the full schedule with attendees.
func (s *Service) ExportCSV(w io.Writer) error {
	return export.WriteCSV(w, s.Snapshot())
}

// ExportAgenda writes a printable agenda for memberID, or the whole team.
func (s *Service) ExportAgenda(w io.Writer, memberID string) error {
	return export.WriteAgenda(w, s.Snapshot(), memberID)
}
