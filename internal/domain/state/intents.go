package state

import (
	"fmt"
	"slices"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// Team intents.

// AddMember appends a new team member.
type AddMember struct{ Member model.TeamMember }

// UpdateMember replaces a member by id.
type UpdateMember struct{ Member model.TeamMember }

// RemoveMember deletes a member. The integrity pass drops their attendance,
// notes and summaries and detaches sessions they created.
type RemoveMember struct{ ID string }

// SetTeam replaces the team wholesale.
type SetTeam struct{ Team []model.TeamMember }

func (AddMember) Kind() string    { return "add_member" }
func (UpdateMember) Kind() string { return "update_member" }
func (RemoveMember) Kind() string { return "remove_member" }
func (SetTeam) Kind() string      { return "set_team" }

func (i AddMember) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Member.Validate(); err != nil {
		return s, err
	}
	if memberIndex(s.Team, i.Member.ID) >= 0 {
		return s, fmt.Errorf("%w: member %q", ErrDuplicateID, i.Member.ID)
	}
	s.Team = appendTo(s.Team, i.Member)
	return s, nil
}

func (i UpdateMember) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Member.Validate(); err != nil {
		return s, err
	}
	idx := memberIndex(s.Team, i.Member.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: member %q", ErrNotFound, i.Member.ID)
	}
	s.Team = replaceAt(s.Team, idx, i.Member)
	return s, nil
}

func (i RemoveMember) apply(s model.Snapshot) (model.Snapshot, error) {
	idx := memberIndex(s.Team, i.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: member %q", ErrNotFound, i.ID)
	}
	s.Team = removeAt(s.Team, idx)
	return s, nil
}

func (i SetTeam) apply(s model.Snapshot) (model.Snapshot, error) {
	seen := make(map[string]struct{}, len(i.Team))
	for _, m := range i.Team {
		if err := m.Validate(); err != nil {
			return s, err
		}
		if _, dup := seen[m.ID]; dup {
			return s, fmt.Errorf("%w: member %q", ErrDuplicateID, m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	s.Team = slices.Clone(i.Team)
	if s.Team == nil {
		s.Team = []model.TeamMember{}
	}
	return s, nil
}

// Session intents.

// SetSessions replaces every catalog session with Catalog and keeps custom
// sessions. A catalog entry whose id is taken by a custom session is skipped
// and the custom session wins. Links to sessions that no longer resolve are
// pruned.
type SetSessions struct{ Catalog []model.Session }

// AddSession appends a session, usually a custom one. When Attendee is set
// that member is signed up in the same step; an unknown attendee rejects
// the whole intent.
type AddSession struct {
	Session  model.Session
	Attendee string
}

// UpdateSession replaces a session by id. Provenance is kept from the stored session.
type UpdateSession struct{ Session model.Session }

// DeleteSession removes a session and, through the integrity pass, its
// attendance, notes and summaries.
type DeleteSession struct{ ID string }

func (SetSessions) Kind() string   { return "set_sessions" }
func (AddSession) Kind() string    { return "add_session" }
func (UpdateSession) Kind() string { return "update_session" }
func (DeleteSession) Kind() string { return "delete_session" }

func (i SetSessions) apply(s model.Snapshot) (model.Snapshot, error) {
	custom := keep(s.Sessions, func(sess model.Session) bool { return sess.IsCustom })

	customIDs := make(map[string]struct{}, len(custom))
	for _, sess := range custom {
		customIDs[sess.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(i.Catalog))
	next := make([]model.Session, 0, len(i.Catalog)+len(custom))
	for _, sess := range i.Catalog {
		if _, taken := customIDs[sess.ID]; taken {
			continue
		}
		if err := sess.Validate(); err != nil {
			return s, err
		}
		if _, dup := seen[sess.ID]; dup {
			return s, fmt.Errorf("%w: session %q", ErrDuplicateID, sess.ID)
		}
		seen[sess.ID] = struct{}{}
		sess.IsCustom = false
		sess.CreatedBy = ""
		next = append(next, sess)
	}
	s.Sessions = append(next, custom...)
	return s, nil
}

func (i AddSession) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Session.Validate(); err != nil {
		return s, err
	}
	if sessionIndex(s.Sessions, i.Session.ID) >= 0 {
		return s, fmt.Errorf("%w: session %q", ErrDuplicateID, i.Session.ID)
	}
	if i.Attendee != "" && memberIndex(s.Team, i.Attendee) < 0 {
		return s, fmt.Errorf("%w: member %q", ErrNotFound, i.Attendee)
	}
	s.Sessions = appendTo(s.Sessions, i.Session)
	if i.Attendee != "" {
		s.Attendance = appendTo(s.Attendance, model.Attendance{SessionID: i.Session.ID, MemberID: i.Attendee})
	}
	return s, nil
}

func (i UpdateSession) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Session.Validate(); err != nil {
		return s, err
	}
	idx := sessionIndex(s.Sessions, i.Session.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: session %q", ErrNotFound, i.Session.ID)
	}
	updated := i.Session
	updated.IsCustom = s.Sessions[idx].IsCustom
	updated.CreatedBy = s.Sessions[idx].CreatedBy
	s.Sessions = replaceAt(s.Sessions, idx, updated)
	return s, nil
}

func (i DeleteSession) apply(s model.Snapshot) (model.Snapshot, error) {
	idx := sessionIndex(s.Sessions, i.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: session %q", ErrNotFound, i.ID)
	}
	s.Sessions = removeAt(s.Sessions, idx)
	return s, nil
}

// ToggleAttendance flips one (session, member) link. It is the only way to
// change attendance, so a pair is never linked twice.
type ToggleAttendance struct {
	SessionID string
	MemberID  string
}

func (ToggleAttendance) Kind() string { return "toggle_attendance" }

func (i ToggleAttendance) apply(s model.Snapshot) (model.Snapshot, error) {
	if sessionIndex(s.Sessions, i.SessionID) < 0 {
		return s, fmt.Errorf("%w: session %q", ErrNotFound, i.SessionID)
	}
	if memberIndex(s.Team, i.MemberID) < 0 {
		return s, fmt.Errorf("%w: member %q", ErrNotFound, i.MemberID)
	}
	link := model.Attendance{SessionID: i.SessionID, MemberID: i.MemberID}
	if slices.Contains(s.Attendance, link) {
		s.Attendance = keep(s.Attendance, func(a model.Attendance) bool { return a != link })
		return s, nil
	}
	s.Attendance = appendTo(s.Attendance, link)
	return s, nil
}

// Note intents.

// AddNote attaches a note to an existing session and member.
type AddNote struct{ Note model.Note }

// UpdateNote replaces a note's content; CreatedAt is kept.
type UpdateNote struct{ Note model.Note }

// DeleteNote removes a note.
type DeleteNote struct{ ID string }

func (AddNote) Kind() string    { return "add_note" }
func (UpdateNote) Kind() string { return "update_note" }
func (DeleteNote) Kind() string { return "delete_note" }

func (i AddNote) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Note.Validate(); err != nil {
		return s, err
	}
	if noteIndex(s.Notes, i.Note.ID) >= 0 {
		return s, fmt.Errorf("%w: note %q", ErrDuplicateID, i.Note.ID)
	}
	if err := requireParents(s, i.Note.SessionID, i.Note.MemberID); err != nil {
		return s, err
	}
	s.Notes = appendTo(s.Notes, i.Note)
	return s, nil
}

func (i UpdateNote) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Note.Validate(); err != nil {
		return s, err
	}
	idx := noteIndex(s.Notes, i.Note.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: note %q", ErrNotFound, i.Note.ID)
	}
	if err := requireParents(s, i.Note.SessionID, i.Note.MemberID); err != nil {
		return s, err
	}
	updated := i.Note
	updated.CreatedAt = s.Notes[idx].CreatedAt
	s.Notes = replaceAt(s.Notes, idx, updated)
	return s, nil
}

func (i DeleteNote) apply(s model.Snapshot) (model.Snapshot, error) {
	idx := noteIndex(s.Notes, i.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: note %q", ErrNotFound, i.ID)
	}
	s.Notes = removeAt(s.Notes, idx)
	return s, nil
}

// Summary intents.

// AddSummary attaches a summary to an existing session and author.
type AddSummary struct{ Summary model.Summary }

// UpdateSummary replaces a summary; CreatedAt is kept.
type UpdateSummary struct{ Summary model.Summary }

// DeleteSummary removes a summary.
type DeleteSummary struct{ ID string }

func (AddSummary) Kind() string    { return "add_summary" }
func (UpdateSummary) Kind() string { return "update_summary" }
func (DeleteSummary) Kind() string { return "delete_summary" }

func (i AddSummary) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Summary.Validate(); err != nil {
		return s, err
	}
	if summaryIndex(s.Summaries, i.Summary.ID) >= 0 {
		return s, fmt.Errorf("%w: summary %q", ErrDuplicateID, i.Summary.ID)
	}
	if err := requireParents(s, i.Summary.SessionID, i.Summary.AuthorID); err != nil {
		return s, err
	}
	s.Summaries = appendTo(s.Summaries, i.Summary)
	return s, nil
}

func (i UpdateSummary) apply(s model.Snapshot) (model.Snapshot, error) {
	if err := i.Summary.Validate(); err != nil {
		return s, err
	}
	idx := summaryIndex(s.Summaries, i.Summary.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: summary %q", ErrNotFound, i.Summary.ID)
	}
	if err := requireParents(s, i.Summary.SessionID, i.Summary.AuthorID); err != nil {
		return s, err
	}
	updated := i.Summary
	updated.CreatedAt = s.Summaries[idx].CreatedAt
	s.Summaries = replaceAt(s.Summaries, idx, updated)
	return s, nil
}

func (i DeleteSummary) apply(s model.Snapshot) (model.Snapshot, error) {
	idx := summaryIndex(s.Summaries, i.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: summary %q", ErrNotFound, i.ID)
	}
	s.Summaries = removeAt(s.Summaries, idx)
	return s, nil
}

func requireParents(s model.Snapshot, sessionID, memberID string) error {
	if sessionIndex(s.Sessions, sessionID) < 0 {
		return fmt.Errorf("%w: session %q", ErrNotFound, sessionID)
	}
	if memberIndex(s.Team, memberID) < 0 {
		return fmt.Errorf("%w: member %q", ErrNotFound, memberID)
	}
	return nil
}

// Load replaces the whole snapshot, as on startup hydration. Missing
// collections become empty and dangling links are pruned.
type Load struct{ Snapshot model.Snapshot }

func (Load) Kind() string { return "load" }

func (i Load) apply(model.Snapshot) (model.Snapshot, error) {
	next := i.Snapshot.Normalize()
	next.Team = slices.Clone(next.Team)
	return next, nil
}
