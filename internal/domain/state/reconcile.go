package state

import "github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"

// refs indexes the parent collections a cascade rule may consult.
type refs struct {
	sessions map[string]struct{}
	members  map[string]struct{}
}

func (r refs) session(id string) bool {
	_, ok := r.sessions[id]
	return ok
}

func (r refs) member(id string) bool {
	_, ok := r.members[id]
	return ok
}

func indexRefs(s model.Snapshot) refs {
	r := refs{
		sessions: make(map[string]struct{}, len(s.Sessions)),
		members:  make(map[string]struct{}, len(s.Team)),
	}
	for _, sess := range s.Sessions {
		r.sessions[sess.ID] = struct{}{}
	}
	for _, m := range s.Team {
		r.members[m.ID] = struct{}{}
	}
	return r
}

// Rule prunes or detaches one dependent collection whose parent is gone.
type Rule struct {
	Dependent string
	Parent    string
	apply     func(s *model.Snapshot, r refs)
}

// rules is the complete cascade table. Every dependent collection must
// appear here once per parent it references.
var rules = []Rule{ //nolint:gochecknoglobals // declarative cascade table
	{Dependent: "attendance", Parent: "sessions", apply: func(s *model.Snapshot, r refs) {
		s.Attendance = keep(s.Attendance, func(a model.Attendance) bool { return r.session(a.SessionID) })
	}},
	{Dependent: "attendance", Parent: "team", apply: func(s *model.Snapshot, r refs) {
		s.Attendance = keep(s.Attendance, func(a model.Attendance) bool { return r.member(a.MemberID) })
	}},
	{Dependent: "notes", Parent: "sessions", apply: func(s *model.Snapshot, r refs) {
		s.Notes = keep(s.Notes, func(n model.Note) bool { return r.session(n.SessionID) })
	}},
	{Dependent: "notes", Parent: "team", apply: func(s *model.Snapshot, r refs) {
		s.Notes = keep(s.Notes, func(n model.Note) bool { return r.member(n.MemberID) })
	}},
	{Dependent: "summaries", Parent: "sessions", apply: func(s *model.Snapshot, r refs) {
		s.Summaries = keep(s.Summaries, func(sum model.Summary) bool { return r.session(sum.SessionID) })
	}},
	{Dependent: "summaries", Parent: "team", apply: func(s *model.Snapshot, r refs) {
		s.Summaries = keep(s.Summaries, func(sum model.Summary) bool { return r.member(sum.AuthorID) })
	}},
	// A custom session outlives its author; only the reference is cleared.
	{Dependent: "sessions.createdBy", Parent: "team", apply: func(s *model.Snapshot, r refs) {
		out := make([]model.Session, len(s.Sessions))
		for i, sess := range s.Sessions {
			if sess.CreatedBy != "" && !r.member(sess.CreatedBy) {
				sess.CreatedBy = ""
			}
			out[i] = sess
		}
		s.Sessions = out
	}},
}

// Rules returns the cascade table for inspection.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Reconcile restores referential integrity: it applies every cascade rule and
// collapses duplicate attendance links. It is idempotent.
func Reconcile(s model.Snapshot) model.Snapshot {
	s = s.Normalize()
	r := indexRefs(s)
	for _, rule := range rules {
		rule.apply(&s, r)
	}
	s.Attendance = dedupeAttendance(s.Attendance)
	return s
}

func dedupeAttendance(in []model.Attendance) []model.Attendance {
	seen := make(map[model.Attendance]struct{}, len(in))
	return keep(in, func(a model.Attendance) bool {
		if _, dup := seen[a]; dup {
			return false
		}
		seen[a] = struct{}{}
		return true
	})
}
