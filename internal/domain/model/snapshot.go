package model

// Snapshot is the full coordination state. Once published it is treated as
// immutable: transitions build new slices instead of editing these.
type Snapshot struct {
	Team       []TeamMember `json:"team"`
	Sessions   []Session    `json:"sessions"`
	Attendance []Attendance `json:"attendance"`
	Notes      []Note       `json:"notes"`
	Summaries  []Summary    `json:"summaries"`
}

// Normalize returns s with every nil collection replaced by an empty one.
func (s Snapshot) Normalize() Snapshot {
	if s.Team == nil {
		s.Team = []TeamMember{}
	}
	if s.Sessions == nil {
		s.Sessions = []Session{}
	}
	if s.Attendance == nil {
		s.Attendance = []Attendance{}
	}
	if s.Notes == nil {
		s.Notes = []Note{}
	}
	if s.Summaries == nil {
		s.Summaries = []Summary{}
	}
	return s
}

// Member looks up a team member by id.
func (s Snapshot) Member(id string) (TeamMember, bool) {
	for _, m := range s.Team {
		if m.ID == id {
			return m, true
		}
	}
	return TeamMember{}, false
}

// Session looks up a session by id.
func (s Snapshot) Session(id string) (Session, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return Session{}, false
}

// Note looks up a note by id.
func (s Snapshot) Note(id string) (Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Summary looks up a summary by id.
func (s Snapshot) Summary(id string) (Summary, bool) {
	for _, sum := range s.Summaries {
		if sum.ID == id {
			return sum, true
		}
	}
	return Summary{}, false
}

// UsedColors lists the palette colours currently assigned, in team order.
func (s Snapshot) UsedColors() []string {
	out := make([]string, 0, len(s.Team))
	for _, m := range s.Team {
		if m.Color != "" {
			out = append(out, m.Color)
		}
	}
	return out
}

// CustomSessions counts sessions created by the team.
func (s Snapshot) CustomSessions() int {
	n := 0
	for _, sess := range s.Sessions {
		if sess.IsCustom {
			n++
		}
	}
	return n
}
