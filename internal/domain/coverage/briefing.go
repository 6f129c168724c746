package coverage

import (
	"slices"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// Attended is a session with the team members going to it.
type Attended struct {
	Session   model.Session      `json:"session"`
	Attendees []model.TeamMember `json:"attendees"`
}

// MemberSchedule is one member's sessions for a day, by start time.
type MemberSchedule struct {
	Member   model.TeamMember `json:"member"`
	Sessions []model.Session  `json:"sessions"`
}

// DailyBriefing summarizes the team's plans for one day.
type DailyBriefing struct {
	Day       int              `json:"day"`
	Sessions  []Attended       `json:"sessions"`
	Hotspots  []Attended       `json:"hotspots"`
	Schedules []MemberSchedule `json:"schedules"`
}

// Briefing builds the daily view: attended sessions by start time, the three
// most attended of them, and each member's own schedule. Members with nothing
// planned that day are omitted.
func Briefing(day int, sessions []model.Session, attendance []model.Attendance, team []model.TeamMember) DailyBriefing {
	daySessions := make([]model.Session, 0)
	for _, s := range sessions {
		if s.Day == day {
			daySessions = append(daySessions, s)
		}
	}

	attended := make([]Attended, 0, len(daySessions))
	for _, s := range daySessions {
		members := MembersAttendingSession(s.ID, attendance, team)
		if len(members) > 0 {
			attended = append(attended, Attended{Session: s, Attendees: members})
		}
	}
	slices.SortStableFunc(attended, func(a, b Attended) int {
		return compareStart(a.Session, b.Session)
	})

	hotspots := slices.Clone(attended)
	slices.SortStableFunc(hotspots, func(a, b Attended) int {
		return len(b.Attendees) - len(a.Attendees)
	})
	hotspots = hotspots[:min(rankSize, len(hotspots))]

	schedules := make([]MemberSchedule, 0, len(team))
	for _, m := range team {
		mine := SessionsForMember(m.ID, attendance, daySessions)
		if len(mine) == 0 {
			continue
		}
		slices.SortStableFunc(mine, compareStart)
		schedules = append(schedules, MemberSchedule{Member: m, Sessions: mine})
	}

	return DailyBriefing{Day: day, Sessions: attended, Hotspots: hotspots, Schedules: schedules}
}
