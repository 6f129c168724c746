// Package types contains request and view shapes shared by the service and
// the HTTP API.
package types

import "github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"

// MemberInput carries the editable fields of a team member.
type MemberInput struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// SessionInput carries the editable fields of a custom session.
type SessionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Room        string `json:"room"`
	Day         int    `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// SummaryInput carries the editable fields of a session summary.
type SummaryInput struct {
	SessionID          string   `json:"sessionId"`
	AuthorID           string   `json:"authorId"`
	KeyTakeaways       []string `json:"keyTakeaways"`
	ActionableInsights string   `json:"actionableInsights"`
	Resources          []string `json:"resources"`
	SpeakerContact     string   `json:"speakerContact"`
	Rating             int      `json:"rating"`
}

// Attendee is a member attending a session, flagged when they are double
// booked.
type Attendee struct {
	model.TeamMember
	Conflict bool `json:"conflict"`
}

// SessionDetail is everything the team knows about one session.
type SessionDetail struct {
	Session   model.Session   `json:"session"`
	Attendees []Attendee      `json:"attendees"`
	Notes     []model.Note    `json:"notes"`
	Summaries []model.Summary `json:"summaries"`
}

// Toggle reports the outcome of an attendance toggle.
type Toggle struct {
	SessionID string `json:"sessionId"`
	MemberID  string `json:"memberId"`
	Attending bool   `json:"attending"`
	Duplicate bool   `json:"duplicate"`
}
