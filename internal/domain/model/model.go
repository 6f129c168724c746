// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied when members and custom sessions are created.
const (
	DefaultRole  = "Team Member"
	CustomTrack  = "Custom Session"
	DefaultTrack = "General"

	MinDay = 1
	MaxDay = 3

	MinRating = 1
	MaxRating = 5
)

// TeamMember is one attendee of the coordinating team.
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"` // palette colour name
}

// Validate checks identity fields.
func (m TeamMember) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidMember)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMember)
	}
	return nil
}

// Speaker is embedded in a Session and never addressed on its own.
type Speaker struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Bio     string `json:"bio"`
	Image   string `json:"image"`
}

// Session is a catalog or custom agenda slot.
type Session struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Track       string  `json:"track"`
	Room        string  `json:"room"`
	Day         int     `json:"day"`
	StartTime   string  `json:"startTime"` // HH:MM
	EndTime     string  `json:"endTime"`   // HH:MM, same day
	Date        string  `json:"date"`
	Speaker     Speaker `json:"speaker"`
	IsCustom    bool    `json:"isCustom,omitempty"`
	CreatedBy   string  `json:"createdBy,omitempty"`
}

// Validate enforces a known day and a non-empty, same-day time range.
func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSession)
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSession)
	}
	if s.Day < MinDay || s.Day > MaxDay {
		return fmt.Errorf("%w: day %d outside %d..%d", ErrInvalidSession, s.Day, MinDay, MaxDay)
	}
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start time: %w", ErrInvalidSession, err)
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end time: %w", ErrInvalidSession, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s not before end %s", ErrInvalidSession, s.StartTime, s.EndTime)
	}
	return nil
}

// Span returns the session's [start, end) in minutes since midnight.
// ok is false when either time does not parse.
func (s Session) Span() (start, end int, ok bool) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(s.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// Attendance links one member to one session. The pair is unique.
type Attendance struct {
	SessionID string `json:"sessionId"`
	MemberID  string `json:"memberId"`
}

// Note is free text a member attached to a session.
type Note struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	MemberID  string    `json:"memberId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the note references and content.
func (n Note) Validate() error {
	switch {
	case strings.TrimSpace(n.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidNote)
	case n.SessionID == "" || n.MemberID == "":
		return fmt.Errorf("%w: session and member are required", ErrInvalidNote)
	case strings.TrimSpace(n.Content) == "":
		return fmt.Errorf("%w: content is required", ErrInvalidNote)
	}
	return nil
}

// Summary is a structured write-up of a session.
type Summary struct {
	ID                 string    `json:"id"`
	SessionID          string    `json:"sessionId"`
	AuthorID           string    `json:"authorId"`
	KeyTakeaways       []string  `json:"keyTakeaways"`
	ActionableInsights string    `json:"actionableInsights"`
	Resources          []string  `json:"resources"`
	SpeakerContact     string    `json:"speakerContact"`
	Rating             int       `json:"rating"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Validate checks references and the 1..5 rating.
func (s Summary) Validate() error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidSummary)
	case s.SessionID == "" || s.AuthorID == "":
		return fmt.Errorf("%w: session and author are required", ErrInvalidSummary)
	case s.Rating < MinRating || s.Rating > MaxRating:
		return fmt.Errorf("%w: rating %d outside %d..%d", ErrInvalidSummary, s.Rating, MinRating, MaxRating)
	}
	return nil
}
