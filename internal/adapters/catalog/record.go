package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

const (
	avatarBaseURL = "https://api.dicebear.com/7.x/initials/jpg?seed="
	longDate      = "Monday, January 2, 2006"
	localStamp    = "2006-01-02T15:04:05"
)

// Record is one entry of the conference feed as published.
type Record struct {
	SessionID   flexString `json:"Session ID"`
	Title       string     `json:"Title"`
	Description string     `json:"Description"`
	Track       string     `json:"Assigned Track"`
	Room        string     `json:"Room"`
	StartsAt    string     `json:"startsAt"`
	EndsAt      string     `json:"endsAt"`
	Speakers    string     `json:"Speakers"`
	Companies   string     `json:"Companies"`
}

// flexString accepts both JSON strings and numbers; feeds disagree on ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Mapper turns feed records into sessions relative to the event's first day.
type Mapper struct {
	loc   *time.Location
	first time.Time // midnight UTC of day 1's calendar date
}

// NewMapper anchors day numbering at eventStart, interpreted in its own
// location.
func NewMapper(eventStart time.Time) Mapper {
	y, m, d := eventStart.Date()
	return Mapper{
		loc:   eventStart.Location(),
		first: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// Map converts one record. The result still has to pass Session.Validate.
func (mp Mapper) Map(r Record) (model.Session, error) {
	id := strings.TrimSpace(string(r.SessionID))
	starts, err := mp.parse(r.StartsAt)
	if err != nil {
		return model.Session{}, fmt.Errorf("session %q startsAt: %w", id, err)
	}
	ends, err := mp.parse(r.EndsAt)
	if err != nil {
		return model.Session{}, fmt.Errorf("session %q endsAt: %w", id, err)
	}
	if mp.ordinal(ends) != mp.ordinal(starts) {
		return model.Session{}, fmt.Errorf("%w: session %q crosses midnight", model.ErrInvalidSession, id)
	}

	track := strings.TrimSpace(r.Track)
	if track == "" {
		track = model.DefaultTrack
	}
	return model.Session{
		ID:          id,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Track:       track,
		Room:        r.Room,
		Day:         mp.ordinal(starts),
		StartTime:   starts.Format("15:04"),
		EndTime:     ends.Format("15:04"),
		Date:        starts.Format(longDate),
		Speaker: model.Speaker{
			ID:      id + "_speaker",
			Name:    r.Speakers,
			Company: r.Companies,
			Image:   AvatarURL(r.Speakers),
		},
	}, nil
}

// AvatarURL returns the initials avatar for name.
func AvatarURL(name string) string {
	return avatarBaseURL + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

func (mp Mapper) parse(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(mp.loc), nil
	}
	return time.ParseInLocation(localStamp, v, mp.loc)
}

// ordinal is the 1-based calendar day of t counted from the first day.
func (mp Mapper) ordinal(t time.Time) int {
	y, m, d := t.In(mp.loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(day.Sub(mp.first)/(24*time.Hour)) + 1
}
