// Package export renders a snapshot as a spreadsheet-friendly CSV schedule or
// a printable plain-text agenda.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// ErrUnknownMember is returned by WriteAgenda for a member not on the team.
var ErrUnknownMember = errors.New("unknown team member")

// ConflictMarker flags agenda rows that overlap another attended session.
const ConflictMarker = "!"

var csvHeader = []string{"Day", "Time", "Title", "Track", "Room", "Speaker", "Team Members Attending"}

// WriteCSV writes one row per session ordered by day and start time.
func WriteCSV(w io.Writer, snap model.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, sess := range coverage.ScheduleOrder(snap.Sessions) {
		attendees := coverage.MembersAttendingSession(sess.ID, snap.Attendance, snap.Team)
		row := []string{
			dayLabel(sess),
			timeRange(sess),
			sess.Title,
			sess.Track,
			sess.Room,
			speakerLabel(sess.Speaker),
			names(attendees, "None"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", sess.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAgenda prints the sessions memberID attends, or every session anyone
// on the team attends when memberID is empty, grouped by day.
func WriteAgenda(w io.Writer, snap model.Snapshot, memberID string) error {
	var (
		title    string
		sessions []model.Session
	)
	if memberID != "" {
		m, ok := snap.Member(memberID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMember, memberID)
		}
		title = "Agenda for " + m.Name
		sessions = coverage.ScheduleOrder(coverage.SessionsForMember(memberID, snap.Attendance, snap.Sessions))
	} else {
		title = "Team agenda"
		for _, sess := range coverage.ScheduleOrder(snap.Sessions) {
			if len(coverage.MembersAttendingSession(sess.ID, snap.Attendance, snap.Team)) > 0 {
				sessions = append(sessions, sess)
			}
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, title)
	if len(sessions) == 0 {
		fmt.Fprintln(tw, "No sessions selected.")
		return tw.Flush()
	}

	day := 0
	for _, sess := range sessions {
		if sess.Day != day {
			day = sess.Day
			fmt.Fprintf(tw, "\n%s\n", dayLabel(sess))
		}
		attendees := coverage.MembersAttendingSession(sess.ID, snap.Attendance, snap.Team)
		marker := ""
		if conflicted(sess, attendees, snap, memberID) {
			marker = ConflictMarker
		}
		if memberID != "" {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, timeRange(sess), sess.Title, sess.Room)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, timeRange(sess), sess.Title, sess.Room, names(attendees, ""))
	}
	return tw.Flush()
}

// conflicted reports whether the agenda owner, or any attendee on the team
// agenda, has another overlapping session.
func conflicted(sess model.Session, attendees []model.TeamMember, snap model.Snapshot, memberID string) bool {
	owners := []string{memberID}
	if memberID == "" {
		owners = owners[:0]
		for _, m := range attendees {
			owners = append(owners, m.ID)
		}
	}
	for _, id := range owners {
		attended := coverage.SessionsForMember(id, snap.Attendance, snap.Sessions)
		if coverage.HasConflict(sess, attended) {
			return true
		}
	}
	return false
}

func dayLabel(s model.Session) string {
	if s.Date == "" {
		return fmt.Sprintf("Day %d", s.Day)
	}
	return fmt.Sprintf("Day %d (%s)", s.Day, s.Date)
}

func timeRange(s model.Session) string {
	return s.StartTime + " - " + s.EndTime
}

func speakerLabel(sp model.Speaker) string {
	switch {
	case sp.Name == "":
		return ""
	case sp.Company == "":
		return sp.Name
	default:
		return fmt.Sprintf("%s (%s)", sp.Name, sp.Company)
	}
}

func names(members []model.TeamMember, empty string) string {
	if len(members) == 0 {
		return empty
	}
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name
	}
	return strings.Join(out, ", ")
}
