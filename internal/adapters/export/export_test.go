package export_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/export"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func snapshot() model.Snapshot {
	return model.Snapshot{
		Team: []model.TeamMember{{ID: "m1", Name: "Ada"}, {ID: "m2", Name: "Lin"}},
		Sessions: []model.Session{
			{ID: "late", Title: "Evals", Track: "Evals", Room: "B", Day: 2, StartTime: "14:00", EndTime: "15:00", Date: "Wednesday, June 4, 2025"},
			{ID: "kick", Title: "Keynote", Track: "General", Room: "Main", Day: 1, StartTime: "09:00", EndTime: "10:00",
				Date: "Tuesday, June 3, 2025", Speaker: model.Speaker{Name: "Grace", Company: "Navy"}},
			{ID: "mid", Title: "Agents", Track: "Agents", Room: "A", Day: 1, StartTime: "09:30", EndTime: "10:30", Date: "Tuesday, June 3, 2025"},
		},
		Attendance: []model.Attendance{
			{SessionID: "kick", MemberID: "m1"},
			{SessionID: "kick", MemberID: "m2"},
			{SessionID: "mid", MemberID: "m1"},
		},
	}.Normalize()
}

func TestWriteCSV(t *testing.T) {
	convey.Convey("Given a snapshot with sessions out of order", t, func() {
		var buf bytes.Buffer
		err := export.WriteCSV(&buf, snapshot())
		convey.So(err, convey.ShouldBeNil)
		rows, err := csv.NewReader(&buf).ReadAll()
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then rows follow day and start time", func() {
			convey.So(rows, convey.ShouldHaveLength, 4)
			convey.So(rows[0][0], convey.ShouldEqual, "Day")
			convey.So(rows[1][2], convey.ShouldEqual, "Keynote")
			convey.So(rows[2][2], convey.ShouldEqual, "Agents")
			convey.So(rows[3][2], convey.ShouldEqual, "Evals")
		})

		convey.Convey("Then columns are labelled like the printed schedule", func() {
			convey.So(rows[1][0], convey.ShouldEqual, "Day 1 (Tuesday, June 3, 2025)")
			convey.So(rows[1][1], convey.ShouldEqual, "09:00 - 10:00")
			convey.So(rows[1][5], convey.ShouldEqual, "Grace (Navy)")
			convey.So(rows[1][6], convey.ShouldEqual, "Ada, Lin")
			convey.So(rows[3][6], convey.ShouldEqual, "None")
		})
	})
}

func TestWriteAgenda(t *testing.T) {
	convey.Convey("Given a member with overlapping sessions", t, func() {
		var buf bytes.Buffer

		convey.Convey("When their agenda is written", func() {
			err := export.WriteAgenda(&buf, snapshot(), "m1")
			out := buf.String()

			convey.Convey("Then both sessions are listed with conflict markers", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldStartWith, "Agenda for Ada")
				convey.So(out, convey.ShouldContainSubstring, "Day 1 (Tuesday, June 3, 2025)")
				convey.So(strings.Count(out, export.ConflictMarker), convey.ShouldEqual, 2)
				convey.So(out, convey.ShouldNotContainSubstring, "Evals")
			})
		})

		convey.Convey("When the team agenda is written", func() {
			err := export.WriteAgenda(&buf, snapshot(), "")
			out := buf.String()

			convey.Convey("Then only attended sessions appear with attendee names", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Ada, Lin")
				convey.So(out, convey.ShouldNotContainSubstring, "Evals")
			})
		})

		convey.Convey("When the member is unknown", func() {
			err := export.WriteAgenda(&buf, snapshot(), "ghost")

			convey.Convey("Then ErrUnknownMember is returned", func() {
				convey.So(errors.Is(err, export.ErrUnknownMember), convey.ShouldBeTrue)
			})
		})
	})
}
