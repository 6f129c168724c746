package model_test

import (
	"errors"
	"testing"

	model "github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseClock(t *testing.T) {
	convey.Convey("Given wall-clock strings", t, func() {
		convey.Convey("When they are well formed", func() {
			nine, err1 := model.ParseClock("09:00")
			late, err2 := model.ParseClock("23:59")
			short, err3 := model.ParseClock("9:30")

			convey.Convey("Then they convert to minutes since midnight", func() {
				convey.So(err1, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				convey.So(err3, convey.ShouldBeNil)
				convey.So(nine, convey.ShouldEqual, 540)
				convey.So(late, convey.ShouldEqual, 1439)
				convey.So(short, convey.ShouldEqual, 570)
			})
		})

		convey.Convey("When they are malformed", func() {
			for _, bad := range []string{"", "9", "24:00", "10:60", "10:5", "aa:bb", "100:00", "+9:00", "-1:00", "09:+5", " 9:-0"} {
				_, err := model.ParseClock(bad)
				convey.So(errors.Is(err, model.ErrInvalidClock), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When formatting minutes", func() {
			convey.So(model.FormatClock(545), convey.ShouldEqual, "09:05")
		})
	})
}

func TestSessionValidate(t *testing.T) {
	convey.Convey("Given a session", t, func() {
		s := model.Session{ID: "s1", Title: "Keynote", Day: 1, StartTime: "09:00", EndTime: "10:00"}

		convey.Convey("When it is well formed", func() {
			convey.So(s.Validate(), convey.ShouldBeNil)
			start, end, ok := s.Span()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(start, convey.ShouldEqual, 540)
			convey.So(end, convey.ShouldEqual, 600)
		})

		convey.Convey("When the day is out of range", func() {
			s.Day = 4
			convey.So(errors.Is(s.Validate(), model.ErrInvalidSession), convey.ShouldBeTrue)
		})

		convey.Convey("When the end is not after the start", func() {
			s.EndTime = "09:00"
			convey.So(errors.Is(s.Validate(), model.ErrInvalidSession), convey.ShouldBeTrue)
		})

		convey.Convey("When a time is unparsable", func() {
			s.StartTime = "nine"
			err := s.Validate()
			convey.So(errors.Is(err, model.ErrInvalidSession), convey.ShouldBeTrue)
			convey.So(errors.Is(err, model.ErrInvalidClock), convey.ShouldBeTrue)
			_, _, ok := s.Span()
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When the title is blank", func() {
			s.Title = "  "
			convey.So(errors.Is(s.Validate(), model.ErrInvalidSession), convey.ShouldBeTrue)
		})
	})
}

func TestSummaryValidate(t *testing.T) {
	convey.Convey("Given a summary", t, func() {
		sum := model.Summary{ID: "x", SessionID: "s1", AuthorID: "m1", Rating: 5}

		convey.Convey("Then ratings 1..5 are accepted", func() {
			convey.So(sum.Validate(), convey.ShouldBeNil)
			sum.Rating = 1
			convey.So(sum.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then ratings outside 1..5 are rejected", func() {
			sum.Rating = 0
			convey.So(errors.Is(sum.Validate(), model.ErrInvalidSummary), convey.ShouldBeTrue)
			sum.Rating = 6
			convey.So(errors.Is(sum.Validate(), model.ErrInvalidSummary), convey.ShouldBeTrue)
		})
	})
}

func TestMemberAndNoteValidate(t *testing.T) {
	convey.Convey("Given members and notes", t, func() {
		convey.So(model.TeamMember{ID: "m1", Name: "Ada"}.Validate(), convey.ShouldBeNil)
		convey.So(errors.Is(model.TeamMember{ID: "m1"}.Validate(), model.ErrInvalidMember), convey.ShouldBeTrue)

		convey.So(model.Note{ID: "n", SessionID: "s", MemberID: "m", Content: "hi"}.Validate(), convey.ShouldBeNil)
		convey.So(errors.Is(model.Note{ID: "n", SessionID: "s", MemberID: "m"}.Validate(), model.ErrInvalidNote), convey.ShouldBeTrue)
	})
}

func TestSnapshot(t *testing.T) {
	convey.Convey("Given a partial snapshot", t, func() {
		snap := model.Snapshot{Team: []model.TeamMember{{ID: "m1", Name: "Ada", Color: "indigo"}, {ID: "m2", Name: "Bo"}}}

		convey.Convey("When normalized", func() {
			n := snap.Normalize()

			convey.Convey("Then every collection is non-nil", func() {
				convey.So(n.Team, convey.ShouldHaveLength, 2)
				convey.So(n.Sessions, convey.ShouldNotBeNil)
				convey.So(n.Attendance, convey.ShouldNotBeNil)
				convey.So(n.Notes, convey.ShouldNotBeNil)
				convey.So(n.Summaries, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("Then lookups and used colours work", func() {
			m, ok := snap.Member("m2")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(m.Name, convey.ShouldEqual, "Bo")
			_, ok = snap.Session("nope")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(snap.UsedColors(), convey.ShouldResemble, []string{"indigo"})
		})
	})
}
