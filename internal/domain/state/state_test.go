package state_test

import (
	"errors"
	"testing"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/state"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() model.Snapshot {
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	return model.Snapshot{
		Team: []model.TeamMember{
			{ID: "m1", Name: "Ada", Color: "indigo"},
			{ID: "m2", Name: "Bo", Color: "emerald"},
		},
		Sessions: []model.Session{
			{ID: "A", Title: "Alpha", Day: 1, StartTime: "09:00", EndTime: "10:00"},
			{ID: "B", Title: "Beta", Day: 1, StartTime: "09:30", EndTime: "10:30"},
			{ID: "X", Title: "Custom", Day: 2, StartTime: "13:00", EndTime: "14:00", IsCustom: true, CreatedBy: "m2"},
		},
		Attendance: []model.Attendance{
			{SessionID: "A", MemberID: "m1"},
			{SessionID: "A", MemberID: "m2"},
			{SessionID: "B", MemberID: "m1"},
			{SessionID: "X", MemberID: "m2"},
		},
		Notes: []model.Note{
			{ID: "n1", SessionID: "A", MemberID: "m1", Content: "good", CreatedAt: now},
			{ID: "n2", SessionID: "B", MemberID: "m2", Content: "meh", CreatedAt: now},
		},
		Summaries: []model.Summary{
			{ID: "s1", SessionID: "A", AuthorID: "m2", Rating: 4, CreatedAt: now},
			{ID: "s2", SessionID: "B", AuthorID: "m1", Rating: 3, CreatedAt: now},
		},
	}
}

func mustApply(snap model.Snapshot, intent state.Intent) model.Snapshot {
	next, err := state.Apply(snap, intent)
	So(err, ShouldBeNil)
	return next
}

func TestToggleAttendance(t *testing.T) {
	Convey("Given a snapshot with attendance", t, func() {
		snap := fixture()

		Convey("When toggling an absent link", func() {
			next := mustApply(snap, state.ToggleAttendance{SessionID: "B", MemberID: "m2"})

			Convey("Then the link is added once", func() {
				So(next.Attendance, ShouldContain, model.Attendance{SessionID: "B", MemberID: "m2"})
				So(len(next.Attendance), ShouldEqual, len(snap.Attendance)+1)
			})

			Convey("Then toggling again restores the original set", func() {
				back := mustApply(next, state.ToggleAttendance{SessionID: "B", MemberID: "m2"})
				So(back.Attendance, ShouldResemble, snap.Attendance)
			})

			Convey("Then the input snapshot is untouched", func() {
				So(len(snap.Attendance), ShouldEqual, 4)
			})
		})

		Convey("When toggling a present link", func() {
			next := mustApply(snap, state.ToggleAttendance{SessionID: "A", MemberID: "m1"})
			So(next.Attendance, ShouldNotContain, model.Attendance{SessionID: "A", MemberID: "m1"})
		})

		Convey("When the session or member is unknown", func() {
			next, err := state.Apply(snap, state.ToggleAttendance{SessionID: "nope", MemberID: "m1"})

			Convey("Then it fails with not found and changes nothing", func() {
				So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)
				So(next, ShouldResemble, snap)
			})

			_, err = state.Apply(snap, state.ToggleAttendance{SessionID: "A", MemberID: "ghost"})
			So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestRemoveMember(t *testing.T) {
	Convey("Given a snapshot where m2 authored content", t, func() {
		snap := fixture()

		Convey("When removing m2", func() {
			next := mustApply(snap, state.RemoveMember{ID: "m2"})

			Convey("Then nothing references m2 afterward", func() {
				for _, a := range next.Attendance {
					So(a.MemberID, ShouldNotEqual, "m2")
				}
				for _, n := range next.Notes {
					So(n.MemberID, ShouldNotEqual, "m2")
				}
				for _, s := range next.Summaries {
					So(s.AuthorID, ShouldNotEqual, "m2")
				}
			})

			Convey("Then their custom session survives without an author", func() {
				x, ok := next.Session("X")
				So(ok, ShouldBeTrue)
				So(x.CreatedBy, ShouldEqual, "")
			})

			Convey("Then other members keep their links", func() {
				So(next.Attendance, ShouldContain, model.Attendance{SessionID: "A", MemberID: "m1"})
				So(next.Team, ShouldHaveLength, 1)
			})
		})

		Convey("When removing an unknown member", func() {
			next, err := state.Apply(snap, state.RemoveMember{ID: "ghost"})
			So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)
			So(next, ShouldResemble, snap)
		})
	})
}

func TestDeleteSession(t *testing.T) {
	Convey("Given a snapshot with content on session A", t, func() {
		snap := fixture()

		Convey("When deleting A", func() {
			next := mustApply(snap, state.DeleteSession{ID: "A"})

			Convey("Then nothing references A afterward", func() {
				_, ok := next.Session("A")
				So(ok, ShouldBeFalse)
				for _, a := range next.Attendance {
					So(a.SessionID, ShouldNotEqual, "A")
				}
				for _, n := range next.Notes {
					So(n.SessionID, ShouldNotEqual, "A")
				}
				for _, s := range next.Summaries {
					So(s.SessionID, ShouldNotEqual, "A")
				}
			})
		})
	})
}

func TestSetSessions(t *testing.T) {
	Convey("Given a snapshot with catalog and custom sessions", t, func() {
		snap := fixture()

		Convey("When the catalog is replaced without B", func() {
			catalog := []model.Session{
				{ID: "A", Title: "Alpha v2", Day: 1, StartTime: "09:00", EndTime: "10:00"},
				{ID: "C", Title: "Gamma", Day: 3, StartTime: "11:00", EndTime: "12:00"},
			}
			next := mustApply(snap, state.SetSessions{Catalog: catalog})

			Convey("Then catalog sessions are replaced and custom ones kept", func() {
				ids := make([]string, 0)
				for _, s := range next.Sessions {
					ids = append(ids, s.ID)
				}
				So(ids, ShouldResemble, []string{"A", "C", "X"})
				a, _ := next.Session("A")
				So(a.Title, ShouldEqual, "Alpha v2")
			})

			Convey("Then attendance on B is pruned and the rest survives", func() {
				So(next.Attendance, ShouldResemble, []model.Attendance{
					{SessionID: "A", MemberID: "m1"},
					{SessionID: "A", MemberID: "m2"},
					{SessionID: "X", MemberID: "m2"},
				})
				for _, n := range next.Notes {
					So(n.SessionID, ShouldNotEqual, "B")
				}
			})
		})

		Convey("When the catalog collides with a custom id", func() {
			next, err := state.Apply(snap, state.SetSessions{Catalog: []model.Session{
				{ID: "X", Title: "Feed X", Day: 1, StartTime: "09:00", EndTime: "10:00"},
				{ID: "N", Title: "New", Day: 2, StartTime: "09:00", EndTime: "10:00"},
			}})

			Convey("Then the custom session wins and the rest of the catalog is replaced", func() {
				So(err, ShouldBeNil)
				x, ok := next.Session("X")
				So(ok, ShouldBeTrue)
				So(x.IsCustom, ShouldBeTrue)
				So(x.Title, ShouldNotEqual, "Feed X")
				_, ok = next.Session("N")
				So(ok, ShouldBeTrue)
				_, ok = next.Session("A")
				So(ok, ShouldBeFalse)
				So(next.Sessions, ShouldHaveLength, 2)
			})
		})

		Convey("When the catalog repeats an id", func() {
			dup := model.Session{ID: "D", Title: "t", Day: 1, StartTime: "09:00", EndTime: "10:00"}
			_, err := state.Apply(snap, state.SetSessions{Catalog: []model.Session{dup, dup}})
			So(errors.Is(err, state.ErrDuplicateID), ShouldBeTrue)
		})

		Convey("When the catalog holds an invalid session", func() {
			next, err := state.Apply(snap, state.SetSessions{Catalog: []model.Session{{ID: "Z", Title: "t", Day: 7, StartTime: "09:00", EndTime: "10:00"}}})
			So(errors.Is(err, model.ErrInvalidSession), ShouldBeTrue)
			So(next, ShouldResemble, snap)
		})
	})
}

func TestMembersAndSessions(t *testing.T) {
	Convey("Given a snapshot", t, func() {
		snap := fixture()

		Convey("When adding a duplicate member", func() {
			_, err := state.Apply(snap, state.AddMember{Member: model.TeamMember{ID: "m1", Name: "Again"}})
			So(errors.Is(err, state.ErrDuplicateID), ShouldBeTrue)
		})

		Convey("When adding and updating a member", func() {
			next := mustApply(snap, state.AddMember{Member: model.TeamMember{ID: "m3", Name: "Cy"}})
			next = mustApply(next, state.UpdateMember{Member: model.TeamMember{ID: "m3", Name: "Cyrus"}})
			m, ok := next.Member("m3")
			So(ok, ShouldBeTrue)
			So(m.Name, ShouldEqual, "Cyrus")
		})

		Convey("When setting a team that drops m1", func() {
			next := mustApply(snap, state.SetTeam{Team: []model.TeamMember{{ID: "m2", Name: "Bo"}}})
			for _, a := range next.Attendance {
				So(a.MemberID, ShouldEqual, "m2")
			}
		})

		Convey("When adding a session with an inverted range", func() {
			_, err := state.Apply(snap, state.AddSession{Session: model.Session{ID: "Y", Title: "t", Day: 1, StartTime: "11:00", EndTime: "10:00"}})
			So(errors.Is(err, model.ErrInvalidSession), ShouldBeTrue)
		})

		Convey("When adding a session together with its creator", func() {
			y := model.Session{ID: "Y", Title: "Lunch", Day: 2, StartTime: "12:00", EndTime: "13:00", IsCustom: true, CreatedBy: "m1"}
			next := mustApply(snap, state.AddSession{Session: y, Attendee: "m1"})

			Convey("Then the creator attends it", func() {
				So(next.Attendance, ShouldContain, model.Attendance{SessionID: "Y", MemberID: "m1"})
			})

			Convey("Then an unknown creator rejects the session as well", func() {
				y.ID = "Z"
				got, err := state.Apply(snap, state.AddSession{Session: y, Attendee: "ghost"})
				So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)
				So(got, ShouldResemble, snap)
			})
		})

		Convey("When updating a custom session", func() {
			next := mustApply(snap, state.UpdateSession{Session: model.Session{ID: "X", Title: "Renamed", Day: 2, StartTime: "13:00", EndTime: "15:00"}})
			x, _ := next.Session("X")

			Convey("Then provenance is kept", func() {
				So(x.Title, ShouldEqual, "Renamed")
				So(x.IsCustom, ShouldBeTrue)
				So(x.CreatedBy, ShouldEqual, "m2")
			})
		})

		Convey("When updating an unknown session", func() {
			_, err := state.Apply(snap, state.UpdateSession{Session: model.Session{ID: "Q", Title: "t", Day: 1, StartTime: "09:00", EndTime: "10:00"}})
			So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestNotesAndSummaries(t *testing.T) {
	Convey("Given a snapshot", t, func() {
		snap := fixture()
		later := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

		Convey("When adding a note for an unknown session", func() {
			_, err := state.Apply(snap, state.AddNote{Note: model.Note{ID: "n3", SessionID: "nope", MemberID: "m1", Content: "x"}})
			So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)
		})

		Convey("When updating a note", func() {
			next := mustApply(snap, state.UpdateNote{Note: model.Note{ID: "n1", SessionID: "A", MemberID: "m1", Content: "great", CreatedAt: later, UpdatedAt: later}})
			n, _ := next.Note("n1")

			Convey("Then content changes and CreatedAt is kept", func() {
				So(n.Content, ShouldEqual, "great")
				So(n.CreatedAt, ShouldEqual, snap.Notes[0].CreatedAt)
				So(n.UpdatedAt, ShouldEqual, later)
			})
		})

		Convey("When deleting notes and summaries", func() {
			next := mustApply(snap, state.DeleteNote{ID: "n1"})
			next = mustApply(next, state.DeleteSummary{ID: "s1"})
			So(next.Notes, ShouldHaveLength, 1)
			So(next.Summaries, ShouldHaveLength, 1)

			_, err := state.Apply(next, state.DeleteNote{ID: "n1"})
			So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)
		})

		Convey("When adding a summary with a bad rating", func() {
			_, err := state.Apply(snap, state.AddSummary{Summary: model.Summary{ID: "s3", SessionID: "A", AuthorID: "m1", Rating: 9}})
			So(errors.Is(err, model.ErrInvalidSummary), ShouldBeTrue)
		})

		Convey("When adding and updating a summary", func() {
			next := mustApply(snap, state.AddSummary{Summary: model.Summary{ID: "s3", SessionID: "X", AuthorID: "m1", Rating: 5}})
			next = mustApply(next, state.UpdateSummary{Summary: model.Summary{ID: "s3", SessionID: "X", AuthorID: "m1", Rating: 2}})
			s, ok := next.Summary("s3")
			So(ok, ShouldBeTrue)
			So(s.Rating, ShouldEqual, 2)
		})
	})
}

func TestLoadAndReconcile(t *testing.T) {
	Convey("Given a partial snapshot from storage", t, func() {
		partial := model.Snapshot{
			Team:     []model.TeamMember{{ID: "m1", Name: "Ada"}},
			Sessions: []model.Session{{ID: "A", Title: "Alpha", Day: 1, StartTime: "09:00", EndTime: "10:00"}},
			Attendance: []model.Attendance{
				{SessionID: "A", MemberID: "m1"},
				{SessionID: "A", MemberID: "m1"},
				{SessionID: "gone", MemberID: "m1"},
			},
		}

		Convey("When loaded", func() {
			next := mustApply(model.Snapshot{}, state.Load{Snapshot: partial})

			Convey("Then missing collections are empty", func() {
				So(next.Notes, ShouldNotBeNil)
				So(next.Summaries, ShouldNotBeNil)
			})

			Convey("Then duplicate and dangling links are gone", func() {
				So(next.Attendance, ShouldResemble, []model.Attendance{{SessionID: "A", MemberID: "m1"}})
			})
		})

		Convey("When reconciling twice", func() {
			once := state.Reconcile(partial)
			So(state.Reconcile(once), ShouldResemble, once)
		})

		Convey("Then the cascade table covers every dependent collection", func() {
			covered := map[string]bool{}
			for _, r := range state.Rules() {
				covered[r.Dependent+"->"+r.Parent] = true
			}
			for _, want := range []string{
				"attendance->sessions", "attendance->team",
				"notes->sessions", "notes->team",
				"summaries->sessions", "summaries->team",
				"sessions.createdBy->team",
			} {
				So(covered[want], ShouldBeTrue)
			}
		})
	})

	Convey("Given a nil intent", t, func() {
		_, err := state.Apply(fixture(), nil)
		So(errors.Is(err, state.ErrNilIntent), ShouldBeTrue)
	})
}
