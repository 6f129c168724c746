package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/repository"
	service "github.com/edytawrobel/team-coords-aiengineer/internal/app"
	"github.com/edytawrobel/team-coords-aiengineer/internal/config"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/state"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
	"github.com/edytawrobel/team-coords-aiengineer/internal/store"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

type stubCatalog struct {
	sessions []model.Session
	err      error
}

func (c *stubCatalog) Fetch(context.Context) ([]model.Session, error) {
	return c.sessions, c.err
}

func catalogSessions() []model.Session {
	return []model.Session{
		{ID: "k1", Title: "Keynote", Track: "General", Room: "Main", Day: 1, StartTime: "09:00", EndTime: "10:00"},
		{ID: "a1", Title: "Agents", Track: "Agents", Room: "A", Day: 1, StartTime: "09:30", EndTime: "10:30"},
		{ID: "e2", Title: "Evals", Track: "Evals", Room: "B", Day: 2, StartTime: "11:00", EndTime: "12:00"},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService(repo repository.Repository, src *stubCatalog, durability string) *service.Service {
	return service.New(
		service.WithDurability(durability),
		service.WithRepository(repo),
		service.WithCatalog(src),
		service.WithIDGenerator(sequentialIDs()),
		service.WithClock(func() time.Time { return time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC) }),
		service.WithShutdownTimeout(time.Second),
	)
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that has not started", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryRepository(), &stubCatalog{sessions: catalogSessions()}, config.DurabilityNone)

		Convey("Then use cases refuse to run", func() {
			_, err := svc.AddMember(ctx, types.MemberInput{Name: "Ada"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.Stop(ctx), ShouldBeNil)
		})

		Convey("When it starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			Convey("Then the catalog is loaded and stats report it", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["catalogSessions"], ShouldEqual, 3)
				So(stats["durability"], ShouldEqual, config.DurabilityNone)
			})

			Convey("Then starting twice is harmless", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a catalog that cannot be fetched", t, func() {
		ctx := context.Background()
		repo := repository.NewMemoryRepository()
		saved := model.Snapshot{Sessions: catalogSessions()[:1]}
		So(repo.SaveSnapshot(ctx, repository.DefaultSnapshotID, saved), ShouldBeNil)
		svc := newService(repo, &stubCatalog{err: errors.New("offline")}, config.DurabilitySync)

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			Convey("Then persisted sessions survive and refresh reports the failure", func() {
				So(svc.Snapshot().Sessions, ShouldHaveLength, 1)
				_, err := svc.RefreshCatalog(ctx)
				So(err, ShouldNotBeNil)
				So(svc.Snapshot().Sessions, ShouldHaveLength, 1)
			})
		})
	})
}

func TestService_Team(t *testing.T) {
	Convey("Given a running service with synchronous persistence", t, func() {
		ctx := context.Background()
		repo := repository.NewMemoryRepository()
		svc := newService(repo, &stubCatalog{sessions: catalogSessions()}, config.DurabilitySync)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When two members join", func() {
			ada, err := svc.AddMember(ctx, types.MemberInput{Name: " Ada "})
			So(err, ShouldBeNil)
			lin, err := svc.AddMember(ctx, types.MemberInput{Name: "Lin", Role: "Engineer"})
			So(err, ShouldBeNil)

			Convey("Then they get distinct palette colours and defaults", func() {
				So(ada.Name, ShouldEqual, "Ada")
				So(ada.Role, ShouldEqual, model.DefaultRole)
				So(ada.Color, ShouldEqual, "indigo")
				So(lin.Color, ShouldEqual, "emerald")
				So(ada.Avatar, ShouldContainSubstring, "seed=Ada")
			})

			Convey("Then the member rows and snapshot are persisted", func() {
				row, err := repo.GetMember(ctx, lin.ID)
				So(err, ShouldBeNil)
				So(row.Role, ShouldEqual, "Engineer")
				snap, found, err := repo.LoadSnapshot(ctx, repository.DefaultSnapshotID)
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(snap.Team, ShouldHaveLength, 2)
			})

			Convey("Then updating keeps the colour", func() {
				updated, err := svc.UpdateMember(ctx, ada.ID, types.MemberInput{Role: "Lead"})
				So(err, ShouldBeNil)
				So(updated.Color, ShouldEqual, "indigo")
				So(updated.Name, ShouldEqual, "Ada")
			})

			Convey("Then removing a member drops their attendance", func() {
				_, err := svc.ToggleAttendance(ctx, "k1", ada.ID, "")
				So(err, ShouldBeNil)
				So(svc.RemoveMember(ctx, ada.ID), ShouldBeNil)
				So(svc.Snapshot().Attendance, ShouldBeEmpty)
				_, err = repo.GetMember(ctx, ada.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a member has no name", func() {
			_, err := svc.AddMember(ctx, types.MemberInput{Name: "  "})

			Convey("Then the input is rejected", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_SessionsAndAttendance(t *testing.T) {
	Convey("Given a running service with one member", t, func() {
		ctx := context.Background()
		src := &stubCatalog{sessions: catalogSessions()}
		svc := newService(repository.NewMemoryRepository(), src, config.DurabilityNone)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()
		ada, err := svc.AddMember(ctx, types.MemberInput{Name: "Ada"})
		So(err, ShouldBeNil)

		Convey("When Ada creates a custom session", func() {
			sess, err := svc.CreateCustomSession(ctx, ada.ID, types.SessionInput{
				Title: "Team lunch", Room: "Cafe", Day: 2, StartTime: "12:00", EndTime: "13:00",
			})
			So(err, ShouldBeNil)

			Convey("Then it is custom, dated and attended by its creator", func() {
				So(sess.IsCustom, ShouldBeTrue)
				So(sess.Track, ShouldEqual, model.CustomTrack)
				So(sess.Date, ShouldEqual, "Wednesday, June 4, 2025")
				detail, err := svc.SessionDetail(sess.ID)
				So(err, ShouldBeNil)
				So(detail.Attendees, ShouldHaveLength, 1)
				So(detail.Attendees[0].ID, ShouldEqual, ada.ID)
			})

			Convey("Then it can be edited and deleted", func() {
				updated, err := svc.UpdateSession(ctx, sess.ID, types.SessionInput{
					Title: "Team dinner", Room: "Bistro", Day: 2, StartTime: "19:00", EndTime: "21:00",
				})
				So(err, ShouldBeNil)
				So(updated.CreatedBy, ShouldEqual, ada.ID)
				So(svc.DeleteSession(ctx, sess.ID), ShouldBeNil)
				So(svc.Snapshot().Attendance, ShouldBeEmpty)
			})
		})

		Convey("When a catalog session is edited", func() {
			_, err := svc.UpdateSession(ctx, "k1", types.SessionInput{Title: "x", Day: 1, StartTime: "09:00", EndTime: "10:00"})

			Convey("Then it is refused", func() {
				So(errors.Is(err, service.ErrCatalogSession), ShouldBeTrue)
				So(errors.Is(svc.DeleteSession(ctx, "k1"), service.ErrCatalogSession), ShouldBeTrue)
			})
		})

		Convey("When Ada signs up for overlapping sessions", func() {
			_, err := svc.ToggleAttendance(ctx, "k1", ada.ID, "")
			So(err, ShouldBeNil)
			toggle, err := svc.ToggleAttendance(ctx, "a1", ada.ID, "")
			So(err, ShouldBeNil)

			Convey("Then conflicts and coverage reflect it", func() {
				So(toggle.Attending, ShouldBeTrue)
				conflicts, err := svc.MemberConflicts(ada.ID)
				So(err, ShouldBeNil)
				So(conflicts, ShouldHaveLength, 1)
				So(svc.Coverage().MostCovered, ShouldHaveLength, 3)
				detail, err := svc.SessionDetail("k1")
				So(err, ShouldBeNil)
				So(detail.Attendees[0].Conflict, ShouldBeTrue)
			})
		})

		Convey("When the same idempotency key is sent twice", func() {
			first, err := svc.ToggleAttendance(ctx, "e2", ada.ID, "req-1")
			So(err, ShouldBeNil)
			second, err := svc.ToggleAttendance(ctx, "e2", ada.ID, "req-1")
			So(err, ShouldBeNil)

			Convey("Then the second is reported as a duplicate and not applied", func() {
				So(first.Attending, ShouldBeTrue)
				So(second.Duplicate, ShouldBeTrue)
				So(second.Attending, ShouldBeTrue)
				So(svc.Snapshot().Attendance, ShouldHaveLength, 1)
			})
		})

		Convey("When a toggle with a key fails", func() {
			_, err := svc.ToggleAttendance(ctx, "ghost", ada.ID, "req-2")
			So(errors.Is(err, state.ErrNotFound), ShouldBeTrue)

			Convey("Then the key can be reused", func() {
				toggle, err := svc.ToggleAttendance(ctx, "k1", ada.ID, "req-2")
				So(err, ShouldBeNil)
				So(toggle.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When the same key races with itself", func() {
			Convey("Then both replies report the state the toggle produced", func() {
				for round := 0; round < 100; round++ {
					key := fmt.Sprintf("race-%d", round)
					var wg sync.WaitGroup
					replies := make([]types.Toggle, 2)
					errs := make([]error, 2)
					for i := range replies {
						wg.Add(1)
						go func() {
							defer wg.Done()
							replies[i], errs[i] = svc.ToggleAttendance(ctx, "e2", ada.ID, key)
						}()
					}
					wg.Wait()

					final := slices.Contains(svc.Snapshot().Attendance, model.Attendance{SessionID: "e2", MemberID: ada.ID})
					So(errs[0], ShouldBeNil)
					So(errs[1], ShouldBeNil)
					So(replies[0].Attending, ShouldEqual, final)
					So(replies[1].Attending, ShouldEqual, final)
					So(replies[0].Duplicate != replies[1].Duplicate, ShouldBeTrue)
					So(final, ShouldEqual, round%2 == 0)
				}
			})
		})

		Convey("When the feed reuses a custom session's id", func() {
			sess, err := svc.CreateCustomSession(ctx, ada.ID, types.SessionInput{
				Title: "Team lunch", Room: "Cafe", Day: 2, StartTime: "12:00", EndTime: "13:00",
			})
			So(err, ShouldBeNil)
			src.sessions = []model.Session{
				{ID: "k1", Title: "Keynote", Track: "General", Room: "Main", Day: 1, StartTime: "09:00", EndTime: "10:00"},
				{ID: sess.ID, Title: "Feed session", Track: "Agents", Room: "A", Day: 1, StartTime: "11:00", EndTime: "12:00"},
				{ID: "n9", Title: "New talk", Track: "Evals", Room: "B", Day: 3, StartTime: "10:00", EndTime: "11:00"},
			}
			n, err := svc.RefreshCatalog(ctx)

			Convey("Then the custom session wins and the catalog is still replaced", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				kept, ok := svc.Snapshot().Session(sess.ID)
				So(ok, ShouldBeTrue)
				So(kept.IsCustom, ShouldBeTrue)
				So(kept.Title, ShouldEqual, "Team lunch")
				_, ok = svc.Snapshot().Session("n9")
				So(ok, ShouldBeTrue)
				_, ok = svc.Snapshot().Session("e2")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When sessions are filtered", func() {
			Convey("Then day and facets narrow the agenda", func() {
				So(svc.Sessions(coverage.Filter{Day: 1}), ShouldHaveLength, 2)
				tracks, rooms := svc.Facets()
				So(tracks, ShouldResemble, []string{"Agents", "Evals", "General"})
				So(rooms, ShouldHaveLength, 3)
			})
		})

		Convey("When a briefing is requested for a day outside the event", func() {
			_, err := svc.Briefing(4)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_NotesAndSummaries(t *testing.T) {
	Convey("Given a running service with a member", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryRepository(), &stubCatalog{sessions: catalogSessions()}, config.DurabilityNone)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()
		ada, err := svc.AddMember(ctx, types.MemberInput{Name: "Ada"})
		So(err, ShouldBeNil)

		Convey("When notes are written and edited", func() {
			note, err := svc.AddNote(ctx, "k1", ada.ID, " loved it ")
			So(err, ShouldBeNil)
			edited, err := svc.UpdateNote(ctx, note.ID, "loved it, slides shared")

			Convey("Then content is stored and creation time kept", func() {
				So(err, ShouldBeNil)
				So(note.Content, ShouldEqual, "loved it")
				So(edited.CreatedAt, ShouldEqual, note.CreatedAt)
				So(svc.Notes("k1"), ShouldHaveLength, 1)
				So(svc.DeleteNote(ctx, note.ID), ShouldBeNil)
				So(svc.Notes(""), ShouldBeEmpty)
			})
		})

		Convey("When a summary is written", func() {
			sum, err := svc.AddSummary(ctx, types.SummaryInput{
				SessionID: "e2", AuthorID: ada.ID, Rating: 5,
				KeyTakeaways: []string{"measure first", " "},
			})
			So(err, ShouldBeNil)

			Convey("Then blank takeaways are dropped and search finds it", func() {
				So(sum.KeyTakeaways, ShouldResemble, []string{"measure first"})
				found := svc.SearchSummaries(coverage.SummaryQuery{Term: "measure"})
				So(found, ShouldHaveLength, 1)
			})

			Convey("Then an out-of-range rating update is rejected", func() {
				_, err := svc.UpdateSummary(ctx, sum.ID, types.SummaryInput{Rating: 9})
				So(errors.Is(err, model.ErrInvalidSummary), ShouldBeTrue)
			})
		})

		Convey("When the schedule is exported", func() {
			var buf bytes.Buffer
			So(svc.ExportCSV(&buf), ShouldBeNil)

			Convey("Then every session has a row", func() {
				So(bytes.Count(buf.Bytes(), []byte("\n")), ShouldEqual, 4)
			})
		})
	})
}

func TestService_StopDuringWrites(t *testing.T) {
	Convey("Given members joining while the service stops", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithDurability(config.DurabilitySync),
			service.WithRepository(repository.NewMemoryRepository()),
			service.WithShutdownTimeout(time.Second),
		)
		So(svc.Start(ctx), ShouldBeNil)

		var wg sync.WaitGroup
		errs := make([]error, 20)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = svc.AddMember(ctx, types.MemberInput{Name: fmt.Sprintf("m%d", i)})
			}()
		}
		stopErr := svc.Stop(ctx)
		wg.Wait()

		Convey("Then every call either lands or reports the service is down", func() {
			So(stopErr, ShouldBeNil)
			for _, err := range errs {
				if err != nil {
					So(errors.Is(err, service.ErrNotStarted) || errors.Is(err, store.ErrStopped), ShouldBeTrue)
				}
			}
			So(errors.Is(svc.RemoveMember(ctx, "m0"), service.ErrNotStarted), ShouldBeTrue)
		})
	})
}
