package seed

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// verify rebuilds attendance from per-member schedules, checks every planned
// pair landed, and recomputes the ranking to compare it with /coverage. It
// returns the number of sessions with at least one attendee.
func verify(ctx context.Context, c *client, created []string, planned []toggle) (int, error) {
	var (
		team     []model.TeamMember
		sessions []model.Session
		got      coverage.Ranking
	)
	if err := c.get(ctx, "/team", &team); err != nil {
		return 0, fmt.Errorf("list team: %w", err)
	}
	if err := c.get(ctx, "/sessions", &sessions); err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	var (
		mu         sync.Mutex
		attendance []model.Attendance
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, m := range team {
		g.Go(func() error {
			var mine []model.Session
			if err := c.get(gctx, "/team/"+url.PathEscape(m.ID)+"/sessions", &mine); err != nil {
				return fmt.Errorf("sessions of %s: %w", m.ID, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, s := range mine {
				attendance = append(attendance, model.Attendance{SessionID: s.ID, MemberID: m.ID})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := checkPlanned(created, planned, attendance); err != nil {
		return 0, err
	}

	if err := c.get(ctx, "/coverage", &got); err != nil {
		return 0, fmt.Errorf("coverage: %w", err)
	}
	want := coverage.Rank(sessions, attendance)
	return compareRanking(want, got)
}

// checkPlanned requires created members to attend exactly what was planned
// for them.
func checkPlanned(created []string, planned []toggle, attendance []model.Attendance) error {
	fresh := make(map[string]bool, len(created))
	for _, id := range created {
		fresh[id] = true
	}
	have := make(map[model.Attendance]bool, len(attendance))
	for _, a := range attendance {
		if fresh[a.MemberID] {
			have[a] = true
		}
	}
	for _, tg := range planned {
		a := model.Attendance{SessionID: tg.SessionID, MemberID: tg.MemberID}
		if !have[a] {
			return fmt.Errorf("%w: %s missing from %s", ErrMismatch, tg.SessionID, tg.MemberID)
		}
		delete(have, a)
	}
	for a := range have {
		return fmt.Errorf("%w: unplanned attendance %s/%s", ErrMismatch, a.SessionID, a.MemberID)
	}
	return nil
}

// compareRanking matches per-session counts, then checks the most covered
// list carries the top counts. Ties may order differently between the two
// sides, so ids are not compared positionally.
func compareRanking(want, got coverage.Ranking) (int, error) {
	gotCounts := make(map[string]int, len(got.Counts))
	for _, sc := range got.Counts {
		gotCounts[sc.Session.ID] = sc.Count
	}
	covered := 0
	for _, sc := range want.Counts {
		if gotCounts[sc.Session.ID] != sc.Count {
			return 0, fmt.Errorf("%w: session %s has %d attendees, coverage reports %d",
				ErrMismatch, sc.Session.ID, sc.Count, gotCounts[sc.Session.ID])
		}
		if sc.Count > 0 {
			covered++
		}
	}
	if len(got.MostCovered) != len(want.MostCovered) {
		return 0, fmt.Errorf("%w: %d most covered, expected %d", ErrMismatch, len(got.MostCovered), len(want.MostCovered))
	}
	for i, s := range got.MostCovered {
		if gotCounts[s.ID] != want.Counts[i].Count {
			return 0, fmt.Errorf("%w: most covered #%d %s has %d attendees, expected %d",
				ErrMismatch, i+1, s.ID, gotCounts[s.ID], want.Counts[i].Count)
		}
	}
	return covered, nil
}
