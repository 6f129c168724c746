package seed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

type tally struct {
	submitted  atomic.Int64
	applied    atomic.Int64
	duplicates atomic.Int64
	retries    atomic.Int64
	failed     atomic.Int64
}

// Run executes a complete seeding run against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	cfg = cfg.withDefaults()
	log := logger.Get().Named("seed")
	start := time.Now()
	c := newClient(cfg.BaseURL, cfg.Timeout)
	rng := newRand(cfg.Seed)

	log.Info(ctx, "starting seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("members", cfg.Members),
		logger.Int("toggles", cfg.Toggles),
		logger.Int("workers", cfg.Workers),
	)

	if err := checkHealth(ctx, c); err != nil {
		return Stats{}, err
	}

	var sessions []model.Session
	if err := c.get(ctx, "/sessions", &sessions); err != nil {
		return Stats{}, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return Stats{}, ErrNoSessions
	}

	members, err := createMembers(ctx, c, cfg.Workers, memberInputs(rng, cfg.Members))
	if err != nil {
		return Stats{}, err
	}
	log.Info(ctx, "members created", logger.Int("count", len(members)))

	sessionIDs := make([]string, len(sessions))
	for i, s := range sessions {
		sessionIDs[i] = s.ID
	}
	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	planned := plan(rng, sessionIDs, memberIDs, cfg.Toggles)
	var t tally
	if err := submit(ctx, c, cfg.Workers, planned, &t, false); err != nil {
		return Stats{}, err
	}

	replays := planned[:min(cfg.Replays, len(planned))]
	if err := submit(ctx, c, cfg.Workers, replays, &t, true); err != nil {
		return Stats{}, err
	}

	covered, err := verify(ctx, c, memberIDs, planned)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		MembersCreated:   len(members),
		TogglesSubmitted: int(t.submitted.Load()),
		TogglesApplied:   int(t.applied.Load()),
		Duplicates:       int(t.duplicates.Load()),
		Retries:          int(t.retries.Load()),
		Failed:           int(t.failed.Load()),
		SessionsCovered:  covered,
		Duration:         time.Since(start),
	}
	log.Info(ctx, "seed run completed",
		logger.Int("applied", stats.TogglesApplied),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("retries", stats.Retries),
		logger.Int("failed", stats.Failed),
		logger.Int("sessionsCovered", stats.SessionsCovered),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func checkHealth(ctx context.Context, c *client) error {
	if _, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

func createMembers(ctx context.Context, c *client, workers int, inputs []types.MemberInput) ([]model.TeamMember, error) {
	out := make([]model.TeamMember, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			if _, err := c.do(gctx, http.MethodPost, "/team", in, &out[i]); err != nil {
				return fmt.Errorf("create member %q: %w", in.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// submit sends every toggle. A replay must come back flagged duplicate and
// still attending; a fresh toggle must come back attending.
func submit(ctx context.Context, c *client, workers int, toggles []toggle, t *tally, replay bool) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, tg := range toggles {
		g.Go(func() error {
			t.submitted.Add(1)
			res, err := sendToggle(gctx, c, tg, t)
			if err != nil {
				t.failed.Add(1)
				return err
			}
			switch {
			case replay && !res.Duplicate:
				return fmt.Errorf("%w: replay of %s/%s was applied again", ErrMismatch, tg.SessionID, tg.MemberID)
			case !res.Attending:
				return fmt.Errorf("%w: %s/%s not attending after sign-up", ErrMismatch, tg.SessionID, tg.MemberID)
			case res.Duplicate:
				t.duplicates.Add(1)
			default:
				t.applied.Add(1)
			}
			return nil
		})
	}
	return g.Wait()
}

// sendToggle retries on backpressure with the same key; the service forgets
// keys whose toggle was rejected.
func sendToggle(ctx context.Context, c *client, tg toggle, t *tally) (types.Toggle, error) {
	var res types.Toggle
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var status int
		status, err = c.do(ctx, http.MethodPost, "/attendance/toggle", tg, &res, idempotencyKeyHeader, tg.key)
		if err == nil || status != http.StatusTooManyRequests {
			return res, err
		}
		t.retries.Add(1)
		select {
		case <-ctx.Done():
			return res, errors.Join(err, ctx.Err())
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return res, err
}
