package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
	CREATE TABLE IF NOT EXISTS app_state (
		id         TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS team_members (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT '',
		avatar     TEXT NOT NULL DEFAULT '',
		color      TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);
`

// SQLiteRepository stores snapshots as JSON documents in a single SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	logger logger.Logger
	closed atomic.Bool
}

// NewSQLiteRepository opens (creating if needed) the database at path and
// applies the schema.
func NewSQLiteRepository(ctx context.Context, path string, opts ...Option) (*SQLiteRepository, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("repository")
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("repository: create data dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers on file databases.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repository: pragma %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: migration: %w", err)
	}

	s.logger.Debug(ctx, "sqlite repository opened", logger.String("path", path))
	return &SQLiteRepository{db: db, path: path, now: s.now, logger: s.logger}, nil
}

// SaveSnapshot upserts the snapshot document under id.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, id string, snap model.Snapshot) error {
	if r.closed.Load() {
		return ErrClosed
	}
	body, err := json.Marshal(snap.Normalize())
	if err != nil {
		return fmt.Errorf("repository: encode snapshot %q: %w", id, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO app_state (id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		id, string(body), r.timestamp())
	if err != nil {
		return fmt.Errorf("repository: save snapshot %q: %w", id, err)
	}
	return nil
}

// LoadSnapshot reads the snapshot stored under id.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, id string) (model.Snapshot, bool, error) {
	if r.closed.Load() {
		return model.Snapshot{}, false, ErrClosed
	}
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT state FROM app_state WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}.Normalize(), false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, fmt.Errorf("repository: load snapshot %q: %w", id, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return model.Snapshot{}, false, fmt.Errorf("%w: snapshot %q: %w", ErrCorruptRecord, id, err)
	}
	return snap.Normalize(), true, nil
}

// UpsertMember writes one member row.
func (r *SQLiteRepository) UpsertMember(ctx context.Context, m model.TeamMember) error {
	if r.closed.Load() {
		return ErrClosed
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_members (id, name, role, avatar, color, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			avatar = excluded.avatar,
			color = excluded.color,
			updated_at = excluded.updated_at`,
		m.ID, m.Name, m.Role, m.Avatar, m.Color, r.timestamp())
	if err != nil {
		return fmt.Errorf("repository: upsert member %q: %w", m.ID, err)
	}
	return nil
}

// GetMember reads one member row.
func (r *SQLiteRepository) GetMember(ctx context.Context, id string) (model.TeamMember, error) {
	if r.closed.Load() {
		return model.TeamMember{}, ErrClosed
	}
	var m model.TeamMember
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, avatar, color FROM team_members WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.Role, &m.Avatar, &m.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TeamMember{}, fmt.Errorf("%w: member %q", ErrNotFound, id)
	}
	if err != nil {
		return model.TeamMember{}, fmt.Errorf("repository: get member %q: %w", id, err)
	}
	return m, nil
}

// DeleteMember removes one member row.
func (r *SQLiteRepository) DeleteMember(ctx context.Context, id string) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ?`, id); err != nil {
		return fmt.Errorf("repository: delete member %q: %w", id, err)
	}
	return nil
}

// Close closes the underlying database. Further calls are no-ops.
func (r *SQLiteRepository) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}
