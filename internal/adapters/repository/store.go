// Package repository persists team-coordination snapshots and the team
// member collection.
package repository

import (
	"context"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// DefaultSnapshotID is the key the application snapshot is stored under.
const DefaultSnapshotID = "main"

// Repository provides key-value access to persisted state. There are no
// transactions spanning the snapshot row and the member collection.
type Repository interface {
	// SaveSnapshot upserts the whole snapshot under id.
	SaveSnapshot(ctx context.Context, id string, snap model.Snapshot) error

	// LoadSnapshot returns the snapshot stored under id. found is false when
	// nothing has been saved yet.
	LoadSnapshot(ctx context.Context, id string) (snap model.Snapshot, found bool, err error)

	// UpsertMember writes a single member row.
	UpsertMember(ctx context.Context, m model.TeamMember) error

	// GetMember returns ErrNotFound if the member is unknown.
	GetMember(ctx context.Context, id string) (model.TeamMember, error)

	// DeleteMember removes a member row. Deleting an unknown id is not an error.
	DeleteMember(ctx context.Context, id string) error

	Close() error
}
