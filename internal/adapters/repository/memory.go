package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// MemoryRepository keeps everything in process memory. Snapshots are stored
// encoded so callers never share slices with the repository.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	members   map[string]model.TeamMember
	closed    bool
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		snapshots: make(map[string][]byte),
		members:   make(map[string]model.TeamMember),
	}
}

func (r *MemoryRepository) SaveSnapshot(_ context.Context, id string, snap model.Snapshot) error {
	body, err := json.Marshal(snap.Normalize())
	if err != nil {
		return fmt.Errorf("repository: encode snapshot %q: %w", id, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.snapshots[id] = body
	return nil
}

func (r *MemoryRepository) LoadSnapshot(_ context.Context, id string) (model.Snapshot, bool, error) {
	r.mu.RLock()
	body, ok := r.snapshots[id]
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return model.Snapshot{}, false, ErrClosed
	}
	if !ok {
		return model.Snapshot{}.Normalize(), false, nil
	}
	var snap model.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return model.Snapshot{}, false, fmt.Errorf("%w: snapshot %q: %w", ErrCorruptRecord, id, err)
	}
	return snap.Normalize(), true, nil
}

func (r *MemoryRepository) UpsertMember(_ context.Context, m model.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.members[m.ID] = m
	return nil
}

func (r *MemoryRepository) GetMember(_ context.Context, id string) (model.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return model.TeamMember{}, ErrClosed
	}
	m, ok := r.members[id]
	if !ok {
		return model.TeamMember{}, fmt.Errorf("%w: member %q", ErrNotFound, id)
	}
	return m, nil
}

func (r *MemoryRepository) DeleteMember(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	delete(r.members, id)
	return nil
}

func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
