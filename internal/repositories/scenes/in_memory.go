package scenes

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/uuid"
)

// InMemoryConfig holds the optional dependencies of the in-memory repository
type InMemoryConfig struct {
	UUIDGenerator uuid.Generator
	TimeProvider  TimeProvider
}

// inMemoryRepository keeps encoded snapshots so callers never share a world
type inMemoryRepository struct {
	mu            sync.RWMutex
	snapshots     map[string][]byte
	uuidGenerator uuid.Generator
	timeProvider  TimeProvider
}

// NewInMemoryRepository creates an in-memory snapshot repository
func NewInMemoryRepository(cfg *InMemoryConfig) Repository {
	r := &inMemoryRepository{
		snapshots:     make(map[string][]byte),
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
		timeProvider:  systemClock{},
	}
	if cfg != nil && cfg.UUIDGenerator != nil {
		r.uuidGenerator = cfg.UUIDGenerator
	}
	if cfg != nil && cfg.TimeProvider != nil {
		r.timeProvider = cfg.TimeProvider
	}
	return r
}

func (r *inMemoryRepository) Put(ctx context.Context, snap *Snapshot) error {
	if err := validate(snap); err != nil {
		return err
	}
	if snap.ID == "" {
		snap.ID = r.uuidGenerator.New()
	}
	snap.SavedAt = r.timeProvider.Now()

	data, err := json.Marshal(snap)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal snapshot")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snap.ID] = data
	return nil
}

func (r *inMemoryRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("snapshot id is required")
	}

	r.mu.RLock()
	data, exists := r.snapshots[id]
	r.mu.RUnlock()
	if !exists {
		return nil, dnderr.NotFoundf("snapshot %s not found", id)
	}
	return decode(id, data)
}

func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.snapshots[id]; !exists {
		return dnderr.NotFoundf("snapshot %s not found", id)
	}
	delete(r.snapshots, id)
	return nil
}

func (r *inMemoryRepository) List(ctx context.Context) ([]*Snapshot, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.snapshots))
	for id := range r.snapshots {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)

	out := make([]*Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := r.Get(ctx, id)
		if err != nil {
			if dnderr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}
