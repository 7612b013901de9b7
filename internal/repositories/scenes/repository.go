package scenes

//go:generate mockgen -destination=mock/mock_repository.go -package=mockscenes -source=repository.go

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
)

// Snapshot is a stored world: scene geometry, actors and the user's targets
type Snapshot struct {
	ID      string       `json:"id"`
	World   *scene.World `json:"world"`
	SavedAt time.Time    `json:"savedAt"`
}

// Repository defines the interface for snapshot storage
type Repository interface {
	// Put stores snap. A snapshot without an id is given a new one; SavedAt is stamped.
	Put(ctx context.Context, snap *Snapshot) error

	// Get retrieves a snapshot with its world resolved
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Delete removes a snapshot
	Delete(ctx context.Context, id string) error

	// List retrieves every snapshot ordered by id
	List(ctx context.Context) ([]*Snapshot, error)
}

// TimeProvider stamps snapshots as they are saved
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func validate(snap *Snapshot) error {
	if snap == nil {
		return dnderr.InvalidArgument("snapshot cannot be nil")
	}
	if snap.World == nil {
		return dnderr.InvalidArgument("snapshot world cannot be nil")
	}
	return nil
}

// decode reads a stored snapshot and links its world
func decode(id string, data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to unmarshal snapshot").
			WithMeta("snapshot_id", id)
	}
	if snap.World == nil {
		return nil, dnderr.Internalf("snapshot %s has no world", id)
	}
	if err := snap.World.Resolve(); err != nil {
		return nil, dnderr.Wrapf(err, "failed to resolve snapshot %s", id)
	}
	return &snap, nil
}
