package consumption

//go:generate mockgen -destination=mock/mock_updater.go -package=mockconsumption -source=updater.go

import (
	"context"
	"sync"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
)

// ResourceUpdater writes a spent resource back to its document. Each call is a single
// update of one resource.
type ResourceUpdater interface {
	SetItemUses(ctx context.Context, item *documents.Item, value int) error
	SetItemQuantity(ctx context.Context, item *documents.Item, value int) error
	SetSpellSlot(ctx context.Context, actor *documents.Actor, key string, value int) error
	SetHitPoints(ctx context.Context, actor *documents.Actor, value int) error
	DeleteEffect(ctx context.Context, effect *documents.Effect) error
}

// MemoryUpdater changes the loaded documents in place
type MemoryUpdater struct {
	mu sync.Mutex
}

// NewMemoryUpdater creates an updater for documents held in memory
func NewMemoryUpdater() *MemoryUpdater {
	return &MemoryUpdater{}
}

// SetItemUses implements ResourceUpdater
func (u *MemoryUpdater) SetItemUses(_ context.Context, item *documents.Item, value int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	item.Uses.Value = value
	return nil
}

// SetItemQuantity implements ResourceUpdater
func (u *MemoryUpdater) SetItemQuantity(_ context.Context, item *documents.Item, value int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	item.Quantity = value
	return nil
}

// SetSpellSlot implements ResourceUpdater
func (u *MemoryUpdater) SetSpellSlot(_ context.Context, actor *documents.Actor, key string, value int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	slot, ok := actor.Spells[key]
	if !ok {
		return dnderr.NotFoundf("spell slot %s not found on %s", key, actor.UUID())
	}
	slot.Value = value
	actor.Spells[key] = slot
	return nil
}

// SetHitPoints implements ResourceUpdater
func (u *MemoryUpdater) SetHitPoints(_ context.Context, actor *documents.Actor, value int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	actor.HP.Value = value
	return nil
}

// DeleteEffect implements ResourceUpdater
func (u *MemoryUpdater) DeleteEffect(_ context.Context, effect *documents.Effect) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	actor := effect.Actor()
	if actor == nil || !actor.RemoveEffect(effect.ID) {
		return dnderr.NotFoundf("effect %s not found", effect.UUID())
	}
	return nil
}
