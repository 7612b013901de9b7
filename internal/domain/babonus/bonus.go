package babonus

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
)

// ErrMalformedBonus is wrapped by every error Parse returns for bad stored data
var ErrMalformedBonus = errors.New("malformed bonus")

// Bonus is one authored conditional bonus held by an actor, item, effect or template
type Bonus struct {
	ID          string
	Name        string
	Description string
	Type        Type
	Enabled     bool
	Optional    bool
	Exclusive   bool
	Filters     []Filter
	Bonuses     Bonuses
	Aura        Aura
	Consume     Consume

	holder   documents.Holder
	actor    *documents.Actor
	item     *documents.Item
	effect   *documents.Effect
	template *scene.Template
}

type storedBonus struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Type        Type                       `json:"type"`
	Enabled     bool                       `json:"enabled"`
	Optional    bool                       `json:"optional"`
	Exclusive   bool                       `json:"exclusive"`
	Filters     map[string]json.RawMessage `json:"filters"`
	Bonuses     Bonuses                    `json:"bonuses"`
	Aura        Aura                       `json:"aura"`
	Consume     Consume                    `json:"consume"`
}

func malformed(id string, err error) error {
	return dnderr.WrapWithCode(fmt.Errorf("%w: %w", ErrMalformedBonus, err), dnderr.CodeValidation, "bonus "+id).
		WithMeta("bonus_id", id)
}

// Parse builds a bonus from its stored data under the given id
func Parse(id string, raw json.RawMessage, holder documents.Holder) (*Bonus, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dnderr.WrapWithCode(ErrMalformedBonus, dnderr.CodeValidation, "bonus id is required")
	}

	var stored storedBonus
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, malformed(id, err)
	}
	if stored.ID != "" && stored.ID != id {
		return nil, malformed(id, fmt.Errorf("stored id %q does not match key", stored.ID))
	}
	if !stored.Type.Valid() {
		return nil, malformed(id, fmt.Errorf("unknown type %q", stored.Type))
	}

	filters, err := ParseFilters(stored.Type, stored.Filters)
	if err != nil {
		return nil, malformed(id, err)
	}

	aura := stored.Aura
	if aura.Disposition == 0 {
		aura.Disposition = disposition.Any
	}
	if !aura.Disposition.Valid() {
		return nil, malformed(id, fmt.Errorf("unknown aura disposition %d", aura.Disposition))
	}

	if err := stored.Consume.validate(); err != nil {
		return nil, malformed(id, err)
	}

	b := &Bonus{
		ID:          id,
		Name:        stored.Name,
		Description: stored.Description,
		Type:        stored.Type,
		Enabled:     stored.Enabled,
		Optional:    stored.Optional,
		Exclusive:   stored.Exclusive,
		Filters:     filters,
		Bonuses:     stored.Bonuses.forType(stored.Type),
		Aura:        aura,
		Consume:     stored.Consume,
	}
	b.bind(holder)
	return b, nil
}

// ParseAll parses every bonus in a holder's flag bag. Bonuses that fail to parse are
// returned as errors alongside the good ones.
func ParseAll(holder documents.Holder) ([]*Bonus, []error) {
	flags := holder.BonusFlags()
	if len(flags) == 0 {
		return nil, nil
	}

	var (
		out  []*Bonus
		errs []error
	)
	for _, id := range sortedKeys(flags) {
		b, err := Parse(id, flags[id], holder)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, b)
	}
	return out, errs
}

func (b *Bonus) bind(holder documents.Holder) {
	b.holder = holder
	switch h := holder.(type) {
	case *documents.Actor:
		b.actor = h
	case *documents.Item:
		b.item = h
		b.actor = h.Actor()
	case *documents.Effect:
		b.effect = h
		b.actor = h.Actor()
		b.item = h.OriginItem()
	case *scene.Template:
		b.template = h
	}
}

// BindOrigin attaches the actor and item a template bonus was placed by
func (b *Bonus) BindOrigin(actor *documents.Actor, item *documents.Item) {
	if b.template == nil {
		return
	}
	b.actor = actor
	b.item = item
}

// Holder is the document the bonus is stored on
func (b *Bonus) Holder() documents.Holder { return b.holder }

// Actor is the actor that owns the bonus, if any
func (b *Bonus) Actor() *documents.Actor { return b.actor }

// Item is the item the bonus belongs to, directly or through an effect or template
func (b *Bonus) Item() *documents.Item { return b.item }

// Effect is the holding effect, if any
func (b *Bonus) Effect() *documents.Effect { return b.effect }

// Template is the holding template, if any
func (b *Bonus) Template() *scene.Template { return b.template }

// UUID identifies the bonus within its holder
func (b *Bonus) UUID() string {
	if b.holder == nil {
		return b.ID
	}
	return b.holder.UUID() + ".Babonus." + b.ID
}

// OriginUUID is the document that is the source of the bonus. Templates placed by the same
// item share their origin.
func (b *Bonus) OriginUUID() string {
	switch {
	case b.template != nil:
		return b.template.OriginUUID()
	case b.holder != nil:
		return b.holder.UUID()
	}
	return ""
}

// Key identifies the bonus across every holder in a collection
func (b *Bonus) Key() string {
	return b.OriginUUID() + "." + b.ID
}

// ItemUUID is the uuid of the bonus's item, empty when it has none
func (b *Bonus) ItemUUID() string {
	switch {
	case b.item != nil:
		return b.item.UUID()
	case b.template != nil:
		return b.template.OriginItemUUID
	case b.effect != nil && strings.Contains(b.effect.Origin, ".Item."):
		return b.effect.Origin
	}
	return ""
}

// IsSuppressed reports whether the holder currently switches the bonus off
func (b *Bonus) IsSuppressed() bool {
	switch {
	case b.effect != nil:
		return !b.effect.IsActive()
	case b.template != nil:
		return false
	case b.item != nil:
		return !b.item.IsActive()
	}
	return false
}

// AppliesToItem enforces exclusivity: exclusive bonuses only apply to rolls made with
// their own item
func (b *Bonus) AppliesToItem(rolling *documents.Item) bool {
	if !b.Exclusive {
		return true
	}
	own := b.ItemUUID()
	return own != "" && rolling != nil && rolling.UUID() == own
}

// IsAuraBlocked reports whether a blocking status is on the bonus's actor
func (b *Bonus) IsAuraBlocked() bool {
	if b.actor == nil || len(b.Aura.Blockers) == 0 {
		return false
	}
	return b.Aura.IsBlocked(b.actor.StatusSet())
}

// RollData is the data of the bonus's origin document
func (b *Bonus) RollData() documents.RollData {
	if b.holder == nil {
		return documents.RollData{}
	}
	return b.holder.RollData()
}

// WithBonuses returns a copy of the bonus with different bonuses
func (b *Bonus) WithBonuses(bonuses Bonuses) *Bonus {
	out := *b
	out.Bonuses = bonuses
	return &out
}

// Filter returns the filter stored under key
func (b *Bonus) Filter(key FilterKey) (Filter, bool) {
	for _, f := range b.Filters {
		if f.Key() == key {
			return f, true
		}
	}
	return nil, false
}
