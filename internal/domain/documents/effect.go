package documents

import "strings"

// Effect is an active effect on an actor
type Effect struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Disabled   bool     `json:"disabled"`
	Suppressed bool     `json:"suppressed"`
	Statuses   []string `json:"statuses"`
	// Origin is the uuid of the document that created the effect
	Origin string `json:"origin"`
	Flags  Flags  `json:"bonuses"`

	actor *Actor
}

// Actor returns the actor the effect is applied to
func (e *Effect) Actor() *Actor { return e.actor }

// SetActor attaches the effect to an actor
func (e *Effect) SetActor(a *Actor) { e.actor = a }

func (e *Effect) UUID() string {
	if e.actor == nil {
		return "ActiveEffect." + e.ID
	}
	return e.actor.UUID() + ".ActiveEffect." + e.ID
}

func (e *Effect) Kind() Kind        { return KindEffect }
func (e *Effect) Label() string     { return e.Name }
func (e *Effect) BonusFlags() Flags { return e.Flags }

// OriginItem returns the item on the same actor that created the effect, if any
func (e *Effect) OriginItem() *Item {
	if e.actor == nil || !strings.Contains(e.Origin, ".Item.") {
		return nil
	}
	return e.actor.ItemByUUID(e.Origin)
}

// IsActive reports whether the effect applies: not disabled, not suppressed and, when it
// comes from one of the actor's items, that item is active
func (e *Effect) IsActive() bool {
	if e.Disabled || e.Suppressed {
		return false
	}
	if item := e.OriginItem(); item != nil && !item.IsActive() {
		return false
	}
	return true
}

// IsOwner reports whether user may edit the effect
func (e *Effect) IsOwner(user *User) bool {
	if e.actor == nil {
		return user != nil && user.GM
	}
	return e.actor.IsOwner(user)
}

// RollData uses the origin item's data when available, otherwise the actor's
func (e *Effect) RollData() RollData {
	if item := e.OriginItem(); item != nil {
		return item.RollData()
	}
	if e.actor != nil {
		return e.actor.RollData()
	}
	return RollData{}
}
