package documents

import "slices"

// Item types
const (
	ItemTypeWeapon     = "weapon"
	ItemTypeEquipment  = "equipment"
	ItemTypeConsumable = "consumable"
	ItemTypeTool       = "tool"
	ItemTypeLoot       = "loot"
	ItemTypeSpell      = "spell"
	ItemTypeFeat       = "feat"
	ItemTypeContainer  = "container"
)

// Attunement states
const (
	AttunementNone     = ""
	AttunementRequired = "required"
	AttunementOptional = "optional"
)

// DamagePart is one formula and damage type pair
type DamagePart struct {
	Formula string `json:"formula"`
	Type    string `json:"type"`
}

// SpellDetails holds the spell-only fields of an item
type SpellDetails struct {
	Level       int      `json:"level"`
	School      string   `json:"school"`
	Components  []string `json:"components"`
	Preparation string   `json:"preparation"`
	SourceClass string   `json:"sourceClass"`
}

// Uses is a limited use pool
type Uses struct {
	Value int    `json:"value"`
	Max   int    `json:"max"`
	Per   string `json:"per,omitempty"`
}

// Item is an owned item, spell or feature
type Item struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Identifier  string        `json:"identifier"`
	BaseItem    string        `json:"baseItem"`
	Properties  []string      `json:"properties"`
	Ability     string        `json:"ability"`
	ActionType  string        `json:"actionType"`
	Damage      []DamagePart  `json:"damage"`
	Spell       *SpellDetails `json:"spell,omitempty"`
	SaveAbility string        `json:"saveAbility"`
	FeatureType string        `json:"featureType"`
	ArmorType   string        `json:"armorType"`
	// Proficient is the proficiency multiplier when rolling with this item
	Proficient *float64 `json:"proficient,omitempty"`

	Uses       Uses   `json:"uses"`
	Quantity   int    `json:"quantity"`
	Equipped   bool   `json:"equipped"`
	Attunement string `json:"attunement"`
	Attuned    bool   `json:"attuned"`

	Ownership map[string]int `json:"ownership,omitempty"`
	Flags     Flags          `json:"bonuses"`

	actor *Actor
}

// Actor returns the owning actor, nil for unowned items
func (i *Item) Actor() *Actor { return i.actor }

// SetActor attaches the item to an owner
func (i *Item) SetActor(a *Actor) { i.actor = a }

func (i *Item) UUID() string {
	if i.actor == nil {
		return "Item." + i.ID
	}
	return i.actor.UUID() + ".Item." + i.ID
}

func (i *Item) Kind() Kind        { return KindItem }
func (i *Item) Label() string     { return i.Name }
func (i *Item) BonusFlags() Flags { return i.Flags }

// IsSpell reports whether the item is a spell
func (i *Item) IsSpell() bool {
	return i.Type == ItemTypeSpell && i.Spell != nil
}

func (i *Item) equippable() bool {
	switch i.Type {
	case ItemTypeWeapon, ItemTypeEquipment:
		return true
	}
	return false
}

// IsActive reports whether the item's bonuses are live: required attunement must be met and
// equippable items must be equipped
func (i *Item) IsActive() bool {
	if i.Attunement == AttunementRequired && !i.Attuned {
		return false
	}
	if i.equippable() && !i.Equipped {
		return false
	}
	return true
}

// DamageTypes returns the distinct damage types of the item's damage parts
func (i *Item) DamageTypes() []string {
	var out []string
	for _, part := range i.Damage {
		if part.Type != "" && !slices.Contains(out, part.Type) {
			out = append(out, part.Type)
		}
	}
	return out
}

// ProficiencyMultiplier returns the item's proficiency multiplier
func (i *Item) ProficiencyMultiplier() float64 {
	if i.Proficient == nil {
		return 0
	}
	return *i.Proficient
}

// IsOwner reports whether user may edit the item
func (i *Item) IsOwner(user *User) bool {
	if i.actor != nil {
		return i.actor.IsOwner(user)
	}
	if user == nil {
		return false
	}
	return user.GM || i.Ownership[user.ID] >= OwnershipOwner
}

// RollData is the owning actor's roll data with the item under "item"
func (i *Item) RollData() RollData {
	var data RollData
	if i.actor != nil {
		data = i.actor.RollData()
	} else {
		data = RollData{}
	}

	item := map[string]any{
		"name":       i.Name,
		"type":       i.Type,
		"identifier": i.Identifier,
		"quantity":   i.Quantity,
		"uses": map[string]any{
			"value": i.Uses.Value,
			"max":   i.Uses.Max,
		},
	}
	if i.Spell != nil {
		item["level"] = i.Spell.Level
		item["school"] = i.Spell.School
	}
	if i.Ability != "" && i.actor != nil {
		if ab, ok := i.actor.Abilities[i.Ability]; ok {
			data["mod"] = ab.Mod()
		}
	}
	data["item"] = item
	return data
}
