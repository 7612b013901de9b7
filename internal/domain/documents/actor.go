package documents

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Ability is one of the six ability scores
type Ability struct {
	Value int `json:"value"`
	// SaveProficient is the saving throw proficiency multiplier
	SaveProficient float64 `json:"proficient"`
	// CheckProficient is the ability check proficiency multiplier
	CheckProficient float64 `json:"checkProficient"`
}

// Mod returns the ability modifier
func (a Ability) Mod() int {
	return int(math.Floor(float64(a.Value-10) / 2))
}

// Proficiency is a skill or tool proficiency entry
type Proficiency struct {
	Ability    string  `json:"ability"`
	Proficient float64 `json:"value"`
}

// HitPoints tracks an actor's health
type HitPoints struct {
	Value   int `json:"value"`
	Max     int `json:"max"`
	TempMax int `json:"tempmax"`
	Temp    int `json:"temp"`
}

// EffectiveMax is the maximum including temporary max adjustments
func (hp HitPoints) EffectiveMax() int {
	return max(0, hp.Max+hp.TempMax)
}

// Percentage returns the current health as a whole percentage of the effective maximum
func (hp HitPoints) Percentage() int {
	m := hp.EffectiveMax()
	if m == 0 {
		return 0
	}
	return int(math.Floor(float64(hp.Value) / float64(m) * 100))
}

// SpellSlot is a pool of spell slots; Level is only set for pact slots
type SpellSlot struct {
	Value int `json:"value"`
	Max   int `json:"max"`
	Level int `json:"level,omitempty"`
}

// PactSlotKey is the spell slot key for pact magic
const PactSlotKey = "pact"

// SlotKey returns the spell slot key for a spell level
func SlotKey(level int) string {
	return fmt.Sprintf("spell%d", level)
}

// Actor is a character or creature
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	Level        int                    `json:"level"`
	Prof         int                    `json:"prof"`
	Abilities    map[string]Ability     `json:"abilities"`
	Skills       map[string]Proficiency `json:"skills"`
	Tools        map[string]Proficiency `json:"tools"`
	HP           HitPoints              `json:"hp"`
	Spells       map[string]SpellSlot   `json:"spells"`
	CreatureType string                 `json:"creatureType"`
	Subtypes     []string               `json:"subtypes"`
	Languages    []string               `json:"languages"`
	Size         string                 `json:"size"`
	Statuses     []string               `json:"statuses"`

	// DeathSaveProficient is the proficiency multiplier applied to death saves
	DeathSaveProficient float64 `json:"deathSaveProficient"`

	Ownership map[string]int `json:"ownership"`
	Items     []*Item        `json:"items"`
	Effects   []*Effect      `json:"effects"`
	Flags     Flags          `json:"bonuses"`
}

// Link attaches owned items and effects to the actor
func (a *Actor) Link() {
	for _, item := range a.Items {
		item.actor = a
	}
	for _, effect := range a.Effects {
		effect.actor = a
	}
}

func (a *Actor) UUID() string      { return "Actor." + a.ID }
func (a *Actor) Kind() Kind        { return KindActor }
func (a *Actor) Label() string     { return a.Name }
func (a *Actor) BonusFlags() Flags { return a.Flags }

// Item finds an owned item by id
func (a *Actor) Item(id string) *Item {
	for _, item := range a.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// ItemByUUID finds an owned item by its full uuid
func (a *Actor) ItemByUUID(uuid string) *Item {
	prefix := a.UUID() + ".Item."
	if !strings.HasPrefix(uuid, prefix) {
		return nil
	}
	return a.Item(strings.TrimPrefix(uuid, prefix))
}

// Effect finds an effect by id
func (a *Actor) Effect(id string) *Effect {
	for _, effect := range a.Effects {
		if effect.ID == id {
			return effect
		}
	}
	return nil
}

// RemoveEffect deletes an effect and reports whether it existed
func (a *Actor) RemoveEffect(id string) bool {
	for i, effect := range a.Effects {
		if effect.ID == id {
			a.Effects = append(a.Effects[:i], a.Effects[i+1:]...)
			return true
		}
	}
	return false
}

// ActiveEffects returns effects that are neither disabled nor suppressed
func (a *Actor) ActiveEffects() []*Effect {
	var out []*Effect
	for _, effect := range a.Effects {
		if effect.IsActive() {
			out = append(out, effect)
		}
	}
	return out
}

// StatusSet returns every status on the actor, from itself and its active effects
func (a *Actor) StatusSet() []string {
	out := append([]string(nil), a.Statuses...)
	for _, effect := range a.ActiveEffects() {
		for _, s := range effect.Statuses {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// HasStatus reports whether the actor is affected by status
func (a *Actor) HasStatus(status string) bool {
	return slices.Contains(a.StatusSet(), status)
}

// CreatureTypes returns the creature type and subtypes as lowercase tags
func (a *Actor) CreatureTypes() []string {
	var out []string
	if a.CreatureType != "" {
		out = append(out, strings.ToLower(a.CreatureType))
	}
	for _, s := range a.Subtypes {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

// EquippedArmor returns the equipped armor and shields
func (a *Actor) EquippedArmor() []*Item {
	var out []*Item
	for _, item := range a.Items {
		if item.Type == ItemTypeEquipment && item.Equipped && item.ArmorType != "" {
			out = append(out, item)
		}
	}
	return out
}

// ArmorTags returns the base item and armor category of every equipped armor piece
func (a *Actor) ArmorTags() []string {
	var out []string
	for _, item := range a.EquippedArmor() {
		out = append(out, item.ArmorType)
		if item.BaseItem != "" {
			out = append(out, item.BaseItem)
		}
	}
	return out
}

// SlotLevel returns the spell level of a slot key
func (a *Actor) SlotLevel(key string) int {
	if key == PactSlotKey {
		return a.Spells[key].Level
	}
	var level int
	if _, err := fmt.Sscanf(key, "spell%d", &level); err != nil {
		return 0
	}
	return level
}

// IsOwner reports whether user may edit the actor
func (a *Actor) IsOwner(user *User) bool {
	if user == nil {
		return false
	}
	if user.GM {
		return true
	}
	if a.Ownership[user.ID] >= OwnershipOwner {
		return true
	}
	return a.Ownership["default"] >= OwnershipOwner
}

// RollData builds the actor's formula data
func (a *Actor) RollData() RollData {
	abilities := map[string]any{}
	for key, ab := range a.Abilities {
		abilities[key] = map[string]any{
			"value":      ab.Value,
			"mod":        ab.Mod(),
			"save":       ab.Mod() + int(math.Floor(ab.SaveProficient*float64(a.Prof))),
			"proficient": ab.SaveProficient,
		}
	}

	skills := map[string]any{}
	for key, sk := range a.Skills {
		mod := 0
		if ab, ok := a.Abilities[sk.Ability]; ok {
			mod = ab.Mod()
		}
		skills[key] = map[string]any{
			"ability": sk.Ability,
			"value":   sk.Proficient,
			"total":   mod + int(math.Floor(sk.Proficient*float64(a.Prof))),
		}
	}

	spells := map[string]any{}
	for key, slot := range a.Spells {
		spells[key] = map[string]any{
			"value": slot.Value,
			"max":   slot.Max,
			"level": a.SlotLevel(key),
		}
	}

	return RollData{
		"name":      a.Name,
		"prof":      a.Prof,
		"abilities": abilities,
		"skills":    skills,
		"spells":    spells,
		"attributes": map[string]any{
			"prof": a.Prof,
			"hp": map[string]any{
				"value":   a.HP.Value,
				"max":     a.HP.Max,
				"tempmax": a.HP.TempMax,
				"temp":    a.HP.Temp,
				"pct":     a.HP.Percentage(),
			},
		},
		"details": map[string]any{
			"level": a.Level,
			"type":  a.CreatureType,
		},
		"traits": map[string]any{
			"size": a.Size,
		},
	}
}
