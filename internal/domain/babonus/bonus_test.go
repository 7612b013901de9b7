package babonus_test

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHero() *documents.Actor {
	a := &documents.Actor{
		ID:        "hero",
		Name:      "Hero",
		Ownership: map[string]int{"player": documents.OwnershipOwner},
		Items: []*documents.Item{
			{ID: "sword", Name: "Sword", Type: documents.ItemTypeWeapon, Equipped: true},
			{ID: "dagger", Name: "Dagger", Type: documents.ItemTypeWeapon},
		},
		Effects: []*documents.Effect{{ID: "rage", Name: "Rage"}},
	}
	a.Link()
	return a
}

func TestParse(t *testing.T) {
	hero := newHero()
	sword := hero.Item("sword")

	raw := json.RawMessage(`{
		"name": "Hunter's Mark",
		"type": "damage",
		"enabled": true,
		"filters": {
			"itemTypes": ["weapon", "!spell"],
			"skillIds": ["ath"],
			"spellLevels": null,
			"arbitraryComparisons": [{"one": "@prof", "other": "2", "operator": "GE"}]
		},
		"bonuses": {"bonus": "1d6", "criticalRange": 2, "criticalBonusDice": 1, "damageType": "force"},
		"aura": {"enabled": true, "range": 30, "blockers": ["dead"], "require": {"sight": true}}
	}`)

	b, err := babonus.Parse("mark", raw, sword)
	require.NoError(t, err)

	assert.Equal(t, "mark", b.ID)
	assert.Equal(t, babonus.TypeDamage, b.Type)
	assert.True(t, b.Enabled)
	assert.Equal(t, "Actor.hero.Item.sword.mark", b.Key())
	assert.Equal(t, "Actor.hero.Item.sword.Babonus.mark", b.UUID())
	assert.Same(t, hero, b.Actor())
	assert.Same(t, sword, b.Item())

	require.Len(t, b.Filters, 2, "skillIds is not a damage filter and null filters are dropped")
	f, ok := b.Filter(babonus.FilterItemTypes)
	require.True(t, ok)
	set := f.(babonus.SetFilter)
	assert.Equal(t, []string{"weapon"}, set.Included)
	assert.Equal(t, []string{"spell"}, set.Excluded)

	assert.Equal(t, babonus.Formula("1d6"), b.Bonuses.Bonus)
	assert.Equal(t, babonus.Formula("1"), b.Bonuses.CriticalBonusDice)
	assert.Equal(t, "force", b.Bonuses.DamageType)
	assert.True(t, b.Bonuses.CriticalRange.IsEmpty(), "critical range belongs to attacks")

	assert.Equal(t, disposition.Any, b.Aura.Disposition)
	assert.True(t, b.Aura.IsToken())
	assert.Equal(t, []scene.Restriction{scene.RestrictSight}, b.Aura.Restrictions())
	r, finite, err := b.Aura.ResolveRange(nil)
	require.NoError(t, err)
	assert.True(t, finite)
	assert.Equal(t, 30.0, r)
}

func TestParseMalformed(t *testing.T) {
	hero := newHero()
	tests := []struct {
		name string
		id   string
		raw  string
	}{
		{name: "not json", id: "a", raw: `{"type":`},
		{name: "unknown type", id: "a", raw: `{"type": "initiative"}`},
		{name: "id mismatch", id: "a", raw: `{"id": "b", "type": "attack"}`},
		{name: "bad filter", id: "a", raw: `{"type": "attack", "filters": {"itemTypes": "weapon"}}`},
		{name: "bad spell level", id: "a", raw: `{"type": "attack", "filters": {"spellLevels": [12]}}`},
		{name: "bad disposition", id: "a", raw: `{"type": "attack", "aura": {"disposition": 5}}`},
		{name: "bad consumption", id: "a", raw: `{"type": "attack", "consume": {"enabled": true, "type": "gold"}}`},
		{name: "blank id", id: " ", raw: `{"type": "attack"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := babonus.Parse(tt.id, json.RawMessage(tt.raw), hero)
			require.Error(t, err)
			assert.ErrorIs(t, err, babonus.ErrMalformedBonus)
			assert.True(t, dnderr.IsValidation(err))
		})
	}
}

func TestParseAll(t *testing.T) {
	hero := newHero()
	hero.Flags = documents.Flags{
		"good": json.RawMessage(`{"type": "attack", "enabled": true}`),
		"bad":  json.RawMessage(`{"type": 7}`),
	}

	bonuses, errs := babonus.ParseAll(hero)
	require.Len(t, bonuses, 1)
	assert.Equal(t, "good", bonuses[0].ID)
	assert.Len(t, errs, 1)
}

func TestSuppressionAndExclusivity(t *testing.T) {
	hero := newHero()
	dagger := hero.Item("dagger")
	sword := hero.Item("sword")

	b, err := babonus.Parse("x", json.RawMessage(`{"type": "attack", "enabled": true, "exclusive": true}`), dagger)
	require.NoError(t, err)
	assert.True(t, b.IsSuppressed(), "dagger is not equipped")
	assert.True(t, b.AppliesToItem(dagger))
	assert.False(t, b.AppliesToItem(sword))
	assert.False(t, b.AppliesToItem(nil))

	actorBonus, err := babonus.Parse("y", json.RawMessage(`{"type": "attack", "exclusive": true}`), hero)
	require.NoError(t, err)
	assert.False(t, actorBonus.AppliesToItem(sword), "exclusive bonuses without an item never apply")

	hero.Effect("rage").Disabled = true
	fx, err := babonus.Parse("z", json.RawMessage(`{"type": "attack"}`), hero.Effect("rage"))
	require.NoError(t, err)
	assert.True(t, fx.IsSuppressed())
}

func TestAuraBlocked(t *testing.T) {
	hero := newHero()
	b, err := babonus.Parse("a", json.RawMessage(`{"type": "save", "aura": {"enabled": true, "blockers": ["incapacitated"]}}`), hero)
	require.NoError(t, err)
	assert.False(t, b.IsAuraBlocked())

	hero.Effect("rage").Statuses = []string{"incapacitated"}
	assert.True(t, b.IsAuraBlocked())
}

func TestTemplateKey(t *testing.T) {
	tplA := &scene.Template{ID: "a", OriginItemUUID: "Actor.cleric.Item.guardians"}
	tplB := &scene.Template{ID: "b", OriginItemUUID: "Actor.cleric.Item.guardians"}
	raw := json.RawMessage(`{"type": "damage", "enabled": true, "aura": {"enabled": true, "template": true}}`)

	a, err := babonus.Parse("radiant", raw, tplA)
	require.NoError(t, err)
	b, err := babonus.Parse("radiant", raw, tplB)
	require.NoError(t, err)

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "Actor.cleric.Item.guardians", a.ItemUUID())
	assert.Equal(t, 1, babonus.NewCollection(a, b).Len())
}

func TestCollection(t *testing.T) {
	hero := newHero()
	mk := func(id string) *babonus.Bonus {
		b, err := babonus.Parse(id, json.RawMessage(`{"type": "test"}`), hero)
		require.NoError(t, err)
		return b
	}

	c := babonus.NewCollection(mk("a"), mk("b"))
	c.Set(mk("a"))
	assert.Equal(t, []string{"Actor.hero.a", "Actor.hero.b"}, c.Keys())

	other := babonus.NewCollection(mk("c"))
	c.Merge(other)
	assert.Equal(t, 3, c.Len())

	c.Delete("Actor.hero.b")
	_, ok := c.Get("Actor.hero.b")
	assert.False(t, ok)
	assert.Len(t, c.Values(), 2)

	var empty *babonus.Collection
	assert.Equal(t, 0, empty.Len())
}

func TestFormulaUnmarshal(t *testing.T) {
	var v struct {
		A babonus.Formula `json:"a"`
		B babonus.Formula `json:"b"`
		C babonus.Formula `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": " 1d4 ", "b": -2, "c": null}`), &v))
	assert.Equal(t, babonus.Formula("1d4"), v.A)
	assert.Equal(t, babonus.Formula("-2"), v.B)
	assert.True(t, v.C.IsEmpty())
	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}

func TestModifiersResolve(t *testing.T) {
	m := &babonus.Modifiers{
		Amount:  babonus.ModifierValue{Enabled: true, Value: "@prof"},
		Reroll:  babonus.RerollModifier{Enabled: true},
		Explode: babonus.ExplodeModifier{Enabled: true, Once: true},
		Minimum: babonus.MinimumModifier{Enabled: true, Value: "nope"},
		Maximum: babonus.ModifierValue{Enabled: true, Value: "5"},
	}
	got := m.Resolve(documents.RollData{"prof": 2})
	assert.Equal(t, 2, got.Amount)
	assert.True(t, got.Reroll)
	assert.Equal(t, 1, got.RerollValue)
	assert.True(t, got.Explode)
	assert.True(t, got.ExplodeOnce)
	assert.False(t, got.Minimum, "invalid values switch the modifier off")
	assert.Equal(t, 5, got.MaximumValue)
}
