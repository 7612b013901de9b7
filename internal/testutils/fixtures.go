package testutils

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	"github.com/stretchr/testify/require"
)

// WorldJSON is a small snapshot: a hero with a blessed sword standing next to an orc whose
// menacing aura weakens enemies within 10 feet
const WorldJSON = `{
  "scene": {
    "id": "keep",
    "name": "The Keep",
    "grid": {"size": 100, "distance": 5, "units": "ft"},
    "tokens": [
      {"id": "hero-token", "actorId": "hero", "x": 0, "y": 0, "width": 1, "height": 1, "disposition": 1},
      {"id": "orc-token", "actorId": "orc", "x": 100, "y": 0, "width": 1, "height": 1, "disposition": -1}
    ]
  },
  "actors": [
    {
      "id": "hero", "name": "Hero", "prof": 2,
      "abilities": {"str": {"value": 16}, "dex": {"value": 12}},
      "ownership": {"player": 3},
      "items": [
        {"id": "sword", "name": "Longsword", "type": "weapon", "ability": "str", "equipped": true,
         "damage": [{"formula": "1d8 + @mod", "type": "slashing"}],
         "bonuses": {
           "blessed": {"name": "Blessed", "type": "attack", "enabled": true, "bonuses": {"bonus": "1d4"}},
           "radiant": {"name": "Radiant", "type": "damage", "enabled": true, "bonuses": {"bonus": "1d6", "damageType": "radiant"},
                       "filters": {"targetEffects": ["undead"]}}
         }},
        {"id": "ki", "name": "Ki", "type": "feat", "uses": {"value": 2, "max": 2},
         "bonuses": {
           "focus": {"name": "Focused Strike", "type": "attack", "enabled": true, "optional": true, "bonuses": {"bonus": "1d6"},
                     "consume": {"enabled": true, "type": "uses", "scales": true, "value": {"min": 1, "max": 2}}}
         }}
      ]
    },
    {
      "id": "orc", "name": "Orc",
      "bonuses": {
        "menace": {"name": "Menace", "type": "attack", "enabled": true, "bonuses": {"bonus": "-1"},
                   "aura": {"enabled": true, "range": "10", "disposition": -1}}
      }
    }
  ],
  "user": {"id": "player"},
  "targets": ["orc-token"]
}`

// LoadWorld decodes and resolves raw into a world
func LoadWorld(t *testing.T, raw string) *scene.World {
	t.Helper()
	var w scene.World
	require.NoError(t, json.Unmarshal([]byte(raw), &w))
	require.NoError(t, w.Resolve())
	return &w
}

// CreateTestWorld returns a resolved copy of WorldJSON
func CreateTestWorld(t *testing.T) *scene.World {
	t.Helper()
	return LoadWorld(t, WorldJSON)
}
