package collector

import (
	"log"
	"math"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/geometry"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
)

func (r *rollContext) tokenBonuses() *babonus.Collection {
	out := babonus.NewCollection()
	sc := r.world.Scene

	for _, source := range sc.Tokens {
		if source == r.token || source.Hidden || source.Group {
			continue
		}
		owner := source.Actor()
		if owner == nil || owner.ID == r.actor.ID {
			continue
		}

		for _, holder := range actorHolders(owner) {
			for _, b := range r.parse(holder) {
				if !b.Aura.IsToken() || b.IsAuraBlocked() {
					continue
				}
				if !disposition.Matches(source.Disposition, r.token.Disposition, b.Aura.Disposition) {
					continue
				}
				if !r.inAura(sc, source, b) {
					continue
				}
				out.Set(b)
			}
		}
	}
	return out
}

// inAura tests whether the roller's token is within the aura's range of its source,
// with line of effect when the aura requires it
func (r *rollContext) inAura(sc *scene.Scene, source *scene.Token, b *babonus.Bonus) bool {
	rng, finite, err := b.Aura.ResolveRange(b.RollData())
	if err != nil {
		log.Printf("Collector: invalid aura range %q on %s: %v", b.Aura.Range, b.UUID(), err)
		return false
	}
	if !finite {
		return true
	}
	return auraContains(sc, source.Footprint(), r.token.Footprint(), rng, b.Aura.Restrictions())
}

func auraContains(sc *scene.Scene, source, target geometry.Footprint, rng float64, require []scene.Restriction) bool {
	grid := sc.Grid
	if len(require) == 0 {
		return grid.MinimumDistance(source, target) <= rng
	}

	if math.Abs(source.Elevation-target.Elevation) > rng {
		return false
	}
	for _, p := range grid.CellCenters(source) {
		for _, q := range grid.CellCenters(target) {
			if grid.Measure(p, q) <= rng && sc.LineOfEffect(p, q, require) {
				return true
			}
		}
	}
	return false
}

func (r *rollContext) templateBonuses() *babonus.Collection {
	out := babonus.NewCollection()
	sc := r.world.Scene
	centers := sc.Grid.CellCenters(r.token.Footprint())

	for _, tpl := range sc.Templates {
		if tpl.Hidden || !tpl.ContainsAny(sc.Grid, centers) {
			continue
		}

		originActor := r.world.ActorByUUID(tpl.OriginActorUUID)
		if originActor == nil {
			originActor = r.world.ActorByUUID(tpl.OriginItemUUID)
		}
		originItem := r.world.Item(tpl.OriginItemUUID)
		own := originActor != nil && originActor.ID == r.actor.ID

		for _, b := range r.parse(tpl) {
			if !b.Aura.IsTemplate() {
				continue
			}
			if own && !b.Aura.Self {
				continue
			}
			if !own && !disposition.Matches(tpl.Disposition, r.token.Disposition, b.Aura.Disposition) {
				continue
			}
			b.BindOrigin(originActor, originItem)
			out.Set(b)
		}
	}
	return out
}
