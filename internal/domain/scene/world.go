package scene

import (
	"strings"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
)

// World is everything the engine needs to know about the table at the moment of a roll
type World struct {
	Scene   *Scene             `json:"scene,omitempty"`
	Actors  []*documents.Actor `json:"actors"`
	User    *documents.User    `json:"user,omitempty"`
	Targets []string           `json:"targets"` // token ids targeted by the user

	actors map[string]*documents.Actor
}

// Resolve links actors to their items, effects and tokens. It must be called after
// decoding and before the world is used.
func (w *World) Resolve() error {
	w.actors = make(map[string]*documents.Actor, len(w.Actors))
	for _, a := range w.Actors {
		if a == nil || a.ID == "" {
			return dnderr.InvalidArgument("actor id is required")
		}
		if _, exists := w.actors[a.ID]; exists {
			return dnderr.AlreadyExistsf("duplicate actor %s", a.ID)
		}
		a.Link()
		w.actors[a.ID] = a
	}

	if w.Scene == nil {
		return nil
	}
	for _, t := range w.Scene.Tokens {
		t.actor = w.actors[t.ActorID]
	}
	for _, t := range w.Scene.Templates {
		t.sceneID = w.Scene.ID
	}
	return nil
}

// HasGeometry reports whether aura and template logic can run
func (w *World) HasGeometry() bool {
	return w.Scene != nil && w.Scene.Grid.Valid()
}

// Actor finds an actor by id
func (w *World) Actor(id string) *documents.Actor {
	if w.actors == nil {
		for _, a := range w.Actors {
			if a.ID == id {
				return a
			}
		}
		return nil
	}
	return w.actors[id]
}

// ActorByUUID finds an actor by its uuid or by the uuid of anything it owns
func (w *World) ActorByUUID(uuid string) *documents.Actor {
	parts := strings.Split(uuid, ".")
	if len(parts) < 2 || parts[0] != string(documents.KindActor) {
		return nil
	}
	return w.Actor(parts[1])
}

// Item finds an owned item by uuid
func (w *World) Item(uuid string) *documents.Item {
	actor := w.ActorByUUID(uuid)
	if actor == nil {
		return nil
	}
	return actor.ItemByUUID(uuid)
}

// Effect finds an effect by uuid
func (w *World) Effect(uuid string) *documents.Effect {
	actor := w.ActorByUUID(uuid)
	if actor == nil {
		return nil
	}
	prefix := actor.UUID() + ".ActiveEffect."
	if !strings.HasPrefix(uuid, prefix) {
		return nil
	}
	return actor.Effect(strings.TrimPrefix(uuid, prefix))
}

// TokenFor returns the actor's first token on the scene
func (w *World) TokenFor(actor *documents.Actor) *Token {
	if w.Scene == nil || actor == nil {
		return nil
	}
	for _, t := range w.Scene.Tokens {
		if t.ActorID == actor.ID {
			return t
		}
	}
	return nil
}

// FirstTarget returns the user's first targeted token on the scene. Ids of tokens no
// longer on the scene are skipped; a token without an actor is still the target.
func (w *World) FirstTarget() *Token {
	if w.Scene == nil {
		return nil
	}
	for _, id := range w.Targets {
		if t := w.Scene.Token(id); t != nil {
			return t
		}
	}
	return nil
}
