package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/services"
)

// app is what every command runs against
type app struct {
	provider *services.Provider
	roller   dice.Roller
}

// worldFlags locate the world snapshot and the rolling documents
type worldFlags struct {
	worldPath string
	sceneID   string
	actorID   string
	itemID    string
	userID    string
	gm        bool
}

func (f *worldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.worldPath, "world", "w", "", "path to a world snapshot JSON file")
	cmd.Flags().StringVar(&f.sceneID, "scene-id", "", "load a stored snapshot instead of a file")
	cmd.Flags().StringVarP(&f.actorID, "actor", "a", "", "id of the rolling actor")
	cmd.Flags().StringVarP(&f.itemID, "item", "i", "", "id of the item rolled with")
	cmd.Flags().StringVar(&f.userID, "user", "", "id of the user making the roll; defaults to the snapshot's user")
	cmd.Flags().BoolVar(&f.gm, "gm", false, "roll as a game master")
}

// roller is the resolved world plus the rolling documents
type roller struct {
	world *scene.World
	actor *documents.Actor
	item  *documents.Item
}

func (a *app) load(ctx context.Context, f *worldFlags) (*roller, error) {
	world, err := a.loadWorld(ctx, f)
	if err != nil {
		return nil, err
	}

	if f.userID != "" || f.gm {
		world.User = &documents.User{ID: f.userID, GM: f.gm}
	}

	if f.actorID == "" {
		return nil, dnderr.InvalidArgument("--actor is required")
	}
	actor := world.Actor(f.actorID)
	if actor == nil {
		return nil, dnderr.NotFoundf("actor %s is not in the snapshot", f.actorID)
	}

	var item *documents.Item
	if f.itemID != "" {
		if item = actor.Item(f.itemID); item == nil {
			return nil, dnderr.NotFoundf("actor %s has no item %s", f.actorID, f.itemID)
		}
	}
	return &roller{world: world, actor: actor, item: item}, nil
}

func (a *app) loadWorld(ctx context.Context, f *worldFlags) (*scene.World, error) {
	switch {
	case f.sceneID != "":
		snap, err := a.provider.Scenes.Get(ctx, f.sceneID)
		if err != nil {
			return nil, err
		}
		return snap.World, nil
	case f.worldPath != "":
		return readWorld(f.worldPath)
	}
	return nil, dnderr.InvalidArgument("one of --world or --scene-id is required")
}

func readWorld(path string) (*scene.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to read %s", path)
	}
	var world scene.World
	if err := json.Unmarshal(data, &world); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, fmt.Sprintf("failed to decode %s", path))
	}
	if err := world.Resolve(); err != nil {
		return nil, err
	}
	return &world, nil
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "babonus",
		Short: "Conditional roll bonuses for D&D 5e",
		Long: `babonus collects the conditional bonuses that apply to a roll from a world
snapshot: the rolling actor, its items and effects, nearby auras and the area
templates it stands in. It then filters them and folds the survivors into the roll.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newCollectCmd(a), newRollCmd(a), newScenesCmd(a))
	return cmd
}
