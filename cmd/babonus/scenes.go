package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/repositories/scenes"
)

func newScenesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Manage stored world snapshots",
	}
	cmd.AddCommand(newScenesPutCmd(a), newScenesListCmd(a), newScenesDeleteCmd(a))
	return cmd
}

func newScenesPutCmd(a *app) *cobra.Command {
	var worldPath, id string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store a world snapshot file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if worldPath == "" {
				return dnderr.InvalidArgument("--world is required")
			}
			world, err := readWorld(worldPath)
			if err != nil {
				return err
			}

			snap := &scenes.Snapshot{ID: id, World: world}
			if err := a.provider.Scenes.Put(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&worldPath, "world", "w", "", "path to a world snapshot JSON file")
	cmd.Flags().StringVar(&id, "id", "", "snapshot id; a new one is generated when empty")

	return cmd
}

func newScenesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored world snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snaps, err := a.provider.Scenes.List(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(snaps))
			for _, snap := range snaps {
				name := ""
				if snap.World.Scene != nil {
					name = snap.World.Scene.Name
				}
				rows = append(rows, []string{
					snap.ID,
					name,
					fmt.Sprintf("%d", len(snap.World.Actors)),
					snap.SavedAt.Format(time.RFC3339),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "Scene", "Actors", "Saved"}, rows)
			return nil
		},
	}
}

func newScenesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored world snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.provider.Scenes.Delete(cmd.Context(), args[0])
		},
	}
}
