package scenes_test

import (
	"context"
	"testing"

	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/repositories/scenes"
	"github.com/KirkDiggler/dnd-babonus/internal/testutils"
	"github.com/KirkDiggler/dnd-babonus/internal/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := scenes.NewInMemoryRepository(&scenes.InMemoryConfig{UUIDGenerator: uuid.NewSequenceGenerator("scene")})

	t.Run("put assigns an id and stamps the snapshot", func(t *testing.T) {
		snap := &scenes.Snapshot{World: testutils.CreateTestWorld(t)}
		require.NoError(t, repo.Put(ctx, snap))
		assert.Equal(t, "scene-1", snap.ID)
		assert.False(t, snap.SavedAt.IsZero())
	})

	t.Run("get returns an independent resolved copy", func(t *testing.T) {
		first, err := repo.Get(ctx, "scene-1")
		require.NoError(t, err)
		hero := first.World.Actor("hero")
		require.NotNil(t, hero)
		assert.Same(t, hero, first.World.Scene.Token("hero-token").Actor())

		hero.Name = "Changed"
		second, err := repo.Get(ctx, "scene-1")
		require.NoError(t, err)
		assert.Equal(t, "Hero", second.World.Actor("hero").Name)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, &scenes.Snapshot{ID: "a-first", World: testutils.CreateTestWorld(t)}))

		snaps, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, "a-first", snaps[0].ID)
		assert.Equal(t, "scene-1", snaps[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "a-first"))
		assert.True(t, dnderr.IsNotFound(repo.Delete(ctx, "a-first")))

		_, err := repo.Get(ctx, "a-first")
		assert.True(t, dnderr.IsNotFound(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		assert.True(t, dnderr.Is(repo.Put(ctx, nil), dnderr.CodeInvalidArgument))
		_, err := repo.Get(ctx, "")
		assert.True(t, dnderr.Is(err, dnderr.CodeInvalidArgument))
	})
}
