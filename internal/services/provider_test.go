package services_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/dnd-babonus/internal/config"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/events"
	"github.com/KirkDiggler/dnd-babonus/internal/repositories/scenes"
	"github.com/KirkDiggler/dnd-babonus/internal/services"
	"github.com/KirkDiggler/dnd-babonus/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderWiresTheBus(t *testing.T) {
	provider := services.NewProvider(&services.ProviderConfig{})
	require.NotNil(t, provider.Scenes)

	world := testutils.CreateTestWorld(t)
	hero := world.Actor("hero")

	event := events.NewPreRollEvent(context.Background(), events.EventTypePreRollAttack, world, hero, hero.Item("sword"))
	event.Config = babonus.NewRollConfig(babonus.TypeAttack, "1d20", "@mod")
	require.NoError(t, provider.Bus.Emit(event))

	// the orc's menace reaches the hero standing next to it
	assert.Equal(t, "1d20 + @mod + 1d4 + -1", event.Config.Formula())
	require.Len(t, event.Optional, 1)
	assert.Equal(t, "focus", event.Optional[0].ID)
}

func TestProviderUsesGivenRepository(t *testing.T) {
	repo := scenes.NewInMemoryRepository(nil)
	provider := services.NewProvider(&services.ProviderConfig{
		Engine:          config.EngineConfig{DisableCustomScripts: true},
		SceneRepository: repo,
	})
	assert.Same(t, repo, provider.Scenes)
}
