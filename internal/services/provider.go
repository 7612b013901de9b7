package services

import (
	"github.com/KirkDiggler/dnd-babonus/internal/config"
	"github.com/KirkDiggler/dnd-babonus/internal/events"
	"github.com/KirkDiggler/dnd-babonus/internal/repositories/scenes"
	"github.com/KirkDiggler/dnd-babonus/internal/script"
	"github.com/KirkDiggler/dnd-babonus/internal/services/collector"
	"github.com/KirkDiggler/dnd-babonus/internal/services/consumption"
	"github.com/KirkDiggler/dnd-babonus/internal/services/filters"
	"github.com/KirkDiggler/dnd-babonus/internal/services/rolls"
)

// Provider holds all service instances
type Provider struct {
	Collector   collector.Service
	Filters     filters.Service
	Consumption consumption.Service
	Rolls       rolls.Service
	Scenes      scenes.Repository
	// Bus has the bonus listener registered for every pre-roll hook
	Bus *events.Bus
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Engine          config.EngineConfig
	SceneRepository scenes.Repository
	ResourceUpdater consumption.ResourceUpdater
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory implementations if none provided
	sceneRepo := cfg.SceneRepository
	if sceneRepo == nil {
		sceneRepo = scenes.NewInMemoryRepository(nil)
	}

	updater := cfg.ResourceUpdater
	if updater == nil {
		updater = consumption.NewMemoryUpdater()
	}

	evaluator := script.NewEvaluator(script.Config{
		Disabled:        cfg.Engine.DisableCustomScripts,
		MaxSource:       cfg.Engine.ScriptMaxSource,
		Timeout:         cfg.Engine.ScriptTimeout,
		MaxInstructions: cfg.Engine.ScriptMaxInstructions,
	})

	collectorService := collector.NewService(&collector.ServiceConfig{})
	filterService := filters.NewService(&filters.ServiceConfig{Scripts: evaluator})
	consumptionService := consumption.NewService(&consumption.ServiceConfig{Updater: updater})

	rollService := rolls.NewService(&rolls.ServiceConfig{
		Collector:           collectorService,
		Filters:             filterService,
		Consumption:         consumptionService,
		AllowFumbleBelowOne: cfg.Engine.AllowFumbleBelowOne,
	})

	bus := events.NewBus()
	rolls.NewListener(rollService).Register(bus)

	return &Provider{
		Collector:   collectorService,
		Filters:     filterService,
		Consumption: consumptionService,
		Rolls:       rollService,
		Scenes:      sceneRepo,
		Bus:         bus,
	}
}
