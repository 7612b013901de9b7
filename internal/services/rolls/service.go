package rolls

//go:generate mockgen -destination=mock/mock_service.go -package=mockrolls -source=service.go

import (
	"context"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/services/collector"
	"github.com/KirkDiggler/dnd-babonus/internal/services/consumption"
	"github.com/KirkDiggler/dnd-babonus/internal/services/filters"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/KirkDiggler/dnd-babonus/internal/services/rolls"

// Service runs a roll through the bonus pipeline
type Service interface {
	// Process collects, filters and folds the bonuses for a roll
	Process(ctx context.Context, input *ProcessInput) (*ProcessOutput, error)
	// ApplyOptional pays for an optional bonus and adds what it buys to the roll. On
	// failure the given config is returned untouched with the error.
	ApplyOptional(ctx context.Context, input *ApplyOptionalInput) (*babonus.RollConfig, error)
}

// ProcessInput is a roll about to be made
type ProcessInput struct {
	World   *scene.World
	Actor   *documents.Actor
	Item    *documents.Item
	Type    babonus.Type
	Details *babonus.RollDetails
	// Config is the roll as built so far; nil starts from the type's defaults
	Config *babonus.RollConfig
}

// ProcessOutput is the roll with bonuses folded in
type ProcessOutput struct {
	Config *babonus.RollConfig
	// Active is every bonus that survived filtering, optional ones included
	Active *babonus.Collection
	// Optional bonuses the player may choose to apply
	Optional []*babonus.Bonus
}

// ApplyOptionalInput is a player's choice to apply an optional bonus
type ApplyOptionalInput struct {
	User   *documents.User
	Actor  *documents.Actor
	Bonus  *babonus.Bonus
	Amount int
	Config *babonus.RollConfig
}

type service struct {
	collector           collector.Service
	filters             filters.Service
	consumption         consumption.Service
	allowFumbleBelowOne bool
	tracer              trace.Tracer
}

// ServiceConfig holds the dependencies of the roll pipeline
type ServiceConfig struct {
	Collector   collector.Service
	Filters     filters.Service
	Consumption consumption.Service

	AllowFumbleBelowOne bool
	// Tracer defaults to the global provider's tracer
	Tracer trace.Tracer
}

// NewService creates the roll pipeline
func NewService(cfg *ServiceConfig) Service {
	if cfg.Collector == nil {
		panic("collector service is required")
	}
	if cfg.Filters == nil {
		panic("filters service is required")
	}
	if cfg.Consumption == nil {
		panic("consumption service is required")
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &service{
		collector:           cfg.Collector,
		filters:             cfg.Filters,
		consumption:         cfg.Consumption,
		allowFumbleBelowOne: cfg.AllowFumbleBelowOne,
		tracer:              tracer,
	}
}

// Process implements Service
func (s *service) Process(ctx context.Context, input *ProcessInput) (*ProcessOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if !input.Type.Valid() {
		return nil, dnderr.InvalidArgumentf("unknown roll type %q", input.Type)
	}

	ctx, span := s.tracer.Start(ctx, "babonus.process", trace.WithAttributes(
		attribute.String("babonus.roll_type", string(input.Type)),
	))
	defer span.End()

	cfg := input.Config
	if cfg == nil {
		cfg = babonus.NewRollConfig(input.Type)
	}
	cfg = cfg.WithStage(babonus.StagePending)

	collected, err := s.collector.Collect(ctx, &collector.CollectInput{
		World: input.World,
		Actor: input.Actor,
		Item:  input.Item,
		Type:  input.Type,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collect failed")
		return nil, dnderr.Wrap(err, "failed to collect bonuses")
	}
	span.SetAttributes(attribute.Int("babonus.collected", collected.Len()))

	if collected.Len() == 0 {
		return &ProcessOutput{
			Config: cfg.WithStage(babonus.StageSkipped),
			Active: babonus.NewCollection(),
		}, nil
	}
	cfg = cfg.WithStage(babonus.StageCollected)

	active, err := s.filters.Apply(ctx, &filters.ApplyInput{
		World:   input.World,
		Actor:   input.Actor,
		Item:    input.Item,
		Type:    input.Type,
		Bonuses: collected,
		Details: input.Details,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "filter failed")
		return nil, dnderr.Wrap(err, "failed to filter bonuses")
	}
	cfg = cfg.WithStage(babonus.StageFiltered)
	span.SetAttributes(attribute.Int("babonus.active", active.Len()))

	actor := input.Actor
	if actor == nil && input.Item != nil {
		actor = input.Item.Actor()
	}
	var user *documents.User
	if input.World != nil {
		user = input.World.User
	}

	var folded, optional []*babonus.Bonus
	for _, b := range active.Values() {
		if !b.Optional {
			folded = append(folded, b)
			continue
		}
		if b.Consume.Enabled && !b.IsConsuming(user, actor) {
			continue
		}
		optional = append(optional, b)
	}

	f := &folder{details: input.Details, allowFumbleBelowOne: s.allowFumbleBelowOne}
	cfg = f.fold(cfg, folded)
	span.SetAttributes(
		attribute.Int("babonus.applied", len(folded)),
		attribute.Int("babonus.optional", len(optional)),
	)

	return &ProcessOutput{
		Config:   cfg,
		Active:   active,
		Optional: optional,
	}, nil
}

// ApplyOptional implements Service
func (s *service) ApplyOptional(ctx context.Context, input *ApplyOptionalInput) (*babonus.RollConfig, error) {
	if input == nil || input.Bonus == nil || input.Config == nil {
		return nil, dnderr.InvalidArgument("bonus and config are required")
	}
	b := input.Bonus
	if !b.Optional {
		return input.Config, dnderr.InvalidArgumentf("bonus %s is not optional", b.UUID())
	}

	formula := b.Bonuses.Bonus
	if b.Consume.Enabled {
		paid, err := s.consumption.Pay(ctx, &consumption.PayInput{
			User:   input.User,
			Roller: input.Actor,
			Bonus:  b,
			Amount: input.Amount,
		})
		if err != nil {
			return input.Config, err
		}
		formula = paid.Formula
	}

	cfg := input.Config.Clone()
	if formula.IsValid() {
		cfg.Parts = append(cfg.Parts, part(b, formula))
	}
	cfg.Applied = append(cfg.Applied, b.Key())
	return cfg, nil
}
