package rolls_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/events"
	"github.com/KirkDiggler/dnd-babonus/internal/script"
	"github.com/KirkDiggler/dnd-babonus/internal/services/collector"
	mockcollector "github.com/KirkDiggler/dnd-babonus/internal/services/collector/mock"
	"github.com/KirkDiggler/dnd-babonus/internal/services/consumption"
	mockconsumption "github.com/KirkDiggler/dnd-babonus/internal/services/consumption/mock"
	"github.com/KirkDiggler/dnd-babonus/internal/services/filters"
	mockfilters "github.com/KirkDiggler/dnd-babonus/internal/services/filters/mock"
	"github.com/KirkDiggler/dnd-babonus/internal/services/rolls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func flags(bonuses map[string]string) documents.Flags {
	out := documents.Flags{}
	for id, raw := range bonuses {
		out[id] = json.RawMessage(raw)
	}
	return out
}

// PipelineTestSuite checks the stage handling against mocked stages
type PipelineTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	collector   *mockcollector.MockService
	filters     *mockfilters.MockService
	consumption *mockconsumption.MockService
	service     rolls.Service
	ctx         context.Context

	hero  *documents.Actor
	sword *documents.Item
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.collector = mockcollector.NewMockService(s.ctrl)
	s.filters = mockfilters.NewMockService(s.ctrl)
	s.consumption = mockconsumption.NewMockService(s.ctrl)
	s.service = rolls.NewService(&rolls.ServiceConfig{
		Collector:   s.collector,
		Filters:     s.filters,
		Consumption: s.consumption,
	})
	s.ctx = context.Background()

	s.hero = &documents.Actor{ID: "hero", Items: []*documents.Item{{ID: "sword", Type: documents.ItemTypeWeapon, Equipped: true}}}
	s.hero.Link()
	s.sword = s.hero.Item("sword")
}

func (s *PipelineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PipelineTestSuite) bonus(raw string) *babonus.Bonus {
	b, err := babonus.Parse("sharp", json.RawMessage(raw), s.sword)
	s.Require().NoError(err)
	return b
}

func (s *PipelineTestSuite) TestItemBonusAppended() {
	b := s.bonus(`{"type": "attack", "enabled": true, "bonuses": {"bonus": "1d4"}}`)
	collected := babonus.NewCollection(b)

	s.collector.EXPECT().Collect(gomock.Any(), &collector.CollectInput{Actor: s.hero, Item: s.sword, Type: babonus.TypeAttack}).Return(collected, nil)
	s.filters.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *filters.ApplyInput) (*babonus.Collection, error) {
			s.Same(collected, input.Bonuses)
			return input.Bonuses, nil
		})

	in := babonus.NewRollConfig(babonus.TypeAttack, "1d20")
	out, err := s.service.Process(s.ctx, &rolls.ProcessInput{Actor: s.hero, Item: s.sword, Type: babonus.TypeAttack, Config: in})
	s.Require().NoError(err)

	s.Equal(babonus.StageApplied, out.Config.Stage)
	s.Equal("1d20 + 1d4", out.Config.Formula())
	s.Equal([]string{b.Key()}, out.Config.Applied)
	s.Equal("1d20", in.Formula(), "the input config is not changed")
	s.Equal(babonus.StagePending, in.Stage)
}

func (s *PipelineTestSuite) TestNothingCollectedSkips() {
	s.collector.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(babonus.NewCollection(), nil)

	out, err := s.service.Process(s.ctx, &rolls.ProcessInput{Actor: s.hero, Type: babonus.TypeTest})
	s.Require().NoError(err)
	s.Equal(babonus.StageSkipped, out.Config.Stage)
	s.Equal(babonus.DefaultCriticalThreshold, out.Config.CriticalThreshold)
	s.Empty(out.Config.Parts)
}

func (s *PipelineTestSuite) TestCollectError() {
	s.collector.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(nil, dnderr.InvalidArgument("a rolling actor or owned item is required"))

	_, err := s.service.Process(s.ctx, &rolls.ProcessInput{Type: babonus.TypeTest})
	s.True(dnderr.Is(err, dnderr.CodeInvalidArgument))
}

func (s *PipelineTestSuite) TestFilterError() {
	s.collector.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(babonus.NewCollection(s.bonus(`{"type": "test", "enabled": true}`)), nil)
	s.filters.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	_, err := s.service.Process(s.ctx, &rolls.ProcessInput{Actor: s.hero, Type: babonus.TypeTest})
	s.Require().Error(err)
}

func (s *PipelineTestSuite) TestApplyOptionalPaysFirst() {
	b := s.bonus(`{"type": "damage", "enabled": true, "optional": true, "bonuses": {"bonus": "1d6", "damageType": "fire"},
		"consume": {"enabled": true, "type": "uses", "scales": true, "value": {"min": 1}}}`)
	user := &documents.User{ID: "gm", GM: true}

	s.consumption.EXPECT().Pay(gomock.Any(), &consumption.PayInput{User: user, Roller: s.hero, Bonus: b, Amount: 2}).
		Return(&consumption.PayOutput{Formula: "2d6", Amount: 2}, nil)

	in := babonus.NewRollConfig(babonus.TypeDamage, "1d8")
	out, err := s.service.ApplyOptional(s.ctx, &rolls.ApplyOptionalInput{User: user, Actor: s.hero, Bonus: b, Amount: 2, Config: in})
	s.Require().NoError(err)
	s.Equal("1d8 + (2d6)[fire]", out.Formula())
	s.Equal([]string{b.Key()}, out.Applied)
	s.Equal("1d8", in.Formula())
}

func (s *PipelineTestSuite) TestApplyOptionalPaymentFails() {
	b := s.bonus(`{"type": "damage", "enabled": true, "optional": true, "bonuses": {"bonus": "1d6"},
		"consume": {"enabled": true, "type": "uses", "value": {"min": 1}}}`)

	s.consumption.EXPECT().Pay(gomock.Any(), gomock.Any()).
		Return(nil, dnderr.InsufficientResourcef("only %d uses left", 0))

	in := babonus.NewRollConfig(babonus.TypeDamage, "1d8")
	out, err := s.service.ApplyOptional(s.ctx, &rolls.ApplyOptionalInput{Actor: s.hero, Bonus: b, Config: in})
	s.True(dnderr.IsInsufficientResource(err))
	s.Same(in, out)
	s.Equal("1d8", out.Formula())
}

func (s *PipelineTestSuite) TestApplyOptionalFree() {
	b := s.bonus(`{"type": "attack", "enabled": true, "optional": true, "bonuses": {"bonus": "1d4"}}`)

	in := babonus.NewRollConfig(babonus.TypeAttack, "1d20")
	out, err := s.service.ApplyOptional(s.ctx, &rolls.ApplyOptionalInput{Actor: s.hero, Bonus: b, Config: in})
	s.Require().NoError(err)
	s.Equal("1d20 + 1d4", out.Formula())
}

func (s *PipelineTestSuite) TestApplyOptionalRejectsRequired() {
	b := s.bonus(`{"type": "attack", "enabled": true, "bonuses": {"bonus": "1d4"}}`)

	in := babonus.NewRollConfig(babonus.TypeAttack, "1d20")
	out, err := s.service.ApplyOptional(s.ctx, &rolls.ApplyOptionalInput{Actor: s.hero, Bonus: b, Config: in})
	s.True(dnderr.Is(err, dnderr.CodeInvalidArgument))
	s.Same(in, out)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func newPipeline(allowFumbleBelowOne bool) rolls.Service {
	return rolls.NewService(&rolls.ServiceConfig{
		Collector:           collector.NewService(&collector.ServiceConfig{}),
		Filters:             filters.NewService(&filters.ServiceConfig{Scripts: script.NewEvaluator(script.Config{})}),
		Consumption:         consumption.NewService(&consumption.ServiceConfig{Updater: consumption.NewMemoryUpdater()}),
		AllowFumbleBelowOne: allowFumbleBelowOne,
	})
}

// newWorld builds a hero holding bonuses on itself, wielding a sword and carrying a potion
func newWorld(t *testing.T, bonuses, potionBonuses map[string]string, potionUses int) *scene.World {
	t.Helper()
	hero := &documents.Actor{
		ID:        "hero",
		Name:      "Hero",
		Prof:      2,
		Abilities: map[string]documents.Ability{"str": {Value: 16}},
		Flags:     flags(bonuses),
		Items: []*documents.Item{
			{ID: "sword", Type: documents.ItemTypeWeapon, Equipped: true, Ability: "str"},
			{ID: "potion", Type: documents.ItemTypeConsumable, Uses: documents.Uses{Value: potionUses, Max: 3}, Flags: flags(potionBonuses)},
		},
	}
	world := &scene.World{Actors: []*documents.Actor{hero}, User: &documents.User{ID: "gm", GM: true}}
	require.NoError(t, world.Resolve())
	return world
}

func TestFold(t *testing.T) {
	testCases := []struct {
		name      string
		typ       babonus.Type
		parts     []string
		details   *babonus.RollDetails
		bonuses   map[string]string
		allowLow  bool
		formula   string
		check     func(t *testing.T, cfg *babonus.RollConfig)
	}{
		{
			name:    "attack bonus and ranges",
			typ:     babonus.TypeAttack,
			parts:   []string{"1d20", "@mod"},
			bonuses: map[string]string{"keen": `{"type": "attack", "enabled": true, "bonuses": {"bonus": "1", "criticalRange": "2", "fumbleRange": "1"}}`},
			formula: "1d20 + @mod + 1",
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, 18, cfg.CriticalThreshold)
				assert.Equal(t, 2, cfg.FumbleThreshold)
				assert.Equal(t, []string{"Actor.hero.keen"}, cfg.Applied)
			},
		},
		{
			name:    "critical range clamps to one",
			typ:     babonus.TypeAttack,
			parts:   []string{"1d20"},
			bonuses: map[string]string{"keen": `{"type": "attack", "enabled": true, "bonuses": {"criticalRange": "30"}}`},
			formula: "1d20",
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, 1, cfg.CriticalThreshold)
			},
		},
		{
			name:    "fumble range clamps to one",
			typ:     babonus.TypeAttack,
			parts:   []string{"1d20"},
			bonuses: map[string]string{"lucky": `{"type": "attack", "enabled": true, "bonuses": {"fumbleRange": "-3"}}`},
			formula: "1d20",
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, 1, cfg.FumbleThreshold)
			},
		},
		{
			name:     "fumble range may go below one when allowed",
			typ:      babonus.TypeAttack,
			parts:    []string{"1d20"},
			bonuses:  map[string]string{"lucky": `{"type": "attack", "enabled": true, "bonuses": {"fumbleRange": "-3"}}`},
			allowLow: true,
			formula:  "1d20",
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, -2, cfg.FumbleThreshold)
			},
		},
		{
			name:  "damage types and critical extras",
			typ:   babonus.TypeDamage,
			parts: []string{"1d8"},
			bonuses: map[string]string{
				"a": `{"type": "damage", "enabled": true, "bonuses": {"bonus": "1d6", "damageType": "fire", "criticalBonusDice": "1", "criticalBonusDamage": "1d8"}}`,
				"b": `{"type": "damage", "enabled": true, "bonuses": {"criticalBonusDice": "2", "criticalBonusDamage": "2"}}`,
			},
			formula: "1d8 + (1d6)[fire]",
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, 3, cfg.CriticalBonusDice)
				assert.Equal(t, babonus.Formula("1d8 + 2"), cfg.CriticalBonusDamage)
				assert.Zero(t, cfg.CriticalThreshold)
			},
		},
		{
			name:    "save dc",
			typ:     babonus.TypeSave,
			bonuses: map[string]string{"focus": `{"type": "save", "enabled": true, "bonuses": {"bonus": "@prof"}}`},
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, 15, cfg.SaveDC)
				assert.Empty(t, cfg.Parts)
			},
		},
		{
			name:    "death save target and critical",
			typ:     babonus.TypeThrow,
			parts:   []string{"1d20"},
			details: &babonus.RollDetails{IsDeath: true},
			bonuses: map[string]string{"grit": `{"type": "throw", "enabled": true, "bonuses": {"targetValue": "2", "deathSaveCritical": "1"}}`},
			formula: "1d20",
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, 8, cfg.TargetValue)
				assert.Equal(t, 19, cfg.CriticalThreshold)
			},
		},
		{
			name:    "death save fields ignored on other saves",
			typ:     babonus.TypeThrow,
			parts:   []string{"1d20"},
			details: &babonus.RollDetails{Ability: "con"},
			bonuses: map[string]string{"grit": `{"type": "throw", "enabled": true, "bonuses": {"bonus": "1", "targetValue": "2", "deathSaveCritical": "1"}}`},
			formula: "1d20 + 1",
			check: func(t *testing.T, cfg *babonus.RollConfig) {
				assert.Equal(t, babonus.DefaultDeathSaveTarget, cfg.TargetValue)
				assert.Equal(t, babonus.DefaultCriticalThreshold, cfg.CriticalThreshold)
			},
		},
		{
			name:    "modifiers on every dice term",
			typ:     babonus.TypeAttack,
			parts:   []string{"1d20", "1d6"},
			bonuses: map[string]string{"halfling": `{"type": "attack", "enabled": true, "bonuses": {"bonus": "1d4", "modifiers": {"reroll": {"enabled": true, "value": "1"}}}}`},
			formula: "1d20r<=1 + 1d6r<=1 + 1d4r<=1",
		},
		{
			name:    "modifiers on the first dice term",
			typ:     babonus.TypeAttack,
			parts:   []string{"2", "1d20", "1d6"},
			bonuses: map[string]string{"halfling": `{"type": "attack", "enabled": true, "bonuses": {"bonus": "1d4", "modifiers": {"reroll": {"enabled": true, "value": "1"}, "config": {"first": true}}}}`},
			formula: "2 + 1d20r<=1 + 1d6 + 1d4",
		},
		{
			name:    "hit die",
			typ:     babonus.TypeHitDie,
			parts:   []string{"1d10"},
			bonuses: map[string]string{"durable": `{"type": "hitdie", "enabled": true, "bonuses": {"bonus": "2"}}`},
			formula: "1d10 + 2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			world := newWorld(t, tc.bonuses, nil, 0)
			hero := world.Actor("hero")
			var item *documents.Item
			if tc.typ.ItemBased() {
				item = hero.Item("sword")
			}
			cfg := babonus.NewRollConfig(tc.typ, tc.parts...)
			if tc.typ == babonus.TypeSave {
				cfg.SaveDC = 13
			}

			out, err := newPipeline(tc.allowLow).Process(context.Background(), &rolls.ProcessInput{
				World:   world,
				Actor:   hero,
				Item:    item,
				Type:    tc.typ,
				Details: tc.details,
				Config:  cfg,
			})
			require.NoError(t, err)
			assert.Equal(t, babonus.StageApplied, out.Config.Stage)
			assert.Equal(t, tc.formula, out.Config.Formula())
			if tc.check != nil {
				tc.check(t, out.Config)
			}
		})
	}
}

func TestOptionalBonuses(t *testing.T) {
	healing := `{"type": "damage", "enabled": true, "optional": true, "bonuses": {"bonus": "1d4"},
		"consume": {"enabled": true, "type": "uses", "scales": true, "value": {"min": 1, "max": 3}}}`
	inspired := `{"type": "damage", "enabled": true, "optional": true, "bonuses": {"bonus": "1d6"}}`
	sneak := `{"type": "damage", "enabled": true, "bonuses": {"bonus": "2d6"}}`

	t.Run("unaffordable bonuses are not offered", func(t *testing.T) {
		world := newWorld(t, map[string]string{"inspired": inspired, "sneak": sneak}, map[string]string{"healing": healing}, 0)
		hero := world.Actor("hero")

		out, err := newPipeline(false).Process(context.Background(), &rolls.ProcessInput{
			World: world, Actor: hero, Item: hero.Item("sword"), Type: babonus.TypeDamage,
			Config: babonus.NewRollConfig(babonus.TypeDamage, "1d8"),
		})
		require.NoError(t, err)

		assert.Equal(t, "1d8 + 2d6", out.Config.Formula())
		require.Len(t, out.Optional, 1)
		assert.Equal(t, "inspired", out.Optional[0].ID)
		assert.Equal(t, 3, out.Active.Len(), "optional bonuses stay active")
	})

	t.Run("paid bonus is offered and applied", func(t *testing.T) {
		world := newWorld(t, nil, map[string]string{"healing": healing}, 3)
		hero := world.Actor("hero")
		service := newPipeline(false)

		out, err := service.Process(context.Background(), &rolls.ProcessInput{
			World: world, Actor: hero, Item: hero.Item("sword"), Type: babonus.TypeDamage,
			Config: babonus.NewRollConfig(babonus.TypeDamage, "1d8"),
		})
		require.NoError(t, err)
		require.Len(t, out.Optional, 1)
		assert.Equal(t, "1d8", out.Config.Formula())

		applied, err := service.ApplyOptional(context.Background(), &rolls.ApplyOptionalInput{
			User: world.User, Actor: hero, Bonus: out.Optional[0], Amount: 2, Config: out.Config,
		})
		require.NoError(t, err)
		assert.Equal(t, "1d8 + 2d4", applied.Formula())
		assert.Equal(t, 1, hero.Item("potion").Uses.Value)

		_, err = service.ApplyOptional(context.Background(), &rolls.ApplyOptionalInput{
			User: world.User, Actor: hero, Bonus: out.Optional[0], Amount: 2, Config: applied,
		})
		assert.True(t, dnderr.IsInsufficientResource(err))
		assert.Equal(t, 1, hero.Item("potion").Uses.Value)
	})
}

func TestListenerHandlesPreRoll(t *testing.T) {
	world := newWorld(t, map[string]string{
		"keen":     `{"type": "attack", "enabled": true, "bonuses": {"bonus": "2"}}`,
		"inspired": `{"type": "attack", "enabled": true, "optional": true, "bonuses": {"bonus": "1d4"}}`,
	}, nil, 0)
	hero := world.Actor("hero")

	bus := events.NewBus()
	rolls.NewListener(newPipeline(false)).Register(bus)

	event := events.NewPreRollEvent(context.Background(), events.EventTypePreRollAttack, world, hero, hero.Item("sword"))
	event.Config = babonus.NewRollConfig(babonus.TypeAttack, "1d20")
	require.NoError(t, bus.Emit(event))

	assert.Equal(t, "1d20 + 2", event.Config.Formula())
	assert.Equal(t, babonus.StageApplied, event.Config.Stage)
	require.Len(t, event.Optional, 1)
	assert.Equal(t, "inspired", event.Optional[0].ID)
}

func TestNewServicePanics(t *testing.T) {
	assert.PanicsWithValue(t, "collector service is required", func() {
		rolls.NewService(&rolls.ServiceConfig{})
	})
}
