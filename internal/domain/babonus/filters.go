package babonus

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// FilterKey names a filter in stored bonus data
type FilterKey string

const (
	FilterAbilities            FilterKey = "abilities"
	FilterActionTypes          FilterKey = "actionTypes"
	FilterActorCreatureTypes   FilterKey = "actorCreatureTypes"
	FilterActorLanguages       FilterKey = "actorLanguages"
	FilterArbitraryComparisons FilterKey = "arbitraryComparisons"
	FilterBaseArmors           FilterKey = "baseArmors"
	FilterBaseTools            FilterKey = "baseTools"
	FilterBaseWeapons          FilterKey = "baseWeapons"
	FilterCreatureTypes        FilterKey = "creatureTypes"
	FilterCustomScripts        FilterKey = "customScripts"
	FilterDamageTypes          FilterKey = "damageTypes"
	FilterFeatureTypes         FilterKey = "featureTypes"
	FilterHealthPercentages    FilterKey = "healthPercentages"
	FilterIdentifiers          FilterKey = "identifiers"
	FilterItemTypes            FilterKey = "itemTypes"
	FilterPreparationModes     FilterKey = "preparationModes"
	FilterProficiencyLevels    FilterKey = "proficiencyLevels"
	FilterProperties           FilterKey = "properties"
	FilterRemainingSpellSlots  FilterKey = "remainingSpellSlots"
	FilterSaveAbilities        FilterKey = "saveAbilities"
	FilterSkillIDs             FilterKey = "skillIds"
	FilterSourceClasses        FilterKey = "sourceClasses"
	FilterSpellComponents      FilterKey = "spellComponents"
	FilterSpellLevels          FilterKey = "spellLevels"
	FilterSpellSchools         FilterKey = "spellSchools"
	FilterStatusEffects        FilterKey = "statusEffects"
	FilterTargetArmors         FilterKey = "targetArmors"
	FilterTargetEffects        FilterKey = "targetEffects"
	FilterThrowTypes           FilterKey = "throwTypes"
	FilterTokenSizes           FilterKey = "tokenSizes"
)

// Filter is one predicate a bonus places on the rolls it applies to
type Filter interface {
	Key() FilterKey
	filter()
}

// SetFilter matches the subject's tags against included and excluded tags
type SetFilter struct {
	Name     FilterKey
	Included []string
	Excluded []string
}

// NewSetFilter splits tags into included and, when prefixed with "!", excluded values
func NewSetFilter(name FilterKey, tags []string) SetFilter {
	f := SetFilter{Name: name}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(tag, "!"); ok {
			if rest != "" {
				f.Excluded = append(f.Excluded, rest)
			}
			continue
		}
		f.Included = append(f.Included, tag)
	}
	return f
}

// Matches applies the included and excluded rules to a subject's tags
func (f SetFilter) Matches(subject []string) bool {
	if len(f.Included) > 0 && !intersects(f.Included, subject) {
		return false
	}
	if len(f.Excluded) > 0 && intersects(f.Excluded, subject) {
		return false
	}
	return true
}

// IsEmpty reports whether the filter has no tags at all
func (f SetFilter) IsEmpty() bool {
	return len(f.Included) == 0 && len(f.Excluded) == 0
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if slices.Contains(b, v) {
			return true
		}
	}
	return false
}

// ComponentMatch is how spell components are compared
type ComponentMatch string

const (
	MatchAll ComponentMatch = "ALL"
	MatchAny ComponentMatch = "ANY"
)

// SpellComponents requires the rolled spell to have some or all of the listed components
type SpellComponents struct {
	Types []string       `json:"types"`
	Match ComponentMatch `json:"match"`
}

// SpellLevels requires the rolled spell's level to be listed
type SpellLevels struct {
	Levels []int
}

// Operator compares the two sides of an arbitrary comparison
type Operator string

const (
	OpEQ Operator = "EQ"
	OpLT Operator = "LT"
	OpGT Operator = "GT"
	OpLE Operator = "LE"
	OpGE Operator = "GE"
)

// Comparison is one side-by-side test of two formulas
type Comparison struct {
	One      string   `json:"one"`
	Other    string   `json:"other"`
	Operator Operator `json:"operator"`
}

// ArbitraryComparisons requires every comparison to hold
type ArbitraryComparisons struct {
	Comparisons []Comparison
}

// ProficiencyLevels requires the relevant proficiency multiplier to be listed
type ProficiencyLevels struct {
	Levels []float64
}

// ThresholdMode is the direction of a threshold test
type ThresholdMode int

const (
	AtMost  ThresholdMode = 0
	AtLeast ThresholdMode = 1
)

// HealthPercentages compares the roller's health percentage to a value. Without a value
// or a known mode it places no restriction.
type HealthPercentages struct {
	Value *int           `json:"value"`
	Type  *ThresholdMode `json:"type"`
}

// RemainingSpellSlots requires the roller's remaining slots to fall in [Min, Max]
type RemainingSpellSlots struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
	// Size weights each slot by its level
	Size bool `json:"size"`
}

// SizeMode is the direction of a token size comparison
type SizeMode int

const (
	SizeAtLeast SizeMode = 0
	SizeAtMost  SizeMode = 1
)

// TokenSizes compares the target's token size to a threshold
type TokenSizes struct {
	Size float64  `json:"size"`
	Type SizeMode `json:"type"`
	// Self clamps the threshold by the roller's own size
	Self bool `json:"self"`
}

// CustomScript is user code that must return true
type CustomScript struct {
	Source string
}

func (f SetFilter) Key() FilterKey          { return f.Name }
func (SpellComponents) Key() FilterKey      { return FilterSpellComponents }
func (SpellLevels) Key() FilterKey          { return FilterSpellLevels }
func (ArbitraryComparisons) Key() FilterKey { return FilterArbitraryComparisons }
func (ProficiencyLevels) Key() FilterKey    { return FilterProficiencyLevels }
func (HealthPercentages) Key() FilterKey    { return FilterHealthPercentages }
func (RemainingSpellSlots) Key() FilterKey  { return FilterRemainingSpellSlots }
func (TokenSizes) Key() FilterKey           { return FilterTokenSizes }
func (CustomScript) Key() FilterKey         { return FilterCustomScripts }
func (SetFilter) filter()                   {}
func (SpellComponents) filter()             {}
func (SpellLevels) filter()                 {}
func (ArbitraryComparisons) filter()        {}
func (ProficiencyLevels) filter()           {}
func (HealthPercentages) filter()           {}
func (RemainingSpellSlots) filter()         {}
func (TokenSizes) filter()                  {}
func (CustomScript) filter()                {}

var (
	itemTypes   = []Type{TypeAttack, TypeDamage, TypeSave}
	allTypes    = Types
	rolledTypes = []Type{TypeAttack, TypeDamage, TypeSave, TypeTest, TypeThrow}
)

type filterDef struct {
	key   FilterKey
	types []Type
	parse func(key FilterKey, raw json.RawMessage) (Filter, error)
}

// filterDefs is in evaluation order: cheap lookups first, scripts last
var filterDefs = []filterDef{
	{FilterItemTypes, itemTypes, parseSet},
	{FilterBaseWeapons, itemTypes, parseSet},
	{FilterDamageTypes, itemTypes, parseSet},
	{FilterProperties, itemTypes, parseSet},
	{FilterActionTypes, itemTypes, parseSet},
	{FilterIdentifiers, itemTypes, parseSet},
	{FilterFeatureTypes, itemTypes, parseSet},
	{FilterSaveAbilities, itemTypes, parseSet},
	{FilterSpellSchools, itemTypes, parseSet},
	{FilterSourceClasses, itemTypes, parseSet},
	{FilterPreparationModes, itemTypes, parseSet},
	{FilterSpellComponents, itemTypes, parseSpellComponents},
	{FilterSpellLevels, itemTypes, parseSpellLevels},
	{FilterAbilities, rolledTypes, parseSet},
	{FilterSkillIDs, []Type{TypeTest}, parseSet},
	{FilterBaseTools, []Type{TypeTest}, parseSet},
	{FilterThrowTypes, []Type{TypeThrow}, parseSet},
	{FilterActorCreatureTypes, allTypes, parseSet},
	{FilterActorLanguages, allTypes, parseSet},
	{FilterBaseArmors, allTypes, parseSet},
	{FilterStatusEffects, allTypes, parseSet},
	{FilterCreatureTypes, allTypes, parseSet},
	{FilterTargetArmors, allTypes, parseSet},
	{FilterTargetEffects, allTypes, parseSet},
	{FilterProficiencyLevels, []Type{TypeAttack, TypeDamage, TypeTest, TypeThrow}, parseProficiencyLevels},
	{FilterHealthPercentages, allTypes, parseJSON[HealthPercentages]},
	{FilterRemainingSpellSlots, allTypes, parseJSON[RemainingSpellSlots]},
	{FilterTokenSizes, allTypes, parseJSON[TokenSizes]},
	{FilterArbitraryComparisons, allTypes, parseComparisons},
	{FilterCustomScripts, allTypes, parseScript},
}

// AvailableFilters returns the filter keys a bonus type supports
func AvailableFilters(t Type) []FilterKey {
	var out []FilterKey
	for _, def := range filterDefs {
		if slices.Contains(def.types, t) {
			out = append(out, def.key)
		}
	}
	return out
}

// ParseFilters decodes the stored filter bag for a bonus type. Keys the type does not
// support and null values are ignored.
func ParseFilters(t Type, raw map[string]json.RawMessage) ([]Filter, error) {
	var out []Filter
	for _, def := range filterDefs {
		value, ok := raw[string(def.key)]
		if !ok || isNull(value) || !slices.Contains(def.types, t) {
			continue
		}
		f, err := def.parse(def.key, value)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", def.key, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func parseSet(key FilterKey, raw json.RawMessage) (Filter, error) {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, err
	}
	return NewSetFilter(key, tags), nil
}

func parseJSON[T Filter](_ FilterKey, raw json.RawMessage) (Filter, error) {
	var f T
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func parseSpellComponents(_ FilterKey, raw json.RawMessage) (Filter, error) {
	var f SpellComponents
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	switch f.Match {
	case MatchAll, MatchAny:
	case "":
		f.Match = MatchAny
	default:
		return nil, fmt.Errorf("unknown match mode %q", f.Match)
	}
	return f, nil
}

func parseSpellLevels(_ FilterKey, raw json.RawMessage) (Filter, error) {
	var levels []int
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, err
	}
	for _, l := range levels {
		if l < 0 || l > 9 {
			return nil, fmt.Errorf("spell level %d out of range", l)
		}
	}
	return SpellLevels{Levels: levels}, nil
}

func parseProficiencyLevels(_ FilterKey, raw json.RawMessage) (Filter, error) {
	var levels []float64
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, err
	}
	return ProficiencyLevels{Levels: levels}, nil
}

func parseComparisons(_ FilterKey, raw json.RawMessage) (Filter, error) {
	var comparisons []Comparison
	if err := json.Unmarshal(raw, &comparisons); err != nil {
		return nil, err
	}
	return ArbitraryComparisons{Comparisons: comparisons}, nil
}

func parseScript(_ FilterKey, raw json.RawMessage) (Filter, error) {
	var source string
	if err := json.Unmarshal(raw, &source); err != nil {
		return nil, err
	}
	return CustomScript{Source: source}, nil
}
