package events

import "github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"

// Pre-roll hooks, one per roll the host makes
const (
	EventTypePreRollAttack       EventType = "pre_roll_attack"
	EventTypePreRollDamage       EventType = "pre_roll_damage"
	EventTypePreRollSaveDC       EventType = "pre_roll_save_dc"
	EventTypePreRollAbilityCheck EventType = "pre_roll_ability_check"
	EventTypePreRollSkill        EventType = "pre_roll_skill"
	EventTypePreRollTool         EventType = "pre_roll_tool"
	EventTypePreRollSavingThrow  EventType = "pre_roll_saving_throw"
	EventTypePreRollDeathSave    EventType = "pre_roll_death_save"
	EventTypePreRollHitDie       EventType = "pre_roll_hit_die"
)

// PreRollTypes lists every pre-roll hook
var PreRollTypes = []EventType{
	EventTypePreRollAttack,
	EventTypePreRollDamage,
	EventTypePreRollSaveDC,
	EventTypePreRollAbilityCheck,
	EventTypePreRollSkill,
	EventTypePreRollTool,
	EventTypePreRollSavingThrow,
	EventTypePreRollDeathSave,
	EventTypePreRollHitDie,
}

// BonusType maps a pre-roll hook to the bonus type it collects
func BonusType(t EventType) (babonus.Type, bool) {
	switch t {
	case EventTypePreRollAttack:
		return babonus.TypeAttack, true
	case EventTypePreRollDamage:
		return babonus.TypeDamage, true
	case EventTypePreRollSaveDC:
		return babonus.TypeSave, true
	case EventTypePreRollAbilityCheck, EventTypePreRollSkill, EventTypePreRollTool:
		return babonus.TypeTest, true
	case EventTypePreRollSavingThrow, EventTypePreRollDeathSave:
		return babonus.TypeThrow, true
	case EventTypePreRollHitDie:
		return babonus.TypeHitDie, true
	}
	return "", false
}

// Priority levels for listener order
const (
	PriorityPreCalculation  = 0   // Set base parts
	PriorityBonuses         = 100 // Bonus collection and folding
	PriorityPostCalculation = 500 // Caps, limits, display
)
