package babonus

// RollDetails describes the specific roll being made
type RollDetails struct {
	Ability string `json:"ability,omitempty"`
	SkillID string `json:"skillId,omitempty"`
	ToolID  string `json:"toolId,omitempty"`
	// SpellLevel overrides the spell's own level when upcasting
	SpellLevel      int      `json:"spellLevel,omitempty"`
	IsDeath         bool     `json:"isDeath,omitempty"`
	IsConcentration bool     `json:"isConcentration,omitempty"`
	DamageTypes     []string `json:"damageTypes,omitempty"`
}

// Map exposes the details to scripts
func (d *RollDetails) Map() map[string]any {
	if d == nil {
		return map[string]any{}
	}
	damage := make([]any, len(d.DamageTypes))
	for i, t := range d.DamageTypes {
		damage[i] = t
	}
	return map[string]any{
		"ability":         d.Ability,
		"skillId":         d.SkillID,
		"toolId":          d.ToolID,
		"spellLevel":      d.SpellLevel,
		"isDeath":         d.IsDeath,
		"isConcentration": d.IsConcentration,
		"damageTypes":     damage,
	}
}

// ThrowTypes returns the saving throw tags of the roll
func (d *RollDetails) ThrowTypes() []string {
	if d == nil {
		return nil
	}
	var out []string
	if d.IsDeath {
		out = append(out, "death")
	} else if d.Ability != "" {
		out = append(out, d.Ability)
	}
	if d.IsConcentration {
		out = append(out, "concentration")
	}
	return out
}
