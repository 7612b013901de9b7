package babonus

// Type is the roll category a bonus applies to
type Type string

const (
	TypeAttack Type = "attack"
	TypeDamage Type = "damage"
	TypeSave   Type = "save"
	TypeThrow  Type = "throw"
	TypeTest   Type = "test"
	TypeHitDie Type = "hitdie"
)

// Types lists every bonus type
var Types = []Type{TypeAttack, TypeDamage, TypeSave, TypeThrow, TypeTest, TypeHitDie}

// Valid reports whether t is a known bonus type
func (t Type) Valid() bool {
	switch t {
	case TypeAttack, TypeDamage, TypeSave, TypeThrow, TypeTest, TypeHitDie:
		return true
	}
	return false
}

// ItemBased reports whether rolls of this type are made with an item
func (t Type) ItemBased() bool {
	return t == TypeAttack || t == TypeDamage || t == TypeSave
}
