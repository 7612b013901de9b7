package dice

import (
	"errors"
	"math/rand"
)

// randomRoller rolls with math/rand
type randomRoller struct{}

// NewRandomRoller creates a roller backed by math/rand
func NewRandomRoller() Roller {
	return &randomRoller{}
}

func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.New("invalid dice count")
	}
	if sides < 1 {
		return nil, errors.New("invalid dice size")
	}

	rolls := make([]int, count)
	total := 0
	for i := range rolls {
		rolls[i] = rand.Intn(sides) + 1
		total += rolls[i]
	}

	return &RollResult{
		Total: total + bonus,
		Rolls: rolls,
		Bonus: bonus,
		Count: count,
		Sides: sides,
	}, nil
}
