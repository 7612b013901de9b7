package disposition_test

import (
	"testing"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var all = []disposition.Disposition{
	disposition.Secret,
	disposition.Hostile,
	disposition.Neutral,
	disposition.Friendly,
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		source disposition.Disposition
		target disposition.Disposition
		mode   disposition.Target
		want   bool
	}{
		{name: "friendly vs hostile enemy", source: disposition.Friendly, target: disposition.Hostile, mode: disposition.Enemy, want: true},
		{name: "hostile vs friendly enemy", source: disposition.Hostile, target: disposition.Friendly, mode: disposition.Enemy, want: true},
		{name: "neutral vs hostile enemy", source: disposition.Neutral, target: disposition.Hostile, mode: disposition.Enemy, want: false},
		{name: "hostile vs neutral enemy", source: disposition.Hostile, target: disposition.Neutral, mode: disposition.Enemy, want: false},
		{name: "secret vs friendly enemy", source: disposition.Secret, target: disposition.Friendly, mode: disposition.Enemy, want: false},
		{name: "friendly allies", source: disposition.Friendly, target: disposition.Friendly, mode: disposition.Ally, want: true},
		{name: "neutral allies", source: disposition.Neutral, target: disposition.Neutral, mode: disposition.Ally, want: true},
		{name: "mixed allies", source: disposition.Friendly, target: disposition.Neutral, mode: disposition.Ally, want: false},
		{name: "unknown mode", source: disposition.Friendly, target: disposition.Friendly, mode: disposition.Target(7), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, disposition.Matches(tt.source, tt.target, tt.mode))
		})
	}
}

func TestMatchesProperties(t *testing.T) {
	gen := rapid.SampledFrom(all)

	t.Run("any always matches", rapid.MakeCheck(func(t *rapid.T) {
		s, d := gen.Draw(t, "source"), gen.Draw(t, "target")
		if !disposition.Matches(s, d, disposition.Any) {
			t.Fatalf("Any should match %s/%s", s, d)
		}
	}))

	t.Run("ally iff equal", rapid.MakeCheck(func(t *rapid.T) {
		s, d := gen.Draw(t, "source"), gen.Draw(t, "target")
		if disposition.Matches(s, d, disposition.Ally) != (s == d) {
			t.Fatalf("Ally mismatch for %s/%s", s, d)
		}
	}))

	t.Run("neutral is never an enemy", rapid.MakeCheck(func(t *rapid.T) {
		d := gen.Draw(t, "other")
		if disposition.Matches(disposition.Neutral, d, disposition.Enemy) || disposition.Matches(d, disposition.Neutral, disposition.Enemy) {
			t.Fatalf("neutral matched enemy against %s", d)
		}
	}))

	t.Run("enemy is symmetric", rapid.MakeCheck(func(t *rapid.T) {
		s, d := gen.Draw(t, "source"), gen.Draw(t, "target")
		if disposition.Matches(s, d, disposition.Enemy) != disposition.Matches(d, s, disposition.Enemy) {
			t.Fatalf("enemy not symmetric for %s/%s", s, d)
		}
	}))
}
