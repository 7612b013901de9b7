package script_test

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	env := script.Env{
		Actor: map[string]any{
			"name":      "Hero",
			"abilities": map[string]any{"str": map[string]any{"mod": 3}},
			"statuses":  []string{"blessed", "prone"},
		},
		Item:    map[string]any{"type": "weapon"},
		Details: map[string]any{"spellLevel": 3.0},
	}

	tests := []struct {
		name    string
		source  string
		want    bool
		wantErr bool
	}{
		{name: "true", source: "return true", want: true},
		{name: "false", source: "return false", want: false},
		{name: "truthy number is not true", source: "return 1", want: false},
		{name: "truthy string is not true", source: `return "true"`, want: false},
		{name: "nothing returned", source: "local x = 1", want: false},
		{name: "reads actor", source: `return actor.abilities.str.mod >= 3 and item.type == "weapon"`, want: true},
		{name: "reads lists", source: `return actor.statuses[2] == "prone" and #actor.statuses == 2`, want: true},
		{name: "missing token", source: "return token == nil", want: true},
		{name: "string library", source: `return string.upper(actor.name) == "HERO"`, want: true},
		{name: "math library", source: "return math.floor(details.spellLevel / 2) == 1", want: true},
		{name: "runtime error", source: "return actor.missing.field", wantErr: true},
		{name: "syntax error", source: "return (", wantErr: true},
		{name: "no file access", source: `dofile("/etc/passwd") return true`, wantErr: true},
		{name: "no require", source: `require("os") return true`, wantErr: true},
	}

	e := script.NewEvaluator(script.Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(context.Background(), tt.source, env)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, dnderr.CodeScript, dnderr.GetCode(err))
				assert.False(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalScriptsCannotLeakState(t *testing.T) {
	e := script.NewEvaluator(script.Config{})
	env := script.Env{Actor: map[string]any{"hp": 10}}

	_, err := e.Eval(context.Background(), "actor.hp = 0 leaked = true return true", env)
	require.NoError(t, err)
	assert.Equal(t, 10, env.Actor["hp"])

	got, err := e.Eval(context.Background(), "return leaked == nil", env)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvalLimits(t *testing.T) {
	e := script.NewEvaluator(script.Config{MaxSource: 16, Timeout: 50 * time.Millisecond})

	_, err := e.Eval(context.Background(), "return "+strings.Repeat("true and ", 10)+"true", script.Env{})
	require.Error(t, err)
	assert.Equal(t, dnderr.CodeScript, dnderr.GetCode(err))

	_, err = e.Eval(context.Background(), "while 1 do end", script.Env{})
	require.Error(t, err)
}

func TestEvalStopsRunawayScripts(t *testing.T) {
	e := script.NewEvaluator(script.Config{Timeout: 20 * time.Millisecond})
	baseline := runtime.NumGoroutine()

	for range 5 {
		got, err := e.Eval(context.Background(), "while true do end", script.Env{})
		require.Error(t, err)
		assert.Equal(t, dnderr.CodeScript, dnderr.GetCode(err))
		assert.False(t, got)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, 2*time.Second, 10*time.Millisecond, "timed out scripts keep running")
}

func TestEvalInstructionBudget(t *testing.T) {
	e := script.NewEvaluator(script.Config{Timeout: 5 * time.Second, MaxInstructions: 10_000})

	start := time.Now()
	_, err := e.Eval(context.Background(), "local n = 0 while true do n = n + 1 end", script.Env{})
	require.Error(t, err)
	assert.Equal(t, dnderr.CodeScript, dnderr.GetCode(err))
	assert.Contains(t, err.Error(), "instructions")
	assert.Less(t, time.Since(start), time.Second)

	got, err := e.Eval(context.Background(), "local n = 0 for i = 1, 100 do n = n + i end return n == 5050", script.Env{})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEnabled(t *testing.T) {
	assert.True(t, script.NewEvaluator(script.Config{}).Enabled())
	assert.False(t, script.NewEvaluator(script.Config{Disabled: true}).Enabled())
}
