package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteExitCodes(t *testing.T) {
	world := writeWorld(t)

	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		wantCode int
	}{
		{
			name:     "successful command",
			args:     []string{"collect", "--world", world, "--actor", "hero", "--type", "attack"},
			wantCode: 0,
		},
		{
			name:     "failing command",
			args:     []string{"collect", "--world", world, "--actor", "nobody", "--type", "attack"},
			wantCode: 1,
		},
		{
			name:     "bad config",
			env:      map[string]string{"BABONUS_SCRIPT_TIMEOUT": "-1s"},
			args:     []string{"scenes", "list"},
			wantCode: 1,
		},
		{
			name:     "unreachable redis falls back to memory",
			env:      map[string]string{"REDIS_URL": "redis://127.0.0.1:1/0"},
			args:     []string{"scenes", "list"},
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REDIS_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.wantCode, execute(tt.args))
		})
	}
}
