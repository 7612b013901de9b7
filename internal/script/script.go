// Package script runs user-authored filter scripts in a restricted Lua state
package script

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/Shopify/go-lua"
)

// DefaultMaxSource is the longest script accepted when no limit is configured
const DefaultMaxSource = 4096

// DefaultTimeout bounds a single script run when no timeout is configured
const DefaultTimeout = 250 * time.Millisecond

// DefaultMaxInstructions bounds the Lua instructions of a single run when no budget is configured
const DefaultMaxInstructions = 5_000_000

// hookInterval is how many instructions run between deadline checks
const hookInterval = 1000

// Env is the read-only view a script receives. Each field is exposed as a global table.
type Env struct {
	Actor   map[string]any
	Item    map[string]any
	Token   map[string]any
	Bonus   map[string]any
	Details map[string]any
}

// Config controls the evaluator
type Config struct {
	// Disabled switches scripts off; disabled scripts are not run and always pass
	Disabled        bool
	MaxSource       int
	Timeout         time.Duration
	MaxInstructions int
}

// Evaluator runs filter scripts
type Evaluator struct {
	disabled        bool
	maxSource       int
	timeout         time.Duration
	maxInstructions int
}

// NewEvaluator creates an evaluator
func NewEvaluator(cfg Config) *Evaluator {
	e := &Evaluator{
		disabled:        cfg.Disabled,
		maxSource:       cfg.MaxSource,
		timeout:         cfg.Timeout,
		maxInstructions: cfg.MaxInstructions,
	}
	if e.maxSource <= 0 {
		e.maxSource = DefaultMaxSource
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.maxInstructions <= 0 {
		e.maxInstructions = DefaultMaxInstructions
	}
	return e
}

// Enabled reports whether scripts are run at all
func (e *Evaluator) Enabled() bool {
	return !e.disabled
}

// globals removed from the sandbox
var stripped = []string{"dofile", "loadfile", "load", "loadstring", "require", "print", "collectgarbage", "rawset", "setmetatable", "getmetatable"}

func newSandbox() *lua.State {
	l := lua.NewState()
	lua.Require(l, "_G", lua.BaseOpen, true)
	l.Pop(1)
	lua.Require(l, "string", lua.StringOpen, true)
	l.Pop(1)
	lua.Require(l, "table", lua.TableOpen, true)
	l.Pop(1)
	lua.Require(l, "math", lua.MathOpen, true)
	l.Pop(1)
	for _, name := range stripped {
		l.PushNil()
		l.SetGlobal(name)
	}
	return l
}

type result struct {
	pass bool
	err  error
}

// Eval runs source with env and reports whether it returned exactly true. Errors, other
// return values, timeouts and exhausted instruction budgets all fail.
func (e *Evaluator) Eval(ctx context.Context, source string, env Env) (bool, error) {
	if len(source) > e.maxSource {
		return false, dnderr.Newf(dnderr.CodeScript, "script is %d bytes, limit is %d", len(source), e.maxSource)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: dnderr.Newf(dnderr.CodeScript, "script panicked: %v", r)}
			}
		}()
		pass, err := e.run(ctx, source, env)
		done <- result{pass: pass, err: err}
	}()

	select {
	case r := <-done:
		return r.pass, r.err
	case <-ctx.Done():
		// the count hook stops the Lua state at its next check
		log.Printf("Script: stopping script after %v", e.timeout)
		return false, dnderr.WrapWithCode(ctx.Err(), dnderr.CodeScript, "script timed out")
	}
}

// interrupt installs a count hook that raises a Lua error once ctx is done or the
// instruction budget is spent
func (e *Evaluator) interrupt(ctx context.Context, l *lua.State) {
	executed := 0
	lua.SetDebugHook(l, func(l *lua.State, _ lua.Debug) {
		executed += hookInterval
		if ctx.Err() != nil {
			lua.Errorf(l, "script timed out")
		}
		if executed >= e.maxInstructions {
			lua.Errorf(l, "script exceeded %d instructions", e.maxInstructions)
		}
	}, lua.MaskCount, hookInterval)
}

func (e *Evaluator) run(ctx context.Context, source string, env Env) (bool, error) {
	l := newSandbox()

	globals := []struct {
		name  string
		value map[string]any
	}{
		{"actor", env.Actor},
		{"item", env.Item},
		{"token", env.Token},
		{"bonus", env.Bonus},
		{"details", env.Details},
	}
	for _, g := range globals {
		if g.value == nil {
			l.PushNil()
		} else {
			push(l, g.value)
		}
		l.SetGlobal(g.name)
	}

	if err := lua.LoadString(l, source); err != nil {
		return false, dnderr.WrapWithCode(err, dnderr.CodeScript, "failed to compile script")
	}
	e.interrupt(ctx, l)
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return false, dnderr.WrapWithCode(err, dnderr.CodeScript, "script failed")
	}

	pass := l.TypeOf(-1) == lua.TypeBoolean && l.ToBoolean(-1)
	l.Pop(1)
	return pass, nil
}

// push converts a Go value into Lua and leaves it on the stack
func push(l *lua.State, v any) {
	switch x := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(x)
	case string:
		l.PushString(x)
	case int:
		l.PushInteger(x)
	case int64:
		l.PushInteger(int(x))
	case float64:
		l.PushNumber(x)
	case float32:
		l.PushNumber(float64(x))
	case []string:
		l.NewTable()
		for i, s := range x {
			l.PushString(s)
			l.RawSetInt(-2, i+1)
		}
	case []any:
		l.NewTable()
		for i, item := range x {
			push(l, item)
			l.RawSetInt(-2, i+1)
		}
	case []int:
		l.NewTable()
		for i, n := range x {
			l.PushInteger(n)
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		l.NewTable()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			push(l, x[k])
			l.SetField(-2, k)
		}
	default:
		l.PushString(fmt.Sprint(x))
	}
}
