package object

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestDeclareAndResolve(t *testing.T) {
	env := NewEnvironment()
	env.Declare("a")

	v, err := env.Get("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != BINDING_UNINITIALIZED {
		t.Errorf("expected uninitialized, got %s", v.Inspect())
	}

	b, _ := env.Binding("a")
	b.Value = NewInteger(5)

	// re-declaring in the same scope keeps the value
	env.Declare("a")
	v, _ = env.Get("a")
	if !Equal(v, NewInteger(5)) {
		t.Errorf("expected 5, got %s", v.Inspect())
	}

	if _, err := env.Get("missing"); KindOf(err) != VARIABLE_NOT_FOUND {
		t.Errorf("expected %s, got %v", VARIABLE_NOT_FOUND, err)
	}
}

func TestShadowing(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x")
	outer, _ := env.Binding("x")
	outer.Value = NewInteger(1)

	env.EnterScope()
	env.Declare("x")
	inner, _ := env.Binding("x")
	inner.Value = NewInteger(2)
	env.Declare("y")

	if v, _ := env.Get("x"); !Equal(v, NewInteger(2)) {
		t.Errorf("expected inner x = 2, got %s", v.Inspect())
	}
	if env.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", env.Depth())
	}

	if err := env.ExitScope(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := env.Get("x"); !Equal(v, NewInteger(1)) {
		t.Errorf("expected outer x = 1, got %s", v.Inspect())
	}
	if env.Has("y") {
		t.Errorf("expected y to be dropped with its scope")
	}
}

func TestInnerScopeSeesOuterBindings(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x")
	env.EnterScope()
	env.EnterScope()

	b, err := env.Binding("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Value = NewInteger(9)
	env.Unwind(0)

	if env.Depth() != 0 {
		t.Errorf("expected depth 0 after unwind, got %d", env.Depth())
	}
	if v, _ := env.Get("x"); !Equal(v, NewInteger(9)) {
		t.Errorf("expected x = 9, got %s", v.Inspect())
	}
}

func TestExitTopLevelScope(t *testing.T) {
	env := NewEnvironment()
	if err := env.ExitScope(); KindOf(err) != UNHANDLED {
		t.Errorf("expected %s, got %v", UNHANDLED, err)
	}
}

func TestResetAndVisible(t *testing.T) {
	env := NewEnvironment()
	env.Declare("b")
	env.Declare("a")
	env.EnterScope()
	env.Declare("b")

	vars := env.Visible()
	if len(vars) != 2 {
		t.Fatalf("expected 2 visible bindings, got %d", len(vars))
	}
	if vars[0].Name != "a" || vars[0].Depth != 0 {
		t.Errorf("expected a at depth 0, got %s at depth %d", vars[0].Name, vars[0].Depth)
	}
	if vars[1].Name != "b" || vars[1].Depth != 1 {
		t.Errorf("expected b at depth 1, got %s at depth %d", vars[1].Name, vars[1].Depth)
	}

	env.Reset()
	if env.Depth() != 0 || env.Has("a") || env.Has("b") {
		t.Errorf("expected an empty top-level environment after reset")
	}
}

func TestDeclareLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	defer slog.SetDefault(prev)

	NewEnvironment().Declare("a")
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}
