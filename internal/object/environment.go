package object

import (
	"log/slog"
	"sort"
)

// Environment is a stack of scopes. Scope i holds the bindings declared at block depth i;
// scope 0 is the top level and is never popped.
type Environment struct {
	scopes []map[string]*Binding
}

type Binding struct {
	Value Object
}

// Variable describes one visible binding.
type Variable struct {
	Name  string
	Depth int
	Value Object
}

func NewEnvironment() *Environment {
	return &Environment{
		scopes: []map[string]*Binding{make(map[string]*Binding)},
	}
}

// Depth is the current block depth, 0 at top level.
func (e *Environment) Depth() int {
	return len(e.scopes) - 1
}

// Declare binds name to BINDING_UNINITIALIZED in the innermost scope. Declaring a name
// that already exists in that scope leaves it untouched.
func (e *Environment) Declare(name string) {
	scope := e.scopes[e.Depth()]
	if _, exists := scope[name]; exists {
		return
	}
	scope[name] = &Binding{Value: BINDING_UNINITIALIZED}
	slog.Debug("variable declared",
		slog.String("name", name),
		slog.Int("depth", e.Depth()))
}

// Binding resolves name to the innermost visible binding.
func (e *Environment) Binding(name string) (*Binding, error) {
	for i := e.Depth(); i >= 0; i-- {
		if b, ok := e.scopes[i][name]; ok {
			return b, nil
		}
	}
	return nil, VariableNotFound(name)
}

func (e *Environment) Get(name string) (Object, error) {
	b, err := e.Binding(name)
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}

func (e *Environment) Has(name string) bool {
	_, err := e.Binding(name)
	return err == nil
}

func (e *Environment) EnterScope() {
	e.scopes = append(e.scopes, make(map[string]*Binding))
	slog.Debug("enter scope", slog.Int("depth", e.Depth()))
}

// ExitScope drops the innermost scope with every binding declared in it.
func (e *Environment) ExitScope() error {
	if e.Depth() == 0 {
		return NewError(UNHANDLED, "exit from top-level scope")
	}
	slog.Debug("exit scope",
		slog.Int("depth", e.Depth()),
		slog.Int("dropped", len(e.scopes[e.Depth()])))
	e.scopes[e.Depth()] = nil
	e.scopes = e.scopes[:e.Depth()]
	return nil
}

// Unwind exits scopes until the environment is back at depth.
func (e *Environment) Unwind(depth int) {
	for e.Depth() > depth && e.Depth() > 0 {
		_ = e.ExitScope()
	}
}

// Reset drops every binding at every depth.
func (e *Environment) Reset() {
	e.scopes = []map[string]*Binding{make(map[string]*Binding)}
}

// Visible lists the bindings a read would resolve to, sorted by name.
func (e *Environment) Visible() []Variable {
	seen := make(map[string]bool)
	var vars []Variable
	for i := e.Depth(); i >= 0; i-- {
		for name, b := range e.scopes[i] {
			if seen[name] {
				continue
			}
			seen[name] = true
			vars = append(vars, Variable{Name: name, Depth: i, Value: b.Value})
		}
	}
	sort.Slice(vars, func(a, b int) bool { return vars[a].Name < vars[b].Name })
	return vars
}
