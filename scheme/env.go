// Copyright © 2018 The ELPS authors

package scheme

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultTopLevelName is the display name of the root environment returned
// by NewTopLevel.
const DefaultTopLevelName = "top-level"

// Env is a lexical environment.  An Env is a node in a tree: lookups that
// miss fall through to the parent, which is fixed at construction.  Each node
// guards its own table with a lock so environments may be shared across
// goroutines.
type Env struct {
	ID      uint
	Name    string
	Runtime *Runtime

	parent *Env
	mu     sync.RWMutex
	table  map[Identifier]Expression
	locked bool
}

// NewEnvNamed returns a root environment with the given display name.  When
// rt is nil a StandardRuntime is created.
func NewEnvNamed(rt *Runtime, name string) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &Env{
		ID:      rt.GenEnvID(),
		Name:    name,
		Runtime: rt,
		table:   make(map[Identifier]Expression),
	}
}

// NewTopLevel returns a root environment named top-level.
func NewTopLevel(rt *Runtime) *Env {
	return NewEnvNamed(rt, DefaultTopLevelName)
}

// NewEmpty returns an unnamed root environment.
func NewEmpty(rt *Runtime) *Env {
	return NewEnvNamed(rt, "")
}

// NewChild returns an environment whose lookups fall through to parent.
func NewChild(parent *Env) *Env {
	env := NewEnvNamed(parent.Runtime, parent.Name)
	env.parent = parent
	return env
}

// NewChildNamed returns a child of parent with a display name derived from
// label, such as *my-label* for "my label".
func NewChildNamed(parent *Env, label string) *Env {
	env := NewChild(parent)
	env.Name = "*" + strings.Join(strings.Fields(label), "-") + "*"
	return env
}

// Parent returns the parent environment, or nil for a root.
func (env *Env) Parent() *Env { return env.parent }

// ReturnToParent returns the parent of env, or nil for a root.  It is used
// when unwinding a call frame; env should not be used afterwards.
func (env *Env) ReturnToParent() *Env { return env.parent }

// Root returns the root of the environment tree.
func (env *Env) Root() *Env {
	for env.parent != nil {
		env = env.parent
	}
	return env
}

// IsImmutable reports whether env has been locked.
func (env *Env) IsImmutable() bool {
	env.mu.RLock()
	defer env.mu.RUnlock()
	return env.locked
}

// MakeImmutable locks env against further mutation and returns it.
func (env *Env) MakeImmutable() *Env {
	env.mu.Lock()
	env.locked = true
	env.mu.Unlock()
	return env
}

func (env *Env) immutableError() error {
	return &Error{Kind: KindImmutableEnvironment, Name: env.Name}
}

// Insert binds id to v in env's own table, replacing any existing binding.
func (env *Env) Insert(id Identifier, v Expression) error {
	env.mu.Lock()
	defer env.mu.Unlock()
	if env.locked {
		return env.immutableError()
	}
	env.table[id] = v
	return nil
}

// InsertProcedure binds p under its own identifier.
func (env *Env) InsertProcedure(p *Procedure) error {
	return env.Insert(p.ID(), p)
}

// InsertForm binds f under its own identifier.
func (env *Env) InsertForm(f *Form) error {
	return env.Insert(f.ID(), f)
}

// Import merges the bindings in ex into env, replacing existing bindings on
// collision.
func (env *Env) Import(ex *Exports) error {
	env.mu.Lock()
	defer env.mu.Unlock()
	if env.locked {
		return env.immutableError()
	}
	for _, id := range ex.names {
		env.table[id] = ex.table[id]
	}
	return nil
}

// Get looks id up in env and its ancestors.
func (env *Env) Get(id Identifier) (Expression, bool) {
	for e := env; e != nil; e = e.parent {
		e.mu.RLock()
		v, ok := e.table[id]
		e.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// GetLocal looks id up in env's own table only.
func (env *Env) GetLocal(id Identifier) (Expression, bool) {
	env.mu.RLock()
	defer env.mu.RUnlock()
	v, ok := env.table[id]
	return v, ok
}

// IsBound reports whether id is bound in env or an ancestor.
func (env *Env) IsBound(id Identifier) bool {
	_, ok := env.Get(id)
	return ok
}

// Update assigns v to the innermost existing binding of id, as set! does.
func (env *Env) Update(id Identifier, v Expression) error {
	for e := env; e != nil; e = e.parent {
		e.mu.Lock()
		if _, ok := e.table[id]; ok {
			defer e.mu.Unlock()
			if e.locked {
				return e.immutableError()
			}
			e.table[id] = v
			return nil
		}
		e.mu.Unlock()
	}
	return UnboundVariable(id)
}

// Names returns the identifiers bound in env's own table, sorted.
func (env *Env) Names() []Identifier {
	env.mu.RLock()
	names := make([]Identifier, 0, len(env.table))
	for id := range env.table {
		names = append(names, id)
	}
	env.mu.RUnlock()
	sort.Slice(names, func(i, j int) bool { return names[i].Compare(names[j]) < 0 })
	return names
}

// VisibleNames returns every identifier visible from env, sorted and without
// duplicates.
func (env *Env) VisibleNames() []Identifier {
	seen := make(map[Identifier]bool)
	var names []Identifier
	for e := env; e != nil; e = e.parent {
		for _, id := range e.Names() {
			if !seen[id] {
				seen[id] = true
				names = append(names, id)
			}
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Compare(names[j]) < 0 })
	return names
}

func (*Env) Type() Type { return TypeEnvironment }

func (env *Env) String() string {
	return fmt.Sprintf("#<environment %s>", env.Name)
}

func (*Env) datum()      {}
func (*Env) expression() {}
