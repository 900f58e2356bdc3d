// Copyright © 2024 The ELPS authors

package scheme

import "sort"

// Exports is an ordered set of bindings offered by a library.  The import
// set operations only, except, rename and prefix each return a new Exports
// and leave the receiver unchanged.
type Exports struct {
	names []Identifier
	table map[Identifier]Expression
}

// NewExports returns an empty Exports.
func NewExports() *Exports {
	return &Exports{table: make(map[Identifier]Expression)}
}

// ExportCallables returns an Exports binding each callable under its own
// identifier.
func ExportCallables(cs ...Callable) *Exports {
	ex := NewExports()
	for _, c := range cs {
		ex.Set(c.ID(), c)
	}
	return ex
}

// Set binds id to v, keeping the position of an existing binding.
func (ex *Exports) Set(id Identifier, v Expression) {
	if _, ok := ex.table[id]; !ok {
		ex.names = append(ex.names, id)
	}
	ex.table[id] = v
}

// Get returns the value bound to id.
func (ex *Exports) Get(id Identifier) (Expression, bool) {
	v, ok := ex.table[id]
	return v, ok
}

// Names returns the exported identifiers in insertion order.
func (ex *Exports) Names() []Identifier {
	names := make([]Identifier, len(ex.names))
	copy(names, ex.names)
	return names
}

// SortedNames returns the exported identifiers in lexical order.
func (ex *Exports) SortedNames() []Identifier {
	names := ex.Names()
	sort.Slice(names, func(i, j int) bool { return names[i].Compare(names[j]) < 0 })
	return names
}

// Len returns the number of bindings.
func (ex *Exports) Len() int { return len(ex.names) }

// Only returns the bindings named by ids.  Naming an identifier that is not
// exported is an error.
func (ex *Exports) Only(ids ...Identifier) (*Exports, error) {
	out := NewExports()
	for _, id := range ids {
		v, ok := ex.table[id]
		if !ok {
			return nil, UnboundVariable(id)
		}
		out.Set(id, v)
	}
	return out, nil
}

// Except returns every binding not named by ids.  Naming an identifier that
// is not exported is an error.
func (ex *Exports) Except(ids ...Identifier) (*Exports, error) {
	drop := make(map[Identifier]bool, len(ids))
	for _, id := range ids {
		if _, ok := ex.table[id]; !ok {
			return nil, UnboundVariable(id)
		}
		drop[id] = true
	}
	out := NewExports()
	for _, id := range ex.names {
		if !drop[id] {
			out.Set(id, ex.table[id])
		}
	}
	return out, nil
}

// Rename returns a copy of ex in which each key of renames is bound under
// its value instead.  A callable whose own identifier matches the old name is
// renamed as well so that its signature and stack frames use the new name.
// It is an error for two bindings to end up with the same name.
func (ex *Exports) Rename(renames map[Identifier]Identifier) (*Exports, error) {
	for from := range renames {
		if _, ok := ex.table[from]; !ok {
			return nil, UnboundVariable(from)
		}
	}
	seen := make(map[Identifier]bool, len(ex.names))
	for _, id := range ex.names {
		to, ok := renames[id]
		if !ok {
			to = id
		}
		if seen[to] {
			return nil, BadFormSyntax("rename", "duplicate identifier: "+to.String())
		}
		seen[to] = true
	}
	out := NewExports()
	for _, id := range ex.names {
		to, ok := renames[id]
		if !ok {
			out.Set(id, ex.table[id])
			continue
		}
		out.Set(to, renameCallable(ex.table[id], id, to))
	}
	return out, nil
}

// Prefix returns a copy of ex with every identifier prefixed by p.
func (ex *Exports) Prefix(p string) *Exports {
	out := NewExports()
	for _, id := range ex.names {
		to := Symbol(p + id.Name())
		out.Set(to, renameCallable(ex.table[id], id, to))
	}
	return out
}

// Merge returns the union of ex and other.  Bindings in other win on
// collision.
func (ex *Exports) Merge(other *Exports) *Exports {
	out := NewExports()
	for _, id := range ex.names {
		out.Set(id, ex.table[id])
	}
	for _, id := range other.names {
		out.Set(id, other.table[id])
	}
	return out
}

func renameCallable(v Expression, from, to Identifier) Expression {
	if c, ok := v.(Callable); ok && c.ID() == from {
		return c.Rename(to)
	}
	return v
}
