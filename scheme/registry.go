// Copyright © 2024 The ELPS authors

package scheme

import (
	"sort"
	"strings"
	"sync"

	"github.com/tessellate/schemer/scheme/num"
)

// BaseLibrary is the name of the library holding the core forms and
// builtins.
const BaseLibrary = "(scheme base)"

// Registry maps library names to their exports.  Names are the written form
// of the library name list, such as "(scheme char)".
type Registry struct {
	mu   sync.RWMutex
	libs map[string]*Exports
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{libs: make(map[string]*Exports)}
}

// Define registers ex under name, replacing any previous definition.
func (r *Registry) Define(name string, ex *Exports) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.libs[name] = ex
}

// Lookup returns the exports of the named library.
func (r *Registry) Lookup(name string) (*Exports, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.libs[name]
	if !ok {
		return nil, &Error{Kind: KindBadLibraryName, Name: name}
	}
	return ex, nil
}

// Names returns the registered library names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.libs))
	for name := range r.libs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// LibraryName returns the registry key for a library name datum.  A library
// name is a non-empty proper list of identifiers and exact non-negative
// integers.
func LibraryName(d Datum) (string, error) {
	parts, ok := Slice(d)
	if !ok || len(parts) == 0 {
		return "", &Error{Kind: KindBadLibraryName, Name: Repr(d, DisplayFlags{})}
	}
	names := make([]string, len(parts))
	for i, p := range parts {
		switch p := p.(type) {
		case Identifier:
			names[i] = p.Name()
		case Number:
			if neg, _ := num.IsNegative(p.Number); p.Kind() != num.KindInteger || neg {
				return "", &Error{Kind: KindBadLibraryName, Name: Repr(d, DisplayFlags{})}
			}
			names[i] = p.String()
		default:
			return "", &Error{Kind: KindBadLibraryName, Name: Repr(d, DisplayFlags{})}
		}
	}
	return "(" + strings.Join(names, " ") + ")", nil
}
