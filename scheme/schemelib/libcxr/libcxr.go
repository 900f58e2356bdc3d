// Copyright © 2024 The ELPS authors

// Package libcxr implements the (scheme cxr) library of car and cdr
// compositions.
package libcxr

import (
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib/internal/libutil"
)

// DefaultLibraryName is the library name used by LoadLibrary.
const DefaultLibraryName = "(scheme cxr)"

// LoadLibrary registers (scheme cxr) with the runtime of env.
func LoadLibrary(env *scheme.Env) error {
	env.Runtime.Registry.Define(DefaultLibraryName, Exports())
	return nil
}

// Exports returns the bindings of (scheme cxr).
func Exports() *scheme.Exports {
	return libutil.Exports(builtins)
}

var builtins = []*scheme.Procedure{
	accessor("caar"),
	accessor("cadr"),
	accessor("cdar"),
	accessor("cddr"),
	accessor("caaar"),
	accessor("caadr"),
	accessor("cadar"),
	accessor("caddr"),
	accessor("cdaar"),
	accessor("cdadr"),
	accessor("cddar"),
	accessor("cdddr"),
	accessor("cadddr"),
	accessor("cddddr"),
}

// accessor builds the procedure for a name such as cadr.  The letters
// between c and r are applied right to left.
func accessor(name string) *scheme.Procedure {
	path := name[1 : len(name)-1]
	doc := "Returns the " + describe(path) + " of pair."
	return libutil.FunctionDoc(name, scheme.Formals("pair"), func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		d := scheme.ToDatum(args[0])
		for i := len(path) - 1; i >= 0; i-- {
			p, ok := d.(*scheme.Pair)
			if !ok {
				return nil, libutil.TypeError(name, "pair", scheme.ToExpression(d))
			}
			if path[i] == 'a' {
				d = p.Car
			} else {
				d = p.Cdr
			}
		}
		return scheme.ToExpression(d), nil
	}, doc)
}

func describe(path string) string {
	var s string
	for i := 0; i < len(path); i++ {
		if i > 0 {
			s += " of the "
		}
		if path[i] == 'a' {
			s += "car"
		} else {
			s += "cdr"
		}
	}
	return s
}
