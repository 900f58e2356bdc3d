// Copyright © 2018 The ELPS authors

// Package schemelib is used to conveniently register the standard libraries
// with a scheme runtime.
package schemelib

import (
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib/libchar"
	"github.com/tessellate/schemer/scheme/schemelib/libcomplex"
	"github.com/tessellate/schemer/scheme/schemelib/libcxr"
	"github.com/tessellate/schemer/scheme/schemelib/libhelp"
	"github.com/tessellate/schemer/scheme/schemelib/libinexact"
	"github.com/tessellate/schemer/scheme/schemelib/libwrite"
)

var loaders = []func(*scheme.Env) error{
	libchar.LoadLibrary,
	libwrite.LoadLibrary,
	libinexact.LoadLibrary,
	libcomplex.LoadLibrary,
	libcxr.LoadLibrary,
	libhelp.LoadLibrary,
}

// LoadLibrary registers the standard libraries with the runtime of env.
// They become available to import but are not imported.
func LoadLibrary(env *scheme.Env) error {
	for _, load := range loaders {
		if err := load(env); err != nil {
			return err
		}
	}
	return nil
}

// ImportAll imports every registered library into env, the way an
// interactive session starts.
func ImportAll(env *scheme.Env) error {
	reg := env.Runtime.Registry
	for _, name := range reg.Names() {
		ex, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		if err := env.Import(ex); err != nil {
			return err
		}
	}
	return nil
}

// NewEnv returns a top-level environment with the standard libraries
// registered and imported.  The reader of the runtime must be supplied
// through config to load source text.
func NewEnv(config ...scheme.Config) (*scheme.Env, error) {
	env := scheme.NewTopLevel(scheme.StandardRuntime())
	if err := scheme.InitializeTopLevel(env, config...); err != nil {
		return nil, err
	}
	if err := LoadLibrary(env); err != nil {
		return nil, err
	}
	if err := ImportAll(env); err != nil {
		return nil, err
	}
	return env, nil
}
