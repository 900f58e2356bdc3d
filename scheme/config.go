// Copyright © 2018 The ELPS authors

package scheme

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *Env) error

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStdout returns a Config that makes the (scheme write) procedures write
// to w instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that replaces the runtime logger.
func WithLogger(logger logrus.FieldLogger) Config {
	return func(env *Env) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		env.Runtime.Logger = logger
		return nil
	}
}

// WithDisplayFlags returns a Config that sets the flags used when rendering
// values.
func WithDisplayFlags(flags DisplayFlags) Config {
	return func(env *Env) error {
		env.Runtime.Display = flags
		return nil
	}
}

// WithMaxDepth returns a Config that will prevent an execution environment
// from allowing more than n nested procedure calls.
func WithMaxDepth(n int) Config {
	return func(env *Env) error {
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithMaxSteps returns a Config that limits the number of evaluation steps.
func WithMaxSteps(n int64) Config {
	return func(env *Env) error {
		env.Runtime.MaxSteps = n
		return nil
	}
}

// WithContext returns a Config that cancels evaluation when ctx is done.
func WithContext(ctx context.Context) Config {
	return func(env *Env) error {
		env.Runtime.Context = ctx
		return nil
	}
}

// WithProfiler returns a Config that enables p for the runtime.
func WithProfiler(p Profiler) Config {
	return func(env *Env) error {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return nil
		}
		return p.Enable()
	}
}

// WithLibrary returns a Config that registers a library under name.  The
// library is available to import but is not imported.
func WithLibrary(name string, ex *Exports) Config {
	return func(env *Env) error {
		env.Runtime.Registry.Define(name, ex)
		return nil
	}
}

// InitializeTopLevel applies config to env, registers (scheme base) and
// imports it into env.  env becomes the runtime's interaction environment.
func InitializeTopLevel(env *Env, config ...Config) error {
	rt := env.Runtime
	rt.Registry.Define(BaseLibrary, BaseExports())
	for _, fn := range config {
		if err := fn(env); err != nil {
			return err
		}
	}
	base, err := rt.Registry.Lookup(BaseLibrary)
	if err != nil {
		return err
	}
	if err := env.Import(base); err != nil {
		return err
	}
	rt.TopLevel = env
	return nil
}
