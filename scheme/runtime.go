// Copyright © 2018 The ELPS authors

package scheme

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Version is the interpreter version reported by tools.
const Version = "0.3"

// Reader parses a stream of source text into datums.
type Reader interface {
	Read(name string, r io.Reader) ([]Datum, error)
}

// Profiler observes procedure calls.
type Profiler interface {
	// IsEnabled reports whether Start should be called.
	IsEnabled() bool
	// Enable attaches the profiler to its runtime.
	Enable() error
	// Start marks the beginning of a call and returns a function marking its
	// end.
	Start(c Callable) func()
	// Complete ends the profiling session.
	Complete() error
}

// Runtime holds the state shared by a tree of environments.
type Runtime struct {
	Registry *Registry
	Reader   Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   logrus.FieldLogger
	Display  DisplayFlags
	Stack    *CallStack
	Profiler Profiler
	// Context is checked for cancellation at every evaluation step.
	Context context.Context
	// MaxSteps bounds the number of evaluation steps.  Zero means unbounded.
	MaxSteps int64
	// TopLevel is the environment returned by interaction-environment.
	TopLevel *Env

	steps  atomic.Int64
	numenv atomicCounter
}

// StandardRuntime returns a new Runtime with an empty registry, writing to
// os.Stdout and os.Stderr.  Its logger discards messages below warning
// level.
func StandardRuntime() *Runtime {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return &Runtime{
		Registry: NewRegistry(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   logger,
		Stack:    &CallStack{},
		Context:  context.Background(),
	}
}

func (r *Runtime) GenEnvID() uint {
	return r.numenv.Add(1)
}

// Steps returns the number of evaluation steps taken so far.
func (r *Runtime) Steps() int64 {
	return r.steps.Load()
}

// ResetSteps restarts the step count, typically before evaluating a new
// top-level form.
func (r *Runtime) ResetSteps() {
	r.steps.Store(0)
}

// step accounts for one evaluation step.
func (r *Runtime) step() error {
	n := r.steps.Add(1)
	if r.MaxSteps > 0 && n > r.MaxSteps {
		return &Error{Kind: KindStepLimit, Max: int(r.MaxSteps)}
	}
	if r.Context != nil {
		if err := r.Context.Err(); err != nil {
			return &Error{Kind: KindCancelled, Err: err}
		}
	}
	return nil
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
