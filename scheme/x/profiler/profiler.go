// Copyright © 2018 The ELPS authors

// Package profiler provides scheme.Profiler implementations that report
// procedure calls to tracing systems and profiling tools.
package profiler

import (
	"fmt"

	"github.com/tessellate/schemer/scheme"
)

// profiler is a minimal scheme.Profiler
type profiler struct {
	runtime    *scheme.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ scheme.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Start(c scheme.Callable) func() {
	return func() {}
}

func (p *profiler) Complete() error {
	return nil
}

// prettyFunName returns the label for a span and the name of the callable.
// Without a labeler, or when the labeler has nothing to say, the label is
// the name.
func (p *profiler) prettyFunName(c scheme.Callable) (string, string) {
	name := c.ID().Name()
	label := name
	if p.funLabeler != nil {
		label = p.funLabeler(p.runtime, c)
	}
	if label == "" {
		label = name
	}
	return label, name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(c scheme.Callable) bool {
	return !p.enabled || defaultSkipFilter(c) || p.skipFilter != nil && p.skipFilter(c)
}

// namespace names where a callable comes from: builtin for Go procedures,
// otherwise the environment a lambda closed over.
func namespace(c scheme.Callable) string {
	proc, ok := c.(*scheme.Procedure)
	if !ok {
		return "form"
	}
	if proc.IsBuiltin() || proc.Closure() == nil {
		return "builtin"
	}
	return proc.Closure().Name
}
