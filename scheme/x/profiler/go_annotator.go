// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/tessellate/schemer/scheme"
)

// pprofAnnotator labels the current goroutine with the procedure being
// called so that pprof samples can be attributed to Scheme code.  It does
// not start pprof itself.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ scheme.Profiler = &pprofAnnotator{}

func NewPprofAnnotator(runtime *scheme.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

// Labels returns the label set of the innermost traced call.
func (p *pprofAnnotator) Labels() map[string]string {
	labels := make(map[string]string)
	pprof.ForLabels(p.currentContext, func(k, v string) bool {
		labels[k] = v
		return true
	})
	return labels
}

func (p *pprofAnnotator) Start(c scheme.Callable) func() {
	if p.skipTrace(c) {
		return func() {}
	}
	oldContext := p.currentContext
	label, _ := p.prettyFunName(c)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", label))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
