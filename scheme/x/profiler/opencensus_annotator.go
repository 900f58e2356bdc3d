// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/tessellate/schemer/scheme"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

var _ scheme.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator returns a profiler that starts an opencensus span
// for each traced procedure call.
func NewOpenCensusAnnotator(runtime *scheme.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the annotator with ctx as the parent of all
// spans.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(c scheme.Callable) func() {
	if p.skipTrace(c) {
		return func() {}
	}
	label, _ := p.prettyFunName(c)
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, fmt.Sprintf("%s:%s", namespace(c), label))
	return func() {
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("signature", c.Signature()),
			trace.Int64Attribute("depth", int64(len(p.contexts))),
		}, "call")
		p.currentSpan.End()
		n := len(p.contexts) - 1
		p.currentContext = p.contexts[n]
		p.contexts = p.contexts[:n]
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
