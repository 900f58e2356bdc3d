// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/tessellate/schemer/scheme"
)

type SkipFilter func(c scheme.Callable) bool

// defaultSkipFilter skips special forms.  The evaluator only reports
// procedure calls but a profiler may be driven directly.
func defaultSkipFilter(c scheme.Callable) bool {
	_, ok := c.(*scheme.Procedure)
	return !ok
}

// WithDocFilter filters to only include spans for procedures whose
// docstring denotes tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// DocTrace is a magic string used to enable tracing in a profiler configured
// WithDocFilter.  All procedures with a docstring that contains this string
// will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(c scheme.Callable) bool {
	doc := c.Doc()
	if doc == "" {
		return true
	}
	return !docTraceRegExp.MatchString(doc)
}
