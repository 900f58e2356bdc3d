// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"errors"
	"fmt"

	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/vm"
)

// StdinName is the source name used for interactive input.  No source line
// is shown for it.
const StdinName = "<stdin>"

// FromError builds a diagnostic for err.  file names the source being
// evaluated and is used for reader errors, which carry a line number.
// Evaluation errors contribute their kind as the diagnostic code and their
// call stack as notes, innermost frame first.
func FromError(err error, file string) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
	}
	var serr *scheme.Error
	if errors.As(err, &serr) {
		d.Code = serr.Kind.String()
		if serr.Stack != nil {
			for i := len(serr.Stack.Frames) - 1; i >= 0; i-- {
				d.Notes = append(d.Notes, "in "+serr.Stack.Frames[i].String())
			}
		}
	}
	var perr *parser.SyntaxError
	if errors.As(err, &perr) {
		d.Code = scheme.KindParser.String()
		if perr.Line > 0 {
			d.Spans = append(d.Spans, Span{File: file, Line: perr.Line, Label: perr.Msg})
		}
		if perr.Incomplete {
			d.Notes = append(d.Notes, "input ended inside a datum")
		}
	}
	var merr *vm.Error
	if errors.As(err, &merr) {
		if d.Code == "" {
			d.Code = "machine"
		}
		d.Notes = append(d.Notes, fmt.Sprintf("while executing %v at pc %d", merr.Op, merr.PC))
	}
	return d
}
