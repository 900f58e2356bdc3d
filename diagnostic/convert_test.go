// Copyright © 2024 The ELPS authors

package diagnostic_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/diagnostic"
	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/schemetest"
	"github.com/tessellate/schemer/vm"
)

func TestFromEvalError(t *testing.T) {
	env, err := schemetest.NewEnv(t, io.Discard)
	require.NoError(t, err)
	_, err = env.LoadString("test.scm", `(define (first x) (car x)) (first 5)`)
	require.Error(t, err)

	d := diagnostic.FromError(err, "test.scm")
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "unexpected-type", d.Code)
	assert.Equal(t, "car: expected pair but got number", d.Message)
	assert.Equal(t, []string{
		"in car [builtin] in *first*",
		"in first in top-level",
	}, d.Notes)
}

func TestFromSyntaxError(t *testing.T) {
	_, err := parser.ParseDatum("(1\n2 . 3 4)")
	require.Error(t, err)
	d := diagnostic.FromError(err, "prog.scm")
	assert.Equal(t, "parse-error", d.Code)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, "prog.scm", d.Spans[0].File)
	assert.Greater(t, d.Spans[0].Line, 0)

	_, err = parser.ParseDatum("(unclosed")
	require.Error(t, err)
	d = diagnostic.FromError(err, diagnostic.StdinName)
	assert.Contains(t, d.Notes, "input ended inside a datum")
}

func TestFromMachineError(t *testing.T) {
	code, err := vm.AssembleText("test", strings.NewReader(`(LDC 1 CAR)`))
	require.NoError(t, err)
	_, err = vm.New(code).Run(context.Background())
	require.Error(t, err)

	d := diagnostic.FromError(err, "test.secd")
	assert.Equal(t, "unexpected-type", d.Code)
	assert.Equal(t, []string{"while executing CAR at pc 1"}, d.Notes)

	var buf bytes.Buffer
	r := &diagnostic.Renderer{Color: diagnostic.ColorNever}
	require.NoError(t, r.RenderError(&buf, err, "test.secd"))
	assert.Equal(t, "error[unexpected-type]: CAR at pc 1: CAR: expected pair but got number\n"+
		"   = note: while executing CAR at pc 1\n", buf.String())
}
