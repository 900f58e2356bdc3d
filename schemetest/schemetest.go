// Copyright © 2018 The ELPS authors

// Package schemetest runs sequences of Scheme expressions in fresh
// environments and compares their printed results.
package schemetest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib"
)

// MaxDepth is the call depth limit of test environments.
const MaxDepth = 10000

func BenchmarkParse(path string, r func() scheme.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// NewEnv returns an initialized top-level environment with every standard
// library registered.  Display output is written to stdout.
func NewEnv(t testing.TB, stdout io.Writer, config ...scheme.Config) (*scheme.Env, error) {
	env := scheme.NewTopLevel(scheme.StandardRuntime())
	base := []scheme.Config{
		scheme.WithReader(parser.NewReader()),
		scheme.WithStdout(stdout),
		scheme.WithStderr(NewLogger(t)),
		scheme.WithLogger(NewLogrus(t, logrus.WarnLevel)),
		scheme.WithMaxDepth(MaxDepth),
	}
	err := scheme.InitializeTopLevel(env, append(base, config...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheme environment: %w", err)
	}
	if err := schemelib.LoadLibrary(env); err != nil {
		return nil, fmt.Errorf("failed to load standard libraries: %w", err)
	}
	return env, nil
}

// Result renders the outcome of an evaluation the way test sequences
// expect: the written representation of v, or the message of err.
func Result(v scheme.Expression, err error) string {
	if err != nil {
		return err.Error()
	}
	return scheme.ToReprString(v, scheme.DisplayFlags{})
}

// TestSequence is a sequence of scheme expressions which are evaluated
// sequentially in one environment.
type TestSequence []struct {
	Expr   string // a scheme expression
	Result string // the evaluated result, or an error message
	Output string // output written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated environments.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		var out bytes.Buffer
		env, err := NewEnv(t, &out)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			out.Reset()
			v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			env.Runtime.ResetSteps()
			result := Result(env.Eval(v[0]))
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
			env.Runtime.Stack.Reset()
		}
	}
}

// RunTestFile loads the file at path into a fresh environment.  The test
// fails if any expression in the file signals an error, typically through
// assert.
func RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	logger := NewLogger(t)
	defer logger.Flush()
	env, err := NewEnv(t, logger)
	if err != nil {
		t.Error(err)
		return
	}
	_, err = env.Load(filepath.Base(path), bytes.NewReader(source))
	if err != nil {
		SchemeError(t, err)
	}
}

// SchemeError reports err with its stack trace when it has one.
func SchemeError(t testing.TB, err error) {
	t.Helper()
	var serr *scheme.Error
	if !errors.As(err, &serr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := serr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := NewEnv(b, io.Discard)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for i, expr := range exprs {
			if _, err := env.Eval(expr); err != nil {
				b.Fatalf("expr %d: %v", i, err)
			}
		}
		b.StopTimer()
	}
}
