// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, ro runOptions, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := newCmdConfig(WithOutput(&stdout, &stderr))
	err := runSources(context.Background(), cfg, ro, args)
	return stdout.String(), stderr.String(), err
}

func TestRunExpressions(t *testing.T) {
	out, _, err := run(t, runOptions{expression: true, print: true},
		"(define x 4)", "(* x x)", `(display "hi")`, "(list 1 2)")
	require.NoError(t, err)
	assert.Equal(t, "16\nhi'(1 2)\n", out)

	out, _, err = run(t, runOptions{expression: true}, "(* 6 7)")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRunFiles(t *testing.T) {
	lib := writeTemp(t, "lib.scm", "(define (square x) (* x x))\n")
	main := writeTemp(t, "main.scm", "(display (square 12))\n(newline)\n")
	out, _, err := run(t, runOptions{}, lib, main)
	require.NoError(t, err)
	assert.Equal(t, "144\n", out)
}

func TestRunErrors(t *testing.T) {
	_, stderr, err := run(t, runOptions{expression: true}, "(car 5)")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "error[unexpected-type]: car: expected pair but got number")

	_, stderr, err = run(t, runOptions{expression: true}, "fnord")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "unbound variable: fnord")
	assert.Contains(t, stderr, "schemer doc --apropos")

	path := writeTemp(t, "bad.scm", "(display 1)\n(+ 1\n")
	out, stderr, err := run(t, runOptions{}, path)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "error[parse-error]")
	assert.Equal(t, "", out, "nothing is evaluated when the file does not parse")

	_, _, err = run(t, runOptions{}, filepath.Join(t.TempDir(), "missing.scm"))
	assert.ErrorIs(t, err, errReported)
}

func TestRunStepLimit(t *testing.T) {
	viper.Set("max-steps", 1000)
	defer viper.Set("max-steps", 0)

	_, stderr, err := run(t, runOptions{expression: true}, "(define (loop) (loop)) (loop)")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "evaluation exceeded 1000 steps")
	assert.Contains(t, stderr, "--max-steps")
}

func TestRunCallgrind(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "callgrind.out")
	_, _, err := run(t, runOptions{expression: true, callgrind: profile},
		"(define (f x) (+ x 1)) (f 1)")
	require.NoError(t, err)
	b, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "events: Time_(ns) Memory_(bytes)")
}

func TestRunTraceBackends(t *testing.T) {
	for _, backend := range []string{traceOpenTelemetry, traceOpenCensus} {
		t.Run(backend, func(t *testing.T) {
			out, _, err := run(t, runOptions{expression: true, print: true, trace: backend},
				"(define (f x) (+ x 1)) (f 1)")
			require.NoError(t, err)
			assert.Equal(t, "2\n", out)
		})
	}

	_, _, err := run(t, runOptions{expression: true, trace: "zipkin"}, "1")
	assert.ErrorContains(t, err, `unknown trace backend "zipkin"`)

	_, _, err = run(t, runOptions{expression: true, trace: traceOpenTelemetry, callgrind: "x"}, "1")
	assert.ErrorContains(t, err, "mutually exclusive")
}
