package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/diagnostic"
)

func runReplWithString(t *testing.T, input string) (string, string) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	var stdout bytes.Buffer

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		err := RunRepl("schemer> ",
			WithStdin(inR),
			WithStderr(outW),
			WithStdout(&stdout),
			WithColor(diagnostic.ColorNever),
			WithHistoryFile(""))
		assert.NoError(t, err)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String(), stdout.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, HistoryFileName)

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, HistoryFileName)

	err := os.WriteFile(histFile, []byte("(+ 1 2)"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		stdout   string
	}{
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: "2\n",
		},
		{
			name:     "Quoted List",
			input:    "(list 1 2)\n",
			expected: "'(1 2)\n",
		},
		{
			name:     "Continuation",
			input:    "(define (sq x)\n  (* x x))\n(sq 7)\n",
			expected: "49\n",
		},
		{
			name:     "Nested Continuation",
			input:    "(define (cube x)\n  (* x\n     x\n     x))\n(cube 3)\n",
			expected: "27\n",
		},
		{
			name:     "Vector Continuation",
			input:    "(vector-length #(1 2\n 3))\n",
			expected: "3\n",
		},
		{
			name:   "String Continuation",
			input:  "(display \"a\nb\")\n",
			stdout: "a\nb",
		},
		{
			name:     "Several On One Line",
			input:    "(define x 4) (* x 10)\n",
			expected: "40\n",
		},
		{
			name:     "Display",
			input:    "(display \"hello\")\n",
			stdout:   "hello",
		},
		{
			name:     "Unbound",
			input:    "fnord\n",
			expected: "error[unbound-variable]: unbound variable: fnord",
		},
		{
			name:     "Unbound Hint",
			input:    "fnord\n",
			expected: `= note: use (apropos "name") to search the available bindings`,
		},
		{
			name:     "Syntax Error",
			input:    ")\n(+ 2 2)\n",
			expected: "4\n",
		},
		{
			name:     "Skipped Forms",
			input:    "(car 1) (+ 1 1) 3\n",
			expected: "note: 2 remaining form(s) on the line were not evaluated",
		},
		{
			name:     "Stack Trace",
			input:    "(define (f x) (car x))\n(f 1)\n",
			expected: "= note: in car [builtin] in *f*",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, stdout := runReplWithString(t, tc.input)
			require.Contains(t, got, tc.expected)
			assert.Equal(t, tc.stdout, stdout)
		})
	}
}

func TestRunReplUnspecifiedNotPrinted(t *testing.T) {
	got, _ := runReplWithString(t, "(define y 1)\n")
	assert.NotContains(t, got, "#<unspecified>")
}
