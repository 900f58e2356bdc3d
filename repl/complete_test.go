// Copyright © 2018 The ELPS authors

package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib"
)

func TestSymbolCompleter(t *testing.T) {
	env, err := schemelib.NewEnv(scheme.WithReader(parser.NewReader()))
	require.NoError(t, err)
	c := &symbolCompleter{env: env}

	candidates, offset := c.Do([]rune("(string->"), 9)
	assert.Equal(t, 8, offset)
	assert.Contains(t, candidates, []rune("list"))
	assert.Contains(t, candidates, []rune("symbol"))

	// Completion stops at quote characters.
	candidates, offset = c.Do([]rune("'(char-up"), 9)
	assert.Equal(t, 7, offset)
	assert.ElementsMatch(t, [][]rune{[]rune("case"), []rune("per-case?")}, candidates)

	_, err = env.LoadString("test", `(define zebra-count 1)`)
	require.NoError(t, err)
	candidates, _ = c.Do([]rune("(+ zeb"), 6)
	assert.Equal(t, [][]rune{[]rune("ra-count")}, candidates)

	candidates, _ = c.Do([]rune("(zzz-nonexistent"), 16)
	assert.Empty(t, candidates)

	candidates, offset = c.Do([]rune("( "), 2)
	assert.Empty(t, candidates)
	assert.Equal(t, 0, offset)
}
