// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/tessellate/schemer/scheme"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// identifiers visible from the REPL environment.
type symbolCompleter struct {
	env *scheme.Env
}

// delimiters end the identifier being completed.
const delimiters = " \t\n()[]'`,\""

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !strings.ContainsRune(delimiters, line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}
	// Each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	var result []string
	for _, id := range c.env.VisibleNames() {
		if name := id.Name(); strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}
