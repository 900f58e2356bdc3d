// Copyright © 2018 The ELPS authors

package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tessellate/schemer/scheme"
)

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "empty",
			label:    "",
			expected: "",
		},
		{
			name:     "normal",
			label:    "@trace{ Add-It }",
			expected: "Add-It",
		},
		{
			name:     "mutator",
			label:    "@trace{ user-add! }",
			expected: "user-add!",
		},
		{
			name:     "predicate",
			label:    "@trace { user-exists? }",
			expected: "user-exists?",
		},
		{
			name:     "spaces",
			label:    "@trace{Add  It}",
			expected: "Add_It",
		},
		{
			name:     "no label",
			label:    "@trace",
			expected: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := cleanLabel(tc.label)
			assert.Equal(t, tc.expected, actual, "cleanLabel(%s)", tc.label)
		})
	}
}

func TestDocSkipFilter(t *testing.T) {
	fn := func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) { return nil, nil }
	assert.True(t, docSkipFilter(scheme.NewBuiltin("a", scheme.Formals(), fn, "")))
	assert.True(t, docSkipFilter(scheme.NewBuiltin("b", scheme.Formals(), fn, "Plain.")))
	assert.False(t, docSkipFilter(scheme.NewBuiltin("c", scheme.Formals(), fn, "Traced. @trace")))
	assert.True(t, defaultSkipFilter(scheme.NewForm("d", scheme.Formals(), nil, "")))
}
