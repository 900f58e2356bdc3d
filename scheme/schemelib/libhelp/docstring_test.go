// Copyright © 2021 The ELPS authors

package libhelp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDocstring(t *testing.T) {
	doc := `
		Prints documentation for the binding of name. Procedures and forms
		have their signature rendered.
		Other values have their type printed.
		`
	expect := "  Prints documentation for the binding of name. Procedures and forms\n" +
		"  have their signature rendered.\n" +
		"  Other values have their type printed."
	assert.Equal(t, expect, cleanDocstring(doc))
	assert.Equal(t, "", cleanDocstring("   \n\t"))
	assert.Equal(t, "  one line", cleanDocstring("one line"))
}

func TestDedentDoc(t *testing.T) {
	assert.Equal(t, "first\nsecond\n  third", dedentDoc("first\n\t\tsecond\n\t\t  third"))
	assert.Equal(t, "a\nb", dedentDoc("  a\nb"))
}
