// Copyright © 2024 The ELPS authors

package scheme

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tessellate/schemer/scheme/num"
)

// Identifier is a symbol.  Identifiers are comparable and may be used as map
// keys.
type Identifier struct {
	name string
}

// NewIdentifier returns the identifier named s.  An error is returned when s
// is not valid identifier syntax and would have to be written as |s|.
func NewIdentifier(s string) (Identifier, error) {
	if !IsValidIdentifier(s) {
		return Identifier{}, &Error{Kind: KindValue, Name: "identifier", Actual: s}
	}
	return Identifier{s}, nil
}

// IdentifierUnchecked returns the identifier named s without validating its
// syntax.  The reader uses it for |quoted| symbols.
func IdentifierUnchecked(s string) Identifier {
	return Identifier{s}
}

// Symbol is shorthand for IdentifierUnchecked.
func Symbol(s string) Identifier { return Identifier{s} }

// Name returns the identifier text.
func (id Identifier) Name() string { return id.name }

// Compare orders identifiers by name.
func (id Identifier) Compare(other Identifier) int {
	return strings.Compare(id.name, other.name)
}

func (Identifier) Type() Type { return TypeSymbol }

func (id Identifier) String() string {
	if IsValidIdentifier(id.name) {
		return id.name
	}
	return "|" + strings.NewReplacer(`\`, `\\`, "|", `\|`).Replace(id.name) + "|"
}

func (Identifier) datum()      {}
func (Identifier) expression() {}

// IsValidIdentifier reports whether s can be written as a symbol without
// vertical bars.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if s == "+" || s == "-" || s == "..." {
		return true
	}
	if num.IsNumber(s) {
		return false
	}
	r, size := utf8.DecodeRuneInString(s)
	rest := s[size:]
	switch {
	case isInitial(r):
		return allSubsequent(rest)
	case r == '+' || r == '-':
		r2, size2 := utf8.DecodeRuneInString(rest)
		if r2 == '.' {
			return isDotSubsequent(rest[size2:])
		}
		return isSignSubsequent(r2) && allSubsequent(rest[size2:])
	case r == '.':
		return isDotSubsequent(rest)
	}
	return false
}

func isDotSubsequent(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if r != '.' && !isSignSubsequent(r) {
		return false
	}
	return allSubsequent(s[size:])
}

func isInitial(r rune) bool {
	if r < utf8.RuneSelf {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || strings.ContainsRune("!$%&*/:<=>?^_~", r)
	}
	return unicode.IsLetter(r) || unicode.IsSymbol(r) || unicode.IsMark(r)
}

func isSignSubsequent(r rune) bool {
	return isInitial(r) || r == '+' || r == '-' || r == '@'
}

func isSubsequent(r rune) bool {
	return isInitial(r) || ('0' <= r && r <= '9') || r == '+' || r == '-' || r == '.' || r == '@' || unicode.IsDigit(r)
}

func allSubsequent(s string) bool {
	for _, r := range s {
		if !isSubsequent(r) {
			return false
		}
	}
	return true
}
