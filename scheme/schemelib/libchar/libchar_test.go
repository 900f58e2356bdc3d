// Copyright © 2024 The ELPS authors

package libchar_test

import (
	"testing"

	"github.com/tessellate/schemer/schemetest"
)

func TestCharLibrary(t *testing.T) {
	tests := schemetest.TestSuite{
		{"not imported by default", schemetest.TestSequence{
			{`(char-upcase #\a)`, `unbound variable: char-upcase`, ``},
		}},
		{"conversions", schemetest.TestSequence{
			{`(import (scheme char))`, `#<unspecified>`, ``},
			{`(char->integer #\A)`, `65`, ``},
			{`(integer->char 955)`, `#\λ`, ``},
			{`(integer->char 55296)`, `invalid integer->char: "55296"`, ``},
			{`(char->integer "A")`, `char->integer: expected char but got string`, ``},
			{`(char-upcase #\a)`, `#\A`, ``},
			{`(char-downcase #\A)`, `#\a`, ``},
			{`(char-foldcase #\Z)`, `#\z`, ``},
			{`(char-upcase #\1)`, `#\1`, ``},
		}},
		{"predicates", schemetest.TestSequence{
			{`(import (scheme char))`, `#<unspecified>`, ``},
			{`(char-alphabetic? #\a)`, `#t`, ``},
			{`(char-alphabetic? #\1)`, `#f`, ``},
			{`(char-numeric? #\7)`, `#t`, ``},
			{`(char-whitespace? #\space)`, `#t`, ``},
			{`(char-whitespace? #\x)`, `#f`, ``},
			{`(char-upper-case? #\Q)`, `#t`, ``},
			{`(char-lower-case? #\Q)`, `#f`, ``},
			{`(char? #\a)`, `#t`, ``},
			{`(char? "a")`, `#f`, ``},
		}},
		{"digit-value", schemetest.TestSequence{
			{`(import (only (scheme char) digit-value))`, `#<unspecified>`, ``},
			{`(digit-value #\3)`, `3`, ``},
			{`(digit-value #\0)`, `0`, ``},
			{`(digit-value #\9)`, `9`, ``},
			{`(digit-value #\x0664)`, `4`, ``},
			{`(digit-value #\a)`, `#f`, ``},
		}},
		{"comparison", schemetest.TestSequence{
			{`(import (scheme char))`, `#<unspecified>`, ``},
			{`(char=? #\a #\a #\a)`, `#t`, ``},
			{`(char<? #\a #\b #\c)`, `#t`, ``},
			{`(char<? #\a #\c #\b)`, `#f`, ``},
			{`(char>=? #\c #\c #\a)`, `#t`, ``},
			{`(char-ci=? #\a #\A)`, `#t`, ``},
			{`(char=? #\a)`, `char=?: expected at least 2 arguments (got 1)`, ``},
		}},
		{"strings", schemetest.TestSequence{
			{`(import (prefix (scheme char) c:))`, `#<unspecified>`, ``},
			{`(c:string-upcase "Hello")`, `"HELLO"`, ``},
			{`(c:string-downcase "Hello")`, `"hello"`, ``},
			{`(c:string-foldcase "ABC")`, `"abc"`, ``},
			{`(c:string-ci=? "abc" "ABC" "aBc")`, `#t`, ``},
			{`(c:string-ci=? "abc" "abd")`, `#f`, ``},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}
