// Copyright © 2024 The ELPS authors

// Package libchar implements the (scheme char) library.
package libchar

import (
	"strings"
	"unicode"

	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
	"github.com/tessellate/schemer/scheme/schemelib/internal/libutil"
)

// DefaultLibraryName is the library name used by LoadLibrary.
const DefaultLibraryName = "(scheme char)"

// LoadLibrary registers (scheme char) with the runtime of env.
func LoadLibrary(env *scheme.Env) error {
	env.Runtime.Registry.Define(DefaultLibraryName, Exports())
	return nil
}

// Exports returns the bindings of (scheme char).
func Exports() *scheme.Exports {
	return libutil.Exports(builtins)
}

var builtins = []*scheme.Procedure{
	libutil.FunctionDoc("char?", scheme.Formals("obj"), builtinIsChar,
		`Returns #t if obj is a character.`),
	libutil.FunctionDoc("char->integer", scheme.Formals("char"), builtinCharToInteger,
		`Returns the Unicode scalar value of char as an exact integer.`),
	libutil.FunctionDoc("integer->char", scheme.Formals("n"), builtinIntegerToChar,
		`Returns the character whose Unicode scalar value is n.  It is an
		error if n is a surrogate or outside the Unicode range.`),
	libutil.FunctionDoc("char-upcase", scheme.Formals("char"), charMapping("char-upcase", unicode.ToUpper),
		`Returns the uppercase form of char, or char itself when it has none.`),
	libutil.FunctionDoc("char-downcase", scheme.Formals("char"), charMapping("char-downcase", unicode.ToLower),
		`Returns the lowercase form of char, or char itself when it has none.`),
	libutil.FunctionDoc("char-foldcase", scheme.Formals("char"), charMapping("char-foldcase", foldRune),
		`Returns the simple case folding of char.`),
	libutil.FunctionDoc("char-alphabetic?", scheme.Formals("char"), charPredicate("char-alphabetic?", unicode.IsLetter),
		`Returns #t if char is a Unicode letter.`),
	libutil.FunctionDoc("char-numeric?", scheme.Formals("char"), charPredicate("char-numeric?", unicode.IsDigit),
		`Returns #t if char is a Unicode decimal digit.`),
	libutil.FunctionDoc("char-whitespace?", scheme.Formals("char"), charPredicate("char-whitespace?", unicode.IsSpace),
		`Returns #t if char is Unicode whitespace.`),
	libutil.FunctionDoc("char-upper-case?", scheme.Formals("char"), charPredicate("char-upper-case?", unicode.IsUpper),
		`Returns #t if char is an uppercase letter.`),
	libutil.FunctionDoc("char-lower-case?", scheme.Formals("char"), charPredicate("char-lower-case?", unicode.IsLower),
		`Returns #t if char is a lowercase letter.`),
	libutil.FunctionDoc("digit-value", scheme.Formals("char"), builtinDigitValue,
		`Returns the numeric value of char if it is a decimal digit, and #f
		otherwise.`),
	libutil.FunctionDoc("char=?", scheme.Formals("a", "b", ".", "rest"), charCompare("char=?", false, func(c int) bool { return c == 0 }),
		`Returns #t if all arguments are the same character.`),
	libutil.FunctionDoc("char<?", scheme.Formals("a", "b", ".", "rest"), charCompare("char<?", false, func(c int) bool { return c < 0 }),
		`Returns #t if the arguments are strictly increasing.`),
	libutil.FunctionDoc("char>?", scheme.Formals("a", "b", ".", "rest"), charCompare("char>?", false, func(c int) bool { return c > 0 }),
		`Returns #t if the arguments are strictly decreasing.`),
	libutil.FunctionDoc("char<=?", scheme.Formals("a", "b", ".", "rest"), charCompare("char<=?", false, func(c int) bool { return c <= 0 }),
		`Returns #t if the arguments are non-decreasing.`),
	libutil.FunctionDoc("char>=?", scheme.Formals("a", "b", ".", "rest"), charCompare("char>=?", false, func(c int) bool { return c >= 0 }),
		`Returns #t if the arguments are non-increasing.`),
	libutil.FunctionDoc("char-ci=?", scheme.Formals("a", "b", ".", "rest"), charCompare("char-ci=?", true, func(c int) bool { return c == 0 }),
		`Like char=? but ignores case.`),
	libutil.FunctionDoc("string-upcase", scheme.Formals("string"), stringMapping("string-upcase", strings.ToUpper),
		`Returns a copy of string with every character in uppercase.`),
	libutil.FunctionDoc("string-downcase", scheme.Formals("string"), stringMapping("string-downcase", strings.ToLower),
		`Returns a copy of string with every character in lowercase.`),
	libutil.FunctionDoc("string-foldcase", scheme.Formals("string"), stringMapping("string-foldcase", foldString),
		`Returns a copy of string with simple case folding applied.`),
	libutil.FunctionDoc("string-ci=?", scheme.Formals("a", "b", ".", "rest"), builtinStringCIEq,
		`Returns #t if the strings are equal after case folding.`),
}

func builtinIsChar(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	_, ok := args[0].(scheme.Character)
	return scheme.Boolean(ok), nil
}

func builtinCharToInteger(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	c, err := libutil.CharArg("char->integer", args[0])
	if err != nil {
		return nil, err
	}
	return scheme.Int(int64(c)), nil
}

func builtinIntegerToChar(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	n, err := libutil.IntArg("integer->char", args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > unicode.MaxRune || (n >= 0xD800 && n <= 0xDFFF) {
		return nil, &scheme.Error{Kind: scheme.KindValue, Name: "integer->char", Expected: "unicode scalar value", Actual: scheme.Int(int64(n)).String()}
	}
	return scheme.Character(rune(n)), nil
}

func builtinDigitValue(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	c, err := libutil.CharArg("digit-value", args[0])
	if err != nil {
		return nil, err
	}
	if !unicode.IsDigit(c) {
		return scheme.Boolean(false), nil
	}
	// Unicode decimal digits come in contiguous runs of ten, each starting
	// at a zero.
	start := c
	for start > 0 && unicode.IsDigit(start-1) {
		start--
	}
	return scheme.NewNumber(num.NewInteger(int64((c - start) % 10))), nil
}

func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}

func foldString(s string) string {
	return strings.Map(foldRune, s)
}

func charMapping(name string, fn func(rune) rune) scheme.Builtin {
	return func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		c, err := libutil.CharArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return scheme.Character(fn(c)), nil
	}
}

func charPredicate(name string, fn func(rune) bool) scheme.Builtin {
	return func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		c, err := libutil.CharArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return scheme.Boolean(fn(c)), nil
	}
}

func charCompare(name string, fold bool, ok func(int) bool) scheme.Builtin {
	return func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		cs := make([]rune, len(args))
		for i, a := range args {
			c, err := libutil.CharArg(name, a)
			if err != nil {
				return nil, err
			}
			if fold {
				c = foldRune(c)
			}
			cs[i] = c
		}
		for i := 1; i < len(cs); i++ {
			if !ok(int(cs[i-1]) - int(cs[i])) {
				return scheme.Boolean(false), nil
			}
		}
		return scheme.Boolean(true), nil
	}
}

func stringMapping(name string, fn func(string) string) scheme.Builtin {
	return func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		s, err := libutil.StringArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return scheme.String(fn(s)), nil
	}
}

func builtinStringCIEq(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	var first string
	for i, a := range args {
		s, err := libutil.StringArg("string-ci=?", a)
		if err != nil {
			return nil, err
		}
		s = foldString(s)
		if i == 0 {
			first = s
		} else if s != first {
			return scheme.Boolean(false), nil
		}
	}
	return scheme.Boolean(true), nil
}
