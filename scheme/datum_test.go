// Copyright © 2024 The ELPS authors

package scheme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/scheme"
)

func TestEquivalence(t *testing.T) {
	a := scheme.Cons(scheme.Int(1), scheme.Null{})
	b := scheme.Cons(scheme.Int(1), scheme.Null{})
	assert.True(t, scheme.Eq(a, a))
	assert.False(t, scheme.Eq(a, b))
	assert.True(t, scheme.Equal(a, b))

	assert.True(t, scheme.Eq(scheme.String("s"), scheme.String("s")))
	assert.True(t, scheme.Eq(scheme.Symbol("x"), scheme.Symbol("x")))
	assert.False(t, scheme.Eq(scheme.Symbol("x"), scheme.String("x")))
	assert.True(t, scheme.Eqv(scheme.Int(2), scheme.Int(2)))
	assert.False(t, scheme.Eqv(scheme.Int(2), scheme.Float(2)))

	v := scheme.Vector{scheme.Int(1)}
	assert.True(t, scheme.Eq(v, v))
	assert.False(t, scheme.Eq(v, scheme.Vector{scheme.Int(1)}))
	assert.True(t, scheme.Equal(v, scheme.Vector{scheme.Int(1)}))
	assert.True(t, scheme.Eq(scheme.Vector{}, scheme.Vector{}))
	assert.True(t, scheme.Equal(scheme.ByteVector{1, 2}, scheme.ByteVector{1, 2}))
}

func TestEqualCircular(t *testing.T) {
	a := scheme.Cons(scheme.Int(1), scheme.Null{})
	a.SetCdr(a)
	b := scheme.Cons(scheme.Int(1), scheme.Null{})
	b.SetCdr(b)
	assert.True(t, scheme.Equal(a, b))
	_, ok := scheme.Length(a)
	assert.False(t, ok)
	assert.False(t, scheme.IsProperList(a))
	assert.Equal(t, "(1 ...)", scheme.Repr(a, scheme.DisplayFlags{}))
}

func TestListHelpers(t *testing.T) {
	l := scheme.List(scheme.Int(1), scheme.Int(2), scheme.Int(3))
	n, ok := scheme.Length(l)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	items, ok := scheme.Slice(l)
	require.True(t, ok)
	assert.Len(t, items, 3)

	improper := scheme.ListTail(scheme.Int(3), scheme.Int(1), scheme.Int(2))
	_, ok = scheme.Slice(improper)
	assert.False(t, ok)
	head, tail := scheme.SplitImproper(improper)
	assert.Len(t, head, 2)
	assert.Equal(t, scheme.Int(3), tail)
	assert.True(t, scheme.IsNull(scheme.List()))

	cp := scheme.CopyList(l)
	assert.True(t, scheme.Equal(l, cp))
	assert.False(t, scheme.Eq(l, cp))
}

func TestDisplayFlags(t *testing.T) {
	d := scheme.List(scheme.Boolean(true), &scheme.Abbreviation{Kind: scheme.AbbrevQuote, Datum: scheme.Symbol("x")})
	assert.Equal(t, "(#t 'x)", scheme.Repr(d, scheme.DisplayFlags{}))
	assert.Equal(t, "(#true (quote x))", scheme.Repr(d, scheme.DisplayFlags{LongBooleans: true, LongQuotes: true}))
	q := scheme.Quotation{Datum: scheme.Symbol("y")}
	assert.Equal(t, "'y", scheme.ToReprString(q, scheme.DisplayFlags{}))
	assert.Equal(t, "(quote y)", scheme.ToReprString(q, scheme.DisplayFlags{LongQuotes: true}))
}

func TestReprAndDisplay(t *testing.T) {
	tests := []struct {
		d       scheme.Datum
		repr    string
		display string
	}{
		{scheme.String("a\"b\n"), `"a\"b\n"`, "a\"b\n"},
		{scheme.Character('a'), `#\a`, `a`},
		{scheme.Character(' '), `#\space`, ` `},
		{scheme.Character(0), `#\null`, "\x00"},
		{scheme.Symbol("hello world"), `|hello world|`, `hello world`},
		{scheme.Symbol("abc"), `abc`, `abc`},
		{scheme.ByteVector{1, 255}, `#u8(1 255)`, `#u8(1 255)`},
		{scheme.Vector{scheme.String("s"), scheme.Character('c')}, `#("s" #\c)`, `#(s c)`},
		{scheme.Null{}, `()`, `()`},
		{scheme.Unspecified{}, `#<unspecified>`, `#<unspecified>`},
		{scheme.LabelRef(2), `#2#`, `#2#`},
		{&scheme.Labeled{Label: 0, Datum: scheme.Int(1)}, `#0=1`, `#0=1`},
	}
	for _, test := range tests {
		assert.Equal(t, test.repr, scheme.Repr(test.d, scheme.DisplayFlags{}))
		assert.Equal(t, test.display, scheme.DisplayString(test.d, scheme.DisplayFlags{}))
	}
}

func TestDebugTree(t *testing.T) {
	d := scheme.List(scheme.Symbol("f"), scheme.Int(1), scheme.Vector{scheme.String("s")})
	assert.Equal(t, "list\n"+
		"  symbol f\n"+
		"  number:integer 1\n"+
		"  vector\n"+
		"    string \"s\"", scheme.DebugTree(d, 0))
}

func TestIdentifiers(t *testing.T) {
	for _, s := range []string{"abc", "list->vector", "+", "-", "...", "a.b", "<=?", "->x"} {
		_, err := scheme.NewIdentifier(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "1abc", "a b", "#foo", "(x"} {
		_, err := scheme.NewIdentifier(s)
		assert.Error(t, err, s)
	}
}

func TestExports(t *testing.T) {
	car := scheme.NewBuiltin("car", scheme.Formals("pair"), identity, "")
	cdr := scheme.NewBuiltin("cdr", scheme.Formals("pair"), identity, "")
	ex := scheme.ExportCallables(cdr, car)
	ex.Set(scheme.Symbol("pi"), scheme.Float(3.14))
	assert.Equal(t, 3, ex.Len())
	assert.Equal(t, []scheme.Identifier{scheme.Symbol("cdr"), scheme.Symbol("car"), scheme.Symbol("pi")}, ex.Names())
	assert.Equal(t, []scheme.Identifier{scheme.Symbol("car"), scheme.Symbol("cdr"), scheme.Symbol("pi")}, ex.SortedNames())

	only, err := ex.Only(scheme.Symbol("car"))
	require.NoError(t, err)
	assert.Equal(t, 1, only.Len())
	_, err = ex.Only(scheme.Symbol("nope"))
	assert.Error(t, err)

	except, err := ex.Except(scheme.Symbol("car"))
	require.NoError(t, err)
	assert.Equal(t, []scheme.Identifier{scheme.Symbol("cdr"), scheme.Symbol("pi")}, except.Names())

	renamed, err := ex.Rename(map[scheme.Identifier]scheme.Identifier{scheme.Symbol("car"): scheme.Symbol("first")})
	require.NoError(t, err)
	v, ok := renamed.Get(scheme.Symbol("first"))
	require.True(t, ok)
	assert.Equal(t, "(first pair)", v.(scheme.Callable).Signature())
	_, ok = renamed.Get(scheme.Symbol("car"))
	assert.False(t, ok)

	prefixed := ex.Prefix("l:")
	v, ok = prefixed.Get(scheme.Symbol("l:cdr"))
	require.True(t, ok)
	assert.Equal(t, "l:cdr", v.(scheme.Callable).ID().Name())
	_, ok = prefixed.Get(scheme.Symbol("l:pi"))
	assert.True(t, ok)

	// The receiver is unchanged by the import set operations.
	assert.Equal(t, 3, ex.Len())
	v, _ = ex.Get(scheme.Symbol("car"))
	assert.Equal(t, "car", v.(scheme.Callable).ID().Name())

	other := scheme.NewExports()
	other.Set(scheme.Symbol("pi"), scheme.Int(3))
	other.Set(scheme.Symbol("e"), scheme.Float(2.7))
	merged := ex.Merge(other)
	assert.Equal(t, 4, merged.Len())
	v, _ = merged.Get(scheme.Symbol("pi"))
	assert.Equal(t, "3", v.String())
}

func TestRegistry(t *testing.T) {
	reg := scheme.NewRegistry()
	reg.Define("(my lib)", scheme.NewExports())
	reg.Define("(a lib)", scheme.NewExports())
	assert.Equal(t, []string{"(a lib)", "(my lib)"}, reg.Names())
	_, err := reg.Lookup("(my lib)")
	assert.NoError(t, err)
	_, err = reg.Lookup("(other lib)")
	assert.Equal(t, "unknown library: (other lib)", err.Error())

	name, err := scheme.LibraryName(scheme.List(scheme.Symbol("srfi"), scheme.Int(1)))
	require.NoError(t, err)
	assert.Equal(t, "(srfi 1)", name)
	for _, bad := range []scheme.Datum{
		scheme.Null{},
		scheme.Symbol("scheme"),
		scheme.List(scheme.String("scheme")),
		scheme.List(scheme.Symbol("srfi"), scheme.Float(1)),
		scheme.ListTail(scheme.Symbol("b"), scheme.Symbol("a")),
	} {
		_, err := scheme.LibraryName(bad)
		assert.Error(t, err, scheme.Repr(bad, scheme.DisplayFlags{}))
	}
}
