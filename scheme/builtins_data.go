// Copyright © 2024 The ELPS authors

package scheme

import (
	"strings"
)

var dataBuiltins = []*langBuiltin{
	{"eq?", Formals("obj1", "obj2"), equivalence(Eq),
		`Returns #t if obj1 and obj2 are the same object.`},
	{"eqv?", Formals("obj1", "obj2"), equivalence(Eqv),
		`Returns #t if obj1 and obj2 are the same object or are numbers of
		the same exactness and value.`},
	{"equal?", Formals("obj1", "obj2"), equivalence(Equal),
		`Returns #t if obj1 and obj2 have the same structure and contents.`},
	{"not", Formals("obj"), builtinNot,
		`Returns #t if obj is #f and #f otherwise.`},
	{"boolean?", Formals("obj"), typePredicate(TypeBoolean),
		`Returns #t if obj is #t or #f.`},
	{"boolean=?", Formals("b1", "b2", VarArgMarker, "bs"), builtinBooleanEq,
		`Returns #t if all arguments are booleans and are the same.`},
	{"symbol?", Formals("obj"), typePredicate(TypeSymbol),
		`Returns #t if obj is a symbol.`},
	{"symbol->string", Formals("symbol"), builtinSymbolToString,
		`Returns the name of symbol as a string.`},
	{"string->symbol", Formals("string"), builtinStringToSymbol,
		`Returns the symbol whose name is string.`},
	{"char?", Formals("obj"), typePredicate(TypeCharacter),
		`Returns #t if obj is a character.`},
	{"vector", Formals(VarArgMarker, "obj"), builtinVector,
		`Returns a newly allocated vector of its arguments.`},
	{"vector?", Formals("obj"), typePredicate(TypeVector),
		`Returns #t if obj is a vector.`},
	{"vector-length", Formals("vector"), builtinVectorLength,
		`Returns the number of elements in vector.`},
	{"vector-ref", Formals("vector", "k"), builtinVectorRef,
		`Returns element k of vector.`},
	{"vector-set!", Formals("vector", "k", "obj"), builtinVectorSet,
		`Stores obj in element k of vector.`},
	{"make-vector", Formals("k", OptArgMarker, "fill"), builtinMakeVector,
		`Returns a newly allocated vector of k elements, each fill if it is
		given.`},
	{"vector->list", Formals("vector"), builtinVectorToList,
		`Returns a newly allocated list of the elements of vector.`},
	{"list->vector", Formals("list"), builtinListToVector,
		`Returns a newly allocated vector of the elements of list.`},
	{"bytevector", Formals(VarArgMarker, "byte"), builtinBytevector,
		`Returns a newly allocated bytevector of its arguments.`},
	{"bytevector?", Formals("obj"), typePredicate(TypeByteVector),
		`Returns #t if obj is a bytevector.`},
	{"bytevector-length", Formals("bytevector"), builtinBytevectorLength,
		`Returns the number of bytes in bytevector.`},
	{"bytevector-u8-ref", Formals("bytevector", "k"), builtinBytevectorRef,
		`Returns byte k of bytevector.`},
	{"string?", Formals("obj"), typePredicate(TypeString),
		`Returns #t if obj is a string.`},
	{"string-length", Formals("string"), builtinStringLength,
		`Returns the number of characters in string.`},
	{"string-ref", Formals("string", "k"), builtinStringRef,
		`Returns character k of string.`},
	{"string-append", Formals(VarArgMarker, "string"), builtinStringAppend,
		`Returns a string of the characters of its arguments in order.`},
	{"substring", Formals("string", "start", "end"), builtinSubstring,
		`Returns the characters of string from start up to but excluding
		end.`},
	{"string=?", Formals("string1", "string2", VarArgMarker, "strings"), stringCompare("string=?", func(c int) bool { return c == 0 }),
		`Returns #t if all strings are the same.`},
	{"string<?", Formals("string1", "string2", VarArgMarker, "strings"), stringCompare("string<?", func(c int) bool { return c < 0 }),
		`Returns #t if the strings are lexicographically increasing.`},
	{"string>?", Formals("string1", "string2", VarArgMarker, "strings"), stringCompare("string>?", func(c int) bool { return c > 0 }),
		`Returns #t if the strings are lexicographically decreasing.`},
	{"string->list", Formals("string"), builtinStringToList,
		`Returns a newly allocated list of the characters of string.`},
	{"list->string", Formals("list"), builtinListToString,
		`Returns a string of the characters in list.`},
	{"string-copy", Formals("string", VarArgMarker, "range"), builtinStringCopy,
		`Returns a copy of string, optionally limited to start and end
		indices.`},
}

func equivalence(eq func(a, b Datum) bool) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		return Boolean(eq(ToDatum(args[0]), ToDatum(args[1]))), nil
	}
}

func typePredicate(t Type) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		return Boolean(ToDatum(args[0]).Type() == t), nil
	}
}

func builtinNot(env *Env, args []Expression) (Expression, error) {
	return Boolean(IsFalse(args[0])), nil
}

func builtinBooleanEq(env *Env, args []Expression) (Expression, error) {
	first, ok := args[0].(Boolean)
	if !ok {
		return nil, UnexpectedType("boolean=?", "boolean", typeOf(args[0]))
	}
	result := true
	for _, a := range args[1:] {
		b, ok := a.(Boolean)
		if !ok {
			return nil, UnexpectedType("boolean=?", "boolean", typeOf(a))
		}
		result = result && b == first
	}
	return Boolean(result), nil
}

func builtinSymbolToString(env *Env, args []Expression) (Expression, error) {
	id, err := symbolArg("symbol->string", args[0])
	if err != nil {
		return nil, err
	}
	return String(id.Name()), nil
}

func builtinStringToSymbol(env *Env, args []Expression) (Expression, error) {
	s, err := stringArg("string->symbol", args[0])
	if err != nil {
		return nil, err
	}
	return IdentifierUnchecked(s), nil
}

func vectorArg(name string, e Expression) (Vector, error) {
	v, ok := e.(Vector)
	if !ok {
		return nil, UnexpectedType(name, "vector", typeOf(e))
	}
	return v, nil
}

func builtinVector(env *Env, args []Expression) (Expression, error) {
	return Vector(datums(args)), nil
}

func builtinVectorLength(env *Env, args []Expression) (Expression, error) {
	v, err := vectorArg("vector-length", args[0])
	if err != nil {
		return nil, err
	}
	return Int(int64(len(v))), nil
}

func vectorIndex(name string, args []Expression) (Vector, int, error) {
	v, err := vectorArg(name, args[0])
	if err != nil {
		return nil, 0, err
	}
	k, err := indexArg(name, args[1])
	if err != nil {
		return nil, 0, err
	}
	if k >= len(v) {
		return nil, 0, rangeError(name, k, len(v))
	}
	return v, k, nil
}

func builtinVectorRef(env *Env, args []Expression) (Expression, error) {
	v, k, err := vectorIndex("vector-ref", args)
	if err != nil {
		return nil, err
	}
	return ToExpression(v[k]), nil
}

func builtinVectorSet(env *Env, args []Expression) (Expression, error) {
	v, k, err := vectorIndex("vector-set!", args)
	if err != nil {
		return nil, err
	}
	v[k] = ToDatum(args[2])
	return Unspecified{}, nil
}

func builtinMakeVector(env *Env, args []Expression) (Expression, error) {
	k, err := indexArg("make-vector", args[0])
	if err != nil {
		return nil, err
	}
	var fill Datum = Unspecified{}
	if len(args) == 2 {
		fill = ToDatum(args[1])
	}
	v := make(Vector, k)
	for i := range v {
		v[i] = fill
	}
	return v, nil
}

func builtinVectorToList(env *Env, args []Expression) (Expression, error) {
	v, err := vectorArg("vector->list", args[0])
	if err != nil {
		return nil, err
	}
	return listValue(v), nil
}

func builtinListToVector(env *Env, args []Expression) (Expression, error) {
	items, err := listArg("list->vector", args[0])
	if err != nil {
		return nil, err
	}
	return Vector(items), nil
}

func byteArg(name string, e Expression) (byte, error) {
	k, err := indexArg(name, e)
	if err != nil {
		return 0, err
	}
	if k > 255 {
		return 0, &Error{Kind: KindValue, Name: name, Expected: "byte", Actual: e.String()}
	}
	return byte(k), nil
}

func builtinBytevector(env *Env, args []Expression) (Expression, error) {
	bs := make(ByteVector, len(args))
	for i, a := range args {
		b, err := byteArg("bytevector", a)
		if err != nil {
			return nil, err
		}
		bs[i] = b
	}
	return bs, nil
}

func bytevectorArg(name string, e Expression) (ByteVector, error) {
	bs, ok := e.(ByteVector)
	if !ok {
		return nil, UnexpectedType(name, "bytevector", typeOf(e))
	}
	return bs, nil
}

func builtinBytevectorLength(env *Env, args []Expression) (Expression, error) {
	bs, err := bytevectorArg("bytevector-length", args[0])
	if err != nil {
		return nil, err
	}
	return Int(int64(len(bs))), nil
}

func builtinBytevectorRef(env *Env, args []Expression) (Expression, error) {
	bs, err := bytevectorArg("bytevector-u8-ref", args[0])
	if err != nil {
		return nil, err
	}
	k, err := indexArg("bytevector-u8-ref", args[1])
	if err != nil {
		return nil, err
	}
	if k >= len(bs) {
		return nil, rangeError("bytevector-u8-ref", k, len(bs))
	}
	return Int(int64(bs[k])), nil
}

func builtinStringLength(env *Env, args []Expression) (Expression, error) {
	s, err := stringArg("string-length", args[0])
	if err != nil {
		return nil, err
	}
	return Int(int64(len([]rune(s)))), nil
}

func builtinStringRef(env *Env, args []Expression) (Expression, error) {
	s, err := stringArg("string-ref", args[0])
	if err != nil {
		return nil, err
	}
	k, err := indexArg("string-ref", args[1])
	if err != nil {
		return nil, err
	}
	rs := []rune(s)
	if k >= len(rs) {
		return nil, rangeError("string-ref", k, len(rs))
	}
	return Character(rs[k]), nil
}

func builtinStringAppend(env *Env, args []Expression) (Expression, error) {
	var b strings.Builder
	for _, a := range args {
		s, err := stringArg("string-append", a)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}
	return String(b.String()), nil
}

// runeRange returns the runes of s between optional start and end
// arguments.
func runeRange(name, s string, bounds []Expression) ([]rune, error) {
	rs := []rune(s)
	start, end := 0, len(rs)
	if len(bounds) > 2 {
		return nil, ArgumentCardinality(name, 1, 3, len(bounds)+1)
	}
	if len(bounds) > 0 {
		var err error
		if start, err = indexArg(name, bounds[0]); err != nil {
			return nil, err
		}
	}
	if len(bounds) > 1 {
		var err error
		if end, err = indexArg(name, bounds[1]); err != nil {
			return nil, err
		}
	}
	if end > len(rs) {
		return nil, rangeError(name, end, len(rs))
	}
	if start > end {
		return nil, rangeError(name, start, end)
	}
	return rs[start:end], nil
}

func builtinSubstring(env *Env, args []Expression) (Expression, error) {
	s, err := stringArg("substring", args[0])
	if err != nil {
		return nil, err
	}
	rs, err := runeRange("substring", s, args[1:])
	if err != nil {
		return nil, err
	}
	return String(string(rs)), nil
}

func builtinStringCopy(env *Env, args []Expression) (Expression, error) {
	s, err := stringArg("string-copy", args[0])
	if err != nil {
		return nil, err
	}
	rs, err := runeRange("string-copy", s, args[1:])
	if err != nil {
		return nil, err
	}
	return String(string(rs)), nil
}

func stringCompare(name string, ok func(int) bool) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		ss := make([]string, len(args))
		for i, a := range args {
			s, err := stringArg(name, a)
			if err != nil {
				return nil, err
			}
			ss[i] = s
		}
		for i := 1; i < len(ss); i++ {
			if !ok(strings.Compare(ss[i-1], ss[i])) {
				return Boolean(false), nil
			}
		}
		return Boolean(true), nil
	}
}

func builtinStringToList(env *Env, args []Expression) (Expression, error) {
	s, err := stringArg("string->list", args[0])
	if err != nil {
		return nil, err
	}
	var items []Datum
	for _, r := range s {
		items = append(items, Character(r))
	}
	return listValue(items), nil
}

func builtinListToString(env *Env, args []Expression) (Expression, error) {
	items, err := listArg("list->string", args[0])
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, d := range items {
		c, ok := d.(Character)
		if !ok {
			return nil, UnexpectedType("list->string", "list of characters", d.Type())
		}
		b.WriteRune(rune(c))
	}
	return String(b.String()), nil
}
