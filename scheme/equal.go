// Copyright © 2024 The ELPS authors

package scheme

import (
	"github.com/tessellate/schemer/scheme/num"
)

// Eq reports whether a and b are the same object.  Pairs, vectors,
// bytevectors and runtime values compare by identity.  Strings have no
// identity of their own and compare by content.
func Eq(a, b Datum) bool {
	switch a := a.(type) {
	case Number:
		return Eqv(a, b)
	case Vector:
		b, ok := b.(Vector)
		return ok && sameSlice(len(a), len(b), func() bool { return &a[0] == &b[0] })
	case ByteVector:
		b, ok := b.(ByteVector)
		return ok && sameSlice(len(a), len(b), func() bool { return &a[0] == &b[0] })
	case Boolean, Character, String, Identifier, Null, Unspecified, LabelRef:
		return a == b
	case *Pair:
		b, ok := b.(*Pair)
		return ok && a == b
	case *Procedure:
		b, ok := b.(*Procedure)
		return ok && a == b
	case *Form:
		b, ok := b.(*Form)
		return ok && a == b
	case *Env:
		b, ok := b.(*Env)
		return ok && a == b
	case *Abbreviation:
		b, ok := b.(*Abbreviation)
		return ok && a == b
	case *Labeled:
		b, ok := b.(*Labeled)
		return ok && a == b
	case *Opaque:
		b, ok := b.(*Opaque)
		return ok && a == b
	case ErrorObject:
		b, ok := b.(ErrorObject)
		return ok && a.Err == b.Err
	}
	return false
}

func sameSlice(na, nb int, samePtr func() bool) bool {
	if na != nb {
		return false
	}
	return na == 0 || samePtr()
}

// Eqv is Eq extended to numbers: two numbers are eqv when they have the same
// exactness and are numerically equal.
func Eqv(a, b Datum) bool {
	if an, ok := a.(Number); ok {
		bn, ok := b.(Number)
		return ok && an.IsExact() == bn.IsExact() && num.Equal(an.Number, bn.Number)
	}
	return Eq(a, b)
}

// Equal compares a and b structurally, descending into pairs, vectors,
// bytevectors and strings.  Circular structure terminates.
func Equal(a, b Datum) bool {
	return equal(a, b, make(map[[2]*Pair]bool))
}

func equal(a, b Datum, seen map[[2]*Pair]bool) bool {
	switch a := a.(type) {
	case *Pair:
		b, ok := b.(*Pair)
		if !ok {
			return false
		}
		key := [2]*Pair{a, b}
		if seen[key] {
			return true
		}
		seen[key] = true
		return equal(a.Car, b.Car, seen) && equal(a.Cdr, b.Cdr, seen)
	case Vector:
		b, ok := b.(Vector)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !equal(a[i], b[i], seen) {
				return false
			}
		}
		return true
	case ByteVector:
		b, ok := b.(ByteVector)
		return ok && string(a) == string(b)
	case *Abbreviation:
		b, ok := b.(*Abbreviation)
		return ok && a.Kind == b.Kind && equal(a.Datum, b.Datum, seen)
	}
	return Eqv(a, b)
}
