// Copyright © 2024 The ELPS authors

// Package num implements the Scheme numeric tower.  Six representations are
// ranked by generality:
//
//	Integer < Rational < ExactReal < InexactReal < ExactComplex < InexactComplex
//
// Binary operations promote both operands to the more general of their two
// kinds before computing and never demote the result.  Demotion is explicit,
// through Simplify.
package num

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the six numeric representations.  Kinds are ordered
// by generality so that the promotion target of two kinds is their maximum.
type Kind uint8

// Kind constants in promotion order.
const (
	KindInteger Kind = iota
	KindRational
	KindExactReal
	KindInexactReal
	KindExactComplex
	KindInexactComplex
	kindCount
)

var kindStrings = []string{
	KindInteger:        "integer",
	KindRational:       "rational",
	KindExactReal:      "exact-real",
	KindInexactReal:    "inexact-real",
	KindExactComplex:   "exact-complex",
	KindInexactComplex: "inexact-complex",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "invalid-number-kind"
	}
	return kindStrings[k]
}

// IsExact reports whether values of kind k are exact.
func (k Kind) IsExact() bool {
	return k != KindInexactReal && k != KindInexactComplex
}

// IsComplex reports whether k is one of the complex kinds.
func (k Kind) IsComplex() bool {
	return k == KindExactComplex || k == KindInexactComplex
}

// Number is a value in the numeric tower.  The set of implementations is
// closed; callers switch on the concrete type or on Kind.
type Number interface {
	Kind() Kind
	IsExact() bool
	String() string
	number()
}

// Integer is an exact integer of arbitrary size.  Integer values are
// immutable; the wrapped big.Int is never modified after construction.
type Integer struct {
	v *big.Int
}

// NewInteger returns the Integer x.
func NewInteger(x int64) Integer {
	return Integer{big.NewInt(x)}
}

// IntegerFromBig returns an Integer holding a copy of x.
func IntegerFromBig(x *big.Int) Integer {
	return Integer{new(big.Int).Set(x)}
}

func (n Integer) get() *big.Int {
	if n.v == nil {
		return new(big.Int)
	}
	return n.v
}

// Big returns a copy of the integer value.
func (n Integer) Big() *big.Int { return new(big.Int).Set(n.get()) }

// Int64 returns the value as an int64 and whether it fit.
func (n Integer) Int64() (int64, bool) {
	v := n.get()
	if !v.IsInt64() {
		return 0, false
	}
	return v.Int64(), true
}

// Int returns the value as an int and whether it fit.
func (n Integer) Int() (int, bool) {
	x, ok := n.Int64()
	if !ok || x > math.MaxInt || x < math.MinInt {
		return 0, false
	}
	return int(x), true
}

func (n Integer) Kind() Kind     { return KindInteger }
func (n Integer) IsExact() bool  { return true }
func (n Integer) String() string { return n.get().String() }

// Text renders the integer in the given base.
func (n Integer) Text(base int) string { return n.get().Text(base) }

func (Integer) number() {}

// Rational is an exact ratio of integers, always kept in lowest terms.
type Rational struct {
	v *big.Rat
}

// NewRational returns num/den.  NewRational panics if den is zero, like
// big.NewRat.
func NewRational(num, den int64) Rational {
	return Rational{big.NewRat(num, den)}
}

// RationalFromBig returns a Rational holding a copy of r.
func RationalFromBig(r *big.Rat) Rational {
	return Rational{new(big.Rat).Set(r)}
}

func (n Rational) get() *big.Rat {
	if n.v == nil {
		return new(big.Rat)
	}
	return n.v
}

// Rat returns a copy of the rational value.
func (n Rational) Rat() *big.Rat { return new(big.Rat).Set(n.get()) }

func (n Rational) Kind() Kind     { return KindRational }
func (n Rational) IsExact() bool  { return true }
func (n Rational) String() string { return n.get().RatString() }
func (Rational) number()          {}

// ExactReal is an exact decimal fixed-point number.
type ExactReal struct {
	v decimal.Decimal
}

// NewExactReal returns an ExactReal holding d.
func NewExactReal(d decimal.Decimal) ExactReal {
	return ExactReal{d}
}

// Decimal returns the decimal value.
func (n ExactReal) Decimal() decimal.Decimal { return n.v }

func (n ExactReal) Kind() Kind     { return KindExactReal }
func (n ExactReal) IsExact() bool  { return true }
func (n ExactReal) String() string { return n.v.String() }
func (ExactReal) number()          {}

// InexactReal is an IEEE-754 double.
type InexactReal float64

func (n InexactReal) Kind() Kind     { return KindInexactReal }
func (n InexactReal) IsExact() bool  { return false }
func (n InexactReal) String() string { return formatFloat(float64(n)) }
func (InexactReal) number()          {}

// ExactComplex is a complex number with exact rational parts.  The parts
// are never modified after construction.
type ExactComplex struct {
	re *big.Rat
	im *big.Rat
}

// NewExactComplex returns re+im*i.  The parts are copied.
func NewExactComplex(re, im *big.Rat) ExactComplex {
	return ExactComplex{new(big.Rat).Set(re), new(big.Rat).Set(im)}
}

// ExactComplexFromDecimal returns re+im*i.
func ExactComplexFromDecimal(re, im decimal.Decimal) ExactComplex {
	return ExactComplex{re.Rat(), im.Rat()}
}

func (n ExactComplex) reRat() *big.Rat {
	if n.re == nil {
		return new(big.Rat)
	}
	return n.re
}

func (n ExactComplex) imRat() *big.Rat {
	if n.im == nil {
		return new(big.Rat)
	}
	return n.im
}

// Real returns the real part.
func (n ExactComplex) Real() Rational { return RationalFromBig(n.reRat()) }

// Imag returns the imaginary part.
func (n ExactComplex) Imag() Rational { return RationalFromBig(n.imRat()) }

func (n ExactComplex) Kind() Kind    { return KindExactComplex }
func (n ExactComplex) IsExact() bool { return true }
func (n ExactComplex) String() string {
	return formatComplex(n.reRat().RatString(), n.imRat().RatString())
}
func (ExactComplex) number() {}

// InexactComplex is a complex number with IEEE-754 double parts.
type InexactComplex complex128

func (n InexactComplex) Kind() Kind    { return KindInexactComplex }
func (n InexactComplex) IsExact() bool { return false }
func (n InexactComplex) String() string {
	return formatComplex(formatFloat(real(n)), formatFloat(imag(n)))
}
func (InexactComplex) number() {}

func formatComplex(re, im string) string {
	if !strings.HasPrefix(im, "+") && !strings.HasPrefix(im, "-") {
		im = "+" + im
	}
	return re + im + "i"
}

// formatFloat renders f using Scheme conventions: integral values keep a
// trailing ".0" and non-finite values use the +inf.0 family of names.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "+nan.0"
	case math.IsInf(f, 1):
		return "+inf.0"
	case math.IsInf(f, -1):
		return "-inf.0"
	}
	format := byte('g')
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-7 && abs < 1e21) {
		format = 'f'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Kinds returns every kind in promotion order.
func Kinds() []Kind {
	return []Kind{KindInteger, KindRational, KindExactReal, KindInexactReal, KindExactComplex, KindInexactComplex}
}
