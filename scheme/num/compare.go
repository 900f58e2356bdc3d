// Copyright © 2024 The ELPS authors

package num

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Compare returns -1, 0 or 1 as a is less than, equal to or greater than b.
// Complex operands are not ordered, even with a zero imaginary part, and a
// NaN operand returns ErrUnordered.
func Compare(a, b Number) (int, error) {
	if a.Kind().IsComplex() {
		return 0, domainError("compare", a.Kind())
	}
	if b.Kind().IsComplex() {
		return 0, domainError("compare", b.Kind())
	}
	if isNaN(a) || isNaN(b) {
		return 0, &Error{Code: CodeUnordered}
	}
	// Infinities cannot be promoted to an exact kind so they are ordered
	// before promotion.
	if ia, ib := infSign(a), infSign(b); ia != 0 || ib != 0 {
		switch {
		case ia == ib:
			return 0, nil
		case ia < ib:
			return -1, nil
		default:
			return 1, nil
		}
	}
	// Mixed exact/inexact comparison is done exactly so that transitivity
	// holds.
	ra, err := toRat(a)
	if err != nil {
		return 0, err
	}
	rb, err := toRat(b)
	if err != nil {
		return 0, err
	}
	return ra.Cmp(rb), nil
}

func toRat(n Number) (*big.Rat, error) {
	r, err := Convert(n, KindRational)
	if err != nil {
		return nil, err
	}
	return r.(Rational).get(), nil
}

func isNaN(n Number) bool {
	switch n := n.(type) {
	case InexactReal:
		return math.IsNaN(float64(n))
	case InexactComplex:
		return math.IsNaN(real(n)) || math.IsNaN(imag(n))
	}
	return false
}

func infSign(n Number) int {
	if f, ok := n.(InexactReal); ok {
		switch {
		case math.IsInf(float64(f), 1):
			return 1
		case math.IsInf(float64(f), -1):
			return -1
		}
	}
	return 0
}

// Equal reports numeric equality across kinds.  Values that cannot be
// brought to a common kind are not equal.
func Equal(a, b Number) bool {
	pa, pb, err := Promote(a, b)
	if err != nil {
		return false
	}
	switch x := pa.(type) {
	case Integer:
		return x.get().Cmp(pb.(Integer).get()) == 0
	case Rational:
		return x.get().Cmp(pb.(Rational).get()) == 0
	case ExactReal:
		return x.v.Equal(pb.(ExactReal).v)
	case InexactReal:
		return x == pb.(InexactReal)
	case ExactComplex:
		y := pb.(ExactComplex)
		return x.reRat().Cmp(y.reRat()) == 0 && x.imRat().Cmp(y.imRat()) == 0
	case InexactComplex:
		return x == pb.(InexactComplex)
	}
	return false
}

// Sign returns the sign of a real number.  The second result is false for
// complex numbers and NaN.
func Sign(n Number) (int, bool) {
	switch n := n.(type) {
	case Integer:
		return n.get().Sign(), true
	case Rational:
		return n.get().Sign(), true
	case ExactReal:
		return n.v.Sign(), true
	case InexactReal:
		f := float64(n)
		switch {
		case math.IsNaN(f):
			return 0, false
		case f > 0:
			return 1, true
		case f < 0:
			return -1, true
		}
		return 0, true
	}
	return 0, false
}

// IsZero reports whether n is zero.
func IsZero(n Number) bool {
	switch n := n.(type) {
	case ExactComplex:
		return n.reRat().Sign() == 0 && n.imRat().Sign() == 0
	case InexactComplex:
		return n == 0
	}
	s, ok := Sign(n)
	return ok && s == 0
}

// IsPositive reports whether n is greater than zero.  The second result is
// false when n is not ordered.
func IsPositive(n Number) (bool, bool) {
	s, ok := Sign(n)
	return s > 0, ok
}

// IsNegative reports whether n is less than zero.  The second result is false
// when n is not ordered.
func IsNegative(n Number) (bool, bool) {
	s, ok := Sign(n)
	return s < 0, ok
}

// IsInteger reports whether n has an integral value, regardless of kind.
func IsInteger(n Number) bool {
	switch n := n.(type) {
	case Integer:
		return true
	case Rational:
		return n.get().IsInt()
	case ExactReal:
		return n.v.IsInteger()
	case InexactReal:
		f := float64(n)
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case ExactComplex:
		return n.imRat().Sign() == 0 && n.reRat().IsInt()
	case InexactComplex:
		return imag(n) == 0 && IsInteger(InexactReal(real(n)))
	}
	return false
}

// IsRational reports whether n is a finite real number.
func IsRational(n Number) bool {
	switch n := n.(type) {
	case InexactReal:
		f := float64(n)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case ExactComplex:
		return n.imRat().Sign() == 0
	case InexactComplex:
		return imag(n) == 0 && IsRational(InexactReal(real(n)))
	}
	return true
}

// IsReal reports whether n has a zero imaginary part.
func IsReal(n Number) bool {
	switch n := n.(type) {
	case ExactComplex:
		return n.imRat().Sign() == 0
	case InexactComplex:
		return imag(n) == 0
	}
	return true
}

// IsEven reports whether n is an even integer.  The second result is false
// when n is not integral.
func IsEven(n Number) (bool, bool) {
	if !IsInteger(n) {
		return false, false
	}
	switch n := n.(type) {
	case Integer:
		return n.get().Bit(0) == 0, true
	case InexactReal:
		return math.Mod(float64(n), 2) == 0, true
	case InexactComplex:
		return math.Mod(real(n), 2) == 0, true
	}
	i, err := Convert(n, KindInteger)
	if err != nil {
		return false, false
	}
	return i.(Integer).get().Bit(0) == 0, true
}

// IsOdd reports whether n is an odd integer.  The second result is false
// when n is not integral.
func IsOdd(n Number) (bool, bool) {
	even, ok := IsEven(n)
	return ok && !even, ok
}

// RoundMode selects how Round maps a real number onto an integral value.
type RoundMode uint8

// RoundMode constants.
const (
	RoundFloor RoundMode = iota
	RoundCeiling
	RoundTruncate
	// RoundEven rounds to the nearest integer, ties to even.
	RoundEven
)

var roundNames = []string{
	RoundFloor:    "floor",
	RoundCeiling:  "ceiling",
	RoundTruncate: "truncate",
	RoundEven:     "round",
}

func (m RoundMode) String() string {
	if int(m) >= len(roundNames) {
		return "round"
	}
	return roundNames[m]
}

// Round returns an integral value.  Rationals round to Integer; other kinds
// keep their representation.
func Round(n Number, mode RoundMode) (Number, error) {
	switch x := n.(type) {
	case Integer:
		return x, nil
	case Rational:
		return Integer{roundRat(x.get(), mode)}, nil
	case ExactReal:
		return ExactReal{decimal.NewFromBigInt(roundRat(x.v.Rat(), mode), 0)}, nil
	case InexactReal:
		f := float64(x)
		switch mode {
		case RoundFloor:
			return InexactReal(math.Floor(f)), nil
		case RoundCeiling:
			return InexactReal(math.Ceil(f)), nil
		case RoundTruncate:
			return InexactReal(math.Trunc(f)), nil
		default:
			return InexactReal(math.RoundToEven(f)), nil
		}
	}
	return nil, domainError(mode.String(), n.Kind())
}

func roundRat(r *big.Rat, mode RoundMode) *big.Int {
	num, den := r.Num(), r.Denom()
	// Euclidean division gives floor for a positive denominator.
	q, m := new(big.Int).DivMod(num, den, new(big.Int))
	if m.Sign() == 0 {
		return q
	}
	switch mode {
	case RoundFloor:
		return q
	case RoundCeiling:
		return q.Add(q, bigOne)
	case RoundTruncate:
		if num.Sign() < 0 {
			return q.Add(q, bigOne)
		}
		return q
	}
	twice := new(big.Int).Lsh(m, 1)
	switch twice.Cmp(den) {
	case 1:
		q.Add(q, bigOne)
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, bigOne)
		}
	}
	return q
}

// Abs returns the absolute value of a real number.
func Abs(n Number) (Number, error) {
	s, ok := Sign(n)
	if !ok {
		if f, isFloat := n.(InexactReal); isFloat {
			return f, nil
		}
		return nil, domainError("abs", n.Kind())
	}
	if s < 0 {
		return Neg(n), nil
	}
	return n, nil
}

// Numerator returns the numerator of n in lowest terms.  Inexact arguments
// give inexact results.
func Numerator(n Number) (Number, error) {
	return ratPart("numerator", n, func(r *big.Rat) *big.Int { return r.Num() })
}

// Denominator returns the positive denominator of n in lowest terms.
func Denominator(n Number) (Number, error) {
	return ratPart("denominator", n, func(r *big.Rat) *big.Int { return r.Denom() })
}

func ratPart(op string, n Number, part func(*big.Rat) *big.Int) (Number, error) {
	if !IsRational(n) {
		return nil, domainError(op, n.Kind())
	}
	r, err := toRat(n)
	if err != nil {
		return nil, err
	}
	res := Integer{new(big.Int).Set(part(r))}
	if n.IsExact() {
		return res, nil
	}
	return Convert(res, KindInexactReal)
}

// GCD returns the greatest common divisor of two integral numbers.  The
// result is exact only when both operands are exact.
func GCD(a, b Number) (Number, error) {
	ai, af, aExact, err := integral("gcd", a)
	if err != nil {
		return nil, err
	}
	bi, bf, bExact, err := integral("gcd", b)
	if err != nil {
		return nil, err
	}
	if aExact && bExact {
		return Integer{new(big.Int).GCD(nil, nil, new(big.Int).Abs(ai), new(big.Int).Abs(bi))}, nil
	}
	if aExact {
		af = bigToFloat(ai)
	}
	if bExact {
		bf = bigToFloat(bi)
	}
	x, y := math.Abs(af), math.Abs(bf)
	for y != 0 {
		x, y = y, math.Mod(x, y)
	}
	return InexactReal(x), nil
}
