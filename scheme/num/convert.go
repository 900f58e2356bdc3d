// Copyright © 2024 The ELPS authors

package num

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
	bigFive = big.NewInt(5)
	bigTen  = big.NewInt(10)
)

// ratToDecimal returns the decimal equal to r.  The second result is false
// when r has no terminating decimal expansion.
func ratToDecimal(r *big.Rat) (decimal.Decimal, bool) {
	if r.IsInt() {
		return decimal.NewFromBigInt(r.Num(), 0), true
	}
	den := new(big.Int).Set(r.Denom())
	var twos, fives int
	rem := new(big.Int)
	for {
		q, m := new(big.Int).QuoRem(den, bigTwo, rem)
		if m.Sign() != 0 {
			break
		}
		den = q
		twos++
	}
	for {
		q, m := new(big.Int).QuoRem(den, bigFive, rem)
		if m.Sign() != 0 {
			break
		}
		den = q
		fives++
	}
	if den.Cmp(bigOne) != 0 {
		return decimal.Decimal{}, false
	}
	places := twos
	if fives > places {
		places = fives
	}
	scale := new(big.Int).Exp(bigTen, big.NewInt(int64(places)), nil)
	scaled := new(big.Int).Mul(r.Num(), scale)
	scaled.Quo(scaled, r.Denom())
	return decimal.NewFromBigInt(scaled, -int32(places)), true
}

// floatToDecimal returns the decimal holding exactly the binary value of f.
// Every finite double has a terminating decimal expansion.
func floatToDecimal(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return ratToDecimal(new(big.Rat).SetFloat64(f))
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func bigToFloat(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}

func ratToFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

func floatToInteger(f float64, from Kind) (Integer, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Integer{}, castError(from, KindInteger)
	}
	if f != math.Trunc(f) {
		return Integer{}, truncationError(from, KindInteger)
	}
	x, _ := new(big.Float).SetFloat64(f).Int(nil)
	return Integer{x}, nil
}

func floatToRational(f float64, from Kind) (Rational, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rational{}, castError(from, KindRational)
	}
	return Rational{new(big.Rat).SetFloat64(f)}, nil
}

func floatToExactReal(f float64, from Kind) (ExactReal, error) {
	d, ok := floatToDecimal(f)
	if !ok {
		return ExactReal{}, castError(from, KindExactReal)
	}
	return ExactReal{d}, nil
}

func decimalToInteger(d decimal.Decimal, from Kind) (Integer, error) {
	if !d.IsInteger() {
		return Integer{}, truncationError(from, KindInteger)
	}
	return Integer{d.BigInt()}, nil
}

// Integer conversions.

func IntegerToRational(n Integer) (Rational, error) {
	return Rational{new(big.Rat).SetInt(n.get())}, nil
}

func IntegerToExactReal(n Integer) (ExactReal, error) {
	return ExactReal{decimal.NewFromBigInt(n.get(), 0)}, nil
}

func IntegerToInexactReal(n Integer) (InexactReal, error) {
	return InexactReal(bigToFloat(n.get())), nil
}

func IntegerToExactComplex(n Integer) (ExactComplex, error) {
	return ExactComplex{re: new(big.Rat).SetInt(n.get())}, nil
}

func IntegerToInexactComplex(n Integer) (InexactComplex, error) {
	return InexactComplex(complex(bigToFloat(n.get()), 0)), nil
}

// Rational conversions.

func RationalToInteger(n Rational) (Integer, error) {
	r := n.get()
	if !r.IsInt() {
		return Integer{}, truncationError(KindRational, KindInteger)
	}
	return Integer{new(big.Int).Set(r.Num())}, nil
}

func RationalToExactReal(n Rational) (ExactReal, error) {
	d, ok := ratToDecimal(n.get())
	if !ok {
		return ExactReal{}, truncationError(KindRational, KindExactReal)
	}
	return ExactReal{d}, nil
}

func RationalToInexactReal(n Rational) (InexactReal, error) {
	return InexactReal(ratToFloat(n.get())), nil
}

func RationalToExactComplex(n Rational) (ExactComplex, error) {
	return ExactComplex{re: new(big.Rat).Set(n.get())}, nil
}

func RationalToInexactComplex(n Rational) (InexactComplex, error) {
	return InexactComplex(complex(ratToFloat(n.get()), 0)), nil
}

// ExactReal conversions.

func ExactRealToInteger(n ExactReal) (Integer, error) {
	return decimalToInteger(n.v, KindExactReal)
}

func ExactRealToRational(n ExactReal) (Rational, error) {
	return Rational{n.v.Rat()}, nil
}

func ExactRealToInexactReal(n ExactReal) (InexactReal, error) {
	return InexactReal(decimalToFloat(n.v)), nil
}

func ExactRealToExactComplex(n ExactReal) (ExactComplex, error) {
	return ExactComplex{re: n.v.Rat()}, nil
}

func ExactRealToInexactComplex(n ExactReal) (InexactComplex, error) {
	return InexactComplex(complex(decimalToFloat(n.v), 0)), nil
}

// InexactReal conversions.

func InexactRealToInteger(n InexactReal) (Integer, error) {
	return floatToInteger(float64(n), KindInexactReal)
}

func InexactRealToRational(n InexactReal) (Rational, error) {
	return floatToRational(float64(n), KindInexactReal)
}

func InexactRealToExactReal(n InexactReal) (ExactReal, error) {
	return floatToExactReal(float64(n), KindInexactReal)
}

func InexactRealToExactComplex(n InexactReal) (ExactComplex, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ExactComplex{}, castError(KindInexactReal, KindExactComplex)
	}
	return ExactComplex{re: new(big.Rat).SetFloat64(f)}, nil
}

func InexactRealToInexactComplex(n InexactReal) (InexactComplex, error) {
	return InexactComplex(complex(float64(n), 0)), nil
}

// ExactComplex conversions.  A nonzero imaginary part cannot be represented
// by any real kind.

func ExactComplexToInteger(n ExactComplex) (Integer, error) {
	if n.imRat().Sign() != 0 || !n.reRat().IsInt() {
		return Integer{}, truncationError(KindExactComplex, KindInteger)
	}
	return Integer{new(big.Int).Set(n.reRat().Num())}, nil
}

func ExactComplexToRational(n ExactComplex) (Rational, error) {
	if n.imRat().Sign() != 0 {
		return Rational{}, truncationError(KindExactComplex, KindRational)
	}
	return Rational{new(big.Rat).Set(n.reRat())}, nil
}

func ExactComplexToExactReal(n ExactComplex) (ExactReal, error) {
	if n.imRat().Sign() != 0 {
		return ExactReal{}, truncationError(KindExactComplex, KindExactReal)
	}
	d, ok := ratToDecimal(n.reRat())
	if !ok {
		return ExactReal{}, truncationError(KindExactComplex, KindExactReal)
	}
	return ExactReal{d}, nil
}

func ExactComplexToInexactReal(n ExactComplex) (InexactReal, error) {
	if n.imRat().Sign() != 0 {
		return 0, truncationError(KindExactComplex, KindInexactReal)
	}
	return InexactReal(ratToFloat(n.reRat())), nil
}

func ExactComplexToInexactComplex(n ExactComplex) (InexactComplex, error) {
	return InexactComplex(complex(ratToFloat(n.reRat()), ratToFloat(n.imRat()))), nil
}

// InexactComplex conversions.

func InexactComplexToInteger(n InexactComplex) (Integer, error) {
	if imag(n) != 0 {
		return Integer{}, truncationError(KindInexactComplex, KindInteger)
	}
	return floatToInteger(real(n), KindInexactComplex)
}

func InexactComplexToRational(n InexactComplex) (Rational, error) {
	if imag(n) != 0 {
		return Rational{}, truncationError(KindInexactComplex, KindRational)
	}
	return floatToRational(real(n), KindInexactComplex)
}

func InexactComplexToExactReal(n InexactComplex) (ExactReal, error) {
	if imag(n) != 0 {
		return ExactReal{}, truncationError(KindInexactComplex, KindExactReal)
	}
	return floatToExactReal(real(n), KindInexactComplex)
}

func InexactComplexToInexactReal(n InexactComplex) (InexactReal, error) {
	if imag(n) != 0 {
		return 0, truncationError(KindInexactComplex, KindInexactReal)
	}
	return InexactReal(real(n)), nil
}

func InexactComplexToExactComplex(n InexactComplex) (ExactComplex, error) {
	re, im := real(n), imag(n)
	if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
		return ExactComplex{}, castError(KindInexactComplex, KindExactComplex)
	}
	return ExactComplex{new(big.Rat).SetFloat64(re), new(big.Rat).SetFloat64(im)}, nil
}

// Convert returns n in the representation of kind to.  Converting to the
// kind n already has returns n unchanged.
func Convert(n Number, to Kind) (Number, error) {
	if n.Kind() == to {
		return n, nil
	}
	switch n := n.(type) {
	case Integer:
		switch to {
		case KindRational:
			return wrap(IntegerToRational(n))
		case KindExactReal:
			return wrap(IntegerToExactReal(n))
		case KindInexactReal:
			return wrap(IntegerToInexactReal(n))
		case KindExactComplex:
			return wrap(IntegerToExactComplex(n))
		case KindInexactComplex:
			return wrap(IntegerToInexactComplex(n))
		}
	case Rational:
		switch to {
		case KindInteger:
			return wrap(RationalToInteger(n))
		case KindExactReal:
			return wrap(RationalToExactReal(n))
		case KindInexactReal:
			return wrap(RationalToInexactReal(n))
		case KindExactComplex:
			return wrap(RationalToExactComplex(n))
		case KindInexactComplex:
			return wrap(RationalToInexactComplex(n))
		}
	case ExactReal:
		switch to {
		case KindInteger:
			return wrap(ExactRealToInteger(n))
		case KindRational:
			return wrap(ExactRealToRational(n))
		case KindInexactReal:
			return wrap(ExactRealToInexactReal(n))
		case KindExactComplex:
			return wrap(ExactRealToExactComplex(n))
		case KindInexactComplex:
			return wrap(ExactRealToInexactComplex(n))
		}
	case InexactReal:
		switch to {
		case KindInteger:
			return wrap(InexactRealToInteger(n))
		case KindRational:
			return wrap(InexactRealToRational(n))
		case KindExactReal:
			return wrap(InexactRealToExactReal(n))
		case KindExactComplex:
			return wrap(InexactRealToExactComplex(n))
		case KindInexactComplex:
			return wrap(InexactRealToInexactComplex(n))
		}
	case ExactComplex:
		switch to {
		case KindInteger:
			return wrap(ExactComplexToInteger(n))
		case KindRational:
			return wrap(ExactComplexToRational(n))
		case KindExactReal:
			return wrap(ExactComplexToExactReal(n))
		case KindInexactReal:
			return wrap(ExactComplexToInexactReal(n))
		case KindInexactComplex:
			return wrap(ExactComplexToInexactComplex(n))
		}
	case InexactComplex:
		switch to {
		case KindInteger:
			return wrap(InexactComplexToInteger(n))
		case KindRational:
			return wrap(InexactComplexToRational(n))
		case KindExactReal:
			return wrap(InexactComplexToExactReal(n))
		case KindInexactReal:
			return wrap(InexactComplexToInexactReal(n))
		case KindExactComplex:
			return wrap(InexactComplexToExactComplex(n))
		}
	}
	return nil, castError(n.Kind(), to)
}

func wrap(n Number, err error) (Number, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ToInexact implements exact->inexact.  Inexact values are returned
// unchanged; exact reals become InexactReal and ExactComplex becomes
// InexactComplex.
func ToInexact(n Number) (Number, error) {
	switch n.Kind() {
	case KindInexactReal, KindInexactComplex:
		return n, nil
	case KindExactComplex:
		return Convert(n, KindInexactComplex)
	default:
		return Convert(n, KindInexactReal)
	}
}

// ToExact implements inexact->exact.  Exact values are returned unchanged;
// InexactReal becomes ExactReal and InexactComplex becomes ExactComplex.
// The result is exactly the binary value of the input, so callers usually
// follow with Simplify.
func ToExact(n Number) (Number, error) {
	switch n.Kind() {
	case KindInexactReal:
		return Convert(n, KindExactReal)
	case KindInexactComplex:
		return Convert(n, KindExactComplex)
	default:
		return n, nil
	}
}
