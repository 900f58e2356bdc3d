// Copyright © 2024 The ELPS authors

package num

import (
	"math"
	"math/big"
)

// Simplify returns the least general value that represents n exactly.  The
// result may cross the exactness boundary: InexactComplex 4+0i simplifies to
// Integer 4 and ExactReal 1.5 to Rational 3/2.  NaN and infinities have no
// exact representation and stay inexact.
func Simplify(n Number) Number {
	switch x := n.(type) {
	case Integer:
		return x
	case Rational:
		if x.get().IsInt() {
			return Integer{new(big.Int).Set(x.get().Num())}
		}
		return x
	case ExactReal:
		return simplifyRat(x.v.Rat())
	case InexactReal:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return x
		}
		return simplifyRat(new(big.Rat).SetFloat64(f))
	case ExactComplex:
		if x.imRat().Sign() != 0 {
			return x
		}
		return simplifyRat(new(big.Rat).Set(x.reRat()))
	case InexactComplex:
		if imag(x) != 0 {
			if c, err := InexactComplexToExactComplex(x); err == nil {
				return c
			}
			return x
		}
		return Simplify(InexactReal(real(x)))
	}
	return n
}

// simplifyRat picks Integer for integral values and Rational otherwise.  A
// Rational represents every terminating decimal exactly so ExactReal is
// never the least general choice.
func simplifyRat(r *big.Rat) Number {
	if r.IsInt() {
		return Integer{new(big.Int).Set(r.Num())}
	}
	return Rational{r}
}

// Normalize collapses n within its exactness class: exact values are
// simplified and inexact complex values with a zero imaginary part become
// InexactReal.  The reader applies Normalize to every numeric literal.
func Normalize(n Number) Number {
	if n.IsExact() {
		return Simplify(n)
	}
	if c, ok := n.(InexactComplex); ok && imag(c) == 0 {
		return InexactReal(real(c))
	}
	return n
}
