// Copyright © 2024 The ELPS authors

package num

import (
	"math"
	"math/big"
	"math/cmplx"

	"github.com/shopspring/decimal"
)

// Promote converts a and b to the more general of their two kinds.  A
// Rational without a terminating decimal expansion paired with an ExactReal
// promotes both operands to Rational instead, since every ExactReal is a
// Rational but not the other way around.
func Promote(a, b Number) (Number, Number, error) {
	k := a.Kind()
	if b.Kind() > k {
		k = b.Kind()
	}
	if k == KindExactReal && (!representable(a) || !representable(b)) {
		k = KindRational
	}
	pa, err := Convert(a, k)
	if err != nil {
		return nil, nil, err
	}
	pb, err := Convert(b, k)
	if err != nil {
		return nil, nil, err
	}
	return pa, pb, nil
}

// representable reports whether an exact real n has a decimal expansion.
func representable(n Number) bool {
	if r, ok := n.(Rational); ok {
		_, ok = ratToDecimal(r.get())
		return ok
	}
	return true
}

// binop holds the per-kind implementations of a binary operation.  Both
// operands passed to an implementation have already been promoted to the same
// kind.
type binop struct {
	name           string
	integer        func(a, b *big.Int) (Number, error)
	rational       func(a, b *big.Rat) (Number, error)
	exactReal      func(a, b decimal.Decimal) (Number, error)
	inexactReal    func(a, b float64) (Number, error)
	exactComplex   func(a, b ExactComplex) (Number, error)
	inexactComplex func(a, b complex128) (Number, error)
}

func (op *binop) apply(a, b Number) (Number, error) {
	pa, pb, err := Promote(a, b)
	if err != nil {
		return nil, err
	}
	var fn func() (Number, error)
	switch x := pa.(type) {
	case Integer:
		if op.integer != nil {
			fn = func() (Number, error) { return op.integer(x.get(), pb.(Integer).get()) }
		}
	case Rational:
		if op.rational != nil {
			fn = func() (Number, error) { return op.rational(x.get(), pb.(Rational).get()) }
		}
	case ExactReal:
		if op.exactReal != nil {
			fn = func() (Number, error) { return op.exactReal(x.v, pb.(ExactReal).v) }
		}
	case InexactReal:
		if op.inexactReal != nil {
			fn = func() (Number, error) { return op.inexactReal(float64(x), float64(pb.(InexactReal))) }
		}
	case ExactComplex:
		if op.exactComplex != nil {
			fn = func() (Number, error) { return op.exactComplex(x, pb.(ExactComplex)) }
		}
	case InexactComplex:
		if op.inexactComplex != nil {
			fn = func() (Number, error) { return op.inexactComplex(complex128(x), complex128(pb.(InexactComplex))) }
		}
	}
	if fn == nil {
		return nil, domainError(op.name, pa.Kind())
	}
	return fn()
}

var addOp = &binop{
	name: "+",
	integer: func(a, b *big.Int) (Number, error) {
		return Integer{new(big.Int).Add(a, b)}, nil
	},
	rational: func(a, b *big.Rat) (Number, error) {
		return Rational{new(big.Rat).Add(a, b)}, nil
	},
	exactReal: func(a, b decimal.Decimal) (Number, error) {
		return ExactReal{a.Add(b)}, nil
	},
	inexactReal: func(a, b float64) (Number, error) {
		return InexactReal(a + b), nil
	},
	exactComplex: func(a, b ExactComplex) (Number, error) {
		return ExactComplex{
			re: new(big.Rat).Add(a.reRat(), b.reRat()),
			im: new(big.Rat).Add(a.imRat(), b.imRat()),
		}, nil
	},
	inexactComplex: func(a, b complex128) (Number, error) {
		return InexactComplex(a + b), nil
	},
}

var subOp = &binop{
	name: "-",
	integer: func(a, b *big.Int) (Number, error) {
		return Integer{new(big.Int).Sub(a, b)}, nil
	},
	rational: func(a, b *big.Rat) (Number, error) {
		return Rational{new(big.Rat).Sub(a, b)}, nil
	},
	exactReal: func(a, b decimal.Decimal) (Number, error) {
		return ExactReal{a.Sub(b)}, nil
	},
	inexactReal: func(a, b float64) (Number, error) {
		return InexactReal(a - b), nil
	},
	exactComplex: func(a, b ExactComplex) (Number, error) {
		return ExactComplex{
			re: new(big.Rat).Sub(a.reRat(), b.reRat()),
			im: new(big.Rat).Sub(a.imRat(), b.imRat()),
		}, nil
	},
	inexactComplex: func(a, b complex128) (Number, error) {
		return InexactComplex(a - b), nil
	},
}

var mulOp = &binop{
	name: "*",
	integer: func(a, b *big.Int) (Number, error) {
		return Integer{new(big.Int).Mul(a, b)}, nil
	},
	rational: func(a, b *big.Rat) (Number, error) {
		return Rational{new(big.Rat).Mul(a, b)}, nil
	},
	exactReal: func(a, b decimal.Decimal) (Number, error) {
		return ExactReal{a.Mul(b)}, nil
	},
	inexactReal: func(a, b float64) (Number, error) {
		return InexactReal(a * b), nil
	},
	exactComplex: func(a, b ExactComplex) (Number, error) {
		return mulExactComplex(a, b), nil
	},
	inexactComplex: func(a, b complex128) (Number, error) {
		return InexactComplex(a * b), nil
	},
}

var divOp = &binop{
	name: "/",
	integer: func(a, b *big.Int) (Number, error) {
		if b.Sign() == 0 {
			return nil, divisionByZero("/")
		}
		q, m := new(big.Int).QuoRem(a, b, new(big.Int))
		if m.Sign() == 0 {
			return Integer{q}, nil
		}
		// An inexact quotient of two integers is a ratio; Integer has no
		// other way to hold it.
		return Rational{new(big.Rat).SetFrac(a, b)}, nil
	},
	rational: func(a, b *big.Rat) (Number, error) {
		if b.Sign() == 0 {
			return nil, divisionByZero("/")
		}
		return Rational{new(big.Rat).Quo(a, b)}, nil
	},
	exactReal: func(a, b decimal.Decimal) (Number, error) {
		return divDecimal(a, b)
	},
	inexactReal: func(a, b float64) (Number, error) {
		return InexactReal(a / b), nil
	},
	exactComplex: func(a, b ExactComplex) (Number, error) {
		return divExactComplex(a, b)
	},
	inexactComplex: func(a, b complex128) (Number, error) {
		return InexactComplex(a / b), nil
	},
}

var remOp = &binop{
	name: "remainder",
	integer: func(a, b *big.Int) (Number, error) {
		if b.Sign() == 0 {
			return nil, divisionByZero("remainder")
		}
		return Integer{new(big.Int).Rem(a, b)}, nil
	},
	rational: func(a, b *big.Rat) (Number, error) {
		if b.Sign() == 0 {
			return nil, divisionByZero("remainder")
		}
		return Rational{remRat(a, b)}, nil
	},
	exactReal: func(a, b decimal.Decimal) (Number, error) {
		if b.IsZero() {
			return nil, divisionByZero("remainder")
		}
		d, ok := ratToDecimal(remRat(a.Rat(), b.Rat()))
		if !ok {
			return nil, truncationError(KindRational, KindExactReal)
		}
		return ExactReal{d}, nil
	},
	inexactReal: func(a, b float64) (Number, error) {
		return InexactReal(math.Mod(a, b)), nil
	},
}

// remRat returns a - b*truncate(a/b).
func remRat(a, b *big.Rat) *big.Rat {
	q := new(big.Rat).Quo(a, b)
	t := new(big.Int).Quo(q.Num(), q.Denom())
	prod := new(big.Rat).Mul(b, new(big.Rat).SetInt(t))
	return prod.Sub(a, prod)
}

// divDecimal returns a/b as an ExactReal when the quotient has a
// terminating decimal expansion and as the equivalent Rational otherwise.
func divDecimal(a, b decimal.Decimal) (Number, error) {
	if b.IsZero() {
		return nil, divisionByZero("/")
	}
	q := new(big.Rat).Quo(a.Rat(), b.Rat())
	if d, ok := ratToDecimal(q); ok {
		return ExactReal{d}, nil
	}
	return Rational{q}, nil
}

func mulExactComplex(a, b ExactComplex) ExactComplex {
	ar, ai, br, bi := a.reRat(), a.imRat(), b.reRat(), b.imRat()
	re := new(big.Rat).Sub(new(big.Rat).Mul(ar, br), new(big.Rat).Mul(ai, bi))
	im := new(big.Rat).Add(new(big.Rat).Mul(ar, bi), new(big.Rat).Mul(ai, br))
	return ExactComplex{re, im}
}

func divExactComplex(a, b ExactComplex) (Number, error) {
	ar, ai, br, bi := a.reRat(), a.imRat(), b.reRat(), b.imRat()
	den := new(big.Rat).Add(new(big.Rat).Mul(br, br), new(big.Rat).Mul(bi, bi))
	if den.Sign() == 0 {
		return nil, divisionByZero("/")
	}
	re := new(big.Rat).Add(new(big.Rat).Mul(ar, br), new(big.Rat).Mul(ai, bi))
	im := new(big.Rat).Sub(new(big.Rat).Mul(ai, br), new(big.Rat).Mul(ar, bi))
	return ExactComplex{re.Quo(re, den), im.Quo(im, den)}, nil
}

// Add returns a+b.
func Add(a, b Number) (Number, error) { return addOp.apply(a, b) }

// Sub returns a-b.
func Sub(a, b Number) (Number, error) { return subOp.apply(a, b) }

// Mul returns a*b.
func Mul(a, b Number) (Number, error) { return mulOp.apply(a, b) }

// Div returns a/b.  Exact division by zero is an error; inexact division
// follows IEEE-754.  Exact division is lossless: a quotient of two ExactReal
// values without a terminating decimal expansion is a Rational.
func Div(a, b Number) (Number, error) { return divOp.apply(a, b) }

// Rem returns the remainder of a/b truncated toward zero.  Rem is undefined
// for complex numbers.
func Rem(a, b Number) (Number, error) { return remOp.apply(a, b) }

// Neg returns -n in the representation of n.
func Neg(n Number) Number {
	switch n := n.(type) {
	case Integer:
		return Integer{new(big.Int).Neg(n.get())}
	case Rational:
		return Rational{new(big.Rat).Neg(n.get())}
	case ExactReal:
		return ExactReal{n.v.Neg()}
	case InexactReal:
		return -n
	case ExactComplex:
		return ExactComplex{new(big.Rat).Neg(n.reRat()), new(big.Rat).Neg(n.imRat())}
	case InexactComplex:
		return -n
	}
	panic("num: unknown number type")
}

// integral returns n as a big integer or a float when n has an integral
// value.  It is the shared operand check for quotient and modulo.
func integral(op string, n Number) (*big.Int, float64, bool, error) {
	switch n := n.(type) {
	case InexactReal:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, 0, false, domainError(op, n.Kind())
		}
		return nil, f, false, nil
	case InexactComplex:
		if imag(n) != 0 {
			return nil, 0, false, domainError(op, n.Kind())
		}
		return integral(op, InexactReal(real(n)))
	}
	i, err := Convert(n, KindInteger)
	if err != nil {
		return nil, 0, false, domainError(op, n.Kind())
	}
	return i.(Integer).get(), 0, true, nil
}

func integerDivision(op string, a, b Number, exact func(x, y *big.Int) *big.Int, inexact func(x, y float64) float64) (Number, error) {
	ai, af, aExact, err := integral(op, a)
	if err != nil {
		return nil, err
	}
	bi, bf, bExact, err := integral(op, b)
	if err != nil {
		return nil, err
	}
	if aExact && bExact {
		if bi.Sign() == 0 {
			return nil, divisionByZero(op)
		}
		return Integer{exact(ai, bi)}, nil
	}
	if aExact {
		af = bigToFloat(ai)
	}
	if bExact {
		bf = bigToFloat(bi)
	}
	return InexactReal(inexact(af, bf)), nil
}

// Quotient returns a/b truncated toward zero.  Both operands must be
// integral; the result is exact only when both operands are exact.
func Quotient(a, b Number) (Number, error) {
	return integerDivision("quotient", a, b,
		func(x, y *big.Int) *big.Int { return new(big.Int).Quo(x, y) },
		func(x, y float64) float64 { return math.Trunc(x / y) })
}

// Modulo returns a mod b with the sign of b.
func Modulo(a, b Number) (Number, error) {
	return integerDivision("modulo", a, b,
		func(x, y *big.Int) *big.Int {
			m := new(big.Int).Rem(x, y)
			if m.Sign() != 0 && (m.Sign() < 0) != (y.Sign() < 0) {
				m.Add(m, y)
			}
			return m
		},
		func(x, y float64) float64 {
			m := math.Mod(x, y)
			if m != 0 && (m < 0) != (y < 0) {
				m += y
			}
			return m
		})
}

// Expt returns base raised to the power exp.  Exact bases raised to exact
// integer powers stay exact; everything else is computed inexactly.
func Expt(base, exp Number) (Number, error) {
	if e, ok := exp.(Integer); ok && base.IsExact() && !base.Kind().IsComplex() {
		ev := e.get()
		r, err := Convert(base, KindRational)
		if err != nil {
			return nil, err
		}
		br := r.(Rational).get()
		if br.Sign() == 0 && ev.Sign() < 0 {
			return nil, divisionByZero("expt")
		}
		abs := new(big.Int).Abs(ev)
		num := new(big.Int).Exp(br.Num(), abs, nil)
		den := new(big.Int).Exp(br.Denom(), abs, nil)
		if ev.Sign() < 0 {
			num, den = den, num
		}
		res := new(big.Rat).SetFrac(num, den)
		if base.Kind() == KindInteger && res.IsInt() {
			return Integer{new(big.Int).Set(res.Num())}, nil
		}
		if base.Kind() == KindExactReal {
			if d, ok := ratToDecimal(res); ok {
				return ExactReal{d}, nil
			}
		}
		return Rational{res}, nil
	}
	if base.Kind().IsComplex() || exp.Kind().IsComplex() {
		bc, err := Convert(base, KindInexactComplex)
		if err != nil {
			return nil, err
		}
		ec, err := Convert(exp, KindInexactComplex)
		if err != nil {
			return nil, err
		}
		return InexactComplex(cmplx.Pow(complex128(bc.(InexactComplex)), complex128(ec.(InexactComplex)))), nil
	}
	bf, err := Convert(base, KindInexactReal)
	if err != nil {
		return nil, err
	}
	ef, err := Convert(exp, KindInexactReal)
	if err != nil {
		return nil, err
	}
	x, y := float64(bf.(InexactReal)), float64(ef.(InexactReal))
	if x < 0 && y != math.Trunc(y) {
		return InexactComplex(cmplx.Pow(complex(x, 0), complex(y, 0))), nil
	}
	return InexactReal(math.Pow(x, y)), nil
}

// Sum folds Add over ns starting from exact zero.
func Sum(ns ...Number) (Number, error) {
	var acc Number = NewInteger(0)
	for _, n := range ns {
		var err error
		acc, err = Add(acc, n)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Product folds Mul over ns starting from exact one.
func Product(ns ...Number) (Number, error) {
	var acc Number = NewInteger(1)
	for _, n := range ns {
		var err error
		acc, err = Mul(acc, n)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
