// Copyright © 2024 The ELPS authors

// Package libinexact implements the (scheme inexact) library.
package libinexact

import (
	"math"
	"math/big"
	"math/cmplx"

	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
	"github.com/tessellate/schemer/scheme/schemelib/internal/libutil"
)

// DefaultLibraryName is the library name used by LoadLibrary.
const DefaultLibraryName = "(scheme inexact)"

// LoadLibrary registers (scheme inexact) with the runtime of env.
func LoadLibrary(env *scheme.Env) error {
	env.Runtime.Registry.Define(DefaultLibraryName, Exports())
	return nil
}

// Exports returns the bindings of (scheme inexact).
func Exports() *scheme.Exports {
	return libutil.Exports(builtins)
}

var builtins = []*scheme.Procedure{
	libutil.FunctionDoc("sqrt", scheme.Formals("z"), builtinSqrt,
		`Returns the principal square root of z.  The square root of an
		exact perfect square is exact; negative reals have complex roots.`),
	libutil.FunctionDoc("exp", scheme.Formals("z"), transcendental("exp", math.Exp, cmplx.Exp),
		`Returns e raised to the power z.`),
	libutil.FunctionDoc("log", scheme.Formals("z", ".", "base"), builtinLog,
		`Returns the natural logarithm of z, or its logarithm in base when
		a second argument is given.`),
	libutil.FunctionDoc("sin", scheme.Formals("z"), transcendental("sin", math.Sin, cmplx.Sin),
		`Returns the sine of z radians.`),
	libutil.FunctionDoc("cos", scheme.Formals("z"), transcendental("cos", math.Cos, cmplx.Cos),
		`Returns the cosine of z radians.`),
	libutil.FunctionDoc("tan", scheme.Formals("z"), transcendental("tan", math.Tan, cmplx.Tan),
		`Returns the tangent of z radians.`),
	libutil.FunctionDoc("asin", scheme.Formals("z"), boundedInverse("asin", math.Asin, cmplx.Asin),
		`Returns the arcsine of z in radians.`),
	libutil.FunctionDoc("acos", scheme.Formals("z"), boundedInverse("acos", math.Acos, cmplx.Acos),
		`Returns the arccosine of z in radians.`),
	libutil.FunctionDoc("atan", scheme.Formals("y", ".", "x"), builtinAtan,
		`Returns the arctangent of y in radians.  With two arguments returns
		the angle of the point (x, y), as atan2.`),
	libutil.FunctionDoc("finite?", scheme.Formals("z"), floatPredicate("finite?", true, func(f float64) bool {
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	}),
		`Returns #t if every part of z is finite.`),
	libutil.FunctionDoc("infinite?", scheme.Formals("z"), floatPredicate("infinite?", false, func(f float64) bool {
		return math.IsInf(f, 0)
	}),
		`Returns #t if any part of z is infinite.`),
	libutil.FunctionDoc("nan?", scheme.Formals("z"), floatPredicate("nan?", false, math.IsNaN),
		`Returns #t if any part of z is a NaN.`),
}

func isComplex(n num.Number) bool {
	return num.Normalize(n).Kind().IsComplex()
}

func transcendental(name string, fr func(float64) float64, fc func(complex128) complex128) scheme.Builtin {
	return func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		n, err := libutil.NumberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		if isComplex(n) {
			c, err := libutil.ComplexArg(name, args[0])
			if err != nil {
				return nil, err
			}
			return libutil.InexactResult(fc(c)), nil
		}
		f, err := libutil.RealArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return scheme.Float(fr(f)), nil
	}
}

// boundedInverse handles asin and acos, whose real results are defined only
// on [-1, 1].
func boundedInverse(name string, fr func(float64) float64, fc func(complex128) complex128) scheme.Builtin {
	return func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		n, err := libutil.NumberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		if !isComplex(n) {
			f, err := libutil.RealArg(name, args[0])
			if err != nil {
				return nil, err
			}
			if (f >= -1 && f <= 1) || math.IsNaN(f) {
				return scheme.Float(fr(f)), nil
			}
		}
		c, err := libutil.ComplexArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return libutil.InexactResult(fc(c)), nil
	}
}

func builtinSqrt(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	n, err := libutil.NumberArg("sqrt", args[0])
	if err != nil {
		return nil, err
	}
	if root, ok := exactSqrt(n); ok {
		return scheme.NewNumber(root), nil
	}
	if !isComplex(n) {
		f, err := libutil.RealArg("sqrt", args[0])
		if err != nil {
			return nil, err
		}
		if f >= 0 || math.IsNaN(f) {
			return scheme.Float(math.Sqrt(f)), nil
		}
	}
	c, err := libutil.ComplexArg("sqrt", args[0])
	if err != nil {
		return nil, err
	}
	return libutil.InexactResult(cmplx.Sqrt(c)), nil
}

// exactSqrt returns the exact root of a non-negative exact rational that is
// a perfect square.
func exactSqrt(n num.Number) (num.Number, bool) {
	if !n.IsExact() {
		return nil, false
	}
	var r *big.Rat
	switch x := num.Simplify(n).(type) {
	case num.Integer:
		r = new(big.Rat).SetInt(x.Big())
	case num.Rational:
		r = x.Rat()
	default:
		return nil, false
	}
	if r.Sign() < 0 {
		return nil, false
	}
	a, ok := intSqrt(r.Num())
	if !ok {
		return nil, false
	}
	b, ok := intSqrt(r.Denom())
	if !ok {
		return nil, false
	}
	return num.Simplify(num.RationalFromBig(new(big.Rat).SetFrac(a, b))), true
}

func intSqrt(x *big.Int) (*big.Int, bool) {
	s := new(big.Int).Sqrt(x)
	return s, new(big.Int).Mul(s, s).Cmp(x) == 0
}

func builtinLog(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	if len(args) > 2 {
		return nil, scheme.ArgumentCardinality("log", 1, 2, len(args))
	}
	z, err := logOf(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 2 {
		base, err := logOf(args[1])
		if err != nil {
			return nil, err
		}
		z /= base
	}
	return libutil.InexactResult(z), nil
}

func logOf(e scheme.Expression) (complex128, error) {
	n, err := libutil.NumberArg("log", e)
	if err != nil {
		return 0, err
	}
	if !isComplex(n) {
		f, err := libutil.RealArg("log", e)
		if err != nil {
			return 0, err
		}
		if f >= 0 || math.IsNaN(f) {
			return complex(math.Log(f), 0), nil
		}
	}
	c, err := libutil.ComplexArg("log", e)
	if err != nil {
		return 0, err
	}
	return cmplx.Log(c), nil
}

func builtinAtan(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	if len(args) > 2 {
		return nil, scheme.ArgumentCardinality("atan", 1, 2, len(args))
	}
	if len(args) == 1 {
		return transcendental("atan", math.Atan, cmplx.Atan)(env, args)
	}
	y, err := libutil.RealArg("atan", args[0])
	if err != nil {
		return nil, err
	}
	x, err := libutil.RealArg("atan", args[1])
	if err != nil {
		return nil, err
	}
	return scheme.Float(math.Atan2(y, x)), nil
}

// floatPredicate tests every part of a number.  Exact numbers are finite so
// they yield exact.
func floatPredicate(name string, exact bool, test func(float64) bool) scheme.Builtin {
	all := exact
	return func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		n, err := libutil.NumberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		if n.IsExact() {
			return scheme.Boolean(exact), nil
		}
		var parts []float64
		switch x := n.(type) {
		case num.InexactReal:
			parts = []float64{float64(x)}
		case num.InexactComplex:
			parts = []float64{real(x), imag(x)}
		}
		for _, f := range parts {
			if test(f) != all {
				return scheme.Boolean(!all), nil
			}
		}
		return scheme.Boolean(all), nil
	}
}
