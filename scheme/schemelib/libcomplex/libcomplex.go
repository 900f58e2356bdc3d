// Copyright © 2024 The ELPS authors

// Package libcomplex implements the (scheme complex) library.
package libcomplex

import (
	"math"
	"math/cmplx"

	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
	"github.com/tessellate/schemer/scheme/schemelib/internal/libutil"
)

// DefaultLibraryName is the library name used by LoadLibrary.
const DefaultLibraryName = "(scheme complex)"

// LoadLibrary registers (scheme complex) with the runtime of env.
func LoadLibrary(env *scheme.Env) error {
	env.Runtime.Registry.Define(DefaultLibraryName, Exports())
	return nil
}

// Exports returns the bindings of (scheme complex).
func Exports() *scheme.Exports {
	return libutil.Exports(builtins)
}

var builtins = []*scheme.Procedure{
	libutil.FunctionDoc("make-rectangular", scheme.Formals("x", "y"), builtinMakeRectangular,
		`Returns the complex number x+yi.  The result is exact when both
		parts are exact and have a finite decimal expansion.`),
	libutil.FunctionDoc("make-polar", scheme.Formals("magnitude", "angle"), builtinMakePolar,
		`Returns the complex number with the given magnitude and angle in
		radians.`),
	libutil.FunctionDoc("real-part", scheme.Formals("z"), builtinRealPart,
		`Returns the real part of z.`),
	libutil.FunctionDoc("imag-part", scheme.Formals("z"), builtinImagPart,
		`Returns the imaginary part of z.  The imaginary part of a real
		number is exact zero.`),
	libutil.FunctionDoc("magnitude", scheme.Formals("z"), builtinMagnitude,
		`Returns the absolute value of z.`),
	libutil.FunctionDoc("angle", scheme.Formals("z"), builtinAngle,
		`Returns the angle of z in radians, in the range (-pi, pi].`),
}

func realArg(name string, e scheme.Expression) (num.Number, error) {
	n, err := libutil.NumberArg(name, e)
	if err != nil {
		return nil, err
	}
	if !num.IsReal(n) {
		return nil, libutil.TypeError(name, "real number", e)
	}
	return n, nil
}

func builtinMakeRectangular(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	x, err := realArg("make-rectangular", args[0])
	if err != nil {
		return nil, err
	}
	y, err := realArg("make-rectangular", args[1])
	if err != nil {
		return nil, err
	}
	if x.IsExact() && y.IsExact() {
		re, rerr := num.Convert(x, num.KindRational)
		im, ierr := num.Convert(y, num.KindRational)
		if rerr == nil && ierr == nil {
			z := num.NewExactComplex(re.(num.Rational).Rat(), im.(num.Rational).Rat())
			return scheme.NewNumber(num.Normalize(z)), nil
		}
	}
	fx, err := libutil.RealArg("make-rectangular", args[0])
	if err != nil {
		return nil, err
	}
	fy, err := libutil.RealArg("make-rectangular", args[1])
	if err != nil {
		return nil, err
	}
	return libutil.InexactResult(complex(fx, fy)), nil
}

func builtinMakePolar(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	r, err := libutil.RealArg("make-polar", args[0])
	if err != nil {
		return nil, err
	}
	theta, err := libutil.RealArg("make-polar", args[1])
	if err != nil {
		return nil, err
	}
	return libutil.InexactResult(cmplx.Rect(r, theta)), nil
}

func builtinRealPart(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	n, err := libutil.NumberArg("real-part", args[0])
	if err != nil {
		return nil, err
	}
	switch z := n.(type) {
	case num.ExactComplex:
		return scheme.NewNumber(num.Simplify(z.Real())), nil
	case num.InexactComplex:
		return scheme.Float(real(z)), nil
	}
	return args[0], nil
}

func builtinImagPart(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	n, err := libutil.NumberArg("imag-part", args[0])
	if err != nil {
		return nil, err
	}
	switch z := n.(type) {
	case num.ExactComplex:
		return scheme.NewNumber(num.Simplify(z.Imag())), nil
	case num.InexactComplex:
		return scheme.Float(imag(z)), nil
	}
	return scheme.Int(0), nil
}

func builtinMagnitude(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	n, err := libutil.NumberArg("magnitude", args[0])
	if err != nil {
		return nil, err
	}
	n = num.Normalize(n)
	if !n.Kind().IsComplex() {
		abs, err := num.Abs(n)
		if err != nil {
			return nil, scheme.NumericError("magnitude", err)
		}
		return scheme.NewNumber(abs), nil
	}
	c, err := libutil.ComplexArg("magnitude", args[0])
	if err != nil {
		return nil, err
	}
	return scheme.Float(cmplx.Abs(c)), nil
}

func builtinAngle(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	n, err := libutil.NumberArg("angle", args[0])
	if err != nil {
		return nil, err
	}
	if num.IsReal(n) && n.IsExact() {
		if neg, _ := num.IsNegative(n); neg {
			return scheme.Float(math.Pi), nil
		}
		return scheme.Int(0), nil
	}
	c, err := libutil.ComplexArg("angle", args[0])
	if err != nil {
		return nil, err
	}
	return scheme.Float(cmplx.Phase(c)), nil
}
