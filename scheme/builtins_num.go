// Copyright © 2024 The ELPS authors

package scheme

import (
	"strings"

	"github.com/tessellate/schemer/scheme/num"
)

var numericBuiltins = []*langBuiltin{
	{"+", Formals(VarArgMarker, "z"), builtinAdd,
		`Returns the sum of its arguments, 0 when there are none.  Operands
		are promoted to the most general kind among them.`},
	{"-", Formals("z", VarArgMarker, "zs"), builtinSub,
		`With one argument returns its negation.  Otherwise subtracts the
		remaining arguments from the first.`},
	{"*", Formals(VarArgMarker, "z"), builtinMul,
		`Returns the product of its arguments, 1 when there are none.`},
	{"/", Formals("z", VarArgMarker, "zs"), builtinDiv,
		`With one argument returns its reciprocal.  Otherwise divides the
		first argument by the rest.  Exact integer division that does not
		come out even produces a rational.`},
	{"=", Formals("z1", "z2", VarArgMarker, "zs"), builtinNumEq,
		`Returns #t if all arguments are numerically equal.`},
	{"<", Formals("x1", "x2", VarArgMarker, "xs"), compareBuiltin("<", func(c int) bool { return c < 0 }),
		`Returns #t if the arguments are strictly increasing.`},
	{">", Formals("x1", "x2", VarArgMarker, "xs"), compareBuiltin(">", func(c int) bool { return c > 0 }),
		`Returns #t if the arguments are strictly decreasing.`},
	{"<=", Formals("x1", "x2", VarArgMarker, "xs"), compareBuiltin("<=", func(c int) bool { return c <= 0 }),
		`Returns #t if the arguments are non-decreasing.`},
	{">=", Formals("x1", "x2", VarArgMarker, "xs"), compareBuiltin(">=", func(c int) bool { return c >= 0 }),
		`Returns #t if the arguments are non-increasing.`},
	{"quotient", Formals("n1", "n2"), binaryNumeric("quotient", num.Quotient),
		`Integer division truncating toward zero.`},
	{"remainder", Formals("n1", "n2"), binaryNumeric("remainder", num.Rem),
		`Remainder of truncating division, with the sign of n1.`},
	{"modulo", Formals("n1", "n2"), binaryNumeric("modulo", num.Modulo),
		`Remainder of flooring division, with the sign of n2.`},
	{"expt", Formals("z1", "z2"), binaryNumeric("expt", num.Expt),
		`Returns z1 raised to the power z2.  The result is exact when z1 is
		exact and z2 is an exact integer.`},
	{"abs", Formals("x"), unaryNumeric("abs", num.Abs),
		`Returns the absolute value of x.`},
	{"min", Formals("x", VarArgMarker, "xs"), extremumBuiltin("min", -1),
		`Returns the smallest argument.  The result is inexact if any
		argument is inexact.`},
	{"max", Formals("x", VarArgMarker, "xs"), extremumBuiltin("max", 1),
		`Returns the largest argument.  The result is inexact if any
		argument is inexact.`},
	{"gcd", Formals(VarArgMarker, "n"), builtinGCD,
		`Returns the greatest common divisor of its arguments, 0 when there
		are none.`},
	{"lcm", Formals(VarArgMarker, "n"), builtinLCM,
		`Returns the least common multiple of its arguments, 1 when there are
		none.`},
	{"exact", Formals("z"), unaryNumeric("exact", toExact),
		`Returns the exact number closest to z.`},
	{"inexact", Formals("z"), unaryNumeric("inexact", num.ToInexact),
		`Returns the inexact number closest to z.`},
	{"exact->inexact", Formals("z"), unaryNumeric("exact->inexact", num.ToInexact),
		`Alias for inexact.`},
	{"inexact->exact", Formals("z"), unaryNumeric("inexact->exact", toExact),
		`Alias for exact.`},
	{"exact?", Formals("z"), builtinIsExact,
		`Returns #t if z is an exact number.`},
	{"inexact?", Formals("z"), builtinIsInexact,
		`Returns #t if z is an inexact number.`},
	{"exact-integer?", Formals("obj"), numberPredicate(func(n num.Number) bool {
		return n.Kind() == num.KindInteger
	}),
		`Returns #t if obj is an exact integer.`},
	{"number?", Formals("obj"), numberPredicate(func(num.Number) bool { return true }),
		`Returns #t if obj is a number.`},
	{"complex?", Formals("obj"), numberPredicate(func(num.Number) bool { return true }),
		`Returns #t if obj is a number.  Every number is complex.`},
	{"real?", Formals("obj"), numberPredicate(num.IsReal),
		`Returns #t if obj is a real number.`},
	{"rational?", Formals("obj"), numberPredicate(num.IsRational),
		`Returns #t if obj is a rational number.  Infinities and NaN are
		not rational.`},
	{"integer?", Formals("obj"), numberPredicate(num.IsInteger),
		`Returns #t if obj is an integer, exact or not.`},
	{"zero?", Formals("z"), builtinIsZero,
		`Returns #t if z is zero.`},
	{"positive?", Formals("x"), signPredicate("positive?", num.IsPositive),
		`Returns #t if x is greater than zero.`},
	{"negative?", Formals("x"), signPredicate("negative?", num.IsNegative),
		`Returns #t if x is less than zero.`},
	{"odd?", Formals("n"), signPredicate("odd?", num.IsOdd),
		`Returns #t if the integer n is odd.`},
	{"even?", Formals("n"), signPredicate("even?", num.IsEven),
		`Returns #t if the integer n is even.`},
	{"number->string", Formals("z", VarArgMarker, "radix"), builtinNumberToString,
		`Returns the external representation of z.  Exact integers may be
		written in radix 2, 8, 10 or 16.`},
	{"string->number", Formals("string", VarArgMarker, "radix"), builtinStringToNumber,
		`Parses string as a number, returning #f if it is not one.`},
	{"numerator", Formals("q"), unaryNumeric("numerator", num.Numerator),
		`Returns the numerator of q in lowest terms.`},
	{"denominator", Formals("q"), unaryNumeric("denominator", num.Denominator),
		`Returns the denominator of q in lowest terms.`},
	{"floor", Formals("x"), roundBuiltin("floor", num.RoundFloor),
		`Returns the largest integer not greater than x.`},
	{"ceiling", Formals("x"), roundBuiltin("ceiling", num.RoundCeiling),
		`Returns the smallest integer not less than x.`},
	{"truncate", Formals("x"), roundBuiltin("truncate", num.RoundTruncate),
		`Returns the integer closest to x whose magnitude is not larger.`},
	{"round", Formals("x"), roundBuiltin("round", num.RoundEven),
		`Returns the integer closest to x, rounding halves to even.`},
	{"square", Formals("z"), builtinSquare,
		`Returns z multiplied by itself.`},
}

func numberResult(name string, n num.Number, err error) (Expression, error) {
	if err != nil {
		return nil, NumericError(name, err)
	}
	return NewNumber(n), nil
}

func toExact(n num.Number) (num.Number, error) {
	x, err := num.ToExact(n)
	if err != nil {
		return nil, err
	}
	return num.Simplify(x), nil
}

func fold(name string, args []Expression, init num.Number, op func(a, b num.Number) (num.Number, error)) (Expression, error) {
	ns, err := numberArgs(name, args)
	if err != nil {
		return nil, err
	}
	acc := init
	for _, n := range ns {
		if acc == nil {
			acc = n
			continue
		}
		acc, err = op(acc, n)
		if err != nil {
			return nil, NumericError(name, err)
		}
	}
	return NewNumber(acc), nil
}

func builtinAdd(env *Env, args []Expression) (Expression, error) {
	return fold("+", args, num.NewInteger(0), num.Add)
}

func builtinMul(env *Env, args []Expression) (Expression, error) {
	return fold("*", args, num.NewInteger(1), num.Mul)
}

func builtinSub(env *Env, args []Expression) (Expression, error) {
	if len(args) == 1 {
		n, err := numberArg("-", args[0])
		if err != nil {
			return nil, err
		}
		return NewNumber(num.Neg(n)), nil
	}
	return fold("-", args, nil, num.Sub)
}

func builtinDiv(env *Env, args []Expression) (Expression, error) {
	if len(args) == 1 {
		return fold("/", args, num.NewInteger(1), num.Div)
	}
	return fold("/", args, nil, num.Div)
}

func builtinNumEq(env *Env, args []Expression) (Expression, error) {
	ns, err := numberArgs("=", args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(ns); i++ {
		if !num.Equal(ns[i-1], ns[i]) {
			return Boolean(false), nil
		}
	}
	return Boolean(true), nil
}

func compareBuiltin(name string, ok func(int) bool) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		ns, err := numberArgs(name, args)
		if err != nil {
			return nil, err
		}
		result := true
		for i := 1; i < len(ns); i++ {
			c, err := num.Compare(ns[i-1], ns[i])
			if err != nil {
				if num.IsReal(ns[i-1]) && num.IsReal(ns[i]) {
					// NaN is unordered with everything.
					result = false
					continue
				}
				return nil, NumericError(name, err)
			}
			if !ok(c) {
				result = false
			}
		}
		return Boolean(result), nil
	}
}

func binaryNumeric(name string, op func(a, b num.Number) (num.Number, error)) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		ns, err := numberArgs(name, args)
		if err != nil {
			return nil, err
		}
		n, err := op(ns[0], ns[1])
		return numberResult(name, n, err)
	}
}

func unaryNumeric(name string, op func(num.Number) (num.Number, error)) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		n, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		n, err = op(n)
		return numberResult(name, n, err)
	}
}

func roundBuiltin(name string, mode num.RoundMode) Builtin {
	return unaryNumeric(name, func(n num.Number) (num.Number, error) {
		return num.Round(n, mode)
	})
}

func extremumBuiltin(name string, want int) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		ns, err := numberArgs(name, args)
		if err != nil {
			return nil, err
		}
		best := ns[0]
		inexact := !best.IsExact()
		for _, n := range ns[1:] {
			c, err := num.Compare(n, best)
			if err != nil {
				return nil, NumericError(name, err)
			}
			if c == want {
				best = n
			}
			inexact = inexact || !n.IsExact()
		}
		if inexact {
			best, err = num.ToInexact(best)
			if err != nil {
				return nil, NumericError(name, err)
			}
		}
		return NewNumber(best), nil
	}
}

func builtinGCD(env *Env, args []Expression) (Expression, error) {
	return fold("gcd", args, num.NewInteger(0), num.GCD)
}

func builtinLCM(env *Env, args []Expression) (Expression, error) {
	return fold("lcm", args, num.NewInteger(1), lcm)
}

func lcm(a, b num.Number) (num.Number, error) {
	if num.IsZero(a) || num.IsZero(b) {
		return num.Mul(a, b)
	}
	g, err := num.GCD(a, b)
	if err != nil {
		return nil, err
	}
	prod, err := num.Mul(a, b)
	if err != nil {
		return nil, err
	}
	prod, err = num.Abs(prod)
	if err != nil {
		return nil, err
	}
	return num.Quotient(prod, g)
}

func builtinIsExact(env *Env, args []Expression) (Expression, error) {
	n, err := numberArg("exact?", args[0])
	if err != nil {
		return nil, err
	}
	return Boolean(n.IsExact()), nil
}

func builtinIsInexact(env *Env, args []Expression) (Expression, error) {
	n, err := numberArg("inexact?", args[0])
	if err != nil {
		return nil, err
	}
	return Boolean(!n.IsExact()), nil
}

func numberPredicate(pred func(num.Number) bool) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		n, ok := args[0].(Number)
		return Boolean(ok && pred(n.Number)), nil
	}
}

func builtinIsZero(env *Env, args []Expression) (Expression, error) {
	n, err := numberArg("zero?", args[0])
	if err != nil {
		return nil, err
	}
	return Boolean(num.IsZero(n)), nil
}

func signPredicate(name string, pred func(num.Number) (bool, bool)) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		n, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		result, ok := pred(n)
		if !ok {
			return nil, UnexpectedType(name, "real number", TypeNumber)
		}
		return Boolean(result), nil
	}
}

var radixPrefixes = map[int]string{2: "#b", 8: "#o", 10: "", 16: "#x"}

func radixArg(name string, args []Expression) (int, error) {
	if len(args) < 2 {
		return 10, nil
	}
	if len(args) > 2 {
		return 0, ArgumentCardinality(name, 1, 2, len(args))
	}
	r, err := indexArg(name, args[1])
	if err != nil {
		return 0, err
	}
	if _, ok := radixPrefixes[r]; !ok {
		return 0, &Error{Kind: KindValue, Name: name, Expected: "radix 2, 8, 10 or 16", Actual: args[1].String()}
	}
	return r, nil
}

func builtinNumberToString(env *Env, args []Expression) (Expression, error) {
	n, err := numberArg("number->string", args[0])
	if err != nil {
		return nil, err
	}
	radix, err := radixArg("number->string", args)
	if err != nil {
		return nil, err
	}
	if radix == 10 {
		return String(n.String()), nil
	}
	i, ok := n.(num.Integer)
	if !ok {
		return nil, UnexpectedType("number->string", "exact integer", TypeNumber)
	}
	return String(i.Text(radix)), nil
}

func builtinStringToNumber(env *Env, args []Expression) (Expression, error) {
	s, err := stringArg("string->number", args[0])
	if err != nil {
		return nil, err
	}
	radix, err := radixArg("string->number", args)
	if err != nil {
		return nil, err
	}
	if radix != 10 && !strings.ContainsAny(s, "#") {
		s = radixPrefixes[radix] + s
	}
	n, err := num.Parse(s)
	if err != nil {
		return Boolean(false), nil
	}
	return NewNumber(num.Normalize(n)), nil
}

func builtinSquare(env *Env, args []Expression) (Expression, error) {
	n, err := numberArg("square", args[0])
	if err != nil {
		return nil, err
	}
	sq, err := num.Mul(n, n)
	return numberResult("square", sq, err)
}
