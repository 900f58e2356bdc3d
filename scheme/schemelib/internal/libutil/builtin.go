// Copyright © 2018 The ELPS authors

package libutil

import (
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
)

func Function(name string, formals scheme.FormalSpec, fun scheme.Builtin) *scheme.Procedure {
	return scheme.NewBuiltin(name, formals, fun, "")
}

func FunctionDoc(name string, formals scheme.FormalSpec, fun scheme.Builtin, docs string) *scheme.Procedure {
	return scheme.NewBuiltin(name, formals, fun, docs)
}

// Exports binds each procedure in fns under its own name.
func Exports(fns []*scheme.Procedure) *scheme.Exports {
	ex := scheme.NewExports()
	for _, fn := range fns {
		ex.Set(fn.ID(), fn)
	}
	return ex
}

// TypeError is the error for an argument of the wrong type.
func TypeError(name, expected string, e scheme.Expression) error {
	return scheme.UnexpectedType(name, expected, scheme.ToDatum(e).Type())
}

func NumberArg(name string, e scheme.Expression) (num.Number, error) {
	n, ok := e.(scheme.Number)
	if !ok {
		return nil, TypeError(name, "number", e)
	}
	return n.Number, nil
}

// RealArg returns e as a float64.  Exact arguments are converted.
func RealArg(name string, e scheme.Expression) (float64, error) {
	n, err := NumberArg(name, e)
	if err != nil {
		return 0, err
	}
	if n.Kind().IsComplex() {
		n = num.Normalize(n)
		if n.Kind().IsComplex() {
			return 0, TypeError(name, "real number", e)
		}
	}
	f, err := num.Convert(n, num.KindInexactReal)
	if err != nil {
		return 0, scheme.NumericError(name, err)
	}
	return float64(f.(num.InexactReal)), nil
}

// ComplexArg returns e as a complex128.
func ComplexArg(name string, e scheme.Expression) (complex128, error) {
	n, err := NumberArg(name, e)
	if err != nil {
		return 0, err
	}
	c, err := num.Convert(n, num.KindInexactComplex)
	if err != nil {
		return 0, scheme.NumericError(name, err)
	}
	return complex128(c.(num.InexactComplex)), nil
}

// IntArg returns an exact integer argument that fits an int.
func IntArg(name string, e scheme.Expression) (int, error) {
	n, err := NumberArg(name, e)
	if err != nil {
		return 0, err
	}
	i, ok := n.(num.Integer)
	if !ok {
		return 0, TypeError(name, "exact integer", e)
	}
	x, ok := i.Int()
	if !ok {
		return 0, TypeError(name, "fixnum", e)
	}
	return x, nil
}

func CharArg(name string, e scheme.Expression) (rune, error) {
	c, ok := e.(scheme.Character)
	if !ok {
		return 0, TypeError(name, "char", e)
	}
	return rune(c), nil
}

func StringArg(name string, e scheme.Expression) (string, error) {
	s, ok := e.(scheme.String)
	if !ok {
		return "", TypeError(name, "string", e)
	}
	return string(s), nil
}

func PairArg(name string, e scheme.Expression) (*scheme.Pair, error) {
	p, ok := scheme.ToDatum(e).(*scheme.Pair)
	if !ok {
		return nil, TypeError(name, "pair", e)
	}
	return p, nil
}

func SymbolArg(name string, e scheme.Expression) (scheme.Identifier, error) {
	id, ok := scheme.ToDatum(e).(scheme.Identifier)
	if !ok {
		return scheme.Identifier{}, TypeError(name, "symbol", e)
	}
	return id, nil
}

// InexactResult normalizes a computed complex value, dropping a zero
// imaginary part.
func InexactResult(c complex128) scheme.Expression {
	return scheme.NewNumber(num.Normalize(num.InexactComplex(c)))
}
