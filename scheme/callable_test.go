// Copyright © 2024 The ELPS authors

package scheme_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/scheme"
)

func identity(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	return scheme.ToExpression(scheme.List(scheme.ToDatum(args[0]))), nil
}

func TestFormals(t *testing.T) {
	formals := scheme.Formals("a", "b")
	assert.Equal(t, []scheme.Identifier{scheme.Symbol("a"), scheme.Symbol("b")}, formals.Required)
	assert.False(t, formals.HasRest)

	formals = scheme.Formals("a", scheme.VarArgMarker, "rest")
	assert.Equal(t, []scheme.Identifier{scheme.Symbol("a")}, formals.Required)
	assert.True(t, formals.HasRest)
	assert.Equal(t, scheme.Symbol("rest"), formals.Rest)

	formals = scheme.Formals(scheme.VarArgMarker, "args")
	assert.Empty(t, formals.Required)
	assert.True(t, formals.HasRest)

	formals = scheme.Formals("a", scheme.OptArgMarker, "b", "c")
	assert.Equal(t, []scheme.Identifier{scheme.Symbol("a")}, formals.Required)
	assert.Equal(t, []scheme.Identifier{scheme.Symbol("b"), scheme.Symbol("c")}, formals.Optional)
	assert.False(t, formals.HasRest)
}

func TestOptionalArity(t *testing.T) {
	env := scheme.NewTopLevel(scheme.StandardRuntime())
	p := scheme.NewBuiltin("opt", scheme.Formals("a", scheme.OptArgMarker, "b"), identity, "")
	assert.Equal(t, 1, p.MinArgs())
	max, ok := p.MaxArgs()
	assert.True(t, ok)
	assert.Equal(t, 2, max)
	assert.Equal(t, "(opt a [b])", p.Signature())

	_, err := p.Call(env, []scheme.Expression{scheme.Int(1)})
	assert.NoError(t, err)
	_, err = p.Call(env, []scheme.Expression{scheme.Int(1), scheme.Int(2)})
	assert.NoError(t, err)
	_, err = p.Call(env, []scheme.Expression{scheme.Int(1), scheme.Int(2), scheme.Int(3)})
	require.Error(t, err)
	assert.Equal(t, "opt: expected between 1 and 2 arguments (got 3)", err.Error())
}

func TestProcedureArity(t *testing.T) {
	env := scheme.NewTopLevel(scheme.StandardRuntime())
	fixed := scheme.NewBuiltin("pair-up", scheme.Formals("a", "b"), identity, "")
	assert.Equal(t, 2, fixed.MinArgs())
	max, ok := fixed.MaxArgs()
	assert.True(t, ok)
	assert.Equal(t, 2, max)
	assert.Equal(t, "(pair-up a b)", fixed.Signature())

	one := []scheme.Expression{scheme.Int(1)}
	three := []scheme.Expression{scheme.Int(1), scheme.Int(2), scheme.Int(3)}
	_, err := fixed.Call(env, one)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scheme.ErrProcedureArgumentCardinality))
	assert.Equal(t, "pair-up: expected 2 arguments (got 1)", err.Error())
	_, err = fixed.Call(env, three)
	assert.Equal(t, "pair-up: expected 2 arguments (got 3)", err.Error())
	_, err = fixed.Call(env, three[:2])
	assert.NoError(t, err)

	variadic := scheme.NewBuiltin("gather", scheme.Formals("a", scheme.VarArgMarker, "rest"), identity, "")
	_, ok = variadic.MaxArgs()
	assert.False(t, ok)
	rest, ok := variadic.Variadic()
	assert.True(t, ok)
	assert.Equal(t, "rest", rest.Name())
	assert.Equal(t, "(gather a . rest)", variadic.Signature())
	_, err = variadic.Call(env, nil)
	assert.Equal(t, "gather: expected at least 1 arguments (got 0)", err.Error())
	for _, args := range [][]scheme.Expression{one, three} {
		_, err = variadic.Call(env, args)
		assert.NoError(t, err)
	}
	assert.Equal(t, 0, env.Runtime.Stack.Height())
}

func TestBuiltinArgumentsAreCanonical(t *testing.T) {
	env := scheme.NewTopLevel(scheme.StandardRuntime())
	var seen scheme.Expression
	p := scheme.NewBuiltin("peek", scheme.Formals("x"), func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		seen = args[0]
		return scheme.Unspecified{}, nil
	}, "")
	_, err := p.Call(env, []scheme.Expression{scheme.Quotation{Datum: scheme.Int(5)}})
	require.NoError(t, err)
	assert.Equal(t, scheme.Int(5), seen)

	list := scheme.Quotation{Datum: scheme.List(scheme.Int(1))}
	_, err = p.Call(env, []scheme.Expression{list})
	require.NoError(t, err)
	assert.Equal(t, list, seen)
}

func TestRename(t *testing.T) {
	p := scheme.NewBuiltin("old", scheme.Formals("x"), identity, "doc")
	r := p.Rename(scheme.Symbol("new"))
	assert.Equal(t, "(new x)", r.Signature())
	assert.Equal(t, "doc", r.Doc())
	assert.Equal(t, "old", p.ID().Name())

	f := scheme.NewForm("old-form", scheme.Formals("x"), nil, "")
	assert.Equal(t, "#<form renamed>", f.Rename(scheme.Symbol("renamed")).String())
}

func TestApply(t *testing.T) {
	env := newEnv(t)
	plus, ok := env.Get(scheme.Symbol("+"))
	require.True(t, ok)
	v, err := scheme.Apply(env, plus, []scheme.Expression{scheme.Int(1), scheme.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())

	// Forms receive their arguments as quoted data.
	quote, ok := env.Get(scheme.Symbol("quote"))
	require.True(t, ok)
	v, err = scheme.Apply(env, quote, []scheme.Expression{scheme.Symbol("x")})
	require.NoError(t, err)
	assert.Equal(t, "''x", scheme.ToReprString(v, scheme.DisplayFlags{}))

	_, err = scheme.Apply(env, scheme.Int(1), nil)
	assert.True(t, errors.Is(err, scheme.ErrUnexpectedType))
}

func TestProcedureErrorStack(t *testing.T) {
	env := newEnv(t)
	_, err := env.LoadString("test", `
		(define (inner x) (car x))
		(define (outer x) (inner x))
		(outer 1)`)
	require.Error(t, err)
	var serr *scheme.Error
	require.True(t, errors.As(err, &serr))
	require.NotNil(t, serr.Stack)
	names := make([]string, len(serr.Stack.Frames))
	for i, f := range serr.Stack.Frames {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"outer", "inner", "car"}, names)
	assert.Equal(t, 0, env.Runtime.Stack.Height())
}

func TestProcedurePredicate(t *testing.T) {
	env := newEnv(t)
	tests := []struct {
		src  string
		want string
	}{
		{`(procedure? car)`, `#t`},
		{`(procedure? (lambda (x) x))`, `#t`},
		{`(procedure? if)`, `#f`},
		{`(procedure? 'car)`, `#f`},
		{`(apply + 1 2 '(3 4))`, `10`},
		{`(apply list '())`, `()`},
		{`(map + '(1 2 3) '(10 20))`, `'(11 22)`},
		{`(map (lambda (x) (* x x)) '(1 2 3))`, `'(1 4 9)`},
	}
	for _, test := range tests {
		v, err := env.Eval(read(t, test.src))
		if assert.NoError(t, err, test.src) {
			assert.Equal(t, test.want, scheme.ToReprString(v, scheme.DisplayFlags{}), test.src)
		}
	}
}
