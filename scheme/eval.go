// Copyright © 2018 The ELPS authors

package scheme

import (
	"strconv"
)

// EvalDatum evaluates d in env.
//
// Symbols are looked up in env.  Literals evaluate to themselves; vector
// contents are not evaluated.  Abbreviations dispatch to the form bound to
// quote, quasiquote, unquote or unquote-splicing.  A list whose head names a
// form calls the form with the unevaluated operands; a list whose head is a
// procedure evaluates the operands left to right and applies the procedure.
func EvalDatum(d Datum, env *Env) (Expression, error) {
	if err := env.Runtime.step(); err != nil {
		return nil, err
	}
	switch d := d.(type) {
	case Identifier:
		v, ok := env.Get(d)
		if !ok {
			return nil, UnboundVariable(d)
		}
		return v, nil
	case Boolean, Number, Character, String, ByteVector, Vector, Null:
		return d.(Expression), nil
	case *Abbreviation:
		form, err := abbreviationForm(env, d.Kind)
		if err != nil {
			return nil, err
		}
		return form.Call(env, []Datum{d.Datum})
	case *Pair:
		return evalList(d, env)
	case *Labeled:
		return nil, &Error{Kind: KindUnsupportedDatum, Name: "#" + strconv.Itoa(d.Label) + "="}
	case LabelRef:
		return nil, &Error{Kind: KindUnsupportedDatum, Name: d.String()}
	case Expression:
		// Procedures, forms and other runtime values embedded in data.
		return d, nil
	}
	return nil, &Error{Kind: KindUnsupportedDatum, Name: d.Type().String()}
}

// Eval evaluates d in env.
func (env *Env) Eval(d Datum) (Expression, error) {
	return EvalDatum(d, env)
}

// EvalSequence evaluates body in order and returns the last result, or
// Unspecified for an empty body.
func (env *Env) EvalSequence(body []Datum) (Expression, error) {
	var result Expression = Unspecified{}
	for _, d := range body {
		var err error
		result, err = EvalDatum(d, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// abbreviationForm resolves the form an abbreviation stands for.  The
// binding in env is used when it is a form so that rebinding quote affects
// 'x as well.  Otherwise the core form is used.
func abbreviationForm(env *Env, kind AbbreviationKind) (*Form, error) {
	id := Symbol(kind.FormName())
	if v, ok := env.Get(id); ok {
		if f, isForm := v.(*Form); isForm {
			return f, nil
		}
	}
	f, ok := coreForm(id)
	if !ok {
		return nil, UnboundVariable(id)
	}
	return f, nil
}

func evalList(p *Pair, env *Env) (Expression, error) {
	operands, ok := Slice(p.Cdr)
	if !ok {
		return nil, &Error{Kind: KindImproperList, Name: Repr(p.Car, DisplayFlags{})}
	}
	var head Expression
	switch car := p.Car.(type) {
	case Identifier:
		v, bound := env.Get(car)
		if !bound {
			return nil, UnboundVariable(car)
		}
		head = v
	case *Pair, *Abbreviation, *Procedure, *Form:
		v, err := EvalDatum(car, env)
		if err != nil {
			return nil, err
		}
		head = v
	default:
		return nil, UnexpectedType("", "procedure or form", car.Type())
	}
	switch fn := head.(type) {
	case *Form:
		return fn.Call(env, operands)
	case *Procedure:
		args, err := evalOperands(env, operands)
		if err != nil {
			return nil, err
		}
		return fn.Call(env, args)
	}
	name := ""
	if id, isID := p.Car.(Identifier); isID {
		name = id.Name()
	}
	return nil, UnexpectedType(name, "procedure or form", head.Type())
}

func evalOperands(env *Env, operands []Datum) ([]Expression, error) {
	args := make([]Expression, len(operands))
	for i, d := range operands {
		v, err := EvalDatum(d, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}
