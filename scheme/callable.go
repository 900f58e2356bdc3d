// Copyright © 2024 The ELPS authors

package scheme

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// VarArgMarker separates required formals from the variadic formal in a
// call to Formals.
const VarArgMarker = "."

// OptArgMarker precedes optional formals in a call to Formals.
const OptArgMarker = "&optional"

// FormalSpec lists the parameters of a callable.
type FormalSpec struct {
	Required []Identifier
	Optional []Identifier
	// Rest is the variadic parameter.  It is only meaningful when HasRest is
	// true.
	Rest    Identifier
	HasRest bool
}

// Formals builds a FormalSpec from parameter names.  A VarArgMarker before
// the last name makes that name variadic.  Names following an OptArgMarker
// are optional.
//
//	Formals("a", "b")                // (f a b)
//	Formals("a", ".", "rest")        // (f a . rest)
//	Formals(".", "args")             // (f . args)
//	Formals("a", "&optional", "b")   // (f a [b])
func Formals(names ...string) FormalSpec {
	var spec FormalSpec
	optional := false
	for i := 0; i < len(names); i++ {
		switch {
		case names[i] == VarArgMarker && i == len(names)-2:
			spec.Rest = Symbol(names[i+1])
			spec.HasRest = true
			return spec
		case names[i] == OptArgMarker:
			optional = true
		case optional:
			spec.Optional = append(spec.Optional, Symbol(names[i]))
		default:
			spec.Required = append(spec.Required, Symbol(names[i]))
		}
	}
	return spec
}

// Callable is the contract shared by special forms and procedures.
type Callable interface {
	Expression
	Datum
	ID() Identifier
	// Rename returns a copy of the callable with a new identifier.
	Rename(id Identifier) Callable
	Formals() []Identifier
	Variadic() (Identifier, bool)
	MinArgs() int
	// MaxArgs returns the maximum argument count.  The second result is
	// false for variadic callables.
	MaxArgs() (int, bool)
	Signature() string
	Doc() string
}

type callableSpec struct {
	id      Identifier
	formals FormalSpec
	doc     string
}

func (c *callableSpec) ID() Identifier { return c.id }

func (c *callableSpec) Formals() []Identifier { return c.formals.Required }

func (c *callableSpec) Variadic() (Identifier, bool) {
	return c.formals.Rest, c.formals.HasRest
}

func (c *callableSpec) MinArgs() int { return len(c.formals.Required) }

func (c *callableSpec) MaxArgs() (int, bool) {
	if c.formals.HasRest {
		return 0, false
	}
	return len(c.formals.Required) + len(c.formals.Optional), true
}

func (c *callableSpec) Doc() string { return c.doc }

// Signature renders a prototype such as (name a [b] . rest).
func (c *callableSpec) Signature() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(c.id.String())
	for _, f := range c.formals.Required {
		b.WriteString(" ")
		b.WriteString(f.String())
	}
	for _, f := range c.formals.Optional {
		b.WriteString(" [")
		b.WriteString(f.String())
		b.WriteString("]")
	}
	if c.formals.HasRest {
		b.WriteString(" . ")
		b.WriteString(c.formals.Rest.String())
	}
	b.WriteString(")")
	return b.String()
}

func (c *callableSpec) checkCount(n int) bool {
	if n < c.MinArgs() {
		return false
	}
	max, ok := c.MaxArgs()
	return !ok || n <= max
}

func (c *callableSpec) maxForError() int {
	max, ok := c.MaxArgs()
	if !ok {
		return -1
	}
	return max
}

// FormFunc is the body of a special form.  It receives the unevaluated
// operands and decides itself what to evaluate.
type FormFunc func(env *Env, args []Datum) (Expression, error)

// Form is a special form.
type Form struct {
	callableSpec
	fn FormFunc
}

// NewForm returns a special form.
func NewForm(name string, formals FormalSpec, fn FormFunc, doc string) *Form {
	return &Form{
		callableSpec: callableSpec{id: Symbol(name), formals: formals, doc: doc},
		fn:           fn,
	}
}

// Call checks the operand count and invokes the form body.
func (f *Form) Call(env *Env, args []Datum) (Expression, error) {
	if !f.checkCount(len(args)) {
		return nil, BadFormSyntax(f.id.Name(), "incorrect argument count")
	}
	return f.fn(env, args)
}

func (f *Form) Rename(id Identifier) Callable {
	c := *f
	c.id = id
	return &c
}

func (*Form) Type() Type       { return TypeForm }
func (f *Form) String() string { return "#<form " + f.id.String() + ">" }
func (*Form) datum()           {}
func (*Form) expression()      {}

// Builtin is the body of a procedure implemented in Go.  Arguments have
// already been evaluated.
type Builtin func(env *Env, args []Expression) (Expression, error)

// Procedure is a builtin or a lambda.
type Procedure struct {
	callableSpec
	builtin Builtin
	body    []Datum
	// closure is the environment a lambda was created in.
	closure *Env
}

// NewBuiltin returns a procedure implemented by fn.
func NewBuiltin(name string, formals FormalSpec, fn Builtin, doc string) *Procedure {
	return &Procedure{
		callableSpec: callableSpec{id: Symbol(name), formals: formals, doc: doc},
		builtin:      fn,
	}
}

// NewLambda returns a procedure whose body is evaluated in a child of
// closure.
func NewLambda(id Identifier, formals FormalSpec, body []Datum, closure *Env) *Procedure {
	var doc string
	if len(body) > 1 {
		if s, ok := body[0].(String); ok {
			doc = string(s)
			body = body[1:]
		}
	}
	return &Procedure{
		callableSpec: callableSpec{id: id, formals: formals, doc: doc},
		body:         body,
		closure:      closure,
	}
}

// IsBuiltin reports whether p is implemented in Go.
func (p *Procedure) IsBuiltin() bool { return p.builtin != nil }

// Body returns the body datums of a lambda.
func (p *Procedure) Body() []Datum { return p.body }

// Closure returns the environment a lambda captured.
func (p *Procedure) Closure() *Env { return p.closure }

// Call checks the argument count and applies p to args.  A lambda body is
// evaluated in a fresh child of the captured environment named after the
// procedure; the variadic formal is bound to a list of the remaining
// arguments.
func (p *Procedure) Call(env *Env, args []Expression) (Expression, error) {
	if !p.checkCount(len(args)) {
		return nil, ArgumentCardinality(p.id.Name(), p.MinArgs(), p.maxForError(), len(args))
	}
	rt := env.Runtime
	if err := rt.Stack.PushFrame(CallFrame{Name: p.id.Name(), Env: env.Name, Builtin: p.IsBuiltin()}); err != nil {
		return nil, err
	}
	defer rt.Stack.PopFrame()
	if rt.Profiler != nil && rt.Profiler.IsEnabled() {
		stop := rt.Profiler.Start(p)
		defer stop()
	}
	v, err := p.apply(env, args)
	if err != nil {
		var serr *Error
		if errors.As(err, &serr) && serr.Stack == nil {
			serr.Stack = rt.Stack.Copy()
		}
		return nil, err
	}
	return v, nil
}

func (p *Procedure) apply(env *Env, args []Expression) (Expression, error) {
	rt := env.Runtime
	if p.builtin != nil {
		// Builtins see '5 and 'x as the number and the symbol.
		canon := make([]Expression, len(args))
		for i, a := range args {
			canon[i] = Canonical(a)
		}
		return p.builtin(env, canon)
	}
	if rt.Logger != nil {
		rt.Logger.WithFields(logrus.Fields{
			"procedure": p.id.Name(),
			"env":       p.closure.Name,
		}).Trace("apply lambda")
	}
	local := NewChildNamed(p.closure, p.id.Name())
	n := len(p.formals.Required)
	for i, f := range p.formals.Required {
		if err := local.Insert(f, args[i]); err != nil {
			return nil, err
		}
	}
	if p.formals.HasRest {
		rest := make([]Datum, len(args)-n)
		for i, a := range args[n:] {
			rest[i] = ToDatum(a)
		}
		if err := local.Insert(p.formals.Rest, ToExpression(List(rest...))); err != nil {
			return nil, err
		}
	}
	return local.EvalSequence(p.body)
}

func (p *Procedure) Rename(id Identifier) Callable {
	c := *p
	c.id = id
	return &c
}

func (*Procedure) Type() Type { return TypeProcedure }

func (p *Procedure) String() string {
	return "#<procedure " + p.id.String() + ">"
}

func (*Procedure) datum()      {}
func (*Procedure) expression() {}

// Apply invokes any callable value with evaluated arguments.  Forms receive
// the arguments as quoted data.
func Apply(env *Env, fn Expression, args []Expression) (Expression, error) {
	switch fn := fn.(type) {
	case *Procedure:
		return fn.Call(env, args)
	case *Form:
		ds := make([]Datum, len(args))
		for i, a := range args {
			ds[i] = &Abbreviation{Kind: AbbrevQuote, Datum: ToDatum(a)}
		}
		return fn.Call(env, ds)
	}
	return nil, UnexpectedType("apply", "procedure", fn.Type())
}
