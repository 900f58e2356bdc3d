// Copyright © 2018 The ELPS authors

package scheme

import (
	"errors"

	"github.com/tessellate/schemer/scheme/num"
)

type langBuiltin struct {
	name    string
	formals FormalSpec
	fn      Builtin
	doc     string
}

var userBuiltins []*langBuiltin

// RegisterDefaultBuiltin adds a procedure to (scheme base) for environments
// initialized after the call.
func RegisterDefaultBuiltin(name string, formals FormalSpec, fn Builtin, doc string) {
	userBuiltins = append(userBuiltins, &langBuiltin{name, formals, fn, doc})
}

// DefaultBuiltins returns the procedures of (scheme base).
func DefaultBuiltins() []*Procedure {
	var tables = [][]*langBuiltin{
		numericBuiltins,
		listBuiltins,
		dataBuiltins,
		langBuiltins,
		userBuiltins,
	}
	var procs []*Procedure
	for _, table := range tables {
		for _, b := range table {
			procs = append(procs, NewBuiltin(b.name, b.formals, b.fn, b.doc))
		}
	}
	return procs
}

// BaseExports returns the bindings of (scheme base): the core forms and
// procedures.
func BaseExports() *Exports {
	ex := NewExports()
	for _, f := range DefaultForms() {
		ex.Set(f.ID(), f)
	}
	for _, p := range DefaultBuiltins() {
		ex.Set(p.ID(), p)
	}
	return ex
}

var langBuiltins = []*langBuiltin{
	{"procedure?", Formals("obj"), builtinIsProcedure,
		`Returns #t if obj is a procedure.`},
	{"apply", Formals("proc", VarArgMarker, "args"), builtinApply,
		`Calls proc with the elements of the list formed by prepending all
		but the last argument to the last argument, which must be a list.`},
	{"map", Formals("proc", "list", VarArgMarker, "lists"), builtinMap,
		`Applies proc element-wise to the lists and returns a list of the
		results.  Iteration stops at the end of the shortest list.`},
	{"for-each", Formals("proc", "list", VarArgMarker, "lists"), builtinForEach,
		`Like map but calls proc for its side effects only.`},
	{"eval", Formals("expr", OptArgMarker, "environment"), builtinEval,
		`Evaluates expr in environment, or in the calling environment when
		no environment is given.`},
	{"environment", Formals(VarArgMarker, "import-sets"), builtinEnvironment,
		`Returns an immutable environment containing the bindings of the
		given import sets, each a quoted list such as '(scheme base).`},
	{"interaction-environment", Formals(), builtinInteractionEnvironment,
		`Returns the mutable top-level environment of the session.`},
	{"error", Formals("message", VarArgMarker, "irritants"), builtinError,
		`Raises an error object carrying message and the irritants.`},
	{"raise", Formals("obj"), builtinRaise,
		`Raises obj as an error.  A guard clause receives obj itself.`},
	{"error-object?", Formals("obj"), builtinIsErrorObject,
		`Returns #t if obj is an error object caught by guard.`},
	{"error-object-message", Formals("error-object"), builtinErrorObjectMessage,
		`Returns the message of an error object.`},
	{"error-object-irritants", Formals("error-object"), builtinErrorObjectIrritants,
		`Returns the list of irritants of an error object.`},
	{"read-error?", Formals("obj"), builtinIsReadError,
		`Returns #t if obj is an error object raised by the reader.`},
	{"file-error?", Formals("obj"), builtinIsFileError,
		`Returns #t if obj is an error object raised by a file operation.`},
}

// argument helpers

func numberArg(name string, e Expression) (num.Number, error) {
	n, ok := e.(Number)
	if !ok {
		return nil, UnexpectedType(name, "number", typeOf(e))
	}
	return n.Number, nil
}

func numberArgs(name string, args []Expression) ([]num.Number, error) {
	ns := make([]num.Number, len(args))
	for i, a := range args {
		n, err := numberArg(name, a)
		if err != nil {
			return nil, err
		}
		ns[i] = n
	}
	return ns, nil
}

// indexArg returns a non-negative exact integer argument.
func indexArg(name string, e Expression) (int, error) {
	n, err := numberArg(name, e)
	if err != nil {
		return 0, err
	}
	i, ok := n.(num.Integer)
	if !ok {
		return 0, UnexpectedType(name, "exact integer", typeOf(e))
	}
	x, ok := i.Int()
	if !ok || x < 0 {
		return 0, &Error{Kind: KindValue, Name: name, Expected: "non-negative index", Actual: i.String()}
	}
	return x, nil
}

func rangeError(name string, i, n int) error {
	return &Error{Kind: KindValue, Name: name, Expected: "index in range", Actual: Int(int64(i)).String() + " of " + Int(int64(n)).String()}
}

func listArg(name string, e Expression) ([]Datum, error) {
	items, ok := Slice(ToDatum(e))
	if !ok {
		return nil, UnexpectedType(name, "list", typeOf(e))
	}
	return items, nil
}

func pairArg(name string, e Expression) (*Pair, error) {
	p, ok := ToDatum(e).(*Pair)
	if !ok {
		return nil, UnexpectedType(name, "pair", typeOf(e))
	}
	return p, nil
}

func stringArg(name string, e Expression) (string, error) {
	s, ok := e.(String)
	if !ok {
		return "", UnexpectedType(name, "string", typeOf(e))
	}
	return string(s), nil
}

func symbolArg(name string, e Expression) (Identifier, error) {
	id, ok := e.(Identifier)
	if !ok {
		return Identifier{}, UnexpectedType(name, "symbol", typeOf(e))
	}
	return id, nil
}

func callableArg(name string, e Expression) (Expression, error) {
	switch e.(type) {
	case *Procedure, *Form:
		return e, nil
	}
	return nil, UnexpectedType(name, "procedure", typeOf(e))
}

// listValue returns items as a list value.
func listValue(items []Datum) Expression {
	return ToExpression(List(items...))
}

func datums(args []Expression) []Datum {
	ds := make([]Datum, len(args))
	for i, a := range args {
		ds[i] = ToDatum(a)
	}
	return ds
}

func builtinIsProcedure(env *Env, args []Expression) (Expression, error) {
	switch args[0].(type) {
	case *Procedure:
		return Boolean(true), nil
	}
	return Boolean(false), nil
}

func builtinApply(env *Env, args []Expression) (Expression, error) {
	fn, err := callableArg("apply", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return Apply(env, fn, nil)
	}
	last, err := listArg("apply", args[len(args)-1])
	if err != nil {
		return nil, err
	}
	callArgs := append([]Expression(nil), args[1:len(args)-1]...)
	for _, d := range last {
		callArgs = append(callArgs, ToExpression(d))
	}
	return Apply(env, fn, callArgs)
}

// zipLists applies fn to each tuple of elements drawn from the list
// arguments, stopping at the shortest list.
func zipLists(name string, env *Env, args []Expression, collect bool) (Expression, error) {
	fn, err := callableArg(name, args[0])
	if err != nil {
		return nil, err
	}
	lists := make([][]Datum, len(args)-1)
	n := -1
	for i, a := range args[1:] {
		items, err := listArg(name, a)
		if err != nil {
			return nil, err
		}
		lists[i] = items
		if n < 0 || len(items) < n {
			n = len(items)
		}
	}
	var results []Datum
	for i := 0; i < n; i++ {
		callArgs := make([]Expression, len(lists))
		for j, items := range lists {
			callArgs[j] = ToExpression(items[i])
		}
		v, err := Apply(env, fn, callArgs)
		if err != nil {
			return nil, err
		}
		if collect {
			results = append(results, ToDatum(v))
		}
	}
	if !collect {
		return Unspecified{}, nil
	}
	return listValue(results), nil
}

func builtinMap(env *Env, args []Expression) (Expression, error) {
	return zipLists("map", env, args, true)
}

func builtinForEach(env *Env, args []Expression) (Expression, error) {
	return zipLists("for-each", env, args, false)
}

func builtinEval(env *Env, args []Expression) (Expression, error) {
	target := env
	if len(args) == 2 {
		e, ok := args[1].(*Env)
		if !ok {
			return nil, UnexpectedType("eval", "environment", typeOf(args[1]))
		}
		target = e
	}
	return EvalDatum(ToDatum(args[0]), target)
}

func builtinEnvironment(env *Env, args []Expression) (Expression, error) {
	out := NewEnvNamed(env.Runtime, "environment")
	for _, a := range args {
		ex, err := ResolveImportSet(env.Runtime.Registry, ToDatum(a))
		if err != nil {
			return nil, err
		}
		if err := out.Import(ex); err != nil {
			return nil, err
		}
	}
	return out.MakeImmutable(), nil
}

func builtinInteractionEnvironment(env *Env, args []Expression) (Expression, error) {
	if env.Runtime.TopLevel != nil {
		return env.Runtime.TopLevel, nil
	}
	return env.Root(), nil
}

func builtinError(env *Env, args []Expression) (Expression, error) {
	msg, ok := args[0].(String)
	if !ok {
		return nil, RuntimeError(SourceOther, Repr(ToDatum(args[0]), env.Runtime.Display), datums(args[1:])...)
	}
	return nil, RuntimeError(SourceOther, string(msg), datums(args[1:])...)
}

func builtinRaise(env *Env, args []Expression) (Expression, error) {
	if obj, ok := args[0].(ErrorObject); ok {
		return nil, obj.Err
	}
	return nil, &Error{
		Kind:      KindRuntime,
		Source:    SourceOther,
		Irritants: []Datum{ToDatum(args[0])},
		Payload:   args[0],
	}
}

func errorObjectArg(name string, e Expression) (ErrorObject, error) {
	obj, ok := e.(ErrorObject)
	if !ok {
		return ErrorObject{}, UnexpectedType(name, "error object", typeOf(e))
	}
	return obj, nil
}

func builtinIsErrorObject(env *Env, args []Expression) (Expression, error) {
	_, ok := args[0].(ErrorObject)
	return Boolean(ok), nil
}

func builtinErrorObjectMessage(env *Env, args []Expression) (Expression, error) {
	obj, err := errorObjectArg("error-object-message", args[0])
	if err != nil {
		return nil, err
	}
	return String(obj.Message()), nil
}

func builtinErrorObjectIrritants(env *Env, args []Expression) (Expression, error) {
	obj, err := errorObjectArg("error-object-irritants", args[0])
	if err != nil {
		return nil, err
	}
	return ToExpression(obj.IrritantList()), nil
}

func errorObjectIs(e Expression, match func(*Error) bool) Boolean {
	obj, ok := e.(ErrorObject)
	return Boolean(ok && match(obj.Err))
}

func builtinIsReadError(env *Env, args []Expression) (Expression, error) {
	return errorObjectIs(args[0], func(e *Error) bool {
		return errors.Is(e, ErrParser) || (e.Kind == KindRuntime && e.Source == SourceRead)
	}), nil
}

func builtinIsFileError(env *Env, args []Expression) (Expression, error) {
	return errorObjectIs(args[0], func(e *Error) bool {
		return errors.Is(e, ErrFile) || (e.Kind == KindRuntime && e.Source == SourceFile)
	}), nil
}

// typeOf reports the type of e as a datum, so quoted lists report pair.
func typeOf(e Expression) Type {
	return ToDatum(e).Type()
}
