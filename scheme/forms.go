// Copyright © 2018 The ELPS authors

package scheme

import (
	"errors"
	"sync"
)

type langForm struct {
	name    string
	formals FormalSpec
	fn      FormFunc
	doc     string
}

var userForms []*langForm

// langForms is filled by init because several forms evaluate their
// operands, and evaluation resolves abbreviations through this table.
var langForms []*langForm

func init() {
	langForms = []*langForm{
	{"quote", Formals("datum"), formQuote,
		`Returns datum unevaluated.  This is the form behind the ' prefix
		syntax.`},
	{"quasiquote", Formals("template"), formQuasiquote,
		"Returns template unevaluated except that (unquote expr) parts are\n" +
			"replaced by the value of expr and (unquote-splicing expr) parts are\n" +
			"replaced by the elements of the list expr evaluates to.  This is the\n" +
			"form behind the ` prefix syntax.  Quasiquotes nest."},
	{"unquote", Formals("expr"), formUnquote,
		`Marks a part of a quasiquote template to be evaluated.  It is an
		error outside of quasiquote.`},
	{"unquote-splicing", Formals("expr"), formUnquoteSplicing,
		`Marks a part of a quasiquote template to be evaluated and spliced
		into the enclosing list.  It is an error outside of quasiquote.`},
	{"lambda", Formals("formals", VarArgMarker, "body"), formLambda,
		`Returns a procedure.  Formals is a list of parameter names, a
		single name bound to the list of all arguments, or an improper list
		whose final name is bound to the list of remaining arguments.  The
		body is evaluated in a new environment extending the one lambda was
		evaluated in.  A string that begins a body of two or more
		expressions is the procedure's documentation.`},
	{"λ", Formals("formals", VarArgMarker, "body"), formLambda,
		`Alias for lambda.`},
	{"define", Formals("target", VarArgMarker, "value"), formDefine,
		`Binds a variable in the current environment.  (define name expr)
		binds name to the value of expr.  (define (name . formals) body...)
		binds name to a procedure.`},
	{"set!", Formals("name", "expr"), formSet,
		`Assigns the value of expr to the innermost existing binding of
		name.  It is an error if name is not bound.`},
	{"if", Formals("test", "consequent", OptArgMarker, "alternate"), formIf,
		`Evaluates test.  If the result is anything other than #f the
		consequent is evaluated, otherwise the alternate is.  Without an
		alternate the result of a false test is unspecified.`},
	{"begin", Formals(VarArgMarker, "body"), formBegin,
		`Evaluates its body forms sequentially in the current environment
		and returns the value of the last form.`},
	{"let", Formals("bindings", VarArgMarker, "body"), formLet,
		`Evaluates each binding's init in the enclosing environment, binds
		the results in a new environment and evaluates body there.  Named
		let, (let name bindings body...), also binds name to a procedure
		whose body is the let body, for iteration.`},
	{"let*", Formals("bindings", VarArgMarker, "body"), formLetStar,
		`Like let but each binding is established before the next init is
		evaluated, so inits may refer to earlier bindings.`},
	{"letrec", Formals("bindings", VarArgMarker, "body"), formLetrec,
		`Binds each name in a new environment in which every init is
		evaluated, allowing mutually recursive procedures.`},
	{"letrec*", Formals("bindings", VarArgMarker, "body"), formLetrec,
		`Like letrec, evaluating inits from left to right.`},
	{"cond", Formals(VarArgMarker, "clauses"), formCond,
		`Multi-way conditional.  Each clause is (test body...),
		(test => receiver) or a final (else body...).  The body of the
		first clause whose test is true is evaluated.  A clause with no
		body returns the value of its test.`},
	{"case", Formals("key", VarArgMarker, "clauses"), formCase,
		`Evaluates key and selects the first clause ((datum...) body...)
		listing a datum eqv? to it.  An else clause matches anything.
		Either kind of clause may use => receiver.`},
	{"and", Formals(VarArgMarker, "tests"), formAnd,
		`Evaluates tests left to right and returns the first false value or
		the last value.  Returns #t with no tests.`},
	{"or", Formals(VarArgMarker, "tests"), formOr,
		`Evaluates tests left to right and returns the first true value.
		Returns #f when no test is true.`},
	{"when", Formals("test", VarArgMarker, "body"), formWhen,
		`Evaluates body when test is true.`},
	{"unless", Formals("test", VarArgMarker, "body"), formUnless,
		`Evaluates body when test is false.`},
	{"do", Formals("bindings", "exit", VarArgMarker, "body"), formDo,
		`Iteration.  Bindings are (variable init [step]).  Before each
		iteration the exit clause (test expr...) is checked; when test is
		true the exprs are evaluated and the last value returned.
		Otherwise body runs and every variable is rebound to its step.`},
	{"import", Formals(VarArgMarker, "import-sets"), formImport,
		`Imports bindings from libraries into the current environment.  An
		import set is a library name such as (scheme char) or one of
		(only set id...), (except set id...), (prefix set prefix) and
		(rename set (from to)...).`},
	{"guard", Formals("clause", VarArgMarker, "body"), formGuard,
		`Evaluates body.  If an error is raised, the clause (var cond-clause...)
		binds var to the raised object, or to an error object, and its
		cond clauses are tried.  When none applies the error is raised
		again.`},
	{"assert", Formals("expr", VarArgMarker, "message"), formAssert,
		`Evaluates expr and raises an error if the result is #f.  The
		optional message is evaluated only on failure.`},
	}
}

var stubForms = []string{
	"delay",
	"delay-force",
	"make-promise",
	"define-syntax",
	"let-syntax",
	"letrec-syntax",
	"syntax-rules",
	"parameterize",
	"case-lambda",
	"define-record-type",
	"define-values",
	"let-values",
	"let*-values",
}

// RegisterDefaultForm adds a form to the set returned by DefaultForms.
func RegisterDefaultForm(name string, formals FormalSpec, fn FormFunc, doc string) {
	userForms = append(userForms, &langForm{name, formals, fn, doc})
}

// DefaultForms returns the special forms of (scheme base), including
// declared forms that signal KindNotImplemented.
func DefaultForms() []*Form {
	forms := make([]*Form, 0, len(langForms)+len(stubForms)+len(userForms))
	for _, f := range langForms {
		forms = append(forms, NewForm(f.name, f.formals, f.fn, f.doc))
	}
	for _, name := range stubForms {
		forms = append(forms, NewForm(name, Formals(VarArgMarker, "args"), notImplementedForm(name),
			"Reserved.  Evaluating this form signals a not-implemented error."))
	}
	for _, f := range userForms {
		forms = append(forms, NewForm(f.name, f.formals, f.fn, f.doc))
	}
	return forms
}

var (
	coreFormsOnce sync.Once
	coreForms     map[Identifier]*Form
)

func coreForm(id Identifier) (*Form, bool) {
	coreFormsOnce.Do(func() {
		coreForms = make(map[Identifier]*Form)
		for _, f := range DefaultForms() {
			coreForms[f.ID()] = f
		}
	})
	f, ok := coreForms[id]
	return f, ok
}

func notImplementedForm(name string) FormFunc {
	return func(env *Env, args []Datum) (Expression, error) {
		return nil, NotImplemented(name)
	}
}

var (
	symElse  = Symbol("else")
	symArrow = Symbol("=>")
)

func formQuote(env *Env, args []Datum) (Expression, error) {
	return Quotation{args[0]}, nil
}

func formUnquote(env *Env, args []Datum) (Expression, error) {
	return nil, BadFormSyntax("unquote", "not inside quasiquote")
}

func formUnquoteSplicing(env *Env, args []Datum) (Expression, error) {
	return nil, BadFormSyntax("unquote-splicing", "not inside quasiquote")
}

func formQuasiquote(env *Env, args []Datum) (Expression, error) {
	d, err := quasi(env, args[0], 1)
	if err != nil {
		return nil, err
	}
	return ToExpression(d), nil
}

// templateForm recognizes (unquote x), (quasiquote x) and friends written
// as lists.
func templateForm(d Datum) (AbbreviationKind, Datum, bool) {
	switch d := d.(type) {
	case *Abbreviation:
		return d.Kind, d.Datum, true
	case *Pair:
		id, ok := d.Car.(Identifier)
		if !ok {
			return 0, nil, false
		}
		rest, ok := d.Cdr.(*Pair)
		if !ok || !IsNull(rest.Cdr) {
			return 0, nil, false
		}
		for k := AbbrevQuote; k <= AbbrevUnquoteSplicing; k++ {
			if id.Name() == k.FormName() {
				return k, rest.Car, true
			}
		}
	}
	return 0, nil, false
}

func quasi(env *Env, d Datum, depth int) (Datum, error) {
	if kind, inner, ok := templateForm(d); ok {
		switch kind {
		case AbbrevUnquote:
			if depth == 1 {
				v, err := EvalDatum(inner, env)
				if err != nil {
					return nil, err
				}
				return ToDatum(v), nil
			}
			return rebuildTemplate(env, kind, inner, depth-1)
		case AbbrevUnquoteSplicing:
			if depth == 1 {
				return nil, BadFormSyntax("unquote-splicing", "not in list context")
			}
			return rebuildTemplate(env, kind, inner, depth-1)
		case AbbrevQuasiquote:
			return rebuildTemplate(env, kind, inner, depth+1)
		default:
			return rebuildTemplate(env, kind, inner, depth)
		}
	}
	switch d := d.(type) {
	case *Pair:
		return quasiList(env, d, depth)
	case Vector:
		items, err := quasiItems(env, d, depth)
		if err != nil {
			return nil, err
		}
		return Vector(items), nil
	}
	return d, nil
}

func rebuildTemplate(env *Env, kind AbbreviationKind, inner Datum, depth int) (Datum, error) {
	d, err := quasi(env, inner, depth)
	if err != nil {
		return nil, err
	}
	return &Abbreviation{Kind: kind, Datum: d}, nil
}

func quasiList(env *Env, p *Pair, depth int) (Datum, error) {
	var items []Datum
	var tail Datum = Null{}
	var d Datum = p
	for {
		cur, ok := d.(*Pair)
		if !ok {
			if !IsNull(d) {
				t, err := quasi(env, d, depth)
				if err != nil {
					return nil, err
				}
				tail = t
			}
			break
		}
		if len(items) > 0 {
			// (a unquote b) is (a . ,b)
			if kind, _, isTemplate := templateForm(cur); isTemplate && kind == AbbrevUnquote {
				t, err := quasi(env, cur, depth)
				if err != nil {
					return nil, err
				}
				tail = t
				break
			}
		}
		spliced, err := quasiItems(env, []Datum{cur.Car}, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, spliced...)
		d = cur.Cdr
	}
	return ListTail(tail, items...), nil
}

// quasiItems processes template elements, splicing (unquote-splicing x) at
// depth one.
func quasiItems(env *Env, ds []Datum, depth int) ([]Datum, error) {
	var items []Datum
	for _, x := range ds {
		if kind, inner, ok := templateForm(x); ok && kind == AbbrevUnquoteSplicing && depth == 1 {
			v, err := EvalDatum(inner, env)
			if err != nil {
				return nil, err
			}
			elems, isList := Slice(ToDatum(v))
			if !isList {
				return nil, UnexpectedType("unquote-splicing", "list", v.Type())
			}
			items = append(items, elems...)
			continue
		}
		q, err := quasi(env, x, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	return items, nil
}

// ParseFormals converts a lambda parameter list to a FormalSpec.
func ParseFormals(d Datum) (FormalSpec, error) {
	var spec FormalSpec
	items, tail := SplitImproper(d)
	seen := make(map[Identifier]bool)
	for _, x := range items {
		id, ok := x.(Identifier)
		if !ok {
			return spec, BadFormSyntax("lambda", "formal parameter is not an identifier: "+Repr(x, DisplayFlags{}))
		}
		if seen[id] {
			return spec, BadFormSyntax("lambda", "duplicate formal parameter: "+id.Name())
		}
		seen[id] = true
		spec.Required = append(spec.Required, id)
	}
	switch tail := tail.(type) {
	case Null:
	case Identifier:
		if seen[tail] {
			return spec, BadFormSyntax("lambda", "duplicate formal parameter: "+tail.Name())
		}
		spec.Rest = tail
		spec.HasRest = true
	default:
		return spec, BadFormSyntax("lambda", "formal parameter is not an identifier: "+Repr(tail, DisplayFlags{}))
	}
	return spec, nil
}

func formLambda(env *Env, args []Datum) (Expression, error) {
	formals, err := ParseFormals(args[0])
	if err != nil {
		return nil, err
	}
	return NewLambda(Symbol("lambda"), formals, args[1:], env), nil
}

func formDefine(env *Env, args []Datum) (Expression, error) {
	switch target := args[0].(type) {
	case Identifier:
		if len(args) > 2 {
			return nil, BadFormSyntax("define", "incorrect argument count")
		}
		var v Expression = Unspecified{}
		if len(args) == 2 {
			var err error
			v, err = EvalDatum(args[1], env)
			if err != nil {
				return nil, err
			}
		}
		if p, ok := v.(*Procedure); ok && !p.IsBuiltin() && p.ID() == Symbol("lambda") {
			v = p.Rename(target)
		}
		if err := env.Insert(target, v); err != nil {
			return nil, err
		}
		return Unspecified{}, nil
	case *Pair:
		name, ok := target.Car.(Identifier)
		if !ok {
			return nil, BadFormSyntax("define", "procedure name is not an identifier")
		}
		formals, err := ParseFormals(target.Cdr)
		if err != nil {
			return nil, err
		}
		if err := env.Insert(name, NewLambda(name, formals, args[1:], env)); err != nil {
			return nil, err
		}
		return Unspecified{}, nil
	}
	return nil, BadFormSyntax("define", "cannot define "+Repr(args[0], DisplayFlags{}))
}

func formSet(env *Env, args []Datum) (Expression, error) {
	id, ok := args[0].(Identifier)
	if !ok {
		return nil, BadFormSyntax("set!", "target is not an identifier: "+Repr(args[0], DisplayFlags{}))
	}
	if !env.IsBound(id) {
		return nil, UnboundVariable(id)
	}
	v, err := EvalDatum(args[1], env)
	if err != nil {
		return nil, err
	}
	if err := env.Update(id, v); err != nil {
		return nil, err
	}
	return Unspecified{}, nil
}

func formIf(env *Env, args []Datum) (Expression, error) {
	test, err := EvalDatum(args[0], env)
	if err != nil {
		return nil, err
	}
	if IsTrue(test) {
		return EvalDatum(args[1], env)
	}
	if len(args) == 3 {
		return EvalDatum(args[2], env)
	}
	return Unspecified{}, nil
}

func formBegin(env *Env, args []Datum) (Expression, error) {
	return env.EvalSequence(args)
}

// parseBindings splits ((name init) ...) into names and inits.  When
// allowStep is set a third step element is accepted and returned.
func parseBindings(form string, d Datum, allowStep bool) ([]Identifier, []Datum, []Datum, error) {
	bindings, ok := Slice(d)
	if !ok {
		return nil, nil, nil, BadFormSyntax(form, "bindings are not a proper list")
	}
	names := make([]Identifier, len(bindings))
	inits := make([]Datum, len(bindings))
	steps := make([]Datum, len(bindings))
	for i, b := range bindings {
		parts, ok := Slice(b)
		maxParts := 2
		if allowStep {
			maxParts = 3
		}
		if !ok || len(parts) < 2 || len(parts) > maxParts {
			return nil, nil, nil, BadFormSyntax(form, "malformed binding: "+Repr(b, DisplayFlags{}))
		}
		id, ok := parts[0].(Identifier)
		if !ok {
			return nil, nil, nil, BadFormSyntax(form, "binding name is not an identifier: "+Repr(parts[0], DisplayFlags{}))
		}
		names[i] = id
		inits[i] = parts[1]
		if len(parts) == 3 {
			steps[i] = parts[2]
		}
	}
	return names, inits, steps, nil
}

func formLet(env *Env, args []Datum) (Expression, error) {
	if name, ok := args[0].(Identifier); ok {
		return namedLet(env, name, args[1:])
	}
	names, inits, _, err := parseBindings("let", args[0], false)
	if err != nil {
		return nil, err
	}
	vals, err := evalOperands(env, inits)
	if err != nil {
		return nil, err
	}
	local := NewChildNamed(env, "let")
	for i, id := range names {
		if err := local.Insert(id, vals[i]); err != nil {
			return nil, err
		}
	}
	return local.EvalSequence(args[1:])
}

func namedLet(env *Env, name Identifier, args []Datum) (Expression, error) {
	if len(args) == 0 {
		return nil, BadFormSyntax("let", "missing bindings")
	}
	names, inits, _, err := parseBindings("let", args[0], false)
	if err != nil {
		return nil, err
	}
	vals, err := evalOperands(env, inits)
	if err != nil {
		return nil, err
	}
	loopEnv := NewChildNamed(env, name.Name())
	proc := NewLambda(name, FormalSpec{Required: names}, args[1:], loopEnv)
	if err := loopEnv.Insert(name, proc); err != nil {
		return nil, err
	}
	return proc.Call(loopEnv, vals)
}

func formLetStar(env *Env, args []Datum) (Expression, error) {
	names, inits, _, err := parseBindings("let*", args[0], false)
	if err != nil {
		return nil, err
	}
	local := NewChildNamed(env, "let*")
	for i, id := range names {
		v, err := EvalDatum(inits[i], local)
		if err != nil {
			return nil, err
		}
		local = NewChildNamed(local, "let*")
		if err := local.Insert(id, v); err != nil {
			return nil, err
		}
	}
	return local.EvalSequence(args[1:])
}

func formLetrec(env *Env, args []Datum) (Expression, error) {
	names, inits, _, err := parseBindings("letrec", args[0], false)
	if err != nil {
		return nil, err
	}
	local := NewChildNamed(env, "letrec")
	for _, id := range names {
		if err := local.Insert(id, Unspecified{}); err != nil {
			return nil, err
		}
	}
	for i, id := range names {
		v, err := EvalDatum(inits[i], local)
		if err != nil {
			return nil, err
		}
		if p, ok := v.(*Procedure); ok && !p.IsBuiltin() && p.ID() == Symbol("lambda") {
			v = p.Rename(id)
		}
		if err := local.Insert(id, v); err != nil {
			return nil, err
		}
	}
	return local.EvalSequence(args[1:])
}

// evalClauses implements cond clause selection.  The second result is false
// when no clause applied.
func evalClauses(env *Env, form string, clauses []Datum) (Expression, bool, error) {
	for i, c := range clauses {
		parts, ok := Slice(c)
		if !ok || len(parts) == 0 {
			return nil, false, BadFormSyntax(form, "malformed clause: "+Repr(c, DisplayFlags{}))
		}
		if parts[0] == Datum(symElse) {
			if i != len(clauses)-1 {
				return nil, false, BadFormSyntax(form, "else clause is not last")
			}
			v, err := env.EvalSequence(parts[1:])
			return v, true, err
		}
		test, err := EvalDatum(parts[0], env)
		if err != nil {
			return nil, false, err
		}
		if IsFalse(test) {
			continue
		}
		if len(parts) == 1 {
			return test, true, nil
		}
		if parts[1] == Datum(symArrow) {
			if len(parts) != 3 {
				return nil, false, BadFormSyntax(form, "malformed => clause")
			}
			v, err := applyReceiver(env, parts[2], test)
			return v, true, err
		}
		v, err := env.EvalSequence(parts[1:])
		return v, true, err
	}
	return nil, false, nil
}

func applyReceiver(env *Env, receiver Datum, arg Expression) (Expression, error) {
	fn, err := EvalDatum(receiver, env)
	if err != nil {
		return nil, err
	}
	return Apply(env, fn, []Expression{arg})
}

func formCond(env *Env, args []Datum) (Expression, error) {
	v, ok, err := evalClauses(env, "cond", args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Unspecified{}, nil
	}
	return v, nil
}

func formCase(env *Env, args []Datum) (Expression, error) {
	key, err := EvalDatum(args[0], env)
	if err != nil {
		return nil, err
	}
	kd := ToDatum(key)
	for i, c := range args[1:] {
		parts, ok := Slice(c)
		if !ok || len(parts) < 1 {
			return nil, BadFormSyntax("case", "malformed clause: "+Repr(c, DisplayFlags{}))
		}
		match := false
		if parts[0] == Datum(symElse) {
			if i != len(args)-2 {
				return nil, BadFormSyntax("case", "else clause is not last")
			}
			match = true
		} else {
			data, ok := Slice(parts[0])
			if !ok {
				return nil, BadFormSyntax("case", "clause data is not a list: "+Repr(parts[0], DisplayFlags{}))
			}
			for _, d := range data {
				if Eqv(d, kd) {
					match = true
					break
				}
			}
		}
		if !match {
			continue
		}
		if len(parts) == 3 && parts[1] == Datum(symArrow) {
			return applyReceiver(env, parts[2], key)
		}
		return env.EvalSequence(parts[1:])
	}
	return Unspecified{}, nil
}

func formAnd(env *Env, args []Datum) (Expression, error) {
	var result Expression = Boolean(true)
	for _, d := range args {
		var err error
		result, err = EvalDatum(d, env)
		if err != nil {
			return nil, err
		}
		if IsFalse(result) {
			return result, nil
		}
	}
	return result, nil
}

func formOr(env *Env, args []Datum) (Expression, error) {
	for _, d := range args {
		v, err := EvalDatum(d, env)
		if err != nil {
			return nil, err
		}
		if IsTrue(v) {
			return v, nil
		}
	}
	return Boolean(false), nil
}

func formWhen(env *Env, args []Datum) (Expression, error) {
	test, err := EvalDatum(args[0], env)
	if err != nil {
		return nil, err
	}
	if IsFalse(test) {
		return Unspecified{}, nil
	}
	return env.EvalSequence(args[1:])
}

func formUnless(env *Env, args []Datum) (Expression, error) {
	test, err := EvalDatum(args[0], env)
	if err != nil {
		return nil, err
	}
	if IsTrue(test) {
		return Unspecified{}, nil
	}
	return env.EvalSequence(args[1:])
}

func formDo(env *Env, args []Datum) (Expression, error) {
	names, inits, steps, err := parseBindings("do", args[0], true)
	if err != nil {
		return nil, err
	}
	exit, ok := Slice(args[1])
	if !ok || len(exit) == 0 {
		return nil, BadFormSyntax("do", "malformed exit clause: "+Repr(args[1], DisplayFlags{}))
	}
	vals, err := evalOperands(env, inits)
	if err != nil {
		return nil, err
	}
	for {
		local := NewChildNamed(env, "do")
		for i, id := range names {
			if err := local.Insert(id, vals[i]); err != nil {
				return nil, err
			}
		}
		test, err := EvalDatum(exit[0], local)
		if err != nil {
			return nil, err
		}
		if IsTrue(test) {
			return local.EvalSequence(exit[1:])
		}
		if _, err := local.EvalSequence(args[2:]); err != nil {
			return nil, err
		}
		next := make([]Expression, len(names))
		for i, id := range names {
			if steps[i] == nil {
				next[i], _ = local.GetLocal(id)
				continue
			}
			v, err := EvalDatum(steps[i], local)
			if err != nil {
				return nil, err
			}
			next[i] = v
		}
		vals = next
	}
}

func formImport(env *Env, args []Datum) (Expression, error) {
	sets := make([]*Exports, len(args))
	for i, d := range args {
		ex, err := ResolveImportSet(env.Runtime.Registry, d)
		if err != nil {
			return nil, err
		}
		sets[i] = ex
	}
	for _, ex := range sets {
		if err := env.Import(ex); err != nil {
			return nil, err
		}
	}
	return Unspecified{}, nil
}

// ResolveImportSet evaluates an import set against the libraries in reg.
func ResolveImportSet(reg *Registry, d Datum) (*Exports, error) {
	parts, ok := Slice(d)
	if !ok || len(parts) == 0 {
		return nil, BadFormSyntax("import", "malformed import set: "+Repr(d, DisplayFlags{}))
	}
	head, _ := parts[0].(Identifier)
	isSet := len(parts) >= 2 && IsProperPair(parts[1])
	if !isSet {
		name, err := LibraryName(d)
		if err != nil {
			return nil, err
		}
		return reg.Lookup(name)
	}
	switch head.Name() {
	case "only", "except", "prefix", "rename":
	default:
		name, err := LibraryName(d)
		if err != nil {
			return nil, err
		}
		return reg.Lookup(name)
	}
	inner, err := ResolveImportSet(reg, parts[1])
	if err != nil {
		return nil, err
	}
	switch head.Name() {
	case "only", "except":
		ids, err := identifiers(head.Name(), parts[2:])
		if err != nil {
			return nil, err
		}
		if head.Name() == "only" {
			return inner.Only(ids...)
		}
		return inner.Except(ids...)
	case "prefix":
		if len(parts) != 3 {
			return nil, BadFormSyntax("prefix", "incorrect argument count")
		}
		p, ok := parts[2].(Identifier)
		if !ok {
			return nil, BadFormSyntax("prefix", "prefix is not an identifier")
		}
		return inner.Prefix(p.Name()), nil
	}
	renames := make(map[Identifier]Identifier)
	for _, r := range parts[2:] {
		pair, ok := Slice(r)
		if !ok || len(pair) != 2 {
			return nil, BadFormSyntax("rename", "malformed rename: "+Repr(r, DisplayFlags{}))
		}
		ids, err := identifiers("rename", pair)
		if err != nil {
			return nil, err
		}
		renames[ids[0]] = ids[1]
	}
	return inner.Rename(renames)
}

func identifiers(form string, ds []Datum) ([]Identifier, error) {
	ids := make([]Identifier, len(ds))
	for i, d := range ds {
		id, ok := d.(Identifier)
		if !ok {
			return nil, BadFormSyntax(form, "not an identifier: "+Repr(d, DisplayFlags{}))
		}
		ids[i] = id
	}
	return ids, nil
}

// uncatchable reports whether err must not be intercepted by guard.
func uncatchable(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, ErrStepLimit) || errors.Is(err, ErrStackDepth)
}

func formGuard(env *Env, args []Datum) (Expression, error) {
	clause, ok := Slice(args[0])
	if !ok || len(clause) == 0 {
		return nil, BadFormSyntax("guard", "malformed guard clause")
	}
	id, ok := clause[0].(Identifier)
	if !ok {
		return nil, BadFormSyntax("guard", "guard variable is not an identifier")
	}
	result, err := NewChildNamed(env, "guard").EvalSequence(args[1:])
	if err == nil {
		return result, nil
	}
	if uncatchable(err) {
		return nil, err
	}
	handler := NewChildNamed(env, "guard")
	if err := handler.Insert(id, ConditionValue(err)); err != nil {
		return nil, err
	}
	v, matched, cerr := evalClauses(handler, "guard", clause[1:])
	if cerr != nil {
		return nil, cerr
	}
	if !matched {
		return nil, err
	}
	return v, nil
}

// ConditionValue returns the Scheme value describing err: the object given
// to raise, or an error object.
func ConditionValue(err error) Expression {
	var serr *Error
	if !errors.As(err, &serr) {
		serr = &Error{Kind: KindInvalid, Message: err.Error(), Err: err}
	}
	if serr.Payload != nil {
		return serr.Payload
	}
	return ErrorObject{serr}
}

func formAssert(env *Env, args []Datum) (Expression, error) {
	v, err := EvalDatum(args[0], env)
	if err != nil {
		return nil, err
	}
	if IsTrue(v) {
		return Unspecified{}, nil
	}
	if len(args) == 1 {
		return nil, RuntimeError(SourceOther, "assertion failed", args[0])
	}
	msg, err := EvalDatum(args[1], env)
	if err != nil {
		return nil, err
	}
	irritants, err := evalOperands(env, args[2:])
	if err != nil {
		return nil, err
	}
	ds := make([]Datum, len(irritants))
	for i, x := range irritants {
		ds[i] = ToDatum(x)
	}
	return nil, RuntimeError(SourceOther, DisplayString(ToDatum(msg), DisplayFlags{}), ds...)
}
