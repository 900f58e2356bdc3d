// Copyright © 2024 The ELPS authors

package scheme

var listBuiltins = []*langBuiltin{
	{"cons", Formals("obj1", "obj2"), builtinCons,
		`Returns a newly allocated pair whose car is obj1 and whose cdr is
		obj2.`},
	{"car", Formals("pair"), builtinCar,
		`Returns the car of pair.`},
	{"cdr", Formals("pair"), builtinCdr,
		`Returns the cdr of pair.`},
	{"set-car!", Formals("pair", "obj"), builtinSetCar,
		`Stores obj in the car of pair.`},
	{"set-cdr!", Formals("pair", "obj"), builtinSetCdr,
		`Stores obj in the cdr of pair.`},
	{"list", Formals(VarArgMarker, "obj"), builtinList,
		`Returns a newly allocated list of its arguments.`},
	{"list?", Formals("obj"), builtinIsList,
		`Returns #t if obj is a proper list.  Circular lists are not.`},
	{"pair?", Formals("obj"), builtinIsPair,
		`Returns #t if obj is a pair.`},
	{"null?", Formals("obj"), builtinIsNull,
		`Returns #t if obj is the empty list.`},
	{"length", Formals("list"), builtinLength,
		`Returns the length of list.`},
	{"append", Formals(VarArgMarker, "lists"), builtinAppend,
		`Returns a list of the elements of the first list followed by the
		elements of the other lists.  The last argument is shared, not
		copied, and may be any object.`},
	{"reverse", Formals("list"), builtinReverse,
		`Returns a newly allocated list of the elements of list in reverse
		order.`},
	{"list-tail", Formals("list", "k"), builtinListTail,
		`Returns the sublist of list obtained by omitting the first k
		elements.`},
	{"list-ref", Formals("list", "k"), builtinListRef,
		`Returns the kth element of list, counting from zero.`},
	{"memq", Formals("obj", "list"), memberBuiltin("memq", Eq),
		`Returns the first sublist of list whose car is eq? to obj, or #f.`},
	{"memv", Formals("obj", "list"), memberBuiltin("memv", Eqv),
		`Returns the first sublist of list whose car is eqv? to obj, or #f.`},
	{"member", Formals("obj", "list", VarArgMarker, "compare"), memberBuiltin("member", Equal),
		`Returns the first sublist of list whose car is equal? to obj, or #f.
		An optional compare procedure replaces equal?.`},
	{"assq", Formals("obj", "alist"), assocBuiltin("assq", Eq),
		`Returns the first pair in alist whose car is eq? to obj, or #f.`},
	{"assv", Formals("obj", "alist"), assocBuiltin("assv", Eqv),
		`Returns the first pair in alist whose car is eqv? to obj, or #f.`},
	{"assoc", Formals("obj", "alist", VarArgMarker, "compare"), assocBuiltin("assoc", Equal),
		`Returns the first pair in alist whose car is equal? to obj, or #f.
		An optional compare procedure replaces equal?.`},
	{"list-copy", Formals("obj"), builtinListCopy,
		`Returns a newly allocated copy of the spine of obj.  Objects that are
		not lists are returned unchanged.`},
}

func builtinCons(env *Env, args []Expression) (Expression, error) {
	return Quotation{Cons(ToDatum(args[0]), ToDatum(args[1]))}, nil
}

func builtinCar(env *Env, args []Expression) (Expression, error) {
	p, err := pairArg("car", args[0])
	if err != nil {
		return nil, err
	}
	return ToExpression(p.Car), nil
}

func builtinCdr(env *Env, args []Expression) (Expression, error) {
	p, err := pairArg("cdr", args[0])
	if err != nil {
		return nil, err
	}
	return ToExpression(p.Cdr), nil
}

func builtinSetCar(env *Env, args []Expression) (Expression, error) {
	p, err := pairArg("set-car!", args[0])
	if err != nil {
		return nil, err
	}
	p.SetCar(ToDatum(args[1]))
	return Unspecified{}, nil
}

func builtinSetCdr(env *Env, args []Expression) (Expression, error) {
	p, err := pairArg("set-cdr!", args[0])
	if err != nil {
		return nil, err
	}
	p.SetCdr(ToDatum(args[1]))
	return Unspecified{}, nil
}

func builtinList(env *Env, args []Expression) (Expression, error) {
	return listValue(datums(args)), nil
}

func builtinIsList(env *Env, args []Expression) (Expression, error) {
	return Boolean(IsProperList(ToDatum(args[0]))), nil
}

func builtinIsPair(env *Env, args []Expression) (Expression, error) {
	_, ok := ToDatum(args[0]).(*Pair)
	return Boolean(ok), nil
}

func builtinIsNull(env *Env, args []Expression) (Expression, error) {
	return Boolean(IsNull(ToDatum(args[0]))), nil
}

func builtinLength(env *Env, args []Expression) (Expression, error) {
	n, ok := Length(ToDatum(args[0]))
	if !ok {
		return nil, UnexpectedType("length", "list", typeOf(args[0]))
	}
	return Int(int64(n)), nil
}

func builtinAppend(env *Env, args []Expression) (Expression, error) {
	if len(args) == 0 {
		return Null{}, nil
	}
	var items []Datum
	for _, a := range args[:len(args)-1] {
		xs, err := listArg("append", a)
		if err != nil {
			return nil, err
		}
		items = append(items, xs...)
	}
	return ToExpression(ListTail(ToDatum(args[len(args)-1]), items...)), nil
}

func builtinReverse(env *Env, args []Expression) (Expression, error) {
	items, err := listArg("reverse", args[0])
	if err != nil {
		return nil, err
	}
	rev := make([]Datum, len(items))
	for i, d := range items {
		rev[len(items)-1-i] = d
	}
	return listValue(rev), nil
}

// listTail walks k cdrs down d.
func listTail(name string, d Datum, k int) (Datum, error) {
	for i := 0; i < k; i++ {
		p, ok := d.(*Pair)
		if !ok {
			return nil, rangeError(name, k, i)
		}
		d = p.Cdr
	}
	return d, nil
}

func builtinListTail(env *Env, args []Expression) (Expression, error) {
	k, err := indexArg("list-tail", args[1])
	if err != nil {
		return nil, err
	}
	d, err := listTail("list-tail", ToDatum(args[0]), k)
	if err != nil {
		return nil, err
	}
	return ToExpression(d), nil
}

func builtinListRef(env *Env, args []Expression) (Expression, error) {
	k, err := indexArg("list-ref", args[1])
	if err != nil {
		return nil, err
	}
	d, err := listTail("list-ref", ToDatum(args[0]), k)
	if err != nil {
		return nil, err
	}
	p, ok := d.(*Pair)
	if !ok {
		return nil, rangeError("list-ref", k, k)
	}
	return ToExpression(p.Car), nil
}

// comparator returns the equivalence used by member and assoc, honoring an
// optional procedure argument.
func comparator(name string, env *Env, args []Expression, dflt func(a, b Datum) bool) (func(a, b Datum) (bool, error), error) {
	if len(args) <= 2 {
		return func(a, b Datum) (bool, error) { return dflt(a, b), nil }, nil
	}
	if len(args) > 3 {
		return nil, ArgumentCardinality(name, 2, 3, len(args))
	}
	fn, err := callableArg(name, args[2])
	if err != nil {
		return nil, err
	}
	return func(a, b Datum) (bool, error) {
		v, err := Apply(env, fn, []Expression{ToExpression(a), ToExpression(b)})
		if err != nil {
			return false, err
		}
		return IsTrue(v), nil
	}, nil
}

func memberBuiltin(name string, eq func(a, b Datum) bool) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		same, err := comparator(name, env, args, eq)
		if err != nil {
			return nil, err
		}
		obj := ToDatum(args[0])
		d := ToDatum(args[1])
		for {
			p, ok := d.(*Pair)
			if !ok {
				if !IsNull(d) {
					return nil, UnexpectedType(name, "list", typeOf(args[1]))
				}
				return Boolean(false), nil
			}
			match, err := same(obj, p.Car)
			if err != nil {
				return nil, err
			}
			if match {
				return Quotation{p}, nil
			}
			d = p.Cdr
		}
	}
}

func assocBuiltin(name string, eq func(a, b Datum) bool) Builtin {
	return func(env *Env, args []Expression) (Expression, error) {
		same, err := comparator(name, env, args, eq)
		if err != nil {
			return nil, err
		}
		obj := ToDatum(args[0])
		entries, err := listArg(name, args[1])
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			p, ok := e.(*Pair)
			if !ok {
				return nil, UnexpectedType(name, "association list", typeOf(args[1]))
			}
			match, err := same(obj, p.Car)
			if err != nil {
				return nil, err
			}
			if match {
				return Quotation{p}, nil
			}
		}
		return Boolean(false), nil
	}
}

func builtinListCopy(env *Env, args []Expression) (Expression, error) {
	return ToExpression(CopyList(ToDatum(args[0]))), nil
}
