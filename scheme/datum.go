// Copyright © 2024 The ELPS authors

package scheme

import (
	"github.com/tessellate/schemer/scheme/num"
)

// Type is the runtime tag of a Datum or Expression.
type Type uint

// Type constants.
const (
	TypeInvalid Type = iota
	TypeBoolean
	TypeNumber
	TypeCharacter
	TypeString
	TypeSymbol
	TypeByteVector
	TypePair
	TypeVector
	TypeAbbreviation
	TypeLabeled
	TypeLabelRef
	TypeNull
	TypeQuotation
	TypeProcedure
	TypeForm
	TypeEnvironment
	TypeUnspecified
	TypeErrorObject
	TypeOpaque
	typeCount
)

var typeStrings = []string{
	TypeInvalid:      "INVALID",
	TypeBoolean:      "boolean",
	TypeNumber:       "number",
	TypeCharacter:    "char",
	TypeString:       "string",
	TypeSymbol:       "symbol",
	TypeByteVector:   "bytevector",
	TypePair:         "pair",
	TypeVector:       "vector",
	TypeAbbreviation: "abbreviation",
	TypeLabeled:      "labeled-datum",
	TypeLabelRef:     "datum-label",
	TypeNull:         "null",
	TypeQuotation:    "quotation",
	TypeProcedure:    "procedure",
	TypeForm:         "form",
	TypeEnvironment:  "environment",
	TypeUnspecified:  "unspecified",
	TypeErrorObject:  "error-object",
	TypeOpaque:       "opaque",
}

func (t Type) String() string {
	if t >= typeCount {
		return typeStrings[TypeInvalid]
	}
	return typeStrings[t]
}

// Datum is a node of source syntax as produced by the reader.  The set of
// implementations is closed.
//
// Runtime values (procedures, forms, environments) also implement Datum so
// that they can be stored inside lists and vectors.  Evaluating such a datum
// yields the value itself.
type Datum interface {
	Type() Type
	String() string
	datum()
}

// Expression is an evaluated runtime value.  The set of implementations is
// closed.  Every Expression other than Quotation is also a Datum.
type Expression interface {
	Type() Type
	String() string
	expression()
}

// Boolean is #t or #f.
type Boolean bool

// Number is a value from the numeric tower.
type Number struct {
	num.Number
}

// NewNumber wraps n.
func NewNumber(n num.Number) Number { return Number{n} }

// Int returns the exact integer x.
func Int(x int64) Number { return Number{num.NewInteger(x)} }

// Float returns the inexact real x.
func Float(x float64) Number { return Number{num.InexactReal(x)} }

// Character is a Unicode scalar value.
type Character rune

// String is an immutable Scheme string.
type String string

// ByteVector is a sequence of octets.
type ByteVector []byte

// Vector is literal vector data.  Elements are unevaluated datums.
type Vector []Datum

// Null is the empty list.  It is the only value with TypeNull.
type Null struct{}

// Unspecified is the result of operations evaluated only for effect.
type Unspecified struct{}

// Pair is a cons cell.  A *Pair is never empty; the empty list is Null.
type Pair struct {
	Car Datum
	Cdr Datum
}

// AbbreviationKind identifies a reader abbreviation prefix.
type AbbreviationKind uint8

// AbbreviationKind constants.
const (
	AbbrevQuote AbbreviationKind = iota
	AbbrevQuasiquote
	AbbrevUnquote
	AbbrevUnquoteSplicing
)

var abbrevForms = []string{
	AbbrevQuote:           "quote",
	AbbrevQuasiquote:      "quasiquote",
	AbbrevUnquote:         "unquote",
	AbbrevUnquoteSplicing: "unquote-splicing",
}

var abbrevPrefixes = []string{
	AbbrevQuote:           "'",
	AbbrevQuasiquote:      "`",
	AbbrevUnquote:         ",",
	AbbrevUnquoteSplicing: ",@",
}

// FormName returns the name of the special form the abbreviation stands for.
func (k AbbreviationKind) FormName() string { return abbrevForms[k] }

// Prefix returns the reader syntax of the abbreviation.
func (k AbbreviationKind) Prefix() string { return abbrevPrefixes[k] }

// Abbreviation is a prefixed datum such as 'x or ,@xs.
type Abbreviation struct {
	Kind  AbbreviationKind
	Datum Datum
}

// Labeled is a datum label definition, #N=datum.
type Labeled struct {
	Label int
	Datum Datum
}

// LabelRef is a datum label reference, #N#.
type LabelRef int

// Opaque carries a host value that has no Scheme syntax, such as a machine
// closure.  Opaque values are compared by identity.
type Opaque struct {
	Name  string
	Value interface{}
}

// NewOpaque wraps v.  name appears in the printed form #<name>.
func NewOpaque(name string, v interface{}) *Opaque {
	return &Opaque{Name: name, Value: v}
}

func (*Opaque) Type() Type       { return TypeOpaque }
func (o *Opaque) String() string { return "#<" + o.Name + ">" }
func (*Opaque) datum()           {}
func (*Opaque) expression()      {}

// Quotation is an unevaluated datum produced by quote.  Quotation is an
// Expression but not a Datum; ToDatum unwraps it.
type Quotation struct {
	Datum Datum
}

func (Boolean) Type() Type       { return TypeBoolean }
func (Number) Type() Type        { return TypeNumber }
func (Character) Type() Type     { return TypeCharacter }
func (String) Type() Type        { return TypeString }
func (ByteVector) Type() Type    { return TypeByteVector }
func (Vector) Type() Type        { return TypeVector }
func (Null) Type() Type          { return TypeNull }
func (Unspecified) Type() Type   { return TypeUnspecified }
func (*Pair) Type() Type         { return TypePair }
func (*Abbreviation) Type() Type { return TypeAbbreviation }
func (*Labeled) Type() Type      { return TypeLabeled }
func (LabelRef) Type() Type      { return TypeLabelRef }
func (Quotation) Type() Type     { return TypeQuotation }

func (b Boolean) String() string       { return Repr(b, DisplayFlags{}) }
func (n Number) String() string        { return n.Number.String() }
func (c Character) String() string     { return Repr(c, DisplayFlags{}) }
func (s String) String() string        { return Repr(s, DisplayFlags{}) }
func (b ByteVector) String() string    { return Repr(b, DisplayFlags{}) }
func (v Vector) String() string        { return Repr(v, DisplayFlags{}) }
func (Null) String() string            { return "()" }
func (Unspecified) String() string     { return "#<unspecified>" }
func (p *Pair) String() string         { return Repr(p, DisplayFlags{}) }
func (a *Abbreviation) String() string { return Repr(a, DisplayFlags{}) }
func (l *Labeled) String() string      { return Repr(l, DisplayFlags{}) }
func (l LabelRef) String() string      { return Repr(l, DisplayFlags{}) }
func (q Quotation) String() string     { return ToReprString(q, DisplayFlags{}) }

func (Boolean) datum()       {}
func (Number) datum()        {}
func (Character) datum()     {}
func (String) datum()        {}
func (ByteVector) datum()    {}
func (Vector) datum()        {}
func (Null) datum()          {}
func (Unspecified) datum()   {}
func (*Pair) datum()         {}
func (*Abbreviation) datum() {}
func (*Labeled) datum()      {}
func (LabelRef) datum()      {}

func (Boolean) expression()     {}
func (Number) expression()      {}
func (Character) expression()   {}
func (String) expression()      {}
func (ByteVector) expression()  {}
func (Vector) expression()      {}
func (Null) expression()        {}
func (Unspecified) expression() {}
func (Quotation) expression()   {}

// ToExpression converts a datum taken out of quoted data back into a value.
// Scalars, symbols, vectors and runtime values are their own expression;
// pairs and the other syntactic datums become a Quotation.
func ToExpression(d Datum) Expression {
	switch d := d.(type) {
	case *Pair, *Abbreviation, *Labeled, LabelRef:
		return Quotation{d}
	case Expression:
		return d
	}
	return Quotation{d}
}

// ToDatum returns the datum form of e, unwrapping a Quotation.
func ToDatum(e Expression) Datum {
	switch e := e.(type) {
	case Quotation:
		return e.Datum
	case Datum:
		return e
	}
	return Unspecified{}
}

// Canonical returns the expression form of e with a redundant Quotation
// removed, so that '5 and 5 compare equal.
func Canonical(e Expression) Expression {
	if q, ok := e.(Quotation); ok {
		return ToExpression(q.Datum)
	}
	return e
}

// IsTrue reports whether e counts as true.  Only #f is false.
func IsTrue(e Expression) bool {
	b, ok := e.(Boolean)
	return !ok || bool(b)
}

// IsFalse reports whether e is #f.
func IsFalse(e Expression) bool {
	return !IsTrue(e)
}
