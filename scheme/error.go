// Copyright © 2018 The ELPS authors

package scheme

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tessellate/schemer/scheme/num"
)

// ErrorKind classifies an Error.
type ErrorKind uint

// ErrorKind constants.
const (
	KindInvalid ErrorKind = iota
	// KindParser wraps a reader failure.
	KindParser
	// KindValue reports malformed literal text of the kind named by Name.
	KindValue
	KindNumericTruncation
	KindTypeCast
	KindUnexpectedType
	// KindRuntime is an error raised by Scheme code with error or raise.
	KindRuntime
	KindFile
	KindUnboundVariable
	KindImproperList
	KindImmutableEnvironment
	KindBadFormSyntax
	KindProcedureArgumentCardinality
	KindBadLibraryName
	KindDivisionByZero
	KindUnsupportedDatum
	KindNotImplemented
	KindStackDepth
	KindStepLimit
	KindCancelled
	errorKindCount
)

var errorKindStrings = []string{
	KindInvalid:                      "error",
	KindParser:                       "parse-error",
	KindValue:                        "value-error",
	KindNumericTruncation:            "numeric-truncation",
	KindTypeCast:                     "type-cast",
	KindUnexpectedType:               "unexpected-type",
	KindRuntime:                      "runtime-error",
	KindFile:                         "file-error",
	KindUnboundVariable:              "unbound-variable",
	KindImproperList:                 "improper-list",
	KindImmutableEnvironment:         "immutable-environment",
	KindBadFormSyntax:                "bad-form-syntax",
	KindProcedureArgumentCardinality: "procedure-argument-cardinality",
	KindBadLibraryName:               "bad-library-name",
	KindDivisionByZero:               "division-by-zero",
	KindUnsupportedDatum:             "unsupported-datum",
	KindNotImplemented:               "not-implemented",
	KindStackDepth:                   "stack-depth-exceeded",
	KindStepLimit:                    "step-limit-exceeded",
	KindCancelled:                    "cancelled",
}

func (k ErrorKind) String() string {
	if k >= errorKindCount {
		return errorKindStrings[KindInvalid]
	}
	return errorKindStrings[k]
}

// RuntimeSource tags the origin of a KindRuntime error.
type RuntimeSource uint8

// RuntimeSource constants.
const (
	SourceOther RuntimeSource = iota
	SourceRead
	SourceFile
)

func (s RuntimeSource) String() string {
	switch s {
	case SourceRead:
		return "read-error"
	case SourceFile:
		return "file-error"
	}
	return "other"
}

// Error is the error type returned by evaluation.  Which fields are set
// depends on Kind.
type Error struct {
	Kind ErrorKind
	// Name is the offending identifier, callee, library or literal kind.
	Name     string
	Message  string
	Expected string
	Actual   string
	// From and To are the numeric kinds of a failed conversion.
	From string
	To   string
	// Min, Max and Given describe an arity failure.  Max is negative for a
	// variadic callee.
	Min   int
	Max   int
	Given int
	// Source and Irritants describe a KindRuntime error.
	Source    RuntimeSource
	Irritants []Datum
	// Payload is the object passed to raise, if any.
	Payload Expression
	// Stack is a copy of the call stack when the error was signaled.
	Stack *CallStack
	Err   error
}

// Sentinel errors for use with errors.Is.  They match any *Error of the same
// kind.
var (
	ErrParser                       = &Error{Kind: KindParser}
	ErrValue                        = &Error{Kind: KindValue}
	ErrNumericTruncation            = &Error{Kind: KindNumericTruncation}
	ErrTypeCast                     = &Error{Kind: KindTypeCast}
	ErrUnexpectedType               = &Error{Kind: KindUnexpectedType}
	ErrRuntime                      = &Error{Kind: KindRuntime}
	ErrFile                         = &Error{Kind: KindFile}
	ErrUnboundVariable              = &Error{Kind: KindUnboundVariable}
	ErrImproperList                 = &Error{Kind: KindImproperList}
	ErrImmutableEnvironment         = &Error{Kind: KindImmutableEnvironment}
	ErrBadFormSyntax                = &Error{Kind: KindBadFormSyntax}
	ErrProcedureArgumentCardinality = &Error{Kind: KindProcedureArgumentCardinality}
	ErrBadLibraryName               = &Error{Kind: KindBadLibraryName}
	ErrDivisionByZero               = &Error{Kind: KindDivisionByZero}
	ErrUnsupportedDatum             = &Error{Kind: KindUnsupportedDatum}
	ErrNotImplemented               = &Error{Kind: KindNotImplemented}
	ErrStackDepth                   = &Error{Kind: KindStackDepth}
	ErrStepLimit                    = &Error{Kind: KindStepLimit}
	ErrCancelled                    = &Error{Kind: KindCancelled}
)

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	msg := e.baseMessage()
	if e.Err != nil && (e.Kind == KindParser || e.Kind == KindFile) {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) baseMessage() string {
	switch e.Kind {
	case KindParser:
		if e.Message != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Message)
		}
		return e.Kind.String()
	case KindValue:
		return fmt.Sprintf("invalid %s: %q", e.Name, e.Actual)
	case KindNumericTruncation:
		return fmt.Sprintf("numeric truncation converting %s to %s", e.From, e.To)
	case KindTypeCast:
		return fmt.Sprintf("cannot cast %s to %s", e.From, e.To)
	case KindUnexpectedType:
		prefix := ""
		if e.Name != "" {
			prefix = e.Name + ": "
		}
		if e.Actual == "" {
			return fmt.Sprintf("%sexpected %s", prefix, e.Expected)
		}
		return fmt.Sprintf("%sexpected %s but got %s", prefix, e.Expected, e.Actual)
	case KindRuntime:
		return e.runtimeMessage()
	case KindFile:
		return fmt.Sprintf("file-error: %s", e.Name)
	case KindUnboundVariable:
		return fmt.Sprintf("unbound variable: %s", e.Name)
	case KindImproperList:
		if e.Name != "" {
			return fmt.Sprintf("%s: improper list", e.Name)
		}
		return "improper list"
	case KindImmutableEnvironment:
		return fmt.Sprintf("immutable environment: %s", e.Name)
	case KindBadFormSyntax:
		return fmt.Sprintf("bad syntax in %s: %s", e.Name, e.Message)
	case KindProcedureArgumentCardinality:
		return fmt.Sprintf("%s: %s", e.Name, arityMessage(e.Min, e.Max, e.Given))
	case KindBadLibraryName:
		return fmt.Sprintf("unknown library: %s", e.Name)
	case KindDivisionByZero:
		return fmt.Sprintf("%s: division by zero", e.Name)
	case KindUnsupportedDatum:
		return fmt.Sprintf("cannot evaluate %s", e.Name)
	case KindNotImplemented:
		return fmt.Sprintf("%s: not implemented", e.Name)
	case KindStackDepth:
		return fmt.Sprintf("call stack exceeded maximum depth of %d", e.Max)
	case KindStepLimit:
		return fmt.Sprintf("evaluation exceeded %d steps", e.Max)
	case KindCancelled:
		return "evaluation cancelled"
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

func (e *Error) runtimeMessage() string {
	if e.Payload != nil && e.Message == "" {
		return fmt.Sprintf("raised: %s", ToReprString(e.Payload, DisplayFlags{}))
	}
	var b strings.Builder
	b.WriteString(e.Message)
	for _, x := range e.Irritants {
		b.WriteString(" ")
		b.WriteString(Repr(x, DisplayFlags{}))
	}
	return b.String()
}

func arityMessage(min, max, given int) string {
	switch {
	case max < 0:
		return fmt.Sprintf("expected at least %d arguments (got %d)", min, given)
	case min == max:
		return fmt.Sprintf("expected %d arguments (got %d)", min, given)
	}
	return fmt.Sprintf("expected between %d and %d arguments (got %d)", min, max, given)
}

// WriteTrace writes the error and a stack trace to w
func (e *Error) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	if e.Stack != nil {
		if !wrote(e.Stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// UnboundVariable returns a KindUnboundVariable error for id.
func UnboundVariable(id Identifier) *Error {
	return &Error{Kind: KindUnboundVariable, Name: id.Name()}
}

// UnexpectedType returns a KindUnexpectedType error.  actual may be empty
// when it is not known.
func UnexpectedType(name, expected string, actual Type) *Error {
	e := &Error{Kind: KindUnexpectedType, Name: name, Expected: expected}
	if actual != TypeInvalid {
		e.Actual = actual.String()
	}
	return e
}

// BadFormSyntax returns a KindBadFormSyntax error.
func BadFormSyntax(name, msg string) *Error {
	return &Error{Kind: KindBadFormSyntax, Name: name, Message: msg}
}

// ArgumentCardinality returns a KindProcedureArgumentCardinality error.
func ArgumentCardinality(name string, min, max, given int) *Error {
	return &Error{Kind: KindProcedureArgumentCardinality, Name: name, Min: min, Max: max, Given: given}
}

// NotImplemented returns a KindNotImplemented error for name.
func NotImplemented(name string) *Error {
	return &Error{Kind: KindNotImplemented, Name: name}
}

// RuntimeError returns an error as raised by the Scheme procedure error.
func RuntimeError(source RuntimeSource, msg string, irritants ...Datum) *Error {
	return &Error{Kind: KindRuntime, Source: source, Message: msg, Irritants: irritants}
}

// ParserError wraps a reader failure.
func ParserError(msg string, cause error) *Error {
	return &Error{Kind: KindParser, Message: msg, Err: cause}
}

// FileError wraps an I/O failure on the named file.
func FileError(name string, cause error) *Error {
	return &Error{Kind: KindFile, Name: name, Err: cause}
}

// NumericError converts an error from the numeric tower to an *Error of the
// matching kind.  name is the operation that failed.
func NumericError(name string, err error) error {
	var nerr *num.Error
	if !errors.As(err, &nerr) {
		return err
	}
	e := &Error{Name: name, From: nerr.From.String(), To: nerr.To.String(), Err: err}
	switch nerr.Code {
	case num.CodeTruncation:
		e.Kind = KindNumericTruncation
	case num.CodeTypeCast:
		e.Kind = KindTypeCast
	case num.CodeDivisionByZero:
		e.Kind = KindDivisionByZero
		e.Err = nil
	case num.CodeMalformed:
		e.Kind = KindValue
		e.Name = "number"
		e.Actual = nerr.Text
		e.Err = nil
	case num.CodeDomain:
		e.Kind = KindUnexpectedType
		e.Expected = "real number"
		e.Actual = nerr.From.String()
		e.Err = nil
	default:
		e.Kind = KindValue
		e.Name = "number"
		e.Actual = nerr.Error()
		e.Err = nil
	}
	return e
}

// ErrorObject is a condition value, the payload bound by guard when the
// raised object is not itself a Scheme value.
type ErrorObject struct {
	Err *Error
}

// Message returns the error message without irritants.
func (o ErrorObject) Message() string {
	if o.Err.Kind == KindRuntime {
		return o.Err.Message
	}
	return o.Err.Error()
}

// IrritantList returns the irritants as a proper list.
func (o ErrorObject) IrritantList() Datum {
	return List(o.Err.Irritants...)
}

func (ErrorObject) Type() Type { return TypeErrorObject }

func (o ErrorObject) String() string {
	return fmt.Sprintf("#<error-object %s>", stringRepr(o.Err.Error()))
}

func (ErrorObject) datum()      {}
func (ErrorObject) expression() {}
