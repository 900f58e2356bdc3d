// Copyright © 2024 The ELPS authors

package num

import "fmt"

// ErrorCode classifies numeric failures.
type ErrorCode uint8

// ErrorCode constants.
const (
	CodeInvalid ErrorCode = iota
	// CodeTypeCast indicates a conversion between kinds that cannot be
	// performed at all, such as a NaN becoming exact.
	CodeTypeCast
	// CodeTruncation indicates a conversion that would lose precision.
	CodeTruncation
	CodeDivisionByZero
	// CodeDomain indicates an operation undefined for its operands, such as
	// ordering complex numbers.
	CodeDomain
	// CodeMalformed indicates numeric literal text that could not be parsed.
	CodeMalformed
	// CodeUnordered is returned when comparing against a NaN.
	CodeUnordered
)

var codeStrings = []string{
	CodeInvalid:        "invalid",
	CodeTypeCast:       "type-cast",
	CodeTruncation:     "numeric-truncation",
	CodeDivisionByZero: "division-by-zero",
	CodeDomain:         "domain-error",
	CodeMalformed:      "malformed-number",
	CodeUnordered:      "unordered",
}

func (c ErrorCode) String() string {
	if int(c) >= len(codeStrings) {
		return codeStrings[CodeInvalid]
	}
	return codeStrings[c]
}

// Error is returned by every fallible operation in the package.
type Error struct {
	Code ErrorCode
	From Kind
	To   Kind
	// Op names the operation for domain and division errors.
	Op string
	// Text holds the offending literal for CodeMalformed.
	Text string
}

// Sentinel errors for use with errors.Is.  They match any *Error with the
// same code.
var (
	ErrTypeCast       = &Error{Code: CodeTypeCast}
	ErrTruncation     = &Error{Code: CodeTruncation}
	ErrDivisionByZero = &Error{Code: CodeDivisionByZero}
	ErrDomain         = &Error{Code: CodeDomain}
	ErrMalformed      = &Error{Code: CodeMalformed}
	ErrUnordered      = &Error{Code: CodeUnordered}
)

func (e *Error) Error() string {
	switch e.Code {
	case CodeTypeCast:
		return fmt.Sprintf("cannot cast %v to %v", e.From, e.To)
	case CodeTruncation:
		return fmt.Sprintf("numeric truncation converting %v to %v", e.From, e.To)
	case CodeDivisionByZero:
		return fmt.Sprintf("%s: division by zero", e.Op)
	case CodeDomain:
		return fmt.Sprintf("%s: not defined for %v", e.Op, e.From)
	case CodeMalformed:
		return fmt.Sprintf("malformed number: %q", e.Text)
	case CodeUnordered:
		return "comparison with NaN"
	}
	return "numeric error"
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func castError(from, to Kind) error {
	return &Error{Code: CodeTypeCast, From: from, To: to}
}

func truncationError(from, to Kind) error {
	return &Error{Code: CodeTruncation, From: from, To: to}
}

func domainError(op string, k Kind) error {
	return &Error{Code: CodeDomain, Op: op, From: k}
}

func divisionByZero(op string) error {
	return &Error{Code: CodeDivisionByZero, Op: op}
}
