// Copyright © 2018 The ELPS authors

// Package parser reads Scheme source text into scheme.Datum values.
//
//	datum    := <simple> | <compound> | <label> | <ref>
//	simple   := <boolean> | <number> | <char> | <string> | <symbol>
//	compound := '(' <datum>* ')' | '(' <datum>+ '.' <datum> ')'
//	          | '#(' <datum>* ')' | '#u8(' <byte>* ')'
//	          | <prefix> <datum>
//	prefix   := "'" | '`' | ',' | ',@'
//	label    := '#' /[0-9]+/ '=' <datum>
//	ref      := '#' /[0-9]+/ '#'
//
// Line comments start with ';', block comments are delimited by '#|' and
// '|#', and '#;' comments out the datum following it.  Square brackets may
// be used in place of parentheses.
package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/tessellate/schemer/scheme"
)

// SyntaxError describes malformed source text.
type SyntaxError struct {
	// Line is the 1-based line on which the reader stopped.
	Line int
	Msg  string
	// Incomplete is set when the text ended inside a datum, so that more
	// input could complete it.
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// IsIncomplete reports whether err was caused by input ending inside a
// datum.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	return errors.As(err, &serr) && serr.Incomplete
}

// NewReader returns a scheme.Reader.
func NewReader() scheme.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]scheme.Datum, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ds, _, err := Parse(b)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ParseDatum parses text containing exactly one datum.
func ParseDatum(text string) (scheme.Datum, error) {
	ds, _, err := Parse([]byte(text))
	if err != nil {
		return nil, err
	}
	switch len(ds) {
	case 1:
		return ds[0], nil
	case 0:
		return nil, &SyntaxError{Msg: "no datum in input", Incomplete: true}
	}
	return nil, &SyntaxError{Msg: fmt.Sprintf("expected one datum but found %d", len(ds))}
}
