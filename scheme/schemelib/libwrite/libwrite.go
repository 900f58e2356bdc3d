// Copyright © 2024 The ELPS authors

// Package libwrite implements the (scheme write) library.  Output goes to
// the Stdout writer of the calling runtime.
package libwrite

import (
	"io"

	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib/internal/libutil"
)

// DefaultLibraryName is the library name used by LoadLibrary.
const DefaultLibraryName = "(scheme write)"

// LoadLibrary registers (scheme write) with the runtime of env.
func LoadLibrary(env *scheme.Env) error {
	env.Runtime.Registry.Define(DefaultLibraryName, Exports())
	return nil
}

// Exports returns the bindings of (scheme write).
func Exports() *scheme.Exports {
	return libutil.Exports(builtins)
}

var builtins = []*scheme.Procedure{
	libutil.FunctionDoc("display", scheme.Formals("obj"), builtinDisplay,
		`Writes a human readable representation of obj.  Strings and
		characters are written without quotes or escapes.`),
	libutil.FunctionDoc("write", scheme.Formals("obj"), builtinWrite,
		`Writes the external representation of obj, which the reader would
		read back as an equal datum.`),
	libutil.FunctionDoc("write-simple", scheme.Formals("obj"), builtinWrite,
		`Same as write.`),
	libutil.FunctionDoc("write-shared", scheme.Formals("obj"), builtinWrite,
		`Same as write.  Shared structure is written as in the source.`),
	libutil.FunctionDoc("newline", scheme.Formals(), builtinNewline,
		`Writes an end of line.`),
	libutil.FunctionDoc("write-string", scheme.Formals("string", ".", "range"), builtinWriteString,
		`Writes the characters of string from start to end, which default
		to the whole string.`),
	libutil.FunctionDoc("write-char", scheme.Formals("char"), builtinWriteChar,
		`Writes char.`),
}

func output(env *scheme.Env, s string) (scheme.Expression, error) {
	w := env.Runtime.Stdout
	if w == nil {
		w = io.Discard
	}
	if _, err := io.WriteString(w, s); err != nil {
		return nil, scheme.FileError("stdout", err)
	}
	return scheme.Unspecified{}, nil
}

func builtinDisplay(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	return output(env, scheme.DisplayString(scheme.ToDatum(args[0]), env.Runtime.Display))
}

func builtinWrite(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	return output(env, scheme.Repr(scheme.ToDatum(args[0]), env.Runtime.Display))
}

func builtinNewline(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	return output(env, "\n")
}

func builtinWriteString(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	s, err := libutil.StringArg("write-string", args[0])
	if err != nil {
		return nil, err
	}
	rs := []rune(s)
	start, end := 0, len(rs)
	if len(args) > 3 {
		return nil, scheme.ArgumentCardinality("write-string", 1, 3, len(args))
	}
	if len(args) > 1 {
		if start, err = libutil.IntArg("write-string", args[1]); err != nil {
			return nil, err
		}
	}
	if len(args) > 2 {
		if end, err = libutil.IntArg("write-string", args[2]); err != nil {
			return nil, err
		}
	}
	if start < 0 || end > len(rs) || start > end {
		return nil, &scheme.Error{Kind: scheme.KindValue, Name: "write-string", Expected: "valid range", Actual: scheme.Int(int64(start)).String() + " to " + scheme.Int(int64(end)).String()}
	}
	return output(env, string(rs[start:end]))
}

func builtinWriteChar(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	c, err := libutil.CharArg("write-char", args[0])
	if err != nil {
		return nil, err
	}
	return output(env, string(c))
}
