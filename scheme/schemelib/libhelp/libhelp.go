// Copyright © 2021 The ELPS authors

// Package libhelp implements the (schemer help) library of interactive
// documentation.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib/internal/libutil"
)

// DefaultLibraryName is the library name used by LoadLibrary.
const DefaultLibraryName = "(schemer help)"

// MissingDoc describes a binding with no documentation.
type MissingDoc struct {
	// Library is the registry name of the library exporting the binding.
	Library string
	// Kind is "procedure" or "form".
	Kind string
	Name string
}

// CheckMissing reports callables without documentation in every library
// registered with the runtime of env.
func CheckMissing(env *scheme.Env) []MissingDoc {
	var missing []MissingDoc
	for _, lib := range env.Runtime.Registry.Names() {
		ex, err := env.Runtime.Registry.Lookup(lib)
		if err != nil {
			continue
		}
		for _, id := range ex.Names() {
			v, _ := ex.Get(id)
			c, ok := v.(scheme.Callable)
			if !ok || strings.TrimSpace(c.Doc()) != "" {
				continue
			}
			missing = append(missing, MissingDoc{Library: lib, Kind: c.Type().String(), Name: id.Name()})
		}
	}
	return missing
}

// LoadLibrary registers (schemer help) with the runtime of env.
func LoadLibrary(env *scheme.Env) error {
	env.Runtime.Registry.Define(DefaultLibraryName, Exports())
	return nil
}

// Exports returns the bindings of (schemer help).
func Exports() *scheme.Exports {
	ex := scheme.ExportCallables(forms...)
	for _, fn := range builtins {
		ex.Set(fn.ID(), fn)
	}
	return ex
}

var forms = []scheme.Callable{
	scheme.NewForm("help", scheme.Formals("name"), formHelp,
		`
		Prints documentation for the binding of name.  Procedures and forms
		have their signature and any docstring rendered.  Other values have
		their type and current value printed.
		`),
	scheme.NewForm("help-library", scheme.Formals("library-name"), formHelpLibrary,
		`
		Prints documentation for every export of the named library, for
		example (help-library (scheme char)).
		`),
}

var builtins = []*scheme.Procedure{
	libutil.FunctionDoc("help-libraries", scheme.Formals(), builtinHelpLibraries,
		`Lists the libraries registered with the runtime and their sizes.`),
	libutil.FunctionDoc("apropos", scheme.Formals("substring"), builtinApropos,
		`Returns a sorted list of the visible identifiers whose names contain
		substring.`),
	libutil.FunctionDoc("signature", scheme.Formals("callable"), builtinSignature,
		`Returns the prototype of a procedure or form as a string, such as
		"(list-tail list k)".`),
}

func formHelp(env *scheme.Env, args []scheme.Datum) (scheme.Expression, error) {
	id, ok := args[0].(scheme.Identifier)
	if !ok {
		return nil, scheme.UnexpectedType("help", "symbol", args[0].Type())
	}
	if err := RenderVar(env.Runtime.Stdout, env, id); err != nil {
		return nil, err
	}
	return scheme.Unspecified{}, nil
}

func formHelpLibrary(env *scheme.Env, args []scheme.Datum) (scheme.Expression, error) {
	name, err := scheme.LibraryName(args[0])
	if err != nil {
		return nil, err
	}
	if err := RenderLibrary(env.Runtime.Stdout, env, name); err != nil {
		return nil, err
	}
	return scheme.Unspecified{}, nil
}

func builtinHelpLibraries(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	if err := RenderLibraryList(env.Runtime.Stdout, env); err != nil {
		return nil, scheme.FileError("stdout", err)
	}
	return scheme.Unspecified{}, nil
}

func builtinApropos(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	sub, err := libutil.StringArg("apropos", args[0])
	if err != nil {
		return nil, err
	}
	var matches []scheme.Datum
	for _, id := range env.VisibleNames() {
		if strings.Contains(id.Name(), sub) {
			matches = append(matches, id)
		}
	}
	return scheme.ToExpression(scheme.List(matches...)), nil
}

func builtinSignature(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
	c, ok := args[0].(scheme.Callable)
	if !ok {
		return nil, libutil.TypeError("signature", "procedure or form", args[0])
	}
	return scheme.String(c.Signature()), nil
}

// RenderLibraryList writes a summary of all registered libraries to w.
func RenderLibraryList(w io.Writer, env *scheme.Env) error {
	reg := env.Runtime.Registry
	for _, name := range reg.Names() {
		ex, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %-20s (%d exports)\n", name, ex.Len()); err != nil {
			return err
		}
	}
	return nil
}

// RenderLibrary writes to w formatted documentation for the exports of the
// named library.  The exact formatting is subject to change.
func RenderLibrary(w io.Writer, env *scheme.Env, name string) error {
	ex, err := env.Runtime.Registry.Lookup(name)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "library %s\n\n", name); err != nil {
		return err
	}
	for i, id := range ex.SortedNames() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		v, _ := ex.Get(id)
		if err := render(w, id, v); err != nil {
			return fmt.Errorf("%s: %w", id.Name(), err)
		}
	}
	return nil
}

// RenderVar writes to w formatted documentation for the value bound to id
// in env.  The exact formatting is subject to change.
func RenderVar(w io.Writer, env *scheme.Env, id scheme.Identifier) error {
	v, ok := env.Get(id)
	if !ok {
		return scheme.UnboundVariable(id)
	}
	return render(w, id, v)
}

func render(w io.Writer, id scheme.Identifier, v scheme.Expression) error {
	c, ok := v.(scheme.Callable)
	if !ok {
		_, err := fmt.Fprintf(w, "%s %s %s\n", scheme.ToDatum(v).Type(), id, scheme.ToReprString(v, scheme.DisplayFlags{}))
		return err
	}
	sig := c.Signature()
	if c.ID() != id {
		sig = "(" + id.String() + strings.TrimPrefix(sig, "("+c.ID().String())
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", c.Type(), sig); err != nil {
		return err
	}
	doc := cleanDocstring(c.Doc())
	if doc == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, doc)
	return err
}

func cleanDocstring(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(strings.TrimSpace(dedentDoc(doc)), 72), 2)
	doc = strings.TrimSuffix(doc, "\n")
	return doc
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// The first line of a raw string literal often has less indentation than
// the lines continuing it, so it is excluded when measuring.  Tabs count
// as four spaces.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")

	minWS := -1
	start := 0
	if len(lines) > 1 {
		start = 1
	}
	for _, line := range lines[start:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	if minWS <= 0 {
		return strings.TrimLeft(lines[0], " ") + "\n" + strings.Join(lines[1:], "\n")
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else if len(lines[i]) >= minWS {
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
