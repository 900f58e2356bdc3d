// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tessellate/schemer/diagnostic"
	"github.com/tessellate/schemer/docs"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib/libhelp"
)

// DocCommand returns a doc command.  Embedders that register their own
// libraries pass WithEnv so the command documents them.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		library    bool
		sourceFile string
		list       bool
		missing    bool
		apropos    bool
		guide      bool
	)
	cmd := &cobra.Command{
		Use:   "doc [flags] QUERY",
		Short: "Show documentation for procedures, forms and libraries",
		Long: `Show built-in documentation for schemer procedures, special forms and
libraries.

By default, looks up the binding of an identifier in an environment with
every standard library imported.  Use -L to document all exports of a
library.  Use -f to load a source file first (useful for documenting your
own code).

Examples:
  schemer doc car                        Show docs for car
  schemer doc lambda                     Show docs for the lambda form
  schemer doc -L '(scheme char)'         Document the (scheme char) library
  schemer doc -f mylib.scm my-proc       Load a file, then show docs for my-proc
  schemer doc --apropos string           List bindings containing "string"
  schemer doc -l                         List the registered libraries
  schemer doc --missing                  List procedures without documentation
  schemer doc --guide                    Print the language guide`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cfg.newEnv(cmd.Context())
			if err != nil {
				return fmt.Errorf("language initialization failure: %w", err)
			}
			if sourceFile != "" {
				if _, err := env.LoadFile(sourceFile); err != nil {
					renderError(cfg.stderr, err, sourceFile)
					return errors.New("failed to load source file")
				}
			}
			out := bufio.NewWriter(cfg.stdout)
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			switch {
			case guide:
				_, err := io.WriteString(out, docs.LangGuide)
				return err
			case list:
				return libhelp.RenderLibraryList(out, env)
			case missing:
				return docMissing(out, env)
			}
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one query but got %d", len(args))
			}
			switch {
			case library:
				return libhelp.RenderLibrary(out, env, args[0])
			case apropos:
				return docApropos(out, env, args[0])
			}
			id, err := scheme.NewIdentifier(args[0])
			if err != nil {
				return err
			}
			return libhelp.RenderVar(out, env, id)
		},
	}
	cmd.Flags().BoolVarP(&library, "library", "L", false,
		"Interpret the argument as a library name, e.g. '(scheme char)'.")
	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a scheme source file before querying documentation.")
	cmd.Flags().BoolVarP(&list, "list", "l", false,
		"List all libraries registered in the runtime.")
	cmd.Flags().BoolVar(&missing, "missing", false,
		"List exported procedures and forms that lack documentation.")
	cmd.Flags().BoolVar(&apropos, "apropos", false,
		"List visible identifiers containing the argument.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the language guide.")
	return cmd
}

// docMissing reports each undocumented callable as a warning.
func docMissing(w io.Writer, env *scheme.Env) error {
	var diags []diagnostic.Diagnostic
	for _, m := range libhelp.CheckMissing(env) {
		diags = append(diags, diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Code:     "missing-doc",
			Message:  fmt.Sprintf("%s %s has no documentation", m.Kind, m.Name),
			Notes:    []string{"exported by " + m.Library},
		})
	}
	return newRenderer().RenderAll(w, diags)
}

func docApropos(w io.Writer, env *scheme.Env, sub string) error {
	for _, id := range env.VisibleNames() {
		if !strings.Contains(id.Name(), sub) {
			continue
		}
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(DocCommand(WithOutput(os.Stdout, os.Stderr)))
}
