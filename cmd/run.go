// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tessellate/schemer/scheme"
)

// errReported is returned once an error has been rendered for the user.
var errReported = errors.New("evaluation failed")

type runOptions struct {
	expression bool
	print      bool
	trace      string
	callgrind  string
	excludes   []string
}

// RunCommand returns the run command.
func RunCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var ro runOptions
	cmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run scheme code",
		Long: `Run scheme code supplied via the command line or files.

Files are evaluated in order in a single top-level environment with every
standard library imported.  An argument ending in "/..." names every .scm
and .ss file below a directory.

Examples:
  schemer run prog.scm
  schemer run lib.scm main.scm
  schemer run src/... --exclude vendor
  schemer run -e '(define x 4)' '(* x x)' -p
  schemer run --trace opentelemetry --log-level info prog.scm
  schemer run --callgrind callgrind.out prog.scm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSources(cmd.Context(), cfg, ro, args)
			if errors.Is(err, errReported) {
				os.Exit(1)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&ro.expression, "expression", "e", false,
		"Interpret arguments as scheme expressions")
	cmd.Flags().BoolVarP(&ro.print, "print", "p", false,
		"Print expression values to stdout")
	cmd.Flags().StringVar(&ro.trace, "trace", "",
		`Trace procedure calls with "opentelemetry" or "opencensus", logging each span`)
	cmd.Flags().StringVar(&ro.callgrind, "callgrind", "",
		"Write a callgrind profile of procedure calls to the file")
	cmd.Flags().StringSliceVar(&ro.excludes, "exclude", nil,
		"Skip files matching the pattern when expanding dir/...")
	return cmd
}

// runSources evaluates args in a fresh environment.  Evaluation errors are
// rendered to stderr and reported as errReported.
func runSources(ctx context.Context, cfg *cmdConfig, ro runOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := cfg.newEnv(ctx)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	done, err := startProfiling(ctx, env, ro.trace, ro.callgrind, env.Runtime.Logger)
	if err != nil {
		return err
	}
	err = evalSources(env, cfg.stdout, cfg.stderr, ro, args)
	if perr := done(); perr != nil && err == nil {
		return perr
	}
	return err
}

func evalSources(env *scheme.Env, stdout, stderr io.Writer, ro runOptions, args []string) error {
	if ro.expression {
		for i, src := range args {
			name := fmt.Sprintf("<arg %d>", i+1)
			if err := evalOne(env, stdout, ro.print, func() (scheme.Expression, error) {
				return env.LoadString(name, src)
			}); err != nil {
				renderError(stderr, err, name, src)
				return errReported
			}
		}
		return nil
	}
	files, err := expandArgs(args, ro.excludes)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := evalOne(env, stdout, ro.print, func() (scheme.Expression, error) {
			return env.LoadFile(path)
		}); err != nil {
			renderError(stderr, err, path)
			return errReported
		}
	}
	return nil
}

func evalOne(env *scheme.Env, stdout io.Writer, printValue bool, load func() (scheme.Expression, error)) error {
	env.Runtime.ResetSteps()
	v, err := load()
	if err != nil {
		env.Runtime.Stack.Reset()
		return err
	}
	if !printValue {
		return nil
	}
	if _, ok := v.(scheme.Unspecified); ok {
		return nil
	}
	_, err = io.WriteString(stdout, strings.TrimRight(scheme.ToReprString(v, env.Runtime.Display), "\n")+"\n")
	return err
}

func init() {
	rootCmd.AddCommand(RunCommand())
}
