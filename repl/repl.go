// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop over a
// scheme top-level environment.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/tessellate/schemer/diagnostic"
	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib"
)

// HistoryFileName is the name of the history file in the home directory.
const HistoryFileName = ".schemer_history"

type config struct {
	stdin   io.ReadCloser
	stdout  io.Writer
	stderr  io.Writer
	color   diagnostic.ColorMode
	history string
	env     []scheme.Config
}

func newConfig(opts ...Option) *config {
	config := &config{history: historyPath()}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option configures the REPL.
type Option func(*config)

// WithStdin overrides the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout overrides the destination of display and write.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr overrides the output of the REPL: prompts, results and
// errors.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode of error diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithHistoryFile sets the history file.  An empty path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithEnvConfig adds configuration for the environment created by RunRepl.
func WithEnvConfig(cfg ...scheme.Config) Option {
	return func(c *config) {
		c.env = append(c.env, cfg...)
	}
}

// RunRepl runs a repl in a new top-level environment with every standard
// library imported.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envOpts := []scheme.Config{
		scheme.WithReader(parser.NewReader()),
	}
	if cfg.stdout != nil {
		envOpts = append(envOpts, scheme.WithStdout(cfg.stdout))
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, scheme.WithStderr(cfg.stderr))
	}
	env, err := schemelib.NewEnv(append(envOpts, cfg.env...)...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a repl with env as the top-level environment.  cont is the
// prompt shown while a datum is incomplete.  RunEnv returns when input
// ends.
func RunEnv(env *scheme.Env, prompt, cont string, opts ...Option) error {
	if env.Parent() != nil {
		return fmt.Errorf("REPL environment is not a top-level environment")
	}
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	out := env.Runtime.Stderr

	ensureHistoryFilePermissions(cfg.history)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	renderer := &diagnostic.Renderer{Color: cfg.color}
	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadLine()
		if err == readline.ErrInterrupt {
			pending.Reset()
			continue
		}
		if err != nil {
			return nil
		}
		if pending.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		pending.WriteString(line)
		pending.WriteString("\n")
		exprs, err := env.Runtime.Reader.Read(diagnostic.StdinName, strings.NewReader(pending.String()))
		if err != nil {
			if parser.IsIncomplete(err) {
				continue
			}
			pending.Reset()
			renderError(renderer, out, err)
			continue
		}
		pending.Reset()
		for i, expr := range exprs {
			if !evalPrint(env, renderer, out, expr) {
				if skipped := len(exprs) - i - 1; skipped > 0 {
					_ = renderer.Render(out, diagnostic.Diagnostic{
						Severity: diagnostic.SeverityNote,
						Message:  fmt.Sprintf("%d remaining form(s) on the line were not evaluated", skipped),
					})
				}
				break
			}
		}
	}
}

// evalPrint evaluates expr and prints its value.  It reports whether
// evaluation succeeded.
func evalPrint(env *scheme.Env, renderer *diagnostic.Renderer, out io.Writer, expr scheme.Datum) bool {
	env.Runtime.ResetSteps()
	v, err := env.Eval(expr)
	if err != nil {
		env.Runtime.Stack.Reset()
		renderError(renderer, out, err)
		return false
	}
	if _, ok := v.(scheme.Unspecified); ok {
		return true
	}
	fmt.Fprintln(out, scheme.ToReprString(v, env.Runtime.Display)) //nolint:errcheck // best-effort REPL output
	return true
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFileName)
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // path is the user's history file
	if err != nil {
		return
	}
	f.Close()                //nolint:errcheck,gosec // opened only to create the file
	_ = os.Chmod(path, 0600) //nolint:gosec // best effort
}
