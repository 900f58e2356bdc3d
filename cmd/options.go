// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/schemelib"
)

// Option configures an exported command factory (DocCommand, VMCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env    *scheme.Env
	stdout io.Writer
	stderr io.Writer
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithEnv injects a fully configured environment.  The doc command answers
// queries against it instead of a fresh standard environment, so embedders
// can document their own libraries.
func WithEnv(env *scheme.Env) Option {
	return func(c *cmdConfig) { c.env = env }
}

// WithOutput redirects the regular and error output of a command.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *cmdConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// newLogger returns a logger writing to stderr at the configured level.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// envConfig translates the viper configuration into environment options.
func envConfig(ctx context.Context) []scheme.Config {
	cfg := []scheme.Config{
		scheme.WithReader(parser.NewReader()),
		scheme.WithLogger(newLogger()),
		scheme.WithMaxDepth(viper.GetInt("max-depth")),
		scheme.WithMaxSteps(viper.GetInt64("max-steps")),
		scheme.WithDisplayFlags(scheme.DisplayFlags{
			LongBooleans: viper.GetBool("display.long-booleans"),
			LongQuotes:   viper.GetBool("display.long-quotes"),
		}),
	}
	if ctx != nil {
		cfg = append(cfg, scheme.WithContext(ctx))
	}
	return cfg
}

// newEnv returns a top-level environment with every standard library
// imported and the configuration applied.
func (c *cmdConfig) newEnv(ctx context.Context) (*scheme.Env, error) {
	if c.env != nil {
		return c.env, nil
	}
	cfg := append(envConfig(ctx),
		scheme.WithStdout(c.stdout),
		scheme.WithStderr(c.stderr))
	return schemelib.NewEnv(cfg...)
}
