// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schemer",
	Short: "schemer — an embeddable Scheme interpreter",
	Long: `schemer is a Scheme interpreter implemented in Go, with a separate SECD
virtual machine for compiled code.

Getting started:
  schemer run file.scm            Run a Scheme source file
  schemer run -e '(+ 1 2)' -p     Evaluate an expression and print it
  schemer repl                    Start an interactive REPL
  schemer doc car                 Show documentation for a procedure
  schemer doc -L '(scheme char)'  List the exports of a library
  schemer vm run prog.secd        Run SECD assembly or a binary code file

Language overview:
  Numbers form a tower of exact integers, rationals, reals and complexes
  with an inexact (floating point) variant of each.  #f is the only false
  value.  Libraries such as (scheme char) and (scheme write) are imported
  into the REPL and into programs run from the command line.

Configuration is read from $HOME/.schemer.yaml or the file given with
--config.  Every key may also be set through a SCHEMER_ environment
variable, e.g. SCHEMER_MAX_STEPS=100000.

Keys:
  log-level               logrus level of the runtime logger (warning)
  color                   auto, always or never
  max-depth               maximum procedure call depth (10000, 0 is unbounded)
  max-steps               maximum evaluation steps (0 is unbounded)
  display.long-booleans   print #true/#false
  display.long-quotes     print (quote x) instead of 'x`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.schemer.yaml)")
	rootCmd.PersistentFlags().String("color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().String("log-level", "warning",
		"Level of runtime log messages written to stderr.")
	rootCmd.PersistentFlags().Int("max-depth", 10000,
		"Maximum procedure call depth. Zero means unbounded.")
	rootCmd.PersistentFlags().Int64("max-steps", 0,
		"Maximum evaluation steps per top-level form. Zero means unbounded.")
	for _, name := range []string{"color", "log-level", "max-depth", "max-steps"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	viper.SetDefault("display.long-booleans", false)
	viper.SetDefault("display.long-quotes", false)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".schemer" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".schemer")
		}
	}

	viper.SetEnvPrefix("schemer")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	err := viper.ReadInConfig()
	switch {
	case err == nil:
		newLogger().WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	case cfgFile != "":
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
