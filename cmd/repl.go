// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tessellate/schemer/repl"
)

var replNoHistory bool

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive scheme REPL",
	Long: `Start an interactive read-eval-print loop.

All standard libraries are imported.  A datum may span several lines; the
prompt changes until it is complete.  Line editing, identifier completion
and command history (~/.schemer_history) are supported via readline.
Ctrl-C discards a partial datum and Ctrl-D exits.

Example REPL session:
  schemer> (+ 1 2)
  3
  schemer> (define (square x) (* x x))
  schemer> (square 1/3)
  1/9
  schemer> (exact->inexact 1/3)
  0.3333333333333333
  schemer> (help car)
  ...
  schemer> (apropos "string")
  ...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []repl.Option{
			repl.WithColor(colorMode()),
			repl.WithEnvConfig(envConfig(cmd.Context())...),
		}
		if replNoHistory {
			opts = append(opts, repl.WithHistoryFile(""))
		}
		return repl.RunRepl(filepath.Base(os.Args[0])+"> ", opts...)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replNoHistory, "no-history", false,
		"Do not read or write the history file.")
}
