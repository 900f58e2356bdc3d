// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/vm"
)

// VMCommand returns the vm command and its asm, disasm and run
// subcommands.
func VMCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	cmd := &cobra.Command{
		Use:   "vm",
		Short: "Assemble, inspect and run SECD machine code",
		Long: `Work with programs for the SECD virtual machine.

Assembly is written as a list of instructions read by the scheme reader.
SEL takes two nested instruction lists, LDF takes one, and LD takes an
address (level . index) into the environment:

  (NIL LDC 2 CONS LDC 1 CONS
   LDF (LD (0 . 0) LD (0 . 1) ADD RTN)
   AP PRINT STOP)

Binary code files start with the bytes "\x89SECD\r\n\x1a".  The run and
disasm subcommands accept either format.`,
	}

	var output string
	asm := &cobra.Command{
		Use:   "asm [flags] FILE",
		Short: "Assemble SECD assembly into a binary code file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := loadCode(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], ".secd") + ".secdc"
			}
			var buf bytes.Buffer
			if err := vm.WriteCode(&buf, code); err != nil {
				return err
			}
			return os.WriteFile(output, buf.Bytes(), 0o644) //nolint:gosec // output is a user-chosen artifact
		},
	}
	asm.Flags().StringVarP(&output, "output", "o", "",
		"Output file (default is FILE with a .secdc extension)")

	disasm := &cobra.Command{
		Use:   "disasm FILE",
		Short: "Print the assembly of a code file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := loadCode(args[0])
			if err != nil {
				return err
			}
			return vm.Disassemble(cfg.stdout, code)
		},
	}

	var printTop bool
	run := &cobra.Command{
		Use:   "run [flags] FILE",
		Short: "Run a code file on the SECD machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMachine(cmd, cfg, args[0], printTop)
			if errors.Is(err, errReported) {
				os.Exit(1)
			}
			return err
		},
	}
	run.Flags().BoolVarP(&printTop, "print", "p", false,
		"Print the value left on top of the stack")

	cmd.AddCommand(asm, disasm, run)
	return cmd
}

// loadCode reads a binary code file or assembles a text one.
func loadCode(path string) (vm.Code, error) {
	src, err := os.ReadFile(path) //nolint:gosec // path is a user-specified program
	if err != nil {
		return nil, err
	}
	if vm.IsBinary(src) {
		code, err := vm.ReadCode(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return code, nil
	}
	code, err := vm.AssembleText(path, bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return code, nil
}

func runMachine(cmd *cobra.Command, cfg *cmdConfig, path string, printTop bool) error {
	code, err := loadCode(path)
	if err != nil {
		return err
	}
	display := scheme.DisplayFlags{
		LongBooleans: viper.GetBool("display.long-booleans"),
		LongQuotes:   viper.GetBool("display.long-quotes"),
	}
	m := vm.New(code,
		vm.WithStdout(cfg.stdout),
		vm.WithLogger(newLogger().WithField("program", path)),
		vm.WithMaxSteps(viper.GetInt("max-steps")),
		vm.WithDisplayFlags(display))
	v, err := m.Run(cmd.Context())
	if err != nil {
		renderError(cfg.stderr, err, path)
		return errReported
	}
	if printTop && v != nil {
		_, err = io.WriteString(cfg.stdout, scheme.Repr(v, display)+"\n")
	}
	return err
}

func init() {
	rootCmd.AddCommand(VMCommand(WithOutput(os.Stdout, os.Stderr)))
}
