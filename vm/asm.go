// Copyright © 2024 The ELPS authors

package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
)

// ErrAssembly is wrapped by every error returned from the assembler.
var ErrAssembly = errors.New("assembly error")

func asmError(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAssembly, fmt.Sprintf(format, v...))
}

// AssembleText reads assembly source from r.  The source is either a single
// list of instructions or a sequence of mnemonics and operands at top level:
//
//	(LDC 1 LDC 2 ADD PRINT STOP)
//
// SEL takes two lists, the true and false branches, and LDF takes a list,
// the function body.  LD takes a frame address written (i . j) or (i j).
func AssembleText(name string, r io.Reader) (Code, error) {
	ds, err := parser.NewReader().Read(name, r)
	if err != nil {
		return nil, err
	}
	if len(ds) == 1 {
		switch ds[0].(type) {
		case *scheme.Pair, scheme.Null:
			items, ok := scheme.Slice(ds[0])
			if !ok {
				return nil, asmError("program is an improper list")
			}
			ds = items
		}
	}
	return Assemble(ds)
}

// Assemble converts a flat sequence of mnemonics and operands into code.
func Assemble(ds []scheme.Datum) (Code, error) {
	var code Code
	for i := 0; i < len(ds); i++ {
		sym, ok := ds[i].(scheme.Identifier)
		if !ok {
			return nil, asmError("expected a mnemonic but got %s", scheme.Repr(ds[i], scheme.DisplayFlags{}))
		}
		op, ok := LookupOpcode(sym.Name())
		if !ok {
			return nil, asmError("unknown instruction %s", sym.Name())
		}
		operand := func() (scheme.Datum, error) {
			if i+1 >= len(ds) {
				return nil, asmError("%v: missing operand", op)
			}
			i++
			return ds[i], nil
		}
		in := Instruction{Op: op}
		switch op {
		case OpLdc:
			d, err := operand()
			if err != nil {
				return nil, err
			}
			in.Const = d
		case OpLd:
			d, err := operand()
			if err != nil {
				return nil, err
			}
			in.Level, in.Index, err = address(d)
			if err != nil {
				return nil, err
			}
		case OpSel:
			d, err := operand()
			if err != nil {
				return nil, err
			}
			if in.Then, err = block(op, d); err != nil {
				return nil, err
			}
			if d, err = operand(); err != nil {
				return nil, err
			}
			if in.Else, err = block(op, d); err != nil {
				return nil, err
			}
		case OpLdf:
			d, err := operand()
			if err != nil {
				return nil, err
			}
			if in.Body, err = block(op, d); err != nil {
				return nil, err
			}
		}
		code = append(code, in)
	}
	return code, nil
}

func block(op Opcode, d scheme.Datum) (Code, error) {
	items, ok := scheme.Slice(d)
	if !ok {
		return nil, asmError("%v: expected a list of instructions but got %s", op, scheme.Repr(d, scheme.DisplayFlags{}))
	}
	return Assemble(items)
}

// address decodes an LD operand, (i . j) or (i j).
func address(d scheme.Datum) (int, int, error) {
	bad := asmError("LD: bad address %s", scheme.Repr(d, scheme.DisplayFlags{}))
	p, ok := d.(*scheme.Pair)
	if !ok {
		return 0, 0, bad
	}
	second := p.Cdr
	if rest, ok := p.Cdr.(*scheme.Pair); ok {
		if !scheme.IsNull(rest.Cdr) {
			return 0, 0, bad
		}
		second = rest.Car
	}
	i, ok := smallInt(p.Car)
	if !ok {
		return 0, 0, bad
	}
	j, ok := smallInt(second)
	if !ok {
		return 0, 0, bad
	}
	return i, j, nil
}

func smallInt(d scheme.Datum) (int, bool) {
	n, ok := d.(scheme.Number)
	if !ok {
		return 0, false
	}
	x, ok := n.Number.(num.Integer)
	if !ok {
		return 0, false
	}
	i, ok := x.Int()
	return i, ok && i >= 0
}

// Disassemble writes code as assembly text that AssembleText accepts.  Each
// top-level instruction is written on its own line.
func Disassemble(w io.Writer, code Code) error {
	bw := bufio.NewWriter(w)
	if len(code) == 0 {
		bw.WriteString("()\n") //nolint:errcheck
		return bw.Flush()
	}
	for i, in := range code {
		if i == 0 {
			bw.WriteString("(") //nolint:errcheck
		} else {
			bw.WriteString(" ") //nolint:errcheck
		}
		bw.WriteString(in.String()) //nolint:errcheck
		if i == len(code)-1 {
			bw.WriteString(")") //nolint:errcheck
		}
		bw.WriteString("\n") //nolint:errcheck
	}
	return bw.Flush()
}
