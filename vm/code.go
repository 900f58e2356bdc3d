// Copyright © 2024 The ELPS authors

package vm

import (
	"strings"

	"github.com/tessellate/schemer/scheme"
)

// Instruction is a single machine instruction with its operands.  Which
// operand fields are meaningful depends on Op.
type Instruction struct {
	Op Opcode
	// Const is the operand of LDC.
	Const scheme.Datum
	// Level and Index address a variable for LD.  Level counts frames
	// outward from the innermost one.
	Level int
	Index int
	// Then and Else are the branches of SEL.
	Then Code
	Else Code
	// Body is the function body of LDF.
	Body Code
}

// Code is a block of instructions.
type Code []Instruction

// Ldc returns an LDC instruction for d.
func Ldc(d scheme.Datum) Instruction { return Instruction{Op: OpLdc, Const: d} }

// Ld returns an LD instruction for variable j of frame i.
func Ld(i, j int) Instruction { return Instruction{Op: OpLd, Level: i, Index: j} }

// Sel returns a SEL instruction.  Each branch should end with JOIN.
func Sel(then, els Code) Instruction { return Instruction{Op: OpSel, Then: then, Else: els} }

// Ldf returns an LDF instruction.  The body should end with RTN.
func Ldf(body Code) Instruction { return Instruction{Op: OpLdf, Body: body} }

// Plain returns an instruction without operands.
func Plain(op Opcode) Instruction { return Instruction{Op: op} }

// Datum returns the instruction list as assembly data: a flat list of
// mnemonics, each followed by its operands.
func (c Code) Datum() scheme.Datum {
	var items []scheme.Datum
	for _, in := range c {
		items = append(items, scheme.Symbol(in.Op.String()))
		items = append(items, in.operands()...)
	}
	return scheme.List(items...)
}

func (in Instruction) operands() []scheme.Datum {
	switch in.Op {
	case OpLdc:
		return []scheme.Datum{in.Const}
	case OpLd:
		return []scheme.Datum{scheme.Cons(scheme.Int(int64(in.Level)), scheme.Int(int64(in.Index)))}
	case OpSel:
		return []scheme.Datum{in.Then.Datum(), in.Else.Datum()}
	case OpLdf:
		return []scheme.Datum{in.Body.Datum()}
	}
	return nil
}

func (in Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	for _, d := range in.operands() {
		b.WriteString(" ")
		b.WriteString(scheme.Repr(d, scheme.DisplayFlags{}))
	}
	return b.String()
}

func (c Code) String() string {
	return scheme.Repr(c.Datum(), scheme.DisplayFlags{})
}

// Equal reports whether c and other contain the same instructions.
// Constants are compared with equal?.
func (c Code) Equal(other Code) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].equal(other[i]) {
			return false
		}
	}
	return true
}

func (in Instruction) equal(other Instruction) bool {
	if in.Op != other.Op {
		return false
	}
	switch in.Op {
	case OpLdc:
		return scheme.Equal(in.Const, other.Const)
	case OpLd:
		return in.Level == other.Level && in.Index == other.Index
	case OpSel:
		return in.Then.Equal(other.Then) && in.Else.Equal(other.Else)
	case OpLdf:
		return in.Body.Equal(other.Body)
	}
	return true
}
