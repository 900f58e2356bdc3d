// Copyright © 2024 The ELPS authors

// Package vm implements a SECD abstract machine over the scheme value
// model, together with an assembler, a disassembler and a binary file
// format for compiled code.
package vm

import "strings"

// Opcode identifies a machine instruction.
type Opcode uint8

// Opcode constants.  The numeric values are part of the binary file format
// and must not be reordered.
const (
	OpInvalid Opcode = iota
	OpNil
	OpLdc
	OpLd
	OpSel
	OpJoin
	OpLdf
	OpAp
	OpRtn
	OpDum
	OpRap
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpLt
	OpLeq
	OpGt
	OpGeq
	OpAtom
	OpCons
	OpCar
	OpCdr
	OpNull
	OpPrint
	OpPop
	OpStop
	opcodeCount
)

var opcodeNames = []string{
	OpInvalid: "INVALID",
	OpNil:     "NIL",
	OpLdc:     "LDC",
	OpLd:      "LD",
	OpSel:     "SEL",
	OpJoin:    "JOIN",
	OpLdf:     "LDF",
	OpAp:      "AP",
	OpRtn:     "RTN",
	OpDum:     "DUM",
	OpRap:     "RAP",
	OpAdd:     "ADD",
	OpSub:     "SUB",
	OpMul:     "MUL",
	OpDiv:     "DIV",
	OpRem:     "REM",
	OpEq:      "EQ",
	OpLt:      "LT",
	OpLeq:     "LEQ",
	OpGt:      "GT",
	OpGeq:     "GEQ",
	OpAtom:    "ATOM",
	OpCons:    "CONS",
	OpCar:     "CAR",
	OpCdr:     "CDR",
	OpNull:    "NULL",
	OpPrint:   "PRINT",
	OpPop:     "POP",
	OpStop:    "STOP",
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op := OpNil; op < opcodeCount; op++ {
		m[opcodeNames[op]] = op
	}
	return m
}()

func (op Opcode) String() string {
	if op >= opcodeCount {
		return opcodeNames[OpInvalid]
	}
	return opcodeNames[op]
}

// Valid reports whether op is a known instruction.
func (op Opcode) Valid() bool {
	return op > OpInvalid && op < opcodeCount
}

// LookupOpcode returns the opcode with the given mnemonic.  Mnemonics are
// case insensitive.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[strings.ToUpper(name)]
	return op, ok
}

// Opcodes returns every valid opcode in numeric order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, opcodeCount-1)
	for op := OpNil; op < opcodeCount; op++ {
		ops = append(ops, op)
	}
	return ops
}
