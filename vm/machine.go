// Copyright © 2024 The ELPS authors

package vm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
)

// Closure is the function value created by LDF.  On the stack it is
// wrapped in a *scheme.Opaque so that it can be consed into argument lists.
type Closure struct {
	Body Code
	env  *frame
}

// closureName is the printed name of closure values.
const closureName = "closure"

// ClosureOf returns the closure held by d, if any.
func ClosureOf(d scheme.Datum) (*Closure, bool) {
	o, ok := d.(*scheme.Opaque)
	if !ok {
		return nil, false
	}
	c, ok := o.Value.(*Closure)
	return c, ok
}

type frame struct {
	values []scheme.Datum
	next   *frame
}

// dump entries save either a full register set (AP, RAP) or only the code
// continuation (SEL).
type dumpEntry struct {
	stack []scheme.Datum
	env   *frame
	code  Code
	pc    int
	join  bool
}

// Error is a failure while executing an instruction.
type Error struct {
	PC  int
	Op  Opcode
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at pc %d: %v", e.Op, e.PC, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Machine errors that are not scheme errors.
var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrDumpUnderflow  = errors.New("dump underflow")
	ErrBadAddress     = errors.New("variable address out of range")
	ErrEndOfCode      = errors.New("end of code block without JOIN or RTN")
	ErrBadOpcode      = errors.New("invalid opcode")
)

// cancelCheckInterval is the number of steps between context checks.
const cancelCheckInterval = 256

// Machine is a SECD machine.  A Machine is not safe for concurrent use.
type Machine struct {
	// Stdout receives the output of PRINT.
	Stdout io.Writer
	// Logger receives a trace of executed instructions at trace level.
	Logger logrus.FieldLogger
	// MaxSteps bounds the number of executed instructions.  Zero means no
	// limit.
	MaxSteps int
	Display  scheme.DisplayFlags

	s     []scheme.Datum
	e     *frame
	c     Code
	pc    int
	d     []dumpEntry
	steps int
}

// Config is a Machine option.
type Config func(m *Machine)

// WithStdout sets the destination of PRINT.
func WithStdout(w io.Writer) Config {
	return func(m *Machine) { m.Stdout = w }
}

// WithLogger sets the trace logger.
func WithLogger(l logrus.FieldLogger) Config {
	return func(m *Machine) { m.Logger = l }
}

// WithMaxSteps limits the number of executed instructions.
func WithMaxSteps(n int) Config {
	return func(m *Machine) { m.MaxSteps = n }
}

// WithDisplayFlags sets the flags used by PRINT.
func WithDisplayFlags(flags scheme.DisplayFlags) Config {
	return func(m *Machine) { m.Display = flags }
}

// New returns a machine loaded with code.
func New(code Code, config ...Config) *Machine {
	m := &Machine{Stdout: io.Discard}
	for _, fn := range config {
		fn(m)
	}
	m.Load(code)
	return m
}

// Load resets the registers and loads code.
func (m *Machine) Load(code Code) {
	m.s = nil
	m.e = nil
	m.c = code
	m.pc = 0
	m.d = nil
	m.steps = 0
}

// Steps returns the number of instructions executed since the last Load.
func (m *Machine) Steps() int { return m.steps }

// Stack returns a copy of the S register, top last.
func (m *Machine) Stack() []scheme.Datum {
	return append([]scheme.Datum(nil), m.s...)
}

// Run executes instructions until STOP or the end of the top-level code.
// The result is the value on top of the stack, or nil when the stack is
// empty.
func (m *Machine) Run(ctx context.Context) (scheme.Datum, error) {
	for {
		if m.pc >= len(m.c) {
			if len(m.d) == 0 {
				return m.top(), nil
			}
			return nil, &Error{PC: m.pc, Op: OpInvalid, Err: ErrEndOfCode}
		}
		if m.MaxSteps > 0 && m.steps >= m.MaxSteps {
			return nil, m.fail(&scheme.Error{Kind: scheme.KindStepLimit, Max: m.MaxSteps})
		}
		if m.steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, m.fail(&scheme.Error{Kind: scheme.KindCancelled, Err: err})
			}
		}
		m.steps++
		in := m.c[m.pc]
		if m.Logger != nil {
			m.Logger.WithFields(logrus.Fields{
				"pc":    m.pc,
				"depth": len(m.s),
			}).Trace(in.String())
		}
		halt, err := m.step(in)
		if err != nil {
			return nil, m.fail(err)
		}
		if halt {
			return m.top(), nil
		}
	}
}

func (m *Machine) fail(err error) error {
	op := OpInvalid
	if m.pc < len(m.c) {
		op = m.c[m.pc].Op
	}
	return &Error{PC: m.pc, Op: op, Err: err}
}

func (m *Machine) top() scheme.Datum {
	if len(m.s) == 0 {
		return nil
	}
	return m.s[len(m.s)-1]
}

func (m *Machine) push(v scheme.Datum) { m.s = append(m.s, v) }

func (m *Machine) pop() (scheme.Datum, error) {
	if len(m.s) == 0 {
		return nil, ErrStackUnderflow
	}
	v := m.s[len(m.s)-1]
	m.s = m.s[:len(m.s)-1]
	return v, nil
}

func (m *Machine) popNumber(name string) (num.Number, error) {
	d, err := m.pop()
	if err != nil {
		return nil, err
	}
	n, ok := d.(scheme.Number)
	if !ok {
		return nil, scheme.UnexpectedType(name, "number", d.Type())
	}
	return n.Number, nil
}

func (m *Machine) popPair(name string) (*scheme.Pair, error) {
	d, err := m.pop()
	if err != nil {
		return nil, err
	}
	p, ok := d.(*scheme.Pair)
	if !ok {
		return nil, scheme.UnexpectedType(name, "pair", d.Type())
	}
	return p, nil
}

func (m *Machine) popClosure(name string) (*Closure, error) {
	d, err := m.pop()
	if err != nil {
		return nil, err
	}
	c, ok := ClosureOf(d)
	if !ok {
		return nil, scheme.UnexpectedType(name, closureName, d.Type())
	}
	return c, nil
}

// popArgs pops the argument list of AP or RAP as a frame.
func (m *Machine) popArgs(name string) ([]scheme.Datum, error) {
	d, err := m.pop()
	if err != nil {
		return nil, err
	}
	items, ok := scheme.Slice(d)
	if !ok {
		return nil, scheme.UnexpectedType(name, "list", d.Type())
	}
	return items, nil
}

func (m *Machine) lookup(level, index int) (scheme.Datum, error) {
	f := m.e
	for i := 0; i < level && f != nil; i++ {
		f = f.next
	}
	if f == nil || index < 0 || index >= len(f.values) {
		return nil, fmt.Errorf("%w: (%d . %d)", ErrBadAddress, level, index)
	}
	return f.values[index], nil
}

// step executes in and advances the pc.  It reports whether the machine
// halted.
func (m *Machine) step(in Instruction) (bool, error) {
	next := m.pc + 1
	switch in.Op {
	case OpNil:
		m.push(scheme.Null{})
	case OpLdc:
		m.push(in.Const)
	case OpLd:
		v, err := m.lookup(in.Level, in.Index)
		if err != nil {
			return false, err
		}
		m.push(v)
	case OpSel:
		d, err := m.pop()
		if err != nil {
			return false, err
		}
		m.d = append(m.d, dumpEntry{code: m.c, pc: next, join: true})
		m.c = in.Then
		if b, ok := d.(scheme.Boolean); ok && !bool(b) {
			m.c = in.Else
		}
		m.pc = 0
		return false, nil
	case OpJoin:
		ent, err := m.popDump(true)
		if err != nil {
			return false, err
		}
		m.c, m.pc = ent.code, ent.pc
		return false, nil
	case OpLdf:
		m.push(scheme.NewOpaque(closureName, &Closure{Body: in.Body, env: m.e}))
	case OpAp:
		fn, err := m.popClosure("AP")
		if err != nil {
			return false, err
		}
		args, err := m.popArgs("AP")
		if err != nil {
			return false, err
		}
		m.d = append(m.d, dumpEntry{stack: m.s, env: m.e, code: m.c, pc: next})
		m.s = nil
		m.e = &frame{values: args, next: fn.env}
		m.c, m.pc = fn.Body, 0
		return false, nil
	case OpRtn:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		ent, err := m.popDump(false)
		if err != nil {
			return false, err
		}
		m.s, m.e, m.c, m.pc = ent.stack, ent.env, ent.code, ent.pc
		m.push(v)
		return false, nil
	case OpDum:
		m.e = &frame{next: m.e}
	case OpRap:
		fn, err := m.popClosure("RAP")
		if err != nil {
			return false, err
		}
		args, err := m.popArgs("RAP")
		if err != nil {
			return false, err
		}
		if m.e == nil || fn.env != m.e {
			return false, errors.New("RAP without a matching DUM frame")
		}
		m.e.values = args
		m.d = append(m.d, dumpEntry{stack: m.s, env: m.e.next, code: m.c, pc: next})
		m.s = nil
		m.e = fn.env
		m.c, m.pc = fn.Body, 0
		return false, nil
	case OpAdd, OpSub, OpMul, OpDiv, OpRem:
		if err := m.arith(in.Op); err != nil {
			return false, err
		}
	case OpEq:
		y, err := m.pop()
		if err != nil {
			return false, err
		}
		x, err := m.pop()
		if err != nil {
			return false, err
		}
		m.push(scheme.Boolean(eq(x, y)))
	case OpLt, OpLeq, OpGt, OpGeq:
		if err := m.compare(in.Op); err != nil {
			return false, err
		}
	case OpAtom:
		d, err := m.pop()
		if err != nil {
			return false, err
		}
		_, isPair := d.(*scheme.Pair)
		m.push(scheme.Boolean(!isPair))
	case OpCons:
		car, err := m.pop()
		if err != nil {
			return false, err
		}
		cdr, err := m.pop()
		if err != nil {
			return false, err
		}
		m.push(scheme.Cons(car, cdr))
	case OpCar:
		p, err := m.popPair("CAR")
		if err != nil {
			return false, err
		}
		m.push(p.Car)
	case OpCdr:
		p, err := m.popPair("CDR")
		if err != nil {
			return false, err
		}
		m.push(p.Cdr)
	case OpNull:
		d, err := m.pop()
		if err != nil {
			return false, err
		}
		m.push(scheme.Boolean(scheme.IsNull(d)))
	case OpPrint:
		if len(m.s) == 0 {
			return false, ErrStackUnderflow
		}
		if err := m.print(m.top()); err != nil {
			return false, err
		}
	case OpPop:
		if _, err := m.pop(); err != nil {
			return false, err
		}
	case OpStop:
		return true, nil
	default:
		return false, ErrBadOpcode
	}
	m.pc = next
	return false, nil
}

func (m *Machine) popDump(join bool) (dumpEntry, error) {
	if len(m.d) == 0 {
		return dumpEntry{}, ErrDumpUnderflow
	}
	ent := m.d[len(m.d)-1]
	if ent.join != join {
		if join {
			return dumpEntry{}, errors.New("JOIN outside of a SEL branch")
		}
		return dumpEntry{}, errors.New("RTN inside of a SEL branch")
	}
	m.d = m.d[:len(m.d)-1]
	return ent, nil
}

func (m *Machine) print(d scheme.Datum) error {
	_, err := fmt.Fprintln(m.Stdout, scheme.Repr(d, m.Display))
	return err
}

var arithOps = map[Opcode]func(a, b num.Number) (num.Number, error){
	OpAdd: num.Add,
	OpSub: num.Sub,
	OpMul: num.Mul,
	OpDiv: num.Div,
	OpRem: num.Rem,
}

// arith pops y then x and pushes x op y.
func (m *Machine) arith(op Opcode) error {
	name := op.String()
	y, err := m.popNumber(name)
	if err != nil {
		return err
	}
	x, err := m.popNumber(name)
	if err != nil {
		return err
	}
	z, err := arithOps[op](x, y)
	if err != nil {
		return scheme.NumericError(name, err)
	}
	m.push(scheme.NewNumber(z))
	return nil
}

var compareOps = map[Opcode]func(c int) bool{
	OpLt:  func(c int) bool { return c < 0 },
	OpLeq: func(c int) bool { return c <= 0 },
	OpGt:  func(c int) bool { return c > 0 },
	OpGeq: func(c int) bool { return c >= 0 },
}

func (m *Machine) compare(op Opcode) error {
	name := op.String()
	y, err := m.popNumber(name)
	if err != nil {
		return err
	}
	x, err := m.popNumber(name)
	if err != nil {
		return err
	}
	c, err := num.Compare(x, y)
	if err != nil {
		return scheme.NumericError(name, err)
	}
	m.push(scheme.Boolean(compareOps[op](c)))
	return nil
}

// eq compares numbers numerically and everything else with eqv?.
func eq(x, y scheme.Datum) bool {
	nx, xok := x.(scheme.Number)
	ny, yok := y.(scheme.Number)
	if xok && yok {
		return num.Equal(nx.Number, ny.Number)
	}
	return scheme.Eqv(x, y)
}
