// Copyright © 2024 The ELPS authors

package vm

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
)

// Magic is the first eight bytes of every file.
const Magic = "\x89SECD\r\n\x1a"

// Version is the format version written by this package.
const Version byte = 1

// FileType tells what a file contains.
type FileType byte

// FileType constants.
const (
	FileCode FileType = 1
	FileData FileType = 2
)

func (t FileType) String() string {
	switch t {
	case FileCode:
		return "code"
	case FileData:
		return "data"
	}
	return fmt.Sprintf("FileType(%d)", byte(t))
}

// Value tags.
const (
	tagInteger        byte = 0x01
	tagRational       byte = 0x02
	tagExactReal      byte = 0x03
	tagInexactReal    byte = 0x04
	tagExactComplex   byte = 0x05
	tagInexactComplex byte = 0x06
	tagBoolean        byte = 0x07
	tagChar           byte = 0x08
	tagString         byte = 0x09
	tagSymbol         byte = 0x0a
	tagNil            byte = 0x0b
	tagPair           byte = 0x0c
	tagCode           byte = 0x0d
	tagOpcode         byte = 0x0e
	tagVector         byte = 0x0f
	tagByteVector     byte = 0x10
)

// Format errors.
var (
	ErrBadMagic   = errors.New("not a SECD file")
	ErrBadVersion = errors.New("unsupported file version")
	ErrFileType   = errors.New("unexpected file type")
	ErrBadTag     = errors.New("unknown value tag")
)

// IsBinary reports whether b starts with Magic.
func IsBinary(b []byte) bool {
	return bytes.HasPrefix(b, []byte(Magic))
}

type encoder struct {
	w   *bufio.Writer
	err error
	buf [binary.MaxVarintLen64]byte
}

func (e *encoder) byte(b byte) {
	if e.err == nil {
		e.err = e.w.WriteByte(b)
	}
}

func (e *encoder) bytes(b []byte) {
	e.uvarint(uint64(len(b)))
	if e.err == nil {
		_, e.err = e.w.Write(b)
	}
}

func (e *encoder) uvarint(x uint64) {
	n := binary.PutUvarint(e.buf[:], x)
	if e.err == nil {
		_, e.err = e.w.Write(e.buf[:n])
	}
}

func (e *encoder) float(f float64) {
	binary.BigEndian.PutUint64(e.buf[:8], math.Float64bits(f))
	if e.err == nil {
		_, e.err = e.w.Write(e.buf[:8])
	}
}

func (e *encoder) bigInt(x *big.Int) {
	var sign byte
	if x.Sign() < 0 {
		sign = 1
	}
	e.byte(sign)
	e.bytes(x.Bytes())
}

func (e *encoder) header(t FileType) {
	if e.err == nil {
		_, e.err = e.w.WriteString(Magic)
	}
	e.byte(byte(t))
	e.byte(Version)
}

func (e *encoder) number(n num.Number) {
	switch n := n.(type) {
	case num.Integer:
		e.byte(tagInteger)
		e.bigInt(n.Big())
	case num.Rational:
		e.byte(tagRational)
		r := n.Rat()
		e.bigInt(r.Num())
		e.bigInt(r.Denom())
	case num.ExactReal:
		e.byte(tagExactReal)
		e.bytes([]byte(n.Decimal().String()))
	case num.InexactReal:
		e.byte(tagInexactReal)
		e.float(float64(n))
	case num.ExactComplex:
		e.byte(tagExactComplex)
		for _, part := range []num.Rational{n.Real(), n.Imag()} {
			r := part.Rat()
			e.bigInt(r.Num())
			e.bigInt(r.Denom())
		}
	case num.InexactComplex:
		e.byte(tagInexactComplex)
		e.float(real(n))
		e.float(imag(n))
	default:
		e.fail(fmt.Errorf("cannot encode number kind %v", n.Kind()))
	}
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) datum(d scheme.Datum) {
	switch d := d.(type) {
	case scheme.Number:
		e.number(d.Number)
	case scheme.Boolean:
		e.byte(tagBoolean)
		if d {
			e.byte(1)
		} else {
			e.byte(0)
		}
	case scheme.Character:
		e.byte(tagChar)
		e.uvarint(uint64(d))
	case scheme.String:
		e.byte(tagString)
		e.bytes([]byte(d))
	case scheme.Identifier:
		e.byte(tagSymbol)
		e.bytes([]byte(d.Name()))
	case scheme.Null:
		e.byte(tagNil)
	case *scheme.Pair:
		// Lists are written iteratively along the cdr.
		for {
			e.byte(tagPair)
			e.datum(d.Car)
			next, ok := d.Cdr.(*scheme.Pair)
			if !ok {
				e.datum(d.Cdr)
				return
			}
			d = next
		}
	case scheme.Vector:
		e.byte(tagVector)
		e.uvarint(uint64(len(d)))
		for _, x := range d {
			e.datum(x)
		}
	case scheme.ByteVector:
		e.byte(tagByteVector)
		e.bytes(d)
	default:
		e.fail(fmt.Errorf("cannot encode %v value", d.Type()))
	}
}

func (e *encoder) code(c Code) {
	e.byte(tagCode)
	e.uvarint(uint64(len(c)))
	for _, in := range c {
		e.byte(tagOpcode)
		e.byte(byte(in.Op))
		switch in.Op {
		case OpLdc:
			e.datum(in.Const)
		case OpLd:
			e.uvarint(uint64(in.Level))
			e.uvarint(uint64(in.Index))
		case OpSel:
			e.code(in.Then)
			e.code(in.Else)
		case OpLdf:
			e.code(in.Body)
		}
	}
}

// WriteCode writes code as a code file.
func WriteCode(w io.Writer, code Code) error {
	e := &encoder{w: bufio.NewWriter(w)}
	e.header(FileCode)
	e.code(code)
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// WriteData writes a sequence of values as a data file.
func WriteData(w io.Writer, ds []scheme.Datum) error {
	e := &encoder{w: bufio.NewWriter(w)}
	e.header(FileData)
	for _, d := range ds {
		e.datum(d)
	}
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

type decoder struct {
	r *bufio.Reader
}

func (d *decoder) byte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == io.EOF {
		return 0, io.ErrUnexpectedEOF
	}
	return b, err
}

func (d *decoder) uvarint() (uint64, error) {
	x, err := binary.ReadUvarint(d.r)
	if err == io.EOF {
		return 0, io.ErrUnexpectedEOF
	}
	return x, err
}

func (d *decoder) int() (int, error) {
	x, err := d.uvarint()
	if err != nil {
		return 0, err
	}
	if x > math.MaxInt32 {
		return 0, fmt.Errorf("value %d out of range", x)
	}
	return int(x), nil
}

func (d *decoder) bytes() ([]byte, error) {
	n, err := d.int()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}

func (d *decoder) float() (float64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b[:])), nil
}

func (d *decoder) bigInt() (*big.Int, error) {
	sign, err := d.byte()
	if err != nil {
		return nil, err
	}
	b, err := d.bytes()
	if err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(b)
	if sign != 0 {
		x.Neg(x)
	}
	return x, nil
}

func (d *decoder) rat() (*big.Rat, error) {
	n, err := d.bigInt()
	if err != nil {
		return nil, err
	}
	den, err := d.bigInt()
	if err != nil {
		return nil, err
	}
	if den.Sign() == 0 {
		return nil, errors.New("rational with zero denominator")
	}
	return new(big.Rat).SetFrac(n, den), nil
}

func (d *decoder) decimal() (decimal.Decimal, error) {
	b, err := d.bytes()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(string(b))
}

func (d *decoder) header(want FileType) error {
	var b [len(Magic) + 2]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return ErrBadMagic
	}
	if string(b[:len(Magic)]) != Magic {
		return ErrBadMagic
	}
	if t := FileType(b[len(Magic)]); t != want {
		return fmt.Errorf("%w: %v (expected %v)", ErrFileType, t, want)
	}
	if v := b[len(Magic)+1]; v != Version {
		return fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	return nil
}

func (d *decoder) datum() (scheme.Datum, error) {
	tag, err := d.byte()
	if err != nil {
		return nil, err
	}
	return d.tagged(tag)
}

func (d *decoder) tagged(tag byte) (scheme.Datum, error) {
	switch tag {
	case tagInteger:
		x, err := d.bigInt()
		if err != nil {
			return nil, err
		}
		return scheme.NewNumber(num.IntegerFromBig(x)), nil
	case tagRational:
		r, err := d.rat()
		if err != nil {
			return nil, err
		}
		return scheme.NewNumber(num.RationalFromBig(r)), nil
	case tagExactReal:
		x, err := d.decimal()
		if err != nil {
			return nil, err
		}
		return scheme.NewNumber(num.NewExactReal(x)), nil
	case tagInexactReal:
		f, err := d.float()
		if err != nil {
			return nil, err
		}
		return scheme.Float(f), nil
	case tagExactComplex:
		re, err := d.rat()
		if err != nil {
			return nil, err
		}
		im, err := d.rat()
		if err != nil {
			return nil, err
		}
		return scheme.NewNumber(num.NewExactComplex(re, im)), nil
	case tagInexactComplex:
		re, err := d.float()
		if err != nil {
			return nil, err
		}
		im, err := d.float()
		if err != nil {
			return nil, err
		}
		return scheme.NewNumber(num.InexactComplex(complex(re, im))), nil
	case tagBoolean:
		b, err := d.byte()
		if err != nil {
			return nil, err
		}
		return scheme.Boolean(b != 0), nil
	case tagChar:
		r, err := d.uvarint()
		if err != nil {
			return nil, err
		}
		if r > math.MaxInt32 {
			return nil, fmt.Errorf("character %d out of range", r)
		}
		return scheme.Character(rune(r)), nil
	case tagString:
		b, err := d.bytes()
		if err != nil {
			return nil, err
		}
		return scheme.String(b), nil
	case tagSymbol:
		b, err := d.bytes()
		if err != nil {
			return nil, err
		}
		return scheme.Symbol(string(b)), nil
	case tagNil:
		return scheme.Null{}, nil
	case tagPair:
		return d.list()
	case tagVector:
		n, err := d.int()
		if err != nil {
			return nil, err
		}
		v := make(scheme.Vector, 0, n)
		for i := 0; i < n; i++ {
			x, err := d.datum()
			if err != nil {
				return nil, err
			}
			v = append(v, x)
		}
		return v, nil
	case tagByteVector:
		b, err := d.bytes()
		if err != nil {
			return nil, err
		}
		return scheme.ByteVector(b), nil
	}
	return nil, fmt.Errorf("%w: 0x%02x", ErrBadTag, tag)
}

// list decodes a chain of pairs whose first tag has been consumed.
func (d *decoder) list() (scheme.Datum, error) {
	var items []scheme.Datum
	for {
		car, err := d.datum()
		if err != nil {
			return nil, err
		}
		items = append(items, car)
		tag, err := d.byte()
		if err != nil {
			return nil, err
		}
		if tag == tagPair {
			continue
		}
		tail, err := d.tagged(tag)
		if err != nil {
			return nil, err
		}
		return scheme.ListTail(tail, items...), nil
	}
}

func (d *decoder) code() (Code, error) {
	tag, err := d.byte()
	if err != nil {
		return nil, err
	}
	if tag != tagCode {
		return nil, fmt.Errorf("%w: 0x%02x (expected code block)", ErrBadTag, tag)
	}
	n, err := d.int()
	if err != nil {
		return nil, err
	}
	code := make(Code, 0, n)
	for i := 0; i < n; i++ {
		in, err := d.instruction()
		if err != nil {
			return nil, err
		}
		code = append(code, in)
	}
	return code, nil
}

func (d *decoder) instruction() (Instruction, error) {
	tag, err := d.byte()
	if err != nil {
		return Instruction{}, err
	}
	if tag != tagOpcode {
		return Instruction{}, fmt.Errorf("%w: 0x%02x (expected opcode)", ErrBadTag, tag)
	}
	b, err := d.byte()
	if err != nil {
		return Instruction{}, err
	}
	in := Instruction{Op: Opcode(b)}
	if !in.Op.Valid() {
		return Instruction{}, fmt.Errorf("%w: %d", ErrBadOpcode, b)
	}
	switch in.Op {
	case OpLdc:
		in.Const, err = d.datum()
	case OpLd:
		if in.Level, err = d.int(); err == nil {
			in.Index, err = d.int()
		}
	case OpSel:
		if in.Then, err = d.code(); err == nil {
			in.Else, err = d.code()
		}
	case OpLdf:
		in.Body, err = d.code()
	}
	return in, err
}

// ReadCode reads a code file.
func ReadCode(r io.Reader) (Code, error) {
	d := &decoder{r: bufio.NewReader(r)}
	if err := d.header(FileCode); err != nil {
		return nil, err
	}
	return d.code()
}

// ReadData reads every value of a data file.
func ReadData(r io.Reader) ([]scheme.Datum, error) {
	d := &decoder{r: bufio.NewReader(r)}
	if err := d.header(FileData); err != nil {
		return nil, err
	}
	var ds []scheme.Datum
	for {
		tag, err := d.r.ReadByte()
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, err
		}
		x, err := d.tagged(tag)
		if err != nil {
			return nil, err
		}
		ds = append(ds, x)
	}
}
