// Copyright © 2024 The ELPS authors

package vm_test

import (
	"bytes"
	"context"
	"io"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/parser"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
	"github.com/tessellate/schemer/vm"
)

func TestCodeFile(t *testing.T) {
	code := assemble(t, factorialSource)
	var buf bytes.Buffer
	require.NoError(t, vm.WriteCode(&buf, code))
	b := buf.Bytes()
	require.True(t, vm.IsBinary(b))
	assert.Equal(t, vm.Magic, string(b[:8]))
	assert.Equal(t, byte(vm.FileCode), b[8])
	assert.Equal(t, vm.Version, b[9])

	again, err := vm.ReadCode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.True(t, code.Equal(again), again.String())

	v, err := vm.New(again).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3628800", v.String())
}

func TestDataFile(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	improper, err := parser.ParseDatum(`(1 (2 "x") . y)`)
	require.NoError(t, err)
	values := []scheme.Datum{
		scheme.Int(0),
		scheme.Int(-42),
		scheme.NewNumber(num.IntegerFromBig(huge)),
		scheme.NewNumber(num.NewRational(-3, 4)),
		scheme.NewNumber(num.NewExactReal(decimal.RequireFromString("1.25"))),
		scheme.Float(2.5),
		scheme.NewNumber(num.NewExactComplex(big.NewRat(1, 1), big.NewRat(-1, 2))),
		scheme.NewNumber(num.NewExactComplex(big.NewRat(1, 3), big.NewRat(2, 7))),
		scheme.NewNumber(num.InexactComplex(complex(1.5, 2))),
		scheme.Boolean(true),
		scheme.Boolean(false),
		scheme.Character('λ'),
		scheme.String("hello\nworld"),
		scheme.Symbol("a-symbol"),
		scheme.Null{},
		improper,
		scheme.Vector{scheme.Int(1), scheme.String("two")},
		scheme.ByteVector{0, 1, 255},
	}
	var buf bytes.Buffer
	require.NoError(t, vm.WriteData(&buf, values))
	assert.Equal(t, byte(vm.FileData), buf.Bytes()[8])

	again, err := vm.ReadData(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, again, len(values))
	for i := range values {
		assert.True(t, scheme.Equal(values[i], again[i]), "%d: %v != %v", i, values[i], again[i])
		if n, ok := values[i].(scheme.Number); ok {
			assert.Equal(t, n.Kind(), again[i].(scheme.Number).Kind(), "%d", i)
		}
	}
}

func TestFileErrors(t *testing.T) {
	var code bytes.Buffer
	require.NoError(t, vm.WriteCode(&code, assemble(t, `(LDC 1 STOP)`)))
	var data bytes.Buffer
	require.NoError(t, vm.WriteData(&data, []scheme.Datum{scheme.Int(1)}))

	_, err := vm.ReadCode(bytes.NewReader([]byte("(LDC 1)")))
	assert.ErrorIs(t, err, vm.ErrBadMagic)

	_, err = vm.ReadCode(bytes.NewReader(data.Bytes()))
	assert.ErrorIs(t, err, vm.ErrFileType)

	_, err = vm.ReadData(bytes.NewReader(code.Bytes()))
	assert.ErrorIs(t, err, vm.ErrFileType)

	b := append([]byte(nil), code.Bytes()...)
	b[9] = 2
	_, err = vm.ReadCode(bytes.NewReader(b))
	assert.ErrorIs(t, err, vm.ErrBadVersion)

	b = code.Bytes()
	_, err = vm.ReadCode(bytes.NewReader(b[:len(b)-1]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	b = append(append([]byte(nil), data.Bytes()...), 0x7f)
	_, err = vm.ReadData(bytes.NewReader(b))
	assert.ErrorIs(t, err, vm.ErrBadTag)

	err = vm.WriteData(io.Discard, []scheme.Datum{scheme.Unspecified{}})
	assert.Error(t, err)
}
