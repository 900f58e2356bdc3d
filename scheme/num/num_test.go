// Copyright © 2024 The ELPS authors

package num

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// cx returns the exact complex re+im*i from rational literals.
func cx(t *testing.T, re, im string) ExactComplex {
	r, ok := new(big.Rat).SetString(re)
	require.True(t, ok, re)
	i, ok := new(big.Rat).SetString(im)
	require.True(t, ok, im)
	return NewExactComplex(r, i)
}

func TestConversionLoss(t *testing.T) {
	_, err := RationalToInteger(NewRational(1, 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncation))

	r, err := ExactComplexToExactReal(cx(t, "2", "0"))
	require.NoError(t, err)
	assert.Equal(t, "2", r.String())

	_, err = ExactComplexToExactReal(cx(t, "2", "1"))
	assert.True(t, errors.Is(err, ErrTruncation))

	_, err = InexactRealToInteger(InexactReal(2.5))
	assert.True(t, errors.Is(err, ErrTruncation))
	_, err = InexactRealToExactReal(InexactReal(math.NaN()))
	assert.True(t, errors.Is(err, ErrTypeCast))
	_, err = InexactRealToRational(InexactReal(math.Inf(1)))
	assert.True(t, errors.Is(err, ErrTypeCast))

	_, err = RationalToExactReal(NewRational(1, 3))
	assert.True(t, errors.Is(err, ErrTruncation))
	x, err := RationalToExactReal(NewRational(3, 8))
	require.NoError(t, err)
	assert.Equal(t, "0.375", x.String())
}

func TestConvertEveryDirection(t *testing.T) {
	// Two is representable in every kind so all 30 directions succeed.
	values := []Number{
		NewInteger(2),
		NewRational(4, 2),
		NewExactReal(dec(t, "2")),
		InexactReal(2),
		cx(t, "2", "0"),
		InexactComplex(complex(2, 0)),
	}
	for _, from := range values {
		for _, to := range Kinds() {
			n, err := Convert(from, to)
			if assert.NoError(t, err, "%v -> %v", from.Kind(), to) {
				assert.Equal(t, to, n.Kind())
				assert.True(t, Equal(n, NewInteger(2)), "%v -> %v gave %v", from.Kind(), to, n)
			}
		}
	}
}

func TestFloatToDecimalIsExact(t *testing.T) {
	d, err := InexactRealToExactReal(InexactReal(0.1))
	require.NoError(t, err)
	assert.Equal(t, "0.1000000000000000055511151231257827021181583404541015625", d.String())
}

func TestAddPromotion(t *testing.T) {
	sum, err := Add(NewInteger(2), InexactReal(1.5))
	require.NoError(t, err)
	assert.Equal(t, InexactReal(3.5), sum)

	sum, err = Add(InexactReal(1.5), NewInteger(2))
	require.NoError(t, err)
	assert.Equal(t, InexactReal(3.5), sum)

	sum, err = Add(NewRational(1, 2), NewRational(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "5/6", sum.String())

	// No demotion after arithmetic.
	sum, err = Add(NewRational(1, 2), NewRational(1, 2))
	require.NoError(t, err)
	assert.Equal(t, KindRational, sum.Kind())
	assert.Equal(t, KindInteger, Simplify(sum).Kind())
}

func TestPromotionCommutes(t *testing.T) {
	values := []Number{
		NewInteger(3),
		NewRational(1, 4),
		NewRational(1, 3),
		NewExactReal(dec(t, "0.5")),
		NewExactReal(dec(t, "0.1")),
		InexactReal(2.25),
		cx(t, "1", "2"),
		cx(t, "1/3", "-2/7"),
		InexactComplex(complex(0.5, -1)),
	}
	ops := map[string]func(a, b Number) (Number, error){"+": Add, "*": Mul}
	for name, op := range ops {
		for _, a := range values {
			for _, b := range values {
				ab, err := op(a, b)
				require.NoError(t, err, "%v %s %v", a, name, b)
				ba, err := op(b, a)
				require.NoError(t, err, "%v %s %v", b, name, a)
				assert.Equal(t, ab.Kind(), ba.Kind())
				assert.True(t, Equal(ab, ba), "%v %s %v", a, name, b)
				want := a.Kind()
				if b.Kind() > want {
					want = b.Kind()
				}
				if want == KindExactReal && (a.Kind() == KindRational || b.Kind() == KindRational) {
					// 1/3 has no decimal expansion.
					if Equal(a, NewRational(1, 3)) || Equal(b, NewRational(1, 3)) {
						want = KindRational
					}
				}
				assert.Equal(t, want, ab.Kind(), "%v %s %v", a, name, b)
			}
		}
	}
}

func TestExactComplexWithRational(t *testing.T) {
	sum, err := Add(NewRational(1, 3), cx(t, "1", "2"))
	require.NoError(t, err)
	assert.Equal(t, KindExactComplex, sum.Kind())
	assert.Equal(t, "4/3+2i", sum.String())

	sum, err = Add(cx(t, "1", "2"), NewRational(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "4/3+2i", sum.String())

	diff, err := Sub(NewRational(1, 3), NewExactReal(dec(t, "0.5")))
	require.NoError(t, err)
	assert.Equal(t, "-1/6", diff.String())
}

func TestExactDivisionIsLossless(t *testing.T) {
	three := NewInteger(3)
	for _, z := range []Number{
		NewInteger(1),
		NewRational(2, 7),
		NewExactReal(dec(t, "1.25")),
		cx(t, "1", "2"),
		cx(t, "1/3", "5"),
	} {
		q, err := Div(z, three)
		require.NoError(t, err)
		assert.True(t, q.IsExact(), "%v / 3", z)
		back, err := Mul(q, three)
		require.NoError(t, err)
		assert.True(t, Equal(back, z), "(%v / 3) * 3 = %v", z, back)
	}

	q, err := Div(cx(t, "1", "2"), three)
	require.NoError(t, err)
	assert.Equal(t, "1/3+2/3i", q.String())

	q, err = Div(NewExactReal(dec(t, "1")), NewExactReal(dec(t, "3")))
	require.NoError(t, err)
	assert.Equal(t, KindRational, q.Kind())
	assert.Equal(t, "1/3", q.String())
}

func TestDiv(t *testing.T) {
	q, err := Div(NewInteger(6), NewInteger(3))
	require.NoError(t, err)
	assert.Equal(t, "2", q.String())
	assert.Equal(t, KindInteger, q.Kind())

	q, err = Div(NewInteger(1), NewInteger(3))
	require.NoError(t, err)
	assert.Equal(t, "1/3", q.String())

	_, err = Div(NewInteger(1), NewInteger(0))
	assert.True(t, errors.Is(err, ErrDivisionByZero))

	q, err = Div(InexactReal(1), InexactReal(0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(q.(InexactReal)), 1))

	q, err = Div(NewExactReal(dec(t, "1")), NewExactReal(dec(t, "8")))
	require.NoError(t, err)
	assert.Equal(t, "0.125", q.String())

	q, err = Div(cx(t, "1", "1"), cx(t, "0", "1"))
	require.NoError(t, err)
	assert.Equal(t, "1-1i", q.String())
}

func TestIntegerDivision(t *testing.T) {
	tests := []struct {
		op   func(a, b Number) (Number, error)
		a, b int64
		want string
	}{
		{Quotient, 7, 2, "3"},
		{Quotient, -7, 2, "-3"},
		{Modulo, -7, 2, "1"},
		{Modulo, 7, -2, "-1"},
		{Rem, -7, 2, "-1"},
		{Rem, 7, -2, "1"},
	}
	for _, test := range tests {
		n, err := test.op(NewInteger(test.a), NewInteger(test.b))
		require.NoError(t, err)
		assert.Equal(t, test.want, n.String(), "%d %d", test.a, test.b)
	}
	_, err := Quotient(NewInteger(1), NewInteger(0))
	assert.True(t, errors.Is(err, ErrDivisionByZero))
	_, err = Quotient(NewRational(1, 2), NewInteger(1))
	assert.True(t, errors.Is(err, ErrDomain))
	_, err = Rem(InexactComplex(1i), InexactComplex(1))
	assert.True(t, errors.Is(err, ErrDomain))
	n, err := Modulo(InexactReal(-7), NewInteger(2))
	require.NoError(t, err)
	assert.Equal(t, InexactReal(1), n)
}

func TestExpt(t *testing.T) {
	n, err := Expt(NewInteger(2), NewInteger(10))
	require.NoError(t, err)
	assert.Equal(t, "1024", n.String())

	n, err = Expt(NewInteger(2), NewInteger(-2))
	require.NoError(t, err)
	assert.Equal(t, "1/4", n.String())

	n, err = Expt(NewRational(2, 3), NewInteger(2))
	require.NoError(t, err)
	assert.Equal(t, "4/9", n.String())

	n, err = Expt(InexactReal(4), InexactReal(0.5))
	require.NoError(t, err)
	assert.Equal(t, InexactReal(2), n)

	_, err = Expt(NewInteger(0), NewInteger(-1))
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestCompare(t *testing.T) {
	c, err := Compare(NewRational(1, 2), InexactReal(0.5))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = Compare(NewInteger(1), InexactReal(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(NewExactReal(dec(t, "2.5")), NewInteger(2))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = Compare(InexactReal(math.NaN()), NewInteger(1))
	assert.True(t, errors.Is(err, ErrUnordered))

	_, err = Compare(InexactComplex(1), NewInteger(1))
	assert.True(t, errors.Is(err, ErrDomain))

	assert.True(t, Equal(NewInteger(1), InexactComplex(1)))
	assert.False(t, Equal(InexactReal(math.NaN()), InexactReal(math.NaN())))
	assert.False(t, Equal(InexactReal(math.NaN()), NewInteger(1)))
}

func TestPredicates(t *testing.T) {
	even, ok := IsEven(NewInteger(4))
	assert.True(t, ok)
	assert.True(t, even)
	odd, ok := IsOdd(InexactReal(3))
	assert.True(t, ok)
	assert.True(t, odd)
	_, ok = IsEven(NewRational(1, 2))
	assert.False(t, ok)

	pos, ok := IsPositive(NewRational(1, 2))
	assert.True(t, ok)
	assert.True(t, pos)
	_, ok = IsNegative(InexactComplex(1i))
	assert.False(t, ok)

	assert.True(t, IsZero(ExactComplex{}))
	assert.True(t, IsInteger(InexactReal(2)))
	assert.False(t, IsInteger(InexactReal(math.Inf(1))))
	assert.False(t, IsRational(InexactReal(math.NaN())))
	assert.True(t, IsReal(InexactComplex(complex(3, 0))))
}

func TestRound(t *testing.T) {
	tests := []struct {
		n    Number
		mode RoundMode
		want string
	}{
		{NewRational(7, 2), RoundEven, "4"},
		{NewRational(5, 2), RoundEven, "2"},
		{NewRational(-7, 2), RoundFloor, "-4"},
		{NewRational(-7, 2), RoundCeiling, "-3"},
		{NewRational(-7, 2), RoundTruncate, "-3"},
		{InexactReal(2.5), RoundEven, "2.0"},
		{InexactReal(-2.5), RoundFloor, "-3.0"},
		{NewExactReal(decimal.RequireFromString("1.5")), RoundEven, "2"},
	}
	for _, test := range tests {
		n, err := Round(test.n, test.mode)
		require.NoError(t, err)
		assert.Equal(t, test.want, n.String(), "%v %v", test.mode, test.n)
	}
}

func TestSimplify(t *testing.T) {
	assert.Equal(t, NewInteger(4), Simplify(InexactComplex(complex(4, 0))))
	assert.Equal(t, "3/2", Simplify(NewExactReal(dec(t, "1.5"))).String())
	assert.Equal(t, KindRational, Simplify(InexactReal(0.25)).Kind())
	assert.Equal(t, KindInexactReal, Simplify(InexactReal(math.Inf(-1))).Kind())
	assert.Equal(t, KindExactComplex, Simplify(InexactComplex(complex(1, 0.5))).Kind())
	assert.Equal(t, "1/3", Simplify(cx(t, "1/3", "0")).String())
}

func TestParseIntegerLiterals(t *testing.T) {
	for _, text := range []string{"3", "#e3.0", "6/2", "#x3", "#b11", "+3", "#e#d3"} {
		n, err := Parse(text)
		require.NoError(t, err, text)
		assert.Equal(t, NewInteger(3), Simplify(n), text)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		want string
	}{
		{"42", KindInteger, "42"},
		{"-17", KindInteger, "-17"},
		{"#xff", KindInteger, "255"},
		{"#o17", KindInteger, "15"},
		{"1/3", KindRational, "1/3"},
		{"-4/6", KindRational, "-2/3"},
		{"1.5", KindInexactReal, "1.5"},
		{"1e3", KindInexactReal, "1000.0"},
		{".5", KindInexactReal, "0.5"},
		{"#e1.5", KindRational, "3/2"},
		{"#i1/2", KindInexactReal, "0.5"},
		{"+inf.0", KindInexactReal, "+inf.0"},
		{"-inf.0", KindInexactReal, "-inf.0"},
		{"+nan.0", KindInexactReal, "+nan.0"},
		{"1+2i", KindExactComplex, "1+2i"},
		{"1.5-2i", KindInexactComplex, "1.5-2.0i"},
		{"+i", KindExactComplex, "0+1i"},
		{"1/3+2i", KindExactComplex, "1/3+2i"},
		{"#e1.5-2i", KindExactComplex, "3/2-2i"},
		{"-2.5i", KindInexactComplex, "0.0-2.5i"},
		{"3.0+0i", KindInexactReal, "3.0"},
		{"1e2+1e-1i", KindInexactComplex, "100.0+0.1i"},
		{"2@0", KindInteger, "2"},
	}
	for _, test := range tests {
		n, err := Parse(test.text)
		if !assert.NoError(t, err, test.text) {
			continue
		}
		assert.Equal(t, test.kind, n.Kind(), test.text)
		assert.Equal(t, test.want, n.String(), test.text)
	}
}

func TestParseRejects(t *testing.T) {
	for _, text := range []string{"", "+", "-", "...", "abc", "1/", "/2", "1..2", "#q1", "#e#e1", "1e", "i", "#x1.5", "1+2"} {
		_, err := Parse(text)
		assert.Error(t, err, text)
		assert.False(t, IsNumber(text), text)
	}
	_, err := Parse("1/0")
	assert.True(t, errors.Is(err, ErrDivisionByZero))
	_, err = Parse("#e+inf.0")
	assert.True(t, errors.Is(err, ErrTypeCast))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1000000.0", InexactReal(1e6).String())
	assert.Equal(t, "1e+21", InexactReal(1e21).String())
	assert.Equal(t, "-0.5", InexactReal(-0.5).String())
	assert.Equal(t, "1.5+2.0i", InexactComplex(complex(1.5, 2)).String())
}
