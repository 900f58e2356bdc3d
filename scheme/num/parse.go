// Copyright © 2024 The ELPS authors

package num

import (
	"errors"
	"math"
	"math/big"
	"math/cmplx"
	"strings"

	"github.com/shopspring/decimal"
)

type exactness uint8

const (
	exactnessDefault exactness = iota
	exactnessExact
	exactnessInexact
)

// component is a parsed real component.  Decimal notation and the special
// infinities are inexact unless an exactness prefix says otherwise.
type component struct {
	n       Number
	inexact bool
}

// Parse reads a numeric literal.  It accepts radix prefixes (#b #o #d #x),
// exactness prefixes (#e #i), integers, ratios, decimals with an exponent,
// +inf.0, -inf.0 and +nan.0, rectangular complex numbers (1+2i, -i) and
// polar complex numbers (1@0.5).  The result is normalized: exact literals
// are simplified and an inexact complex with zero imaginary part is read as
// an inexact real.
func Parse(text string) (Number, error) {
	s := strings.ToLower(text)
	radix := 10
	exact := exactnessDefault
	var sawRadix bool
	for strings.HasPrefix(s, "#") {
		if len(s) < 2 {
			return nil, malformed(text)
		}
		switch s[1] {
		case 'e', 'i':
			if exact != exactnessDefault {
				return nil, malformed(text)
			}
			exact = exactnessExact
			if s[1] == 'i' {
				exact = exactnessInexact
			}
		case 'b', 'o', 'd', 'x':
			if sawRadix {
				return nil, malformed(text)
			}
			sawRadix = true
			radix = map[byte]int{'b': 2, 'o': 8, 'd': 10, 'x': 16}[s[1]]
		default:
			return nil, malformed(text)
		}
		s = s[2:]
	}
	if s == "" {
		return nil, malformed(text)
	}
	n, err := parseComplex(s, radix, exact)
	if err != nil {
		var nerr *Error
		if errors.As(err, &nerr) && nerr.Code != CodeMalformed {
			return nil, err
		}
		return nil, malformed(text)
	}
	return Normalize(n), nil
}

// IsNumber reports whether text is a numeric literal.  The reader uses it to
// separate numbers from symbols such as + and ...
func IsNumber(text string) bool {
	_, err := Parse(text)
	return err == nil
}

func malformed(text string) error {
	return &Error{Code: CodeMalformed, Text: text}
}

func parseComplex(s string, radix int, exact exactness) (Number, error) {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		mag, err := parseReal(s[:i], radix)
		if err != nil {
			return nil, err
		}
		ang, err := parseReal(s[i+1:], radix)
		if err != nil {
			return nil, err
		}
		return polar(mag, ang, exact)
	}
	if !strings.HasSuffix(s, "i") || strings.HasSuffix(s, "inf.0") {
		r, err := parseReal(s, radix)
		if err != nil {
			return nil, err
		}
		return applyExactness(r, exact)
	}
	body := s[:len(s)-1]
	split := imagSplit(body, radix)
	if split < 0 {
		return nil, malformed(s)
	}
	re := component{n: NewInteger(0)}
	if split > 0 {
		var err error
		re, err = parseReal(body[:split], radix)
		if err != nil {
			return nil, err
		}
	}
	var im component
	switch body[split:] {
	case "+":
		im = component{n: NewInteger(1)}
	case "-":
		im = component{n: NewInteger(-1)}
	default:
		var err error
		im, err = parseReal(body[split:], radix)
		if err != nil {
			return nil, err
		}
	}
	return rectangular(re, im, exact)
}

// imagSplit returns the index of the sign that begins the imaginary part of
// body, or -1.  Signs inside a decimal exponent are skipped.
func imagSplit(body string, radix int) int {
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c != '+' && c != '-' {
			continue
		}
		if radix == 10 && i > 0 && body[i-1] == 'e' {
			continue
		}
		return i
	}
	return -1
}

func parseReal(s string, radix int) (component, error) {
	if s == "" {
		return component{}, malformed(s)
	}
	neg := false
	rest := s
	switch s[0] {
	case '+', '-':
		neg = s[0] == '-'
		rest = s[1:]
		switch rest {
		case "inf.0":
			sign := 1
			if neg {
				sign = -1
			}
			return component{n: InexactReal(math.Inf(sign)), inexact: true}, nil
		case "nan.0":
			return component{n: InexactReal(math.NaN()), inexact: true}, nil
		}
	}
	r, err := parseUReal(rest, radix)
	if err != nil {
		return component{}, err
	}
	if neg {
		r.n = Neg(r.n)
	}
	return r, nil
}

func parseUReal(s string, radix int) (component, error) {
	if s == "" {
		return component{}, malformed(s)
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, ok := parseUInt(s[:i], radix)
		if !ok {
			return component{}, malformed(s)
		}
		den, ok := parseUInt(s[i+1:], radix)
		if !ok {
			return component{}, malformed(s)
		}
		if den.Sign() == 0 {
			return component{}, divisionByZero("/")
		}
		return component{n: Rational{new(big.Rat).SetFrac(num, den)}}, nil
	}
	if x, ok := parseUInt(s, radix); ok {
		return component{n: Integer{x}}, nil
	}
	if radix != 10 || !isDecimal(s) {
		return component{}, malformed(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return component{}, malformed(s)
	}
	return component{n: ExactReal{d}, inexact: true}, nil
}

func parseUInt(s string, radix int) (*big.Int, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' || strings.ContainsRune(s, '_') {
		return nil, false
	}
	return new(big.Int).SetString(s, radix)
}

// isDecimal reports whether s is an unsigned decimal with an optional
// exponent.  At least one digit must appear in the mantissa.
func isDecimal(s string) bool {
	mantissa, exp, hasExp := strings.Cut(s, "e")
	digits := 0
	dot := false
	for _, c := range mantissa {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	if digits == 0 {
		return false
	}
	if !hasExp {
		return true
	}
	if strings.HasPrefix(exp, "+") || strings.HasPrefix(exp, "-") {
		exp = exp[1:]
	}
	if exp == "" {
		return false
	}
	for _, c := range exp {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func applyExactness(r component, exact exactness) (Number, error) {
	switch exact {
	case exactnessExact:
		return ToExact(r.n)
	case exactnessInexact:
		return ToInexact(r.n)
	}
	if r.inexact {
		return ToInexact(r.n)
	}
	return r.n, nil
}

func rectangular(re, im component, exact exactness) (Number, error) {
	if exact == exactnessDefault && (re.inexact || im.inexact) {
		exact = exactnessInexact
	}
	if exact == exactnessInexact {
		rf, err := Convert(re.n, KindInexactReal)
		if err != nil {
			return nil, err
		}
		imf, err := Convert(im.n, KindInexactReal)
		if err != nil {
			return nil, err
		}
		return InexactComplex(complex(float64(rf.(InexactReal)), float64(imf.(InexactReal)))), nil
	}
	rr, err := Convert(re.n, KindRational)
	if err != nil {
		return nil, err
	}
	ir, err := Convert(im.n, KindRational)
	if err != nil {
		return nil, err
	}
	return ExactComplex{rr.(Rational).get(), ir.(Rational).get()}, nil
}

func polar(mag, ang component, exact exactness) (Number, error) {
	if !mag.inexact && !ang.inexact && IsZero(ang.n) {
		return applyExactness(mag, exact)
	}
	mf, err := Convert(mag.n, KindInexactReal)
	if err != nil {
		return nil, err
	}
	af, err := Convert(ang.n, KindInexactReal)
	if err != nil {
		return nil, err
	}
	c := InexactComplex(cmplx.Rect(float64(mf.(InexactReal)), float64(af.(InexactReal))))
	if exact == exactnessExact {
		return ToExact(c)
	}
	return c, nil
}
