// Copyright © 2018 The ELPS authors

package scheme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/schemetest"
)

func TestNumericBuiltins(t *testing.T) {
	tests := schemetest.TestSuite{
		{"arithmetic", schemetest.TestSequence{
			{`(+)`, `0`, ``},
			{`(*)`, `1`, ``},
			{`(+ 1 2 3)`, `6`, ``},
			{`(+ 1 2.5)`, `3.5`, ``},
			{`(* 1.0 2)`, `2.0`, ``},
			{`(- 5)`, `-5`, ``},
			{`(- 10 1 2)`, `7`, ``},
			{`(/ 2)`, `1/2`, ``},
			{`(/ 1 3)`, `1/3`, ``},
			{`(/ 6 3)`, `2`, ``},
			{`(+ 1/2 1/2)`, `1`, ``},
			{`(+ 1/3 1+2i)`, `4/3+2i`, ``},
			{`(+ 1+2i 1/3)`, `4/3+2i`, ``},
			{`(/ 1+2i 3)`, `1/3+2/3i`, ``},
			{`(* (/ 1+2i 3) 3)`, `1+2i`, ``},
			{`(= (* (/ 1+2i 3) 3) 1+2i)`, `#t`, ``},
			{`(exact? (/ #e1.5 #e0.7))`, `#t`, ``},
			{`(/ #e1.5 #e0.7)`, `15/7`, ``},
			{`(/ 1 0)`, `/: division by zero`, ``},
			{`(+ 1 "a")`, `+: expected number but got string`, ``},
			{`(+ 1 'a)`, `+: expected number but got symbol`, ``},
			{`(- )`, `-: expected at least 1 arguments (got 0)`, ``},
			{`(square 3)`, `9`, ``},
			{`(abs -5)`, `5`, ``},
			{`(expt 2 10)`, `1024`, ``},
		}},
		{"integer division", schemetest.TestSequence{
			{`(quotient 7 2)`, `3`, ``},
			{`(remainder -7 2)`, `-1`, ``},
			{`(modulo -7 2)`, `1`, ``},
			{`(gcd 12 18)`, `6`, ``},
			{`(gcd)`, `0`, ``},
			{`(lcm 4 6)`, `12`, ``},
			{`(lcm)`, `1`, ``},
			{`(quotient 1 0)`, `quotient: division by zero`, ``},
		}},
		{"comparison", schemetest.TestSequence{
			{`(< 1 2 3)`, `#t`, ``},
			{`(< 1 3 2)`, `#f`, ``},
			{`(>= 3 3 1)`, `#t`, ``},
			{`(= 1 1.0)`, `#t`, ``},
			{`(= 1/2 0.5)`, `#t`, ``},
			{`(< 1)`, `<: expected at least 2 arguments (got 1)`, ``},
			{`(max 1 2.0)`, `2.0`, ``},
			{`(min 1 2.0)`, `1.0`, ``},
			{`(max 3 1 2)`, `3`, ``},
		}},
		{"exactness", schemetest.TestSequence{
			{`(exact 2.5)`, `5/2`, ``},
			{`(exact 2.0)`, `2`, ``},
			{`(inexact 1/4)`, `0.25`, ``},
			{`(exact->inexact 1/4)`, `0.25`, ``},
			{`(exact? 1/2)`, `#t`, ``},
			{`(inexact? 0.5)`, `#t`, ``},
			{`(exact-integer? 5)`, `#t`, ``},
			{`(exact-integer? 5.0)`, `#f`, ``},
			{`(integer? 2.0)`, `#t`, ``},
			{`(rational? 1/2)`, `#t`, ``},
			{`(real? 1+2i)`, `#f`, ``},
			{`(complex? 1)`, `#t`, ``},
			{`(number? 'a)`, `#f`, ``},
		}},
		{"rounding", schemetest.TestSequence{
			{`(round 2.5)`, `2.0`, ``},
			{`(round 7/2)`, `4`, ``},
			{`(round 5/2)`, `2`, ``},
			{`(floor -1.5)`, `-2.0`, ``},
			{`(ceiling 1.2)`, `2.0`, ``},
			{`(truncate -1.7)`, `-1.0`, ``},
			{`(floor 5)`, `5`, ``},
			{`(numerator 6/4)`, `3`, ``},
			{`(denominator 6/4)`, `2`, ``},
		}},
		{"predicates", schemetest.TestSequence{
			{`(zero? 0)`, `#t`, ``},
			{`(zero? 0.0)`, `#t`, ``},
			{`(positive? 1/2)`, `#t`, ``},
			{`(negative? -1)`, `#t`, ``},
			{`(odd? 3)`, `#t`, ``},
			{`(even? 3)`, `#f`, ``},
			{`(positive? 1+i)`, `positive?: expected real number but got number`, ``},
		}},
		{"conversion", schemetest.TestSequence{
			{`(number->string 42)`, `"42"`, ``},
			{`(number->string 255 16)`, `"ff"`, ``},
			{`(number->string 5 2)`, `"101"`, ``},
			{`(number->string 1.5 2)`, `number->string: expected exact integer but got number`, ``},
			{`(number->string 1 3)`, `invalid number->string: "3"`, ``},
			{`(string->number "42")`, `42`, ``},
			{`(string->number "1/2")`, `1/2`, ``},
			{`(string->number "ff" 16)`, `255`, ``},
			{`(string->number "abc")`, `#f`, ``},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestListBuiltins(t *testing.T) {
	tests := schemetest.TestSuite{
		{"pairs", schemetest.TestSequence{
			{`(cons 1 2)`, `'(1 . 2)`, ``},
			{`(cons 1 '(2))`, `'(1 2)`, ``},
			{`(car '(a b))`, `a`, ``},
			{`(cdr '(a b))`, `'(b)`, ``},
			{`(car '())`, `car: expected pair but got null`, ``},
			{`(define p (list 1 2))`, `#<unspecified>`, ``},
			{`(set-car! p 9)`, `#<unspecified>`, ``},
			{`(set-cdr! (cdr p) '(3))`, `#<unspecified>`, ``},
			{`p`, `'(9 2 3)`, ``},
		}},
		{"predicates", schemetest.TestSequence{
			{`(null? '())`, `#t`, ``},
			{`(null? '(1))`, `#f`, ``},
			{`(pair? '())`, `#f`, ``},
			{`(pair? '(1 . 2))`, `#t`, ``},
			{`(list? '(1 2))`, `#t`, ``},
			{`(list? '(1 . 2))`, `#f`, ``},
		}},
		{"list operations", schemetest.TestSequence{
			{`(list)`, `()`, ``},
			{`(list 1 'a "s")`, `'(1 a "s")`, ``},
			{`(length '(1 2 3))`, `3`, ``},
			{`(length '(1 2 . 3))`, `length: expected list but got pair`, ``},
			{`(append)`, `()`, ``},
			{`(append '(1) '(2) '(3 4))`, `'(1 2 3 4)`, ``},
			{`(append '(1) '(2) 3)`, `'(1 2 . 3)`, ``},
			{`(reverse '(1 2 3))`, `'(3 2 1)`, ``},
			{`(list-tail '(1 2 3) 1)`, `'(2 3)`, ``},
			{`(list-ref '(a b c) 1)`, `b`, ``},
			{`(list-copy '(1 2))`, `'(1 2)`, ``},
		}},
		{"searching", schemetest.TestSequence{
			{`(memq 'c '(a b c d))`, `'(c d)`, ``},
			{`(memq 'z '(a b))`, `#f`, ``},
			{`(member '(1) '((0) (1) (2)))`, `'((1) (2))`, ``},
			{`(member 2.0 '(1 2 3) =)`, `'(2 3)`, ``},
			{`(memv 1.5 '(1 1.5))`, `'(1.5)`, ``},
			{`(assq 'b '((a 1) (b 2)))`, `'(b 2)`, ``},
			{`(assv 3 '((1 a) (2 b)))`, `#f`, ``},
			{`(assoc "b" '(("a" . 1) ("b" . 2)))`, `'("b" . 2)`, ``},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestDataBuiltins(t *testing.T) {
	tests := schemetest.TestSuite{
		{"equivalence", schemetest.TestSequence{
			{`(eq? 'a 'a)`, `#t`, ``},
			{`(eq? '() '())`, `#t`, ``},
			{`(eqv? 1.0 1)`, `#f`, ``},
			{`(eqv? 2 2)`, `#t`, ``},
			{`(eq? "ab" "ab")`, `#t`, ``},
			{`(equal? '(1 (2 #(3))) '(1 (2 #(3))))`, `#t`, ``},
			{`(equal? '(1 2) '(1 2 3))`, `#f`, ``},
			{`(not 1)`, `#f`, ``},
			{`(not #f)`, `#t`, ``},
			{`(boolean? #f)`, `#t`, ``},
			{`(boolean=? #t #t #t)`, `#t`, ``},
		}},
		{"symbols", schemetest.TestSequence{
			{`(symbol? 'abc)`, `#t`, ``},
			{`(symbol? "abc")`, `#f`, ``},
			{`(symbol->string 'abc)`, `"abc"`, ``},
			{`(string->symbol "hello world")`, `|hello world|`, ``},
			{`(symbol->string 1)`, `symbol->string: expected symbol but got number`, ``},
		}},
		{"strings", schemetest.TestSequence{
			{`(string? "a")`, `#t`, ``},
			{`(string-length "héllo")`, `5`, ``},
			{`(string-ref "abc" 1)`, `#\b`, ``},
			{`(string-ref "abc" 3)`, `invalid string-ref: "3 of 3"`, ``},
			{`(string-append "a" "b" "c")`, `"abc"`, ``},
			{`(substring "hello" 1 3)`, `"el"`, ``},
			{`(string=? "a" "a")`, `#t`, ``},
			{`(string<? "a" "b")`, `#t`, ``},
			{`(string->list "ab")`, `'(#\a #\b)`, ``},
			{`(list->string '(#\a #\b))`, `"ab"`, ``},
			{`(string-copy "abc")`, `"abc"`, ``},
		}},
		{"vectors", schemetest.TestSequence{
			{`(vector 1 'a)`, `#(1 a)`, ``},
			{`(vector? #(1))`, `#t`, ``},
			{`(vector-length #(1 2 3))`, `3`, ``},
			{`(vector-ref #(1 2 3) 0)`, `1`, ``},
			{`(vector-ref (vector 1 2) 5)`, `invalid vector-ref: "5 of 2"`, ``},
			{`(vector-ref #(1) -1)`, `invalid vector-ref: "-1"`, ``},
			{`(define v (make-vector 2 0))`, `#<unspecified>`, ``},
			{`(vector-set! v 1 'x)`, `#<unspecified>`, ``},
			{`v`, `#(0 x)`, ``},
			{`(vector->list #(1 2))`, `'(1 2)`, ``},
			{`(list->vector '(1 2))`, `#(1 2)`, ``},
		}},
		{"bytevectors", schemetest.TestSequence{
			{`(bytevector 1 2)`, `#u8(1 2)`, ``},
			{`(bytevector? #u8())`, `#t`, ``},
			{`(bytevector-length #u8(1 2 3))`, `3`, ``},
			{`(bytevector-u8-ref #u8(5 6) 1)`, `6`, ``},
			{`(bytevector 256)`, `invalid bytevector: "256"`, ``},
		}},
		{"char", schemetest.TestSequence{
			{`(char? #\a)`, `#t`, ``},
			{`(char? "a")`, `#f`, ``},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestRegisterDefaultBuiltin(t *testing.T) {
	scheme.RegisterDefaultBuiltin("test-constant", scheme.Formals(), func(env *scheme.Env, args []scheme.Expression) (scheme.Expression, error) {
		return scheme.Int(7), nil
	}, "Returns 7.")
	env := newEnv(t)
	v, err := env.Eval(read(t, `(test-constant)`))
	require.NoError(t, err)
	assert.Equal(t, "7", v.String())
}
