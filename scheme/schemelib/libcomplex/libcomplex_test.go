// Copyright © 2024 The ELPS authors

package libcomplex_test

import (
	"testing"

	"github.com/tessellate/schemer/schemetest"
)

func TestComplexLibrary(t *testing.T) {
	tests := schemetest.TestSuite{
		{"construction", schemetest.TestSequence{
			{`(import (scheme complex))`, `#<unspecified>`, ``},
			{`(make-rectangular 1 2)`, `1+2i`, ``},
			{`(exact? (make-rectangular 1 2))`, `#t`, ``},
			{`(make-rectangular 3 0)`, `3`, ``},
			{`(make-rectangular 1.5 -2)`, `1.5-2.0i`, ``},
			{`(make-rectangular 1/3 1)`, `1/3+1i`, ``},
			{`(exact? (make-rectangular 1/3 1))`, `#t`, ``},
			{`(real-part (make-rectangular 1/3 1))`, `1/3`, ``},
			{`(make-polar 2 0)`, `2.0`, ``},
			{`(make-rectangular 'a 1)`, `make-rectangular: expected number but got symbol`, ``},
		}},
		{"accessors", schemetest.TestSequence{
			{`(import (scheme complex))`, `#<unspecified>`, ``},
			{`(define z (make-rectangular 3 -4))`, `#<unspecified>`, ``},
			{`(real-part z)`, `3`, ``},
			{`(imag-part z)`, `-4`, ``},
			{`(magnitude z)`, `5.0`, ``},
			{`(real-part 7)`, `7`, ``},
			{`(imag-part 7.5)`, `0`, ``},
			{`(magnitude -5)`, `5`, ``},
			{`(angle 1)`, `0`, ``},
			{`(angle -1)`, `3.141592653589793`, ``},
			{`(angle (make-rectangular 0.0 1.0))`, `1.5707963267948966`, ``},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}
