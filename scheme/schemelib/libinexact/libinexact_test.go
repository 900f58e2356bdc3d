// Copyright © 2024 The ELPS authors

package libinexact_test

import (
	"testing"

	"github.com/tessellate/schemer/schemetest"
)

func TestInexactLibrary(t *testing.T) {
	tests := schemetest.TestSuite{
		{"sqrt", schemetest.TestSequence{
			{`(import (scheme inexact))`, `#<unspecified>`, ``},
			{`(sqrt 16)`, `4`, ``},
			{`(exact? (sqrt 16))`, `#t`, ``},
			{`(sqrt 1/4)`, `1/2`, ``},
			{`(sqrt 2.25)`, `1.5`, ``},
			{`(exact? (sqrt 2))`, `#f`, ``},
			{`(sqrt -4)`, `0.0+2.0i`, ``},
			{`(sqrt 'a)`, `sqrt: expected number but got symbol`, ``},
		}},
		{"transcendental", schemetest.TestSequence{
			{`(import (scheme inexact))`, `#<unspecified>`, ``},
			{`(exp 0)`, `1.0`, ``},
			{`(log 1)`, `0.0`, ``},
			{`(log 100 100)`, `1.0`, ``},
			{`(sin 0)`, `0.0`, ``},
			{`(cos 0)`, `1.0`, ``},
			{`(atan 0)`, `0.0`, ``},
			{`(atan 1 1)`, `0.7853981633974483`, ``},
			{`(asin 1)`, `1.5707963267948966`, ``},
			{`(real? (asin 2))`, `#f`, ``},
			{`(real? (log -1))`, `#f`, ``},
			{`(log 1 2 3)`, `log: expected between 1 and 2 arguments (got 3)`, ``},
		}},
		{"classification", schemetest.TestSequence{
			{`(import (scheme inexact))`, `#<unspecified>`, ``},
			{`(finite? 1)`, `#t`, ``},
			{`(finite? 1.5)`, `#t`, ``},
			{`(finite? +inf.0)`, `#f`, ``},
			{`(infinite? -inf.0)`, `#t`, ``},
			{`(infinite? 1/3)`, `#f`, ``},
			{`(nan? +nan.0)`, `#t`, ``},
			{`(nan? 1/2)`, `#f`, ``},
			{`(nan? "x")`, `nan?: expected number but got string`, ``},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}
