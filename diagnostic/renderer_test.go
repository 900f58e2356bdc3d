// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.scm": "(set! undefined 42)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Code:     "unbound-variable",
		Message:  "unbound variable: undefined",
		Spans: []Span{
			{File: "test.scm", Line: 1, Col: 7, EndCol: 15, Label: "set! target is not bound"},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()

	assertContains(t, got, "error[unbound-variable]: unbound variable: undefined")
	assertContains(t, got, "--> test.scm:1:7")
	assertContains(t, got, "(set! undefined 42)")
	assertContains(t, got, "^^^^^^^^^ set! target is not bound")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.scm": "(define x 1)\n(define x 2)",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "redefinition of x",
		Spans: []Span{
			{File: "test.scm", Line: 2, Col: 1, EndCol: 12},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "warning: redefinition of x")
	assertContains(t, got, "--> test.scm:2:1")
	assertContains(t, got, "(define x 2)")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: StdinName, Line: 5, Col: 3},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: some error")
	assertContains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assertContains(t, got, "|")
	assertNotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.scm": "(my-fn 1 2)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "unbound variable: my-fn",
		Spans: []Span{
			{File: "test.scm", Line: 1, Col: 2, EndCol: 6},
		},
		Notes: []string{
			"in car [builtin] in *my-fn*",
			"in my-fn in top-level",
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "= note: in car [builtin] in *my-fn*")
	assertContains(t, got, "= note: in my-fn in top-level")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.scm": "(define (true) 42)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "bad syntax in define",
		Spans: []Span{
			{File: "test.scm", Line: 1, Col: 10}, // EndCol=0 → auto-detect
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// "true" starts at col 10 and is 4 chars
	assertContains(t, got, "^^^^")
	assertNotContains(t, got, "^^^^^")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.scm": "(set! x 1)\n(set! x 2)\n(if #t)",
	})

	diags := []Diagnostic{
		{
			Severity: SeverityWarning,
			Message:  "repeated set! of x",
			Spans:    []Span{{File: "test.scm", Line: 2, Col: 1, EndCol: 10}},
		},
		{
			Severity: SeverityError,
			Message:  "bad syntax in if: incorrect argument count",
			Spans:    []Span{{File: "test.scm", Line: 3, Col: 1, EndCol: 7}},
		},
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// Should have both diagnostics separated by blank line
	parts := strings.Split(got, "\n\n")
	if len(parts) < 2 {
		t.Errorf("expected diagnostics separated by blank line, got:\n%s", got)
	}
	assertContains(t, got, "repeated set! of x")
	assertContains(t, got, "bad syntax in if: incorrect argument count")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "unknown library: (srfi 1)",
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: unknown library: (srfi 1)")
	// Should be just the header, no arrows or source
	assertNotContains(t, got, "-->")
}

func TestRenderMatchingParen(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.scm": `(display (car "(x)" #\)) 1)`,
	})
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "car: expected pair but got string",
		Spans:    []Span{{File: "test.scm", Line: 1, Col: 10}},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	// (car "(x)" #\)) spans columns 10 through 24.
	want := strings.Repeat(" ", 9) + strings.Repeat("^", 15) + "\n"
	assertContains(t, buf.String(), want)
}

func TestRenderColor(t *testing.T) {
	r := &Renderer{Color: ColorAlways}
	var buf bytes.Buffer
	if err := r.Render(&buf, Diagnostic{Severity: SeverityError, Message: "boom"}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "\033[1;31m")

	r.Color = ColorNever
	buf.Reset()
	if err := r.Render(&buf, Diagnostic{Severity: SeverityError, Message: "boom"}); err != nil {
		t.Fatal(err)
	}
	assertNotContains(t, buf.String(), "\033[")
}

func TestRenderLimitHeader(t *testing.T) {
	r := &Renderer{Color: ColorAlways}
	var buf bytes.Buffer
	d := Diagnostic{Severity: SeverityError, Code: "step-limit-exceeded", Message: "evaluation exceeded 10 steps"}
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "\033[33m\033[1merror[step-limit-exceeded]")
	assertNotContains(t, buf.String(), "\033[1;31m")

	buf.Reset()
	d = Diagnostic{Severity: SeverityError, Code: "division-by-zero", Message: "/: division by zero"}
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "\033[1;31merror[division-by-zero]")
}

func TestRenderGutterAlignment(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "(f)"
	}
	r := testRenderer(map[string]string{"test.scm": strings.Join(lines, "\n")})
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "f: expected 1 argument (got 0)",
		Spans: []Span{
			{File: "test.scm", Line: 9, Col: 1},
			{File: "test.scm", Line: 12, Col: 1},
		},
		Notes: []string{"in f at top-level"},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	assertContains(t, got, "   --> test.scm:9:1\n")
	assertContains(t, got, "  9 |  (f)\n")
	assertContains(t, got, " 12 |  (f)\n")
	assertContains(t, got, "    |  ^^^\n")
	assertContains(t, got, "\n    = note: in f at top-level\n")
}

func TestRenderDatumExtent(t *testing.T) {
	tests := []struct {
		name   string
		source string
		col    int
		want   string
	}{
		{"symbol", "(define (true) 42)", 10, strings.Repeat(" ", 9) + "^^^^\n"},
		{"quoted list", "(f '(a (b)) 2)", 4, strings.Repeat(" ", 3) + "^^^^^^^^\n"},
		{"vector", "(vector-ref #(1 \")\" 3) 9)", 13, strings.Repeat(" ", 12) + strings.Repeat("^", 10) + "\n"},
		{"bytevector", "(g #u8(1 2))", 4, strings.Repeat(" ", 3) + strings.Repeat("^", 8) + "\n"},
		{"unicode", "(list \"λ\" bad)", 11, strings.Repeat(" ", 10) + "^^^\n"},
		{"unclosed", "(let ((x 1)", 1, "^^^^^^^^^^^\n"},
		{"tab", "\t(car 1)", 2, strings.Repeat(" ", 4) + "^^^^^^^\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := testRenderer(map[string]string{"test.scm": test.source})
			d := Diagnostic{
				Severity: SeverityError,
				Message:  "boom",
				Spans:    []Span{{File: "test.scm", Line: 1, Col: test.col}},
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, d); err != nil {
				t.Fatal(err)
			}
			assertContains(t, buf.String(), "   |  "+test.want)
		})
	}
}

func TestRenderAllReadsSourceOnce(t *testing.T) {
	reads := 0
	r := &Renderer{
		Color: ColorNever,
		SourceReader: func(string) ([]byte, error) {
			reads++
			return []byte("(a)\n(b)\n"), nil
		},
	}
	diags := []Diagnostic{
		{Severity: SeverityWarning, Message: "first", Spans: []Span{{File: "test.scm", Line: 1, Col: 1}}},
		{Severity: SeverityWarning, Message: "second", Spans: []Span{{File: "test.scm", Line: 2, Col: 1}}},
		{Severity: SeverityWarning, Message: "past the end", Spans: []Span{{File: "test.scm", Line: 7, Col: 1}}},
	}
	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}
	if reads != 1 {
		t.Errorf("source read %d times", reads)
	}
	assertContains(t, buf.String(), " 2 |  (b)")
	assertNotContains(t, buf.String(), " 7 |")
}

func TestParseColorMode(t *testing.T) {
	for _, mode := range []ColorMode{ColorAuto, ColorAlways, ColorNever} {
		got, err := ParseColorMode(mode.String())
		if err != nil || got != mode {
			t.Errorf("ParseColorMode(%q) = %v, %v", mode.String(), got, err)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Error("expected an error for an unknown color mode")
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("output unexpectedly contains %q:\n%s", unwanted, got)
	}
}
