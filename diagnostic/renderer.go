// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/tessellate/schemer/scheme"
)

// tabWidth is the distance between tab stops in rendered source lines.
const tabWidth = 4

// limitCodes are the error kinds raised when a resource limit stops a
// program rather than a fault in it.  Their headers use the warning color.
var limitCodes = map[string]bool{
	scheme.KindStackDepth.String(): true,
	scheme.KindStepLimit.String():  true,
	scheme.KindCancelled.String():  true,
}

// Renderer formats diagnostics as annotated source snippets:
//
//	error[unbound-variable]: unbound variable: x
//	  --> prog.scm:3:11
//	   |
//	 3 |  (display x)
//	   |            ^
//	   |
//	   = note: in show at top-level
//
// Columns count runes.  With no column the whole datum at the start of the
// line is underlined.  With no end column the datum at the start column is.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	return r.RenderAll(w, []Diagnostic{d})
}

// RenderError converts err with FromError and renders it to w.
func (r *Renderer) RenderError(w io.Writer, err error, file string) error {
	return r.Render(w, FromError(err, file))
}

// RenderAll writes all diagnostics to w separated by blank lines.  Each
// source file is read at most once.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	pg := &page{
		p:       choosePalette(r.Color, fileFromWriter(w)),
		read:    r.readFile,
		sources: make(map[string][]string),
	}
	for i, d := range diags {
		if i > 0 {
			pg.buf.WriteByte('\n')
		}
		pg.diagnostic(d)
	}
	_, err := w.Write(pg.buf.Bytes())
	return err
}

func (r *Renderer) readFile(name string) ([]byte, error) {
	if r.SourceReader != nil {
		return r.SourceReader(name)
	}
	return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
}

// page accumulates rendered output so it reaches the writer in one call.
type page struct {
	buf     bytes.Buffer
	p       palette
	read    func(string) ([]byte, error)
	sources map[string][]string // nil entry: file unreadable
}

func (pg *page) printf(format string, a ...interface{}) {
	fmt.Fprintf(&pg.buf, format, a...)
}

func (pg *page) diagnostic(d Diagnostic) {
	label := d.Severity.String()
	if d.Code != "" {
		label += "[" + d.Code + "]"
	}
	pg.printf("%s%s%s: %s%s%s\n", pg.headerColor(d), label, pg.p.reset, pg.p.bold, d.Message, pg.p.reset)

	width := gutterWidth(d.Spans)
	for _, s := range d.Spans {
		pg.span(s, width)
	}
	for _, note := range d.Notes {
		pg.printf("%s%s=%s note: %s\n", strings.Repeat(" ", width+2), pg.p.boldCyan, pg.p.reset, note)
	}
}

func (pg *page) headerColor(d Diagnostic) string {
	switch {
	case d.Severity == SeverityNote:
		return pg.p.boldCyan
	case d.Severity == SeverityWarning || limitCodes[d.Code]:
		return pg.p.yellow + pg.p.bold
	}
	return pg.p.boldRed
}

// gutterWidth is the number of digits in the largest line number shown.
func gutterWidth(spans []Span) int {
	width := 1
	for _, s := range spans {
		if n := len(strconv.Itoa(s.Line)); n > width {
			width = n
		}
	}
	return width
}

func (pg *page) gutter(width int) {
	pg.printf(" %s%s |%s", pg.p.boldBlue, strings.Repeat(" ", width), pg.p.reset)
}

func (pg *page) span(s Span, width int) {
	pg.printf("%s%s-->%s %s\n", strings.Repeat(" ", width+1), pg.p.boldBlue, pg.p.reset, location(s))
	pg.gutter(width)
	pg.buf.WriteByte('\n')

	text, ok := pg.line(s.File, s.Line)
	if !ok {
		return
	}
	runes := []rune(text)
	display, offsets := expandTabs(runes)
	pg.printf(" %s%*d |%s  %s\n", pg.p.boldBlue, width, s.Line, pg.p.reset, display)

	column := func(i int) int {
		if i <= len(runes) {
			return offsets[i]
		}
		return offsets[len(runes)] + i - len(runes)
	}
	start := s.Col
	if start <= 0 {
		start = 1
	}
	end := s.EndCol
	if end <= 0 {
		end = datumEnd(runes, start-1)
	}
	carets := column(end) - column(start-1)
	if carets < 1 {
		carets = 1
	}
	pg.gutter(width)
	pg.printf("  %s%s%s%s", strings.Repeat(" ", column(start-1)), pg.p.boldRed, strings.Repeat("^", carets), pg.p.reset)
	if s.Label != "" {
		pg.printf(" %s%s%s", pg.p.boldRed, s.Label, pg.p.reset)
	}
	pg.buf.WriteByte('\n')
	pg.gutter(width)
	pg.buf.WriteByte('\n')
}

// line returns line n of file.  Interactive input has no retrievable
// source.
func (pg *page) line(file string, n int) (string, bool) {
	if n <= 0 || file == "" || file == StdinName {
		return "", false
	}
	lines, seen := pg.sources[file]
	if !seen {
		if data, err := pg.read(file); err == nil {
			lines = strings.Split(string(data), "\n")
		}
		pg.sources[file] = lines
	}
	if n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

func location(s Span) string {
	loc := s.File
	if s.Line > 0 {
		loc += ":" + strconv.Itoa(s.Line)
		if s.Col > 0 {
			loc += ":" + strconv.Itoa(s.Col)
		}
	}
	return loc
}

// expandTabs replaces tabs with spaces up to the next tab stop.  offsets[i]
// is the display column of runes[i]; the final entry is the display width.
func expandTabs(runes []rune) (string, []int) {
	var b strings.Builder
	offsets := make([]int, len(runes)+1)
	col := 0
	for i, c := range runes {
		offsets[i] = col
		if c == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(c)
		col++
	}
	offsets[len(runes)] = col
	return b.String(), offsets
}

// datumEnd returns the index just past the datum that starts at runes[i].
// A datum left open at the end of the line extends to the end of the line.
func datumEnd(runes []rune, i int) int {
	if i >= len(runes) {
		return i + 1
	}
	switch c := runes[i]; c {
	case '\'', '`':
		return datumEnd(runes, i+1)
	case ',':
		if i+1 < len(runes) && runes[i+1] == '@' {
			return datumEnd(runes, i+2)
		}
		return datumEnd(runes, i+1)
	case '"', '|':
		return delimitedEnd(runes, i+1, c)
	case '(', '[':
		return listEnd(runes, i+1)
	case '#':
		rest := string(runes[i+1:])
		switch {
		case strings.HasPrefix(rest, "("):
			return listEnd(runes, i+2)
		case strings.HasPrefix(rest, "u8("):
			return listEnd(runes, i+4)
		case strings.HasPrefix(rest, `\`) && len(rest) > 1:
			// The rune after #\ belongs to the character even when it is
			// a delimiter.
			j := i + 3
			for j < len(runes) && !isDelimiter(runes[j]) {
				j++
			}
			return j
		}
	}
	return atomEnd(runes, i)
}

func listEnd(runes []rune, i int) int {
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == ')' || c == ']':
			return i + 1
		case c == ';':
			return len(runes)
		case unicode.IsSpace(c):
			i++
		default:
			i = datumEnd(runes, i)
		}
	}
	return len(runes)
}

// delimitedEnd scans a string or |symbol| body starting at i for its
// closing quote, honoring backslash escapes.
func delimitedEnd(runes []rune, i int, quote rune) int {
	for ; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(runes)
}

func atomEnd(runes []rune, i int) int {
	j := i
	for j < len(runes) && !isDelimiter(runes[j]) {
		j++
	}
	if j == i {
		return i + 1
	}
	return j
}

func isDelimiter(c rune) bool {
	switch c {
	case '(', ')', '[', ']', '"', ';':
		return true
	}
	return unicode.IsSpace(c)
}

// fileFromWriter returns the file behind w for terminal detection, or nil.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
