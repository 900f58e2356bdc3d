// Copyright © 2024 The ELPS authors

package scheme

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// DisplayFlags controls how values are rendered.  A Runtime carries one set
// of flags and passes it explicitly to the formatting functions.
type DisplayFlags struct {
	// LongBooleans renders #true and #false instead of #t and #f.
	LongBooleans bool
	// LongQuotes renders (quote x) instead of 'x.
	LongQuotes bool
	// DebugTokenTree renders values as an indented tree of typed nodes.
	DebugTokenTree bool
}

var charNames = map[rune]string{
	0x07: "alarm",
	0x08: "backspace",
	0x7f: "delete",
	0x1b: "escape",
	'\n': "newline",
	0x00: "null",
	'\r': "return",
	' ':  "space",
	'\t': "tab",
}

// CharacterNames maps the R7RS character names to their characters.
var CharacterNames = func() map[string]rune {
	m := make(map[string]rune, len(charNames)+1)
	for r, name := range charNames {
		m[name] = r
	}
	m["nul"] = 0
	return m
}()

// ToReprString renders e in Scheme syntax, the way the REPL prints results.
func ToReprString(e Expression, flags DisplayFlags) string {
	if q, ok := e.(Quotation); ok {
		if flags.DebugTokenTree {
			return DebugTree(q.Datum, 0) + "\n"
		}
		var b strings.Builder
		if flags.LongQuotes {
			b.WriteString("(quote ")
			writeDatum(&b, q.Datum, flags, false)
			b.WriteString(")")
		} else {
			b.WriteString("'")
			writeDatum(&b, q.Datum, flags, false)
		}
		return b.String()
	}
	return Repr(ToDatum(e), flags)
}

// Repr renders d so that the reader would read it back, as write does.
func Repr(d Datum, flags DisplayFlags) string {
	if flags.DebugTokenTree {
		return DebugTree(d, 0)
	}
	var b strings.Builder
	writeDatum(&b, d, flags, false)
	return b.String()
}

// DisplayString renders d the way display does: strings and characters are
// written without quoting or escapes.
func DisplayString(d Datum, flags DisplayFlags) string {
	var b strings.Builder
	writeDatum(&b, d, flags, true)
	return b.String()
}

func writeDatum(b *strings.Builder, d Datum, flags DisplayFlags, display bool) {
	switch d := d.(type) {
	case Boolean:
		switch {
		case bool(d) && flags.LongBooleans:
			b.WriteString("#true")
		case bool(d):
			b.WriteString("#t")
		case flags.LongBooleans:
			b.WriteString("#false")
		default:
			b.WriteString("#f")
		}
	case Number:
		b.WriteString(d.Number.String())
	case Character:
		if display {
			b.WriteRune(rune(d))
			return
		}
		b.WriteString(charRepr(rune(d)))
	case String:
		if display {
			b.WriteString(string(d))
			return
		}
		b.WriteString(stringRepr(string(d)))
	case Identifier:
		if display {
			b.WriteString(d.name)
			return
		}
		b.WriteString(d.String())
	case ByteVector:
		b.WriteString("#u8(")
		for i, x := range d {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(int(x)))
		}
		b.WriteString(")")
	case Vector:
		b.WriteString("#(")
		for i, x := range d {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeDatum(b, x, flags, display)
		}
		b.WriteString(")")
	case Null:
		b.WriteString("()")
	case *Pair:
		writePair(b, d, flags, display)
	case *Abbreviation:
		if flags.LongQuotes {
			b.WriteString("(")
			b.WriteString(d.Kind.FormName())
			b.WriteString(" ")
			writeDatum(b, d.Datum, flags, display)
			b.WriteString(")")
			return
		}
		b.WriteString(d.Kind.Prefix())
		writeDatum(b, d.Datum, flags, display)
	case *Labeled:
		fmt.Fprintf(b, "#%d=", d.Label)
		writeDatum(b, d.Datum, flags, display)
	case LabelRef:
		fmt.Fprintf(b, "#%d#", int(d))
	case ErrorObject:
		if display {
			b.WriteString(d.Message())
			return
		}
		b.WriteString(d.String())
	case nil:
		b.WriteString("#<nil>")
	default:
		b.WriteString(d.String())
	}
}

func writePair(b *strings.Builder, p *Pair, flags DisplayFlags, display bool) {
	items, tail := SplitImproper(p)
	b.WriteString("(")
	for i, x := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeDatum(b, x, flags, display)
	}
	switch tail := tail.(type) {
	case Null:
	case *Pair:
		// A circular spine.
		b.WriteString(" ...")
	default:
		b.WriteString(" . ")
		writeDatum(b, tail, flags, display)
	}
	b.WriteString(")")
}

func charRepr(r rune) string {
	if name, ok := charNames[r]; ok {
		return `#\` + name
	}
	if unicode.IsPrint(r) {
		return `#\` + string(r)
	}
	return fmt.Sprintf(`#\x%x`, r)
}

func stringRepr(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0x07:
			b.WriteString(`\a`)
		case 0x08:
			b.WriteString(`\b`)
		default:
			if unicode.IsPrint(r) {
				b.WriteRune(r)
			} else {
				fmt.Fprintf(&b, `\x%x;`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// DebugTree renders d as an indented tree with one typed node per line.
func DebugTree(d Datum, depth int) string {
	var b strings.Builder
	debugTree(&b, d, depth)
	return strings.TrimSuffix(b.String(), "\n")
}

func debugTree(b *strings.Builder, d Datum, depth int) {
	indent := strings.Repeat("  ", depth)
	switch d := d.(type) {
	case *Pair:
		items, tail := SplitImproper(d)
		fmt.Fprintf(b, "%slist\n", indent)
		for _, x := range items {
			debugTree(b, x, depth+1)
		}
		if !IsNull(tail) {
			fmt.Fprintf(b, "%s  .\n", indent)
			debugTree(b, tail, depth+1)
		}
	case Vector:
		fmt.Fprintf(b, "%svector\n", indent)
		for _, x := range d {
			debugTree(b, x, depth+1)
		}
	case *Abbreviation:
		fmt.Fprintf(b, "%s%s\n", indent, d.Kind.FormName())
		debugTree(b, d.Datum, depth+1)
	case *Labeled:
		fmt.Fprintf(b, "%slabel %d\n", indent, d.Label)
		debugTree(b, d.Datum, depth+1)
	case Number:
		fmt.Fprintf(b, "%snumber:%s %s\n", indent, d.Kind(), d.Number.String())
	default:
		fmt.Fprintf(b, "%s%s %s\n", indent, d.Type(), Repr(d, DisplayFlags{}))
	}
}
