// Copyright © 2018 The ELPS authors

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/num"
)

const (
	nodeInvalid nodeType = iota
	nodeAtom
	nodeString
	nodeOpenString
	nodeChar
	nodePipeSymbol
	nodeList
	nodeBracketList
	nodeVector
	nodeByteVector
	nodeUnmatched
	nodeQuote
	nodeQuasiquote
	nodeUnquote
	nodeUnquoteSplicing
	nodeLabel
	nodeLabelRef
	nodeDatumComment
)

var nodeTypeStrings = []string{
	nodeInvalid:         "INVALID",
	nodeAtom:            "ATOM",
	nodeString:          "STRING",
	nodeOpenString:      "OPENSTRING",
	nodeChar:            "CHAR",
	nodePipeSymbol:      "PIPESYMBOL",
	nodeList:            "LIST",
	nodeBracketList:     "BRACKETLIST",
	nodeVector:          "VECTOR",
	nodeByteVector:      "BYTEVECTOR",
	nodeUnmatched:       "UNMATCHED",
	nodeQuote:           "QUOTE",
	nodeQuasiquote:      "QUASIQUOTE",
	nodeUnquote:         "UNQUOTE",
	nodeUnquoteSplicing: "UNQUOTESPLICING",
	nodeLabel:           "LABEL",
	nodeLabelRef:        "LABELREF",
	nodeDatumComment:    "DATUMCOMMENT",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// skipNode stands in for commented-out text.
type skipNode struct{}

// dotNode is the '.' of an improper list.
type dotNode struct{}

var abbreviationKinds = map[nodeType]scheme.AbbreviationKind{
	nodeQuote:           scheme.AbbrevQuote,
	nodeQuasiquote:      scheme.AbbrevQuasiquote,
	nodeUnquote:         scheme.AbbrevUnquote,
	nodeUnquoteSplicing: scheme.AbbrevUnquoteSplicing,
}

// Parse reads datums from text.  The number of bytes consumed is returned
// along with any error encountered.
func Parse(text []byte) ([]scheme.Datum, int, error) {
	var ds []scheme.Datum
	s := parsec.NewScanner(text)
	s = s.TrackLineno()
	p := newParsecParser()
	root, s := p(s)
	for root != nil {
		d, err := rootDatum(root)
		if err != nil {
			if serr, ok := err.(*SyntaxError); ok && serr.Line == 0 {
				serr.Line = s.Lineno()
			}
			return ds, s.GetCursor(), err
		}
		if d != nil {
			ds = append(ds, d)
		}
		root, s = p(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`(?s).{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		msg := fmt.Sprintf("unexpected source text possibly starting: %s", b)
		incomplete := false
		if len(b) > 0 && b[0] == '"' {
			msg = "unterminated string"
			incomplete = true
		}
		return ds, s.GetCursor(), &SyntaxError{Line: s.Lineno(), Msg: msg, Incomplete: incomplete}
	}
	return ds, s.GetCursor(), nil
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	openV := parsec.Atom("#(", "OPENV")
	openBV := parsec.Atom("#u8(", "OPENBV")
	quote := parsec.Atom("'", "QUOTE")
	quasiquote := parsec.Atom("`", "QUASIQUOTE")
	unquoteSplicing := parsec.Atom(",@", "UNQUOTESPLICING")
	unquote := parsec.Atom(",", "UNQUOTE")
	datumComment := parsec.Atom("#;", "DATUMCOMMENT")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	blockComment := parsec.Token(`#\|(?s:.)*?\|#`, "COMMENT")
	directive := parsec.Token(`#![a-zA-Z\-]+`, "COMMENT")
	label := parsec.Token(`#[0-9]+=`, "LABEL")
	labelRef := parsec.Token(`#[0-9]+#`, "LABELREF")
	str := parsec.Token(`"(?:[^"\\]|\\(?s:.))*"`, "STRING")
	openStr := parsec.Token(`"(?:[^"\\]|\\(?s:.))*\z`, "OPENSTRING")
	char := parsec.Token(`#\\(?:[a-zA-Z0-9]+|(?s:.))`, "CHAR")
	pipeSymbol := parsec.Token(`\|(?:[^|\\]|\\(?s:.))*\|`, "PIPESYMBOL")
	atom := parsec.Token("[^\\s()\\[\\]\";'`,|]+", "ATOM")

	var datum parsec.Parser // forward declaration allows for recursive parsing
	items := parsec.Kleene(nil, &datum)
	list := parsec.And(astNode(nodeList), openP, items, closeP)
	bracketList := parsec.And(astNode(nodeBracketList), openB, items, closeB)
	vector := parsec.And(astNode(nodeVector), openV, items, closeP)
	bytevector := parsec.And(astNode(nodeByteVector), openBV, items, closeP)
	unmatched := parsec.And(astNode(nodeUnmatched),
		parsec.OrdChoice(nil, openBV, openV, openP, openB), items, parsec.Parser(endOfInput))
	datum = parsec.OrdChoice(nil,
		comment,
		blockComment,
		directive,
		parsec.And(astNode(nodeDatumComment), datumComment, &datum),
		parsec.And(astNode(nodeLabel), label, &datum),
		parsec.And(astNode(nodeLabelRef), labelRef),
		parsec.And(astNode(nodeChar), char),
		parsec.And(astNode(nodeString), str),
		parsec.And(astNode(nodeOpenString), openStr),
		parsec.And(astNode(nodePipeSymbol), pipeSymbol),
		bytevector,
		vector,
		list,
		bracketList,
		parsec.And(astNode(nodeQuote), quote, &datum),
		parsec.And(astNode(nodeQuasiquote), quasiquote, &datum),
		parsec.And(astNode(nodeUnquoteSplicing), unquoteSplicing, &datum),
		parsec.And(astNode(nodeUnquote), unquote, &datum),
		// An unclosed #( must not be read as the atom #.
		unmatched,
		parsec.And(astNode(nodeAtom), atom),
	)
	return datum
}

// endOfInput matches when only whitespace and comments remain.
func endOfInput(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
	news := s.Clone()
	_, news = news.SkipAny(`^(?:\s+|;[^\n]*|#\|(?s:.)*?\|#)+`)
	if !news.Endof() {
		return nil, s
	}
	return skipNode{}, news
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newAST(t, nodes)
	}
}

// newAST converts the matched nodes to a datum, a skipNode, a dotNode or an
// error.
func newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeAtom:
		return atomDatum(terminalValue(nodes[0]))
	case nodeString:
		s, err := unescapeString(trimDelimiters(terminalValue(nodes[0])), '"')
		if err != nil {
			return err
		}
		return scheme.String(s)
	case nodeOpenString:
		return &SyntaxError{Msg: "unterminated string", Incomplete: true}
	case nodePipeSymbol:
		s, err := unescapeString(trimDelimiters(terminalValue(nodes[0])), '|')
		if err != nil {
			return err
		}
		return scheme.IdentifierUnchecked(s)
	case nodeChar:
		return charDatum(terminalValue(nodes[0]))
	case nodeLabelRef:
		n, err := labelNumber(terminalValue(nodes[0]))
		if err != nil {
			return err
		}
		return scheme.LabelRef(n)
	case nodeLabel:
		n, err := labelNumber(terminalValue(nodes[0]))
		if err != nil {
			return err
		}
		d, err := singleDatum(nodes[1:], "label")
		if err != nil {
			return err
		}
		return &scheme.Labeled{Label: n, Datum: d}
	case nodeDatumComment:
		return skipNode{}
	case nodeQuote, nodeQuasiquote, nodeUnquote, nodeUnquoteSplicing:
		d, err := singleDatum(nodes[1:], terminalValue(nodes[0]))
		if err != nil {
			return err
		}
		return &scheme.Abbreviation{Kind: abbreviationKinds[typ], Datum: d}
	case nodeList, nodeBracketList:
		return listDatum(datumNodes(nodes))
	case nodeVector:
		items := datumNodes(nodes)
		for _, d := range items {
			if _, isDot := d.(dotNode); isDot {
				return syntaxError("unexpected '.' in vector")
			}
		}
		return scheme.Vector(toDatums(items))
	case nodeByteVector:
		return byteVectorDatum(datumNodes(nodes))
	case nodeUnmatched:
		open := terminalValue(nodes[0])
		rest := open + stringifyNodes(nodes[1:])
		if rs := []rune(rest); len(rs) > 10 {
			rest = string(rs[:10]) + "..."
		}
		return &SyntaxError{Msg: fmt.Sprintf("unmatched %q starting: %v", open, rest), Incomplete: true}
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func syntaxError(format string, v ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, v...)}
}

func terminalValue(n parsec.ParsecNode) string {
	if t, ok := n.(*parsec.Terminal); ok {
		return t.GetValue()
	}
	return ""
}

func trimDelimiters(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

func labelNumber(tok string) (int, error) {
	n, err := strconv.Atoi(tok[1 : len(tok)-1])
	if err != nil {
		return 0, syntaxError("invalid datum label: %s", tok)
	}
	return n, nil
}

// datumNodes returns the value nodes of a compound, dropping delimiters and
// comments.
func datumNodes(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	var out []parsec.ParsecNode
	for _, n := range nodes {
		switch n.(type) {
		case *parsec.Terminal, skipNode:
			continue
		}
		out = append(out, n)
	}
	return out
}

func toDatums(nodes []parsec.ParsecNode) []scheme.Datum {
	ds := make([]scheme.Datum, 0, len(nodes))
	for _, n := range nodes {
		if d, ok := n.(scheme.Datum); ok {
			ds = append(ds, d)
		}
	}
	return ds
}

func singleDatum(nodes []parsec.ParsecNode, after string) (scheme.Datum, error) {
	items := datumNodes(nodes)
	if len(items) != 1 {
		return nil, syntaxError("expected a datum after %s", after)
	}
	d, ok := items[0].(scheme.Datum)
	if !ok {
		return nil, syntaxError("expected a datum after %s", after)
	}
	return d, nil
}

func listDatum(items []parsec.ParsecNode) parsec.ParsecNode {
	dot := -1
	for i, n := range items {
		if _, ok := n.(dotNode); ok {
			if dot >= 0 {
				return syntaxError("more than one '.' in list")
			}
			dot = i
		}
	}
	if dot < 0 {
		return scheme.List(toDatums(items)...)
	}
	if dot == 0 || dot != len(items)-2 {
		return syntaxError("'.' must be followed by exactly one datum ending a non-empty list")
	}
	tail := items[len(items)-1].(scheme.Datum)
	return scheme.ListTail(tail, toDatums(items[:dot])...)
}

func byteVectorDatum(items []parsec.ParsecNode) parsec.ParsecNode {
	bs := make(scheme.ByteVector, 0, len(items))
	for _, n := range items {
		x, ok := n.(scheme.Number)
		if !ok {
			return syntaxError("bytevector element is not a byte")
		}
		i, ok := x.Number.(num.Integer)
		if !ok {
			return syntaxError("bytevector element is not a byte: %s", x)
		}
		b, ok := i.Int64()
		if !ok || b < 0 || b > 255 {
			return syntaxError("bytevector element is not a byte: %s", x)
		}
		bs = append(bs, byte(b))
	}
	return bs
}

// atomDatum classifies a delimited token as a boolean, number or symbol.
func atomDatum(tok string) parsec.ParsecNode {
	switch tok {
	case "#t", "#true":
		return scheme.Boolean(true)
	case "#f", "#false":
		return scheme.Boolean(false)
	case ".":
		return dotNode{}
	}
	n, err := num.Parse(tok)
	if err == nil {
		return scheme.NewNumber(num.Normalize(n))
	}
	var nerr *num.Error
	if errors.As(err, &nerr) && nerr.Code != num.CodeMalformed {
		return syntaxError("invalid number %s: %v", tok, err)
	}
	if strings.HasPrefix(tok, "#") {
		return syntaxError("invalid syntax: %s", tok)
	}
	if !scheme.IsValidIdentifier(tok) {
		return syntaxError("invalid identifier: %s", tok)
	}
	return scheme.IdentifierUnchecked(tok)
}

func charDatum(tok string) parsec.ParsecNode {
	body := tok[2:]
	if r, ok := singleRune(body); ok {
		return scheme.Character(r)
	}
	if r, ok := scheme.CharacterNames[body]; ok {
		return scheme.Character(r)
	}
	if body[0] == 'x' || body[0] == 'X' {
		code, err := strconv.ParseUint(body[1:], 16, 32)
		if err == nil {
			return scheme.Character(rune(code))
		}
	}
	return syntaxError("unknown character name: %s", tok)
}

func singleRune(s string) (rune, bool) {
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, false
	}
	return rs[0], true
}

// unescapeString processes the escapes allowed in strings and |symbols|.
func unescapeString(s string, delim rune) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		i++
		if i >= len(rs) {
			return "", syntaxError("dangling escape")
		}
		switch rs[i] {
		case 'a':
			b.WriteRune('\a')
		case 'b':
			b.WriteRune('\b')
		case 't':
			b.WriteRune('\t')
		case 'n':
			b.WriteRune('\n')
		case 'r':
			b.WriteRune('\r')
		case '\\':
			b.WriteRune('\\')
		case delim:
			b.WriteRune(delim)
		case 'x', 'X':
			end := i + 1
			for end < len(rs) && rs[end] != ';' {
				end++
			}
			if end >= len(rs) {
				return "", syntaxError("unterminated hex escape")
			}
			code, err := strconv.ParseUint(string(rs[i+1:end]), 16, 32)
			if err != nil {
				return "", syntaxError("invalid hex escape: %s", string(rs[i+1:end]))
			}
			b.WriteRune(rune(code))
			i = end
		case ' ', '\t', '\n', '\r':
			// Line continuation: skip intraline whitespace around one newline.
			j := i
			for j < len(rs) && (rs[j] == ' ' || rs[j] == '\t') {
				j++
			}
			if j < len(rs) && rs[j] == '\r' {
				j++
			}
			if j >= len(rs) || rs[j] != '\n' {
				return "", syntaxError("invalid escape")
			}
			j++
			for j < len(rs) && (rs[j] == ' ' || rs[j] == '\t') {
				j++
			}
			i = j - 1
		default:
			return "", syntaxError("invalid escape: \\%c", rs[i])
		}
	}
	return b.String(), nil
}

func stringifyNodes(nodes []parsec.ParsecNode) string {
	var s []string
	for _, node := range nodes {
		switch node := node.(type) {
		case *parsec.Terminal:
			switch node.GetName() {
			case "OPENP", "CLOSEP", "OPENB", "CLOSEB", "OPENV", "OPENBV":
				continue
			}
			s = append(s, node.GetValue())
		case []parsec.ParsecNode:
			s = append(s, "("+stringifyNodes(node)+")")
		case scheme.Datum:
			s = append(s, scheme.Repr(node, scheme.DisplayFlags{}))
		}
	}
	return strings.Join(s, " ")
}

// cleanParsecNodeList flattens nested node lists and drops comments.  When
// an error is found it is returned alone with ok false.
func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case *parsec.Terminal:
			if node.Name == "COMMENT" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			return []parsec.ParsecNode{node}, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}

// rootDatum extracts the datum from a top-level parse.  Comments yield a
// nil datum.
func rootDatum(root parsec.ParsecNode) (scheme.Datum, error) {
	nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
	if !ok {
		return nil, nodes[0].(error)
	}
	for _, n := range nodes {
		switch n := n.(type) {
		case dotNode:
			return nil, syntaxError("unexpected '.'")
		case scheme.Datum:
			return n, nil
		}
	}
	return nil, nil
}
