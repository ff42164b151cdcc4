/*
Package parser reads source text in the sapling expression language and
produces expression trees for evaluation.

	expr    := <let> | <def> | <cond> | <lambda> | <block> | <assign> | <apply> | <literal>
	let     := 'let' <ident> '=' <expr> <block>?
	def     := 'def' <ident> '=' <expr> <block>?
	cond    := 'cond' <clause>+
	clause  := '(' <expr> '=>' <expr> ')'
	lambda  := ('lambda' | 'λ') '(' (<ident> ',')* ')' <block> <args>*
	block   := '{' (<expr> ';')* '}' <args>*
	assign  := <ident> '=' <expr>
	apply   := <ident> <args>*
	args    := '(' (<expr> ',')* ')'
	literal := <integer> | <string>
	integer := /[+-]?[0-9]+/
	string  := '"' ('\' . | /[^"\\]/)* '"'
	ident   := <word> that is neither a keyword nor integer shaped
	word    := /[^\s(){},;="]+/

Line comments run from // to the end of the line.
*/
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/luthersystems/sapling/sap"
	parsec "github.com/prataprc/goparsec"
)

// Parse reads a single expression from text.
func Parse(text []byte) (*sap.Node, error) {
	return ParseNamed("", text)
}

// ParseNamed reads a single expression from text.  The name prefixes
// error positions, typically as a file name.
func ParseNamed(name string, text []byte) (*sap.Node, error) {
	src := stripComments(text)
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, &SyntaxError{Name: name, Line: 1, Col: 1, Msg: "empty input"}
	}
	root, scan := newParser()(parsec.NewScanner(src))
	if root == nil {
		return nil, newSyntaxError(name, src, scan.GetCursor(), "unexpected token")
	}
	if errn, ok := root.(*errNode); ok {
		return nil, newSyntaxError(name, src, errn.pos, errn.msg)
	}
	node, ok := root.(*sap.Node)
	if !ok {
		panic(fmt.Sprintf("unexpected parse result: %T", root))
	}
	if rest := bytes.TrimSpace(src[scan.GetCursor():]); len(rest) > 0 {
		return nil, newSyntaxError(name, src, scan.GetCursor(), "unexpected trailing input")
	}
	return fixupLet(node), nil
}

// newParser assembles the expression grammar.  The returned parser
// recognizes a single expression and leaves trailing input unread.
func newParser() parsec.Parser {
	var expr parsec.Parser

	word := parsec.Token(`[^\s(){},;="]+`, "WORD")
	str := parsec.Token(`"(?:\\.|[^"\\])*"`, "STRING")
	eq := parsec.Token(`=>?`, "EQ")
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("{", "OPENB")
	closeB := parsec.Atom("}", "CLOSEB")
	comma := parsec.Atom(",", "COMMA")
	semi := parsec.Atom(";", "SEMI")

	assign := exact(eq, "=")
	arrow := exact(eq, "=>")
	letKW := exact(word, "let")
	defKW := exact(word, "def")
	condKW := exact(word, "cond")
	lambdaKW := exact(word, "lambda", "λ")

	// Applications may be curried, e.g. f(a)(b), so everything that
	// can evaluate to a function accepts a run of argument lists.
	args := parsec.And(newArgList, openP, parsec.Kleene(nil, &expr, comma), closeP)
	suffix := parsec.Kleene(nil, args)

	block := parsec.And(newBlockNode, openB, parsec.Kleene(nil, &expr, semi), closeB)

	letWith := parsec.And(newBinding(sap.NLet, true), letKW, word, assign, &expr, block)
	letBare := parsec.And(newBinding(sap.NLet, false), letKW, word, assign, &expr)
	defWith := parsec.And(newBinding(sap.NDef, true), defKW, word, assign, &expr, block)
	defBare := parsec.And(newBinding(sap.NDef, false), defKW, word, assign, &expr)

	clause := parsec.And(newClauseNode, openP, &expr, arrow, &expr, closeP)
	cond := parsec.And(newCondNode, condKW, clause, parsec.Kleene(nil, clause))

	params := parsec.And(nil, openP, parsec.Kleene(nil, word, comma), closeP)
	lambda := parsec.And(newLambdaExpr, lambdaKW, params, block, suffix)

	blockApp := parsec.And(newBlockExpr, block, suffix)
	assignment := parsec.And(newAssignNode, word, assign, &expr)
	application := parsec.And(newWordExpr, word, suffix)
	strLit := parsec.And(newStringNode, str)
	intLit := parsec.And(newIntNode, word)

	expr = parsec.OrdChoice(one,
		letWith, letBare, defWith, defBare, cond, lambda,
		blockApp, strLit, intLit, assignment, application)
	return expr
}

// errNode marks invalid source carried inside an otherwise successful
// parse so the failure position survives until Parse can report it.
type errNode struct {
	pos int
	msg string
}

// argList holds one parenthesized application argument list.
type argList struct {
	args []*sap.Node
}

func newArgList(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	lis := &argList{}
	for _, n := range nodes {
		if node, ok := n.(*sap.Node); ok {
			lis.args = append(lis.args, node)
		}
	}
	return lis
}

func newBlockNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	var stmts []*sap.Node
	for _, n := range nodes {
		if node, ok := n.(*sap.Node); ok {
			stmts = append(stmts, node)
		}
	}
	return sap.Block(stmts...)
}

func newBlockExpr(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	block, ok := nodes[0].(*sap.Node)
	if !ok {
		return nil
	}
	return applySuffixes(block, nodes[1:])
}

// newBinding builds let and def nodes.  The bare forms carry two cells
// until fixupLet completes them.
func newBinding(typ sap.NodeType, withBlock bool) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		nodes = cleanNodeList(nodes)
		if err := firstErr(nodes); err != nil {
			return err
		}
		id, ok := nodes[1].(*parsec.Terminal)
		if !ok {
			return nil
		}
		if !identWord(id.Value) {
			return &errNode{id.Position, fmt.Sprintf("binding name is not an identifier: %s", id.Value)}
		}
		rhs, ok := nodes[3].(*sap.Node)
		if !ok {
			return nil
		}
		cells := []*sap.Node{sap.Identifier(id.Value), rhs}
		if withBlock {
			body, ok := nodes[4].(*sap.Node)
			if !ok {
				return nil
			}
			cells = append(cells, body)
		}
		return &sap.Node{Type: typ, Cells: cells}
	}
}

func newClauseNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	var exprs []*sap.Node
	for _, n := range nodes {
		if node, ok := n.(*sap.Node); ok {
			exprs = append(exprs, node)
		}
	}
	if len(exprs) != 2 {
		return nil
	}
	return sap.Clause(exprs[0], exprs[1])
}

func newCondNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	var clauses []*sap.Node
	for _, n := range nodes {
		if node, ok := n.(*sap.Node); ok {
			clauses = append(clauses, node)
		}
	}
	return sap.Cond(clauses...)
}

func newLambdaExpr(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	var names []string
	var body *sap.Node
	var suffixes []parsec.ParsecNode
	for _, n := range nodes[1:] {
		switch n := n.(type) {
		case *parsec.Terminal:
			if n.Name != "WORD" {
				continue
			}
			if !identWord(n.Value) {
				return &errNode{n.Position, fmt.Sprintf("parameter is not an identifier: %s", n.Value)}
			}
			names = append(names, n.Value)
		case *sap.Node:
			body = n
		case *argList:
			suffixes = append(suffixes, n)
		}
	}
	if body == nil {
		return nil
	}
	return applySuffixes(sap.Lambda(sap.Params(names...), body), suffixes)
}

func newAssignNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	id, ok := nodes[0].(*parsec.Terminal)
	if !ok || !identWord(id.Value) {
		return nil
	}
	rhs, ok := nodes[2].(*sap.Node)
	if !ok {
		return nil
	}
	return sap.Assign(sap.Identifier(id.Value), rhs)
}

func newWordExpr(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	if err := firstErr(nodes); err != nil {
		return err
	}
	term, ok := nodes[0].(*parsec.Terminal)
	if !ok || !identWord(term.Value) {
		return nil
	}
	return applySuffixes(sap.Identifier(term.Value), nodes[1:])
}

func newStringNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	term, ok := nodes[0].(*parsec.Terminal)
	if !ok {
		return nil
	}
	s, errn := unquote(term.Value, term.Position)
	if errn != nil {
		return errn
	}
	return sap.StringLit(s)
}

var intPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

func newIntNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	term, ok := nodes[0].(*parsec.Terminal)
	if !ok {
		return nil
	}
	if !intLike(term.Value) {
		return nil
	}
	if !intPattern.MatchString(term.Value) {
		return &errNode{term.Position, fmt.Sprintf("invalid integer: %s", term.Value)}
	}
	x, err := strconv.ParseInt(term.Value, 10, 64)
	if err != nil {
		return &errNode{term.Position, fmt.Sprintf("integer out of range: %s", term.Value)}
	}
	return sap.Number(x)
}

func applySuffixes(node *sap.Node, rest []parsec.ParsecNode) parsec.ParsecNode {
	for _, n := range rest {
		lis, ok := n.(*argList)
		if !ok {
			return nil
		}
		node = sap.Application(node, lis.args...)
	}
	return node
}

// exact wraps a terminal parser so it only matches specific token
// values.  Returning nil from the callback makes the enclosing
// alternative fail cleanly.
func exact(p parsec.Parser, values ...string) parsec.Parser {
	return parsec.And(func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		nodes = cleanNodeList(nodes)
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return nil
		}
		for _, v := range values {
			if term.Value == v {
				return term
			}
		}
		return nil
	}, p)
}

func one(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodeList(nodes)
	return nodes[0]
}

func firstErr(nodes []parsec.ParsecNode) *errNode {
	for _, n := range nodes {
		if err, ok := n.(*errNode); ok {
			return err
		}
	}
	return nil
}

func cleanNodeList(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	out := make([]parsec.ParsecNode, 0, len(nodes))
	for _, node := range nodes {
		switch node := node.(type) {
		case []parsec.ParsecNode:
			out = append(out, cleanNodeList(node)...)
		default:
			out = append(out, node)
		}
	}
	return out
}

var keywords = map[string]bool{
	"let":    true,
	"def":    true,
	"cond":   true,
	"lambda": true,
	"λ":      true,
}

// intLike reports whether a word belongs to the integer grammar.
// Words starting with a digit or a sign must parse as integers, so
// identifiers cannot begin with those characters.
func intLike(s string) bool {
	return s != "" && (s[0] == '+' || s[0] == '-' || ('0' <= s[0] && s[0] <= '9'))
}

func identWord(s string) bool {
	return !keywords[s] && !intLike(s)
}

func unquote(lit string, pos int) (string, *errNode) {
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			return "", &errNode{pos, fmt.Sprintf(`invalid escape in string: \%c`, body[i])}
		}
	}
	return b.String(), nil
}

// SyntaxError describes a parse failure at a position within source
// text.
type SyntaxError struct {
	// Name identifies the source, typically a file name.  It may be
	// empty.
	Name string
	// Offset is the byte offset of the failure.
	Offset int
	// Line and Col locate the failure, both 1 indexed.
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Col, e.Msg)
}

func newSyntaxError(name string, src []byte, offset int, msg string) *SyntaxError {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, c := range src[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return &SyntaxError{Name: name, Offset: offset, Line: line, Col: col, Msg: msg}
}

// stripComments replaces line comments with spaces so that token
// positions in the cleaned source match the original text.  Comment
// markers inside string literals are left alone.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	inStr := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			continue
		}
		switch {
		case c == '"':
			inStr = true
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		}
	}
	return out
}

// Incomplete returns true when text ends inside an unclosed string,
// block, parameter list, or argument list.  The repl uses it to decide
// whether to prompt for a continuation line instead of reporting a
// syntax error.
func Incomplete(text []byte) bool {
	src := stripComments(text)
	depth := 0
	inStr := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		}
	}
	return inStr || depth > 0
}
