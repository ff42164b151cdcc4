// Package sap implements an evaluator for a small expression language
// with lexical scoping, mutable variables, conditionals, and first
// class functions.  Programs are expression trees, either produced by
// the parser package or decoded from their JSON form by the sapjson
// package, and evaluate to Value results inside an Env.
package sap

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeType describes the variant of expression a Node holds.
type NodeType uint

// Possible NodeType values.
const (
	NInvalid NodeType = iota
	NInteger
	NString
	NIdentifier
	NApplication
	NCond
	NClause
	NBlock
	NLet
	NAssign
	NLambda
	NParams
	NDef
)

var nodeTypeStrings = []string{
	NInvalid:     "INVALID",
	NInteger:     "Integer",
	NString:      "String",
	NIdentifier:  "Identifier",
	NApplication: "Application",
	NCond:        "Cond",
	NClause:      "Clause",
	NBlock:       "Block",
	NLet:         "Let",
	NAssign:      "Assignment",
	NLambda:      "Lambda",
	NParams:      "Parameters",
	NDef:         "Def",
}

func (t NodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "invalid-node-type"
	}
	return nodeTypeStrings[t]
}

// Node is a single node in an expression tree.
type Node struct {
	// Type describes the node variant and which of the remaining
	// fields are meaningful.
	Type NodeType
	// Int is the value of an NInteger node.
	Int int64
	// Str is the text of an NString node or the name referenced by an
	// NIdentifier node.
	Str string
	// Cells holds the children of compound nodes.
	Cells []*Node
}

// Number returns an integer literal node.
func Number(x int64) *Node {
	return &Node{Type: NInteger, Int: x}
}

// StringLit returns a string literal node.
func StringLit(s string) *Node {
	return &Node{Type: NString, Str: s}
}

// Identifier returns a node referencing the binding named s.
func Identifier(s string) *Node {
	return &Node{Type: NIdentifier, Str: s}
}

// Application returns a node applying fun to the given argument
// expressions.
func Application(fun *Node, args ...*Node) *Node {
	cells := make([]*Node, 0, len(args)+1)
	cells = append(cells, fun)
	cells = append(cells, args...)
	return &Node{Type: NApplication, Cells: cells}
}

// Cond returns a conditional node trying the given clauses in order.
func Cond(clauses ...*Node) *Node {
	return &Node{Type: NCond, Cells: clauses}
}

// Clause returns a single conditional arm guarded by test.
func Clause(test, then *Node) *Node {
	return &Node{Type: NClause, Cells: []*Node{test, then}}
}

// Block returns a node evaluating stmts in order inside a derived
// scope.
func Block(stmts ...*Node) *Node {
	return &Node{Type: NBlock, Cells: stmts}
}

// Let returns a node binding id to the value of expr while body
// evaluates.
func Let(id, expr, body *Node) *Node {
	return &Node{Type: NLet, Cells: []*Node{id, expr, body}}
}

// Assign returns a node storing the value of expr in the binding named
// by id.
func Assign(id, expr *Node) *Node {
	return &Node{Type: NAssign, Cells: []*Node{id, expr}}
}

// Def returns a top level definition node.  Definitions parse and
// serialize but do not evaluate.
func Def(id, expr, body *Node) *Node {
	return &Node{Type: NDef, Cells: []*Node{id, expr, body}}
}

// Params returns the parameter list node of a function literal.
func Params(names ...string) *Node {
	cells := make([]*Node, len(names))
	for i, name := range names {
		cells[i] = Identifier(name)
	}
	return &Node{Type: NParams, Cells: cells}
}

// Lambda returns a function literal node with the given parameter list
// and body block.
func Lambda(params, body *Node) *Node {
	return &Node{Type: NLambda, Cells: []*Node{params, body}}
}

// String renders a compact debug form of the expression tree, for
// example (Let x 5 (Block x)).
func (v *Node) String() string {
	var b strings.Builder
	v.writeDebug(&b)
	return b.String()
}

func (v *Node) writeDebug(b *strings.Builder) {
	switch v.Type {
	case NInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case NString:
		fmt.Fprintf(b, "%q", v.Str)
	case NIdentifier:
		b.WriteString(v.Str)
	default:
		b.WriteByte('(')
		b.WriteString(v.Type.String())
		for _, cell := range v.Cells {
			b.WriteByte(' ')
			cell.writeDebug(b)
		}
		b.WriteByte(')')
	}
}

// ValueType describes the variant of data a Value holds.
type ValueType uint

// Possible ValueType values.
const (
	VInvalid ValueType = iota
	VInt
	VBool
	VString
	VBuiltin
	VClosure
)

var valueTypeStrings = []string{
	VInvalid: "INVALID",
	VInt:     "int",
	VBool:    "bool",
	VString:  "string",
	VBuiltin: "builtin",
	VClosure: "closure",
}

func (t ValueType) String() string {
	if int(t) >= len(valueTypeStrings) {
		return "invalid-value-type"
	}
	return valueTypeStrings[t]
}

// Value is the result of evaluating an expression.
type Value struct {
	// Type describes the value variant and which of the remaining
	// fields are meaningful.
	Type ValueType
	// Int holds a VInt value.
	Int int64
	// Bool holds a VBool value.
	Bool bool
	// Str holds the contents of a VString.
	Str string
	// Fun is the implementation of a VBuiltin.
	Fun BuiltinFn
	// FunName names a VBuiltin in diagnostics and stack traces.
	FunName string
	// Formals lists the parameter names of a VBuiltin or VClosure.
	Formals []string
	// Body holds the body statements of a VClosure.
	Body []*Node
	// Env is the environment captured when a VClosure was created.
	Env *Env
}

// Int returns a Value representing the integer x.
func Int(x int64) *Value {
	return &Value{Type: VInt, Int: x}
}

// String returns a Value representing the string s.
func String(s string) *Value {
	return &Value{Type: VString, Str: s}
}

// Bool returns a Value representing the boolean b.
func Bool(b bool) *Value {
	if b {
		return True()
	}
	return False()
}

// True returns the true Value.
func True() *Value {
	return &Value{Type: VBool, Bool: true}
}

// False returns the false Value.
func False() *Value {
	return &Value{Type: VBool, Bool: false}
}

// Fun returns a Value wrapping the builtin operation fn.  The formals
// describe the arguments the builtin accepts and are consulted when a
// call is checked for arity.
func Fun(name string, formals []string, fn BuiltinFn) *Value {
	return &Value{Type: VBuiltin, FunName: name, Formals: formals, Fun: fn}
}

func newClosure(formals []string, body []*Node, env *Env) *Value {
	return &Value{Type: VClosure, Formals: formals, Body: body, Env: env}
}

// Equal returns true when v and other hold the same integer, string,
// or boolean.  Values of different types are never equal and functions
// are only equal to themselves.
func (v *Value) Equal(other *Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case VInt:
		return v.Int == other.Int
	case VBool:
		return v.Bool == other.Bool
	case VString:
		return v.Str == other.Str
	default:
		return v == other
	}
}

// String renders a readable form of the value.  Strings are quoted so
// they can be told apart from other values at a repl.
func (v *Value) String() string {
	if v.Type == VString {
		return strconv.Quote(v.Str)
	}
	return v.display()
}

// display renders the unquoted form written by the print builtin.
func (v *Value) display() string {
	switch v.Type {
	case VInt:
		return strconv.FormatInt(v.Int, 10)
	case VBool:
		return strconv.FormatBool(v.Bool)
	case VString:
		return v.Str
	case VBuiltin:
		return fmt.Sprintf("<builtin %s>", v.FunName)
	case VClosure:
		var b strings.Builder
		b.WriteString("lambda (")
		for i, name := range v.Formals {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
		}
		b.WriteString(") {...}")
		return b.String()
	}
	return fmt.Sprintf("<invalid value %d>", uint(v.Type))
}
