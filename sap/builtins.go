package sap

import (
	"fmt"
	"strings"
)

// BuiltinFn is the Go implementation of a builtin operation.  The
// arguments are fully evaluated before fn is invoked.
type BuiltinFn func(env *Env, args []*Value) (*Value, *Error)

// BuiltinDef describes a builtin operation that can be bound in an
// environment.
type BuiltinDef interface {
	Name() string
	Formals() []string
	Eval(env *Env, args []*Value) (*Value, *Error)
}

type langBuiltin struct {
	name    string
	formals []string
	fun     BuiltinFn
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() []string {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *Env, args []*Value) (*Value, *Error) {
	return fun.fun(env, args)
}

// Formals returns a formal argument list for builtin registration.
func Formals(names ...string) []string {
	return names
}

var userBuiltins []*langBuiltin

var langBuiltins = []*langBuiltin{
	{"add", Formals("x", "y"), builtinAdd},
	{"sub", Formals("x", "y"), builtinSub},
	{"mul", Formals("x", "y"), builtinMul},
	{"div", Formals("x", "y"), builtinDiv},
	{"mod", Formals("x", "y"), builtinMod},
	{"eq", Formals("x", "y"), builtinEq},
	{"zero?", Formals("x"), builtinIsZero},
	{"print", Formals(VarArgSymbol, "values"), builtinPrint},
}

// RegisterDefaultBuiltin adds a builtin to the list returned by
// DefaultBuiltins.
func RegisterDefaultBuiltin(name string, formals []string, fn BuiltinFn) {
	userBuiltins = append(userBuiltins, &langBuiltin{name: name, formals: formals, fun: fn})
}

// DefaultBuiltins returns the builtins installed during environment
// initialization.
func DefaultBuiltins() []BuiltinDef {
	ops := make([]BuiltinDef, len(langBuiltins)+len(userBuiltins))
	for i := range langBuiltins {
		ops[i] = langBuiltins[i]
	}
	offset := len(langBuiltins)
	for i := range userBuiltins {
		ops[offset+i] = userBuiltins[i]
	}
	return ops
}

// Global is a named variable bound during environment initialization.
type Global struct {
	Name  string
	Value *Value
}

// DefaultGlobals returns the mutable variables present in a freshly
// initialized environment.
func DefaultGlobals() []Global {
	return []Global{
		{"x", Int(10)},
		{"v", Int(5)},
		{"i", Int(1)},
	}
}

func builtinAdd(env *Env, args []*Value) (*Value, *Error) {
	if args[0].Type == VString && args[1].Type == VString {
		return String(args[0].Str + args[1].Str), nil
	}
	x, y, err := twoInts(env, args)
	if err != nil {
		return nil, err
	}
	return Int(x + y), nil
}

func builtinSub(env *Env, args []*Value) (*Value, *Error) {
	x, y, err := twoInts(env, args)
	if err != nil {
		return nil, err
	}
	return Int(x - y), nil
}

func builtinMul(env *Env, args []*Value) (*Value, *Error) {
	x, y, err := twoInts(env, args)
	if err != nil {
		return nil, err
	}
	return Int(x * y), nil
}

func builtinDiv(env *Env, args []*Value) (*Value, *Error) {
	x, y, err := twoInts(env, args)
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, env.Errorf(ErrnoDivZero, "integer divide by zero")
	}
	return Int(floorDiv(x, y)), nil
}

func builtinMod(env *Env, args []*Value) (*Value, *Error) {
	x, y, err := twoInts(env, args)
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, env.Errorf(ErrnoDivZero, "integer divide by zero")
	}
	return Int(floorMod(x, y)), nil
}

func builtinEq(env *Env, args []*Value) (*Value, *Error) {
	return Bool(args[0].Equal(args[1])), nil
}

func builtinIsZero(env *Env, args []*Value) (*Value, *Error) {
	x := args[0]
	return Bool(x.Type == VInt && x.Int == 0), nil
}

func builtinPrint(env *Env, args []*Value) (*Value, *Error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.display()
	}
	line := strings.Join(parts, " ")
	fmt.Fprintln(env.Runtime.Stdout, line)
	return String(line), nil
}

func twoInts(env *Env, args []*Value) (int64, int64, *Error) {
	if args[0].Type != VInt {
		return 0, 0, env.Errorf(ErrnoType, "first argument is not an integer: %s", args[0].Type)
	}
	if args[1].Type != VInt {
		return 0, 0, env.Errorf(ErrnoType, "second argument is not an integer: %s", args[1].Type)
	}
	return args[0].Int, args[1].Int, nil
}

// floorDiv rounds the quotient toward negative infinity, so
// floorDiv(-7, 2) is -4.
func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

// floorMod returns the remainder of floorDiv.  A nonzero result takes
// the sign of the divisor y.
func floorMod(x, y int64) int64 {
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}
