package sap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyOp(t *testing.T, env *Env, name string, args ...*Value) (*Value, *Error) {
	t.Helper()
	fn, ok := env.Get(name)
	require.True(t, ok)
	require.Equal(t, VBuiltin, fn.Type)
	return env.Call(fn, args)
}

func TestBuiltinArith(t *testing.T) {
	env := testEnv(t)
	for _, test := range []struct {
		name string
		x    int64
		y    int64
		want int64
	}{
		{"add", 2, 3, 5},
		{"add", -2, 3, 1},
		{"sub", 2, 3, -1},
		{"sub", 3, 2, 1},
		{"mul", 4, 5, 20},
		{"mul", -4, 5, -20},
	} {
		v, err := applyOp(t, env, test.name, Int(test.x), Int(test.y))
		if assert.Nil(t, err, "%s(%d, %d)", test.name, test.x, test.y) {
			assert.Equal(t, test.want, v.Int, "%s(%d, %d)", test.name, test.x, test.y)
		}
	}
}

func TestBuiltinDivMod(t *testing.T) {
	env := testEnv(t)
	// Quotients round toward negative infinity and remainders take
	// the sign of the divisor.
	for _, test := range []struct {
		name string
		x    int64
		y    int64
		want int64
	}{
		{"div", 7, 2, 3},
		{"div", -7, 2, -4},
		{"div", 7, -2, -4},
		{"div", -7, -2, 3},
		{"div", 6, 3, 2},
		{"div", -6, 3, -2},
		{"mod", 7, 2, 1},
		{"mod", -7, 2, 1},
		{"mod", 7, -2, -1},
		{"mod", -7, -2, -1},
		{"mod", 6, 3, 0},
	} {
		v, err := applyOp(t, env, test.name, Int(test.x), Int(test.y))
		if assert.Nil(t, err, "%s(%d, %d)", test.name, test.x, test.y) {
			assert.Equal(t, test.want, v.Int, "%s(%d, %d)", test.name, test.x, test.y)
		}
	}
	for _, name := range []string{"div", "mod"} {
		_, err := applyOp(t, env, name, Int(1), Int(0))
		if assert.NotNil(t, err) {
			assert.Equal(t, ErrnoDivZero, err.Errno)
			assert.Equal(t, "division-by-zero: integer divide by zero", err.Error())
		}
	}
}

func TestFloorDiv(t *testing.T) {
	for _, test := range []struct {
		x    int64
		y    int64
		div  int64
		mod  int64
	}{
		{9, 4, 2, 1},
		{-9, 4, -3, 3},
		{9, -4, -3, -3},
		{-9, -4, 2, -1},
		{0, 5, 0, 0},
	} {
		assert.Equal(t, test.div, floorDiv(test.x, test.y), "floorDiv(%d, %d)", test.x, test.y)
		assert.Equal(t, test.mod, floorMod(test.x, test.y), "floorMod(%d, %d)", test.x, test.y)
		// The identity x == y*div + mod holds for floored division.
		assert.Equal(t, test.x, test.y*floorDiv(test.x, test.y)+floorMod(test.x, test.y))
	}
}

func TestBuiltinAddStrings(t *testing.T) {
	env := testEnv(t)
	v, err := applyOp(t, env, "add", String("foo"), String("bar"))
	require.Nil(t, err)
	assert.Equal(t, VString, v.Type)
	assert.Equal(t, "foobar", v.Str)

	// Mixed operand types do not concatenate.
	_, err = applyOp(t, env, "add", String("foo"), Int(1))
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrnoType, err.Errno)
	}
	_, err = applyOp(t, env, "add", Int(1), String("foo"))
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrnoType, err.Errno)
	}
}

func TestBuiltinTypeErrors(t *testing.T) {
	env := testEnv(t)
	_, err := applyOp(t, env, "mul", True(), Int(1))
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrnoType, err.Errno)
		assert.Equal(t, "type-mismatch: first argument is not an integer: bool", err.Error())
	}
	_, err = applyOp(t, env, "mul", Int(1), String("x"))
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrnoType, err.Errno)
		assert.Equal(t, "type-mismatch: second argument is not an integer: string", err.Error())
	}
}

func TestBuiltinEq(t *testing.T) {
	env := testEnv(t)
	for _, test := range []struct {
		x    *Value
		y    *Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Int(2), false},
		{String("a"), String("a"), true},
		{String("a"), String("b"), false},
		{True(), True(), true},
		{True(), False(), false},
		// Values of different types are never equal.
		{Int(1), String("1"), false},
		{Int(0), False(), false},
	} {
		v, err := applyOp(t, env, "eq", test.x, test.y)
		if assert.Nil(t, err, "eq(%s, %s)", test.x, test.y) {
			assert.Equal(t, VBool, v.Type)
			assert.Equal(t, test.want, v.Bool, "eq(%s, %s)", test.x, test.y)
		}
	}
}

func TestBuiltinEqFunctions(t *testing.T) {
	env := testEnv(t)
	add, _ := env.Get("add")
	sub, _ := env.Get("sub")
	v, err := applyOp(t, env, "eq", add, add)
	require.Nil(t, err)
	assert.True(t, v.Bool)
	v, err = applyOp(t, env, "eq", add, sub)
	require.Nil(t, err)
	assert.False(t, v.Bool)
}

func TestBuiltinIsZero(t *testing.T) {
	env := testEnv(t)
	for _, test := range []struct {
		arg  *Value
		want bool
	}{
		{Int(0), true},
		{Int(1), false},
		{Int(-1), false},
		{String("0"), false},
		{False(), false},
	} {
		v, err := applyOp(t, env, "zero?", test.arg)
		if assert.Nil(t, err, "zero?(%s)", test.arg) {
			assert.Equal(t, VBool, v.Type)
			assert.Equal(t, test.want, v.Bool, "zero?(%s)", test.arg)
		}
	}
}

func TestBuiltinPrint(t *testing.T) {
	out := &bytes.Buffer{}
	env := testEnv(t, WithStdout(out))
	v, err := applyOp(t, env, "print", Int(1), String("a"), True())
	require.Nil(t, err)
	assert.Equal(t, "1 a true\n", out.String())
	// The joined line is returned without the trailing newline.
	assert.Equal(t, VString, v.Type)
	assert.Equal(t, "1 a true", v.Str)

	out.Reset()
	v, err = applyOp(t, env, "print")
	require.Nil(t, err)
	assert.Equal(t, "\n", out.String())
	assert.Equal(t, "", v.Str)
}

func TestBuiltinArity(t *testing.T) {
	env := testEnv(t)
	_, err := applyOp(t, env, "add", Int(1))
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrnoArity, err.Errno)
		assert.Equal(t, "arity-mismatch: add expects 2 arguments (got 1)", err.Error())
	}
	_, err = applyOp(t, env, "zero?", Int(1), Int(2))
	if assert.NotNil(t, err) {
		assert.Equal(t, ErrnoArity, err.Errno)
		assert.Equal(t, "arity-mismatch: zero? expects 1 arguments (got 2)", err.Error())
	}
	// Variadic builtins accept any number of arguments.
	_, err = applyOp(t, env, "print")
	assert.Nil(t, err)
	_, err = applyOp(t, env, "print", Int(1), Int(2), Int(3))
	assert.Nil(t, err)
}

func TestDefaultBuiltins(t *testing.T) {
	names := make(map[string]bool)
	for _, op := range DefaultBuiltins() {
		names[op.Name()] = true
		assert.NotNil(t, op.Formals())
	}
	for _, name := range []string{"add", "sub", "mul", "div", "mod", "eq", "zero?", "print"} {
		assert.True(t, names[name], "missing builtin %s", name)
	}
}

func TestDefaultGlobals(t *testing.T) {
	vals := make(map[string]int64)
	for _, g := range DefaultGlobals() {
		require.Equal(t, VInt, g.Value.Type)
		vals[g.Name] = g.Value.Int
	}
	assert.Equal(t, map[string]int64{"x": 10, "v": 5, "i": 1}, vals)
}
