package sap

import (
	"io"
	"os"
)

// Cell is a mutable storage location.  Environments derived from one
// another share cells, so an assignment through any of them is visible
// to all.
type Cell struct {
	v *Value
}

// Get returns the value currently stored in the cell.
func (c *Cell) Get() *Value {
	return c.v
}

// Set replaces the value stored in the cell.
func (c *Cell) Set(v *Value) {
	c.v = v
}

// Runtime holds state shared by every environment in one evaluation
// context.
type Runtime struct {
	// Stdout receives output written by the print builtin.
	Stdout io.Writer
	// Stderr receives diagnostic output.
	Stderr io.Writer
	// Stack traces the active function invocations.
	Stack *CallStack
}

// NewRuntime returns a Runtime connected to the standard output and
// error streams.
func NewRuntime() *Runtime {
	return &Runtime{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stack:  &CallStack{},
	}
}

type binding struct {
	name     string
	cell     *Cell
	readonly bool
}

// Env is a flat frame of name bindings.  An Env derived with Copy sees
// the same cells as its parent, so assignments flow both ways, while
// bindings added to either afterwards stay private to it.
type Env struct {
	entries []binding
	index   map[string]int
	// Runtime is shared by every Env derived from this one.
	Runtime *Runtime
}

// NewEnv returns an empty environment.  When rt is nil a default
// runtime is created for the environment.
func NewEnv(rt *Runtime) *Env {
	if rt == nil {
		rt = NewRuntime()
	}
	return &Env{
		index:   make(map[string]int),
		Runtime: rt,
	}
}

// Copy returns a derived environment sharing cells with env.
func (env *Env) Copy() *Env {
	cp := &Env{
		entries: make([]binding, len(env.entries)),
		index:   make(map[string]int, len(env.entries)),
		Runtime: env.Runtime,
	}
	copy(cp.entries, env.entries)
	for name, i := range env.index {
		cp.index[name] = i
	}
	return cp
}

// Len returns the number of bindings visible in env.
func (env *Env) Len() int {
	return len(env.entries)
}

// Names returns the bound names in the order they were first defined.
func (env *Env) Names() []string {
	names := make([]string, len(env.entries))
	for i := range env.entries {
		names[i] = env.entries[i].name
	}
	return names
}

// Get returns the value bound to name.
func (env *Env) Get(name string) (*Value, bool) {
	i, ok := env.index[name]
	if !ok {
		return nil, false
	}
	return env.entries[i].cell.Get(), true
}

// Cell returns the storage cell bound to name.  Writes to the cell are
// visible in every environment sharing it.
func (env *Env) Cell(name string) (*Cell, bool) {
	i, ok := env.index[name]
	if !ok {
		return nil, false
	}
	return env.entries[i].cell, true
}

// Put binds name to a fresh cell holding v.  Any previous binding with
// that name is shadowed in env but untouched in environments that
// shared it.
func (env *Env) Put(name string, v *Value) {
	env.put(name, v, false)
}

// PutConst binds name to v immutably so that assignments to name fail.
func (env *Env) PutConst(name string, v *Value) {
	env.put(name, v, true)
}

func (env *Env) put(name string, v *Value, readonly bool) {
	b := binding{name: name, cell: &Cell{v: v}, readonly: readonly}
	if i, ok := env.index[name]; ok {
		env.entries[i] = b
		return
	}
	env.index[name] = len(env.entries)
	env.entries = append(env.entries, b)
}

// Assign stores v in the cell bound to name.  Environments sharing the
// cell observe the new value.
func (env *Env) Assign(name string, v *Value) *Error {
	i, ok := env.index[name]
	if !ok {
		return env.Errorf(ErrnoUnbound, "%s", name)
	}
	if env.entries[i].readonly {
		return env.Errorf(ErrnoNotAssignable, "cannot assign to constant: %s", name)
	}
	env.entries[i].cell.Set(v)
	return nil
}

// Errorf returns an evaluation error carrying a copy of the current
// call stack.
func (env *Env) Errorf(errno Errno, format string, v ...interface{}) *Error {
	err := Errorf(errno, format, v...)
	err.Stack = env.Runtime.Stack.Copy()
	return err
}

// AddBuiltins binds builtin operations in env.  AddBuiltins panics when
// a builtin name collides with an existing binding.
func (env *Env) AddBuiltins(ops ...BuiltinDef) {
	for _, op := range ops {
		name := op.Name()
		if _, ok := env.index[name]; ok {
			panic("symbol already defined: " + name)
		}
		env.PutConst(name, Fun(name, op.Formals(), op.Eval))
	}
}

// AddGlobals binds mutable global variables in env.
func (env *Env) AddGlobals(globals ...Global) {
	for _, g := range globals {
		env.Put(g.Name, g.Value)
	}
}

// InitializeUserEnv installs the default builtins, the boolean
// constants, and the default global variables before applying any
// given configuration.
func InitializeUserEnv(env *Env, config ...Config) error {
	env.AddBuiltins(DefaultBuiltins()...)
	env.PutConst(TrueSymbol, True())
	env.PutConst(FalseSymbol, False())
	env.AddGlobals(DefaultGlobals()...)
	for _, fn := range config {
		if err := fn(env); err != nil {
			return err
		}
	}
	return nil
}
