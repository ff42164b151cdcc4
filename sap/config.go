package sap

import (
	"io"
)

// Config adjusts an environment during InitializeUserEnv.
type Config func(env *Env) error

// WithStdout configures the writer that receives output from the print
// builtin.
func WithStdout(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr configures the writer that receives diagnostic output
// such as stack traces.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithMaximumStackHeight limits call nesting during evaluation so that
// runaway recursion produces a stack overflow error instead of
// exhausting process memory.
func WithMaximumStackHeight(n int) Config {
	return func(env *Env) error {
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}
