// Package saplingtest provides utilities for testing the evaluation of
// sapling programs.
package saplingtest

import (
	"bytes"
	"testing"

	"github.com/luthersystems/sapling/parser"
	"github.com/luthersystems/sapling/sap"
	"github.com/luthersystems/sapling/sap/sapjson"
	"gopkg.in/yaml.v3"
)

// TestSequence is a sequence of expressions evaluated in order in a
// single environment.
type TestSequence []struct {
	// Expr is the expression to evaluate.
	Expr string `yaml:"expr"`
	// Result is the expected value rendering, or the expected error
	// string when evaluation should fail.
	Result string `yaml:"result"`
	// Output is the text the print builtin should write while Expr
	// evaluates.
	Output string `yaml:"output"`
}

// TestSuite is a set of named test sequences.
type TestSuite []struct {
	Name         string `yaml:"name"`
	TestSequence `yaml:"sequence"`
}

// RunTestSuite runs each TestSequence in tests with a default Runner.
func RunTestSuite(t *testing.T, tests TestSuite) {
	r := &Runner{}
	r.RunTestSuite(t, tests)
}

// Runner evaluates test sequences, each in a fresh environment.
type Runner struct {
	// MaxStackHeight limits evaluation call nesting when nonzero.
	MaxStackHeight int
	// DecodeJSON makes the runner read sequence expressions as
	// serialized JSON trees instead of surface syntax.
	DecodeJSON bool
}

// RunTestSuite runs all tests in the suite.
func (r *Runner) RunTestSuite(t *testing.T, suite TestSuite) {
	for i, test := range suite {
		r.RunTest(t, i, test.Name, test.TestSequence)
	}
}

// RunTest evaluates a sequence of expressions in one environment,
// checking the value, error, and printed output of every expression
// against the expectations recorded in the sequence.
func (r *Runner) RunTest(t *testing.T, index int, name string, seq TestSequence) {
	out := &bytes.Buffer{}
	config := []sap.Config{sap.WithStdout(out)}
	if r.MaxStackHeight > 0 {
		config = append(config, sap.WithMaximumStackHeight(r.MaxStackHeight))
	}
	env := sap.NewEnv(nil)
	if err := sap.InitializeUserEnv(env, config...); err != nil {
		t.Fatalf("test %d %q: unable to initialize environment: %v", index, name, err)
	}
	for j, step := range seq {
		out.Reset()
		node, perr := r.parse([]byte(step.Expr))
		if perr != nil {
			t.Errorf("test %d %q: expr %d: parse error: %v", index, name, j, perr)
			continue
		}
		var result string
		val, err := env.Eval(node)
		if err != nil {
			result = err.Error()
		} else {
			result = val.String()
		}
		if result != step.Result {
			t.Errorf("test %d %q: expr %d: expected result %s (got %s)", index, name, j, step.Result, result)
		}
		if out.String() != step.Output {
			t.Errorf("test %d %q: expr %d: expected output %q (got %q)", index, name, j, step.Output, out.String())
		}
	}
}

func (r *Runner) parse(text []byte) (*sap.Node, error) {
	if r.DecodeJSON {
		return sapjson.Decode(text)
	}
	return parser.Parse(text)
}

// LoadSuite reads a TestSuite from its YAML form.  Unknown fields are
// an error so that typos in fixtures fail loudly.
func LoadSuite(b []byte) (TestSuite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var suite TestSuite
	if err := dec.Decode(&suite); err != nil {
		return nil, err
	}
	return suite, nil
}
