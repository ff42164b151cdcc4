package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDebug(t *testing.T, source string) string {
	t.Helper()
	node, err := Parse([]byte(source))
	require.NoError(t, err, "source %s", source)
	return node.String()
}

func TestParseLiterals(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`5`, "5"},
		{`-5`, "-5"},
		{`+5`, "5"},
		{`007`, "7"},
		{`"abc"`, `"abc"`},
		{`""`, `""`},
		{`"a\nb"`, `"a\nb"`},
		{`"tab\there"`, `"tab\there"`},
		{`"say \"hi\""`, `"say \"hi\""`},
		{`"back\\slash"`, `"back\\slash"`},
		{`"cr\rend"`, `"cr\rend"`},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseIdentifiers(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`x`, "x"},
		{`zero?`, "zero?"},
		{`a-b`, "a-b"},
		{`n.total`, "n.total"},
		{`λx`, "λx"},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseApplication(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`f()`, "(Application f)"},
		{`f(1, 2)`, "(Application f 1 2)"},
		{`f(1,)`, "(Application f 1)"},
		{`f(1)(2)`, "(Application (Application f 1) 2)"},
		{`add(x, mul(2, v))`, "(Application add x (Application mul 2 v))"},
		{`print("a", "b")`, `(Application print "a" "b")`},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseAssignment(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`x = 5`, "(Assignment x 5)"},
		{`x = add(x, 1)`, "(Assignment x (Application add x 1))"},
		{`x = y = 5`, "(Assignment x (Assignment y 5))"},
		{`f = lambda (a) { a }`, "(Assignment f (Lambda (Parameters a) (Block a)))"},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseBlock(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`{ 1 }`, "(Block 1)"},
		{`{}`, "(Block)"},
		{`{ f(); 2 }`, "(Block (Application f) 2)"},
		{`{ f(); 2; }`, "(Block (Application f) 2)"},
		{`{ x }(5)`, "(Application (Block x) 5)"},
		{`{ { 1 } }`, "(Block (Block 1))"},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseLet(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`let x = 5 { x }`, "(Let x 5 (Block x))"},
		{`let x = 5`, "(Let x 5 (Block))"},
		{
			`let f = lambda (a) { a } { f(1) }`,
			"(Let f (Lambda (Parameters a) (Block a)) (Block (Application f 1)))",
		},
		{
			`let a = add(x, 1) { mul(a, a) }`,
			"(Let a (Application add x 1) (Block (Application mul a a)))",
		},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseLetDesugar(t *testing.T) {
	// A bare let inside a block takes the rest of the block as its
	// body.
	for _, test := range []struct{ source, expect string }{
		{
			`{ let x = 5; f(x); g(x) }`,
			"(Block (Let x 5 (Block (Application f x) (Application g x))))",
		},
		{
			`{ let a = 1; let b = 2; add(a, b) }`,
			"(Block (Let a 1 (Block (Let b 2 (Block (Application add a b))))))",
		},
		{
			`{ f(); let a = 1; g(a) }`,
			"(Block (Application f) (Let a 1 (Block (Application g a))))",
		},
		{`{ let x = 5 }`, "(Block (Let x 5 (Block)))"},
		// A let that already has a body keeps it and shares the block
		// with the statements after it.
		{
			`{ let x = 5 { x }; g() }`,
			"(Block (Let x 5 (Block x)) (Application g))",
		},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseDef(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`def d = 5`, "(Def d 5)"},
		{`def d = 5 { d }`, "(Def d 5 (Block d))"},
		// Definitions do not absorb the rest of their block the way
		// bare lets do.
		{`{ def d = 1; d() }`, "(Block (Def d 1) (Application d))"},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseCond(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`cond (a => 1)`, "(Cond (Clause a 1))"},
		{
			`cond (zero?(n) => 1) (true => f(n))`,
			"(Cond (Clause (Application zero? n) 1) (Clause true (Application f n)))",
		},
		{
			`cond (eq(a, b) => "same") (true => "different")`,
			`(Cond (Clause (Application eq a b) "same") (Clause true "different"))`,
		},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseLambda(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{`lambda () { 1 }`, "(Lambda (Parameters) (Block 1))"},
		{`lambda (a) { a }`, "(Lambda (Parameters a) (Block a))"},
		{`lambda (a, b) { add(a, b) }`, "(Lambda (Parameters a b) (Block (Application add a b)))"},
		{`λ (a) { a }`, "(Lambda (Parameters a) (Block a))"},
		{`λ(a){a}`, "(Lambda (Parameters a) (Block a))"},
		{`lambda (a) { a }(7)`, "(Application (Lambda (Parameters a) (Block a)) 7)"},
		{`lambda () { f }()()`, "(Application (Application (Lambda (Parameters) (Block f))))"},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseComments(t *testing.T) {
	for _, test := range []struct{ source, expect string }{
		{"f(1) // call f\n", "(Application f 1)"},
		{"// leading comment\nf(2)", "(Application f 2)"},
		{"{ f(); // first\n  g() }", "(Block (Application f) (Application g))"},
		// Comment markers inside string literals are text, not
		// comments.
		{`"http://example"`, `"http://example"`},
	} {
		assert.Equal(t, test.expect, parseDebug(t, test.source), "source %s", test.source)
	}
}

func TestParseMultiline(t *testing.T) {
	source := `
let fact-cell = 0 {
	fact-cell = lambda (n) {
		cond (zero?(n) => 1)
		     (true => mul(n, fact-cell(sub(n, 1))))
	};
	fact-cell(5)
}
`
	expect := "(Let fact-cell 0 (Block " +
		"(Assignment fact-cell (Lambda (Parameters n) (Block " +
		"(Cond (Clause (Application zero? n) 1) " +
		"(Clause true (Application mul n (Application fact-cell (Application sub n 1)))))))) " +
		"(Application fact-cell 5)))"
	assert.Equal(t, expect, parseDebug(t, source))
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		source string
		msg    string
	}{
		{``, "1:1: empty input"},
		{"  \n\t", "1:1: empty input"},
		{`// only a comment`, "1:1: empty input"},
		{`)`, "1:1: unexpected token"},
		{`cond`, "1:1: unexpected token"},
		{`1+2`, "1:1: invalid integer: 1+2"},
		{`99999999999999999999`, "1:1: integer out of range: 99999999999999999999"},
		{`f(1+2)`, "1:3: invalid integer: 1+2"},
		{`let 5 = 1`, "1:5: binding name is not an identifier: 5"},
		{`let let = 1`, "1:5: binding name is not an identifier: let"},
		{`lambda (5) { 1 }`, "1:9: parameter is not an identifier: 5"},
		{`"bad \q escape"`, `1:1: invalid escape in string: \q`},
		{`5 6`, "1:2: unexpected trailing input"},
		{"f()\ng()", "1:4: unexpected trailing input"},
	} {
		_, err := Parse([]byte(test.source))
		if assert.Error(t, err, "source %s", test.source) {
			assert.Equal(t, test.msg, err.Error(), "source %s", test.source)
		}
	}
}

func TestParseNamed(t *testing.T) {
	node, err := ParseNamed("prog.sap", []byte(`f(1)`))
	require.NoError(t, err)
	assert.Equal(t, "(Application f 1)", node.String())

	_, err = ParseNamed("prog.sap", []byte("// comment\nf(1+2)"))
	if assert.Error(t, err) {
		serr, ok := err.(*SyntaxError)
		if assert.True(t, ok) {
			assert.Equal(t, "prog.sap", serr.Name)
			assert.Equal(t, 2, serr.Line)
			assert.Equal(t, 3, serr.Col)
			assert.Equal(t, "invalid integer: 1+2", serr.Msg)
			assert.Equal(t, "prog.sap:2:3: invalid integer: 1+2", serr.Error())
		}
	}
}

func TestIncomplete(t *testing.T) {
	for _, test := range []struct {
		source string
		want   bool
	}{
		{`{`, true},
		{`{ f();`, true},
		{`lambda (`, true},
		{`lambda (a) {`, true},
		{`"abc`, true},
		{`f(1,`, true},
		{`cond (a => 1`, true},
		{``, false},
		{`5`, false},
		{`{ f() }`, false},
		{`"abc"`, false},
		{`"a(b{c"`, false},
		{`f() // trailing ( comment`, false},
	} {
		assert.Equal(t, test.want, Incomplete([]byte(test.source)), "source %s", test.source)
	}
}

func BenchmarkParse(b *testing.B) {
	source := []byte(`
let counter = 0 {
	counter = lambda (n) {
		cond (zero?(n) => "done")
		     (true => counter(sub(n, 1)))
	};
	counter(100) // spin
}
`)
	for i := 0; i < b.N; i++ {
		_, err := Parse(source)
		if err != nil {
			b.Fatal(err)
		}
	}
}
