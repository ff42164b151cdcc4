// Package repl provides an interactive sapling prompt.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/luthersystems/sapling/parser"
	"github.com/luthersystems/sapling/sap"
)

// RunRepl initializes a new environment and enters an interactive
// read, evaluate, and print loop that runs until EOF.
func RunRepl(prompt string) {
	env := sap.NewEnv(nil)
	if err := sap.InitializeUserEnv(env); err != nil {
		errlnf("unable to initialize environment: %v", err)
		os.Exit(1)
	}
	RunEnv(env, prompt)
}

// RunEnv enters an interactive loop evaluating expressions in env.
// Bindings persist between inputs, so assignments to the global
// variables are visible in later expressions.
func RunEnv(env *sap.Env, prompt string) {
	rl, err := readline.New(prompt)
	if err != nil {
		errlnf("unable to read input: %v", err)
		os.Exit(1)
	}
	defer rl.Close()

	// An expression can span lines.  Completed prompts are full width
	// while continuation prompts are blank.
	contPrompt := strings.Repeat(" ", len(prompt))

	var buf []string
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(buf) == 0 {
				continue
			}
			buf = nil
			rl.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			errlnf("error reading input: %v", err)
			continue
		}
		buf = append(buf, line)
		text := strings.Join(buf, "\n")
		if strings.TrimSpace(text) == "" {
			buf = nil
			continue
		}
		if parser.Incomplete([]byte(text)) {
			rl.SetPrompt(contPrompt)
			continue
		}
		buf = nil
		rl.SetPrompt(prompt)

		node, perr := parser.Parse([]byte(text))
		if perr != nil {
			errlnf("parse error: %v", perr)
			continue
		}
		val, everr := env.Eval(node)
		if everr != nil {
			errlnf("error: %v", everr)
			if everr.Stack != nil && len(everr.Stack.Frames) > 0 {
				everr.Stack.DebugPrint(os.Stderr)
			}
			continue
		}
		fmt.Println(val)
	}
}

func errlnf(format string, v ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, v...)
}
