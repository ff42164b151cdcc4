package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/luthersystems/sapling/parser"
	"github.com/luthersystems/sapling/sap"
	"github.com/luthersystems/sapling/sap/sapjson"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runJSON       bool
	runQuiet      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run sapling programs",
	Long: `Evaluate programs supplied via the command line or files, printing the
value of each program.  All programs share one environment, so
assignments made by one program are visible to the programs after it.`,
	Run: func(cmd *cobra.Command, args []string) {
		exprs, names, err := runReadExpressions(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if len(exprs) == 0 {
			fmt.Fprintln(os.Stderr, "no program to run")
			os.Exit(1)
		}

		env := sap.NewEnv(nil)
		if err := sap.InitializeUserEnv(env); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for i := range exprs {
			val, err := runSource(env, names[i], exprs[i])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if !runQuiet {
				fmt.Println(val)
			}
		}
	},
}

func runReadExpressions(args []string) ([][]byte, []string, error) {
	if runExpression {
		exprs := make([][]byte, len(args))
		names := make([]string, len(args))
		for i := range args {
			exprs[i] = []byte(args[i])
		}
		return exprs, names, nil
	}
	// Without arguments the program is read from stdin, like the "-"
	// pseudo file.
	if len(args) == 0 {
		args = []string{"-"}
	}
	exprs := make([][]byte, len(args))
	names := make([]string, len(args))
	for i, path := range args {
		if path == "-" {
			b, err := ioutil.ReadAll(os.Stdin)
			if err != nil {
				return nil, nil, err
			}
			exprs[i] = b
			continue
		}
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		exprs[i] = b
		names[i] = path
	}
	return exprs, names, nil
}

// runSource parses text, either as source or as a serialized JSON
// expression, and evaluates it in env.
func runSource(env *sap.Env, name string, text []byte) (*sap.Value, error) {
	var node *sap.Node
	var err error
	if runJSON {
		node, err = sapjson.Decode(text)
	} else {
		node, err = parser.ParseNamed(name, text)
	}
	if err != nil {
		return nil, err
	}
	val, everr := env.Eval(node)
	if everr != nil {
		if everr.Stack != nil && len(everr.Stack.Frames) > 0 {
			everr.Stack.DebugPrint(os.Stderr)
		}
		return nil, everr
	}
	return val, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as expressions")
	runCmd.Flags().BoolVar(&runJSON, "json", false,
		"Interpret input as serialized JSON expressions")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false,
		"Do not print program values")
}
