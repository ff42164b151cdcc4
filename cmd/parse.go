package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/luthersystems/sapling/parser"
	"github.com/luthersystems/sapling/sap/sapjson"
	"github.com/spf13/cobra"
)

var (
	parseSexp   bool
	parseIndent bool
	parseTagged bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse programs and print their JSON form",
	Long: `Parse each given file, or standard input when no files are given, and
print the serialized JSON form of each program.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			text, err := ioutil.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			parseSource("", text)
			return
		}
		for _, path := range args {
			text, err := ioutil.ReadFile(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			parseSource(path, text)
		}
	},
}

func parseSource(name string, text []byte) {
	node, err := parser.ParseNamed(name, text)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if parseSexp {
		fmt.Println(node)
		return
	}
	ser := &sapjson.Serializer{AlwaysObject: parseTagged}
	b, err := ser.Encode(node)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if parseIndent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", "  "); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		b = buf.Bytes()
	}
	fmt.Println(string(b))
}

func init() {
	rootCmd.AddCommand(parseCmd)

	// Here flags for the parse command are defined
	parseCmd.Flags().BoolVarP(&parseSexp, "sexp", "s", false,
		"Print a compact debug rendering instead of JSON")
	parseCmd.Flags().BoolVarP(&parseTagged, "always-object", "a", false,
		"Render literals in tagged object form")
	parseCmd.Flags().BoolVar(&parseIndent, "indent", false,
		"Indent the JSON output")
}
