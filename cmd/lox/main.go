// Command lox is the driver: it owns process exit codes, file/stdin
// reading, and the REPL loop. Running scripts goes through the root
// lox package's Session; the tokenize and parse debug commands call
// the internal lexer and parser directly.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loxscript/lox"
	"github.com/loxscript/lox/internal/lexer"
	"github.com/loxscript/lox/internal/parser"
	"github.com/loxscript/lox/internal/reporter"
)

// Exit codes, following the conventions of sysexits.h.
const (
	exitOK         = 0
	exitUsage      = 64
	exitDataErr    = 65
	exitRuntimeErr = 70
)

func main() {
	root := &cobra.Command{
		Use:   "lox [script]",
		Short: "Tree-walking interpreter for the Lox dialect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runFile(args[0])
			}
			return runRepl()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "run <file>",
		Short: "Run a script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0])
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the token stream for a script, without parsing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tokenizeFile(args[0])
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed statement count for a script, without resolving or running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return parseFile(args[0])
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	rep := reporter.Default()
	sess := lox.NewSession(rep, lox.File, os.Stdout)
	sess.Run(string(source))

	if rep.HadError() {
		os.Exit(exitDataErr)
	}
	if rep.HadRuntimeError() {
		os.Exit(exitRuntimeErr)
	}
	return nil
}

func runRepl() error {
	rep := reporter.Default()
	sess := lox.NewSession(rep, lox.REPL, os.Stdout)

	fmt.Println(color.CyanString("lox"), "- Ctrl+D to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.GreenString("> "))
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		rep.Reset()
		sess.Run(line)
	}
}

func tokenizeFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	rep := reporter.Default()
	scan := lexer.New(string(source), rep)
	for _, tok := range scan.Scan() {
		fmt.Println(tok.String())
	}
	if rep.HadError() {
		os.Exit(exitDataErr)
	}
	return nil
}

func parseFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	rep := reporter.Default()
	scan := lexer.New(string(source), rep)
	tokens := scan.Scan()
	if rep.HadError() {
		os.Exit(exitDataErr)
	}

	p := parser.New(tokens, rep)
	stmts := p.Parse()
	if rep.HadError() {
		os.Exit(exitDataErr)
	}
	fmt.Printf("parsed %d top-level statement(s)\n", len(stmts))
	return nil
}
