// Command jlisp is the jlisp CLI: run a file, drop into the REPL, check a
// file's syntax, or macroexpand its first macro call.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jlisp/jlisp/internal/interp"
	"github.com/jlisp/jlisp/internal/repl"
)

// Version is set by ldflags at build time.
var Version = "dev"

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// evalStackSize is how large a stack the dedicated evaluation goroutine
// gets, to tolerate the tree-walking evaluator's non-tail Go recursion on
// deeply nested jlisp calls (spec.md §5: "host provides a large stack").
const evalStackSize = 512 << 20

func main() {
	debug.SetMaxStack(evalStackSize)

	root := &cobra.Command{
		Use:     "jlisp",
		Short:   "A small Lisp-family interpreter",
		Version: Version,
	}

	var searchPaths []string
	root.PersistentFlags().StringSliceVarP(&searchPaths, "include", "I", nil, "additional module search path")

	root.AddCommand(
		newRunCmd(&searchPaths),
		newReplCmd(&searchPaths),
		newCheckCmd(),
		newMacroexpandCmd(&searchPaths),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

// runOnEvalGoroutine runs fn on its own goroutine, blocking until it
// returns — the isolation point where the deep-recursion evaluator gets
// the enlarged stack set by debug.SetMaxStack above.
func runOnEvalGoroutine(fn func() int) int {
	code := make(chan int, 1)
	go func() { code <- fn() }()
	return <-code
}

func newRunCmd(searchPaths *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Evaluate a jlisp source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := runOnEvalGoroutine(func() int {
				s := interp.New()
				for _, p := range *searchPaths {
					s.AddSearchPath(p)
				}
				if _, err := s.EvalFile(args[0]); err != nil {
					s.PrintException(os.Stderr, s.Position(), err, s.Traceback())
					return 1
				}
				return 0
			})
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

func newReplCmd(searchPaths *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive jlisp session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := repl.NewWithVersion(Version)
			runOnEvalGoroutine(func() int {
				r.Start(os.Stdin, os.Stdout)
				return 0
			})
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a file without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := interp.New()
			p, err := s.ParseFile(args[0])
			if err != nil {
				return err
			}
			for !p.AtEOF() {
				if _, err := s.NextForm(p); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", red("Syntax error"), err)
					os.Exit(1)
				}
			}
			fmt.Println(green("OK"))
			return nil
		},
	}
}

func newMacroexpandCmd(searchPaths *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "macroexpand <file>",
		Short: "Evaluate a file's forms up to its first macro call, then print that call expanded one level instead of evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := interp.New()
			for _, p := range *searchPaths {
				s.AddSearchPath(p)
			}
			p, err := s.ParseFile(args[0])
			if err != nil {
				return err
			}
			// Walk forms in order, evaluating each (so earlier `(def ...)`
			// forms, including ones binding a macro, register their
			// bindings) until the first
			// one that is itself a macro call, then expand just that one
			// instead of evaluating it.
			for !p.AtEOF() {
				form, err := s.NextForm(p)
				if err != nil {
					return fmt.Errorf("syntax error: %w", err)
				}
				if form == nil {
					break
				}
				expansion, expanded, err := s.ExpandOnce(form)
				if err != nil {
					s.PrintException(os.Stderr, s.Position(), err, s.Traceback())
					os.Exit(1)
				}
				if expanded {
					fmt.Println(expansion.String())
					return nil
				}
				if _, err := s.Eval(form, nil); err != nil {
					s.PrintException(os.Stderr, s.Position(), err, s.Traceback())
					os.Exit(1)
				}
			}
			fmt.Fprintln(os.Stderr, yellow("no macro call found"))
			return nil
		},
	}
}
