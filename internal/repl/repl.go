// Package repl provides the interactive jlisp shell: a liner-backed prompt
// loop that feeds balanced top-level forms to an interp.State and prints
// results (or tracebacks) in color. The REPL itself is an external
// collaborator in the spec's terms — it drives the Host API, it isn't part
// of the language core.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/jlisp/jlisp/internal/interp"
	"github.com/jlisp/jlisp/internal/lexer"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

var replCommands = []string{":help", ":quit", ":exit", ":reset", ":env", ":modules", ":history", ":clear"}

// REPL is a prompt loop around an interp.State.
type REPL struct {
	state     *interp.State
	version   string
	history   []string
	lastValue string
}

// New creates a REPL around a fresh interp.State.
func New() *REPL { return NewWithVersion("") }

// NewWithVersion creates a REPL tagging its banner with version.
func NewWithVersion(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	return &REPL{state: interp.New(), version: version}
}

// Start runs the prompt loop against in/out until EOF or :quit.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)
	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return c
	})

	historyFile := filepath.Join(os.TempDir(), ".jlisp_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "%s %s\n", bold("jlisp"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	for {
		input, err := r.readForm(line, "λ> ", out)
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.HandleCommand(input, out) {
				fmt.Fprintln(out, green("Goodbye!"))
				return
			}
			continue
		}

		r.evalLine(input, out)
	}
}

// readForm reads one line, then keeps reading continuation lines under a
// "... " prompt until the accumulated input's parens balance (per
// lexer.Validator) or the user sends EOF.
func (r *REPL) readForm(line *liner.State, prompt string, out io.Writer) (string, error) {
	first, err := line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	first = strings.TrimSpace(first)
	if first == "" || strings.HasPrefix(first, ":") {
		return first, nil
	}

	buf := first
	for !formBalanced(buf) {
		cont, err := line.Prompt("... ")
		if err == io.EOF {
			fmt.Fprintln(out, red("Incomplete expression"))
			return "", nil
		}
		if err != nil {
			return "", err
		}
		buf += "\n" + cont
	}
	return buf, nil
}

// formBalanced reports whether src's parens close, tolerating the lexer
// erroring out on a truncated token (a string or char literal split across
// lines still counts as "keep reading").
func formBalanced(src string) bool {
	lx := lexer.New("<repl>", lexer.Normalize([]byte(src)))
	var v lexer.Validator
	for {
		tok, err := lx.Next()
		if err != nil {
			return false
		}
		if err := v.Feed(tok); err != nil {
			return true // unmatched close paren: let the parser report it
		}
		if tok.Type == lexer.EOF {
			return v.Finish(tok.Pos) == nil
		}
	}
}

func (r *REPL) evalLine(input string, out io.Writer) {
	r.state.ResetTraceback()
	v, err := r.state.EvalStr(input)
	if err != nil {
		r.state.PrintException(out, r.state.Position(), err, r.state.Traceback())
		return
	}
	r.lastValue = v.String()
	fmt.Fprintf(out, "%s\n", cyan(r.lastValue))
}
