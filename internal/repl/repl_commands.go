package repl

import (
	"fmt"
	"io"
	"strings"
)

// HandleCommand processes a leading-colon REPL command, returning true if
// the REPL should exit.
func (r *REPL) HandleCommand(cmd string, out io.Writer) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case ":help", ":h":
		r.printHelp(out)

	case ":quit", ":q", ":exit":
		return true

	case ":reset":
		r.state.Reset()
		fmt.Fprintln(out, green("Environment reset"))

	case ":env":
		names := r.state.GlobalEnv().Names()
		for _, n := range names {
			fmt.Fprintln(out, n)
		}

	case ":modules":
		for _, m := range r.state.LoadedModules() {
			fmt.Fprintln(out, m)
		}

	case ":history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, cmd)
		}

	case ":clear":
		fmt.Fprint(out, "\033[H\033[2J")

	default:
		fmt.Fprintf(out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(out, "Type :help for help")
	}
	return false
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("REPL Commands:"))
	fmt.Fprintln(out, "  :help, :h       Show this help")
	fmt.Fprintln(out, "  :quit, :q       Exit the REPL")
	fmt.Fprintln(out, "  :env            List global bindings")
	fmt.Fprintln(out, "  :modules        List loaded module paths")
	fmt.Fprintln(out, "  :history        Show command history")
	fmt.Fprintln(out, "  :clear          Clear the screen")
	fmt.Fprintln(out, "  :reset          Reset the global environment")
	fmt.Fprintln(out)
	fmt.Fprintln(out, yellow("Multi-line input:"), "parens left open continue onto a \"... \" prompt")
}
