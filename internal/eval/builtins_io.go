package eval

import (
	"fmt"
	"os"

	"github.com/jlisp/jlisp/internal/value"
)

// builtinDisplay prints v the human-facing way (strings unquoted), with no
// trailing newline — matching a Lisp `display`, not `print`.
func builtinDisplay(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("display", args, 1)
	if err != nil {
		return nil, err
	}
	fmt.Print(value.Display(args[0]))
	return value.TheNil, nil
}

func builtinNewline(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	if _, err := exactArgs("newline", args, 0); err != nil {
		return nil, err
	}
	fmt.Println()
	return value.TheNil, nil
}

// builtinPrint is (display v) followed by a newline, the common case.
func builtinPrint(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("print", args, 1)
	if err != nil {
		return nil, err
	}
	fmt.Println(value.Display(args[0]))
	return value.TheNil, nil
}

// builtinRepr returns the read-back (machine) representation of v as a
// jlisp string — strings stay quoted, unlike display. Unlike display/print,
// repr is a pure serializer with no printing side effect, so its result can
// be fed straight into string builtins like concat.
func builtinRepr(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("repr", args, 1)
	if err != nil {
		return nil, err
	}
	return value.String(args[0].String()), nil
}

// builtinExit implements (exit n): terminates the process immediately with
// status n, per spec.md §4.7.5 — an intentional escape hatch visible to
// jlisp code, not merely to the host.
func builtinExit(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("exit", args, 1)
	if err != nil {
		return nil, err
	}
	n, ok := value.ToInt(args[0])
	if !ok {
		return nil, typeErr("exit", "an int", args[0])
	}
	os.Exit(int(n))
	return value.TheNil, nil // unreachable
}

// builtinEvalFile implements (evalfile path): loads and evaluates path as a
// fresh sequence of top-level forms against the global environment,
// returning its last form's value — the same operation the Host API's
// EvalFile exposes to Go callers, but reachable from jlisp code itself.
func builtinEvalFile(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("evalfile", args, 1)
	if err != nil {
		return nil, err
	}
	path, ok := value.ToStr(args[0])
	if !ok {
		return nil, typeErr("evalfile", "a string", args[0])
	}
	return rt.EvalFile(string(path))
}
