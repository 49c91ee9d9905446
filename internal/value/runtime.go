package value

import "github.com/jlisp/jlisp/internal/ast"

// Runtime is the slice of the evaluator that Builtins, SpecialForms, and
// reader-macro transformer lambdas are allowed to call back into. It is
// declared here, in the lowest package, and satisfied structurally
// (internal/interp.State implements it without ever being named here) so
// that internal/value never has to import internal/eval or
// internal/interp — both of which import internal/value. This is the same
// dependency-inversion trick the teacher uses to let its builtins call
// back into eval.Eval without an import cycle.
type Runtime interface {
	// Interner returns the shared interning tables for this session.
	Interner() *Interner

	// Eval evaluates v in env.
	Eval(v Value, env *Env) (Value, error)

	// Apply applies fn to already-evaluated args.
	Apply(fn Value, args []Value, env *Env) (Value, error)

	// Position returns the source position of the form currently being
	// evaluated, for builtins that need to attach it to a raised error.
	Position() ast.Pos

	// Import loads and evaluates the module at path, returning the
	// environment its top-level definitions were evaluated into.
	Import(path string, fromEnv *Env) (*Env, error)

	// EvalFile reads, parses, and evaluates every top-level form in the
	// file at path against the global environment, returning the last
	// form's value. Backs the `evalfile` builtin (spec.md §4.7.5).
	EvalFile(path string) (Value, error)

	// InstallReaderMacro registers a new reader-macro rule, keyed on a
	// token-matcher sequence and a transform function. It applies to reads
	// that start after the call; the read already in progress keeps the
	// macro set it started with.
	InstallReaderMacro(rule []TokenMatcher, transform ReaderTransformFunc)

	// PushFrame records a traceback entry for proc once it has actually
	// been entered (not merely looked up).
	PushFrame(proc Value, envID uint64)
}

// BuiltinFunc is the Go-native implementation of a Builtin: it receives
// already-evaluated arguments.
type BuiltinFunc func(args []Value, env *Env, rt Runtime) (Value, error)

// SpecialFormFunc is the Go-native implementation of a SpecialForm: unlike
// BuiltinFunc, it receives its operand list unevaluated (as a raw Value)
// so it can control which parts get evaluated and when (e.g. `if`, `and`,
// `quote`).
type SpecialFormFunc func(args Value, env *Env, rt Runtime) (Value, error)

// ReaderTransformFunc is the Go-native implementation of a reader-macro
// transform: given the matched token window, it returns the replacement
// token sequence to splice into the stream.
type ReaderTransformFunc func(window []Token) ([]Token, error)
