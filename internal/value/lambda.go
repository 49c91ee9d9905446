package value

import (
	"fmt"
	"sync/atomic"

	"github.com/jlisp/jlisp/internal/ast"
)

// Lambda is a user-defined closure: a parameter list, a body (a list of
// forms, evaluated in sequence, with the last one's value returned), and
// the environment it closed over at definition time.
type Lambda struct {
	Name    string // empty for an anonymous lambda; set by `def` sugar
	Params  Params
	Body    []Value
	Closure *Env
	Pos     ast.Pos
}

func (Lambda) Type() Kind { return KindLambda }
func (l Lambda) String() string {
	n, _ := l.Params.Arity()
	if l.Name != "" {
		return fmt.Sprintf("#[lambda (%d) %q]", n, l.Name)
	}
	return fmt.Sprintf("#[lambda (%d)]", n)
}

// DefinedAt satisfies errors.Callable so Lambda can appear in a traceback
// frame without internal/errors importing internal/value.
func (l Lambda) DefinedAt() *ast.Pos { return &l.Pos }

// Macro is like Lambda but its body is evaluated against the *unevaluated*
// argument forms, and its result is evaluated again in the call site's
// environment (standard non-hygienic macro expansion).
type Macro struct {
	Name    string
	Params  Params
	Body    []Value
	Closure *Env
	Pos     ast.Pos
}

func (Macro) Type() Kind { return KindMacro }
func (m Macro) String() string {
	if m.Name != "" {
		return fmt.Sprintf("#<macro %s>", m.Name)
	}
	return "#<macro>"
}

func (m Macro) DefinedAt() *ast.Pos { return &m.Pos }

// Builtin is a Go-native procedure exposed to jlisp code as an ordinary
// callable value, receiving already-evaluated arguments. Go func values
// aren't comparable, so Builtin carries an id from a monotonic counter
// (assigned by NewBuiltin) that `eq?` uses to tell two builtins apart —
// or recognize the same one bound under two names.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
	id   uint64
}

var builtinIDCounter uint64

// NewBuiltin constructs a Builtin with a fresh identity id. Every builtin
// registered in the global environment should be built through this
// constructor rather than a bare struct literal, so its id is set.
func NewBuiltin(name string, fn BuiltinFunc) Builtin {
	return Builtin{Name: name, Fn: fn, id: atomic.AddUint64(&builtinIDCounter, 1)}
}

func (Builtin) Type() Kind       { return KindBuiltin }
func (b Builtin) String() string { return fmt.Sprintf("#[function %s]", b.Name) }

// ID returns this builtin's identity, for eq?.
func (b Builtin) ID() uint64 { return b.id }

// DefinedAt is always nil for a Builtin: it has no jlisp source position.
func (b Builtin) DefinedAt() *ast.Pos { return nil }

// SpecialForm is a Go-native procedure with Apply's usual evaluation order
// suspended: it receives its operand list unevaluated, so it fully
// controls what gets evaluated, in what environment, and when.
type SpecialForm struct {
	Name string
	Fn   SpecialFormFunc
}

func (SpecialForm) Type() Kind       { return KindSpecialForm }
func (s SpecialForm) String() string { return fmt.Sprintf("#[special-form %s]", s.Name) }

func (s SpecialForm) DefinedAt() *ast.Pos { return nil }
