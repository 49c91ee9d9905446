package errors

import (
	"fmt"
	"strings"

	"github.com/jlisp/jlisp/internal/ast"
)

// Callable is the minimal shape a traceback frame needs from the value that
// failed to apply: something printable, and (for lambdas/macros) a source
// position for where it was defined. internal/value's Lambda/Macro/Builtin/
// SpecialForm types all satisfy this without errors needing to import
// internal/value (which would create an import cycle, since value.Error
// wraps an errors.Kind).
type Callable interface {
	fmt.Stringer
	DefinedAt() *ast.Pos
}

// Frame is one traceback entry, pushed only once an application has already
// entered its callable (spec.md §4.8: "frames are pushed only when an
// application has already entered the callable").
type Frame struct {
	Proc  Callable
	EnvID uint64
}

func (f Frame) String() string {
	if pos := f.Proc.DefinedAt(); pos != nil {
		return fmt.Sprintf("File %q, line %d, in %s", pos.File, pos.Line, f.Proc)
	}
	return fmt.Sprintf("in %s", f.Proc)
}

// Traceback is an ordered sequence of frames, oldest call first.
type Traceback []Frame

// Render writes the traceback the way PrintException does: most-recent
// frame last, then "file:line" and "Kind: message" (see DESIGN.md's Open
// Question resolution for traceback order).
func Render(pos ast.Pos, err error, tb Traceback) string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for _, f := range tb {
		b.WriteString("  ")
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	b.WriteString(fmt.Sprintf("  File %q, line %d\n", pos.File, pos.Line))
	if rep, ok := AsReport(err); ok {
		b.WriteString(fmt.Sprintf("%s: %s\n", rep.Kind, rep.Message))
	} else if err != nil {
		b.WriteString(err.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
