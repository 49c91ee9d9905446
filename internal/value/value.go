// Package value holds the tagged union of runtime values, the lexical
// environment they live in, and the interning tables that give identical
// atoms identical identity. It is the lowest-level package in the
// evaluator stack: everything else (internal/reader, internal/parser,
// internal/eval, internal/interp) depends on it, so it must depend on
// nothing above it. Where a Value variant needs to call back into the
// evaluator (a Builtin applying its arguments, a reader macro transforming
// tokens), it does so through the Runtime interface defined in runtime.go
// rather than importing internal/eval directly.
package value

import (
	"fmt"

	"github.com/jlisp/jlisp/internal/ast"
)

// Kind is the closed set of runtime value tags.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindSymbol
	KindString
	KindPair
	KindVector
	KindQuote
	KindQuasiquote
	KindUnquote
	KindUnquoteSplice
	KindError
	KindLambda
	KindMacro
	KindBuiltin
	KindSpecialForm
	KindEnv
	KindToken
	KindTokenMatcher
)

var kindNames = map[Kind]string{
	KindNil:           "nil",
	KindBool:          "bool",
	KindInt:           "int",
	KindFloat:         "float",
	KindSymbol:        "symbol",
	KindString:        "string",
	KindPair:          "pair",
	KindVector:        "vector",
	KindQuote:         "quote",
	KindQuasiquote:    "quasiquote",
	KindUnquote:       "unquote",
	KindUnquoteSplice: "unquote-splice",
	KindError:         "error",
	KindLambda:        "lambda",
	KindMacro:         "macro",
	KindBuiltin:       "builtin",
	KindSpecialForm:   "special-form",
	KindEnv:           "env",
	KindToken:         "token",
	KindTokenMatcher:  "token-matcher",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is satisfied by every runtime value variant. String() renders the
// machine-readable (read-back) representation; Display renders the
// human-facing one (see repr.go for the rules distinguishing the two).
type Value interface {
	Type() Kind
	String() string
}

// Nil is the unique empty-list/false-ish value, written () or nil.
type Nil struct{}

func (Nil) Type() Kind     { return KindNil }
func (Nil) String() string { return "()" }

// TheNil is the single shared Nil instance; Nil carries no state so every
// caller can use this instead of allocating.
var TheNil = Nil{}

// Bool is a boolean literal.
type Bool bool

func (Bool) Type() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int is a fixed-width signed integer (spec.md's arbitrary-precision
// requirement is downgraded to int64 — see DESIGN.md's Open Question
// resolution on numeric width).
type Int int64

func (Int) Type() Kind        { return KindInt }
func (i Int) String() string  { return fmt.Sprintf("%d", int64(i)) }

// Float is a double-precision float.
type Float float64

func (Float) Type() Kind { return KindFloat }
func (f Float) String() string {
	return fmt.Sprintf("%g", float64(f))
}

// Symbol is an interned identifier. Symbol is a plain value type, so two
// Symbols with the same Name compare equal with ==; the Interner (see
// intern.go) only shares one cached instance per name.
type Symbol struct {
	Name string
}

func (Symbol) Type() Kind       { return KindSymbol }
func (s Symbol) String() string { return s.Name }

// String is a jlisp string value (distinct Go type name collision with the
// stdlib "string" is intentional and matches how the teacher names its own
// value variants).
type String string

func (String) Type() Kind { return KindString }
func (s String) String() string {
	return fmt.Sprintf("%q", string(s))
}

// Pair is a cons cell. A proper list is a chain of Pairs ending in TheNil.
type Pair struct {
	Car Value
	Cdr Value
}

func (Pair) Type() Kind { return KindPair }
func (p Pair) String() string {
	return reprPair(p, reprValue)
}

// Vector is a mutable, growable indexable sequence. Items is a pointer to
// a slice (rather than a bare slice) so that every copy of a Vector value
// sharing the same identity (e.g. two bindings of the same vector) observes
// pushes/pops/sets through each other, matching the original implementation's
// Rc<RefCell<Vec<JValRef>>> reference semantics.
type Vector struct {
	Items *[]Value
}

// NewVector builds a Vector owning a fresh copy of items.
func NewVector(items []Value) Vector {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Vector{Items: &cp}
}

func (Vector) Type() Kind { return KindVector }
func (v Vector) String() string {
	return reprVector(v, reprValue)
}

// Quote wraps a form prevented from evaluation: 'x reads as Quote{X: x}.
type Quote struct{ X Value }

func (Quote) Type() Kind       { return KindQuote }
func (q Quote) String() string { return "'" + reprValue(q.X) }

// Quasiquote wraps a template form that may contain Unquote/UnquoteSplice.
type Quasiquote struct{ X Value }

func (Quasiquote) Type() Kind       { return KindQuasiquote }
func (q Quasiquote) String() string { return "`" + reprValue(q.X) }

// Unquote marks a spot inside a Quasiquote template to evaluate normally.
type Unquote struct{ X Value }

func (Unquote) Type() Kind       { return KindUnquote }
func (u Unquote) String() string { return "," + reprValue(u.X) }

// UnquoteSplice marks a spot whose evaluated (list-valued) result is spliced
// into the surrounding list rather than inserted as one element.
type UnquoteSplice struct{ X Value }

func (UnquoteSplice) Type() Kind       { return KindUnquoteSplice }
func (u UnquoteSplice) String() string { return ",@" + reprValue(u.X) }

// Error is a first-class error value: a Kind plus a message plus optional
// structured data, constructible from jlisp code via (error 'tag "msg") or
// raised internally by the evaluator.
type Error struct {
	KindName string
	Message  string
	Data     Value
	Pos      *ast.Pos
}

func (Error) Type() Kind { return KindError }
func (e Error) String() string {
	if e.Pos != nil {
		return fmt.Sprintf("#[error %s: %s at %s]", e.KindName, e.Message, e.Pos)
	}
	return fmt.Sprintf("#[error %s: %s]", e.KindName, e.Message)
}

// Equal implements the spec's error-equality rule: same kind name and
// message compare equal regardless of position or data.
func (e Error) Equal(other Error) bool {
	return e.KindName == other.KindName && e.Message == other.Message
}

// EnvValue lets an Env be held and passed around as an ordinary Value (so
// `(the-environment)` and similar introspection forms can return one).
type EnvValue struct {
	Env *Env
}

func (EnvValue) Type() Kind       { return KindEnv }
func (e EnvValue) String() string { return fmt.Sprintf("#[env<%d>]", e.Env.ID()) }

// Token wraps a lexer.Token as a first-class value so reader-macro
// transformer lambdas can inspect and construct tokens directly from jlisp
// code (spec.md §4.5's "tokens are values" requirement).
type Token struct {
	Type    string
	Literal string
	Line    int
	Column  int
}

func (Token) Type() Kind { return KindToken }
func (t Token) String() string {
	return fmt.Sprintf("#<token %s %q>", t.Type, t.Literal)
}

// TokenMatcher wraps a lexer.Matcher (or a jlisp predicate lambda promoted
// to one) as a first-class value usable in a reader macro rule built from
// jlisp code.
type TokenMatcher struct {
	Name    string
	Matcher func(Token) bool
}

func (TokenMatcher) Type() Kind { return KindTokenMatcher }
func (m TokenMatcher) String() string {
	return fmt.Sprintf("#<token-matcher %s>", m.Name)
}

// ---- accessors -------------------------------------------------------

// IsTruthy implements the language's single falsy value rule: everything
// except Bool(false) and Nil is truthy.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}

// IsList reports whether v is TheNil or a Pair chain ending in TheNil.
func IsList(v Value) bool {
	for {
		switch x := v.(type) {
		case Nil:
			return true
		case Pair:
			v = x.Cdr
		default:
			return false
		}
	}
}

// Iterate walks a proper list, calling fn with each element in order. It
// stops and returns an error if the list is improper.
func Iterate(v Value, fn func(Value) error) error {
	for {
		switch x := v.(type) {
		case Nil:
			return nil
		case Pair:
			if err := fn(x.Car); err != nil {
				return err
			}
			v = x.Cdr
		default:
			return fmt.Errorf("improper list: expected pair or nil, got %s", v.Type())
		}
	}
}

// ToSlice collects a proper list into a Go slice.
func ToSlice(v Value) ([]Value, error) {
	var out []Value
	err := Iterate(v, func(x Value) error {
		out = append(out, x)
		return nil
	})
	return out, err
}

// FromSlice builds a proper list from a Go slice, back to front.
func FromSlice(items []Value) Value {
	var out Value = TheNil
	for i := len(items) - 1; i >= 0; i-- {
		out = Pair{Car: items[i], Cdr: out}
	}
	return out
}

func ToInt(v Value) (Int, bool)       { i, ok := v.(Int); return i, ok }
func ToFloat(v Value) (Float, bool)   { f, ok := v.(Float); return f, ok }
func ToBool(v Value) (Bool, bool)     { b, ok := v.(Bool); return b, ok }
func ToPair(v Value) (Pair, bool)     { p, ok := v.(Pair); return p, ok }
func ToVector(v Value) (Vector, bool) { vec, ok := v.(Vector); return vec, ok }
func ToStr(v Value) (String, bool)    { s, ok := v.(String); return s, ok }
func ToSymbol(v Value) (Symbol, bool) { s, ok := v.(Symbol); return s, ok }
func ToEnv(v Value) (*Env, bool) {
	e, ok := v.(EnvValue)
	if !ok {
		return nil, false
	}
	return e.Env, true
}
func ToErr(v Value) (Error, bool) { e, ok := v.(Error); return e, ok }
