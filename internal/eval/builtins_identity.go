package eval

import (
	"reflect"

	"github.com/jlisp/jlisp/internal/value"
)

// builtinEq implements (eq? a b): spec.md §4.7.5's reference-identity
// comparison. Interned atoms (Nil, Bool, Int, Float, Symbol, String) compare
// by value since interning makes value-equality and identity coincide for
// them; Vector, Env, Builtin, SpecialForm, Lambda, and Macro compare by
// their actual identity (backing slice pointer, env id, builtin id, Fn
// pointer, or defining closure+position). Pair and the Quote family have no
// separate identity of their own in this value model, so eq? on them
// recurses the same way equal? does — safe because spec.md's Invariants
// guarantee no cycle is constructible through Pair, Quote-family, or
// Vector-element fields.
func valueEq(a, b value.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case value.Nil:
		return true
	case value.Bool:
		return av == b.(value.Bool)
	case value.Int:
		return av == b.(value.Int)
	case value.Float:
		return av == b.(value.Float)
	case value.Symbol:
		return av == b.(value.Symbol)
	case value.String:
		return av == b.(value.String)
	case value.Vector:
		return av.Items == b.(value.Vector).Items
	case value.EnvValue:
		return av.Env.ID() == b.(value.EnvValue).Env.ID()
	case value.Builtin:
		return av.ID() == b.(value.Builtin).ID()
	case value.SpecialForm:
		bv := b.(value.SpecialForm)
		return reflect.ValueOf(av.Fn).Pointer() == reflect.ValueOf(bv.Fn).Pointer()
	case value.Lambda:
		bv := b.(value.Lambda)
		return av.Closure == bv.Closure && av.Pos == bv.Pos && av.Name == bv.Name
	case value.Macro:
		bv := b.(value.Macro)
		return av.Closure == bv.Closure && av.Pos == bv.Pos && av.Name == bv.Name
	case value.Error:
		return av.Equal(b.(value.Error))
	case value.Token:
		return av == b.(value.Token)
	case value.TokenMatcher:
		return av.Name == b.(value.TokenMatcher).Name
	case value.Pair:
		bv := b.(value.Pair)
		return valueEq(av.Car, bv.Car) && valueEq(av.Cdr, bv.Cdr)
	case value.Quote:
		return valueEq(av.X, b.(value.Quote).X)
	case value.Quasiquote:
		return valueEq(av.X, b.(value.Quasiquote).X)
	case value.Unquote:
		return valueEq(av.X, b.(value.Unquote).X)
	case value.UnquoteSplice:
		return valueEq(av.X, b.(value.UnquoteSplice).X)
	default:
		return false
	}
}

// valueEqual implements equal?: structural equality, recursing through
// Pair, Vector, and the Quote family (all guaranteed acyclic — see
// valueEq's comment), and falling back to valueEq for every other variant,
// where identity and structural content already coincide (atoms) or no
// safe deep-equality is definable without risking a closure cycle (Lambda,
// Macro, Env).
func valueEqual(a, b value.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case value.Pair:
		bv := b.(value.Pair)
		return valueEqual(av.Car, bv.Car) && valueEqual(av.Cdr, bv.Cdr)
	case value.Vector:
		as, bs := *av.Items, *b.(value.Vector).Items
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !valueEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	case value.Quote:
		return valueEqual(av.X, b.(value.Quote).X)
	case value.Quasiquote:
		return valueEqual(av.X, b.(value.Quasiquote).X)
	case value.Unquote:
		return valueEqual(av.X, b.(value.Unquote).X)
	case value.UnquoteSplice:
		return valueEqual(av.X, b.(value.UnquoteSplice).X)
	default:
		return valueEq(a, b)
	}
}

func builtinEq(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("eq?", args, 2)
	if err != nil {
		return nil, err
	}
	return value.Bool(valueEq(args[0], args[1])), nil
}

func builtinEqual(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("equal?", args, 2)
	if err != nil {
		return nil, err
	}
	return value.Bool(valueEqual(args[0], args[1])), nil
}
