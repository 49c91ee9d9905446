// Package eval implements the tree-walking evaluator: Eval/Apply, the
// quasiquote expander, the closed set of special forms, and the builtin
// procedure library. It is the one package allowed to import
// internal/value and actually drive it (everything in internal/value
// itself only ever references evaluation through the Runtime interface).
package eval

import (
	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

// Eval evaluates v in env, using rt for anything that needs to recurse
// back into the evaluator (builtins, special forms, macro re-evaluation).
// This mirrors original_source's eval(): pairs apply, symbols look up,
// quotes unwrap, everything else is self-evaluating.
func Eval(v value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	switch x := v.(type) {
	case value.Pair:
		return apply(x, env, rt)
	case value.Symbol:
		r, err := env.Lookup(x.Name)
		if err != nil {
			return nil, errors.WrapReport(errors.Newf(errors.NotDefined, "%s is not defined", x.Name).At(rt.Position()))
		}
		return r, nil
	case value.Quote:
		return x.X, nil
	case value.Quasiquote:
		return evalQQ(x.X, env, rt, 1)
	case value.Unquote:
		return nil, errors.WrapReport(errors.New(errors.EvalError, "misplaced unquote: , outside quasiquote").At(rt.Position()))
	case value.UnquoteSplice:
		return nil, errors.WrapReport(errors.New(errors.EvalError, "misplaced unquote-splice: ,@ outside quasiquote").At(rt.Position()))
	default:
		return v, nil
	}
}

// apply evaluates the operator position, then dispatches on what kind of
// callable it produced. Every application pushes a traceback frame once
// its callable has been entered, whether or not the call then fails
// (Builtins push after their arguments are evaluated, SpecialForms as soon
// as their operator resolved; Lambdas/Macros push once their activation
// record exists).
func apply(list value.Pair, env *value.Env, rt value.Runtime) (value.Value, error) {
	fn, err := Eval(list.Car, env, rt)
	if err != nil {
		return nil, err
	}
	args := list.Cdr

	var res value.Value
	switch f := fn.(type) {
	case value.Builtin:
		evaluated, err := evalArgs(args, env, rt)
		if err != nil {
			return nil, err
		}
		rt.PushFrame(fn, env.ID())
		res, err = f.Fn(evaluated, env, rt)
		if err != nil {
			return nil, err
		}
	case value.SpecialForm:
		rt.PushFrame(fn, env.ID())
		res, err = f.Fn(args, env, rt)
		if err != nil {
			return nil, err
		}
	case value.Lambda:
		res, err = applyLambda(f, args, env, rt)
		if err != nil {
			return nil, err
		}
	case value.Macro:
		res, err = applyMacro(f, args, env, rt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.WrapReport(errors.Newf(errors.TypeError, "expected a callable, got %s", fn.Type()).At(rt.Position()))
	}
	return res, nil
}

// Apply applies an already-evaluated fn to already-evaluated args — the
// entry point builtins like `apply` and `vector-map` use to invoke a
// first-class callable without going back through the reader/parser.
func Apply(fn value.Value, args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	argList := value.FromSlice(args)
	rt.PushFrame(fn, env.ID())
	switch f := fn.(type) {
	case value.Builtin:
		return f.Fn(args, env, rt)
	case value.SpecialForm:
		return f.Fn(argList, env, rt)
	case value.Lambda:
		return applyLambdaEvaluated(f, args, rt)
	case value.Macro:
		return nil, errors.WrapReport(errors.New(errors.ApplyError, "cannot apply a macro to evaluated arguments"))
	default:
		return nil, errors.WrapReport(errors.Newf(errors.TypeError, "expected a callable, got %s", fn.Type()))
	}
}

func evalArgs(args value.Value, env *value.Env, rt value.Runtime) ([]value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "malformed argument list: %s", err).At(rt.Position()))
	}
	out := make([]value.Value, len(items))
	for i, it := range items {
		v, err := Eval(it, env, rt)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func applyLambda(l value.Lambda, args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	evaluated, err := evalArgs(args, env, rt)
	if err != nil {
		return nil, err
	}
	return applyLambdaEvaluated(l, evaluated, rt)
}

func applyLambdaEvaluated(l value.Lambda, args []value.Value, rt value.Runtime) (value.Value, error) {
	invokeEnv, err := l.Params.Bind(l.Closure, args)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.ApplyError, "%s", err).At(rt.Position()))
	}
	rt.PushFrame(l, invokeEnv.ID())
	var last value.Value = value.TheNil
	for _, expr := range l.Body {
		last, err = Eval(expr, invokeEnv, rt)
		if err != nil {
			return nil, err
		}
	}
	return last, nil
}

// applyMacro binds the macro's unevaluated operand forms, evaluates its
// body to produce an expansion, then evaluates that expansion again in the
// *caller's* environment — standard non-hygienic macro expansion.
func applyMacro(m value.Macro, args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "malformed argument list: %s", err).At(rt.Position()))
	}
	invokeEnv, err := m.Params.Bind(m.Closure, items)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.ApplyError, "%s", err).At(rt.Position()))
	}
	rt.PushFrame(m, invokeEnv.ID())
	var expansion value.Value = value.TheNil
	for _, expr := range m.Body {
		expansion, err = Eval(expr, invokeEnv, rt)
		if err != nil {
			return nil, err
		}
	}
	return Eval(expansion, env, rt)
}

// ExpandOnce expands a single macro call one level, without evaluating the
// result: if form is a list whose head names a value.Macro bound in env, it
// runs the macro body to produce the expansion and returns it unevaluated
// (expanded=true). Any other form is returned as-is (expanded=false). Used
// by cmd/jlisp's macroexpand subcommand, which wants to show what a macro
// rewrites a call into without running the rewritten code.
func ExpandOnce(form value.Value, env *value.Env, rt value.Runtime) (expansion value.Value, expanded bool, err error) {
	p, ok := form.(value.Pair)
	if !ok {
		return form, false, nil
	}
	sym, ok := p.Car.(value.Symbol)
	if !ok {
		return form, false, nil
	}
	head, lookupErr := env.Lookup(sym.Name)
	if lookupErr != nil {
		return form, false, nil
	}
	m, ok := head.(value.Macro)
	if !ok {
		return form, false, nil
	}

	items, err := value.ToSlice(p.Cdr)
	if err != nil {
		return nil, false, errors.WrapReport(errors.Newf(errors.EvalError, "malformed argument list: %s", err).At(rt.Position()))
	}
	invokeEnv, err := m.Params.Bind(m.Closure, items)
	if err != nil {
		return nil, false, errors.WrapReport(errors.Newf(errors.ApplyError, "%s", err).At(rt.Position()))
	}
	rt.PushFrame(m, invokeEnv.ID())
	var out value.Value = value.TheNil
	for _, expr := range m.Body {
		out, err = Eval(expr, invokeEnv, rt)
		if err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

// evalQQ walks a quasiquote template, evaluating Unquote/UnquoteSplice
// forms at level 1 and decrementing/incrementing level as nested
// quasiquote/unquote forms are encountered, matching spec.md §4.7's
// nested-quasiquote semantics.
func evalQQ(v value.Value, env *value.Env, rt value.Runtime, level int) (value.Value, error) {
	switch x := v.(type) {
	case value.Unquote:
		if level == 1 {
			return Eval(x.X, env, rt)
		}
		inner, err := evalQQ(x.X, env, rt, level-1)
		if err != nil {
			return nil, err
		}
		return value.Unquote{X: inner}, nil

	case value.UnquoteSplice:
		if level == 1 {
			return v, nil
		}
		inner, err := evalQQ(x.X, env, rt, level-1)
		if err != nil {
			return nil, err
		}
		return value.UnquoteSplice{X: inner}, nil

	case value.Quasiquote:
		inner, err := evalQQ(x.X, env, rt, level+1)
		if err != nil {
			return nil, err
		}
		return value.Quasiquote{X: inner}, nil

	case value.Pair:
		return evalQQList(x, env, rt, level)

	case value.Vector:
		src := *x.Items
		items := make([]value.Value, 0, len(src))
		for _, item := range src {
			expanded, spliced, err := evalQQElement(item, env, rt, level)
			if err != nil {
				return nil, err
			}
			if spliced != nil {
				items = append(items, spliced...)
			} else {
				items = append(items, expanded)
			}
		}
		return value.NewVector(items), nil

	default:
		return v, nil
	}
}

// evalQQElement evaluates one list/vector element under quasiquote,
// reporting a non-nil spliced slice when the element was an
// UnquoteSplice at the active level.
func evalQQElement(v value.Value, env *value.Env, rt value.Runtime, level int) (value.Value, []value.Value, error) {
	if us, ok := v.(value.UnquoteSplice); ok && level == 1 {
		spliceVal, err := Eval(us.X, env, rt)
		if err != nil {
			return nil, nil, err
		}
		items, err := value.ToSlice(spliceVal)
		if err != nil {
			return nil, nil, errors.WrapReport(errors.Newf(errors.TypeError, ",@ requires a list result: %s", err).At(rt.Position()))
		}
		return nil, items, nil
	}
	expanded, err := evalQQ(v, env, rt, level)
	return expanded, nil, err
}

// evalQQList expands a quasiquote template list element by element so that
// ,@ can splice a variable number of items into the result.
func evalQQList(p value.Pair, env *value.Env, rt value.Runtime, level int) (value.Value, error) {
	var items []value.Value
	cur := value.Value(p)
	for {
		switch x := cur.(type) {
		case value.Nil:
			return value.FromSlice(items), nil
		case value.Pair:
			expanded, spliced, err := evalQQElement(x.Car, env, rt, level)
			if err != nil {
				return nil, err
			}
			if spliced != nil {
				items = append(items, spliced...)
			} else {
				items = append(items, expanded)
			}
			cur = x.Cdr
		default:
			// improper tail: expand it and attach as the final Cdr
			tail, err := evalQQ(cur, env, rt, level)
			if err != nil {
				return nil, err
			}
			out := tail
			for i := len(items) - 1; i >= 0; i-- {
				out = value.Pair{Car: items[i], Cdr: out}
			}
			return out, nil
		}
	}
}
