package eval

import (
	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

// builtinTokenMatcherAny builds a TokenMatcher value.Value accepting any
// token, for use in a reader-macro rule built from jlisp code.
func builtinTokenMatcherAny(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	if _, err := exactArgs("token-matcher-any", args, 0); err != nil {
		return nil, err
	}
	return value.TokenMatcher{Name: "any", Matcher: func(value.Token) bool { return true }}, nil
}

// builtinTokenMatcherExact builds a TokenMatcher accepting only a token of
// the given type and literal.
func builtinTokenMatcherExact(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("token-matcher-exact", args, 2)
	if err != nil {
		return nil, err
	}
	typeSym, ok := value.ToSymbol(args[0])
	if !ok {
		return nil, typeErr("token-matcher-exact", "a symbol", args[0])
	}
	lit, ok := value.ToStr(args[1])
	if !ok {
		return nil, typeErr("token-matcher-exact", "a string", args[1])
	}
	wantType, wantLit := typeSym.Name, string(lit)
	return value.TokenMatcher{
		Name: "exact:" + wantType + ":" + wantLit,
		Matcher: func(t value.Token) bool {
			return t.Type == wantType && t.Literal == wantLit
		},
	}, nil
}

// builtinInstallReaderMacro implements (install-reader-macro! (matcher...)
// transform-fn): registers a reader macro rule whose transform is the
// given jlisp lambda, re-entering the evaluator through rt each time the
// rule fires during a subsequent read.
func builtinInstallReaderMacro(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("install-reader-macro!", args, 2)
	if err != nil {
		return nil, err
	}
	ruleItems, err := value.ToSlice(args[0])
	if err != nil {
		return nil, typeErr("install-reader-macro!", "a list of token matchers", args[0])
	}
	matchers := make([]value.TokenMatcher, len(ruleItems))
	for i, r := range ruleItems {
		m, ok := r.(value.TokenMatcher)
		if !ok {
			return nil, typeErr("install-reader-macro!", "a token-matcher", r)
		}
		matchers[i] = m
	}

	transformer := args[1]
	rt.InstallReaderMacro(matchers, func(window []value.Token) ([]value.Token, error) {
		winVals := make([]value.Value, len(window))
		for i, t := range window {
			winVals[i] = t
		}
		result, err := Apply(transformer, []value.Value{value.FromSlice(winVals)}, env, rt)
		if err != nil {
			return nil, err
		}
		items, err := value.ToSlice(result)
		if err != nil {
			return nil, errors.WrapReport(errors.Newf(errors.SyntaxError, "install-reader-macro!: transform result must be a list of tokens, got %s", result.Type()).At(rt.Position()))
		}
		out := make([]value.Token, len(items))
		for i, it := range items {
			tok, ok := it.(value.Token)
			if !ok {
				return nil, errors.WrapReport(errors.Newf(errors.SyntaxError, "install-reader-macro!: transform result must contain only tokens, got %s", it.Type()).At(rt.Position()))
			}
			out[i] = tok
		}
		return out, nil
	})
	return value.TheNil, nil
}

func builtinTokenType(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("token-type", args, 1)
	if err != nil {
		return nil, err
	}
	t, ok := args[0].(value.Token)
	if !ok {
		return nil, typeErr("token-type", "a token", args[0])
	}
	return rt.Interner().Symbol(t.Type), nil
}

func builtinTokenValue(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("token-value", args, 1)
	if err != nil {
		return nil, err
	}
	t, ok := args[0].(value.Token)
	if !ok {
		return nil, typeErr("token-value", "a token", args[0])
	}
	return rt.Interner().Str(t.Literal), nil
}
