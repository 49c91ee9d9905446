package eval

import (
	stderrors "errors"

	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

// specialFormQuote implements (quote x) / 'x — returns x unevaluated.
// Registered explicitly even though the reader's Quote wrapper already
// covers 'x, because (quote x) is valid written out longhand too.
func specialFormQuote(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := exactList(args, 1)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func specialFormQuasiquote(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := exactList(args, 1)
	if err != nil {
		return nil, err
	}
	return evalQQ(items[0], env, rt, 1)
}

// specialFormIf implements (if cond then) and (if cond then else).
func specialFormIf(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil || len(items) < 2 || len(items) > 3 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "if: expected (if cond then [else])").At(rt.Position()))
	}
	cond, err := Eval(items[0], env, rt)
	if err != nil {
		return nil, err
	}
	if value.IsTruthy(cond) {
		return Eval(items[1], env, rt)
	}
	if len(items) == 3 {
		return Eval(items[2], env, rt)
	}
	return value.TheNil, nil
}

// specialFormCond implements (cond (test expr...) ... (else expr...)).
func specialFormCond(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	clauses, err := value.ToSlice(args)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "cond: malformed clause list: %s", err).At(rt.Position()))
	}
	for _, clause := range clauses {
		parts, err := value.ToSlice(clause)
		if err != nil || len(parts) == 0 {
			return nil, errors.WrapReport(errors.New(errors.EvalError, "cond: each clause must be (test expr...)").At(rt.Position()))
		}
		test := parts[0]
		isElse := false
		if sym, ok := value.ToSymbol(test); ok && sym.Name == "else" {
			isElse = true
		}
		var testVal value.Value = value.Bool(true)
		if !isElse {
			testVal, err = Eval(test, env, rt)
			if err != nil {
				return nil, err
			}
		}
		if value.IsTruthy(testVal) {
			var result value.Value = testVal
			for _, expr := range parts[1:] {
				result, err = Eval(expr, env, rt)
				if err != nil {
					return nil, err
				}
			}
			return result, nil
		}
	}
	return value.TheNil, nil
}

// specialFormAnd short-circuits on the first falsy value.
func specialFormAnd(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "and: malformed argument list: %s", err).At(rt.Position()))
	}
	var result value.Value = value.Bool(true)
	for _, expr := range items {
		result, err = Eval(expr, env, rt)
		if err != nil {
			return nil, err
		}
		if !value.IsTruthy(result) {
			return result, nil
		}
	}
	return result, nil
}

// specialFormOr short-circuits on the first truthy value.
func specialFormOr(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "or: malformed argument list: %s", err).At(rt.Position()))
	}
	var result value.Value = value.Bool(false)
	for _, expr := range items {
		result, err = Eval(expr, env, rt)
		if err != nil {
			return nil, err
		}
		if value.IsTruthy(result) {
			return result, nil
		}
	}
	return result, nil
}

// specialFormDef implements (def name val) and the lambda-sugar
// (def (name . params) body...).
func specialFormDef(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil || len(items) < 2 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "def: expected (def name val) or (def (name . params) body...)").At(rt.Position()))
	}

	if target, ok := value.ToPair(items[0]); ok {
		nameSym, ok := value.ToSymbol(target.Car)
		if !ok {
			return nil, errors.WrapReport(errors.New(errors.EvalError, "def: lambda-sugar name must be a symbol").At(rt.Position()))
		}
		params, err := value.NewParams(target.Cdr)
		if err != nil {
			return nil, errors.WrapReport(errors.Newf(errors.EvalError, "def: %s", err).At(rt.Position()))
		}
		lam := value.Lambda{Name: nameSym.Name, Params: params, Body: items[1:], Closure: env, Pos: rt.Position()}
		env.Define(nameSym.Name, lam)
		return value.TheNil, nil
	}

	nameSym, ok := value.ToSymbol(items[0])
	if !ok {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "def: name must be a symbol").At(rt.Position()))
	}
	if len(items) != 2 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "def: expected exactly one value expression").At(rt.Position()))
	}
	v, err := Eval(items[1], env, rt)
	if err != nil {
		return nil, err
	}
	if lam, ok := v.(value.Lambda); ok && lam.Name == "" {
		lam.Name = nameSym.Name
		v = lam
	}
	env.Define(nameSym.Name, v)
	return value.TheNil, nil
}

// specialFormSet implements (set! name val), mutating the nearest binding.
func specialFormSet(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := exactList(args, 2)
	if err != nil {
		return nil, err
	}
	nameSym, ok := value.ToSymbol(items[0])
	if !ok {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "set!: name must be a symbol").At(rt.Position()))
	}
	v, err := Eval(items[1], env, rt)
	if err != nil {
		return nil, err
	}
	if err := env.Set(nameSym.Name, v); err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.NotDefined, "%s is not defined", nameSym.Name).At(rt.Position()))
	}
	return value.TheNil, nil
}

// makeLambdaOrMacro builds both (fn params body...) lambdas and (macro
// params body...) macros; nfn/nmacro are their named variants used for named
// (possibly recursive) closures, matching spec.md §4.7's distinction
// between anonymous and self-referential lambda forms.
func makeLambdaOrMacro(args value.Value, env *value.Env, rt value.Runtime, selfName string, asMacro bool) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil || len(items) < 1 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "fn: expected (fn params body...)").At(rt.Position()))
	}
	params, err := value.NewParams(items[0])
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "fn: %s", err).At(rt.Position()))
	}
	closure := env
	if selfName != "" {
		// A named lambda/macro can see itself in its own closure (for
		// recursion) without polluting the defining scope.
		closure = env.Child()
	}
	if asMacro {
		m := value.Macro{Name: selfName, Params: params, Body: items[1:], Closure: closure, Pos: rt.Position()}
		if selfName != "" {
			closure.Define(selfName, m)
		}
		return m, nil
	}
	l := value.Lambda{Name: selfName, Params: params, Body: items[1:], Closure: closure, Pos: rt.Position()}
	if selfName != "" {
		closure.Define(selfName, l)
	}
	return l, nil
}

func specialFormFn(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	return makeLambdaOrMacro(args, env, rt, "", false)
}

func specialFormNamedFn(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil || len(items) < 2 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "nfn: expected (nfn name params body...)").At(rt.Position()))
	}
	nameSym, ok := value.ToSymbol(items[0])
	if !ok {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "nfn: name must be a symbol").At(rt.Position()))
	}
	return makeLambdaOrMacro(value.FromSlice(items[1:]), env, rt, nameSym.Name, false)
}

func specialFormMacro(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	return makeLambdaOrMacro(args, env, rt, "", true)
}

func specialFormNamedMacro(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil || len(items) < 2 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "nmacro: expected (nmacro name params body...)").At(rt.Position()))
	}
	nameSym, ok := value.ToSymbol(items[0])
	if !ok {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "nmacro: name must be a symbol").At(rt.Position()))
	}
	return makeLambdaOrMacro(value.FromSlice(items[1:]), env, rt, nameSym.Name, true)
}

// specialFormTry implements (try code handler): evaluate code, and if it
// raises, bind the raised value.Error to `err` in a fresh scope and
// evaluate handler there instead (original_source's jspecial_try).
func specialFormTry(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := exactList(args, 2)
	if err != nil {
		return nil, err
	}
	v, evalErr := Eval(items[0], env, rt)
	if evalErr == nil {
		return v, nil
	}
	errEnv := env.Child()
	errEnv.Define("err", errorValueFrom(evalErr))
	return Eval(items[1], errEnv, rt)
}

// errorValueFrom converts a Go error raised during evaluation into a
// first-class value.Error so `try` handlers can inspect it.
func errorValueFrom(err error) value.Value {
	var raised *raisedError
	if stderrors.As(err, &raised) {
		return raised.Err
	}
	if rep, ok := errors.AsReport(err); ok {
		return value.Error{KindName: rep.Kind, Message: rep.Message}
	}
	return value.Error{KindName: "Exception", Message: err.Error()}
}

// specialFormImport implements (import "path") / (import "path" as alias):
// load the module, and merge (or alias) its exported bindings into env.
func specialFormImport(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	items, err := value.ToSlice(args)
	if err != nil || len(items) < 1 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "import: expected (import \"path\" [as alias])").At(rt.Position()))
	}
	pathStr, ok := value.ToStr(items[0])
	if !ok {
		return nil, errors.WrapReport(errors.New(errors.TypeError, "import: path must be a string").At(rt.Position()))
	}
	modEnv, err := rt.Import(string(pathStr), env)
	if err != nil {
		return nil, err
	}

	if len(items) == 3 {
		asSym, ok1 := value.ToSymbol(items[1])
		alias, ok2 := value.ToSymbol(items[2])
		if ok1 && asSym.Name == "as" && ok2 {
			env.Define(alias.Name, value.EnvValue{Env: modEnv})
			return value.TheNil, nil
		}
	}
	for _, name := range modEnv.Names() {
		v, _ := modEnv.TryLookup(name)
		env.Define(name, v)
	}
	return value.TheNil, nil
}

// specialFormTheEnvironment returns the calling environment as a value.
func specialFormTheEnvironment(args value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	if _, err := exactList(args, 0); err != nil {
		return nil, err
	}
	return value.EnvValue{Env: env}, nil
}

func exactList(v value.Value, n int) ([]value.Value, error) {
	items, err := value.ToSlice(v)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "malformed argument list: %s", err))
	}
	if len(items) != n {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "expected %d argument(s), got %d", n, len(items)))
	}
	return items, nil
}
