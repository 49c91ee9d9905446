package eval

import "github.com/jlisp/jlisp/internal/value"

// NewGlobalEnv builds a fresh root environment with every special form and
// builtin bound, the way original_source's Interpreter::new wires up its
// global JEnv before any user code runs.
func NewGlobalEnv() *value.Env {
	env := value.NewEnv(nil)

	specialForms := []value.SpecialForm{
		{Name: "quote", Fn: specialFormQuote},
		{Name: "quasiquote", Fn: specialFormQuasiquote},
		{Name: "if", Fn: specialFormIf},
		{Name: "cond", Fn: specialFormCond},
		{Name: "and", Fn: specialFormAnd},
		{Name: "or", Fn: specialFormOr},
		{Name: "def", Fn: specialFormDef},
		{Name: "set!", Fn: specialFormSet},
		{Name: "fn", Fn: specialFormFn},
		{Name: "nfn", Fn: specialFormNamedFn},
		{Name: "macro", Fn: specialFormMacro},
		{Name: "nmacro", Fn: specialFormNamedMacro},
		{Name: "try", Fn: specialFormTry},
		{Name: "import", Fn: specialFormImport},
		{Name: "the-environment", Fn: specialFormTheEnvironment},
	}
	for _, sf := range specialForms {
		env.Define(sf.Name, sf)
	}

	builtins := []value.Builtin{
		value.NewBuiltin("+", builtinAdd),
		value.NewBuiltin("-", builtinSub),
		value.NewBuiltin("*", builtinMul),
		value.NewBuiltin("/", builtinDiv),
		value.NewBuiltin("=", compareBuiltin("=", func(c int) bool { return c == 0 })),
		value.NewBuiltin("<", compareBuiltin("<", func(c int) bool { return c < 0 })),
		value.NewBuiltin("<=", compareBuiltin("<=", func(c int) bool { return c <= 0 })),
		value.NewBuiltin(">", compareBuiltin(">", func(c int) bool { return c > 0 })),
		value.NewBuiltin(">=", compareBuiltin(">=", func(c int) bool { return c >= 0 })),
		value.NewBuiltin("abs", builtinAbs),
		value.NewBuiltin("mod", builtinMod),

		value.NewBuiltin("cons", builtinCons),
		value.NewBuiltin("car", builtinCar),
		value.NewBuiltin("cdr", builtinCdr),
		value.NewBuiltin("list", builtinList),
		value.NewBuiltin("list?", builtinIsList),
		value.NewBuiltin("nil?", builtinIsNil),
		value.NewBuiltin("length", builtinLength),
		value.NewBuiltin("append", builtinAppend),
		value.NewBuiltin("reverse", builtinReverse),
		value.NewBuiltin("map", builtinMap),
		value.NewBuiltin("filter", builtinFilter),
		value.NewBuiltin("fold", builtinFold),

		value.NewBuiltin("concat", builtinConcat),
		value.NewBuiltin("contains?", builtinContains),
		value.NewBuiltin("substring", builtinSubstring),
		value.NewBuiltin("str-length", builtinStrLen),
		value.NewBuiltin("split", builtinSplit),
		value.NewBuiltin("replace", builtinReplace),
		value.NewBuiltin("parse-int", builtinParseInt),
		value.NewBuiltin("parse-float", builtinParseFloat),

		value.NewBuiltin("vector", builtinVectorNew),
		value.NewBuiltin("vector-len", builtinVectorLen),
		value.NewBuiltin("vector-get", builtinVectorGet),
		value.NewBuiltin("vector-set!", builtinVectorSet),
		value.NewBuiltin("vector-push!", builtinVectorPush),
		value.NewBuiltin("vector-pop!", builtinVectorPop),
		value.NewBuiltin("vector-sub", builtinVectorSub),
		value.NewBuiltin("vector-map", builtinVectorMap),
		value.NewBuiltin("vector->list", builtinVectorToList),
		value.NewBuiltin("list->vector", builtinListToVector),

		value.NewBuiltin("env", builtinEnv),
		value.NewBuiltin("env-parent", builtinEnvParent),
		value.NewBuiltin("env-lookup", builtinEnvLookup),
		value.NewBuiltin("env-def", builtinEnvDef),
		value.NewBuiltin("env-set!", builtinEnvSet),
		value.NewBuiltin("env?", builtinEnvIs),
		value.NewBuiltin("env-root", builtinEnvRoot),

		value.NewBuiltin("exception", builtinException),
		value.NewBuiltin("error", builtinError),
		value.NewBuiltin("raise", builtinRaise),
		value.NewBuiltin("error?", builtinIsError),

		value.NewBuiltin("display", builtinDisplay),
		value.NewBuiltin("newline", builtinNewline),
		value.NewBuiltin("print", builtinPrint),
		value.NewBuiltin("repr", builtinRepr),
		value.NewBuiltin("exit", builtinExit),
		value.NewBuiltin("evalfile", builtinEvalFile),

		value.NewBuiltin("eq?", builtinEq),
		value.NewBuiltin("equal?", builtinEqual),
		value.NewBuiltin("assert", builtinAssert),

		value.NewBuiltin("token-matcher-any", builtinTokenMatcherAny),
		value.NewBuiltin("token-matcher-exact", builtinTokenMatcherExact),
		value.NewBuiltin("install-reader-macro!", builtinInstallReaderMacro),
		value.NewBuiltin("token-type", builtinTokenType),
		value.NewBuiltin("token-value", builtinTokenValue),

		value.NewBuiltin("apply", builtinApply),
		value.NewBuiltin("eval", builtinEval),
	}
	for _, b := range builtins {
		env.Define(b.Name, b)
	}

	return env
}

// builtinApply implements (apply fn arglist): applies fn to an explicit
// list of already-evaluated arguments, the usual functional-apply escape
// hatch.
func builtinApply(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("apply", args, 2)
	if err != nil {
		return nil, err
	}
	items, err := value.ToSlice(args[1])
	if err != nil {
		return nil, typeErr("apply", "a proper list", args[1])
	}
	return Apply(args[0], items, env, rt)
}

// builtinEval implements (eval form) and (eval form env): evaluates an
// already-evaluated form (typically quoted code) in the given environment,
// or the caller's environment if none is given.
func builtinEval(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	if len(args) == 1 {
		return Eval(args[0], env, rt)
	}
	args, err := exactArgs("eval", args, 2)
	if err != nil {
		return nil, err
	}
	target, ok := value.ToEnv(args[1])
	if !ok {
		return nil, typeErr("eval", "an environment", args[1])
	}
	return Eval(args[0], target, rt)
}
