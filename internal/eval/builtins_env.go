package eval

import "github.com/jlisp/jlisp/internal/value"

// builtinEnv returns the caller's environment — grounded on
// original_source's jbuiltin_env, which takes the invocation env rather
// than any env belonging to the builtin itself.
func builtinEnv(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	if _, err := exactArgs("env", args, 0); err != nil {
		return nil, err
	}
	return value.EnvValue{Env: env}, nil
}

func builtinEnvParent(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("env-parent", args, 1)
	if err != nil {
		return nil, err
	}
	e, ok := value.ToEnv(args[0])
	if !ok {
		return nil, typeErr("env-parent", "an environment", args[0])
	}
	if p := e.Parent(); p != nil {
		return value.EnvValue{Env: p}, nil
	}
	return value.TheNil, nil
}

func builtinEnvLookup(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("env-lookup", args, 2)
	if err != nil {
		return nil, err
	}
	e, ok := value.ToEnv(args[0])
	if !ok {
		return nil, typeErr("env-lookup", "an environment", args[0])
	}
	sym, ok := value.ToSymbol(args[1])
	if !ok {
		return nil, typeErr("env-lookup", "a symbol", args[1])
	}
	return e.Lookup(sym.Name)
}

func builtinEnvDef(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("env-def", args, 3)
	if err != nil {
		return nil, err
	}
	e, ok := value.ToEnv(args[0])
	if !ok {
		return nil, typeErr("env-def", "an environment", args[0])
	}
	sym, ok := value.ToSymbol(args[1])
	if !ok {
		return nil, typeErr("env-def", "a symbol", args[1])
	}
	e.Define(sym.Name, args[2])
	return value.TheNil, nil
}

func builtinEnvSet(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("env-set!", args, 3)
	if err != nil {
		return nil, err
	}
	e, ok := value.ToEnv(args[0])
	if !ok {
		return nil, typeErr("env-set!", "an environment", args[0])
	}
	sym, ok := value.ToSymbol(args[1])
	if !ok {
		return nil, typeErr("env-set!", "a symbol", args[1])
	}
	if err := e.Set(sym.Name, args[2]); err != nil {
		return nil, err
	}
	return value.TheNil, nil
}

// builtinEnvIs reports whether name is bound locally in env — a feature
// the spec's distillation dropped but original_source's `JEnv` API implies
// (see SPEC_FULL.md's supplemented-features note).
func builtinEnvIs(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("env?", args, 2)
	if err != nil {
		return nil, err
	}
	e, ok := value.ToEnv(args[0])
	if !ok {
		return nil, typeErr("env?", "an environment", args[0])
	}
	sym, ok := value.ToSymbol(args[1])
	if !ok {
		return nil, typeErr("env?", "a symbol", args[1])
	}
	return value.Bool(e.Has(sym.Name)), nil
}

func builtinEnvRoot(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("env-root", args, 1)
	if err != nil {
		return nil, err
	}
	e, ok := value.ToEnv(args[0])
	if !ok {
		return nil, typeErr("env-root", "an environment", args[0])
	}
	return value.EnvValue{Env: e.Root()}, nil
}
