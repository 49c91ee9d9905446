package eval

import "github.com/jlisp/jlisp/internal/value"

func builtinCons(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("cons", args, 2)
	if err != nil {
		return nil, err
	}
	return value.Pair{Car: args[0], Cdr: args[1]}, nil
}

func builtinCar(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("car", args, 1)
	if err != nil {
		return nil, err
	}
	p, ok := value.ToPair(args[0])
	if !ok {
		return nil, typeErr("car", "a pair", args[0])
	}
	return p.Car, nil
}

func builtinCdr(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("cdr", args, 1)
	if err != nil {
		return nil, err
	}
	p, ok := value.ToPair(args[0])
	if !ok {
		return nil, typeErr("cdr", "a pair", args[0])
	}
	return p.Cdr, nil
}

// builtinList implements (list ...): its already-evaluated argument slice
// IS the desired list, same as original_source's jbuiltin_list returning
// its raw args unchanged.
func builtinList(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	return value.FromSlice(args), nil
}

func builtinIsList(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("list?", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Bool(value.IsList(args[0])), nil
}

func builtinIsNil(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("nil?", args, 1)
	if err != nil {
		return nil, err
	}
	_, ok := args[0].(value.Nil)
	return value.Bool(ok), nil
}

func builtinLength(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("length", args, 1)
	if err != nil {
		return nil, err
	}
	items, err := value.ToSlice(args[0])
	if err != nil {
		return nil, typeErr("length", "a proper list", args[0])
	}
	return value.Int(int64(len(items))), nil
}

func builtinAppend(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	var all []value.Value
	for _, a := range args {
		items, err := value.ToSlice(a)
		if err != nil {
			return nil, typeErr("append", "a proper list", a)
		}
		all = append(all, items...)
	}
	return value.FromSlice(all), nil
}

func builtinReverse(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("reverse", args, 1)
	if err != nil {
		return nil, err
	}
	items, err := value.ToSlice(args[0])
	if err != nil {
		return nil, typeErr("reverse", "a proper list", args[0])
	}
	out := make([]value.Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return value.FromSlice(out), nil
}

func builtinMap(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("map", args, 2)
	if err != nil {
		return nil, err
	}
	items, err := value.ToSlice(args[0])
	if err != nil {
		return nil, typeErr("map", "a proper list", args[0])
	}
	out := make([]value.Value, len(items))
	for i, v := range items {
		r, err := Apply(args[1], []value.Value{v}, env, rt)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return value.FromSlice(out), nil
}

func builtinFilter(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("filter", args, 2)
	if err != nil {
		return nil, err
	}
	items, err := value.ToSlice(args[0])
	if err != nil {
		return nil, typeErr("filter", "a proper list", args[0])
	}
	var out []value.Value
	for _, v := range items {
		r, err := Apply(args[1], []value.Value{v}, env, rt)
		if err != nil {
			return nil, err
		}
		if value.IsTruthy(r) {
			out = append(out, v)
		}
	}
	return value.FromSlice(out), nil
}

func builtinFold(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("fold", args, 3)
	if err != nil {
		return nil, err
	}
	items, err := value.ToSlice(args[1])
	if err != nil {
		return nil, typeErr("fold", "a proper list", args[1])
	}
	acc := args[2]
	for _, v := range items {
		acc, err = Apply(args[0], []value.Value{acc, v}, env, rt)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
