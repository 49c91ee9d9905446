package eval

import (
	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

func boundedIndex(name string, length int, n value.Int) (int, error) {
	if int64(n) < 0 {
		return 0, errors.WrapReport(errors.Newf(errors.EvalError, "%s: negative index", name))
	}
	idx := int(n)
	if idx >= length {
		return 0, errors.WrapReport(errors.Newf(errors.EvalError, "%s: index %d out of bounds (length %d)", name, idx, length))
	}
	return idx, nil
}

func builtinVectorNew(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	return value.NewVector(args), nil
}

func builtinVectorLen(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector-len", args, 1)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector-len", "a vector", args[0])
	}
	return value.Int(int64(len(*v.Items))), nil
}

func builtinVectorGet(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector-get", args, 2)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector-get", "a vector", args[0])
	}
	n, ok := value.ToInt(args[1])
	if !ok {
		return nil, typeErr("vector-get", "an int", args[1])
	}
	idx, err := boundedIndex("vector-get", len(*v.Items), n)
	if err != nil {
		return nil, err
	}
	return (*v.Items)[idx], nil
}

func builtinVectorSet(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector-set!", args, 3)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector-set!", "a vector", args[0])
	}
	n, ok := value.ToInt(args[1])
	if !ok {
		return nil, typeErr("vector-set!", "an int", args[1])
	}
	idx, err := boundedIndex("vector-set!", len(*v.Items), n)
	if err != nil {
		return nil, err
	}
	(*v.Items)[idx] = args[2]
	return value.TheNil, nil
}

func builtinVectorPush(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector-push!", args, 2)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector-push!", "a vector", args[0])
	}
	*v.Items = append(*v.Items, args[1])
	return value.TheNil, nil
}

func builtinVectorPop(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector-pop!", args, 1)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector-pop!", "a vector", args[0])
	}
	items := *v.Items
	if len(items) == 0 {
		return nil, errors.WrapReport(errors.New(errors.ApplyError, "vector-pop!: empty vector"))
	}
	last := items[len(items)-1]
	*v.Items = items[:len(items)-1]
	return last, nil
}

func builtinVectorSub(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector-sub", args, 3)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector-sub", "a vector", args[0])
	}
	from, ok1 := value.ToInt(args[1])
	to, ok2 := value.ToInt(args[2])
	if !ok1 || !ok2 {
		return nil, typeErr("vector-sub", "two ints", args[1])
	}
	items := *v.Items
	fi, err := boundedIndex("vector-sub", len(items)+1, from)
	if err != nil {
		return nil, err
	}
	ti, err := boundedIndex("vector-sub", len(items)+1, to)
	if err != nil {
		return nil, err
	}
	if fi > ti {
		fi, ti = ti, fi
	}
	return value.NewVector(items[fi:ti]), nil
}

func builtinVectorMap(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector-map", args, 2)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector-map", "a vector", args[0])
	}
	out := make([]value.Value, len(*v.Items))
	for i, item := range *v.Items {
		r, err := Apply(args[1], []value.Value{item}, env, rt)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return value.NewVector(out), nil
}

func builtinVectorToList(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("vector->list", args, 1)
	if err != nil {
		return nil, err
	}
	v, ok := value.ToVector(args[0])
	if !ok {
		return nil, typeErr("vector->list", "a vector", args[0])
	}
	return value.FromSlice(*v.Items), nil
}

func builtinListToVector(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("list->vector", args, 1)
	if err != nil {
		return nil, err
	}
	items, err := value.ToSlice(args[0])
	if err != nil {
		return nil, typeErr("list->vector", "a proper list", args[0])
	}
	return value.NewVector(items), nil
}
