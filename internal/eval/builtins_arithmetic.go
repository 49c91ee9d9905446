package eval

import (
	"math"

	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

// number is a small internal sum type used only to implement arithmetic
// builtins, mirroring original_source's builtin/math.rs Number enum:
// operations on two Ints stay exact (with overflow checking); mixing an
// Int and a Float promotes to Float.
type number struct {
	isFloat bool
	i       int64
	f       float64
}

func numberFromValue(name string, v value.Value) (number, error) {
	switch x := v.(type) {
	case value.Int:
		return number{i: int64(x)}, nil
	case value.Float:
		return number{isFloat: true, f: float64(x)}, nil
	default:
		return number{}, typeErr(name, "a number", v)
	}
}

// asFloat converts n to a float64, failing with a numeric error if n is an
// Int whose magnitude can't survive the round trip through float64 exactly
// (spec.md §4.7.5: "Int→Float conversion that would lose precision fails
// with a numeric error").
func (n number) asFloat() (float64, error) {
	if n.isFloat {
		return n.f, nil
	}
	f := float64(n.i)
	if int64(f) != n.i {
		return 0, errors.WrapReport(errors.Newf(errors.EvalError, "cannot convert %d to float without losing precision", n.i))
	}
	return f, nil
}

func (n number) toValue() value.Value {
	if n.isFloat {
		return value.Float(n.f)
	}
	return value.Int(n.i)
}

func overflowErr(op string) error {
	return errors.WrapReport(errors.Newf(errors.EvalError, "integer overflow in %s", op))
}

// asFloatPair converts n and m to float64, propagating the first
// precision-loss error encountered.
func asFloatPair(n, m number) (float64, float64, error) {
	a, err := n.asFloat()
	if err != nil {
		return 0, 0, err
	}
	b, err := m.asFloat()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (n number) add(m number) (number, error) {
	if !n.isFloat && !m.isFloat {
		s := n.i + m.i
		if (s > n.i) != (m.i > 0) {
			return number{}, overflowErr("+")
		}
		return number{i: s}, nil
	}
	a, b, err := asFloatPair(n, m)
	if err != nil {
		return number{}, err
	}
	return number{isFloat: true, f: a + b}, nil
}

func (n number) sub(m number) (number, error) {
	if !n.isFloat && !m.isFloat {
		s := n.i - m.i
		if (s < n.i) != (m.i > 0) {
			return number{}, overflowErr("-")
		}
		return number{i: s}, nil
	}
	a, b, err := asFloatPair(n, m)
	if err != nil {
		return number{}, err
	}
	return number{isFloat: true, f: a - b}, nil
}

func (n number) mul(m number) (number, error) {
	if !n.isFloat && !m.isFloat {
		if n.i != 0 && m.i != 0 {
			s := n.i * m.i
			if s/n.i != m.i {
				return number{}, overflowErr("*")
			}
			return number{i: s}, nil
		}
		return number{i: 0}, nil
	}
	a, b, err := asFloatPair(n, m)
	if err != nil {
		return number{}, err
	}
	return number{isFloat: true, f: a * b}, nil
}

func (n number) div(m number) (number, error) {
	if !n.isFloat && !m.isFloat {
		if m.i == 0 {
			return number{}, errors.WrapReport(errors.New(errors.EvalError, "division by zero"))
		}
		return number{i: n.i / m.i}, nil
	}
	a, b, err := asFloatPair(n, m)
	if err != nil {
		return number{}, err
	}
	return number{isFloat: true, f: a / b}, nil
}

func (n number) cmp(m number) (int, error) {
	if !n.isFloat && !m.isFloat {
		switch {
		case n.i < m.i:
			return -1, nil
		case n.i > m.i:
			return 1, nil
		default:
			return 0, nil
		}
	}
	a, b, err := asFloatPair(n, m)
	if err != nil {
		return 0, err
	}
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}

func builtinAdd(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	acc := number{i: 0}
	for _, a := range args {
		n, err := numberFromValue("+", a)
		if err != nil {
			return nil, err
		}
		acc, err = acc.add(n)
		if err != nil {
			return nil, err
		}
	}
	return acc.toValue(), nil
}

func builtinSub(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := minArgs("-", args, 1)
	if err != nil {
		return nil, err
	}
	first, err := numberFromValue("-", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		zero := number{i: 0}
		result, err := zero.sub(first)
		if err != nil {
			return nil, err
		}
		return result.toValue(), nil
	}
	acc := first
	for _, a := range args[1:] {
		n, err := numberFromValue("-", a)
		if err != nil {
			return nil, err
		}
		acc, err = acc.sub(n)
		if err != nil {
			return nil, err
		}
	}
	return acc.toValue(), nil
}

func builtinMul(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	acc := number{i: 1}
	for _, a := range args {
		n, err := numberFromValue("*", a)
		if err != nil {
			return nil, err
		}
		acc, err = acc.mul(n)
		if err != nil {
			return nil, err
		}
	}
	return acc.toValue(), nil
}

func builtinDiv(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := minArgs("/", args, 1)
	if err != nil {
		return nil, err
	}
	first, err := numberFromValue("/", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		// Single-operand / is a reciprocal: exact (stays Int) only when the
		// operand is Int 1 or -1 (its own reciprocal); every other operand,
		// Int or Float, reciprocates in Float.
		if !first.isFloat && (first.i == 1 || first.i == -1) {
			return first.toValue(), nil
		}
		divisor, err := first.asFloat()
		if err != nil {
			return nil, err
		}
		if divisor == 0 {
			return nil, errors.WrapReport(errors.New(errors.EvalError, "division by zero"))
		}
		return value.Float(1.0 / divisor), nil
	}
	acc := first
	for _, a := range args[1:] {
		n, err := numberFromValue("/", a)
		if err != nil {
			return nil, err
		}
		acc, err = acc.div(n)
		if err != nil {
			return nil, err
		}
	}
	return acc.toValue(), nil
}

func compareBuiltin(name string, ok func(int) bool) value.BuiltinFunc {
	return func(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
		args, err := exactArgs(name, args, 2)
		if err != nil {
			return nil, err
		}
		x, err := numberFromValue(name, args[0])
		if err != nil {
			return nil, err
		}
		y, err := numberFromValue(name, args[1])
		if err != nil {
			return nil, err
		}
		c, err := x.cmp(y)
		if err != nil {
			return nil, err
		}
		return value.Bool(ok(c)), nil
	}
}

func builtinAbs(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("abs", args, 1)
	if err != nil {
		return nil, err
	}
	n, err := numberFromValue("abs", args[0])
	if err != nil {
		return nil, err
	}
	if n.isFloat {
		return value.Float(math.Abs(n.f)), nil
	}
	if n.i < 0 {
		return value.Int(-n.i), nil
	}
	return value.Int(n.i), nil
}

func builtinMod(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("mod", args, 2)
	if err != nil {
		return nil, err
	}
	x, ok := value.ToInt(args[0])
	if !ok {
		return nil, typeErr("mod", "an int", args[0])
	}
	y, ok := value.ToInt(args[1])
	if !ok {
		return nil, typeErr("mod", "an int", args[1])
	}
	if y == 0 {
		return nil, errors.WrapReport(errors.New(errors.EvalError, "mod: division by zero"))
	}
	return value.Int(int64(x) % int64(y)), nil
}
