package eval

import (
	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

// builtinException implements (exception "message"), producing a first-
// class Exception-kind error value.
func builtinException(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("exception", args, 1)
	if err != nil {
		return nil, err
	}
	msg, ok := value.ToStr(args[0])
	if !ok {
		return nil, typeErr("exception", "a string", args[0])
	}
	pos := rt.Position()
	return value.Error{KindName: "Exception", Message: string(msg), Pos: &pos}, nil
}

// builtinError implements (error 'tag "message"), producing a
// UserDefined(tag)-kind error value.
func builtinError(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("error", args, 2)
	if err != nil {
		return nil, err
	}
	tag, ok := value.ToSymbol(args[0])
	if !ok {
		return nil, typeErr("error", "a symbol", args[0])
	}
	msg, ok := value.ToStr(args[1])
	if !ok {
		return nil, typeErr("error", "a string", args[1])
	}
	pos := rt.Position()
	return value.Error{KindName: tag.Name, Message: string(msg), Pos: &pos}, nil
}

// builtinRaise implements (raise err-value): re-raises a first-class
// error value as a live Go error, unwinding the evaluator.
func builtinRaise(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("raise", args, 1)
	if err != nil {
		return nil, err
	}
	e, ok := value.ToErr(args[0])
	if !ok {
		return nil, typeErr("raise", "an error value", args[0])
	}
	return nil, &raisedError{Err: e}
}

// raisedError wraps a first-class value.Error as a Go error so `raise` can
// unwind through Eval/Apply; `try` unwraps it back with errors.As.
type raisedError struct {
	Err value.Error
}

func (e *raisedError) Error() string { return e.Err.String() }

func builtinIsError(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("error?", args, 1)
	if err != nil {
		return nil, err
	}
	_, ok := value.ToErr(args[0])
	return value.Bool(ok), nil
}

// builtinAssert implements (assert cond) and (assert cond "message"):
// raises an AssertionError, carrying the given message (or a default one),
// when cond is falsy; returns Nil otherwise.
func builtinAssert(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errors.WrapReport(errors.Newf(errors.ApplyError, "assert: expected 1 or 2 argument(s), got %d", len(args)))
	}
	if value.IsTruthy(args[0]) {
		return value.TheNil, nil
	}
	msg := "assertion failed"
	if len(args) == 2 {
		s, ok := value.ToStr(args[1])
		if !ok {
			return nil, typeErr("assert", "a string", args[1])
		}
		msg = string(s)
	}
	pos := rt.Position()
	return nil, &raisedError{Err: value.Error{KindName: errors.AssertionError.String(), Message: msg, Pos: &pos}}
}
