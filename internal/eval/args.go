package eval

import (
	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

// exactArgs is the Go-idiomatic stand-in for original_source's
// get_n_args::<N> (a const-generic array destructure): it checks the
// argument count and hands back the slice unchanged, so call sites can
// still destructure positionally (args[0], args[1], ...).
func exactArgs(name string, args []value.Value, n int) ([]value.Value, error) {
	if len(args) != n {
		return nil, errors.WrapReport(errors.Newf(errors.ApplyError, "%s: expected %d argument(s), got %d", name, n, len(args)))
	}
	return args, nil
}

// minArgs checks for at least n arguments, returning the full slice.
func minArgs(name string, args []value.Value, n int) ([]value.Value, error) {
	if len(args) < n {
		return nil, errors.WrapReport(errors.Newf(errors.ApplyError, "%s: expected at least %d argument(s), got %d", name, n, len(args)))
	}
	return args, nil
}

func typeErr(name, want string, got value.Value) error {
	return errors.WrapReport(errors.Newf(errors.TypeError, "%s: expected %s, got %s", name, want, got.Type()))
}
