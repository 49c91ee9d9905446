package eval

import (
	"strconv"
	"strings"

	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

func builtinConcat(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	var b strings.Builder
	for _, a := range args {
		s, ok := value.ToStr(a)
		if !ok {
			return nil, typeErr("concat", "a string", a)
		}
		b.WriteString(string(s))
	}
	return rt.Interner().Str(b.String()), nil
}

func builtinContains(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("contains?", args, 2)
	if err != nil {
		return nil, err
	}
	s, ok1 := value.ToStr(args[0])
	sub, ok2 := value.ToStr(args[1])
	if !ok1 || !ok2 {
		return nil, typeErr("contains?", "two strings", args[0])
	}
	return value.Bool(strings.Contains(string(s), string(sub))), nil
}

func normalizeIndex(n int64, length int) int {
	ilen := int64(length)
	if n < 0 {
		n += ilen
		if n < 0 {
			n = 0
		}
	}
	if n > ilen {
		n = ilen
	}
	return int(n)
}

// builtinSubstring mirrors original_source's jbuiltin_substring: negative
// indices count from the end, and a start past end reverses the slice
// instead of erroring.
func builtinSubstring(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("substring", args, 3)
	if err != nil {
		return nil, err
	}
	s, ok := value.ToStr(args[0])
	if !ok {
		return nil, typeErr("substring", "a string", args[0])
	}
	start, ok := value.ToInt(args[1])
	if !ok {
		return nil, typeErr("substring", "an int", args[1])
	}
	end, ok := value.ToInt(args[2])
	if !ok {
		return nil, typeErr("substring", "an int", args[2])
	}
	runes := []rune(string(s))
	si := normalizeIndex(int64(start), len(runes))
	ei := normalizeIndex(int64(end), len(runes))
	var out []rune
	if si <= ei {
		out = runes[si:ei]
	} else {
		rev := runes[ei:si]
		out = make([]rune, len(rev))
		for i, r := range rev {
			out[len(rev)-1-i] = r
		}
	}
	return rt.Interner().Str(string(out)), nil
}

func builtinStrLen(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("str-length", args, 1)
	if err != nil {
		return nil, err
	}
	s, ok := value.ToStr(args[0])
	if !ok {
		return nil, typeErr("str-length", "a string", args[0])
	}
	return value.Int(int64(len([]rune(string(s))))), nil
}

func builtinSplit(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("split", args, 2)
	if err != nil {
		return nil, err
	}
	s, ok1 := value.ToStr(args[0])
	sep, ok2 := value.ToStr(args[1])
	if !ok1 || !ok2 {
		return nil, typeErr("split", "two strings", args[0])
	}
	parts := strings.Split(string(s), string(sep))
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = rt.Interner().Str(p)
	}
	return value.FromSlice(out), nil
}

func builtinReplace(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("replace", args, 3)
	if err != nil {
		return nil, err
	}
	s, ok1 := value.ToStr(args[0])
	src, ok2 := value.ToStr(args[1])
	dst, ok3 := value.ToStr(args[2])
	if !ok1 || !ok2 || !ok3 {
		return nil, typeErr("replace", "three strings", args[0])
	}
	return rt.Interner().Str(strings.ReplaceAll(string(s), string(src), string(dst))), nil
}

func builtinParseInt(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("parse-int", args, 1)
	if err != nil {
		return nil, err
	}
	s, ok := value.ToStr(args[0])
	if !ok {
		return nil, typeErr("parse-int", "a string", args[0])
	}
	n, perr := strconv.ParseInt(string(s), 10, 64)
	if perr != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "parse-int: %s", perr))
	}
	return value.Int(n), nil
}

func builtinParseFloat(args []value.Value, env *value.Env, rt value.Runtime) (value.Value, error) {
	args, err := exactArgs("parse-float", args, 1)
	if err != nil {
		return nil, err
	}
	s, ok := value.ToStr(args[0])
	if !ok {
		return nil, typeErr("parse-float", "a string", args[0])
	}
	f, perr := strconv.ParseFloat(string(s), 64)
	if perr != nil {
		return nil, errors.WrapReport(errors.Newf(errors.EvalError, "parse-float: %s", perr))
	}
	return value.Float(f), nil
}
