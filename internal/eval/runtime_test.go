package eval

import (
	"github.com/jlisp/jlisp/internal/ast"
	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/value"
)

// testRuntime is a minimal value.Runtime for exercising the evaluator in
// isolation, without internal/interp (which depends on this package and
// would create an import cycle if used directly in these tests).
type testRuntime struct {
	interner *value.Interner
	modules  map[string]*value.Env
	frames   int
}

func newTestRuntime() *testRuntime {
	return &testRuntime{interner: value.NewInterner(), modules: make(map[string]*value.Env)}
}

func (rt *testRuntime) Interner() *value.Interner { return rt.interner }

func (rt *testRuntime) Eval(v value.Value, env *value.Env) (value.Value, error) {
	return Eval(v, env, rt)
}

func (rt *testRuntime) Apply(fn value.Value, args []value.Value, env *value.Env) (value.Value, error) {
	return Apply(fn, args, env, rt)
}

func (rt *testRuntime) Position() ast.Pos { return ast.Pos{} }

func (rt *testRuntime) Import(path string, fromEnv *value.Env) (*value.Env, error) {
	if e, ok := rt.modules[path]; ok {
		return e, nil
	}
	return nil, errors.WrapReport(errors.Newf(errors.OsError, "no such module: %s", path))
}

func (rt *testRuntime) InstallReaderMacro(rule []value.TokenMatcher, transform value.ReaderTransformFunc) {
}

// EvalFile isn't exercised by this package's in-isolation tests (which
// build their own env/source directly); internal/interp.State is the real
// implementation.
func (rt *testRuntime) EvalFile(path string) (value.Value, error) {
	return nil, errors.WrapReport(errors.Newf(errors.OsError, "EvalFile not supported by testRuntime"))
}

func (rt *testRuntime) PushFrame(proc value.Value, envID uint64) { rt.frames++ }
