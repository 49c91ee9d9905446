package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlisp/jlisp/internal/ast"
	"github.com/jlisp/jlisp/internal/value"
)

// stubRuntime implements value.Runtime just enough to drive the loader:
// Eval simply defines whatever (def name val) forms it sees, since that's
// all the loader's own tests need a module body to do.
type stubRuntime struct {
	interner *value.Interner
}

func newStubRuntime() *stubRuntime { return &stubRuntime{interner: value.NewInterner()} }

func (s *stubRuntime) Interner() *value.Interner { return s.interner }

func (s *stubRuntime) Eval(v value.Value, env *value.Env) (value.Value, error) {
	p, ok := value.ToPair(v)
	if !ok {
		return v, nil
	}
	sym, _ := value.ToSymbol(p.Car)
	if sym.Name != "def" {
		return value.TheNil, nil
	}
	rest, _ := value.ToSlice(p.Cdr)
	name, _ := value.ToSymbol(rest[0])
	env.Define(name.Name, rest[1])
	return value.TheNil, nil
}

func (s *stubRuntime) Apply(fn value.Value, args []value.Value, env *value.Env) (value.Value, error) {
	return value.TheNil, nil
}
func (s *stubRuntime) Position() ast.Pos { return ast.Pos{} }
func (s *stubRuntime) Import(path string, fromEnv *value.Env) (*value.Env, error) {
	return nil, nil
}
func (s *stubRuntime) InstallReaderMacro(rule []value.TokenMatcher, transform value.ReaderTransformFunc) {
}
func (s *stubRuntime) PushFrame(proc value.Value, envID uint64) {}

func TestLoaderLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greet.jl"), []byte(`(def greeting "hi")`), 0o644))

	global := value.NewEnv(nil)
	loader := NewLoader(global, dir)
	rt := newStubRuntime()

	env, err := loader.Load("greet", nil, rt)
	require.NoError(t, err)
	v, ok := env.TryLookup("greeting")
	require.True(t, ok)
	assert.Equal(t, value.String("hi"), v)

	again, err := loader.Load("greet", nil, rt)
	require.NoError(t, err)
	assert.Same(t, env, again, "second load of the same module must return the cached env")
}

// TestLoaderResolvesCyclicImport exercises the predeclare-before-evaluate
// resolution: a re-entered cyclic import gets back the first module's
// partially-populated environment instead of an error.
func TestLoaderResolvesCyclicImport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jl"), []byte(`(import "./b")`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jl"), []byte("(def x 1)\n"+`(import "./a")`), 0o644))

	global := value.NewEnv(nil)
	loader := NewLoader(global, dir)
	rt := &cyclingRuntime{interner: value.NewInterner(), loader: loader}

	envA, err := loader.Load("a", nil, rt)
	require.NoError(t, err)
	assert.NotNil(t, envA)

	// Both modules must have finished loading and be cached once each.
	assert.ElementsMatch(t, []string{"a", "b"}, loader.Loaded())
}

// cyclingRuntime actually follows (import ...) forms by calling back into
// the loader, so a real import cycle between two files surfaces.
type cyclingRuntime struct {
	interner *value.Interner
	loader   *Loader
}

func (r *cyclingRuntime) Interner() *value.Interner { return r.interner }
func (r *cyclingRuntime) Eval(v value.Value, env *value.Env) (value.Value, error) {
	p, ok := value.ToPair(v)
	if !ok {
		return v, nil
	}
	sym, _ := value.ToSymbol(p.Car)
	if sym.Name != "import" {
		return value.TheNil, nil
	}
	rest, _ := value.ToSlice(p.Cdr)
	path, _ := value.ToStr(rest[0])
	_, err := r.Import(string(path), env)
	return value.TheNil, err
}
func (r *cyclingRuntime) Apply(fn value.Value, args []value.Value, env *value.Env) (value.Value, error) {
	return value.TheNil, nil
}
func (r *cyclingRuntime) Position() ast.Pos { return ast.Pos{} }
func (r *cyclingRuntime) Import(path string, fromEnv *value.Env) (*value.Env, error) {
	return r.loader.Load(path, fromEnv, r)
}
func (r *cyclingRuntime) InstallReaderMacro(rule []value.TokenMatcher, transform value.ReaderTransformFunc) {
}
func (r *cyclingRuntime) PushFrame(proc value.Value, envID uint64) {}

func TestLoaderMissingFile(t *testing.T) {
	dir := t.TempDir()
	global := value.NewEnv(nil)
	loader := NewLoader(global, dir)
	rt := newStubRuntime()

	_, err := loader.Load("nope", nil, rt)
	assert.Error(t, err)
}

func TestResolverRelativeImport(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "util.jl"), []byte(`(def x 1)`), 0o644))

	r := NewResolver()
	fromFile := filepath.Join(sub, "main.jl")
	path, err := r.Resolve("./util", fromFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "util.jl"), path)
}

func TestResolverIdentity(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(dir)
	abs, err := filepath.Abs(filepath.Join(dir, "pkg", "mod.jl"))
	require.NoError(t, err)
	assert.Equal(t, "pkg/mod", r.Identity(abs))
}
