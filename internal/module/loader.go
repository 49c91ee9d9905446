// Package module implements module loading and caching for jlisp's (import
// "path") special form: resolving an import path to a source file, parsing
// and evaluating it into its own environment, and caching that environment
// by canonical path so a module imported from two places is loaded once.
package module

import (
	"fmt"
	"os"
	"sync"

	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/lexer"
	"github.com/jlisp/jlisp/internal/parser"
	"github.com/jlisp/jlisp/internal/value"
)

// Module is a loaded source file: its own child environment (of the
// loader's global env) holding every top-level binding the file defined.
type Module struct {
	Identity string
	FilePath string
	Env      *value.Env
}

// Loader resolves, parses, and evaluates jlisp source files on demand,
// caching the result by canonical identity — the same cache structure the
// teacher's loader uses, generalized from AST modules to environments since
// this language has no static export list to validate. Path resolution
// itself is delegated to a Resolver, the same Loader/Resolver split the
// teacher uses.
//
// Import cycles are resolved predeclare-before-evaluate rather than
// rejected: the environment for a module being loaded is registered in
// inProgress as soon as it's created, before any of the module's forms are
// evaluated. A cyclic (import ...) reached while that module is still
// loading gets back the same, partially-populated environment instead of
// an error — whatever the first file defined above its own cyclic import
// is visible to the module that imports it back, matching a forward-
// declaration style most Lisps use for mutually recursive modules.
type Loader struct {
	cache      map[string]*Module
	inProgress map[string]*value.Env
	mu         sync.RWMutex
	global     *value.Env
	resolver   *Resolver

	envFile map[uint64]string // env ID -> the file it was loaded from, for relative imports
}

// NewLoader creates a Loader whose modules are evaluated as children of
// global (so every module sees the same builtins/special forms).
func NewLoader(global *value.Env, extraSearchPaths ...string) *Loader {
	return &Loader{
		cache:      make(map[string]*Module),
		inProgress: make(map[string]*value.Env),
		global:     global,
		resolver:   NewResolver(extraSearchPaths...),
		envFile:    make(map[uint64]string),
	}
}

// AddSearchPath appends a directory to search for bare (non-relative)
// import paths, used by internal/config to apply jlisp.yaml settings.
func (l *Loader) AddSearchPath(dir string) {
	l.resolver.AddSearchPath(dir)
}

// RegisterFile records which source file env was loaded from, without
// going through Load itself — used by internal/interp's EvalFile so a
// relative (import "./...") from a top-level script (evaluated directly
// into the global environment, not a module's own child env) still
// resolves against that script's directory rather than the process cwd.
func (l *Loader) RegisterFile(env *value.Env, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.envFile[env.ID()] = path
}

// Load resolves importPath (relative to fromEnv's source file, if any),
// parses and evaluates it, and returns the resulting environment. rt is
// threaded through to Eval so the module body can use every special form
// and builtin, including further (import ...) forms.
func (l *Loader) Load(importPath string, fromEnv *value.Env, rt value.Runtime) (*value.Env, error) {
	filePath, err := l.resolver.Resolve(importPath, l.fileFor(fromEnv))
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.OsError, "module not found: %s (%s)", importPath, err))
	}
	identity := l.resolver.Identity(filePath)

	if mod := l.getCached(identity); mod != nil {
		return mod.Env, nil
	}
	if env, ok := l.getInProgress(identity); ok {
		return env, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.OsError, "failed to read module file %s: %s", filePath, err))
	}

	env := l.global.Child()
	l.mu.Lock()
	l.envFile[env.ID()] = filePath
	l.inProgress[identity] = env
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.inProgress, identity)
		l.mu.Unlock()
	}()

	lx := lexer.New(filePath, lexer.Normalize(content))
	p := parser.New(lx, filePath, rt.Interner())
	forms, err := p.ParseAll()
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.SyntaxError, "parse error in %s: %s", filePath, err))
	}

	for _, form := range forms {
		if _, err := rt.Eval(form, env); err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", filePath, err)
		}
	}

	l.cacheModule(&Module{Identity: identity, FilePath: filePath, Env: env})
	return env, nil
}

func (l *Loader) fileFor(env *value.Env) string {
	if env == nil {
		return ""
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for e := env; e != nil; e = e.Parent() {
		if f, ok := l.envFile[e.ID()]; ok {
			return f
		}
	}
	return ""
}

func (l *Loader) getCached(identity string) *Module {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[identity]
}

func (l *Loader) getInProgress(identity string) (*value.Env, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	env, ok := l.inProgress[identity]
	return env, ok
}

func (l *Loader) cacheModule(mod *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[mod.Identity] = mod
}

// Loaded reports the identities of every module currently cached, used by
// the REPL's `:modules` introspection command.
func (l *Loader) Loaded() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.cache))
	for id := range l.cache {
		names = append(names, id)
	}
	return names
}
