// Package interp provides the concrete Host API for embedding jlisp: a
// State that wires together the interner, global environment, module
// loader, and reader-macro pipeline and, in doing so, implements
// value.Runtime so the evaluator can call back into all of it. cmd/jlisp
// and internal/repl are both thin hosts built entirely on this package.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/jlisp/jlisp/internal/ast"
	"github.com/jlisp/jlisp/internal/config"
	"github.com/jlisp/jlisp/internal/errors"
	"github.com/jlisp/jlisp/internal/eval"
	"github.com/jlisp/jlisp/internal/lexer"
	"github.com/jlisp/jlisp/internal/module"
	"github.com/jlisp/jlisp/internal/parser"
	"github.com/jlisp/jlisp/internal/reader"
	"github.com/jlisp/jlisp/internal/value"
)

// State is the concrete value.Runtime: the one type in the whole module
// that is allowed to import both internal/eval and internal/module, since
// it is what ties their two independent uses of the Runtime interface
// together. Every call the evaluator makes back into "the runtime" —
// Eval, Apply, Import, InstallReaderMacro, PushFrame, Position — lands
// here.
type State struct {
	interner *value.Interner
	global   *value.Env
	loader   *module.Loader
	macros   []reader.Macro

	pos   ast.Pos
	trace errors.Traceback
}

// New builds a State with the standard global environment (every special
// form and builtin bound) and a module loader searching the current
// directory, then layers on any jlisp.yaml project config found in the
// current directory (module search paths, as internal/config describes).
// This is the constructor cmd/jlisp and internal/repl use.
func New() *State {
	s := NewBare()
	if cfg, err := config.LoadDefault("."); err == nil && cfg != nil {
		for _, dir := range cfg.ModuleSearchPaths {
			s.loader.AddSearchPath(dir)
		}
	}
	return s
}

// NewBare builds a State with the standard global environment and a
// module loader with no extra search paths beyond ".", and no attempt to
// read any project config file — the constructor for tests and for
// embedding jlisp where the host wants full control over search paths.
func NewBare() *State {
	interner := value.NewInterner()
	global := eval.NewGlobalEnv()
	return &State{
		interner: interner,
		global:   global,
		loader:   module.NewLoader(global),
	}
}

// GlobalEnv returns the root environment new top-level bindings land in.
func (s *State) GlobalEnv() *value.Env { return s.global }

// AddSearchPath appends a module search directory, used by internal/config
// and by cmd/jlisp's -I flag.
func (s *State) AddSearchPath(dir string) { s.loader.AddSearchPath(dir) }

// LoadedModules reports the identities of every module imported so far, for
// the REPL's :modules introspection command.
func (s *State) LoadedModules() []string { return s.loader.Loaded() }

// Reset discards every global binding and cached module, returning the
// State to the same state NewBare would build — used by the REPL's :reset
// command so a corrupted or cluttered session can start clean without
// restarting the process.
func (s *State) Reset() {
	s.global = eval.NewGlobalEnv()
	s.loader = module.NewLoader(s.global)
	s.macros = nil
	s.trace = nil
}

// ---- value.Runtime ----------------------------------------------------

func (s *State) Interner() *value.Interner { return s.interner }

func (s *State) Apply(fn value.Value, args []value.Value, env *value.Env) (value.Value, error) {
	return eval.Apply(fn, args, env, s)
}

// Position reports the start of the top-level form currently being
// evaluated. A parsed form carries no position of its own once built (an
// s-expression is just the value it evaluates to), so State stamps this
// field once per top-level form, in evalForms below, rather than per
// sub-expression.
func (s *State) Position() ast.Pos { return s.pos }

func (s *State) Import(path string, fromEnv *value.Env) (*value.Env, error) {
	return s.loader.Load(path, fromEnv, s)
}

// InstallReaderMacro converts a jlisp-level rule/transform pair into a
// lexer.Rule/reader.Transform and appends it to the active macro set: every
// subsequent EvalStr/EvalFile/EvalTokens call builds its reader pipeline
// from the macros installed so far, so a macro installed during one of
// those calls is visible to the calls made after it. Modules loaded through
// import are read by the module loader's own lexer and parser, without any
// installed reader macros.
func (s *State) InstallReaderMacro(rule []value.TokenMatcher, transform value.ReaderTransformFunc) {
	lexRule := make(lexer.Rule, len(rule))
	for i, m := range rule {
		m := m
		lexRule[i] = func(t lexer.Token) bool { return m.Matcher(toValueToken(t)) }
	}
	s.macros = append(s.macros, reader.Macro{
		Rule: lexRule,
		Transform: func(window []lexer.Token) ([]lexer.Token, error) {
			vwin := make([]value.Token, len(window))
			for i, t := range window {
				vwin[i] = toValueToken(t)
			}
			out, err := transform(vwin)
			if err != nil {
				return nil, err
			}
			lout := make([]lexer.Token, len(out))
			for i, t := range out {
				lout[i] = toLexerToken(t)
			}
			return lout, nil
		},
	})
}

// PushFrame records a traceback entry for proc, once it has actually been
// entered. proc is always one of value.Lambda/Macro/Builtin/SpecialForm,
// all of which satisfy errors.Callable structurally.
func (s *State) PushFrame(proc value.Value, envID uint64) {
	callable, ok := proc.(errors.Callable)
	if !ok {
		return
	}
	s.trace = append(s.trace, errors.Frame{Proc: callable, EnvID: envID})
}

// ---- token conversions --------------------------------------------------

func toValueToken(t lexer.Token) value.Token {
	return value.Token{Type: t.Type.String(), Literal: t.Literal, Line: t.Pos.Line, Column: t.Pos.Column}
}

func toLexerToken(t value.Token) lexer.Token {
	return lexer.Token{Type: lexerTokenType(t.Type), Literal: t.Literal, Pos: lexer.Pos{Line: t.Line, Column: t.Column}}
}

// lexerTokenType maps a token type's string name back to a lexer.TokenType.
// A reader-macro transform that fabricates a brand-new token (rather than
// re-emitting one it was handed) can only use these spellings.
func lexerTokenType(name string) lexer.TokenType {
	for _, t := range []lexer.TokenType{
		lexer.ILLEGAL, lexer.EOF, lexer.COMMENT, lexer.WHITESPACE,
		lexer.LPAREN, lexer.RPAREN, lexer.QUOTE, lexer.QUASI, lexer.COMMA, lexer.COMMA_AT,
		lexer.INT, lexer.FLOAT, lexer.IDENT, lexer.STRING, lexer.CHAR,
	} {
		if t.String() == name {
			return t
		}
	}
	return lexer.ILLEGAL
}

// ---- Host API -----------------------------------------------------------

// readSource builds this State's read pipeline (lexer, reader macros, then
// parser) over src, under the given file name for diagnostics.
func (s *State) readSource(file string, src []byte) *parser.Parser {
	var pipeline parser.Source = lexer.New(file, lexer.Normalize(src))
	if len(s.macros) > 0 {
		pipeline = reader.NewMacroIterator(pipeline, s.macros)
	}
	return parser.New(pipeline, file, s.interner)
}

// evalForms drains p one top-level form at a time, stamping s.pos before
// each Eval call, and returns the value of the last form evaluated (TheNil
// if the source was empty).
func (s *State) evalForms(p *parser.Parser) (value.Value, error) {
	var last value.Value = value.TheNil
	for !p.AtEOF() {
		s.pos = p.Pos()
		form, err := p.ParseForm()
		if err != nil {
			return nil, errors.WrapReport(errors.Newf(errors.SyntaxError, "%s", err))
		}
		if form == nil {
			break
		}
		last, err = eval.Eval(form, s.global, s)
		if err != nil {
			return nil, err
		}
	}
	return last, nil
}

// EvalStr parses and evaluates every top-level form in src against the
// global environment, returning the last form's value.
func (s *State) EvalStr(src string) (value.Value, error) {
	return s.evalForms(s.readSource("<string>", []byte(src)))
}

// EvalFile reads, parses, and evaluates path, also registering it with the
// module loader's file tracking so relative imports from within it resolve
// correctly if it later becomes the target of an (import "./...").
func (s *State) EvalFile(path string) (value.Value, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.OsError, "failed to read %s: %s", path, err))
	}
	s.loader.RegisterFile(s.global, path)
	return s.evalForms(s.readSource(path, content))
}

// ParseFile reads and builds a parser over path's contents, without
// evaluating anything — used by cmd/jlisp's `check` (parse-only) and
// `macroexpand` (evaluate forms up to the first macro call, then expand
// that call) subcommands.
func (s *State) ParseFile(path string) (*parser.Parser, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapReport(errors.Newf(errors.OsError, "failed to read %s: %s", path, err))
	}
	return s.readSource(path, content), nil
}

// ExpandOnce expands a single macro call one level without evaluating the
// result, reporting false for forms that aren't a call to a bound macro.
func (s *State) ExpandOnce(form value.Value) (value.Value, bool, error) {
	return eval.ExpandOnce(form, s.global, s)
}

// NextForm reads the next top-level form from p, stamping Position() to its
// start first so a Runtime error or traceback produced while handling that
// form (by Eval, ExpandOnce, or anything else called against s) reports the
// right source location — the same bookkeeping evalForms does inline, split
// out for callers like cmd/jlisp's `check` and `macroexpand` subcommands
// that walk a parser's forms themselves instead of going through EvalStr.
func (s *State) NextForm(p *parser.Parser) (value.Value, error) {
	s.pos = p.Pos()
	return p.ParseForm()
}

// EvalTokens parses and evaluates a pre-built token stream, bypassing the
// lexer entirely — for hosts that drive the reader/parser over tokens
// assembled in Go rather than read from source text.
func (s *State) EvalTokens(tokens []value.Token) (value.Value, error) {
	src := &tokenSource{tokens: tokens}
	var pipeline parser.Source = src
	if len(s.macros) > 0 {
		pipeline = reader.NewMacroIterator(src, s.macros)
	}
	p := parser.New(pipeline, "<tokens>", s.interner)
	return s.evalForms(p)
}

// tokenSource replays a fixed slice of value.Tokens as a lexer.Source.
type tokenSource struct {
	tokens []value.Token
	pos    int
}

func (t *tokenSource) Next() (lexer.Token, error) {
	if t.pos >= len(t.tokens) {
		return lexer.Token{Type: lexer.EOF}, nil
	}
	tok := toLexerToken(t.tokens[t.pos])
	t.pos++
	return tok, nil
}

// Eval evaluates an already-parsed form in env (env defaults to the global
// environment when nil), the entry point for hosts that built their own
// Value tree rather than reading source text.
func (s *State) Eval(v value.Value, env *value.Env) (value.Value, error) {
	if env == nil {
		env = s.global
	}
	return eval.Eval(v, env, s)
}

// Call applies an already-evaluated callable to already-evaluated
// arguments in the global environment — the Host API's equivalent of
// jlisp's own `apply`.
func (s *State) Call(fn value.Value, args []value.Value) (value.Value, error) {
	return eval.Apply(fn, args, s.global, s)
}

// Def binds name in the global environment, the Host API's equivalent of a
// top-level (def name val).
func (s *State) Def(name string, v value.Value) {
	s.global.Define(name, v)
}

// Lookup reads a global binding, for hosts that want to pull a result back
// out by name instead of using the return value of EvalStr/EvalFile.
func (s *State) Lookup(name string) (value.Value, bool) {
	return s.global.TryLookup(name)
}

// PrintException renders pos/err/tb to w using the same traceback format
// the REPL and `jlisp run` both use: "Traceback (most recent call last):",
// one line per frame, then the failing file:line and "Kind: message".
func (s *State) PrintException(w io.Writer, pos ast.Pos, err error, tb errors.Traceback) {
	fmt.Fprint(w, errors.Render(pos, err, tb))
}

// Traceback returns the frames accumulated since the State was created or
// last reset — an approximation of "the active call stack", since frames
// are pushed on entry but (per PushFrame's contract) never explicitly
// popped on a successful return. ResetTraceback is meant to be called
// between independent top-level evaluations (the REPL calls it before every
// line) so a later error's traceback isn't polluted by earlier, already-
// returned calls.
func (s *State) Traceback() errors.Traceback { return s.trace }

// ResetTraceback clears the accumulated traceback, starting a fresh one for
// the next top-level evaluation.
func (s *State) ResetTraceback() { s.trace = nil }
