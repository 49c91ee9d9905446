// Package parser turns a reader-macro-expanded token stream into Values:
// in an s-expression language, a parsed form already IS the value it
// evaluates to, so this parser has no separate AST node types to build —
// it constructs value.Value directly (Pair chains for lists, Quote/
// Quasiquote/Unquote/UnquoteSplice wrappers for reader shorthand, atoms for
// everything else).
package parser

import (
	"fmt"
	"strconv"

	"github.com/jlisp/jlisp/internal/ast"
	"github.com/jlisp/jlisp/internal/lexer"
	"github.com/jlisp/jlisp/internal/value"
)

// ParserError is a structured parse error with a fix suggestion, in the
// same spirit as the teacher's compiler diagnostics: a short code, the
// position, the token the parser was looking at, and a human-readable fix
// hint for REPL/CLI display.
type ParserError struct {
	Code      string
	Message   string
	Pos       ast.Pos
	NearToken lexer.Token
	Fix       string
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Message)
}

func newError(code string, pos ast.Pos, tok lexer.Token, msg, fix string) *ParserError {
	return &ParserError{Code: code, Message: msg, Pos: pos, NearToken: tok, Fix: fix}
}

// Source is the token-producing interface the parser consumes — satisfied
// by *lexer.Lexer directly, or by a *reader.MacroIterator wrapping one.
type Source interface {
	Next() (lexer.Token, error)
}

// Parser reads one token ahead (curToken) so it can decide what kind of
// form it is looking at before consuming it.
type Parser struct {
	src      Source
	file     string
	interner *value.Interner

	curToken lexer.Token
	errors   []error
}

// New creates a Parser pulling tokens from src. interner is used to intern
// symbols, integers, and strings as they're parsed so identical atoms
// share identity within (and across, if the same Interner is reused)
// top-level forms.
func New(src Source, file string, interner *value.Interner) *Parser {
	p := &Parser{src: src, file: file, interner: interner}
	p.advance()
	return p
}

// Errors returns every error accumulated during parsing, in source order.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) advance() {
	tok, err := p.src.Next()
	if err != nil {
		p.errors = append(p.errors, err)
		p.curToken = lexer.Token{Type: lexer.EOF}
		return
	}
	p.curToken = tok
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.curToken.Pos.Line, Column: p.curToken.Pos.Column}
}

// AtEOF reports whether the parser has consumed the whole stream.
func (p *Parser) AtEOF() bool { return p.curToken.IsEOF() }

// Pos returns the source position of the token the parser is currently
// sitting on — the start of whatever ParseForm returns next. internal/interp
// uses this to stamp each top-level form with a position before evaluating
// it, since a parsed Value carries no position of its own once built.
func (p *Parser) Pos() ast.Pos { return p.pos() }

// ParseForm parses exactly one top-level form. Returns (nil, nil) at EOF.
func (p *Parser) ParseForm() (value.Value, error) {
	if p.AtEOF() {
		return nil, nil
	}
	return p.parseExpr()
}

// ParseAll parses every form in the stream.
func (p *Parser) ParseAll() ([]value.Value, error) {
	var forms []value.Value
	for !p.AtEOF() {
		v, err := p.parseExpr()
		if err != nil {
			return forms, err
		}
		if v == nil {
			break
		}
		forms = append(forms, v)
	}
	if len(p.errors) > 0 {
		return forms, p.errors[0]
	}
	return forms, nil
}

func (p *Parser) parseExpr() (value.Value, error) {
	tok := p.curToken
	switch tok.Type {
	case lexer.EOF:
		return nil, nil

	case lexer.LPAREN:
		return p.parseList()

	case lexer.RPAREN:
		err := newError("SYN001", p.pos(), tok, "unexpected ')'", "remove the stray closing paren or add a matching '('")
		p.errors = append(p.errors, err)
		p.advance()
		return nil, err

	case lexer.QUOTE:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return value.Quote{X: inner}, nil

	case lexer.QUASI:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return value.Quasiquote{X: inner}, nil

	case lexer.COMMA:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return value.Unquote{X: inner}, nil

	case lexer.COMMA_AT:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return value.UnquoteSplice{X: inner}, nil

	case lexer.INT:
		p.advance()
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			perr := newError("SYN002", ast.Pos{File: p.file, Line: tok.Pos.Line, Column: tok.Pos.Column}, tok, fmt.Sprintf("malformed integer literal %q", tok.Literal), "check for stray characters in the number")
			p.errors = append(p.errors, perr)
			return nil, perr
		}
		return p.interner.Int(n), nil

	case lexer.FLOAT:
		p.advance()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			perr := newError("SYN003", ast.Pos{File: p.file, Line: tok.Pos.Line, Column: tok.Pos.Column}, tok, fmt.Sprintf("malformed float literal %q", tok.Literal), "check for stray characters in the number")
			p.errors = append(p.errors, perr)
			return nil, perr
		}
		return value.Float(f), nil

	case lexer.STRING:
		p.advance()
		return p.interner.Str(tok.Literal), nil

	case lexer.IDENT:
		p.advance()
		return p.parseIdent(tok.Literal), nil

	default:
		p.advance()
		perr := newError("SYN004", p.pos(), tok, fmt.Sprintf("unexpected token %s", tok.Type), "check for a typo or unsupported syntax")
		p.errors = append(p.errors, perr)
		return nil, perr
	}
}

// parseIdent recognizes the handful of reserved atom spellings (true,
// false, nil) before falling back to an interned Symbol.
func (p *Parser) parseIdent(lit string) value.Value {
	switch lit {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	case "nil":
		return value.TheNil
	default:
		return p.interner.Symbol(lit)
	}
}

// parseList parses a "(" ... ")" form into a Pair chain, handling both
// proper lists "(a b c)" and dotted pairs "(a b . c)".
func (p *Parser) parseList() (value.Value, error) {
	startPos := p.pos()
	p.advance() // consume '('

	var items []value.Value
	var tail value.Value = value.TheNil

	for {
		if p.AtEOF() {
			err := newError("SYN005", startPos, p.curToken, "unterminated list: missing ')'", "add a closing paren matching the one opened here")
			p.errors = append(p.errors, err)
			return nil, err
		}
		if p.curToken.Type == lexer.RPAREN {
			p.advance()
			break
		}
		if p.curToken.Type == lexer.IDENT && p.curToken.Literal == "." {
			p.advance()
			t, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			tail = t
			if p.curToken.Type != lexer.RPAREN {
				err := newError("SYN006", p.pos(), p.curToken, "expected ')' after dotted tail", "a dotted pair takes exactly one value after '.'")
				p.errors = append(p.errors, err)
				return nil, err
			}
			p.advance()
			break
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	out := tail
	for i := len(items) - 1; i >= 0; i-- {
		out = value.Pair{Car: items[i], Cdr: out}
	}
	return out, nil
}
