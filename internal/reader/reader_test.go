package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlisp/jlisp/internal/lexer"
)

type sliceSource struct {
	toks []lexer.Token
	i    int
}

func (s *sliceSource) Next() (lexer.Token, error) {
	if s.i >= len(s.toks) {
		return lexer.Token{Type: lexer.EOF}, nil
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func tok(typ lexer.TokenType, lit string) lexer.Token {
	return lexer.Token{Type: typ, Literal: lit}
}

func drain(t *testing.T, it Source) []lexer.Token {
	t.Helper()
	var out []lexer.Token
	for {
		tk, err := it.Next()
		require.NoError(t, err)
		if tk.IsEOF() {
			return out
		}
		out = append(out, tk)
	}
}

func TestMacroIteratorPassthrough(t *testing.T) {
	src := &sliceSource{toks: []lexer.Token{tok(lexer.IDENT, "a"), tok(lexer.IDENT, "b")}}
	it := NewMacroIterator(src, nil)
	out := drain(t, it)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Literal)
}

func TestMacroIteratorSingleTokenTrigger(t *testing.T) {
	// "when" ident expands to (IDENT "if") unconditionally.
	m := Macro{
		Rule: lexer.Rule{lexer.Exact(lexer.IDENT, "when")},
		Transform: func(window []lexer.Token) ([]lexer.Token, error) {
			return []lexer.Token{tok(lexer.IDENT, "if")}, nil
		},
	}
	src := &sliceSource{toks: []lexer.Token{tok(lexer.IDENT, "when"), tok(lexer.IDENT, "x")}}
	it := m.Wrap(src)
	out := drain(t, it)
	require.Len(t, out, 2)
	assert.Equal(t, "if", out[0].Literal)
	assert.Equal(t, "x", out[1].Literal)
}

func TestMacroIteratorMultiTokenWindow(t *testing.T) {
	// "->" followed by ident "foo" collapses to one ident "pipe-foo".
	m := Macro{
		Rule: lexer.Rule{lexer.Exact(lexer.IDENT, "->"), lexer.OfType(lexer.IDENT)},
		Transform: func(window []lexer.Token) ([]lexer.Token, error) {
			return []lexer.Token{tok(lexer.IDENT, "pipe-"+window[1].Literal)}, nil
		},
	}
	src := &sliceSource{toks: []lexer.Token{tok(lexer.IDENT, "->"), tok(lexer.IDENT, "foo"), tok(lexer.IDENT, "bar")}}
	it := m.Wrap(src)
	out := drain(t, it)
	require.Len(t, out, 2)
	assert.Equal(t, "pipe-foo", out[0].Literal)
	assert.Equal(t, "bar", out[1].Literal)
}

func TestMacroIteratorSlidesOnMismatch(t *testing.T) {
	m := Macro{
		Rule: lexer.Rule{lexer.Exact(lexer.IDENT, "nope"), lexer.Any()},
		Transform: func(window []lexer.Token) ([]lexer.Token, error) {
			t.Fatal("should never match")
			return nil, nil
		},
	}
	src := &sliceSource{toks: []lexer.Token{tok(lexer.IDENT, "a"), tok(lexer.IDENT, "b"), tok(lexer.IDENT, "c")}}
	it := m.Wrap(src)
	out := drain(t, it)
	require.Len(t, out, 3)
}
