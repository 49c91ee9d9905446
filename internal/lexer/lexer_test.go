package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	l := New("test.jl", Normalize([]byte(src)))
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.IsEOF() {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexerBasicForm(t *testing.T) {
	toks := tokenize(t, `(+ 1 2.5 "hi")`)
	require.Len(t, toks, 6)
	assert.Equal(t, LPAREN, toks[0].Type)
	assert.Equal(t, IDENT, toks[1].Type)
	assert.Equal(t, "+", toks[1].Literal)
	assert.Equal(t, INT, toks[2].Type)
	assert.Equal(t, FLOAT, toks[3].Type)
	assert.Equal(t, STRING, toks[4].Type)
	assert.Equal(t, "hi", toks[4].Literal)
	assert.Equal(t, RPAREN, toks[5].Type)
}

func TestLexerQuoteFamily(t *testing.T) {
	toks := tokenize(t, "'x `(a ,b ,@c)")
	assert.Equal(t, QUOTE, toks[0].Type)
	assert.Equal(t, QUASI, toks[2].Type)
	var sawComma, sawCommaAt bool
	for _, tok := range toks {
		if tok.Type == COMMA {
			sawComma = true
		}
		if tok.Type == COMMA_AT {
			sawCommaAt = true
		}
	}
	assert.True(t, sawComma)
	assert.True(t, sawCommaAt)
}

func TestLexerComment(t *testing.T) {
	l := New("test.jl", Normalize([]byte("; a comment\n42")))
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, INT, tok.Type)
	assert.Equal(t, "42", tok.Literal)
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New("test.jl", Normalize([]byte(`"oops`)))
	_, err := l.Next()
	require.Error(t, err)
}

func TestValidatorBalanced(t *testing.T) {
	toks := tokenize(t, "(a (b c) d)")
	var v Validator
	for _, tok := range toks {
		require.NoError(t, v.Feed(tok))
	}
	require.NoError(t, v.Finish(Pos{Line: 1, Column: 1}))
}

func TestValidatorUnbalanced(t *testing.T) {
	toks := tokenize(t, "(a (b c)")
	var v Validator
	for _, tok := range toks {
		require.NoError(t, v.Feed(tok))
	}
	assert.Error(t, v.Finish(Pos{Line: 1, Column: 1}))
}

func TestValidatorUnmatchedClose(t *testing.T) {
	toks := tokenize(t, "a)")
	var v Validator
	var err error
	for _, tok := range toks {
		if e := v.Feed(tok); e != nil {
			err = e
		}
	}
	assert.Error(t, err)
}

func TestRuleMatch(t *testing.T) {
	rule := Rule{Exact(IDENT, "when"), OfType(IDENT)}
	toks := tokenize(t, "when ready")
	assert.True(t, rule.Match(toks))
	assert.False(t, rule.Match([]Token{toks[0]}))
}
