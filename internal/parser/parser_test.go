package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlisp/jlisp/internal/lexer"
	"github.com/jlisp/jlisp/internal/value"
)

func parseOne(t *testing.T, src string) value.Value {
	t.Helper()
	l := lexer.New("t.jl", lexer.Normalize([]byte(src)))
	p := New(l, "t.jl", value.NewInterner())
	v, err := p.ParseForm()
	require.NoError(t, err)
	require.NotNil(t, v)
	return v
}

func TestParseAtoms(t *testing.T) {
	assert.Equal(t, value.Int(42), parseOne(t, "42"))
	assert.Equal(t, value.Float(1.5), parseOne(t, "1.5"))
	assert.Equal(t, value.Bool(true), parseOne(t, "true"))
	assert.Equal(t, value.TheNil, parseOne(t, "nil"))

	sym := parseOne(t, "foo")
	s, ok := value.ToSymbol(sym)
	require.True(t, ok)
	assert.Equal(t, "foo", s.Name)

	str := parseOne(t, `"hi there"`)
	s2, ok := value.ToStr(str)
	require.True(t, ok)
	assert.Equal(t, "hi there", string(s2))
}

func TestParseProperList(t *testing.T) {
	v := parseOne(t, "(+ 1 2)")
	items, err := value.ToSlice(v)
	require.NoError(t, err)
	require.Len(t, items, 3)
	sym, _ := value.ToSymbol(items[0])
	assert.Equal(t, "+", sym.Name)
	assert.Equal(t, value.Int(1), items[1])
	assert.Equal(t, value.Int(2), items[2])
}

func TestParseDottedPair(t *testing.T) {
	v := parseOne(t, "(1 . 2)")
	p, ok := value.ToPair(v)
	require.True(t, ok)
	assert.Equal(t, value.Int(1), p.Car)
	assert.Equal(t, value.Int(2), p.Cdr)
	assert.False(t, value.IsList(v))
}

func TestParseNestedList(t *testing.T) {
	v := parseOne(t, "(a (b c) d)")
	items, err := value.ToSlice(v)
	require.NoError(t, err)
	require.Len(t, items, 3)
	inner, err := value.ToSlice(items[1])
	require.NoError(t, err)
	require.Len(t, inner, 2)
}

func TestParseQuoteFamily(t *testing.T) {
	q := parseOne(t, "'x")
	_, ok := q.(value.Quote)
	assert.True(t, ok)

	qq := parseOne(t, "`(a ,b ,@c)")
	quasi, ok := qq.(value.Quasiquote)
	require.True(t, ok)
	items, err := value.ToSlice(quasi.X)
	require.NoError(t, err)
	require.Len(t, items, 3)
	_, isUnquote := items[1].(value.Unquote)
	assert.True(t, isUnquote)
	_, isSplice := items[2].(value.UnquoteSplice)
	assert.True(t, isSplice)
}

func TestParseUnterminatedList(t *testing.T) {
	l := lexer.New("t.jl", lexer.Normalize([]byte("(a b")))
	p := New(l, "t.jl", value.NewInterner())
	_, err := p.ParseForm()
	assert.Error(t, err)
}

func TestParseUnexpectedCloseParen(t *testing.T) {
	l := lexer.New("t.jl", lexer.Normalize([]byte(")")))
	p := New(l, "t.jl", value.NewInterner())
	_, err := p.ParseForm()
	assert.Error(t, err)
}

func TestParseAll(t *testing.T) {
	l := lexer.New("t.jl", lexer.Normalize([]byte("(def x 1) (def y 2)")))
	p := New(l, "t.jl", value.NewInterner())
	forms, err := p.ParseAll()
	require.NoError(t, err)
	require.Len(t, forms, 2)
}
