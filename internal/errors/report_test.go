package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlisp/jlisp/internal/ast"
)

func TestNewAndWrap(t *testing.T) {
	r := New(TypeError, "expected a pair").At(ast.Pos{File: "x.jl", Line: 3, Column: 1})
	err := WrapReport(r)
	require.Error(t, err)

	got, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, "TypeError", got.Kind)
	assert.Equal(t, "TYP", got.Code)
	assert.Equal(t, "expected a pair", got.Message)
}

func TestWrapReportNil(t *testing.T) {
	assert.Nil(t, WrapReport(nil))
}

func TestKindEquality(t *testing.T) {
	assert.True(t, Exception.Equal(Exception))
	assert.False(t, Exception.Equal(TypeError))

	u1 := UserDefined("http-timeout")
	u2 := UserDefined("http-timeout")
	assert.True(t, u1.Equal(u2))
	assert.True(t, u1.IsUserDefined())
	assert.Equal(t, "USR:http-timeout", u1.Code())
}

func TestReportToJSON(t *testing.T) {
	r := New(NotDefined, "x is not defined").WithData("name", "x")
	js, err := r.ToJSON(true)
	require.NoError(t, err)
	assert.Contains(t, js, `"kind":"NotDefined"`)
	assert.Contains(t, js, `"name":"x"`)
}
