package value

import (
	"fmt"
	"testing"

	"github.com/jlisp/jlisp/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func list(items ...Value) Value { return FromSlice(items) }

func TestTruthiness(t *testing.T) {
	assert.False(t, IsTruthy(TheNil))
	assert.False(t, IsTruthy(Bool(false)))
	assert.True(t, IsTruthy(Bool(true)))
	assert.True(t, IsTruthy(Int(0)))
	assert.True(t, IsTruthy(String("")))
}

func TestListRoundTrip(t *testing.T) {
	l := list(Int(1), Int(2), Int(3))
	items, err := ToSlice(l)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, Int(2), items[1])
	assert.True(t, IsList(l))
}

func TestImproperListIsNotAList(t *testing.T) {
	p := Pair{Car: Int(1), Cdr: Int(2)}
	assert.False(t, IsList(p))
	_, err := ToSlice(p)
	assert.Error(t, err)
}

func TestPairString(t *testing.T) {
	l := list(Symbol{Name: "a"}, Symbol{Name: "b"})
	assert.Equal(t, "(a b)", l.String())

	improper := Pair{Car: Symbol{Name: "a"}, Cdr: Symbol{Name: "b"}}
	assert.Equal(t, "(a . b)", improper.String())
}

func TestDisplayUnquotesStrings(t *testing.T) {
	assert.Equal(t, `"hi"`, String("hi").String())
	assert.Equal(t, "hi", Display(String("hi")))
}

func TestNilString(t *testing.T) {
	assert.Equal(t, "()", TheNil.String())
}

func TestErrorString(t *testing.T) {
	e := Error{KindName: "TypeError", Message: "expected a number"}
	assert.Equal(t, "#[error TypeError: expected a number]", e.String())

	pos := ast.Pos{Line: 3, Column: 5}
	e.Pos = &pos
	assert.Equal(t, "#[error TypeError: expected a number at "+pos.String()+"]", e.String())
}

func TestEnvValueString(t *testing.T) {
	env := NewEnv(nil)
	ev := EnvValue{Env: env}
	assert.Equal(t, fmt.Sprintf("#[env<%d>]", env.ID()), ev.String())
}

func TestLambdaString(t *testing.T) {
	params, err := NewParams(list(Symbol{Name: "a"}, Symbol{Name: "b"}))
	require.NoError(t, err)

	anon := Lambda{Params: params}
	assert.Equal(t, "#[lambda (2)]", anon.String())

	named := Lambda{Name: "add", Params: params}
	assert.Equal(t, `#[lambda (2) "add"]`, named.String())
}

func TestBuiltinString(t *testing.T) {
	b := NewBuiltin("car", func(args []Value, env *Env, rt Runtime) (Value, error) {
		return TheNil, nil
	})
	assert.Equal(t, "#[function car]", b.String())
}

func TestSpecialFormString(t *testing.T) {
	sf := SpecialForm{Name: "if", Fn: func(args Value, env *Env, rt Runtime) (Value, error) {
		return TheNil, nil
	}}
	assert.Equal(t, "#[special-form if]", sf.String())
}

func TestBuiltinIdentityIsMonotonic(t *testing.T) {
	a := NewBuiltin("a", nil)
	b := NewBuiltin("b", nil)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestEnvLookupSetDefine(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	child := root.Child()

	v, err := child.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)

	require.NoError(t, child.Set("x", Int(2)))
	v, _ = root.Lookup("x")
	assert.Equal(t, Int(2), v)

	_, err = child.Lookup("nope")
	assert.Error(t, err)

	assert.False(t, child.Has("x"))
	assert.True(t, root.Has("x"))
}

func TestInternerIdentity(t *testing.T) {
	in := NewInterner()
	a := in.Symbol("foo")
	b := in.Symbol("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, in.SymbolCount())
}

func TestInternerEviction(t *testing.T) {
	in := NewInterner()
	for i := 0; i < symbolCap+10; i++ {
		in.Symbol(string(rune('a' + i%26)) + string(rune(i)))
	}
	assert.LessOrEqual(t, in.SymbolCount(), symbolCap)
}

func TestParamsFixed(t *testing.T) {
	spec := list(Symbol{Name: "a"}, Symbol{Name: "b"})
	p, err := NewParams(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Fixed)
	assert.Empty(t, p.Variadic)

	root := NewEnv(nil)
	env, err := p.Bind(root, []Value{Int(1), Int(2)})
	require.NoError(t, err)
	v, _ := env.Lookup("a")
	assert.Equal(t, Int(1), v)
}

func TestParamsVariadic(t *testing.T) {
	spec := Pair{
		Car: Symbol{Name: "a"},
		Cdr: Pair{Car: Symbol{Name: "."}, Cdr: Pair{Car: Symbol{Name: "rest"}, Cdr: TheNil}},
	}
	p, err := NewParams(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, p.Fixed)
	assert.Equal(t, "rest", p.Variadic)

	root := NewEnv(nil)
	env, err := p.Bind(root, []Value{Int(1), Int(2), Int(3)})
	require.NoError(t, err)
	rest, _ := env.Lookup("rest")
	items, _ := ToSlice(rest)
	assert.Len(t, items, 2)
}

func TestParamsMalformedDot(t *testing.T) {
	spec := Pair{
		Car: Symbol{Name: "a"},
		Cdr: Pair{Car: Symbol{Name: "."}, Cdr: TheNil},
	}
	_, err := NewParams(spec)
	assert.Error(t, err)
}

func TestParamsArityMismatch(t *testing.T) {
	p, err := NewParams(list(Symbol{Name: "a"}))
	require.NoError(t, err)
	root := NewEnv(nil)
	_, err = p.Bind(root, []Value{})
	assert.Error(t, err)
}
