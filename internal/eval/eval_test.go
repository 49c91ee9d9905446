package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlisp/jlisp/internal/lexer"
	"github.com/jlisp/jlisp/internal/parser"
	"github.com/jlisp/jlisp/internal/value"
)

func evalSrc(t *testing.T, rt *testRuntime, env *value.Env, src string) value.Value {
	t.Helper()
	l := lexer.New("t.jl", lexer.Normalize([]byte(src)))
	p := parser.New(l, "t.jl", rt.Interner())
	v, err := p.ParseForm()
	require.NoError(t, err)
	require.NotNil(t, v)
	res, err := Eval(v, env, rt)
	require.NoError(t, err)
	return res
}

func newTestEnv() (*testRuntime, *value.Env) {
	rt := newTestRuntime()
	return rt, NewGlobalEnv()
}

func TestEvalArithmetic(t *testing.T) {
	rt, env := newTestEnv()
	assert.Equal(t, value.Int(6), evalSrc(t, rt, env, "(+ 1 2 3)"))
	assert.Equal(t, value.Int(-4), evalSrc(t, rt, env, "(- 1 2 3)"))
	assert.Equal(t, value.Float(2.5), evalSrc(t, rt, env, "(/ 5.0 2)"))
	assert.Equal(t, value.Bool(true), evalSrc(t, rt, env, "(< 1 2)"))
}

func TestEvalIfCond(t *testing.T) {
	rt, env := newTestEnv()
	assert.Equal(t, value.Int(1), evalSrc(t, rt, env, "(if true 1 2)"))
	assert.Equal(t, value.Int(2), evalSrc(t, rt, env, "(if false 1 2)"))
	assert.Equal(t, value.Int(3), evalSrc(t, rt, env, "(cond (false 1) (true 3) (else 4))"))
}

func TestEvalDefAndLambda(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def square (fn (x) (* x x)))")
	assert.Equal(t, value.Int(9), evalSrc(t, rt, env, "(square 3)"))
}

func TestEvalClosureCapturesDefiningEnv(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def make-adder (fn (n) (fn (x) (+ x n))))")
	evalSrc(t, rt, env, "(def add5 (make-adder 5))")
	assert.Equal(t, value.Int(15), evalSrc(t, rt, env, "(add5 10)"))
}

func TestEvalRecursiveNamedFn(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def fact (nfn fact (n) (if (<= n 1) 1 (* n (fact (- n 1))))))")
	assert.Equal(t, value.Int(120), evalSrc(t, rt, env, "(fact 5)"))
}

func TestEvalQuoteAndList(t *testing.T) {
	rt, env := newTestEnv()
	v := evalSrc(t, rt, env, "'(1 2 3)")
	items, err := value.ToSlice(v)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestEvalQuasiquoteUnquoteSplice(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def xs (list 2 3))")
	v := evalSrc(t, rt, env, "`(1 ,@xs 4)")
	items, err := value.ToSlice(v)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, value.Int(1), items[0])
	assert.Equal(t, value.Int(4), items[3])
}

func TestEvalMacro(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def my-if (macro (c t e) (list 'cond (list c t) (list 'else e))))")
	assert.Equal(t, value.Int(1), evalSrc(t, rt, env, "(my-if true 1 2)"))
}

func TestEvalTryRaise(t *testing.T) {
	rt, env := newTestEnv()
	v := evalSrc(t, rt, env, `(try (raise (error 'oops "bad")) (car (list 99)))`)
	assert.Equal(t, value.Int(99), v)
}

func TestEvalTryNoError(t *testing.T) {
	rt, env := newTestEnv()
	assert.Equal(t, value.Int(1), evalSrc(t, rt, env, "(try 1 2)"))
}

func TestEvalSetBang(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def x 1)")
	evalSrc(t, rt, env, "(set! x 2)")
	assert.Equal(t, value.Int(2), evalSrc(t, rt, env, "x"))
}

func TestEvalVector(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def v (vector 1 2 3))")
	evalSrc(t, rt, env, "(vector-push! v 4)")
	assert.Equal(t, value.Int(4), evalSrc(t, rt, env, "(vector-len v)"))
	assert.Equal(t, value.Int(4), evalSrc(t, rt, env, "(vector-get v 3)"))
}

func TestEvalAndOr(t *testing.T) {
	rt, env := newTestEnv()
	assert.Equal(t, value.Bool(false), evalSrc(t, rt, env, "(and true false true)"))
	assert.Equal(t, value.Int(3), evalSrc(t, rt, env, "(or false false 3)"))
}

func TestEvalUnboundSymbolErrors(t *testing.T) {
	rt, env := newTestEnv()
	l := lexer.New("t.jl", lexer.Normalize([]byte("nope")))
	p := parser.New(l, "t.jl", rt.Interner())
	v, err := p.ParseForm()
	require.NoError(t, err)
	_, err = Eval(v, env, rt)
	assert.Error(t, err)
}

func evalSrcErr(t *testing.T, rt *testRuntime, env *value.Env, src string) error {
	t.Helper()
	l := lexer.New("t.jl", lexer.Normalize([]byte(src)))
	p := parser.New(l, "t.jl", rt.Interner())
	v, err := p.ParseForm()
	require.NoError(t, err)
	require.NotNil(t, v)
	_, err = Eval(v, env, rt)
	return err
}

func TestEvalMisplacedUnquote(t *testing.T) {
	rt, env := newTestEnv()
	err := evalSrcErr(t, rt, env, ",x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "misplaced unquote")
}

func TestEvalMisplacedUnquoteSplice(t *testing.T) {
	rt, env := newTestEnv()
	err := evalSrcErr(t, rt, env, ",@x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "misplaced unquote-splice")
}

func TestEvalEqIdentityVsEqualStructural(t *testing.T) {
	rt, env := newTestEnv()
	assert.Equal(t, value.Bool(true), evalSrc(t, rt, env, `(eq? 'a 'a)`))
	assert.Equal(t, value.Bool(false), evalSrc(t, rt, env, `(eq? (list 1 2) (list 1 2))`))
	assert.Equal(t, value.Bool(true), evalSrc(t, rt, env, `(equal? (list 1 2) (list 1 2))`))
	assert.Equal(t, value.Bool(false), evalSrc(t, rt, env, `(equal? (list 1 2) (list 1 3))`))
}

func TestEvalEqBuiltinIdentity(t *testing.T) {
	rt, env := newTestEnv()
	evalSrc(t, rt, env, "(def f car)")
	assert.Equal(t, value.Bool(true), evalSrc(t, rt, env, "(eq? f car)"))
	assert.Equal(t, value.Bool(false), evalSrc(t, rt, env, "(eq? car cdr)"))
}

func TestEvalAssertPassesAndFails(t *testing.T) {
	rt, env := newTestEnv()
	assert.Equal(t, value.TheNil, evalSrc(t, rt, env, "(assert true)"))

	err := evalSrcErr(t, rt, env, `(assert false "boom")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEvalDivReciprocal(t *testing.T) {
	rt, env := newTestEnv()
	assert.Equal(t, value.Float(0.5), evalSrc(t, rt, env, "(/ 2)"))
	assert.Equal(t, value.Int(1), evalSrc(t, rt, env, "(/ 1)"))
	assert.Equal(t, value.Int(-1), evalSrc(t, rt, env, "(/ -1)"))
}

func TestEvalIntToFloatPrecisionLossErrors(t *testing.T) {
	rt, env := newTestEnv()
	// 2^53+1 is the smallest positive int64 that can't round-trip through
	// float64 exactly.
	err := evalSrcErr(t, rt, env, "(+ 9007199254740993 1.0)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precision")
}

func TestEvalFileBuiltinDelegatesToRuntime(t *testing.T) {
	rt, env := newTestEnv()
	err := evalSrcErr(t, rt, env, `(evalfile "nope.jl")`)
	assert.Error(t, err)
}
