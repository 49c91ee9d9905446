package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormBalanced(t *testing.T) {
	assert.True(t, formBalanced("(+ 1 2)"))
	assert.True(t, formBalanced("1"))
	assert.False(t, formBalanced("(+ 1 (* 2 3)"))
	assert.True(t, formBalanced("(+ 1 (* 2 3))"))
}

func TestHandleCommandHelp(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	quit := r.HandleCommand(":help", &buf)
	assert.False(t, quit)
	assert.Contains(t, buf.String(), "REPL Commands")
}

func TestHandleCommandQuit(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	assert.True(t, r.HandleCommand(":quit", &buf))
}

func TestHandleCommandEnvListsGlobals(t *testing.T) {
	r := New()
	_, err := r.state.EvalStr("(def pi 3)")
	assert.NoError(t, err)

	var buf bytes.Buffer
	r.HandleCommand(":env", &buf)
	assert.Contains(t, buf.String(), "pi")
}

func TestEvalLinePrintsResult(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	r.evalLine("(+ 1 2)", &buf)
	assert.Contains(t, buf.String(), "3")
}

func TestEvalLinePrintsTraceback(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	r.evalLine("(car 1)", &buf)
	assert.Contains(t, buf.String(), "Traceback")
}
