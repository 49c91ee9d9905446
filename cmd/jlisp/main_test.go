package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.jl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCmdAcceptsWellFormedFile(t *testing.T) {
	path := writeTempFile(t, "(def x 1) (+ x 2)")
	cmd := newCheckCmd()
	err := cmd.RunE(cmd, []string{path})
	assert.NoError(t, err)
}

func TestMacroexpandCmdExpandsMacroCall(t *testing.T) {
	path := writeTempFile(t, `(def twice (nmacro twice (x) (list 'list x x))) (twice 1)`)
	var paths []string
	cmd := newMacroexpandCmd(&paths)
	err := cmd.RunE(cmd, []string{path})
	assert.NoError(t, err)
}

func TestRunCmdEvaluatesFile(t *testing.T) {
	path := writeTempFile(t, "(def answer 42) answer")
	var paths []string
	cmd := newRunCmd(&paths)
	err := cmd.RunE(cmd, []string{path})
	assert.NoError(t, err)
}
