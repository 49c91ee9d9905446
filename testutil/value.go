package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jlisp/jlisp/internal/value"
)

// envComparer treats two *value.Env as equal exactly when they are the same
// environment (by ID), rather than letting go-cmp recurse into Env's
// unexported fields or chase Parent() all the way to the shared global
// environment — a Lambda's Closure and a Pair's embedded EnvValue only need
// to agree on which environment they close over, not its entire contents.
var envComparer = cmp.Comparer(func(a, b *value.Env) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
})

// AssertValueEqual compares two jlisp values structurally with go-cmp,
// treating *value.Env fields by identity (see envComparer) so comparing a
// Lambda or an EnvValue doesn't require two environments to be deeply
// identical, only the same environment.
func AssertValueEqual(t *testing.T, want, got value.Value) {
	t.Helper()
	if diff := cmp.Diff(want, got, envComparer); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}
