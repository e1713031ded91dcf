package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireErrorAs asserts that err is or wraps an error of type E and
// returns it.
func RequireErrorAs[E error](t testing.TB, err error) E {
	t.Helper()
	var target E
	require.Error(t, err)
	require.True(t, errors.As(err, &target), "expected %T in chain, got: %v", target, err)
	return target
}

// AssertCount checks how many times substr occurs in src.
func AssertCount(t testing.TB, src, substr string, want int) {
	t.Helper()
	assert.Equal(t, want, strings.Count(src, substr), "occurrences of %q in:\n%s", substr, src)
}

// MethodBody returns the body of the generated method whose signature line
// starts with prefix, without the braces.
func MethodBody(t testing.TB, src, prefix string) string {
	t.Helper()
	start := strings.Index(src, prefix)
	require.GreaterOrEqual(t, start, 0, "no method %q in:\n%s", prefix, src)

	open := strings.Index(src[start:], "{\n")
	require.GreaterOrEqual(t, open, 0)
	body := src[start+open+2:]
	if strings.HasPrefix(body, "}") {
		return ""
	}
	end := strings.Index(body, "\n}\n")
	require.GreaterOrEqual(t, end, 0)
	return strings.TrimSpace(body[:end])
}
