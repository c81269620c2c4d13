package compare_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/grader/internal/compare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareStrings(t *testing.T, expected, actual string) compare.Result {
	t.Helper()
	dir := t.TempDir()
	exp := filepath.Join(dir, "1.out")
	act := filepath.Join(dir, "sol.out")
	require.NoError(t, os.WriteFile(exp, []byte(expected), 0644))
	require.NoError(t, os.WriteFile(act, []byte(actual), 0644))

	res, err := compare.NewTokenComparator(compare.DefaultEpsilon).Compare(context.Background(), "", exp, act)
	require.NoError(t, err)
	return res
}

func TestIdenticalStructureAccepted(t *testing.T) {
	res := compareStrings(t, "hello world\n\n3 4\n", "hello   world\n3\t4\n\n\n")
	assert.True(t, res.Accepted)
	assert.Equal(t, "OK", res.Message)
}

func TestNumericTolerance(t *testing.T) {
	assert.True(t, compareStrings(t, "1.000000\n", "1.0000005\n").Accepted)

	res := compareStrings(t, "1.000000\n", "1.000002\n")
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Message, "floats differ")
	assert.Contains(t, res.Message, "line 1")
}

func TestZeroUsesAbsoluteError(t *testing.T) {
	assert.True(t, compareStrings(t, "0.0\n", "0.0000001\n").Accepted)
	assert.False(t, compareStrings(t, "0.0\n", "0.00001\n").Accepted)
}

func TestRelativeErrorForLargeValues(t *testing.T) {
	assert.True(t, compareStrings(t, "1000000.0\n", "1000000.5\n").Accepted)
}

func TestIntegersComparedExactly(t *testing.T) {
	res := compareStrings(t, "1000000000\n", "1000000001\n")
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Message, "expected 1000000000 but found 1000000001")
}

func TestNonNumericActual(t *testing.T) {
	res := compareStrings(t, "1.5\n", "abc\n")
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Message, "expected 1.5 but found abc")
}

func TestLineCountMismatch(t *testing.T) {
	res := compareStrings(t, "1\n2\n", "1\n2\n3\n")
	assert.False(t, res.Accepted)
	assert.Equal(t, "expected 2 lines but found 3 lines", res.Message)
}

func TestTokenCountMismatch(t *testing.T) {
	res := compareStrings(t, "1 2\n3\n", "1 2\n3 4\n")
	assert.False(t, res.Accepted)
	assert.Equal(t, "line 2: expected 1 tokens but found 2 tokens", res.Message)
}

func TestFirstMismatchWins(t *testing.T) {
	res := compareStrings(t, "a\nb\nc\n", "a\nx\ny\n")
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Message, "line 2")
	assert.Contains(t, res.Message, "found x")
}

func TestRelativeOrAbsoluteError(t *testing.T) {
	assert.InDelta(t, 5e-7, compare.RelativeOrAbsoluteError(1, 1.0000005), 1e-12)
	assert.InDelta(t, 1e-7, compare.RelativeOrAbsoluteError(0, 1e-7), 1e-15)
	assert.InDelta(t, 0.5e-6, compare.RelativeOrAbsoluteError(1e6, 1e6+0.5), 1e-12)
}

func TestMissingActual(t *testing.T) {
	dir := t.TempDir()
	exp := filepath.Join(dir, "1.out")
	require.NoError(t, os.WriteFile(exp, []byte("1\n"), 0644))

	_, err := compare.NewTokenComparator(compare.DefaultEpsilon).Compare(context.Background(), "", exp, filepath.Join(dir, "nope.out"))
	require.Error(t, err)
}
