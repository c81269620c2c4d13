package verdict_test

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/programme-lv/grader/internal/compare"
	"github.com/programme-lv/grader/internal/runner"
	"github.com/programme-lv/grader/internal/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(r compare.Result) verdict.CompareFunc {
	return func(context.Context) (compare.Result, error) { return r, nil }
}

func mustNotCompare(t *testing.T) verdict.CompareFunc {
	return func(context.Context) (compare.Result, error) {
		t.Fatal("comparator must not be invoked for a failed run")
		return compare.Result{}, nil
	}
}

func TestFailedRunsSkipComparator(t *testing.T) {
	cases := []struct {
		outcome runner.Outcome
		code    string
		message string
	}{
		{runner.Outcome{Kind: runner.TimedOut}, "T", "time limit exceeded"},
		{runner.Outcome{Kind: runner.NonZeroExit, ExitCode: 139}, "R", "stack size exceeded?"},
		{runner.Outcome{Kind: runner.Signaled, Signal: syscall.SIGSEGV}, "R", "stack size exceeded?"},
		{runner.Outcome{Kind: runner.NonZeroExit, ExitCode: 1}, "R", "exit code 1"},
		{runner.Outcome{Kind: runner.LaunchFailed, Err: errors.New("no such file")}, "R", "failed to launch: no such file"},
	}
	for _, c := range cases {
		v, err := verdict.Classify(context.Background(), runner.Result{Outcome: c.outcome, Elapsed: 3 * time.Second}, time.Second, mustNotCompare(t))
		require.NoError(t, err)
		assert.Equal(t, c.code, v.Code())
		assert.Equal(t, c.message, v.Message)
		assert.False(t, v.Correct())
		assert.False(t, v.ShowsTime())
	}
}

func TestAcceptedWithinLimit(t *testing.T) {
	res := runner.Result{Outcome: runner.Outcome{Kind: runner.Exited}, Elapsed: 200 * time.Millisecond}
	v, err := verdict.Classify(context.Background(), res, time.Second, fixed(compare.Result{Accepted: true, Message: "OK"}))
	require.NoError(t, err)
	assert.Equal(t, "A", v.Code())
	assert.True(t, v.Correct())
	assert.True(t, v.Clean())
	assert.True(t, v.ShowsTime())
	assert.Equal(t, "0.20s", v.FormatElapsed())
}

func TestOverTimeComposes(t *testing.T) {
	res := runner.Result{Outcome: runner.Outcome{Kind: runner.Exited}, Elapsed: 2 * time.Second}

	v, err := verdict.Classify(context.Background(), res, time.Second, fixed(compare.Result{Accepted: true, Message: "OK"}))
	require.NoError(t, err)
	assert.Equal(t, "AT", v.Code())
	assert.True(t, v.Correct())
	assert.False(t, v.Clean())

	v, err = verdict.Classify(context.Background(), res, time.Second, fixed(compare.Result{Message: "line 1: ..."}))
	require.NoError(t, err)
	assert.Equal(t, "WT", v.Code())
	assert.False(t, v.Correct())
	assert.True(t, v.ShowsTime())
}

func TestComparatorError(t *testing.T) {
	res := runner.Result{Outcome: runner.Outcome{Kind: runner.Exited}}
	_, err := verdict.Classify(context.Background(), res, time.Second, func(context.Context) (compare.Result, error) {
		return compare.Result{}, errors.New("boom")
	})
	require.Error(t, err)
}

func TestReference(t *testing.T) {
	v := verdict.Reference(runner.Outcome{Kind: runner.NonZeroExit, ExitCode: 2})
	assert.Equal(t, "E", v.Code())
	assert.Equal(t, "reference solution gave exit code 2", v.Message)
	assert.False(t, v.Correct())
}

func TestFormatElapsedPair(t *testing.T) {
	v := verdict.Verdict{Primary: verdict.Accepted, Elapsed: []time.Duration{100 * time.Millisecond, 1500 * time.Millisecond}}
	assert.Equal(t, "0.10s, 1.50s", v.FormatElapsed())
}

func TestSummary(t *testing.T) {
	var s verdict.Summary
	assert.False(t, s.Perfect())

	s.Add(verdict.Verdict{Primary: verdict.Accepted, OverTime: true})
	s.Add(verdict.Verdict{Primary: verdict.Accepted})
	assert.True(t, s.Perfect())

	s.Add(verdict.Verdict{Primary: verdict.WrongAnswer})
	assert.Equal(t, verdict.Summary{Total: 3, Correct: 2}, s)
	assert.False(t, s.Perfect())
}
