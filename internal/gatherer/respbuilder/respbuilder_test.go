package respbuilder_test

import (
	"errors"
	"testing"
	"time"

	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/gatherer/respbuilder"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCompile = errors.New("compilation failed")

func TestGradeReport(t *testing.T) {
	b := respbuilder.New("run-1")
	b.StartRun("grade", []string{"A.cpp"})
	b.FinishCompile("A.cpp", lang.Build{OK: true, Duration: 1200 * time.Millisecond})
	b.FinishTest("1", verdict.Verdict{Primary: verdict.Accepted, OverTime: true, Message: "OK", Elapsed: []time.Duration{time.Second}})
	b.FinishTest("2", verdict.Verdict{Primary: verdict.RuntimeError, Message: "exit code 1"})
	b.FinishRun(verdict.Summary{Total: 2, Correct: 1})

	r := b.Response()
	assert.Equal(t, "run-1", r.RunUuid)
	assert.Equal(t, "grade", r.Mode)
	assert.Equal(t, api.Finished, r.Status)
	require.Len(t, r.Compilations, 1)
	assert.Equal(t, int64(1200), r.Compilations[0].WallMillis)
	require.Len(t, r.Tests, 2)
	assert.Equal(t, api.TestReport{Program: "A.cpp", Label: "1", Verdict: "AT", Message: "OK", Correct: true, WallMillis: []int64{1000}}, r.Tests[0])
	assert.Equal(t, "R", r.Tests[1].Verdict)
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, 1, r.Correct)
	assert.Nil(t, r.ErrorMessage)
	assert.NotNil(t, r.SystemInfo)
}

func TestNoTestsStatus(t *testing.T) {
	b := respbuilder.New("run-1")
	b.StartRun("output", []string{"A.py"})
	b.FinishRun(verdict.Summary{})
	assert.Equal(t, api.NoTests, b.Response().Status)
}

func TestCompileErrorStatus(t *testing.T) {
	b := respbuilder.New("run-1")
	b.IsCompileError = func(err error) bool { return errors.Is(err, errCompile) }
	b.StartRun("grade", []string{"A.cpp"})
	b.FinishCompile("A.cpp", lang.Build{Output: []byte("error")})
	b.FinishWithError(errCompile)

	r := b.Response()
	assert.Equal(t, api.CompileError, r.Status)
	require.NotNil(t, r.ErrorMessage)
	assert.Equal(t, "compilation failed", *r.ErrorMessage)
}

func TestNestedSweepRuns(t *testing.T) {
	b := respbuilder.New("run-1")
	b.StartRun("sweep", []string{"A.cpp"})
	b.StartRun("compare", []string{"A.cpp", "j00000001.cpp"})
	b.FinishTest("3", verdict.Verdict{Primary: verdict.WrongAnswer})
	b.FinishRun(verdict.Summary{Total: 1})
	b.StartRun("compare", []string{"A.cpp", "j00000002.cpp"})
	b.FinishWithError(errCompile)
	b.FinishRun(verdict.Summary{Total: 2, Correct: 0})

	r := b.Response()
	assert.Equal(t, "sweep", r.Mode)
	assert.Equal(t, []string{"A.cpp"}, r.Programs)
	assert.Equal(t, api.Finished, r.Status)
	require.Len(t, r.Tests, 1)
	assert.Equal(t, "j00000001.cpp", r.Tests[0].Program)
	assert.Equal(t, 2, r.Total)
}
