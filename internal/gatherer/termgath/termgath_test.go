package termgath_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/grader/internal/gatherer/termgath"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
	"github.com/stretchr/testify/assert"
)

func newGatherer(t *testing.T) (*termgath.TerminalGatherer, *bytes.Buffer) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	return termgath.New(&buf), &buf
}

func TestGradeTranscript(t *testing.T) {
	g, buf := newGatherer(t)

	g.StartRun("grade", []string{"A.cpp"})
	g.StartCompile("A.cpp")
	g.FinishCompile("A.cpp", lang.Build{OK: true})
	g.StartTesting()
	g.ReachTest("1")
	g.FinishTest("1", verdict.Verdict{Primary: verdict.Accepted, Message: "OK", Elapsed: []time.Duration{120 * time.Millisecond}})
	g.FinishTest("2", verdict.Verdict{Primary: verdict.Accepted, OverTime: true, Message: "OK", Elapsed: []time.Duration{2100 * time.Millisecond}})
	g.FinishTest("3", verdict.Verdict{Primary: verdict.TimeLimitExceeded, Message: "time limit exceeded"})
	g.FinishRun(verdict.Summary{Total: 3, Correct: 2})

	want := "GRADING A.cpp\n" +
		" * Compiling A.cpp\n" +
		" * Compilation successful!\n" +
		"RUNNING TESTS\n" +
		" * Test 1: A - OK [0.12s]\n" +
		" * Test 2: AT - OK [2.10s]\n" +
		" * Test 3: T - time limit exceeded\n" +
		"\n" +
		"RESULT: 2 / 3\n"
	assert.Equal(t, want, buf.String())
}

func TestPerfectScore(t *testing.T) {
	g, buf := newGatherer(t)
	g.FinishRun(verdict.Summary{Total: 2, Correct: 2})
	assert.Equal(t, "\nRESULT: 2 / 2\nGood job! :D\n", buf.String())
}

func TestNoTestsFound(t *testing.T) {
	g, buf := newGatherer(t)
	g.FinishRun(verdict.Summary{})
	assert.Equal(t, "\nERROR: No tests found! D:\n", buf.String())
}

func TestCompareHeaderAndTimes(t *testing.T) {
	g, buf := newGatherer(t)
	g.StartRun("compare", []string{"B.cpp", "A.py"})
	g.FinishCompile("A.py", lang.Build{OK: true, Skipped: true})
	g.FinishTest("4", verdict.Verdict{
		Primary: verdict.WrongAnswer,
		Message: "line 1: elements don't match, expected 1 but found 2",
		Elapsed: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond},
	})

	want := "COMPARING CORRECT B.cpp AGAINST A.py\n\n" +
		" * No compilation for A.py.\n" +
		" * Test 4: W - line 1: elements don't match, expected 1 but found 2 [0.10s, 0.20s]\n"
	assert.Equal(t, want, buf.String())
}

func TestCompileFailureShowsDiagnostics(t *testing.T) {
	g, buf := newGatherer(t)
	g.FinishCompile("A.cpp", lang.Build{Output: []byte("A.cpp:1: error")})
	g.FinishWithError(errors.New("compilation failed: A.cpp"))

	want := " * Compiling A.cpp\n" +
		"A.cpp:1: error\n" +
		" * Compilation failed\n" +
		"ERROR: compilation failed: A.cpp\n"
	assert.Equal(t, want, buf.String())
}

func TestMismatchReport(t *testing.T) {
	g, buf := newGatherer(t)
	g.ReportMismatch("1", verdict.Mismatch{Input: "1 2\n", Expected: "3\n", Actual: "4"})

	sep := "\t--------------------------------------------------\n"
	want := "\n" +
		sep + "\tINPUT:\n" + sep + "\t1 2\n" +
		sep + "\tCORRECT OUTPUT:\n" + sep + "\t3\n" +
		sep + "\tYOUR OUTPUT:\n" + sep + "\t4\n" + sep
	assert.Equal(t, want, buf.String())
}
