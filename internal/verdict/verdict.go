// Package verdict classifies a test run into Accepted, WrongAnswer, RuntimeError,
// TimeLimitExceeded or Error.
package verdict

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/programme-lv/grader/internal/compare"
	"github.com/programme-lv/grader/internal/runner"
)

type Primary int

const (
	Accepted Primary = iota
	WrongAnswer
	RuntimeError
	TimeLimitExceeded
	// Error means the harness's own baseline failed, e.g. the reference solution crashed.
	Error
)

// Code is the one-letter code shown in the test table.
func (p Primary) Code() string {
	switch p {
	case Accepted:
		return "A"
	case WrongAnswer:
		return "W"
	case RuntimeError:
		return "R"
	case TimeLimitExceeded:
		return "T"
	case Error:
		return "E"
	}
	return "?"
}

func (p Primary) String() string {
	switch p {
	case Accepted:
		return "Accepted"
	case WrongAnswer:
		return "WrongAnswer"
	case RuntimeError:
		return "RuntimeError"
	case TimeLimitExceeded:
		return "TimeLimitExceeded"
	case Error:
		return "Error"
	}
	return fmt.Sprintf("Primary(%d)", int(p))
}

// Verdict is the classification of one test. OverTime is only set together with Accepted or
// WrongAnswer: the program finished within the grace margin but after the time limit.
type Verdict struct {
	Primary  Primary
	OverTime bool
	Message  string
	// Elapsed holds the run times worth showing: one for a single program, two (reference,
	// candidate) in compare mode. Empty when no time is meaningful.
	Elapsed []time.Duration
}

// Correct reports whether the test counts towards the passed total.
func (v Verdict) Correct() bool {
	return v.Primary == Accepted
}

// Clean reports a plain Accepted without the over-time flag.
func (v Verdict) Clean() bool {
	return v.Primary == Accepted && !v.OverTime
}

// Code renders the compound code, e.g. "A", "WT", "R".
func (v Verdict) Code() string {
	if v.OverTime {
		return v.Primary.Code() + TimeLimitExceeded.Code()
	}
	return v.Primary.Code()
}

// ShowsTime reports whether the elapsed time belongs in the report line.
func (v Verdict) ShowsTime() bool {
	return len(v.Elapsed) > 0 && (v.Primary == Accepted || v.Primary == WrongAnswer)
}

// FormatElapsed renders Elapsed as "0.12s" or "0.10s, 0.12s".
func (v Verdict) FormatElapsed() string {
	parts := make([]string, len(v.Elapsed))
	for i, d := range v.Elapsed {
		parts[i] = fmt.Sprintf("%.2fs", d.Seconds())
	}
	return strings.Join(parts, ", ")
}

// FromOutcome classifies a run that did not exit successfully. The output is never looked at.
func FromOutcome(o runner.Outcome) Verdict {
	switch {
	case o.Kind == runner.TimedOut:
		return Verdict{Primary: TimeLimitExceeded, Message: "time limit exceeded"}
	case o.Segfault():
		return Verdict{Primary: RuntimeError, Message: "stack size exceeded?"}
	case o.Kind == runner.Signaled:
		return Verdict{Primary: RuntimeError, Message: fmt.Sprintf("killed by signal %s", o.Signal)}
	case o.Kind == runner.LaunchFailed:
		return Verdict{Primary: RuntimeError, Message: fmt.Sprintf("failed to launch: %v", o.Err)}
	case o.Kind == runner.NonZeroExit:
		return Verdict{Primary: RuntimeError, Message: fmt.Sprintf("exit code %d", o.ExitCode)}
	}
	panic(fmt.Sprintf("verdict: outcome %s is not a failure", o.Kind))
}

// CompareFunc produces the comparator result for a successful run.
type CompareFunc func(ctx context.Context) (compare.Result, error)

// Classify turns a finished run into a verdict. Failed runs are classified from the outcome
// alone; successful runs get the comparator's verdict, flagged OverTime if elapsed exceeds
// tl.
func Classify(ctx context.Context, res runner.Result, tl time.Duration, cmp CompareFunc) (Verdict, error) {
	if !res.Outcome.Success() {
		return FromOutcome(res.Outcome), nil
	}

	c, err := cmp(ctx)
	if err != nil {
		return Verdict{}, err
	}

	v := Verdict{Primary: WrongAnswer, Message: c.Message, Elapsed: []time.Duration{res.Elapsed}}
	if c.Accepted {
		v.Primary = Accepted
	}
	v.OverTime = res.Elapsed > tl
	return v, nil
}

// Reference classifies a failed run of the reference solution in compare mode.
func Reference(o runner.Outcome) Verdict {
	v := FromOutcome(o)
	return Verdict{
		Primary: Error,
		Message: "reference solution gave " + v.Message,
	}
}

// Summary aggregates verdicts over a run.
type Summary struct {
	Total   int
	Correct int
}

// Add counts v towards the summary.
func (s *Summary) Add(v Verdict) {
	s.Total++
	if v.Correct() {
		s.Correct++
	}
}

// Perfect reports a non-empty run where every test was correct.
func (s Summary) Perfect() bool {
	return s.Total > 0 && s.Correct == s.Total
}

// Mismatch holds the file contents shown for a wrong answer in debug mode.
type Mismatch struct {
	Input    string
	Expected string
	Actual   string
}
