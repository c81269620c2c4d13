package grader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/programme-lv/grader/internal/compare"
	"github.com/programme-lv/grader/internal/discovery"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/runner"
	"github.com/programme-lv/grader/internal/testfile"
	"github.com/programme-lv/grader/internal/verdict"
)

// Grade runs p on every discovered test and compares its output with the expected one.
// A test without an expected output aborts the run with ErrMissingAnswer.
func (g *Grader) Grade(ctx context.Context, p lang.Program) (Summary, error) {
	g.gath.StartRun(ModeGrade, []string{p.String()})
	sum, err := g.grade(ctx, p)
	finish(g.gath, sum, err)
	return sum, err
}

func (g *Grader) grade(ctx context.Context, p lang.Program) (Summary, error) {
	var sum Summary
	if err := g.compile(ctx, g.gath, p); err != nil {
		return sum, err
	}
	tests, err := g.discover()
	if err != nil {
		return sum, err
	}
	if len(tests) == 0 {
		return sum, ErrNoTests
	}
	if err := checkOutputs(tests, p.OutputPath()); err != nil {
		return sum, err
	}

	g.gath.StartTesting()
	for _, tc := range tests {
		if !tc.HasAnswer() {
			return sum, fmt.Errorf("%w: %s", ErrMissingAnswer, g.answerPath(tc))
		}
		g.gath.ReachTest(tc.Label)

		res, err := g.runner.Execute(ctx, p, tc.InputPath, g.opts.TimeLimit)
		if err != nil {
			return sum, fmt.Errorf("failed to run test %s: %w", tc.Label, err)
		}
		logStderr(p, tc.Label, res)

		v, err := verdict.Classify(ctx, res, g.opts.TimeLimit, func(ctx context.Context) (compare.Result, error) {
			return g.cmp.Compare(ctx, tc.InputPath, tc.AnswerPath, res.OutputPath)
		})
		if err != nil {
			return sum, fmt.Errorf("failed to check test %s: %w", tc.Label, err)
		}
		g.gath.FinishTest(tc.Label, v)

		if g.opts.Debug && v.Primary == verdict.WrongAnswer {
			m, err := readMismatch(tc, res.OutputPath)
			if err != nil {
				slog.Warn("failed to read files for debug report", "test", tc.Label, "err", err)
			} else {
				g.gath.ReportMismatch(tc.Label, m)
			}
		}
		sum.Add(v)
	}
	return sum, nil
}

// DumpOutput runs p on every discovered test and reports the produced tokens instead of
// judging them. Only failed runs and the time limit affect the verdict.
func (g *Grader) DumpOutput(ctx context.Context, p lang.Program) (Summary, error) {
	g.gath.StartRun(ModeOutput, []string{p.String()})
	sum, err := g.dumpOutput(ctx, p)
	finish(g.gath, sum, err)
	return sum, err
}

func (g *Grader) dumpOutput(ctx context.Context, p lang.Program) (Summary, error) {
	var sum Summary
	if err := g.compile(ctx, g.gath, p); err != nil {
		return sum, err
	}
	tests, err := g.discover()
	if err != nil {
		return sum, err
	}
	if len(tests) == 0 {
		return sum, ErrNoTests
	}
	if err := checkOutputs(tests, p.OutputPath()); err != nil {
		return sum, err
	}

	g.gath.StartTesting()
	for _, tc := range tests {
		g.gath.ReachTest(tc.Label)

		res, err := g.runner.Execute(ctx, p, tc.InputPath, g.opts.TimeLimit)
		if err != nil {
			return sum, fmt.Errorf("failed to run test %s: %w", tc.Label, err)
		}
		logStderr(p, tc.Label, res)

		v, err := verdict.Classify(ctx, res, g.opts.TimeLimit, func(context.Context) (compare.Result, error) {
			tokens, err := compare.ReadTokens(res.OutputPath)
			if err != nil {
				return compare.Result{}, err
			}
			return compare.Result{Accepted: true, Message: fmt.Sprint(tokens)}, nil
		})
		if err != nil {
			return sum, fmt.Errorf("failed to read output of test %s: %w", tc.Label, err)
		}
		g.gath.FinishTest(tc.Label, v)
		sum.Add(v)
	}
	return sum, nil
}

func readMismatch(tc discovery.TestCase, actualPath string) (verdict.Mismatch, error) {
	var m verdict.Mismatch
	files := []struct {
		path string
		dst  *string
	}{
		{tc.InputPath, &m.Input},
		{tc.AnswerPath, &m.Expected},
		{actualPath, &m.Actual},
	}
	var errs []error
	for _, f := range files {
		b, err := testfile.ReadAll(f.path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*f.dst = string(b)
	}
	return m, errors.Join(errs...)
}

func logStderr(p lang.Program, label string, res runner.Result) {
	if len(res.Stderr) == 0 {
		return
	}
	slog.Debug("program wrote to stderr",
		"program", p.String(),
		"test", label,
		"elapsed", res.Elapsed.Round(time.Millisecond),
		"stderr", string(res.Stderr))
}
