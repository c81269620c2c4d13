package grader

import (
	"context"
	"fmt"
	"time"

	"github.com/programme-lv/grader/internal/compare"
	"github.com/programme-lv/grader/internal/discovery"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/runner"
	"github.com/programme-lv/grader/internal/verdict"
)

// Compare runs reference and candidate on every discovered test and judges the candidate's
// output against the reference's. A failing reference yields an Error verdict. With
// onlyFailures set, tests that were cleanly accepted are not reported but still counted.
func (g *Grader) Compare(ctx context.Context, reference, candidate lang.Program, onlyFailures bool) (Summary, error) {
	if reference.Source == candidate.Source {
		return Summary{}, fmt.Errorf("%w: %s", ErrSameProgram, reference.Source)
	}
	if reference.Lang.Compiled() && candidate.Lang.Compiled() && reference.Bin() == candidate.Bin() {
		return Summary{}, fmt.Errorf("%w: %s and %s build the same executable", ErrSameProgram, reference, candidate)
	}

	g.gath.StartRun(ModeCompare, []string{reference.String(), candidate.String()})
	sum, err := g.comparePrograms(ctx, g.gath, reference, candidate, onlyFailures)
	finish(g.gath, sum, err)
	return sum, err
}

func (g *Grader) comparePrograms(ctx context.Context, gath Gatherer, reference, candidate lang.Program, onlyFailures bool) (Summary, error) {
	if err := g.compile(ctx, gath, reference); err != nil {
		return Summary{}, err
	}
	if err := g.compile(ctx, gath, candidate); err != nil {
		return Summary{}, err
	}
	tests, err := g.discover()
	if err != nil {
		return Summary{}, err
	}
	if len(tests) == 0 {
		return Summary{}, ErrNoTests
	}
	referenceOut := referenceOutput(reference, candidate)
	if err := checkOutputs(tests, referenceOut, candidate.OutputPath()); err != nil {
		return Summary{}, err
	}
	return g.compareTests(ctx, gath, tests, reference, candidate, onlyFailures, referenceOut)
}

// compareTests assumes both programs are built. referenceOut is where the reference's
// output goes so that concurrent sweeps do not share a file.
func (g *Grader) compareTests(
	ctx context.Context,
	gath Gatherer,
	tests []discovery.TestCase,
	reference, candidate lang.Program,
	onlyFailures bool,
	referenceOut string,
) (Summary, error) {
	var sum Summary
	gath.StartTesting()
	for _, tc := range tests {
		gath.ReachTest(tc.Label)

		v, err := g.compareTest(ctx, tc, reference, candidate, referenceOut)
		if err != nil {
			return sum, err
		}
		if !onlyFailures || !v.Clean() {
			gath.FinishTest(tc.Label, v)
		}
		sum.Add(v)
	}
	return sum, nil
}

func (g *Grader) compareTest(ctx context.Context, tc discovery.TestCase, reference, candidate lang.Program, referenceOut string) (verdict.Verdict, error) {
	tl := g.opts.TimeLimit

	ref, err := g.runner.Execute(ctx, reference, tc.InputPath, tl, runner.WithOutputPath(referenceOut))
	if err != nil {
		return verdict.Verdict{}, fmt.Errorf("failed to run reference on test %s: %w", tc.Label, err)
	}
	logStderr(reference, tc.Label, ref)

	cand, err := g.runner.Execute(ctx, candidate, tc.InputPath, tl)
	if err != nil {
		return verdict.Verdict{}, fmt.Errorf("failed to run candidate on test %s: %w", tc.Label, err)
	}
	logStderr(candidate, tc.Label, cand)

	if !ref.Outcome.Success() {
		return verdict.Reference(ref.Outcome), nil
	}

	v, err := verdict.Classify(ctx, cand, tl, func(ctx context.Context) (compare.Result, error) {
		return g.cmp.Compare(ctx, tc.InputPath, ref.OutputPath, cand.OutputPath)
	})
	if err != nil {
		return verdict.Verdict{}, fmt.Errorf("failed to check test %s: %w", tc.Label, err)
	}
	if len(v.Elapsed) > 0 {
		v.Elapsed = []time.Duration{ref.Elapsed, cand.Elapsed}
	}
	return v, nil
}
