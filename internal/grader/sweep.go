package grader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/programme-lv/grader/internal/discovery"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// SweepResult is the comparison of one submission against the reference.
type SweepResult struct {
	Submission string
	Summary    Summary
	// Err is set when the submission itself could not be evaluated, e.g. it did not compile.
	Err error
}

// Passed reports whether the submission matched the reference on every test.
func (r SweepResult) Passed() bool {
	return r.Err == nil && r.Summary.Perfect()
}

// Sweep compares every submission against reference, in file name order, starting from the
// first submission whose file name is not lexically before start. Only tests where a
// submission differs from the reference are reported. The returned summary counts
// submissions rather than tests.
func (g *Grader) Sweep(ctx context.Context, reference lang.Program, submissions []lang.Program, start string) ([]SweepResult, error) {
	subs := selectSubmissions(reference, submissions, start)
	slog.Debug("sweeping submissions", "selected", len(subs), "found", len(submissions), "start", start)

	g.gath.StartRun(ModeSweep, []string{reference.String()})
	results, err := g.sweep(ctx, reference, subs)

	var sum Summary
	for _, r := range results {
		sum.Total++
		if r.Passed() {
			sum.Correct++
		}
	}
	finish(g.gath, sum, err)
	return results, err
}

func (g *Grader) sweep(ctx context.Context, reference lang.Program, subs []lang.Program) ([]SweepResult, error) {
	if err := g.compile(ctx, g.gath, reference); err != nil {
		return nil, err
	}
	tests, err := g.discover()
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return nil, ErrNoTests
	}

	if err := checkOutputs(tests, reference.OutputPath()); err != nil {
		return nil, err
	}

	if g.opts.Parallel > 1 && g.fork != nil {
		return g.sweepParallel(ctx, tests, reference, subs)
	}

	results := make([]SweepResult, 0, len(subs))
	for _, sub := range subs {
		r, err := g.sweepOne(ctx, g.gath, tests, reference, sub, referenceOutput(reference, sub))
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

type sweepOutput struct {
	result SweepResult
	text   []byte
}

func (g *Grader) sweepParallel(ctx context.Context, tests []discovery.TestCase, reference lang.Program, subs []lang.Program) ([]SweepResult, error) {
	collected := xsync.NewMapOf[int, sweepOutput]()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Parallel)
	for i, sub := range subs {
		eg.Go(func() error {
			var buf bytes.Buffer
			referenceOut := fmt.Sprintf("%s.sweep%d.out", reference.Bin(), i)
			defer os.Remove(referenceOut)

			r, err := g.sweepOne(ctx, g.fork(&buf), tests, reference, sub, referenceOut)
			collected.Store(i, sweepOutput{result: r, text: buf.Bytes()})
			return err
		})
	}
	err := eg.Wait()

	results := make([]SweepResult, 0, collected.Size())
	for i := range subs {
		o, ok := collected.Load(i)
		if !ok {
			continue
		}
		if _, werr := g.out.Write(o.text); werr != nil {
			slog.Warn("failed to write sweep output", "submission", o.result.Submission, "err", werr)
		}
		results = append(results, o.result)
	}
	return results, err
}

// sweepOne compares a single submission. A submission that fails to compile or would
// overwrite a test file is recorded in its result; any other error stops the sweep.
func (g *Grader) sweepOne(
	ctx context.Context,
	gath Gatherer,
	tests []discovery.TestCase,
	reference, sub lang.Program,
	referenceOut string,
) (SweepResult, error) {
	gath.StartRun(ModeCompare, []string{reference.String(), sub.String()})

	res := SweepResult{Submission: sub.Source}
	err := checkOutputs(tests, sub.OutputPath())
	if err == nil {
		err = g.compile(ctx, gath, sub)
	}
	if err == nil {
		res.Summary, err = g.compareTests(ctx, gath, tests, reference, sub, true, referenceOut)
	}
	finish(gath, res.Summary, err)

	if errors.Is(err, ErrCompile) || errors.Is(err, ErrOutputClash) {
		res.Err = err
		return res, nil
	}
	return res, err
}

func selectSubmissions(reference lang.Program, submissions []lang.Program, start string) []lang.Program {
	sorted := slices.Clone(submissions)
	slices.SortFunc(sorted, func(a, b lang.Program) int {
		if c := strings.Compare(filepath.Base(a.Source), filepath.Base(b.Source)); c != 0 {
			return c
		}
		return strings.Compare(a.Source, b.Source)
	})

	subs := make([]lang.Program, 0, len(sorted))
	for _, s := range sorted {
		if s.Source == reference.Source {
			continue
		}
		if start != "" && filepath.Base(s.Source) < start {
			continue
		}
		subs = append(subs, s)
	}
	return subs
}
