// Package grader drives programs through compilation, test discovery, execution and
// classification, and aggregates the verdicts.
package grader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/programme-lv/grader/internal/compare"
	"github.com/programme-lv/grader/internal/discovery"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/runner"
	"github.com/programme-lv/grader/internal/verdict"
)

var (
	ErrMissingAnswer  = errors.New("expected output file missing")
	ErrCheckerPrepare = errors.New("failed to prepare checker")
	ErrCompile        = errors.New("compilation failed")
	ErrNoTests        = errors.New("no tests found")
	ErrSameProgram    = errors.New("can't compare a program against itself")
	ErrOutputClash    = errors.New("program output would overwrite a test file")
)

const (
	ModeGrade   = "grade"
	ModeOutput  = "output"
	ModeCompare = "compare"
	ModeSweep   = "sweep"
)

// Summary is the aggregate of a run.
type Summary = verdict.Summary

// Compiler builds a program before it is run.
type Compiler interface {
	Compile(ctx context.Context, p lang.Program) (lang.Build, error)
}

// Options are the per-invocation settings of a Grader.
type Options struct {
	TimeLimit time.Duration
	// Dir is the directory tests are discovered in.
	Dir    string
	Input  discovery.Pattern
	Answer discovery.Pattern
	// Debug attaches input, expected and actual contents to wrong answers in grade mode.
	Debug bool
	// Parallel bounds how many submissions a sweep evaluates at once. Values below 2 keep
	// the sweep sequential.
	Parallel int
}

type Grader struct {
	opts     Options
	runner   *runner.Runner
	compiler Compiler
	cmp      compare.Comparator
	gath     Gatherer
	list     discovery.ListFunc

	out  io.Writer
	fork func(w io.Writer) Gatherer
}

type Option func(*Grader)

// WithLister replaces the directory listing used for test discovery.
func WithLister(list discovery.ListFunc) Option {
	return func(g *Grader) { g.list = list }
}

// WithFork lets parallel sweeps give each submission its own gatherer writing into a
// buffer; the buffers are copied to out in submission order.
func WithFork(out io.Writer, fork func(w io.Writer) Gatherer) Option {
	return func(g *Grader) {
		g.out = out
		g.fork = fork
	}
}

func New(opts Options, r *runner.Runner, c Compiler, cmp compare.Comparator, gath Gatherer, options ...Option) *Grader {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	g := &Grader{
		opts:     opts,
		runner:   r,
		compiler: c,
		cmp:      cmp,
		gath:     gath,
		list:     discovery.DirLister(opts.Dir),
	}
	for _, o := range options {
		o(g)
	}
	return g
}

// compile builds p, reporting the step to gath.
func (g *Grader) compile(ctx context.Context, gath Gatherer, p lang.Program) error {
	gath.StartCompile(p.String())
	b, err := g.compiler.Compile(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", p, err)
	}
	gath.FinishCompile(p.String(), b)
	if !b.OK {
		return fmt.Errorf("%w: %s", ErrCompile, p)
	}
	return nil
}

func (g *Grader) discover() ([]discovery.TestCase, error) {
	tests, err := discovery.Discover(g.opts.Dir, g.list, g.opts.Input, g.opts.Answer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover tests: %w", err)
	}
	slog.Debug("discovered tests", "count", len(tests), "pattern", g.opts.Input.String())
	return tests, nil
}

func (g *Grader) answerPath(tc discovery.TestCase) string {
	return filepath.Join(g.opts.Dir, g.opts.Answer.Path(tc.Label))
}

// referenceOutput is the file the reference writes on each test. It is kept apart from the
// candidate's output when both programs share a base name, as sol.cpp and sol.py do.
func referenceOutput(reference, candidate lang.Program) string {
	if reference.OutputPath() == candidate.OutputPath() {
		return reference.Bin() + ".ref.out"
	}
	return reference.OutputPath()
}

// checkOutputs fails with ErrOutputClash when one of the output files is also an input or
// expected output of a test.
func checkOutputs(tests []discovery.TestCase, outputs ...string) error {
	for _, tc := range tests {
		for _, testPath := range []string{tc.InputPath, tc.AnswerPath} {
			if testPath == "" {
				continue
			}
			abs, err := filepath.Abs(testPath)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", testPath, err)
			}
			for _, out := range outputs {
				if filepath.Clean(out) == abs {
					return fmt.Errorf("%w: %s", ErrOutputClash, testPath)
				}
			}
		}
	}
	return nil
}

// finish closes the run on gath. Running out of tests is still a finished run so that
// the empty report is shown.
func finish(gath Gatherer, sum Summary, err error) {
	if err == nil || errors.Is(err, ErrNoTests) {
		gath.FinishRun(sum)
		return
	}
	gath.FinishWithError(err)
}
