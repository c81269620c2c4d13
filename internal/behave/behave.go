// Package behave runs grading scenarios described in TOML files: a program, a few tests
// and the verdicts the grader is expected to reach.
package behave

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/compare"
	"github.com/programme-lv/grader/internal/discovery"
	"github.com/programme-lv/grader/internal/gatherer/respbuilder"
	"github.com/programme-lv/grader/internal/grader"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/runner"
)

// SpecTest is a single test case in the behaviour file
type SpecTest struct {
	In  string `toml:"in"`
	Ans string `toml:"ans"`
}

// SpecProgram is a source file written next to the tests
type SpecProgram struct {
	Fname string `toml:"fname"`
	Code  string `toml:"code"`
}

// SpecExpect describes the expected run status and per-test verdicts
type SpecExpect struct {
	Status   string   `toml:"status"`
	Verdicts []string `toml:"verdicts"`
	Correct  *int     `toml:"correct"`
}

// specSuite maps to [[scenarios]] entries
type specSuite struct {
	Description string       `toml:"description"`
	Mode        string       `toml:"mode"`
	TimeLimitMs int          `toml:"time_limit_ms"`
	Program     SpecProgram  `toml:"program"`
	Reference   *SpecProgram `toml:"reference"`
	Tests       []SpecTest   `toml:"tests"`
	Expect      SpecExpect   `toml:"expect"`
}

type specRoot struct {
	Suites []specSuite `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML
type Case struct {
	Name      string
	Mode      string
	TimeLimit time.Duration
	Program   SpecProgram
	Reference *SpecProgram
	Tests     []SpecTest
	Expect    SpecExpect
}

// Parse reads a behaviour TOML file and converts it to runnable cases
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	return ParseBytes(data)
}

func ParseBytes(data []byte) ([]Case, error) {
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cases := make([]Case, 0, len(root.Suites))
	for _, suite := range root.Suites {
		if suite.Program.Fname == "" {
			return nil, fmt.Errorf("scenario %q is missing program.fname", suite.Description)
		}
		mode := suite.Mode
		if mode == "" {
			mode = grader.ModeGrade
		}
		switch mode {
		case grader.ModeGrade, grader.ModeOutput:
		case grader.ModeCompare:
			if suite.Reference == nil || suite.Reference.Fname == "" {
				return nil, fmt.Errorf("scenario %q compares but has no reference", suite.Description)
			}
		default:
			return nil, fmt.Errorf("scenario %q has unsupported mode %q", suite.Description, mode)
		}

		tl := time.Duration(suite.TimeLimitMs) * time.Millisecond
		if tl == 0 {
			tl = 2 * time.Second
		}

		cases = append(cases, Case{
			Name:      suite.Description,
			Mode:      mode,
			TimeLimit: tl,
			Program:   suite.Program,
			Reference: suite.Reference,
			Tests:     suite.Tests,
			Expect:    suite.Expect,
		})
	}
	return cases, nil
}

// Extensions lists the file extensions of the programs c needs.
func (c Case) Extensions() []string {
	exts := []string{filepath.Ext(c.Program.Fname)}
	if c.Reference != nil {
		exts = append(exts, filepath.Ext(c.Reference.Fname))
	}
	return exts
}

// Run writes c into dir, grades it and returns the resulting report.
func (c Case) Run(ctx context.Context, reg *lang.Registry, dir string) (api.RunReport, error) {
	for i, t := range c.Tests {
		label := strconv.Itoa(i + 1)
		if err := os.WriteFile(filepath.Join(dir, label+".in"), []byte(t.In), 0644); err != nil {
			return api.RunReport{}, fmt.Errorf("failed to write test input: %w", err)
		}
		if c.Mode == grader.ModeGrade {
			if err := os.WriteFile(filepath.Join(dir, label+".out"), []byte(t.Ans), 0644); err != nil {
				return api.RunReport{}, fmt.Errorf("failed to write test answer: %w", err)
			}
		}
	}

	prog, err := writeProgram(reg, dir, c.Program)
	if err != nil {
		return api.RunReport{}, err
	}

	builder := respbuilder.New(uuid.NewString())
	builder.IsCompileError = func(err error) bool { return errors.Is(err, grader.ErrCompile) }
	g := grader.New(
		grader.Options{
			TimeLimit: c.TimeLimit,
			Dir:       dir,
			Input:     discovery.MustParsePattern("$.in"),
			Answer:    discovery.MustParsePattern("$.out"),
		},
		runner.New(runner.DefaultGrace),
		&lang.Compiler{},
		compare.NewTokenComparator(compare.DefaultEpsilon),
		builder,
	)

	switch c.Mode {
	case grader.ModeOutput:
		_, err = g.DumpOutput(ctx, prog)
	case grader.ModeCompare:
		var ref lang.Program
		ref, err = writeProgram(reg, dir, *c.Reference)
		if err != nil {
			return api.RunReport{}, err
		}
		_, err = g.Compare(ctx, ref, prog, false)
	default:
		_, err = g.Grade(ctx, prog)
	}
	report := builder.Response()
	if err != nil && !errors.Is(err, grader.ErrCompile) && !errors.Is(err, grader.ErrNoTests) {
		return report, err
	}
	return report, nil
}

func writeProgram(reg *lang.Registry, dir string, p SpecProgram) (lang.Program, error) {
	path := filepath.Join(dir, p.Fname)
	if err := os.WriteFile(path, []byte(p.Code), 0644); err != nil {
		return lang.Program{}, fmt.Errorf("failed to write %s: %w", p.Fname, err)
	}
	return reg.Program(path)
}

// Check compares a report with the scenario's expectations.
func (c Case) Check(r api.RunReport) error {
	if c.Expect.Status != "" && string(r.Status) != c.Expect.Status {
		return fmt.Errorf("expected status %s, got %s", c.Expect.Status, r.Status)
	}
	if c.Expect.Verdicts != nil {
		got := make([]string, len(r.Tests))
		for i, t := range r.Tests {
			got[i] = t.Verdict
		}
		if !slices.Equal(got, c.Expect.Verdicts) {
			return fmt.Errorf("expected verdicts %v, got %v", c.Expect.Verdicts, got)
		}
	}
	if c.Expect.Correct != nil && *c.Expect.Correct != r.Correct {
		return fmt.Errorf("expected %d correct, got %d", *c.Expect.Correct, r.Correct)
	}
	return nil
}
