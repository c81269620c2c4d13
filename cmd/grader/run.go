package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/programme-lv/grader/internal/buildcache"
	"github.com/programme-lv/grader/internal/compare"
	"github.com/programme-lv/grader/internal/config"
	"github.com/programme-lv/grader/internal/gatherer/multigath"
	"github.com/programme-lv/grader/internal/gatherer/natsgath"
	"github.com/programme-lv/grader/internal/gatherer/respbuilder"
	"github.com/programme-lv/grader/internal/gatherer/sqsgath"
	"github.com/programme-lv/grader/internal/gatherer/termgath"
	"github.com/programme-lv/grader/internal/grader"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/runner"
	"github.com/programme-lv/grader/internal/xdg"
	"github.com/urfave/cli/v3"
)

const (
	exitFatal = 1
	exitUsage = 2
)

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("must have exactly one program argument, for help use --help", exitUsage)
	}
	modes := 0
	for _, name := range []string{"output", "correct", "grade"} {
		if cmd.IsSet(name) {
			modes++
		}
	}
	if modes > 1 {
		return cli.Exit("at most one of --output, --correct and --grade may be given", exitUsage)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if cfg.Debug {
		setupLogger(slog.LevelDebug)
	}

	dirs := xdg.New("grader")
	reg, compiler, err := setupLanguages(cfg, dirs)
	if err != nil {
		return cli.Exit(err.Error(), exitFatal)
	}

	prog, err := reg.Resolve(cmd.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), exitFatal)
	}
	if cmd.IsSet("time") {
		slog.Info("time limit set", "seconds", cfg.TimeLimit.Seconds())
	}

	cmp, err := setupComparator(ctx, cfg, reg, compiler)
	if err != nil {
		return cli.Exit(err.Error(), exitFatal)
	}

	sinks, err := setupSinks(ctx, cfg, uuid.NewString())
	if err != nil {
		return cli.Exit(err.Error(), exitFatal)
	}
	defer sinks.close()

	dir, in, ans, err := cfg.Layout()
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	g := grader.New(
		grader.Options{
			TimeLimit: cfg.TimeLimit,
			Dir:       dir,
			Input:     in,
			Answer:    ans,
			Debug:     cfg.Debug,
			Parallel:  cfg.Parallel,
		},
		runner.New(cfg.Grace),
		compiler,
		cmp,
		sinks.gatherer(),
		grader.WithFork(os.Stdout, sinks.fork),
	)

	switch {
	case cmd.IsSet("grade"):
		var subs []lang.Program
		subs, err = findSubmissions(cfg, reg, ".")
		if err == nil {
			_, err = g.Sweep(ctx, prog, subs, cmd.String("start"))
		}
	case cmd.IsSet("correct"):
		var ref lang.Program
		ref, err = reg.Resolve(cmd.String("correct"))
		if err != nil {
			return cli.Exit(err.Error(), exitFatal)
		}
		_, err = g.Compare(ctx, ref, prog, false)
	case cmd.IsSet("output"):
		_, err = g.DumpOutput(ctx, prog)
	default:
		_, err = g.Grade(ctx, prog)
	}

	if reportErr := sinks.writeReport(cfg.ReportPath); reportErr != nil {
		slog.Error("failed to write report", "path", cfg.ReportPath, "err", reportErr)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, grader.ErrSameProgram):
		return cli.Exit(err.Error(), exitFatal)
	default:
		// the terminal gatherer has already printed the error
		slog.Debug("run failed", "err", err)
		return cli.Exit("", exitFatal)
	}
}

func setupLanguages(cfg config.Config, dirs *xdg.Dirs) (*lang.Registry, *lang.Compiler, error) {
	files := []string{filepath.Join(dirs.ConfigDir(), "languages.toml")}
	if cfg.LanguagesFile != "" {
		if _, err := os.Stat(cfg.LanguagesFile); err != nil {
			return nil, nil, fmt.Errorf("failed to open languages file: %w", err)
		}
		files = append(files, cfg.LanguagesFile)
	}
	reg, err := lang.Load(files...)
	if err != nil {
		return nil, nil, err
	}

	compiler := &lang.Compiler{Debug: cfg.Debug}
	if !cfg.NoCache {
		cache, err := buildcache.New(dirs.CacheDir("builds"))
		if err != nil {
			slog.Warn("build cache disabled", "err", err)
		} else {
			compiler.Cache = cache
		}
	}
	return reg, compiler, nil
}

func setupComparator(ctx context.Context, cfg config.Config, reg *lang.Registry, compiler *lang.Compiler) (compare.Comparator, error) {
	if cfg.Checker == "" {
		return compare.NewTokenComparator(cfg.Epsilon), nil
	}

	checker, err := reg.Resolve(cfg.Checker)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", grader.ErrCheckerPrepare, err)
	}
	build, err := compiler.Compile(ctx, checker)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", grader.ErrCheckerPrepare, err)
	}
	if !build.OK {
		os.Stderr.Write(build.Output)
		return nil, fmt.Errorf("%w: %s did not compile", grader.ErrCheckerPrepare, checker)
	}
	slog.Info("checker set", "checker", checker.String())
	return compare.NewExternalChecker(checker), nil
}

// findSubmissions walks root for recognized sources whose file name matches the sweep
// pattern.
func findSubmissions(cfg config.Config, reg *lang.Registry, root string) ([]lang.Program, error) {
	re, err := cfg.SweepRegexp()
	if err != nil {
		return nil, err
	}

	var subs []lang.Program
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !re.MatchString(d.Name()) || !reg.Recognized(path) {
			return nil
		}
		p, err := reg.Program(path)
		if err != nil {
			return err
		}
		subs = append(subs, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	slog.Debug("found submissions", "count", len(subs), "pattern", re.String())
	return subs, nil
}

// sinks are the destinations of run events.
type sinks struct {
	builder *respbuilder.Builder
	streams []grader.Gatherer
	closers []func()
}

func setupSinks(ctx context.Context, cfg config.Config, runUuid string) (*sinks, error) {
	s := &sinks{builder: respbuilder.New(runUuid)}
	s.builder.IsCompileError = func(err error) bool { return errors.Is(err, grader.ErrCompile) }

	if cfg.NATSURL != "" {
		nc, err := natsgath.Connect(cfg.NATSURL)
		if err != nil {
			return nil, err
		}
		s.streams = append(s.streams, natsgath.New(nc, runUuid, cfg.NATSSubject))
		s.closers = append(s.closers, func() {
			if err := nc.Flush(); err != nil {
				slog.Warn("failed to flush NATS connection", "err", err)
			}
			nc.Close()
		})
	}

	if cfg.SQSURL != "" {
		client, err := sqsgath.NewClient(ctx, cfg.SQSRegion)
		if err != nil {
			return nil, err
		}
		s.streams = append(s.streams, sqsgath.New(client, runUuid, cfg.SQSURL))
	}

	slog.Debug("run started", "run_uuid", runUuid, "streams", len(s.streams))
	return s, nil
}

func (s *sinks) gatherer() grader.Gatherer {
	m := multigath.New(termgath.New(os.Stdout), s.builder)
	for _, g := range s.streams {
		m.Add(g)
	}
	return m
}

// fork is the gatherer of one submission in a parallel sweep.
func (s *sinks) fork(w io.Writer) grader.Gatherer {
	m := multigath.New(termgath.New(w))
	for _, g := range s.streams {
		m.Add(g)
	}
	return m
}

func (s *sinks) writeReport(path string) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.builder.Response(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (s *sinks) close() {
	for _, c := range s.closers {
		c()
	}
}
