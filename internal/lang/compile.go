package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/programme-lv/grader/internal/buildcache"
)

// Build is the outcome of a compile step.
type Build struct {
	OK       bool
	Skipped  bool // interpreted language, nothing to do
	Cached   bool
	Command  string
	Output   []byte // compiler stdout and stderr
	Duration time.Duration
}

// Compiler runs the build step of programs.
type Compiler struct {
	// Debug selects the language's debug compile command when it has one.
	Debug bool
	// Cache is optional; nil disables build caching.
	Cache *buildcache.Cache
}

// Compile builds p. A toolchain rejecting the source is reported through Build.OK; an error
// means the compiler could not be run at all.
func (c *Compiler) Compile(ctx context.Context, p Program) (Build, error) {
	argv, err := p.CompileCommand(c.Debug)
	if err != nil {
		return Build{}, err
	}
	if argv == nil {
		return Build{OK: true, Skipped: true}, nil
	}

	build := Build{Command: strings.Join(argv, " ")}

	var key string
	if c.Cache != nil && p.Lang.Cache {
		source, err := os.ReadFile(p.Source)
		if err != nil {
			return Build{}, fmt.Errorf("failed to read source %s: %w", p.Source, err)
		}
		key = buildcache.Key([]byte(p.Lang.ID), []byte(p.compileTemplate(c.Debug)), source)
		hit, err := c.Cache.Restore(key, p.Bin())
		if err != nil {
			slog.Warn("build cache restore failed", "program", p.String(), "err", err)
		}
		if hit {
			slog.Debug("build cache hit", "program", p.String(), "key", key[:12])
			build.OK = true
			build.Cached = true
			return build, nil
		}
	}

	slog.Debug("compiling", "program", p.String(), "cmd", build.Command)
	start := time.Now()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = p.Dir()
	build.Output, err = cmd.CombinedOutput()
	build.Duration = time.Since(start)
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return build, fmt.Errorf("failed to run compiler %s: %w", argv[0], err)
		}
		slog.Debug("compilation failed", "program", p.String(), "exit", exitErr.ExitCode())
		return build, nil
	}
	build.OK = true

	if key != "" {
		if err := c.Cache.Store(key, p.Bin()); err != nil {
			slog.Warn("build cache store failed", "program", p.String(), "err", err)
		}
	}
	return build, nil
}
