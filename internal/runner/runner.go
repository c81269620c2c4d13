// Package runner executes a program against one test input under a wall-clock limit.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/testfile"
)

// DefaultGrace is how long past the time limit a process may run before it is killed.
const DefaultGrace = 500 * time.Millisecond

const defaultMaxStderr = 64 * 1024

// Kind tags how a process run ended.
type Kind int

const (
	Exited       Kind = iota // exit status 0
	NonZeroExit              // exited on its own with a nonzero status
	Signaled                 // terminated by a signal it did not catch
	TimedOut                 // killed by the runner after the time limit and grace
	LaunchFailed             // could not be started
)

func (k Kind) String() string {
	switch k {
	case Exited:
		return "exited"
	case NonZeroExit:
		return "nonzero_exit"
	case Signaled:
		return "signaled"
	case TimedOut:
		return "timed_out"
	case LaunchFailed:
		return "launch_failed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome describes the end of one process run. ExitCode is meaningful for NonZeroExit,
// Signal for Signaled and Err for LaunchFailed.
type Outcome struct {
	Kind     Kind
	ExitCode int
	Signal   syscall.Signal
	Err      error
}

func (o Outcome) Success() bool {
	return o.Kind == Exited
}

// Segfault reports a segmentation fault, directly or as the 128+11 status a shell reports
// for a child killed by SIGSEGV. With default stack limits this is usually a stack overflow.
func (o Outcome) Segfault() bool {
	switch o.Kind {
	case Signaled:
		return o.Signal == syscall.SIGSEGV
	case NonZeroExit:
		return o.ExitCode == 128+int(syscall.SIGSEGV)
	}
	return false
}

// Result is what a single Execute call produced.
type Result struct {
	// OutputPath holds the program's stdout. Empty when the run timed out.
	OutputPath string
	Outcome    Outcome
	Elapsed    time.Duration
	Stderr     []byte
}

type Runner struct {
	Grace     time.Duration
	MaxStderr int
}

func New(grace time.Duration) *Runner {
	return &Runner{Grace: grace, MaxStderr: defaultMaxStderr}
}

type options struct {
	outputPath string
}

type Option func(*options)

// WithOutputPath overrides the default <program>.out output file.
func WithOutputPath(path string) Option {
	return func(o *options) { o.outputPath = path }
}

// Execute runs p with stdin from inputPath and stdout to p's output file, killing it once
// tl plus the grace margin has passed. Failures of the program are described by the
// returned Outcome; the error is reserved for problems of the harness itself.
func (r *Runner) Execute(ctx context.Context, p lang.Program, inputPath string, tl time.Duration, opts ...Option) (Result, error) {
	o := options{outputPath: p.OutputPath()}
	for _, opt := range opts {
		opt(&o)
	}

	argv, err := p.ExecCommand()
	if err != nil {
		return Result{}, err
	}

	in, err := testfile.Open(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(o.outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	runCtx, cancel := context.WithTimeout(ctx, tl+r.Grace)
	defer cancel()

	stderr := &cappedBuffer{max: r.MaxStderr}
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = stderr
	cmd.WaitDelay = r.Grace
	killProcessGroup(cmd)

	slog.Debug("running", "program", p.String(), "input", inputPath, "argv", argv)

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	res := Result{
		OutputPath: o.outputPath,
		Elapsed:    elapsed,
		Stderr:     stderr.Bytes(),
	}

	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.OutputPath = ""
		res.Outcome = Outcome{Kind: TimedOut}
		return res, nil
	}

	res.Outcome = outcomeOf(cmd, err)
	return res, nil
}

func outcomeOf(cmd *exec.Cmd, err error) Outcome {
	if err == nil {
		return Outcome{Kind: Exited}
	}
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		// exited fine, a leftover child kept stderr open
		return Outcome{Kind: Exited}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return Outcome{Kind: Signaled, Signal: ws.Signal()}
		}
		return Outcome{Kind: NonZeroExit, ExitCode: exitErr.ExitCode()}
	}
	return Outcome{Kind: LaunchFailed, Err: err}
}

// cappedBuffer keeps the first max bytes written to it and discards the rest.
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
