package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/testfile"
)

// DefaultCheckerTimeout bounds a single checker invocation.
const DefaultCheckerTimeout = 10 * time.Second

var ErrCheckerTimeout = errors.New("checker timed out")

// ExternalChecker delegates the decision to a prepared checker program invoked as
// `checker <input> <expected> <actual>`. Exit status 0 means the outputs are equivalent.
type ExternalChecker struct {
	Program lang.Program
	Timeout time.Duration
}

func NewExternalChecker(p lang.Program) *ExternalChecker {
	return &ExternalChecker{Program: p, Timeout: DefaultCheckerTimeout}
}

// Compare runs the checker. Compressed tests are decompressed into temporary files first.
// A checker running past Timeout is killed and reported as ErrCheckerTimeout.
func (c *ExternalChecker) Compare(ctx context.Context, inputPath, expectedPath, actualPath string) (Result, error) {
	argv, err := c.Program.ExecCommand()
	if err != nil {
		return Result{}, err
	}
	for _, path := range []string{inputPath, expectedPath, actualPath} {
		plain, cleanup, err := testfile.Materialize(path)
		if err != nil {
			return Result{}, fmt.Errorf("failed to prepare %s for checker: %w", path, err)
		}
		defer cleanup()
		argv = append(argv, plain)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err == nil {
		return accepted(), nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{}, fmt.Errorf("%w after %s: %s", ErrCheckerTimeout, c.Timeout, c.Program)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Result{}, fmt.Errorf("failed to run checker %s: %w", c.Program, err)
	}
	if len(out) > 0 {
		slog.Debug("checker rejected output", "checker", c.Program.String(), "output", string(out))
	}
	return wrong("checker failed with exit code %d", exitErr.ExitCode()), nil
}
