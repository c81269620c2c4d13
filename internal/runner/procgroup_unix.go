//go:build unix

package runner

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killProcessGroup runs the command in its own process group and kills the whole group on
// cancellation, so programs started through a wrapper (sh, java) do not outlive it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
