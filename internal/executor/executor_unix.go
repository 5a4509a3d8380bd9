//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
	"time"
)

// Run the shell in its own process group and kill the whole group on
// cancellation, so tools started by the conda hook do not outlive it.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second
}
