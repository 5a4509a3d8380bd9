//go:build windows

package executor

import "os/exec"

func setProcAttr(cmd *exec.Cmd) {
	// Windows doesn't support Setpgid
}
