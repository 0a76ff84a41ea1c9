//go:build !windows

package preview

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts cmd in its own process group so killProcessGroup
// can take down the whole subtree (a preview command piped through a
// pager or shell wrapper) rather than only the direct child.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
