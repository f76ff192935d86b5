//go:build windows

package runcmd

import "os/exec"

// setupProcessGroup is a no-op on Windows: there is no POSIX process-group
// equivalent to configure before starting the child.
func setupProcessGroup(cmd *exec.Cmd) {}

func terminateProcess(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

func forceKillProcess(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
