//go:build unix

package runcmd

import (
	"os/exec"
	"syscall"
)

// setupProcessGroup configures cmd to run in its own process group, so a
// signal sent to the group reaches every descendant the child spawns.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroup sends sig to cmd's process group, falling back to signaling
// just the process itself if the group id can't be resolved.
func signalGroup(cmd *exec.Cmd, sig syscall.Signal) {
	if cmd.Process == nil {
		return
	}
	if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil {
		_ = syscall.Kill(-pgid, sig)
		return
	}
	_ = cmd.Process.Signal(sig)
}

func terminateProcess(cmd *exec.Cmd) {
	signalGroup(cmd, syscall.SIGTERM)
}

func forceKillProcess(cmd *exec.Cmd) {
	signalGroup(cmd, syscall.SIGKILL)
}
