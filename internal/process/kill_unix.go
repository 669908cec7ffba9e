//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() also signals the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// Alive reports whether a process with the given PID still exists.
// A zombie that has not been reaped yet still counts as alive.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
