//go:build !windows

package execute

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// setProcAttr configures the child process on Unix-like systems.
// The command gets its own process group (PGRP) so that signals sent on
// context cancellation reach the entire process tree, not just the
// immediate child.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
}
