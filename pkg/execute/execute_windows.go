//go:build windows

package execute

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// setProcAttr configures the child process on Windows.
// A new process group allows console events to be delivered to the child
// independently of our own process.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &windows.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}
