//go:build windows

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

var errNoTerminate = errors.New("graceful termination not supported")

// configureSysProcAttr starts the server in a new process group so console
// control events aimed at the orchestrator do not reach it.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

// terminate always fails; Stop then falls through to kill.
func terminate(*os.Process) error {
	return errNoTerminate
}

func kill(p *os.Process) error {
	return p.Kill()
}
