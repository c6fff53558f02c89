package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// LogFiles holds the per-process stdout/stderr capture files. A zero LogFiles
// captures nothing; its writers discard and its paths are empty.
type LogFiles struct {
	stdoutFile *os.File
	stderrFile *os.File
	dir        string
	stdoutName string // e.g., "server-stdout.log"
	stderrName string
}

// NewLogFiles creates <name>-stdout.log and <name>-stderr.log under dir,
// truncating earlier captures. Both files are assigned only after both
// creates succeed.
func NewLogFiles(dir, name string) (LogFiles, error) {
	l := LogFiles{
		dir:        dir,
		stdoutName: name + "-stdout.log",
		stderrName: name + "-stderr.log",
	}
	stdoutFile, err := os.Create(l.StdoutPath())
	if err != nil {
		return LogFiles{}, fmt.Errorf("create stdout log: %w", err)
	}
	stderrFile, err := os.Create(l.StderrPath())
	if err != nil {
		_ = stdoutFile.Close()
		return LogFiles{}, fmt.Errorf("create stderr log: %w", err)
	}
	l.stdoutFile = stdoutFile
	l.stderrFile = stderrFile
	return l, nil
}

// Close closes both file handles and nils them to prevent double-close.
func (l *LogFiles) Close() {
	if l.stdoutFile != nil {
		_ = l.stdoutFile.Close()
		l.stdoutFile = nil
	}
	if l.stderrFile != nil {
		_ = l.stderrFile.Close()
		l.stderrFile = nil
	}
}

// StdoutPath returns the stdout capture path, or "" when nothing is captured.
func (l LogFiles) StdoutPath() string {
	if l.stdoutName == "" {
		return ""
	}
	return filepath.Join(l.dir, l.stdoutName)
}

// StderrPath returns the stderr capture path, or "" when nothing is captured.
func (l LogFiles) StderrPath() string {
	if l.stderrName == "" {
		return ""
	}
	return filepath.Join(l.dir, l.stderrName)
}

func (l *LogFiles) stdout() io.Writer {
	if l.stdoutFile == nil {
		return nil
	}
	return l.stdoutFile
}

func (l *LogFiles) stderr() io.Writer {
	if l.stderrFile == nil {
		return nil
	}
	return l.stderrFile
}

// DefaultStopTimeout is a reasonable timeout for Handle.Stop.
const DefaultStopTimeout = 10 * time.Second

// termGracePeriod is the maximum time to wait for the process group to exit
// after SIGTERM before escalating to SIGKILL. Capped at the overall timeout.
const termGracePeriod = 5 * time.Second

// killDrainTimeout bounds the wait for cmd.Wait after SIGKILL. SIGKILL cannot
// be caught, so this only fires if cmd.Wait hangs.
const killDrainTimeout = 10 * time.Second

// waitClosed reports whether ch was closed within timeout.
func waitClosed(ch <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}

// stopWithExited implements the SIGTERM-then-SIGKILL shutdown sequence
// against a process whose single cmd.Wait goroutine closes exited and
// publishes its result through waitErr.
//
// Shutdown flow:
//  1. Send SIGTERM to the process group.
//  2. Schedule SIGKILL after a grace period, canceled if the process exits.
//  3. Wait for exit or the total timeout.
//
// Worst-case blocking duration is timeout + killDrainTimeout.
func stopWithExited(p *os.Process, exited <-chan struct{}, waitErr func() error, timeout time.Duration, name string) error {
	if p == nil {
		return nil
	}

	if err := terminate(p); err != nil {
		// Already gone, or SIGTERM is not deliverable on this platform.
		_ = kill(p)
		if !waitClosed(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return expectSignalExit(waitErr(), name)
	}

	grace := min(termGracePeriod, timeout)
	killTimer := time.AfterFunc(grace, func() {
		_ = kill(p)
	})
	defer killTimer.Stop()

	totalTimer := time.NewTimer(timeout)
	defer totalTimer.Stop()

	select {
	case <-exited:
		return expectSignalExit(waitErr(), name)
	case <-totalTimer.C:
		if !waitClosed(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
		}
		if err := expectSignalExit(waitErr(), name); err != nil {
			return fmt.Errorf("%s stop timeout: %w", name, err)
		}
		return nil
	}
}

// expectSignalExit interprets an error from cmd.Wait after sending a
// termination signal. Exits caused by SIGTERM or SIGKILL are successful stops.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			sig := status.Signal()
			if sig == syscall.SIGTERM || sig == syscall.SIGKILL {
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}
