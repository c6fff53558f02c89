package process

import (
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"
)

// Handle is a running (or finished) server process returned by Start.
type Handle struct {
	name string
	cmd  *exec.Cmd
	pid  int

	// waitErr is written by the single cmd.Wait goroutine before exited is
	// closed; read it only after <-exited.
	waitErr error
	exited  chan struct{}

	events    chan event
	decided   chan struct{}
	pumpsDone chan struct{}
	pipes     []*os.File
	logFiles  LogFiles

	log       *slog.Logger
	closeOnce sync.Once
}

// PID returns the process ID (and process group ID on unix).
func (h *Handle) PID() int {
	return h.pid
}

// Exited returns a channel closed when the process exits.
func (h *Handle) Exited() <-chan struct{} {
	return h.exited
}

// ExitErr returns the cmd.Wait result once the process has exited, and nil
// while it is still running.
func (h *Handle) ExitErr() error {
	select {
	case <-h.exited:
		return h.waitErr
	default:
		return nil
	}
}

// StdoutLog returns the stdout capture path, or "" when not capturing.
func (h *Handle) StdoutLog() string {
	return h.logFiles.StdoutPath()
}

// StderrLog returns the stderr capture path, or "" when not capturing.
func (h *Handle) StderrLog() string {
	return h.logFiles.StderrPath()
}

// Stop terminates the process group: SIGTERM, then SIGKILL after a grace
// period capped at timeout. Stopping an already exited process returns nil.
func (h *Handle) Stop(timeout time.Duration) error {
	select {
	case <-h.exited:
		return nil
	default:
	}
	err := stopWithExited(h.cmd.Process, h.exited, func() error { return h.waitErr }, timeout, h.name)
	if err != nil {
		h.log.Warn("process stop failed; process may be orphaned", "pid", h.pid, "error", err)
	}
	return err
}

// Close stops mirroring output by closing the read ends of the pipes; the
// capture files are closed once both pumps return. It does not stop the
// process, whose further writes then fail with EPIPE.
func (h *Handle) Close() {
	h.closeOnce.Do(func() {
		closeAll(h.pipes...)
	})
}

// Done returns a channel closed once both output streams have been fully
// copied and the capture files closed.
func (h *Handle) Done() <-chan struct{} {
	return h.pumpsDone
}
