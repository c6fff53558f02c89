package process

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/giantswarm/appenv/internal/sentinel"
)

const (
	// ErrAlreadyStarted is returned when Start is called twice on the same
	// Supervisor. Each Supervisor makes a single spawn attempt.
	ErrAlreadyStarted = sentinel.Error("process already started")

	// ErrSpawn indicates the OS could not launch the command (for example,
	// the executable was not found).
	ErrSpawn = sentinel.Error("spawn server process")

	// ErrProcessExited is matched by ExitError: the process terminated
	// before the readiness marker was seen.
	ErrProcessExited = sentinel.Error("server process exited before becoming ready")

	// ErrReadyTimeout indicates the caller's context ended before the
	// process became ready or exited. The process is left running.
	ErrReadyTimeout = sentinel.Error("timed out waiting for server readiness")

	// ErrStream indicates reading the process output failed.
	ErrStream = sentinel.Error("read server output")
)

// ExitError reports a premature exit. Code is the exit status, or -1 when
// the process was terminated by a signal.
type ExitError struct {
	Code int
	Err  error // the cmd.Wait error, nil for exit status 0
}

func (e *ExitError) Error() string {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) && e.Code < 0 {
		return fmt.Sprintf("%s (%s)", ErrProcessExited, exitErr.String())
	}
	return fmt.Sprintf("%s (exit code %d)", ErrProcessExited, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Is makes every ExitError match ErrProcessExited.
func (e *ExitError) Is(target error) bool { return target == ErrProcessExited }

// newExitError converts a cmd.Wait result into an ExitError.
func newExitError(waitErr error) *ExitError {
	if waitErr == nil {
		return &ExitError{Code: 0}
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Err: waitErr}
	}
	return &ExitError{Code: -1, Err: waitErr}
}
