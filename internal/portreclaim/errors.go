package portreclaim

import (
	"fmt"

	"github.com/giantswarm/appenv/internal/sentinel"
)

const (
	// ErrInvalidPort is returned for ports outside 1..65535.
	ErrInvalidPort = sentinel.Error("port must be between 1 and 65535")

	// ErrInvalidMethod is returned for an unknown protocol method.
	ErrInvalidMethod = sentinel.Error("method must be tcp or udp")

	// ErrListFailed indicates the OS listing command could not be run or
	// its output could not be interpreted.
	ErrListFailed = sentinel.Error("list port listeners")

	// ErrKillFailed indicates a listener was found but could not be
	// terminated.
	ErrKillFailed = sentinel.Error("terminate port listeners")

	// ErrStillListening indicates the kill succeeded but the port was still
	// held when the release wait expired.
	ErrStillListening = sentinel.Error("port still has a listener after kill")
)

// ReclaimError describes a failed reclamation of Port. PIDs holds the
// listeners found, if any. Err matches one of ErrListFailed, ErrKillFailed
// or ErrStillListening.
type ReclaimError struct {
	Port   int
	Method Method
	PIDs   []int
	Err    error
}

func (e *ReclaimError) Error() string {
	if len(e.PIDs) == 0 {
		return fmt.Sprintf("reclaim %s port %d: %v", e.Method, e.Port, e.Err)
	}
	return fmt.Sprintf("reclaim %s port %d (pids %v): %v", e.Method, e.Port, e.PIDs, e.Err)
}

func (e *ReclaimError) Unwrap() error { return e.Err }
