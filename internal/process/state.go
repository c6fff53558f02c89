package process

import "fmt"

// State is a Supervisor's position in its lifecycle. Ready, Failed and
// TimedOut are terminal.
type State int32

const (
	// StateStarting: launch requested, no output classified yet.
	StateStarting State = iota
	// StateRunning: process running, readiness marker not yet seen.
	StateRunning
	// StateReady: the marker appeared on stdout.
	StateReady
	// StateFailed: spawn error, stream error, or exit before readiness.
	StateFailed
	// StateTimedOut: the caller's context ended first.
	StateTimedOut
)

// IsTerminal reports whether no further transitions can happen.
func (s State) IsTerminal() bool {
	return s == StateReady || s == StateFailed || s == StateTimedOut
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
