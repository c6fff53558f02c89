package appenv

import "time"

// Server is an application server launched by Run. The server keeps running
// after Run returns; nothing in this package stops it unless asked to.
type Server interface {
	// ID returns the orchestration cycle ID, also used in log attributes
	// and output capture file names.
	ID() string

	// PID returns the launcher's process ID. On unix it is also the
	// process group ID of the server tree.
	PID() int

	// Exited returns a channel closed when the launcher process exits.
	Exited() <-chan struct{}

	// Stop terminates the server's process group: SIGTERM, then SIGKILL
	// after a grace period capped at timeout. Stopping an exited server
	// returns nil.
	Stop(timeout time.Duration) error

	// Close stops mirroring the server's output. It does not stop the
	// server. Safe to call more than once.
	Close()
}
