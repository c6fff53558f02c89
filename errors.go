package appenv

import (
	"github.com/giantswarm/appenv/internal/core"
	"github.com/giantswarm/appenv/internal/portreclaim"
	"github.com/giantswarm/appenv/internal/process"
	"github.com/giantswarm/appenv/internal/statereset"
)

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrUnknownMode is returned for a mode other than default, sync or async.
	ErrUnknownMode = core.ErrUnknownMode

	// ErrInvalidScenario is returned for an empty scenario name or one that
	// is not a single directory name.
	ErrInvalidScenario = core.ErrInvalidScenario

	// ErrScenarioNotFound is returned when <e2e dir>/<scenario> does not exist.
	ErrScenarioNotFound = core.ErrScenarioNotFound

	// ErrEntryNotFound is returned when the scenario lacks the mode's entry file.
	ErrEntryNotFound = core.ErrEntryNotFound

	// ErrLockTimeout is returned when another cycle held the port's fixture
	// lock for longer than the lock timeout.
	ErrLockTimeout = core.ErrLockTimeout

	// ErrResetFailed is matched by every persisted-state deletion failure.
	ErrResetFailed = statereset.ErrResetFailed

	// ErrDirNotFound is returned when the scenario directory vanished
	// before its state could be reset.
	ErrDirNotFound = statereset.ErrDirNotFound

	// ErrSpawn is returned when the launcher could not be started.
	ErrSpawn = process.ErrSpawn

	// ErrProcessExited is matched when the server exited before printing
	// its readiness marker. Use errors.As with *ExitError for the code.
	ErrProcessExited = process.ErrProcessExited

	// ErrReadyTimeout is returned when WithReadyTimeout elapsed first. The
	// server is left running and returned alongside the error.
	ErrReadyTimeout = process.ErrReadyTimeout

	// ErrListFailed, ErrKillFailed and ErrStillListening describe port
	// reclaim failures. Run only logs them; Reclaim returns them.
	ErrListFailed     = portreclaim.ErrListFailed
	ErrKillFailed     = portreclaim.ErrKillFailed
	ErrStillListening = portreclaim.ErrStillListening
)

// ExitError reports the exit status of a server that exited before
// becoming ready.
type ExitError = process.ExitError
