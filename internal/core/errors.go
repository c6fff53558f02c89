package core

import "github.com/giantswarm/appenv/internal/sentinel"

const (
	// ErrUnknownMode is returned by ParseMode for a mode other than default,
	// sync or async.
	ErrUnknownMode = sentinel.Error("unknown mode")

	// ErrScenarioNotFound indicates <E2EDir>/<scenario> is not a directory.
	ErrScenarioNotFound = sentinel.Error("scenario directory not found")

	// ErrEntryNotFound indicates the scenario has no entry file for the
	// requested mode.
	ErrEntryNotFound = sentinel.Error("scenario entry file not found")

	// ErrLockTimeout indicates another cycle held the port's fixture lock
	// for longer than LockTimeout.
	ErrLockTimeout = sentinel.Error("timed out waiting for fixture lock")

	// ErrInvalidScenario indicates an empty scenario name or one that is not
	// a single path element.
	ErrInvalidScenario = sentinel.Error("invalid scenario name")
)
