package appenv

import (
	"log/slog"

	"github.com/giantswarm/appenv/internal/core"
)

// SetLogger replaces the package-level logger used by appenv. The provided
// logger should already carry any desired attributes.
//
// If l is nil, the logger resets to slog.Default() with a "component"
// attribute. SetLogger is safe to call concurrently with Run; for a strict
// happens-before guarantee call it before starting goroutines that use the
// library.
//
// Example:
//
//	appenv.SetLogger(myLogger.With("component", "appenv"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
