package appenv

import (
	"time"

	"github.com/giantswarm/appenv/internal/process"
)

// Default configuration values for Run. These constants are exported so
// callers can build custom configurations relative to them.
const (
	// DefaultPort is the fixed port the application server binds.
	DefaultPort = 8000

	// DefaultMethod is the transport whose listeners are reclaimed.
	DefaultMethod = TCP

	// DefaultE2EDir holds one directory per scenario, relative to the
	// working directory.
	DefaultE2EDir = "cypress/e2e"

	// DefaultAppDir is the application project directory, relative to the
	// working directory.
	DefaultAppDir = "src"

	// DefaultEntryExt is appended to the mode's entry name.
	DefaultEntryExt = ".py"

	// DefaultMarker is the stdout line prefix the server prints once it
	// accepts connections.
	DefaultMarker = "Your app is available at"

	// DefaultLockDirName is the directory under the system temp directory
	// that holds the per-port fixture locks.
	DefaultLockDirName = "appenv"

	// DefaultLockTimeout bounds the wait for another cycle's fixture lock.
	DefaultLockTimeout = 2 * time.Minute

	// DefaultStopTimeout is a sensible timeout for Server.Stop.
	DefaultStopTimeout = process.DefaultStopTimeout

	// DefaultCacheDir and DefaultDBFile are the persisted artifacts removed
	// from the scenario directory before every launch.
	DefaultCacheDir = ".chainlit/chat_files"
	DefaultDBFile   = ".chainlit/chat.db"
)

// DefaultLauncher returns the default server argv template:
//
//	poetry run -C {app_dir} chainlit run {entry} -h -c
//
// A fresh slice is returned on every call.
func DefaultLauncher() []string {
	return []string{"poetry", "run", "-C", PlaceholderAppDir, "chainlit", "run", PlaceholderEntry, "-h", "-c"}
}
