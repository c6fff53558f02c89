package appenv

import (
	"fmt"
	"io"
	"time"

	"github.com/giantswarm/appenv/internal/statereset"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("appenv: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("appenv: %s must not be empty", name))
	}
}

// RunOption configures Run, Reclaim and Reset.
//
// Several With* functions panic on invalid input. Option values are
// typically constants, so an invalid value is a programmer error; callers
// forwarding user input (such as CLI flags) should validate it first, for
// example with ParseMethod.
type RunOption func(*runConfig)

// WithPort sets the port reclaimed before launch and substituted for
// {port} in the launcher.
//
// Default: 8000.
//
// Panics if port is outside 1..65535.
func WithPort(port int) RunOption {
	if port < 1 || port > 65535 {
		panic(fmt.Sprintf("appenv: port must be in 1..65535, got %d", port))
	}
	return func(c *runConfig) {
		c.Port = port
	}
}

// WithMethod sets the transport whose listeners are reclaimed.
//
// Default: TCP.
//
// Panics if m is not TCP or UDP.
func WithMethod(m Method) RunOption {
	if !m.IsValid() {
		panic(fmt.Sprintf("appenv: invalid method %v", m))
	}
	return func(c *runConfig) {
		c.Method = m
	}
}

// WithE2EDir sets the directory holding one subdirectory per scenario.
// Panics if dir is empty.
func WithE2EDir(dir string) RunOption {
	requireNonEmpty("e2e directory", dir)
	return func(c *runConfig) {
		c.E2EDir = dir
	}
}

// WithAppDir sets the application project directory substituted for
// {app_dir}. Relative paths are resolved against the working directory.
// Panics if dir is empty.
func WithAppDir(dir string) RunOption {
	requireNonEmpty("app directory", dir)
	return func(c *runConfig) {
		c.AppDir = dir
	}
}

// WithLauncher sets the server argv template. Every argument may contain
// the placeholders {app_dir}, {entry} and {port}. The server runs with the
// scenario directory as its working directory.
//
// Default: DefaultLauncher().
//
// Panics if argv is empty or its first element is empty.
func WithLauncher(argv ...string) RunOption {
	if len(argv) == 0 {
		panic("appenv: launcher must not be empty")
	}
	requireNonEmpty("launcher command", argv[0])
	argv = append([]string(nil), argv...)
	return func(c *runConfig) {
		c.Launcher = argv
	}
}

// WithEntryExt sets the extension appended to the mode's entry name. An
// empty ext selects extension-less entries.
//
// Default: ".py".
func WithEntryExt(ext string) RunOption {
	return func(c *runConfig) {
		c.EntryExt = ext
	}
}

// WithMarker sets the stdout substring that signals readiness.
// Panics if marker is empty.
func WithMarker(marker string) RunOption {
	requireNonEmpty("readiness marker", marker)
	return func(c *runConfig) {
		c.Marker = marker
	}
}

// WithReadyTimeout bounds the wait for readiness. On expiry Run returns
// ErrReadyTimeout together with the still running Server. Zero waits until
// the server is ready or exits.
//
// Default: 0.
//
// Panics if d < 0.
func WithReadyTimeout(d time.Duration) RunOption {
	if d < 0 {
		panic(fmt.Sprintf("appenv: ready timeout must not be negative, got %v", d))
	}
	return func(c *runConfig) {
		c.ReadyTimeout = d
	}
}

// WithLockDir sets the directory holding the per-port fixture locks.
// Useful in CI where several checkouts share a host but not a temp dir.
//
// Default: <os.TempDir()>/appenv.
//
// Panics if dir is empty; use WithoutLock to disable locking.
func WithLockDir(dir string) RunOption {
	requireNonEmpty("lock directory", dir)
	return func(c *runConfig) {
		c.LockDir = dir
	}
}

// WithoutLock disables the fixture lock. Concurrent runs on one port then
// reclaim each other's servers.
func WithoutLock() RunOption {
	return func(c *runConfig) {
		c.LockDir = ""
	}
}

// WithLockTimeout bounds the wait for another cycle's fixture lock.
//
// Default: 2 minutes.
//
// Panics if d <= 0.
func WithLockTimeout(d time.Duration) RunOption {
	requirePositive("lock timeout", d)
	return func(c *runConfig) {
		c.LockTimeout = d
	}
}

// WithLogDir captures the server's stdout and stderr to
// <dir>/<scenario>-<cycle>-stdout.log and -stderr.log.
// Panics if dir is empty.
func WithLogDir(dir string) RunOption {
	requireNonEmpty("log directory", dir)
	return func(c *runConfig) {
		c.LogDir = dir
	}
}

// WithOutput sets where the server's stdout and stderr are mirrored. Nil
// writers discard.
//
// Default: os.Stdout and os.Stderr.
func WithOutput(stdout, stderr io.Writer) RunOption {
	return func(c *runConfig) {
		c.Stdout = stdout
		c.Stderr = stderr
	}
}

// WithEnv sets the server environment. Nil inherits the caller's.
func WithEnv(env []string) RunOption {
	env = append([]string(nil), env...)
	return func(c *runConfig) {
		c.Env = env
	}
}

// WithStatePaths sets the persisted artifacts, relative to the scenario
// directory, removed before every launch. An empty path skips that artifact.
//
// Panics if a path is absolute or escapes the scenario directory.
func WithStatePaths(cacheDir, dbFile string) RunOption {
	p := statereset.Paths{CacheDir: cacheDir, DBFile: dbFile}
	if err := p.Validate(); err != nil {
		panic("appenv: invalid state paths: " + err.Error())
	}
	return func(c *runConfig) {
		c.StatePaths = p
	}
}
