package core

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/giantswarm/appenv/internal/portreclaim"
	"github.com/giantswarm/appenv/internal/statereset"
)

// Launcher placeholders, substituted in every launcher argument.
const (
	PlaceholderAppDir = "{app_dir}"
	PlaceholderEntry  = "{entry}"
	PlaceholderPort   = "{port}"
)

// Config holds configuration for an Orchestrator. All fields are immutable
// after construction via NewOrchestrator.
type Config struct {
	// Port is the fixed server port reclaimed before every launch.
	Port int
	// Method is the transport whose listeners are reclaimed.
	Method portreclaim.Method

	// E2EDir holds one directory per scenario.
	E2EDir string
	// AppDir is the application project directory, substituted for
	// {app_dir} in the launcher.
	AppDir string

	// Launcher is the server argv template. The first element is the
	// executable. The process runs with the scenario directory as its
	// working directory.
	Launcher []string
	// EntryExt is appended to the mode's entry name, e.g. ".py".
	EntryExt string
	// Marker is the stdout substring that signals readiness.
	Marker string
	// ReadyTimeout bounds the wait for readiness. Zero waits until the
	// server is ready or exits.
	ReadyTimeout time.Duration

	// LockDir holds the per-port fixture lock files. Empty disables locking.
	LockDir string
	// LockTimeout bounds the wait for another cycle's lock.
	LockTimeout time.Duration

	// StatePaths are the persisted artifacts removed before each launch.
	StatePaths statereset.Paths

	// LogDir, when set, receives per-cycle captures of the server's output.
	LogDir string
	// Stdout and Stderr mirror the server's streams. Nil discards.
	Stdout io.Writer
	Stderr io.Writer
	// Env is the server environment. Nil inherits the orchestrator's.
	Env []string
}

// Validate checks all Config invariants and returns an error describing
// every violation found.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be in 1..65535, got %d", c.Port))
	}
	if !c.Method.IsValid() {
		errs = append(errs, fmt.Errorf("invalid method: %v", c.Method))
	}
	if c.E2EDir == "" {
		errs = append(errs, errors.New("e2e directory must not be empty"))
	}
	if len(c.Launcher) == 0 || c.Launcher[0] == "" {
		errs = append(errs, errors.New("launcher command must not be empty"))
	}
	if c.Marker == "" {
		errs = append(errs, errors.New("readiness marker must not be empty"))
	}
	if c.ReadyTimeout < 0 {
		errs = append(errs, fmt.Errorf("ready timeout must not be negative, got %s", c.ReadyTimeout))
	}
	if c.LockDir != "" && c.LockTimeout <= 0 {
		errs = append(errs, fmt.Errorf("lock timeout must be greater than 0, got %s", c.LockTimeout))
	}
	if err := c.StatePaths.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// EntryFile returns the entry file name for mode, e.g. "main_async.py".
func (c Config) EntryFile(mode Mode) string {
	return mode.EntryName() + c.EntryExt
}

// LauncherArgs expands the launcher template for entry. appDir should be
// absolute, since the server runs inside the scenario directory.
func (c Config) LauncherArgs(appDir, entry string) (string, []string) {
	r := strings.NewReplacer(
		PlaceholderAppDir, appDir,
		PlaceholderEntry, entry,
		PlaceholderPort, strconv.Itoa(c.Port),
	)
	argv := make([]string, len(c.Launcher))
	for i, a := range c.Launcher {
		argv[i] = r.Replace(a)
	}
	return argv[0], argv[1:]
}
