package appenv

import "time"

// ConfigSnapshot holds a copy of runConfig fields for test assertions in
// package appenv_test.
type ConfigSnapshot struct {
	Port         int
	Method       Method
	E2EDir       string
	AppDir       string
	Launcher     []string
	EntryExt     string
	Marker       string
	ReadyTimeout time.Duration
	LockDir      string
	LockTimeout  time.Duration
	LogDir       string
	CacheDir     string
	DBFile       string
	Env          []string
}

// ApplyOptionsForTesting creates a default runConfig, applies opts, and
// returns a snapshot of the result.
func ApplyOptionsForTesting(opts ...RunOption) ConfigSnapshot {
	cfg := buildConfig(opts)
	return ConfigSnapshot{
		Port:         cfg.Port,
		Method:       cfg.Method,
		E2EDir:       cfg.E2EDir,
		AppDir:       cfg.AppDir,
		Launcher:     cfg.Launcher,
		EntryExt:     cfg.EntryExt,
		Marker:       cfg.Marker,
		ReadyTimeout: cfg.ReadyTimeout,
		LockDir:      cfg.LockDir,
		LockTimeout:  cfg.LockTimeout,
		LogDir:       cfg.LogDir,
		CacheDir:     cfg.StatePaths.CacheDir,
		DBFile:       cfg.StatePaths.DBFile,
		Env:          cfg.Env,
	}
}

// ValidateDefaultsForTesting validates the default configuration.
func ValidateDefaultsForTesting() error {
	return defaultRunConfig().Validate()
}
