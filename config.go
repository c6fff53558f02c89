package appenv

import (
	"os"
	"path/filepath"

	"github.com/giantswarm/appenv/internal/core"
	"github.com/giantswarm/appenv/internal/statereset"
)

// runConfig wraps core.Config via embedding, keeping internal/core types out
// of the public API signature.
type runConfig struct {
	core.Config
}

// toCoreConfig returns the embedded core.Config.
func (c runConfig) toCoreConfig() core.Config {
	return c.Config
}

// defaultRunConfig returns a runConfig populated with all default values.
// Server output is mirrored to the orchestrator's stdout and stderr.
func defaultRunConfig() runConfig {
	return runConfig{core.Config{
		Port:        DefaultPort,
		Method:      DefaultMethod,
		E2EDir:      DefaultE2EDir,
		AppDir:      DefaultAppDir,
		Launcher:    DefaultLauncher(),
		EntryExt:    DefaultEntryExt,
		Marker:      DefaultMarker,
		LockDir:     filepath.Join(os.TempDir(), DefaultLockDirName),
		LockTimeout: DefaultLockTimeout,
		StatePaths:  statereset.Paths{CacheDir: DefaultCacheDir, DBFile: DefaultDBFile},
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}}
}

func buildConfig(opts []RunOption) runConfig {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
