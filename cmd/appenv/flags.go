package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/appenv"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	port    int
	method  string
	e2eDir  string
	verbose bool
}

func (g *globalFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.IntVar(&g.port, "port", appenv.DefaultPort, "server port to reclaim before launch")
	fs.StringVar(&g.method, "method", appenv.DefaultMethod.String(), "transport whose listeners are reclaimed (tcp or udp)")
	fs.StringVar(&g.e2eDir, "e2e-dir", appenv.DefaultE2EDir, "directory holding one subdirectory per scenario")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
}

// options validates user input and converts it to RunOptions. Validation
// happens here because the With* options panic on invalid values.
func (g *globalFlags) options() ([]appenv.RunOption, error) {
	if g.port < 1 || g.port > 65535 {
		return nil, fmt.Errorf("invalid --port %d: must be in 1..65535", g.port)
	}
	method, err := appenv.ParseMethod(g.method)
	if err != nil {
		return nil, fmt.Errorf("invalid --method: %w", err)
	}
	if g.e2eDir == "" {
		return nil, fmt.Errorf("--e2e-dir must not be empty")
	}
	return []appenv.RunOption{
		appenv.WithPort(g.port),
		appenv.WithMethod(method),
		appenv.WithE2EDir(g.e2eDir),
	}, nil
}

// setupLogging installs a text handler on w, at debug level with -v.
func (g *globalFlags) setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	appenv.SetLogger(slog.New(h).With("component", "appenv"))
}

// runFlags configure the launch cycle of the root command.
type runFlags struct {
	appDir       string
	launcher     string
	entryExt     string
	marker       string
	readyTimeout time.Duration
	lockDir      string
	lockTimeout  time.Duration
	noLock       bool
	logDir       string
}

func (r *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&r.appDir, "app-dir", appenv.DefaultAppDir, "application project directory, substituted for {app_dir}")
	fs.StringVar(&r.launcher, "launcher", strings.Join(appenv.DefaultLauncher(), " "),
		"server command template; {app_dir}, {entry} and {port} are substituted")
	fs.StringVar(&r.entryExt, "entry-ext", appenv.DefaultEntryExt, "extension of the scenario entry files")
	fs.StringVar(&r.marker, "marker", appenv.DefaultMarker, "stdout text that signals the server is ready")
	fs.DurationVar(&r.readyTimeout, "ready-timeout", 0, "give up waiting for readiness after this long (0 waits forever)")
	fs.StringVar(&r.lockDir, "lock-dir", filepath.Join(os.TempDir(), appenv.DefaultLockDirName), "directory for per-port fixture locks")
	fs.DurationVar(&r.lockTimeout, "lock-timeout", appenv.DefaultLockTimeout, "how long to wait for another run holding the port")
	fs.BoolVar(&r.noLock, "no-lock", false, "do not serialize runs on the same port")
	fs.StringVar(&r.logDir, "log-dir", "", "also capture server stdout/stderr under this directory")
}

func (r *runFlags) options() ([]appenv.RunOption, error) {
	argv := strings.Fields(r.launcher)
	if len(argv) == 0 {
		return nil, fmt.Errorf("--launcher must not be empty")
	}
	if r.appDir == "" {
		return nil, fmt.Errorf("--app-dir must not be empty")
	}
	if r.marker == "" {
		return nil, fmt.Errorf("--marker must not be empty")
	}
	if r.readyTimeout < 0 {
		return nil, fmt.Errorf("--ready-timeout must not be negative")
	}

	opts := []appenv.RunOption{
		appenv.WithAppDir(r.appDir),
		appenv.WithLauncher(argv...),
		appenv.WithEntryExt(r.entryExt),
		appenv.WithMarker(r.marker),
		appenv.WithReadyTimeout(r.readyTimeout),
	}
	if r.noLock {
		opts = append(opts, appenv.WithoutLock())
	} else {
		if r.lockDir == "" {
			return nil, fmt.Errorf("--lock-dir must not be empty; use --no-lock to disable locking")
		}
		if r.lockTimeout <= 0 {
			return nil, fmt.Errorf("--lock-timeout must be greater than 0")
		}
		opts = append(opts, appenv.WithLockDir(r.lockDir), appenv.WithLockTimeout(r.lockTimeout))
	}
	if r.logDir != "" {
		opts = append(opts, appenv.WithLogDir(r.logDir))
	}
	return opts, nil
}
