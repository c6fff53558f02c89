package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/giantswarm/appenv/internal/fileutil"
	"github.com/giantswarm/appenv/internal/portreclaim"
	"github.com/giantswarm/appenv/internal/process"
	"github.com/giantswarm/appenv/internal/statereset"
)

// Reclaimer frees a port before the server is launched.
type Reclaimer interface {
	Reclaim(ctx context.Context, port int, method portreclaim.Method) (portreclaim.Result, error)
}

// Resetter removes persisted state from a scenario directory.
type Resetter interface {
	Reset(dir string) error
}

// Server is a launched server process. *process.Handle implements it.
type Server interface {
	PID() int
	Exited() <-chan struct{}
	Stop(timeout time.Duration) error
	Close()
}

// Spawner launches the server and blocks until it is ready or has failed.
// On process.ErrReadyTimeout it returns the still running Server alongside
// the error.
type Spawner interface {
	Spawn(ctx context.Context, cfg process.Config) (Server, error)
}

// SupervisorSpawner launches servers with a process.Supervisor.
type SupervisorSpawner struct{}

// Spawn implements Spawner.
func (SupervisorSpawner) Spawn(ctx context.Context, cfg process.Config) (Server, error) {
	sup, err := process.New(cfg)
	if err != nil {
		return nil, err
	}
	h, err := sup.Start(ctx)
	if h == nil {
		return nil, err
	}
	return h, err
}

// Deps are the steps of a cycle. Nil fields use the host implementations.
type Deps struct {
	Reclaimer Reclaimer
	Resetter  Resetter
	Spawner   Spawner
}

// Cycle is the outcome of one orchestration run.
type Cycle struct {
	// ID identifies the cycle in logs and capture file names.
	ID       string
	Scenario Scenario
	// Dir is the absolute scenario directory, the server's working directory.
	Dir string
	// Entry is the entry file name passed to the launcher.
	Entry string
	// Reclaim describes what the port reclaim found. Zero when it failed.
	Reclaim portreclaim.Result
	// Server is the launched process. Nil unless the server became ready
	// or the readiness wait timed out.
	Server Server
}

// Orchestrator runs orchestration cycles. It is safe for concurrent use;
// cycles for the same port on one host are serialized by the fixture lock.
type Orchestrator struct {
	cfg  Config
	deps Deps
	log  *slog.Logger
}

// NewOrchestrator validates cfg and fills in default dependencies.
func NewOrchestrator(cfg Config, deps Deps) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log := Logger()
	if deps.Reclaimer == nil {
		deps.Reclaimer = portreclaim.NewForPlatform(log)
	}
	if deps.Resetter == nil {
		deps.Resetter = statereset.New(cfg.StatePaths, log)
	}
	if deps.Spawner == nil {
		deps.Spawner = SupervisorSpawner{}
	}
	return &Orchestrator{cfg: cfg, deps: deps, log: log}, nil
}

// Run executes one cycle for sc: resolve the scenario, take the fixture
// lock, reclaim the port, reset state, then launch the server and wait for
// readiness. Reclamation failures are logged and never abort the cycle;
// every other failure does.
//
// The server is never stopped by Run. On success the returned Cycle carries
// the ready Server; on process.ErrReadyTimeout it carries the still running
// Server together with the error.
func (o *Orchestrator) Run(ctx context.Context, sc Scenario) (*Cycle, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	c := &Cycle{ID: uuid.NewString(), Scenario: sc}
	log := o.log.With("cycle", c.ID, "scenario", sc.Name, "mode", sc.Mode.String())

	dir, entry, err := o.resolve(sc)
	if err != nil {
		return nil, err
	}
	c.Dir, c.Entry = dir, entry

	if o.cfg.LockDir != "" {
		fl, err := acquireFixtureLock(ctx, o.cfg.LockDir, o.cfg.Port, o.cfg.LockTimeout)
		if err != nil {
			return nil, err
		}
		defer releaseFixtureLock(log, fl)
		log.Debug("fixture lock acquired", "path", fl.Path())
	}

	res, err := o.deps.Reclaimer.Reclaim(ctx, o.cfg.Port, o.cfg.Method)
	if err != nil {
		log.Warn("port reclaim failed; continuing", "port", o.cfg.Port, "error", err)
	} else {
		c.Reclaim = res
		log.Info(res.String(), "port", o.cfg.Port)
	}

	if err := o.deps.Resetter.Reset(dir); err != nil {
		return nil, fmt.Errorf("reset scenario %s: %w", sc.Name, err)
	}

	pcfg, err := o.processConfig(c)
	if err != nil {
		return nil, err
	}

	spawnCtx := ctx
	if o.cfg.ReadyTimeout > 0 {
		var cancel context.CancelFunc
		spawnCtx, cancel = context.WithTimeout(ctx, o.cfg.ReadyTimeout)
		defer cancel()
	}

	srv, err := o.deps.Spawner.Spawn(spawnCtx, pcfg)
	if err != nil {
		if errors.Is(err, process.ErrReadyTimeout) && srv != nil {
			c.Server = srv
			log.Warn("server left running after readiness timeout", "pid", srv.PID())
			return c, err
		}
		return nil, fmt.Errorf("launch scenario %s: %w", sc.Name, err)
	}
	c.Server = srv
	log.Info("scenario ready", "pid", srv.PID(), "port", o.cfg.Port)
	return c, nil
}

// resolve returns the absolute scenario directory and the entry file name.
func (o *Orchestrator) resolve(sc Scenario) (string, string, error) {
	dir, err := filepath.Abs(filepath.Join(o.cfg.E2EDir, sc.Name))
	if err != nil {
		return "", "", fmt.Errorf("resolve scenario %s: %w", sc.Name, err)
	}
	ok, err := fileutil.IsDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("stat scenario %s: %w", sc.Name, err)
	}
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrScenarioNotFound, dir)
	}

	entry := o.cfg.EntryFile(sc.Mode)
	ok, err = fileutil.IsFile(filepath.Join(dir, entry))
	if err != nil {
		return "", "", fmt.Errorf("stat entry %s: %w", entry, err)
	}
	if !ok {
		return "", "", fmt.Errorf("%w: %s in %s (mode %s)", ErrEntryNotFound, entry, dir, sc.Mode)
	}
	return dir, entry, nil
}

func (o *Orchestrator) processConfig(c *Cycle) (process.Config, error) {
	appDir := o.cfg.AppDir
	if appDir != "" {
		abs, err := filepath.Abs(appDir)
		if err != nil {
			return process.Config{}, fmt.Errorf("resolve app directory: %w", err)
		}
		appDir = abs
	}
	if o.cfg.LogDir != "" {
		if err := fileutil.EnsureDir(o.cfg.LogDir); err != nil {
			return process.Config{}, fmt.Errorf("create log directory: %w", err)
		}
	}

	command, args := o.cfg.LauncherArgs(appDir, c.Entry)
	return process.Config{
		Name:    c.Scenario.Name + "-" + c.ID[:8],
		Command: command,
		Args:    args,
		Dir:     c.Dir,
		Env:     o.cfg.Env,
		Marker:  o.cfg.Marker,
		Stdout:  o.cfg.Stdout,
		Stderr:  o.cfg.Stderr,
		LogDir:  o.cfg.LogDir,
		Logger:  o.log.With("cycle", c.ID),
	}, nil
}
