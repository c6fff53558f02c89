package appenv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/giantswarm/appenv/internal/core"
	"github.com/giantswarm/appenv/internal/portreclaim"
	"github.com/giantswarm/appenv/internal/statereset"
)

// Compile-time interface satisfaction check.
var _ Server = (*serverWrapper)(nil)

// serverWrapper adds the cycle ID to the launched process.
//
// The core.Server is stored as a named field rather than embedded so callers
// cannot type-assert their way to internal methods.
type serverWrapper struct {
	id  string
	srv core.Server
}

func (w *serverWrapper) ID() string              { return w.id }
func (w *serverWrapper) PID() int                { return w.srv.PID() }
func (w *serverWrapper) Exited() <-chan struct{} { return w.srv.Exited() }
func (w *serverWrapper) Close()                  { w.srv.Close() }

func (w *serverWrapper) Stop(timeout time.Duration) error {
	return w.srv.Stop(timeout)
}

// Run executes one orchestration cycle for scenario in mode:
//
//  1. resolve <e2e dir>/<scenario> and its entry file;
//  2. take the per-port fixture lock;
//  3. terminate whatever listens on the port (failures are logged only);
//  4. delete the scenario's persisted chat files and database;
//  5. launch the server and wait for its readiness marker.
//
// Run returns the ready Server. On ErrReadyTimeout it returns the still
// running Server together with the error. Every other failure returns a nil
// Server; a premature exit matches ErrProcessExited and carries an
// *ExitError.
//
// Run never stops the server. ctx bounds the lock wait and the readiness
// wait; canceling it does not terminate a launched server.
//
//nolint:ireturn // Returns Server interface by design for testability.
func Run(ctx context.Context, scenario string, mode Mode, opts ...RunOption) (Server, error) {
	cfg := buildConfig(opts)
	o, err := core.NewOrchestrator(cfg.toCoreConfig(), core.Deps{})
	if err != nil {
		return nil, err
	}

	c, err := o.Run(ctx, core.Scenario{Name: scenario, Mode: mode})
	if c == nil || c.Server == nil {
		return nil, err
	}
	return &serverWrapper{id: c.ID, srv: c.Server}, err
}

// Reclaim terminates every process listening on the configured port and
// returns the terminated PIDs. Unlike Run, failures are returned.
func Reclaim(ctx context.Context, opts ...RunOption) ([]int, error) {
	cfg := buildConfig(opts)
	r := portreclaim.NewForPlatform(core.Logger())
	res, err := r.Reclaim(ctx, cfg.Port, cfg.Method)
	if err != nil {
		return nil, err
	}
	core.Logger().Info(res.String(), "port", cfg.Port)
	return res.PIDs, nil
}

// Reset deletes the persisted state of scenario, as Run does before launch.
// It is idempotent.
func Reset(scenario string, opts ...RunOption) error {
	cfg := buildConfig(opts)
	sc := core.Scenario{Name: scenario}
	if err := sc.Validate(); err != nil {
		return err
	}
	dir := filepath.Join(cfg.E2EDir, scenario)
	err := statereset.New(cfg.StatePaths, core.Logger()).Reset(dir)
	if errors.Is(err, statereset.ErrDirNotFound) {
		return fmt.Errorf("%w: %w", ErrScenarioNotFound, err)
	}
	return err
}
