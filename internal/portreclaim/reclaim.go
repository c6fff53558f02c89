package portreclaim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Default release-wait settings. After a kill, the kernel may keep the
// socket around briefly while the owner is reaped.
const (
	DefaultReleaseTimeout = 2 * time.Second
	DefaultPollInterval   = 50 * time.Millisecond
)

// Killer force-terminates processes.
type Killer interface {
	Kill(ctx context.Context, pids []int) error
}

// Config configures a Reclaimer.
type Config struct {
	Lister Lister // Required
	Killer Killer // Required

	// ReleaseTimeout bounds the wait for the port to become free after a
	// kill. Zero uses DefaultReleaseTimeout; negative disables the wait.
	ReleaseTimeout time.Duration
	// PollInterval between listing attempts during the release wait. Zero
	// uses DefaultPollInterval.
	PollInterval time.Duration

	// Logger (optional, defaults to slog.Default())
	Logger *slog.Logger
}

// Result describes a successful reclamation.
type Result struct {
	Port   int
	Method Method
	// PIDs are the listeners that were killed. Empty when nothing was
	// listening.
	PIDs []int
}

// Found reports whether any process was listening on the port.
func (r Result) Found() bool {
	return len(r.PIDs) > 0
}

// String returns a human-readable summary for diagnostics.
func (r Result) String() string {
	if !r.Found() {
		return fmt.Sprintf("no process listening on %s port %d", r.Method, r.Port)
	}
	return fmt.Sprintf("killed pids %v listening on %s port %d", r.PIDs, r.Method, r.Port)
}

// Reclaimer frees ports by terminating their listeners.
type Reclaimer struct {
	lister         Lister
	killer         Killer
	releaseTimeout time.Duration
	pollInterval   time.Duration
	log            *slog.Logger
}

// New creates a Reclaimer. It returns an error if Lister or Killer is nil.
func New(cfg Config) (*Reclaimer, error) {
	var errs []error
	if cfg.Lister == nil {
		errs = append(errs, errors.New("lister must not be nil"))
	}
	if cfg.Killer == nil {
		errs = append(errs, errors.New("killer must not be nil"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid reclaimer config: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	releaseTimeout := cfg.ReleaseTimeout
	if releaseTimeout == 0 {
		releaseTimeout = DefaultReleaseTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Reclaimer{
		lister:         cfg.Lister,
		killer:         cfg.Killer,
		releaseTimeout: releaseTimeout,
		pollInterval:   pollInterval,
		log:            log,
	}, nil
}

// Reclaim terminates every process listening on port. Finding no listener
// returns a Result with no PIDs and a nil error. Failures are returned as
// *ReclaimError.
func (r *Reclaimer) Reclaim(ctx context.Context, port int, method Method) (Result, error) {
	res := Result{Port: port, Method: method}
	if port < 1 || port > 65535 {
		return res, fmt.Errorf("%w, got %d", ErrInvalidPort, port)
	}
	if !method.IsValid() {
		return res, fmt.Errorf("%w, got %s", ErrInvalidMethod, method)
	}

	pids, err := r.lister.Listeners(ctx, port, method)
	if err != nil {
		return res, &ReclaimError{Port: port, Method: method, Err: fmt.Errorf("%w: %w", ErrListFailed, err)}
	}
	if len(pids) == 0 {
		r.log.Debug("no listener on port", "port", port, "method", method)
		return res, nil
	}

	if slices.Contains(pids, os.Getpid()) {
		return res, &ReclaimError{
			Port: port, Method: method, PIDs: pids,
			Err: fmt.Errorf("%w: listener is the current process", ErrKillFailed),
		}
	}

	r.log.Info("killing port listeners", "port", port, "method", method, "pids", pids)
	if err := r.killer.Kill(ctx, pids); err != nil {
		return res, &ReclaimError{Port: port, Method: method, PIDs: pids, Err: fmt.Errorf("%w: %w", ErrKillFailed, err)}
	}

	if err := r.waitReleased(ctx, port, method); err != nil {
		return res, &ReclaimError{Port: port, Method: method, PIDs: pids, Err: err}
	}

	res.PIDs = pids
	return res, nil
}

// waitReleased polls the lister until nothing listens on port.
func (r *Reclaimer) waitReleased(ctx context.Context, port int, method Method) error {
	if r.releaseTimeout < 0 {
		return nil
	}

	var lastErr error
	err := wait.PollUntilContextTimeout(ctx, r.pollInterval, r.releaseTimeout, true,
		func(pollCtx context.Context) (bool, error) {
			pids, err := r.lister.Listeners(pollCtx, port, method)
			if err != nil {
				// Listing may fail transiently while the socket is torn
				// down; keep polling until the timeout.
				lastErr = err
				return false, nil
			}
			if len(pids) > 0 {
				r.log.Debug("port still held", "port", port, "pids", pids)
			}
			return len(pids) == 0, nil
		})
	if err != nil {
		if lastErr != nil {
			return fmt.Errorf("%w: %w (last listing error: %w)", ErrStillListening, err, lastErr)
		}
		return fmt.Errorf("%w: %w", ErrStillListening, err)
	}
	return nil
}
