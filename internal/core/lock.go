package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"github.com/giantswarm/appenv/internal/fileutil"
)

// fileLockRetryInterval is the interval between attempts to acquire the
// fixture lock.
const fileLockRetryInterval = 50 * time.Millisecond

// lockPath returns the fixture lock file for port.
func lockPath(dir string, port int) string {
	return filepath.Join(dir, "port-"+strconv.Itoa(port)+".lock")
}

// acquireFixtureLock takes the exclusive per-port lock under dir, waiting at
// most timeout. A timeout that expires while ctx is still live is reported
// as ErrLockTimeout.
func acquireFixtureLock(ctx context.Context, dir string, port int, timeout time.Duration) (*flock.Flock, error) {
	path := lockPath(dir, port)
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(lockCtx, fileLockRetryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w %s after %s", ErrLockTimeout, path, timeout)
		}
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("%w %s after %s", ErrLockTimeout, path, timeout)
	}
	return fl, nil
}

// releaseFixtureLock releases the lock and closes its descriptor. The lock
// file stays on disk; removing it could invalidate a lock concurrently taken
// by another process.
func releaseFixtureLock(logger *slog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		logger.Debug("failed to release fixture lock", "path", fl.Path(), "error", err)
	}
}
