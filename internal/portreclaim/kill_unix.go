//go:build !windows

package portreclaim

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// SignalKiller terminates processes with SIGKILL.
type SignalKiller struct{}

// Kill implements Killer. Every PID is signalled even if an earlier one
// fails; the failures are joined.
func (SignalKiller) Kill(_ context.Context, pids []int) error {
	var errs []error
	for _, pid := range pids {
		if err := unix.Kill(pid, unix.SIGKILL); err != nil {
			errs = append(errs, fmt.Errorf("kill pid %d: %w", pid, err))
		}
	}
	return errors.Join(errs...)
}

func defaultKiller() Killer {
	return SignalKiller{}
}
