//go:build windows

package portreclaim

import (
	"context"
	"fmt"
	"strconv"
)

// TaskKiller terminates processes with `taskkill /F`.
type TaskKiller struct {
	// Run defaults to ExecRunner.
	Run CommandRunner
}

// Kill implements Killer with a single taskkill invocation for all PIDs.
func (k TaskKiller) Kill(ctx context.Context, pids []int) error {
	if len(pids) == 0 {
		return nil
	}
	run := k.Run
	if run == nil {
		run = ExecRunner
	}
	args := []string{"/F"}
	for _, pid := range pids {
		args = append(args, "/PID", strconv.Itoa(pid))
	}
	if out, err := run(ctx, "taskkill", args...); err != nil {
		return fmt.Errorf("taskkill %v: %w (output: %s)", pids, err, out)
	}
	return nil
}

func defaultKiller() Killer {
	return TaskKiller{}
}
