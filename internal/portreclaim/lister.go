package portreclaim

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strconv"
	"strings"
)

// Lister finds the processes listening on a local port.
type Lister interface {
	// Listeners returns the PIDs owning a listening socket on port for the
	// given method, de-duplicated and ascending. No listener yields an empty
	// slice and a nil error.
	Listeners(ctx context.Context, port int, method Method) ([]int, error)
}

// CommandRunner runs an OS command and returns its standard output. The
// error is an *exec.ExitError when the command ran but exited non-zero.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// LsofLister lists listeners with lsof(8).
type LsofLister struct {
	// Binary defaults to "lsof".
	Binary string
	// Run defaults to ExecRunner.
	Run CommandRunner
}

// Listeners implements Lister.
func (l LsofLister) Listeners(ctx context.Context, port int, method Method) ([]int, error) {
	binary := l.Binary
	if binary == "" {
		binary = "lsof"
	}
	run := l.Run
	if run == nil {
		run = ExecRunner
	}

	out, err := run(ctx, binary, "-nP", "-i", fmt.Sprintf("%s:%d", method, port))
	if err != nil {
		// lsof exits 1 when nothing matches the selection.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(strings.TrimSpace(string(out))) == 0 {
			return nil, nil
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("run %s: %w", binary, err)
		}
		// Partial failures (e.g. unreadable /proc entries) still print the
		// rows lsof could resolve.
	}
	return parseLsof(out, port, method)
}

// parseLsof extracts listener PIDs from lsof's default table output:
//
//	COMMAND   PID USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
//	python3 41235 dev    6u  IPv4 0x1a2b      0t0  TCP *:8000 (LISTEN)
func parseLsof(out []byte, port int, method Method) ([]int, error) {
	proto := strings.ToUpper(method.String())
	suffix := ":" + strconv.Itoa(port)

	var pids []int
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] == "COMMAND" {
			continue
		}
		nodeIdx := slices.Index(fields[2:], proto)
		if nodeIdx < 0 || 2+nodeIdx+1 >= len(fields) {
			continue
		}
		name := fields[2+nodeIdx+1:]
		local, _, _ := strings.Cut(name[0], "->")
		if !strings.HasSuffix(local, suffix) {
			continue
		}
		if method == TCP && !slices.Contains(name[1:], "(LISTEN)") {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("parse lsof pid %q: %w", fields[1], err)
		}
		pids = append(pids, pid)
	}
	return normalizePIDs(pids), nil
}

// NetstatLister lists listeners with Windows netstat.
type NetstatLister struct {
	// Binary defaults to "netstat".
	Binary string
	// Run defaults to ExecRunner.
	Run CommandRunner
}

// Listeners implements Lister.
func (l NetstatLister) Listeners(ctx context.Context, port int, method Method) ([]int, error) {
	binary := l.Binary
	if binary == "" {
		binary = "netstat"
	}
	run := l.Run
	if run == nil {
		run = ExecRunner
	}

	out, err := run(ctx, binary, "-nao")
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", binary, err)
	}
	return parseNetstat(out, port, method)
}

// parseNetstat extracts listener PIDs from `netstat -nao` output:
//
//	Proto  Local Address          Foreign Address        State           PID
//	TCP    0.0.0.0:8000           0.0.0.0:0              LISTENING       4312
//	UDP    0.0.0.0:5353           *:*                                    2208
//
// A TCP row is a listener when its foreign address is unspecified. The state
// column is not compared because Windows localizes it.
func parseNetstat(out []byte, port int, method Method) ([]int, error) {
	proto := strings.ToUpper(method.String())
	suffix := ":" + strconv.Itoa(port)

	var pids []int
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || !strings.EqualFold(fields[0], proto) {
			continue
		}
		if !strings.HasSuffix(fields[1], suffix) {
			continue
		}
		if method == TCP && !isUnspecifiedPeer(fields[2]) {
			continue
		}
		raw := fields[len(fields)-1]
		pid, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse netstat pid %q: %w", raw, err)
		}
		pids = append(pids, pid)
	}
	return normalizePIDs(pids), nil
}

func isUnspecifiedPeer(addr string) bool {
	switch addr {
	case "0.0.0.0:0", "[::]:0", "*:*":
		return true
	default:
		return false
	}
}

// normalizePIDs sorts, de-duplicates and drops non-positive PIDs. PID 0 shows
// up on Windows for sockets in TIME_WAIT and is never a killable owner.
func normalizePIDs(pids []int) []int {
	pids = slices.DeleteFunc(pids, func(p int) bool { return p <= 0 })
	if len(pids) == 0 {
		return nil
	}
	slices.Sort(pids)
	return slices.Compact(pids)
}
