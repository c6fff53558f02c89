//go:build integration

package appenv_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/giantswarm/appenv"
	"github.com/giantswarm/appenv/tests/internal/testutil"
)

func TestReclaim_KillsListener(t *testing.T) {
	t.Parallel()

	port := testutil.FreePort(t)
	listener := testutil.StartListener(t, port)

	pids, err := appenv.Reclaim(context.Background(), appenv.WithPort(port))
	if err != nil {
		t.Fatalf("Reclaim: %v", err)
	}
	if !slices.Contains(pids, listener.Process.Pid) {
		t.Errorf("killed pids %v, want %d among them", pids, listener.Process.Pid)
	}
	if testutil.PortInUse(port) {
		t.Errorf("port %d still accepts connections after reclaim", port)
	}
}

func TestReclaim_NoListener(t *testing.T) {
	t.Parallel()

	port := testutil.FreePort(t)
	pids, err := appenv.Reclaim(context.Background(), appenv.WithPort(port))
	if err != nil {
		t.Fatalf("Reclaim: %v", err)
	}
	if len(pids) != 0 {
		t.Errorf("pids = %v, want none", pids)
	}
}

func TestReclaim_IgnoresOtherPorts(t *testing.T) {
	t.Parallel()

	busy := testutil.FreePort(t)
	testutil.StartListener(t, busy)
	other := testutil.FreePort(t)

	pids, err := appenv.Reclaim(context.Background(), appenv.WithPort(other))
	if err != nil {
		t.Fatalf("Reclaim: %v", err)
	}
	if len(pids) != 0 {
		t.Errorf("pids = %v, want none", pids)
	}
	testutil.WaitFor(t, time.Second, func() bool { return testutil.PortInUse(busy) })
}
