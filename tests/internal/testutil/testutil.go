//go:build integration

// Package testutil provides shared helpers for integration test packages.
//
// Test binaries double as fake application servers: when HelperEnv is set,
// RunHelperIfRequested listens on the port given as the first argument,
// prints the readiness marker and blocks until killed.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/giantswarm/appenv"
	"github.com/giantswarm/appenv/internal/netutil"
)

// HelperEnv switches a test binary into fake server mode.
const HelperEnv = "APPENV_TEST_HELPER"

// HelperServe is the HelperEnv value for fake server mode.
const HelperServe = "serve"

// RunHelperIfRequested runs the fake server and never returns when HelperEnv
// is set. Call it first thing in TestMain.
func RunHelperIfRequested() {
	if os.Getenv(HelperEnv) != HelperServe {
		return
	}
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "helper: missing port argument")
		os.Exit(2)
	}
	l, err := net.Listen("tcp", "127.0.0.1:"+os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "helper: listen: %v\n", err)
		os.Exit(3)
	}
	fmt.Printf("%s http://localhost:%s\n", appenv.DefaultMarker, os.Args[1])
	for {
		conn, err := l.Accept()
		if err != nil {
			os.Exit(4)
		}
		_ = conn.Close()
	}
}

// SetupTestLogging configures slog based on the APPENV_LOG_LEVEL environment
// variable.
func SetupTestLogging() {
	levelStr := os.Getenv("APPENV_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "INFO"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	appenv.SetLogger(slog.Default().With("component", "appenv"))
}

// RequireToolsOrExit checks that the port listing tool is available,
// exiting the process if not. Used in TestMain where *testing.T is not
// available.
func RequireToolsOrExit() {
	if _, err := exec.LookPath("lsof"); err != nil {
		fmt.Fprintln(os.Stderr, "lsof not found in PATH; install it to run the integration tests")
		os.Exit(1)
	}
}

var ports = netutil.NewPortRegistry(nil)

// FreePort returns a TCP port with no listener that no other test in this
// binary receives until the test ends.
func FreePort(t *testing.T) int {
	t.Helper()
	port, err := ports.Allocate()
	if err != nil {
		t.Fatalf("allocate port: %v", err)
	}
	t.Cleanup(func() { ports.Release(port) })
	return port
}

// PortInUse reports whether something accepts connections on port.
func PortInUse(port int) bool {
	return netutil.Listening(port)
}

// HelperLauncher returns the launcher argv that runs this test binary as a
// fake server on {port}, and the environment enabling helper mode.
func HelperLauncher() ([]string, []string) {
	return []string{os.Args[0], appenv.PlaceholderPort}, append(os.Environ(), HelperEnv+"="+HelperServe)
}

// StartListener starts a fake server outside appenv and waits until it
// listens on port. The process is killed at test cleanup if still alive.
func StartListener(t *testing.T, port int) *exec.Cmd {
	t.Helper()

	cmd := exec.Command(os.Args[0], strconv.Itoa(port))
	cmd.Env = append(os.Environ(), HelperEnv+"="+HelperServe)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start listener: %v", err)
	}
	waitDone := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(waitDone)
	}()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		<-waitDone
	})

	WaitFor(t, 10*time.Second, func() bool { return PortInUse(port) })
	return cmd
}

// WaitFor polls cond every 50ms until it holds, failing the test after
// timeout.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	err := wait.PollUntilContextTimeout(context.Background(), 50*time.Millisecond, timeout, true,
		func(context.Context) (bool, error) { return cond(), nil })
	if err != nil {
		t.Fatalf("condition not met within %s: %v", timeout, err)
	}
}

// RunTestMain runs the tests and removes tmpDir afterwards, also on SIGINT
// or SIGTERM.
func RunTestMain(m *testing.M, tmpDir string) int {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			signal.Stop(sigCh)
			fmt.Fprintf(os.Stderr, "\nReceived %s, cleaning up...\n", sig)
			_ = os.RemoveAll(tmpDir)
			os.Exit(1)
		case <-done:
			return
		}
	}()

	code := m.Run()

	signal.Stop(sigCh)
	close(done)
	_ = os.RemoveAll(tmpDir)

	return code
}
