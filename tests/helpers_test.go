//go:build integration

package appenv_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/giantswarm/appenv"
	"github.com/giantswarm/appenv/tests/internal/testutil"
)

// project lays out a scenario tree under tmpRoot whose scenarios are served
// by the test binary in helper mode.
type project struct {
	root string
	port int
}

func newProject(t *testing.T) *project {
	t.Helper()
	root, err := os.MkdirTemp(tmpRoot, "project-*")
	if err != nil {
		t.Fatal(err)
	}
	return &project{root: root, port: testutil.FreePort(t)}
}

// addScenario creates <root>/e2e/<name> with all three entry files and
// stale chat state.
func (p *project) addScenario(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(p.root, "e2e", name)
	if err := os.MkdirAll(filepath.Join(dir, ".chainlit", "chat_files"), 0o750); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"main.py", "main_sync.py", "main_async.py", ".chainlit/chat.db", ".chainlit/chat_files/a.png"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func (p *project) options(extra ...appenv.RunOption) []appenv.RunOption {
	launcher, env := testutil.HelperLauncher()
	opts := []appenv.RunOption{
		appenv.WithPort(p.port),
		appenv.WithE2EDir(filepath.Join(p.root, "e2e")),
		appenv.WithAppDir(p.root),
		appenv.WithLauncher(launcher...),
		appenv.WithEnv(env),
		appenv.WithLockDir(filepath.Join(p.root, "locks")),
		appenv.WithReadyTimeout(30 * time.Second),
		appenv.WithOutput(nil, nil),
	}
	return append(opts, extra...)
}

func stopServer(t *testing.T, srv appenv.Server) {
	t.Helper()
	if srv == nil {
		return
	}
	if err := srv.Stop(appenv.DefaultStopTimeout); err != nil {
		t.Errorf("stop server: %v", err)
	}
	srv.Close()
}

func requireExited(t *testing.T, srv appenv.Server) {
	t.Helper()
	select {
	case <-srv.Exited():
	case <-time.After(10 * time.Second):
		t.Fatalf("server pid %d still running", srv.PID())
	}
}
