package core

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/giantswarm/appenv/internal/portreclaim"
	"github.com/giantswarm/appenv/internal/statereset"
)

func validConfig() Config {
	return Config{
		Port:        8000,
		Method:      portreclaim.TCP,
		E2EDir:      "cypress/e2e",
		AppDir:      "src",
		Launcher:    []string{"poetry", "run", "-C", "{app_dir}", "chainlit", "run", "{entry}", "-h", "-c"},
		EntryExt:    ".py",
		Marker:      "Your app is available at",
		LockDir:     "/tmp/appenv",
		LockTimeout: 2 * time.Minute,
		StatePaths:  statereset.DefaultPaths(),
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tests := map[string]struct {
		modify       func(c *Config)
		wantContains string
	}{
		"zero port": {
			modify:       func(c *Config) { c.Port = 0 },
			wantContains: "port must be in 1..65535",
		},
		"port too large": {
			modify:       func(c *Config) { c.Port = 70000 },
			wantContains: "port must be in 1..65535",
		},
		"invalid method": {
			modify:       func(c *Config) { c.Method = portreclaim.Method(7) },
			wantContains: "invalid method",
		},
		"empty e2e dir": {
			modify:       func(c *Config) { c.E2EDir = "" },
			wantContains: "e2e directory",
		},
		"empty launcher": {
			modify:       func(c *Config) { c.Launcher = nil },
			wantContains: "launcher command",
		},
		"empty launcher executable": {
			modify:       func(c *Config) { c.Launcher = []string{"", "run"} },
			wantContains: "launcher command",
		},
		"empty marker": {
			modify:       func(c *Config) { c.Marker = "" },
			wantContains: "readiness marker",
		},
		"negative ready timeout": {
			modify:       func(c *Config) { c.ReadyTimeout = -time.Second },
			wantContains: "ready timeout",
		},
		"zero lock timeout with lock dir": {
			modify:       func(c *Config) { c.LockTimeout = 0 },
			wantContains: "lock timeout",
		},
		"escaping state path": {
			modify:       func(c *Config) { c.StatePaths.DBFile = "../chat.db" },
			wantContains: "chat.db",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantContains) {
				t.Errorf("error %q does not contain %q", err, tc.wantContains)
			}
		})
	}

	t.Run("lock timeout ignored without lock dir", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.LockDir = ""
		cfg.LockTimeout = 0
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("reports every violation", func(t *testing.T) {
		t.Parallel()
		err := Config{Method: portreclaim.Method(7)}.Validate()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		for _, want := range []string{"port", "method", "e2e directory", "launcher", "marker"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q does not mention %q", err, want)
			}
		}
	})
}

func TestConfig_LauncherArgs(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Launcher = append(cfg.Launcher, "--port={port}")

	command, args := cfg.LauncherArgs("/repo/src", "main_async.py")
	if command != "poetry" {
		t.Errorf("command = %q, want %q", command, "poetry")
	}
	want := []string{"run", "-C", "/repo/src", "chainlit", "run", "main_async.py", "-h", "-c", "--port=8000"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
	if cfg.Launcher[3] != "{app_dir}" {
		t.Error("LauncherArgs must not modify the template")
	}
}

func TestConfig_EntryFile(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	tests := map[Mode]string{
		ModeDefault: "main.py",
		ModeSync:    "main_sync.py",
		ModeAsync:   "main_async.py",
	}
	for mode, want := range tests {
		if got := cfg.EntryFile(mode); got != want {
			t.Errorf("EntryFile(%s) = %q, want %q", mode, got, want)
		}
	}
}
