package core

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestFixtureLock_AcquireRelease(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "tmp", "locks")
	fl, err := acquireFixtureLock(context.Background(), dir, 8000, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if got, want := fl.Path(), filepath.Join(dir, "port-8000.lock"); got != want {
		t.Errorf("lock path = %q, want %q", got, want)
	}
	releaseFixtureLock(slog.Default(), fl)

	fl2, err := acquireFixtureLock(context.Background(), dir, 8000, time.Second)
	if err != nil {
		t.Fatalf("re-acquire after release: %v", err)
	}
	releaseFixtureLock(slog.Default(), fl2)
	releaseFixtureLock(slog.Default(), nil)
}

func TestFixtureLock_TimesOutWhileHeld(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	held, err := acquireFixtureLock(context.Background(), dir, 8000, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer releaseFixtureLock(slog.Default(), held)

	_, err = acquireFixtureLock(context.Background(), dir, 8000, 150*time.Millisecond)
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("error = %v, want ErrLockTimeout", err)
	}
}

func TestFixtureLock_PortsAreIndependent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, err := acquireFixtureLock(context.Background(), dir, 8000, time.Second)
	if err != nil {
		t.Fatalf("acquire 8000: %v", err)
	}
	defer releaseFixtureLock(slog.Default(), a)

	b, err := acquireFixtureLock(context.Background(), dir, 8001, time.Second)
	if err != nil {
		t.Fatalf("acquire 8001 while 8000 held: %v", err)
	}
	releaseFixtureLock(slog.Default(), b)
}

func TestFixtureLock_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	held, err := acquireFixtureLock(context.Background(), dir, 8000, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer releaseFixtureLock(slog.Default(), held)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = acquireFixtureLock(ctx, dir, 8000, time.Second)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if errors.Is(err, ErrLockTimeout) {
		t.Errorf("canceled context should not be reported as lock timeout: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
