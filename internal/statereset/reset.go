package statereset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/giantswarm/appenv/internal/fileutil"
	"github.com/giantswarm/appenv/internal/sentinel"
)

// ErrDirNotFound is returned when the scenario directory does not exist.
const ErrDirNotFound = sentinel.Error("state directory not found")

// ErrResetFailed is matched by every ResetError.
const ErrResetFailed = sentinel.Error("reset persisted state")

// ErrPathEscapesDir is returned when a configured artifact path resolves
// outside the scenario directory.
const ErrPathEscapesDir = sentinel.Error("path escapes scenario directory")

// Default artifact locations, relative to the scenario directory.
const (
	DefaultCacheDir = ".chainlit/chat_files"
	DefaultDBFile   = ".chainlit/chat.db"
)

// sqliteCompanions are the suffixes SQLite appends for its write-ahead log,
// shared-memory index and rollback journal.
var sqliteCompanions = []string{"-wal", "-shm", "-journal"}

// Paths names the artifacts to delete, relative to the scenario directory.
// An empty field skips that artifact.
type Paths struct {
	CacheDir string
	DBFile   string
}

// DefaultPaths returns the chat files directory and chat database locations.
func DefaultPaths() Paths {
	return Paths{CacheDir: DefaultCacheDir, DBFile: DefaultDBFile}
}

// ResetError reports a filesystem failure while deleting an artifact.
type ResetError struct {
	Path string
	Err  error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset persisted state at %s: %v", e.Path, e.Err)
}

func (e *ResetError) Unwrap() error { return e.Err }

// Is makes every ResetError match ErrResetFailed.
func (e *ResetError) Is(target error) bool { return target == ErrResetFailed }

// Resetter deletes persisted test state under scenario directories.
type Resetter struct {
	paths Paths
	log   *slog.Logger
}

// New returns a Resetter for the given artifact paths. If logger is nil,
// slog.Default() is used.
func New(paths Paths, logger *slog.Logger) *Resetter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resetter{paths: paths, log: logger}
}

// Reset deletes the cache directory and the database file under dir, each
// only if present. Calling it on an already clean directory is a no-op.
func (r *Resetter) Reset(dir string) error {
	ok, err := fileutil.IsDir(dir)
	if err != nil {
		return &ResetError{Path: dir, Err: err}
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	if r.paths.CacheDir != "" {
		cacheDir, err := resolve(dir, r.paths.CacheDir)
		if err != nil {
			return err
		}
		removed, err := fileutil.RemoveTree(cacheDir)
		if err != nil {
			return &ResetError{Path: cacheDir, Err: err}
		}
		if removed {
			r.log.Debug("removed cache directory", "path", cacheDir)
		}
	}

	if r.paths.DBFile != "" {
		dbFile, err := resolve(dir, r.paths.DBFile)
		if err != nil {
			return err
		}
		if err := r.removeDatabase(dbFile); err != nil {
			return err
		}
	}
	return nil
}

// removeDatabase removes a SQLite database and its companion files.
func (r *Resetter) removeDatabase(dbFile string) error {
	paths := []string{dbFile}
	for _, suffix := range sqliteCompanions {
		paths = append(paths, dbFile+suffix)
	}
	for _, p := range paths {
		removed, err := fileutil.RemoveFile(p)
		if err != nil {
			return &ResetError{Path: p, Err: err}
		}
		if removed {
			r.log.Debug("removed database file", "path", p)
		}
	}
	return nil
}

// resolve joins rel onto dir and rejects results outside dir.
func resolve(dir, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s is absolute", ErrPathEscapesDir, rel)
	}
	joined := filepath.Join(dir, rel)
	inside, err := filepath.Rel(dir, joined)
	if err != nil {
		return "", &ResetError{Path: joined, Err: err}
	}
	if inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapesDir, rel)
	}
	return joined, nil
}

// Validate reports configuration problems in p without touching the
// filesystem.
func (p Paths) Validate() error {
	var errs []error
	for _, rel := range []string{p.CacheDir, p.DBFile} {
		if rel == "" {
			continue
		}
		if _, err := resolve(string(filepath.Separator)+"scenario", rel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
