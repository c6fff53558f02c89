package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// RemoveTree deletes path and everything below it. It reports whether
// anything was there to delete; a missing path returns (false, nil).
func RemoveTree(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	return true, nil
}

// RemoveFile deletes a single file. It reports whether the file existed; a
// missing file returns (false, nil). Directories are refused so that a
// misconfigured path never triggers a recursive delete.
func RemoveFile(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("remove %s: is a directory", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	return true, nil
}
