package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveTree(t *testing.T) {
	t.Parallel()

	t.Run("removes populated directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "chat_files")
		if err := os.MkdirAll(filepath.Join(dir, "session-1"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "session-1", "upload.png"), []byte("png"), 0o600); err != nil {
			t.Fatal(err)
		}

		removed, err := RemoveTree(dir)
		if err != nil {
			t.Fatalf("RemoveTree() error: %v", err)
		}
		if !removed {
			t.Error("RemoveTree() reported nothing removed")
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("directory still present, stat err = %v", err)
		}
	})

	t.Run("missing directory is not an error", func(t *testing.T) {
		t.Parallel()

		removed, err := RemoveTree(filepath.Join(t.TempDir(), "absent"))
		if err != nil {
			t.Fatalf("RemoveTree() error: %v", err)
		}
		if removed {
			t.Error("RemoveTree() reported a removal for a missing path")
		}
	})
}

func TestRemoveFile(t *testing.T) {
	t.Parallel()

	t.Run("removes file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "chat.db")
		if err := os.WriteFile(file, []byte("sqlite"), 0o600); err != nil {
			t.Fatal(err)
		}

		removed, err := RemoveFile(file)
		if err != nil {
			t.Fatalf("RemoveFile() error: %v", err)
		}
		if !removed {
			t.Error("RemoveFile() reported nothing removed")
		}
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		t.Parallel()

		removed, err := RemoveFile(filepath.Join(t.TempDir(), "chat.db"))
		if err != nil {
			t.Fatalf("RemoveFile() error: %v", err)
		}
		if removed {
			t.Error("RemoveFile() reported a removal for a missing file")
		}
	})

	t.Run("refuses directories", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		if _, err := RemoveFile(dir); err == nil {
			t.Fatal("expected error removing a directory with RemoveFile")
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory should survive RemoveFile, stat err = %v", err)
		}
	})
}
