// ABOUTME: Tests for the asset directory watcher
// ABOUTME: Drives real filesystem events through a temp directory

package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchAssets_ReportsWrites(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan string, 8)

	w, err := WatchAssets(dir, func(path string) { changed <- path }, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.Close() }()

	path := filepath.Join(dir, "a.mp4")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("changed path = %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported within 2s")
	}
}

func TestWatchAssets_MissingDirFails(t *testing.T) {
	if _, err := WatchAssets(filepath.Join(t.TempDir(), "nope"), func(string) {}, nil); err == nil {
		t.Error("watching a missing directory should fail")
	}
}
