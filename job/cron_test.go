package job

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanExports(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "stale.xlsx")
	fresh := filepath.Join(dir, "fresh.xlsx")
	for _, path := range []string{stale, fresh} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	old := time.Now().Add(-8 * 24 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := CleanExports(dir, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed=%d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file not removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh file removed")
	}
}

func TestCleanExports_MissingDirIsNoop(t *testing.T) {
	removed, err := CleanExports(filepath.Join(t.TempDir(), "nope"), time.Hour)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed=%d", removed)
	}
}
