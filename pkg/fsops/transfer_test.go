package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/revaer/revaer/pkg/types"
)

func TestTransferCopyLeavesSourceIntact(t *testing.T) {
	src := t.TempDir()
	mustWriteFile(t, filepath.Join(src, "film.mkv"), "payload")
	dest := filepath.Join(t.TempDir(), "artifact")

	if err := transfer(types.MoveModeCopy, src, dest); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	assertFileContents(t, filepath.Join(dest, "film.mkv"), "payload")
	if _, err := os.Stat(filepath.Join(src, "film.mkv")); err != nil {
		t.Error("expected source to survive a copy transfer")
	}
}

func TestTransferMoveRemovesSource(t *testing.T) {
	src := t.TempDir()
	mustWriteFile(t, filepath.Join(src, "film.mkv"), "payload")
	dest := filepath.Join(t.TempDir(), "artifact")

	if err := transfer(types.MoveModeMove, src, dest); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	assertFileContents(t, filepath.Join(dest, "film.mkv"), "payload")
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("expected source directory to be removed after a move")
	}
}

func TestTransferHardlinkSharesInode(t *testing.T) {
	src := t.TempDir()
	mustWriteFile(t, filepath.Join(src, "film.mkv"), "payload")
	dest := filepath.Join(t.TempDir(), "artifact")

	if err := transfer(types.MoveModeHardlink, src, dest); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	assertFileContents(t, filepath.Join(dest, "film.mkv"), "payload")

	srcInfo, err := os.Stat(filepath.Join(src, "film.mkv"))
	if err != nil {
		t.Fatalf("stat source: %v", err)
	}
	destInfo, err := os.Stat(filepath.Join(dest, "film.mkv"))
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if !os.SameFile(srcInfo, destInfo) {
		t.Error("expected hardlinked files to share an inode")
	}
}

func TestTransferReplacesExistingDestination(t *testing.T) {
	src := t.TempDir()
	mustWriteFile(t, filepath.Join(src, "film.mkv"), "new")
	dest := t.TempDir()
	mustWriteFile(t, filepath.Join(dest, "stale.txt"), "old")

	if err := transfer(types.MoveModeCopy, src, dest); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "stale.txt")); !os.IsNotExist(err) {
		t.Error("expected pre-existing destination contents to be replaced")
	}
	assertFileContents(t, filepath.Join(dest, "film.mkv"), "new")
}

func assertFileContents(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("contents of %s = %q, want %q", path, string(data), want)
	}
}
