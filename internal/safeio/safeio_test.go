package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeFSAllowsAbsoluteUnderRoot(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs, err := NewSafeFS(dir)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fs.SafeReadFile(p); err != nil {
		t.Fatalf("SafeReadFile absolute: %v", err)
	}
}

func TestSafeWriteFileCreatesParents(t *testing.T) {
	fs, err := NewSafeFS(filepath.Join(t.TempDir(), "exports"))
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if err := fs.SafeWriteFile("texture.cobblestone/abc.png", []byte("png")); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := fs.SafeReadFile("texture.cobblestone/abc.png")
	if err != nil || string(got) != "png" {
		t.Fatalf("read back: %q %v", got, err)
	}
	files, err := fs.SafeListFiles("texture.cobblestone")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 || files[0] != "abc.png" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestSafeFSRejectsTraversal(t *testing.T) {
	fs, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if err := fs.SafeWriteFile("../escape.txt", []byte("x")); !errors.Is(err, ErrTraversal) {
		t.Fatalf("expected traversal error, got %v", err)
	}
	if _, err := fs.SafeReadFile("/etc/passwd"); err == nil {
		t.Fatalf("expected absolute path outside root to fail")
	}
}

func TestSafeListFilesMissingDir(t *testing.T) {
	fs, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	files, err := fs.SafeListFiles("nothing-here")
	if err != nil || len(files) != 0 {
		t.Fatalf("expected empty list, got %v %v", files, err)
	}
}
