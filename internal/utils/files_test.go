package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "project.json")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "two" {
		t.Fatalf("content = %q, err = %v", b, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	got, err := ExpandHome("~/.tabinsight/projects")
	if err != nil || got != filepath.Join(home, ".tabinsight", "projects") {
		t.Fatalf("ExpandHome = %q, %v", got, err)
	}
	if got, _ := ExpandHome("/srv/data/../projects"); got != filepath.Clean("/srv/projects") {
		t.Fatalf("plain path = %q", got)
	}
}

func TestCheckFreshProjectDir(t *testing.T) {
	root := t.TempDir()
	if err := CheckFreshProjectDir(filepath.Join(root, "missing")); err != nil {
		t.Fatalf("missing dir should be fresh: %v", err)
	}
	if err := CheckFreshProjectDir(root); err != nil {
		t.Fatalf("empty dir should be fresh: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckFreshProjectDir(root); err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Fatalf("expected not empty error, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ProjectFile), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckFreshProjectDir(root); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ProjectFile), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "reports", "2024")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindProjectRoot(nested)
	if err != nil || got != root {
		t.Fatalf("FindProjectRoot = %q, %v", got, err)
	}
	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Fatalf("expected not found outside a project")
	}
}
