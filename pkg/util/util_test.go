package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsRemotePath(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected bool
	}{
		{"Local Absolute", "/data/dst", false},
		{"Local Relative", "some/dir", false},
		{"Host Qualified", "host:/backup", true},
		{"User At Host", "alice@host:/backup", true},
		{"Bare Colon", "a:b", true},
		{"Empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRemotePath(tc.path); got != tc.expected {
				t.Errorf("IsRemotePath(%q) = %v, want %v", tc.path, got, tc.expected)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}

	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{"No Tilde", "/var/log", "/var/log"},
		{"Bare Tilde", "~", home},
		{"Tilde Prefix", "~/work", filepath.Join(home, "work")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExpandPath(tc.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tc.path, got, tc.expected)
			}
		})
	}
}

func TestInvertMap(t *testing.T) {
	m := map[int]string{1: "one", 2: "two"}
	inv := InvertMap(m)
	if len(inv) != 2 || inv["one"] != 1 || inv["two"] != 2 {
		t.Errorf("unexpected inverted map: %v", inv)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := "transfer log contents\n"
	if err := os.WriteFile(src, []byte(content), UserWritableFilePerms); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("copied content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("expected error for missing source, got nil")
	}
	if !strings.Contains(err.Error(), "opening") {
		t.Errorf("unexpected error: %v", err)
	}
}
