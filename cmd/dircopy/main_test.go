package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dirtools/dircopy/pkg/plog"
)

func TestMain(m *testing.M) {
	// Silence logs during tests to keep output clean.
	plog.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// The -debug flag composes and prints the rsync commands without spawning
// them, which lets these tests exercise the whole run without rsync.

func TestRunImageDebug(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "file.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "dst")

	var out, errBuf bytes.Buffer
	if err := run(context.Background(), []string{"-debug", src, dst}, &out, &errBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if info, err := os.Stat(dst); err != nil || !info.IsDir() {
		t.Errorf("missing destination must be created as a directory: %v", err)
	}
	if !strings.Contains(out.String(), "rsync -avH") {
		t.Errorf("composed command not printed:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "--delete") {
		t.Errorf("image mode must delete extraneous destination files:\n%s", out.String())
	}

	log, err := os.ReadFile(filepath.Join(src, ".dircopy.log"))
	if err != nil {
		t.Fatalf("transfer log not placed in the source: %v", err)
	}
	if !strings.Contains(string(log), "---- begin image:") {
		t.Errorf("log missing the pass marker:\n%s", log)
	}
}

func TestRunSyncDebugMirrorsLog(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	var out, errBuf bytes.Buffer
	if err := run(context.Background(), []string{"-debug", "-sync", src, dst}, &out, &errBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Two passes, contents-to-contents, in both directions.
	outText := out.String()
	first := strings.Index(outText, src+"/ "+dst+"/")
	second := strings.Index(outText, dst+"/ "+src+"/")
	if first < 0 || second < 0 || second < first {
		t.Errorf("expected an out pass followed by a back pass:\n%s", outText)
	}

	if _, err := os.Stat(filepath.Join(src, ".dircopy.log")); err != nil {
		t.Errorf("log missing at the source end: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, ".dircopy.log")); err != nil {
		t.Errorf("log not mirrored to the destination end: %v", err)
	}
}

func TestRunNoLog(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	src := t.TempDir()
	dst := t.TempDir()

	var out, errBuf bytes.Buffer
	if err := run(context.Background(), []string{"-debug", "-nolog", src, dst}, &out, &errBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, ".dircopy.log")); !os.IsNotExist(err) {
		t.Error("no log must be placed with -nolog")
	}
}

func TestRunDestinationIsFile(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(dst, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errBuf bytes.Buffer
	if err := run(context.Background(), []string{"-debug", src, dst}, &out, &errBuf); err == nil {
		t.Fatal("expected an error for a non-directory destination")
	}
}

func TestRunHelp(t *testing.T) {
	var out, errBuf bytes.Buffer
	if err := run(context.Background(), []string{"-h"}, &out, &errBuf); err != nil {
		t.Fatalf("help must not fail: %v", err)
	}
	if !strings.Contains(out.String(), "Usage: dircopy") {
		t.Errorf("help text not printed:\n%s", out.String())
	}
}

func TestRunBadArguments(t *testing.T) {
	var out, errBuf bytes.Buffer
	if err := run(context.Background(), []string{"-bogus", "a", "b"}, &out, &errBuf); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if !strings.Contains(errBuf.String(), "Usage: dircopy") {
		t.Errorf("usage must accompany a flag error:\n%s", errBuf.String())
	}
}
