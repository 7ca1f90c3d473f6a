package nightops

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false}, // EOF with no input cancels
	}
	for _, c := range cases {
		r := New(Config{})
		out := &bytes.Buffer{}
		got := r.Confirm(bufio.NewReader(strings.NewReader(c.input)), out)
		if got != c.want {
			t.Fatalf("Confirm(%q): expected %v, got %v", c.input, c.want, got)
		}
		if !strings.Contains(out.String(), "Proceed? [y/N]") {
			t.Fatalf("expected confirmation prompt, got %q", out.String())
		}
	}
}

func TestCleanup_RemovesDirsAndExe(t *testing.T) {
	base := t.TempDir()
	dir1 := filepath.Join(base, ".kno-url")
	dir2 := filepath.Join(base, "home", ".kno-url")
	exe := filepath.Join(base, "kno-url")

	for _, dir := range []string{dir1, dir2} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "history.sqlite"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(exe, []byte("#!/bin/true\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	New(Config{ExePath: exe, CacheDirs: []string{dir1, dir2}}).Cleanup(out)

	for _, path := range []string{dir1, dir2, exe} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, stat err = %v", path, err)
		}
	}
	got := out.String()
	if strings.Count(got, "Removed cache directory") != 2 {
		t.Fatalf("expected two removal reports, got:\n%s", got)
	}
	if !strings.Contains(got, "Removed executable") || !strings.Contains(got, "Self-destruct complete") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestCleanup_AbsentTargetsSilent(t *testing.T) {
	base := t.TempDir()
	out := &bytes.Buffer{}
	New(Config{
		ExePath:   filepath.Join(base, "gone"),
		CacheDirs: []string{filepath.Join(base, "missing"), ""},
	}).Cleanup(out)

	got := out.String()
	if strings.Contains(got, "cache directory") {
		t.Fatalf("absent cache dirs must not be reported:\n%s", got)
	}
	// A missing executable is still a reported failure.
	if !strings.Contains(got, "Could not delete executable") {
		t.Fatalf("expected executable failure report:\n%s", got)
	}
	if !strings.Contains(got, "Self-destruct complete") {
		t.Fatalf("cleanup must always complete:\n%s", got)
	}
}

func TestWait_SleepsRequestedDelay(t *testing.T) {
	r := New(Config{})
	var slept time.Duration
	r.sleep = func(d time.Duration) { slept = d }

	out := &bytes.Buffer{}
	r.Wait(90, out)

	if slept != 90*time.Second {
		t.Fatalf("expected 90s sleep, got %v", slept)
	}
	if !strings.Contains(out.String(), "sleeping for 90 seconds") {
		t.Fatalf("expected schedule notice, got %q", out.String())
	}
}
