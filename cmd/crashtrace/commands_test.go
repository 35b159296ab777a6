package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crashtrace/internal/backtrace"
	"crashtrace/internal/snapshot"
)

func TestCaptureAndReplay(t *testing.T) {
	const depth = 2
	snap, err := captureNested(depth)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "crash.msgpack")
	if err := snap.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := snapshot.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var terse bytes.Buffer
	if err := loaded.Printer(nil).Print(&terse, backtrace.ModeTerse); err != nil {
		t.Fatal(err)
	}
	out := terse.String()
	if !strings.Contains(out, ": crashtrace/internal/snapshot.Capture\n") {
		t.Fatalf("capture point missing:\n%s", out)
	}
	if n := strings.Count(out, ": main.nest\n"); n != depth+1 {
		t.Fatalf("got %d nest frames, want %d:\n%s", n, depth+1, out)
	}
	if strings.Contains(out, "main.TestCaptureAndReplay\n") {
		t.Fatalf("frames below the sentinel leaked:\n%s", out)
	}

	var full bytes.Buffer
	if err := loaded.Printer(nil).Print(&full, backtrace.ModeFull); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(full.String(), "main.TestCaptureAndReplay\n") {
		t.Fatalf("full replay lost frames:\n%s", full.String())
	}
}

func TestResolveReplayMode(t *testing.T) {
	disabled := func() (backtrace.Mode, bool) { return 0, false }
	full := func() (backtrace.Mode, bool) { return backtrace.ModeFull, true }

	cases := []struct {
		flag    string
		enabled func() (backtrace.Mode, bool)
		want    backtrace.Mode
	}{
		{"", disabled, backtrace.ModeTerse},
		{"", full, backtrace.ModeFull},
		{"terse", full, backtrace.ModeTerse},
		{"full", disabled, backtrace.ModeFull},
	}
	for _, tc := range cases {
		got, err := resolveReplayMode(tc.flag, tc.enabled)
		if err != nil || got != tc.want {
			t.Errorf("resolveReplayMode(%q) = %v, %v; want %v", tc.flag, got, err, tc.want)
		}
	}
	if _, err := resolveReplayMode("verbose", full); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRenderEnv(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == backtrace.EnvVar {
			return "full", true
		}
		return "", false
	}
	var buf bytes.Buffer
	if err := renderEnv(&buf, backtrace.NewEnablement(lookup, false), lookup); err != nil {
		t.Fatal(err)
	}
	want := "CRASHTRACE_BACKTRACE=\"full\"\nbacktraces: full\n"
	if !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("got %q, want prefix %q", buf.String(), want)
	}
}

func TestRenderEnvUnset(t *testing.T) {
	lookup := func(string) (string, bool) { return "", false }
	var buf bytes.Buffer
	if err := renderEnv(&buf, backtrace.NewEnablement(lookup, false), lookup); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "=(unset)\nbacktraces: disabled\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3"}
	if err := renderVersionJSON(&buf, info, true); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "crashtrace" || payload.Version != "1.2.3" || payload.GitCommit != "unknown" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestSetupProfilingGoroutineDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goroutines.txt")
	session, err := setupProfiling(newTestRoot(t, "--goroutine-dump", path))
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Stop(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "goroutine ") {
		t.Fatalf("unexpected dump:\n%s", data)
	}
}

func TestStopProfilingReportsToWriter(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "goroutines.txt")
	session, err := setupProfiling(newTestRoot(t, "--goroutine-dump", bad))
	if err != nil {
		t.Fatal(err)
	}
	profileSession = session
	t.Cleanup(func() { profileSession = nil })

	var errOut bytes.Buffer
	stopProfiling(&errOut)
	if !strings.HasPrefix(errOut.String(), "profile: goroutine dump: ") {
		t.Fatalf("unexpected report %q", errOut.String())
	}
	if profileSession != nil {
		t.Fatal("session not cleared")
	}

	errOut.Reset()
	stopProfiling(&errOut)
	if errOut.Len() != 0 {
		t.Fatalf("second stop reported %q", errOut.String())
	}
}

func TestRootHooksRunProfilingAndTracing(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "goroutines.txt")
	root := newTestRoot(t, "--config", writeConfig(t, t.TempDir(), ""), "--goroutine-dump", dump)
	root.SetContext(context.Background())
	t.Cleanup(func() { activeSettings = defaultSettings() })

	if err := rootCmd.PersistentPreRunE(root, nil); err != nil {
		t.Fatal(err)
	}
	rootCmd.PersistentPostRun(root, nil)

	if _, err := os.Stat(dump); err != nil {
		t.Fatalf("goroutine dump not written: %v", err)
	}
	if profileSession != nil || traceCleanup != nil {
		t.Fatal("hooks left state behind")
	}
}
