package backtrace

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

//go:noinline
func crashSite(p *Printer, w io.Writer, mode Mode) error {
	return p.Print(w, mode)
}

func TestRuntimePrinterTerseStopsAtSentinel(t *testing.T) {
	var buf bytes.Buffer
	var err error
	BeginShortBacktrace(func() {
		err = crashSite(NewRuntimePrinter(0), &buf, ModeTerse)
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, contextLine+"   0: crashtrace/internal/backtrace.crashSite\n") {
		t.Fatalf("first entry is not the caller of Print:\n%s", out)
	}
	if !strings.Contains(out, "TestRuntimePrinterTerseStopsAtSentinel.func1\n") {
		t.Fatalf("closure frame missing:\n%s", out)
	}
	if !strings.Contains(out, "runtime_test.go:") {
		t.Fatalf("location missing:\n%s", out)
	}
	for _, hidden := range []string{SentinelMarker, "testing.tRunner"} {
		if strings.Contains(out, hidden) {
			t.Fatalf("%s shown in terse output:\n%s", hidden, out)
		}
	}
	if n := len(entryNumbers(out)); n != 2 {
		t.Fatalf("got %d entries, want 2:\n%s", n, out)
	}
}

func TestRuntimePrinterFullShowsEverything(t *testing.T) {
	var buf bytes.Buffer
	var err error
	BeginShortBacktrace(func() {
		err = crashSite(NewRuntimePrinter(0), &buf, ModeFull)
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"crashSite", SentinelMarker, "testing.tRunner"} {
		if !strings.Contains(out, want) {
			t.Errorf("full output missing %s", want)
		}
	}
	if strings.Contains(out, "note:") {
		t.Error("full output must not carry the note")
	}
}

func TestRuntimeWalkerHonorsStop(t *testing.T) {
	visited := 0
	RuntimeWalker(0).Walk(func(RawFrame) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Fatalf("visited %d frames, want 2", visited)
	}
}
