package unwind

import (
	"strings"
	"testing"
)

//go:noinline
func captureHere() []uintptr {
	return Callers(0)
}

func TestCallersStartsAtCaller(t *testing.T) {
	pcs := captureHere()
	if len(pcs) == 0 {
		t.Fatal("no frames captured")
	}

	var names []string
	Symbolize(pcs[0], func(s Symbol) { names = append(names, s.Function) })
	if len(names) == 0 || !strings.HasSuffix(names[len(names)-1], "unwind.captureHere") {
		t.Fatalf("first frame = %v, want captureHere", names)
	}
}

func TestCallersGrowsBuffer(t *testing.T) {
	var pcs []uintptr
	var recurse func(int)
	recurse = func(n int) {
		if n == 0 {
			pcs = Callers(0)
			return
		}
		recurse(n - 1)
	}
	recurse(3 * initialDepth)

	if len(pcs) < 3*initialDepth {
		t.Fatalf("captured %d frames, want at least %d", len(pcs), 3*initialDepth)
	}
}

func TestSymbolizeReportsFileAndLine(t *testing.T) {
	pcs := captureHere()
	var got Symbol
	Symbolize(pcs[0], func(s Symbol) { got = s })

	if !strings.HasSuffix(got.File, "unwind_test.go") {
		t.Errorf("file = %q, want unwind_test.go", got.File)
	}
	if got.Line == 0 {
		t.Error("line should be known")
	}
}

func TestSymbolizeUnknownPC(t *testing.T) {
	calls := 0
	Symbolize(1, func(Symbol) { calls++ })
	if calls != 0 {
		t.Fatalf("unknown pc produced %d symbols", calls)
	}
}

func TestLineOf(t *testing.T) {
	if lineOf(-1) != 0 {
		t.Error("negative line must map to unknown")
	}
	if lineOf(42) != 42 {
		t.Error("line 42 lost")
	}
}
