package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"crashtrace/internal/backtrace"
)

type stubFrame struct {
	ip   uintptr
	syms []backtrace.SymbolRecord
}

func (f stubFrame) IP() uintptr { return f.ip }

type stubStack []stubFrame

func (s stubStack) Walk(fn func(backtrace.RawFrame) bool) {
	for _, f := range s {
		if !fn(f) {
			return
		}
	}
}

func (s stubStack) Resolve(frame backtrace.RawFrame, fn func(backtrace.SymbolRecord)) {
	for _, sym := range frame.(stubFrame).syms {
		fn(sym)
	}
}

func sampleStack() stubStack {
	return stubStack{
		{ip: 0x401000, syms: []backtrace.SymbolRecord{
			{Name: "app.leaf", File: backtrace.PathFile("/work/app/leaf.go"), Line: 7},
			{Name: "app.caller", File: backtrace.PathFile("/work/app/caller.go"), Line: 21},
		}},
		{ip: 0x402000},
		{ip: 0x403000, syms: []backtrace.SymbolRecord{
			{Name: "app.win", File: backtrace.WideFile([]uint16{'C', ':', '\\', 'a'}), Line: 1},
		}},
		{ip: 0x404000, syms: []backtrace.SymbolRecord{{Name: backtrace.SentinelMarker}}},
		{ip: 0x405000, syms: []backtrace.SymbolRecord{{Name: "runtime.main"}}},
	}
}

func render(t *testing.T, p *backtrace.Printer, mode backtrace.Mode) string {
	t.Helper()
	var buf bytes.Buffer
	if err := p.Print(&buf, mode); err != nil {
		t.Fatalf("Print: %v", err)
	}
	return buf.String()
}

func TestReplayMatchesLivePrint(t *testing.T) {
	stack := sampleStack()
	snap, err := Capture(stack, stack)
	if err != nil {
		t.Fatal(err)
	}
	snap.GOOS = "linux"

	var enc bytes.Buffer
	if err := snap.Encode(&enc); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(&enc)
	if err != nil {
		t.Fatal(err)
	}

	getwd := func() (string, error) { return "/work", nil }
	live := &backtrace.Printer{Walker: stack, Resolver: stack, Getwd: getwd}

	for _, mode := range []backtrace.Mode{backtrace.ModeTerse, backtrace.ModeFull} {
		want := render(t, live, mode)
		got := render(t, decoded.Printer(getwd), mode)
		if got != want {
			t.Errorf("%v replay differs\n got: %q\nwant: %q", mode, got, want)
		}
	}
}

func TestReplayDecodesWidePathsFromWindows(t *testing.T) {
	stack := sampleStack()
	snap, err := Capture(stack, stack)
	if err != nil {
		t.Fatal(err)
	}
	snap.GOOS = "windows"

	out := render(t, snap.Printer(nil), backtrace.ModeFull)
	if !strings.Contains(out, `at C:\a:1`) {
		t.Fatalf("wide path not decoded:\n%s", out)
	}
}

func TestCaptureKeepsFanOutAndUnresolved(t *testing.T) {
	stack := sampleStack()
	snap, err := Capture(stack, stack)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Frames) != len(stack) {
		t.Fatalf("captured %d frames, want %d", len(snap.Frames), len(stack))
	}
	if n := len(snap.Frames[0].Symbols); n != 2 {
		t.Fatalf("frame 0 has %d symbols, want 2", n)
	}
	if n := len(snap.Frames[1].Symbols); n != 0 {
		t.Fatalf("frame 1 has %d symbols, want 0", n)
	}
	if snap.Frames[2].Symbols[0].FileKind != uint8(backtrace.FileWide) {
		t.Fatal("wide file tag lost")
	}
}

func TestCaptureRuntimeStack(t *testing.T) {
	snap, err := Capture(backtrace.RuntimeWalker(0), backtrace.RuntimeResolver())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Frames) == 0 || len(snap.Frames[0].Symbols) == 0 {
		t.Fatal("no resolved frames captured")
	}
	if name := snap.Frames[0].Symbols[0].Name; !strings.HasSuffix(name, "snapshot.Capture") {
		t.Fatalf("first frame = %q, want snapshot.Capture", name)
	}
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	data, err := msgpack.Marshal(&Snapshot{Schema: SchemaVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("not msgpack")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidateRejectsUnknownFileKind(t *testing.T) {
	snap := &Snapshot{Schema: SchemaVersion, Frames: []Frame{{IP: 1, Symbols: []Symbol{{FileKind: 9}}}}}
	if err := snap.Validate(); err == nil {
		t.Fatal("expected error for unknown file kind")
	}
}

func TestResolverIgnoresForeignFrames(t *testing.T) {
	a, _ := Capture(sampleStack(), sampleStack())
	b, _ := Capture(sampleStack(), sampleStack())

	calls := 0
	a.Walker().Walk(func(f backtrace.RawFrame) bool {
		b.Resolver().Resolve(f, func(backtrace.SymbolRecord) { calls++ })
		return true
	})
	if calls != 0 {
		t.Fatalf("foreign resolver produced %d symbols", calls)
	}
}

func TestWriteAndReadFile(t *testing.T) {
	stack := sampleStack()
	snap, err := Capture(stack, stack)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "crash.msgpack")
	if err := snap.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Frames) != len(snap.Frames) || got.Frames[0].Symbols[1].Name != "app.caller" {
		t.Fatalf("round trip lost data: %+v", got.Frames)
	}
}
