package backtrace

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
)

const (
	contextLine = "stack backtrace:\n"
	unknownName = "<unknown>"
	atPrefix    = "             at "
)

// terseNote closes every terse backtrace; it also covers walks cut short by
// the frame cap.
var terseNote = "note: Some details are omitted, run with `" + EnvVar + "=full` for a verbose backtrace.\n"

// errWriter remembers the first write failure and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	if _, err := fmt.Fprintf(ew.w, format, args...); err != nil {
		ew.err = fmt.Errorf("backtrace: write: %w", err)
	}
}

func (ew *errWriter) writeString(s string) {
	if ew.err != nil {
		return
	}
	if _, err := io.WriteString(ew.w, s); err != nil {
		ew.err = fmt.Errorf("backtrace: write: %w", err)
	}
}

// frameFmt renders numbered entries for one print call.
type frameFmt struct {
	ew      *errWriter
	mode    Mode
	cwd     string
	codec   PathCodec
	paint   *color.Color // nil when color is off
	entries int
}

func newFrameFmt(ew *errWriter, mode Mode, cwd string, codec PathCodec, useColor bool) *frameFmt {
	f := &frameFmt{ew: ew, mode: mode, cwd: cwd, codec: codec}
	if useColor {
		f.paint = color.New(color.FgCyan, color.Bold)
		f.paint.EnableColor()
	}
	return f
}

// symbol writes one entry for a resolved record.
func (f *frameFmt) symbol(ip uintptr, sym SymbolRecord) {
	name := sym.Name
	if name == "" {
		name = unknownName
	}
	if f.paint != nil {
		name = f.paint.Sprint(name)
	}

	if f.mode == ModeFull {
		f.ew.printf("%4d: 0x%016x - %s\n", f.entries, ip, name)
	} else {
		f.ew.printf("%4d: %s\n", f.entries, name)
	}
	f.entries++

	if path, ok := f.codec.Display(sym.File); ok {
		f.location(path, sym.Line)
	}
}

// raw writes an entry for a frame the resolver knew nothing about.
func (f *frameFmt) raw(ip uintptr) {
	f.ew.printf("%4d: 0x%016x\n", f.entries, ip)
	f.entries++
}

func (f *frameFmt) location(path string, line uint32) {
	if path != UnknownPath {
		path = ShortenPath(path, f.cwd, f.mode)
	}
	f.ew.writeString(atPrefix)
	f.ew.writeString(path)
	if line != 0 {
		f.ew.writeString(":")
		f.ew.writeString(strconv.FormatUint(uint64(line), 10))
	}
	f.ew.writeString("\n")
}
