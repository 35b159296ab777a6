package backtrace

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"

	"crashtrace/internal/trace"
)

// MaxTerseFrames bounds the raw frames rendered in terse mode.
const MaxTerseFrames = 100

// stop reasons reported to the tracer
const (
	stopEnd      = "end"
	stopCap      = "cap"
	stopSentinel = "sentinel"
	stopError    = "error"
)

// ErrNoCollaborators is returned by a Printer missing its Walker or Resolver.
var ErrNoCollaborators = errors.New("backtrace: printer needs a Walker and a Resolver")

// Printer renders backtraces produced by its Walker and Resolver. Both are
// required; the remaining fields are optional.
type Printer struct {
	Walker   Walker
	Resolver Resolver
	// Getwd snapshots the working directory for path shortening; nil or a
	// failing Getwd disables shortening.
	Getwd func() (string, error)
	Codec PathCodec
	// Color highlights symbol names with ANSI escapes.
	Color  bool
	Tracer trace.Tracer
}

// NewRuntimePrinter returns a printer over the calling goroutine's stack.
// skip counts extra frames to omit above the caller of Print.
func NewRuntimePrinter(skip int) *Printer {
	return &Printer{
		// print and Print sit between Walk and the caller.
		Walker:   RuntimeWalker(2 + skip),
		Resolver: RuntimeResolver(),
		Getwd:    os.Getwd,
		Codec:    NativeCodec(),
	}
}

var defaultPrinter = NewRuntimePrinter(1)

// Print writes the calling goroutine's backtrace to w.
//
// In a test binary it does nothing and returns nil: the runtime walker
// would describe the test harness, not the code under test. Use a Printer
// with explicit collaborators there.
func Print(w io.Writer, mode Mode) error {
	if testing.Testing() {
		return nil
	}
	return defaultPrinter.Print(w, mode)
}

// Print writes one backtrace to w while holding the process-wide print
// lock. The first write error aborts the walk and is returned. A printer
// without collaborators writes nothing and returns ErrNoCollaborators.
func (p *Printer) Print(w io.Writer, mode Mode) error {
	if p.Walker == nil || p.Resolver == nil {
		return ErrNoCollaborators
	}
	guard := Lock()
	defer guard.Unlock()

	return p.print(w, mode)
}

func (p *Printer) print(w io.Writer, mode Mode) error {
	tr := trace.OrNop(p.Tracer)
	span := trace.Begin(tr, trace.ScopeCall, "print", 0)
	span.WithExtra("mode", mode.String())

	var cwd string
	if p.Getwd != nil {
		if dir, err := p.Getwd(); err == nil {
			cwd = dir
		}
	}

	ew := &errWriter{w: w}
	f := newFrameFmt(ew, mode, cwd, p.Codec, p.Color)
	ew.writeString(contextLine)

	idx := 0
	reason := stopEnd
	if ew.err == nil {
		p.Walker.Walk(func(frame RawFrame) bool {
			if mode == ModeTerse && idx >= MaxTerseFrames {
				reason = stopCap
				trace.Point(tr, trace.ScopeFrame, "stop", stopCap, span.ID())
				return false
			}

			ip := frame.IP()
			hit, stop := false, false
			p.Resolver.Resolve(frame, func(sym SymbolRecord) {
				if stop || ew.err != nil {
					return
				}
				hit = true
				if mode == ModeTerse && strings.Contains(sym.Name, SentinelMarker) {
					stop = true
					return
				}
				trace.Point(tr, trace.ScopeSymbol, "symbol", sym.Name, span.ID())
				f.symbol(ip, sym)
			})
			if stop {
				reason = stopSentinel
				trace.Point(tr, trace.ScopeFrame, "stop", stopSentinel, span.ID())
				return false
			}
			if !hit {
				trace.Point(tr, trace.ScopeFrame, "unresolved", "0x"+strconv.FormatUint(uint64(ip), 16), span.ID())
				f.raw(ip)
			}

			idx++
			return ew.err == nil
		})
	}

	if ew.err == nil && mode == ModeTerse {
		ew.writeString(terseNote)
	}
	if ew.err != nil {
		reason = stopError
	}

	span.WithExtra("frames", strconv.Itoa(idx)).
		WithExtra("entries", strconv.Itoa(f.entries)).
		End(reason)
	return ew.err
}
