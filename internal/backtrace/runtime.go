package backtrace

import "crashtrace/internal/unwind"

type pcFrame uintptr

func (f pcFrame) IP() uintptr { return uintptr(f) }

type runtimeWalker struct {
	skip int
}

// RuntimeWalker walks the calling goroutine's stack. The first frame is the
// caller of Walk, after skipping skip more frames.
func RuntimeWalker(skip int) Walker {
	return runtimeWalker{skip: skip}
}

func (w runtimeWalker) Walk(fn func(RawFrame) bool) {
	// 0 would be Walk itself.
	for _, pc := range unwind.Callers(1 + w.skip) {
		if !fn(pcFrame(pc)) {
			return
		}
	}
}

type runtimeResolver struct{}

// RuntimeResolver symbolizes program counters with the Go runtime's tables.
func RuntimeResolver() Resolver {
	return runtimeResolver{}
}

func (runtimeResolver) Resolve(frame RawFrame, fn func(SymbolRecord)) {
	unwind.Symbolize(frame.IP(), func(sym unwind.Symbol) {
		fn(SymbolRecord{
			Name: sym.Function,
			File: PathFile(sym.File),
			Line: sym.Line,
		})
	})
}
