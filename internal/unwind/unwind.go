// Package unwind walks and symbolizes goroutine stacks with the Go runtime.
package unwind

import (
	"runtime"

	"fortio.org/safecast"
)

const initialDepth = 64

// Callers returns the return program counters of the calling goroutine,
// innermost first. skip=0 starts at the caller of Callers.
func Callers(skip int) []uintptr {
	pcs := make([]uintptr, initialDepth)
	for {
		// +2 drops runtime.Callers and Callers itself.
		n := runtime.Callers(skip+2, pcs)
		if n < len(pcs) {
			return pcs[:n:n]
		}
		pcs = make([]uintptr, 2*len(pcs))
	}
}

// Symbol is the resolved form of one program counter.
type Symbol struct {
	Function string
	File     string
	Line     uint32 // 0 if unknown
	Entry    uintptr
}

// Symbolize calls fn with the function active at pc, if the runtime knows
// it. runtime.Callers already reports one program counter per logical
// frame, inlined calls included, so only the innermost function at pc
// belongs to it; the outer functions get program counters of their own.
func Symbolize(pc uintptr, fn func(Symbol)) {
	frames := runtime.CallersFrames([]uintptr{pc})
	fr, _ := frames.Next()
	if fr.Function == "" && fr.File == "" {
		return
	}
	fn(Symbol{
		Function: fr.Function,
		File:     fr.File,
		Line:     lineOf(fr.Line),
		Entry:    fr.Entry,
	})
}

func lineOf(line int) uint32 {
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		return 0
	}
	return l
}
