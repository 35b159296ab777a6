package snapshot

import "crashtrace/internal/backtrace"

// replayFrame points back into the snapshot it came from.
type replayFrame struct {
	snap  *Snapshot
	index int
}

func (f replayFrame) IP() uintptr {
	// Validate guarantees the value fits.
	return uintptr(f.snap.Frames[f.index].IP)
}

type replay struct {
	snap *Snapshot
}

// Walker replays the captured frames in order.
func (s *Snapshot) Walker() backtrace.Walker {
	return replay{snap: s}
}

// Resolver answers with the captured symbols. Frames that did not come from
// this snapshot resolve to nothing.
func (s *Snapshot) Resolver() backtrace.Resolver {
	return replay{snap: s}
}

func (r replay) Walk(fn func(backtrace.RawFrame) bool) {
	for i := range r.snap.Frames {
		if !fn(replayFrame{snap: r.snap, index: i}) {
			return
		}
	}
}

func (r replay) Resolve(frame backtrace.RawFrame, fn func(backtrace.SymbolRecord)) {
	f, ok := frame.(replayFrame)
	if !ok || f.snap != r.snap {
		return
	}
	for _, sym := range r.snap.Frames[f.index].Symbols {
		fn(sym.record())
	}
}

// Printer returns a printer over the snapshot. Paths are decoded the way
// the capturing platform encodes them; getwd is the printing process's.
func (s *Snapshot) Printer(getwd func() (string, error)) *backtrace.Printer {
	return &backtrace.Printer{
		Walker:   s.Walker(),
		Resolver: s.Resolver(),
		Getwd:    getwd,
		Codec:    backtrace.CodecFor(s.GOOS),
	}
}
