package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. The CLI dumps it after
// a crash report is written, so a failing print call is never interleaved
// with its own trace.
type RingTracer struct {
	mu     sync.Mutex
	level  Level
	events []Event
	stored uint64 // events ever stored; the next slot is stored % len(events)
}

// NewRingTracer keeps up to capacity events, DefaultRingSize if capacity
// is not positive.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{level: level, events: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	slot := t.stored % uint64(len(t.events))
	t.events[slot] = *ev
	t.events[slot].Seq = NextSeq()
	t.stored++
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := uint64(len(t.events))
	first := uint64(0)
	if t.stored > size {
		first = t.stored - size
	}
	out := make([]Event, 0, t.stored-first)
	for i := first; i < t.stored; i++ {
		out = append(out, t.events[i%size])
	}
	return out
}

// Dump writes the retained events to w, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
