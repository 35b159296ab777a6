package backtrace

import "sync"

// printMu serializes whole print calls process-wide. The symbolizer is not
// reentrant on every platform, and interleaved output from simultaneous
// panics is unreadable.
var printMu sync.Mutex

// Guard is proof of holding the print lock.
type Guard struct {
	mu *sync.Mutex
}

// Lock blocks until the process-wide print lock is held. The lock is not
// reentrant: locking it again from the holder deadlocks.
//
//	guard := backtrace.Lock()
//	defer guard.Unlock()
func Lock() Guard {
	printMu.Lock()
	return Guard{mu: &printMu}
}

// Unlock releases the lock. Calling it on a zero Guard is a no-op.
func (g Guard) Unlock() {
	if g.mu != nil {
		g.mu.Unlock()
	}
}
