package backtrace

import (
	"os"
	"sync/atomic"
)

// EnvVar is the environment variable consulted by Enabled.
const EnvVar = "CRASHTRACE_BACKTRACE"

// State is the cached enablement decision.
type State int32

const (
	StateUnset    State = iota // not computed yet
	StateDisabled              // do not print
	StateTerse                 // print in ModeTerse
	StateFull                  // print in ModeFull
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateDisabled:
		return "disabled"
	case StateTerse:
		return "terse"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}

// Enablement caches whether and how backtraces are printed.
//
// The state is a single atomic value and no lock guards its computation:
// goroutines racing on the first call may each read the environment and
// store the same result. Readers only ever observe one of the four states.
type Enablement struct {
	state          atomic.Int32
	lookup         func(string) (string, bool)
	envUnsupported bool
}

// NewEnablement returns a cache that resolves the state with lookup.
// A nil lookup means os.LookupEnv.
func NewEnablement(lookup func(string) (string, bool), envUnsupported bool) *Enablement {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Enablement{lookup: lookup, envUnsupported: envUnsupported}
}

// Default is the process-wide cache used by Enabled.
var Default = NewEnablement(os.LookupEnv, EnvUnsupported)

// Enabled reports whether the process should print backtraces and in which
// mode, using Default.
func Enabled() (Mode, bool) {
	return Default.Enabled()
}

// Enabled returns the print mode, or false when printing is disabled.
func (e *Enablement) Enabled() (Mode, bool) {
	if e.envUnsupported {
		return ModeFull, true
	}

	st := State(e.state.Load())
	if st == StateUnset {
		st = e.resolve()
		e.state.Store(int32(st))
	}
	return st.mode()
}

// State returns the stored state without resolving it.
func (e *Enablement) State() State {
	return State(e.state.Load())
}

// Reset forgets the cached decision so the next call reads the environment
// again.
func (e *Enablement) Reset() {
	e.state.Store(int32(StateUnset))
}

func (e *Enablement) resolve() State {
	val, ok := e.lookup(EnvVar)
	switch {
	case !ok || val == "0":
		return StateDisabled
	case val == "full":
		return StateFull
	default:
		return StateTerse
	}
}

func (s State) mode() (Mode, bool) {
	switch s {
	case StateTerse:
		return ModeTerse, true
	case StateFull:
		return ModeFull, true
	default:
		return 0, false
	}
}
