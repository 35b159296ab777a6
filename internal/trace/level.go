package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff    Level = iota // no tracing
	LevelError               // only emit on errors/crashes
	LevelCall                // print call boundaries
	LevelFrame               // per-frame decisions
	LevelDebug               // everything including symbol records
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelCall:
		return "call"
	case LevelFrame:
		return "frame"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "call":
		return LevelCall, nil
	case "frame":
		return LevelFrame, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|call|frame|debug)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		return false // error events always emitted via crash path
	case LevelCall:
		return scope <= ScopeCall
	case LevelFrame:
		return scope <= ScopeFrame
	case LevelDebug:
		return true
	}
	return false
}
