package backtrace

import (
	"fmt"
	"strings"
)

// Mode selects how much detail a print call emits.
type Mode uint8

const (
	// ModeTerse is the truncated, privacy-conscious format.
	ModeTerse Mode = iota + 1
	// ModeFull is the untruncated format with instruction pointers.
	ModeFull
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeTerse:
		return "terse"
	case ModeFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseMode converts a command-line spelling to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terse", "short", "1":
		return ModeTerse, nil
	case "full":
		return ModeFull, nil
	default:
		return 0, fmt.Errorf("invalid backtrace mode: %q (expected: terse|full)", s)
	}
}
