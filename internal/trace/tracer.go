package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultRingSize is the ring capacity used when none is configured.
const DefaultRingSize = 4096

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// StorageMode determines how events are stored.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // immediate write
	ModeRing                          // circular buffer
	ModeBoth                          // stream + ring
)

// String returns the string representation of StorageMode.
func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stream":
		return ModeStream, nil
	case "", "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	default:
		return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
	}
}

// Config holds tracer configuration.
type Config struct {
	Level      Level       // tracing level
	Mode       StorageMode // storage mode
	Format     Format      // output format (FormatAuto picks from OutputPath)
	Output     io.Writer   // for stream mode (if nil, use OutputPath)
	OutputPath string      // alternative: file path ("-" for stderr)
	RingSize   int         // for ring mode (default DefaultRingSize)
}

// New creates a Tracer based on Config.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}

	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}

	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".json") {
			format = FormatNDJSON
		}
	}

	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewStreamTracer(w, cfg.Level, format), nil

	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil

	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, format)
		ring := NewRingTracer(cfg.RingSize, cfg.Level)
		return NewMultiTracer(cfg.Level, stream, ring), nil

	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
}

// RingOf returns the ring buffer behind t, if it has one.
func RingOf(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		return tr.Ring()
	default:
		return nil
	}
}

// openOutput opens the output writer from config.
func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}

	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}

	return f, nil
}

func isStdStream(w io.Writer) bool {
	return w == os.Stderr || w == os.Stdout
}
