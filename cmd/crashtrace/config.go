package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"crashtrace/internal/trace"
)

const configFileName = "crashtrace.toml"

type fileConfig struct {
	Backtrace backtraceConfig `toml:"backtrace"`
	Trace     traceConfig     `toml:"trace"`
}

type backtraceConfig struct {
	Color string `toml:"color"`
}

type traceConfig struct {
	Output   string `toml:"output"`
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Format   string `toml:"format"`
	RingSize int    `toml:"ring_size"`
}

// settings is the merged view of the config file and the flags.
type settings struct {
	Path  string // config file used, empty if none
	Color colorMode
	Trace traceConfig
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid color value %q (expected auto|on|off)", value)
	}
}

// useColor decides whether output to f gets colored names.
func (m colorMode) useColor(f *os.File) bool {
	switch m {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return f != nil && isTerminal(f)
	}
}

var activeSettings = defaultSettings()

func defaultSettings() settings {
	return settings{
		Color: colorAuto,
		Trace: traceConfig{Level: "off", Mode: "ring", RingSize: trace.DefaultRingSize},
	}
}

// findConfig walks up from startDir looking for crashtrace.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// loadSettings merges defaults, the config file and explicitly set flags,
// in that order of precedence from lowest to highest.
func loadSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil {
			return s, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		fc, err := loadConfigFile(path)
		if err != nil {
			return s, err
		}
		s.Path = path
		if err := s.apply(fc); err != nil {
			return s, fmt.Errorf("%s: %w", path, err)
		}
	}

	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		if s.Color, err = readColorMode(v); err != nil {
			return s, err
		}
	}
	for flag, dst := range map[string]*string{
		"trace":       &s.Trace.Output,
		"trace-level": &s.Trace.Level,
		"trace-mode":  &s.Trace.Mode,
	} {
		if flags.Changed(flag) {
			*dst, _ = flags.GetString(flag)
		}
	}
	if flags.Changed("trace-ring-size") {
		s.Trace.RingSize, _ = flags.GetInt("trace-ring-size")
	}
	// An output without a level means the user wants to see something.
	if s.Trace.Output != "" && (s.Trace.Level == "" || s.Trace.Level == "off") {
		s.Trace.Level = "call"
	}
	return s, nil
}

func (s *settings) apply(fc fileConfig) error {
	if fc.Backtrace.Color != "" {
		mode, err := readColorMode(fc.Backtrace.Color)
		if err != nil {
			return err
		}
		s.Color = mode
	}
	if fc.Trace.Output != "" {
		s.Trace.Output = fc.Trace.Output
	}
	if fc.Trace.Level != "" {
		s.Trace.Level = fc.Trace.Level
	}
	if fc.Trace.Mode != "" {
		s.Trace.Mode = fc.Trace.Mode
	}
	if fc.Trace.Format != "" {
		s.Trace.Format = fc.Trace.Format
	}
	if fc.Trace.RingSize > 0 {
		s.Trace.RingSize = fc.Trace.RingSize
	}
	return nil
}
