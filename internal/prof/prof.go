// Package prof collects runtime profiles around a crashtrace command.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
)

// Options names the files to write; empty paths are skipped.
type Options struct {
	CPU        string // CPU profile covering the whole command
	Goroutines string // text dump of every goroutine's stack at Stop
}

// Session is an active profiling run.
type Session struct {
	opts    Options
	cpuFile *os.File
	stopped bool
}

// Start begins the profiles requested in opts.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPU == "" {
		return s, nil
	}
	f, err := os.Create(opts.CPU)
	if err != nil {
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	s.cpuFile = f
	return s, nil
}

// Stop ends the CPU profile and writes the goroutine dump. Calling it more
// than once is a no-op.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := s.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cpu profile: %w", err))
		}
		s.cpuFile = nil
	}
	if s.opts.Goroutines != "" {
		if err := writeGoroutines(s.opts.Goroutines); err != nil {
			errs = append(errs, fmt.Errorf("goroutine dump: %w", err))
		}
	}
	return errors.Join(errs...)
}

func writeGoroutines(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	// debug=2 prints stacks in the same form as an unrecovered panic.
	return pprof.Lookup("goroutine").WriteTo(f, 2)
}
