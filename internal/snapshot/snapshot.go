// Package snapshot records a walked and resolved stack so it can be
// printed later, possibly by another process.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"crashtrace/internal/backtrace"
)

// SchemaVersion must be bumped whenever the encoded layout changes.
const SchemaVersion uint16 = 1

// ErrSchema is returned when decoding a snapshot written by another
// schema version.
var ErrSchema = errors.New("snapshot: schema mismatch")

// Snapshot is a captured stack, innermost frame first.
type Snapshot struct {
	Schema uint16  `msgpack:"schema"`
	GOOS   string  `msgpack:"goos"`
	Frames []Frame `msgpack:"frames"`
}

// Frame is one raw frame and whatever the resolver made of it.
type Frame struct {
	IP      uint64   `msgpack:"ip"`
	Symbols []Symbol `msgpack:"symbols,omitempty"`
}

// Symbol mirrors backtrace.SymbolRecord, keeping the file encoding tag.
type Symbol struct {
	Name     string   `msgpack:"name,omitempty"`
	FileKind uint8    `msgpack:"file_kind,omitempty"`
	File     []byte   `msgpack:"file,omitempty"`
	FileWide []uint16 `msgpack:"file_wide,omitempty"`
	Line     uint32   `msgpack:"line,omitempty"`
}

// Capture walks w to the end and resolves every frame with r.
func Capture(w backtrace.Walker, r backtrace.Resolver) (*Snapshot, error) {
	snap := &Snapshot{Schema: SchemaVersion, GOOS: runtime.GOOS}

	var convErr error
	w.Walk(func(raw backtrace.RawFrame) bool {
		ip, err := safecast.Conv[uint64](raw.IP())
		if err != nil {
			convErr = fmt.Errorf("snapshot: frame %d: %w", len(snap.Frames), err)
			return false
		}
		fr := Frame{IP: ip}
		r.Resolve(raw, func(sym backtrace.SymbolRecord) {
			fr.Symbols = append(fr.Symbols, fromRecord(sym))
		})
		snap.Frames = append(snap.Frames, fr)
		return true
	})
	if convErr != nil {
		return nil, convErr
	}
	return snap, nil
}

func fromRecord(sym backtrace.SymbolRecord) Symbol {
	return Symbol{
		Name:     sym.Name,
		FileKind: uint8(sym.File.Kind),
		File:     sym.File.Narrow,
		FileWide: sym.File.Wide,
		Line:     sym.Line,
	}
}

func (s Symbol) record() backtrace.SymbolRecord {
	rec := backtrace.SymbolRecord{Name: s.Name, Line: s.Line}
	switch backtrace.FileKind(s.FileKind) {
	case backtrace.FileNarrow:
		rec.File = backtrace.NarrowFile(s.File)
	case backtrace.FileWide:
		rec.File = backtrace.WideFile(s.FileWide)
	}
	return rec
}

// Validate checks the schema version and that every IP fits this
// platform's pointer size.
func (s *Snapshot) Validate() error {
	if s.Schema != SchemaVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrSchema, s.Schema, SchemaVersion)
	}
	for i, fr := range s.Frames {
		if _, err := safecast.Conv[uintptr](fr.IP); err != nil {
			return fmt.Errorf("snapshot: frame %d: ip %#x: %w", i, fr.IP, err)
		}
		for _, sym := range fr.Symbols {
			if sym.FileKind > uint8(backtrace.FileWide) {
				return fmt.Errorf("snapshot: frame %d: unknown file kind %d", i, sym.FileKind)
			}
		}
	}
	return nil
}

// Encode writes s as msgpack.
func (s *Snapshot) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// Decode reads a msgpack snapshot and validates it.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteFile encodes s to path, replacing any existing file atomically.
func (s *Snapshot) WriteFile(path string) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err = s.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
