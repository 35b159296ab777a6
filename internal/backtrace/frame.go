package backtrace

// RawFrame is one activation record handed out by a Walker. It is only
// valid inside the callback that received it.
type RawFrame interface {
	IP() uintptr
}

// Walker enumerates the frames of a stack, innermost first. The callback
// returns false to end the walk early.
type Walker interface {
	Walk(fn func(RawFrame) bool)
}

// Resolver maps one raw frame to zero or more symbol records. Inlined calls
// produce several records for the same frame, innermost first. Any locking
// the resolver needs internally is its own business.
type Resolver interface {
	Resolve(frame RawFrame, fn func(SymbolRecord))
}

// SymbolRecord is the resolved form of a raw frame (or one inlined call in
// it). Zero values mean unknown: an empty Name, a FileName of kind FileNone,
// a Line of 0.
type SymbolRecord struct {
	Name string
	File FileName
	Line uint32
}

// FileKind tags the encoding of a FileName.
type FileKind uint8

const (
	FileNone   FileKind = iota // no file information
	FileNarrow                 // bytes, as unix debug info stores paths
	FileWide                   // UTF-16 code units, as Windows does
)

// FileName is a source path in whichever encoding the symbolizer produced.
type FileName struct {
	Kind   FileKind
	Narrow []byte
	Wide   []uint16
}

// NarrowFile wraps a byte-encoded path.
func NarrowFile(b []byte) FileName {
	return FileName{Kind: FileNarrow, Narrow: b}
}

// WideFile wraps a UTF-16 encoded path.
func WideFile(units []uint16) FileName {
	return FileName{Kind: FileWide, Wide: units}
}

// PathFile wraps a Go string path.
func PathFile(p string) FileName {
	if p == "" {
		return FileName{}
	}
	return NarrowFile([]byte(p))
}

// IsZero reports whether the record carries no file.
func (f FileName) IsZero() bool {
	return f.Kind == FileNone
}
