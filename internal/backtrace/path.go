package backtrace

import (
	"encoding/binary"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// UnknownPath replaces file names the platform cannot convert.
const UnknownPath = "<unknown>"

// PathCodec converts FileName values into display paths.
type PathCodec struct {
	// StrictNarrow requires narrow paths to be valid UTF-8. Unix paths are
	// arbitrary bytes; Windows narrow paths only make sense as UTF-8.
	StrictNarrow bool
	// Wide enables decoding of UTF-16 paths.
	Wide bool
}

// NativeCodec returns the codec matching the running platform.
func NativeCodec() PathCodec {
	return CodecFor(runtime.GOOS)
}

// CodecFor returns the codec for paths produced on goos.
func CodecFor(goos string) PathCodec {
	if goos == "windows" {
		return PathCodec{StrictNarrow: true, Wide: true}
	}
	return PathCodec{}
}

// Display converts f into a path string. The second result is false when f
// has no file at all. Unconvertible input yields UnknownPath.
func (c PathCodec) Display(f FileName) (string, bool) {
	switch f.Kind {
	case FileNarrow:
		if c.StrictNarrow && !utf8.Valid(f.Narrow) {
			return UnknownPath, true
		}
		return string(f.Narrow), true
	case FileWide:
		if !c.Wide {
			return UnknownPath, true
		}
		s, err := decodeWide(f.Wide)
		if err != nil {
			return UnknownPath, true
		}
		return s, true
	default:
		return "", false
	}
}

// decodeWide turns UTF-16 code units into UTF-8. Unpaired surrogates become
// U+FFFD.
func decodeWide(units []uint16) (string, error) {
	raw := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[2*i:], u)
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ShortenPath rewrites an absolute path under cwd as "./rest" in terse
// mode. The prefix must match whole path components. Anything else,
// including an empty cwd, is returned unchanged.
func ShortenPath(path, cwd string, mode Mode) string {
	if mode != ModeTerse || cwd == "" || !filepath.IsAbs(path) {
		return path
	}

	sep := string(filepath.Separator)
	root := strings.TrimRight(cwd, sep)
	rest, ok := strings.CutPrefix(path, root)
	if !ok || (rest != "" && rest[0] != filepath.Separator) {
		return path
	}
	rest = strings.TrimLeft(rest, sep)
	if !utf8.ValidString(rest) {
		return path
	}
	return "." + sep + rest
}
