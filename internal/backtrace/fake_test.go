package backtrace

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// fakeFrame is a raw frame whose symbols are known up front.
type fakeFrame struct {
	ip   uintptr
	syms []SymbolRecord
}

func (f fakeFrame) IP() uintptr { return f.ip }

// fakeStack serves as both Walker and Resolver.
type fakeStack struct {
	frames []fakeFrame
	walked int // frames handed to the callback
}

func (s *fakeStack) Walk(fn func(RawFrame) bool) {
	for _, f := range s.frames {
		s.walked++
		if !fn(f) {
			return
		}
	}
}

func (s *fakeStack) Resolve(frame RawFrame, fn func(SymbolRecord)) {
	for _, sym := range frame.(fakeFrame).syms {
		fn(sym)
	}
}

// linearStack builds n frames, one symbol each, named prefix0..prefixN-1.
func linearStack(n int, prefix string) *fakeStack {
	s := &fakeStack{}
	for i := 0; i < n; i++ {
		s.frames = append(s.frames, fakeFrame{
			ip: uintptr(0x1000 + i),
			syms: []SymbolRecord{{
				Name: fmt.Sprintf("%s%d", prefix, i),
				File: PathFile(fmt.Sprintf("/src/app/f%d.go", i)),
				Line: uint32(i + 1),
			}},
		})
	}
	return s
}

func newTestPrinter(s *fakeStack, cwd string) *Printer {
	return &Printer{
		Walker:   s,
		Resolver: s,
		Getwd:    func() (string, error) { return cwd, nil },
	}
}

var entryRE = regexp.MustCompile(`(?m)^ *(\d+): `)

// entryNumbers returns the entry numbers in rendered output, in order.
func entryNumbers(out string) []string {
	var nums []string
	for _, m := range entryRE.FindAllStringSubmatch(out, -1) {
		nums = append(nums, m[1])
	}
	return nums
}

var errSinkFull = errors.New("sink full")

// limitWriter accepts n writes, then fails.
type limitWriter struct {
	n   int
	buf strings.Builder
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errSinkFull
	}
	w.n--
	return w.buf.Write(p)
}

var _ io.Writer = (*limitWriter)(nil)
