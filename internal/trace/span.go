package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number, shared by all tracers.
func NextSeq() uint64 {
	return seqCounter.Add(1)
}

// goroutineID reads N from the "goroutine N [state]:" header of the
// current goroutine's stack. It returns 0 if the header is not recognized.
func goroutineID() uint64 {
	var buf [64]byte
	header, ok := bytes.CutPrefix(buf[:runtime.Stack(buf[:], false)], []byte("goroutine "))
	if !ok {
		return 0
	}
	digits, _, _ := bytes.Cut(header, []byte(" "))
	id, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func emits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span brackets one print call, or any other unit of work, with a begin
// and an end event. A span whose tracer filtered it out is inert.
type Span struct {
	tracer Tracer
	begin  Event
	extra  map[string]string
}

// Begin emits the begin event of a new span. parent is 0 for a root span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !emits(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer: t,
		begin: Event{
			Time:     time.Now(),
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   spanCounter.Add(1),
			ParentID: parent,
			GID:      goroutineID(),
			Name:     name,
		},
	}
	ev := s.begin
	t.Emit(&ev)
	return s
}

// End emits the end event with detail and the collected extras, and
// returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	ev := s.begin
	ev.Time = time.Now()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.begin.Time)
}

// WithExtra records key=value for the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID is the span's identifier, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under the given parent span.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !emits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
