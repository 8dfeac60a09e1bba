package trace

import (
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span brackets one operation with a begin and an end event. A span the
// tracer filters out is inert: End and WithExtra do nothing on it.
type Span struct {
	tracer  Tracer
	id      uint64
	runtime uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

var inert = &Span{}

// Begin starts a span for the runtime with id rtID and emits its begin
// event.
func Begin(t Tracer, scope Scope, name string, rtID uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return inert
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		runtime: rtID,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "", nil)
	return s
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:    at,
		Seq:     NextSeq(),
		Kind:    kind,
		Scope:   s.scope,
		SpanID:  s.id,
		Runtime: s.runtime,
		Name:    s.name,
		Detail:  detail,
		Extra:   extra,
	})
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.extra)
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
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

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
