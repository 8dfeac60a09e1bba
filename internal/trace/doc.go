// Package trace provides structured event tracing for the leanrt runtime.
//
// The runtime reports object lifecycle (allocation, free, reference count
// traffic), primitive dispatch and program phases through a Tracer. Tracing
// is off by default and costs a single interface call per event site when
// disabled.
//
// # Usage
//
//	leanrt run fold --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: bounded in-memory history, dumped after a runtime panic
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeRuntime events (program start/finish, image load).
// LevelDetail adds ScopePrim (primitive dispatch by name). LevelDebug adds
// ScopeHeap (alloc/free) and ScopeRC (inc/dec). Events of KindError are
// emitted at every level except LevelOff.
//
//	span := trace.Begin(t, trace.ScopeRuntime, "run", r.ID())
//	defer span.End("")
package trace
