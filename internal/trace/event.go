package trace

import (
	"sync/atomic"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1 // span start
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd // span end
	// KindPoint represents an instant event.
	KindPoint     // instant event
	KindHeartbeat // periodic liveness signal
	KindError     // runtime panic report
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeRuntime covers program runs, image loads and snapshots.
	ScopeRuntime Scope = iota + 1
	// ScopePrim covers primitive dispatch through the registry.
	ScopePrim
	// ScopeHeap covers object allocation and free.
	ScopeHeap
	ScopeRC // reference count increments and decrements
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRuntime:
		return "runtime"
	case ScopePrim:
		return "prim"
	case ScopeHeap:
		return "heap"
	case ScopeRC:
		return "rc"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // span identifier, 0 for points
	Runtime  uint64            // emitting runtime, 0 outside any runtime
	Name     string            // e.g. "alloc", "lean_nat_add", "run"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}

var seq atomic.Uint64

// NextSeq returns the next global sequence number.
func NextSeq() uint64 { return seq.Add(1) }

// stamp numbers ev unless its producer already did.
func stamp(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
}

// Point builds an instant event.
func Point(scope Scope, name, detail string) *Event {
	return &Event{Time: time.Now(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail}
}
