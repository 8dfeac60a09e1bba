package rt

import (
	"fmt"
	"sync"
	"sync/atomic"

	"leanrt/internal/trace"
)

// RCMode selects how reference counts are updated. It is fixed for the
// lifetime of a runtime.
type RCMode uint8

const (
	// RCNonAtomic uses plain read-modify-write counts.
	RCNonAtomic RCMode = iota
	// RCAtomic uses sync/atomic counts and allows objects marked
	// multi-threaded to be shared between goroutines.
	RCAtomic
)

// String returns the mode name used by config and flags.
func (m RCMode) String() string {
	switch m {
	case RCNonAtomic:
		return "nonatomic"
	case RCAtomic:
		return "atomic"
	default:
		return "unknown"
	}
}

// ParseRCMode converts a string to RCMode.
func ParseRCMode(s string) (RCMode, error) {
	switch s {
	case "nonatomic", "":
		return RCNonAtomic, nil
	case "atomic":
		return RCAtomic, nil
	default:
		return RCNonAtomic, fmt.Errorf("invalid rc mode: %q (expected: nonatomic|atomic)", s)
	}
}

// Options configures a Runtime.
type Options struct {
	// Debug enables pointer validity checks, poisoned freed cells and
	// constructor bounds checks.
	Debug  bool
	RCMode RCMode
	Host   Host
	Tracer trace.Tracer
}

type counters struct {
	allocs atomic.Uint64
	frees  atomic.Uint64
	incs   atomic.Uint64
	decs   atomic.Uint64
	bytes  atomic.Uint64
}

// Runtime is an explicit runtime context: heap arena, counters, host streams,
// tracer and rc mode. Runtimes share no state with each other.
//
// Apply and the thunk/IO helpers built on it keep per-runtime scratch state
// and must not be called concurrently on one Runtime. Inc and Dec may be
// called concurrently in RCAtomic mode on objects marked with MarkMT.
type Runtime struct {
	id     uint64
	debug  bool
	atomic bool

	mu       sync.RWMutex
	heap     heap
	counters counters

	host   Host
	tracer trace.Tracer

	traceHeap bool
	traceRC   bool

	tail    tailCall
	fns     map[*Fn]uint64
	classes map[*ExternalClass]uint64
}

// New creates a runtime. A nil Host defaults to the process streams and a nil
// Tracer disables tracing.
func New(opts Options) *Runtime {
	r := &Runtime{
		id:      runtimeIDs.Add(1),
		debug:   opts.Debug,
		atomic:  opts.RCMode == RCAtomic,
		host:    opts.Host,
		tracer:  opts.Tracer,
		fns:     make(map[*Fn]uint64),
		classes: make(map[*ExternalClass]uint64),
	}
	if r.host == nil {
		r.host = NewDefaultHost(nil)
	}
	if r.tracer == nil {
		r.tracer = trace.Nop
	}
	if r.tracer.Enabled() {
		r.traceHeap = r.tracer.Level().ShouldEmit(trace.ScopeHeap)
		r.traceRC = r.tracer.Level().ShouldEmit(trace.ScopeRC)
	}
	r.heap.initIfNeeded()
	return r
}

var runtimeIDs atomic.Uint64

// ID identifies r in trace events. IDs are unique within the process.
func (r *Runtime) ID() uint64 { return r.id }

// Debug reports whether diagnostic checks are enabled.
func (r *Runtime) Debug() bool { return r.debug }

// RCMode reports the refcount mode chosen at New.
func (r *Runtime) RCMode() RCMode {
	if r.atomic {
		return RCAtomic
	}
	return RCNonAtomic
}

// Host returns the host the runtime writes to.
func (r *Runtime) Host() Host { return r.host }

// Tracer returns the runtime tracer.
func (r *Runtime) Tracer() trace.Tracer { return r.tracer }

// Run executes main with the world token and maps the outcome to a process
// exit code. An IO error result prints "uncaught exception: ..." and yields 1.
// Runtime panics are recovered here, reported on stderr and returned as error.
func (r *Runtime) Run(main func(r *Runtime, world Object) Object) (code int, err error) {
	span := trace.Begin(r.tracer, trace.ScopeRuntime, "run", r.id)
	defer func() {
		if rec := recover(); rec != nil {
			switch e := rec.(type) {
			case *RuntimeError:
				fmt.Fprintln(r.host.Stderr(), e.Message)
				code, err = 1, e
			case *ExitError:
				code, err = e.Code, nil
			default:
				panic(rec)
			}
		}
		if ferr := r.host.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("flush: %w", ferr)
		}
		span.WithExtra("exit", fmt.Sprint(code)).End("")
	}()

	res := main(r, Box(0))
	if r.IOResultIsOk(res) {
		r.Dec(res)
		return 0, nil
	}
	errObj := r.CtorGet(res, 0)
	fmt.Fprintf(r.host.Stderr(), "uncaught exception: %s\n", r.IOErrorToString(errObj))
	r.Dec(res)
	return 1, nil
}

// Flush writes out buffered host output.
func (r *Runtime) Flush() error {
	return r.host.Flush()
}

// fnIndex returns a stable registration index for a code reference, used
// where the native layout stores a function pointer.
func (r *Runtime) fnIndex(fn *Fn) uint64 {
	if fn == nil {
		return 0
	}
	if r.atomic {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if idx, ok := r.fns[fn]; ok {
		return idx
	}
	idx := uint64(len(r.fns) + 1)
	r.fns[fn] = idx
	return idx
}

func (r *Runtime) classIndex(c *ExternalClass) uint64 {
	if c == nil {
		return 0
	}
	if r.atomic {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if idx, ok := r.classes[c]; ok {
		return idx
	}
	idx := uint64(len(r.classes) + 1)
	r.classes[c] = idx
	return idx
}
