package rt

import (
	"fmt"
	"strconv"
	"time"

	"leanrt/internal/trace"
)

func (r *Runtime) emit(scope trace.Scope, name, detail string, extra map[string]string) {
	ev := trace.Point(scope, name, detail)
	ev.Seq = trace.NextSeq()
	ev.Runtime = r.id
	ev.Extra = extra
	r.tracer.Emit(ev)
}

// traceAlloc format: alloc <kind>#<handle>
func (r *Runtime) traceAlloc(o Object, c *cell) {
	r.emit(trace.ScopeHeap, "alloc", fmt.Sprintf("%s#%d", c.kind(), uint64(o)>>3), map[string]string{
		"tag":  strconv.Itoa(int(c.hdr.Tag)),
		"size": strconv.Itoa(int(c.hdr.CsSz)),
	})
}

func (r *Runtime) traceFree(o Object, c *cell) {
	r.emit(trace.ScopeHeap, "free", fmt.Sprintf("%s#%d", c.kind(), uint64(o)>>3), nil)
}

func (r *Runtime) traceCount(name string, o Object, rc int32) {
	r.emit(trace.ScopeRC, name, fmt.Sprintf("#%d", uint64(o)>>3), map[string]string{
		"rc": strconv.Itoa(int(rc)),
	})
}

func (r *Runtime) tracePanic(e *RuntimeError) {
	if r.tracer == nil || !r.tracer.Enabled() {
		return
	}
	ev := &trace.Event{
		Time:    time.Now(),
		Kind:    trace.KindError,
		Scope:   trace.ScopeRuntime,
		Seq:     trace.NextSeq(),
		Runtime: r.id,
		Name:    e.Code.String(),
		Detail:  e.Message,
	}
	r.tracer.Emit(ev)
}
