package rt

import (
	"math"
	"sync/atomic"
)

// Inc increments the reference count of o. Scalars, Null and persistent
// objects are left untouched.
func (r *Runtime) Inc(o Object) {
	if o.IsScalar() || o == Null {
		return
	}
	r.incRef(o, r.cell(o), 1)
}

// IncN increments the reference count of o by n.
func (r *Runtime) IncN(o Object, n uint32) {
	if n == 0 || o.IsScalar() || o == Null {
		return
	}
	r.incRef(o, r.cell(o), int64(n))
}

func (r *Runtime) incRef(o Object, c *cell, n int64) {
	r.counters.incs.Add(uint64(n)) //nolint:gosec // G115: n is a positive uint32.
	if r.atomic {
		r.incAtomic(o, c, n)
		return
	}
	rc := c.hdr.RC
	switch {
	case rc == 0:
		return
	case rc < 0:
		r.panicf(PanicRCUnderflow, "inc of object with invalid rc %d: handle %d", rc, uint64(o)>>3)
	case int64(rc)+n > math.MaxInt32:
		r.panicf(PanicRCOverflow, "rc overflow: handle %d", uint64(o)>>3)
	}
	c.hdr.RC = rc + int32(n) //nolint:gosec // G115: bounded by the overflow check.
	if r.traceRC {
		r.traceCount("inc", o, c.hdr.RC)
	}
}

// incAtomic moves the count away from zero: up for thread-local objects,
// down for objects marked multi-threaded.
func (r *Runtime) incAtomic(o Object, c *cell, n int64) {
	for {
		rc := atomic.LoadInt32(&c.hdr.RC)
		var next int64
		switch {
		case rc == 0:
			return
		case rc > 0:
			next = int64(rc) + n
		default:
			next = int64(rc) - n
		}
		if next > math.MaxInt32 || next <= math.MinInt32 {
			r.panicf(PanicRCOverflow, "rc overflow: handle %d", uint64(o)>>3)
		}
		if atomic.CompareAndSwapInt32(&c.hdr.RC, rc, int32(next)) {
			if r.traceRC {
				r.traceCount("inc", o, int32(next))
			}
			return
		}
	}
}

// Dec decrements the reference count of o and frees it, together with every
// child whose count drops to zero, when the count reaches zero.
func (r *Runtime) Dec(o Object) {
	if o.IsScalar() || o == Null {
		return
	}
	c := r.cellForDec(o)
	if r.decRef(o, c) {
		r.free(o, c)
	}
}

// cellForDec resolves o, reporting a stale word as an rc underflow.
func (r *Runtime) cellForDec(o Object) *cell {
	if o&7 != 0 {
		r.panicf(PanicInvalidHandle, "invalid object 0x%x", uint64(o))
	}
	c := r.lookup(uint64(o) >> 3)
	if c == nil {
		r.panicf(PanicInvalidHandle, "invalid handle %d", uint64(o)>>3)
	}
	if c.hdr.Tag == tagPoison {
		r.panicf(PanicRCUnderflow, "rc underflow: dec of freed handle %d (alloc=%d)", uint64(o)>>3, c.allocID)
	}
	return c
}

// decRef reports whether the object became unreachable.
func (r *Runtime) decRef(o Object, c *cell) bool {
	r.counters.decs.Add(1)
	if r.atomic {
		return r.decAtomic(o, c)
	}
	rc := c.hdr.RC
	switch {
	case rc == 0:
		return false
	case rc < 0:
		r.panicf(PanicRCUnderflow, "rc underflow: handle %d (rc=%d)", uint64(o)>>3, rc)
	}
	c.hdr.RC = rc - 1
	if r.traceRC {
		r.traceCount("dec", o, c.hdr.RC)
	}
	return rc == 1
}

func (r *Runtime) decAtomic(o Object, c *cell) bool {
	for {
		rc := atomic.LoadInt32(&c.hdr.RC)
		var next int32
		switch {
		case rc == 0:
			return false
		case rc > 0:
			next = rc - 1
		default:
			next = rc + 1
		}
		if atomic.CompareAndSwapInt32(&c.hdr.RC, rc, next) {
			if r.traceRC {
				r.traceCount("dec", o, next)
			}
			return next == 0
		}
	}
}

// free releases o and walks its children with an explicit work-list, so long
// lists and deep trees never grow the Go stack.
func (r *Runtime) free(o Object, c *cell) {
	type pending struct {
		o Object
		c *cell
	}
	work := []pending{{o, c}}
	push := func(child Object) {
		if child.IsScalar() || child == Null {
			return
		}
		cc := r.cellForDec(child)
		if r.decRef(child, cc) {
			work = append(work, pending{child, cc})
		}
	}
	for len(work) > 0 {
		top := work[len(work)-1]
		work = work[:len(work)-1]
		switch top.c.kind() {
		case KindCtor, KindClosure, KindArray, KindThunk, KindRef:
			for _, child := range top.c.objs {
				push(child)
			}
		case KindExternal:
			r.finalizeExternal(top.c)
		}
		r.release(top.o, top.c)
	}
}

// FreeObjectOnly frees o without touching its children. The caller must have
// moved or released every field already.
func (r *Runtime) FreeObjectOnly(o Object) {
	if o.IsScalar() || o == Null {
		return
	}
	c := r.cellForDec(o)
	if c.kind() == KindExternal {
		r.finalizeExternal(c)
	}
	r.release(o, c)
}

// RC returns the current reference count of o. Scalars report 0.
func (r *Runtime) RC(o Object) int32 {
	if o.IsScalar() || o == Null {
		return 0
	}
	return atomic.LoadInt32(&r.cell(o).hdr.RC)
}

// IsExclusive reports whether o is the only reference to its object.
func (r *Runtime) IsExclusive(o Object) bool {
	if o.IsScalar() {
		return false
	}
	rc := r.RC(o)
	return rc == 1 || (r.atomic && rc == -1)
}

// IsShared reports whether o has more than one reference.
func (r *Runtime) IsShared(o Object) bool {
	if o.IsScalar() {
		return false
	}
	rc := r.RC(o)
	return rc > 1 || rc < -1
}

// IsPersistent reports whether o is exempt from reference counting.
func (r *Runtime) IsPersistent(o Object) bool {
	return !o.IsScalar() && r.RC(o) == 0
}

// IsMT reports whether o was marked for sharing across goroutines.
func (r *Runtime) IsMT(o Object) bool {
	return !o.IsScalar() && r.RC(o) < 0
}

// MarkPersistent makes o and everything reachable from it immortal.
func (r *Runtime) MarkPersistent(o Object) {
	r.walk(o, func(c *cell) bool {
		if c.hdr.RC == 0 {
			return false
		}
		atomic.StoreInt32(&c.hdr.RC, 0)
		return true
	})
}

// MarkMT marks o and everything reachable from it as shared between
// goroutines. Only valid for runtimes created with RCAtomic.
func (r *Runtime) MarkMT(o Object) {
	if !r.atomic {
		r.InternalPanic("MarkMT requires the atomic rc mode")
	}
	r.walk(o, func(c *cell) bool {
		rc := atomic.LoadInt32(&c.hdr.RC)
		if rc <= 0 {
			return false
		}
		atomic.StoreInt32(&c.hdr.RC, -rc)
		return true
	})
}

// walk visits the graph under o once per cell. visit returns false to stop
// descending below a cell.
func (r *Runtime) walk(o Object, visit func(c *cell) bool) {
	seen := make(map[Object]struct{})
	work := []Object{o}
	for len(work) > 0 {
		top := work[len(work)-1]
		work = work[:len(work)-1]
		if top.IsScalar() || top == Null {
			continue
		}
		if _, ok := seen[top]; ok {
			continue
		}
		seen[top] = struct{}{}
		c := r.cell(top)
		if !visit(c) {
			continue
		}
		work = append(work, c.objs...)
	}
}
