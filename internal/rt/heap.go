package rt

import (
	"fmt"
	"math"

	"fortio.org/safecast"
)

// heap stores every cell owned by a runtime. Handle 0 is never used, so the
// zero word is never a valid reference.
//
// In release mode freed slots are recycled. In debug mode freed cells stay in
// place with a poisoned header so stale words are detected.
type heap struct {
	cells       []*cell
	free        []uint64
	nextAllocID uint64
	live        int
}

func (h *heap) initIfNeeded() {
	if h.cells == nil {
		h.cells = make([]*cell, 1, 256)
	}
	if h.nextAllocID == 0 {
		h.nextAllocID = 1
	}
}

func (h *heap) insert(c *cell, recycle bool) uint64 {
	h.initIfNeeded()
	c.allocID = h.nextAllocID
	h.nextAllocID++
	h.live++
	if recycle && len(h.free) > 0 {
		handle := h.free[len(h.free)-1]
		h.free = h.free[:len(h.free)-1]
		h.cells[handle] = c
		return handle
	}
	h.cells = append(h.cells, c)
	return uint64(len(h.cells) - 1)
}

func (h *heap) slot(handle uint64) *cell {
	if handle == 0 || handle >= uint64(len(h.cells)) {
		return nil
	}
	return h.cells[handle]
}

// alloc zero-initializes a cell and returns its reference word.
func (r *Runtime) alloc(c *cell) Object {
	c.hdr.RC = 1
	if r.atomic {
		r.mu.Lock()
	}
	handle := r.heap.insert(c, !r.debug)
	if r.atomic {
		r.mu.Unlock()
	}
	if handle > math.MaxUint64>>3 {
		r.InternalPanicOutOfMemory()
	}
	o := Object(handle << 3)
	r.counters.allocs.Add(1)
	r.counters.bytes.Add(uint64(c.hdr.CsSz))
	if r.traceHeap {
		r.traceAlloc(o, c)
	}
	return o
}

// cell resolves a reference word to its live cell.
func (r *Runtime) cell(o Object) *cell {
	if o&7 != 0 || o == Null {
		r.panicf(PanicInvalidHandle, "invalid object 0x%x", uint64(o))
	}
	handle := uint64(o) >> 3
	c := r.lookup(handle)
	if c == nil {
		r.panicf(PanicInvalidHandle, "invalid handle %d", handle)
	}
	if c.hdr.Tag == tagPoison {
		r.panicf(PanicUseAfterFree, "use after free: handle %d (alloc=%d)", handle, c.allocID)
	}
	return c
}

func (r *Runtime) lookup(handle uint64) *cell {
	if r.atomic {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	return r.heap.slot(handle)
}

// release removes a cell from the heap. Children are the caller's concern.
func (r *Runtime) release(o Object, c *cell) {
	handle := uint64(o) >> 3
	if r.traceHeap {
		r.traceFree(o, c)
	}
	r.counters.frees.Add(1)
	if r.atomic {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	r.heap.live--
	if r.debug {
		c.hdr = Header{RC: math.MinInt32, Tag: tagPoison}
		c.objs, c.bytes, c.data, c.fn, c.class = nil, nil, nil, nil, nil
		c.nat.Limbs = nil
		return
	}
	r.heap.cells[handle] = nil
	r.heap.free = append(r.heap.free, handle)
}

// LiveObjects returns the number of cells that have not been freed.
func (r *Runtime) LiveObjects() int {
	return r.heap.live
}

// eachLive calls fn for every live cell in handle order.
func (r *Runtime) eachLive(fn func(o Object, c *cell)) {
	for handle, c := range r.heap.cells {
		if c == nil || c.hdr.Tag == tagPoison {
			continue
		}
		fn(Object(r.toWord(handle)<<3), c)
	}
}

// toInt converts a size or index word to int, treating overflow as out of
// bounds rather than truncating.
func toInt(v uint64) (int, bool) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// toWord converts a length, count, index or position to a word.
func (r *Runtime) toWord(n int) uint64 {
	w, err := safecast.Conv[uint64](n)
	if err != nil {
		r.InternalPanic(fmt.Sprintf("negative size %d: %v", n, err))
	}
	return w
}

// boxLen boxes a length, count, index or position as a Nat.
func (r *Runtime) boxLen(n int) Object {
	return Box(r.toWord(n))
}

// mustInt is toInt for sizes that must fit; overflow is an allocation failure.
func (r *Runtime) mustInt(v uint64) int {
	n, ok := toInt(v)
	if !ok {
		r.InternalPanicOutOfMemory()
	}
	return n
}
