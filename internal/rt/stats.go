package rt

import (
	"fmt"
	"sort"
	"strings"
)

// Stats is a snapshot of the runtime counters.
type Stats struct {
	Allocs uint64
	Frees  uint64
	Incs   uint64
	Decs   uint64
	Bytes  uint64
	Live   int
}

// Stats returns the current counters.
func (r *Runtime) Stats() Stats {
	if r.atomic {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	return Stats{
		Allocs: r.counters.allocs.Load(),
		Frees:  r.counters.frees.Load(),
		Incs:   r.counters.incs.Load(),
		Decs:   r.counters.decs.Load(),
		Bytes:  r.counters.bytes.Load(),
		Live:   r.heap.live,
	}
}

// LiveObject describes one cell still present in the heap.
type LiveObject struct {
	Object Object
	Kind   Kind
	Tag    uint8
	RC     int32
	Size   uint16
}

// LiveSet lists the live cells in handle order. Persistent cells are included
// only when withPersistent is set.
func (r *Runtime) LiveSet(withPersistent bool) []LiveObject {
	var out []LiveObject
	r.eachLive(func(o Object, c *cell) {
		if c.hdr.RC == 0 && !withPersistent {
			return
		}
		out = append(out, LiveObject{Object: o, Kind: c.kind(), Tag: c.hdr.Tag, RC: c.hdr.RC, Size: c.hdr.CsSz})
	})
	return out
}

// CheckLeaks reports the non-persistent cells still alive, grouped by kind.
func (r *Runtime) CheckLeaks() error {
	live := r.LiveSet(false)
	if len(live) == 0 {
		return nil
	}
	byKind := make(map[Kind]int)
	for _, l := range live {
		byKind[l.Kind]++
	}
	kinds := make([]Kind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, byKind[k]))
	}
	return fmt.Errorf("%d live objects: %s", len(live), strings.Join(parts, ", "))
}
