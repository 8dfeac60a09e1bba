package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"leanrt/internal/rt"
)

// CheckHeapInvariants runs a minimal set of heap invariants on a runtime:
// 1) the live cell count matches allocations minus frees
// 2) every live cell has a known kind, and constructors a valid tag
// 3) fixed-size cells report the size of their byte layout
// 4) constructor and array fields point at live cells or scalars
// 5) a non-persistent cell's count covers its references from the heap
func CheckHeapInvariants(r *rt.Runtime) error {
	if r == nil {
		return fmt.Errorf("nil runtime")
	}
	st := r.Stats()
	created, err := safecast.Conv[int](st.Allocs - st.Frees)
	if err != nil {
		return fmt.Errorf("live count overflow: %w", err)
	}
	if created != st.Live {
		return fmt.Errorf("live count %d does not match %d allocs - %d frees", st.Live, st.Allocs, st.Frees)
	}

	live := r.LiveSet(true)
	index := make(map[rt.Object]rt.LiveObject, len(live))
	for _, l := range live {
		index[l.Object] = l
	}
	refs := make(map[rt.Object]int32, len(live))

	for _, l := range live {
		if l.Kind == rt.KindFreed {
			return fmt.Errorf("freed cell %#x in the live set", uint64(l.Object))
		}
		var fields []rt.Object
		switch l.Kind {
		case rt.KindCtor:
			if l.Tag > rt.MaxCtorTag {
				return fmt.Errorf("constructor %#x has tag %d", uint64(l.Object), l.Tag)
			}
			fields = make([]rt.Object, r.CtorNumObjs(l.Object))
			for i := range fields {
				fields[i] = r.CtorGet(l.Object, i)
			}
		case rt.KindArray:
			fields = make([]rt.Object, r.ArraySize(l.Object))
			for i := range fields {
				idx, err := safecast.Conv[uint64](i)
				if err != nil {
					return err
				}
				fields[i] = r.ArrayFGetBorrowed(l.Object, rt.Box(idx))
			}
		}

		switch l.Kind {
		case rt.KindCtor, rt.KindClosure, rt.KindThunk, rt.KindRef:
			size, err := safecast.Conv[int](l.Size)
			if err != nil {
				return err
			}
			if got := len(r.ObjectBytes(l.Object)); size != 0 && got != size {
				return fmt.Errorf("%s %#x reports size %d, layout has %d bytes", l.Kind, uint64(l.Object), size, got)
			}
		}

		for i, f := range fields {
			if f == rt.Null || f.IsScalar() {
				continue
			}
			if _, ok := index[f]; !ok {
				return fmt.Errorf("%s %#x field %d points at dead cell %#x", l.Kind, uint64(l.Object), i, uint64(f))
			}
			refs[f]++
		}
	}

	if r.RCMode() == rt.RCAtomic {
		return nil
	}
	for o, n := range refs {
		l := index[o]
		if l.RC == 0 {
			continue
		}
		if l.RC < n {
			return fmt.Errorf("%s %#x has count %d but %d heap references", l.Kind, uint64(o), l.RC, n)
		}
	}
	return nil
}
