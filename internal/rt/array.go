package rt

import "fmt"

// AllocArray allocates a boxed array of the given size and capacity. The
// first size slots must be filled by the caller.
func (r *Runtime) AllocArray(size, capacity int) Object {
	if size < 0 || capacity < size {
		r.panicf(PanicInvalidArgs, "array size %d capacity %d", size, capacity)
	}
	c := &cell{
		hdr:  Header{Tag: TagArray, CsSz: smallSize(ArrayObjectSize(capacity))},
		objs: make([]Object, size, capacity),
	}
	return r.alloc(c)
}

// MkEmptyArray returns #[].
func (r *Runtime) MkEmptyArray() Object {
	return r.AllocArray(0, 0)
}

// MkEmptyArrayWithCapacity returns an empty array with room for capacity
// (a borrowed Nat) elements.
func (r *Runtime) MkEmptyArrayWithCapacity(capacity Object) Object {
	if !capacity.IsScalar() {
		r.InternalPanicOutOfMemory()
	}
	return r.AllocArray(0, r.mustInt(Unbox(capacity)))
}

// MkArray returns an array of n (borrowed Nat) copies of v (owned).
func (r *Runtime) MkArray(n, v Object) Object {
	if !n.IsScalar() {
		r.InternalPanicOutOfMemory()
	}
	size := r.mustInt(Unbox(n))
	a := r.AllocArray(size, size)
	c := r.cell(a)
	if size == 0 {
		r.Dec(v)
		return a
	}
	r.IncN(v, uint32(min(size-1, 1<<31-1))) //nolint:gosec // G115: clamped.
	for i := range c.objs {
		c.objs[i] = v
	}
	return a
}

func (r *Runtime) arrayCell(a Object) *cell {
	c := r.cell(a)
	if c.kind() != KindArray {
		r.panicf(PanicTypeMismatch, "expected array, got %s", c.kind())
	}
	return c
}

// natIndex converts a boxed Nat index. Big numbers never fit.
func natIndex(i Object) (int, bool) {
	if !i.IsScalar() {
		return 0, false
	}
	return toInt(Unbox(i))
}

// ArraySize returns the number of elements of a.
func (r *Runtime) ArraySize(a Object) int {
	return len(r.arrayCell(a).objs)
}

// ArrayGetSize returns the size as a boxed Nat.
func (r *Runtime) ArrayGetSize(a Object) Object {
	return r.boxLen(r.ArraySize(a))
}

// ArrayCapacity returns the allocated capacity of a.
func (r *Runtime) ArrayCapacity(a Object) int {
	return cap(r.arrayCell(a).objs)
}

// ArrayUGet returns element i, inc'd. a is borrowed.
func (r *Runtime) ArrayUGet(a Object, i int) Object {
	c := r.arrayCell(a)
	if r.debug && (i < 0 || i >= len(c.objs)) {
		r.panicf(PanicOutOfBounds, "array index %d out of bounds (size %d)", i, len(c.objs))
	}
	v := c.objs[i]
	r.Inc(v)
	return v
}

// ArrayFGet returns element i (a borrowed Nat known to be in range), inc'd.
func (r *Runtime) ArrayFGet(a, i Object) Object {
	idx, _ := natIndex(i)
	return r.ArrayUGet(a, idx)
}

// ArrayFGetBorrowed returns element i without touching its count.
func (r *Runtime) ArrayFGetBorrowed(a, i Object) Object {
	idx, _ := natIndex(i)
	c := r.arrayCell(a)
	if r.debug && (idx < 0 || idx >= len(c.objs)) {
		r.panicf(PanicOutOfBounds, "array index %d out of bounds (size %d)", idx, len(c.objs))
	}
	return c.objs[idx]
}

// ArrayGet is the checked read with a default: an in-range index returns the
// element inc'd and releases def, otherwise def is returned.
func (r *Runtime) ArrayGet(def, a, i Object) Object {
	c := r.arrayCell(a)
	idx, ok := natIndex(i)
	if !ok || idx >= len(c.objs) {
		return def
	}
	r.Dec(def)
	v := c.objs[idx]
	r.Inc(v)
	return v
}

// ArrayGetPanic is Array.get!: out-of-range access is fatal.
func (r *Runtime) ArrayGetPanic(a, i Object) Object {
	c := r.arrayCell(a)
	idx, ok := natIndex(i)
	if !ok || idx >= len(c.objs) {
		r.panic(PanicOutOfBounds, fmt.Sprintf("Array.get!: index %s out of bounds (size %d)", r.natText(i), len(c.objs)))
	}
	v := c.objs[idx]
	r.Inc(v)
	return v
}

// EnsureExclusiveArray returns a uniquely referenced version of a.
func (r *Runtime) EnsureExclusiveArray(a Object) Object {
	if r.IsExclusive(a) {
		return a
	}
	return r.CopyArray(a)
}

// CopyArray copies a (owned) keeping its capacity.
func (r *Runtime) CopyArray(a Object) Object {
	return r.copyArrayWithCapacity(a, r.ArrayCapacity(a))
}

func (r *Runtime) copyArrayWithCapacity(a Object, capacity int) Object {
	c := r.arrayCell(a)
	n := r.AllocArray(len(c.objs), max(capacity, len(c.objs)))
	nc := r.cell(n)
	copy(nc.objs, c.objs)
	if r.IsExclusive(a) {
		r.FreeObjectOnly(a)
		return n
	}
	for _, v := range nc.objs {
		r.Inc(v)
	}
	r.Dec(a)
	return n
}

// ArrayUSet stores v (owned) at i in a (owned), copying a when shared.
func (r *Runtime) ArrayUSet(a Object, i int, v Object) Object {
	a = r.EnsureExclusiveArray(a)
	c := r.cell(a)
	if r.debug && (i < 0 || i >= len(c.objs)) {
		r.panicf(PanicOutOfBounds, "array index %d out of bounds (size %d)", i, len(c.objs))
	}
	old := c.objs[i]
	c.objs[i] = v
	r.Dec(old)
	return a
}

// ArrayFSet stores v at a Nat index known to be in range.
func (r *Runtime) ArrayFSet(a, i, v Object) Object {
	idx, _ := natIndex(i)
	return r.ArrayUSet(a, idx, v)
}

// ArraySet is the checked write: out of range releases v and returns a.
func (r *Runtime) ArraySet(a, i, v Object) Object {
	idx, ok := natIndex(i)
	if !ok || idx >= r.ArraySize(a) {
		r.Dec(v)
		return a
	}
	return r.ArrayUSet(a, idx, v)
}

// ArraySetPanic is Array.set!: out-of-range access is fatal.
func (r *Runtime) ArraySetPanic(a, i, v Object) Object {
	idx, ok := natIndex(i)
	size := r.ArraySize(a)
	if !ok || idx >= size {
		r.panic(PanicOutOfBounds, fmt.Sprintf("Array.set!: index %s out of bounds (size %d)", r.natText(i), size))
	}
	return r.ArrayUSet(a, idx, v)
}

// growCapacity is the push growth policy shared by all buffers.
func growCapacity(capacity, need int) int {
	next := 4
	if capacity > 0 {
		next = capacity * 2
	}
	return max(next, need)
}

// ArrayPush appends v (owned) to a (owned).
func (r *Runtime) ArrayPush(a, v Object) Object {
	c := r.arrayCell(a)
	if r.IsExclusive(a) && len(c.objs) < cap(c.objs) {
		c.objs = append(c.objs, v)
		return a
	}
	a = r.copyArrayWithCapacity(a, growCapacity(cap(c.objs), len(c.objs)+1))
	nc := r.cell(a)
	nc.objs = append(nc.objs, v)
	return a
}

// ArrayPop removes the last element. Popping an empty array is a no-op.
func (r *Runtime) ArrayPop(a Object) Object {
	a = r.EnsureExclusiveArray(a)
	c := r.cell(a)
	if len(c.objs) == 0 {
		return a
	}
	last := c.objs[len(c.objs)-1]
	c.objs[len(c.objs)-1] = Null
	c.objs = c.objs[:len(c.objs)-1]
	r.Dec(last)
	return a
}

// ArrayUSwap swaps elements i and j.
func (r *Runtime) ArrayUSwap(a Object, i, j int) Object {
	a = r.EnsureExclusiveArray(a)
	c := r.cell(a)
	if r.debug && (i < 0 || j < 0 || i >= len(c.objs) || j >= len(c.objs)) {
		r.panicf(PanicOutOfBounds, "array swap %d %d out of bounds (size %d)", i, j, len(c.objs))
	}
	c.objs[i], c.objs[j] = c.objs[j], c.objs[i]
	return a
}

// ArrayFSwap swaps elements at Nat indices known to be in range.
func (r *Runtime) ArrayFSwap(a, i, j Object) Object {
	ii, _ := natIndex(i)
	jj, _ := natIndex(j)
	return r.ArrayUSwap(a, ii, jj)
}

// ArraySwap is the checked swap: any out-of-range index leaves a unchanged.
func (r *Runtime) ArraySwap(a, i, j Object) Object {
	size := r.ArraySize(a)
	ii, ok1 := natIndex(i)
	jj, ok2 := natIndex(j)
	if !ok1 || !ok2 || ii >= size || jj >= size {
		return a
	}
	return r.ArrayUSwap(a, ii, jj)
}

// ArrayMk converts a List (owned) into an Array.
func (r *Runtime) ArrayMk(list Object) Object {
	a := r.MkEmptyArray()
	for cur := list; !cur.IsScalar(); cur = r.CtorGet(cur, 1) {
		head := r.CtorGet(cur, 0)
		r.Inc(head)
		a = r.ArrayPush(a, head)
	}
	r.Dec(list)
	return a
}

// ArrayToList converts an Array (owned) into a List.
func (r *Runtime) ArrayToList(a Object) Object {
	c := r.arrayCell(a)
	list := Box(0)
	for i := len(c.objs) - 1; i >= 0; i-- {
		v := c.objs[i]
		r.Inc(v)
		list = r.MkListCons(v, list)
	}
	r.Dec(a)
	return list
}

// MkListCons builds List.cons head tail, taking both.
func (r *Runtime) MkListCons(head, tail Object) Object {
	o := r.AllocCtor(1, 2, 0)
	r.CtorSet(o, 0, head)
	r.CtorSet(o, 1, tail)
	return o
}

// ArrayFoldl folds f (owned, arity 2) over a (owned) from the left, starting
// from init (owned).
func (r *Runtime) ArrayFoldl(f, init, a Object) Object {
	acc := init
	size := r.ArraySize(a)
	for i := range size {
		r.Inc(f)
		acc = r.Apply2(f, acc, r.ArrayUGet(a, i))
	}
	r.Dec(f)
	r.Dec(a)
	return acc
}

// ArrayQSort sorts a (owned) with lt (owned, arity 2, returns Bool). The sort
// is not stable.
func (r *Runtime) ArrayQSort(a, lt Object) Object {
	a = r.EnsureExclusiveArray(a)
	less := func(x, y Object) bool {
		r.Inc(lt)
		r.Inc(x)
		r.Inc(y)
		return UnboxBool(r.Apply2(lt, x, y))
	}
	type span struct{ lo, hi int }
	work := []span{{0, r.ArraySize(a) - 1}}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		if s.lo >= s.hi {
			continue
		}
		c := r.cell(a)
		mid := s.lo + (s.hi-s.lo)/2
		a = r.ArrayUSwap(a, mid, s.hi)
		pivot := c.objs[s.hi]
		store := s.lo
		for i := s.lo; i < s.hi; i++ {
			if less(c.objs[i], pivot) {
				a = r.ArrayUSwap(a, i, store)
				store++
			}
		}
		a = r.ArrayUSwap(a, store, s.hi)
		work = append(work, span{s.lo, store - 1}, span{store + 1, s.hi})
	}
	r.Dec(lt)
	return a
}
