package rt

// MkRef allocates a mutable reference cell, taking v.
func (r *Runtime) MkRef(v Object) Object {
	return r.alloc(&cell{
		hdr:  Header{Tag: TagRef, CsSz: smallSize(RefSize)},
		objs: []Object{v},
	})
}

func (r *Runtime) refCell(ref Object) *cell {
	c := r.cell(ref)
	if c.kind() != KindRef {
		r.panicf(PanicTypeMismatch, "expected ref, got %s", c.kind())
	}
	return c
}

// RefGet returns the current value (inc'd). ref is borrowed.
func (r *Runtime) RefGet(ref Object) Object {
	v := r.refCell(ref).objs[0]
	r.Inc(v)
	return v
}

// RefSet stores v (owned) and releases the previous value.
func (r *Runtime) RefSet(ref, v Object) {
	c := r.refCell(ref)
	old := c.objs[0]
	c.objs[0] = v
	r.Dec(old)
}

// RefSwap stores v (owned) and returns the previous value (owned).
func (r *Runtime) RefSwap(ref, v Object) Object {
	c := r.refCell(ref)
	old := c.objs[0]
	c.objs[0] = v
	return old
}

// RefTake moves the value out, leaving Box(0) behind.
func (r *Runtime) RefTake(ref Object) Object {
	return r.RefSwap(ref, Box(0))
}

// RefReset releases the value and leaves Box(0) behind.
func (r *Runtime) RefReset(ref Object) {
	r.RefSet(ref, Box(0))
}

// RefPtrEq reports whether two refs currently hold the same word.
func (r *Runtime) RefPtrEq(a, b Object) bool {
	return r.refCell(a).objs[0] == r.refCell(b).objs[0]
}

// IORefNew is ST.Prim.mkRef in IO: v is owned, world is ignored.
func (r *Runtime) IORefNew(v, _ Object) Object {
	return r.IOResultMkOk(r.MkRef(v))
}

func (r *Runtime) IORefGet(ref, _ Object) Object {
	return r.IOResultMkOk(r.RefGet(ref))
}

func (r *Runtime) IORefSet(ref, v, _ Object) Object {
	r.RefSet(ref, v)
	return r.IOResultMkOk(Unit)
}

func (r *Runtime) IORefSwap(ref, v, _ Object) Object {
	return r.IOResultMkOk(r.RefSwap(ref, v))
}

func (r *Runtime) IORefTake(ref, _ Object) Object {
	return r.IOResultMkOk(r.RefTake(ref))
}

func (r *Runtime) IORefPtrEq(a, b, _ Object) Object {
	return r.IOResultMkOk(BoxBool(r.RefPtrEq(a, b)))
}
