package rt

// A thunk holds {value, closure}. An unevaluated thunk has a Null value and a
// closure of arity 1 that is applied to Unit on first force.

func (r *Runtime) allocThunk(value, closure Object) Object {
	return r.alloc(&cell{
		hdr:  Header{Tag: TagThunk, CsSz: smallSize(ThunkSize)},
		objs: []Object{value, closure},
	})
}

// MkThunk creates a suspended computation, taking the closure.
func (r *Runtime) MkThunk(closure Object) Object {
	return r.allocThunk(Null, closure)
}

// ThunkPure creates an already evaluated thunk, taking v.
func (r *Runtime) ThunkPure(v Object) Object {
	return r.allocThunk(v, Null)
}

func (r *Runtime) thunkCell(t Object) *cell {
	c := r.cell(t)
	if c.kind() != KindThunk {
		r.panicf(PanicTypeMismatch, "expected thunk, got %s", c.kind())
	}
	return c
}

// ThunkForce evaluates t (borrowed) if needed and returns its value, borrowed
// from t. The closure is released once it returns a value. If it panics, t
// keeps its closure and a later force evaluates it again.
func (r *Runtime) ThunkForce(t Object) Object {
	c := r.thunkCell(t)
	if c.objs[0] != Null {
		return c.objs[0]
	}
	if c.forcing {
		r.panicf(PanicThunkCycle, "thunk forced while being forced: handle %d", uint64(t)>>3)
	}
	c.forcing = true
	closure := c.objs[1]
	c.objs[1] = Null
	r.Inc(closure)
	done := false
	defer func() {
		if !done {
			c.objs[1] = closure
			c.forcing = false
		}
	}()
	v := r.Apply1(closure, Unit)
	done = true
	c.objs[0] = v
	c.forcing = false
	r.Dec(closure)
	return v
}

// ThunkGet returns the value of t, borrowed.
func (r *Runtime) ThunkGet(t Object) Object {
	return r.ThunkForce(t)
}

// ThunkGetOwn returns the value of t with its count incremented.
func (r *Runtime) ThunkGetOwn(t Object) Object {
	v := r.ThunkForce(t)
	r.Inc(v)
	return v
}

// IsThunkEvaluated reports whether t already holds a value.
func (r *Runtime) IsThunkEvaluated(t Object) bool {
	return r.thunkCell(t).objs[0] != Null
}

var thunkMapFn = &Fn{
	Name:  "Thunk.map",
	Arity: 3,
	Code: func(r *Runtime, args []Object) Object {
		f, t := args[0], args[1]
		v := r.ThunkGetOwn(t)
		r.Dec(t)
		return r.TailCall(f, v)
	},
}

var thunkBindFn = &Fn{
	Name:  "Thunk.bind",
	Arity: 3,
	Code: func(r *Runtime, args []Object) Object {
		t, f := args[0], args[1]
		v := r.ThunkGetOwn(t)
		r.Dec(t)
		next := r.Apply1(f, v)
		out := r.ThunkGetOwn(next)
		r.Dec(next)
		return out
	},
}

// ThunkMap is Thunk.map f t; it takes f and t and stays lazy.
func (r *Runtime) ThunkMap(f, t Object) Object {
	return r.MkThunk(r.MkClosure(thunkMapFn, f, t))
}

// ThunkBind is Thunk.bind t f; it takes t and f and stays lazy.
func (r *Runtime) ThunkBind(t, f Object) Object {
	return r.MkThunk(r.MkClosure(thunkBindFn, t, f))
}
