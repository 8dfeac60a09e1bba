package rt

// Fn is a code reference stored in closures. Code receives exactly Arity
// owned arguments and returns an owned result, or the marker produced by
// TailCall.
type Fn struct {
	Name  string
	Arity int
	Code  func(r *Runtime, args []Object) Object
}

// tailCall is the pending call requested by TailCall or TailCallFn.
type tailCall struct {
	set     bool
	closure Object
	fn      *Fn
	args    []Object
}

// AllocClosure allocates a closure over fn with room for numFixed captured
// arguments. arity is the total number of arguments fn expects.
func (r *Runtime) AllocClosure(fn *Fn, arity, numFixed int) Object {
	switch {
	case fn == nil:
		r.panic(PanicInvalidArgs, "closure without code")
	case arity <= 0 || arity > 0xFFFF:
		r.panicf(PanicInvalidArgs, "closure arity %d", arity)
	case numFixed < 0 || numFixed >= arity:
		r.panicf(PanicInvalidArgs, "closure with %d fixed args for arity %d", numFixed, arity)
	}
	r.fnIndex(fn)
	c := &cell{
		hdr: Header{
			Tag:  TagClosure,
			CsSz: smallSize(ClosureObjectSize(numFixed)),
		},
		fn:    fn,
		arity: uint16(arity), //nolint:gosec // G115: checked above.
		objs:  make([]Object, numFixed),
	}
	return r.alloc(c)
}

// MkClosure allocates a closure and fills its captured arguments, taking them.
func (r *Runtime) MkClosure(fn *Fn, fixed ...Object) Object {
	o := r.AllocClosure(fn, fn.Arity, len(fixed))
	copy(r.cell(o).objs, fixed)
	return o
}

func (r *Runtime) closureCell(o Object) *cell {
	c := r.cell(o)
	if c.kind() != KindClosure {
		r.panicf(PanicTypeMismatch, "expected closure, got %s", c.kind())
	}
	return c
}

// ClosureSet stores captured argument i, taking v.
func (r *Runtime) ClosureSet(o Object, i int, v Object) {
	c := r.closureCell(o)
	if r.debug && (i < 0 || i >= len(c.objs)) {
		r.panicf(PanicOutOfBounds, "closure arg %d out of bounds (fixed %d)", i, len(c.objs))
	}
	c.objs[i] = v
}

// ClosureGet returns captured argument i, borrowed.
func (r *Runtime) ClosureGet(o Object, i int) Object {
	c := r.closureCell(o)
	if r.debug && (i < 0 || i >= len(c.objs)) {
		r.panicf(PanicOutOfBounds, "closure arg %d out of bounds (fixed %d)", i, len(c.objs))
	}
	return c.objs[i]
}

func (r *Runtime) ClosureArity(o Object) int {
	return int(r.closureCell(o).arity)
}

func (r *Runtime) ClosureNumFixed(o Object) int {
	return len(r.closureCell(o).objs)
}

func (r *Runtime) ClosureFn(o Object) *Fn {
	return r.closureCell(o).fn
}

// Apply applies the closure f to args. f and args are owned.
// Apply is not safe for concurrent use on one Runtime.
func (r *Runtime) Apply(f Object, args ...Object) Object {
	if len(args) == 0 {
		return f
	}
	return r.drainTail(r.applyStep(f, args))
}

func (r *Runtime) Apply1(f, a1 Object) Object {
	return r.Apply(f, a1)
}

func (r *Runtime) Apply2(f, a1, a2 Object) Object {
	return r.Apply(f, a1, a2)
}

func (r *Runtime) Apply3(f, a1, a2, a3 Object) Object {
	return r.Apply(f, a1, a2, a3)
}

func (r *Runtime) Apply4(f, a1, a2, a3, a4 Object) Object {
	return r.Apply(f, a1, a2, a3, a4)
}

// ApplyN applies f to any number of arguments.
func (r *Runtime) ApplyN(f Object, args ...Object) Object {
	return r.Apply(f, args...)
}

// ApplyM applies f to an argument slice; it covers over-application past
// the fixed-arity entry points.
func (r *Runtime) ApplyM(f Object, args []Object) Object {
	return r.Apply(f, args...)
}

// Call invokes fn directly with owned args.
func (r *Runtime) Call(fn *Fn, args ...Object) Object {
	if len(args) != fn.Arity {
		r.panicf(PanicInvalidArgs, "%s expects %d args, got %d", fn.Name, fn.Arity, len(args))
	}
	return r.drainTail(fn.Code(r, args))
}

// TailCall requests that the caller's trampoline apply f to args. Closure
// code returns its result directly: `return r.TailCall(f, x)`.
func (r *Runtime) TailCall(f Object, args ...Object) Object {
	if r.tail.set {
		r.InternalPanic("tail call requested twice")
	}
	r.tail = tailCall{set: true, closure: f, args: args}
	return pendingTail
}

// TailCallFn requests a direct tail call of fn without allocating a closure.
func (r *Runtime) TailCallFn(fn *Fn, args ...Object) Object {
	if r.tail.set {
		r.InternalPanic("tail call requested twice")
	}
	r.tail = tailCall{set: true, fn: fn, args: args}
	return pendingTail
}

// drainTail runs pending tail calls until a real value is produced.
func (r *Runtime) drainTail(res Object) Object {
	for res == pendingTail {
		call := r.tail
		r.tail = tailCall{}
		if !call.set {
			r.InternalPanic("tail call marker without pending call")
		}
		if call.fn != nil {
			if len(call.args) != call.fn.Arity {
				r.panicf(PanicInvalidArgs, "%s expects %d args, got %d", call.fn.Name, call.fn.Arity, len(call.args))
			}
			res = call.fn.Code(r, call.args)
			continue
		}
		if len(call.args) == 0 {
			res = call.closure
			continue
		}
		res = r.applyStep(call.closure, call.args)
	}
	return res
}

// applyStep performs one application. The result may be the tail marker.
func (r *Runtime) applyStep(f Object, args []Object) Object {
	c := r.closureCell(f)
	arity := int(c.arity)
	fixed := len(c.objs)
	n := len(args)

	switch {
	case fixed+n < arity:
		pa := r.AllocClosure(c.fn, arity, fixed+n)
		pc := r.cell(pa)
		for i, v := range c.objs {
			r.Inc(v)
			pc.objs[i] = v
		}
		copy(pc.objs[fixed:], args)
		r.Dec(f)
		return pa

	case fixed+n == arity:
		return c.fn.Code(r, r.collectArgs(f, c, args))

	default:
		need := arity - fixed
		g := r.drainTail(c.fn.Code(r, r.collectArgs(f, c, args[:need])))
		rest := append([]Object(nil), args[need:]...)
		return r.applyStep(g, rest)
	}
}

// collectArgs joins captured and supplied arguments and releases f. An
// exclusive closure donates its captured arguments without touching counts.
func (r *Runtime) collectArgs(f Object, c *cell, args []Object) []Object {
	all := make([]Object, 0, len(c.objs)+len(args))
	if r.IsExclusive(f) {
		all = append(all, c.objs...)
		all = append(all, args...)
		r.FreeObjectOnly(f)
		return all
	}
	for _, v := range c.objs {
		r.Inc(v)
	}
	all = append(all, c.objs...)
	all = append(all, args...)
	r.Dec(f)
	return all
}
