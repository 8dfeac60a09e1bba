package rt

// ExternalClass describes foreign data wrapped in an external object.
// Finalize runs once when the object dies. Foreach visits the runtime objects
// reachable from the data, applying fn to each.
type ExternalClass struct {
	Name     string
	Finalize func(data any)
	Foreach  func(data any, fn Object)
}

// RegisterExternalClass creates a class and gives it a stable index.
func (r *Runtime) RegisterExternalClass(name string, finalize func(data any), foreach func(data any, fn Object)) *ExternalClass {
	class := &ExternalClass{Name: name, Finalize: finalize, Foreach: foreach}
	r.classIndex(class)
	return class
}

// AllocExternal wraps data in a new external object.
func (r *Runtime) AllocExternal(class *ExternalClass, data any) Object {
	if class == nil {
		r.panic(PanicInvalidArgs, "external object without class")
	}
	r.classIndex(class)
	return r.alloc(&cell{
		hdr:   Header{Tag: TagExternal, CsSz: smallSize(ExternalSize)},
		class: class,
		data:  data,
	})
}

func (r *Runtime) externalCell(o Object) *cell {
	c := r.cell(o)
	if c.kind() != KindExternal {
		r.panicf(PanicTypeMismatch, "expected external, got %s", c.kind())
	}
	return c
}

// ExternalData returns the wrapped data. o is borrowed.
func (r *Runtime) ExternalData(o Object) any {
	return r.externalCell(o).data
}

// ExternalClassOf returns the class of o.
func (r *Runtime) ExternalClassOf(o Object) *ExternalClass {
	return r.externalCell(o).class
}

// SetExternalData replaces the data of o (owned). An exclusive o is updated
// in place; otherwise a new object of the same class is returned and o is
// released.
func (r *Runtime) SetExternalData(o Object, data any) Object {
	c := r.externalCell(o)
	if r.IsExclusive(o) {
		c.data = data
		return o
	}
	n := r.AllocExternal(c.class, data)
	r.Dec(o)
	return n
}

// ExternalForeach runs the class visitor over o with fn (borrowed).
func (r *Runtime) ExternalForeach(o, fn Object) {
	c := r.externalCell(o)
	if c.class.Foreach != nil {
		c.class.Foreach(c.data, fn)
	}
}

// finalizeExternal runs the class finalizer once and drops the data.
func (r *Runtime) finalizeExternal(c *cell) {
	class := c.class
	c.class = nil
	if class != nil && class.Finalize != nil {
		class.Finalize(c.data)
	}
	c.data = nil
}
