package rt

import (
	"encoding/binary"
	"math"
)

// AllocCtor allocates a constructor object with numObjs object fields and a
// scalarSz-byte scalar area. Fields start as Null and scalars as zero.
func (r *Runtime) AllocCtor(tag uint8, numObjs, scalarSz int) Object {
	switch {
	case tag > MaxCtorTag:
		r.panicf(PanicInvalidArgs, "constructor tag %d exceeds %d", tag, MaxCtorTag)
	case numObjs < 0 || numObjs >= MaxCtorFields:
		r.panicf(PanicInvalidArgs, "constructor with %d object fields", numObjs)
	case scalarSz < 0 || scalarSz > MaxCtorScalarsSize:
		r.panicf(PanicInvalidArgs, "constructor with %d scalar bytes", scalarSz)
	}
	c := &cell{
		hdr: Header{
			Tag:   tag,
			Other: uint8(numObjs), //nolint:gosec // G115: checked above.
			CsSz:  smallSize(CtorObjectSize(numObjs, scalarSz)),
		},
	}
	if numObjs > 0 {
		c.objs = make([]Object, numObjs)
	}
	if scalarSz > 0 {
		c.bytes = make([]byte, scalarSz)
	}
	return r.alloc(c)
}

// Tag returns the constructor index of o. For scalars (enumerations without
// fields) it is the unboxed value.
func (r *Runtime) Tag(o Object) uint8 {
	if o.IsScalar() {
		return uint8(Unbox(o)) //nolint:gosec // G115: enum tags fit a byte.
	}
	return r.cell(o).hdr.Tag
}

// Header returns a copy of the header of o.
func (r *Runtime) Header(o Object) Header {
	return r.cell(o).hdr
}

// KindOf returns the kind of the heap object o.
func (r *Runtime) KindOf(o Object) Kind {
	return r.cell(o).kind()
}

func (r *Runtime) ctorCell(o Object) *cell {
	c := r.cell(o)
	if r.debug && c.kind() != KindCtor {
		r.panicf(PanicTypeMismatch, "expected ctor, got %s", c.kind())
	}
	return c
}

func (r *Runtime) checkField(c *cell, i int) {
	if r.debug && (i < 0 || i >= len(c.objs)) {
		r.panicf(PanicOutOfBounds, "ctor field %d out of bounds (fields %d)", i, len(c.objs))
	}
}

// CtorNumObjs returns the number of object fields of o.
func (r *Runtime) CtorNumObjs(o Object) int {
	return int(r.ctorCell(o).hdr.Other)
}

// CtorGet returns field i of o. The result is borrowed.
func (r *Runtime) CtorGet(o Object, i int) Object {
	c := r.ctorCell(o)
	r.checkField(c, i)
	return c.objs[i]
}

// CtorSet stores v in field i, taking ownership of v. The previous value is
// not released; o must be exclusive or freshly allocated.
func (r *Runtime) CtorSet(o Object, i int, v Object) {
	c := r.ctorCell(o)
	r.checkField(c, i)
	c.objs[i] = v
}

// CtorSetTag rewrites the constructor index of an exclusive object.
func (r *Runtime) CtorSetTag(o Object, tag uint8) {
	if tag > MaxCtorTag {
		r.panicf(PanicInvalidArgs, "constructor tag %d exceeds %d", tag, MaxCtorTag)
	}
	r.ctorCell(o).hdr.Tag = tag
}

// CtorRelease releases field i and replaces it with Box(0).
func (r *Runtime) CtorRelease(o Object, i int) {
	c := r.ctorCell(o)
	r.checkField(c, i)
	old := c.objs[i]
	c.objs[i] = Box(0)
	r.Dec(old)
}

// CtorSetField returns o with field i replaced by v. An exclusive o is
// updated in place; a shared o is copied first and released.
func (r *Runtime) CtorSetField(o Object, i int, v Object) Object {
	c := r.ctorCell(o)
	r.checkField(c, i)
	if r.IsExclusive(o) {
		old := c.objs[i]
		c.objs[i] = v
		r.Dec(old)
		return o
	}
	n := r.AllocCtor(c.hdr.Tag, len(c.objs), len(c.bytes))
	nc := r.cell(n)
	for j, f := range c.objs {
		if j == i {
			continue
		}
		r.Inc(f)
		nc.objs[j] = f
	}
	nc.objs[i] = v
	copy(nc.bytes, c.bytes)
	r.Dec(o)
	return n
}

// scalar returns the width-byte window at a byte offset counted from the start
// of the field area, so the first scalar byte is at 8*numObjs.
func (r *Runtime) scalar(o Object, offset, width int) []byte {
	c := r.ctorCell(o)
	start := offset - len(c.objs)*WordSize
	if start < 0 || start+width > len(c.bytes) {
		r.panicf(PanicOutOfBounds, "ctor scalar offset %d width %d out of bounds (scalar area %d at %d)",
			offset, width, len(c.bytes), len(c.objs)*WordSize)
	}
	return c.bytes[start : start+width]
}

func (r *Runtime) CtorGetUint8(o Object, offset int) uint8 {
	return r.scalar(o, offset, 1)[0]
}

func (r *Runtime) CtorSetUint8(o Object, offset int, v uint8) {
	r.scalar(o, offset, 1)[0] = v
}

func (r *Runtime) CtorGetUint16(o Object, offset int) uint16 {
	return binary.LittleEndian.Uint16(r.scalar(o, offset, 2))
}

func (r *Runtime) CtorSetUint16(o Object, offset int, v uint16) {
	binary.LittleEndian.PutUint16(r.scalar(o, offset, 2), v)
}

func (r *Runtime) CtorGetUint32(o Object, offset int) uint32 {
	return binary.LittleEndian.Uint32(r.scalar(o, offset, 4))
}

func (r *Runtime) CtorSetUint32(o Object, offset int, v uint32) {
	binary.LittleEndian.PutUint32(r.scalar(o, offset, 4), v)
}

func (r *Runtime) CtorGetUint64(o Object, offset int) uint64 {
	return binary.LittleEndian.Uint64(r.scalar(o, offset, 8))
}

func (r *Runtime) CtorSetUint64(o Object, offset int, v uint64) {
	binary.LittleEndian.PutUint64(r.scalar(o, offset, 8), v)
}

// CtorGetUSize reads the USize stored in word slot i (i >= numObjs).
func (r *Runtime) CtorGetUSize(o Object, i int) uint64 {
	return binary.LittleEndian.Uint64(r.scalar(o, i*WordSize, 8))
}

// CtorSetUSize writes the USize stored in word slot i.
func (r *Runtime) CtorSetUSize(o Object, i int, v uint64) {
	binary.LittleEndian.PutUint64(r.scalar(o, i*WordSize, 8), v)
}

func (r *Runtime) CtorGetFloat(o Object, offset int) float64 {
	return math.Float64frombits(r.CtorGetUint64(o, offset))
}

func (r *Runtime) CtorSetFloat(o Object, offset int, v float64) {
	r.CtorSetUint64(o, offset, math.Float64bits(v))
}

func (r *Runtime) CtorGetFloat32(o Object, offset int) float32 {
	return math.Float32frombits(r.CtorGetUint32(o, offset))
}

func (r *Runtime) CtorSetFloat32(o Object, offset int, v float32) {
	r.CtorSetUint32(o, offset, math.Float32bits(v))
}

// MkPair builds the (a, b) product constructor, taking both values.
func (r *Runtime) MkPair(a, b Object) Object {
	p := r.AllocCtor(0, 2, 0)
	r.CtorSet(p, 0, a)
	r.CtorSet(p, 1, b)
	return p
}

// MkOptionSome builds Option.some v, taking v.
func (r *Runtime) MkOptionSome(v Object) Object {
	o := r.AllocCtor(1, 1, 0)
	r.CtorSet(o, 0, v)
	return o
}

// MkOptionNone is Option.none.
func MkOptionNone() Object {
	return Box(0)
}
