package rt

import (
	"bytes"
	"encoding/binary"
	"math"
)

// AllocSArray allocates a scalar array of size elements of elemSize bytes
// with room for capacity elements. Data starts zeroed.
func (r *Runtime) AllocSArray(elemSize, size, capacity int) Object {
	if elemSize <= 0 || elemSize > math.MaxUint8 || size < 0 || capacity < size {
		r.panicf(PanicInvalidArgs, "scalar array elem %d size %d capacity %d", elemSize, size, capacity)
	}
	c := &cell{
		hdr: Header{
			Tag:   TagScalarArray,
			Other: uint8(elemSize), //nolint:gosec // G115: checked above.
			CsSz:  smallSize(SArrayObjectSize(elemSize, capacity)),
		},
		bytes: make([]byte, size*elemSize, capacity*elemSize),
	}
	return r.alloc(c)
}

func (r *Runtime) sarrayCell(a Object) *cell {
	c := r.cell(a)
	if c.kind() != KindScalarArray {
		r.panicf(PanicTypeMismatch, "expected sarray, got %s", c.kind())
	}
	return c
}

// SArrayElemSize returns the element width in bytes.
func (r *Runtime) SArrayElemSize(a Object) int {
	return int(r.sarrayCell(a).hdr.Other)
}

// SArraySize returns the number of elements.
func (r *Runtime) SArraySize(a Object) int {
	c := r.sarrayCell(a)
	return len(c.bytes) / int(c.hdr.Other)
}

// SArrayCapacity returns the allocated capacity in elements.
func (r *Runtime) SArrayCapacity(a Object) int {
	c := r.sarrayCell(a)
	return cap(c.bytes) / int(c.hdr.Other)
}

func (r *Runtime) copySArrayWithCapacity(a Object, capacity int) Object {
	c := r.sarrayCell(a)
	elem := int(c.hdr.Other)
	size := len(c.bytes) / elem
	n := r.AllocSArray(elem, size, max(capacity, size))
	copy(r.cell(n).bytes, c.bytes)
	r.Dec(a)
	return n
}

func (r *Runtime) ensureExclusiveSArray(a Object) Object {
	if r.IsExclusive(a) {
		return a
	}
	return r.copySArrayWithCapacity(a, r.SArrayCapacity(a))
}

// sarrayPush appends one element image using the shared growth policy.
func (r *Runtime) sarrayPush(a Object, elem []byte) Object {
	c := r.sarrayCell(a)
	if r.IsExclusive(a) && len(c.bytes) < cap(c.bytes) {
		c.bytes = append(c.bytes, elem...)
		return a
	}
	size := r.SArraySize(a)
	a = r.copySArrayWithCapacity(a, growCapacity(r.SArrayCapacity(a), size+1))
	nc := r.cell(a)
	nc.bytes = append(nc.bytes, elem...)
	return a
}

func (r *Runtime) sarraySlot(a Object, i int) []byte {
	c := r.sarrayCell(a)
	elem := int(c.hdr.Other)
	if r.debug && (i < 0 || (i+1)*elem > len(c.bytes)) {
		r.panicf(PanicOutOfBounds, "sarray index %d out of bounds (size %d)", i, len(c.bytes)/elem)
	}
	return c.bytes[i*elem : (i+1)*elem]
}

// MkEmptyByteArray returns an empty ByteArray with the given Nat capacity.
func (r *Runtime) MkEmptyByteArray(capacity Object) Object {
	if !capacity.IsScalar() {
		r.InternalPanicOutOfMemory()
	}
	return r.AllocSArray(1, 0, r.mustInt(Unbox(capacity)))
}

// ByteArrayOf builds a ByteArray holding a copy of b.
func (r *Runtime) ByteArrayOf(b []byte) Object {
	a := r.AllocSArray(1, len(b), len(b))
	copy(r.cell(a).bytes, b)
	return a
}

// ByteArrayBytes returns the bytes of a, borrowed. The slice is only valid
// until a is next modified.
func (r *Runtime) ByteArrayBytes(a Object) []byte {
	return r.sarrayCell(a).bytes
}

// ByteArrayMk converts an Array UInt8 (owned) into a ByteArray.
func (r *Runtime) ByteArrayMk(arr Object) Object {
	c := r.arrayCell(arr)
	out := r.AllocSArray(1, len(c.objs), len(c.objs))
	data := r.cell(out).bytes
	for i, v := range c.objs {
		data[i] = uint8(Unbox(v)) //nolint:gosec // G115: UInt8 elements.
	}
	r.Dec(arr)
	return out
}

// ByteArrayData converts a ByteArray (owned) into an Array UInt8.
func (r *Runtime) ByteArrayData(a Object) Object {
	data := r.sarrayCell(a).bytes
	out := r.AllocArray(len(data), len(data))
	oc := r.cell(out)
	for i, b := range data {
		oc.objs[i] = Box(uint64(b))
	}
	r.Dec(a)
	return out
}

// ByteArrayPush appends b to a (owned).
func (r *Runtime) ByteArrayPush(a Object, b uint8) Object {
	return r.sarrayPush(a, []byte{b})
}

// ByteArraySize returns the size as a boxed Nat.
func (r *Runtime) ByteArraySize(a Object) Object {
	return r.boxLen(r.SArraySize(a))
}

func (r *Runtime) ByteArrayUGet(a Object, i int) uint8 {
	return r.sarraySlot(a, i)[0]
}

func (r *Runtime) ByteArrayUSet(a Object, i int, v uint8) Object {
	a = r.ensureExclusiveSArray(a)
	r.sarraySlot(a, i)[0] = v
	return a
}

// ByteArrayFGet reads at a Nat index known to be in range.
func (r *Runtime) ByteArrayFGet(a, i Object) uint8 {
	idx, _ := natIndex(i)
	return r.ByteArrayUGet(a, idx)
}

// ByteArrayGet is the checked read; out of range yields 0.
func (r *Runtime) ByteArrayGet(a, i Object) uint8 {
	idx, ok := natIndex(i)
	if !ok || idx >= r.SArraySize(a) {
		return 0
	}
	return r.ByteArrayUGet(a, idx)
}

// ByteArraySet is the checked write; out of range returns a unchanged.
func (r *Runtime) ByteArraySet(a, i Object, v uint8) Object {
	idx, ok := natIndex(i)
	if !ok || idx >= r.SArraySize(a) {
		return a
	}
	return r.ByteArrayUSet(a, idx, v)
}

// ByteArrayCopy returns a fresh copy of a (borrowed).
func (r *Runtime) ByteArrayCopy(a Object) Object {
	return r.ByteArrayOf(r.ByteArrayBytes(a))
}

// ByteArrayDecEq compares two byte arrays (both borrowed).
func (r *Runtime) ByteArrayDecEq(a, b Object) bool {
	return bytes.Equal(r.ByteArrayBytes(a), r.ByteArrayBytes(b))
}

// MkEmptyFloatArray returns an empty FloatArray with the given Nat capacity.
func (r *Runtime) MkEmptyFloatArray(capacity Object) Object {
	if !capacity.IsScalar() {
		r.InternalPanicOutOfMemory()
	}
	return r.AllocSArray(8, 0, r.mustInt(Unbox(capacity)))
}

// FloatArrayPush appends f to a (owned).
func (r *Runtime) FloatArrayPush(a Object, f float64) Object {
	var elem [8]byte
	binary.LittleEndian.PutUint64(elem[:], math.Float64bits(f))
	return r.sarrayPush(a, elem[:])
}

// FloatArraySize returns the size as a boxed Nat.
func (r *Runtime) FloatArraySize(a Object) Object {
	return r.boxLen(r.SArraySize(a))
}

func (r *Runtime) FloatArrayUGet(a Object, i int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(r.sarraySlot(a, i)))
}

func (r *Runtime) FloatArrayUSet(a Object, i int, f float64) Object {
	a = r.ensureExclusiveSArray(a)
	binary.LittleEndian.PutUint64(r.sarraySlot(a, i), math.Float64bits(f))
	return a
}

// FloatArrayGet is the checked read; out of range yields 0.0.
func (r *Runtime) FloatArrayGet(a, i Object) float64 {
	idx, ok := natIndex(i)
	if !ok || idx >= r.SArraySize(a) {
		return 0
	}
	return r.FloatArrayUGet(a, idx)
}

// FloatArrayMk converts an Array Float (owned) into a FloatArray.
func (r *Runtime) FloatArrayMk(arr Object) Object {
	size := r.ArraySize(arr)
	out := r.AllocSArray(8, 0, size)
	for i := range size {
		out = r.FloatArrayPush(out, r.UnboxFloat(r.ArrayFGetBorrowed(arr, r.boxLen(i))))
	}
	r.Dec(arr)
	return out
}

// FloatArrayData converts a FloatArray (owned) into an Array Float.
func (r *Runtime) FloatArrayData(a Object) Object {
	size := r.SArraySize(a)
	out := r.AllocArray(size, size)
	for i := range size {
		r.cell(out).objs[i] = r.BoxFloat(r.FloatArrayUGet(a, i))
	}
	r.Dec(a)
	return out
}
