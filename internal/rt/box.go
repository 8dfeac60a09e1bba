package rt

import (
	"encoding/binary"
	"math"
)

// MaxSmallNat is the largest natural number stored as a boxed scalar.
const MaxSmallNat = math.MaxUint64 >> 1

// Common scalar values.
const (
	False Object = 1 // Box(0)
	True  Object = 3 // Box(1)
	Unit  Object = 1 // Box(0)
)

// IsScalar reports whether o is a boxed scalar rather than a heap reference.
func (o Object) IsScalar() bool {
	return o&1 == 1
}

// IsScalar reports whether o is a boxed scalar rather than a heap reference.
func IsScalar(o Object) bool {
	return o.IsScalar()
}

// Box stores n inline. n must not exceed MaxSmallNat.
func Box(n uint64) Object {
	return Object(n<<1 | 1)
}

// Unbox returns the scalar stored in o.
func Unbox(o Object) uint64 {
	return uint64(o) >> 1
}

// BoxBool boxes a Bool.
func BoxBool(b bool) Object {
	if b {
		return True
	}
	return False
}

// UnboxBool reads a boxed Bool.
func UnboxBool(o Object) bool {
	return Unbox(o) != 0
}

// BoxUint32 boxes a UInt32 inline.
func BoxUint32(v uint32) Object {
	return Box(uint64(v))
}

// UnboxUint32 reads an inline UInt32.
func UnboxUint32(o Object) uint32 {
	return uint32(Unbox(o)) //nolint:gosec // G115: boxed from a uint32.
}

// boxScalarCtor allocates a ctor with no object fields holding 8 bytes.
func (r *Runtime) boxScalarCtor(bits uint64) Object {
	o := r.AllocCtor(0, 0, 8)
	c := r.cell(o)
	binary.LittleEndian.PutUint64(c.bytes, bits)
	return o
}

func (r *Runtime) unboxScalarCtor(o Object) uint64 {
	c := r.cell(o)
	if len(c.bytes) < 8 {
		r.panicf(PanicTypeMismatch, "expected boxed 8-byte scalar, got %s", c.kind())
	}
	return binary.LittleEndian.Uint64(c.bytes)
}

// BoxUint64 boxes a UInt64 in a constructor with an 8-byte scalar area.
func (r *Runtime) BoxUint64(v uint64) Object {
	return r.boxScalarCtor(v)
}

// UnboxUint64 reads a boxed UInt64.
func (r *Runtime) UnboxUint64(o Object) uint64 {
	return r.unboxScalarCtor(o)
}

// BoxUSize boxes a USize. Values that fit the scalar window stay inline.
func (r *Runtime) BoxUSize(v uint64) Object {
	if v <= MaxSmallNat {
		return Box(v)
	}
	return r.boxScalarCtor(v)
}

// UnboxUSize reads a boxed USize.
func (r *Runtime) UnboxUSize(o Object) uint64 {
	if o.IsScalar() {
		return Unbox(o)
	}
	return r.unboxScalarCtor(o)
}

// BoxFloat boxes a Float.
func (r *Runtime) BoxFloat(f float64) Object {
	return r.boxScalarCtor(math.Float64bits(f))
}

// UnboxFloat reads a boxed Float.
func (r *Runtime) UnboxFloat(o Object) float64 {
	return math.Float64frombits(r.unboxScalarCtor(o))
}

// BoxFloat32 boxes a Float32. The value occupies the low four bytes.
func (r *Runtime) BoxFloat32(f float32) Object {
	return r.boxScalarCtor(uint64(math.Float32bits(f)))
}

// UnboxFloat32 reads a boxed Float32.
func (r *Runtime) UnboxFloat32(o Object) float32 {
	return math.Float32frombits(uint32(r.unboxScalarCtor(o))) //nolint:gosec // G115: low four bytes.
}
