package prim

import (
	"math"

	"fortio.org/safecast"

	"leanrt/internal/rt"
)

// codec describes how a machine value of type T crosses the object boundary.
// Small widths are boxed scalars, 64-bit values and floats live in ctor
// boxes that the registry releases as borrowed arguments.
type codec[T any] struct {
	name  string
	box   func(r *rt.Runtime, v T) rt.Object
	unbox func(r *rt.Runtime, o rt.Object) T
}

var (
	u8Codec = codec[uint8]{"uint8",
		func(_ *rt.Runtime, v uint8) rt.Object { return rt.BoxUint8(v) },
		func(_ *rt.Runtime, o rt.Object) uint8 { return rt.UnboxUint8(o) }}
	u16Codec = codec[uint16]{"uint16",
		func(_ *rt.Runtime, v uint16) rt.Object { return rt.BoxUint16(v) },
		func(_ *rt.Runtime, o rt.Object) uint16 { return rt.UnboxUint16(o) }}
	u32Codec = codec[uint32]{"uint32",
		func(_ *rt.Runtime, v uint32) rt.Object { return rt.BoxUint32(v) },
		func(_ *rt.Runtime, o rt.Object) uint32 { return rt.UnboxUint32(o) }}
	u64Codec   = codec[uint64]{"uint64", (*rt.Runtime).BoxUint64, (*rt.Runtime).UnboxUint64}
	usizeCodec = codec[uint64]{"usize", (*rt.Runtime).BoxUSize, (*rt.Runtime).UnboxUSize}

	i8Codec = codec[int8]{"int8",
		func(_ *rt.Runtime, v int8) rt.Object { return rt.BoxInt8(v) },
		func(_ *rt.Runtime, o rt.Object) int8 { return rt.UnboxInt8(o) }}
	i16Codec = codec[int16]{"int16",
		func(_ *rt.Runtime, v int16) rt.Object { return rt.BoxInt16(v) },
		func(_ *rt.Runtime, o rt.Object) int16 { return rt.UnboxInt16(o) }}
	i32Codec = codec[int32]{"int32",
		func(_ *rt.Runtime, v int32) rt.Object { return rt.BoxInt32(v) },
		func(_ *rt.Runtime, o rt.Object) int32 { return rt.UnboxInt32(o) }}
	i64Codec   = codec[int64]{"int64", (*rt.Runtime).BoxInt64, (*rt.Runtime).UnboxInt64}
	isizeCodec = codec[int64]{"isize", (*rt.Runtime).BoxInt64, (*rt.Runtime).UnboxInt64}

	f64Codec = codec[float64]{"float", (*rt.Runtime).BoxFloat, (*rt.Runtime).UnboxFloat}
	f32Codec = codec[float32]{"float32", (*rt.Runtime).BoxFloat32, (*rt.Runtime).UnboxFloat32}
)

// index converts a boxed USize index. Values that do not fit an int map to
// an index no buffer can reach.
func index(r *rt.Runtime, o rt.Object) int {
	i, err := safecast.Conv[int](r.UnboxUSize(o))
	if err != nil {
		return math.MaxInt
	}
	return i
}
