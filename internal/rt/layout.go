package rt

import (
	"encoding/binary"
	"fmt"
	"math"

	"fortio.org/safecast"
)

// Header is the fixed 8-byte object header shared by every heap object.
//
//	offset 0: rc     int32  (0 = persistent, <0 = multi-threaded in atomic mode)
//	offset 4: cs_sz  uint16 (object byte size for small objects)
//	offset 6: other  uint8  (ctor: number of object fields; sarray: element size)
//	offset 7: tag    uint8
type Header struct {
	RC    int32
	CsSz  uint16
	Other uint8
	Tag   uint8
}

// Byte offsets of the native object layout.
const (
	HeaderSize = 8
	WordSize   = 8

	ClosureFunOffset      = 8
	ClosureArityOffset    = 16
	ClosureNumFixedOffset = 18
	ClosureArgsOffset     = 24

	ArraySizeOffset     = 8
	ArrayCapacityOffset = 16
	ArrayDataOffset     = 24

	StringByteLenOffset  = 8
	StringUTF8LenOffset  = 16
	StringCapacityOffset = 24
	StringDataOffset     = 32

	ThunkValueOffset   = 8
	ThunkClosureOffset = 16
	ThunkSize          = 24

	RefValueOffset = 8
	RefSize        = 16

	ExternalClassOffset = 8
	ExternalDataOffset  = 16
	ExternalSize        = 24

	// BigNatSize is the header plus an opaque magnitude pointer.
	BigNatSize = 16
)

// Limits of the constructor layout.
const (
	MaxCtorFields      = 256
	MaxCtorScalarsSize = 1024
)

// EncodeHeader renders the header in its little-endian byte image.
func EncodeHeader(h Header) [HeaderSize]byte {
	var out [HeaderSize]byte
	binary.LittleEndian.PutUint32(out[0:4], uint32(h.RC)) //nolint:gosec // G115: bit-pattern reinterpretation.
	binary.LittleEndian.PutUint16(out[4:6], h.CsSz)
	out[6] = h.Other
	out[7] = h.Tag
	return out
}

// DecodeHeader parses the 8-byte header image.
func DecodeHeader(b [HeaderSize]byte) Header {
	return Header{
		RC:    int32(binary.LittleEndian.Uint32(b[0:4])), //nolint:gosec // G115: bit-pattern reinterpretation.
		CsSz:  binary.LittleEndian.Uint16(b[4:6]),
		Other: b[6],
		Tag:   b[7],
	}
}

// CtorObjectSize is the byte size of a constructor object.
func CtorObjectSize(numObjs, scalarSz int) int {
	return HeaderSize + numObjs*WordSize + scalarSz
}

// CtorScalarOffset is the byte offset of the scalar region.
func CtorScalarOffset(numObjs int) int {
	return HeaderSize + numObjs*WordSize
}

// ClosureObjectSize is the byte size of a closure with numFixed captured args.
func ClosureObjectSize(numFixed int) int {
	return ClosureArgsOffset + numFixed*WordSize
}

// ArrayObjectSize is the byte size of a boxed array with the given capacity.
func ArrayObjectSize(capacity int) int {
	return ArrayDataOffset + capacity*WordSize
}

// SArrayObjectSize is the byte size of a scalar array.
func SArrayObjectSize(elemSize, capacity int) int {
	return ArrayDataOffset + elemSize*capacity
}

// StringObjectSize is the byte size of a string with the given byte capacity,
// including the NUL terminator.
func StringObjectSize(capacity int) int {
	return StringDataOffset + capacity + 1
}

// smallSize clamps an object size into the cs_sz field.
func smallSize(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		return 0
	}
	return uint16(n)
}

// ObjectBytes renders o in the byte layout native code would see. Object
// references inside the payload are written as their word value and the
// closure code pointer as the function's registration index.
func (r *Runtime) ObjectBytes(o Object) []byte {
	c := r.cell(o)
	hdr := EncodeHeader(c.hdr)
	out := append([]byte(nil), hdr[:]...)
	putWord := func(v uint64) {
		out = binary.LittleEndian.AppendUint64(out, v)
	}
	switch c.kind() {
	case KindCtor:
		for _, f := range c.objs {
			putWord(uint64(f))
		}
		out = append(out, c.bytes...)
	case KindClosure:
		putWord(r.fnIndex(c.fn))
		out = binary.LittleEndian.AppendUint16(out, c.arity)
		fixed, err := safecast.Conv[uint16](len(c.objs))
		if err != nil {
			r.InternalPanic(fmt.Sprintf("closure with %d fixed args: %v", len(c.objs), err))
		}
		out = binary.LittleEndian.AppendUint16(out, fixed)
		out = append(out, 0, 0, 0, 0)
		for _, f := range c.objs {
			putWord(uint64(f))
		}
	case KindArray:
		putWord(r.toWord(len(c.objs)))
		putWord(r.toWord(cap(c.objs)))
		for _, f := range c.objs[:cap(c.objs)] {
			putWord(uint64(f))
		}
	case KindScalarArray:
		elem := int(c.hdr.Other)
		putWord(r.toWord(len(c.bytes) / max(elem, 1)))
		putWord(r.toWord(cap(c.bytes) / max(elem, 1)))
		out = append(out, c.bytes[:cap(c.bytes)]...)
	case KindString:
		putWord(r.toWord(len(c.bytes)))
		putWord(r.toWord(c.utf8Len))
		putWord(r.toWord(cap(c.bytes)))
		out = append(out, c.bytes...)
		out = append(out, 0)
	case KindThunk, KindRef:
		for _, f := range c.objs {
			putWord(uint64(f))
		}
	case KindExternal:
		putWord(uint64(r.classIndex(c.class)))
		putWord(0)
	case KindMPZ, KindBigInt:
		putWord(r.toWord(len(c.nat.Limbs)))
	}
	return out
}
