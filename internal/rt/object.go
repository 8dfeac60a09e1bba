package rt

import (
	"leanrt/internal/rt/bignum"
)

// Object is a generic runtime value: either a boxed scalar (low bit set) or a
// reference to a heap cell. References are handle<<3, so they are 8-aligned
// exactly like the pointers compiled code expects.
type Object uint64

// Null is the zero word. It never denotes a live object and appears only in
// unevaluated thunk slots.
const Null Object = 0

// pendingTail is returned by closure code that requested a tail call.
// It is neither a scalar (even) nor a reference (not 8-aligned).
const pendingTail Object = 2

// Tag values stored in the header. Constructor tags occupy 0..MaxCtorTag.
const (
	MaxCtorTag     uint8 = 244
	TagClosure     uint8 = 245
	TagArray       uint8 = 246
	TagThunk       uint8 = 247
	TagScalarArray uint8 = 248
	TagString      uint8 = 249
	TagMPZ         uint8 = 250
	TagBigInt      uint8 = 251
	TagRef         uint8 = 253
	TagExternal    uint8 = 254

	// tagPoison marks freed cells in debug mode.
	tagPoison uint8 = 0xFF
)

// Kind classifies a heap object by its tag.
type Kind uint8

const (
	KindCtor Kind = iota
	KindClosure
	KindArray
	KindThunk
	KindScalarArray
	KindString
	KindMPZ
	KindBigInt
	KindRef
	KindExternal
	KindFreed
)

// String returns a short lowercase label for the kind.
func (k Kind) String() string {
	switch k {
	case KindCtor:
		return "ctor"
	case KindClosure:
		return "closure"
	case KindArray:
		return "array"
	case KindThunk:
		return "thunk"
	case KindScalarArray:
		return "sarray"
	case KindString:
		return "string"
	case KindMPZ:
		return "mpz"
	case KindBigInt:
		return "bigint"
	case KindRef:
		return "ref"
	case KindExternal:
		return "external"
	case KindFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// KindOfTag maps a header tag to its Kind.
func KindOfTag(tag uint8) Kind {
	switch {
	case tag <= MaxCtorTag:
		return KindCtor
	case tag == TagClosure:
		return KindClosure
	case tag == TagArray:
		return KindArray
	case tag == TagThunk:
		return KindThunk
	case tag == TagScalarArray:
		return KindScalarArray
	case tag == TagString:
		return KindString
	case tag == TagMPZ:
		return KindMPZ
	case tag == TagBigInt:
		return KindBigInt
	case tag == TagRef:
		return KindRef
	case tag == TagExternal:
		return KindExternal
	default:
		return KindFreed
	}
}

// cell is the heap representation of one object. Payload fields are shared
// between kinds the same way the native layout overlays them:
//
//   - objs: ctor fields, closure fixed args, array elements, thunk
//     {value, closure}, ref {value}
//   - bytes: ctor scalar area, scalar array data, string bytes (NUL excluded)
//
// cap(objs) and cap(bytes) are the logical capacities of arrays and strings.
type cell struct {
	hdr     Header
	allocID uint64

	objs  []Object
	bytes []byte

	// closure
	fn    *Fn
	arity uint16

	// string
	utf8Len int

	// mpz / bigint magnitude
	nat bignum.Nat

	// thunk
	forcing bool

	// external
	class *ExternalClass
	data  any
}

func (c *cell) kind() Kind {
	return KindOfTag(c.hdr.Tag)
}
