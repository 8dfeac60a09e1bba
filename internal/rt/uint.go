package rt

import "math/bits"

// Unsigned is the set of fixed-width unsigned types: UInt8, UInt16, UInt32,
// UInt64 and USize (uint64 on the supported 64-bit platforms).
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// widthOf returns the bit width of T.
func widthOf[T Unsigned]() uint {
	var z T
	return uint(bits.Len64(uint64(^z)))
}

func UintAdd[T Unsigned](a, b T) T { return a + b }
func UintSub[T Unsigned](a, b T) T { return a - b }
func UintMul[T Unsigned](a, b T) T { return a * b }

// UintDiv returns a / b, and 0 when b is 0.
func UintDiv[T Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return a / b
}

// UintMod returns a % b, and a when b is 0.
func UintMod[T Unsigned](a, b T) T {
	if b == 0 {
		return a
	}
	return a % b
}

func UintLand[T Unsigned](a, b T) T { return a & b }
func UintLor[T Unsigned](a, b T) T  { return a | b }
func UintXor[T Unsigned](a, b T) T  { return a ^ b }

// UintShiftLeft shifts by b modulo the bit width.
func UintShiftLeft[T Unsigned](a, b T) T {
	return a << (uint64(b) % uint64(widthOf[T]()))
}

// UintShiftRight shifts by b modulo the bit width.
func UintShiftRight[T Unsigned](a, b T) T {
	return a >> (uint64(b) % uint64(widthOf[T]()))
}

func UintComplement[T Unsigned](a T) T { return ^a }
func UintNeg[T Unsigned](a T) T        { return -a }

func UintDecEq[T Unsigned](a, b T) bool { return a == b }
func UintDecLt[T Unsigned](a, b T) bool { return a < b }
func UintDecLe[T Unsigned](a, b T) bool { return a <= b }

// UintLog2 is floor(log2 a), with log2 0 = 0.
func UintLog2[T Unsigned](a T) T {
	if a == 0 {
		return 0
	}
	return T(bits.Len64(uint64(a)) - 1) //nolint:gosec // G115: at most 63.
}

// UintOfNat reduces a Nat (borrowed) modulo 2^width.
func UintOfNat[T Unsigned](r *Runtime, a Object) T {
	return T(r.NatToUint64(a))
}

// UintToNat widens a to Nat.
func UintToNat[T Unsigned](r *Runtime, a T) Object {
	return r.Uint64ToNat(uint64(a))
}

// UintConvert converts between unsigned widths, truncating when narrowing.
func UintConvert[To, From Unsigned](a From) To {
	return To(a)
}

func UintToFloat[T Unsigned](a T) float64 {
	return float64(a)
}

func UintToFloat32[T Unsigned](a T) float32 {
	return float32(a)
}

// UInt64MixHash combines two hash codes.
func UInt64MixHash(h, k uint64) uint64 {
	h ^= k + 0x9e3779b9 + (h << 6) + (h >> 2)
	return h
}

// BoxUint8 and friends store the narrow unsigned types inline.
func BoxUint8(v uint8) Object   { return Box(uint64(v)) }
func BoxUint16(v uint16) Object { return Box(uint64(v)) }

func UnboxUint8(o Object) uint8 {
	return uint8(Unbox(o)) //nolint:gosec // G115: boxed from a uint8.
}

func UnboxUint16(o Object) uint16 {
	return uint16(Unbox(o)) //nolint:gosec // G115: boxed from a uint16.
}
