package rt

import "unsafe"

// Signed is the set of fixed-width signed types: Int8, Int16, Int32, Int64
// and ISize. Boxed values hold the unsigned bit pattern of the same width.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

func signedWidth[T Signed]() uint64 {
	var z T
	return uint64(unsafe.Sizeof(z)) * 8
}

// Arithmetic wraps on overflow, including MIN / -1 = MIN.
func SintAdd[T Signed](a, b T) T { return a + b }
func SintSub[T Signed](a, b T) T { return a - b }
func SintMul[T Signed](a, b T) T { return a * b }
func SintNeg[T Signed](a T) T    { return -a }

// SintDiv truncates toward zero; division by zero yields 0.
func SintDiv[T Signed](a, b T) T {
	if b == 0 {
		return 0
	}
	return a / b
}

// SintMod has the sign of a; modulo zero yields a.
func SintMod[T Signed](a, b T) T {
	if b == 0 {
		return a
	}
	return a % b
}

func SintLand[T Signed](a, b T) T { return a & b }
func SintLor[T Signed](a, b T) T  { return a | b }
func SintXor[T Signed](a, b T) T  { return a ^ b }

func SintComplement[T Signed](a T) T { return ^a }

// SintShiftLeft shifts by b modulo the bit width.
func SintShiftLeft[T Signed](a, b T) T {
	return a << (uint64(b) % signedWidth[T]()) //nolint:gosec // G115: reduced modulo the width.
}

// SintShiftRight is an arithmetic shift by b modulo the bit width.
func SintShiftRight[T Signed](a, b T) T {
	return a >> (uint64(b) % signedWidth[T]()) //nolint:gosec // G115: reduced modulo the width.
}

func SintDecEq[T Signed](a, b T) bool { return a == b }
func SintDecLt[T Signed](a, b T) bool { return a < b }
func SintDecLe[T Signed](a, b T) bool { return a <= b }

// SintAbs wraps: abs MIN = MIN.
func SintAbs[T Signed](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

// SintOfInt reduces an Int (borrowed) modulo 2^width.
func SintOfInt[T Signed](r *Runtime, a Object) T {
	return T(r.IntToInt64(a))
}

// SintOfNat reduces a Nat (borrowed) modulo 2^width.
func SintOfNat[T Signed](r *Runtime, a Object) T {
	return T(r.NatToUint64(a)) //nolint:gosec // G115: modular conversion.
}

func SintToInt[T Signed](r *Runtime, a T) Object {
	return r.IntOfInt64(int64(a))
}

// SintToNat clamps negative values to 0.
func SintToNat[T Signed](a T) Object {
	if a < 0 {
		return Box(0)
	}
	return Box(uint64(a)) //nolint:gosec // G115: non-negative.
}

// SintConvert converts between signed widths, sign-extending or truncating.
func SintConvert[To, From Signed](a From) To {
	return To(a)
}

func SintToFloat[T Signed](a T) float64 {
	return float64(a)
}

func SintToFloat32[T Signed](a T) float32 {
	return float32(a)
}

// BoxInt8 and friends store the bit pattern inline.
func BoxInt8(v int8) Object   { return Box(uint64(uint8(v))) }  //nolint:gosec // G115: bit pattern.
func BoxInt16(v int16) Object { return Box(uint64(uint16(v))) } //nolint:gosec // G115: bit pattern.
func BoxInt32(v int32) Object { return Box(uint64(uint32(v))) } //nolint:gosec // G115: bit pattern.

func UnboxInt8(o Object) int8 {
	return int8(uint8(Unbox(o))) //nolint:gosec // G115: bit pattern.
}

func UnboxInt16(o Object) int16 {
	return int16(uint16(Unbox(o))) //nolint:gosec // G115: bit pattern.
}

func UnboxInt32(o Object) int32 {
	return int32(uint32(Unbox(o))) //nolint:gosec // G115: bit pattern.
}

// BoxInt64 boxes an Int64 like a UInt64.
func (r *Runtime) BoxInt64(v int64) Object {
	return r.BoxUint64(uint64(v)) //nolint:gosec // G115: bit pattern.
}

func (r *Runtime) UnboxInt64(o Object) int64 {
	return int64(r.UnboxUint64(o)) //nolint:gosec // G115: bit pattern.
}
