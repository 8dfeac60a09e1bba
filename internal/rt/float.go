package rt

import (
	"math"
	"strconv"
	"unsafe"
)

// Floating is the set of IEEE float types: Float (binary64) and Float32.
type Floating interface {
	~float32 | ~float64
}

// floatText renders f with six decimals. Special values use the same
// spellings as C's printf under the "%.6f" conversion, except NaN.
func floatText[T Floating](f T) string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	bitSize := 64
	if unsafe.Sizeof(f) == 4 {
		bitSize = 32
	}
	return strconv.FormatFloat(v, 'f', 6, bitSize)
}

// FloatToString is Float.toString.
func (r *Runtime) FloatToString(f float64) Object {
	return r.MkString(floatText(f))
}

// Float32ToString is Float32.toString.
func (r *Runtime) Float32ToString(f float32) Object {
	return r.MkString(floatText(f))
}

// FloatFrexp splits f into a fraction in [0.5, 1) and a power of two,
// returned as the pair (Float, Int).
func (r *Runtime) FloatFrexp(f float64) Object {
	frac, exp := math.Frexp(f)
	return r.MkPair(r.BoxFloat(frac), r.IntOfInt64(int64(exp)))
}

// Float32Frexp is FloatFrexp for Float32; the pair is (Float32, Int).
func (r *Runtime) Float32Frexp(f float32) Object {
	frac, exp := math.Frexp(float64(f))
	return r.MkPair(r.BoxFloat32(float32(frac)), r.IntOfInt64(int64(exp)))
}

// scaleExponent clamps an Int exponent (borrowed) to a range where Ldexp
// already saturates to zero or infinity.
func (r *Runtime) scaleExponent(b Object) int {
	const limit = 1 << 16
	if !b.IsScalar() {
		if r.IntDecNonneg(b) {
			return limit
		}
		return -limit
	}
	return int(max(min(unboxInt(b), limit), -limit))
}

// FloatScaleB computes f * 2^b for an Int b (borrowed).
func (r *Runtime) FloatScaleB(f float64, b Object) float64 {
	return math.Ldexp(f, r.scaleExponent(b))
}

func (r *Runtime) Float32ScaleB(f float32, b Object) float32 {
	return float32(math.Ldexp(float64(f), r.scaleExponent(b)))
}

// FloatOfNat converts a Nat (borrowed) to the nearest Float.
func (r *Runtime) FloatOfNat(a Object) float64 {
	return r.NatToFloat(a)
}

// FloatOfInt converts an Int (borrowed) to the nearest Float.
func (r *Runtime) FloatOfInt(a Object) float64 {
	return r.IntToFloat(a)
}

// FloatOfScientific is Float.ofScientific: m * 10^-e when negExp is set,
// otherwise m * 10^e, correctly rounded. m and e are borrowed Nats.
func (r *Runtime) FloatOfScientific(m Object, negExp bool, e Object) float64 {
	exp := "e"
	if negExp {
		exp = "e-"
	}
	lit := r.natText(m) + exp + r.natText(e)
	// ParseFloat saturates to 0 or ±Inf on range errors, which is the value
	// wanted here.
	f, _ := strconv.ParseFloat(lit, 64)
	return f
}

// FloatToUint converts with saturation: NaN and negatives give 0, values past
// the range give the maximum.
func FloatToUint[T Unsigned, F Floating](f F) T {
	v := float64(f)
	if !(v >= 0) {
		return 0
	}
	limit := math.Ldexp(1, int(widthOf[T]()))
	if v >= limit {
		return ^T(0)
	}
	return T(v)
}

// FloatToSint converts with saturation toward the type bounds; NaN gives 0.
func FloatToSint[T Signed, F Floating](f F) T {
	v := float64(f)
	if math.IsNaN(v) {
		return 0
	}
	width := int(signedWidth[T]()) //nolint:gosec // G115: at most 64.
	hi := math.Ldexp(1, width-1)
	switch {
	case v < -hi:
		return T(-1) << (width - 1)
	case v >= hi:
		return ^(T(-1) << (width - 1))
	default:
		return T(v)
	}
}

// FloatToBits and FloatOfBits expose the IEEE encoding.
func FloatToBits(f float64) uint64   { return math.Float64bits(f) }
func FloatOfBits(b uint64) float64   { return math.Float64frombits(b) }
func Float32ToBits(f float32) uint32 { return math.Float32bits(f) }
func Float32OfBits(b uint32) float32 { return math.Float32frombits(b) }

func FloatDecEq[F Floating](a, b F) bool { return a == b }
func FloatDecLt[F Floating](a, b F) bool { return a < b }
func FloatDecLe[F Floating](a, b F) bool { return a <= b }

func FloatIsNaN[F Floating](a F) bool    { return a != a }
func FloatIsInf[F Floating](a F) bool    { return math.IsInf(float64(a), 0) }
func FloatIsFinite[F Floating](a F) bool { return !FloatIsNaN(a) && !FloatIsInf(a) }

// FloatRound rounds half away from zero like C's round.
func FloatRound(f float64) float64 {
	return math.Round(f)
}
