package rt

import (
	"math"
	"strconv"

	"leanrt/internal/rt/bignum"
)

// Int values in the int32 range are boxed scalars holding the two's
// complement bit pattern in the low 32 bits. Larger non-negative values are
// TagMPZ cells and larger negative values are TagBigInt cells, both storing
// the magnitude. Arguments are borrowed and results are owned.

const (
	MaxSmallInt = math.MaxInt32
	MinSmallInt = math.MinInt32
)

func boxInt(v int32) Object {
	return Box(uint64(uint32(v))) //nolint:gosec // G115: two's complement bit pattern.
}

func unboxInt(o Object) int64 {
	return int64(int32(uint32(Unbox(o)))) //nolint:gosec // G115: two's complement bit pattern.
}

// IntOfInt64 converts a machine integer to Int.
func (r *Runtime) IntOfInt64(v int64) Object {
	if v >= MinSmallInt && v <= MaxSmallInt {
		return boxInt(int32(v))
	}
	return r.allocBigInt(bignum.IntFromInt64(v))
}

func (r *Runtime) allocBigInt(i bignum.Int) Object {
	tag := TagMPZ
	if i.Neg {
		tag = TagBigInt
	}
	return r.alloc(&cell{
		hdr: Header{Tag: tag, CsSz: smallSize(BigNatSize)},
		nat: i.Abs,
	})
}

// IntBigOf builds an Int object, keeping it inline when it fits.
func (r *Runtime) IntBigOf(i bignum.Int) Object {
	if v, ok := i.Int64(); ok && v >= MinSmallInt && v <= MaxSmallInt {
		return boxInt(int32(v))
	}
	return r.allocBigInt(i)
}

func (r *Runtime) intValue(o Object) bignum.Int {
	if o.IsScalar() {
		return bignum.IntFromInt64(unboxInt(o))
	}
	c := r.bigCell(o)
	return bignum.Int{Neg: c.kind() == KindBigInt, Abs: c.nat}
}

// IntValue returns the arbitrary-precision value of an Int object (borrowed).
func (r *Runtime) IntValue(o Object) bignum.Int {
	return r.intValue(o)
}

func (r *Runtime) intResult(i bignum.Int, err error) Object {
	r.checkBig(err)
	return r.IntBigOf(i)
}

// IntToInt64 reduces an Int modulo 2^64 into the signed range.
func (r *Runtime) IntToInt64(o Object) int64 {
	if o.IsScalar() {
		return unboxInt(o)
	}
	v := r.intValue(o)
	low := v.Abs.LowUint64()
	if v.Neg {
		low = -low
	}
	return int64(low) //nolint:gosec // G115: modular conversion.
}

// NatToInt converts a Nat (borrowed) to Int.
func (r *Runtime) NatToInt(a Object) Object {
	if a.IsScalar() && Unbox(a) <= MaxSmallInt {
		return a
	}
	return r.IntBigOf(bignum.IntFromNat(r.natValue(a)))
}

// IntNegSuccOfNat is Int.negSucc: -(a+1).
func (r *Runtime) IntNegSuccOfNat(a Object) Object {
	if a.IsScalar() && Unbox(a) < MaxSmallInt {
		return boxInt(-int32(Unbox(a)) - 1) //nolint:gosec // G115: below MaxSmallInt.
	}
	succ, err := r.natValue(a).Add(bignum.NatFromUint64(1))
	r.checkBig(err)
	return r.IntBigOf(bignum.IntFromNat(succ).Negated())
}

// IntToNat clamps negative values to 0.
func (r *Runtime) IntToNat(a Object) Object {
	if a.IsScalar() {
		v := unboxInt(a)
		if v < 0 {
			return Box(0)
		}
		return Box(uint64(v))
	}
	v := r.intValue(a)
	if v.Neg {
		return Box(0)
	}
	return r.NatBigOf(v.Abs)
}

// IntNatAbs is Int.natAbs.
func (r *Runtime) IntNatAbs(a Object) Object {
	if a.IsScalar() {
		v := unboxInt(a)
		if v < 0 {
			v = -v
		}
		return Box(uint64(v))
	}
	return r.NatBigOf(r.intValue(a).Abs)
}

func (r *Runtime) IntNeg(a Object) Object {
	if a.IsScalar() {
		return r.IntOfInt64(-unboxInt(a))
	}
	return r.IntBigOf(r.intValue(a).Negated())
}

func (r *Runtime) IntAdd(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return r.IntOfInt64(unboxInt(a) + unboxInt(b))
	}
	return r.intResult(r.intValue(a).Add(r.intValue(b)))
}

func (r *Runtime) IntSub(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return r.IntOfInt64(unboxInt(a) - unboxInt(b))
	}
	return r.intResult(r.intValue(a).Sub(r.intValue(b)))
}

func (r *Runtime) IntMul(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return r.IntOfInt64(unboxInt(a) * unboxInt(b))
	}
	return r.intResult(r.intValue(a).Mul(r.intValue(b)))
}

// IntDiv divides rounding toward zero. Division by zero yields 0.
func (r *Runtime) IntDiv(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		y := unboxInt(b)
		if y == 0 {
			return boxInt(0)
		}
		return r.IntOfInt64(unboxInt(a) / y)
	}
	d := r.intValue(b)
	if d.IsZero() {
		return boxInt(0)
	}
	q, _, err := r.intValue(a).QuoRem(d)
	return r.intResult(q, err)
}

// IntMod is the remainder of IntDiv; it has the sign of a. Modulo zero
// yields a.
func (r *Runtime) IntMod(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		y := unboxInt(b)
		if y == 0 {
			return a
		}
		return r.IntOfInt64(unboxInt(a) % y)
	}
	d := r.intValue(b)
	if d.IsZero() {
		r.Inc(a)
		return a
	}
	_, m, err := r.intValue(a).QuoRem(d)
	return r.intResult(m, err)
}

// IntEDiv is Euclidean division: the matching IntEMod is never negative.
func (r *Runtime) IntEDiv(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		x, y := unboxInt(a), unboxInt(b)
		if y == 0 {
			return boxInt(0)
		}
		q, m := x/y, x%y
		if m < 0 {
			if y > 0 {
				q--
			} else {
				q++
			}
		}
		return r.IntOfInt64(q)
	}
	d := r.intValue(b)
	if d.IsZero() {
		return boxInt(0)
	}
	q, _, err := r.intValue(a).EuclidDivMod(d)
	return r.intResult(q, err)
}

func (r *Runtime) IntEMod(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		x, y := unboxInt(a), unboxInt(b)
		if y == 0 {
			return a
		}
		m := x % y
		if m < 0 {
			if y > 0 {
				m += y
			} else {
				m -= y
			}
		}
		return r.IntOfInt64(m)
	}
	d := r.intValue(b)
	if d.IsZero() {
		r.Inc(a)
		return a
	}
	_, m, err := r.intValue(a).EuclidDivMod(d)
	return r.intResult(m, err)
}

func (r *Runtime) IntEq(a, b Object) bool {
	if a.IsScalar() || b.IsScalar() {
		return a == b
	}
	return r.intValue(a).Cmp(r.intValue(b)) == 0
}

func (r *Runtime) IntDecEq(a, b Object) bool {
	return r.IntEq(a, b)
}

func (r *Runtime) IntDecLt(a, b Object) bool {
	if a.IsScalar() && b.IsScalar() {
		return unboxInt(a) < unboxInt(b)
	}
	return r.intValue(a).Cmp(r.intValue(b)) < 0
}

func (r *Runtime) IntDecLe(a, b Object) bool {
	if a.IsScalar() && b.IsScalar() {
		return unboxInt(a) <= unboxInt(b)
	}
	return r.intValue(a).Cmp(r.intValue(b)) <= 0
}

// IntDecNonneg reports a >= 0.
func (r *Runtime) IntDecNonneg(a Object) bool {
	if a.IsScalar() {
		return unboxInt(a) >= 0
	}
	return r.cell(a).kind() == KindMPZ
}

func (r *Runtime) IntLand(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return r.IntOfInt64(unboxInt(a) & unboxInt(b))
	}
	return r.intResult(r.intValue(a).And(r.intValue(b)))
}

func (r *Runtime) IntLor(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return r.IntOfInt64(unboxInt(a) | unboxInt(b))
	}
	return r.intResult(r.intValue(a).Or(r.intValue(b)))
}

func (r *Runtime) IntXor(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return r.IntOfInt64(unboxInt(a) ^ unboxInt(b))
	}
	return r.intResult(r.intValue(a).Xor(r.intValue(b)))
}

// IntShiftR shifts a right by the Nat b, rounding toward negative infinity.
func (r *Runtime) IntShiftR(a, b Object) Object {
	if !b.IsScalar() {
		if r.IntDecNonneg(a) {
			return boxInt(0)
		}
		return boxInt(-1)
	}
	s := Unbox(b)
	if a.IsScalar() {
		return r.IntOfInt64(unboxInt(a) >> min(s, 63))
	}
	return r.intResult(r.intValue(a).Shr(s))
}

func (r *Runtime) intText(o Object) string {
	if o.IsScalar() {
		return strconv.FormatInt(unboxInt(o), 10)
	}
	return r.intValue(o).String()
}

// IntToString is Int.repr.
func (r *Runtime) IntToString(a Object) Object {
	return r.MkString(r.intText(a))
}

// IntOfString parses an optionally signed decimal literal.
func (r *Runtime) IntOfString(s string) Object {
	i, err := bignum.ParseInt(s)
	if err != nil {
		r.panicf(PanicInvalidArgs, "invalid Int literal %q", s)
	}
	return r.IntBigOf(i)
}

// IntToFloat converts to the nearest Float.
func (r *Runtime) IntToFloat(a Object) float64 {
	if a.IsScalar() {
		return float64(unboxInt(a))
	}
	return r.intValue(a).Float64()
}
