package rt

import (
	"math/bits"
	"strconv"

	"leanrt/internal/rt/bignum"
)

// Nat values at most MaxSmallNat are boxed scalars; larger ones are TagMPZ
// cells holding the magnitude. Arguments of Nat operations are borrowed and
// results are owned.

func (r *Runtime) allocBigNat(n bignum.Nat) Object {
	c := &cell{
		hdr: Header{Tag: TagMPZ, CsSz: smallSize(BigNatSize)},
		nat: n,
	}
	return r.alloc(c)
}

func (r *Runtime) bigCell(o Object) *cell {
	c := r.cell(o)
	if k := c.kind(); k != KindMPZ && k != KindBigInt {
		r.panicf(PanicTypeMismatch, "expected big number, got %s", k)
	}
	return c
}

// natValue returns the value of a Nat object.
func (r *Runtime) natValue(o Object) bignum.Nat {
	if o.IsScalar() {
		return bignum.NatFromUint64(Unbox(o))
	}
	c := r.bigCell(o)
	if c.kind() != KindMPZ {
		r.panicf(PanicTypeMismatch, "expected nat, got %s", c.kind())
	}
	return c.nat
}

// NatBigOf builds a Nat object from an arbitrary-precision value, keeping it
// inline when it fits.
func (r *Runtime) NatBigOf(n bignum.Nat) Object {
	if v, ok := n.Uint64(); ok && v <= MaxSmallNat {
		return Box(v)
	}
	return r.allocBigNat(n)
}

// NatValue returns the arbitrary-precision value of a Nat object (borrowed).
func (r *Runtime) NatValue(o Object) bignum.Nat {
	return r.natValue(o)
}

// Uint64ToNat converts a machine word to Nat.
func (r *Runtime) Uint64ToNat(v uint64) Object {
	if v <= MaxSmallNat {
		return Box(v)
	}
	return r.allocBigNat(bignum.NatFromUint64(v))
}

// USizeToNat converts a USize to Nat.
func (r *Runtime) USizeToNat(v uint64) Object {
	return r.Uint64ToNat(v)
}

func (r *Runtime) natResult(n bignum.Nat, err error) Object {
	r.checkBig(err)
	return r.NatBigOf(n)
}

// IsBigNat reports whether o is a heap Nat.
func (r *Runtime) IsBigNat(o Object) bool {
	return !o.IsScalar() && r.cell(o).kind() == KindMPZ
}

func (r *Runtime) NatAdd(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		if s := Unbox(a) + Unbox(b); s <= MaxSmallNat {
			return Box(s)
		}
	}
	return r.natResult(r.natValue(a).Add(r.natValue(b)))
}

// NatSub is truncated subtraction: a - b is 0 when b > a.
func (r *Runtime) NatSub(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		x, y := Unbox(a), Unbox(b)
		if y > x {
			return Box(0)
		}
		return Box(x - y)
	}
	return r.NatBigOf(r.natValue(a).SatSub(r.natValue(b)))
}

func (r *Runtime) NatMul(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		hi, lo := bits.Mul64(Unbox(a), Unbox(b))
		if hi == 0 && lo <= MaxSmallNat {
			return Box(lo)
		}
	}
	return r.natResult(r.natValue(a).Mul(r.natValue(b)))
}

// NatDiv divides rounding down. Division by zero yields 0.
func (r *Runtime) NatDiv(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		y := Unbox(b)
		if y == 0 {
			return Box(0)
		}
		return Box(Unbox(a) / y)
	}
	d := r.natValue(b)
	if d.IsZero() {
		return Box(0)
	}
	q, _, err := r.natValue(a).DivMod(d)
	return r.natResult(q, err)
}

// NatMod returns the remainder. Modulo zero yields the dividend.
func (r *Runtime) NatMod(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		y := Unbox(b)
		if y == 0 {
			return a
		}
		return Box(Unbox(a) % y)
	}
	d := r.natValue(b)
	if d.IsZero() {
		r.Inc(a)
		return a
	}
	_, m, err := r.natValue(a).DivMod(d)
	return r.natResult(m, err)
}

// NatPow raises a to the power e. An exponent beyond the machine word is an
// allocation failure unless the base is 0 or 1.
func (r *Runtime) NatPow(a, e Object) Object {
	base := r.natValue(a)
	if !e.IsScalar() {
		if v, ok := base.Uint64(); ok && v <= 1 {
			return Box(v)
		}
		r.InternalPanicOutOfMemory()
	}
	return r.natResult(base.Pow(Unbox(e)))
}

func (r *Runtime) NatGcd(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		x, y := Unbox(a), Unbox(b)
		for y != 0 {
			x, y = y, x%y
		}
		return Box(x)
	}
	return r.natResult(r.natValue(a).Gcd(r.natValue(b)))
}

// NatLog2 is floor(log2 a), with log2 0 = 0.
func (r *Runtime) NatLog2(a Object) Object {
	if a.IsScalar() {
		v := Unbox(a)
		if v == 0 {
			return Box(0)
		}
		return Box(uint64(bits.Len64(v) - 1)) //nolint:gosec // G115: v > 0.
	}
	return Box(r.natValue(a).Log2())
}

func (r *Runtime) NatShiftL(a, b Object) Object {
	if a == Box(0) {
		return a
	}
	if !b.IsScalar() {
		r.InternalPanicOutOfMemory()
	}
	s := Unbox(b)
	if a.IsScalar() && s < 64 {
		v := Unbox(a)
		if bits.Len64(v)+int(s) <= 63 { //nolint:gosec // G115: s < 64.
			return Box(v << s)
		}
	}
	return r.natResult(r.natValue(a).Shl(s))
}

func (r *Runtime) NatShiftR(a, b Object) Object {
	if !b.IsScalar() {
		return Box(0)
	}
	s := Unbox(b)
	if a.IsScalar() {
		if s >= 64 {
			return Box(0)
		}
		return Box(Unbox(a) >> s)
	}
	return r.NatBigOf(r.natValue(a).Shr(s))
}

func (r *Runtime) NatLand(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return Box(Unbox(a) & Unbox(b))
	}
	return r.NatBigOf(r.natValue(a).And(r.natValue(b)))
}

func (r *Runtime) NatLor(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return Box(Unbox(a) | Unbox(b))
	}
	return r.NatBigOf(r.natValue(a).Or(r.natValue(b)))
}

func (r *Runtime) NatLxor(a, b Object) Object {
	if a.IsScalar() && b.IsScalar() {
		return Box(Unbox(a) ^ Unbox(b))
	}
	return r.NatBigOf(r.natValue(a).Xor(r.natValue(b)))
}

func (r *Runtime) NatSucc(a Object) Object {
	return r.NatAdd(a, Box(1))
}

// NatPred is a - 1, with pred 0 = 0.
func (r *Runtime) NatPred(a Object) Object {
	return r.NatSub(a, Box(1))
}

func (r *Runtime) NatEq(a, b Object) bool {
	if a.IsScalar() || b.IsScalar() {
		return a == b
	}
	return r.natValue(a).Cmp(r.natValue(b)) == 0
}

func (r *Runtime) NatDecEq(a, b Object) bool {
	return r.NatEq(a, b)
}

func (r *Runtime) NatDecLt(a, b Object) bool {
	if a.IsScalar() && b.IsScalar() {
		return Unbox(a) < Unbox(b)
	}
	return r.natValue(a).Cmp(r.natValue(b)) < 0
}

func (r *Runtime) NatDecLe(a, b Object) bool {
	if a.IsScalar() && b.IsScalar() {
		return Unbox(a) <= Unbox(b)
	}
	return r.natValue(a).Cmp(r.natValue(b)) <= 0
}

// natText renders a Nat in decimal. Non-Nat words render as "?".
func (r *Runtime) natText(o Object) string {
	if o.IsScalar() {
		return strconv.FormatUint(Unbox(o), 10)
	}
	if o == Null || o&7 != 0 {
		return "?"
	}
	return r.natValue(o).String()
}

// NatToString is Nat.repr: a fresh decimal string object.
func (r *Runtime) NatToString(a Object) Object {
	return r.MkString(r.natText(a))
}

// NatOfString parses a decimal literal. Malformed input is an internal error.
func (r *Runtime) NatOfString(s string) Object {
	n, err := bignum.ParseNat(s)
	if err != nil {
		r.panicf(PanicInvalidArgs, "invalid Nat literal %q", s)
	}
	return r.NatBigOf(n)
}

// NatToUint64 reduces a modulo 2^64.
func (r *Runtime) NatToUint64(a Object) uint64 {
	if a.IsScalar() {
		return Unbox(a)
	}
	return r.natValue(a).LowUint64()
}

func (r *Runtime) NatToUSize(a Object) uint64 {
	return r.NatToUint64(a)
}

func (r *Runtime) NatToUint32(a Object) uint32 {
	return uint32(r.NatToUint64(a)) //nolint:gosec // G115: modular conversion.
}

func (r *Runtime) NatToUint16(a Object) uint16 {
	return uint16(r.NatToUint64(a)) //nolint:gosec // G115: modular conversion.
}

func (r *Runtime) NatToUint8(a Object) uint8 {
	return uint8(r.NatToUint64(a)) //nolint:gosec // G115: modular conversion.
}

// NatToFloat converts to the nearest Float; huge values become +Inf.
func (r *Runtime) NatToFloat(a Object) float64 {
	if a.IsScalar() {
		return float64(Unbox(a))
	}
	return r.natValue(a).Float64()
}

// NatTestBit reports whether bit i of a is set.
func (r *Runtime) NatTestBit(a, i Object) bool {
	if !i.IsScalar() {
		return false
	}
	return r.natValue(a).TestBit(Unbox(i))
}
