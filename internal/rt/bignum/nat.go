package bignum

import (
	"errors"
	"math/bits"
)

// MaxLimbs is the maximum number of limbs a value may hold.
const MaxLimbs = 1_000_000

var (
	// ErrMaxLimbs indicates the numeric size limit was exceeded.
	ErrMaxLimbs = errors.New("numeric size limit exceeded")
	// ErrDivByZero indicates an attempt to divide by zero.
	ErrDivByZero = errors.New("division by zero")
	ErrUnderflow = errors.New("natural number underflow")
)

// Nat is an arbitrary-precision natural number.
type Nat struct {
	// Limbs are base-2^32 little-endian (Limbs[0] is least significant).
	//
	// Canonical zero is represented as nil/empty slice.
	Limbs []uint32
}

// NatFromUint64 creates a Nat from a uint64.
func NatFromUint64(v uint64) Nat {
	if v == 0 {
		return Nat{}
	}
	lo := uint32(v)       //nolint:gosec // G115: truncation is intentional (low limb).
	hi := uint32(v >> 32) //nolint:gosec // G115: truncation is intentional (high limb).
	if hi == 0 {
		return Nat{Limbs: []uint32{lo}}
	}
	return Nat{Limbs: []uint32{lo, hi}}
}

// IsZero reports whether n is zero.
func (n Nat) IsZero() bool {
	return len(trimLimbs(n.Limbs)) == 0
}

func (n Nat) IsOdd() bool {
	limbs := trimLimbs(n.Limbs)
	return len(limbs) > 0 && (limbs[0]&1) == 1
}

// BitLen returns the number of significant bits.
func (n Nat) BitLen() int {
	return bitLenLimbs(n.Limbs)
}

func (n Nat) TrailingZeros() int {
	limbs := trimLimbs(n.Limbs)
	count := 0
	for _, limb := range limbs {
		if limb == 0 {
			count += 32
			continue
		}
		return count + bits.TrailingZeros32(limb)
	}
	return 0
}

// Cmp returns -1, 0 or 1.
func (n Nat) Cmp(m Nat) int {
	return cmpLimbs(n.Limbs, m.Limbs)
}

// Uint64 converts n to uint64 if it fits.
func (n Nat) Uint64() (uint64, bool) {
	limbs := trimLimbs(n.Limbs)
	switch len(limbs) {
	case 0:
		return 0, true
	case 1:
		return uint64(limbs[0]), true
	case 2:
		return uint64(limbs[0]) | (uint64(limbs[1]) << 32), true
	default:
		return 0, false
	}
}

// LowUint64 returns n mod 2^64.
func (n Nat) LowUint64() uint64 {
	limbs := trimLimbs(n.Limbs)
	var out uint64
	if len(limbs) > 0 {
		out = uint64(limbs[0])
	}
	if len(limbs) > 1 {
		out |= uint64(limbs[1]) << 32
	}
	return out
}

// Float64 returns the nearest float64, +Inf when out of range.
func (n Nat) Float64() float64 {
	limbs := trimLimbs(n.Limbs)
	var f float64
	for i := len(limbs) - 1; i >= 0; i-- {
		f = f*4294967296.0 + float64(limbs[i])
	}
	return f
}

// Add returns n+m.
func (n Nat) Add(m Nat) (Nat, error) {
	al := trimLimbs(n.Limbs)
	bl := trimLimbs(m.Limbs)
	size := max(len(al), len(bl))
	if size == 0 {
		return Nat{}, nil
	}

	out := make([]uint32, size+1)
	var carry uint64
	for i := range size {
		var av, bv uint64
		if i < len(al) {
			av = uint64(al[i])
		}
		if i < len(bl) {
			bv = uint64(bl[i])
		}
		sum := av + bv + carry
		out[i] = uint32(sum) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
		carry = sum >> 32
	}
	out[size] = uint32(carry) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
	return checked(out)
}

// AddSmall returns n+v.
func (n Nat) AddSmall(v uint32) (Nat, error) {
	limbs := trimLimbs(n.Limbs)
	if v == 0 {
		return Nat{Limbs: limbs}, nil
	}
	out := make([]uint32, len(limbs)+1)
	copy(out, limbs)
	carry := uint64(v)
	for i := 0; carry != 0 && i < len(out); i++ {
		sum := uint64(out[i]) + carry
		out[i] = uint32(sum) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
		carry = sum >> 32
	}
	return checked(out)
}

// Sub returns n-m, or ErrUnderflow when m > n.
func (n Nat) Sub(m Nat) (Nat, error) {
	if cmpLimbs(n.Limbs, m.Limbs) < 0 {
		return Nat{}, ErrUnderflow
	}
	al := trimLimbs(n.Limbs)
	bl := trimLimbs(m.Limbs)
	if len(bl) == 0 {
		return Nat{Limbs: al}, nil
	}
	out := make([]uint32, len(al))
	copy(out, al)
	subInPlace(out, bl)
	return Nat{Limbs: trimLimbs(out)}, nil
}

// SatSub returns n-m clamped at zero.
func (n Nat) SatSub(m Nat) Nat {
	out, err := n.Sub(m)
	if err != nil {
		return Nat{}
	}
	return out
}

// Mul returns n*m using schoolbook multiplication.
func (n Nat) Mul(m Nat) (Nat, error) {
	al := trimLimbs(n.Limbs)
	bl := trimLimbs(m.Limbs)
	if len(al) == 0 || len(bl) == 0 {
		return Nat{}, nil
	}
	if len(al)+len(bl) > MaxLimbs {
		return Nat{}, ErrMaxLimbs
	}

	out := make([]uint32, len(al)+len(bl))
	for i := range al {
		ai := uint64(al[i])
		var carry uint64
		for j := range bl {
			k := i + j
			sum := uint64(out[k]) + ai*uint64(bl[j]) + carry
			out[k] = uint32(sum) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
			carry = sum >> 32
		}
		for k := i + len(bl); carry != 0; k++ {
			sum := uint64(out[k]) + carry
			out[k] = uint32(sum) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
			carry = sum >> 32
		}
	}
	return Nat{Limbs: trimLimbs(out)}, nil
}

// MulSmall returns n*f.
func (n Nat) MulSmall(f uint32) (Nat, error) {
	limbs := trimLimbs(n.Limbs)
	if f == 0 || len(limbs) == 0 {
		return Nat{}, nil
	}
	out := make([]uint32, len(limbs)+1)
	var carry uint64
	for i := range limbs {
		prod := uint64(limbs[i])*uint64(f) + carry
		out[i] = uint32(prod) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
		carry = prod >> 32
	}
	out[len(limbs)] = uint32(carry) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
	return checked(out)
}

// DivModSmall divides n by d.
func (n Nat) DivModSmall(d uint32) (q Nat, r uint32, err error) {
	if d == 0 {
		return Nat{}, 0, ErrDivByZero
	}
	limbs := trimLimbs(n.Limbs)
	if len(limbs) == 0 {
		return Nat{}, 0, nil
	}
	out := make([]uint32, len(limbs))
	var rem uint64
	for i := len(limbs) - 1; i >= 0; i-- {
		cur := (rem << 32) | uint64(limbs[i])
		out[i] = uint32(cur / uint64(d)) //nolint:gosec // G115: quotient fits in uint32.
		rem = cur % uint64(d)
	}
	return Nat{Limbs: trimLimbs(out)}, uint32(rem), nil //nolint:gosec // G115: remainder fits in uint32.
}

// DivMod returns the floor quotient and remainder of n / m.
func (n Nat) DivMod(m Nat) (q, r Nat, err error) {
	al := trimLimbs(n.Limbs)
	bl := trimLimbs(m.Limbs)
	if len(bl) == 0 {
		return Nat{}, Nat{}, ErrDivByZero
	}
	if cmpLimbs(al, bl) < 0 {
		return Nat{}, Nat{Limbs: al}, nil
	}
	if len(bl) == 1 {
		quot, rem, err := Nat{Limbs: al}.DivModSmall(bl[0])
		if err != nil {
			return Nat{}, Nat{}, err
		}
		return quot, NatFromUint64(uint64(rem)), nil
	}

	shift := bitLenLimbs(al) - bitLenLimbs(bl)
	denomShifted, err := Nat{Limbs: bl}.Shl(uint64(shift)) //nolint:gosec // G115: shift is non-negative here.
	if err != nil {
		return Nat{}, Nat{}, err
	}
	denom := make([]uint32, len(al))
	copy(denom, denomShifted.Limbs)
	rem := make([]uint32, len(al))
	copy(rem, al)

	quot := make([]uint32, shift/32+1)
	for i := shift; i >= 0; i-- {
		if cmpLimbs(rem, denom) >= 0 {
			subInPlace(rem, denom)
			quot[i/32] |= uint32(1) << (i % 32)
		}
		shr1InPlace(denom)
	}
	return Nat{Limbs: trimLimbs(quot)}, Nat{Limbs: trimLimbs(rem)}, nil
}

// Shl returns n << count.
func (n Nat) Shl(count uint64) (Nat, error) {
	limbs := trimLimbs(n.Limbs)
	if len(limbs) == 0 || count == 0 {
		return Nat{Limbs: limbs}, nil
	}
	if count/32 > MaxLimbs {
		return Nat{}, ErrMaxLimbs
	}
	wordShift := int(count / 32) //nolint:gosec // G115: bounded by MaxLimbs above.
	bitShift := uint(count % 32)

	out := make([]uint32, len(limbs)+wordShift+1)
	if bitShift == 0 {
		copy(out[wordShift:], limbs)
		return checked(out)
	}
	var carry uint32
	for i, v := range limbs {
		out[i+wordShift] = (v << bitShift) | carry
		carry = v >> (32 - bitShift)
	}
	out[len(limbs)+wordShift] = carry
	return checked(out)
}

// Shr returns n >> count.
func (n Nat) Shr(count uint64) Nat {
	limbs := trimLimbs(n.Limbs)
	if len(limbs) == 0 || count == 0 {
		return Nat{Limbs: limbs}
	}
	if count/32 >= uint64(len(limbs)) {
		return Nat{}
	}
	wordShift := int(count / 32) //nolint:gosec // G115: below len(limbs).
	bitShift := uint(count % 32)
	out := make([]uint32, len(limbs)-wordShift)
	if bitShift == 0 {
		copy(out, limbs[wordShift:])
		return Nat{Limbs: trimLimbs(out)}
	}
	for i := range out {
		v := limbs[i+wordShift] >> bitShift
		if i+wordShift+1 < len(limbs) {
			v |= limbs[i+wordShift+1] << (32 - bitShift)
		}
		out[i] = v
	}
	return Nat{Limbs: trimLimbs(out)}
}

// Pow returns n^exp by binary exponentiation.
func (n Nat) Pow(exp uint64) (Nat, error) {
	result := NatFromUint64(1)
	base := Nat{Limbs: trimLimbs(n.Limbs)}
	for exp > 0 {
		if exp&1 == 1 {
			var err error
			if result, err = result.Mul(base); err != nil {
				return Nat{}, err
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		var err error
		if base, err = base.Mul(base); err != nil {
			return Nat{}, err
		}
	}
	return result, nil
}

// Gcd returns the greatest common divisor (Euclid).
func (n Nat) Gcd(m Nat) (Nat, error) {
	a := Nat{Limbs: trimLimbs(n.Limbs)}
	b := Nat{Limbs: trimLimbs(m.Limbs)}
	for !b.IsZero() {
		_, r, err := a.DivMod(b)
		if err != nil {
			return Nat{}, err
		}
		a, b = b, r
	}
	return a, nil
}

// Log2 returns floor(log2 n), 0 for n == 0.
func (n Nat) Log2() uint64 {
	bl := n.BitLen()
	if bl == 0 {
		return 0
	}
	return uint64(bl - 1) //nolint:gosec // G115: bl >= 1.
}

// TestBit reports whether bit i is set.
func (n Nat) TestBit(i uint64) bool {
	limbs := trimLimbs(n.Limbs)
	word := i / 32
	if word >= uint64(len(limbs)) {
		return false
	}
	return limbs[word]&(uint32(1)<<(i%32)) != 0
}

func checked(out []uint32) (Nat, error) {
	out = trimLimbs(out)
	if len(out) > MaxLimbs {
		return Nat{}, ErrMaxLimbs
	}
	return Nat{Limbs: out}, nil
}

func trimLimbs(limbs []uint32) []uint32 {
	for len(limbs) > 0 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	if len(limbs) == 0 {
		return nil
	}
	return limbs
}

func bitLenLimbs(limbs []uint32) int {
	limbs = trimLimbs(limbs)
	if len(limbs) == 0 {
		return 0
	}
	top := limbs[len(limbs)-1]
	return (len(limbs)-1)*32 + (32 - bits.LeadingZeros32(top))
}

func cmpLimbs(a, b []uint32) int {
	a = trimLimbs(a)
	b = trimLimbs(b)
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// subInPlace computes dst -= sub; dst must be >= sub.
func subInPlace(dst, sub []uint32) {
	var borrow uint32
	for i := range dst {
		var sv uint32
		if i < len(sub) {
			sv = sub[i]
		}
		var b1, b2 uint32
		dst[i], b1 = bits.Sub32(dst[i], sv, 0)
		dst[i], b2 = bits.Sub32(dst[i], borrow, 0)
		borrow = b1 | b2
	}
}

func shr1InPlace(limbs []uint32) {
	var carry uint32
	for i := len(limbs) - 1; i >= 0; i-- {
		v := limbs[i]
		limbs[i] = (v >> 1) | (carry << 31)
		carry = v & 1
	}
}
