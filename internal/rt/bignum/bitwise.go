package bignum

// And returns the bitwise AND of n and m.
func (n Nat) And(m Nat) Nat {
	al := trimLimbs(n.Limbs)
	bl := trimLimbs(m.Limbs)
	size := min(len(al), len(bl))
	if size == 0 {
		return Nat{}
	}
	out := make([]uint32, size)
	for i := range size {
		out[i] = al[i] & bl[i]
	}
	return Nat{Limbs: trimLimbs(out)}
}

// Or returns the bitwise OR of n and m.
func (n Nat) Or(m Nat) Nat {
	return zipLimbs(n, m, func(a, b uint32) uint32 { return a | b })
}

// Xor returns the bitwise XOR of n and m.
func (n Nat) Xor(m Nat) Nat {
	return zipLimbs(n, m, func(a, b uint32) uint32 { return a ^ b })
}

func zipLimbs(n, m Nat, op func(a, b uint32) uint32) Nat {
	al := trimLimbs(n.Limbs)
	bl := trimLimbs(m.Limbs)
	size := max(len(al), len(bl))
	if size == 0 {
		return Nat{}
	}
	out := make([]uint32, size)
	for i := range size {
		var av, bv uint32
		if i < len(al) {
			av = al[i]
		}
		if i < len(bl) {
			bv = bl[i]
		}
		out[i] = op(av, bv)
	}
	return Nat{Limbs: trimLimbs(out)}
}

// And returns the bitwise AND using two's complement semantics.
func (i Int) And(j Int) (Int, error) {
	return intBitOp(i, j, Nat.And)
}

// Or returns the bitwise OR using two's complement semantics.
func (i Int) Or(j Int) (Int, error) {
	return intBitOp(i, j, Nat.Or)
}

// Xor returns the bitwise XOR using two's complement semantics.
func (i Int) Xor(j Int) (Int, error) {
	return intBitOp(i, j, Nat.Xor)
}

// Shr returns i >> count rounding toward negative infinity.
func (i Int) Shr(count uint64) (Int, error) {
	if count == 0 || i.IsZero() {
		return i.normalized(), nil
	}
	if !i.Neg {
		return intFromParts(false, i.Abs.Shr(count)), nil
	}
	// floor(-m / 2^k) = -ceil(m / 2^k) = -((m + 2^k - 1) >> k)
	pow2, err := NatFromUint64(1).Shl(count)
	if err != nil {
		return Int{}, err
	}
	sum, err := i.Abs.Add(pow2.SatSub(NatFromUint64(1)))
	if err != nil {
		return Int{}, err
	}
	return intFromParts(true, sum.Shr(count)), nil
}

func intBitOp(a, b Int, op func(Nat, Nat) Nat) (Int, error) {
	if a.IsZero() && b.IsZero() {
		return Int{}, nil
	}
	width := uint64(max(a.Abs.BitLen(), b.Abs.BitLen()) + 1) //nolint:gosec // G115: bit lengths are non-negative.
	pow2, err := NatFromUint64(1).Shl(width)
	if err != nil {
		return Int{}, err
	}
	res := op(twosComplement(a, pow2), twosComplement(b, pow2))
	if !res.TestBit(width - 1) {
		return intFromParts(false, res), nil
	}
	return intFromParts(true, pow2.SatSub(res)), nil
}

func twosComplement(v Int, pow2 Nat) Nat {
	if !v.Neg || v.IsZero() {
		return v.Abs
	}
	return pow2.SatSub(v.Abs)
}
