package bignum

import "math"

// Int is an arbitrary-precision signed integer in sign-magnitude form.
//
// Canonical zero is Neg=false with a zero magnitude.
type Int struct {
	Neg bool
	Abs Nat
}

// IntFromInt64 creates an Int from an int64.
func IntFromInt64(v int64) Int {
	if v >= 0 {
		return Int{Abs: NatFromUint64(uint64(v))}
	}
	// -(v+1) cannot overflow for MinInt64.
	mag := uint64(-(v + 1)) + 1 //nolint:gosec // G115: -(v+1) is non-negative here.
	return Int{Neg: true, Abs: NatFromUint64(mag)}
}

// IntFromNat wraps a natural number.
func IntFromNat(n Nat) Int {
	return Int{Abs: Nat{Limbs: trimLimbs(n.Limbs)}}
}

func intFromParts(neg bool, mag Nat) Int {
	mag = Nat{Limbs: trimLimbs(mag.Limbs)}
	if mag.IsZero() {
		return Int{}
	}
	return Int{Neg: neg, Abs: mag}
}

func (i Int) normalized() Int {
	return intFromParts(i.Neg, i.Abs)
}

// IsZero reports whether i is zero.
func (i Int) IsZero() bool {
	return i.Abs.IsZero()
}

// Sign returns -1, 0 or 1.
func (i Int) Sign() int {
	switch {
	case i.IsZero():
		return 0
	case i.Neg:
		return -1
	default:
		return 1
	}
}

// Negated returns -i.
func (i Int) Negated() Int {
	return intFromParts(!i.Neg, i.Abs)
}

// Cmp compares two Int values.
func (i Int) Cmp(j Int) int {
	si, sj := i.Sign(), j.Sign()
	if si != sj {
		if si < sj {
			return -1
		}
		return 1
	}
	cmp := i.Abs.Cmp(j.Abs)
	if si < 0 {
		return -cmp
	}
	return cmp
}

// Int64 converts i to int64 if it fits.
func (i Int) Int64() (int64, bool) {
	mag, ok := i.Abs.Uint64()
	if !ok {
		return 0, false
	}
	if !i.Neg || mag == 0 {
		if mag > math.MaxInt64 {
			return 0, false
		}
		return int64(mag), true
	}
	switch {
	case mag > math.MaxInt64+1:
		return 0, false
	case mag == math.MaxInt64+1:
		return math.MinInt64, true
	default:
		return -int64(mag), true
	}
}

// Float64 returns the nearest float64.
func (i Int) Float64() float64 {
	f := i.Abs.Float64()
	if i.Neg {
		return -f
	}
	return f
}

// Add returns i+j.
func (i Int) Add(j Int) (Int, error) {
	if i.Neg == j.Neg {
		sum, err := i.Abs.Add(j.Abs)
		if err != nil {
			return Int{}, err
		}
		return intFromParts(i.Neg, sum), nil
	}
	switch i.Abs.Cmp(j.Abs) {
	case 0:
		return Int{}, nil
	case 1:
		diff, err := i.Abs.Sub(j.Abs)
		if err != nil {
			return Int{}, err
		}
		return intFromParts(i.Neg, diff), nil
	default:
		diff, err := j.Abs.Sub(i.Abs)
		if err != nil {
			return Int{}, err
		}
		return intFromParts(j.Neg, diff), nil
	}
}

// Sub returns i-j.
func (i Int) Sub(j Int) (Int, error) {
	return i.Add(j.Negated())
}

// Mul returns i*j.
func (i Int) Mul(j Int) (Int, error) {
	prod, err := i.Abs.Mul(j.Abs)
	if err != nil {
		return Int{}, err
	}
	return intFromParts(i.Neg != j.Neg, prod), nil
}

// QuoRem divides rounding toward zero; the remainder takes the dividend's sign.
func (i Int) QuoRem(j Int) (q, r Int, err error) {
	qMag, rMag, err := i.Abs.DivMod(j.Abs)
	if err != nil {
		return Int{}, Int{}, err
	}
	return intFromParts(i.Neg != j.Neg, qMag), intFromParts(i.Neg, rMag), nil
}

// EuclidDivMod divides so that the remainder is always non-negative.
func (i Int) EuclidDivMod(j Int) (q, r Int, err error) {
	q, r, err = i.QuoRem(j)
	if err != nil {
		return Int{}, Int{}, err
	}
	if !r.Neg || r.IsZero() {
		return q, r, nil
	}
	one := IntFromInt64(1)
	if j.Neg {
		if q, err = q.Add(one); err != nil {
			return Int{}, Int{}, err
		}
		r, err = r.Sub(j)
	} else {
		if q, err = q.Sub(one); err != nil {
			return Int{}, Int{}, err
		}
		r, err = r.Add(j)
	}
	if err != nil {
		return Int{}, Int{}, err
	}
	return q, r, nil
}
