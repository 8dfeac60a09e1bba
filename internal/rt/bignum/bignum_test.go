package bignum

import (
	"errors"
	"testing"
)

func mustNat(t *testing.T, s string) Nat {
	t.Helper()
	n, err := ParseNat(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return n
}

func mustInt(t *testing.T, s string) Int {
	t.Helper()
	i, err := ParseInt(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return i
}

func TestNatStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "4294967296", "1000000000", "123456789012345678901234567890"} {
		if got := mustNat(t, s).String(); got != s {
			t.Fatalf("expected %s, got %s", s, got)
		}
	}
	if got := mustNat(t, "1_000").String(); got != "1000" {
		t.Fatalf("expected underscores to be ignored, got %s", got)
	}
	for _, s := range []string{"", "_", "-1", "12x"} {
		if _, err := ParseNat(s); !errors.Is(err, ErrParse) {
			t.Fatalf("expected ErrParse for %q, got %v", s, err)
		}
	}
}

func TestNatArithmetic(t *testing.T) {
	a := mustNat(t, "340282366920938463463374607431768211455") // 2^128-1
	one := NatFromUint64(1)
	sum, err := a.Add(one)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.BitLen() != 129 || sum.TrailingZeros() != 128 {
		t.Fatalf("expected 2^128, got %s", sum)
	}
	if _, err := one.Sub(sum); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
	if !one.SatSub(sum).IsZero() {
		t.Fatalf("expected saturating subtraction to give 0")
	}
	sq, err := a.Mul(a)
	if err != nil {
		t.Fatalf("mul: %v", err)
	}
	q, r, err := sq.DivMod(a)
	if err != nil {
		t.Fatalf("divmod: %v", err)
	}
	if q.Cmp(a) != 0 || !r.IsZero() {
		t.Fatalf("expected exact division, got q=%s r=%s", q, r)
	}
	if _, _, err := a.DivMod(Nat{}); !errors.Is(err, ErrDivByZero) {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}
	p, err := NatFromUint64(3).Pow(40)
	if err != nil || p.String() != "12157665459056928801" {
		t.Fatalf("expected 3^40, got %s (%v)", p, err)
	}
	g, err := mustNat(t, "1071").Gcd(mustNat(t, "462"))
	if err != nil || g.String() != "21" {
		t.Fatalf("expected gcd 21, got %s (%v)", g, err)
	}
}

func TestNatShiftsAndBits(t *testing.T) {
	one := NatFromUint64(1)
	big, err := one.Shl(100)
	if err != nil {
		t.Fatalf("shl: %v", err)
	}
	if big.Log2() != 100 || !big.TestBit(100) || big.TestBit(99) {
		t.Fatalf("unexpected bits for 2^100")
	}
	if got := big.Shr(98).String(); got != "4" {
		t.Fatalf("expected 4, got %s", got)
	}
	if !big.Shr(101).IsZero() {
		t.Fatalf("expected 0 after shifting out every bit")
	}
	x := NatFromUint64(0b1100)
	y := NatFromUint64(0b1010)
	if x.And(y).String() != "8" || x.Or(y).String() != "14" || x.Xor(y).String() != "6" {
		t.Fatalf("unexpected bitwise results")
	}
	if v, ok := NatFromUint64(1 << 40).Uint64(); !ok || v != 1<<40 {
		t.Fatalf("expected uint64 conversion")
	}
	if _, ok := big.Uint64(); ok {
		t.Fatalf("expected 2^100 not to fit a uint64")
	}
	if big.LowUint64() != 0 {
		t.Fatalf("expected low word 0 for 2^100")
	}
}

func TestNatSizeLimit(t *testing.T) {
	if _, err := NatFromUint64(1).Shl(uint64(MaxLimbs) * 32); !errors.Is(err, ErrMaxLimbs) {
		t.Fatalf("expected ErrMaxLimbs, got %v", err)
	}
}

func TestIntDivisionSigns(t *testing.T) {
	cases := []struct {
		a, b       string
		quo, rem   string
		equo, erem string
	}{
		{"7", "2", "3", "1", "3", "1"},
		{"-7", "2", "-3", "-1", "-4", "1"},
		{"7", "-2", "-3", "1", "-3", "1"},
		{"-7", "-2", "3", "-1", "4", "1"},
	}
	for _, tc := range cases {
		a, b := mustInt(t, tc.a), mustInt(t, tc.b)
		q, r, err := a.QuoRem(b)
		if err != nil || q.String() != tc.quo || r.String() != tc.rem {
			t.Fatalf("%s quo %s: expected %s rem %s, got %s rem %s", tc.a, tc.b, tc.quo, tc.rem, q, r)
		}
		eq, er, err := a.EuclidDivMod(b)
		if err != nil || eq.String() != tc.equo || er.String() != tc.erem {
			t.Fatalf("%s ediv %s: expected %s emod %s, got %s emod %s", tc.a, tc.b, tc.equo, tc.erem, eq, er)
		}
	}
}

func TestIntBitwiseTwosComplement(t *testing.T) {
	cases := []struct {
		op   func(Int, Int) (Int, error)
		a, b int64
		want int64
	}{
		{Int.And, -1, 12, 12},
		{Int.And, -8, 13, 8},
		{Int.Or, -8, 3, -5},
		{Int.Xor, -1, 5, -6},
	}
	for _, tc := range cases {
		got, err := tc.op(IntFromInt64(tc.a), IntFromInt64(tc.b))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v, ok := got.Int64(); !ok || v != tc.want {
			t.Fatalf("%d op %d: expected %d, got %s", tc.a, tc.b, tc.want, got)
		}
	}
	s, err := IntFromInt64(-5).Shr(1)
	if err != nil || s.String() != "-3" {
		t.Fatalf("expected -5 >> 1 = -3, got %s (%v)", s, err)
	}
}

func TestIntConversions(t *testing.T) {
	minI := IntFromInt64(-1 << 63)
	if got := minI.String(); got != "-9223372036854775808" {
		t.Fatalf("expected MinInt64, got %s", got)
	}
	if v, ok := minI.Int64(); !ok || v != -1<<63 {
		t.Fatalf("expected MinInt64 round trip")
	}
	over := mustInt(t, "9223372036854775808")
	if _, ok := over.Int64(); ok {
		t.Fatalf("expected 2^63 not to fit an int64")
	}
	if mustInt(t, "-0").Neg || mustInt(t, "+5").String() != "5" {
		t.Fatalf("unexpected sign normalization")
	}
	if got := mustInt(t, "-3").Float64(); got != -3 {
		t.Fatalf("expected -3.0, got %v", got)
	}
}
