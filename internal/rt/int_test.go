package rt

import (
	"math"
	"testing"
)

func intOf(r *Runtime, v int64) Object {
	return r.IntOfInt64(v)
}

func TestIntSmallWindow(t *testing.T) {
	r, _ := newTestRuntime(t)
	if o := intOf(r, math.MaxInt32); !o.IsScalar() {
		t.Fatalf("expected MaxInt32 to stay inline")
	}
	if o := intOf(r, math.MinInt32); !o.IsScalar() || r.IntToInt64(o) != math.MinInt32 {
		t.Fatalf("expected MinInt32 to stay inline")
	}
	pos := intOf(r, math.MaxInt32+1)
	if pos.IsScalar() || r.Tag(pos) != TagMPZ {
		t.Fatalf("expected TagMPZ for MaxInt32+1")
	}
	neg := intOf(r, math.MinInt32-1)
	if neg.IsScalar() || r.Tag(neg) != TagBigInt {
		t.Fatalf("expected TagBigInt for MinInt32-1")
	}
	if got := r.intText(neg); got != "-2147483649" {
		t.Fatalf("expected -2147483649, got %s", got)
	}
	sum := r.IntAdd(pos, neg)
	if sum != intOf(r, 0) {
		t.Fatalf("expected inline 0, got %s", r.intText(sum))
	}
	r.Dec(pos)
	r.Dec(neg)
	expectNoLeaks(t, r)
}

func TestIntNegOfMin(t *testing.T) {
	r, _ := newTestRuntime(t)
	n := r.IntNeg(intOf(r, math.MinInt32))
	if n.IsScalar() {
		t.Fatalf("expected -MinInt32 to be big")
	}
	if got := r.IntToInt64(n); got != 2147483648 {
		t.Fatalf("expected 2147483648, got %d", got)
	}
	back := r.IntNeg(n)
	if !back.IsScalar() || r.IntToInt64(back) != math.MinInt32 {
		t.Fatalf("expected demotion back to MinInt32")
	}
	r.Dec(n)
	expectNoLeaks(t, r)
}

func TestIntDivisionConventions(t *testing.T) {
	r, _ := newTestRuntime(t)
	cases := []struct {
		a, b                 int64
		div, mod, ediv, emod int64
	}{
		{7, 2, 3, 1, 3, 1},
		{-7, 2, -3, -1, -4, 1},
		{7, -2, -3, 1, -3, 1},
		{-7, -2, 3, -1, 4, 1},
		{-17, 5, -3, -2, -4, 3},
		{17, -5, -3, 2, -3, 2},
		{6, 3, 2, 0, 2, 0},
		{7, 0, 0, 7, 0, 7},
		{-7, 0, 0, -7, 0, -7},
	}
	for _, tc := range cases {
		a, b := intOf(r, tc.a), intOf(r, tc.b)
		got := [4]int64{
			r.IntToInt64(r.IntDiv(a, b)),
			r.IntToInt64(r.IntMod(a, b)),
			r.IntToInt64(r.IntEDiv(a, b)),
			r.IntToInt64(r.IntEMod(a, b)),
		}
		want := [4]int64{tc.div, tc.mod, tc.ediv, tc.emod}
		if got != want {
			t.Fatalf("%d, %d: expected div/mod/ediv/emod %v, got %v", tc.a, tc.b, want, got)
		}
	}
}

func TestIntBigDivision(t *testing.T) {
	r, _ := newTestRuntime(t)
	a := r.IntOfString("-100000000000000000000")
	b := intOf(r, 3)
	q := r.IntDiv(a, b)
	if got := r.intText(q); got != "-33333333333333333333" {
		t.Fatalf("expected -33333333333333333333, got %s", got)
	}
	m := r.IntMod(a, b)
	if got := r.intText(m); got != "-1" {
		t.Fatalf("expected -1, got %s", got)
	}
	eq := r.IntEDiv(a, b)
	if got := r.intText(eq); got != "-33333333333333333334" {
		t.Fatalf("expected -33333333333333333334, got %s", got)
	}
	em := r.IntEMod(a, b)
	if got := r.intText(em); got != "2" {
		t.Fatalf("expected 2, got %s", got)
	}
	z := r.IntMod(a, intOf(r, 0))
	if z != a || r.RC(a) != 2 {
		t.Fatalf("expected mod by zero to return the dividend inc'd")
	}
	for _, o := range []Object{a, q, eq, z} {
		r.Dec(o)
	}
	expectNoLeaks(t, r)
}

func TestIntNatConversions(t *testing.T) {
	r, _ := newTestRuntime(t)
	if got := r.IntToInt64(r.IntNegSuccOfNat(Box(4))); got != -5 {
		t.Fatalf("expected -5, got %d", got)
	}
	if got := r.IntToNat(intOf(r, -3)); got != Box(0) {
		t.Fatalf("expected toNat of negative to be 0")
	}
	if got := r.IntNatAbs(intOf(r, -3)); got != Box(3) {
		t.Fatalf("expected natAbs 3, got %s", r.natText(got))
	}
	big := r.NatToInt(Box(math.MaxUint32))
	if big.IsScalar() || !r.IntDecNonneg(big) {
		t.Fatalf("expected big non-negative Int for MaxUint32")
	}
	if got := r.IntToNat(big); got != Box(math.MaxUint32) {
		t.Fatalf("expected Nat MaxUint32")
	}
	ns := r.IntNegSuccOfNat(Box(math.MaxUint32))
	if got := r.intText(ns); got != "-4294967296" {
		t.Fatalf("expected -4294967296, got %s", got)
	}
	if got := r.IntToInt64(ns); got != -4294967296 {
		t.Fatalf("expected int64 -4294967296, got %d", got)
	}
	r.Dec(big)
	r.Dec(ns)
	expectNoLeaks(t, r)
}

func TestIntComparisonsAndBits(t *testing.T) {
	r, _ := newTestRuntime(t)
	big := r.IntOfString("-9999999999")
	small := intOf(r, -1)
	if !r.IntDecLt(big, small) || r.IntDecLe(small, big) || r.IntDecNonneg(big) {
		t.Fatalf("unexpected ordering results")
	}
	if !r.IntDecEq(small, intOf(r, -1)) || r.IntEq(big, small) {
		t.Fatalf("unexpected equality results")
	}
	if got := r.IntToInt64(r.IntLand(small, intOf(r, 12))); got != 12 {
		t.Fatalf("expected -1 & 12 = 12, got %d", got)
	}
	if got := r.IntToInt64(r.IntLor(intOf(r, -8), intOf(r, 3))); got != -5 {
		t.Fatalf("expected -8 | 3 = -5, got %d", got)
	}
	if got := r.IntToInt64(r.IntShiftR(intOf(r, -5), Box(1))); got != -3 {
		t.Fatalf("expected -5 >> 1 = -3, got %d", got)
	}
	sh := r.IntShiftR(big, Box(4))
	if got := r.intText(sh); got != "-625000000" {
		t.Fatalf("expected -625000000, got %s", got)
	}
	huge := r.Uint64ToNat(math.MaxUint64)
	if got := r.IntShiftR(big, huge); r.IntToInt64(got) != -1 {
		t.Fatalf("expected -1 for a huge shift of a negative value")
	}
	if got := r.IntShiftR(intOf(r, 9), huge); got != intOf(r, 0) {
		t.Fatalf("expected 0 for a huge shift of a positive value")
	}
	r.Dec(big)
	r.Dec(huge)
	expectNoLeaks(t, r)
}

func TestIntStrings(t *testing.T) {
	r, _ := newTestRuntime(t)
	s := r.IntToString(intOf(r, -42))
	if got := r.StringValue(s); got != "-42" {
		t.Fatalf("expected -42, got %q", got)
	}
	r.Dec(s)
	expectPanic(t, PanicInvalidArgs, func() { r.IntOfString("--1") })
	if got := r.IntToFloat(intOf(r, -7)); got != -7 {
		t.Fatalf("expected -7.0, got %v", got)
	}
	expectNoLeaks(t, r)
}
