package rt

import (
	"math"
	"testing"
)

func natString(r *Runtime, o Object) string {
	return r.natText(o)
}

func TestNatAddPromotesAndDemotes(t *testing.T) {
	r, _ := newTestRuntime(t)
	big := r.NatAdd(Box(MaxSmallNat), Box(1))
	if big.IsScalar() || !r.IsBigNat(big) {
		t.Fatalf("expected big nat for MaxSmallNat+1")
	}
	if got := natString(r, big); got != "9223372036854775808" {
		t.Fatalf("expected 9223372036854775808, got %s", got)
	}
	back := r.NatSub(big, Box(1))
	if !back.IsScalar() || Unbox(back) != MaxSmallNat {
		t.Fatalf("expected demotion to MaxSmallNat, got %s", natString(r, back))
	}
	r.Dec(big)
	expectNoLeaks(t, r)
}

func TestNatArithmeticTable(t *testing.T) {
	r, _ := newTestRuntime(t)
	cases := []struct {
		name string
		op   func(a, b Object) Object
		a, b uint64
		want string
	}{
		{"add", r.NatAdd, 2, 3, "5"},
		{"sub saturates", r.NatSub, 3, 5, "0"},
		{"sub saturates wider", r.NatSub, 3, 10, "0"},
		{"mul", r.NatMul, 6, 7, "42"},
		{"mul stays scalar", r.NatMul, 1000000000, 1000, "1000000000000"},
		{"mul overflow", r.NatMul, 1 << 40, 1 << 40, "1208925819614629174706176"},
		{"div", r.NatDiv, 17, 5, "3"},
		{"div by zero", r.NatDiv, 17, 0, "0"},
		{"mod", r.NatMod, 17, 5, "2"},
		{"mod by zero", r.NatMod, 17, 0, "17"},
		{"pow", r.NatPow, 2, 100, "1267650600228229401496703205376"},
		{"gcd", r.NatGcd, 84, 36, "12"},
		{"shiftl", r.NatShiftL, 1, 70, "1180591620717411303424"},
		{"shiftr", r.NatShiftR, 1024, 3, "128"},
		{"shiftr wide", r.NatShiftR, 1024, 64, "0"},
		{"land", r.NatLand, 12, 10, "8"},
		{"lor", r.NatLor, 12, 10, "14"},
		{"lxor", r.NatLxor, 12, 10, "6"},
	}
	for _, tc := range cases {
		res := tc.op(Box(tc.a), Box(tc.b))
		if got := natString(r, res); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
		r.Dec(res)
	}
	expectNoLeaks(t, r)
}

func TestScalarResultsDoNotAllocate(t *testing.T) {
	r, _ := newTestRuntime(t)
	before := r.Stats().Allocs
	prod := r.NatMul(Box(1000000000), Box(1000))
	diff := r.NatSub(Box(3), Box(10))
	quot := r.IntDiv(intOf(r, -17), intOf(r, 5))
	rem := r.IntMod(intOf(r, 17), intOf(r, -5))
	if allocs := r.Stats().Allocs - before; allocs != 0 {
		t.Fatalf("expected no allocations, got %d", allocs)
	}
	if !prod.IsScalar() || Unbox(prod) != 1000000000000 {
		t.Fatalf("expected scalar 1000000000000, got %s", natString(r, prod))
	}
	if !diff.IsScalar() || Unbox(diff) != 0 {
		t.Fatalf("expected scalar 0, got %s", natString(r, diff))
	}
	if got := r.IntToInt64(quot); got != -3 {
		t.Fatalf("expected -17 / 5 = -3, got %d", got)
	}
	if got := r.IntToInt64(rem); got != 2 {
		t.Fatalf("expected 17 %% -5 = 2, got %d", got)
	}
	if got := UintAdd[uint8](200, 100); got != 44 {
		t.Fatalf("expected 200 + 100 = 44 as UInt8, got %d", got)
	}
	expectNoLeaks(t, r)
}

func TestNatBigOperations(t *testing.T) {
	r, _ := newTestRuntime(t)
	a := r.NatOfString("340282366920938463463374607431768211456") // 2^128
	b := r.NatOfString("18446744073709551616")                    // 2^64
	q := r.NatDiv(a, b)
	if got := natString(r, q); got != "18446744073709551616" {
		t.Fatalf("expected 2^64, got %s", got)
	}
	m := r.NatMod(a, Box(0))
	if m != a || r.RC(a) != 2 {
		t.Fatalf("expected mod by zero to return the dividend inc'd")
	}
	r.Dec(m)
	if !r.NatDecLt(b, a) || r.NatDecLe(a, b) || !r.NatEq(r.NatMul(b, b), a) {
		t.Fatalf("unexpected comparison results")
	}
	if got := Unbox(r.NatLog2(a)); got != 128 {
		t.Fatalf("expected log2 128, got %d", got)
	}
	if got := r.NatToUint64(r.NatAdd(b, Box(5))); got != 5 {
		t.Fatalf("expected wrapping conversion 5, got %d", got)
	}
	if !r.NatTestBit(a, Box(128)) || r.NatTestBit(a, Box(127)) {
		t.Fatalf("unexpected test bit results")
	}
	s := r.NatToString(a)
	if got := r.StringValue(s); got != "340282366920938463463374607431768211456" {
		t.Fatalf("unexpected repr %q", got)
	}
	if got := r.NatToFloat(b); got != math.Ldexp(1, 64) {
		t.Fatalf("expected 2^64 as float, got %v", got)
	}
}

func TestNatSuccPredLog2(t *testing.T) {
	r, _ := newTestRuntime(t)
	if Unbox(r.NatPred(Box(0))) != 0 || Unbox(r.NatPred(Box(5))) != 4 {
		t.Fatalf("unexpected pred results")
	}
	if Unbox(r.NatSucc(Box(41))) != 42 {
		t.Fatalf("unexpected succ result")
	}
	if Unbox(r.NatLog2(Box(0))) != 0 || Unbox(r.NatLog2(Box(1024))) != 10 {
		t.Fatalf("unexpected log2 results")
	}
}

func TestNatConversions(t *testing.T) {
	r, _ := newTestRuntime(t)
	n := r.Uint64ToNat(math.MaxUint64)
	if n.IsScalar() {
		t.Fatalf("expected big nat for max uint64")
	}
	if r.NatToUint64(n) != math.MaxUint64 || r.NatToUint8(n) != 0xFF || r.NatToUint32(n) != math.MaxUint32 {
		t.Fatalf("unexpected narrowing conversions")
	}
	r.Dec(n)
	if got := r.USizeToNat(12); got != Box(12) {
		t.Fatalf("expected inline 12")
	}
	expectPanic(t, PanicInvalidArgs, func() { r.NatOfString("12a") })
	expectNoLeaks(t, r)
}

func TestNatPowHugeExponent(t *testing.T) {
	r, _ := newTestRuntime(t)
	e := r.Uint64ToNat(math.MaxUint64)
	if got := r.NatPow(Box(1), e); got != Box(1) {
		t.Fatalf("expected 1^e = 1")
	}
	expectPanic(t, PanicOutOfMemory, func() { r.NatPow(Box(2), e) })
	expectPanic(t, PanicOutOfMemory, func() { r.NatShiftL(Box(1), e) })
}
