package rt

import (
	"testing"
)

// mkName builds Name.str/Name.num with a cached hash.
func mkName(r *Runtime, tag uint8, prefix, part Object, hash uint64) Object {
	o := r.AllocCtor(tag, 2, 8)
	r.CtorSet(o, 0, prefix)
	r.CtorSet(o, 1, part)
	r.CtorSetUint64(o, 2*WordSize, hash)
	return o
}

func TestNameEq(t *testing.T) {
	r, _ := newTestRuntime(t)
	a := mkName(r, nameNum, mkName(r, nameStr, Box(0), r.MkString("Lean"), 11), Box(2), 22)
	b := mkName(r, nameNum, mkName(r, nameStr, Box(0), r.MkString("Lean"), 11), Box(2), 22)
	c := mkName(r, nameNum, mkName(r, nameStr, Box(0), r.MkString("Leam"), 11), Box(2), 22)
	d := mkName(r, nameNum, mkName(r, nameStr, Box(0), r.MkString("Lean"), 11), Box(2), 23)
	if !r.NameEq(a, b) {
		t.Fatalf("expected structurally equal names to compare equal")
	}
	if r.NameEq(a, c) {
		t.Fatalf("expected names with different components to differ")
	}
	if r.NameEq(a, d) {
		t.Fatalf("expected names with different hashes to differ")
	}
	if !r.NameEq(Box(0), Box(0)) || r.NameEq(a, Box(0)) {
		t.Fatalf("unexpected anonymous name results")
	}
	for _, o := range []Object{a, b, c, d} {
		r.Dec(o)
	}
	expectNoLeaks(t, r)
}

func TestSorryPanics(t *testing.T) {
	r, _ := newTestRuntime(t)
	err := expectPanic(t, PanicInternal, func() { r.Sorry(0) })
	if err.Message != "Lean internal panic: executed 'sorry'" {
		t.Fatalf("unexpected message %q", err.Message)
	}
}

func TestVersionAndPlatform(t *testing.T) {
	if VersionString() != "4.0.0" {
		t.Fatalf("expected 4.0.0, got %s", VersionString())
	}
	if Unbox(SystemPlatformNbits(Unit)) != 64 {
		t.Fatalf("expected 64-bit platform")
	}
	if !StrictOr(false, true) || StrictAnd(true, false) {
		t.Fatalf("unexpected strict boolean results")
	}
}

func TestPanicCodeRoundTrip(t *testing.T) {
	code, ok := ParsePanicCode(PanicThunkCycle.String())
	if !ok || code != PanicThunkCycle {
		t.Fatalf("expected RT1012 round trip, got %v %v", code, ok)
	}
	if _, ok := ParsePanicCode("RTx"); ok {
		t.Fatalf("expected parse failure")
	}
}
