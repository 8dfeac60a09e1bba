package rt

import (
	"math"
	"testing"
)

func TestBoxRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 42, MaxSmallNat}
	for _, n := range cases {
		o := Box(n)
		if !o.IsScalar() {
			t.Fatalf("expected scalar for %d", n)
		}
		if got := Unbox(o); got != n {
			t.Fatalf("expected %d, got %d", n, got)
		}
	}
	if Box(0) != Unit || BoxBool(true) != True || BoxBool(false) != False {
		t.Fatalf("unexpected scalar constants")
	}
}

func TestBoxWideScalars(t *testing.T) {
	r, _ := newTestRuntime(t)
	u := r.BoxUint64(math.MaxUint64)
	if got := r.UnboxUint64(u); got != math.MaxUint64 {
		t.Fatalf("expected max uint64, got %d", got)
	}
	f := r.BoxFloat(-2.5)
	if got := r.UnboxFloat(f); got != -2.5 {
		t.Fatalf("expected -2.5, got %v", got)
	}
	f32 := r.BoxFloat32(1.5)
	if got := r.UnboxFloat32(f32); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	small := r.BoxUSize(10)
	if !small.IsScalar() || r.UnboxUSize(small) != 10 {
		t.Fatalf("expected inline usize")
	}
	big := r.BoxUSize(math.MaxUint64)
	if big.IsScalar() || r.UnboxUSize(big) != math.MaxUint64 {
		t.Fatalf("expected boxed usize")
	}
	for _, o := range []Object{u, f, f32, big} {
		r.Dec(o)
	}
	expectNoLeaks(t, r)
}

func TestCtorFieldsAndHeader(t *testing.T) {
	r, _ := newTestRuntime(t)
	o := r.AllocCtor(3, 2, 16)
	h := r.Header(o)
	if h.Tag != 3 || h.Other != 2 || h.RC != 1 {
		t.Fatalf("unexpected header %+v", h)
	}
	if int(h.CsSz) != CtorObjectSize(2, 16) {
		t.Fatalf("expected size %d, got %d", CtorObjectSize(2, 16), h.CsSz)
	}
	r.CtorSet(o, 0, r.MkString("a"))
	r.CtorSet(o, 1, Box(9))
	if r.Tag(o) != 3 || r.CtorNumObjs(o) != 2 {
		t.Fatalf("unexpected tag or field count")
	}
	if got := r.StringValue(r.CtorGet(o, 0)); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	r.Dec(o)
	expectNoLeaks(t, r)
}

func TestCtorScalarOffsets(t *testing.T) {
	r, _ := newTestRuntime(t)
	o := r.AllocCtor(0, 1, 15)
	r.CtorSet(o, 0, Box(0))
	base := 1 * WordSize
	r.CtorSetUint64(o, base, 0x1122334455667788)
	r.CtorSetUint32(o, base+8, 0xDEADBEEF)
	r.CtorSetUint16(o, base+12, 0xCAFE)
	r.CtorSetUint8(o, base+14, 0x7F)
	if got := r.CtorGetUint64(o, base); got != 0x1122334455667788 {
		t.Fatalf("expected u64, got %x", got)
	}
	if got := r.CtorGetUint32(o, base+8); got != 0xDEADBEEF {
		t.Fatalf("expected u32, got %x", got)
	}
	if got := r.CtorGetUint16(o, base+12); got != 0xCAFE {
		t.Fatalf("expected u16, got %x", got)
	}
	if got := r.CtorGetUint8(o, base+14); got != 0x7F {
		t.Fatalf("expected u8, got %x", got)
	}
	r.CtorSetFloat(o, base, 3.25)
	if got := r.CtorGetFloat(o, base); got != 3.25 {
		t.Fatalf("expected 3.25, got %v", got)
	}
	expectPanic(t, PanicOutOfBounds, func() { r.CtorGetUint64(o, base+8) })
	expectPanic(t, PanicOutOfBounds, func() { r.CtorGetUint8(o, 0) })
	r.Dec(o)
}

func TestCtorUSizeSlots(t *testing.T) {
	r, _ := newTestRuntime(t)
	o := r.AllocCtor(0, 1, 8)
	r.CtorSet(o, 0, Box(0))
	r.CtorSetUSize(o, 1, 77)
	if got := r.CtorGetUSize(o, 1); got != 77 {
		t.Fatalf("expected 77, got %d", got)
	}
	r.Dec(o)
}

func TestCtorBoundsInDebug(t *testing.T) {
	r, _ := newTestRuntime(t)
	o := r.AllocCtor(0, 1, 0)
	r.CtorSet(o, 0, Box(0))
	expectPanic(t, PanicOutOfBounds, func() { r.CtorGet(o, 1) })
	expectPanic(t, PanicTypeMismatch, func() { r.CtorGet(r.MkString("s"), 0) })
}

func TestCtorAllocValidation(t *testing.T) {
	r, _ := newTestRuntime(t)
	expectPanic(t, PanicInvalidArgs, func() { r.AllocCtor(MaxCtorTag+1, 0, 0) })
	expectPanic(t, PanicInvalidArgs, func() { r.AllocCtor(0, MaxCtorFields, 0) })
	expectPanic(t, PanicInvalidArgs, func() { r.AllocCtor(0, 0, MaxCtorScalarsSize+1) })
}

func TestCtorSetFieldCopiesShared(t *testing.T) {
	r, _ := newTestRuntime(t)
	o := r.MkPair(r.MkString("a"), r.MkString("b"))
	r.Inc(o)
	n := r.CtorSetField(o, 1, r.MkString("c"))
	if n == o {
		t.Fatalf("expected a copy of the shared object")
	}
	if got := r.StringValue(r.CtorGet(o, 1)); got != "b" {
		t.Fatalf("expected original field b, got %q", got)
	}
	if got := r.StringValue(r.CtorGet(n, 1)); got != "c" {
		t.Fatalf("expected new field c, got %q", got)
	}
	if r.RC(r.CtorGet(o, 0)) != 2 {
		t.Fatalf("expected shared first field rc 2, got %d", r.RC(r.CtorGet(o, 0)))
	}
	same := r.CtorSetField(n, 0, Box(1))
	if same != n {
		t.Fatalf("expected in-place update of exclusive object")
	}
	r.Dec(o)
	r.Dec(n)
	expectNoLeaks(t, r)
}

func TestCtorReleaseField(t *testing.T) {
	r, _ := newTestRuntime(t)
	o := r.MkOptionSome(r.MkString("v"))
	r.CtorRelease(o, 0)
	if r.CtorGet(o, 0) != Box(0) {
		t.Fatalf("expected released field to be Box(0)")
	}
	if r.LiveObjects() != 1 {
		t.Fatalf("expected only the ctor alive, got %d", r.LiveObjects())
	}
	r.Dec(o)
	expectNoLeaks(t, r)
}

func TestTagOfScalarEnum(t *testing.T) {
	r, _ := newTestRuntime(t)
	if got := r.Tag(Box(4)); got != 4 {
		t.Fatalf("expected tag 4, got %d", got)
	}
}
