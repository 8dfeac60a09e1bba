package rt

import (
	"encoding/binary"
	"testing"
)

func TestCheckLeaksReportsByKind(t *testing.T) {
	r, _ := newTestRuntime(t)
	a := r.MkString("a")
	b := r.MkString("b")
	p := r.MkPair(Box(1), Box(2))
	err := r.CheckLeaks()
	if err == nil {
		t.Fatalf("expected a leak report")
	}
	if got := err.Error(); got != "3 live objects: ctor=1, string=2" {
		t.Fatalf("unexpected report %q", got)
	}
	for _, o := range []Object{a, b, p} {
		r.Dec(o)
	}
	expectNoLeaks(t, r)
}

func TestPersistentObjectsAreNotLeaks(t *testing.T) {
	r, _ := newTestRuntime(t)
	s := r.MkString("constant")
	r.MarkPersistent(s)
	expectNoLeaks(t, r)
	if got := len(r.LiveSet(true)); got != 1 {
		t.Fatalf("expected 1 persistent object, got %d", got)
	}
	live := r.LiveSet(true)[0]
	if live.Kind != KindString || live.RC != 0 || live.Tag != TagString {
		t.Fatalf("unexpected live entry %+v", live)
	}
}

func TestStatsCounters(t *testing.T) {
	r, _ := newTestRuntime(t)
	before := r.Stats()
	o := r.MkRef(r.MkString("x"))
	r.Inc(o)
	r.Dec(o)
	mid := r.Stats()
	if mid.Allocs-before.Allocs != 2 || mid.Live != 2 {
		t.Fatalf("expected 2 allocs and 2 live, got %+v", mid)
	}
	if mid.Incs-before.Incs != 1 || mid.Decs-before.Decs != 1 {
		t.Fatalf("expected one inc and one dec, got %+v", mid)
	}
	r.Dec(o)
	after := r.Stats()
	if after.Frees-before.Frees != 2 || after.Live != 0 {
		t.Fatalf("expected 2 frees and nothing live, got %+v", after)
	}
}

func TestHeaderEncoding(t *testing.T) {
	h := Header{RC: -1, CsSz: 40, Other: 2, Tag: TagClosure}
	b := EncodeHeader(h)
	if b[7] != TagClosure || b[6] != 2 || binary.LittleEndian.Uint16(b[4:6]) != 40 {
		t.Fatalf("unexpected header bytes % x", b)
	}
	if got := DecodeHeader(b); got != h {
		t.Fatalf("expected %+v, got %+v", h, got)
	}
}

func TestObjectBytesLayout(t *testing.T) {
	r, _ := newTestRuntime(t)
	s := r.MkString("hé")
	img := r.ObjectBytes(s)
	if len(img) != StringObjectSize(3) {
		t.Fatalf("expected %d bytes, got %d", StringObjectSize(3), len(img))
	}
	if n := binary.LittleEndian.Uint64(img[StringByteLenOffset:]); n != 3 {
		t.Fatalf("expected byte length 3, got %d", n)
	}
	if n := binary.LittleEndian.Uint64(img[StringUTF8LenOffset:]); n != 2 {
		t.Fatalf("expected 2 code points, got %d", n)
	}
	if img[len(img)-1] != 0 {
		t.Fatalf("expected NUL terminator")
	}
	c := r.AllocCtor(5, 1, 8)
	r.CtorSet(c, 0, Box(7))
	r.CtorSetUint64(c, 1*WordSize, 0xABCD)
	img = r.ObjectBytes(c)
	if len(img) != CtorObjectSize(1, 8) || img[7] != 5 {
		t.Fatalf("unexpected ctor image % x", img)
	}
	if w := Object(binary.LittleEndian.Uint64(img[HeaderSize:])); w != Box(7) {
		t.Fatalf("expected the boxed field word, got %#x", uint64(w))
	}
	if v := binary.LittleEndian.Uint64(img[CtorScalarOffset(1):]); v != 0xABCD {
		t.Fatalf("expected scalar 0xABCD, got %#x", v)
	}
	r.Dec(s)
	r.Dec(c)
	expectNoLeaks(t, r)
}
