package rt

import (
	"testing"
)

func TestRefGetSetSwap(t *testing.T) {
	r, _ := newTestRuntime(t)
	ref := r.MkRef(r.MkString("a"))
	v := r.RefGet(ref)
	if r.StringValue(v) != "a" || r.RC(v) != 2 {
		t.Fatalf("expected a with rc 2, got %q rc %d", r.StringValue(v), r.RC(v))
	}
	r.Dec(v)
	r.RefSet(ref, r.MkString("b"))
	old := r.RefSwap(ref, r.MkString("c"))
	if got := r.StringValue(old); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	r.Dec(old)
	taken := r.RefTake(ref)
	if got := r.StringValue(taken); got != "c" {
		t.Fatalf("expected c, got %q", got)
	}
	if r.RefGet(ref) != Box(0) {
		t.Fatalf("expected Box(0) after take")
	}
	r.Dec(taken)
	r.Dec(ref)
	expectNoLeaks(t, r)
}

func TestRefPtrEqAndReset(t *testing.T) {
	r, _ := newTestRuntime(t)
	s := r.MkString("shared")
	r.Inc(s)
	a := r.MkRef(s)
	b := r.MkRef(s)
	if !r.RefPtrEq(a, b) {
		t.Fatalf("expected refs to hold the same object")
	}
	r.RefReset(a)
	if r.RefPtrEq(a, b) {
		t.Fatalf("expected refs to differ after reset")
	}
	r.Dec(a)
	r.Dec(b)
	expectNoLeaks(t, r)
}

func TestIORefOperations(t *testing.T) {
	r, _ := newTestRuntime(t)
	res := r.IORefNew(Box(1), Unit)
	if !r.IOResultIsOk(res) {
		t.Fatalf("expected ok result")
	}
	ref := r.IOResultTakeValue(res)
	res = r.IORefSet(ref, Box(2), Unit)
	r.Dec(res)
	res = r.IORefGet(ref, Unit)
	if got := Unbox(r.IOResultGetValue(res)); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	r.Dec(res)
	res = r.IORefSwap(ref, Box(3), Unit)
	if got := Unbox(r.IOResultGetValue(res)); got != 2 {
		t.Fatalf("expected previous value 2, got %d", got)
	}
	r.Dec(res)
	res = r.IORefPtrEq(ref, ref, Unit)
	if r.IOResultGetValue(res) != True {
		t.Fatalf("expected ptrEq of a ref with itself")
	}
	r.Dec(res)
	r.Dec(ref)
	expectNoLeaks(t, r)
}

func TestRefTypeMismatch(t *testing.T) {
	r, _ := newTestRuntime(t)
	s := r.MkString("x")
	expectPanic(t, PanicTypeMismatch, func() { r.RefGet(s) })
}
