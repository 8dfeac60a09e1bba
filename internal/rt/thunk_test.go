package rt

import (
	"testing"
)

func TestThunkForcesOnce(t *testing.T) {
	r, _ := newTestRuntime(t)
	calls := 0
	body := fnOf("body", 1, func(r *Runtime, args []Object) Object {
		calls++
		return r.MkString("computed")
	})
	th := r.MkThunk(r.MkClosure(body))
	if r.IsThunkEvaluated(th) {
		t.Fatalf("expected a suspended thunk")
	}
	v1 := r.ThunkGet(th)
	v2 := r.ThunkGet(th)
	if v1 != v2 || calls != 1 {
		t.Fatalf("expected memoized value after one call, got %d calls", calls)
	}
	if got := r.StringValue(v1); got != "computed" {
		t.Fatalf("expected computed, got %q", got)
	}
	if !r.IsThunkEvaluated(th) {
		t.Fatalf("expected an evaluated thunk")
	}
	own := r.ThunkGetOwn(th)
	if r.RC(own) != 2 {
		t.Fatalf("expected rc 2 for an owned value, got %d", r.RC(own))
	}
	r.Dec(own)
	r.Dec(th)
	expectNoLeaks(t, r)
}

func TestThunkPure(t *testing.T) {
	r, _ := newTestRuntime(t)
	th := r.ThunkPure(Box(7))
	if !r.IsThunkEvaluated(th) || Unbox(r.ThunkGet(th)) != 7 {
		t.Fatalf("expected an evaluated thunk holding 7")
	}
	r.Dec(th)
	expectNoLeaks(t, r)
}

func TestThunkCycleIsDetected(t *testing.T) {
	r, _ := newTestRuntime(t)
	var th Object
	self := fnOf("self", 1, func(r *Runtime, args []Object) Object {
		return r.ThunkGetOwn(th)
	})
	th = r.MkThunk(r.MkClosure(self))
	err := expectPanic(t, PanicThunkCycle, func() { r.ThunkGet(th) })
	if err.Message == "" {
		t.Fatalf("expected a message")
	}
}

func TestThunkRetriesAfterPanic(t *testing.T) {
	r, _ := newTestRuntime(t)
	calls := 0
	body := fnOf("flaky", 1, func(r *Runtime, args []Object) Object {
		calls++
		if calls == 1 {
			r.panicf(PanicGuest, "boom")
		}
		return Box(5)
	})
	th := r.MkThunk(r.MkClosure(body))
	expectPanic(t, PanicGuest, func() { r.ThunkGet(th) })
	if r.IsThunkEvaluated(th) {
		t.Fatalf("expected the thunk to stay suspended")
	}
	if got := Unbox(r.ThunkGet(th)); got != 5 || calls != 2 {
		t.Fatalf("expected 5 after a second call, got %d after %d calls", got, calls)
	}
	r.Dec(th)
	expectNoLeaks(t, r)
}

func TestThunkMapAndBind(t *testing.T) {
	r, _ := newTestRuntime(t)
	double := r.MkClosure(fnOf("double", 1, func(r *Runtime, args []Object) Object {
		return r.NatAdd(args[0], args[0])
	}))
	base := r.ThunkPure(Box(21))
	mapped := r.ThunkMap(double, base)
	if r.IsThunkEvaluated(mapped) {
		t.Fatalf("expected map to stay lazy")
	}
	if got := Unbox(r.ThunkGet(mapped)); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	next := r.MkClosure(fnOf("next", 1, func(r *Runtime, args []Object) Object {
		return r.ThunkPure(r.NatAdd(args[0], Box(1)))
	}))
	r.Inc(mapped)
	bound := r.ThunkBind(mapped, next)
	if got := Unbox(r.ThunkGet(bound)); got != 43 {
		t.Fatalf("expected 43, got %d", got)
	}
	r.Dec(bound)
	r.Dec(mapped)
	expectNoLeaks(t, r)
}
