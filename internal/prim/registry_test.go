package prim

import (
	"errors"
	"sort"
	"testing"

	"leanrt/internal/rt"
	"leanrt/internal/trace"
)

func newRuntime(t *testing.T) (*rt.Runtime, *rt.TestHost) {
	t.Helper()
	host := rt.NewTestHost(nil, nil)
	return rt.New(rt.Options{Debug: true, Host: host}), host
}

func expectNoLeaks(t *testing.T, r *rt.Runtime) {
	t.Helper()
	if err := r.CheckLeaks(); err != nil {
		t.Fatalf("expected no leaks, got %v", err)
	}
}

func call(t *testing.T, r *rt.Runtime, name string, args ...rt.Object) rt.Object {
	t.Helper()
	res, err := Default().Call(r, name, args)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return res
}

func TestDefaultRegistry(t *testing.T) {
	g := Default()
	if g != Default() {
		t.Fatalf("expected Default to return the same registry")
	}
	names := g.Names()
	if len(names) != g.Len() || !sort.StringsAreSorted(names) {
		t.Fatalf("expected %d sorted names", g.Len())
	}
	for _, name := range []string{
		"lean_nat_add", "lean_int_emod", "lean_uint8_add", "lean_int64_to_int32",
		"lean_float_of_scientific", "lean_float32_to_uint8", "lean_array_push",
		"lean_byte_array_push", "lean_string_append", "lean_st_ref_get",
		"lean_io_ref_swap", "lean_thunk_get_own", "lean_io_prim_println", "lean_name_eq",
	} {
		if _, ok := g.Lookup(name); !ok {
			t.Fatalf("expected %s to be registered", name)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	g := New()
	p := unary("lean_id", func(_ *rt.Runtime, a rt.Object) rt.Object { return a })
	g.Register(p)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration to panic")
		}
	}()
	g.Register(p)
}

func TestCallNat(t *testing.T) {
	r, _ := newRuntime(t)
	big := r.Uint64ToNat(1 << 63)
	r.Inc(big)
	sum := call(t, r, "lean_nat_add", big, big)
	if got := r.Dump(sum); got != "18446744073709551616" {
		t.Fatalf("expected 2^64, got %s", got)
	}
	if !rt.UnboxBool(call(t, r, "lean_nat_dec_lt", rt.Box(3), rt.Box(4))) {
		t.Fatalf("expected 3 < 4")
	}
	r.Dec(sum)
	expectNoLeaks(t, r)
}

func TestCallReleasesBorrowedArguments(t *testing.T) {
	r, _ := newRuntime(t)
	s := call(t, r, "lean_string_append", r.MkString("foo"), r.MkString("bar"))
	if r.StringValue(s) != "foobar" {
		t.Fatalf("expected foobar, got %q", r.StringValue(s))
	}
	n := call(t, r, "lean_string_length", s)
	if rt.Unbox(n) != 6 {
		t.Fatalf("expected length 6, got %d", rt.Unbox(n))
	}
	expectNoLeaks(t, r)
}

func TestCallErrors(t *testing.T) {
	r, _ := newRuntime(t)
	g := Default()
	if _, err := g.Call(r, "lean_nope", []rt.Object{r.MkString("x")}); !errors.Is(err, ErrUnknownPrim) {
		t.Fatalf("expected ErrUnknownPrim, got %v", err)
	}
	if _, err := g.Call(r, "lean_nat_add", []rt.Object{r.MkString("x")}); !errors.Is(err, ErrArity) {
		t.Fatalf("expected ErrArity, got %v", err)
	}
	expectNoLeaks(t, r)

	a := r.MkEmptyArray()
	_, err := g.Call(r, "lean_array_get_panic", []rt.Object{a, rt.Box(3)})
	re, ok := rt.AsRuntimeError(err)
	if !ok || re.Code != rt.PanicOutOfBounds {
		t.Fatalf("expected out of bounds panic, got %v", err)
	}
}

func TestPrimAsClosure(t *testing.T) {
	r, _ := newRuntime(t)
	p, _ := Default().Lookup("lean_nat_mul")
	f := r.MkClosure(p.Code(), rt.Box(6))
	if got := r.Apply1(f, rt.Box(7)); got != rt.Box(42) {
		t.Fatalf("expected 42, got %s", r.Dump(got))
	}
	expectNoLeaks(t, r)
}

func TestFixedWidthPrims(t *testing.T) {
	r, _ := newRuntime(t)
	if got := rt.UnboxUint8(call(t, r, "lean_uint8_add", rt.BoxUint8(200), rt.BoxUint8(100))); got != 44 {
		t.Fatalf("expected 44, got %d", got)
	}
	x := call(t, r, "lean_uint64_mul", r.BoxUint64(1<<40), r.BoxUint64(1<<30))
	if got := r.UnboxUint64(x); got != 1<<6 {
		t.Fatalf("expected wraparound to 64, got %d", got)
	}
	r.Dec(x)
	if got := rt.UnboxInt8(call(t, r, "lean_int32_to_int8", rt.BoxInt32(-129))); got != 127 {
		t.Fatalf("expected truncation to 127, got %d", got)
	}
	if got := rt.UnboxUint8(call(t, r, "lean_float_to_uint8", r.BoxFloat(300.5))); got != 255 {
		t.Fatalf("expected saturation to 255, got %d", got)
	}
	expectNoLeaks(t, r)
}

func TestFloatPrims(t *testing.T) {
	r, _ := newRuntime(t)
	f := call(t, r, "lean_float_of_scientific", rt.Box(15), rt.BoxBool(true), rt.Box(1))
	if got := r.UnboxFloat(f); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	s := call(t, r, "lean_float_to_string", f)
	if r.StringValue(s) != "1.500000" {
		t.Fatalf("expected 1.500000, got %q", r.StringValue(s))
	}
	r.Dec(s)
	expectNoLeaks(t, r)
}

func TestRefPrims(t *testing.T) {
	r, _ := newRuntime(t)
	res := call(t, r, "lean_st_ref_new", r.MkString("a"), rt.Unit)
	ref := r.IOResultTakeValue(res)
	r.Inc(ref)
	r.Dec(call(t, r, "lean_st_ref_set", ref, r.MkString("b"), rt.Unit))
	got := call(t, r, "lean_st_ref_get", ref, rt.Unit)
	if v := r.StringValue(r.IOResultGetValue(got)); v != "b" {
		t.Fatalf("expected b, got %q", v)
	}
	r.Dec(got)
	expectNoLeaks(t, r)
}

func TestCallTracesPrimSpan(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDetail)
	r := rt.New(rt.Options{Debug: true, Host: rt.NewTestHost(nil, nil), Tracer: ring})
	if _, err := Default().Call(r, "lean_nat_succ", []rt.Object{rt.Box(1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected begin and end events, got %d", len(events))
	}
	if events[0].Kind != trace.KindSpanBegin || events[0].Name != "lean_nat_succ" || events[0].Scope != trace.ScopePrim {
		t.Fatalf("unexpected begin event %+v", events[0])
	}
}
