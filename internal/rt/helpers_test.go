package rt

import (
	"testing"
)

func newTestRuntime(t *testing.T) (*Runtime, *TestHost) {
	t.Helper()
	host := NewTestHost(nil, nil)
	return New(Options{Debug: true, Host: host}), host
}

func newReleaseRuntime(t *testing.T) (*Runtime, *TestHost) {
	t.Helper()
	host := NewTestHost(nil, nil)
	return New(Options{Host: host}), host
}

// expectPanic runs fn and requires a *RuntimeError with the given code.
func expectPanic(t *testing.T, code PanicCode, fn func()) *RuntimeError {
	t.Helper()
	var got *RuntimeError
	func() {
		defer func() {
			rec := recover()
			if rec == nil {
				t.Fatalf("expected panic %v, got nil", code)
			}
			err, ok := rec.(*RuntimeError)
			if !ok {
				t.Fatalf("unexpected panic type: %T", rec)
			}
			got = err
		}()
		fn()
	}()
	if got.Code != code {
		t.Fatalf("expected %v, got %v (%s)", code, got.Code, got.Message)
	}
	return got
}

func expectNoLeaks(t *testing.T, r *Runtime) {
	t.Helper()
	if err := r.CheckLeaks(); err != nil {
		t.Fatalf("unexpected leak: %v", err)
	}
}

// natList builds the List Nat [0, 1, ..., n-1].
func natList(r *Runtime, n int) Object {
	list := Box(0)
	for i := n - 1; i >= 0; i-- {
		list = r.MkListCons(Box(uint64(i)), list) //nolint:gosec // G115: test index.
	}
	return list
}

// fnOf wraps a Go function as closure code.
func fnOf(name string, arity int, code func(r *Runtime, args []Object) Object) *Fn {
	return &Fn{Name: name, Arity: arity, Code: code}
}

var natAddFn = fnOf("Nat.add", 2, func(r *Runtime, args []Object) Object {
	out := r.NatAdd(args[0], args[1])
	r.Dec(args[0])
	r.Dec(args[1])
	return out
})
