package rt

import (
	"testing"
)

type fileHandle struct {
	name   string
	closed int
}

func TestExternalFinalizerRunsOnce(t *testing.T) {
	r, _ := newTestRuntime(t)
	class := r.RegisterExternalClass("FileHandle", func(data any) {
		data.(*fileHandle).closed++
	}, nil)
	h := &fileHandle{name: "log.txt"}
	o := r.AllocExternal(class, h)
	if r.ExternalClassOf(o) != class || r.ExternalData(o) != h {
		t.Fatalf("unexpected class or data")
	}
	r.Inc(o)
	r.Dec(o)
	if h.closed != 0 {
		t.Fatalf("expected no finalization while alive")
	}
	r.Dec(o)
	if h.closed != 1 {
		t.Fatalf("expected exactly one finalization, got %d", h.closed)
	}
	expectNoLeaks(t, r)
}

func TestExternalFinalizedInsideContainer(t *testing.T) {
	r, _ := newTestRuntime(t)
	closed := 0
	class := r.RegisterExternalClass("Token", func(any) { closed++ }, nil)
	arr := r.MkEmptyArray()
	for range 3 {
		arr = r.ArrayPush(arr, r.AllocExternal(class, struct{}{}))
	}
	r.Dec(arr)
	if closed != 3 {
		t.Fatalf("expected 3 finalizations, got %d", closed)
	}
	expectNoLeaks(t, r)
}

func TestExternalSetData(t *testing.T) {
	r, _ := newTestRuntime(t)
	class := r.RegisterExternalClass("Counter", nil, nil)
	o := r.AllocExternal(class, 1)
	same := r.SetExternalData(o, 2)
	if same != o || r.ExternalData(o) != 2 {
		t.Fatalf("expected in-place update of an exclusive external")
	}
	r.Inc(o)
	n := r.SetExternalData(o, 3)
	if n == o {
		t.Fatalf("expected a new object for a shared external")
	}
	if r.ExternalData(o) != 2 || r.ExternalData(n) != 3 {
		t.Fatalf("unexpected data %v and %v", r.ExternalData(o), r.ExternalData(n))
	}
	r.Dec(o)
	r.Dec(n)
	expectNoLeaks(t, r)
}

func TestExternalForeach(t *testing.T) {
	r, _ := newTestRuntime(t)
	var visited []Object
	class := r.RegisterExternalClass("Holder", nil, func(data any, fn Object) {
		for _, o := range data.([]Object) {
			visited = append(visited, r.Apply1(fn, o))
		}
	})
	succ := r.MkClosure(fnOf("succ", 1, func(r *Runtime, args []Object) Object {
		return r.NatSucc(args[0])
	}))
	o := r.AllocExternal(class, []Object{Box(1), Box(2)})
	r.Inc(succ)
	r.Inc(succ)
	r.ExternalForeach(o, succ)
	if len(visited) != 2 || Unbox(visited[0]) != 2 || Unbox(visited[1]) != 3 {
		t.Fatalf("unexpected visits %v", visited)
	}
	r.Dec(succ)
	r.Dec(o)
	expectNoLeaks(t, r)
}

func TestExternalAllocValidation(t *testing.T) {
	r, _ := newTestRuntime(t)
	expectPanic(t, PanicInvalidArgs, func() { r.AllocExternal(nil, 0) })
	expectPanic(t, PanicTypeMismatch, func() { r.ExternalData(r.MkString("x")) })
}
