package region

import (
	"errors"
	"path/filepath"
	"testing"

	"leanrt/internal/rt"
)

func newRuntime(t *testing.T) *rt.Runtime {
	t.Helper()
	return rt.New(rt.Options{Debug: true, Host: rt.NewTestHost(nil, nil)})
}

func expectNoLeaks(t *testing.T, r *rt.Runtime) {
	t.Helper()
	if err := r.CheckLeaks(); err != nil {
		t.Fatalf("expected no leaks, got %v", err)
	}
}

// sampleGraph builds a value touching every storable kind, with one shared
// string.
func sampleGraph(r *rt.Runtime) rt.Object {
	shared := r.MkString("shared")
	bytes := r.AllocSArray(1, 3, 3)
	copy(r.ByteArrayBytes(bytes), []byte{1, 2, 3})

	arr := r.MkEmptyArrayWithCapacity(rt.Box(4))
	arr = r.ArrayPush(arr, rt.Box(7))
	r.Inc(shared)
	arr = r.ArrayPush(arr, shared)
	arr = r.ArrayPush(arr, r.NatOfString("123456789012345678901234567890"))
	arr = r.ArrayPush(arr, r.IntOfString("-123456789012345678901234567890"))

	withScalars := r.AllocCtor(3, 1, 8)
	r.CtorSet(withScalars, 0, shared)
	r.CtorSetUint64(withScalars, rt.WordSize, 0xdeadbeef)

	thunk := r.ThunkPure(bytes)
	root := r.AllocCtor(1, 3, 0)
	r.CtorSet(root, 0, arr)
	r.CtorSet(root, 1, withScalars)
	r.CtorSet(root, 2, thunk)
	return root
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := newRuntime(t)
	root := sampleGraph(src)
	want := src.Dump(root)

	snap, err := Save(src, root)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	src.Dec(root)
	expectNoLeaks(t, src)

	// The shared string is stored once.
	strings := 0
	for _, n := range snap.Nodes {
		if rt.Kind(n.Kind) == rt.KindString {
			strings++
		}
	}
	if strings != 1 {
		t.Fatalf("expected 1 string node, got %d", strings)
	}

	dst := newRuntime(t)
	loaded, err := Load(dst, snap)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := dst.Dump(loaded); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if !dst.IsPersistent(loaded) {
		t.Fatalf("expected the loaded root to be persistent")
	}
	dst.Dec(loaded)
	expectNoLeaks(t, dst)
}

func TestScalarRoot(t *testing.T) {
	r := newRuntime(t)
	snap, err := Save(r, rt.Box(42))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(snap.Nodes) != 0 {
		t.Fatalf("expected no nodes, got %d", len(snap.Nodes))
	}
	o, err := Load(r, snap)
	if err != nil || o != rt.Box(42) {
		t.Fatalf("expected #42, got %s (%v)", r.Dump(o), err)
	}
}

func TestUnsupportedKinds(t *testing.T) {
	r := newRuntime(t)
	ref := r.MkRef(rt.Box(1))
	if _, err := Save(r, ref); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for a ref, got %v", err)
	}
	r.Dec(ref)

	fn := &rt.Fn{Name: "id", Arity: 1, Code: func(_ *rt.Runtime, args []rt.Object) rt.Object { return args[0] }}
	pending := r.MkThunk(r.MkClosure(fn))
	pair := r.MkPair(rt.Box(1), pending)
	if _, err := Save(r, pair); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for a pending thunk, got %v", err)
	}
	r.Dec(pair)
	expectNoLeaks(t, r)
}

func TestLoadRejectsBadSnapshots(t *testing.T) {
	cases := []struct {
		name string
		snap Snapshot
	}{
		{"magic", Snapshot{Magic: "x", Schema: SchemaVersion}},
		{"schema", Snapshot{Magic: Magic, Schema: SchemaVersion + 1}},
		{"forward ref", Snapshot{Magic: Magic, Schema: SchemaVersion, Root: 2, Nodes: []Node{
			{Kind: uint8(rt.KindCtor), Refs: []uint64{4}},
		}}},
		{"dangling root", Snapshot{Magic: Magic, Schema: SchemaVersion, Root: 6}},
		{"sarray size", Snapshot{Magic: Magic, Schema: SchemaVersion, Root: 2, Nodes: []Node{
			{Kind: uint8(rt.KindScalarArray), Elem: 4, Data: []byte{1, 2, 3}},
		}}},
		{"bignum", Snapshot{Magic: Magic, Schema: SchemaVersion, Root: 2, Nodes: []Node{
			{Kind: uint8(rt.KindMPZ), Text: "12x"},
		}}},
	}
	for _, tc := range cases {
		r := newRuntime(t)
		if _, err := Load(r, &tc.snap); !errors.Is(err, ErrBadSnapshot) {
			t.Fatalf("%s: expected ErrBadSnapshot, got %v", tc.name, err)
		}
		expectNoLeaks(t, r)
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.lrr")
	src := newRuntime(t)
	root := sampleGraph(src)
	want := src.Dump(root)
	if err := WriteFile(path, src, root); err != nil {
		t.Fatalf("write: %v", err)
	}
	src.Dec(root)

	dst := newRuntime(t)
	loaded, err := ReadFile(path, dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := dst.Dump(loaded); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if _, err := Unmarshal([]byte{0xc1}); !errors.Is(err, ErrBadSnapshot) {
		t.Fatalf("expected ErrBadSnapshot for garbage, got %v", err)
	}
}
