// Package region saves a reachable object graph into a compact snapshot and
// loads it back as persistent objects, so large constant data can be built
// once and shared without reference counting.
package region

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"leanrt/internal/rt"
	"leanrt/internal/rt/bignum"
	"leanrt/internal/trace"
)

// Current schema version - increment when the Snapshot format changes.
const SchemaVersion uint16 = 1

// Magic identifies a snapshot payload.
const Magic = "leanrt-region"

var (
	// ErrUnsupported reports an object kind that cannot live in a region:
	// closures, references, externals and unevaluated thunks.
	ErrUnsupported = errors.New("object cannot be stored in a region")
	// ErrBadSnapshot reports a malformed payload.
	ErrBadSnapshot = errors.New("invalid region snapshot")
)

// Node is one heap object. Refs hold encoded words: odd words are boxed
// scalars, 0 is null, and an even word w refers to node w/2-1. Nodes are
// stored children first.
type Node struct {
	Kind uint8    `msgpack:"k"`
	Tag  uint8    `msgpack:"t,omitempty"`
	Elem uint8    `msgpack:"e,omitempty"`
	Refs []uint64 `msgpack:"r,omitempty"`
	Data []byte   `msgpack:"b,omitempty"`
	Text string   `msgpack:"s,omitempty"`
}

// Snapshot is a serialized object graph.
type Snapshot struct {
	Magic  string `msgpack:"magic"`
	Schema uint16 `msgpack:"schema"`
	Root   uint64 `msgpack:"root"`
	Nodes  []Node `msgpack:"nodes"`
}

func nodeWord(i int) uint64 {
	return uint64(i+1) << 1 //nolint:gosec // G115: node indices are non-negative.
}

// Save captures the graph under root (borrowed).
func Save(r *rt.Runtime, root rt.Object) (*Snapshot, error) {
	span := trace.Begin(r.Tracer(), trace.ScopeRuntime, "region.save", r.ID())
	snap := &Snapshot{Magic: Magic, Schema: SchemaVersion}
	index := make(map[rt.Object]int)

	var word func(o rt.Object) (uint64, error)
	word = func(o rt.Object) (uint64, error) {
		if o == rt.Null || o.IsScalar() {
			return uint64(o), nil
		}
		if i, ok := index[o]; ok {
			return nodeWord(i), nil
		}
		n, children, err := describe(r, o)
		if err != nil {
			return 0, err
		}
		n.Refs = make([]uint64, len(children))
		for i, c := range children {
			w, err := word(c)
			if err != nil {
				return 0, err
			}
			n.Refs[i] = w
		}
		index[o] = len(snap.Nodes)
		snap.Nodes = append(snap.Nodes, n)
		return nodeWord(index[o]), nil
	}

	w, err := word(root)
	if err != nil {
		span.End("error")
		return nil, err
	}
	snap.Root = w
	span.WithExtra("nodes", strconv.Itoa(len(snap.Nodes))).End("")
	return snap, nil
}

// describe returns the node for o without its refs, and the children whose
// words become the refs.
func describe(r *rt.Runtime, o rt.Object) (Node, []rt.Object, error) {
	kind := r.KindOf(o)
	n := Node{Kind: uint8(kind), Tag: r.Tag(o)}
	switch kind {
	case rt.KindCtor:
		num := r.CtorNumObjs(o)
		children := make([]rt.Object, num)
		for i := range children {
			children[i] = r.CtorGet(o, i)
		}
		n.Data = append([]byte(nil), r.ObjectBytes(o)[rt.CtorScalarOffset(num):]...)
		return n, children, nil
	case rt.KindArray:
		children := make([]rt.Object, r.ArraySize(o))
		for i := range children {
			children[i] = r.ArrayFGetBorrowed(o, rt.Box(uint64(i))) //nolint:gosec // G115: index is non-negative.
		}
		return n, children, nil
	case rt.KindScalarArray:
		n.Elem = uint8(r.SArrayElemSize(o)) //nolint:gosec // G115: element sizes fit a byte.
		n.Data = append([]byte(nil), r.ByteArrayBytes(o)...)
		return n, nil, nil
	case rt.KindString:
		n.Text = r.StringValue(o)
		return n, nil, nil
	case rt.KindMPZ:
		n.Text = r.NatValue(o).String()
		return n, nil, nil
	case rt.KindBigInt:
		n.Text = r.IntValue(o).String()
		return n, nil, nil
	case rt.KindThunk:
		if r.IsThunkEvaluated(o) {
			return n, []rt.Object{r.ThunkGet(o)}, nil
		}
	}
	return Node{}, nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
}

// Load rebuilds the graph in r and marks it persistent. The returned root
// needs no release.
func Load(r *rt.Runtime, snap *Snapshot) (rt.Object, error) {
	if snap.Magic != Magic {
		return rt.Null, fmt.Errorf("%w: bad magic %q", ErrBadSnapshot, snap.Magic)
	}
	if snap.Schema != SchemaVersion {
		return rt.Null, fmt.Errorf("%w: schema %d (want %d)", ErrBadSnapshot, snap.Schema, SchemaVersion)
	}
	span := trace.Begin(r.Tracer(), trace.ScopeRuntime, "region.load", r.ID())
	defer span.End("")

	objs := make([]rt.Object, 0, len(snap.Nodes))
	// resolve returns an owned reference for a word that may only point at
	// nodes built so far.
	resolve := func(w uint64) (rt.Object, error) {
		o := rt.Object(w)
		if o == rt.Null || o.IsScalar() {
			return o, nil
		}
		i := int(w>>1) - 1 //nolint:gosec // G115: checked below.
		if i < 0 || i >= len(objs) {
			return rt.Null, fmt.Errorf("%w: reference to node %d", ErrBadSnapshot, i)
		}
		r.Inc(objs[i])
		return objs[i], nil
	}
	cleanup := func() {
		for _, o := range objs {
			r.Dec(o)
		}
	}

	for idx, n := range snap.Nodes {
		refs := make([]rt.Object, len(n.Refs))
		for i, w := range n.Refs {
			o, err := resolve(w)
			if err != nil {
				for _, done := range refs[:i] {
					r.Dec(done)
				}
				cleanup()
				return rt.Null, err
			}
			refs[i] = o
		}
		o, err := build(r, n, refs)
		if err != nil {
			for _, done := range refs {
				r.Dec(done)
			}
			cleanup()
			return rt.Null, fmt.Errorf("node %d: %w", idx, err)
		}
		objs = append(objs, o)
	}

	root, err := resolve(snap.Root)
	if err != nil {
		cleanup()
		return rt.Null, err
	}
	cleanup()
	r.MarkPersistent(root)
	span.WithExtra("nodes", strconv.Itoa(len(objs)))
	return root, nil
}

// build allocates one node, taking refs.
func build(r *rt.Runtime, n Node, refs []rt.Object) (rt.Object, error) {
	switch rt.Kind(n.Kind) {
	case rt.KindCtor:
		if n.Tag > rt.MaxCtorTag {
			return rt.Null, fmt.Errorf("%w: constructor tag %d", ErrBadSnapshot, n.Tag)
		}
		o := r.AllocCtor(n.Tag, len(refs), len(n.Data))
		for i, v := range refs {
			r.CtorSet(o, i, v)
		}
		base := len(refs) * rt.WordSize
		for i, b := range n.Data {
			r.CtorSetUint8(o, base+i, b)
		}
		return o, nil
	case rt.KindArray:
		a := r.MkEmptyArrayWithCapacity(rt.Box(uint64(len(refs))))
		for _, v := range refs {
			a = r.ArrayPush(a, v)
		}
		return a, nil
	case rt.KindScalarArray:
		if n.Elem == 0 || len(n.Data)%int(n.Elem) != 0 {
			return rt.Null, fmt.Errorf("%w: scalar array of %d bytes with element size %d", ErrBadSnapshot, len(n.Data), n.Elem)
		}
		size := len(n.Data) / int(n.Elem)
		a := r.AllocSArray(int(n.Elem), size, size)
		copy(r.ByteArrayBytes(a), n.Data)
		return a, nil
	case rt.KindString:
		return r.MkString(n.Text), nil
	case rt.KindMPZ:
		v, err := bignum.ParseNat(n.Text)
		if err != nil {
			return rt.Null, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
		return r.NatBigOf(v), nil
	case rt.KindBigInt:
		v, err := bignum.ParseInt(n.Text)
		if err != nil {
			return rt.Null, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
		}
		return r.IntBigOf(v), nil
	case rt.KindThunk:
		if len(refs) != 1 {
			return rt.Null, fmt.Errorf("%w: thunk with %d values", ErrBadSnapshot, len(refs))
		}
		return r.ThunkPure(refs[0]), nil
	}
	return rt.Null, fmt.Errorf("%w: kind %d", ErrUnsupported, n.Kind)
}

// Marshal encodes snap as msgpack.
func Marshal(snap *Snapshot) ([]byte, error) {
	return msgpack.Marshal(snap)
}

// Unmarshal decodes a snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	return &snap, nil
}

// WriteFile saves the graph under root (borrowed) to path.
func WriteFile(path string, r *rt.Runtime, root rt.Object) error {
	snap, err := Save(r, root)
	if err != nil {
		return err
	}
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads the snapshot at path into r.
func ReadFile(path string, r *rt.Runtime) (rt.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rt.Null, err
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return rt.Null, fmt.Errorf("%s: %w", path, err)
	}
	return Load(r, snap)
}
