package prim

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"leanrt/internal/rt"
	"leanrt/internal/trace"
)

var (
	// ErrUnknownPrim is returned by Call for names that are not registered.
	ErrUnknownPrim = errors.New("unknown primitive")
	// ErrArity is returned by Call when the argument count does not match.
	ErrArity = errors.New("arity mismatch")
)

// Fn implements a primitive. It receives exactly Arity arguments.
type Fn func(r *rt.Runtime, args []rt.Object) rt.Object

// Prim describes one runtime primitive. Arguments whose bit is set in
// Borrowed are only read by Fn; Invoke releases them after Fn returns. All
// other arguments are consumed by Fn. The result is always owned.
type Prim struct {
	Name     string
	Arity    int
	Borrowed uint32
	Fn       Fn

	code *rt.Fn
}

// Borrows reports whether argument i is borrowed.
func (p *Prim) Borrows(i int) bool {
	return p.Borrowed&(1<<uint(i)) != 0 //nolint:gosec // G115: i < Arity <= 32.
}

// Invoke runs the primitive with owned arguments.
func (p *Prim) Invoke(r *rt.Runtime, args []rt.Object) rt.Object {
	res := p.Fn(r, args)
	if p.Borrowed != 0 {
		for i, a := range args {
			if p.Borrows(i) {
				r.Dec(a)
			}
		}
	}
	return res
}

// Code returns the primitive as closure code, so it can be partially applied
// like any other function.
func (p *Prim) Code() *rt.Fn {
	return p.code
}

// Registry maps primitive names to their implementations.
type Registry struct {
	mu    sync.RWMutex
	prims map[string]*Prim
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{prims: make(map[string]*Prim)}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry holding every built-in primitive.
func Default() *Registry {
	defaultOnce.Do(func() {
		g := New()
		registerNat(g)
		registerInt(g)
		registerUint(g)
		registerSint(g)
		registerFloat(g)
		registerArray(g)
		registerString(g)
		registerRefs(g)
		registerThunk(g)
		registerIO(g)
		registerMisc(g)
		defaultReg = g
	})
	return defaultReg
}

// Register adds p. Registering a name twice is a programming error.
func (g *Registry) Register(p Prim) {
	if p.Fn == nil || p.Arity < 0 || p.Arity > 32 {
		panic(fmt.Sprintf("prim: invalid primitive %q", p.Name))
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.prims[p.Name]; dup {
		panic(fmt.Sprintf("prim: duplicate primitive %q", p.Name))
	}
	reg := p
	if reg.Arity > 0 {
		reg.code = &rt.Fn{Name: reg.Name, Arity: reg.Arity, Code: reg.Invoke}
	}
	g.prims[p.Name] = &reg
}

// Lookup finds a primitive by name.
func (g *Registry) Lookup(name string) (*Prim, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.prims[name]
	return p, ok
}

// Len returns the number of registered primitives.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.prims)
}

// Names returns all primitive names in sorted order.
func (g *Registry) Names() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.prims))
	for name := range g.prims {
		names = append(names, name)
	}
	g.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Call invokes the named primitive with owned arguments. A runtime panic
// raised by the primitive is returned as an error wrapping *rt.RuntimeError;
// an exit request keeps unwinding to Runtime.Run. When the call fails before
// the primitive runs, the arguments are released.
func (g *Registry) Call(r *rt.Runtime, name string, args []rt.Object) (res rt.Object, err error) {
	p, ok := g.Lookup(name)
	if !ok {
		release(r, args)
		return rt.Null, fmt.Errorf("%w: %s", ErrUnknownPrim, name)
	}
	if len(args) != p.Arity {
		release(r, args)
		return rt.Null, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrArity, name, p.Arity, len(args))
	}

	span := trace.Begin(r.Tracer(), trace.ScopePrim, name, r.ID())
	defer func() {
		if rec := recover(); rec != nil {
			re, ok := rec.(*rt.RuntimeError)
			if !ok {
				span.End("unwind")
				panic(rec)
			}
			res, err = rt.Null, fmt.Errorf("%s: %w", name, re)
			span.WithExtra("code", re.Code.String()).End("panic")
			return
		}
		span.End("")
	}()
	return p.Invoke(r, args), nil
}

func release(r *rt.Runtime, args []rt.Object) {
	for _, a := range args {
		r.Dec(a)
	}
}

// borrowAll is the mask for a primitive that borrows its first n arguments.
func borrowAll(n int) uint32 {
	return 1<<uint(n) - 1 //nolint:gosec // G115: n <= 32.
}

// Shorthands used by the group files. Every argument of these shapes is
// borrowed.

func unary(name string, f func(r *rt.Runtime, a rt.Object) rt.Object) Prim {
	return Prim{Name: name, Arity: 1, Borrowed: borrowAll(1), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
		return f(r, args[0])
	}}
}

func binary(name string, f func(r *rt.Runtime, a, b rt.Object) rt.Object) Prim {
	return Prim{Name: name, Arity: 2, Borrowed: borrowAll(2), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
		return f(r, args[0], args[1])
	}}
}

func predicate(name string, f func(r *rt.Runtime, a, b rt.Object) bool) Prim {
	return Prim{Name: name, Arity: 2, Borrowed: borrowAll(2), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
		return rt.BoxBool(f(r, args[0], args[1]))
	}}
}

func registerAll(g *Registry, prims ...Prim) {
	for _, p := range prims {
		g.Register(p)
	}
}
