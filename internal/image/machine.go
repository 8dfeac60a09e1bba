package image

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"leanrt/internal/prim"
	"leanrt/internal/rt"
	"leanrt/internal/trace"
)

// ErrInterrupted is returned when the context of a run is cancelled.
var ErrInterrupted = errors.New("interrupted")

// Machine executes a validated image against a primitive registry. One
// Machine may run on several runtimes at once; each runtime must only be
// used by one goroutine.
type Machine struct {
	img   *Image
	prims *prim.Registry
	funcs map[string]*Func
	codes map[string]*rt.Fn

	ctxs  sync.Map // *rt.Runtime -> context.Context
	steps atomic.Uint64
}

// frame is one activation: registers own their values.
type frame struct {
	fn   *Func
	pc   int
	regs []rt.Object
	ret  int
}

// NewMachine resolves every name the image refers to.
func NewMachine(img *Image, prims *prim.Registry) (*Machine, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		img:   img,
		prims: prims,
		funcs: make(map[string]*Func, len(img.Funcs)),
		codes: make(map[string]*rt.Fn, len(img.Funcs)),
	}
	for i := range img.Funcs {
		fn := &img.Funcs[i]
		m.funcs[fn.Name] = fn
		if fn.Params > 0 {
			m.codes[fn.Name] = m.closureCode(fn)
		}
	}
	for i := range img.Funcs {
		fn := &img.Funcs[i]
		for pc, in := range fn.Code {
			switch in.Op {
			case OpPrim:
				p, ok := prims.Lookup(in.Name)
				if !ok {
					return nil, fmt.Errorf("%w: %s@%d: %w: %s", ErrBadImage, fn.Name, pc, prim.ErrUnknownPrim, in.Name)
				}
				if p.Arity != len(in.Args) {
					return nil, fmt.Errorf("%w: %s@%d: %w: %s expects %d arguments", ErrBadImage, fn.Name, pc, prim.ErrArity, in.Name, p.Arity)
				}
			case OpClosure:
				if _, ok := m.funcs[in.Name]; ok {
					continue
				}
				p, ok := prims.Lookup(in.Name)
				if !ok || p.Arity == 0 {
					return nil, fmt.Errorf("%w: %s@%d: closure over unknown function %q", ErrBadImage, fn.Name, pc, in.Name)
				}
				if len(in.Args) >= p.Arity {
					return nil, fmt.Errorf("%w: %s@%d: closure over %q fixes every parameter", ErrBadImage, fn.Name, pc, in.Name)
				}
			}
		}
	}
	return m, nil
}

// Image returns the image the machine runs.
func (m *Machine) Image() *Image { return m.img }

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() uint64 { return m.steps.Load() }

// Run executes the entry function under r.Run and returns the exit code.
func (m *Machine) Run(ctx context.Context, r *rt.Runtime) (int, error) {
	m.ctxs.Store(r, ctx)
	defer m.ctxs.Delete(r)
	entry := m.funcs[m.img.Entry]
	span := trace.Begin(r.Tracer(), trace.ScopeRuntime, "image:"+m.img.Name, r.ID())
	defer span.End("")
	return r.Run(func(r *rt.Runtime, world rt.Object) rt.Object {
		res, err := m.exec(ctx, r, entry, []rt.Object{world})
		if err != nil {
			raise(err)
		}
		return res
	})
}

// Call runs function name with owned args and returns its owned result.
func (m *Machine) Call(ctx context.Context, r *rt.Runtime, name string, args []rt.Object) (rt.Object, error) {
	fn, ok := m.funcs[name]
	if !ok {
		return rt.Null, fmt.Errorf("%w: unknown function %q", ErrBadImage, name)
	}
	if len(args) != fn.Params {
		return rt.Null, fmt.Errorf("%w: %s expects %d arguments, got %d", prim.ErrArity, name, fn.Params, len(args))
	}
	m.ctxs.Store(r, ctx)
	defer m.ctxs.Delete(r)
	return m.exec(ctx, r, fn, args)
}

func (m *Machine) contextFor(r *rt.Runtime) context.Context {
	if v, ok := m.ctxs.Load(r); ok {
		return v.(context.Context) //nolint:errcheck,forcetypeassert
	}
	return context.Background()
}

// closureCode wraps an image function as closure code. Failures unwind as
// runtime panics so that they cross Apply like native panics do.
func (m *Machine) closureCode(fn *Func) *rt.Fn {
	return &rt.Fn{Name: fn.Name, Arity: fn.Params, Code: func(r *rt.Runtime, args []rt.Object) rt.Object {
		res, err := m.exec(m.contextFor(r), r, fn, args)
		if err != nil {
			raise(err)
		}
		return res
	}}
}

func (m *Machine) codeFor(name string) *rt.Fn {
	if code, ok := m.codes[name]; ok {
		return code
	}
	p, _ := m.prims.Lookup(name)
	return p.Code()
}

// raise rethrows err as a runtime panic.
func raise(err error) {
	if re, ok := rt.AsRuntimeError(err); ok {
		panic(re)
	}
	panic(&rt.RuntimeError{Code: rt.PanicInternal, Message: err.Error()})
}

func newFrame(fn *Func, args []rt.Object, ret int) frame {
	regs := make([]rt.Object, fn.Regs)
	for i := range regs {
		regs[i] = rt.Box(0)
	}
	copy(regs, args)
	return frame{fn: fn, regs: regs, ret: ret}
}

// set stores v (owned) into register dst, releasing the previous value.
func set(r *rt.Runtime, fr *frame, dst int, v rt.Object) {
	r.Dec(fr.regs[dst])
	fr.regs[dst] = v
}

// share returns the register values for an operation that takes its operands
// owned; the registers keep their own references.
func share(r *rt.Runtime, fr *frame, idx []int) []rt.Object {
	out := make([]rt.Object, len(idx))
	for i, j := range idx {
		v := fr.regs[j]
		r.Inc(v)
		out[i] = v
	}
	return out
}

func releaseRegs(r *rt.Runtime, fr *frame) {
	for i, v := range fr.regs {
		r.Dec(v)
		fr.regs[i] = rt.Box(0)
	}
}

const ctxCheckInterval = 1024

// exec runs fn to completion with an explicit frame stack. Calls between
// image functions push frames; OpTail replaces the current frame so loops
// written as tail recursion run in constant stack.
func (m *Machine) exec(ctx context.Context, r *rt.Runtime, fn *Func, args []rt.Object) (res rt.Object, err error) {
	var (
		curFn = fn
		curPC int
	)
	defer func() {
		if rec := recover(); rec != nil {
			re, ok := rec.(*rt.RuntimeError)
			if !ok {
				panic(rec)
			}
			res, err = rt.Null, fmt.Errorf("%s@%d: %w", curFn.Name, curPC, re)
		}
	}()

	stack := []frame{newFrame(fn, args, -1)}
	var steps uint64
	defer func() { m.steps.Add(steps) }()
	for {
		fr := &stack[len(stack)-1]
		curFn, curPC = fr.fn, fr.pc
		in := &fr.fn.Code[fr.pc]
		fr.pc++
		steps++
		if steps%ctxCheckInterval == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return rt.Null, fmt.Errorf("%w: %w", ErrInterrupted, cerr)
			}
		}

		switch in.Op {
		case OpNop:

		case OpNat:
			switch {
			case in.Str != "":
				set(r, fr, in.Dst, r.NatOfString(in.Str))
			case in.Imm <= rt.MaxSmallNat:
				set(r, fr, in.Dst, rt.Box(in.Imm))
			default:
				set(r, fr, in.Dst, r.Uint64ToNat(in.Imm))
			}

		case OpInt:
			set(r, fr, in.Dst, r.IntOfString(in.Str))

		case OpString:
			set(r, fr, in.Dst, r.MkString(in.Str))

		case OpCopy:
			v := fr.regs[in.A]
			r.Inc(v)
			set(r, fr, in.Dst, v)

		case OpPrim:
			v, perr := m.prims.Call(r, in.Name, share(r, fr, in.Args))
			if perr != nil {
				return rt.Null, fmt.Errorf("%s@%d: %w", curFn.Name, curPC, perr)
			}
			set(r, fr, in.Dst, v)

		case OpCall:
			callee := m.funcs[in.Name]
			stack = append(stack, newFrame(callee, share(r, fr, in.Args), in.Dst))

		case OpTail:
			callee := m.funcs[in.Name]
			next := share(r, fr, in.Args)
			releaseRegs(r, fr)
			*fr = newFrame(callee, next, fr.ret)

		case OpClosure:
			set(r, fr, in.Dst, r.MkClosure(m.codeFor(in.Name), share(r, fr, in.Args)...))

		case OpApply:
			f := fr.regs[in.A]
			r.Inc(f)
			set(r, fr, in.Dst, r.ApplyM(f, share(r, fr, in.Args)))

		case OpCtor:
			fields := share(r, fr, in.Args)
			o := r.AllocCtor(uint8(in.Imm), len(fields), 0) //nolint:gosec // G115: validated tag.
			for i, v := range fields {
				r.CtorSet(o, i, v)
			}
			set(r, fr, in.Dst, o)

		case OpProj:
			v := r.CtorGet(fr.regs[in.A], int(in.Imm)) //nolint:gosec // G115: field indices are small.
			r.Inc(v)
			set(r, fr, in.Dst, v)

		case OpTag:
			set(r, fr, in.Dst, rt.Box(uint64(r.Tag(fr.regs[in.A]))))

		case OpJump:
			fr.pc = in.Target

		case OpJumpIf:
			if rt.UnboxBool(fr.regs[in.A]) {
				fr.pc = in.Target
			}

		case OpJumpIfNot:
			if !rt.UnboxBool(fr.regs[in.A]) {
				fr.pc = in.Target
			}

		case OpRet:
			v := fr.regs[in.A]
			fr.regs[in.A] = rt.Box(0)
			releaseRegs(r, fr)
			ret := fr.ret
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return v, nil
			}
			set(r, &stack[len(stack)-1], ret, v)

		case OpDrop:
			r.Dec(fr.regs[in.A])
			fr.regs[in.A] = rt.Box(0)

		default:
			return rt.Null, fmt.Errorf("%w: %s@%d: opcode %s", ErrBadImage, curFn.Name, curPC, in.Op)
		}
	}
}
