package image

import "fmt"

// Builder assembles an image in Go code.
type Builder struct {
	img   Image
	funcs []*FuncBuilder
}

// NewBuilder starts an image whose entry function is entry.
func NewBuilder(name, entry string) *Builder {
	return &Builder{img: Image{Magic: Magic, Schema: SchemaVersion, Name: name, Entry: entry}}
}

// Reg is a register index.
type Reg int

// Label is a jump target that may be bound after it is used.
type Label struct {
	pc    int
	bound bool
	uses  []int
}

// FuncBuilder assembles one function.
type FuncBuilder struct {
	fn     Func
	labels []*Label
}

// Func starts a function with params parameters, available as registers
// 0..params-1.
func (b *Builder) Func(name string, params int) *FuncBuilder {
	f := &FuncBuilder{fn: Func{Name: name, Params: params, Regs: params}}
	b.funcs = append(b.funcs, f)
	return f
}

// Build resolves labels and validates the image.
func (b *Builder) Build() (*Image, error) {
	img := b.img
	img.Funcs = make([]Func, 0, len(b.funcs))
	for _, f := range b.funcs {
		for _, l := range f.labels {
			if !l.bound {
				return nil, fmt.Errorf("%w: %s: unbound label", ErrBadImage, f.fn.Name)
			}
			for _, pc := range l.uses {
				f.fn.Code[pc].Target = l.pc
			}
		}
		img.Funcs = append(img.Funcs, f.fn)
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return &img, nil
}

// MustBuild is Build for images assembled from constant code.
func (b *Builder) MustBuild() *Image {
	img, err := b.Build()
	if err != nil {
		panic(err)
	}
	return img
}

// Param returns the register holding parameter i.
func (f *FuncBuilder) Param(i int) Reg {
	return Reg(i)
}

// Reg allocates a fresh register.
func (f *FuncBuilder) Reg() Reg {
	f.fn.Regs++
	return Reg(f.fn.Regs - 1)
}

// NewLabel returns an unbound label.
func (f *FuncBuilder) NewLabel() *Label {
	l := &Label{}
	f.labels = append(f.labels, l)
	return l
}

// Bind binds l to the next instruction.
func (f *FuncBuilder) Bind(l *Label) {
	l.pc = len(f.fn.Code)
	l.bound = true
}

func (f *FuncBuilder) emit(in Instr) {
	f.fn.Code = append(f.fn.Code, in)
}

func (f *FuncBuilder) jump(op Op, a Reg, l *Label) {
	l.uses = append(l.uses, len(f.fn.Code))
	f.emit(Instr{Op: op, A: int(a)})
}

func regs(rs []Reg) []int {
	if len(rs) == 0 {
		return nil
	}
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = int(r)
	}
	return out
}

func (f *FuncBuilder) Nat(dst Reg, v uint64) { f.emit(Instr{Op: OpNat, Dst: int(dst), Imm: v}) }

// BigNat loads a decimal Nat literal of any size.
func (f *FuncBuilder) BigNat(dst Reg, lit string) { f.emit(Instr{Op: OpNat, Dst: int(dst), Str: lit}) }

func (f *FuncBuilder) Int(dst Reg, lit string) { f.emit(Instr{Op: OpInt, Dst: int(dst), Str: lit}) }
func (f *FuncBuilder) String(dst Reg, s string) { f.emit(Instr{Op: OpString, Dst: int(dst), Str: s}) }
func (f *FuncBuilder) Copy(dst, src Reg) { f.emit(Instr{Op: OpCopy, Dst: int(dst), A: int(src)}) }
func (f *FuncBuilder) Drop(r Reg) { f.emit(Instr{Op: OpDrop, A: int(r)}) }
func (f *FuncBuilder) Ret(r Reg) { f.emit(Instr{Op: OpRet, A: int(r)}) }
func (f *FuncBuilder) Tag(dst, src Reg) { f.emit(Instr{Op: OpTag, Dst: int(dst), A: int(src)}) }
func (f *FuncBuilder) Jump(l *Label) { f.jump(OpJump, 0, l) }
func (f *FuncBuilder) JumpIf(cond Reg, l *Label) { f.jump(OpJumpIf, cond, l) }
func (f *FuncBuilder) JumpIfNot(c Reg, l *Label) { f.jump(OpJumpIfNot, c, l) }

func (f *FuncBuilder) Proj(dst, src Reg, i int) {
	f.emit(Instr{Op: OpProj, Dst: int(dst), A: int(src), Imm: uint64(i)}) //nolint:gosec // G115: field indices are small.
}

func (f *FuncBuilder) Prim(dst Reg, name string, args ...Reg) {
	f.emit(Instr{Op: OpPrim, Dst: int(dst), Name: name, Args: regs(args)})
}

func (f *FuncBuilder) Call(dst Reg, name string, args ...Reg) {
	f.emit(Instr{Op: OpCall, Dst: int(dst), Name: name, Args: regs(args)})
}

func (f *FuncBuilder) Tail(name string, args ...Reg) {
	f.emit(Instr{Op: OpTail, Name: name, Args: regs(args)})
}

func (f *FuncBuilder) Closure(dst Reg, name string, fixed ...Reg) {
	f.emit(Instr{Op: OpClosure, Dst: int(dst), Name: name, Args: regs(fixed)})
}

func (f *FuncBuilder) Apply(dst, fn Reg, args ...Reg) {
	f.emit(Instr{Op: OpApply, Dst: int(dst), A: int(fn), Args: regs(args)})
}

func (f *FuncBuilder) Ctor(dst Reg, tag uint8, fields ...Reg) {
	f.emit(Instr{Op: OpCtor, Dst: int(dst), Imm: uint64(tag), Args: regs(fields)})
}
