// Package image defines program images: versioned msgpack payloads holding
// register-machine functions that call runtime primitives by name.
package image

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the Image format changes.
const SchemaVersion uint16 = 1

// Magic identifies an image payload.
const Magic = "leanrt-image"

var (
	// ErrBadImage reports a payload that is not a valid image.
	ErrBadImage = errors.New("invalid image")
	// ErrSchema reports an image written by an incompatible version.
	ErrSchema = errors.New("unsupported image schema")
)

// Op is an instruction opcode.
type Op uint8

const (
	OpNop     Op = iota
	OpNat        // Dst = Nat Imm, or the decimal literal Str when set
	OpInt        // Dst = Int literal Str
	OpString     // Dst = String Str
	OpCopy       // Dst = A, sharing the value
	OpPrim       // Dst = primitive Name(Args...)
	OpCall       // Dst = function Name(Args...)
	OpTail       // return function Name(Args...), reusing the frame
	OpClosure    // Dst = closure over function or primitive Name with fixed Args
	OpApply      // Dst = A(Args...)
	OpCtor       // Dst = constructor Imm with fields Args
	OpProj       // Dst = field Imm of A
	OpTag        // Dst = constructor index of A
	OpJump       // goto Target
	OpJumpIf     // goto Target when A is true
	OpJumpIfNot  // goto Target when A is false
	OpRet        // return A
	OpDrop       // release A
	opCount
)

var opNames = [...]string{
	OpNop:       "nop",
	OpNat:       "nat",
	OpInt:       "int",
	OpString:    "string",
	OpCopy:      "copy",
	OpPrim:      "prim",
	OpCall:      "call",
	OpTail:      "tail",
	OpClosure:   "closure",
	OpApply:     "apply",
	OpCtor:      "ctor",
	OpProj:      "proj",
	OpTag:       "tag",
	OpJump:      "jump",
	OpJumpIf:    "jump_if",
	OpJumpIfNot: "jump_if_not",
	OpRet:       "ret",
	OpDrop:      "drop",
}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Instr is one register-machine instruction. Registers own their values:
// every operand is shared into the operation and every write releases the
// previous register contents.
type Instr struct {
	Op     Op     `msgpack:"op"`
	Dst    int    `msgpack:"d,omitempty"`
	A      int    `msgpack:"a,omitempty"`
	Args   []int  `msgpack:"x,omitempty"`
	Name   string `msgpack:"n,omitempty"`
	Imm    uint64 `msgpack:"i,omitempty"`
	Str    string `msgpack:"s,omitempty"`
	Target int    `msgpack:"t,omitempty"`
}

// Func is a function body. Parameters arrive in registers 0..Params-1.
type Func struct {
	Name   string  `msgpack:"name"`
	Params int     `msgpack:"params"`
	Regs   int     `msgpack:"regs"`
	Code   []Instr `msgpack:"code"`
}

// Image is a complete program. Entry takes the world token and returns an
// IO result.
type Image struct {
	Magic  string `msgpack:"magic"`
	Schema uint16 `msgpack:"schema"`
	Name   string `msgpack:"name"`
	Entry  string `msgpack:"entry"`
	Funcs  []Func `msgpack:"funcs"`
}

// Func finds a function by name.
func (img *Image) Func(name string) (*Func, bool) {
	for i := range img.Funcs {
		if img.Funcs[i].Name == name {
			return &img.Funcs[i], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants the machine relies on: known
// opcodes, register and jump bounds, and call arities between functions.
// Primitive names are checked when a Machine is created.
func (img *Image) Validate() error {
	if img.Magic != Magic {
		return fmt.Errorf("%w: bad magic %q", ErrBadImage, img.Magic)
	}
	if img.Schema != SchemaVersion {
		return fmt.Errorf("%w: schema %d (want %d)", ErrSchema, img.Schema, SchemaVersion)
	}
	funcs := make(map[string]*Func, len(img.Funcs))
	for i := range img.Funcs {
		fn := &img.Funcs[i]
		if _, dup := funcs[fn.Name]; dup {
			return fmt.Errorf("%w: duplicate function %q", ErrBadImage, fn.Name)
		}
		funcs[fn.Name] = fn
	}
	entry, ok := funcs[img.Entry]
	if !ok {
		return fmt.Errorf("%w: entry %q not found", ErrBadImage, img.Entry)
	}
	if entry.Params != 1 {
		return fmt.Errorf("%w: entry %q must take the world token", ErrBadImage, img.Entry)
	}
	for i := range img.Funcs {
		if err := img.Funcs[i].validate(funcs); err != nil {
			return err
		}
	}
	return nil
}

func (fn *Func) validate(funcs map[string]*Func) error {
	bad := func(pc int, format string, args ...any) error {
		return fmt.Errorf("%w: %s@%d: %s", ErrBadImage, fn.Name, pc, fmt.Sprintf(format, args...))
	}
	if fn.Params < 0 || fn.Params > fn.Regs {
		return bad(0, "%d params with %d registers", fn.Params, fn.Regs)
	}
	if len(fn.Code) == 0 {
		return bad(0, "empty body")
	}
	reg := func(i int) bool { return i >= 0 && i < fn.Regs }
	for pc, in := range fn.Code {
		if in.Op >= opCount {
			return bad(pc, "unknown opcode %d", in.Op)
		}
		if writesDst(in.Op) && !reg(in.Dst) {
			return bad(pc, "%s writes register %d", in.Op, in.Dst)
		}
		if readsA(in.Op) && !reg(in.A) {
			return bad(pc, "%s reads register %d", in.Op, in.A)
		}
		for _, a := range in.Args {
			if !reg(a) {
				return bad(pc, "%s reads register %d", in.Op, a)
			}
		}
		switch in.Op {
		case OpJump, OpJumpIf, OpJumpIfNot:
			if in.Target < 0 || in.Target >= len(fn.Code) {
				return bad(pc, "jump target %d", in.Target)
			}
		case OpCall, OpTail:
			callee, ok := funcs[in.Name]
			if !ok {
				return bad(pc, "unknown function %q", in.Name)
			}
			if callee.Params != len(in.Args) {
				return bad(pc, "%q expects %d arguments, got %d", in.Name, callee.Params, len(in.Args))
			}
		case OpClosure:
			if callee, ok := funcs[in.Name]; ok && len(in.Args) >= callee.Params {
				return bad(pc, "closure over %q fixes %d of %d parameters", in.Name, len(in.Args), callee.Params)
			}
		case OpCtor:
			if in.Imm > 244 {
				return bad(pc, "constructor tag %d", in.Imm)
			}
		}
	}
	switch fn.Code[len(fn.Code)-1].Op {
	case OpRet, OpTail, OpJump:
	default:
		return bad(len(fn.Code)-1, "body does not end in ret, tail or jump")
	}
	return nil
}

func writesDst(op Op) bool {
	switch op {
	case OpNat, OpInt, OpString, OpCopy, OpPrim, OpCall, OpClosure, OpApply, OpCtor, OpProj, OpTag:
		return true
	}
	return false
}

func readsA(op Op) bool {
	switch op {
	case OpCopy, OpApply, OpProj, OpTag, OpJumpIf, OpJumpIfNot, OpRet, OpDrop:
		return true
	}
	return false
}

// Encode writes img as msgpack.
func Encode(w io.Writer, img *Image) error {
	return msgpack.NewEncoder(w).Encode(img)
}

// Decode reads and validates an image.
func Decode(r io.Reader) (*Image, error) {
	var img Image
	if err := msgpack.NewDecoder(r).Decode(&img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadImage, err)
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return &img, nil
}

// Marshal returns the msgpack encoding of img.
func Marshal(img *Image) ([]byte, error) {
	return msgpack.Marshal(img)
}

// Unmarshal decodes and validates an image from data.
func Unmarshal(data []byte) (*Image, error) {
	var img Image
	if err := msgpack.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadImage, err)
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return &img, nil
}

// Save writes img to path through a temporary file and an atomic rename.
func Save(path string, img *Image) (err error) {
	if err := img.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".image-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name()) //nolint:errcheck
		}
	}()
	if err = Encode(f, img); err != nil {
		_ = f.Close() //nolint:errcheck
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads and validates the image at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close() //nolint:errcheck
	}()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
