package prim

import "leanrt/internal/rt"

func registerSint(g *Registry) {
	registerSigned(g, i8Codec)
	registerSigned(g, i16Codec)
	registerSigned(g, i32Codec)
	registerSigned(g, i64Codec)
	registerSigned(g, isizeCodec)

	convertSigned(g, i16Codec, i8Codec)
	convertSigned(g, i32Codec, i8Codec)
	convertSigned(g, i64Codec, i8Codec)
	convertSigned(g, isizeCodec, i8Codec)
	convertSigned(g, i8Codec, i16Codec)
	convertSigned(g, i32Codec, i16Codec)
	convertSigned(g, i64Codec, i16Codec)
	convertSigned(g, isizeCodec, i16Codec)
	convertSigned(g, i8Codec, i32Codec)
	convertSigned(g, i16Codec, i32Codec)
	convertSigned(g, i64Codec, i32Codec)
	convertSigned(g, isizeCodec, i32Codec)
	convertSigned(g, i8Codec, i64Codec)
	convertSigned(g, i16Codec, i64Codec)
	convertSigned(g, i32Codec, i64Codec)
	convertSigned(g, isizeCodec, i64Codec)
	convertSigned(g, i8Codec, isizeCodec)
	convertSigned(g, i16Codec, isizeCodec)
	convertSigned(g, i32Codec, isizeCodec)
	convertSigned(g, i64Codec, isizeCodec)
}

// registerSigned adds the lean_int<width>_* family. Arithmetic wraps in two's
// complement and shifts take the amount modulo the width.
func registerSigned[T rt.Signed](g *Registry, c codec[T]) {
	op2 := func(op string, f func(a, b T) T) Prim {
		return binary("lean_"+c.name+"_"+op, func(r *rt.Runtime, a, b rt.Object) rt.Object {
			return c.box(r, f(c.unbox(r, a), c.unbox(r, b)))
		})
	}
	op1 := func(op string, f func(a T) T) Prim {
		return unary("lean_"+c.name+"_"+op, func(r *rt.Runtime, a rt.Object) rt.Object {
			return c.box(r, f(c.unbox(r, a)))
		})
	}
	cmp := func(op string, f func(a, b T) bool) Prim {
		return predicate("lean_"+c.name+"_"+op, func(r *rt.Runtime, a, b rt.Object) bool {
			return f(c.unbox(r, a), c.unbox(r, b))
		})
	}
	registerAll(g,
		op2("add", rt.SintAdd[T]),
		op2("sub", rt.SintSub[T]),
		op2("mul", rt.SintMul[T]),
		op2("div", rt.SintDiv[T]),
		op2("mod", rt.SintMod[T]),
		op2("land", rt.SintLand[T]),
		op2("lor", rt.SintLor[T]),
		op2("xor", rt.SintXor[T]),
		op2("shift_left", rt.SintShiftLeft[T]),
		op2("shift_right", rt.SintShiftRight[T]),
		op1("complement", rt.SintComplement[T]),
		op1("neg", rt.SintNeg[T]),
		op1("abs", rt.SintAbs[T]),
		cmp("dec_eq", rt.SintDecEq[T]),
		cmp("dec_lt", rt.SintDecLt[T]),
		cmp("dec_le", rt.SintDecLe[T]),
		unary("lean_"+c.name+"_of_int", func(r *rt.Runtime, a rt.Object) rt.Object {
			return c.box(r, rt.SintOfInt[T](r, a))
		}),
		unary("lean_"+c.name+"_of_nat", func(r *rt.Runtime, a rt.Object) rt.Object {
			return c.box(r, rt.SintOfNat[T](r, a))
		}),
		unary("lean_"+c.name+"_to_int", func(r *rt.Runtime, a rt.Object) rt.Object {
			return rt.SintToInt(r, c.unbox(r, a))
		}),
		unary("lean_"+c.name+"_to_nat", func(r *rt.Runtime, a rt.Object) rt.Object {
			return rt.SintToNat(c.unbox(r, a))
		}),
		unary("lean_"+c.name+"_to_float", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat(rt.SintToFloat(c.unbox(r, a)))
		}),
		unary("lean_"+c.name+"_to_float32", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat32(rt.SintToFloat32(c.unbox(r, a)))
		}),
		unary("lean_"+c.name+"_repr", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.StringOfInt64(int64(c.unbox(r, a)))
		}),
	)
}

func convertSigned[To, From rt.Signed](g *Registry, to codec[To], from codec[From]) {
	g.Register(unary("lean_"+from.name+"_to_"+to.name, func(r *rt.Runtime, a rt.Object) rt.Object {
		return to.box(r, rt.SintConvert[To](from.unbox(r, a)))
	}))
}
