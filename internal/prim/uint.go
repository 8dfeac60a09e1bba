package prim

import "leanrt/internal/rt"

func registerUint(g *Registry) {
	registerUnsigned(g, u8Codec)
	registerUnsigned(g, u16Codec)
	registerUnsigned(g, u32Codec)
	registerUnsigned(g, u64Codec)
	registerUnsigned(g, usizeCodec)

	convertUnsigned(g, u16Codec, u8Codec)
	convertUnsigned(g, u32Codec, u8Codec)
	convertUnsigned(g, u64Codec, u8Codec)
	convertUnsigned(g, usizeCodec, u8Codec)
	convertUnsigned(g, u8Codec, u16Codec)
	convertUnsigned(g, u32Codec, u16Codec)
	convertUnsigned(g, u64Codec, u16Codec)
	convertUnsigned(g, usizeCodec, u16Codec)
	convertUnsigned(g, u8Codec, u32Codec)
	convertUnsigned(g, u16Codec, u32Codec)
	convertUnsigned(g, u64Codec, u32Codec)
	convertUnsigned(g, usizeCodec, u32Codec)
	convertUnsigned(g, u8Codec, u64Codec)
	convertUnsigned(g, u16Codec, u64Codec)
	convertUnsigned(g, u32Codec, u64Codec)
	convertUnsigned(g, usizeCodec, u64Codec)
	convertUnsigned(g, u8Codec, usizeCodec)
	convertUnsigned(g, u16Codec, usizeCodec)
	convertUnsigned(g, u32Codec, usizeCodec)
	convertUnsigned(g, u64Codec, usizeCodec)

	g.Register(Prim{Name: "lean_uint64_mix_hash", Arity: 2, Borrowed: borrowAll(2), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
		return r.BoxUint64(rt.UInt64MixHash(r.UnboxUint64(args[0]), r.UnboxUint64(args[1])))
	}})
}

// registerUnsigned adds the lean_<width>_* arithmetic family for one width.
func registerUnsigned[T rt.Unsigned](g *Registry, c codec[T]) {
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
		op2("add", rt.UintAdd[T]),
		op2("sub", rt.UintSub[T]),
		op2("mul", rt.UintMul[T]),
		op2("div", rt.UintDiv[T]),
		op2("mod", rt.UintMod[T]),
		op2("land", rt.UintLand[T]),
		op2("lor", rt.UintLor[T]),
		op2("xor", rt.UintXor[T]),
		op2("shift_left", rt.UintShiftLeft[T]),
		op2("shift_right", rt.UintShiftRight[T]),
		op1("complement", rt.UintComplement[T]),
		op1("neg", rt.UintNeg[T]),
		op1("log2", rt.UintLog2[T]),
		cmp("dec_eq", rt.UintDecEq[T]),
		cmp("dec_lt", rt.UintDecLt[T]),
		cmp("dec_le", rt.UintDecLe[T]),
		unary("lean_"+c.name+"_of_nat", func(r *rt.Runtime, a rt.Object) rt.Object {
			return c.box(r, rt.UintOfNat[T](r, a))
		}),
		unary("lean_"+c.name+"_to_nat", func(r *rt.Runtime, a rt.Object) rt.Object {
			return rt.UintToNat(r, c.unbox(r, a))
		}),
		unary("lean_"+c.name+"_to_float", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat(rt.UintToFloat(c.unbox(r, a)))
		}),
		unary("lean_"+c.name+"_to_float32", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat32(rt.UintToFloat32(c.unbox(r, a)))
		}),
		unary("lean_"+c.name+"_repr", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.StringOfUint64(uint64(c.unbox(r, a)))
		}),
	)
}

func convertUnsigned[To, From rt.Unsigned](g *Registry, to codec[To], from codec[From]) {
	g.Register(unary("lean_"+from.name+"_to_"+to.name, func(r *rt.Runtime, a rt.Object) rt.Object {
		return to.box(r, rt.UintConvert[To](from.unbox(r, a)))
	}))
}
