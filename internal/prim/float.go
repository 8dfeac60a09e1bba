package prim

import (
	"math"

	"leanrt/internal/rt"
)

func registerFloat(g *Registry) {
	registerFloating(g, f64Codec, (*rt.Runtime).FloatToString, (*rt.Runtime).FloatFrexp, (*rt.Runtime).FloatScaleB)
	registerFloating(g, f32Codec, (*rt.Runtime).Float32ToString, (*rt.Runtime).Float32Frexp, (*rt.Runtime).Float32ScaleB)

	registerAll(g,
		unary("lean_float_to_bits", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxUint64(rt.FloatToBits(r.UnboxFloat(a)))
		}),
		unary("lean_float_of_bits", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat(rt.FloatOfBits(r.UnboxUint64(a)))
		}),
		unary("lean_float32_to_bits", func(r *rt.Runtime, a rt.Object) rt.Object {
			return rt.BoxUint32(rt.Float32ToBits(r.UnboxFloat32(a)))
		}),
		unary("lean_float32_of_bits", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat32(rt.Float32OfBits(rt.UnboxUint32(a)))
		}),
		unary("lean_float_to_float32", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat32(float32(r.UnboxFloat(a)))
		}),
		unary("lean_float32_to_float", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat(float64(r.UnboxFloat32(a)))
		}),
	)

	floatToUnsigned(g, f64Codec, u8Codec)
	floatToUnsigned(g, f64Codec, u16Codec)
	floatToUnsigned(g, f64Codec, u32Codec)
	floatToUnsigned(g, f64Codec, u64Codec)
	floatToUnsigned(g, f64Codec, usizeCodec)
	floatToUnsigned(g, f32Codec, u8Codec)
	floatToUnsigned(g, f32Codec, u16Codec)
	floatToUnsigned(g, f32Codec, u32Codec)
	floatToUnsigned(g, f32Codec, u64Codec)
	floatToUnsigned(g, f32Codec, usizeCodec)
	floatToSigned(g, f64Codec, i8Codec)
	floatToSigned(g, f64Codec, i16Codec)
	floatToSigned(g, f64Codec, i32Codec)
	floatToSigned(g, f64Codec, i64Codec)
	floatToSigned(g, f64Codec, isizeCodec)
	floatToSigned(g, f32Codec, i8Codec)
	floatToSigned(g, f32Codec, i16Codec)
	floatToSigned(g, f32Codec, i32Codec)
	floatToSigned(g, f32Codec, i64Codec)
	floatToSigned(g, f32Codec, isizeCodec)
}

// lift applies a float64 function at precision F.
func lift[F rt.Floating](f func(float64) float64) func(F) F {
	return func(x F) F { return F(f(float64(x))) }
}

func registerFloating[F rt.Floating](g *Registry, c codec[F],
	toString func(*rt.Runtime, F) rt.Object,
	frexp func(*rt.Runtime, F) rt.Object,
	scaleB func(*rt.Runtime, F, rt.Object) F,
) {
	name := func(op string) string { return "lean_" + c.name + "_" + op }
	op2 := func(op string, f func(a, b F) F) Prim {
		return binary(name(op), func(r *rt.Runtime, a, b rt.Object) rt.Object {
			return c.box(r, f(c.unbox(r, a), c.unbox(r, b)))
		})
	}
	op1 := func(op string, f func(a F) F) Prim {
		return unary(name(op), func(r *rt.Runtime, a rt.Object) rt.Object {
			return c.box(r, f(c.unbox(r, a)))
		})
	}
	cmp := func(op string, f func(a, b F) bool) Prim {
		return predicate(name(op), func(r *rt.Runtime, a, b rt.Object) bool {
			return f(c.unbox(r, a), c.unbox(r, b))
		})
	}
	test := func(op string, f func(a F) bool) Prim {
		return unary(name(op), func(r *rt.Runtime, a rt.Object) rt.Object {
			return rt.BoxBool(f(c.unbox(r, a)))
		})
	}
	registerAll(g,
		op2("add", func(a, b F) F { return a + b }),
		op2("sub", func(a, b F) F { return a - b }),
		op2("mul", func(a, b F) F { return a * b }),
		op2("div", func(a, b F) F { return a / b }),
		op2("pow", func(a, b F) F { return F(math.Pow(float64(a), float64(b))) }),
		op2("atan2", func(a, b F) F { return F(math.Atan2(float64(a), float64(b))) }),
		op1("neg", func(a F) F { return -a }),
		op1("sqrt", lift[F](math.Sqrt)),
		op1("cbrt", lift[F](math.Cbrt)),
		op1("sin", lift[F](math.Sin)),
		op1("cos", lift[F](math.Cos)),
		op1("tan", lift[F](math.Tan)),
		op1("asin", lift[F](math.Asin)),
		op1("acos", lift[F](math.Acos)),
		op1("atan", lift[F](math.Atan)),
		op1("sinh", lift[F](math.Sinh)),
		op1("cosh", lift[F](math.Cosh)),
		op1("tanh", lift[F](math.Tanh)),
		op1("exp", lift[F](math.Exp)),
		op1("exp2", lift[F](math.Exp2)),
		op1("log", lift[F](math.Log)),
		op1("log2", lift[F](math.Log2)),
		op1("log10", lift[F](math.Log10)),
		op1("abs", lift[F](math.Abs)),
		op1("floor", lift[F](math.Floor)),
		op1("ceil", lift[F](math.Ceil)),
		op1("round", lift[F](rt.FloatRound)),
		cmp("dec_eq", rt.FloatDecEq[F]),
		cmp("dec_lt", rt.FloatDecLt[F]),
		cmp("dec_le", rt.FloatDecLe[F]),
		cmp("beq", rt.FloatDecEq[F]),
		test("isnan", rt.FloatIsNaN[F]),
		test("isinf", rt.FloatIsInf[F]),
		test("isfinite", rt.FloatIsFinite[F]),
		unary(name("to_string"), func(r *rt.Runtime, a rt.Object) rt.Object {
			return toString(r, c.unbox(r, a))
		}),
		unary(name("frexp"), func(r *rt.Runtime, a rt.Object) rt.Object {
			return frexp(r, c.unbox(r, a))
		}),
		binary(name("scaleb"), func(r *rt.Runtime, a, b rt.Object) rt.Object {
			return c.box(r, scaleB(r, c.unbox(r, a), b))
		}),
		unary(name("of_nat"), func(r *rt.Runtime, a rt.Object) rt.Object {
			return c.box(r, F(r.FloatOfNat(a)))
		}),
		unary(name("of_int"), func(r *rt.Runtime, a rt.Object) rt.Object {
			return c.box(r, F(r.FloatOfInt(a)))
		}),
		Prim{Name: name("of_scientific"), Arity: 3, Borrowed: borrowAll(3), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return c.box(r, F(r.FloatOfScientific(args[0], rt.UnboxBool(args[1]), args[2])))
		}},
	)
}

func floatToUnsigned[T rt.Unsigned, F rt.Floating](g *Registry, from codec[F], to codec[T]) {
	g.Register(unary("lean_"+from.name+"_to_"+to.name, func(r *rt.Runtime, a rt.Object) rt.Object {
		return to.box(r, rt.FloatToUint[T](from.unbox(r, a)))
	}))
}

func floatToSigned[T rt.Signed, F rt.Floating](g *Registry, from codec[F], to codec[T]) {
	g.Register(unary("lean_"+from.name+"_to_"+to.name, func(r *rt.Runtime, a rt.Object) rt.Object {
		return to.box(r, rt.FloatToSint[T](from.unbox(r, a)))
	}))
}
