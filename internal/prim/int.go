package prim

import "leanrt/internal/rt"

func registerInt(g *Registry) {
	registerAll(g,
		unary("lean_nat_to_int", (*rt.Runtime).NatToInt),
		unary("lean_int_neg_succ_of_nat", (*rt.Runtime).IntNegSuccOfNat),
		unary("lean_nat_abs", (*rt.Runtime).IntNatAbs),
		unary("lean_int_to_nat", (*rt.Runtime).IntToNat),
		unary("lean_int_neg", (*rt.Runtime).IntNeg),
		unary("lean_int_repr", (*rt.Runtime).IntToString),
		binary("lean_int_add", (*rt.Runtime).IntAdd),
		binary("lean_int_sub", (*rt.Runtime).IntSub),
		binary("lean_int_mul", (*rt.Runtime).IntMul),
		binary("lean_int_div", (*rt.Runtime).IntDiv),
		binary("lean_int_mod", (*rt.Runtime).IntMod),
		binary("lean_int_ediv", (*rt.Runtime).IntEDiv),
		binary("lean_int_emod", (*rt.Runtime).IntEMod),
		binary("lean_int_land", (*rt.Runtime).IntLand),
		binary("lean_int_lor", (*rt.Runtime).IntLor),
		binary("lean_int_xor", (*rt.Runtime).IntXor),
		binary("lean_int_shift_right", (*rt.Runtime).IntShiftR),
		predicate("lean_int_dec_eq", (*rt.Runtime).IntDecEq),
		predicate("lean_int_dec_lt", (*rt.Runtime).IntDecLt),
		predicate("lean_int_dec_le", (*rt.Runtime).IntDecLe),
		unary("lean_int_dec_nonneg", func(r *rt.Runtime, a rt.Object) rt.Object {
			return rt.BoxBool(r.IntDecNonneg(a))
		}),
		unary("lean_int_to_float", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat(r.IntToFloat(a))
		}),
	)
}
