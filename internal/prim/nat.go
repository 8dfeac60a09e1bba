package prim

import "leanrt/internal/rt"

func registerNat(g *Registry) {
	registerAll(g,
		binary("lean_nat_add", (*rt.Runtime).NatAdd),
		binary("lean_nat_sub", (*rt.Runtime).NatSub),
		binary("lean_nat_mul", (*rt.Runtime).NatMul),
		binary("lean_nat_div", (*rt.Runtime).NatDiv),
		binary("lean_nat_mod", (*rt.Runtime).NatMod),
		binary("lean_nat_pow", (*rt.Runtime).NatPow),
		binary("lean_nat_gcd", (*rt.Runtime).NatGcd),
		binary("lean_nat_shiftl", (*rt.Runtime).NatShiftL),
		binary("lean_nat_shiftr", (*rt.Runtime).NatShiftR),
		binary("lean_nat_land", (*rt.Runtime).NatLand),
		binary("lean_nat_lor", (*rt.Runtime).NatLor),
		binary("lean_nat_lxor", (*rt.Runtime).NatLxor),
		unary("lean_nat_succ", (*rt.Runtime).NatSucc),
		unary("lean_nat_pred", (*rt.Runtime).NatPred),
		unary("lean_nat_log2", (*rt.Runtime).NatLog2),
		unary("lean_nat_repr", (*rt.Runtime).NatToString),
		predicate("lean_nat_dec_eq", (*rt.Runtime).NatDecEq),
		predicate("lean_nat_dec_lt", (*rt.Runtime).NatDecLt),
		predicate("lean_nat_dec_le", (*rt.Runtime).NatDecLe),
		predicate("lean_nat_beq", (*rt.Runtime).NatDecEq),
		predicate("lean_nat_blt", (*rt.Runtime).NatDecLt),
		predicate("lean_nat_ble", (*rt.Runtime).NatDecLe),
		predicate("lean_nat_test_bit", (*rt.Runtime).NatTestBit),
		unary("lean_nat_to_float", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxFloat(r.NatToFloat(a))
		}),
	)
}
