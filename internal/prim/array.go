package prim

import "leanrt/internal/rt"

func registerArray(g *Registry) {
	registerAll(g,
		Prim{Name: "lean_array_mk", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayMk(args[0])
		}},
		Prim{Name: "lean_array_to_list", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayToList(args[0])
		}},
		Prim{Name: "lean_mk_array", Arity: 2, Borrowed: 1 << 0, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.MkArray(args[0], args[1])
		}},
		unary("lean_mk_empty_array_with_capacity", (*rt.Runtime).MkEmptyArrayWithCapacity),
		unary("lean_array_get_size", (*rt.Runtime).ArrayGetSize),
		binary("lean_array_fget", (*rt.Runtime).ArrayFGet),
		binary("lean_array_get_panic", (*rt.Runtime).ArrayGetPanic),
		binary("lean_array_uget", func(r *rt.Runtime, a, i rt.Object) rt.Object {
			return r.ArrayUGet(a, index(r, i))
		}),
		Prim{Name: "lean_array_get", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayGet(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_array_push", Arity: 2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayPush(args[0], args[1])
		}},
		Prim{Name: "lean_array_pop", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayPop(args[0])
		}},
		Prim{Name: "lean_copy_array", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.CopyArray(args[0])
		}},
		Prim{Name: "lean_array_uset", Arity: 3, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayUSet(args[0], index(r, args[1]), args[2])
		}},
		Prim{Name: "lean_array_fset", Arity: 3, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayFSet(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_array_set", Arity: 3, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArraySet(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_array_set_panic", Arity: 3, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArraySetPanic(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_array_uswap", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayUSwap(args[0], index(r, args[1]), index(r, args[2]))
		}},
		Prim{Name: "lean_array_fswap", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayFSwap(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_array_swap", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArraySwap(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_array_foldl", Arity: 3, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayFoldl(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_array_qsort", Arity: 2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ArrayQSort(args[0], args[1])
		}},
	)
	registerByteArray(g)
	registerFloatArray(g)
}

func registerByteArray(g *Registry) {
	registerAll(g,
		unary("lean_mk_empty_byte_array", (*rt.Runtime).MkEmptyByteArray),
		Prim{Name: "lean_byte_array_mk", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ByteArrayMk(args[0])
		}},
		Prim{Name: "lean_byte_array_data", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ByteArrayData(args[0])
		}},
		Prim{Name: "lean_byte_array_push", Arity: 2, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ByteArrayPush(args[0], rt.UnboxUint8(args[1]))
		}},
		unary("lean_byte_array_size", (*rt.Runtime).ByteArraySize),
		unary("lean_byte_array_copy", (*rt.Runtime).ByteArrayCopy),
		binary("lean_byte_array_uget", func(r *rt.Runtime, a, i rt.Object) rt.Object {
			return rt.BoxUint8(r.ByteArrayUGet(a, index(r, i)))
		}),
		binary("lean_byte_array_fget", func(r *rt.Runtime, a, i rt.Object) rt.Object {
			return rt.BoxUint8(r.ByteArrayFGet(a, i))
		}),
		binary("lean_byte_array_get", func(r *rt.Runtime, a, i rt.Object) rt.Object {
			return rt.BoxUint8(r.ByteArrayGet(a, i))
		}),
		Prim{Name: "lean_byte_array_uset", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ByteArrayUSet(args[0], index(r, args[1]), rt.UnboxUint8(args[2]))
		}},
		Prim{Name: "lean_byte_array_set", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ByteArraySet(args[0], args[1], rt.UnboxUint8(args[2]))
		}},
		predicate("lean_byte_array_dec_eq", (*rt.Runtime).ByteArrayDecEq),
	)
}

func registerFloatArray(g *Registry) {
	registerAll(g,
		unary("lean_mk_empty_float_array", (*rt.Runtime).MkEmptyFloatArray),
		Prim{Name: "lean_float_array_mk", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.FloatArrayMk(args[0])
		}},
		Prim{Name: "lean_float_array_data", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.FloatArrayData(args[0])
		}},
		Prim{Name: "lean_float_array_push", Arity: 2, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.FloatArrayPush(args[0], r.UnboxFloat(args[1]))
		}},
		unary("lean_float_array_size", (*rt.Runtime).FloatArraySize),
		binary("lean_float_array_uget", func(r *rt.Runtime, a, i rt.Object) rt.Object {
			return r.BoxFloat(r.FloatArrayUGet(a, index(r, i)))
		}),
		binary("lean_float_array_get", func(r *rt.Runtime, a, i rt.Object) rt.Object {
			return r.BoxFloat(r.FloatArrayGet(a, i))
		}),
		Prim{Name: "lean_float_array_uset", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.FloatArrayUSet(args[0], index(r, args[1]), r.UnboxFloat(args[2]))
		}},
	)
}
