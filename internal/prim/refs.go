package prim

import "leanrt/internal/rt"

// registerRefs adds the ST reference primitives under both the lean_st_ref
// and lean_io_ref names. The trailing argument is the world token.
func registerRefs(g *Registry) {
	for _, prefix := range []string{"lean_st_ref_", "lean_io_ref_"} {
		registerAll(g,
			Prim{Name: prefix + "new", Arity: 2, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
				return r.IORefNew(args[0], args[1])
			}},
			Prim{Name: prefix + "get", Arity: 2, Borrowed: borrowAll(2), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
				return r.IORefGet(args[0], args[1])
			}},
			Prim{Name: prefix + "set", Arity: 3, Borrowed: 1<<0 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
				return r.IORefSet(args[0], args[1], args[2])
			}},
			Prim{Name: prefix + "swap", Arity: 3, Borrowed: 1<<0 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
				return r.IORefSwap(args[0], args[1], args[2])
			}},
			Prim{Name: prefix + "take", Arity: 2, Borrowed: borrowAll(2), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
				return r.IORefTake(args[0], args[1])
			}},
			Prim{Name: prefix + "ptr_eq", Arity: 3, Borrowed: borrowAll(3), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
				return r.IORefPtrEq(args[0], args[1], args[2])
			}},
		)
	}
}

func registerThunk(g *Registry) {
	registerAll(g,
		Prim{Name: "lean_mk_thunk", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.MkThunk(args[0])
		}},
		Prim{Name: "lean_thunk_pure", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ThunkPure(args[0])
		}},
		unary("lean_thunk_get_own", (*rt.Runtime).ThunkGetOwn),
		Prim{Name: "lean_thunk_map", Arity: 2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ThunkMap(args[0], args[1])
		}},
		Prim{Name: "lean_thunk_bind", Arity: 2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.ThunkBind(args[0], args[1])
		}},
	)
}
