package prim

import "leanrt/internal/rt"

func registerIO(g *Registry) {
	registerAll(g,
		binary("lean_io_prim_print", (*rt.Runtime).IOPrimPrint),
		binary("lean_io_prim_println", (*rt.Runtime).IOPrimPrintln),
		binary("lean_io_prim_eprint", (*rt.Runtime).IOPrimEprint),
		binary("lean_io_prim_eprintln", (*rt.Runtime).IOPrimEprintln),
		binary("lean_io_getenv", (*rt.Runtime).IOGetEnv),
		unary("lean_io_get_args", (*rt.Runtime).IOGetArgs),
		binary("lean_io_exit", func(r *rt.Runtime, code, w rt.Object) rt.Object {
			return r.IOExit(rt.UnboxUint8(code), w)
		}),
		Prim{Name: "lean_io_result_mk_ok", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.IOResultMkOk(args[0])
		}},
		Prim{Name: "lean_io_result_mk_error", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.IOResultMkError(args[0])
		}},
		Prim{Name: "lean_mk_io_user_error", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.MkIOUserError(args[0])
		}},
		Prim{Name: "lean_io_pure", Arity: 2, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.IOPure(args[0], args[1])
		}},
		Prim{Name: "lean_io_bind", Arity: 3, Borrowed: 1 << 2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.IOBind(args[0], args[1], args[2])
		}},
	)
}
