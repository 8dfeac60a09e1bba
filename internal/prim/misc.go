package prim

import "leanrt/internal/rt"

func registerMisc(g *Registry) {
	constant := func(name string, v func(r *rt.Runtime) rt.Object) Prim {
		return unary(name, func(r *rt.Runtime, _ rt.Object) rt.Object { return v(r) })
	}
	registerAll(g,
		constant("lean_version_get_major", func(*rt.Runtime) rt.Object { return rt.Box(rt.VersionMajor) }),
		constant("lean_version_get_minor", func(*rt.Runtime) rt.Object { return rt.Box(rt.VersionMinor) }),
		constant("lean_version_get_patch", func(*rt.Runtime) rt.Object { return rt.Box(rt.VersionPatch) }),
		constant("lean_version_get_is_release", func(*rt.Runtime) rt.Object { return rt.BoxBool(rt.VersionRelease) }),
		constant("lean_version_get_special_desc", func(r *rt.Runtime) rt.Object { return r.MkString(rt.VersionSpecial) }),
		unary("lean_system_platform_nbits", func(_ *rt.Runtime, u rt.Object) rt.Object {
			return rt.SystemPlatformNbits(u)
		}),
		predicate("lean_strict_or", func(_ *rt.Runtime, a, b rt.Object) bool {
			return rt.StrictOr(rt.UnboxBool(a), rt.UnboxBool(b))
		}),
		predicate("lean_strict_and", func(_ *rt.Runtime, a, b rt.Object) bool {
			return rt.StrictAnd(rt.UnboxBool(a), rt.UnboxBool(b))
		}),
		predicate("lean_name_eq", (*rt.Runtime).NameEq),
		unary("lean_ptr_addr", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.BoxUSize(rt.PtrAddr(a))
		}),
		unary("lean_sorry", func(r *rt.Runtime, a rt.Object) rt.Object {
			return r.Sorry(rt.UnboxUint8(a))
		}),
		Prim{Name: "lean_panic_fn", Arity: 2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.PanicFn(args[0], args[1])
		}},
		Prim{Name: "lean_dbg_trace", Arity: 2, Borrowed: 1 << 0, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.DbgTrace(args[0], args[1])
		}},
		Prim{Name: "lean_dbg_trace_if_shared", Arity: 2, Borrowed: 1 << 0, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.DbgTraceIfShared(args[0], args[1])
		}},
		Prim{Name: "lean_dbg_sleep", Arity: 2, Borrowed: 1 << 0, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.DbgSleep(rt.UnboxUint32(args[0]), args[1])
		}},
	)
}
