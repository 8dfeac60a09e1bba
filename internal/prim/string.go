package prim

import "leanrt/internal/rt"

func registerString(g *Registry) {
	char := func(name string, f func(r *rt.Runtime, s, i rt.Object) uint32) Prim {
		return binary(name, func(r *rt.Runtime, s, i rt.Object) rt.Object {
			return rt.BoxUint32(f(r, s, i))
		})
	}
	registerAll(g,
		Prim{Name: "lean_string_append", Arity: 2, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringAppend(args[0], args[1])
		}},
		Prim{Name: "lean_string_push", Arity: 2, Borrowed: 1 << 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringPush(args[0], rt.UnboxUint32(args[1]))
		}},
		Prim{Name: "lean_string_mk", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringMk(args[0])
		}},
		Prim{Name: "lean_string_data", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringData(args[0])
		}},
		Prim{Name: "lean_string_utf8_set", Arity: 3, Borrowed: 1<<1 | 1<<2, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringUTF8Set(args[0], args[1], rt.UnboxUint32(args[2]))
		}},
		Prim{Name: "lean_string_to_upper", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringToUpper(args[0])
		}},
		Prim{Name: "lean_string_to_lower", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringToLower(args[0])
		}},
		unary("lean_string_length", (*rt.Runtime).StringLength),
		unary("lean_string_utf8_byte_size", (*rt.Runtime).StringUTF8ByteSize),
		unary("lean_string_hash", func(r *rt.Runtime, s rt.Object) rt.Object {
			return r.BoxUint64(r.StringHash(s))
		}),
		unary("lean_string_to_utf8", (*rt.Runtime).StringToUTF8),
		unary("lean_string_from_utf8", (*rt.Runtime).StringFromUTF8),
		unary("lean_string_validate_utf8", func(r *rt.Runtime, a rt.Object) rt.Object {
			return rt.BoxBool(r.StringValidateUTF8(a))
		}),
		unary("lean_string_of_usize", func(r *rt.Runtime, c rt.Object) rt.Object {
			return r.StringOfUSize(r.UnboxUSize(c))
		}),
		unary("lean_substring_to_string", (*rt.Runtime).SubstringToString),
		predicate("lean_string_dec_eq", (*rt.Runtime).StringDecEq),
		predicate("lean_string_dec_lt", (*rt.Runtime).StringDecLt),
		predicate("lean_string_isprefixof", (*rt.Runtime).StringIsPrefixOf),
		predicate("lean_string_utf8_at_end", (*rt.Runtime).StringUTF8AtEnd),
		predicate("lean_string_is_valid_pos", (*rt.Runtime).StringIsValidPos),
		char("lean_string_utf8_get", (*rt.Runtime).StringUTF8Get),
		char("lean_string_utf8_get_fast", (*rt.Runtime).StringUTF8GetFast),
		char("lean_string_utf8_get_bang", (*rt.Runtime).StringUTF8GetBang),
		binary("lean_string_utf8_get_opt", (*rt.Runtime).StringUTF8GetOpt),
		binary("lean_string_utf8_next", (*rt.Runtime).StringUTF8Next),
		binary("lean_string_utf8_next_fast", (*rt.Runtime).StringUTF8NextFast),
		binary("lean_string_utf8_prev", (*rt.Runtime).StringUTF8Prev),
		binary("lean_string_get_byte_fast", func(r *rt.Runtime, s, i rt.Object) rt.Object {
			return rt.BoxUint8(r.StringGetByteFast(s, i))
		}),
		Prim{Name: "lean_string_utf8_extract", Arity: 3, Borrowed: borrowAll(3), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringUTF8Extract(args[0], args[1], args[2])
		}},
		Prim{Name: "lean_string_memcmp", Arity: 5, Borrowed: borrowAll(5), Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return rt.BoxBool(r.StringMemcmp(args[0], args[1], args[2], args[3], args[4]))
		}},

		Prim{Name: "lean_string_mk_iterator", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.MkStringIterator(args[0])
		}},
		Prim{Name: "lean_string_iterator_next", Arity: 1, Fn: func(r *rt.Runtime, args []rt.Object) rt.Object {
			return r.StringIteratorNext(args[0])
		}},
		unary("lean_string_iterator_curr", func(r *rt.Runtime, it rt.Object) rt.Object {
			return rt.BoxUint32(r.StringIteratorCurr(it))
		}),
		unary("lean_string_iterator_has_next", func(r *rt.Runtime, it rt.Object) rt.Object {
			return rt.BoxBool(r.StringIteratorHasNext(it))
		}),
	)
}
