package programs

import "leanrt/internal/image"

// printReg prints the decimal form of the Nat in v through tmp, leaving the
// IO result in out.
func printReg(f *image.FuncBuilder, repr string, out, tmp, v, world image.Reg) {
	f.Prim(tmp, repr, v)
	f.Prim(out, "lean_io_prim_println", tmp, world)
}

// countLoop emits acc := sum of [0, n) into acc using i and cond as scratch.
func countLoop(f *image.FuncBuilder, acc, i, n, one, cond image.Reg) {
	f.Nat(acc, 0)
	f.Nat(i, 0)
	f.Nat(one, 1)
	loop, done := f.NewLabel(), f.NewLabel()
	f.Bind(loop)
	f.Prim(cond, "lean_nat_dec_lt", i, n)
	f.JumpIfNot(cond, done)
	f.Prim(acc, "lean_nat_add", acc, i)
	f.Prim(i, "lean_nat_add", i, one)
	f.Jump(loop)
	f.Bind(done)
}

func foldImage() *image.Image {
	b := image.NewBuilder("fold", "main")
	f := b.Func("main", 1)
	world := f.Param(0)
	acc, i, n, one, cond, out, tmp := f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg()
	f.Nat(n, foldCount)
	countLoop(f, acc, i, n, one, cond)
	printReg(f, "lean_nat_repr", out, tmp, acc, world)
	f.Ret(out)
	return b.MustBuild()
}

func closuresImage() *image.Image {
	b := image.NewBuilder("closures", "main")

	add := b.Func("add3", 3)
	sum := add.Reg()
	add.Prim(sum, "lean_nat_add", add.Param(0), add.Param(1))
	add.Prim(sum, "lean_nat_add", sum, add.Param(2))
	add.Ret(sum)

	tw := b.Func("twice", 2)
	y := tw.Reg()
	tw.Apply(y, tw.Param(0), tw.Param(1))
	tw.Apply(y, tw.Param(0), y)
	tw.Ret(y)

	f := b.Func("main", 1)
	world := f.Param(0)
	a, c, k, v, out, tmp := f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg()
	f.Nat(a, 1)
	f.Closure(k, "add3", a)
	f.Nat(a, 2)
	f.Nat(c, 3)
	f.Apply(v, k, a, c)
	printReg(f, "lean_nat_repr", out, tmp, v, world)

	f.Nat(a, 6)
	f.Closure(k, "lean_nat_mul", a)
	f.Nat(a, 7)
	f.Apply(v, k, a)
	printReg(f, "lean_nat_repr", out, tmp, v, world)

	f.Nat(a, 1)
	f.Nat(c, 2)
	f.Closure(k, "add3", a, c)
	f.Nat(a, 10)
	f.Call(v, "twice", k, a)
	printReg(f, "lean_nat_repr", out, tmp, v, world)
	f.Ret(out)
	return b.MustBuild()
}

func stringsImage() *image.Image {
	b := image.NewBuilder("strings", "main")
	f := b.Func("main", 1)
	world := f.Param(0)
	s, part, ch, n, out, tmp := f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg()
	f.String(s, "hello")
	f.String(part, ", ")
	f.Prim(s, "lean_string_append", s, part)
	f.String(part, "world")
	f.Prim(s, "lean_string_append", s, part)
	f.Nat(ch, '!')
	f.Prim(s, "lean_string_push", s, ch)
	f.Prim(out, "lean_io_prim_println", s, world)

	f.Prim(n, "lean_string_length", s)
	printReg(f, "lean_nat_repr", out, tmp, n, world)

	f.Prim(s, "lean_string_to_upper", s)
	f.Prim(out, "lean_io_prim_println", s, world)
	f.Ret(out)
	return b.MustBuild()
}

func numbersImage() *image.Image {
	b := image.NewBuilder("numbers", "main")
	f := b.Func("main", 1)
	world := f.Param(0)
	pow, fact, g, i, n, one, cond, out, tmp := f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg()
	f.Nat(i, 2)
	f.Nat(n, 100)
	f.Prim(pow, "lean_nat_pow", i, n)
	printReg(f, "lean_nat_repr", out, tmp, pow, world)

	f.Nat(fact, 1)
	f.Nat(i, 1)
	f.Nat(n, 25)
	f.Nat(one, 1)
	loop, done := f.NewLabel(), f.NewLabel()
	f.Bind(loop)
	f.Prim(cond, "lean_nat_dec_le", i, n)
	f.JumpIfNot(cond, done)
	f.Prim(fact, "lean_nat_mul", fact, i)
	f.Prim(i, "lean_nat_add", i, one)
	f.Jump(loop)
	f.Bind(done)
	printReg(f, "lean_nat_repr", out, tmp, fact, world)

	f.Prim(g, "lean_nat_gcd", pow, fact)
	printReg(f, "lean_nat_repr", out, tmp, g, world)

	x, y := f.Reg(), f.Reg()
	f.Int(x, "-7")
	f.Int(y, "2")
	for _, op := range []string{"lean_int_div", "lean_int_mod", "lean_int_ediv", "lean_int_emod"} {
		f.Prim(g, op, x, y)
		printReg(f, "lean_int_repr", out, tmp, g, world)
	}
	f.Ret(out)
	return b.MustBuild()
}

func thunksImage() *image.Image {
	b := image.NewBuilder("thunks", "main")

	body := b.Func("sumTo100", 1)
	acc, i, n, one, cond := body.Reg(), body.Reg(), body.Reg(), body.Reg(), body.Reg()
	body.Nat(n, 100)
	countLoop(body, acc, i, n, one, cond)
	body.Ret(acc)

	f := b.Func("main", 1)
	world := f.Param(0)
	c, t, v, out, tmp := f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg()
	f.Closure(c, "sumTo100")
	f.Prim(t, "lean_mk_thunk", c)
	f.Drop(c)
	f.Prim(v, "lean_thunk_get_own", t)
	printReg(f, "lean_nat_repr", out, tmp, v, world)
	f.Prim(v, "lean_thunk_get_own", t)
	printReg(f, "lean_nat_repr", out, tmp, v, world)

	f.Nat(v, 2)
	f.Closure(c, "lean_nat_mul", v)
	f.Prim(t, "lean_thunk_map", c, t)
	f.Prim(v, "lean_thunk_get_own", t)
	printReg(f, "lean_nat_repr", out, tmp, v, world)
	f.Ret(out)
	return b.MustBuild()
}

func refsImage() *image.Image {
	b := image.NewBuilder("refs", "main")
	f := b.Func("main", 1)
	world := f.Param(0)
	ref, res, v, i, n, one, cond, out, tmp := f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg(), f.Reg()
	f.Nat(v, 0)
	f.Prim(res, "lean_io_ref_new", v, world)
	f.Proj(ref, res, 0)
	f.Nat(i, 0)
	f.Nat(n, 10)
	f.Nat(one, 1)
	loop, done := f.NewLabel(), f.NewLabel()
	f.Bind(loop)
	f.Prim(cond, "lean_nat_dec_lt", i, n)
	f.JumpIfNot(cond, done)
	f.Prim(res, "lean_io_ref_get", ref, world)
	f.Proj(v, res, 0)
	f.Prim(v, "lean_nat_succ", v)
	f.Prim(res, "lean_io_ref_set", ref, v, world)
	f.Prim(i, "lean_nat_add", i, one)
	f.Jump(loop)
	f.Bind(done)
	f.Prim(res, "lean_io_ref_get", ref, world)
	f.Proj(v, res, 0)
	printReg(f, "lean_nat_repr", out, tmp, v, world)
	f.Ret(out)
	return b.MustBuild()
}

func uncaughtImage() *image.Image {
	b := image.NewBuilder("uncaught", "main")
	f := b.Func("main", 1)
	world := f.Param(0)
	s, e, out := f.Reg(), f.Reg(), f.Reg()
	f.String(s, "before")
	f.Prim(out, "lean_io_prim_println", s, world)
	f.String(s, "boom")
	f.Prim(e, "lean_mk_io_user_error", s)
	f.Prim(out, "lean_io_result_mk_error", e)
	f.Ret(out)
	return b.MustBuild()
}

func boundsImage() *image.Image {
	b := image.NewBuilder("bounds", "main")
	f := b.Func("main", 1)
	world := f.Param(0)
	arr, idx, v, out := f.Reg(), f.Reg(), f.Reg(), f.Reg()
	f.Nat(idx, 0)
	f.Prim(arr, "lean_mk_empty_array_with_capacity", idx)
	f.Nat(idx, 5)
	f.Prim(v, "lean_array_get_panic", arr, idx)
	f.Prim(out, "lean_io_pure", v, world)
	f.Ret(out)
	return b.MustBuild()
}
