package programs

import "leanrt/internal/rt"

const foldCount = 10_000

// say prints s, taking it, and returns the IO result.
func say(r *rt.Runtime, s, world rt.Object) rt.Object {
	res := r.IOPrimPrintln(s, world)
	r.Dec(s)
	return res
}

// printNat prints the decimal form of n (borrowed), discarding the result.
func printNat(r *rt.Runtime, n, world rt.Object) {
	r.Dec(say(r, r.NatToString(n), world))
}

func printInt(r *rt.Runtime, i, world rt.Object) {
	r.Dec(say(r, r.IntToString(i), world))
}

// foldStep is fold i n acc: a self tail call until i reaches n.
var foldStep *rt.Fn

func init() {
	foldStep = &rt.Fn{Name: "fold.step", Arity: 3, Code: func(r *rt.Runtime, args []rt.Object) rt.Object {
		i, n, acc := args[0], args[1], args[2]
		if r.NatDecEq(i, n) {
			r.Dec(i)
			r.Dec(n)
			return acc
		}
		next := r.NatAdd(acc, i)
		r.Dec(acc)
		succ := r.NatSucc(i)
		r.Dec(i)
		return r.TailCallFn(foldStep, succ, n, next)
	}}
}

func foldNative(r *rt.Runtime, world rt.Object) rt.Object {
	sum := r.Call(foldStep, rt.Box(0), rt.Box(foldCount), rt.Box(0))
	defer r.Dec(sum)
	return say(r, r.NatToString(sum), world)
}

var add3 = &rt.Fn{Name: "add3", Arity: 3, Code: func(r *rt.Runtime, args []rt.Object) rt.Object {
	ab := r.NatAdd(args[0], args[1])
	out := r.NatAdd(ab, args[2])
	r.Dec(ab)
	for _, a := range args {
		r.Dec(a)
	}
	return out
}}

var natMul = &rt.Fn{Name: "Nat.mul", Arity: 2, Code: func(r *rt.Runtime, args []rt.Object) rt.Object {
	out := r.NatMul(args[0], args[1])
	r.Dec(args[0])
	r.Dec(args[1])
	return out
}}

// twice is fun f x => f (f x).
var twice = &rt.Fn{Name: "twice", Arity: 2, Code: func(r *rt.Runtime, args []rt.Object) rt.Object {
	f, x := args[0], args[1]
	r.Inc(f)
	return r.TailCall(f, r.Apply1(f, x))
}}

func closuresNative(r *rt.Runtime, world rt.Object) rt.Object {
	k := r.MkClosure(add3, rt.Box(1))
	six := r.Apply2(k, rt.Box(2), rt.Box(3))
	printNat(r, six, world)
	r.Dec(six)

	mul := r.MkClosure(natMul, rt.Box(6))
	p := r.Apply1(mul, rt.Box(7))
	printNat(r, p, world)
	r.Dec(p)

	inc3 := r.MkClosure(add3, rt.Box(1), rt.Box(2))
	v := r.Call(twice, inc3, rt.Box(10))
	defer r.Dec(v)
	return say(r, r.NatToString(v), world)
}

func stringsNative(r *rt.Runtime, world rt.Object) rt.Object {
	s := r.MkString("hello")
	for _, part := range []string{", ", "world"} {
		o := r.MkString(part)
		s = r.StringAppend(s, o)
		r.Dec(o)
	}
	s = r.StringPush(s, '!')
	r.Dec(r.IOPrimPrintln(s, world))

	n := r.StringLength(s)
	printNat(r, n, world)
	r.Dec(n)

	return say(r, r.StringToUpper(s), world)
}

func numbersNative(r *rt.Runtime, world rt.Object) rt.Object {
	pow := r.NatPow(rt.Box(2), rt.Box(100))
	printNat(r, pow, world)

	fact := rt.Box(1)
	for i := uint64(1); i <= 25; i++ {
		next := r.NatMul(fact, rt.Box(i))
		r.Dec(fact)
		fact = next
	}
	printNat(r, fact, world)

	g := r.NatGcd(pow, fact)
	printNat(r, g, world)
	r.Dec(g)
	r.Dec(pow)
	r.Dec(fact)

	a, b := r.IntOfInt64(-7), r.IntOfInt64(2)
	ops := []func(a, b rt.Object) rt.Object{r.IntDiv, r.IntMod, r.IntEDiv}
	for _, op := range ops {
		v := op(a, b)
		printInt(r, v, world)
		r.Dec(v)
	}
	last := r.IntEMod(a, b)
	r.Dec(a)
	r.Dec(b)
	defer r.Dec(last)
	return say(r, r.IntToString(last), world)
}

// sumTo100 is the thunk body: the sum of the naturals below 100.
var sumTo100 = &rt.Fn{Name: "sumTo100", Arity: 1, Code: func(r *rt.Runtime, args []rt.Object) rt.Object {
	r.Dec(args[0])
	return r.Call(foldStep, rt.Box(0), rt.Box(100), rt.Box(0))
}}

func thunksNative(r *rt.Runtime, world rt.Object) rt.Object {
	t := r.MkThunk(r.MkClosure(sumTo100))
	printNat(r, r.ThunkGet(t), world)
	printNat(r, r.ThunkGet(t), world)

	doubled := r.ThunkMap(r.MkClosure(natMul, rt.Box(2)), t)
	defer r.Dec(doubled)
	return say(r, r.NatToString(r.ThunkGet(doubled)), world)
}

func refsNative(r *rt.Runtime, world rt.Object) rt.Object {
	ref := r.IOResultTakeValue(r.IORefNew(rt.Box(0), world))
	defer r.Dec(ref)
	for range 10 {
		v := r.IOResultTakeValue(r.IORefGet(ref, world))
		next := r.NatSucc(v)
		r.Dec(v)
		r.Dec(r.IORefSet(ref, next, world))
	}
	v := r.IOResultTakeValue(r.IORefGet(ref, world))
	defer r.Dec(v)
	return say(r, r.NatToString(v), world)
}

func uncaughtNative(r *rt.Runtime, world rt.Object) rt.Object {
	r.Dec(say(r, r.MkString("before"), world))
	return r.IOUserError("boom")
}

func boundsNative(r *rt.Runtime, world rt.Object) rt.Object {
	a := r.MkEmptyArrayWithCapacity(rt.Box(0))
	v := r.ArrayGetPanic(a, rt.Box(5))
	r.Dec(a)
	return r.IOPure(v, world)
}
