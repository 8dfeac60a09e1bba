package rt

import (
	"fmt"
	"io"
)

// IO results are constructors: tag 0 is ok and tag 1 is error, each with the
// fields {value, world}. The world token is always Box(0).
const (
	ioResultOk    uint8 = 0
	ioResultError uint8 = 1

	// ioUserErrorTag is IO.Error.userError, the constructor carrying a
	// plain message.
	ioUserErrorTag uint8 = 18
)

// IOResultMkOk wraps v (owned) as a successful IO result.
func (r *Runtime) IOResultMkOk(v Object) Object {
	o := r.AllocCtor(ioResultOk, 2, 0)
	r.CtorSet(o, 0, v)
	r.CtorSet(o, 1, Box(0))
	return o
}

// IOResultMkError wraps e (owned) as a failed IO result.
func (r *Runtime) IOResultMkError(e Object) Object {
	o := r.AllocCtor(ioResultError, 2, 0)
	r.CtorSet(o, 0, e)
	r.CtorSet(o, 1, Box(0))
	return o
}

func (r *Runtime) IOResultIsOk(res Object) bool {
	return r.Tag(res) == ioResultOk
}

func (r *Runtime) IOResultIsError(res Object) bool {
	return r.Tag(res) == ioResultError
}

// IOResultGetValue returns the payload of res, borrowed.
func (r *Runtime) IOResultGetValue(res Object) Object {
	return r.CtorGet(res, 0)
}

// IOResultTakeValue moves the payload out of res (owned) and releases res.
func (r *Runtime) IOResultTakeValue(res Object) Object {
	v := r.CtorGet(res, 0)
	r.Inc(v)
	r.Dec(res)
	return v
}

// MkIOUserError builds IO.userError msg, taking the message string.
func (r *Runtime) MkIOUserError(msg Object) Object {
	o := r.AllocCtor(ioUserErrorTag, 1, 0)
	r.CtorSet(o, 0, msg)
	return o
}

// IOErrorToString renders an IO error (borrowed) for the uncaught exception
// report.
func (r *Runtime) IOErrorToString(e Object) string {
	if e.IsScalar() {
		return fmt.Sprintf("IO error %d", Unbox(e))
	}
	c := r.cell(e)
	switch {
	case c.kind() == KindString:
		return r.StringValue(e)
	case c.kind() == KindCtor && c.hdr.Tag == ioUserErrorTag:
		return r.StringValue(c.objs[0])
	case c.kind() == KindCtor:
		for _, f := range c.objs {
			if !f.IsScalar() && r.cell(f).kind() == KindString {
				return r.StringValue(f)
			}
		}
		return fmt.Sprintf("IO error %d", c.hdr.Tag)
	default:
		return fmt.Sprintf("IO error (%s)", c.kind())
	}
}

// IOUserError is a convenience for native code: an error result carrying msg.
func (r *Runtime) IOUserError(msg string) Object {
	return r.IOResultMkError(r.MkIOUserError(r.MkString(msg)))
}

func (r *Runtime) writeHost(w io.Writer, s Object, newline bool) Object {
	text := r.StringValue(s)
	if newline {
		text += "\n"
	}
	if _, err := io.WriteString(w, text); err != nil {
		return r.IOUserError(err.Error())
	}
	return r.IOResultMkOk(Unit)
}

// IOPrimPrint writes s (borrowed) to standard output.
func (r *Runtime) IOPrimPrint(s, _ Object) Object {
	return r.writeHost(r.host.Stdout(), s, false)
}

func (r *Runtime) IOPrimPrintln(s, _ Object) Object {
	return r.writeHost(r.host.Stdout(), s, true)
}

// IOPrimEprint writes s (borrowed) to standard error.
func (r *Runtime) IOPrimEprint(s, _ Object) Object {
	return r.writeHost(r.host.Stderr(), s, false)
}

func (r *Runtime) IOPrimEprintln(s, _ Object) Object {
	return r.writeHost(r.host.Stderr(), s, true)
}

// IOGetEnv looks up name (borrowed) and returns Option String.
func (r *Runtime) IOGetEnv(name, _ Object) Object {
	v, ok := r.host.Getenv(r.StringValue(name))
	if !ok {
		return r.IOResultMkOk(MkOptionNone())
	}
	return r.IOResultMkOk(r.MkOptionSome(r.MkString(v)))
}

// IOGetArgs returns the program arguments as a List String.
func (r *Runtime) IOGetArgs(_ Object) Object {
	args := r.host.Args()
	list := Box(0)
	for i := len(args) - 1; i >= 0; i-- {
		list = r.MkListCons(r.MkString(args[i]), list)
	}
	return r.IOResultMkOk(list)
}

// IOExit flushes output and ends the run with code. It does not return.
func (r *Runtime) IOExit(code uint8, _ Object) Object {
	if err := r.host.Flush(); err != nil {
		r.panicf(PanicInternal, "flush before exit: %v", err)
	}
	r.host.Exit(int(code))
	panic(&ExitError{Code: int(code)})
}

// IOPure is pure v in IO, taking v.
func (r *Runtime) IOPure(v, _ Object) Object {
	return r.IOResultMkOk(v)
}

// IOBind runs action (owned, a closure over the world) and, on success,
// applies f (owned) to the value and the world. Errors short-circuit.
func (r *Runtime) IOBind(action, f, world Object) Object {
	res := r.Apply1(action, world)
	if !r.IOResultIsOk(res) {
		r.Dec(f)
		return res
	}
	return r.Apply2(f, r.IOResultTakeValue(res), world)
}
