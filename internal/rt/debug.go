package rt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// dumpDepth bounds nested rendering in Dump.
const dumpDepth = 8

// Dump renders o (borrowed) for diagnostics. The format is stable enough for
// golden tests but is not a serialization format.
func (r *Runtime) Dump(o Object) string {
	var sb strings.Builder
	r.dump(&sb, o, 0)
	return sb.String()
}

func (r *Runtime) dump(sb *strings.Builder, o Object, depth int) {
	switch {
	case o == Null:
		sb.WriteString("null")
		return
	case o.IsScalar():
		fmt.Fprintf(sb, "#%d", Unbox(o))
		return
	case depth >= dumpDepth:
		sb.WriteString("...")
		return
	}
	c := r.cell(o)
	switch c.kind() {
	case KindCtor:
		fmt.Fprintf(sb, "ctor%d", c.hdr.Tag)
		if len(c.objs) == 0 && len(c.bytes) == 0 {
			return
		}
		sb.WriteByte('(')
		r.dumpList(sb, c.objs, depth)
		if len(c.bytes) > 0 {
			if len(c.objs) > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(sb, "%x", c.bytes)
		}
		sb.WriteByte(')')
	case KindClosure:
		fmt.Fprintf(sb, "closure<%s/%d>(", c.fn.Name, c.arity)
		r.dumpList(sb, c.objs, depth)
		sb.WriteByte(')')
	case KindArray:
		sb.WriteString("#[")
		r.dumpList(sb, c.objs, depth)
		sb.WriteByte(']')
	case KindScalarArray:
		fmt.Fprintf(sb, "sarray<%d>[%x]", c.hdr.Other, c.bytes)
	case KindString:
		s := string(c.bytes)
		sb.WriteString(strconv.Quote(s))
		if !norm.NFC.IsNormalString(s) {
			sb.WriteString("(non-NFC)")
		}
	case KindMPZ:
		sb.WriteString(c.nat.String())
	case KindBigInt:
		sb.WriteString("-" + c.nat.String())
	case KindThunk:
		if c.objs[0] == Null {
			sb.WriteString("thunk<pending>")
			return
		}
		sb.WriteString("thunk(")
		r.dump(sb, c.objs[0], depth+1)
		sb.WriteByte(')')
	case KindRef:
		sb.WriteString("ref(")
		r.dump(sb, c.objs[0], depth+1)
		sb.WriteByte(')')
	case KindExternal:
		name := "?"
		if c.class != nil {
			name = c.class.Name
		}
		fmt.Fprintf(sb, "external<%s>", name)
	default:
		fmt.Fprintf(sb, "<%s>", c.kind())
	}
}

func (r *Runtime) dumpList(sb *strings.Builder, objs []Object, depth int) {
	for i, v := range objs {
		if i > 0 {
			sb.WriteString(", ")
		}
		r.dump(sb, v, depth+1)
	}
}

// DbgTrace prints msg (borrowed) to stderr and then applies fn (owned) to
// Unit.
func (r *Runtime) DbgTrace(msg, fn Object) Object {
	_, _ = io.WriteString(r.host.Stderr(), r.StringValue(msg)+"\n") //nolint:errcheck
	return r.Apply1(fn, Unit)
}

// DbgTraceIfShared reports on stderr when o is shared and returns o.
func (r *Runtime) DbgTraceIfShared(msg, o Object) Object {
	if r.IsShared(o) {
		_, _ = io.WriteString(r.host.Stderr(), "shared RC "+r.StringValue(msg)+"\n") //nolint:errcheck
	}
	return o
}

// DbgSleep waits ms milliseconds and then applies fn (owned) to Unit.
func (r *Runtime) DbgSleep(ms uint32, fn Object) Object {
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return r.Apply1(fn, Unit)
}
