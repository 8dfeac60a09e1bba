package rt

import (
	"bytes"
	"strings"
	"testing"
)

func TestIOPrintlnWritesToHost(t *testing.T) {
	r, host := newTestRuntime(t)
	s := r.MkString("hello")
	res := r.IOPrimPrintln(s, Unit)
	if !r.IOResultIsOk(res) {
		t.Fatalf("expected ok result")
	}
	r.Dec(res)
	res = r.IOPrimEprint(s, Unit)
	r.Dec(res)
	if got := host.Out.String(); got != "hello\n" {
		t.Fatalf("expected stdout %q, got %q", "hello\n", got)
	}
	if got := host.Err.String(); got != "hello" {
		t.Fatalf("expected stderr %q, got %q", "hello", got)
	}
	r.Dec(s)
	expectNoLeaks(t, r)
}

func TestDefaultHostWritesStderrThrough(t *testing.T) {
	var out, errOut bytes.Buffer
	r := New(Options{Debug: true, Host: newDefaultHost(&out, &errOut, nil)})
	s := r.MkString("warn")
	r.Dec(r.IOPrimEprintln(s, Unit))
	r.Dec(r.IOPrimPrint(s, Unit))
	if got := errOut.String(); got != "warn\n" {
		t.Fatalf("expected stderr written before flush, got %q", got)
	}
	if out.Len() != 0 {
		t.Fatalf("expected stdout held until flush, got %q", out.String())
	}
	if err := r.host.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := out.String(); got != "warn" {
		t.Fatalf("expected stdout %q after flush, got %q", "warn", got)
	}
	r.Dec(s)
	expectNoLeaks(t, r)
}

func TestRunReportsUncaughtException(t *testing.T) {
	r, host := newTestRuntime(t)
	code, err := r.Run(func(r *Runtime, world Object) Object {
		return r.IOUserError("file not found")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if got := host.Err.String(); got != "uncaught exception: file not found\n" {
		t.Fatalf("unexpected stderr %q", got)
	}
	expectNoLeaks(t, r)
}

func TestRunSuccess(t *testing.T) {
	r, host := newTestRuntime(t)
	code, err := r.Run(func(r *Runtime, world Object) Object {
		greet := r.MkString("hi")
		res := r.IOPrimPrintln(greet, world)
		r.Dec(greet)
		return res
	})
	if err != nil || code != 0 {
		t.Fatalf("expected success, got code %d err %v", code, err)
	}
	if host.Out.String() != "hi\n" {
		t.Fatalf("unexpected stdout %q", host.Out.String())
	}
	expectNoLeaks(t, r)
}

func TestRunRecoversGuestPanic(t *testing.T) {
	r, host := newTestRuntime(t)
	code, err := r.Run(func(r *Runtime, world Object) Object {
		return r.PanicFn(Box(0), r.MkString("boom"))
	})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	re, ok := AsRuntimeError(err)
	if !ok || re.Code != PanicGuest {
		t.Fatalf("expected guest panic, got %v", err)
	}
	if !strings.Contains(host.Err.String(), "Lean panic: boom") {
		t.Fatalf("expected panic message on stderr, got %q", host.Err.String())
	}
}

func TestIOExit(t *testing.T) {
	r, host := newTestRuntime(t)
	code, err := r.Run(func(r *Runtime, world Object) Object {
		s := r.MkString("bye")
		r.Dec(r.IOPrimPrint(s, world))
		r.Dec(s)
		return r.IOExit(3, world)
	})
	if err != nil || code != 3 {
		t.Fatalf("expected exit code 3, got %d err %v", code, err)
	}
	if !host.Exited() || host.ExitCode() != 3 {
		t.Fatalf("expected host exit 3, got %d", host.ExitCode())
	}
	if host.Out.String() != "bye" {
		t.Fatalf("expected output before exit, got %q", host.Out.String())
	}
}

func TestIOEnvAndArgs(t *testing.T) {
	host := NewTestHost([]string{"a", "b"}, map[string]string{"HOME": "/home/lean"})
	r := New(Options{Debug: true, Host: host})
	name := r.MkString("HOME")
	res := r.IOGetEnv(name, Unit)
	opt := r.IOResultGetValue(res)
	if r.Tag(opt) != 1 || r.StringValue(r.CtorGet(opt, 0)) != "/home/lean" {
		t.Fatalf("expected some /home/lean, got %s", r.Dump(opt))
	}
	r.Dec(res)
	missing := r.MkString("MISSING")
	res = r.IOGetEnv(missing, Unit)
	if r.IOResultGetValue(res) != MkOptionNone() {
		t.Fatalf("expected none for a missing variable")
	}
	r.Dec(res)
	res = r.IOGetArgs(Unit)
	if got := r.Dump(r.IOResultGetValue(res)); got != `ctor1("a", ctor1("b", #0))` {
		t.Fatalf("unexpected args %s", got)
	}
	r.Dec(res)
	r.Dec(name)
	r.Dec(missing)
	expectNoLeaks(t, r)
}

func TestIOBindShortCircuits(t *testing.T) {
	r, host := newTestRuntime(t)
	fail := r.MkClosure(fnOf("fail", 1, func(r *Runtime, args []Object) Object {
		return r.IOUserError("early")
	}))
	called := false
	next := r.MkClosure(fnOf("next", 2, func(r *Runtime, args []Object) Object {
		called = true
		return r.IOResultMkOk(args[0])
	}))
	res := r.IOBind(fail, next, Unit)
	if called || !r.IOResultIsError(res) {
		t.Fatalf("expected the error to short-circuit")
	}
	if got := r.IOErrorToString(r.IOResultGetValue(res)); got != "early" {
		t.Fatalf("expected early, got %q", got)
	}
	r.Dec(res)

	pure := r.MkClosure(fnOf("pure", 1, func(r *Runtime, args []Object) Object {
		return r.IOPure(Box(5), args[0])
	}))
	show := r.MkClosure(fnOf("show", 2, func(r *Runtime, args []Object) Object {
		s := r.NatToString(args[0])
		out := r.IOPrimPrintln(s, args[1])
		r.Dec(s)
		return out
	}))
	res = r.IOBind(pure, show, Unit)
	if !r.IOResultIsOk(res) || host.Out.String() != "5\n" {
		t.Fatalf("expected 5 printed, got %q", host.Out.String())
	}
	r.Dec(res)
	expectNoLeaks(t, r)
}

func TestIOErrorToString(t *testing.T) {
	r, _ := newTestRuntime(t)
	other := r.AllocCtor(7, 2, 0)
	r.CtorSet(other, 0, Box(3))
	r.CtorSet(other, 1, r.MkString("permission denied"))
	if got := r.IOErrorToString(other); got != "permission denied" {
		t.Fatalf("expected first string field, got %q", got)
	}
	if got := r.IOErrorToString(Box(4)); got != "IO error 4" {
		t.Fatalf("unexpected scalar rendering %q", got)
	}
	r.Dec(other)
	expectNoLeaks(t, r)
}
