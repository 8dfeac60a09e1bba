package rt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// PanicCode identifies the type of runtime panic.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicGuest         PanicCode = 1001 // RT1001: guest-level panic
	PanicInternal      PanicCode = 1002 // RT1002: internal runtime invariant broken
	PanicUnreachable   PanicCode = 1003 // RT1003: unreachable code executed
	PanicOutOfMemory   PanicCode = 1004 // RT1004: allocation or bignum limit exceeded
	PanicOutOfBounds   PanicCode = 1005 // RT1005: index out of bounds
	PanicRCUnderflow   PanicCode = 1006 // RT1006: decrement of a dead object
	PanicRCOverflow    PanicCode = 1007 // RT1007: refcount exceeds int32
	PanicInvalidHandle PanicCode = 1008 // RT1008: word does not name a live cell
	PanicUseAfterFree  PanicCode = 1009 // RT1009: access to a freed cell
	PanicDoubleFree    PanicCode = 1010 // RT1010: free of a freed cell
	PanicTypeMismatch  PanicCode = 1011 // RT1011: object kind does not match the operation
	PanicThunkCycle    PanicCode = 1012 // RT1012: thunk forced while being forced
	PanicInvalidArgs   PanicCode = 1013 // RT1013: invalid allocation or call arguments
	PanicNotExclusive  PanicCode = 1014 // RT1014: in-place update of a shared object
	PanicUnimplemented PanicCode = 1999 // RT1999: unsupported runtime feature
)

// String returns the code as "RT1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("RT%d", c)
}

// ParsePanicCode parses "RT1005" back into a PanicCode.
func ParsePanicCode(code string) (PanicCode, bool) {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, "RT") || len(code) == 2 {
		return 0, false
	}
	n := 0
	for i := 2; i < len(code); i++ {
		ch := code[i]
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
	}
	if n == 0 {
		return 0, false
	}
	return PanicCode(n), true
}

// RuntimeError is the payload of every fatal runtime condition.
type RuntimeError struct {
	Code    PanicCode
	Message string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("panic %s: %s", e.Code, e.Message)
}

// ExitError is raised by IOExit after the host recorded the exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// AsRuntimeError unwraps err into a *RuntimeError.
func AsRuntimeError(err error) (*RuntimeError, bool) {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// panic flushes the host streams and raises a *RuntimeError.
func (r *Runtime) panic(code PanicCode, msg string) {
	e := &RuntimeError{Code: code, Message: msg}
	r.tracePanic(e)
	if r.host != nil {
		_ = r.host.Flush() //nolint:errcheck
	}
	panic(e)
}

func (r *Runtime) panicf(code PanicCode, format string, args ...any) {
	r.panic(code, fmt.Sprintf(format, args...))
}

// PanicFn is the guest-level panic. It prints "Lean panic: msg" semantics and
// aborts the current run. The message object is consumed.
func (r *Runtime) PanicFn(def, msg Object) Object {
	text := r.StringValue(msg)
	r.Dec(msg)
	r.Dec(def)
	r.panic(PanicGuest, "Lean panic: "+text)
	return Null
}

// InternalPanic aborts with a runtime invariant violation.
func (r *Runtime) InternalPanic(msg string) {
	r.panic(PanicInternal, "Lean internal panic: "+msg)
}

// InternalPanicUnreachable aborts when generated code reaches a dead branch.
func (r *Runtime) InternalPanicUnreachable() {
	r.panic(PanicUnreachable, "Lean: unreachable code")
}

// InternalPanicOutOfMemory aborts on exhausted limits.
func (r *Runtime) InternalPanicOutOfMemory() {
	r.panic(PanicOutOfMemory, "Lean: out of memory")
}

// checkBig converts a bignum error into the out-of-memory panic.
func (r *Runtime) checkBig(err error) {
	if err != nil {
		r.InternalPanicOutOfMemory()
	}
}

// Fatal reports err on stderr and terminates the process with exit code 1.
// It is meant for the process boundary only.
func Fatal(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
