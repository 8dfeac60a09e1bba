package rt

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// Host provides the interface between the runtime and the outside world.
type Host interface {
	// Stdout returns the buffered standard output stream.
	Stdout() io.Writer

	// Stderr returns the standard error stream.
	Stderr() io.Writer

	// Flush writes out buffered output of both streams.
	Flush() error

	// Getenv looks up an environment variable.
	Getenv(name string) (string, bool)

	// Args returns program arguments (excluding program name).
	Args() []string

	// Exit signals the host to halt with the given exit code.
	Exit(code int)
}

// DefaultHost implements Host using OS facilities. Stdout is buffered until
// Flush; stderr is written through.
type DefaultHost struct {
	out  *bufio.Writer
	err  io.Writer
	args []string
}

// NewDefaultHost creates a host writing to the process streams.
func NewDefaultHost(args []string) *DefaultHost {
	return newDefaultHost(os.Stdout, os.Stderr, args)
}

func newDefaultHost(stdout, stderr io.Writer, args []string) *DefaultHost {
	return &DefaultHost{
		out:  bufio.NewWriter(stdout),
		err:  stderr,
		args: args,
	}
}

func (h *DefaultHost) Stdout() io.Writer { return h.out }

func (h *DefaultHost) Stderr() io.Writer { return h.err }

func (h *DefaultHost) Flush() error {
	return h.out.Flush()
}

func (h *DefaultHost) Getenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (h *DefaultHost) Args() []string {
	return h.args
}

// Exit flushes and terminates the process immediately.
func (h *DefaultHost) Exit(code int) {
	_ = h.Flush() //nolint:errcheck
	os.Exit(code)
}

// TestHost implements Host with in-memory streams for testing.
type TestHost struct {
	Out bytes.Buffer
	Err bytes.Buffer

	args     []string
	env      map[string]string
	exitCode int
	exited   bool
}

// NewTestHost creates a test host with controlled inputs.
func NewTestHost(args []string, env map[string]string) *TestHost {
	return &TestHost{args: args, env: env, exitCode: -1}
}

func (h *TestHost) Stdout() io.Writer { return &h.Out }

func (h *TestHost) Stderr() io.Writer { return &h.Err }

func (h *TestHost) Flush() error { return nil }

func (h *TestHost) Getenv(name string) (string, bool) {
	v, ok := h.env[name]
	return v, ok
}

func (h *TestHost) Args() []string {
	return h.args
}

func (h *TestHost) Exit(code int) {
	h.exitCode = code
	h.exited = true
}

// ExitCode returns the exit code set by Exit, or -1 if not set.
func (h *TestHost) ExitCode() int {
	return h.exitCode
}

// Exited returns true if Exit was called.
func (h *TestHost) Exited() bool {
	return h.exited
}
