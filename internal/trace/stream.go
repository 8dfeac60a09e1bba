package trace

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

// StreamTracer formats events as they arrive. Writes to a file are buffered
// until Flush; the standard streams are written through.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	buf    *bufio.Writer
	closer io.Closer
	level  Level
	format Format
	err    error
}

// NewStreamTracer returns a tracer writing to w. Close closes w unless it is
// a standard stream.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: w, level: level, format: format}
	if f, ok := w.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		t.closer = f
		t.buf = bufio.NewWriter(f)
		t.w = t.buf
	}
	return t
}

// Emit writes ev. The first write error is kept and reported by Flush; a
// broken sink never stops the program.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.admits(ev) {
		return
	}
	stamp(ev)
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		_, t.err = t.w.Write(data)
	}
}

// Flush writes out buffered events.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf != nil && t.err == nil {
		t.err = t.buf.Flush()
	}
	return t.err
}

// Close flushes and closes a file sink.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
		t.closer = nil
	}
	return err
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
