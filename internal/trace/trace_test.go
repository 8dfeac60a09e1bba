package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestRingKeepsNewestEvents(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(Point(ScopeHeap, name, ""))
	}
	events := ring.Snapshot()
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ","); got != "c,d,e" {
		t.Fatalf("expected c,d,e, got %s", got)
	}
	if events[0].Seq >= events[1].Seq || events[1].Seq >= events[2].Seq {
		t.Fatalf("expected increasing sequence numbers, got %d %d %d", events[0].Seq, events[1].Seq, events[2].Seq)
	}
	if ring.Dropped() != 2 {
		t.Fatalf("expected 2 dropped events, got %d", ring.Dropped())
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "... 2 earlier events dropped\n") {
		t.Fatalf("unexpected dump\n%s", buf.String())
	}
}

func TestRingFiltersByLevel(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	ring.Emit(Point(ScopeRC, "inc", ""))
	ring.Emit(Point(ScopeRuntime, "load", ""))
	ring.Emit(&Event{Kind: KindError, Scope: ScopeHeap, Name: "panic"})
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("expected 2 events, got %d", n)
	}
}

func TestSpanCarriesRuntime(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	span := Begin(ring, ScopeRuntime, "run", 7)
	span.WithExtra("exit", "0")
	if d := span.End("done"); d < 0 {
		t.Fatalf("expected a non-negative duration, got %v", d)
	}
	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	begin, end := events[0], events[1]
	if begin.Kind != KindSpanBegin || end.Kind != KindSpanEnd {
		t.Fatalf("expected begin and end, got %s and %s", begin.Kind, end.Kind)
	}
	if begin.SpanID != span.ID() || end.SpanID != span.ID() || end.Runtime != 7 {
		t.Fatalf("unexpected span events %+v %+v", begin, end)
	}
	if end.Extra["exit"] != "0" || end.Detail != "done" {
		t.Fatalf("unexpected end event %+v", end)
	}
}

func TestFilteredSpanIsInert(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	span := Begin(ring, ScopePrim, "lean_nat_add", 1)
	span.WithExtra("k", "v").End("")
	if span.ID() != 0 || len(ring.Snapshot()) != 0 {
		t.Fatalf("expected an inert span, got id %d and %d events", span.ID(), len(ring.Snapshot()))
	}
	if Begin(nil, ScopeRuntime, "run", 1).End("") != 0 {
		t.Fatalf("expected zero duration for a nil tracer")
	}
}

func TestMultiTracerSharesSequence(t *testing.T) {
	a := NewRingTracer(4, LevelDebug)
	b := NewRingTracer(4, LevelDebug)
	multi := NewMultiTracer(LevelDebug, a, Nop, b)
	multi.Emit(Point(ScopeHeap, "alloc", ""))
	ea, eb := a.Snapshot(), b.Snapshot()
	if len(ea) != 1 || len(eb) != 1 || ea[0].Seq != eb[0].Seq {
		t.Fatalf("expected one event with the same sequence in both rings, got %v and %v", ea, eb)
	}
	if multi.Ring() != a {
		t.Fatalf("expected the first ring")
	}
}

func TestStreamTracerFormats(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ev := Point(ScopePrim, "lean_nat_add", "")
	ev.Runtime = 3
	st.Emit(ev)
	st.Emit(Point(ScopeHeap, "alloc", ""))
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, `"name":"lean_nat_add"`) || !strings.Contains(out, `"runtime":3`) {
		t.Fatalf("unexpected stream output %q", out)
	}
}

func TestNewBuildsConfiguredTracer(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Level: LevelOff, Mode: ModeStream}, "nop"},
		{Config{Level: LevelPhase, Mode: ModeStream, Output: &buf}, "stream"},
		{Config{Level: LevelPhase, Mode: ModeRing}, "ring"},
		{Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf}, "multi"},
	}
	for _, tt := range tests {
		tr, err := New(tt.cfg)
		if err != nil {
			t.Fatalf("New(%+v): %v", tt.cfg, err)
		}
		var got string
		switch tr.(type) {
		case nopTracer:
			got = "nop"
		case *StreamTracer:
			got = "stream"
		case *RingTracer:
			got = "ring"
		case *MultiTracer:
			got = "multi"
		}
		if got != tt.want {
			t.Fatalf("expected %s tracer, got %T", tt.want, tr)
		}
	}
	if _, err := New(Config{Level: LevelPhase}); err == nil {
		t.Fatalf("expected an error for a missing storage mode")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []StorageMode{ModeStream, ModeRing, ModeBoth} {
		got, err := ParseMode(strings.ToUpper(m.String()))
		if err != nil || got != m {
			t.Fatalf("expected %s, got %s (%v)", m, got, err)
		}
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}

func TestContextTracer(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without a tracer")
	}
	ring := NewRingTracer(1, LevelPhase)
	if FromContext(WithTracer(context.Background(), ring)) != ring {
		t.Fatalf("expected the attached tracer")
	}
}

func TestHeartbeatStops(t *testing.T) {
	ring := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	events := ring.Snapshot()
	if len(events) == 0 {
		t.Fatalf("expected at least one heartbeat")
	}
	if ev := events[0]; ev.Kind != KindHeartbeat || ev.Detail != "#1" || ev.Extra["goroutines"] == "" {
		t.Fatalf("unexpected heartbeat %+v", ev)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("expected no heartbeat for a disabled tracer")
	}
	var none *Heartbeat
	none.Stop()
}
