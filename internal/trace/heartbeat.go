package trace

import (
	"context"
	"runtime"
	"strconv"
	"time"
)

// Heartbeat periodically emits an event carrying Go heap statistics while a
// guest program runs. Heartbeats that keep coming without the run span
// ending point at a program stuck in a loop.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat starts emitting to t every interval. It returns nil when t
// is disabled or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go h.run(ctx, t, interval)
	return h
}

func (h *Heartbeat) run(ctx context.Context, t Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.Emit(beat(now, n))
		}
	}
}

func beat(now time.Time, n int) *Event {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return &Event{
		Time:   now,
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeRuntime,
		Name:   "heartbeat",
		Detail: "#" + strconv.Itoa(n),
		Extra: map[string]string{
			"heap_alloc": strconv.FormatUint(ms.HeapAlloc, 10),
			"goroutines": strconv.Itoa(runtime.NumGoroutine()),
		},
	}
}

// Stop ends the heartbeat and waits for its goroutine. Stop is safe on a nil
// heartbeat and may be called more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}
