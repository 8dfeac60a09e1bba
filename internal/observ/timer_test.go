package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	idx := tm.Begin("load")
	tm.End(idx, "fold.lri")
	if err := tm.Time("run", func() error { return errors.New("boom") }); err == nil {
		t.Fatalf("expected the phase error to be returned")
	}
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].DurationMS != 1 || report.TotalMS != 2 {
		t.Fatalf("expected 1ms phases totalling 2ms, got %+v", report)
	}
	if report.Phases[1].Note != "boom" {
		t.Fatalf("expected the error as note, got %q", report.Phases[1].Note)
	}
	summary := tm.Summary()
	if !strings.Contains(summary, "load") || !strings.Contains(summary, "// fold.lri") || !strings.Contains(summary, "total") {
		t.Fatalf("unexpected summary %q", summary)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("expected an empty report, got %+v", r)
	}
}
