package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"leanrt/internal/rt"
)

func TestTableAlignsWideRunes(t *testing.T) {
	tb := &Table{
		Headers: []string{"name", "n"},
		Rows:    [][]string{{"日本", "1"}, {"abcd", "22"}},
		Right:   map[int]bool{1: true},
	}
	got := tb.Render(false)
	want := "name   n\n--------\n日本   1\nabcd  22\n"
	if got != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestABITableListsTags(t *testing.T) {
	out := ABITable().Render(false)
	for _, want := range []string{"tag closure", "245", "string data", "32"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
}

func TestHeapTable(t *testing.T) {
	r := rt.New(rt.Options{Host: rt.NewTestHost(nil, nil)})
	s := r.MkString("héllo")
	defer r.Dec(s)
	tb := HeapTable(r)
	if len(tb.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tb.Rows))
	}
	if row := tb.Rows[0]; row[1] != "string" || row[3] != "1" || row[5] != `"héllo"` {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan Event)
	m := NewProgressModel("diff", []string{"fold", "refs"}, events).(*progressModel)
	m.applyEvent(Event{Program: "fold", Status: StatusOK})
	m.applyEvent(Event{Program: "refs", Status: StatusMismatch, Note: "image: stdout"})
	m.applyEvent(Event{Program: "unknown", Status: StatusError})
	if m.finished() != 2 {
		t.Fatalf("expected 2 finished programs, got %d", m.finished())
	}
	view := m.View()
	for _, want := range []string{"diff (2/2)", "ok", "mismatch", "image: stdout"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view\n%s", want, view)
		}
	}

	close(events)
	if msg := m.listenForEvent()(); msg != (doneMsg{}) {
		t.Fatalf("expected doneMsg after close, got %#v", msg)
	}
	next, _ := m.Update(doneMsg{})
	if !next.(*progressModel).done {
		t.Fatalf("expected the model to be done")
	}
	m.Update(tea.WindowSizeMsg{Width: 100})
	if m.width != 100 {
		t.Fatalf("expected width 100, got %d", m.width)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("expected abc..., got %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
