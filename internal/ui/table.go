package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"leanrt/internal/rt"
)

// Table is a plain column table. Cells are padded by display width, so
// strings with wide runes line up.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Right lists the columns aligned to the right.
	Right map[int]bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render formats the table. Styles apply only when styled is set.
func (t *Table) Render(styled bool) string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(render(titleStyle, t.Title))
		b.WriteString("\n")
	}
	b.WriteString(render(headerStyle, t.line(t.Headers, widths)))
	b.WriteString("\n")
	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * max(len(widths)-1, 0)
	b.WriteString(render(ruleStyle, strings.Repeat("-", total)))
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString(t.line(row, widths))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if t.Right[i] {
			parts[i] = runewidth.FillLeft(cell, w)
		} else {
			parts[i] = runewidth.FillRight(cell, w)
		}
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// ABITable lists the object tags and the byte layout offsets native code
// relies on.
func ABITable() *Table {
	t := &Table{
		Title:   fmt.Sprintf("object layout (runtime interface %s)", rt.VersionString()),
		Headers: []string{"item", "value", "note"},
		Right:   map[int]bool{1: true},
	}
	add := func(item string, v any, note string) {
		t.Rows = append(t.Rows, []string{item, fmt.Sprint(v), note})
	}
	add("header size", rt.HeaderSize, "rc:int32 cs_sz:uint16 other:uint8 tag:uint8")
	add("word size", rt.WordSize, "")
	add("max ctor tag", rt.MaxCtorTag, "")
	add("tag closure", rt.TagClosure, "")
	add("tag array", rt.TagArray, "")
	add("tag thunk", rt.TagThunk, "")
	add("tag sarray", rt.TagScalarArray, "")
	add("tag string", rt.TagString, "")
	add("tag mpz", rt.TagMPZ, "")
	add("tag bigint", rt.TagBigInt, "")
	add("tag ref", rt.TagRef, "")
	add("tag external", rt.TagExternal, "")
	add("closure fun", rt.ClosureFunOffset, "")
	add("closure arity", rt.ClosureArityOffset, "uint16")
	add("closure num fixed", rt.ClosureNumFixedOffset, "uint16")
	add("closure args", rt.ClosureArgsOffset, "")
	add("array size", rt.ArraySizeOffset, "")
	add("array capacity", rt.ArrayCapacityOffset, "")
	add("array data", rt.ArrayDataOffset, "")
	add("string byte len", rt.StringByteLenOffset, "")
	add("string utf8 len", rt.StringUTF8LenOffset, "")
	add("string capacity", rt.StringCapacityOffset, "")
	add("string data", rt.StringDataOffset, "")
	add("thunk value", rt.ThunkValueOffset, "")
	add("thunk closure", rt.ThunkClosureOffset, "")
	add("ref value", rt.RefValueOffset, "")
	add("external class", rt.ExternalClassOffset, "")
	add("external data", rt.ExternalDataOffset, "")
	return t
}

// HeapTable lists the live cells of r, persistent ones included.
func HeapTable(r *rt.Runtime) *Table {
	t := &Table{
		Title:   "live objects",
		Headers: []string{"handle", "kind", "tag", "rc", "size", "value"},
		Right:   map[int]bool{0: true, 2: true, 3: true, 4: true},
	}
	for _, l := range r.LiveSet(true) {
		t.Rows = append(t.Rows, []string{
			fmt.Sprint(uint64(l.Object) >> 3),
			l.Kind.String(),
			fmt.Sprint(l.Tag),
			fmt.Sprint(l.RC),
			fmt.Sprint(l.Size),
			truncate(r.Dump(l.Object), 48),
		})
	}
	return t
}
