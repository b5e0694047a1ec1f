package display

import (
	"fmt"
	"io"
	"strings"
)

// table draws box tables with fixed column widths
type table struct {
	w      io.Writer
	widths []int
}

func newTable(w io.Writer, widths ...int) table {
	return table{w: w, widths: widths}
}

func (t table) border(left, mid, right string) {
	parts := make([]string, len(t.widths))
	for i, width := range t.widths {
		parts[i] = strings.Repeat("─", width+2)
	}
	fmt.Fprintln(t.w, left+strings.Join(parts, mid)+right)
}

func (t table) top()       { t.border("┌", "┬", "┐") }
func (t table) separator() { t.border("├", "┼", "┤") }
func (t table) bottom()    { t.border("└", "┴", "┘") }

// row writes one line. Cells are left-aligned and padded to the column width;
// missing cells are blank.
func (t table) row(cells ...string) {
	var b strings.Builder
	b.WriteString("│")
	for i, width := range t.widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		fmt.Fprintf(&b, " %-*s │", width, cell)
	}
	fmt.Fprintln(t.w, b.String())
}

// header writes the top border, the column titles and the separator
func (t table) header(titles ...string) {
	t.top()
	t.row(titles...)
	t.separator()
}

func title(w io.Writer, text string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 100))
	fmt.Fprintln(w, text)
	fmt.Fprintln(w, strings.Repeat("=", 100))
}
