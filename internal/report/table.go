package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type borderChars struct {
	topLeft, topTee, topRight          string
	leftTee, cross, rightTee           string
	bottomLeft, bottomTee, bottomRight string
	horizontal, vertical               string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topTee: "┬", topRight: "╮",
		leftTee: "├", cross: "┼", rightTee: "┤",
		bottomLeft: "╰", bottomTee: "┴", bottomRight: "╯",
		horizontal: "─", vertical: "│",
	},
	BorderASCII: {
		topLeft: "+", topTee: "+", topRight: "+",
		leftTee: "+", cross: "+", rightTee: "+",
		bottomLeft: "+", bottomTee: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
	},
}

// grid is a table measured in terminal columns.
type grid struct {
	header []string
	rows   [][]string
	widths []int
	aligns []Alignment
}

func newGrid(header []string, rows [][]string, aligns []Alignment) *grid {
	n := len(header)
	for _, r := range rows {
		n = max(n, len(r))
	}
	g := &grid{header: header, rows: rows, widths: make([]int, n), aligns: make([]Alignment, n)}
	copy(g.aligns, aligns)
	g.measure(header)
	for _, r := range rows {
		g.measure(r)
	}
	return g
}

func (g *grid) measure(cells []string) {
	for i, c := range cells {
		g.widths[i] = max(g.widths[i], runewidth.StringWidth(c))
	}
}

// cells pads every cell of a row to its column width.
func (g *grid) cells(row []string) []string {
	out := make([]string, len(g.widths))
	for i, width := range g.widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		out[i] = align(cell, width, g.aligns[i])
	}
	return out
}

func align(s string, width int, a Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch a {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
	default:
		return s + strings.Repeat(" ", pad)
	}
}

// lines accumulates output and remembers the first write error.
type lines struct {
	w   io.Writer
	err error
}

func (l *lines) put(parts ...string) {
	if l.err != nil {
		return
	}
	for _, p := range parts {
		if _, l.err = io.WriteString(l.w, p); l.err != nil {
			return
		}
	}
	_, l.err = io.WriteString(l.w, "\n")
}

func writeTable[T any](w io.Writer, items []T) error {
	if len(items) == 0 {
		return nil
	}
	body, err := rows(Table, items)
	if err != nil {
		return err
	}
	first := firstItem(items)

	var header []string
	if h, ok := first.(Headed); ok {
		header = h.Header()
	}
	var aligns []Alignment
	if a, ok := first.(Aligned); ok {
		aligns = a.Alignments()
	}
	border := BorderRounded
	if b, ok := first.(Bordered); ok {
		border = b.Border()
	}
	var title string
	if t, ok := first.(Titled); ok {
		title = t.Title()
	}

	g := newGrid(header, body, aligns)
	out := &lines{w: w}
	if border == BorderNone {
		g.plain(out, title)
	} else {
		g.bordered(out, title, borderSets[border])
	}
	return out.err
}

func (g *grid) plain(out *lines, title string) {
	if title != "" {
		out.put(title)
	}
	row := func(cells []string) {
		out.put(strings.TrimRight(strings.Join(g.cells(cells), "  "), " "))
	}
	if len(g.header) > 0 {
		row(g.header)
		rule := make([]string, len(g.widths))
		for i, width := range g.widths {
			rule[i] = strings.Repeat("-", width)
		}
		out.put(strings.Join(rule, "  "))
	}
	for _, r := range g.rows {
		row(r)
	}
}

func (g *grid) bordered(out *lines, title string, bc borderChars) {
	rule := func(left, mid, right string) {
		segs := make([]string, len(g.widths))
		for i, width := range g.widths {
			segs[i] = strings.Repeat(bc.horizontal, width+2)
		}
		out.put(left, strings.Join(segs, mid), right)
	}
	row := func(cells []string) {
		out.put(bc.vertical, " ", strings.Join(g.cells(cells), " "+bc.vertical+" "), " ", bc.vertical)
	}

	if title != "" {
		inner := len(g.widths) - 1
		for _, width := range g.widths {
			inner += width + 2
		}
		rule(bc.topLeft, bc.horizontal, bc.topRight)
		out.put(bc.vertical, " ", align(title, inner-2, AlignCenter), " ", bc.vertical)
		rule(bc.leftTee, bc.topTee, bc.rightTee)
	} else {
		rule(bc.topLeft, bc.topTee, bc.topRight)
	}
	if len(g.header) > 0 {
		row(g.header)
		rule(bc.leftTee, bc.cross, bc.rightTee)
	}
	for _, r := range g.rows {
		row(r)
	}
	rule(bc.bottomLeft, bc.bottomTee, bc.bottomRight)
}

func writeMarkdown[T any](w io.Writer, items []T) error {
	if len(items) == 0 {
		return nil
	}
	body, err := rows(Markdown, items)
	if err != nil {
		return err
	}
	first := firstItem(items)
	h, ok := first.(Headed)
	if !ok {
		return missing(Markdown, "Headed", first)
	}
	var aligns []Alignment
	if a, ok := first.(Aligned); ok {
		aligns = a.Alignments()
	}

	g := newGrid(h.Header(), body, aligns)
	for i := range g.widths {
		// Room for the alignment markers.
		g.widths[i] = max(g.widths[i], 3)
	}
	out := &lines{w: w}
	row := func(cells []string) { out.put("| ", strings.Join(cells, " | "), " |") }

	row(g.cells(g.header))
	markers := make([]string, len(g.widths))
	for i, width := range g.widths {
		switch g.aligns[i] {
		case AlignRight:
			markers[i] = strings.Repeat("-", width-1) + ":"
		case AlignCenter:
			markers[i] = ":" + strings.Repeat("-", width-2) + ":"
		default:
			markers[i] = strings.Repeat("-", width)
		}
	}
	row(markers)
	for _, r := range g.rows {
		row(g.cells(r))
	}
	return out.err
}
