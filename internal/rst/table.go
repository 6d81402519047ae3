package rst

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type TableLayout string

const (
	// LayoutGrid sizes every column to its widest cell so borders line up.
	LayoutGrid TableLayout = "grid"
	// LayoutLegacy keeps the older converter output byte for byte. It uses
	// one width per cell in row-major order, each equal to the widest cell of
	// its row plus two. Borders only line up when all widths agree.
	LayoutLegacy TableLayout = "legacy"
)

func ParseTableLayout(s string) (TableLayout, error) {
	switch l := TableLayout(strings.ToLower(strings.TrimSpace(s))); l {
	case "", LayoutGrid:
		return LayoutGrid, nil
	case LayoutLegacy:
		return l, nil
	default:
		return "", fmt.Errorf("unknown table layout %q (use grid|legacy)", s)
	}
}

// RenderTable emits a border before the first row and after every row.
// Cell text is used verbatim apart from trimming surrounding whitespace.
func RenderTable(rows [][]string, layout TableLayout) string {
	if layout == LayoutLegacy {
		return renderLegacy(rows)
	}
	return renderGrid(rows)
}

func renderGrid(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]int, cols)
	for c := range widths {
		widths[c] = 2
	}
	for _, row := range rows {
		for c, cell := range row {
			if w := runeLen(strings.TrimSpace(cell)) + 2; w > widths[c] {
				widths[c] = w
			}
		}
	}

	border := borderLine(widths)
	var b strings.Builder
	b.WriteString(border)
	for _, row := range rows {
		segments := make([]string, cols)
		for c := range segments {
			cell := ""
			if c < len(row) {
				cell = strings.TrimSpace(row[c])
			}
			segments[c] = " " + ljust(cell, widths[c]-2) + " "
		}
		b.WriteString("|" + strings.Join(segments, "|") + "|\n")
		b.WriteString(border)
	}
	return b.String()
}

func renderLegacy(rows [][]string) string {
	widths := []int{}
	for _, row := range rows {
		rowMax := 0
		for _, cell := range row {
			if n := runeLen(cell); n > rowMax {
				rowMax = n
			}
		}
		for range row {
			widths = append(widths, rowMax+2)
		}
	}

	border := borderLine(widths)
	var b strings.Builder
	b.WriteString(border)
	for _, row := range rows {
		n := len(row)
		if len(widths) < n {
			n = len(widths)
		}
		segments := make([]string, n)
		for c := 0; c < n; c++ {
			segments[c] = " " + ljust(strings.TrimSpace(row[c]), widths[c]-1) + " "
		}
		b.WriteString("|" + strings.Join(segments, "|") + "|\n")
		b.WriteString(border)
	}
	return b.String()
}

func borderLine(widths []int) string {
	dashes := make([]string, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	return "+" + strings.Join(dashes, "+") + "+\n"
}

func ljust(s string, width int) string {
	if pad := width - runeLen(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
