package markdown

import (
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// TablePlugin renders tables as pipe tables. Cells spanning several rows or
// columns are repeated into every slot they cover, so the first row is always
// a complete header.
func TablePlugin() md.Plugin {
	return func(conv *md.Converter) []md.Rule {
		return []md.Rule{{
			Filter: []string{"table"},
			Replacement: func(_ string, selec *goquery.Selection, _ *md.Options) *string {
				g := newSpanGrid()
				rows := selec.Find("tr")
				if rows.Length() == 0 {
					return nil
				}
				rows.Each(func(r int, tr *goquery.Selection) {
					g.addRow(conv, r, tr)
				})
				out := g.render()
				return &out
			},
		}}
	}
}

type spanGrid struct {
	cells map[int]map[int]string
	rows  int
	cols  int
}

func newSpanGrid() *spanGrid {
	return &spanGrid{cells: map[int]map[int]string{}}
}

func (g *spanGrid) row(r int) map[int]string {
	if _, ok := g.cells[r]; !ok {
		g.cells[r] = map[int]string{}
	}
	return g.cells[r]
}

func (g *spanGrid) addRow(conv *md.Converter, r int, tr *goquery.Selection) {
	g.rows++
	g.row(r)
	c := 0
	tr.Children().Filter("td, th").Each(func(_ int, cell *goquery.Selection) {
		for {
			if _, taken := g.cells[r][c]; !taken {
				break
			}
			c++
		}
		text := cleanCell(conv.Convert(cell))
		rowSpan, colSpan := span(cell, "rowspan"), span(cell, "colspan")
		for dr := 0; dr < rowSpan; dr++ {
			for dc := 0; dc < colSpan; dc++ {
				g.row(r + dr)[c+dc] = text
				if c+dc+1 > g.cols {
					g.cols = c + dc + 1
				}
			}
		}
		c += colSpan
	})
}

func (g *spanGrid) render() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		b.WriteString("|")
		for c := 0; c < g.cols; c++ {
			b.WriteString(" " + g.cells[r][c] + " |")
		}
		b.WriteString("\n")
		if r == 0 {
			b.WriteString("|" + strings.Repeat(" --- |", g.cols) + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func span(cell *goquery.Selection, attr string) int {
	if v, err := strconv.Atoi(cell.AttrOr(attr, "1")); err == nil && v > 1 {
		return v
	}
	return 1
}

func cleanCell(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(text, "\n", " ")
}
