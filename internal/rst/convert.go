// Package rst turns a Confluence storage-format body into reStructuredText.
//
// Only the immediate children of the body are considered, and only a fixed set
// of element kinds produces output: h1, h2, p, pre, ul, ol and table. Anything
// else is skipped. Conversion is a single append-only pass in document order.
package rst

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"confluence2rst/internal/failure"
	"confluence2rst/internal/logger"
	"confluence2rst/internal/rewrite"
)

type Options struct {
	Rewriter    rewrite.Rewriter
	TableLayout TableLayout
	Logger      logger.Logger
}

type Converter struct {
	rewriter rewrite.Rewriter
	layout   TableLayout
	log      logger.Logger
}

// Stats counts what a conversion emitted.
type Stats struct {
	Headings   int
	Paragraphs int
	CodeBlocks int
	Lists      int
	ListItems  int
	Tables     int
	Skipped    int
	Rewritten  int
	Fallbacks  int
}

type Result struct {
	Text  string
	Stats Stats
}

func NewConverter(opts Options) *Converter {
	layout := opts.TableLayout
	if layout == "" {
		layout = LayoutGrid
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Converter{rewriter: opts.Rewriter, layout: layout, log: log}
}

// TitleBlock renders the over- and underlined document title.
func TitleBlock(title string) string {
	rule := strings.Repeat("=", utf8.RuneCountInString(title))
	return "\n" + rule + "\n" + title + "\n" + rule + "\n\n"
}

func (c *Converter) Convert(ctx context.Context, title, html string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Result{}, fmt.Errorf("parse storage body: %w", err)
	}

	state := &conversion{conv: c, ctx: ctx}
	state.out.WriteString(TitleBlock(title))

	doc.Find("body").First().Children().Each(func(_ int, s *goquery.Selection) {
		state.element(s)
	})

	return Result{Text: state.out.String(), Stats: state.stats}, nil
}

type conversion struct {
	conv  *Converter
	ctx   context.Context
	out   strings.Builder
	stats Stats
}

func (st *conversion) element(s *goquery.Selection) {
	switch tag := goquery.NodeName(s); tag {
	case "h1":
		st.heading(st.rewrite(tag, s.Text()), '=')
	case "h2":
		st.heading(st.rewrite(tag, s.Text()), '-')
	case "p":
		st.stats.Paragraphs++
		st.out.WriteString(st.rewrite(tag, s.Text()))
		st.out.WriteString("\n\n")
	case "pre":
		st.stats.CodeBlocks++
		st.out.WriteString(CodeBlock(s.Text()))
	case "ul":
		st.list(s, func(int) string { return "- " })
	case "ol":
		st.list(s, func(n int) string { return strconv.Itoa(n) + ". " })
	case "table":
		st.stats.Tables++
		st.out.WriteString(RenderTable(tableRows(s), st.conv.layout))
	default:
		st.stats.Skipped++
		st.conv.log.Debug("skipping element", logger.String("tag", tag))
	}
}

func (st *conversion) heading(text string, underline rune) {
	st.stats.Headings++
	st.out.WriteString("\n")
	st.out.WriteString(text)
	st.out.WriteString("\n")
	st.out.WriteString(strings.Repeat(string(underline), utf8.RuneCountInString(text)))
	st.out.WriteString("\n")
}

func (st *conversion) list(s *goquery.Selection, marker func(n int) string) {
	st.stats.Lists++
	s.Find("li").Each(func(i int, li *goquery.Selection) {
		st.stats.ListItems++
		st.out.WriteString(marker(i + 1))
		st.out.WriteString(st.rewrite("li", li.Text()))
		st.out.WriteString("\n")
	})
	st.out.WriteString("\n")
}

// rewrite sends text through the rewriter. Blank fragments, such as the empty
// spacer paragraphs Confluence emits, are returned untouched.
func (st *conversion) rewrite(tag, text string) string {
	if st.conv.rewriter == nil || strings.TrimSpace(text) == "" {
		return text
	}
	outcome := rewrite.Apply(st.ctx, st.conv.rewriter, text)
	if outcome.Fallback() {
		st.stats.Fallbacks++
		st.conv.log.Warn("keeping original text",
			logger.String("tag", tag),
			logger.Int("chars", utf8.RuneCountInString(outcome.Original)),
			logger.Error(failure.NewRewrite(st.conv.rewriter.Name(), outcome.Err)),
		)
		return outcome.Text
	}
	st.stats.Rewritten++
	return outcome.Text
}

// CodeBlock renders preformatted text as a code-block directive with every
// line indented by four spaces.
func CodeBlock(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	body := strings.ReplaceAll(strings.TrimSpace(text), "\n", "\n    ")
	return ".. code-block::\n\n    " + body + "\n\n"
}

func tableRows(table *goquery.Selection) [][]string {
	rows := [][]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})
		rows = append(rows, cells)
	})
	return rows
}
