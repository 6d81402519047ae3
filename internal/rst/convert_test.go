package rst_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"confluence2rst/internal/logger"
	"confluence2rst/internal/rst"
)

type fixedRewriter struct {
	out string
	err error
}

func (f fixedRewriter) Name() string { return "fixed" }
func (f fixedRewriter) Rewrite(context.Context, string) (string, error) {
	return f.out, f.err
}

type upperRewriter struct{}

func (upperRewriter) Name() string { return "upper" }
func (upperRewriter) Rewrite(_ context.Context, text string) (string, error) {
	return strings.ToUpper(text) + "!", nil
}

type countingRewriter struct {
	calls int
}

func (c *countingRewriter) Name() string { return "counting" }
func (c *countingRewriter) Rewrite(_ context.Context, text string) (string, error) {
	c.calls++
	return strings.ToUpper(text) + "!", nil
}

func convert(t *testing.T, opts rst.Options, title, html string) rst.Result {
	t.Helper()
	res, err := rst.NewConverter(opts).Convert(context.Background(), title, html)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	return res
}

func body(t *testing.T, res rst.Result, title string) string {
	t.Helper()
	prefix := rst.TitleBlock(title)
	if !strings.HasPrefix(res.Text, prefix) {
		t.Fatalf("missing title block, got %q", res.Text)
	}
	return strings.TrimPrefix(res.Text, prefix)
}

func TestConvert_HeadingAndParagraph(t *testing.T) {
	res := convert(t, rst.Options{}, "Demo", "<h1>Intro</h1><p>Hello world</p>")
	want := "\n====\nDemo\n====\n\n\nIntro\n=====\nHello world\n\n"
	if res.Text != want {
		t.Fatalf("got %q\nwant %q", res.Text, want)
	}
}

func TestConvert_Elements(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "UnorderedList",
			html: "<ul><li>A</li><li>B</li></ul>",
			want: "- A\n- B\n\n",
		},
		{
			name: "OrderedList",
			html: "<ol><li>first</li><li>second</li><li>third</li></ol>",
			want: "1. first\n2. second\n3. third\n\n",
		},
		{
			name: "SubHeading",
			html: "<h2>Set<b>up</b></h2>",
			want: "\nSetup\n-----\n",
		},
		{
			name: "UnicodeHeadingUsesRuneLength",
			html: "<h1>Überblick</h1>",
			want: "\nÜberblick\n=========\n",
		},
		{
			name: "Preformatted",
			html: "<pre>line1\n  line2\nline3\n</pre>",
			want: ".. code-block::\n\n    line1\n      line2\n    line3\n\n",
		},
		{
			name: "IgnoredElements",
			html: "<div>hidden</div><h3>nope</h3><blockquote>q</blockquote>",
			want: "",
		},
		{
			name: "DocumentOrder",
			html: "<p>one</p>\n<ul><li>two</li></ul>\n<p>three</p>",
			want: "one\n\n- two\n\nthree\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := convert(t, rst.Options{}, "T", tt.html)
			if got := body(t, res, "T"); got != tt.want {
				t.Fatalf("got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestConvert_NoRecognizedContentYieldsTitleOnly(t *testing.T) {
	for _, html := range []string{"", "<div><p>nested</p></div>", "plain text"} {
		res := convert(t, rst.Options{}, "Only Title", html)
		if res.Text != rst.TitleBlock("Only Title") {
			t.Fatalf("html %q: got %q", html, res.Text)
		}
	}
}

func TestConvert_UnderlineMatchesRewrittenText(t *testing.T) {
	res := convert(t, rst.Options{Rewriter: upperRewriter{}}, "T", "<h1>Intro</h1><h2>Next</h2><p>body</p>")
	want := "\nINTRO!\n======\n\nNEXT!\n-----\nBODY!\n\n"
	if got := body(t, res, "T"); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if res.Stats.Rewritten != 3 || res.Stats.Fallbacks != 0 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
}

func TestConvert_OrderedNumberingIgnoresRewriteContent(t *testing.T) {
	res := convert(t, rst.Options{Rewriter: fixedRewriter{out: "7. same"}}, "T", "<ol><li>a</li><li>b</li><li>c</li></ol>")
	want := "1. 7. same\n2. 7. same\n3. 7. same\n\n"
	if got := body(t, res, "T"); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestConvert_RewriteFailureKeepsOriginal(t *testing.T) {
	var logs bytes.Buffer
	r := fixedRewriter{err: errors.New("model unavailable")}
	opts := rst.Options{Rewriter: r, Logger: logger.New(logger.Config{Level: "warn", Output: &logs})}
	res := convert(t, opts, "T", "<h1>Intro</h1><p>Hello</p><ul><li>A</li></ul>")
	want := "\nIntro\n=====\nHello\n\n- A\n\n"
	if got := body(t, res, "T"); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if res.Stats.Fallbacks != 3 || res.Stats.Rewritten != 0 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	out := logs.String()
	if strings.Count(out, "keeping original text") != 3 {
		t.Fatalf("expected one warning per fallback, got:\n%s", out)
	}
	for _, want := range []string{`"tag": "h1"`, `"chars": 5`, "model unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log:\n%s", want, out)
		}
	}
}

func TestConvert_BlankFragmentsSkipRewriter(t *testing.T) {
	r := &countingRewriter{}
	res := convert(t, rst.Options{Rewriter: r}, "T", "<p></p><p>  </p><p>Hello</p>")
	want := "\n\n  \n\nHELLO!\n\n"
	if got := body(t, res, "T"); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if r.calls != 1 {
		t.Fatalf("rewriter called %d times, want 1", r.calls)
	}
	if res.Stats.Rewritten != 1 || res.Stats.Fallbacks != 0 || res.Stats.Paragraphs != 3 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
}

func TestConvert_CodeAndTablesAreNotRewritten(t *testing.T) {
	html := "<pre>x = 1</pre><table><tr><td>cell</td></tr></table>"
	res := convert(t, rst.Options{Rewriter: upperRewriter{}}, "T", html)
	want := ".. code-block::\n\n    x = 1\n\n+------+\n| cell |\n+------+\n"
	if got := body(t, res, "T"); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if res.Stats.Rewritten != 0 {
		t.Fatalf("expected no rewrites, got %+v", res.Stats)
	}
}

func TestConvert_Stats(t *testing.T) {
	html := `<h1>a</h1><h2>b</h2><p>c</p><pre>d</pre><ul><li>e</li><li>f</li></ul><ol><li>g</li></ol><table><tr><td>h</td></tr></table><div>i</div>`
	res := convert(t, rst.Options{}, "T", html)
	want := rst.Stats{Headings: 2, Paragraphs: 1, CodeBlocks: 1, Lists: 2, ListItems: 3, Tables: 1, Skipped: 1}
	if res.Stats != want {
		t.Fatalf("stats = %+v, want %+v", res.Stats, want)
	}
}

func TestConvert_TableFromHTML(t *testing.T) {
	html := `<table><tr><th>Name</th><th>Age</th></tr><tr><td>Alice</td><td>30</td></tr></table>`

	grid := body(t, convert(t, rst.Options{}, "T", html), "T")
	wantGrid := "+-------+-----+\n| Name  | Age |\n+-------+-----+\n| Alice | 30  |\n+-------+-----+\n"
	if grid != wantGrid {
		t.Fatalf("grid:\n%s\nwant:\n%s", grid, wantGrid)
	}

	legacy := body(t, convert(t, rst.Options{TableLayout: rst.LayoutLegacy}, "T", html), "T")
	wantLegacy := "+------+------+-------+-------+\n| Name  | Age   |\n+------+------+-------+-------+\n| Alice | 30    |\n+------+------+-------+-------+\n"
	if legacy != wantLegacy {
		t.Fatalf("legacy:\n%s\nwant:\n%s", legacy, wantLegacy)
	}
}
