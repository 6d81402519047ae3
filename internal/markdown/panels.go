package markdown

import (
	"strings"

	htmltomd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// panelTitles maps the class suffix of a rendered Confluence info panel to the
// label shown in the exported blockquote.
var panelTitles = []struct {
	suffix string
	title  string
}{
	{"note", "Note"},
	{"warning", "Warning"},
	{"tip", "Tip"},
	{"information", "Info"},
	{"info", "Info"},
}

// PanelPlugin turns Confluence info panels into titled blockquotes and
// description lists into bold terms followed by ": definition" lines.
func PanelPlugin() htmltomd.Plugin {
	return func(_ *htmltomd.Converter) []htmltomd.Rule {
		return []htmltomd.Rule{{
			Filter: []string{"div", "aside"},
			Replacement: func(content string, selec *goquery.Selection, _ *htmltomd.Options) *string {
				title := panelTitle(selec.AttrOr("class", ""))
				if title == "" {
					return nil
				}

				var b strings.Builder
				b.WriteString("\n> **" + title + "**\n")
				for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
					if strings.TrimSpace(line) == "" {
						b.WriteString(">\n")
						continue
					}
					b.WriteString("> " + line + "\n")
				}
				b.WriteString("\n")

				res := b.String()
				return &res
			},
		}, {
			Filter: []string{"dt"},
			Replacement: func(content string, _ *goquery.Selection, _ *htmltomd.Options) *string {
				res := "\n**" + strings.TrimSpace(content) + "**\n"
				return &res
			},
		}, {
			Filter: []string{"dd"},
			Replacement: func(content string, _ *goquery.Selection, _ *htmltomd.Options) *string {
				res := ": " + strings.TrimSpace(content) + "\n"
				return &res
			},
		}}
	}
}

func panelTitle(class string) string {
	for _, c := range strings.Fields(strings.ToLower(class)) {
		name, ok := strings.CutPrefix(c, "confluence-information-macro-")
		if !ok {
			continue
		}
		for _, p := range panelTitles {
			if name == p.suffix {
				return p.title
			}
		}
	}
	return ""
}
