// Package markdown renders the companion Markdown export of a page.
package markdown

import (
	"regexp"
	"strings"

	htmltomd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

type Converter struct {
	md *htmltomd.Converter
}

// NewConverter builds a converter that resolves relative links and images
// against baseURL, the Confluence site the page came from.
func NewConverter(baseURL string) *Converter {
	conv := htmltomd.NewConverter(strings.TrimRight(baseURL, "/"), true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.Use(TablePlugin())
	conv.Use(PanelPlugin())
	conv.Use(plugin.ConfluenceCodeBlock())
	conv.Use(plugin.ConfluenceAttachments())
	conv.AddRules(codeBlockRule())
	return &Converter{md: conv}
}

// PageToMarkdown renders the page title as a top-level heading followed by the
// converted storage body.
func (c *Converter) PageToMarkdown(title, html string) (string, error) {
	headingLine := strings.TrimSpace("# " + title)

	body, err := c.md.ConvertString(html)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return headingLine + "\n", nil
	}
	return headingLine + "\n\n" + strings.TrimSpace(body) + "\n", nil
}

func codeBlockRule() htmltomd.Rule {
	return htmltomd.Rule{
		Filter: []string{"pre"},
		Replacement: func(_ string, selec *goquery.Selection, _ *htmltomd.Options) *string {
			if selec == nil {
				empty := ""
				return &empty
			}

			lang := detectLanguage(selec)
			if code := selec.Find("code").First(); code.Length() > 0 && lang == "" {
				lang = detectLanguage(code)
			}

			text := strings.ReplaceAll(selec.Text(), "\r\n", "\n")
			text = strings.Trim(text, "\n")

			fence := "```"
			for strings.Contains(text, fence) {
				fence += "`"
			}

			out := "\n" + fence + lang + "\n" + text + "\n" + fence + "\n"
			return &out
		},
	}
}

var languageClass = regexp.MustCompile(`(?:^|\s)(?:language|lang)-([a-zA-Z0-9_+-]+)(?:\s|$)`)

func detectLanguage(sel *goquery.Selection) string {
	class := strings.TrimSpace(sel.AttrOr("class", ""))
	if class == "" {
		return ""
	}
	m := languageClass.FindStringSubmatch(class)
	if len(m) != 2 {
		return ""
	}
	lang := strings.ToLower(m[1])
	if lang == "golang" {
		lang = "go"
	}
	return lang
}
