// Package report inspects a page body for content the reST conversion will
// drop or render oddly.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// converted lists the body-level tags the converter understands.
var converted = map[string]bool{
	"h1": true, "h2": true, "p": true, "pre": true,
	"ul": true, "ol": true, "table": true,
}

type Report struct {
	SkippedTags []string `json:"skipped_tags"`
	EmptyBlocks []string `json:"empty_blocks"`
	HeadingGaps []string `json:"heading_gaps"`
	Macros      []string `json:"macros"`
}

// Issues is the total number of findings.
func (r Report) Issues() int {
	return len(r.SkippedTags) + len(r.EmptyBlocks) + len(r.HeadingGaps) + len(r.Macros)
}

func Analyze(html string) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Report{}, err
	}

	skipped := map[string]struct{}{}
	empty := []string{}
	gaps := []string{}
	seenH1 := false

	doc.Find("body").First().Children().Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if !converted[tag] {
			skipped[tag] = struct{}{}
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" && tag != "table" {
			empty = append(empty, fmt.Sprintf("%s#%d", tag, i+1))
		}
		switch tag {
		case "h1":
			seenH1 = true
		case "h2":
			if !seenH1 {
				gaps = append(gaps, text)
			}
		}
	})

	macros := map[string]struct{}{}
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) != "ac:structured-macro" {
			return
		}
		if name := s.AttrOr("ac:name", ""); name != "" {
			macros[name] = struct{}{}
		}
	})

	return Report{
		SkippedTags: sortedKeys(skipped),
		EmptyBlocks: empty,
		HeadingGaps: gaps,
		Macros:      sortedKeys(macros),
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
