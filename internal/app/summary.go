package app

import (
	"fmt"
	"strings"
)

func printSummary(rep Report, rewriter string) {
	s := rep.Stats
	fmt.Printf("Page: %s (%s)\n", rep.Page.Title, rep.Page.ID)
	fmt.Printf("Headings: %d  Paragraphs: %d  Code blocks: %d\n", s.Headings, s.Paragraphs, s.CodeBlocks)
	fmt.Printf("Lists: %d (%d items)  Tables: %d  Skipped elements: %d\n", s.Lists, s.ListItems, s.Tables, s.Skipped)
	if rewriter != "none" {
		fmt.Printf("Rewriter %s: %d rewritten, %d kept original\n", rewriter, s.Rewritten, s.Fallbacks)
	}

	a := rep.Analysis
	if a.Issues() == 0 {
		return
	}
	fmt.Println("Content not carried over:")
	printList("unsupported elements", a.SkippedTags)
	printList("macros", a.Macros)
	printList("empty blocks", a.EmptyBlocks)
	printList("h2 before any h1", a.HeadingGaps)
}

func printList(label string, items []string) {
	if len(items) > 0 {
		fmt.Printf("  %s: %s\n", label, strings.Join(items, ", "))
	}
}
