package output

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	RSTExt      = ".rst"
	MarkdownExt = ".md"
)

// FileName derives the output name from a page title: spaces become
// underscores and ext is appended.
func FileName(title, ext string) string {
	return strings.ReplaceAll(title, " ", "_") + ext
}

// WriteRST writes text to dir/name, replacing any existing file.
func WriteRST(dir, name, text string) (string, error) {
	return writeFile(dir, name, text)
}

// WriteMarkdown writes the companion Markdown export.
func WriteMarkdown(dir, name, text string) (string, error) {
	return writeFile(dir, name, text)
}

func writeFile(dir, name, text string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", err
	}
	return path, nil
}
