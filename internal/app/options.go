package app

import (
	"strings"
	"time"

	"confluence2rst/internal/confluence"
	"confluence2rst/internal/failure"
	"confluence2rst/internal/rewrite"
	"confluence2rst/internal/rst"
)

const (
	DefaultTimeoutSeconds = 60
	DefaultOutputDir      = "."
)

func normalizeOptions(opts Options) (Options, error) {
	opts.PageID = strings.TrimSpace(opts.PageID)
	opts.BaseURL = strings.TrimSpace(opts.BaseURL)
	opts.Token = strings.TrimSpace(opts.Token)

	if opts.PageID == "" {
		return opts, failure.NewConfig("page id is required")
	}
	if opts.BaseURL == "" {
		return opts, failure.NewConfig("base url is required")
	}
	if opts.Token == "" {
		return opts, failure.NewConfig("api token is required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSeconds) * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = confluence.DefaultUserAgent
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.TableLayout == "" {
		opts.TableLayout = rst.LayoutGrid
	}
	if opts.Rewrite.Kind == "" {
		opts.Rewrite.Kind = rewrite.KindNone
	}
	if opts.Rewrite.Timeout == 0 {
		opts.Rewrite.Timeout = opts.Timeout
	}
	return opts, nil
}
