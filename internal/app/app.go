package app

import (
	"context"
	"fmt"
	"time"

	"confluence2rst/internal/confluence"
	"confluence2rst/internal/failure"
	"confluence2rst/internal/logger"
	"confluence2rst/internal/output"
	"confluence2rst/internal/report"
	"confluence2rst/internal/rewrite"
	"confluence2rst/internal/rst"
)

type Options struct {
	PageID      string
	BaseURL     string
	Token       string
	Timeout     time.Duration
	UserAgent   string
	OutputDir   string
	Stdout      bool
	Markdown    bool
	TableLayout rst.TableLayout
	Rewrite     rewrite.Config
}

// Report describes what a run produced. WriteErr is set when a file could not
// be written; the run itself still counts as completed.
type Report struct {
	Page         confluence.Page
	Stats        rst.Stats
	Analysis     report.Report
	RST          string
	RSTPath      string
	MarkdownPath string
	WriteErr     error
}

// Run fetches one page, converts it and writes the result. Only invalid options
// and fetch failures are returned as errors.
func Run(ctx context.Context, opts Options, log logger.Logger) (Report, error) {
	if log == nil {
		log = logger.Nop()
	}
	normalized, err := normalizeOptions(opts)
	if err != nil {
		return Report{}, err
	}
	log = log.With(logger.String("page_id", normalized.PageID))

	p, err := newPipeline(normalized, log)
	if err != nil {
		return Report{}, err
	}

	page, err := p.fetch(ctx, normalized.PageID)
	if err != nil {
		return Report{}, failure.NewFetch(normalized.PageID, err)
	}
	log.Debug("fetched page",
		logger.String("title", page.Title),
		logger.Int("html_bytes", len(page.HTML)),
	)

	converted, err := p.conv.Convert(ctx, page.Title, page.HTML)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Page: page, Stats: converted.Stats, RST: converted.Text}

	analysis, err := report.Analyze(page.HTML)
	if err != nil {
		log.Warn("page analysis failed", logger.Error(err))
	} else if analysis.Issues() > 0 {
		rep.Analysis = analysis
		log.Warn("page content not fully converted",
			logger.Int("skipped_tags", len(analysis.SkippedTags)),
			logger.Int("empty_blocks", len(analysis.EmptyBlocks)),
			logger.Int("heading_gaps", len(analysis.HeadingGaps)),
			logger.Int("macros", len(analysis.Macros)),
		)
	}

	if normalized.Stdout {
		fmt.Print(converted.Text)
		return rep, nil
	}

	p.write(normalized, &rep)
	printSummary(rep, p.rewriterName())
	return rep, nil
}

func (p *pipeline) write(opts Options, rep *Report) {
	name := output.FileName(rep.Page.Title, output.RSTExt)
	path, err := output.WriteRST(opts.OutputDir, name, rep.RST)
	if err != nil {
		rep.WriteErr = failure.NewWrite(name, err)
		p.log.Error("error saving file", logger.Error(rep.WriteErr))
		fmt.Printf("Error saving file: %v\n", err)
	} else {
		rep.RSTPath = path
		fmt.Printf("File saved as %s\n", path)
	}

	if !opts.Markdown {
		return
	}
	md, err := p.md.PageToMarkdown(rep.Page.Title, rep.Page.HTML)
	if err != nil {
		p.log.Warn("markdown export skipped", logger.Error(err))
		return
	}
	mdName := output.FileName(rep.Page.Title, output.MarkdownExt)
	mdPath, err := output.WriteMarkdown(opts.OutputDir, mdName, md)
	if err != nil {
		werr := failure.NewWrite(mdName, err)
		p.log.Error("error saving markdown", logger.Error(werr))
		if rep.WriteErr == nil {
			rep.WriteErr = werr
		}
		return
	}
	rep.MarkdownPath = mdPath
	fmt.Printf("Wrote markdown: %s\n", mdPath)
}
