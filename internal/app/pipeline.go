package app

import (
	"context"

	"confluence2rst/internal/confluence"
	"confluence2rst/internal/failure"
	"confluence2rst/internal/logger"
	"confluence2rst/internal/markdown"
	"confluence2rst/internal/rewrite"
	"confluence2rst/internal/rst"
)

type pipeline struct {
	client   *confluence.Client
	rewriter rewrite.Rewriter
	conv     *rst.Converter
	md       *markdown.Converter
	log      logger.Logger
}

func newPipeline(opts Options, log logger.Logger) (*pipeline, error) {
	client, err := confluence.NewClient(confluence.Options{
		BaseURL:   opts.BaseURL,
		Auth:      confluence.BearerAuth{Token: opts.Token},
		Timeout:   opts.Timeout,
		UserAgent: opts.UserAgent,
	})
	if err != nil {
		return nil, failure.NewConfig(err.Error())
	}

	rewriter, err := rewrite.New(opts.Rewrite)
	if err != nil {
		return nil, failure.NewConfig(err.Error())
	}

	return &pipeline{
		client:   client,
		rewriter: rewriter,
		conv: rst.NewConverter(rst.Options{
			Rewriter:    rewriter,
			TableLayout: opts.TableLayout,
			Logger:      log,
		}),
		md:  markdown.NewConverter(opts.BaseURL),
		log: log,
	}, nil
}

func (p *pipeline) fetch(ctx context.Context, pageID string) (confluence.Page, error) {
	return p.client.GetPage(ctx, pageID)
}

func (p *pipeline) rewriterName() string {
	if p.rewriter == nil {
		return string(rewrite.KindNone)
	}
	return p.rewriter.Name()
}
