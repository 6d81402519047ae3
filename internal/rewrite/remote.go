package rewrite

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const remoteMaxTokens = 1024

type RemoteOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Remote rewrites through the Anthropic Messages API.
type Remote struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewRemote(opts RemoteOptions) *Remote {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultRemoteModel
	}
	return &Remote{
		client: anthropic.NewClient(reqOpts...),
		model:  anthropic.Model(model),
	}
}

func (r *Remote) Name() string { return string(KindRemote) }

func (r *Remote) Rewrite(ctx context.Context, text string) (string, error) {
	msg, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: remoteMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	found := false
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		found = true
		b.WriteString(block.Text)
	}
	if !found {
		return "", errors.New("completion contained no text")
	}
	return b.String(), nil
}
