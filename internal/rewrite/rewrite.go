// Package rewrite passes text fragments through an external text-generation
// service. A failed rewrite never fails the conversion: Apply falls back to the
// original text and reports why.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindNone   Kind = "none"
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

const (
	DefaultLocalEndpoint = "http://127.0.0.1:8080/generate"
	DefaultRemoteModel   = "claude-sonnet-4-5"
	DefaultTimeout       = 60 * time.Second

	// SystemPrompt is sent with every remote rewrite.
	SystemPrompt = "Rewrite the following text in professional US English."
)

// Rewriter returns a semantically similar version of text.
type Rewriter interface {
	Name() string
	Rewrite(ctx context.Context, text string) (string, error)
}

// Outcome is the result of one rewrite attempt. On failure Text holds the
// original fragment and Err the cause.
type Outcome struct {
	Text     string
	Original string
	Err      error
}

func (o Outcome) Fallback() bool {
	return o.Err != nil
}

// Apply runs r on text. A nil rewriter leaves text untouched.
func Apply(ctx context.Context, r Rewriter, text string) Outcome {
	if r == nil {
		return Outcome{Text: text, Original: text}
	}
	rewritten, err := r.Rewrite(ctx, text)
	if err != nil {
		return Outcome{Text: text, Original: text, Err: err}
	}
	return Outcome{Text: rewritten, Original: text}
}

// Config selects and configures a rewriter. The credential is resolved once,
// before the run starts.
type Config struct {
	Kind     Kind
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// ParseKind normalizes a rewriter name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindNone:
		return KindNone, nil
	case KindLocal, KindRemote:
		return k, nil
	default:
		return "", fmt.Errorf("unknown rewriter %q (use none|local|remote)", s)
	}
}

// New builds the rewriter described by cfg. KindNone yields a nil Rewriter.
func New(cfg Config) (Rewriter, error) {
	kind, err := ParseKind(string(cfg.Kind))
	if err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch kind {
	case KindLocal:
		endpoint := strings.TrimSpace(cfg.Endpoint)
		if endpoint == "" {
			return nil, errors.New("local rewriter requires an endpoint")
		}
		return NewLocal(LocalOptions{Endpoint: endpoint, Timeout: cfg.Timeout}), nil
	case KindRemote:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("remote rewriter requires an api key")
		}
		return NewRemote(RemoteOptions{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.Endpoint,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, nil
	}
}
