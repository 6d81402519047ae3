package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	localMaxLength = 150
	localSequences = 1
)

type LocalOptions struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Local calls a text-generation server that speaks the Hugging Face pipeline
// request shape. Both the TGI object reply and the pipeline array reply are
// understood.
type Local struct {
	endpoint   string
	httpClient *http.Client
}

func NewLocal(opts LocalOptions) *Local {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Local{endpoint: opts.Endpoint, httpClient: hc}
}

func (l *Local) Name() string { return string(KindLocal) }

type generateParameters struct {
	MaxLength          int  `json:"max_length"`
	NumReturnSequences int  `json:"num_return_sequences"`
	Truncation         bool `json:"truncation"`
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

func (l *Local) Rewrite(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Inputs: text,
		Parameters: generateParameters{
			MaxLength:          localMaxLength,
			NumReturnSequences: localSequences,
			Truncation:         true,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generation: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generation endpoint returned http status %d", resp.StatusCode)
	}

	return decodeGeneration(body)
}

// decodeGeneration accepts the single object returned by a TGI /generate
// route and the array returned by the Inference API pipeline.
func decodeGeneration(body []byte) (string, error) {
	var single struct {
		GeneratedText *string `json:"generated_text"`
	}
	objErr := json.Unmarshal(body, &single)
	if objErr == nil {
		if single.GeneratedText == nil {
			return "", errors.New("generation reply has no generated_text")
		}
		return *single.GeneratedText, nil
	}

	var out []generation
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode generation: %w", objErr)
	}
	if len(out) == 0 {
		return "", errors.New("generation endpoint returned no sequences")
	}
	return out[0].GeneratedText, nil
}
