package rewrite_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"confluence2rst/internal/rewrite"
)

func TestRemote_ReturnsAssistantText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		var req struct {
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.System) != 1 || req.System[0].Text != rewrite.SystemPrompt {
			t.Errorf("unexpected system prompt: %+v", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content[0].Text != "teh text" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5",
  "content": [{"type": "text", "text": "The text."}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 5, "output_tokens": 3}
}`))
	}))
	defer srv.Close()

	r := rewrite.NewRemote(rewrite.RemoteOptions{APIKey: "test-key", BaseURL: srv.URL, Timeout: time.Second})
	got, err := r.Rewrite(context.Background(), "teh text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "The text." {
		t.Fatalf("got %q", got)
	}
}

func TestRemote_ErrorFallsBack(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"down"}}`))
	}))
	defer srv.Close()

	r := rewrite.NewRemote(rewrite.RemoteOptions{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second})
	out := rewrite.Apply(context.Background(), r, "as is")
	if !out.Fallback() || out.Text != "as is" {
		t.Fatalf("expected fallback, got %+v", out)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}
