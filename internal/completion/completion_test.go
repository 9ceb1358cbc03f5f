package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go"

	"github.com/tbourn/go-mindcare-backend/internal/config"
)

const okBody = `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.OpenAIConfig{
		APIKey:     "sk-test",
		Model:      "gpt-4o-mini",
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	})
}

func writeCompletion(w http.ResponseWriter, content string) {
	c, _ := json.Marshal(content)
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, okBody, c)
}

func TestComplete_SendsPersonaAndMessage(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var path, auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		writeCompletion(w, "That sounds hard. I'm here.")
	})

	reply, err := c.Complete(context.Background(), "I feel alone")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "That sounds hard. I'm here." {
		t.Fatalf("reply = %q", reply)
	}
	if path != "/chat/completions" || auth != "Bearer sk-test" {
		t.Fatalf("unexpected request path=%q auth=%q", path, auth)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != Persona {
		t.Fatalf("system turn = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || got.Messages[1].Content != "I feel alone" {
		t.Fatalf("user turn = %+v", got.Messages[1])
	}
}

func TestComplete_EmptyContentFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "")
	})
	reply, err := c.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != FallbackReply {
		t.Fatalf("reply = %q; want fallback", reply)
	}
}

func TestComplete_ServiceErrorPropagates(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	})
	reply, err := c.Complete(context.Background(), "hi")
	if err == nil {
		t.Fatalf("expected error, got reply %q", reply)
	}
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected wrapped *openai.Error with 500, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected a single attempt with retries disabled, got %d", n)
	}
}

func TestExtractReply(t *testing.T) {
	if got := ExtractReply(nil); got != FallbackReply {
		t.Fatalf("nil response: %q", got)
	}
	if got := ExtractReply(&openai.ChatCompletion{}); got != FallbackReply {
		t.Fatalf("no choices: %q", got)
	}
	resp := &openai.ChatCompletion{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: ""}},
	}}
	if got := ExtractReply(resp); got != FallbackReply {
		t.Fatalf("empty content: %q", got)
	}
	resp.Choices[0].Message.Content = "  "
	if got := ExtractReply(resp); got != "  " {
		t.Fatalf("whitespace content must pass through: %q", got)
	}
	resp.Choices[0].Message.Content = "hello"
	if got := ExtractReply(resp); got != "hello" {
		t.Fatalf("content: %q", got)
	}
}
