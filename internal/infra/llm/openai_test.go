package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCompletionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestChatCompletion(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 {
			t.Errorf("request = %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"choices": [{"message": {"role": "assistant", "content": "hello there", "reasoning_content": "thinking"}}],
			"usage": {"total_tokens": 17}
		}`)
	})

	p := NewOpenAIProvider("test-key", srv.URL, "test-model")
	resp, err := p.ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "be nice"},
			{Role: "user", Content: "hi"},
		},
	})
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}
	if resp.Content != "hello there" || resp.Reasoning != "thinking" || resp.Tokens != 17 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestChatCompletion_HTTPError(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "nope"}}`, http.StatusUnauthorized)
	})

	p := NewOpenAIProvider("bad-key", srv.URL, "test-model")
	_, err := p.ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for HTTP 401")
	}
}

func TestChatStream(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{
			`{"choices":[{"delta":{"reasoning_content":"mmm"}}]}`,
			`{"choices":[{"delta":{"content":"hel"}}]}`,
			`{"choices":[{"delta":{"content":"lo"}}]}`,
		}
		for _, c := range chunks {
			fmt.Fprintf(w, "data: %s\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	p := NewOpenAIProvider("test-key", srv.URL, "test-model")
	var got []StreamChunk
	err := p.ChatStream(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, func(chunk StreamChunk) error {
		got = append(got, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream returned error: %v", err)
	}

	want := []StreamChunk{
		{Type: ChunkReasoning, Content: "mmm"},
		{Type: ChunkContent, Content: "hel"},
		{Type: ChunkContent, Content: "lo"},
		{Type: ChunkDone},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestModelInfo(t *testing.T) {
	t.Parallel()

	p := NewOpenAIProvider("k", "http://localhost:9999/v1/", "deepseek-chat")
	meta := p.ModelInfo()
	if meta.ID != "deepseek-chat" || meta.Provider != "openai" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.BaseURL != "http://localhost:9999/v1" {
		t.Fatalf("base url not normalized: %q", meta.BaseURL)
	}
}
