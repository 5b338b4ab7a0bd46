package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected stream=false for Complete")
		}
		if req.Model != "llama3.2" {
			t.Errorf("expected model llama3.2, got %q", req.Model)
		}

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message:         ollamaMessage{Role: "assistant", Content: "hello from ollama"},
			Model:           "llama3.2",
			Done:            true,
			DoneReason:      "stop",
			PromptEvalCount: 12,
			EvalCount:       7,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3.2")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Content != "hello from ollama" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 7 {
		t.Errorf("token counts: %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish reason: %q", resp.FinishReason)
	}
}

func TestOllamaCompleteStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !req.Stream {
			t.Error("expected stream=true for CompleteStream")
		}

		enc := json.NewEncoder(w)
		enc.Encode(ollamaChatResponse{Message: ollamaMessage{Content: "three "}})
		enc.Encode(ollamaChatResponse{Message: ollamaMessage{Content: "small "}})
		enc.Encode(ollamaChatResponse{Message: ollamaMessage{Content: "chunks"}})
		enc.Encode(ollamaChatResponse{Done: true, DoneReason: "stop", Model: "llama3.2", EvalCount: 3})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3.2")

	var deltas []string
	resp, err := p.CompleteStream(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}, func(delta string) {
		deltas = append(deltas, delta)
	})
	if err != nil {
		t.Fatalf("CompleteStream: %v", err)
	}

	if resp.Content != "three small chunks" {
		t.Errorf("unexpected accumulated content %q", resp.Content)
	}
	if len(deltas) != 3 {
		t.Errorf("expected 3 deltas, got %d: %v", len(deltas), deltas)
	}
	if strings.Join(deltas, "") != resp.Content {
		t.Errorf("deltas %v do not reassemble into %q", deltas, resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish reason: %q", resp.FinishReason)
	}
}

func TestOllamaErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing-model")
	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestOllamaDefaultBaseURL(t *testing.T) {
	p := NewOllamaProvider("", "llama3.2")
	if p.baseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base URL %q", p.baseURL)
	}

	p = NewOllamaProvider("http://example.com:11434/", "llama3.2")
	if p.baseURL != "http://example.com:11434" {
		t.Errorf("trailing slash should be trimmed, got %q", p.baseURL)
	}
}

func TestOllamaRequestOverridesModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Content: fmt.Sprintf("model=%s", req.Model)},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "default-model")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Model:    "override-model",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "model=override-model" {
		t.Errorf("expected request model override, got %q", resp.Content)
	}
}
