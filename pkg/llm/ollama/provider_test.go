package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"case-advisor-be/pkg/llm"
)

func TestChatSendsExplicitZeroTemperature(t *testing.T) {
	var rawBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &rawBody); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "ok"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "test-model", nil)
	if _, err := p.Generate(context.Background(), "prompt", llm.WithTemperature(0.0)); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	options, ok := rawBody["options"].(map[string]interface{})
	if !ok {
		t.Fatal("request carried no options block")
	}
	temp, present := options["temperature"]
	if !present {
		t.Fatal("temperature 0 was dropped from the request")
	}
	if temp != float64(0) {
		t.Errorf("temperature = %v, want 0", temp)
	}
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var rawBody ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &rawBody); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "ok"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "test-model", nil)
	history := []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "hello"},
	}
	if _, err := p.Chat(context.Background(), history); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if len(rawBody.Messages) != 2 {
		t.Fatalf("request carried %d messages, want 2", len(rawBody.Messages))
	}
	if rawBody.Messages[1].Role != "assistant" {
		t.Errorf("model role mapped to %q, want assistant", rawBody.Messages[1].Role)
	}
}
