package router

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"case-advisor-be/pkg/llm"
)

type stubProvider struct {
	response string
	err      error
}

func (p *stubProvider) Chat(ctx context.Context, messages []llm.Message, options ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.response, p.err
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[TEST] ", log.LstdFlags)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Decision
	}{
		{
			name:     "clean document label",
			response: "DOCUMENT",
			want:     DecisionDocument,
		},
		{
			name:     "clean conversation label",
			response: "CONVERSATION",
			want:     DecisionConversation,
		},
		{
			name:     "lowercase label",
			response: "document",
			want:     DecisionDocument,
		},
		{
			name:     "label wrapped in chatter",
			response: "The category is: DOCUMENT.",
			want:     DecisionDocument,
		},
		{
			name:     "label with trailing newline",
			response: "CONVERSATION\n",
			want:     DecisionConversation,
		},
		{
			name:     "both labels present defaults to conversation",
			response: "This could be DOCUMENT or CONVERSATION depending on context.",
			want:     DecisionConversation,
		},
		{
			name:     "neither label present defaults to conversation",
			response: "I am not sure what the user wants.",
			want:     DecisionConversation,
		},
		{
			name:     "empty output defaults to conversation",
			response: "",
			want:     DecisionConversation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&stubProvider{response: tt.response}, testLogger())
			got, err := c.Classify(context.Background(), "some query")
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyUpstreamErrorIsReturned(t *testing.T) {
	c := NewClassifier(&stubProvider{err: llm.ErrUpstreamUnavailable}, testLogger())

	_, err := c.Classify(context.Background(), "some query")
	if !errors.Is(err, llm.ErrUpstreamUnavailable) {
		t.Fatalf("Classify() error = %v, want ErrUpstreamUnavailable", err)
	}
}
