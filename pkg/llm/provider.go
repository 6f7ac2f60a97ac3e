package llm

import (
	"context"
	"errors"
)

// ErrUpstreamUnavailable marks a failed or timed out generation call.
// The turn that hit it is retryable as a whole; nothing inside the core
// retries automatically.
var ErrUpstreamUnavailable = errors.New("llm upstream unavailable")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Role identifies which pipeline step is calling the model. Each role is an
// independent invocation; no state is shared between them. Providers may map
// roles to different models or parameters.
type Role string

const (
	RoleRouter   Role = "router"
	RoleReranker Role = "reranker"
	RoleAnswerer Role = "answerer"
	RoleWriter   Role = "writer"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override role/default model
	Role        Role
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithRole(role Role) Option {
	return func(o *Options) {
		o.Role = role
	}
}

// RoleModels maps pipeline roles to model name overrides. A missing or empty
// entry falls back to the provider's default model.
type RoleModels map[Role]string

// Resolve returns the model to use for the given options.
func (rm RoleModels) Resolve(defaultModel string, o *Options) string {
	if o.Model != "" {
		return o.Model
	}
	if rm != nil {
		if m, ok := rm[o.Role]; ok && m != "" {
			return m
		}
	}
	return defaultModel
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
