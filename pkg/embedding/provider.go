package embedding

import (
	"context"
	"errors"
)

// Task types passed to providers that distinguish query vs document embeddings.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// ErrUpstreamUnavailable marks a failed or timed out embedding call.
var ErrUpstreamUnavailable = errors.New("embedding upstream unavailable")

// Provider defines the interface for generating text embeddings
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
