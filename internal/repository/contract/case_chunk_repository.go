package contract

import (
	"context"

	"case-advisor-be/internal/entity"
	"case-advisor-be/internal/repository/specification"
)

// ScoredCaseChunk pairs a chunk with its cosine distance from the query
// vector. Distances are only meaningful within the retrieval call that
// produced them.
type ScoredCaseChunk struct {
	Chunk    *entity.CaseChunk
	Distance float64
}

// CaseChunkRepository owns access to the case-record corpus.
type CaseChunkRepository interface {
	CreateBatch(ctx context.Context, chunks []*entity.CaseChunk) error

	// SearchSimilarWithDistance returns the k nearest chunks by cosine
	// distance, closest first.
	SearchSimilarWithDistance(ctx context.Context, embedding []float32, k int) ([]*ScoredCaseChunk, error)

	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseChunk, error)

	Count(ctx context.Context) (int64, error)
}
