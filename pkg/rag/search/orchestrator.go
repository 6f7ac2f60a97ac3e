package search

import (
	"context"
	"fmt"
	"log"
	"time"

	"case-advisor-be/internal/repository/contract"
	"case-advisor-be/pkg/embedding"
	"case-advisor-be/pkg/store"

	gocache "github.com/patrickmn/go-cache"
)

// Source is the evidence retrieval capability the turn pipeline consumes.
type Source interface {
	Search(ctx context.Context, query string, k int) ([]store.Candidate, error)
}

// Orchestrator embeds the query and runs vector search over the case-record
// corpus. Query embeddings are cached briefly so the retry of a failed turn,
// or a repeated question, skips the embedding call.
type Orchestrator struct {
	embeddingProvider embedding.Provider
	chunkRepo         contract.CaseChunkRepository
	embeddingCache    *gocache.Cache
	logger            *log.Logger
}

var _ Source = &Orchestrator{}

func NewOrchestrator(
	embeddingProvider embedding.Provider,
	chunkRepo contract.CaseChunkRepository,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		chunkRepo:         chunkRepo,
		embeddingCache:    gocache.New(10*time.Minute, 30*time.Minute),
		logger:            logger,
	}
}

// Search returns up to k candidates ordered by cosine distance, closest
// first. Distances are only comparable within this one call.
func (o *Orchestrator) Search(ctx context.Context, query string, k int) ([]store.Candidate, error) {
	vector, err := o.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := o.chunkRepo.SearchSimilarWithDistance(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	o.logger.Printf("[SEARCH] Retrieved %d candidates for query: %s", len(scored), truncate(query, 50))

	candidates := make([]store.Candidate, 0, len(scored))
	for _, s := range scored {
		if s.Chunk == nil {
			continue
		}
		candidates = append(candidates, store.Candidate{
			Content:  s.Chunk.Content,
			Title:    s.Chunk.Title,
			Dept:     s.Chunk.Dept,
			Section:  s.Chunk.Section,
			CaseID:   s.Chunk.CaseNumber,
			Distance: s.Distance,
		})
	}
	return candidates, nil
}

func (o *Orchestrator) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if cached, found := o.embeddingCache.Get(query); found {
		return cached.([]float32), nil
	}

	vector, err := o.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	o.embeddingCache.Set(query, vector, gocache.DefaultExpiration)
	return vector, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
