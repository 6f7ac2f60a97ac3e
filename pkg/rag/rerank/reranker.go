package rerank

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"case-advisor-be/pkg/llm"
	"case-advisor-be/pkg/store"
)

// Reranker asks the model to pick the best subset of an already-retrieved
// candidate pool. Model output is fragile text, so every selection degrades
// gracefully: a mangled reply produces the original pool order, never an
// error.
type Reranker struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewReranker(llmProvider llm.Provider, logger *log.Logger) *Reranker {
	return &Reranker{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Select returns the indices of the topN most relevant candidates, best
// first. The result is always non-empty (given a non-empty pool), in range,
// duplicate free and at most topN long.
func (r *Reranker) Select(ctx context.Context, query string, candidates []store.Candidate, topN int) []int {
	if len(candidates) == 0 {
		return nil
	}
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}

	prompt := r.buildPrompt(query, candidates, topN)

	response, err := r.llmProvider.Generate(ctx, prompt,
		llm.WithRole(llm.RoleReranker),
		llm.WithTemperature(0.0),
	)
	if err != nil {
		// A degraded ranking beats a failed turn
		r.logger.Printf("[RERANK] Model call failed, keeping retrieval order: %v", err)
		return fallbackOrder(topN)
	}

	indices := ParseIndices(response, len(candidates), topN)
	if len(indices) == 0 {
		r.logger.Printf("[RERANK] Unusable model output, keeping retrieval order: %s", truncate(response, 80))
		return fallbackOrder(topN)
	}

	r.logger.Printf("[RERANK] Selected %d of %d candidates: %v", len(indices), len(candidates), indices)
	return indices
}

func (r *Reranker) buildPrompt(query string, candidates []store.Candidate, topN int) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You rank case-record excerpts by relevance to a user question.\n")
	prompt.WriteString(fmt.Sprintf("Pick the %d most relevant excerpts from the numbered list below.\n", topN))
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<question>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</question>\n\n")

	prompt.WriteString("<excerpts>\n")
	for i, c := range candidates {
		prompt.WriteString(fmt.Sprintf("%d. [%s / %s] %s\n", i, c.Title, c.Dept, truncate(c.Content, 300)))
	}
	prompt.WriteString("</excerpts>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY a bracketed list of zero-based excerpt numbers,\n")
	prompt.WriteString("most relevant first. No prose, no explanation.\n")
	prompt.WriteString(fmt.Sprintf("Example: [0,2,1] for the top %d.\n", topN))
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// fallbackOrder is the deterministic default: the first topN candidates in
// their original retrieval order.
func fallbackOrder(topN int) []int {
	indices := make([]int, topN)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
