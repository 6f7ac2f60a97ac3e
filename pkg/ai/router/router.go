package router

import (
	"context"
	"fmt"
	"log"
	"strings"

	"case-advisor-be/pkg/llm"
)

// Decision is the resolved handling path for a user turn.
type Decision string

const (
	// DecisionDocument routes the turn to the drafting flow.
	DecisionDocument Decision = "DOCUMENT"
	// DecisionConversation routes the turn to the advisory pipeline.
	DecisionConversation Decision = "CONVERSATION"
)

// Classifier decides whether a turn is a document-production request or an
// advisory question. This is a pure LLM call - no retrieval, no session
// access.
type Classifier struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.Provider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify returns the handling decision for the query. Unparseable model
// output resolves to CONVERSATION so a confused classifier can never strand
// a question; a transport failure is returned to the caller because no
// meaningful answer can be produced without it.
func (c *Classifier) Classify(ctx context.Context, query string) (Decision, error) {
	response, err := c.llmProvider.Generate(ctx, c.buildPrompt(query),
		llm.WithRole(llm.RoleRouter),
		llm.WithTemperature(0.0),
	)
	if err != nil {
		return "", fmt.Errorf("intent classification: %w", err)
	}

	decision, ok := normalize(response)
	if !ok {
		c.logger.Printf("[ROUTER] Ambiguous classifier output %q, defaulting to CONVERSATION", truncateLog(response, 80))
		return DecisionConversation, nil
	}

	c.logger.Printf("[ROUTER] Decision: %s", decision)
	return decision, nil
}

// normalize maps raw model output onto a decision. The label must occur
// exactly once across the two options: output naming both or neither is
// ambiguous.
func normalize(raw string) (Decision, bool) {
	lowered := strings.ToLower(raw)
	hasDocument := strings.Contains(lowered, "document")
	hasConversation := strings.Contains(lowered, "conversation")

	switch {
	case hasDocument && !hasConversation:
		return DecisionDocument, true
	case hasConversation && !hasDocument:
		return DecisionConversation, true
	default:
		return "", false
	}
}

func (c *Classifier) buildPrompt(query string) string {
	var sb strings.Builder

	sb.WriteString("<task>\n")
	sb.WriteString("You are an intent classifier. Your ONLY job is to classify the user's request.\n")
	sb.WriteString("You do NOT answer the request.\n")
	sb.WriteString("</task>\n\n")

	sb.WriteString("<user_request>\n")
	sb.WriteString(query)
	sb.WriteString("\n</user_request>\n\n")

	sb.WriteString("<categories>\n")
	sb.WriteString("DOCUMENT: the user asks for a written artifact to be produced - a complaint letter, a report draft, a formal summary, a written statement.\n")
	sb.WriteString("CONVERSATION: anything else - questions, requests for advice, follow-ups, greetings.\n")
	sb.WriteString("</categories>\n\n")

	sb.WriteString("<output_format>\n")
	sb.WriteString("Respond with exactly one word: DOCUMENT or CONVERSATION. No explanation.\n")
	sb.WriteString("</output_format>")

	return sb.String()
}

func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
