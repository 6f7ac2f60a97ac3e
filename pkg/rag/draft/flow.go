package draft

import (
	"context"
	"fmt"
	"log"
	"strings"

	"case-advisor-be/pkg/llm"
	"case-advisor-be/pkg/store"
)

const defaultHistoryCap = 14

// Flow produces standalone documents (complaint letters, report drafts,
// summaries) from the user's request plus a sanitized slice of the
// conversation so far.
type Flow struct {
	llmProvider llm.Provider
	detector    DocumentDetector
	historyCap  int
	logger      *log.Logger
}

func NewFlow(llmProvider llm.Provider, detector DocumentDetector, historyCap int, logger *log.Logger) *Flow {
	if detector == nil {
		detector = NewHeuristicDetector(0)
	}
	if historyCap <= 0 {
		historyCap = defaultHistoryCap
	}
	return &Flow{
		llmProvider: llmProvider,
		detector:    detector,
		historyCap:  historyCap,
		logger:      logger,
	}
}

// Draft generates a document for the current request. History is filtered of
// prior document-like assistant output and capped to the most recent turns
// before it reaches the writer model. The returned string is the document
// body only.
func (f *Flow) Draft(ctx context.Context, query string, history []store.Message) (string, error) {
	cleaned := Sanitize(history, f.detector)
	cleaned = capRecent(cleaned, f.historyCap)

	if f.logger != nil {
		f.logger.Printf("[DRAFT] history=%d sanitized=%d query_len=%d", len(history), len(cleaned), len(query))
	}

	result, err := f.llmProvider.Generate(ctx, f.buildPrompt(query, cleaned),
		llm.WithRole(llm.RoleWriter),
		llm.WithTemperature(0.4),
	)
	if err != nil {
		return "", fmt.Errorf("draft generation: %w", err)
	}
	return strings.TrimSpace(result), nil
}

func (f *Flow) buildPrompt(query string, history []store.Message) string {
	var sb strings.Builder

	sb.WriteString("<task>\n")
	sb.WriteString("You are a professional document writer. Produce the document the user is requesting right now.\n")
	sb.WriteString("</task>\n\n")

	sb.WriteString("<current_request>\n")
	sb.WriteString(query)
	sb.WriteString("\n</current_request>\n\n")

	if len(history) > 0 {
		sb.WriteString("<conversation_background>\n")
		for _, m := range history {
			if isBlank(m.Content) {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", roleLabel(m.Role), m.Content))
		}
		sb.WriteString("</conversation_background>\n\n")
	}

	sb.WriteString("<guidelines>\n")
	sb.WriteString("- The current request above is the authoritative instruction. The conversation background is supporting context only.\n")
	sb.WriteString("- Output the document body and nothing else. No preamble, no commentary, no markdown fences.\n")
	sb.WriteString("- Use a formal register appropriate to the document type being requested.\n")
	sb.WriteString("- Draw facts only from the current request and the conversation background. Do not invent names, dates, or case details.\n")
	sb.WriteString("</guidelines>")

	return sb.String()
}

func roleLabel(role string) string {
	if role == store.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
