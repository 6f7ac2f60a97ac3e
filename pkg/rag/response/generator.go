package response

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"case-advisor-be/pkg/llm"
	"case-advisor-be/pkg/store"
)

// Generator assembles the mode-specific prompt and produces the turn's
// answer. Solution turns get reranked evidence as numbered citation blocks;
// interview and fallback turns get conversation history only. The model's
// text is returned verbatim; persisting it is the caller's job.
type Generator struct {
	llmProvider     llm.Provider
	evidenceCharCap int
	logger          *log.Logger
}

func NewGenerator(llmProvider llm.Provider, evidenceCharCap int, logger *log.Logger) *Generator {
	if evidenceCharCap <= 0 {
		evidenceCharCap = 1400
	}
	return &Generator{
		llmProvider:     llmProvider,
		evidenceCharCap: evidenceCharCap,
		logger:          logger,
	}
}

// Generate runs one answerer invocation for the resolved mode.
func (g *Generator) Generate(
	ctx context.Context,
	mode store.Mode,
	query string,
	evidence []store.Candidate,
	history []store.Message,
) (string, error) {

	var prompt string
	switch mode {
	case store.ModeSolution:
		prompt = g.buildSolutionPrompt(query, evidence)
	case store.ModeInterview:
		prompt = g.buildInterviewPrompt(query)
	default:
		prompt = g.buildFallbackPrompt(query)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: store.RoleUser, Content: prompt})

	answer, err := g.llmProvider.Chat(ctx, messages, llm.WithRole(llm.RoleAnswerer))
	if err != nil {
		g.logger.Printf("[GENERATION] Answer generation failed (mode %s): %v", mode, err)
		return "", err
	}

	g.logger.Printf("[GENERATION] Answer generated (mode %s, %d evidence blocks)", mode, len(evidence))
	return answer, nil
}

func (g *Generator) buildSolutionPrompt(query string, evidence []store.Candidate) string {
	var prompt strings.Builder

	prompt.WriteString("<reference_cases>\n")
	prompt.WriteString("These are excerpts from prior case records. They are the ONLY sources\n")
	prompt.WriteString("you may cite. Refer to them by their bracketed number.\n\n")
	for i, c := range evidence {
		// Human-facing metadata only; raw corpus ids stay internal
		prompt.WriteString(fmt.Sprintf("[%d] %s", i+1, c.Title))
		if c.Dept != "" {
			prompt.WriteString(fmt.Sprintf(" - %s", c.Dept))
		}
		if c.Section != "" {
			prompt.WriteString(fmt.Sprintf(" (%s)", c.Section))
		}
		prompt.WriteString("\n")
		prompt.WriteString(capContent(c.Content, g.evidenceCharCap))
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</reference_cases>\n\n")

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a case-record consultation assistant. Answer the user's question\n")
	prompt.WriteString("using the reference cases above.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Ground every claim in the reference cases and cite them like [1], [2].\n")
	prompt.WriteString("2. Never cite a case that is not listed above.\n")
	prompt.WriteString("3. If the cases only partially cover the question, say which part is uncovered.\n")
	prompt.WriteString("4. After your answer is complete, stop. Do not generate new questions.\n")
	prompt.WriteString("</guidelines>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_question>")

	return prompt.String()
}

func (g *Generator) buildInterviewPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a case-record consultation assistant. The user's question did not\n")
	prompt.WriteString("match any prior case records well enough for a grounded answer yet.\n")
	prompt.WriteString("Ask clarifying questions so a better search can be run next turn.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Ask 3 to 5 specific clarifying questions, no more.\n")
	prompt.WriteString("2. Pair each question with one sentence on why the detail matters.\n")
	prompt.WriteString("3. Do NOT answer the question yet and do NOT cite any sources.\n")
	prompt.WriteString("</guidelines>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_question>")

	return prompt.String()
}

func (g *Generator) buildFallbackPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a case-record consultation assistant. No sufficiently relevant\n")
	prompt.WriteString("prior case records were found for this topic, and clarification has\n")
	prompt.WriteString("already been attempted. Give general procedural guidance instead.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Offer general, practical guidance for this kind of situation.\n")
	prompt.WriteString("2. Do NOT reference precedent and do NOT cite sources - you have none.\n")
	prompt.WriteString("3. Be clear that this is generic guidance, not based on recorded cases.\n")
	prompt.WriteString("4. Suggest what the user could do to get a more specific answer.\n")
	prompt.WriteString("</guidelines>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_question>")

	return prompt.String()
}

// capContent bounds one evidence block so a fat chunk cannot blow up the
// prompt. Cuts on a rune boundary so multi-byte text stays valid UTF-8.
func capContent(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	for limit > 0 && !utf8.RuneStart(content[limit]) {
		limit--
	}
	return content[:limit] + "..."
}
