package draft

import (
	"regexp"
	"strings"

	"case-advisor-be/pkg/store"
)

// DocumentDetector decides whether an assistant message looks like a drafted
// document rather than conversation. Pluggable so the heuristics can be
// tuned without touching the drafting control flow.
type DocumentDetector interface {
	IsDocumentLike(content string) bool
}

// HeuristicDetector flags messages by length or by structural markers that
// conversational replies do not carry.
type HeuristicDetector struct {
	// LengthThreshold: assistant messages longer than this are treated as
	// documents.
	LengthThreshold int
}

var _ DocumentDetector = &HeuristicDetector{}

func NewHeuristicDetector(lengthThreshold int) *HeuristicDetector {
	if lengthThreshold <= 0 {
		lengthThreshold = 200
	}
	return &HeuristicDetector{LengthThreshold: lengthThreshold}
}

var structureMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,3}\s`),               // markdown section headers
	regexp.MustCompile(`(?m)^(Subject|Re|Attn):\s`),   // formal letter headers
	regexp.MustCompile(`(?mi)^dear\s`),                // salutation
	regexp.MustCompile(`(?mi)^(sincerely|respectfully|best regards),?\s*$`), // closing
	regexp.MustCompile(`(?m)^\s*Article\s+\d+`),       // numbered articles
	regexp.MustCompile(`(?m)^-{3,}\s*$`),              // horizontal rules
}

func (d *HeuristicDetector) IsDocumentLike(content string) bool {
	if len(content) > d.LengthThreshold {
		return true
	}
	for _, marker := range structureMarkers {
		if marker.MatchString(content) {
			return true
		}
	}
	return false
}

// Sanitize returns history with document-like assistant messages removed.
// This stops a previously drafted document from being fed back as context
// and re-amplified in the next draft. Filtering is read-side only; the
// stored history is untouched, and sanitizing twice yields the same result.
func Sanitize(history []store.Message, detector DocumentDetector) []store.Message {
	out := make([]store.Message, 0, len(history))
	for _, m := range history {
		if m.Role == store.RoleAssistant && detector.IsDocumentLike(m.Content) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// capRecent keeps the most recent n messages.
func capRecent(history []store.Message, n int) []store.Message {
	if n > 0 && len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

// isBlank reports an effectively empty message, which contributes nothing to
// drafting context.
func isBlank(content string) bool {
	return strings.TrimSpace(content) == ""
}
