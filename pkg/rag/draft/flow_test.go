package draft

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"case-advisor-be/pkg/llm"
	"case-advisor-be/pkg/store"
)

type capturingProvider struct {
	lastPrompt string
	response   string
	err        error
}

func (p *capturingProvider) Chat(ctx context.Context, messages []llm.Message, options ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *capturingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.lastPrompt = prompt
	return p.response, p.err
}

func TestHeuristicDetector(t *testing.T) {
	d := NewHeuristicDetector(200)

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name:    "short conversational reply",
			content: "Could you tell me when the incident happened?",
			want:    false,
		},
		{
			name:    "long message over threshold",
			content: strings.Repeat("x", 201),
			want:    true,
		},
		{
			name:    "markdown header",
			content: "## Complaint Summary\nShort body.",
			want:    true,
		},
		{
			name:    "formal letter salutation",
			content: "Dear Hospital Administration,\nI am writing about...",
			want:    true,
		},
		{
			name:    "formal closing",
			content: "As discussed.\nSincerely,",
			want:    true,
		},
		{
			name:    "subject header",
			content: "Subject: Request for medical records",
			want:    true,
		},
		{
			name:    "word dear mid sentence is not a salutation",
			content: "My dear friend told me to ask you about this.",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsDocumentLike(tt.content); got != tt.want {
				t.Errorf("IsDocumentLike(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestSanitizeRemovesDocumentLikeAssistantMessages(t *testing.T) {
	d := NewHeuristicDetector(200)
	history := []store.Message{
		{Role: store.RoleUser, Content: "Draft a complaint letter for me.", Seq: 0},
		{Role: store.RoleAssistant, Content: "Dear Sir or Madam,\n" + strings.Repeat("body ", 100), Seq: 1},
		{Role: store.RoleUser, Content: "Make it more formal.", Seq: 2},
		{Role: store.RoleAssistant, Content: "Sure, what tone would you like?", Seq: 3},
	}

	got := Sanitize(history, d)

	want := []store.Message{history[0], history[2], history[3]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sanitize() = %v, want %v", got, want)
	}
}

func TestSanitizeKeepsLongUserMessages(t *testing.T) {
	d := NewHeuristicDetector(200)
	history := []store.Message{
		{Role: store.RoleUser, Content: strings.Repeat("my long story ", 50), Seq: 0},
	}

	got := Sanitize(history, d)
	if len(got) != 1 {
		t.Fatalf("Sanitize() dropped a user message, got %d messages", len(got))
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	d := NewHeuristicDetector(200)
	history := []store.Message{
		{Role: store.RoleUser, Content: "Write the letter.", Seq: 0},
		{Role: store.RoleAssistant, Content: "## Draft\n" + strings.Repeat("z", 300), Seq: 1},
		{Role: store.RoleAssistant, Content: "Anything else?", Seq: 2},
	}

	once := Sanitize(history, d)
	twice := Sanitize(once, d)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Sanitize not idempotent: once=%v twice=%v", once, twice)
	}
}

func TestDraftCapsHistory(t *testing.T) {
	provider := &capturingProvider{response: "DOCUMENT"}
	flow := NewFlow(provider, NewHeuristicDetector(0), 4, nil)

	var history []store.Message
	for i := 0; i < 10; i++ {
		history = append(history, store.Message{Role: store.RoleUser, Content: "turn-" + string(rune('a'+i)), Seq: i})
	}

	_, err := flow.Draft(context.Background(), "write a summary", history)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	if strings.Contains(provider.lastPrompt, "turn-a") {
		t.Errorf("prompt contains oldest turn beyond cap:\n%s", provider.lastPrompt)
	}
	for _, recent := range []string{"turn-g", "turn-h", "turn-i", "turn-j"} {
		if !strings.Contains(provider.lastPrompt, recent) {
			t.Errorf("prompt missing recent turn %q", recent)
		}
	}
}

func TestDraftPutsCurrentRequestBeforeHistory(t *testing.T) {
	provider := &capturingProvider{response: "DOCUMENT"}
	flow := NewFlow(provider, nil, 0, nil)

	history := []store.Message{
		{Role: store.RoleUser, Content: "earlier context", Seq: 0},
	}

	_, err := flow.Draft(context.Background(), "draft a demand letter", history)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	reqIdx := strings.Index(provider.lastPrompt, "draft a demand letter")
	histIdx := strings.Index(provider.lastPrompt, "earlier context")
	if reqIdx == -1 || histIdx == -1 {
		t.Fatalf("prompt missing request or history:\n%s", provider.lastPrompt)
	}
	if reqIdx > histIdx {
		t.Errorf("current request appears after history in prompt")
	}
}

func TestDraftOmitsDocumentLikeHistoryFromPrompt(t *testing.T) {
	provider := &capturingProvider{response: "DOCUMENT"}
	flow := NewFlow(provider, NewHeuristicDetector(200), 0, nil)

	history := []store.Message{
		{Role: store.RoleUser, Content: "please revise it", Seq: 0},
		{Role: store.RoleAssistant, Content: "Subject: PREVIOUS-DRAFT-MARKER", Seq: 1},
	}

	_, err := flow.Draft(context.Background(), "shorten the letter", history)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	if strings.Contains(provider.lastPrompt, "PREVIOUS-DRAFT-MARKER") {
		t.Errorf("prior drafted document leaked into the prompt:\n%s", provider.lastPrompt)
	}
	if !strings.Contains(provider.lastPrompt, "please revise it") {
		t.Errorf("user message missing from prompt")
	}
}

func TestDraftTrimsOutput(t *testing.T) {
	provider := &capturingProvider{response: "\n\n  The document body.  \n"}
	flow := NewFlow(provider, nil, 0, nil)

	got, err := flow.Draft(context.Background(), "write it", nil)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if got != "The document body." {
		t.Errorf("Draft() = %q, want trimmed body", got)
	}
}
