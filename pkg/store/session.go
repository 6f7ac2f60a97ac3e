package store

import "context"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Mode is the answering mode resolved for a single turn.
// It is recomputed every turn and never persisted beyond the interview counter.
type Mode string

const (
	ModeSolution  Mode = "SOLUTION"  // Gate passed, grounded answer with citations
	ModeInterview Mode = "INTERVIEW" // Gate failed, turn budget remains
	ModeFallback  Mode = "FALLBACK"  // Gate failed, turn budget exhausted
)

// Message is a single conversation entry. Messages are immutable once
// appended; Seq is the append-only position within the session.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Seq     int    `json:"seq"`
}

// Session holds the per-session conversational state.
type Session struct {
	ID                 string    `json:"id"`
	Messages           []Message `json:"messages"`
	InterviewTurnCount int       `json:"interview_turn_count"`
}

// Candidate is one retrieved evidence chunk with its retrieval distance.
// Distances are only comparable within a single retrieval call.
type Candidate struct {
	Content  string
	Title    string
	Dept     string
	Section  string
	CaseID   string
	Distance float64
}

// CounterOp describes what a committed turn does to the interview counter.
type CounterOp int

const (
	CounterKeep      CounterOp = iota // Leave counter untouched (document turns)
	CounterIncrement                  // Gate failed this turn
	CounterReset                      // Gate passed this turn
)

// SessionStore owns message history and the interview counter per session id.
// No operation fails for an unknown id: first access creates an empty session.
// Implementations must serialize read-modify-write sequences per session id.
type SessionStore interface {
	GetOrCreate(ctx context.Context, sessionID string) (*Session, error)

	Append(ctx context.Context, sessionID, role, content string) error

	// Read returns an ordered copy of the session's messages.
	// limit <= 0 means all; otherwise the most recent limit messages.
	Read(ctx context.Context, sessionID string, limit int) ([]Message, error)

	ResetInterviewCounter(ctx context.Context, sessionID string) error

	IncrementInterviewCounter(ctx context.Context, sessionID string) (int, error)

	// InterviewTurns returns the current counter without mutating it.
	InterviewTurns(ctx context.Context, sessionID string) (int, error)

	// CommitTurn appends the user query and the assistant reply and applies
	// the counter operation as a single serialized mutation, so a turn never
	// leaves the session half-updated.
	CommitTurn(ctx context.Context, sessionID, userContent, assistantContent string, op CounterOp) error
}
