package memory

import (
	"context"
	"sync"

	"case-advisor-be/pkg/store"
)

// SessionRepository is the in-process store.SessionStore. Sessions live for
// the process lifetime; they are created lazily and never destroyed.
//
// Each session carries its own mutex so read-modify-write sequences for one
// session serialize without blocking unrelated sessions. The repository-level
// mutex only guards the session map itself.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session store.Session
}

var _ store.SessionStore = &SessionRepository{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*sessionEntry),
	}
}

// entry returns the session entry, creating an empty one on first reference.
func (r *SessionRepository) entry(sessionID string) *sessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		e = &sessionEntry{
			session: store.Session{ID: sessionID},
		}
		r.sessions[sessionID] = e
	}
	return e
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	e := r.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.session
	snapshot.Messages = copyMessages(e.session.Messages, 0)
	return &snapshot, nil
}

func (r *SessionRepository) Append(ctx context.Context, sessionID, role, content string) error {
	e := r.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	appendMessage(&e.session, role, content)
	return nil
}

func (r *SessionRepository) Read(ctx context.Context, sessionID string, limit int) ([]store.Message, error) {
	e := r.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	return copyMessages(e.session.Messages, limit), nil
}

func (r *SessionRepository) ResetInterviewCounter(ctx context.Context, sessionID string) error {
	e := r.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.InterviewTurnCount = 0
	return nil
}

func (r *SessionRepository) IncrementInterviewCounter(ctx context.Context, sessionID string) (int, error) {
	e := r.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.InterviewTurnCount++
	return e.session.InterviewTurnCount, nil
}

func (r *SessionRepository) InterviewTurns(ctx context.Context, sessionID string) (int, error) {
	e := r.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.InterviewTurnCount, nil
}

func (r *SessionRepository) CommitTurn(ctx context.Context, sessionID, userContent, assistantContent string, op store.CounterOp) error {
	e := r.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	appendMessage(&e.session, store.RoleUser, userContent)
	appendMessage(&e.session, store.RoleAssistant, assistantContent)

	switch op {
	case store.CounterIncrement:
		e.session.InterviewTurnCount++
	case store.CounterReset:
		e.session.InterviewTurnCount = 0
	}
	return nil
}

func appendMessage(s *store.Session, role, content string) {
	s.Messages = append(s.Messages, store.Message{
		Role:    role,
		Content: content,
		Seq:     len(s.Messages),
	})
}

// copyMessages returns an independent slice so callers can never mutate the
// stored history. limit <= 0 copies everything, otherwise the most recent
// limit messages.
func copyMessages(messages []store.Message, limit int) []store.Message {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	out := make([]store.Message, len(messages))
	copy(out, messages)
	return out
}
