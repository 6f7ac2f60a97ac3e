package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"case-advisor-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "case-advisor:session:"

// SessionRepository is a Redis-backed store.SessionStore so session state
// survives restarts and can be shared between instances behind one lock
// owner. Sessions serialize as {id, messages:[{role,content,seq}],
// interview_turn_count}.
//
// Read-modify-write sequences are serialized with local per-session locks;
// this assumes a single writer instance per session id.
type SessionRepository struct {
	rdb *redis.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ store.SessionStore = &SessionRepository{}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{
		rdb:   rdb,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *SessionRepository) lock(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sessionID] = l
	}
	return l
}

func (r *SessionRepository) load(ctx context.Context, sessionID string) (*store.Session, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+sessionID).Result()
	if err == redis.Nil {
		return &store.Session{ID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var s store.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &s, nil
}

func (r *SessionRepository) save(ctx context.Context, s *store.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	// No TTL: sessions are kept until explicitly cleaned up out of band
	if err := r.rdb.Set(ctx, keyPrefix+s.ID, raw, 0).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// update runs fn on the current session state and persists the result, all
// under the session's lock.
func (r *SessionRepository) update(ctx context.Context, sessionID string, fn func(*store.Session)) (*store.Session, error) {
	l := r.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	s, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(s)
	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	return r.update(ctx, sessionID, func(*store.Session) {})
}

func (r *SessionRepository) Append(ctx context.Context, sessionID, role, content string) error {
	_, err := r.update(ctx, sessionID, func(s *store.Session) {
		appendMessage(s, role, content)
	})
	return err
}

func (r *SessionRepository) Read(ctx context.Context, sessionID string, limit int) ([]store.Message, error) {
	l := r.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	s, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages := s.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (r *SessionRepository) ResetInterviewCounter(ctx context.Context, sessionID string) error {
	_, err := r.update(ctx, sessionID, func(s *store.Session) {
		s.InterviewTurnCount = 0
	})
	return err
}

func (r *SessionRepository) IncrementInterviewCounter(ctx context.Context, sessionID string) (int, error) {
	s, err := r.update(ctx, sessionID, func(s *store.Session) {
		s.InterviewTurnCount++
	})
	if err != nil {
		return 0, err
	}
	return s.InterviewTurnCount, nil
}

func (r *SessionRepository) InterviewTurns(ctx context.Context, sessionID string) (int, error) {
	l := r.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	s, err := r.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return s.InterviewTurnCount, nil
}

func (r *SessionRepository) CommitTurn(ctx context.Context, sessionID, userContent, assistantContent string, op store.CounterOp) error {
	_, err := r.update(ctx, sessionID, func(s *store.Session) {
		appendMessage(s, store.RoleUser, userContent)
		appendMessage(s, store.RoleAssistant, assistantContent)

		switch op {
		case store.CounterIncrement:
			s.InterviewTurnCount++
		case store.CounterReset:
			s.InterviewTurnCount = 0
		}
	})
	return err
}

func appendMessage(s *store.Session, role, content string) {
	s.Messages = append(s.Messages, store.Message{
		Role:    role,
		Content: content,
		Seq:     len(s.Messages),
	})
}
