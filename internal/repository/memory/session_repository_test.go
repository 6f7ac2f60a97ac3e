package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"case-advisor-be/pkg/store"
)

func TestGetOrCreateIsLazy(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	s, err := r.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if s.ID != "s1" || len(s.Messages) != 0 || s.InterviewTurnCount != 0 {
		t.Errorf("new session not empty: %+v", s)
	}
}

func TestAppendPreservesOrderAndSeq(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		role := store.RoleUser
		if i%2 == 1 {
			role = store.RoleAssistant
		}
		if err := r.Append(ctx, "s1", role, fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	messages, err := r.Read(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(messages) != 5 {
		t.Fatalf("Read() returned %d messages, want 5", len(messages))
	}
	for i, m := range messages {
		if m.Seq != i {
			t.Errorf("message %d has Seq %d", i, m.Seq)
		}
		if m.Content != fmt.Sprintf("msg-%d", i) {
			t.Errorf("message %d out of order: %q", i, m.Content)
		}
	}
}

func TestReadLimitReturnsMostRecent(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_ = r.Append(ctx, "s1", store.RoleUser, fmt.Sprintf("msg-%d", i))
	}

	messages, _ := r.Read(ctx, "s1", 2)
	if len(messages) != 2 {
		t.Fatalf("Read(limit=2) returned %d messages", len(messages))
	}
	if messages[0].Content != "msg-4" || messages[1].Content != "msg-5" {
		t.Errorf("Read(limit=2) = %v, want last two", messages)
	}
}

func TestReadReturnsIndependentCopy(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	_ = r.Append(ctx, "s1", store.RoleUser, "original")

	messages, _ := r.Read(ctx, "s1", 0)
	messages[0].Content = "mutated"

	again, _ := r.Read(ctx, "s1", 0)
	if again[0].Content != "original" {
		t.Errorf("stored history was mutated through a read copy")
	}
}

func TestSessionsDoNotLeakAcrossIds(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	_ = r.Append(ctx, "s1", store.RoleUser, "for s1")
	if _, err := r.IncrementInterviewCounter(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	messages, _ := r.Read(ctx, "s2", 0)
	if len(messages) != 0 {
		t.Errorf("s2 sees s1 messages: %v", messages)
	}
	turns, _ := r.InterviewTurns(ctx, "s2")
	if turns != 0 {
		t.Errorf("s2 sees s1 counter: %d", turns)
	}
}

func TestCounterOperations(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	n, err := r.IncrementInterviewCounter(ctx, "s1")
	if err != nil || n != 1 {
		t.Fatalf("IncrementInterviewCounter() = %d, %v", n, err)
	}
	n, _ = r.IncrementInterviewCounter(ctx, "s1")
	if n != 2 {
		t.Fatalf("second increment = %d, want 2", n)
	}

	if err := r.ResetInterviewCounter(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	turns, _ := r.InterviewTurns(ctx, "s1")
	if turns != 0 {
		t.Errorf("counter after reset = %d", turns)
	}
}

func TestCommitTurnAppliesBothMessagesAndCounter(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	tests := []struct {
		name      string
		op        store.CounterOp
		preTurns  int
		wantTurns int
	}{
		{name: "increment on failed gate", op: store.CounterIncrement, preTurns: 0, wantTurns: 1},
		{name: "reset on passed gate", op: store.CounterReset, preTurns: 2, wantTurns: 0},
		{name: "keep on document turn", op: store.CounterKeep, preTurns: 1, wantTurns: 1},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := fmt.Sprintf("s%d", i)
			for j := 0; j < tt.preTurns; j++ {
				_, _ = r.IncrementInterviewCounter(ctx, id)
			}

			if err := r.CommitTurn(ctx, id, "question", "answer", tt.op); err != nil {
				t.Fatalf("CommitTurn() error = %v", err)
			}

			messages, _ := r.Read(ctx, id, 0)
			if len(messages) != 2 {
				t.Fatalf("CommitTurn appended %d messages, want 2", len(messages))
			}
			if messages[0].Role != store.RoleUser || messages[1].Role != store.RoleAssistant {
				t.Errorf("roles = %s,%s", messages[0].Role, messages[1].Role)
			}

			turns, _ := r.InterviewTurns(ctx, id)
			if turns != tt.wantTurns {
				t.Errorf("counter = %d, want %d", turns, tt.wantTurns)
			}
		})
	}
}

func TestConcurrentCommitsStayConsistent(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_ = r.CommitTurn(ctx, "s1", fmt.Sprintf("q-%d", i), fmt.Sprintf("a-%d", i), store.CounterIncrement)
		}(i)
	}
	wg.Wait()

	messages, _ := r.Read(ctx, "s1", 0)
	if len(messages) != workers*2 {
		t.Fatalf("got %d messages, want %d", len(messages), workers*2)
	}
	for i, m := range messages {
		if m.Seq != i {
			t.Fatalf("Seq gap at %d: %d", i, m.Seq)
		}
	}
	// User and assistant messages must stay paired per turn.
	for i := 0; i < len(messages); i += 2 {
		if messages[i].Role != store.RoleUser || messages[i+1].Role != store.RoleAssistant {
			t.Fatalf("interleaved turn at %d: %s,%s", i, messages[i].Role, messages[i+1].Role)
		}
	}

	turns, _ := r.InterviewTurns(ctx, "s1")
	if turns != workers {
		t.Errorf("counter = %d, want %d", turns, workers)
	}
}
