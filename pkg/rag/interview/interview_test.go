package interview

import (
	"io"
	"log"
	"testing"

	"case-advisor-be/pkg/store"
)

func newTracker(maxTurns int) *Tracker {
	return NewTracker(maxTurns, log.New(io.Discard, "", 0))
}

// applyOp mimics the store committing the decision's counter operation.
func applyOp(counter int, op store.CounterOp) int {
	switch op {
	case store.CounterIncrement:
		return counter + 1
	case store.CounterReset:
		return 0
	}
	return counter
}

func TestDecideSequence(t *testing.T) {
	// Repeated gate failures: INTERVIEW for exactly maxTurns turns, then
	// FALLBACK for every further failing turn.
	tr := newTracker(2)

	counter := 0
	wantModes := []store.Mode{
		store.ModeInterview, // c=1
		store.ModeInterview, // c=2
		store.ModeFallback,  // c=3
		store.ModeFallback,  // c=4
	}

	for i, want := range wantModes {
		dec := tr.Decide(false, counter)
		if dec.Mode != want {
			t.Fatalf("turn %d: mode = %s, want %s", i+1, dec.Mode, want)
		}
		if dec.Turns != counter+1 {
			t.Fatalf("turn %d: turns = %d, want %d", i+1, dec.Turns, counter+1)
		}
		counter = applyOp(counter, dec.CounterOp)
	}
}

func TestGatePassForgivesFailures(t *testing.T) {
	tr := newTracker(2)

	counter := 0

	// Burn through the budget into fallback
	for i := 0; i < 3; i++ {
		dec := tr.Decide(false, counter)
		counter = applyOp(counter, dec.CounterOp)
	}
	if counter != 3 {
		t.Fatalf("counter = %d, want 3", counter)
	}

	// One passing turn resets everything
	dec := tr.Decide(true, counter)
	if dec.Mode != store.ModeSolution {
		t.Fatalf("mode = %s, want %s", dec.Mode, store.ModeSolution)
	}
	counter = applyOp(counter, dec.CounterOp)
	if counter != 0 {
		t.Fatalf("counter after pass = %d, want 0", counter)
	}

	// The next failure starts the interview over, not fallback
	dec = tr.Decide(false, counter)
	if dec.Mode != store.ModeInterview {
		t.Fatalf("mode after forgiveness = %s, want %s", dec.Mode, store.ModeInterview)
	}
}

func TestZeroBudgetGoesStraightToFallback(t *testing.T) {
	tr := newTracker(0)

	dec := tr.Decide(false, 0)
	if dec.Mode != store.ModeFallback {
		t.Fatalf("mode = %s, want %s", dec.Mode, store.ModeFallback)
	}
}
