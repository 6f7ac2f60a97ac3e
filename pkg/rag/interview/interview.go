package interview

import (
	"log"

	"case-advisor-be/pkg/store"
)

// Tracker bounds how many consecutive turns may be spent asking clarifying
// questions before the pipeline drops to generic guidance. The counter
// itself lives in the session store; Tracker only computes decisions, so the
// counter mutation can be committed atomically with the turn's history
// append.
type Tracker struct {
	maxTurns int
	logger   *log.Logger
}

// Decision is the mode and counter operation for one turn.
type Decision struct {
	Mode      store.Mode
	CounterOp store.CounterOp
	// Turns is the counter value this turn acts as (prospective for failing
	// turns, since the increment commits later).
	Turns int
}

func NewTracker(maxTurns int, logger *log.Logger) *Tracker {
	return &Tracker{
		maxTurns: maxTurns,
		logger:   logger,
	}
}

// Decide resolves the turn's mode from the gate result and the counter value
// read at the start of the turn. A passing gate forgives prior failed
// attempts and resets the counter.
func (t *Tracker) Decide(gatePassed bool, currentTurns int) Decision {
	if gatePassed {
		t.logger.Printf("[INTERVIEW] Gate passed, counter reset (was %d)", currentTurns)
		return Decision{
			Mode:      store.ModeSolution,
			CounterOp: store.CounterReset,
			Turns:     0,
		}
	}

	next := currentTurns + 1
	if next <= t.maxTurns {
		t.logger.Printf("[INTERVIEW] Gate failed, asking clarifying questions (turn %d of %d)", next, t.maxTurns)
		return Decision{
			Mode:      store.ModeInterview,
			CounterOp: store.CounterIncrement,
			Turns:     next,
		}
	}

	t.logger.Printf("[INTERVIEW] Question budget exhausted (turn %d), falling back to generic guidance", next)
	return Decision{
		Mode:      store.ModeFallback,
		CounterOp: store.CounterIncrement,
		Turns:     next,
	}
}
