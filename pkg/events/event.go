package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes.
const (
	TypeTurnCompleted = "TURN_COMPLETED"
)

// NewTurnCompleted builds the audit event emitted after a chat turn commits.
// The payload carries routing and mode metadata only, never message content.
func NewTurnCompleted(sessionID, decision, mode string, interviewTurns int, evidencePassed bool) Event {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id":      sessionID,
			"decision":        decision,
			"mode":            mode,
			"interview_turns": interviewTurns,
			"evidence_passed": evidencePassed,
		},
		OccurredAt: time.Now(),
	}
}
