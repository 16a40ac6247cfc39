package session

import (
	"time"
)

// Interaction is a single learner utterance entering the pipeline.
// It is created once per learner message and never mutated afterwards.
type Interaction struct {
	// ID is the unique interaction identifier (UUID v4).
	ID string `json:"id"`

	// SessionID identifies the learner session this interaction belongs to.
	SessionID string `json:"session_id"`

	// Timestamp is when the interaction was received.
	Timestamp time.Time `json:"timestamp"`

	// RawText is the learner's text exactly as submitted.
	RawText string `json:"raw_text"`

	// NormalizedText is the lowercased, accent- and punctuation-stripped
	// form used for pattern matching. Filled in by the classifier when empty.
	NormalizedText string `json:"normalized_text"`
}

// EventKind identifies the type of a session event.
type EventKind string

const (
	// EventMessage is a learner chat message.
	EventMessage EventKind = "message"

	// EventSubmission is a code submission.
	EventSubmission EventKind = "submission"

	// EventTestResult is the outcome of running the learner's tests.
	EventTestResult EventKind = "test_result"

	// EventAIResponse is a response produced by the assistant.
	EventAIResponse EventKind = "ai_response"

	// EventCritique is learner text that questions or corrects a prior
	// assistant response.
	EventCritique EventKind = "critique"
)

// Event is a single entry in a session's event stream.
type Event struct {
	// Kind is the event type.
	Kind EventKind `json:"kind"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Text is the event payload: message text, submitted code, or critique
	// content. Empty for test results.
	Text string `json:"text,omitempty"`

	// Passed reports whether the test run succeeded. Only meaningful for
	// EventTestResult.
	Passed bool `json:"passed,omitempty"`
}

// History is the read-only view of a session that the engine consumes.
// The caller (session-history provider) assembles it; the engine never
// writes back.
type History struct {
	// SessionID identifies the session.
	SessionID string `json:"session_id"`

	// StartedAt is when the session began.
	StartedAt time.Time `json:"started_at"`

	// Events is the ordered event stream, oldest first.
	Events []Event `json:"events"`

	// Interactions are the prior learner interactions, oldest first.
	Interactions []Interaction `json:"interactions"`

	// AIInvolvement holds the ai_involvement estimate of each prior
	// interaction's classification, oldest first. Parallel to Interactions.
	AIInvolvement []float64 `json:"ai_involvement"`

	// PriorTraceID is the ID of the most recent trace record in this
	// session, or empty at session start.
	PriorTraceID string `json:"prior_trace_id,omitempty"`

	// PriorState is the cognitive state recorded by the most recent trace
	// record, or empty at session start. Kept as a string so the session
	// view stays decoupled from the state machine.
	PriorState string `json:"prior_state,omitempty"`

	// NewTask reports that the learner moved on to a new exercise since
	// the last interaction.
	NewTask bool `json:"new_task,omitempty"`
}
