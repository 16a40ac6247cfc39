package trace

import (
	"time"

	"cognita-hq/tutela/pkg/cognition"
	"cognita-hq/tutela/pkg/governance"
	"cognita-hq/tutela/pkg/risk"
	"cognita-hq/tutela/pkg/signals"
)

// Record is one immutable trace entry. Records within a session are
// totally ordered by creation time and linked via ParentTraceID.
type Record struct {
	// ID is the unique record identifier (UUID v4).
	ID string `json:"id"`

	// SessionID identifies the session the record belongs to.
	SessionID string `json:"session_id"`

	// ParentTraceID is the most recent prior trace in the same session,
	// empty at session start. It is a plain identifier, never an owning
	// reference.
	ParentTraceID string `json:"parent_trace_id,omitempty"`

	// InteractionID references exactly one interaction.
	InteractionID string `json:"interaction_id"`

	// CognitiveState is the state computed for this interaction.
	CognitiveState cognition.State `json:"cognitive_state"`

	// CognitiveIntent is the derived intent of the utterance.
	CognitiveIntent signals.Intent `json:"cognitive_intent"`

	// ActiveSignals lists the active signal categories, precedence order.
	ActiveSignals []signals.Category `json:"active_signals,omitempty"`

	// AIInvolvement is the classification-level estimate in [0, 1]. It is
	// a property of this interaction, not a session aggregate.
	AIInvolvement float64 `json:"ai_involvement"`

	// AlternativesConsidered lists response strategies that were available
	// but not taken.
	AlternativesConsidered []string `json:"alternatives_considered,omitempty"`

	// DecisionJustification is the learner-supplied justification, when
	// the policy requires one. Empty otherwise.
	DecisionJustification string `json:"decision_justification,omitempty"`

	// RiskFindings embeds the findings emitted for this interaction.
	RiskFindings []risk.Finding `json:"risk_findings,omitempty"`

	// Verdict embeds the governance verdict.
	Verdict governance.Verdict `json:"governance_verdict"`

	// CreatedAt is when the record was composed.
	CreatedAt time.Time `json:"created_at"`
}
