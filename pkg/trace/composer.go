package trace

import (
	"time"

	"github.com/google/uuid"

	"cognita-hq/tutela/pkg/cognition"
	"cognita-hq/tutela/pkg/governance"
	"cognita-hq/tutela/pkg/risk"
	"cognita-hq/tutela/pkg/session"
	"cognita-hq/tutela/pkg/signals"
)

// ComposeInput carries everything a record is assembled from. The prior
// trace ID is supplied by the caller; the composer never looks it up.
type ComposeInput struct {
	Interaction   *session.Interaction
	State         cognition.State
	Signals       signals.SignalSet
	AIInvolvement float64
	Findings      []risk.Finding
	Verdict       governance.Verdict
	PriorTraceID  string

	// Justification is learner-supplied justification text, if any.
	Justification string

	// Alternatives lists the response strategies not taken.
	Alternatives []string
}

// Composer assembles trace records. It is pure assembly: identical inputs
// yield records equal in every field except ID and CreatedAt.
type Composer struct {
	// newID and now are injectable for deterministic tests.
	newID func() string
	now   func() time.Time
}

// NewComposer creates a composer using UUID v4 identifiers and the wall
// clock.
func NewComposer() *Composer {
	return &Composer{
		newID: func() string { return uuid.New().String() },
		now:   time.Now,
	}
}

// NewComposerWithClock creates a composer with injected identity and clock
// sources, for tests that need reproducible records.
func NewComposerWithClock(newID func() string, now func() time.Time) *Composer {
	c := NewComposer()
	if newID != nil {
		c.newID = newID
	}
	if now != nil {
		c.now = now
	}
	return c
}

// Compose assembles an immutable record from the pipeline outputs.
// AIInvolvement is clamped into [0, 1].
func (c *Composer) Compose(in ComposeInput) *Record {
	involvement := in.AIInvolvement
	if involvement < 0 {
		involvement = 0
	}
	if involvement > 1 {
		involvement = 1
	}

	return &Record{
		ID:                     c.newID(),
		SessionID:              in.Interaction.SessionID,
		ParentTraceID:          in.PriorTraceID,
		InteractionID:          in.Interaction.ID,
		CognitiveState:         in.State,
		CognitiveIntent:        in.Signals.Intent(),
		ActiveSignals:          in.Signals.Active(),
		AIInvolvement:          involvement,
		AlternativesConsidered: append([]string(nil), in.Alternatives...),
		DecisionJustification:  in.Justification,
		RiskFindings:           append([]risk.Finding(nil), in.Findings...),
		Verdict:                in.Verdict,
		CreatedAt:              c.now(),
	}
}
