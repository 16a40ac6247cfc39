package trace

import (
	"fmt"
	"testing"
	"time"

	"cognita-hq/tutela/pkg/cognition"
	"cognita-hq/tutela/pkg/governance"
	"cognita-hq/tutela/pkg/risk"
	"cognita-hq/tutela/pkg/session"
	"cognita-hq/tutela/pkg/signals"
)

func sampleInput() ComposeInput {
	set := signals.NewSignalSet()
	set.AddMatch(signals.Match{Category: signals.CategoryDelegation, Pattern: "dame el codigo completo", Kind: signals.MatchPhrase})

	return ComposeInput{
		Interaction: &session.Interaction{
			ID:        "interaction-1",
			SessionID: "session-1",
			Timestamp: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
			RawText:   "dame el código completo",
		},
		State:         cognition.StateExploracion,
		Signals:       set,
		AIInvolvement: 0.9,
		Findings: []risk.Finding{
			{Dimension: risk.DimensionCognitive, Severity: risk.SeverityHigh, Code: "delegation"},
		},
		Verdict: governance.Verdict{
			Level:   governance.LevelViolation,
			Routing: governance.RouteBlock,
		},
		PriorTraceID: "trace-0",
		Alternatives: []string{"guided_hint", "socratic_question"},
	}
}

func TestCompose_Fields(t *testing.T) {
	c := NewComposer()
	record := c.Compose(sampleInput())

	if record.ID == "" {
		t.Error("expected non-empty record ID")
	}
	if record.SessionID != "session-1" {
		t.Errorf("expected session-1, got %s", record.SessionID)
	}
	if record.InteractionID != "interaction-1" {
		t.Errorf("expected interaction-1, got %s", record.InteractionID)
	}
	if record.ParentTraceID != "trace-0" {
		t.Errorf("expected parent trace-0, got %s", record.ParentTraceID)
	}
	if record.CognitiveState != cognition.StateExploracion {
		t.Errorf("expected EXPLORACION, got %s", record.CognitiveState)
	}
	if record.CognitiveIntent != signals.IntentSolutionRequest {
		t.Errorf("expected SOLUTION_REQUEST, got %s", record.CognitiveIntent)
	}
	if record.AIInvolvement != 0.9 {
		t.Errorf("expected involvement 0.9, got %g", record.AIInvolvement)
	}
	if len(record.RiskFindings) != 1 {
		t.Errorf("expected 1 finding, got %d", len(record.RiskFindings))
	}
	if record.Verdict.Routing != governance.RouteBlock {
		t.Errorf("expected BLOCK, got %s", record.Verdict.Routing)
	}
	if record.CreatedAt.IsZero() {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCompose_InvolvementClamped(t *testing.T) {
	c := NewComposer()

	in := sampleInput()
	in.AIInvolvement = 1.7
	if got := c.Compose(in).AIInvolvement; got != 1 {
		t.Errorf("expected involvement clamped to 1, got %g", got)
	}

	in.AIInvolvement = -0.3
	if got := c.Compose(in).AIInvolvement; got != 0 {
		t.Errorf("expected involvement clamped to 0, got %g", got)
	}
}

// TestCompose_IdempotentLineage checks that composing twice from identical
// inputs yields records equal in every field except ID and CreatedAt.
func TestCompose_IdempotentLineage(t *testing.T) {
	c := NewComposer()
	in := sampleInput()

	first := c.Compose(in)
	second := c.Compose(in)

	if first.ID == second.ID {
		t.Error("expected distinct record IDs")
	}

	// Blank the varying fields and compare the rest.
	a, b := *first, *second
	a.ID, b.ID = "", ""
	a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}

	if fmt.Sprintf("%+v", a) != fmt.Sprintf("%+v", b) {
		t.Errorf("records differ beyond ID/CreatedAt:\n%+v\n%+v", a, b)
	}
}

func TestCompose_DeterministicWithInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	seq := 0
	c := NewComposerWithClock(
		func() string { seq++; return fmt.Sprintf("trace-%d", seq) },
		func() time.Time { return fixed },
	)

	record := c.Compose(sampleInput())
	if record.ID != "trace-1" {
		t.Errorf("expected injected ID trace-1, got %s", record.ID)
	}
	if !record.CreatedAt.Equal(fixed) {
		t.Errorf("expected injected clock time, got %s", record.CreatedAt)
	}
}

func TestCompose_CopiesSlices(t *testing.T) {
	c := NewComposer()
	in := sampleInput()

	record := c.Compose(in)

	// Mutating the input after composition must not affect the record.
	in.Findings[0].Code = "mutated"
	in.Alternatives[0] = "mutated"

	if record.RiskFindings[0].Code != "delegation" {
		t.Error("record findings alias the caller's slice")
	}
	if record.AlternativesConsidered[0] != "guided_hint" {
		t.Error("record alternatives alias the caller's slice")
	}
}
