package risk

import (
	"context"
	"testing"
	"time"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
	"cognita-hq/tutela/pkg/signals"
)

var sessionStart = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestAnalyst(t *testing.T) *Analyst {
	t.Helper()
	catalog, err := signals.NewCatalog(signals.DefaultCatalogConfig())
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return NewAnalyst(catalog, nil)
}

func interactionAt(offset time.Duration, text string) *session.Interaction {
	return &session.Interaction{
		ID:        "interaction-1",
		SessionID: "session-1",
		Timestamp: sessionStart.Add(offset),
		RawText:   text,
	}
}

func findingWithCode(findings []Finding, code string) (Finding, bool) {
	for _, f := range findings {
		if f.Code == code {
			return f, true
		}
	}
	return Finding{}, false
}

func TestAssess_NoHistoryNoFindings(t *testing.T) {
	a := newTestAnalyst(t)

	findings := a.Assess(context.Background(), interactionAt(0, "hola"), nil, policy.Default())
	// The cognitive dimension can still fire on the utterance alone; a
	// plain greeting must produce nothing.
	if len(findings) != 0 {
		t.Errorf("expected no findings without history, got %v", findings)
	}
}

func TestAssess_DelegationPhrase(t *testing.T) {
	a := newTestAnalyst(t)
	history := &session.History{SessionID: "session-1", StartedAt: sessionStart}

	findings := a.Assess(context.Background(),
		interactionAt(time.Minute, "dame el código completo"), history, policy.Default())

	f, ok := findingWithCode(findings, "delegation")
	if !ok {
		t.Fatalf("expected delegation finding, got %v", findings)
	}
	if f.Dimension != DimensionCognitive {
		t.Errorf("expected cognitive dimension, got %s", f.Dimension)
	}
	if f.Severity != SeverityHigh {
		t.Errorf("expected high severity, got %s", f.Severity)
	}
}

func TestAssess_Dependency(t *testing.T) {
	a := newTestAnalyst(t)
	pol := policy.Default()
	pol.MaxAIAssistanceLevel = 0.5

	history := &session.History{
		SessionID:     "session-1",
		StartedAt:     sessionStart,
		AIInvolvement: []float64{0.8, 0.9, 0.7, 0.9, 0.8},
	}

	findings := a.Assess(context.Background(), interactionAt(time.Minute, "y ahora qué hago"), history, pol)

	if _, ok := findingWithCode(findings, "dependency"); !ok {
		t.Errorf("expected dependency finding, got %v", findings)
	}
}

func TestAssess_CopyPasteDetection(t *testing.T) {
	a := newTestAnalyst(t)
	pol := policy.Default()
	pol.MaxCopyPasteChars = 100
	pol.MinTypingSpeedThreshold = 10

	// 200 chars arriving 1 second after the prior event needs at least 20s
	// of typing at 10 chars/sec.
	longText := make([]byte, 200)
	for i := range longText {
		longText[i] = 'a'
	}

	history := &session.History{
		SessionID: "session-1",
		StartedAt: sessionStart,
		Events: []session.Event{
			{Kind: session.EventMessage, Timestamp: sessionStart.Add(10 * time.Second)},
		},
	}

	findings := a.Assess(context.Background(),
		interactionAt(11*time.Second, string(longText)), history, pol)

	f, ok := findingWithCode(findings, "implausible_authorship_speed")
	if !ok {
		t.Fatalf("expected ethical finding, got %v", findings)
	}
	if f.Severity != SeverityHigh {
		t.Errorf("expected high severity, got %s", f.Severity)
	}
}

func TestAssess_PlausibleTypingSpeedPasses(t *testing.T) {
	a := newTestAnalyst(t)
	pol := policy.Default()
	pol.MaxCopyPasteChars = 100
	pol.MinTypingSpeedThreshold = 10

	longText := make([]byte, 200)
	for i := range longText {
		longText[i] = 'a'
	}

	history := &session.History{
		SessionID: "session-1",
		StartedAt: sessionStart,
		Events: []session.Event{
			{Kind: session.EventMessage, Timestamp: sessionStart},
		},
	}

	// 200 chars over 30 seconds is within 10 chars/sec.
	findings := a.Assess(context.Background(),
		interactionAt(30*time.Second, string(longText)), history, pol)

	if _, ok := findingWithCode(findings, "implausible_authorship_speed"); ok {
		t.Errorf("plausible typing speed should not produce a finding: %v", findings)
	}
}

func TestAssess_UncriticalAcceptance(t *testing.T) {
	a := newTestAnalyst(t)

	// Three AI responses; only the first is critiqued within the window.
	history := &session.History{
		SessionID: "session-1",
		StartedAt: sessionStart,
		Events: []session.Event{
			{Kind: session.EventAIResponse, Timestamp: sessionStart.Add(1 * time.Minute)},
			{Kind: session.EventCritique, Timestamp: sessionStart.Add(2 * time.Minute)},
			{Kind: session.EventAIResponse, Timestamp: sessionStart.Add(10 * time.Minute)},
			{Kind: session.EventAIResponse, Timestamp: sessionStart.Add(20 * time.Minute)},
		},
	}

	findings := a.Assess(context.Background(),
		interactionAt(25*time.Minute, "vale, gracias"), history, policy.Default())

	f, ok := findingWithCode(findings, "uncritical_acceptance")
	if !ok {
		t.Fatalf("expected epistemic finding, got %v", findings)
	}
	if f.Dimension != DimensionEpistemic {
		t.Errorf("expected epistemic dimension, got %s", f.Dimension)
	}
}

func TestAssess_CritiquedResponsesPass(t *testing.T) {
	a := newTestAnalyst(t)

	// Every response is critiqued within the window.
	history := &session.History{
		SessionID: "session-1",
		StartedAt: sessionStart,
		Events: []session.Event{
			{Kind: session.EventAIResponse, Timestamp: sessionStart.Add(1 * time.Minute)},
			{Kind: session.EventCritique, Timestamp: sessionStart.Add(2 * time.Minute)},
			{Kind: session.EventAIResponse, Timestamp: sessionStart.Add(10 * time.Minute)},
			{Kind: session.EventCritique, Timestamp: sessionStart.Add(11 * time.Minute)},
			{Kind: session.EventAIResponse, Timestamp: sessionStart.Add(20 * time.Minute)},
			{Kind: session.EventCritique, Timestamp: sessionStart.Add(21 * time.Minute)},
		},
	}

	findings := a.Assess(context.Background(),
		interactionAt(25*time.Minute, "entiendo la diferencia ahora"), history, policy.Default())

	if _, ok := findingWithCode(findings, "uncritical_acceptance"); ok {
		t.Errorf("critiqued responses should not produce a finding: %v", findings)
	}
}

func TestAssess_VulnerabilitySignatures(t *testing.T) {
	a := newTestAnalyst(t)

	tests := []struct {
		name     string
		code     string
		want     string
		severity Severity
	}{
		{
			name:     "sql string concatenation",
			code:     `query = "SELECT * FROM users WHERE name = '" + name + "'"`,
			want:     "sql_injection",
			severity: SeverityHigh,
		},
		{
			name:     "hardcoded password",
			code:     `password = "hunter22"`,
			want:     "hardcoded_credentials",
			severity: SeverityHigh,
		},
		{
			name:     "dynamic eval",
			code:     `result = eval(user_input)`,
			want:     "dynamic_eval",
			severity: SeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &session.History{
				SessionID: "session-1",
				StartedAt: sessionStart,
				Events: []session.Event{
					{Kind: session.EventSubmission, Timestamp: sessionStart.Add(time.Minute), Text: tt.code},
				},
			}

			findings := a.Assess(context.Background(),
				interactionAt(2*time.Minute, "revisa mi código"), history, policy.Default())

			f, ok := findingWithCode(findings, tt.want)
			if !ok {
				t.Fatalf("expected %s finding, got %v", tt.want, findings)
			}
			if f.Severity != tt.severity {
				t.Errorf("expected %s severity, got %s", tt.severity, f.Severity)
			}
		})
	}
}

func TestAssess_MultipleVulnerabilitiesEscalateToCritical(t *testing.T) {
	a := newTestAnalyst(t)

	code := `
password = "hunter22"
query = "SELECT * FROM users WHERE id = " + str(user_id) + " AND active = " + flag
eval(payload)
`
	history := &session.History{
		SessionID: "session-1",
		StartedAt: sessionStart,
		Events: []session.Event{
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(time.Minute), Text: code},
		},
	}

	findings := a.Assess(context.Background(),
		interactionAt(2*time.Minute, "está correcto?"), history, policy.Default())

	f, ok := findingWithCode(findings, "multiple_vulnerabilities")
	if !ok {
		t.Fatalf("expected critical escalation, got %v", findings)
	}
	if f.Severity != SeverityCritical {
		t.Errorf("expected critical severity, got %s", f.Severity)
	}
}

func TestAssess_DuplicatedSubmission(t *testing.T) {
	a := newTestAnalyst(t)

	code := "def solve():\n    return 42"
	history := &session.History{
		SessionID: "session-1",
		StartedAt: sessionStart,
		Events: []session.Event{
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(1 * time.Minute), Text: code},
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(5 * time.Minute), Text: "def solve():\n    return 41"},
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(9 * time.Minute), Text: code},
		},
	}

	findings := a.Assess(context.Background(),
		interactionAt(10*time.Minute, "sigue igual"), history, policy.Default())

	if _, ok := findingWithCode(findings, "duplication"); !ok {
		t.Errorf("expected duplication finding for a non-adjacent repeat, got %v", findings)
	}
}

func TestAssess_DuplicatedSubmissionShadowedByAdjacentRepeat(t *testing.T) {
	a := newTestAnalyst(t)

	// The latest submission repeats both the immediately preceding one and
	// an earlier non-adjacent one; the earlier occurrence must still flag.
	code := "def solve():\n    return 42"
	history := &session.History{
		SessionID: "session-1",
		StartedAt: sessionStart,
		Events: []session.Event{
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(1 * time.Minute), Text: code},
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(4 * time.Minute), Text: "def solve():\n    return 41"},
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(7 * time.Minute), Text: code},
			{Kind: session.EventSubmission, Timestamp: sessionStart.Add(9 * time.Minute), Text: code},
		},
	}

	findings := a.Assess(context.Background(),
		interactionAt(10*time.Minute, "sigue igual"), history, policy.Default())

	if _, ok := findingWithCode(findings, "duplication"); !ok {
		t.Errorf("expected duplication finding despite the adjacent repeat, got %v", findings)
	}
}

func TestAssess_SessionOverrun(t *testing.T) {
	a := newTestAnalyst(t)
	pol := policy.Default()
	pol.MaxSessionHours = 2

	history := &session.History{SessionID: "session-1", StartedAt: sessionStart}

	findings := a.Assess(context.Background(),
		interactionAt(3*time.Hour, "sigo aquí"), history, pol)

	f, ok := findingWithCode(findings, "session_overrun")
	if !ok {
		t.Fatalf("expected session overrun finding, got %v", findings)
	}
	if f.Severity != SeverityMedium {
		t.Errorf("expected medium severity, got %s", f.Severity)
	}
}

func TestAssess_AutomatedTraffic(t *testing.T) {
	a := newTestAnalyst(t)

	// Perfectly regular sub-second messages look machine-generated.
	events := make([]session.Event, 0, 6)
	for i := 0; i < 6; i++ {
		events = append(events, session.Event{
			Kind:      session.EventMessage,
			Timestamp: sessionStart.Add(time.Duration(i) * 500 * time.Millisecond),
		})
	}
	history := &session.History{SessionID: "session-1", StartedAt: sessionStart, Events: events}

	findings := a.Assess(context.Background(),
		interactionAt(time.Minute, "siguiente"), history, policy.Default())

	f, ok := findingWithCode(findings, "automated_traffic")
	if !ok {
		t.Fatalf("expected automated traffic finding, got %v", findings)
	}
	if f.Severity != SeverityHigh {
		t.Errorf("expected high severity, got %s", f.Severity)
	}
}

func TestAssess_HumanPacedTrafficPasses(t *testing.T) {
	a := newTestAnalyst(t)

	offsets := []time.Duration{0, 40 * time.Second, 2 * time.Minute, 5 * time.Minute, 9 * time.Minute}
	events := make([]session.Event, 0, len(offsets))
	for _, offset := range offsets {
		events = append(events, session.Event{Kind: session.EventMessage, Timestamp: sessionStart.Add(offset)})
	}
	history := &session.History{SessionID: "session-1", StartedAt: sessionStart, Events: events}

	findings := a.Assess(context.Background(),
		interactionAt(10*time.Minute, "una duda más"), history, policy.Default())

	if _, ok := findingWithCode(findings, "automated_traffic"); ok {
		t.Errorf("human-paced traffic should not produce a finding: %v", findings)
	}
}

func TestChangeRatio(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   float64
	}{
		{name: "identical", before: "a\nb\nc", after: "a\nb\nc", want: 0},
		{name: "disjoint", before: "a\nb", after: "c\nd", want: 1},
		{name: "both empty", before: "", after: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangeRatio(tt.before, tt.after); got != tt.want {
				t.Errorf("ChangeRatio = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestMaxSeverity(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityLow},
		{Severity: SeverityCritical},
		{Severity: SeverityMedium},
	}
	if got := MaxSeverity(findings); got != SeverityCritical {
		t.Errorf("expected critical, got %s", got)
	}
	if got := MaxSeverity(nil); got != "" {
		t.Errorf("expected empty severity for no findings, got %q", got)
	}
}
