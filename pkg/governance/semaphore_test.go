package governance

import (
	"testing"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/risk"
	"cognita-hq/tutela/pkg/signals"
)

func setWith(categories ...signals.Category) signals.SignalSet {
	set := signals.NewSignalSet()
	for _, category := range categories {
		set.AddMatch(signals.Match{Category: category, Pattern: "x", Kind: signals.MatchPhrase})
	}
	return set
}

func findingsOf(severities ...risk.Severity) []risk.Finding {
	var out []risk.Finding
	for _, s := range severities {
		out = append(out, risk.Finding{Dimension: risk.DimensionTechnical, Severity: s, Code: "test"})
	}
	return out
}

func TestEvaluate_Rules(t *testing.T) {
	tests := []struct {
		name        string
		set         signals.SignalSet
		findings    []risk.Finding
		policy      *policy.Policy
		wantLevel   Level
		wantRouting Routing
	}{
		{
			name:        "critical finding blocks",
			set:         signals.NewSignalSet(),
			findings:    findingsOf(risk.SeverityCritical),
			policy:      policy.Default(),
			wantLevel:   LevelViolation,
			wantRouting: RouteBlock,
		},
		{
			name:        "solution request blocked by policy",
			set:         setWith(signals.CategoryDelegation),
			findings:    nil,
			policy:      &policy.Policy{BlockCompleteSolutions: true},
			wantLevel:   LevelViolation,
			wantRouting: RouteBlock,
		},
		{
			name:        "solution request allowed when policy permits",
			set:         setWith(signals.CategoryDelegation),
			findings:    nil,
			policy:      &policy.Policy{BlockCompleteSolutions: false},
			wantLevel:   LevelCompliant,
			wantRouting: RouteAllow,
		},
		{
			name:        "high finding warns",
			set:         signals.NewSignalSet(),
			findings:    findingsOf(risk.SeverityHigh),
			policy:      policy.Default(),
			wantLevel:   LevelWarning,
			wantRouting: RouteWarn,
		},
		{
			name:        "frustration escalates when allowed",
			set:         setWith(signals.CategoryFrustration),
			findings:    nil,
			policy:      &policy.Policy{AllowEscalation: true},
			wantLevel:   LevelWarning,
			wantRouting: RouteEscalate,
		},
		{
			name:        "frustration without escalation allows",
			set:         setWith(signals.CategoryFrustration),
			findings:    nil,
			policy:      &policy.Policy{AllowEscalation: false},
			wantLevel:   LevelCompliant,
			wantRouting: RouteAllow,
		},
		{
			name:        "clean interaction allows",
			set:         setWith(signals.CategoryQuestion),
			findings:    nil,
			policy:      policy.Default(),
			wantLevel:   LevelCompliant,
			wantRouting: RouteAllow,
		},
		{
			name:        "low and medium findings alone allow",
			set:         signals.NewSignalSet(),
			findings:    findingsOf(risk.SeverityLow, risk.SeverityMedium),
			policy:      policy.Default(),
			wantLevel:   LevelCompliant,
			wantRouting: RouteAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Evaluate(tt.set, tt.findings, tt.policy)
			if verdict.Level != tt.wantLevel {
				t.Errorf("expected level %s, got %s", tt.wantLevel, verdict.Level)
			}
			if verdict.Routing != tt.wantRouting {
				t.Errorf("expected routing %s, got %s", tt.wantRouting, verdict.Routing)
			}
		})
	}
}

func TestEvaluate_RuleOrder(t *testing.T) {
	// A critical finding wins over every other condition, including a
	// blockable solution request and frustration.
	set := setWith(signals.CategoryDelegation, signals.CategoryFrustration)
	pol := policy.Default()
	pol.AllowEscalation = true

	verdict := Evaluate(set, findingsOf(risk.SeverityCritical), pol)
	if verdict.Routing != RouteBlock {
		t.Errorf("critical finding must block, got %s", verdict.Routing)
	}

	// Without the critical finding, the solution request rule fires before
	// the escalation rule.
	verdict = Evaluate(set, nil, pol)
	if verdict.Routing != RouteBlock {
		t.Errorf("blocked solution request must win over escalation, got %s", verdict.Routing)
	}
}

func TestEvaluate_RestrictionsAreDeclaredSubset(t *testing.T) {
	pol := policy.Default()
	declared := make(map[policy.Restriction]struct{})
	for _, r := range pol.DeclaredRestrictions() {
		declared[r] = struct{}{}
	}

	cases := [][]risk.Finding{
		nil,
		findingsOf(risk.SeverityHigh),
		findingsOf(risk.SeverityCritical),
		findingsOf(risk.SeverityLow, risk.SeverityHigh, risk.SeverityCritical),
	}

	for _, findings := range cases {
		verdict := Evaluate(setWith(signals.CategoryDelegation), findings, pol)
		for _, r := range verdict.ActiveRestrictions {
			if _, ok := declared[r]; !ok {
				t.Errorf("verdict activated undeclared restriction %s", r)
			}
		}
	}
}

// TestEvaluate_MonotonicRestriction checks that adding findings never
// produces a less restrictive routing.
func TestEvaluate_MonotonicRestriction(t *testing.T) {
	pol := policy.Default()
	set := setWith(signals.CategoryQuestion)

	ladders := [][]risk.Finding{
		nil,
		findingsOf(risk.SeverityLow),
		findingsOf(risk.SeverityLow, risk.SeverityMedium),
		findingsOf(risk.SeverityLow, risk.SeverityMedium, risk.SeverityHigh),
		findingsOf(risk.SeverityLow, risk.SeverityMedium, risk.SeverityHigh, risk.SeverityCritical),
	}

	prevRank := -1
	for i, findings := range ladders {
		verdict := Evaluate(set, findings, pol)
		rank := verdict.Routing.Rank()
		if rank < prevRank {
			t.Errorf("step %d: routing %s is less restrictive than the previous step", i, verdict.Routing)
		}
		prevRank = rank
	}
}

func TestEvaluate_TriggeredFindingsReported(t *testing.T) {
	findings := findingsOf(risk.SeverityLow, risk.SeverityHigh)

	verdict := Evaluate(signals.NewSignalSet(), findings, policy.Default())
	if len(verdict.TriggeredFindings) != 1 {
		t.Fatalf("expected only the high finding to be reported, got %d", len(verdict.TriggeredFindings))
	}
	if verdict.TriggeredFindings[0].Severity != risk.SeverityHigh {
		t.Errorf("expected high severity trigger, got %s", verdict.TriggeredFindings[0].Severity)
	}
}
