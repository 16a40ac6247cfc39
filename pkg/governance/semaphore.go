package governance

import (
	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/risk"
	"cognita-hq/tutela/pkg/signals"
)

// Evaluate folds the signal set, risk findings, and policy into a verdict.
// Rules are evaluated in strict order; the first match wins:
//
//  1. any critical finding            -> VIOLATION / BLOCK
//  2. solution request while blocked  -> VIOLATION / BLOCK
//  3. any high finding                -> WARNING / WARN, restrictions narrowed
//  4. frustration with escalation on  -> WARNING / ESCALATE
//  5. otherwise                       -> COMPLIANT / ALLOW
func Evaluate(set signals.SignalSet, findings []risk.Finding, pol *policy.Policy) Verdict {
	declared := pol.DeclaredRestrictions()

	if critical := findingsAtLeast(findings, risk.SeverityCritical); len(critical) > 0 {
		return Verdict{
			Level:              LevelViolation,
			Routing:            RouteBlock,
			Reason:             "critical risk finding",
			TriggeredFindings:  critical,
			ActiveRestrictions: declared,
		}
	}

	if set.Intent() == signals.IntentSolutionRequest && pol.BlockCompleteSolutions {
		return Verdict{
			Level:              LevelViolation,
			Routing:            RouteBlock,
			Reason:             "complete-solution request blocked by policy",
			TriggeredFindings:  findingsAtLeast(findings, risk.SeverityHigh),
			ActiveRestrictions: declared,
		}
	}

	if high := findingsAtLeast(findings, risk.SeverityHigh); len(high) > 0 {
		return Verdict{
			Level:              LevelWarning,
			Routing:            RouteWarn,
			Reason:             "high risk finding",
			TriggeredFindings:  high,
			ActiveRestrictions: narrowed(declared),
		}
	}

	if set.Has(signals.CategoryFrustration) && pol.AllowEscalation {
		return Verdict{
			Level:   LevelWarning,
			Routing: RouteEscalate,
			Reason:  "frustration signals; escalating to a human",
		}
	}

	return Verdict{
		Level:   LevelCompliant,
		Routing: RouteAllow,
	}
}

// findingsAtLeast returns the findings at or above the given severity,
// preserving input order.
func findingsAtLeast(findings []risk.Finding, severity risk.Severity) []risk.Finding {
	var out []risk.Finding
	for _, f := range findings {
		if f.Severity.Rank() >= severity.Rank() {
			out = append(out, f)
		}
	}
	return out
}

// narrowed forces the most restrictive response strategy the policy
// declares. It selects from the declared set only.
func narrowed(declared []policy.Restriction) []policy.Restriction {
	var out []policy.Restriction
	for _, r := range declared {
		if r == policy.RestrictionGuidedOnly || r == policy.RestrictionNoCompleteSolutions {
			out = append(out, r)
		}
	}
	return out
}
