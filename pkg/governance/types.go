package governance

import (
	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/risk"
)

// Level is the compliance level of a verdict.
type Level string

const (
	// LevelCompliant: the interaction complies with the active policy.
	LevelCompliant Level = "COMPLIANT"

	// LevelWarning: concerning but not blocking.
	LevelWarning Level = "WARNING"

	// LevelViolation: the interaction violates the active policy.
	LevelViolation Level = "VIOLATION"
)

// rank orders levels for monotonicity comparisons.
var levelRanks = map[Level]int{
	LevelCompliant: 0,
	LevelWarning:   1,
	LevelViolation: 2,
}

// Rank returns the numeric order of the level.
func (l Level) Rank() int {
	return levelRanks[l]
}

// Routing is the action the caller should take for the interaction.
type Routing string

const (
	// RouteAllow lets the reply generator respond normally.
	RouteAllow Routing = "ALLOW"

	// RouteWarn lets the reply through under narrowed restrictions.
	RouteWarn Routing = "WARN"

	// RouteBlock refuses the interaction.
	RouteBlock Routing = "BLOCK"

	// RouteEscalate hands the interaction to a human.
	RouteEscalate Routing = "ESCALATE"
)

// routingRanks orders routings from least to most restrictive. ESCALATE
// sits between WARN and BLOCK: it removes the AI from the loop without
// refusing the learner.
var routingRanks = map[Routing]int{
	RouteAllow:    0,
	RouteWarn:     1,
	RouteEscalate: 2,
	RouteBlock:    3,
}

// Rank returns the restrictiveness order of the routing.
func (r Routing) Rank() int {
	return routingRanks[r]
}

// Verdict is the outcome of policy evaluation for one interaction.
// It is derived and immutable; one verdict exists per interaction.
type Verdict struct {
	// Level is the compliance level.
	Level Level `json:"level"`

	// Routing is the action the caller should take.
	Routing Routing `json:"routing"`

	// Reason names the rule that produced the verdict.
	Reason string `json:"reason,omitempty"`

	// TriggeredFindings are the findings that drove the decision.
	TriggeredFindings []risk.Finding `json:"triggered_findings,omitempty"`

	// ActiveRestrictions are the policy-declared restrictions in force for
	// the reply. Always a subset of the policy's declared options.
	ActiveRestrictions []policy.Restriction `json:"active_restrictions,omitempty"`
}
