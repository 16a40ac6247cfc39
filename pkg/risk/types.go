package risk

// Dimension is one of the five independent risk axes.
type Dimension string

const (
	// DimensionCognitive covers over-delegation and AI dependency.
	DimensionCognitive Dimension = "cognitive"

	// DimensionEthical covers authorship plausibility.
	DimensionEthical Dimension = "ethical"

	// DimensionEpistemic covers uncritical acceptance of AI output.
	DimensionEpistemic Dimension = "epistemic"

	// DimensionTechnical covers vulnerable and duplicated code.
	DimensionTechnical Dimension = "technical"

	// DimensionGovernance covers session-level policy breaches.
	DimensionGovernance Dimension = "governance"
)

// Severity grades a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities for comparison.
var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric order of the severity; unknown severities rank
// below low.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Finding is a single risk observation. Findings are append-only: once
// emitted they are never mutated.
type Finding struct {
	// Dimension is the risk axis that produced the finding.
	Dimension Dimension `json:"dimension"`

	// Severity grades the finding.
	Severity Severity `json:"severity"`

	// Code is a stable machine-readable identifier (e.g., "delegation",
	// "dependency", "uncritical_acceptance").
	Code string `json:"code"`

	// Rationale explains the finding in human terms.
	Rationale string `json:"rationale"`

	// Evidence references the interaction IDs that support the finding.
	Evidence []string `json:"evidence,omitempty"`
}

// MaxSeverity returns the highest severity among findings, or the empty
// severity when there are none.
func MaxSeverity(findings []Finding) Severity {
	var max Severity
	for _, f := range findings {
		if f.Severity.Rank() > max.Rank() {
			max = f.Severity
		}
	}
	return max
}

// HasSeverity reports whether any finding has at least the given severity.
func HasSeverity(findings []Finding, severity Severity) bool {
	for _, f := range findings {
		if f.Severity.Rank() >= severity.Rank() {
			return true
		}
	}
	return false
}
