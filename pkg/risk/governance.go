package risk

import (
	"fmt"
	"math"
	"time"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
)

// assessGovernance checks session-level policy breaches: session overrun
// and machine-regular message timing.
func (a *Analyst) assessGovernance(interaction *session.Interaction, history *session.History, pol *policy.Policy) []Finding {
	if history == nil {
		return nil
	}

	var findings []Finding

	// Session duration ceiling.
	if pol.MaxSessionHours > 0 && !history.StartedAt.IsZero() {
		duration := history.Duration(interaction.Timestamp)
		limit := time.Duration(pol.MaxSessionHours * float64(time.Hour))
		if duration > limit {
			findings = append(findings, Finding{
				Dimension: DimensionGovernance,
				Severity:  SeverityMedium,
				Code:      "session_overrun",
				Rationale: fmt.Sprintf("session has run %s, limit is %s",
					duration.Round(time.Minute), limit),
				Evidence: []string{interaction.ID},
			})
		}
	}

	// Automated traffic: near-zero interval variance with a sub-floor mean.
	intervals := history.MessageIntervals()
	if len(intervals) >= a.config.MinIntervalsForTraffic {
		mean, variance := intervalStats(intervals)
		if variance < a.config.IntervalVarianceFloor && mean < a.config.MinMessageInterval.Seconds() {
			findings = append(findings, Finding{
				Dimension: DimensionGovernance,
				Severity:  SeverityHigh,
				Code:      "automated_traffic",
				Rationale: fmt.Sprintf("message intervals are machine-regular (mean %.2fs, variance %.4f)",
					mean, variance),
				Evidence: []string{interaction.ID},
			})
		}
	}

	return findings
}

// intervalStats returns the mean and population variance of the intervals,
// both in seconds.
func intervalStats(intervals []time.Duration) (mean, variance float64) {
	n := float64(len(intervals))
	for _, iv := range intervals {
		mean += iv.Seconds()
	}
	mean /= n

	for _, iv := range intervals {
		variance += math.Pow(iv.Seconds()-mean, 2)
	}
	variance /= n

	return mean, variance
}
