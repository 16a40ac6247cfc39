package risk

import (
	"fmt"
	"time"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
)

// assessEthical checks authorship plausibility: text longer than the
// copy-paste ceiling that arrived faster than anyone could type it.
func (a *Analyst) assessEthical(interaction *session.Interaction, history *session.History, pol *policy.Policy) []Finding {
	if history == nil || pol.MaxCopyPasteChars <= 0 || pol.MinTypingSpeedThreshold <= 0 {
		return nil
	}

	length := len(interaction.RawText)
	if length <= pol.MaxCopyPasteChars {
		return nil
	}

	previous, ok := history.LastEventBefore(interaction.Timestamp)
	if !ok {
		// No prior event to measure against; fail toward permissiveness.
		return nil
	}

	elapsed := interaction.Timestamp.Sub(previous.Timestamp)
	minimum := time.Duration(float64(length) / pol.MinTypingSpeedThreshold * float64(time.Second))

	if elapsed >= minimum {
		return nil
	}

	return []Finding{{
		Dimension: DimensionEthical,
		Severity:  SeverityHigh,
		Code:      "implausible_authorship_speed",
		Rationale: fmt.Sprintf("%d chars arrived in %s; typing at %.1f chars/sec needs at least %s",
			length, elapsed.Round(time.Millisecond), pol.MinTypingSpeedThreshold, minimum.Round(time.Second)),
		Evidence: []string{interaction.ID},
	}}
}
