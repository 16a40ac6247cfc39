package risk

import (
	"fmt"
	"strings"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
	"cognita-hq/tutela/pkg/signals"
)

// minJustificationWords is the minimum word count for interaction text to
// count as a justification for a strategy change.
const minJustificationWords = 5

// assessCognitive checks for over-delegation, growing AI dependency, and
// unjustified strategy changes.
func (a *Analyst) assessCognitive(interaction *session.Interaction, history *session.History, pol *policy.Policy) []Finding {
	var findings []Finding

	normalized := interaction.NormalizedText
	if normalized == "" {
		normalized = signals.Normalize(interaction.RawText)
	}

	// Scan the curated delegation phrases; the set is small.
	for phrase := range a.catalog.Phrases(signals.CategoryDelegation) {
		if phrase == "" {
			continue
		}
		if strings.Contains(" "+normalized+" ", " "+phrase+" ") {
			findings = append(findings, Finding{
				Dimension: DimensionCognitive,
				Severity:  SeverityHigh,
				Code:      "delegation",
				Rationale: fmt.Sprintf("utterance contains delegation phrase %q", phrase),
				Evidence:  []string{interaction.ID},
			})
			break
		}
	}

	// Dependency: rolling mean of ai_involvement over recent interactions.
	if history != nil {
		if mean, ok := history.RollingAIInvolvement(a.config.RollingWindow); ok && mean > pol.MaxAIAssistanceLevel {
			findings = append(findings, Finding{
				Dimension: DimensionCognitive,
				Severity:  SeverityMedium,
				Code:      "dependency",
				Rationale: fmt.Sprintf("rolling ai_involvement %.2f exceeds allowed %.2f over last %d interactions",
					mean, pol.MaxAIAssistanceLevel, a.config.RollingWindow),
				Evidence: recentInteractionIDs(history, a.config.RollingWindow),
			})
		}
	}

	// Unjustified strategy change.
	if pol.RequireJustification && history != nil {
		if a.isStrategyChange(history) && wordCount(normalized) < minJustificationWords {
			findings = append(findings, Finding{
				Dimension: DimensionCognitive,
				Severity:  SeverityLow,
				Code:      "missing_justification",
				Rationale: "strategy change submitted without accompanying justification",
				Evidence:  []string{interaction.ID},
			})
		}
	}

	return findings
}

// isStrategyChange reports whether the two most recent submissions differ
// structurally by more than the strategy-change ratio.
func (a *Analyst) isStrategyChange(history *session.History) bool {
	submissions := history.Submissions()
	if len(submissions) < 2 {
		return false
	}
	prev := submissions[len(submissions)-2].Text
	last := submissions[len(submissions)-1].Text
	return ChangeRatio(prev, last) > a.config.StrategyChangeRatio
}

// ChangeRatio measures structural difference between two code snapshots as
// one minus the Jaccard similarity of their trimmed line sets.
func ChangeRatio(before, after string) float64 {
	beforeLines := lineSet(before)
	afterLines := lineSet(after)
	if len(beforeLines) == 0 && len(afterLines) == 0 {
		return 0
	}

	intersection := 0
	for line := range afterLines {
		if _, ok := beforeLines[line]; ok {
			intersection++
		}
	}
	union := len(beforeLines) + len(afterLines) - intersection
	if union == 0 {
		return 0
	}
	return 1 - float64(intersection)/float64(union)
}

func lineSet(code string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

func recentInteractionIDs(history *session.History, n int) []string {
	start := len(history.Interactions) - n
	if start < 0 {
		start = 0
	}
	var ids []string
	for _, in := range history.Interactions[start:] {
		ids = append(ids, in.ID)
	}
	return ids
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
