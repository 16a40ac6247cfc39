package risk

import (
	"fmt"
	"sort"
	"time"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
)

// assessEpistemic correlates AI responses with subsequent learner critiques.
// Response timestamps are kept sorted and each response is matched to the
// nearest subsequent critique by binary search, bounding the whole check to
// O(n log n) per session instead of the naive O(n²) pairwise scan.
func (a *Analyst) assessEpistemic(interaction *session.Interaction, history *session.History, pol *policy.Policy) []Finding {
	if history == nil {
		return nil
	}

	responses := history.EventTimes(session.EventAIResponse)
	if len(responses) < a.config.MinResponsesForEpistemic {
		return nil
	}

	critiques := history.EventTimes(session.EventCritique)
	// The binary search requires sorted input; the event stream is appended
	// in time order but imported histories may not be.
	sort.Slice(critiques, func(i, j int) bool { return critiques[i].Before(critiques[j]) })

	uncritiqued := 0
	for _, response := range responses {
		if !critiquedWithin(response, critiques, a.config.CritiqueWindow) {
			uncritiqued++
		}
	}

	ratio := float64(uncritiqued) / float64(len(responses))
	if ratio <= a.config.UncritiquedRatioThreshold {
		return nil
	}

	return []Finding{{
		Dimension: DimensionEpistemic,
		Severity:  SeverityMedium,
		Code:      "uncritical_acceptance",
		Rationale: fmt.Sprintf("%d of %d AI responses (%.0f%%) were accepted without critique within %s",
			uncritiqued, len(responses), ratio*100, a.config.CritiqueWindow),
		Evidence: []string{interaction.ID},
	}}
}

// critiquedWithin reports whether a critique follows the response within
// the window. critiques must be sorted ascending.
func critiquedWithin(response time.Time, critiques []time.Time, window time.Duration) bool {
	idx := sort.Search(len(critiques), func(i int) bool {
		return !critiques[i].Before(response)
	})
	if idx == len(critiques) {
		return false
	}
	return critiques[idx].Sub(response) <= window
}
