package signals

import (
	"strings"
)

// ClassifierConfig tunes classification confidence.
type ClassifierConfig struct {
	// MinMeaningfulLength is the normalized length above which unmatched
	// text is considered meaningful-but-unclassifiable, yielding
	// LowConfidence (the fallback trigger). Default: 12.
	MinMeaningfulLength int

	// PhraseConfidence is reported when at least one exact phrase hit.
	// Default: 0.9
	PhraseConfidence float64

	// RegexConfidence is reported when only regex patterns hit.
	// Default: 0.75
	RegexConfidence float64

	// ShortTextConfidence is reported for unmatched short text.
	// Default: 0.5
	ShortTextConfidence float64

	// LowConfidence is reported for unmatched meaningful text.
	// Default: 0.2
	LowConfidence float64
}

// DefaultClassifierConfig returns the default classifier configuration.
func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		MinMeaningfulLength: 12,
		PhraseConfidence:    0.9,
		RegexConfidence:     0.75,
		ShortTextConfidence: 0.5,
		LowConfidence:       0.2,
	}
}

// Classifier matches learner text against a pattern catalog.
// It has no mutable state and is safe for concurrent use.
type Classifier struct {
	catalog *Catalog
	config  *ClassifierConfig
}

// NewClassifier creates a classifier over the given catalog.
func NewClassifier(catalog *Catalog) *Classifier {
	return NewClassifierWithConfig(catalog, nil)
}

// NewClassifierWithConfig creates a classifier with custom confidence tuning.
func NewClassifierWithConfig(catalog *Catalog, cfg *ClassifierConfig) *Classifier {
	if cfg == nil {
		cfg = DefaultClassifierConfig()
	}
	return &Classifier{catalog: catalog, config: cfg}
}

// Classify scans the text and returns the active signal set and a heuristic
// confidence. Empty or whitespace-only text yields an empty set with
// confidence 0; it is not an error.
//
// Confidence is low (below any sensible fallback threshold) only when zero
// categories matched and the text is long enough to look meaningful.
func (c *Classifier) Classify(text string) (SignalSet, float64) {
	set := NewSignalSet()

	normalized := Normalize(text)
	if normalized == "" {
		return set, 0
	}

	windows := phraseWindows(normalized, c.catalog.maxPhraseWords)
	phraseHit := false

	for _, category := range Categories {
		// Exact phrases first: every word window of the text is looked up
		// in the category's phrase set, so cost scales with the text, not
		// with the catalog.
		matched := false
		for _, window := range windows {
			if _, ok := c.catalog.phrases[category][window]; ok {
				set.AddMatch(Match{Category: category, Pattern: window, Kind: MatchPhrase})
				matched = true
				phraseHit = true
			}
		}
		if matched {
			continue
		}

		// Regex list in declared order; first hit activates the category.
		for _, pattern := range c.catalog.patterns[category] {
			if pattern.re.MatchString(normalized) {
				set.AddMatch(Match{Category: category, Pattern: pattern.source, Kind: MatchRegex})
				break
			}
		}
	}

	// A question mark survives in the raw text only; normalization strips
	// punctuation before matching.
	if strings.Contains(text, "?") && !set.Has(CategoryQuestion) {
		set.AddMatch(Match{Category: CategoryQuestion, Pattern: "?", Kind: MatchPhrase})
	}

	switch {
	case phraseHit:
		return set, c.config.PhraseConfidence
	case !set.Empty():
		return set, c.config.RegexConfidence
	case len(normalized) >= c.config.MinMeaningfulLength:
		return set, c.config.LowConfidence
	default:
		return set, c.config.ShortTextConfidence
	}
}

// involvementWeights estimate how much of the requested response would be
// produced by the assistant rather than the learner, per category.
var involvementWeights = map[Category]float64{
	CategoryDelegation:          0.9,
	CategoryExampleRequest:      0.5,
	CategoryExplanationRequest:  0.4,
	CategoryOptimizationRequest: 0.4,
	CategoryValidation:          0.3,
	CategoryComparisonRequest:   0.3,
	CategoryConfusion:           0.2,
	CategoryQuestion:            0.2,
	CategoryFrustration:         0.2,
	CategoryMetacognition:       0.1,
}

// EstimateInvolvement derives the heuristic ai_involvement of an utterance
// from its active signals: the strongest active category wins. Always in
// [0, 1].
func EstimateInvolvement(set SignalSet) float64 {
	involvement := 0.0
	for category := range set.Matches {
		if w := involvementWeights[category]; w > involvement {
			involvement = w
		}
	}
	return involvement
}

// phraseWindows returns every distinct sequence of up to maxWords
// consecutive words in the normalized text, joined by single spaces. The
// result is the candidate set for exact-phrase lookups.
func phraseWindows(normalized string, maxWords int) []string {
	words := strings.Fields(normalized)
	if len(words) == 0 || maxWords <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for start := range words {
		limit := start + maxWords
		if limit > len(words) {
			limit = len(words)
		}
		for end := start + 1; end <= limit; end++ {
			window := strings.Join(words[start:end], " ")
			if _, ok := seen[window]; ok {
				continue
			}
			seen[window] = struct{}{}
			out = append(out, window)
		}
	}
	return out
}
