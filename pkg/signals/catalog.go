package signals

import (
	"fmt"
	"regexp"
	"strings"
)

// CatalogConfig declares the phrase and regex patterns per category.
// Phrases are matched against normalized text; they are normalized again at
// build time so configs may contain accents and punctuation.
type CatalogConfig struct {
	// Phrases maps each category to its exact multi-word phrases.
	Phrases map[Category][]string

	// Patterns maps each category to its regular expressions, evaluated in
	// order against normalized text when no phrase hits.
	Patterns map[Category][]string
}

// Catalog is the immutable, precompiled pattern catalog. Build it once at
// process start; it is safe for concurrent reads and is never mutated.
type Catalog struct {
	// phrases holds the phrase lookup set per category, keyed by
	// normalized phrase.
	phrases map[Category]map[string]struct{}

	// patterns holds the compiled regex list per category, in config order.
	patterns map[Category][]compiledPattern

	// maxPhraseWords is the word count of the longest phrase across all
	// categories. The classifier sizes its lookup windows with it.
	maxPhraseWords int
}

type compiledPattern struct {
	source string
	re     *regexp.Regexp
}

// NewCatalog compiles a catalog from the given configuration.
// Returns an error if any regex fails to compile or a pattern references an
// unknown category.
func NewCatalog(cfg *CatalogConfig) (*Catalog, error) {
	if cfg == nil {
		cfg = DefaultCatalogConfig()
	}

	known := make(map[Category]struct{}, len(Categories))
	for _, category := range Categories {
		known[category] = struct{}{}
	}

	c := &Catalog{
		phrases:  make(map[Category]map[string]struct{}),
		patterns: make(map[Category][]compiledPattern),
	}

	for category, phrases := range cfg.Phrases {
		if _, ok := known[category]; !ok {
			return nil, fmt.Errorf("unknown signal category %q in phrase config", category)
		}
		set := make(map[string]struct{}, len(phrases))
		for _, phrase := range phrases {
			normalized := Normalize(phrase)
			set[normalized] = struct{}{}
			if words := len(strings.Fields(normalized)); words > c.maxPhraseWords {
				c.maxPhraseWords = words
			}
		}
		c.phrases[category] = set
	}

	for category, patterns := range cfg.Patterns {
		if _, ok := known[category]; !ok {
			return nil, fmt.Errorf("unknown signal category %q in pattern config", category)
		}
		compiled := make([]compiledPattern, 0, len(patterns))
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for category %q: %w", pattern, category, err)
			}
			compiled = append(compiled, compiledPattern{source: pattern, re: re})
		}
		c.patterns[category] = compiled
	}

	return c, nil
}

// Phrases returns a copy of the normalized phrase set for a category.
// The catalog itself stays immutable after construction.
func (c *Catalog) Phrases(category Category) map[string]struct{} {
	set := c.phrases[category]
	out := make(map[string]struct{}, len(set))
	for phrase := range set {
		out[phrase] = struct{}{}
	}
	return out
}

// DefaultCatalogConfig returns the built-in bilingual (Spanish/English)
// pattern catalog.
func DefaultCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		Phrases: map[Category][]string{
			CategoryDelegation: {
				"dame el código completo",
				"dame la solución completa",
				"hazme el ejercicio",
				"resuélvelo por mí",
				"escribe el código por mí",
				"hazlo por mí",
				"give me the complete code",
				"write the full solution",
				"do it for me",
				"solve it for me",
				"just give me the answer",
			},
			CategoryFrustration: {
				"no me sale",
				"estoy atascado",
				"estoy atascada",
				"esto no funciona",
				"me rindo",
				"llevo horas con esto",
				"no puedo más",
				"i give up",
				"this is impossible",
				"i am stuck",
				"im stuck",
				"nothing works",
			},
			CategoryValidation: {
				"está bien así",
				"lo hice bien",
				"es correcto esto",
				"está correcto",
				"revisa mi código",
				"is this correct",
				"did i do it right",
				"can you check my code",
			},
			CategoryConfusion: {
				"no entiendo",
				"no entiendo nada",
				"estoy confundido",
				"estoy confundida",
				"no sé qué hacer",
				"no me queda claro",
				"i dont understand",
				"im confused",
				"what does this mean",
			},
			CategoryExampleRequest: {
				"dame un ejemplo",
				"muéstrame un ejemplo",
				"puedes poner un ejemplo",
				"show me an example",
				"give me an example",
			},
			CategoryMetacognition: {
				"creo que entiendo",
				"me di cuenta",
				"ahora entiendo por qué",
				"aprendí que",
				"mi error fue",
				"lo que aprendí",
				"i realized",
				"now i understand",
				"i learned that",
				"my mistake was",
			},
			CategoryExplanationRequest: {
				"explícame",
				"puedes explicar",
				"cómo funciona esto",
				"no sé cómo funciona",
				"can you explain",
				"explain this to me",
				"how does this work",
			},
			CategoryOptimizationRequest: {
				"cómo puedo mejorar",
				"se puede optimizar",
				"hay una forma mejor",
				"más eficiente",
				"how can i improve",
				"can this be faster",
				"more efficient",
			},
			CategoryComparisonRequest: {
				"cuál es la diferencia",
				"qué es mejor",
				"diferencia entre",
				"whats the difference",
				"which is better",
			},
		},
		Patterns: map[Category][]string{
			CategoryDelegation: {
				`(?:dame|pasame|escribeme?)\s+(?:todo\s+)?el\s+codigo`,
				`(?:full|complete|entire)\s+(?:code|solution|answer)`,
				`codigo\s+completo`,
				`solucion\s+completa`,
			},
			CategoryFrustration: {
				`no\s+(?:me\s+)?funciona`,
				`(?:sigo|seguimos)\s+sin\s+(?:entender|poder)`,
				`(?:otra|la misma)\s+vez\s+(?:el|este)\s+error`,
			},
			CategoryValidation: {
				`esta\s+bien\s+(?:mi|este|el|asi)`,
				`(?:check|review)\s+my\s+\w+`,
				`(?:es|esta)\s+correct[oa]`,
			},
			CategoryConfusion: {
				`que\s+significa`,
				`que\s+quiere\s+decir`,
				`por\s+que\s+(?:sale|aparece|da|dice)\s+`,
			},
			CategoryExampleRequest: {
				`(?:un|otro)\s+ejemplo\s+de`,
				`example\s+of\s+how`,
			},
			CategoryMetacognition: {
				`(?:antes|ahora)\s+(?:pensaba|entiendo)`,
				`me\s+doy\s+cuenta`,
			},
			CategoryQuestion: {
				`^(?:como|que|por\s+que|cual|cuales|donde|cuando|quien|how|what|why|which|where|when|who|can|could|should|is|are|does|do)\b`,
			},
			CategoryExplanationRequest: {
				`expli(?:ca|que)(?:me|s)?\b`,
				`como\s+funciona`,
				`how\s+does\s+\w+.*\s+work`,
			},
			CategoryOptimizationRequest: {
				`(?:mejorar|optimizar)\s+(?:mi|el|este|esta)`,
				`(?:faster|quicker)\b`,
				`mas\s+(?:rapido|eficiente)`,
			},
			CategoryComparisonRequest: {
				`diferencia\s+entre`,
				`\bversus\b`,
				`\bvs\b`,
				`comparado\s+con`,
			},
		},
	}
}
