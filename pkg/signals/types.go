package signals

// Category is a signal category detected in learner text.
type Category string

const (
	// CategoryDelegation marks requests for a complete solution.
	CategoryDelegation Category = "delegation"

	// CategoryFrustration marks expressions of being stuck or giving up.
	CategoryFrustration Category = "frustration"

	// CategoryValidation marks requests to confirm or review work.
	CategoryValidation Category = "validation"

	// CategoryConfusion marks expressions of not understanding.
	CategoryConfusion Category = "confusion"

	// CategoryExampleRequest marks requests for a worked example.
	CategoryExampleRequest Category = "example_request"

	// CategoryMetacognition marks reflection about the learner's own process.
	CategoryMetacognition Category = "metacognition"

	// CategoryQuestion marks generic interrogative content.
	CategoryQuestion Category = "question"

	// CategoryExplanationRequest marks requests to explain a concept.
	CategoryExplanationRequest Category = "explanation_request"

	// CategoryOptimizationRequest marks requests to improve working code.
	CategoryOptimizationRequest Category = "optimization_request"

	// CategoryComparisonRequest marks requests to compare alternatives.
	CategoryComparisonRequest Category = "comparison_request"
)

// Categories lists all signal categories in intent-precedence order,
// highest precedence first. When multiple categories are active, the
// first one in this order determines the cognitive intent.
var Categories = []Category{
	CategoryDelegation,
	CategoryFrustration,
	CategoryValidation,
	CategoryConfusion,
	CategoryExampleRequest,
	CategoryMetacognition,
	CategoryExplanationRequest,
	CategoryOptimizationRequest,
	CategoryComparisonRequest,
	CategoryQuestion,
}

// Intent is the derived cognitive intent of an utterance.
type Intent string

const (
	// IntentSolutionRequest: the learner wants the system to produce the
	// answer rather than guidance.
	IntentSolutionRequest Intent = "SOLUTION_REQUEST"

	// IntentFrustration: the learner signals being stuck or demotivated.
	IntentFrustration Intent = "FRUSTRATION"

	// IntentValidationRequest: the learner wants their work confirmed.
	IntentValidationRequest Intent = "VALIDATION_REQUEST"

	// IntentConfusion: the learner does not understand something.
	IntentConfusion Intent = "CONFUSION"

	// IntentExampleRequest: the learner wants a worked example.
	IntentExampleRequest Intent = "EXAMPLE_REQUEST"

	// IntentMetacognition: the learner reflects on their own process.
	IntentMetacognition Intent = "METACOGNITION"

	// IntentExplanationRequest: the learner wants a concept explained.
	IntentExplanationRequest Intent = "EXPLANATION_REQUEST"

	// IntentOptimizationRequest: the learner wants to improve working code.
	IntentOptimizationRequest Intent = "OPTIMIZATION_REQUEST"

	// IntentComparisonRequest: the learner wants alternatives compared.
	IntentComparisonRequest Intent = "COMPARISON_REQUEST"

	// IntentHelpRequest: a generic question with no stronger signal.
	IntentHelpRequest Intent = "HELP_REQUEST"

	// IntentNone: no signal detected.
	IntentNone Intent = "NONE"
)

// categoryIntents maps each category to the intent it implies when it is
// the highest-precedence active category.
var categoryIntents = map[Category]Intent{
	CategoryDelegation:          IntentSolutionRequest,
	CategoryFrustration:         IntentFrustration,
	CategoryValidation:          IntentValidationRequest,
	CategoryConfusion:           IntentConfusion,
	CategoryExampleRequest:      IntentExampleRequest,
	CategoryMetacognition:       IntentMetacognition,
	CategoryExplanationRequest:  IntentExplanationRequest,
	CategoryOptimizationRequest: IntentOptimizationRequest,
	CategoryComparisonRequest:   IntentComparisonRequest,
	CategoryQuestion:            IntentHelpRequest,
}

// MatchKind identifies how a pattern matched.
type MatchKind string

const (
	// MatchPhrase is an exact normalized-phrase hit.
	MatchPhrase MatchKind = "phrase"

	// MatchRegex is a regular-expression hit.
	MatchRegex MatchKind = "regex"

	// MatchModel is a category suggested by the fallback classifier.
	MatchModel MatchKind = "model"
)

// Match records a single pattern hit, kept as evidence for trace rationale.
type Match struct {
	// Category is the signal category the pattern belongs to.
	Category Category

	// Pattern is the phrase or regex source that matched.
	Pattern string

	// Kind reports whether the hit was a phrase or a regex.
	Kind MatchKind
}

// SignalSet is the multi-label classification result for one utterance.
// Multiple categories may be active simultaneously.
type SignalSet struct {
	// Matches holds the pattern evidence per active category.
	Matches map[Category][]Match
}

// NewSignalSet returns an empty signal set.
func NewSignalSet() SignalSet {
	return SignalSet{Matches: make(map[Category][]Match)}
}

// Has reports whether the given category is active.
func (s SignalSet) Has(category Category) bool {
	return len(s.Matches[category]) > 0
}

// Empty reports whether no category is active.
func (s SignalSet) Empty() bool {
	for _, matches := range s.Matches {
		if len(matches) > 0 {
			return false
		}
	}
	return true
}

// Active returns the active categories in precedence order.
func (s SignalSet) Active() []Category {
	var out []Category
	for _, category := range Categories {
		if s.Has(category) {
			out = append(out, category)
		}
	}
	return out
}

// Intent resolves the cognitive intent by fixed precedence: the first
// active category in precedence order wins.
func (s SignalSet) Intent() Intent {
	for _, category := range Categories {
		if s.Has(category) {
			return categoryIntents[category]
		}
	}
	return IntentNone
}

// AddMatch records a match for a category. Callers that merge fallback
// classifications into a heuristic set use this with MatchModel matches.
func (s SignalSet) AddMatch(match Match) {
	s.Matches[match.Category] = append(s.Matches[match.Category], match)
}

// Clone returns a deep copy of the signal set.
func (s SignalSet) Clone() SignalSet {
	out := NewSignalSet()
	for category, matches := range s.Matches {
		out.Matches[category] = append([]Match(nil), matches...)
	}
	return out
}
