package cognition

import (
	"cognita-hq/tutela/pkg/signals"
)

// stagnationThreshold is the consecutive-failure count that tips a
// debugging learner into stagnation.
const stagnationThreshold = 3

// strategyChangeRatio is the structural-change fraction above which a
// submission counts as a strategy change rather than an iteration.
const strategyChangeRatio = 0.5

// anyState marks a rule that applies regardless of the current state.
const anyState State = "*"

// rule is a single row of the transition table.
type rule struct {
	from State
	when func(set signals.SignalSet, m Metrics) bool
	to   State
}

// transitionTable holds the rules in evaluation order. The first matching
// row wins; later rows never override an earlier match.
var transitionTable = []rule{
	{
		from: StateInicio,
		when: func(set signals.SignalSet, m Metrics) bool { return !set.Empty() },
		to:   StateExploracion,
	},
	{
		from: StateExploracion,
		when: func(set signals.SignalSet, m Metrics) bool {
			return m.AttemptNumber <= 1 && !m.CodeSubmitted
		},
		to: StateExploracion,
	},
	{
		from: StateExploracion,
		when: func(set signals.SignalSet, m Metrics) bool { return m.CodeSubmitted },
		to:   StateImplementacion,
	},
	{
		from: StateImplementacion,
		when: func(set signals.SignalSet, m Metrics) bool { return m.TestFailed },
		to:   StateDepuracion,
	},
	{
		from: StateDepuracion,
		when: func(set signals.SignalSet, m Metrics) bool {
			return m.ConsecutiveFailures >= stagnationThreshold
		},
		to: StateEstancamiento,
	},
	{
		from: StateDepuracion,
		when: func(set signals.SignalSet, m Metrics) bool {
			return m.CodeSubmitted && m.ChangeRatio > strategyChangeRatio
		},
		to: StateCambioEstrategia,
	},
	{
		from: StateCambioEstrategia,
		when: func(set signals.SignalSet, m Metrics) bool { return m.CodeSubmitted },
		to:   StateImplementacion,
	},
	{
		from: anyState,
		when: func(set signals.SignalSet, m Metrics) bool { return m.AllTestsPassed },
		to:   StateValidacion,
	},
	{
		from: StateValidacion,
		when: func(set signals.SignalSet, m Metrics) bool {
			return set.Has(signals.CategoryMetacognition)
		},
		to: StateReflexion,
	},
	{
		from: StateEstancamiento,
		when: func(set signals.SignalSet, m Metrics) bool { return isHelpRequest(set) },
		to:   StateExploracion,
	},
	// REFLEXION is not terminal: a new task loops back to exploration.
	{
		from: StateReflexion,
		when: func(set signals.SignalSet, m Metrics) bool { return m.NewTask },
		to:   StateExploracion,
	},
}

// NextState computes the successor of current for the given signals and
// metrics. The function is total: every input maps to exactly one state,
// defaulting to the current state when no rule fires.
func NextState(current State, set signals.SignalSet, metrics Metrics) State {
	if current == "" {
		current = StateInicio
	}

	for _, r := range transitionTable {
		if r.from != anyState && r.from != current {
			continue
		}
		if r.when(set, metrics) {
			return r.to
		}
	}

	return current
}

// isHelpRequest reports whether the signal set contains any
// guidance-seeking category.
func isHelpRequest(set signals.SignalSet) bool {
	return set.Has(signals.CategoryQuestion) ||
		set.Has(signals.CategoryConfusion) ||
		set.Has(signals.CategoryExplanationRequest) ||
		set.Has(signals.CategoryExampleRequest)
}
