package cognition

import (
	"testing"

	"cognita-hq/tutela/pkg/signals"
)

func setWith(categories ...signals.Category) signals.SignalSet {
	set := signals.NewSignalSet()
	for _, category := range categories {
		set.AddMatch(signals.Match{Category: category, Pattern: "x", Kind: signals.MatchPhrase})
	}
	return set
}

func TestNextState_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		current State
		set     signals.SignalSet
		metrics Metrics
		want    State
	}{
		{
			name:    "inicio to exploracion on any signal",
			current: StateInicio,
			set:     setWith(signals.CategoryQuestion),
			want:    StateExploracion,
		},
		{
			name:    "inicio stays without signals",
			current: StateInicio,
			set:     signals.NewSignalSet(),
			want:    StateInicio,
		},
		{
			name:    "exploracion to implementacion on submission",
			current: StateExploracion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{AttemptNumber: 1, CodeSubmitted: true},
			want:    StateImplementacion,
		},
		{
			name:    "implementacion to depuracion on failed test",
			current: StateImplementacion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{TestFailed: true},
			want:    StateDepuracion,
		},
		{
			name:    "depuracion to estancamiento after repeated failures",
			current: StateDepuracion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{ConsecutiveFailures: 3},
			want:    StateEstancamiento,
		},
		{
			name:    "depuracion to cambio estrategia on large rewrite",
			current: StateDepuracion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{CodeSubmitted: true, ChangeRatio: 0.8},
			want:    StateCambioEstrategia,
		},
		{
			name:    "depuracion stays on small change",
			current: StateDepuracion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{CodeSubmitted: true, ChangeRatio: 0.2},
			want:    StateDepuracion,
		},
		{
			name:    "cambio estrategia back to implementacion",
			current: StateCambioEstrategia,
			set:     signals.NewSignalSet(),
			metrics: Metrics{CodeSubmitted: true},
			want:    StateImplementacion,
		},
		{
			name:    "any state to validacion when all tests pass",
			current: StateDepuracion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{AllTestsPassed: true},
			want:    StateValidacion,
		},
		{
			name:    "validacion to reflexion on metacognition",
			current: StateValidacion,
			set:     setWith(signals.CategoryMetacognition),
			want:    StateReflexion,
		},
		{
			name:    "estancamiento to exploracion on help request",
			current: StateEstancamiento,
			set:     setWith(signals.CategoryConfusion),
			want:    StateExploracion,
		},
		{
			name:    "reflexion loops back on new task",
			current: StateReflexion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{NewTask: true},
			want:    StateExploracion,
		},
		{
			name:    "reflexion stays without new task",
			current: StateReflexion,
			set:     setWith(signals.CategoryQuestion),
			want:    StateReflexion,
		},
		{
			name:    "empty current state defaults to inicio",
			current: "",
			set:     signals.NewSignalSet(),
			want:    StateInicio,
		},
		{
			name:    "zero metrics are conservative",
			current: StateImplementacion,
			set:     signals.NewSignalSet(),
			metrics: Metrics{},
			want:    StateImplementacion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextState(tt.current, tt.set, tt.metrics); got != tt.want {
				t.Errorf("NextState(%s) = %s, want %s", tt.current, got, tt.want)
			}
		})
	}
}

func TestNextState_FirstMatchWins(t *testing.T) {
	// A debugging learner with both stagnation-level failures and a large
	// rewrite hits the stagnation row first.
	metrics := Metrics{ConsecutiveFailures: 4, CodeSubmitted: true, ChangeRatio: 0.9}
	got := NextState(StateDepuracion, signals.NewSignalSet(), metrics)
	if got != StateEstancamiento {
		t.Errorf("expected ESTANCAMIENTO from first matching row, got %s", got)
	}
}

func TestNextState_Total(t *testing.T) {
	// Every state maps somewhere for arbitrary inputs; no panic, no empty
	// result.
	states := []State{
		StateInicio, StateExploracion, StateImplementacion, StateDepuracion,
		StateCambioEstrategia, StateValidacion, StateEstancamiento, StateReflexion,
	}
	for _, state := range states {
		got := NextState(state, setWith(signals.CategoryDelegation), Metrics{CodeSubmitted: true, TestFailed: true})
		if got == "" {
			t.Errorf("NextState(%s) returned empty state", state)
		}
	}
}
