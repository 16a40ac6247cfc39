package cognition

import (
	"time"
)

// State is a phase of the learner's problem-solving process.
type State string

const (
	// StateInicio is the initial state of a new session.
	StateInicio State = "INICIO"

	// StateExploracion: the learner is exploring the problem space.
	StateExploracion State = "EXPLORACION"

	// StateImplementacion: the learner is writing code.
	StateImplementacion State = "IMPLEMENTACION"

	// StateDepuracion: the learner is debugging failing code.
	StateDepuracion State = "DEPURACION"

	// StateCambioEstrategia: the learner discarded their approach and is
	// restructuring.
	StateCambioEstrategia State = "CAMBIO_ESTRATEGIA"

	// StateValidacion: the learner's tests pass and they are verifying.
	StateValidacion State = "VALIDACION"

	// StateEstancamiento: the learner is stuck after repeated failures.
	StateEstancamiento State = "ESTANCAMIENTO"

	// StateReflexion: the learner is reflecting on the solved task.
	StateReflexion State = "REFLEXION"
)

// Metrics carries the session measurements a transition may depend on.
// All fields are supplied by the caller; the zero value is conservative
// (no transition fires on missing data).
type Metrics struct {
	// AttemptNumber is the 1-based submission attempt count.
	AttemptNumber int

	// CodeSubmitted reports whether this interaction includes a code
	// submission.
	CodeSubmitted bool

	// TestFailed reports whether the most recent test run failed.
	TestFailed bool

	// AllTestsPassed reports whether the most recent test run passed fully.
	AllTestsPassed bool

	// ConsecutiveFailures is the number of trailing failed test runs
	// within the stagnation window.
	ConsecutiveFailures int

	// ChangeRatio is the structural difference between this submission and
	// the previous one, in [0, 1].
	ChangeRatio float64

	// TimeSinceProgress is how long the learner has gone without a passing
	// test or accepted submission.
	TimeSinceProgress time.Duration

	// NewTask reports that the learner moved on to a new exercise.
	NewTask bool
}
