// Package cognition tracks the inferred phase of a learner's
// problem-solving process.
//
// # Overview
//
// The tracker is a deterministic, side-effect-free state machine. Given the
// current state, the active signal set, and caller-supplied session metrics
// it computes the next cognitive state. Transition rules are evaluated in
// a fixed order; the first matching rule wins and the default is to stay in
// the current state, which also covers missing metrics conservatively.
//
// The tracker never computes metrics itself: attempt counts, time deltas
// and diff sizes come from the session-history provider.
package cognition
