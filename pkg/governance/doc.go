// Package governance folds a classification and its risk findings into a
// compliance verdict and a routing action.
//
// # Overview
//
// Evaluate is a pure function: no I/O, no persistence, no clock. Decision
// rules run in a strict order and the first match wins, so a superset of
// findings can never produce a less restrictive routing than its subset.
// Callers decide how to react to BLOCK and ESCALATE.
//
// Active restrictions are always drawn from the options the policy itself
// declares; the semaphore never invents restrictions.
package governance
