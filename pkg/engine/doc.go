// Package engine wires the classification and governance pipeline behind a
// single entry point.
//
// ClassifyAndGovern runs one learner interaction through the full chain:
//
//	signal classification -> optional fallback refinement ->
//	cognitive state transition -> risk assessment ->
//	governance verdict -> trace composition
//
// The engine is a library component: it never persists anything and owns
// no transport. Session history, policy, and storage are collaborator
// concerns supplied by the caller.
//
// Policy misconfiguration is the only aborting error. Every other gap
// (empty text, missing metrics, fallback failure) degrades locally and the
// pipeline completes.
package engine
