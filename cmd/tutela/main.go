// Tutela is a cognitive interaction classification and risk governance
// engine for AI-assisted learning environments.
//
// It classifies learner utterances into signal categories, tracks the
// learner's cognitive state, assesses five risk dimensions against the
// session history, and folds everything into a governance verdict with a
// routing decision and an immutable trace record.
//
// Usage:
//
//	# Replay a session transcript through the engine
//	tutela evaluate --policy policy.yaml transcript.yaml
//
//	# Validate a policy file
//	tutela policy validate policy.yaml
//
//	# Show version information
//	tutela version
package main

func main() {
	Execute()
}
