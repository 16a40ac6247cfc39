// Package fallback provides the bounded LLM classification fallback.
//
// When heuristic classification confidence falls below a threshold, the
// Gate issues exactly one outbound call to an external text-generation
// service and merges its structured output into the heuristic result. The
// call is bounded three ways:
//
//   - a per-call timeout, so the pipeline never blocks indefinitely
//   - an atomic admission limiter capping system-wide in-flight calls
//   - strict response validation: unknown categories or an out-of-range
//     confidence are treated as a failed call
//
// Every failure mode degrades to the heuristic result. The gate never
// surfaces a transport or parse error to the pipeline.
//
// # Usage
//
//	gate := fallback.NewGate(client, fallback.DefaultGateConfig())
//	result := gate.MaybeClassify(ctx, text, heuristic, confidence)
//	if result != nil {
//	    // merge result.Categories into the signal set
//	}
package fallback
