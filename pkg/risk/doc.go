// Package risk evaluates learner interactions along five independent
// dimensions: cognitive, ethical, epistemic, technical, and governance.
//
// # Overview
//
// Each dimension is an independent evaluator over the interaction, the
// session history, and the active policy. Dimensions run concurrently and
// their findings are merged by concatenation; there is no cross-dimension
// deduplication, so one interaction can surface findings in several
// dimensions at once.
//
// A dimension that cannot evaluate (missing metrics, empty history)
// contributes no finding and never aborts the others: partial results are
// valid, and the engine fails toward permissiveness on data gaps.
//
// # Algorithms
//
// The per-dimension costs are deliberate:
//
//   - cognitive: a scan of the small curated phrase set plus an O(N)
//     rolling mean
//   - ethical: O(1) arithmetic over the previous event timestamp
//   - epistemic: O(n log n) binary-search correlation of response and
//     critique timestamps, instead of the naive O(n²) pairwise scan
//   - technical: regex scan plus O(1) amortized fingerprint lookups
//   - governance: O(n) mean/variance over message intervals
package risk
