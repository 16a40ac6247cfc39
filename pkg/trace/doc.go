// Package trace assembles and organizes the immutable, append-only trace
// records that document every classified interaction.
//
// # Overview
//
// A TraceRecord captures the inferred cognitive and risk state of one
// interaction and links to the previous record in the same session through
// parent_trace_id, forming a per-session lineage. Records are never updated
// or deleted; corrections are modeled as new records with the old one as
// parent.
//
// The Arena is an in-process, per-session append-only log indexed by
// sequence number. Lineage is carried by plain identifiers, never by object
// pointers, so a stored record cannot be mutated through its parent.
//
// Persistence is a collaborator concern: the engine composes records and
// hands them over; the storage subpackage offers memory and SQLite backends
// for that collaborator, and retention offers scheduled pruning.
package trace
