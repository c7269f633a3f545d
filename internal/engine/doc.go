// Package engine executes compiled sequence programs.
//
// ARCHITECTURE:
//
// Single-threaded, synchronous execution. The executor applies a program's
// steps in declaration order to one freshly created sequence aggregator,
// stamping every step with a monotonic logical clock and journaling it as
// an op record. The transcript (emitted lines plus op records plus the
// final sequence contents) is the complete observable outcome of a run.
//
// CRITICAL PATTERNS:
//
// Logical clock: all op records carry a strictly increasing seq from
// Clock.Next(). Wall-clock timestamps are never used for ordering.
//
// Deterministic execution: steps run in declaration order with no
// concurrency and no randomness. The only per-run variation is the run
// token, which is deliberately excluded from op record identity - so
// executing the same program twice yields record-for-record identical
// IDs, seqs, and outputs. Verify builds on exactly this property.
package engine
