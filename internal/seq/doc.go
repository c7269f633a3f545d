// Package seq implements the sequence aggregator: an ordered, mutable
// collection of signed integers supporting append, in-place ascending sort,
// single-line textual rendering, and sum reduction.
//
// A Sequence exclusively owns its elements. It is created empty, grows only
// via Append, is mutated in place by SortAscending, and never shrinks.
// All operations are total: there are no failure conditions.
//
// Sequence is not safe for concurrent use. The engine drives exactly one
// Sequence from a single goroutine, so no locking discipline is needed.
package seq
