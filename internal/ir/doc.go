// Package ir provides the intermediate representation for sequence programs.
//
// A Program is a named, ordered list of steps executed against a single
// sequence aggregator: append, sort, render, sum. Programs are compiled from
// CUE source (internal/compiler) and executed by internal/engine.
//
// This package contains types, validation, canonical serialization, and
// identity computation only. All other internal packages import ir; ir
// imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - sequence elements are int64
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - Canonical JSON (RFC 8785) is the ONLY serialization used for hashing
package ir
