// Package harness provides conformance testing for sequence programs.
//
// The harness executes self-contained scenarios - inline program steps plus
// assertions over the resulting transcript - and supports golden snapshot
// comparison of canonical transcript JSON.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	run_token: fixed-token-for-determinism
//	steps:
//	  - op: append
//	    values: [5, 2, 8, 1]
//	  - op: render
//	    label: Original data
//	  - op: sort
//	  - op: sum
//	    label: Sum
//	assertions:
//	  - type: line_equals
//	    index: 0
//	    value: "Original data: 5 2 8 1 "
//	  - type: sum_equals
//	    value: 16
//	  - type: sorted
//
// # Assertion Types
//
//   - line_equals: Verifies the output line at index equals value exactly
//   - line_count: Verifies the number of emitted output lines
//   - transcript_contains: Verifies some output line contains value
//   - sum_equals: Verifies the final sequence sum
//   - sorted: Verifies the final sequence is in non-decreasing order
//   - final_equals: Verifies the final sequence contents exactly
//
// # Deterministic Testing
//
// Every scenario executes on a fresh in-memory journal with a fixed run
// token (scenario.run_token, defaulting to "test-run-default") and the
// engine's logical clock. This ensures identical transcripts across runs
// for golden file comparison.
package harness
