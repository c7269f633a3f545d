// Package journal provides the SQLite-backed op journal for program runs.
//
// The journal is an append-only log of executed steps (ir.OpRecord). It
// backs the trace and replay commands and the determinism checks in tests.
// Persistence is out of scope for this system, so the journal always opens
// an in-memory database: it lives exactly as long as the process.
//
// # Critical Patterns
//
// Logical identity and time:
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - Record IDs are content-addressed (internal/ir/hash.go) over RFC 8785
//     canonical JSON, so identical executions produce identical IDs
//
// Deterministic query results:
//   - All queries include ORDER BY seq ASC, id ASC
//   - Ensures identical listings across re-executions
//
// Idempotent writes:
//   - INSERT ... ON CONFLICT DO NOTHING
//   - Re-writing an identical record is a silent no-op
package journal
