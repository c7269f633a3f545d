package journal

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/ir"
)

// WriteOp inserts an op record.
//
// ON CONFLICT DO NOTHING handles both:
//  1. Duplicate record ID (same op written twice)
//  2. Duplicate (run_token, seq) pair (clock reuse within a run)
//
// Both are silently ignored for idempotency: re-running a program over the
// same journal with a fixed token re-produces identical rows.
//
// Args are serialized to RFC 8785 canonical JSON so stored rows compare
// byte-for-byte across re-executions.
func (j *Journal) WriteOp(ctx context.Context, rec ir.OpRecord) error {
	argsJSON, err := marshalArgs(rec.Args)
	if err != nil {
		return fmt.Errorf("write op: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO ops
		(id, run_token, program_id, op, args, seq, output, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rec.ID,
		rec.RunToken,
		rec.ProgramID,
		string(rec.Op),
		argsJSON,
		rec.Seq,
		rec.Output,
		rec.EngineVersion,
		rec.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write op: %w", err)
	}

	return nil
}
