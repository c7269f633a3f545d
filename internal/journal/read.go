package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/tally/internal/ir"
)

// Filter narrows journal listings.
// Zero value means no filtering. Limit 0 means unlimited.
type Filter struct {
	Op    ir.Op // restrict to one op kind
	Limit int   // cap the number of rows
}

// ListOps returns all op records for a run token in execution order.
// Ordering is ORDER BY seq ASC, id ASC for deterministic results.
func (j *Journal) ListOps(ctx context.Context, runToken string) ([]ir.OpRecord, error) {
	return j.ListOpsFiltered(ctx, runToken, Filter{})
}

// ListOpsFiltered returns op records for a run token matching the filter,
// in execution order.
func (j *Journal) ListOpsFiltered(ctx context.Context, runToken string, f Filter) ([]ir.OpRecord, error) {
	query := `
		SELECT id, run_token, program_id, op, args, seq, output, engine_version, ir_version
		FROM ops
		WHERE run_token = ?
	`
	args := []any{runToken}

	if f.Op != "" {
		query += " AND op = ?"
		args = append(args, string(f.Op))
	}

	query += " ORDER BY seq ASC, id ASC"

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ops: %w", err)
	}
	defer rows.Close()

	return scanOps(rows)
}

// CountOps returns the number of op records for a run token.
func (j *Journal) CountOps(ctx context.Context, runToken string) (int, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ops WHERE run_token = ?`, runToken).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ops: %w", err)
	}
	return count, nil
}

// Stats summarizes journal contents.
type Stats struct {
	TotalOps int            `json:"total_ops"`
	Runs     int            `json:"runs"`
	ByOp     map[string]int `json:"by_op"`
}

// ReadStats returns summary statistics across all runs in the journal.
func (j *Journal) ReadStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByOp: make(map[string]int)}

	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT run_token) FROM ops`).
		Scan(&stats.TotalOps, &stats.Runs)
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT op, COUNT(*) FROM ops GROUP BY op ORDER BY op ASC`)
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var op string
		var count int
		if err := rows.Scan(&op, &count); err != nil {
			return nil, fmt.Errorf("read stats: scan: %w", err)
		}
		stats.ByOp[op] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read stats: rows: %w", err)
	}

	return stats, nil
}

// scanOps reads op records from a result set.
func scanOps(rows *sql.Rows) ([]ir.OpRecord, error) {
	var records []ir.OpRecord
	for rows.Next() {
		var rec ir.OpRecord
		var op, argsJSON string
		if err := rows.Scan(
			&rec.ID,
			&rec.RunToken,
			&rec.ProgramID,
			&op,
			&argsJSON,
			&rec.Seq,
			&rec.Output,
			&rec.EngineVersion,
			&rec.IRVersion,
		); err != nil {
			return nil, fmt.Errorf("scan op: %w", err)
		}

		rec.Op = ir.Op(op)
		args, err := unmarshalArgs(argsJSON)
		if err != nil {
			return nil, fmt.Errorf("op %s: %w", rec.ID, err)
		}
		rec.Args = args

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ops: %w", err)
	}
	return records, nil
}
