package engine

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/journal"
)

// VerifyResult reports the outcome of a replay determinism check.
type VerifyResult struct {
	Deterministic bool     `json:"deterministic"`
	Ops           int      `json:"ops"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// Verify executes prog twice on clean-room journals and compares the runs
// record-for-record. Because op record IDs exclude the run token, a
// deterministic engine must produce identical IDs, seqs, ops, outputs, and
// final contents on both runs; any divergence is reported as a mismatch.
//
// It also checks journal round-trip fidelity: the records read back from
// each journal must equal the records the executor produced.
func Verify(ctx context.Context, prog *ir.Program) (*VerifyResult, error) {
	first, err := executeCleanRoom(ctx, prog, "replay-run-a")
	if err != nil {
		return nil, fmt.Errorf("verify: first execution: %w", err)
	}
	second, err := executeCleanRoom(ctx, prog, "replay-run-b")
	if err != nil {
		return nil, fmt.Errorf("verify: second execution: %w", err)
	}

	result := &VerifyResult{Deterministic: true, Ops: len(first.Ops)}

	if len(first.Ops) != len(second.Ops) {
		result.fail(fmt.Sprintf("op count diverged: %d vs %d", len(first.Ops), len(second.Ops)))
		return result, nil
	}

	for i := range first.Ops {
		a, b := first.Ops[i], second.Ops[i]
		if a.ID != b.ID {
			result.fail(fmt.Sprintf("op %d: id diverged: %s vs %s", i, a.ID, b.ID))
		}
		if a.Seq != b.Seq {
			result.fail(fmt.Sprintf("op %d: seq diverged: %d vs %d", i, a.Seq, b.Seq))
		}
		if a.Op != b.Op {
			result.fail(fmt.Sprintf("op %d: op diverged: %s vs %s", i, a.Op, b.Op))
		}
		if a.Output != b.Output {
			result.fail(fmt.Sprintf("op %d: output diverged: %q vs %q", i, a.Output, b.Output))
		}
	}

	if len(first.Lines) != len(second.Lines) {
		result.fail(fmt.Sprintf("line count diverged: %d vs %d", len(first.Lines), len(second.Lines)))
	} else {
		for i := range first.Lines {
			if first.Lines[i] != second.Lines[i] {
				result.fail(fmt.Sprintf("line %d diverged: %q vs %q", i, first.Lines[i], second.Lines[i]))
			}
		}
	}

	if first.FinalSum != second.FinalSum {
		result.fail(fmt.Sprintf("final sum diverged: %d vs %d", first.FinalSum, second.FinalSum))
	}

	return result, nil
}

// executeCleanRoom runs prog on a fresh journal with a fixed token and
// checks that the journal reads back exactly what the executor wrote.
func executeCleanRoom(ctx context.Context, prog *ir.Program, token string) (*Transcript, error) {
	j, err := journal.Open()
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	transcript, err := New(j, NewFixedGenerator(token)).Execute(ctx, prog)
	if err != nil {
		return nil, err
	}

	stored, err := j.ListOps(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("read back ops: %w", err)
	}
	if len(stored) != len(transcript.Ops) {
		return nil, fmt.Errorf("journal round-trip lost records: wrote %d, read %d",
			len(transcript.Ops), len(stored))
	}
	for i := range stored {
		if stored[i].ID != transcript.Ops[i].ID {
			return nil, fmt.Errorf("journal round-trip record %d: id %s != %s",
				i, stored[i].ID, transcript.Ops[i].ID)
		}
	}

	return transcript, nil
}

func (r *VerifyResult) fail(msg string) {
	r.Deterministic = false
	r.Mismatches = append(r.Mismatches, msg)
}
