package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/journal"
	"github.com/roach88/tally/internal/seq"
)

// Executor runs compiled programs against fresh sequence aggregators,
// journaling every step.
type Executor struct {
	journal *journal.Journal
	tokens  TokenGenerator
	logger  *slog.Logger
}

// New creates an executor writing to the given journal.
// If tokens is nil, run tokens default to UUIDv7.
func New(j *journal.Journal, tokens TokenGenerator) *Executor {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	return &Executor{
		journal: j,
		tokens:  tokens,
		logger:  slog.Default(),
	}
}

// SetLogger overrides the executor's logger.
// The harness uses this to silence logs during tests.
func (e *Executor) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Execute runs the program against a freshly created sequence.
//
// Steps are applied in declaration order; each is stamped with the next
// logical clock value and written to the journal before the following step
// runs. Render and sum steps emit output lines into the transcript.
//
// Context is checked between steps. No step blocks on anything besides the
// journal write.
func (e *Executor) Execute(ctx context.Context, prog *ir.Program) (*Transcript, error) {
	if errs := prog.Validate(); len(errs) > 0 {
		return nil, &RuntimeError{
			Code:    ErrCodeInvalidProgram,
			Message: errs[0].Error(),
			Program: prog.Name,
		}
	}

	programID, err := prog.ID()
	if err != nil {
		return nil, &RuntimeError{
			Code:    ErrCodeInvalidProgram,
			Message: "cannot compute program identity",
			Program: prog.Name,
			Err:     err,
		}
	}

	runToken := e.tokens.Generate()
	clock := NewClock()
	s := seq.New()

	transcript := &Transcript{
		ProgramName: prog.Name,
		ProgramID:   programID,
		RunToken:    runToken,
	}

	e.logger.Debug("execution starting",
		"program", prog.Name,
		"program_id", programID,
		"run_token", runToken,
		"steps", len(prog.Steps),
	)

	for i, step := range prog.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("step %d: context cancelled: %w", i, err)
		}

		seqNum := clock.Next()
		output := ""

		switch step.Op {
		case ir.OpAppend:
			s.AppendAll(step.Values...)
		case ir.OpSort:
			s.SortAscending()
		case ir.OpRender:
			output = renderLine(step.Label, s)
			transcript.addLine(output)
		case ir.OpSum:
			output = sumLine(step.Label, s)
			transcript.addLine(output)
		default:
			// Unreachable after Validate, kept as a backstop for new ops.
			return nil, &RuntimeError{
				Code:    ErrCodeUnknownOp,
				Message: fmt.Sprintf("no executor for op %q", step.Op),
				Program: prog.Name,
				Seq:     seqNum,
			}
		}

		args := step.CanonicalArgs()
		id, err := ir.OpRecordID(programID, step.Op, args, seqNum)
		if err != nil {
			return nil, fmt.Errorf("step %d: compute op record ID: %w", i, err)
		}

		rec := ir.OpRecord{
			ID:            id,
			RunToken:      runToken,
			ProgramID:     programID,
			Op:            step.Op,
			Args:          args,
			Seq:           seqNum,
			Output:        output,
			EngineVersion: ir.EngineVersion,
			IRVersion:     ir.IRVersion,
		}

		if err := e.journal.WriteOp(ctx, rec); err != nil {
			return nil, &RuntimeError{
				Code:    ErrCodeJournalWrite,
				Message: "failed to journal op",
				Program: prog.Name,
				Seq:     seqNum,
				Err:     err,
			}
		}
		transcript.addOp(rec)

		e.logger.Debug("step executed",
			"program", prog.Name,
			"seq", seqNum,
			"op", step.Op,
			"len", s.Len(),
		)
	}

	transcript.Final = s.Values()
	transcript.FinalSum = s.Sum()

	e.logger.Debug("execution finished",
		"program", prog.Name,
		"run_token", runToken,
		"ops", len(transcript.Ops),
		"lines", len(transcript.Lines),
	)

	return transcript, nil
}

// renderLine builds the output line for a render step.
// The sequence's own rendering keeps its trailing space; the terminating
// newline belongs to the transcript, not the line.
func renderLine(label string, s *seq.Sequence) string {
	rendered := strings.TrimSuffix(s.Render(), "\n")
	if label == "" {
		return rendered
	}
	return label + ": " + rendered
}

// sumLine builds the output line for a sum step.
func sumLine(label string, s *seq.Sequence) string {
	total := strconv.FormatInt(s.Sum(), 10)
	if label == "" {
		return total
	}
	return label + ": " + total
}
