package engine

import (
	"strings"

	"github.com/roach88/tally/internal/ir"
)

// Transcript is the complete observable outcome of one program execution:
// the lines emitted by render and sum steps, every journaled op record, and
// the final sequence contents.
type Transcript struct {
	ProgramName string        `json:"program_name"`
	ProgramID   string        `json:"program_id"`
	RunToken    string        `json:"run_token"`
	Lines       []string      `json:"lines"`
	Ops         []ir.OpRecord `json:"ops"`
	Final       []int64       `json:"final"`
	FinalSum    int64         `json:"final_sum"`
}

// String renders the transcript's output lines, one per line.
// An execution that emitted nothing renders as the empty string.
func (t *Transcript) String() string {
	if len(t.Lines) == 0 {
		return ""
	}
	return strings.Join(t.Lines, "\n") + "\n"
}

// addLine records an emitted output line.
func (t *Transcript) addLine(line string) {
	t.Lines = append(t.Lines, line)
}

// addOp records a journaled op.
func (t *Transcript) addOp(rec ir.OpRecord) {
	t.Ops = append(t.Ops, rec)
}
