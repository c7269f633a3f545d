package harness

import "github.com/roach88/tally/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: the program executed and every
	// assertion held.
	Pass bool `json:"pass"`

	// Lines are the transcript's emitted output lines in order.
	Lines []string `json:"lines"`

	// Ops are the journaled op records in execution order.
	Ops []ir.OpRecord `json:"ops"`

	// Final is the final sequence contents.
	Final []int64 `json:"final"`

	// FinalSum is the final sequence sum.
	FinalSum int64 `json:"final_sum"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError records an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
