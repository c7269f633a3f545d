// Package compiler parses CUE program specs into the sequence program IR.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tally/internal/ir"
)

// CompileProgram parses a CUE value into an ir.Program.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the program struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`program: demo: { steps: [...] }`)
//	prog, err := CompileProgram(v.LookupPath(cue.ParsePath("program.demo")))
func CompileProgram(v cue.Value) (*ir.Program, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	prog := &ir.Program{}

	// Program name comes from the struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		prog.Name = labels[len(labels)-1].String()
	}

	// Parse description (optional)
	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		prog.Description = desc
	}

	// Parse steps (required, at least one)
	stepsVal := v.LookupPath(cue.ParsePath("steps"))
	if !stepsVal.Exists() {
		return nil, &CompileError{
			Field:   "steps",
			Message: "steps list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := stepsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for i := 0; iter.Next(); i++ {
		step, err := parseStep(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		prog.Steps = append(prog.Steps, step)
	}

	if len(prog.Steps) == 0 {
		return nil, &CompileError{
			Field:   "steps",
			Message: "at least one step is required",
			Pos:     stepsVal.Pos(),
		}
	}

	return prog, nil
}

// parseStep extracts a single step from a CUE list element.
func parseStep(v cue.Value, index int) (ir.Step, error) {
	var step ir.Step

	opVal := v.LookupPath(cue.ParsePath("op"))
	if !opVal.Exists() {
		return step, &CompileError{
			Field:   fmt.Sprintf("steps[%d].op", index),
			Message: "op is required",
			Pos:     v.Pos(),
		}
	}
	opStr, err := opVal.String()
	if err != nil {
		return step, formatCUEError(err)
	}
	step.Op = ir.Op(opStr)
	if !ir.ValidOps[step.Op] {
		return step, &CompileError{
			Field:   fmt.Sprintf("steps[%d].op", index),
			Message: fmt.Sprintf("unknown op %q, must be one of: append, sort, render, sum", opStr),
			Pos:     opVal.Pos(),
		}
	}

	valuesVal := v.LookupPath(cue.ParsePath("values"))
	if valuesVal.Exists() {
		step.Values, err = parseValues(valuesVal, index)
		if err != nil {
			return step, err
		}
	}

	labelVal := v.LookupPath(cue.ParsePath("label"))
	if labelVal.Exists() {
		label, err := labelVal.String()
		if err != nil {
			return step, formatCUEError(err)
		}
		step.Label = label
	}

	return step, nil
}

// parseValues extracts the int64 value list of an append step.
// Floats are rejected - sequence elements are signed integers.
func parseValues(v cue.Value, stepIndex int) ([]int64, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var values []int64
	for i := 0; iter.Next(); i++ {
		elem := iter.Value()
		if k := elem.IncompleteKind(); k == cue.FloatKind || k == cue.NumberKind {
			return nil, &CompileError{
				Field:   fmt.Sprintf("steps[%d].values[%d]", stepIndex, i),
				Message: "float values are forbidden - sequence elements are integers",
				Pos:     elem.Pos(),
			}
		}
		n, err := elem.Int64()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("steps[%d].values[%d]", stepIndex, i),
				Message: fmt.Sprintf("expected int64 value: %v", err),
				Pos:     elem.Pos(),
			}
		}
		values = append(values, n)
	}

	return values, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
