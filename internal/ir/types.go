package ir

import "fmt"

// Op identifies a program step operation.
type Op string

// The four aggregator operations.
const (
	// OpAppend appends the step's values to the sequence in order.
	OpAppend Op = "append"
	// OpSort reorders the sequence into non-decreasing order in place.
	OpSort Op = "sort"
	// OpRender emits the sequence's single-line textual form.
	OpRender Op = "render"
	// OpSum emits the arithmetic sum of the sequence.
	OpSum Op = "sum"
)

// ValidOps defines the allowed step operations.
var ValidOps = map[Op]bool{
	OpAppend: true,
	OpSort:   true,
	OpRender: true,
	OpSum:    true,
}

// Step is a single compiled program step.
//
// Values is required (non-empty) for append and forbidden elsewhere.
// Label is optional for render and sum, where it prefixes the emitted
// line ("Label: 5 2 8 1 "), and forbidden elsewhere.
type Step struct {
	Op     Op      `json:"op"`
	Values []int64 `json:"values,omitempty"`
	Label  string  `json:"label,omitempty"`
}

// Program is a compiled sequence program: a driver routine over one
// aggregator instance.
type Program struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
}

// OpRecord is the journal record for one executed step.
//
// ID is content-addressed (see OpRecordID) and excludes RunToken, so
// re-executing the same program yields identical record IDs. Seq is the
// engine's logical clock value for the step. Output holds the emitted line
// for render and sum steps and is empty otherwise.
type OpRecord struct {
	ID            string         `json:"id"`
	RunToken      string         `json:"run_token"`
	ProgramID     string         `json:"program_id"`
	Op            Op             `json:"op"`
	Args          map[string]any `json:"args"`
	Seq           int64          `json:"seq"`
	Output        string         `json:"output,omitempty"`
	EngineVersion string         `json:"engine_version"`
	IRVersion     string         `json:"ir_version"`
}

// ValidationError represents a validation error with field path and message.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the program against schema rules.
// Returns all errors (not fail-fast) for better developer experience.
func (p *Program) Validate() []ValidationError {
	var errs []ValidationError

	if p.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "program name is required",
		})
	}

	if len(p.Steps) == 0 {
		errs = append(errs, ValidationError{
			Field:   "steps",
			Message: "at least one step is required",
		})
	}

	for i, step := range p.Steps {
		errs = append(errs, step.validate(fmt.Sprintf("steps[%d]", i))...)
	}

	return errs
}

// validate checks a single step under the given field prefix.
func (s *Step) validate(field string) []ValidationError {
	var errs []ValidationError

	if !ValidOps[s.Op] {
		errs = append(errs, ValidationError{
			Field:   field + ".op",
			Message: fmt.Sprintf("unknown op %q, must be one of: append, sort, render, sum", s.Op),
		})
		return errs
	}

	switch s.Op {
	case OpAppend:
		if len(s.Values) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".values",
				Message: "append requires at least one value",
			})
		}
		if s.Label != "" {
			errs = append(errs, ValidationError{
				Field:   field + ".label",
				Message: "label is only valid on render and sum steps",
			})
		}
	case OpSort:
		if len(s.Values) > 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".values",
				Message: "sort takes no values",
			})
		}
		if s.Label != "" {
			errs = append(errs, ValidationError{
				Field:   field + ".label",
				Message: "label is only valid on render and sum steps",
			})
		}
	case OpRender, OpSum:
		if len(s.Values) > 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".values",
				Message: fmt.Sprintf("%s takes no values", s.Op),
			})
		}
	}

	return errs
}

// CanonicalArgs returns the step's arguments as a map suitable for
// canonical JSON serialization (and therefore OpRecordID computation).
// Empty for sort; render and sum include the label only when set.
func (s *Step) CanonicalArgs() map[string]any {
	args := map[string]any{}
	if s.Op == OpAppend {
		values := make([]any, len(s.Values))
		for i, v := range s.Values {
			values[i] = v
		}
		args["values"] = values
	}
	if (s.Op == OpRender || s.Op == OpSum) && s.Label != "" {
		args["label"] = s.Label
	}
	return args
}

// canonicalMap returns the program as a map for canonical serialization.
// Description is excluded from identity: it is documentation, not behavior.
func (p *Program) canonicalMap() map[string]any {
	steps := make([]any, len(p.Steps))
	for i, step := range p.Steps {
		m := map[string]any{"op": string(step.Op)}
		for k, v := range step.CanonicalArgs() {
			m[k] = v
		}
		steps[i] = m
	}
	return map[string]any{
		"name":  p.Name,
		"steps": steps,
	}
}
