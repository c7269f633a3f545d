package compiler

import (
	"fmt"

	"github.com/roach88/tally/internal/ir"
)

// ValidatePrograms checks a set of compiled programs against IR schema
// rules plus cross-program consistency (unique names).
// Returns all errors (not fail-fast).
func ValidatePrograms(programs []ir.Program) []ir.ValidationError {
	var errs []ir.ValidationError

	seen := make(map[string]bool, len(programs))
	for i := range programs {
		p := &programs[i]

		if p.Name != "" && seen[p.Name] {
			errs = append(errs, ir.ValidationError{
				Field:   fmt.Sprintf("program.%s", p.Name),
				Message: fmt.Sprintf("duplicate program name %q", p.Name),
			})
		}
		seen[p.Name] = true

		for _, e := range p.Validate() {
			errs = append(errs, ir.ValidationError{
				Field:   fmt.Sprintf("program.%s.%s", p.Name, e.Field),
				Message: e.Message,
			})
		}
	}

	return errs
}
