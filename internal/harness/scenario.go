package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/ir"
)

// Scenario defines a conformance test scenario.
// Scenarios execute an inline sequence program and assert on the resulting
// transcript and final aggregator state.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps is the inline program to execute.
	Steps []ScenarioStep `yaml:"steps"`

	// Assertions validate the transcript and final state.
	Assertions []Assertion `yaml:"assertions"`

	// RunToken is an optional fixed run token for deterministic output.
	// If empty, defaults to "test-run-default" for golden file comparison.
	RunToken string `yaml:"run_token,omitempty"`
}

// ScenarioStep mirrors ir.Step in YAML form.
type ScenarioStep struct {
	Op     string  `yaml:"op"`
	Values []int64 `yaml:"values,omitempty"`
	Label  string  `yaml:"label,omitempty"`
}

// Assertion validates the transcript or final state.
type Assertion struct {
	// Type selects the assertion: line_equals, line_count,
	// transcript_contains, sum_equals, sorted, final_equals.
	Type string `yaml:"type"`

	// Index is the output line index (line_equals).
	Index int `yaml:"index,omitempty"`

	// Value is the expected text (line_equals, transcript_contains)
	// or expected sum rendered by YAML as an integer (sum_equals).
	Value *yaml.Node `yaml:"value,omitempty"`

	// Count is the expected line count (line_count).
	Count int `yaml:"count,omitempty"`

	// Values is the expected final contents (final_equals).
	Values []int64 `yaml:"values,omitempty"`
}

// Assertion type constants.
const (
	AssertLineEquals         = "line_equals"
	AssertLineCount          = "line_count"
	AssertTranscriptContains = "transcript_contains"
	AssertSumEquals          = "sum_equals"
	AssertSorted             = "sorted"
	AssertFinalEquals        = "final_equals"
)

// Program converts the scenario's inline steps into a compiled program IR.
// The program is named after the scenario.
func (s *Scenario) Program() *ir.Program {
	prog := &ir.Program{
		Name:        s.Name,
		Description: s.Description,
	}
	for _, step := range s.Steps {
		prog.Steps = append(prog.Steps, ir.Step{
			Op:     ir.Op(step.Op),
			Values: step.Values,
			Label:  step.Label,
		})
	}
	return prog
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes with strict field validation
// (catches typos like "assertion:" vs "assertions:").
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !ir.ValidOps[ir.Op(step.Op)] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertLineEquals:
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for line_equals", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for line_equals", index)
		}
	case AssertLineCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for line_count", index)
		}
	case AssertTranscriptContains:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for transcript_contains", index)
		}
	case AssertSumEquals:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for sum_equals", index)
		}
		if _, err := a.sumValue(); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertSorted:
		// No parameters.
	case AssertFinalEquals:
		if a.Values == nil {
			return fmt.Errorf("assertions[%d]: values is required for final_equals", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// stringValue decodes the assertion value as a string.
func (a *Assertion) stringValue() (string, error) {
	if a.Value == nil {
		return "", fmt.Errorf("value is required")
	}
	var s string
	if err := a.Value.Decode(&s); err != nil {
		return "", fmt.Errorf("value must be a string: %w", err)
	}
	return s, nil
}

// sumValue decodes the assertion value as an int64.
func (a *Assertion) sumValue() (int64, error) {
	if a.Value == nil {
		return 0, fmt.Errorf("value is required")
	}
	var n int64
	if err := a.Value.Decode(&n); err != nil {
		return 0, fmt.Errorf("value must be an integer: %w", err)
	}
	return n, nil
}
