package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/ir"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "test.yaml")

	content := `
name: demo_driver
description: "Canonical append/render/sort/render/sum run"
steps:
  - op: append
    values: [5, 2, 8, 1]
  - op: render
    label: "Original data"
  - op: sort
  - op: render
    label: "Sorted data"
  - op: sum
    label: "Sum"
assertions:
  - type: line_equals
    index: 1
    value: "Sorted data: 1 2 5 8 "
  - type: sum_equals
    value: 16
`
	require.NoError(t, os.WriteFile(scenarioPath, []byte(content), 0644))

	scenario, err := LoadScenario(scenarioPath)
	require.NoError(t, err)

	assert.Equal(t, "demo_driver", scenario.Name)
	assert.Equal(t, "Canonical append/render/sort/render/sum run", scenario.Description)
	require.Len(t, scenario.Steps, 5)
	assert.Equal(t, "append", scenario.Steps[0].Op)
	assert.Equal(t, []int64{5, 2, 8, 1}, scenario.Steps[0].Values)
	assert.Equal(t, "Original data", scenario.Steps[1].Label)
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, AssertLineEquals, scenario.Assertions[0].Type)
	assert.Equal(t, 1, scenario.Assertions[0].Index)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	// "assertion:" instead of "assertions:" must be caught, not ignored.
	content := `
name: typo
description: "Typo in field name"
steps:
  - op: sum
assertion:
  - type: sorted
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_MissingName(t *testing.T) {
	content := `
description: "No name"
steps:
  - op: sum
assertions:
  - type: sorted
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestParseScenario_EmptySteps(t *testing.T) {
	content := `
name: no_steps
description: "No steps"
steps: []
assertions:
  - type: sorted
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps list is required")
}

func TestParseScenario_UnknownOp(t *testing.T) {
	content := `
name: bad_op
description: "Unknown op name"
steps:
  - op: reverse
assertions:
  - type: sorted
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown op "reverse"`)
}

func TestParseScenario_UnknownAssertionType(t *testing.T) {
	content := `
name: bad_assertion
description: "Unknown assertion type"
steps:
  - op: sum
assertions:
  - type: trace_contains
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown assertion type "trace_contains"`)
}

func TestParseScenario_LineEqualsRequiresValue(t *testing.T) {
	content := `
name: missing_value
description: "line_equals without value"
steps:
  - op: render
assertions:
  - type: line_equals
    index: 0
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value is required for line_equals")
}

func TestParseScenario_SumEqualsRejectsNonInteger(t *testing.T) {
	content := `
name: bad_sum
description: "sum_equals with a string value"
steps:
  - op: sum
assertions:
  - type: sum_equals
    value: "sixteen"
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value must be an integer")
}

func TestScenarioProgram_Conversion(t *testing.T) {
	scenario := &Scenario{
		Name:        "conversion",
		Description: "Inline steps become program steps",
		Steps: []ScenarioStep{
			{Op: "append", Values: []int64{1, 2}},
			{Op: "sum", Label: "Total"},
		},
	}

	prog := scenario.Program()
	assert.Equal(t, "conversion", prog.Name)
	require.Len(t, prog.Steps, 2)
	assert.Equal(t, ir.OpAppend, prog.Steps[0].Op)
	assert.Equal(t, []int64{1, 2}, prog.Steps[0].Values)
	assert.Equal(t, ir.OpSum, prog.Steps[1].Op)
	assert.Equal(t, "Total", prog.Steps[1].Label)

	assert.Empty(t, prog.Validate())
}
