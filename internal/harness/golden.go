package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tally/internal/ir"
)

// TraceSnapshot captures the observable outcome of a scenario execution
// for golden-file comparison. Content hashes (record and program IDs) are
// excluded so golden files stay stable across hash-domain changes; identity
// determinism is covered by the replay verifier instead.
type TraceSnapshot struct {
	ScenarioName string
	RunToken     string
	Lines        []string
	Ops          []ir.OpRecord
	Final        []int64
	FinalSum     int64
}

// toCanonicalMap converts the snapshot to a map[string]any so it can be
// serialized with ir.MarshalCanonical, which only handles IR types and
// primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	lines := make([]any, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = line
	}

	opsList := make([]any, len(s.Ops))
	for i, rec := range s.Ops {
		opMap := map[string]any{
			"op":  rec.Op,
			"seq": rec.Seq,
		}
		if len(rec.Args) > 0 {
			opMap["args"] = rec.Args
		}
		if rec.Output != "" {
			opMap["output"] = rec.Output
		}
		opsList[i] = opMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"lines":         lines,
		"ops":           opsList,
		"final":         s.Final,
		"final_sum":     s.FinalSum,
	}
	if s.RunToken != "" {
		result["run_token"] = s.RunToken
	}
	return result
}

// RunWithGolden executes a scenario and compares its trace snapshot against
// a golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails; a snapshot mismatch fails
// the test via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		RunToken:     scenario.RunToken,
		Lines:        result.Lines,
		Ops:          result.Ops,
		Final:        result.Final,
		FinalSum:     result.FinalSum,
	}

	traceJSON, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}

// AssertGolden compares an already-obtained result against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Lines:        result.Lines,
		Ops:          result.Ops,
		Final:        result.Final,
		FinalSum:     result.FinalSum,
	}

	traceJSON, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
