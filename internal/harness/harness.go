package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/journal"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation, with a
// fixed run token for reproducible output.
//
// Execution flow:
//  1. Build the program IR from the scenario's inline steps
//  2. Open a fresh in-memory journal
//  3. Execute the program
//  4. Evaluate assertions against the transcript
func Run(scenario *Scenario) (*Result, error) {
	j, err := journal.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	exec := engine.New(j, engine.NewFixedGenerator(scenario.RunToken))
	exec.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil))) // Suppress logs in tests

	transcript, err := exec.Execute(context.Background(), scenario.Program())
	if err != nil {
		return nil, fmt.Errorf("failed to execute scenario program: %w", err)
	}

	result := &Result{
		Pass:     true,
		Lines:    transcript.Lines,
		Ops:      transcript.Ops,
		Final:    transcript.Final,
		FinalSum: transcript.FinalSum,
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}
