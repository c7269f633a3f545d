package harness

import (
	"fmt"
	"slices"
	"strings"
)

// EvaluateAssertions checks every assertion against the result and returns
// failure messages. All assertions are evaluated (not fail-fast) so a
// scenario reports every violated expectation at once.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if msg := evaluateAssertion(result, &a); msg != "" {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}
	return failures
}

// evaluateAssertion checks one assertion, returning "" on success.
func evaluateAssertion(result *Result, a *Assertion) string {
	switch a.Type {
	case AssertLineEquals:
		want, err := a.stringValue()
		if err != nil {
			return err.Error()
		}
		if a.Index >= len(result.Lines) {
			return fmt.Sprintf("line %d does not exist (transcript has %d lines)",
				a.Index, len(result.Lines))
		}
		if got := result.Lines[a.Index]; got != want {
			return fmt.Sprintf("line %d = %q, expected %q", a.Index, got, want)
		}

	case AssertLineCount:
		if got := len(result.Lines); got != a.Count {
			return fmt.Sprintf("transcript has %d lines, expected %d", got, a.Count)
		}

	case AssertTranscriptContains:
		want, err := a.stringValue()
		if err != nil {
			return err.Error()
		}
		for _, line := range result.Lines {
			if strings.Contains(line, want) {
				return ""
			}
		}
		return fmt.Sprintf("no output line contains %q", want)

	case AssertSumEquals:
		want, err := a.sumValue()
		if err != nil {
			return err.Error()
		}
		if result.FinalSum != want {
			return fmt.Sprintf("final sum = %d, expected %d", result.FinalSum, want)
		}

	case AssertSorted:
		if !slices.IsSorted(result.Final) {
			return fmt.Sprintf("final sequence %v is not in non-decreasing order", result.Final)
		}

	case AssertFinalEquals:
		if !slices.Equal(result.Final, a.Values) {
			return fmt.Sprintf("final sequence = %v, expected %v", result.Final, a.Values)
		}

	default:
		// Unreachable for scenarios that passed validation.
		return fmt.Sprintf("unknown assertion type %q", a.Type)
	}

	return ""
}
