package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Program string // optional - specific program only
}

// ReplayProgramResult holds the replay verdict for a single program.
type ReplayProgramResult struct {
	Program       string   `json:"program"`
	Ops           int      `json:"ops"`
	Deterministic bool     `json:"deterministic"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Programs         []ReplayProgramResult `json:"programs"`
	TotalPrograms    int                   `json:"total_programs"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <programs-dir>",
		Short: "Re-execute programs and verify determinism",
		Long: `Execute each program twice in clean-room journals and verify the
runs are identical record-for-record.

Op record identities exclude the run token, so a deterministic engine must
produce the same record IDs, seqs, outputs, and final state on both runs.

Exit codes:
  0 - All programs replay deterministically
  1 - Determinism verification failed (divergence detected)
  2 - Command error (invalid paths, compile failure, etc.)

Examples:
  tally replay ./programs
  tally replay ./programs --program demo
  tally replay ./programs --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Program, "program", "", "verify specific program only")

	return cmd
}

func runReplay(opts *ReplayOptions, programsDir string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loadResult, loadErrors := LoadPrograms(programsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return WrapExitError(ExitCommandError, "failed to compile programs", loadErrors[0])
	}

	programs := loadResult.Programs
	if opts.Program != "" {
		found := false
		for i := range programs {
			if programs[i].Name == opts.Program {
				programs = programs[i : i+1]
				found = true
				break
			}
		}
		if !found {
			return NewExitError(ExitCommandError, fmt.Sprintf("program %q not found", opts.Program))
		}
	}

	result := ReplayResult{
		Programs:         make([]ReplayProgramResult, 0, len(programs)),
		TotalPrograms:    len(programs),
		AllDeterministic: true,
	}

	for i := range programs {
		prog := &programs[i]
		verdict, err := engine.Verify(ctx, prog)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay program %s", prog.Name), err)
		}

		result.Programs = append(result.Programs, ReplayProgramResult{
			Program:       prog.Name,
			Ops:           verdict.Ops,
			Deterministic: verdict.Deterministic,
			Mismatches:    verdict.Mismatches,
		})
		if !verdict.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}

	return outputReplayText(cmd, result, opts.Verbose)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d program(s)\n", result.TotalPrograms)
	fmt.Fprintln(w)

	for _, prog := range result.Programs {
		status := "✓"
		if !prog.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Program: %s\n", status, prog.Program)
		fmt.Fprintf(w, "  Ops: %d\n", prog.Ops)

		if !prog.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
			if verbose {
				for _, m := range prog.Mismatches {
					fmt.Fprintf(w, "  %s\n", m)
				}
			}
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All programs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
