package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Program string

	// Tokens allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens engine.TokenGenerator
}

// RunOutput is the JSON payload for a run command.
type RunOutput struct {
	Program    string   `json:"program"`
	ProgramID  string   `json:"program_id"`
	RunToken   string   `json:"run_token"`
	Lines      []string `json:"lines"`
	Final      []int64  `json:"final"`
	FinalSum   int64    `json:"final_sum"`
	OpsWritten int      `json:"ops_written"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <programs-dir>",
		Short: "Execute a compiled program",
		Long: `Execute a compiled sequence program against a fresh aggregator.

The engine compiles programs from the specified directory, journals every
step to an in-memory trace, and prints the transcript's output lines.

Example:
  tally run ./programs
  tally run ./programs --program demo --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Program, "program", "", "program name (required when the directory defines more than one)")

	return cmd
}

func runProgram(opts *RunOptions, programsDir string, cmd *cobra.Command) error {
	logger := newRunLogger(opts.Verbose)

	prog, err := selectProgram(programsDir, opts.Program)
	if err != nil {
		return err
	}

	j, err := journal.Open()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := j.Close(); closeErr != nil {
			logger.Error("error closing journal", "error", closeErr)
		}
	}()

	exec := engine.New(j, opts.Tokens)
	exec.SetLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	transcript, err := exec.Execute(ctx, prog)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("program %q failed", prog.Name), err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(RunOutput{
			Program:    transcript.ProgramName,
			ProgramID:  transcript.ProgramID,
			RunToken:   transcript.RunToken,
			Lines:      transcript.Lines,
			Final:      transcript.Final,
			FinalSum:   transcript.FinalSum,
			OpsWritten: len(transcript.Ops),
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), transcript.String())
	return nil
}

// selectProgram compiles the directory and picks the requested program.
// With no --program flag the directory must define exactly one.
func selectProgram(programsDir, name string) (*ir.Program, error) {
	loadResult, loadErrors := LoadPrograms(programsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return nil, WrapExitError(ExitCommandError, "failed to compile programs", loadErrors[0])
	}

	if name == "" {
		if len(loadResult.Programs) != 1 {
			return nil, NewExitError(ExitCommandError,
				fmt.Sprintf("directory defines %d programs, select one with --program", len(loadResult.Programs)))
		}
		return &loadResult.Programs[0], nil
	}

	for i := range loadResult.Programs {
		if loadResult.Programs[i].Name == name {
			return &loadResult.Programs[i], nil
		}
	}
	return nil, NewExitError(ExitCommandError, fmt.Sprintf("program %q not found", name))
}

// newRunLogger builds the stderr logger used by engine-facing commands.
func newRunLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
