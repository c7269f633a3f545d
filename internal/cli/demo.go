package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/journal"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in driver program",
		Long: `Run the built-in driver program: append 5, 2, 8, 1, print the
sequence, sort it, print again, then print the sum.

Output:
  Original data: 5 2 8 1
  Sorted data: 1 2 5 8
  Sum: 16`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, cmd)
		},
	}

	return cmd
}

func runDemo(opts *RootOptions, cmd *cobra.Command) error {
	j, err := journal.Open()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	exec := engine.New(j, nil)
	exec.SetLogger(newRunLogger(opts.Verbose))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	transcript, err := exec.Execute(ctx, engine.DemoProgram())
	if err != nil {
		return WrapExitError(ExitFailure, "demo program failed", err)
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
