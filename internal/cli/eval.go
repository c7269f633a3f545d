package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/journal"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Sorted bool // skip the pre-sort render line
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <int>...",
		Short: "Aggregate integers given on the command line",
		Long: `Run the driver routine over integers given as arguments: render
the original order, sort ascending, render again, and print the sum.

Examples:
  tally eval 5 2 8 1
  tally eval --sorted-only 5 2 8 1
  tally eval --format json 3 1 2`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Sorted, "sorted-only", false, "omit the pre-sort render line")

	return cmd
}

func runEval(opts *EvalOptions, args []string, cmd *cobra.Command) error {
	values, err := parseEvalArgs(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}

	prog := evalProgram(values, opts.Sorted)

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

	transcript, err := exec.Execute(ctx, prog)
	if err != nil {
		return WrapExitError(ExitFailure, "eval failed", err)
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

// parseEvalArgs parses command-line integers. Values must fit in int64.
func parseEvalArgs(args []string) ([]int64, error) {
	values := make([]int64, 0, len(args))
	for i, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not an integer", i+1, arg)
		}
		values = append(values, n)
	}
	return values, nil
}

// evalProgram builds the driver routine over the given values.
func evalProgram(values []int64, sortedOnly bool) *ir.Program {
	prog := &ir.Program{
		Name:        "eval",
		Description: "one-off aggregation of command-line values",
		Steps: []ir.Step{
			{Op: ir.OpAppend, Values: values},
		},
	}
	if !sortedOnly {
		prog.Steps = append(prog.Steps, ir.Step{Op: ir.OpRender, Label: "Original data"})
	}
	prog.Steps = append(prog.Steps,
		ir.Step{Op: ir.OpSort},
		ir.Step{Op: ir.OpRender, Label: "Sorted data"},
		ir.Step{Op: ir.OpSum, Label: "Sum"},
	)
	return prog
}
