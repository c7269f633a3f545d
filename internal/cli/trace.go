package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Program string
	Op      string // optional - filter to a specific op kind
	Limit   int    // optional - cap the number of timeline rows
}

// TraceEvent represents a single journaled op in the trace timeline.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Op     string         `json:"op"`
	ID     string         `json:"id"`
	Args   map[string]any `json:"args,omitempty"`
	Output string         `json:"output,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Program   string         `json:"program"`
	ProgramID string         `json:"program_id"`
	RunToken  string         `json:"run_token"`
	Timeline  []TraceEvent   `json:"timeline"`
	Stats     *journal.Stats `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <programs-dir>",
		Short: "Execute a program and show its journal timeline",
		Long: `Execute a program and show the journaled op timeline.

Every step the engine runs is written to the journal before the next step
executes. The timeline lists those records in execution order (seq, op,
canonical args, and emitted output), followed by journal statistics.

Examples:
  tally trace ./programs
  tally trace ./programs --program demo --op render
  tally trace ./programs --limit 3 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Program, "program", "", "program name (required when the directory defines more than one)")
	cmd.Flags().StringVar(&opts.Op, "op", "", "filter timeline to one op kind (append|sort|render|sum)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "cap the number of timeline rows (0 = unlimited)")

	return cmd
}

func runTrace(opts *TraceOptions, programsDir string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Op != "" && !ir.ValidOps[ir.Op(opts.Op)] {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown op filter %q", opts.Op))
	}

	prog, err := selectProgram(programsDir, opts.Program)
	if err != nil {
		return err
	}

	j, err := journal.Open()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	exec := engine.New(j, nil)
	exec.SetLogger(newRunLogger(opts.Verbose))

	transcript, err := exec.Execute(ctx, prog)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("program %q failed", prog.Name), err)
	}

	// Read the timeline back out of the journal rather than from the
	// transcript: the trace command is a view over journaled state.
	records, err := j.ListOpsFiltered(ctx, transcript.RunToken, journal.Filter{
		Op:    ir.Op(opts.Op),
		Limit: opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	stats, err := j.ReadStats(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal stats", err)
	}

	result := TraceResult{
		Program:   transcript.ProgramName,
		ProgramID: transcript.ProgramID,
		RunToken:  transcript.RunToken,
		Timeline:  make([]TraceEvent, 0, len(records)),
		Stats:     stats,
	}
	for _, rec := range records {
		event := TraceEvent{
			Seq:    rec.Seq,
			Op:     string(rec.Op),
			ID:     rec.ID,
			Output: rec.Output,
		}
		if len(rec.Args) > 0 {
			event.Args = rec.Args
		}
		result.Timeline = append(result.Timeline, event)
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}

	return outputTraceText(cmd, result, opts.Verbose)
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Trace: %s (run %s)\n", result.Program, result.RunToken)
	fmt.Fprintln(w)

	for _, event := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %s", event.Seq, event.Op)
		if event.Output != "" {
			fmt.Fprintf(w, " → %q", event.Output)
		}
		fmt.Fprintln(w)
		if verbose && event.Args != nil {
			fmt.Fprintf(w, "      args: %v\n", event.Args)
		}
		if verbose {
			fmt.Fprintf(w, "      id: %s\n", event.ID)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats: %d op(s) across %d run(s)\n", result.Stats.TotalOps, result.Stats.Runs)
	ops := make([]string, 0, len(result.Stats.ByOp))
	for op := range result.Stats.ByOp {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Fprintf(w, "  %s: %d\n", op, result.Stats.ByOp[op])
	}

	return nil
}
