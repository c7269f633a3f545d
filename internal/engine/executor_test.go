package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/ir"
	"github.com/roach88/tally/internal/journal"
)

// newTestExecutor wires an executor to a fresh in-memory journal with a
// fixed run token.
func newTestExecutor(t *testing.T, token string) (*Executor, *journal.Journal) {
	t.Helper()
	j, err := journal.Open()
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return New(j, NewFixedGenerator(token)), j
}

func TestExecute_CanonicalDriver(t *testing.T) {
	e, _ := newTestExecutor(t, "run-demo")

	transcript, err := e.Execute(context.Background(), DemoProgram())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Original data: 5 2 8 1 ",
		"Sorted data: 1 2 5 8 ",
		"Sum: 16",
	}, transcript.Lines)

	assert.Equal(t, []int64{1, 2, 5, 8}, transcript.Final)
	assert.Equal(t, int64(16), transcript.FinalSum)
	assert.Equal(t, "run-demo", transcript.RunToken)
	assert.Equal(t, "demo", transcript.ProgramName)
	assert.Equal(t, "Original data: 5 2 8 1 \nSorted data: 1 2 5 8 \nSum: 16\n", transcript.String())
}

func TestExecute_OpRecords(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := DemoProgram()

	transcript, err := e.Execute(context.Background(), prog)
	require.NoError(t, err)
	require.Len(t, transcript.Ops, 5)

	programID := prog.MustID()
	wantOps := []ir.Op{ir.OpAppend, ir.OpRender, ir.OpSort, ir.OpRender, ir.OpSum}

	for i, rec := range transcript.Ops {
		assert.Equal(t, int64(i+1), rec.Seq, "seq is the 1-based logical clock")
		assert.Equal(t, wantOps[i], rec.Op)
		assert.Equal(t, programID, rec.ProgramID)
		assert.Equal(t, "run-1", rec.RunToken)
		assert.Equal(t, ir.EngineVersion, rec.EngineVersion)
		assert.Equal(t, ir.IRVersion, rec.IRVersion)
		assert.Equal(t, ir.MustOpRecordID(programID, rec.Op, rec.Args, rec.Seq), rec.ID,
			"record IDs are content-addressed")
	}

	assert.Equal(t, "", transcript.Ops[0].Output, "append emits nothing")
	assert.Equal(t, "", transcript.Ops[2].Output, "sort emits nothing")
	assert.Equal(t, "Sum: 16", transcript.Ops[4].Output)
}

func TestExecute_JournalsEveryStep(t *testing.T) {
	e, j := newTestExecutor(t, "run-1")

	transcript, err := e.Execute(context.Background(), DemoProgram())
	require.NoError(t, err)

	stored, err := j.ListOps(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, transcript.Ops, stored, "journal round-trips the executed ops")
}

func TestExecute_UnlabeledRenderAndSum(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := &ir.Program{
		Name: "bare",
		Steps: []ir.Step{
			{Op: ir.OpAppend, Values: []int64{5, 2, 8, 1}},
			{Op: ir.OpRender},
			{Op: ir.OpSum},
		},
	}

	transcript, err := e.Execute(context.Background(), prog)
	require.NoError(t, err)
	assert.Equal(t, []string{"5 2 8 1 ", "16"}, transcript.Lines)
}

func TestExecute_RenderEmptySequence(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := &ir.Program{
		Name: "empty-render",
		Steps: []ir.Step{
			{Op: ir.OpSort},
			{Op: ir.OpRender},
			{Op: ir.OpSum},
		},
	}

	transcript, err := e.Execute(context.Background(), prog)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "0"}, transcript.Lines,
		"empty sequence renders an empty line and sums to 0")
	assert.Empty(t, transcript.Final)
}

func TestExecute_SortIdempotence(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := &ir.Program{
		Name: "double-sort",
		Steps: []ir.Step{
			{Op: ir.OpAppend, Values: []int64{5, 2, 8, 1}},
			{Op: ir.OpSort},
			{Op: ir.OpRender},
			{Op: ir.OpSort},
			{Op: ir.OpRender},
		},
	}

	transcript, err := e.Execute(context.Background(), prog)
	require.NoError(t, err)
	require.Len(t, transcript.Lines, 2)
	assert.Equal(t, transcript.Lines[0], transcript.Lines[1])
}

func TestExecute_SumInvariantUnderSort(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := &ir.Program{
		Name: "sum-twice",
		Steps: []ir.Step{
			{Op: ir.OpAppend, Values: []int64{41, -7, 0, 13}},
			{Op: ir.OpSum},
			{Op: ir.OpSort},
			{Op: ir.OpSum},
		},
	}

	transcript, err := e.Execute(context.Background(), prog)
	require.NoError(t, err)
	require.Len(t, transcript.Lines, 2)
	assert.Equal(t, transcript.Lines[0], transcript.Lines[1], "sorting does not change the sum")
}

func TestExecute_InvalidProgram(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := &ir.Program{Name: "bad", Steps: []ir.Step{{Op: "shuffle"}}}

	_, err := e.Execute(context.Background(), prog)
	require.Error(t, err)
	assert.True(t, IsInvalidProgram(err))
}

func TestExecute_EmptyProgram(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := &ir.Program{Name: "empty"}

	_, err := e.Execute(context.Background(), prog)
	require.Error(t, err)
	assert.True(t, IsInvalidProgram(err))
}

func TestExecute_CancelledContext(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, DemoProgram())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_FreshSequencePerRun(t *testing.T) {
	e, _ := newTestExecutor(t, "run-1")
	prog := &ir.Program{
		Name: "accumulate",
		Steps: []ir.Step{
			{Op: ir.OpAppend, Values: []int64{1, 2}},
			{Op: ir.OpSum},
		},
	}

	first, err := e.Execute(context.Background(), prog)
	require.NoError(t, err)
	second, err := e.Execute(context.Background(), prog)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines, "runs never share aggregator state")
	assert.Equal(t, []int64{1, 2}, second.Final)
}

func TestExecute_DefaultTokenGenerator(t *testing.T) {
	j, err := journal.Open()
	require.NoError(t, err)
	defer j.Close()

	e := New(j, nil)
	transcript, err := e.Execute(context.Background(), DemoProgram())
	require.NoError(t, err)
	assert.Len(t, transcript.RunToken, 36, "defaults to hyphenated UUIDv7 tokens")
}
