package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/ir"
)

func TestVerify_DemoIsDeterministic(t *testing.T) {
	result, err := Verify(context.Background(), DemoProgram())
	require.NoError(t, err)

	assert.True(t, result.Deterministic)
	assert.Empty(t, result.Mismatches)
	assert.Equal(t, 5, result.Ops)
}

func TestVerify_AllOpsDeterministic(t *testing.T) {
	prog := &ir.Program{
		Name: "mixed",
		Steps: []ir.Step{
			{Op: ir.OpAppend, Values: []int64{3, -1, 3}},
			{Op: ir.OpSum, Label: "Sum"},
			{Op: ir.OpSort},
			{Op: ir.OpRender},
			{Op: ir.OpAppend, Values: []int64{0}},
			{Op: ir.OpRender, Label: "With zero"},
		},
	}

	result, err := Verify(context.Background(), prog)
	require.NoError(t, err)
	assert.True(t, result.Deterministic)
	assert.Equal(t, 6, result.Ops)
}

func TestVerify_InvalidProgram(t *testing.T) {
	prog := &ir.Program{Name: "bad", Steps: []ir.Step{{Op: "shuffle"}}}

	_, err := Verify(context.Background(), prog)
	require.Error(t, err)
	assert.True(t, IsInvalidProgram(err))
}

func TestVerify_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Verify(ctx, DemoProgram())
	assert.Error(t, err)
}

func TestVerifyResult_Fail(t *testing.T) {
	r := &VerifyResult{Deterministic: true}
	r.fail("first")
	r.fail("second")

	assert.False(t, r.Deterministic)
	assert.Equal(t, []string{"first", "second"}, r.Mismatches)
}
