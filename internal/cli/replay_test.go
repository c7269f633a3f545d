package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayCommand_Deterministic(t *testing.T) {
	dir := writeProgramsDir(t, demoProgramCUE)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Program: demo")
	assert.Contains(t, buf.String(), "Ops: 5")
	assert.Contains(t, buf.String(), "✓ All programs verified deterministic")
}

func TestReplayCommand_JSONOutput(t *testing.T) {
	dir := writeProgramsDir(t, demoProgramCUE)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ReplayResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.True(t, result.AllDeterministic)
	assert.Equal(t, 1, result.TotalPrograms)
	require.Len(t, result.Programs, 1)
	assert.True(t, result.Programs[0].Deterministic)
	assert.Equal(t, 5, result.Programs[0].Ops)
}

func TestReplayCommand_ProgramFilter(t *testing.T) {
	dir := writeProgramsDir(t, `
package programs

program: first: {
	steps: [{op: "append", values: [1]}, {op: "sum"}]
}

program: second: {
	steps: [{op: "append", values: [2]}, {op: "sum"}]
}
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{dir, "--program", "second"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Replay Summary: 1 program(s)")
	assert.Contains(t, buf.String(), "second")
	assert.NotContains(t, buf.String(), "✓ Program: first")
}

func TestReplayCommand_UnknownProgram(t *testing.T) {
	dir := writeProgramsDir(t, demoProgramCUE)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{dir, "--program", "missing"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayCommand_DirNotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"/nonexistent/programs"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
