package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const mustBlock = "000111" + "000022" + "000000" + "000000" + "000000" + "000000" + "000000"

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, "", "analyze", mustBlock, "--depth", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "to move: O")
	assert.Contains(t, out, "best: column 0 row 2")
	assert.Contains(t, out, "| X O . . . . . |")
}

func TestAnalyzeCommand_Finished(t *testing.T) {
	won := "002222" + "000011" + "000001" + "000001" + "000000" + "000000" + "000000"
	out, err := run(t, "", "analyze", won)
	require.NoError(t, err)
	assert.Contains(t, out, "winner: O")

	_, err = run(t, "", "analyze", "12")
	assert.Error(t, err)
}

func TestCountCommand(t *testing.T) {
	out, err := run(t, "", "count", mustBlock, "--depth", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "depth 1:")
	assert.Contains(t, out, "depth 3:")
}

func TestPlayCommand(t *testing.T) {
	out, err := run(t, "x\n3\nq\n", "play", "--difficulty", "easy", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"x" is not a column`)
	assert.Contains(t, out, "Alice plays column")
	assert.Contains(t, out, "bye")
	assert.Equal(t, 1, strings.Count(out, "plays column"))
}

func TestPlayCommand_EngineFirst(t *testing.T) {
	out, err := run(t, "", "play", "--second", "--difficulty", "medium", "--depth", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob plays column")
	assert.Contains(t, out, "bye")
}

func TestPlayCommand_BadFlags(t *testing.T) {
	_, err := run(t, "", "play", "--difficulty", "impossible")
	assert.Error(t, err)

	_, err = run(t, "", "play", "--connect", "9")
	assert.Error(t, err)
}
