package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStandardEvaluator(t *testing.T, table ScoreTable) *Evaluator {
	t.Helper()
	scanner, err := NewScanner(Standard)
	require.NoError(t, err)
	e, err := NewEvaluator(scanner, table)
	require.NoError(t, err)
	return e
}

func hasMixedLine(s *Scanner, p Position) bool {
	for _, l := range s.Lines() {
		first, second := tally(p, l)
		if first > 0 && second > 0 {
			return true
		}
	}
	return false
}

func TestEvaluator_Score(t *testing.T) {
	e := newStandardEvaluator(t, DefaultScoreTable)

	tests := []struct {
		name string
		pos  Position
		want int
	}{
		{"empty", Standard.InitialPosition(), 0},
		{"single piece", dropAll(t, Standard, FirstPlayer, 3), 0},
		// one window holds both pieces
		{"two in a row", dropAll(t, Standard, FirstPlayer, 0, 1), 2},
		// 3*5 for cols 0-3 plus 2 for cols 1-4
		{"three in a row", dropAll(t, Standard, FirstPlayer, 0, 1, 2), 17},
		// every window through the three is blocked; the opponent owns two pairs
		{"three blocked", play(t, Standard, 0, 6, 1, 6, 2, 3), -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Score(tt.pos, FirstPlayer))
		})
	}
}

func TestEvaluator_OpponentPerspective(t *testing.T) {
	e := newStandardEvaluator(t, DefaultScoreTable)
	p := dropAll(t, Standard, FirstPlayer, 0, 1, 2)
	assert.Equal(t, -17, e.Score(p, SecondPlayer))
}

func TestEvaluator_SwapNegatesWithoutMixedLines(t *testing.T) {
	e := newStandardEvaluator(t, DefaultScoreTable)

	positions := []Position{
		dropAll(t, Standard, FirstPlayer, 0, 1, 2),
		dropAll(t, Standard, FirstPlayer, 3, 3, 3),
		play(t, Standard, 0, 6),
		play(t, Standard, 0, 6, 1, 6),
	}
	for _, p := range randomPositions(t, Standard, 40, 6) {
		if !hasMixedLine(e.scanner, p) {
			positions = append(positions, p)
		}
	}

	for _, p := range positions {
		require.False(t, hasMixedLine(e.scanner, p))
		for _, player := range []Player{FirstPlayer, SecondPlayer} {
			assert.Equal(t, -e.Score(p, player), e.Score(swapSides(p), player), "position %s", p)
		}
	}
}

func TestEvaluator_CustomTable(t *testing.T) {
	table, err := ParseScoreTable("0, 1, 2, 10")
	require.NoError(t, err)
	assert.Equal(t, "0,1,2,10", table.String())

	e := newStandardEvaluator(t, table)
	// a lone corner piece sits in three windows: one row, one column, one diagonal
	assert.Equal(t, 3, e.Score(dropAll(t, Standard, FirstPlayer, 0), FirstPlayer))
}

func TestParseScoreTable_Errors(t *testing.T) {
	_, err := ParseScoreTable("0,x,1")
	assert.Error(t, err)
	_, err = ParseScoreTable("0,-1")
	assert.Error(t, err)

	scanner, err := NewScanner(Standard)
	require.NoError(t, err)
	_, err = NewEvaluator(scanner, ScoreTable{0, 0, 1, 5, 9})
	assert.Error(t, err)
}

func TestEvaluator_Bound(t *testing.T) {
	e := newStandardEvaluator(t, DefaultScoreTable)
	assert.Equal(t, 15*69, e.Bound())
}
