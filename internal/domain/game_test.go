package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeMove_Gravity(t *testing.T) {
	g := NewGame(engine.Standard)

	row, err := g.MakeMove(Player1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, row)

	row, err = g.MakeMove(Player2, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, row)

	assert.Equal(t, Player1, g.LiveBoard().Cells[5][3])
	assert.Equal(t, Player2, g.LiveBoard().Cells[4][3])
	assert.Equal(t, 2, g.MoveCount)
	assert.Equal(t, &LastMove{Column: 3, Row: 4, Player: Player2}, g.LastMove)
}

func TestMakeMove_Rejections(t *testing.T) {
	g := NewGame(engine.Standard)

	_, err := g.MakeMove(Player2, 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.MakeMove(Player1, 7)
	assert.ErrorIs(t, err, ErrInvalidMove)

	for i := 0; i < 6; i++ {
		require.True(t, g.ApplyMove(0))
	}
	before := g.CurrentPlayer
	assert.False(t, g.ApplyMove(0), "full column must be rejected")
	assert.Equal(t, before, g.CurrentPlayer, "rejection must not advance the turn")

	_, err = g.MakeMove(g.CurrentPlayer, 0)
	assert.ErrorIs(t, err, ErrColumnFull)
}

func TestMakeMove_FourInColumnWins(t *testing.T) {
	g := NewGame(engine.Standard)
	for _, col := range []int{3, 0, 3, 0, 3, 0} {
		require.True(t, g.ApplyMove(col))
		_, won := g.Winner()
		require.False(t, won)
	}
	require.True(t, g.ApplyMove(3))

	winner, won := g.Winner()
	require.True(t, won)
	assert.Equal(t, engine.FirstPlayer, winner)
	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, Player1, g.WinnerID)

	assert.False(t, g.ApplyMove(4), "moves after the game ended are rejected")
	_, err := g.MakeMove(g.CurrentPlayer, 4)
	assert.ErrorIs(t, err, ErrGameOver)
}

// The live-board path (CheckWin through the last move) and the position path
// (engine scanner) must agree on every reachable state.
func TestWinPathsAgree(t *testing.T) {
	scanner, err := engine.NewScanner(engine.Standard)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(3, 5))

	for game := 0; game < 200; game++ {
		g := NewGame(engine.Standard)
		for !g.IsFinished() {
			moves := g.LiveBoard().ValidMoves()
			require.True(t, g.ApplyMove(moves[rng.IntN(len(moves))]))

			pos := g.Position()
			require.NoError(t, engine.Standard.Validate(pos))

			liveWinner, liveWon := g.Winner()
			posWinner, posWon := scanner.Winner(pos)
			require.Equal(t, liveWon, posWon, "position %s", pos)
			if liveWon {
				require.Equal(t, liveWinner, posWinner)
			}
			require.Equal(t, g.IsFull(), scanner.IsFull(pos))
		}
	}
}

func TestGameFromPosition(t *testing.T) {
	src := NewGame(engine.Standard)
	for _, col := range []int{3, 3, 4, 2} {
		require.True(t, src.ApplyMove(col))
	}

	g, err := GameFromPosition(engine.Standard, src.Position())
	require.NoError(t, err)
	assert.Equal(t, src.LiveBoard().Cells, g.LiveBoard().Cells)
	assert.Equal(t, Player1, g.CurrentPlayer)
	assert.Equal(t, 4, g.MoveCount)
	assert.Equal(t, StatusActive, g.Status)

	_, err = GameFromPosition(engine.Standard, "12")
	assert.ErrorIs(t, err, engine.ErrMalformedPosition)
}

func TestGameFromPosition_Finished(t *testing.T) {
	draw := engine.Position("112211" + "112211" + "221122" + "112211" + "221122" + "121212" + "221122")
	g, err := GameFromPosition(engine.Standard, draw)
	require.NoError(t, err)
	assert.Equal(t, StatusDraw, g.Status)
	assert.True(t, g.IsFull())

	won := engine.Position("002222" + "000011" + "000001" + "000001" + "000000" + "000000" + "000000")
	g, err = GameFromPosition(engine.Standard, won)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, Player2, g.WinnerID)
}

func TestPlayerConversion(t *testing.T) {
	assert.Equal(t, engine.FirstPlayer, Player1.Engine())
	assert.Equal(t, engine.SecondPlayer, Player2.Engine())
	assert.Equal(t, Player2, FromEngine(engine.SecondPlayer))
	assert.Equal(t, Player1, Player2.Opponent())
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, d)

	_, err = ParseDifficulty("impossible")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)

	assert.Equal(t, "Charles", GetBotName(DifficultyHard))
	assert.Equal(t, "BOT", GetBotName("x"))
}

func TestPosition_CorruptedBoardPanics(t *testing.T) {
	g := NewGame(engine.Standard)
	require.True(t, g.ApplyMove(3))
	assert.Equal(t, engine.Position("000000000000000000000001"+"000000000000000000"), g.Position())

	g.LiveBoard().Cells[5][0] = PlayerID(7)
	assert.Panics(t, func() { g.Position() })
}
