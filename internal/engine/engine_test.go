package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// drawPosition is a full 7x6 board without four in a row.
const drawPosition Position = "112211" + "112211" + "221122" + "112211" + "221122" + "121212" + "221122"

// play drops pieces into the given columns, alternating sides from FirstPlayer.
func play(t *testing.T, g Geometry, cols ...int) Position {
	t.Helper()
	p := g.InitialPosition()
	player := FirstPlayer
	for _, col := range cols {
		m, ok := Drop(g, p, col, player)
		require.Truef(t, ok, "column %d is not playable", col)
		p = m.Position
		player = player.Opponent()
	}
	return p
}

// dropAll drops pieces for one player only.
func dropAll(t *testing.T, g Geometry, player Player, cols ...int) Position {
	t.Helper()
	p := g.InitialPosition()
	for _, col := range cols {
		m, ok := Drop(g, p, col, player)
		require.True(t, ok)
		p = m.Position
	}
	return p
}

// randomPositions plays seeded random games and collects every non-terminal
// position reached.
func randomPositions(t *testing.T, g Geometry, games, maxPlies int) []Position {
	t.Helper()
	scanner, err := NewScanner(g)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 11))
	var out []Position
	for i := 0; i < games; i++ {
		p := g.InitialPosition()
		player := FirstPlayer
		for ply := 0; ply < maxPlies; ply++ {
			moves := Successors(g, p, player)
			if len(moves) == 0 {
				break
			}
			p = moves[rng.IntN(len(moves))].Position
			if _, won := scanner.Winner(p); won {
				break
			}
			out = append(out, p)
			player = player.Opponent()
		}
	}
	return out
}

func swapSides(p Position) Position {
	buf := []byte(p)
	for i, b := range buf {
		switch Symbol(b) {
		case PlayerA:
			buf[i] = byte(PlayerB)
		case PlayerB:
			buf[i] = byte(PlayerA)
		}
	}
	return Position(buf)
}

func newStandardSearcher(t *testing.T, opts Options) *Searcher {
	t.Helper()
	s, err := NewSearcher(Standard, opts)
	require.NoError(t, err)
	return s
}
