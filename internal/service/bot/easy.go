package bot

import (
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/engine"
)

// easyColumn wins if it can, blocks an immediate loss, and otherwise plays a
// random legal column.
func (s *Service) easyColumn(board *domain.Board, bot domain.PlayerID) int {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1
	}

	for _, col := range validColumns {
		testBoard, row, _ := board.SimulateMove(col, bot)
		if domain.CheckWin(testBoard, row, col, bot) {
			return col
		}
	}

	opponent := bot.Opponent()
	for _, col := range validColumns {
		testBoard, row, _ := board.SimulateMove(col, opponent)
		if domain.CheckWin(testBoard, row, col, opponent) {
			return col
		}
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return validColumns[s.rng.IntN(len(validColumns))]
}

func (s *Service) playEasy(game *domain.Game, player engine.Player) (Decision, error) {
	col := s.easyColumn(game.LiveBoard(), domain.FromEngine(player))
	if col < 0 {
		return Decision{}, engine.ErrNoMoves
	}
	if !game.ApplyMove(col) {
		return Decision{}, engine.ErrMoveRejected
	}
	return Decision{Column: col, Row: game.LastMove.Row}, nil
}
