package engine

import (
	"context"
	"fmt"
)

// Host is the live game the engine plays on. The engine reads it through
// Board, never keeps a reference to it, and writes back only through ApplyMove.
type Host interface {
	Board() Grid
	Winner() (Player, bool)
	IsFull() bool
	ApplyMove(column int) bool
}

// Snapshot encodes the host's live board.
func (s *Searcher) Snapshot(h Host) (Position, error) {
	return Encode(s.geo, h.Board())
}

// PlayTurn searches a move for player on the host's current board and applies it.
func (s *Searcher) PlayTurn(ctx context.Context, h Host, player Player) (Result, error) {
	if _, ok := h.Winner(); ok || h.IsFull() {
		return Result{}, ErrNoMoves
	}
	pos, err := s.Snapshot(h)
	if err != nil {
		return Result{}, err
	}
	res, err := s.BestMove(ctx, pos, player)
	if err != nil {
		return Result{}, err
	}
	col, row, err := DiffMove(s.geo, pos, res.Move.Position)
	if err != nil {
		return Result{}, err
	}
	if !h.ApplyMove(col) {
		return Result{}, fmt.Errorf("%w: column %d row %d", ErrMoveRejected, col, row)
	}
	return res, nil
}
