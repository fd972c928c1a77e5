package domain

import (
	"fmt"

	"github.com/llwatkin/connect-4-starter/internal/engine"
)

type LastMove struct {
	Column int      `json:"column"`
	Row    int      `json:"row"`
	Player PlayerID `json:"player"`
}

// Game is the live turn state. It implements engine.Host.
type Game struct {
	board         *Board
	CurrentPlayer PlayerID
	Status        GameStatus
	WinnerID      PlayerID
	MoveCount     int
	LastMove      *LastMove
}

func NewGame(g engine.Geometry) *Game {
	return &Game{
		board:         NewBoard(g),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		WinnerID:      Empty,
	}
}

// GameFromPosition resumes a game from an encoded position, inferring whose turn it is.
func GameFromPosition(g engine.Geometry, p engine.Position) (*Game, error) {
	if err := g.Validate(p); err != nil {
		return nil, err
	}
	board, err := BoardFromPosition(g, p)
	if err != nil {
		return nil, err
	}
	first, second := p.Count()
	game := &Game{
		board:         board,
		CurrentPlayer: FromEngine(p.ToMove()),
		Status:        StatusActive,
		MoveCount:     first + second,
	}
	if winner, ok := FindWinner(board); ok {
		game.Status = StatusWon
		game.WinnerID = winner
	} else if board.IsFull() {
		game.Status = StatusDraw
	}
	return game, nil
}

func (g *Game) LiveBoard() *Board {
	return g.board
}

func (g *Game) Geometry() engine.Geometry {
	return g.board.Geometry
}

func (g *Game) MakeMove(player PlayerID, column int) (int, error) {
	if g.IsFinished() {
		return -1, ErrGameOver
	}
	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}
	if column < 0 || column >= g.board.Columns() {
		return -1, ErrInvalidMove
	}
	if !g.board.IsValidMove(column) {
		return -1, ErrColumnFull
	}

	row, err := g.board.DropDisk(column, g.CurrentPlayer)
	if err != nil {
		return -1, err
	}

	g.MoveCount++
	g.LastMove = &LastMove{Column: column, Row: row, Player: g.CurrentPlayer}

	if CheckWin(g.board, row, column, g.CurrentPlayer) {
		g.Status = StatusWon
		g.WinnerID = g.CurrentPlayer
		return row, nil
	}

	if g.board.IsFull() {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = g.CurrentPlayer.Opponent()
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// Board, Winner, IsFull and ApplyMove are the engine.Host surface.

func (g *Game) Board() engine.Grid {
	return g.board
}

func (g *Game) Winner() (engine.Player, bool) {
	if g.Status != StatusWon {
		return 0, false
	}
	return g.WinnerID.Engine(), true
}

func (g *Game) IsFull() bool {
	return g.board.IsFull()
}

// ApplyMove plays column for whoever is on turn. A rejected move leaves the turn unchanged.
func (g *Game) ApplyMove(column int) bool {
	_, err := g.MakeMove(g.CurrentPlayer, column)
	return err == nil
}

// Position encodes the live board. Cells only change through MakeMove, which
// writes Player1 or Player2, so an encoding failure means the board was
// corrupted and Position panics rather than hand out an empty position.
func (g *Game) Position() engine.Position {
	p, err := engine.Encode(g.board.Geometry, g.board)
	if err != nil {
		panic(fmt.Sprintf("domain: live board does not encode: %v", err))
	}
	return p
}
