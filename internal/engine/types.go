package engine

import (
	"errors"
	"fmt"
)

// Symbol is the owner of one cell inside a Position.
type Symbol byte

const (
	Empty   Symbol = '0'
	PlayerA Symbol = '1'
	PlayerB Symbol = '2'
)

// Player is the index of a side, 0 or 1. Player(p).Symbol() is PlayerA + p,
// so the same value selects the piece to place and compares against decoded cells.
type Player int

const (
	FirstPlayer  Player = 0
	SecondPlayer Player = 1
)

func (p Player) Symbol() Symbol {
	return PlayerA + Symbol(p)
}

func (p Player) Opponent() Player {
	return 1 - p
}

func (p Player) Valid() bool {
	return p == FirstPlayer || p == SecondPlayer
}

func (p Player) String() string {
	return fmt.Sprintf("player %d", int(p))
}

// Owner returns the player owning a cell symbol, or false for Empty.
func (s Symbol) Owner() (Player, bool) {
	switch s {
	case PlayerA, PlayerB:
		return Player(s - PlayerA), true
	default:
		return 0, false
	}
}

func (s Symbol) valid() bool {
	return s == Empty || s == PlayerA || s == PlayerB
}

var (
	ErrInvalidGeometry   = errors.New("invalid board geometry")
	ErrMalformedPosition = errors.New("malformed position")
	ErrGravity           = errors.New("position violates gravity")
	ErrNoMoves           = errors.New("no legal moves")
	ErrMoveRejected      = errors.New("host rejected move")
	ErrInvalidPlayer     = errors.New("invalid player")
)

// Geometry describes a rectangular connect-N board.
type Geometry struct {
	Columns       int `json:"columns"`
	Rows          int `json:"rows"`
	ConnectLength int `json:"connectLength"`
}

// Standard is the 7x6 connect-four board.
var Standard = Geometry{Columns: 7, Rows: 6, ConnectLength: 4}

func (g Geometry) Check() error {
	if g.Columns <= 0 || g.Rows <= 0 || g.ConnectLength <= 1 {
		return fmt.Errorf("%w: %dx%d connect %d", ErrInvalidGeometry, g.Columns, g.Rows, g.ConnectLength)
	}
	if g.ConnectLength > g.Columns && g.ConnectLength > g.Rows {
		return fmt.Errorf("%w: connect %d does not fit %dx%d", ErrInvalidGeometry, g.ConnectLength, g.Columns, g.Rows)
	}
	return nil
}

func (g Geometry) Cells() int {
	return g.Columns * g.Rows
}

// Index maps a cell to its offset in the column-major encoding. Row 0 is the top row.
func (g Geometry) Index(col, row int) int {
	return col*g.Rows + row
}

// Coords is the inverse of Index.
func (g Geometry) Coords(index int) (col, row int) {
	return index / g.Rows, index % g.Rows
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%dc%d", g.Columns, g.Rows, g.ConnectLength)
}

// Position is the immutable column-major encoding of a board, one Symbol per cell.
type Position string

func (g Geometry) InitialPosition() Position {
	buf := make([]byte, g.Cells())
	for i := range buf {
		buf[i] = byte(Empty)
	}
	return Position(buf)
}

func (p Position) At(index int) Symbol {
	return Symbol(p[index])
}

// with returns a copy of p with one cell replaced.
func (p Position) with(index int, s Symbol) Position {
	buf := []byte(p)
	buf[index] = byte(s)
	return Position(buf)
}

// Validate checks length, alphabet and the gravity invariant.
func (g Geometry) Validate(p Position) error {
	if len(p) != g.Cells() {
		return fmt.Errorf("%w: length %d, want %d", ErrMalformedPosition, len(p), g.Cells())
	}
	for i := 0; i < len(p); i++ {
		if !p.At(i).valid() {
			return fmt.Errorf("%w: symbol %q at %d", ErrMalformedPosition, p[i], i)
		}
	}
	for col := 0; col < g.Columns; col++ {
		seenPiece := false
		for row := 0; row < g.Rows; row++ {
			if p.At(g.Index(col, row)) != Empty {
				seenPiece = true
			} else if seenPiece {
				return fmt.Errorf("%w: column %d has a gap at row %d", ErrGravity, col, row)
			}
		}
	}
	return nil
}

// Count returns the number of pieces each player has on the board.
func (p Position) Count() (first, second int) {
	for i := 0; i < len(p); i++ {
		switch p.At(i) {
		case PlayerA:
			first++
		case PlayerB:
			second++
		}
	}
	return first, second
}

// ToMove infers the side to move in a position reached by alternating play from FirstPlayer.
func (p Position) ToMove() Player {
	first, second := p.Count()
	if first > second {
		return SecondPlayer
	}
	return FirstPlayer
}
