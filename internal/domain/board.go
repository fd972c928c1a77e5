package domain

import "github.com/llwatkin/connect-4-starter/internal/engine"

// Board is the live grid. Cells[0] is the top row, Cells[Rows-1] the bottom.
type Board struct {
	Geometry engine.Geometry
	Cells    [][]PlayerID
}

func NewBoard(g engine.Geometry) *Board {
	cells := make([][]PlayerID, g.Rows)
	for i := range cells {
		cells[i] = make([]PlayerID, g.Columns)
	}
	return &Board{Geometry: g, Cells: cells}
}

func (b *Board) Columns() int { return b.Geometry.Columns }

func (b *Board) Rows() int { return b.Geometry.Rows }

// OwnerAt lets the engine snapshot the live board.
func (b *Board) OwnerAt(col, row int) (engine.Player, bool) {
	p := b.Cells[row][col]
	if p == Empty {
		return 0, false
	}
	return p.Engine(), true
}

func (b *Board) IsValidMove(column int) bool {
	if column < 0 || column >= b.Columns() {
		return false
	}
	return b.Cells[0][column] == Empty
}

// DropDisk lets the disk fall to the lowest empty row of column.
func (b *Board) DropDisk(column int, player PlayerID) (int, error) {
	if column < 0 || column >= b.Columns() {
		return -1, ErrInvalidMove
	}
	for row := b.Rows() - 1; row >= 0; row-- {
		if b.Cells[row][column] == Empty {
			b.Cells[row][column] = player
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

func (b *Board) IsFull() bool {
	for c := 0; c < b.Columns(); c++ {
		if b.Cells[0][c] == Empty {
			return false
		}
	}
	return true
}

// this creates a deep copy of the board
func (b *Board) Copy() *Board {
	cells := make([][]PlayerID, len(b.Cells))
	for i := range b.Cells {
		cells[i] = make([]PlayerID, len(b.Cells[i]))
		copy(cells[i], b.Cells[i])
	}
	return &Board{Geometry: b.Geometry, Cells: cells}
}

func (b *Board) ValidMoves() []int {
	moves := []int{}
	for col := 0; col < b.Columns(); col++ {
		if b.IsValidMove(col) {
			moves = append(moves, col)
		}
	}
	return moves
}

// SimulateMove plays on a copy and leaves b untouched.
func (b *Board) SimulateMove(column int, player PlayerID) (*Board, int, error) {
	next := b.Copy()
	row, err := next.DropDisk(column, player)
	if err != nil {
		return nil, -1, err
	}
	return next, row, nil
}

// CountDiskInDirection counts player's disks after (row, col) along (deltaRow, deltaCol).
func (b *Board) CountDiskInDirection(row, col, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for r >= 0 && r < b.Rows() && c >= 0 && c < b.Columns() && b.Cells[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// Ints is the JSON friendly form of the grid.
func (b *Board) Ints() [][]int {
	out := make([][]int, len(b.Cells))
	for i, row := range b.Cells {
		out[i] = make([]int, len(row))
		for j, p := range row {
			out[i][j] = int(p)
		}
	}
	return out
}

// BoardFromPosition rebuilds a live board from an engine position.
func BoardFromPosition(g engine.Geometry, p engine.Position) (*Board, error) {
	decoded, err := engine.Decode(g, p)
	if err != nil {
		return nil, err
	}
	b := NewBoard(g)
	for col := 0; col < g.Columns; col++ {
		for row := 0; row < g.Rows; row++ {
			if owner, ok := decoded.OwnerAt(col, row); ok {
				b.Cells[row][col] = FromEngine(owner)
			}
		}
	}
	return b, nil
}
