package engine

import "fmt"

// Grid is any two-dimensional board that can report cell owners.
type Grid interface {
	Columns() int
	Rows() int
	OwnerAt(col, row int) (Player, bool)
}

// Encode snapshots a grid into a Position.
func Encode(g Geometry, grid Grid) (Position, error) {
	if grid.Columns() != g.Columns || grid.Rows() != g.Rows {
		return "", fmt.Errorf("%w: grid is %dx%d, want %dx%d", ErrMalformedPosition, grid.Columns(), grid.Rows(), g.Columns, g.Rows)
	}
	buf := make([]byte, g.Cells())
	for col := 0; col < g.Columns; col++ {
		for row := 0; row < g.Rows; row++ {
			s := Empty
			if owner, ok := grid.OwnerAt(col, row); ok {
				if !owner.Valid() {
					return "", fmt.Errorf("%w: %d at (%d, %d)", ErrInvalidPlayer, owner, col, row)
				}
				s = owner.Symbol()
			}
			buf[g.Index(col, row)] = byte(s)
		}
	}
	return Position(buf), nil
}

// Board is a decoded position, addressed by column and row.
type Board struct {
	geo   Geometry
	cells [][]Symbol
}

func NewBoard(g Geometry) *Board {
	cells := make([][]Symbol, g.Columns)
	for col := range cells {
		cells[col] = make([]Symbol, g.Rows)
		for row := range cells[col] {
			cells[col][row] = Empty
		}
	}
	return &Board{geo: g, cells: cells}
}

// Decode expands a position into a Board. Only length and alphabet are checked.
func Decode(g Geometry, p Position) (*Board, error) {
	if len(p) != g.Cells() {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrMalformedPosition, len(p), g.Cells())
	}
	b := NewBoard(g)
	for i := 0; i < len(p); i++ {
		s := p.At(i)
		if !s.valid() {
			return nil, fmt.Errorf("%w: symbol %q at %d", ErrMalformedPosition, p[i], i)
		}
		col, row := g.Coords(i)
		b.cells[col][row] = s
	}
	return b, nil
}

func (b *Board) Columns() int { return b.geo.Columns }
func (b *Board) Rows() int { return b.geo.Rows }

func (b *Board) OwnerAt(col, row int) (Player, bool) {
	return b.cells[col][row].Owner()
}

func (b *Board) Set(col, row int, p Player) {
	b.cells[col][row] = p.Symbol()
}

func (b *Board) Clear(col, row int) {
	b.cells[col][row] = Empty
}
