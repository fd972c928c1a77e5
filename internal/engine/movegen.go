package engine

// Move is a drop into Column that lands on Row, producing Position.
type Move struct {
	Column   int      `json:"column"`
	Row      int      `json:"row"`
	Position Position `json:"position"`
}

// LandingRow returns the row a piece dropped into col would occupy.
func LandingRow(g Geometry, p Position, col int) (int, bool) {
	if col < 0 || col >= g.Columns || p.At(g.Index(col, 0)) != Empty {
		return -1, false
	}
	row := g.Rows - 1
	for r := 1; r < g.Rows; r++ {
		if p.At(g.Index(col, r)) != Empty {
			row = r - 1
			break
		}
	}
	return row, true
}

// Drop plays player into col, returning the successor position.
func Drop(g Geometry, p Position, col int, player Player) (Move, bool) {
	row, ok := LandingRow(g, p, col)
	if !ok {
		return Move{}, false
	}
	return Move{Column: col, Row: row, Position: p.with(g.Index(col, row), player.Symbol())}, true
}

// Successors lists every legal drop for player in column order. The input is never mutated.
func Successors(g Geometry, p Position, player Player) []Move {
	moves := make([]Move, 0, g.Columns)
	for col := 0; col < g.Columns; col++ {
		if m, ok := Drop(g, p, col, player); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// DiffMove finds the single cell that differs between current and next.
func DiffMove(g Geometry, current, next Position) (col, row int, err error) {
	if len(current) != g.Cells() || len(next) != g.Cells() {
		return -1, -1, ErrMalformedPosition
	}
	changed := -1
	for i := 0; i < len(current); i++ {
		if current[i] == next[i] {
			continue
		}
		if changed >= 0 {
			return -1, -1, ErrMalformedPosition
		}
		changed = i
	}
	if changed < 0 {
		return -1, -1, ErrMalformedPosition
	}
	col, row = g.Coords(changed)
	return col, row, nil
}
