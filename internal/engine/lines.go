package engine

// Direction of a Line on the board.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
	DiagonalDown
	DiagonalUp
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagonalDown:
		return "diagonal-down"
	case DiagonalUp:
		return "diagonal-up"
	}
	return "unknown"
}

// Line is ConnectLength cell indices in one direction.
type Line struct {
	Direction Direction
	Cells     []int
}

// AllLines enumerates every window of ConnectLength cells on the board, once
// per direction. Each direction uses its own anchor range so windows that only
// fit along one axis (bottom rows, right-hand columns) are still covered.
func AllLines(g Geometry) []Line {
	n := g.ConnectLength
	var lines []Line

	line := func(d Direction, col, row, dc, dr int) Line {
		cells := make([]int, n)
		for i := 0; i < n; i++ {
			cells[i] = g.Index(col+i*dc, row+i*dr)
		}
		return Line{Direction: d, Cells: cells}
	}

	for row := 0; row < g.Rows; row++ {
		for col := 0; col+n <= g.Columns; col++ {
			lines = append(lines, line(Horizontal, col, row, 1, 0))
		}
	}
	for col := 0; col < g.Columns; col++ {
		for row := 0; row+n <= g.Rows; row++ {
			lines = append(lines, line(Vertical, col, row, 0, 1))
		}
	}
	for col := 0; col+n <= g.Columns; col++ {
		for row := 0; row+n <= g.Rows; row++ {
			lines = append(lines, line(DiagonalDown, col, row, 1, 1))
			lines = append(lines, line(DiagonalUp, col, row+n-1, 1, -1))
		}
	}
	return lines
}

// Classify reads the owners of a line's cells in order.
func Classify(p Position, l Line) []Symbol {
	out := make([]Symbol, len(l.Cells))
	for i, idx := range l.Cells {
		out[i] = p.At(idx)
	}
	return out
}

// tally counts pieces of each side on a line without allocating.
func tally(p Position, l Line) (first, second int) {
	for _, idx := range l.Cells {
		switch p.At(idx) {
		case PlayerA:
			first++
		case PlayerB:
			second++
		}
	}
	return first, second
}

// Scanner holds the precomputed line set for one geometry.
type Scanner struct {
	geo   Geometry
	lines []Line
}

func NewScanner(g Geometry) (*Scanner, error) {
	if err := g.Check(); err != nil {
		return nil, err
	}
	return &Scanner{geo: g, lines: AllLines(g)}, nil
}

func (s *Scanner) Geometry() Geometry { return s.geo }

func (s *Scanner) Lines() []Line { return s.lines }

// Winner returns the owner of the first fully captured line.
func (s *Scanner) Winner(p Position) (Player, bool) {
	n := s.geo.ConnectLength
	for _, l := range s.lines {
		first, second := tally(p, l)
		if first == n {
			return FirstPlayer, true
		}
		if second == n {
			return SecondPlayer, true
		}
	}
	return 0, false
}

// IsFull reports whether every column's top cell is occupied.
func (s *Scanner) IsFull(p Position) bool {
	for col := 0; col < s.geo.Columns; col++ {
		if p.At(s.geo.Index(col, 0)) == Empty {
			return false
		}
	}
	return true
}
