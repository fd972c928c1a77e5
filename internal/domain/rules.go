package domain

var directions = [][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// CheckWin only looks at lines through the disk just placed at (row, column).
func CheckWin(b *Board, row, column int, player PlayerID) bool {
	if player == Empty || b.Cells[row][column] != player {
		return false
	}
	for _, dir := range directions {
		total := 1 +
			b.CountDiskInDirection(row, column, dir[0], dir[1], player) +
			b.CountDiskInDirection(row, column, -dir[0], -dir[1], player)
		if total >= b.Geometry.ConnectLength {
			return true
		}
	}
	return false
}

// FindWinner scans every occupied cell; used when there is no last move to start from.
func FindWinner(b *Board) (PlayerID, bool) {
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.Columns(); col++ {
			if p := b.Cells[row][col]; p != Empty && CheckWin(b, row, col, p) {
				return p, true
			}
		}
	}
	return Empty, false
}
