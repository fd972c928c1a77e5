package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ScoreTable holds, per number of a player's pieces in an unblocked line, the
// multiplier applied to that count. Index 0 is unused.
type ScoreTable []int

// DefaultScoreTable: one piece is worth nothing, two count once, three count five times.
var DefaultScoreTable = ScoreTable{0, 0, 1, 5}

// ParseScoreTable reads a comma separated table such as "0,0,1,5".
func ParseScoreTable(s string) (ScoreTable, error) {
	parts := strings.Split(s, ",")
	table := make(ScoreTable, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("score table %q: %w", s, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("score table %q: negative multiplier %d", s, v)
		}
		table = append(table, v)
	}
	return table, nil
}

func (t ScoreTable) contribution(count int) int {
	if count <= 0 || count >= len(t) {
		return 0
	}
	return count * t[count]
}

func (t ScoreTable) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Evaluator scores non-terminal positions.
type Evaluator struct {
	scanner *Scanner
	table   ScoreTable
}

func NewEvaluator(scanner *Scanner, table ScoreTable) (*Evaluator, error) {
	if len(table) > scanner.geo.ConnectLength {
		return nil, fmt.Errorf("score table has %d entries, connect length is %d", len(table), scanner.geo.ConnectLength)
	}
	return &Evaluator{scanner: scanner, table: table}, nil
}

func (e *Evaluator) Table() ScoreTable { return e.table }

// Score sums player's unblocked line values and subtracts the opponent's.
func (e *Evaluator) Score(p Position, player Player) int {
	score := 0
	for _, l := range e.scanner.lines {
		first, second := tally(p, l)
		if first > 0 && second > 0 {
			continue
		}
		mine, theirs := first, second
		if player == SecondPlayer {
			mine, theirs = second, first
		}
		score += e.table.contribution(mine)
		score -= e.table.contribution(theirs)
	}
	return score
}

// Bound is the largest magnitude Score can return.
func (e *Evaluator) Bound() int {
	best := 0
	for count := range e.table {
		if c := e.table.contribution(count); c > best {
			best = c
		}
	}
	return best * len(e.scanner.lines)
}
