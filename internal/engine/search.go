package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWinScore is the magnitude of a decided position. It is raised above
	// the evaluator's bound when a custom score table could reach it.
	DefaultWinScore = 1000000
	DefaultDepth    = 7

	infinity  = math.MaxInt32
	pollEvery = 1024
)

var errAborted = errors.New("search aborted")

// Observer receives search progress. Implementations must not block.
type Observer interface {
	CandidateScored(depth int, move Move, score int)
	DepthCompleted(depth int, result Result)
}

type nopObserver struct{}

func (nopObserver) CandidateScored(int, Move, int) {}
func (nopObserver) DepthCompleted(int, Result) {}

// Options tune a Searcher.
type Options struct {
	Depth      int
	Table      ScoreTable
	TimeBudget time.Duration
	Parallel   bool
	Observer   Observer

	// PreferFastWins adds the remaining depth to decided scores so that quicker
	// wins and slower losses rank higher. Off, every win scores the same constant
	// and ties fall to the lowest column.
	PreferFastWins bool
}

// Stats summarises one search call.
type Stats struct {
	Nodes   int64         `json:"nodes"`
	Cutoffs int64         `json:"cutoffs"`
	Elapsed time.Duration `json:"elapsed"`
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Cutoffs += o.Cutoffs
}

// ColumnScore is the root value of one candidate. Exact is false when pruning
// only established an upper bound.
type ColumnScore struct {
	Column int  `json:"column"`
	Score  int  `json:"score"`
	Exact  bool `json:"exact"`
}

// Result of a best-move search.
type Result struct {
	Move   Move          `json:"move"`
	Score  int           `json:"score"`
	Depth  int           `json:"depth"`
	Scores []ColumnScore `json:"scores"`
	Stats  Stats         `json:"stats"`
}

// Searcher runs negamax with alpha-beta pruning over one geometry.
type Searcher struct {
	geo      Geometry
	scanner  *Scanner
	eval     *Evaluator
	winScore int
	opts     Options
}

func NewSearcher(g Geometry, opts Options) (*Searcher, error) {
	scanner, err := NewScanner(g)
	if err != nil {
		return nil, err
	}
	if opts.Table == nil {
		opts.Table = DefaultScoreTable
	}
	eval, err := NewEvaluator(scanner, opts.Table)
	if err != nil {
		return nil, err
	}
	if opts.Depth <= 0 {
		opts.Depth = DefaultDepth
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	win := DefaultWinScore
	if b := eval.Bound(); b >= win {
		win = b + 1
	}
	return &Searcher{geo: g, scanner: scanner, eval: eval, winScore: win, opts: opts}, nil
}

func (s *Searcher) Geometry() Geometry { return s.geo }
func (s *Searcher) Scanner() *Scanner { return s.scanner }
func (s *Searcher) Evaluator() *Evaluator { return s.eval }
func (s *Searcher) Depth() int { return s.opts.Depth }
func (s *Searcher) WinScore() int { return s.winScore }

// WithDepth returns a copy of s searching to a different depth.
func (s *Searcher) WithDepth(depth int) *Searcher {
	c := *s
	if depth > 0 {
		c.opts.Depth = depth
	}
	return &c
}

// search carries the per-call counters so sibling goroutines never share state.
type search struct {
	*Searcher
	ctx     context.Context
	stats   Stats
	aborted bool
}

func (s *Searcher) newSearch(ctx context.Context) *search {
	return &search{Searcher: s, ctx: ctx}
}

func (t *search) poll() bool {
	if t.aborted {
		return true
	}
	if t.stats.Nodes%pollEvery == 0 && t.ctx.Err() != nil {
		t.aborted = true
	}
	return t.aborted
}

// terminal scores a leaf: decided positions get the win constant signed to player.
func (t *search) terminal(p Position, depth int, player Player) (int, bool) {
	if winner, ok := t.scanner.Winner(p); ok {
		score := t.winScore
		if t.opts.PreferFastWins {
			score += depth
		}
		if winner != player {
			score = -score
		}
		return score, true
	}
	if depth == 0 {
		return t.eval.Score(p, player), true
	}
	return 0, false
}

func (t *search) negamax(p Position, depth int, player Player, alpha, beta int) int {
	t.stats.Nodes++
	if t.poll() {
		return 0
	}
	if score, ok := t.terminal(p, depth, player); ok {
		return score
	}
	moves := Successors(t.geo, p, player)
	if len(moves) == 0 {
		return 0
	}
	value := -infinity
	for _, m := range moves {
		value = max(value, -t.negamax(m.Position, depth-1, player.Opponent(), -beta, -alpha))
		alpha = max(alpha, value)
		if alpha >= beta {
			t.stats.Cutoffs++
			break
		}
	}
	return value
}

func (t *search) plain(p Position, depth int, player Player) int {
	t.stats.Nodes++
	if score, ok := t.terminal(p, depth, player); ok {
		return score
	}
	moves := Successors(t.geo, p, player)
	if len(moves) == 0 {
		return 0
	}
	value := -infinity
	for _, m := range moves {
		value = max(value, -t.plain(m.Position, depth-1, player.Opponent()))
	}
	return value
}

// Negamax evaluates p from player's side with alpha-beta pruning inside [alpha, beta].
func (s *Searcher) Negamax(p Position, depth int, player Player, alpha, beta int) (int, Stats) {
	t := s.newSearch(context.Background())
	v := t.negamax(p, depth, player, alpha, beta)
	return v, t.stats
}

// FullWindow evaluates p with an unbounded window; the result is exact for depth.
func (s *Searcher) FullWindow(p Position, depth int, player Player) (int, Stats) {
	return s.Negamax(p, depth, player, -infinity, infinity)
}

// PlainNegamax evaluates p without pruning.
func (s *Searcher) PlainNegamax(p Position, depth int, player Player) (int, Stats) {
	t := s.newSearch(context.Background())
	v := t.plain(p, depth, player)
	return v, t.stats
}

// BestMove picks player's move in p. Ties go to the lowest column.
func (s *Searcher) BestMove(ctx context.Context, p Position, player Player) (Result, error) {
	if !player.Valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	if err := s.geo.Validate(p); err != nil {
		return Result{}, err
	}
	if winner, ok := s.scanner.Winner(p); ok {
		return Result{}, fmt.Errorf("%w: %s already won", ErrNoMoves, winner)
	}
	moves := Successors(s.geo, p, player)
	if len(moves) == 0 {
		return Result{}, fmt.Errorf("%w: board is full", ErrNoMoves)
	}

	start := time.Now()
	if s.opts.TimeBudget <= 0 {
		res, err := s.searchRoot(ctx, moves, player, s.opts.Depth)
		if err != nil {
			return Result{}, err
		}
		res.Stats.Elapsed = time.Since(start)
		s.opts.Observer.DepthCompleted(res.Depth, res)
		return res, nil
	}

	deadline, cancel := context.WithTimeout(ctx, s.opts.TimeBudget)
	defer cancel()

	// depth 1 always completes so there is a move to fall back on
	best, err := s.searchRoot(context.Background(), moves, player, 1)
	if err != nil {
		return Result{}, err
	}
	total := best.Stats
	s.opts.Observer.DepthCompleted(1, best)
	for depth := 2; depth <= s.opts.Depth; depth++ {
		res, err := s.searchRoot(deadline, moves, player, depth)
		total.add(res.Stats)
		if err != nil {
			break
		}
		best = res
		s.opts.Observer.DepthCompleted(depth, res)
		if abs(res.Score) >= s.winScore {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	best.Stats = total
	best.Stats.Elapsed = time.Since(start)
	return best, nil
}

func (s *Searcher) searchRoot(ctx context.Context, moves []Move, player Player, depth int) (Result, error) {
	if s.opts.Parallel && len(moves) > 1 {
		return s.searchRootParallel(ctx, moves, player, depth)
	}
	t := s.newSearch(ctx)
	res := Result{Depth: depth, Score: -infinity, Scores: make([]ColumnScore, 0, len(moves))}
	alpha := -infinity
	for _, m := range moves {
		v := -t.negamax(m.Position, depth-1, player.Opponent(), -infinity, -alpha)
		if t.aborted {
			res.Stats = t.stats
			return res, ctx.Err()
		}
		res.Scores = append(res.Scores, ColumnScore{Column: m.Column, Score: v, Exact: v > alpha || alpha == -infinity})
		s.opts.Observer.CandidateScored(depth, m, v)
		if v > res.Score {
			res.Score = v
			res.Move = m
		}
		alpha = max(alpha, v)
	}
	res.Stats = t.stats
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// searchRootParallel gives every root child the full window on its own
// goroutine. Nothing is pruned across siblings, so scores are exact.
func (s *Searcher) searchRootParallel(ctx context.Context, moves []Move, player Player, depth int) (Result, error) {
	scores := make([]int, len(moves))
	stats := make([]Stats, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range moves {
		g.Go(func() error {
			t := s.newSearch(gctx)
			scores[i] = -t.negamax(m.Position, depth-1, player.Opponent(), -infinity, infinity)
			stats[i] = t.stats
			if t.aborted {
				return errAborted
			}
			return nil
		})
	}
	err := g.Wait()

	res := Result{Depth: depth, Score: -infinity, Scores: make([]ColumnScore, 0, len(moves))}
	for i, m := range moves {
		res.Stats.add(stats[i])
		if err != nil {
			continue
		}
		res.Scores = append(res.Scores, ColumnScore{Column: m.Column, Score: scores[i], Exact: true})
		s.opts.Observer.CandidateScored(depth, m, scores[i])
		if scores[i] > res.Score {
			res.Score = scores[i]
			res.Move = m
		}
	}
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
		return res, err
	}
	return res, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
