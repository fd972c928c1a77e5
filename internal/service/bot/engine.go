package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/llwatkin/connect-4-starter/internal/config"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"go.uber.org/zap"
)

const (
	mediumDepth    = 4
	cacheKeyPrefix = "c4:best:"
)

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// Decision is the move the bot made and how it got there.
type Decision struct {
	Column     int               `json:"column"`
	Row        int               `json:"row"`
	Score      int               `json:"score"`
	Depth      int               `json:"depth"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Cached     bool              `json:"cached"`
	Stats      engine.Stats      `json:"stats"`
}

type cachedMove struct {
	Column int `json:"column"`
	Score  int `json:"score"`
	Depth  int `json:"depth"`
}

// Service picks moves for engine-controlled players.
type Service struct {
	geo      engine.Geometry
	fastWins bool
	scanner  *engine.Scanner
	hard     *engine.Searcher
	medium   *engine.Searcher
	analysis *engine.Searcher
	cache    CacheRepository // Optional, can be nil
	cacheTTL time.Duration
	metrics  *Metrics
	logger   *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Service)

func WithCache(cache CacheRepository, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

func NewService(cfg config.EngineConfig, logger *zap.Logger, opts ...Option) (*Service, error) {
	observer := &zapObserver{logger: logger}
	hard, err := engine.NewSearcher(cfg.Geometry, engine.Options{
		Depth:      cfg.Depth,
		Table:      cfg.ScoreTable,
		TimeBudget: cfg.TimeBudget,
		Parallel:   cfg.Parallel,
		Observer:   observer,

		PreferFastWins: cfg.PreferFastWins,
	})
	if err != nil {
		return nil, err
	}
	analysis, err := engine.NewSearcher(cfg.Geometry, engine.Options{
		Depth:    cfg.Depth,
		Table:    cfg.ScoreTable,
		Parallel: true,
		Observer: observer,

		PreferFastWins: cfg.PreferFastWins,
	})
	if err != nil {
		return nil, err
	}

	s := &Service{
		geo:      cfg.Geometry,
		fastWins: cfg.PreferFastWins,
		scanner:  hard.Scanner(),
		hard:     hard,
		medium:   hard.WithDepth(min(mediumDepth, hard.Depth())),
		analysis: analysis,
		logger:   logger,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Play makes the move for whoever is on turn in game.
func (s *Service) Play(ctx context.Context, game *domain.Game, difficulty domain.Difficulty) (Decision, error) {
	if game.IsFinished() {
		return Decision{}, domain.ErrGameOver
	}
	player := game.CurrentPlayer.Engine()
	start := time.Now()

	var (
		decision Decision
		err      error
	)
	switch difficulty {
	case domain.DifficultyEasy:
		decision, err = s.playEasy(game, player)
	case domain.DifficultyHard:
		decision, err = s.playSearch(ctx, game, player, s.hard, true)
	default:
		difficulty = domain.DifficultyMedium
		decision, err = s.playSearch(ctx, game, player, s.medium, false)
	}
	if err != nil {
		s.logger.Error("[BOT] Failed to choose move", zap.String("difficulty", string(difficulty)), zap.Error(err))
		return Decision{}, err
	}
	decision.Difficulty = difficulty

	s.metrics.observeSearch(difficulty, decision, time.Since(start))
	s.logger.Info("[BOT] Played move",
		zap.String("difficulty", string(difficulty)),
		zap.Int("column", decision.Column),
		zap.Int("row", decision.Row),
		zap.Int("score", decision.Score),
		zap.Int64("nodes", decision.Stats.Nodes),
		zap.Bool("cached", decision.Cached))
	return decision, nil
}

func (s *Service) playSearch(ctx context.Context, game *domain.Game, player engine.Player, searcher *engine.Searcher, useCache bool) (Decision, error) {
	pos := game.Position()
	if useCache && s.cache != nil {
		if hit, ok := s.lookup(ctx, pos, player, searcher.Depth()); ok {
			if !game.ApplyMove(hit.Column) {
				return Decision{}, fmt.Errorf("%w: cached column %d", engine.ErrMoveRejected, hit.Column)
			}
			return Decision{Column: hit.Column, Row: game.LastMove.Row, Score: hit.Score, Depth: hit.Depth, Cached: true}, nil
		}
	}

	res, err := searcher.PlayTurn(ctx, game, player)
	if err != nil {
		return Decision{}, err
	}
	if useCache && s.cache != nil {
		s.store(ctx, pos, player, searcher.Depth(), res)
	}
	return Decision{
		Column: res.Move.Column,
		Row:    res.Move.Row,
		Score:  res.Score,
		Depth:  res.Depth,
		Stats:  res.Stats,
	}, nil
}

func (s *Service) cacheKey(pos engine.Position, player engine.Player, depth int) string {
	mode := "const"
	if s.fastWins {
		mode = "fast"
	}
	return cacheKeyPrefix + s.geo.String() + ":" + s.hard.Evaluator().Table().String() + ":" + mode + ":" +
		strconv.Itoa(depth) + ":" + strconv.Itoa(int(player)) + ":" + string(pos)
}

// lookup treats every cache failure as a miss.
func (s *Service) lookup(ctx context.Context, pos engine.Position, player engine.Player, depth int) (cachedMove, bool) {
	raw, err := s.cache.Get(ctx, s.cacheKey(pos, player, depth))
	if err != nil {
		s.metrics.cacheResult(false)
		return cachedMove{}, false
	}
	var hit cachedMove
	if err := json.Unmarshal([]byte(raw), &hit); err != nil {
		s.logger.Warn("[BOT] Discarding unreadable cache entry", zap.Error(err))
		s.metrics.cacheResult(false)
		return cachedMove{}, false
	}
	if _, ok := engine.LandingRow(s.geo, pos, hit.Column); !ok {
		s.metrics.cacheResult(false)
		return cachedMove{}, false
	}
	s.metrics.cacheResult(true)
	return hit, true
}

func (s *Service) store(ctx context.Context, pos engine.Position, player engine.Player, depth int, res engine.Result) {
	// a result cut short by the time budget is not worth sharing
	if res.Depth < depth {
		return
	}
	data, err := json.Marshal(cachedMove{Column: res.Move.Column, Score: res.Score, Depth: res.Depth})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(pos, player, depth), string(data), s.cacheTTL); err != nil {
		s.logger.Warn("[BOT] Failed to cache best move", zap.Error(err))
	}
}

// Analysis is the full search report for a position.
type Analysis struct {
	Position engine.Position `json:"position"`
	Player   domain.PlayerID `json:"player"`
	Winner   domain.PlayerID `json:"winner,omitempty"`
	Full     bool            `json:"full"`
	Result   *engine.Result  `json:"result,omitempty"`
}

// Analyze reports winner, fullness and, when the game is still open, the best
// move with exact per-column scores.
func (s *Service) Analyze(ctx context.Context, pos engine.Position, player engine.Player, depth int) (Analysis, error) {
	if !player.Valid() {
		return Analysis{}, engine.ErrInvalidPlayer
	}
	if err := s.geo.Validate(pos); err != nil {
		return Analysis{}, err
	}
	a := Analysis{Position: pos, Player: domain.FromEngine(player), Full: s.scanner.IsFull(pos)}
	if winner, ok := s.scanner.Winner(pos); ok {
		a.Winner = domain.FromEngine(winner)
		return a, nil
	}
	if a.Full {
		return a, nil
	}
	searcher := s.analysis
	if depth > 0 {
		searcher = searcher.WithDepth(min(depth, s.analysis.Depth()))
	}
	res, err := searcher.BestMove(ctx, pos, player)
	if err != nil {
		if errors.Is(err, engine.ErrNoMoves) {
			return a, nil
		}
		return Analysis{}, err
	}
	a.Result = &res
	return a, nil
}
