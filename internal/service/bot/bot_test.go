package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/llwatkin/connect-4-starter/internal/config"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	c.sets++
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		Geometry:   engine.Standard,
		Depth:      3,
		ScoreTable: engine.DefaultScoreTable,
	}
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	s, err := NewService(testConfig(), zap.NewNop(), opts...)
	require.NoError(t, err)
	return s
}

func gameAt(t *testing.T, pos string) *domain.Game {
	t.Helper()
	g, err := domain.GameFromPosition(engine.Standard, engine.Position(pos))
	require.NoError(t, err)
	return g
}

const empty = "000000"

// Second player to move with three stacked in column 4; first player threatens column 2.
const winOrBlock = empty + empty + "000111" + empty + "000222" + empty + "000001"

// Second player to move, first player threatens column 0, no win available.
const mustBlock = "000111" + "000022" + empty + empty + empty + empty + empty

func TestPlay_TakesWinBeforeBlocking(t *testing.T) {
	s := newTestService(t)
	for _, d := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		t.Run(string(d), func(t *testing.T) {
			g := gameAt(t, winOrBlock)
			decision, err := s.Play(context.Background(), g, d)
			require.NoError(t, err)
			assert.Equal(t, 4, decision.Column)
			assert.Equal(t, 2, decision.Row)
			assert.Equal(t, d, decision.Difficulty)
			assert.Equal(t, domain.StatusWon, g.Status)
			assert.Equal(t, domain.Player2, g.WinnerID)
		})
	}
}

func TestPlay_Blocks(t *testing.T) {
	s := newTestService(t)
	for _, d := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		t.Run(string(d), func(t *testing.T) {
			g := gameAt(t, mustBlock)
			decision, err := s.Play(context.Background(), g, d)
			require.NoError(t, err)
			assert.Equal(t, 0, decision.Column)
			assert.Equal(t, domain.StatusActive, g.Status)
			assert.Equal(t, domain.Player1, g.CurrentPlayer)
		})
	}
}

func TestPlay_EasyIsSeeded(t *testing.T) {
	a := newTestService(t)
	b := newTestService(t)
	for i := 0; i < 5; i++ {
		ga, gb := domain.NewGame(engine.Standard), domain.NewGame(engine.Standard)
		da, err := a.Play(context.Background(), ga, domain.DifficultyEasy)
		require.NoError(t, err)
		db, err := b.Play(context.Background(), gb, domain.DifficultyEasy)
		require.NoError(t, err)
		assert.Equal(t, da.Column, db.Column)
		assert.GreaterOrEqual(t, da.Column, 0)
		assert.Less(t, da.Column, engine.Standard.Columns)
	}
}

func TestPlay_UnknownDifficultyFallsBackToMedium(t *testing.T) {
	s := newTestService(t)
	decision, err := s.Play(context.Background(), domain.NewGame(engine.Standard), "nightmare")
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyMedium, decision.Difficulty)
}

func TestPlay_FinishedGame(t *testing.T) {
	s := newTestService(t)
	g := gameAt(t, "002222"+"000011"+"000001"+"000001"+empty+empty+empty)
	_, err := s.Play(context.Background(), g, domain.DifficultyHard)
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestPlay_HardUsesCache(t *testing.T) {
	cache := newFakeCache()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	s := newTestService(t, WithCache(cache, time.Minute), WithMetrics(metrics))

	first, err := s.Play(context.Background(), gameAt(t, mustBlock), domain.DifficultyHard)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.sets)

	second, err := s.Play(context.Background(), gameAt(t, mustBlock), domain.DifficultyHard)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Column, second.Column)
	assert.Equal(t, first.Score, second.Score)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.MovesTotal.WithLabelValues("hard")))
}

func TestPlay_CacheFailuresAreMisses(t *testing.T) {
	t.Run("get error", func(t *testing.T) {
		cache := newFakeCache()
		cache.getErr = errors.New("connection refused")
		s := newTestService(t, WithCache(cache, time.Minute))

		decision, err := s.Play(context.Background(), gameAt(t, mustBlock), domain.DifficultyHard)
		require.NoError(t, err)
		assert.False(t, decision.Cached)
		assert.Equal(t, 0, decision.Column)
	})

	t.Run("unusable entry", func(t *testing.T) {
		cache := newFakeCache()
		s := newTestService(t, WithCache(cache, time.Minute))
		g := gameAt(t, mustBlock)
		key := s.cacheKey(g.Position(), engine.SecondPlayer, s.hard.Depth())

		for _, entry := range []string{"not json", `{"column":9}`} {
			cache.data[key] = entry
			decision, err := s.Play(context.Background(), gameAt(t, mustBlock), domain.DifficultyHard)
			require.NoError(t, err)
			assert.False(t, decision.Cached, entry)
			assert.Equal(t, 0, decision.Column)
		}
	})
}

func TestPlay_MediumSkipsCache(t *testing.T) {
	cache := newFakeCache()
	s := newTestService(t, WithCache(cache, time.Minute))
	_, err := s.Play(context.Background(), gameAt(t, mustBlock), domain.DifficultyMedium)
	require.NoError(t, err)
	assert.Zero(t, cache.sets)
}

func TestAnalyze(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	t.Run("open position", func(t *testing.T) {
		a, err := s.Analyze(ctx, engine.Position(mustBlock), engine.SecondPlayer, 0)
		require.NoError(t, err)
		require.NotNil(t, a.Result)
		assert.Equal(t, domain.Empty, a.Winner)
		assert.Equal(t, 0, a.Result.Move.Column)
		assert.Len(t, a.Result.Scores, engine.Standard.Columns)
		for _, cs := range a.Result.Scores {
			assert.True(t, cs.Exact, "column %d", cs.Column)
		}
	})

	t.Run("won position", func(t *testing.T) {
		a, err := s.Analyze(ctx, engine.Position("002222"+"000011"+"000001"+"000001"+empty+empty+empty), engine.FirstPlayer, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.Player2, a.Winner)
		assert.Nil(t, a.Result)
	})

	t.Run("full board", func(t *testing.T) {
		draw := "112211" + "112211" + "221122" + "112211" + "221122" + "121212" + "221122"
		a, err := s.Analyze(ctx, engine.Position(draw), engine.FirstPlayer, 0)
		require.NoError(t, err)
		assert.True(t, a.Full)
		assert.Nil(t, a.Result)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := s.Analyze(ctx, engine.Position(mustBlock), engine.Player(7), 0)
		assert.ErrorIs(t, err, engine.ErrInvalidPlayer)

		_, err = s.Analyze(ctx, "123", engine.FirstPlayer, 0)
		assert.ErrorIs(t, err, engine.ErrMalformedPosition)
	})
}
