package bot

import (
	"time"

	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the bot's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	MovesTotal     *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	SearchNodes    *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MovesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connect4",
			Subsystem: "bot",
			Name:      "moves_total",
			Help:      "Moves played by the bot.",
		}, []string{"difficulty"}),
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "connect4",
			Subsystem: "bot",
			Name:      "search_duration_seconds",
			Help:      "Time spent choosing a move.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"difficulty"}),
		SearchNodes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "connect4",
			Subsystem: "bot",
			Name:      "search_nodes",
			Help:      "Nodes visited per search.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 10),
		}, []string{"difficulty"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connect4",
			Subsystem: "bot",
			Name:      "cache_lookups_total",
			Help:      "Best-move cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) observeSearch(difficulty domain.Difficulty, d Decision, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := string(difficulty)
	m.MovesTotal.WithLabelValues(label).Inc()
	m.SearchDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if !d.Cached && difficulty != domain.DifficultyEasy {
		m.SearchNodes.WithLabelValues(label).Observe(float64(d.Stats.Nodes))
	}
}

func (m *Metrics) cacheResult(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
