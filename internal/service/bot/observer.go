package bot

import (
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"go.uber.org/zap"
)

// zapObserver writes search progress at debug level.
type zapObserver struct {
	logger *zap.Logger
}

func (o *zapObserver) CandidateScored(depth int, move engine.Move, score int) {
	o.logger.Debug("[BOT] Candidate scored",
		zap.Int("depth", depth), zap.Int("column", move.Column), zap.Int("score", score))
}

func (o *zapObserver) DepthCompleted(depth int, result engine.Result) {
	o.logger.Debug("[BOT] Depth completed",
		zap.Int("depth", depth),
		zap.Int("column", result.Move.Column),
		zap.Int("score", result.Score),
		zap.Int64("nodes", result.Stats.Nodes),
		zap.Int64("cutoffs", result.Stats.Cutoffs))
}
