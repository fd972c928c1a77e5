package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/llwatkin/connect-4-starter/internal/service/bot"
)

type AnalyzeHandler struct {
	Bot *bot.Service
}

func NewAnalyzeHandler(b *bot.Service) *AnalyzeHandler {
	return &AnalyzeHandler{Bot: b}
}

type analyzeRequest struct {
	Position string          `json:"position" binding:"required"`
	Player   domain.PlayerID `json:"player"`
	Depth    int             `json:"depth"`
}

// Analyze searches an arbitrary position. Player defaults to the side to move.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position is required"})
		return
	}

	pos := engine.Position(req.Position)
	player := pos.ToMove()
	switch req.Player {
	case domain.Empty:
	case domain.Player1, domain.Player2:
		player = req.Player.Engine()
	default:
		writeError(c, engine.ErrInvalidPlayer)
		return
	}
	if req.Depth < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must not be negative"})
		return
	}

	analysis, err := h.Bot.Analyze(c.Request.Context(), pos, player, req.Depth)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
