package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/service/game"
	"github.com/llwatkin/connect-4-starter/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type GameHandler struct {
	SessionManager *game.SessionManager
	logger         *zap.Logger
}

func NewGameHandler(sm *game.SessionManager, logger *zap.Logger) *GameHandler {
	return &GameHandler{SessionManager: sm, logger: logger}
}

type createGameRequest struct {
	Difficulty string `json:"difficulty"`
	HumanFirst *bool  `json:"humanFirst"`
}

type createGameResponse struct {
	GameID string           `json:"gameId"`
	Token  string           `json:"token"`
	State  domain.GameState `json:"state"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

// CreateGame starts a game against the engine. The human moves first unless
// humanFirst is false.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}

	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}
	humanFirst := req.HumanFirst == nil || *req.HumanFirst

	session, token, err := h.SessionManager.CreateSession(c.Request.Context(), difficulty, humanFirst)
	if err != nil {
		h.logger.Error("[SESSION] Failed to create game", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{
		GameID: session.GameID,
		Token:  token,
		State:  session.State(),
	})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, ok := h.SessionManager.GetSessionByGameID(c.Param("id"))
	if !ok {
		writeError(c, domain.ErrGameNotFound)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *GameHandler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	state, err := h.SessionManager.HandleMove(c.Request.Context(), c.Param("id"), middleware.PlayerFrom(c), *req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) Rematch(c *gin.Context) {
	state, err := h.SessionManager.Rematch(c.Request.Context(), c.Param("id"), middleware.PlayerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
