package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/llwatkin/connect-4-starter/internal/service/game"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, game.ErrGameInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrColumnFull),
		errors.Is(err, domain.ErrUnknownDifficulty),
		errors.Is(err, engine.ErrMalformedPosition),
		errors.Is(err, engine.ErrGravity),
		errors.Is(err, engine.ErrInvalidPlayer):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
