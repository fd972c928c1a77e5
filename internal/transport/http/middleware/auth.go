package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/service/game"
)

const (
	PlayerKey = "player"
)

// PlayerAuth validates the bearer player token against the :id route param and
// stores the granted seat and session on the context.
func PlayerAuth(sm *game.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing player token"})
			return
		}

		_, player, err := sm.Authorize(c.Param("id"), tokenString)
		if errors.Is(err, domain.ErrGameNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid player token"})
			return
		}

		c.Set(PlayerKey, player)
		c.Next()
	}
}

func PlayerFrom(c *gin.Context) domain.PlayerID {
	if v, ok := c.Get(PlayerKey); ok {
		if p, ok := v.(domain.PlayerID); ok {
			return p
		}
	}
	return domain.Empty
}
