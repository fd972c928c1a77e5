package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/llwatkin/connect-4-starter/internal/service/bot"
	"github.com/llwatkin/connect-4-starter/internal/service/game"
	"github.com/llwatkin/connect-4-starter/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	SessionManager *game.SessionManager
	Bot            *bot.Service
	WebSocket      gin.HandlerFunc
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gameHandler := NewGameHandler(cfg.SessionManager, cfg.Logger)
	analyzeHandler := NewAnalyzeHandler(cfg.Bot)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.POST("/games", gameHandler.CreateGame)
		api.GET("/games/:id", gameHandler.GetGame)
		api.POST("/analyze", analyzeHandler.Analyze)
	}

	// Moves need the player token issued with the game
	player := api.Group("/games/:id")
	player.Use(middleware.PlayerAuth(cfg.SessionManager))
	{
		player.POST("/moves", gameHandler.MakeMove)
		player.POST("/rematch", gameHandler.Rematch)
	}

	if cfg.WebSocket != nil {
		router.GET("/ws/games/:id", cfg.WebSocket)
	}

	return router
}
