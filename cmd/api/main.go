package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/llwatkin/connect-4-starter/internal/config"
	"github.com/llwatkin/connect-4-starter/internal/repository/redis"
	"github.com/llwatkin/connect-4-starter/internal/service/bot"
	"github.com/llwatkin/connect-4-starter/internal/service/cleanup"
	"github.com/llwatkin/connect-4-starter/internal/service/game"
	transportHttp "github.com/llwatkin/connect-4-starter/internal/transport/http"
	"github.com/llwatkin/connect-4-starter/internal/transport/websocket"
	"github.com/llwatkin/connect-4-starter/pkg/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()
	if envErr != nil {
		envErr = godotenv.Load("../.env")
	}

	logger, err := config.NewLogger(config.GetEnv("APP_ENV", "production"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	if envErr != nil {
		logger.Info("No .env file found")
	}

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// 2. Redis best-move cache (optional)
	botOpts := []bot.Option{bot.WithMetrics(bot.NewMetrics(reg))}
	if client := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword, logger); client != nil {
		defer client.Close()
		botOpts = append(botOpts, bot.WithCache(redis.NewRedisCache(client), cfg.BestMoveCacheTTL))
	}

	// 3. Services
	botService, err := bot.NewService(cfg.Engine, logger, botOpts...)
	if err != nil {
		logger.Fatal("Failed to build engine", zap.Error(err))
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.PlayerTokenTTL)
	sessionManager := game.NewSessionManager(cfg.Engine.Geometry, botService, issuer, logger)

	connManager := websocket.NewConnectionManager(logger)
	sessionManager.SetNotifier(connManager)
	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.AllowedOrigins, logger)

	// 4. Background workers
	cleanup.NewWorker(sessionManager, cfg.CleanupInterval, cfg.SessionIdleTimeout, logger).Start(ctx)

	// 5. Router
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		SessionManager: sessionManager,
		Bot:            botService,
		WebSocket:      wsHandler.HandleWebSocket,
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("geometry", cfg.Engine.Geometry.String()),
			zap.Int("depth", cfg.Engine.Depth))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
