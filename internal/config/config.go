package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/llwatkin/connect-4-starter/internal/engine"
	"go.uber.org/zap"
)

type EngineConfig struct {
	Geometry   engine.Geometry
	Depth      int
	TimeBudget time.Duration
	Parallel   bool
	ScoreTable engine.ScoreTable

	PreferFastWins bool
}

type Config struct {
	Port               string
	Env                string
	AllowedOrigins     []string
	FrontendURL        string
	JWTSecret          string
	PlayerTokenTTL     time.Duration
	RedisURL           string
	RedisPassword      string
	BestMoveCacheTTL   time.Duration
	SessionIdleTimeout time.Duration
	CleanupInterval    time.Duration
	Engine             EngineConfig
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// NewLogger builds the process logger for APP_ENV.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// LoadConfig reads the environment. Malformed numbers fall back to defaults with
// a warning; a malformed geometry or score table is an error.
func LoadConfig(logger *zap.Logger) (*Config, error) {
	env := envReader{logger: logger}

	frontendURL := env.GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(env.GetEnv("ALLOWED_ORIGINS", ""), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	geometry := engine.Geometry{
		Columns:       env.GetEnvAsInt("BOARD_COLUMNS", engine.Standard.Columns),
		Rows:          env.GetEnvAsInt("BOARD_ROWS", engine.Standard.Rows),
		ConnectLength: env.GetEnvAsInt("CONNECT_LENGTH", engine.Standard.ConnectLength),
	}
	if err := geometry.Check(); err != nil {
		return nil, err
	}

	table, err := engine.ParseScoreTable(env.GetEnv("AI_SCORE_TABLE", engine.DefaultScoreTable.String()))
	if err != nil {
		return nil, fmt.Errorf("AI_SCORE_TABLE: %w", err)
	}
	if len(table) > geometry.ConnectLength {
		return nil, fmt.Errorf("AI_SCORE_TABLE: %d entries for connect length %d", len(table), geometry.ConnectLength)
	}

	return &Config{
		Port:               env.GetEnv("PORT", "8080"),
		Env:                env.GetEnv("APP_ENV", "production"),
		AllowedOrigins:     allowedOrigins,
		FrontendURL:        frontendURL,
		JWTSecret:          env.GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		PlayerTokenTTL:     env.GetEnvAsMinutes("PLAYER_TOKEN_TTL_MINUTES", 120),
		RedisURL:           env.GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:      env.GetEnv("REDIS_PASSWORD", ""),
		BestMoveCacheTTL:   env.GetEnvAsMinutes("BEST_MOVE_CACHE_TTL_MINUTES", 60),
		SessionIdleTimeout: env.GetEnvAsMinutes("SESSION_IDLE_TIMEOUT_MINUTES", 30),
		CleanupInterval:    env.GetEnvAsMinutes("CLEANUP_INTERVAL_MINUTES", 5),
		Engine: EngineConfig{
			Geometry:   geometry,
			Depth:      env.GetEnvAsInt("AI_SEARCH_DEPTH", engine.DefaultDepth),
			TimeBudget: time.Duration(env.GetEnvAsInt("AI_TIME_BUDGET_MS", 0)) * time.Millisecond,
			Parallel:   env.GetEnvAsBool("AI_PARALLEL_ROOT", false),
			ScoreTable: table,

			PreferFastWins: env.GetEnvAsBool("AI_PREFER_FAST_WINS", false),
		},
	}, nil
}

type envReader struct {
	logger *zap.Logger
}

func (e envReader) GetEnv(key, defaultValue string) string {
	return GetEnv(key, defaultValue)
}

func (e envReader) GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.logger.Warn("Invalid integer value, using default",
			zap.String("key", key), zap.String("value", valueStr), zap.Int("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvAsMinutes reads a positive number of minutes. Zero and negative values
// fall back to the default.
func (e envReader) GetEnvAsMinutes(key string, defaultMinutes int) time.Duration {
	minutes := e.GetEnvAsInt(key, defaultMinutes)
	if minutes <= 0 {
		e.logger.Warn("Non-positive duration, using default",
			zap.String("key", key), zap.Int("value", minutes), zap.Int("default", defaultMinutes))
		minutes = defaultMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (e envReader) GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		e.logger.Warn("Invalid boolean value, using default",
			zap.String("key", key), zap.String("value", valueStr), zap.Bool("default", defaultValue))
		return defaultValue
	}
	return value
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
