package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/quizforge/mathduel/internal/api/sse"
	"github.com/quizforge/mathduel/internal/dependencies/clock"
	"github.com/quizforge/mathduel/internal/dependencies/random"
	"github.com/quizforge/mathduel/internal/services/auth"
	"github.com/quizforge/mathduel/internal/services/bot"
	"github.com/quizforge/mathduel/internal/services/question"
	"github.com/quizforge/mathduel/internal/services/ranking"
	"github.com/quizforge/mathduel/internal/services/session"
	"github.com/quizforge/mathduel/internal/services/timer"
	"github.com/quizforge/mathduel/internal/storage"
	"github.com/quizforge/mathduel/internal/storage/memory"
	redisstorage "github.com/quizforge/mathduel/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	QuestionGenerator *question.Generator
	RankingService    *ranking.Service
	TimerManager      *timer.Manager
	SessionController *session.Controller
	BotService        *bot.Service
	AuthService       *auth.Service
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// BotSkill tunes bot accuracy and think time (optional)
	// If nil, defaults to bot.DefaultSkillConfig()
	BotSkill *bot.SkillConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	botSkill := cfg.BotSkill
	if botSkill == nil {
		defaults := bot.DefaultSkillConfig()
		botSkill = &defaults
	}

	return newWithDependencies(store, clk, rnd, authCfg, *botSkill, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, botSkill bot.SkillConfig, logger *slog.Logger) *App {
	// Create services
	questionGenerator := question.New(rnd)
	rankingService := ranking.New()
	timerManager := timer.New(logger)

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	sessionController := session.NewController(
		store,
		questionGenerator,
		rankingService,
		clk,
		rnd,
		broadcaster,
		timerManager,
		logger,
	)

	strategies := map[string]bot.Strategy{
		bot.DefaultStrategy: bot.NewSkillStrategy(rnd, botSkill),
	}
	botService := bot.NewService(store, sessionController, strategies, clk, rnd, logger)

	authService := auth.New(store, clk, rnd, authCfg)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		QuestionGenerator: questionGenerator,
		RankingService:    rankingService,
		TimerManager:      timerManager,
		SessionController: sessionController,
		BotService:        botService,
		AuthService:       authService,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
	}
}

// Close releases resources held by the app
func (a *App) Close() error {
	a.TimerManager.Stop()
	if closer, ok := a.Storage.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
