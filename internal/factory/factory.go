package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/evhartley/fiction-passport/internal/dependencies/clock"
	"github.com/evhartley/fiction-passport/internal/services/auth"
	"github.com/evhartley/fiction-passport/internal/services/plan"
	"github.com/evhartley/fiction-passport/internal/services/stamp"
	"github.com/evhartley/fiction-passport/internal/session"
	memorysession "github.com/evhartley/fiction-passport/internal/session/memory"
	redissession "github.com/evhartley/fiction-passport/internal/session/redis"
	"github.com/evhartley/fiction-passport/internal/storage"
	"github.com/evhartley/fiction-passport/internal/storage/sqlite"
)

// Session backend constants
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Sessions session.Store

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService  *auth.Service
	StampService *stamp.Service
	PlanService  *plan.Service
}

// Config holds configuration for the application factory
type Config struct {
	// DatabasePath is the SQLite database file; ":memory:" for tests
	DatabasePath string
	// SessionBackend selects the session store ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionBackend string
	// RedisConfig holds Redis connection settings (required if SessionBackend is "redis")
	RedisConfig *redissession.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// PlanConfig holds the Gemini planner settings (optional)
	PlanConfig plan.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if cfg.DatabasePath == "" {
		return nil, errors.New("DatabasePath is required")
	}
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var sessions session.Store
	backend := cfg.SessionBackend
	if backend == "" {
		backend = SessionBackendMemory
	}

	switch backend {
	case SessionBackendMemory:
		sessions = memorysession.New()
	case SessionBackendRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when SessionBackend is redis")
		}
		redisStore, err := redissession.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		sessions = redisStore
	default:
		return nil, errors.New("invalid SessionBackend: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, sessions, clk, authCfg, cfg.PlanConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, sessions session.Store, clk clock.Clock, authCfg auth.Config, planCfg plan.Config, logger *slog.Logger) *App {
	authService := auth.New(store, sessions, clk, authCfg, logger)
	stampService := stamp.New(store, clk, logger)
	planService := plan.New(planCfg, logger)

	return &App{
		Storage:      store,
		Sessions:     sessions,
		Clock:        clk,
		AuthService:  authService,
		StampService: stampService,
		PlanService:  planService,
	}
}

// Close releases the app's storage and session resources
func (a *App) Close() error {
	var errs []error
	if err := a.Sessions.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
