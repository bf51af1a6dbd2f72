package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evhartley/fiction-passport/internal/config"
	"github.com/evhartley/fiction-passport/internal/factory"
	"github.com/evhartley/fiction-passport/internal/httpserver"
	"github.com/evhartley/fiction-passport/internal/services/auth"
	"github.com/evhartley/fiction-passport/internal/services/plan"
	redissession "github.com/evhartley/fiction-passport/internal/session/redis"
	"github.com/evhartley/fiction-passport/internal/storage/sqlite"
	"github.com/evhartley/fiction-passport/internal/web"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "fiction-passport",
		Short:         "A travel passport for places out of fiction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(serveCommand(), migrateCommand())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			app, err := factory.New(factoryConfig(cfg, logger))
			if err != nil {
				return err
			}
			defer app.Close()

			router := web.NewRouter(web.RouterConfig{
				Logger:            logger,
				AuthService:       app.AuthService,
				StampService:      app.StampService,
				PlanService:       app.PlanService,
				StaticDir:         findStaticDir(),
				AuthRatePerMinute: cfg.Server.AuthRatePerMinute,
			})

			server := httpserver.New(router, cfg.Server, logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				logger.Info("shutdown signal received")
				cancel()
			}()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return server.Shutdown(context.Background())
			}
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Opening the store runs embedded migrations
			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			logger.Info("migrations applied", slog.String("database", cfg.Database.Path))
			return nil
		},
	}
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		DatabasePath:   cfg.Database.Path,
		SessionBackend: cfg.Session.Backend,
		AuthConfig:     auth.Config{SessionDuration: cfg.Session.TTL},
		PlanConfig: plan.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout,
		},
		Logger: logger,
	}

	if cfg.Session.Backend == factory.SessionBackendRedis {
		redisCfg := redissession.DefaultConfig()
		redisCfg.URL = cfg.Session.RedisURL
		redisCfg.SessionTTL = cfg.Session.TTL
		fc.RedisConfig = &redisCfg
	}

	return fc
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		"./internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return "internal/web/static"
}
