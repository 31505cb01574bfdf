// Package main is the entrypoint for the rewriter API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/bentossell/rewriter-cursor/internal/completion"
	"github.com/bentossell/rewriter-cursor/internal/config"
	"github.com/bentossell/rewriter-cursor/internal/handler"
	"github.com/bentossell/rewriter-cursor/internal/metrics"
	"github.com/bentossell/rewriter-cursor/internal/repository"
	"github.com/bentossell/rewriter-cursor/internal/server"
	"github.com/bentossell/rewriter-cursor/internal/service"
	"github.com/bentossell/rewriter-cursor/internal/session"
)

const (
	connectAttempts = 6
	connectBackoff  = 500 * time.Millisecond
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.MigrateOnStart {
		err := withRetry(ctx, logger, "migrate", func(ctx context.Context) error {
			return repository.Migrate(ctx, cfg.DatabaseURL)
		})
		if err != nil {
			return errors.New("migrate: " + sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("migrations applied")
	}

	var repo *repository.Repository
	err := withRetry(ctx, logger, "postgres", func(ctx context.Context) error {
		var err error
		repo, err = repository.New(ctx, cfg.DatabaseURL)
		return err
	})
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", cfg.RedactedDatabaseURL()),
		)
		return errors.New("connect to database")
	}
	logger.Info("connected to database")

	var redisClient *redis.Client
	err = withRetry(ctx, logger, "redis", func(ctx context.Context) error {
		var err error
		redisClient, err = session.Connect(ctx, cfg.RedisURL)
		return err
	})
	if err != nil {
		repo.Close()
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return errors.New("connect to redis")
	}
	sessions := session.NewStore(redisClient)
	logger.Info("connected to Redis")

	llm, err := completion.New(ctx, completion.Config{
		Provider:      completion.Provider(cfg.CompletionProvider),
		Timeout:       cfg.CompletionTimeout,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
	})
	if err != nil {
		_ = sessions.Close()
		repo.Close()
		return fmt.Errorf("init completion client: %w", err)
	}

	recorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, sessions, service.AccountConfig{
		Secret:     []byte(cfg.SessionSecret),
		SessionTTL: cfg.SessionTTL,
	}, recorder, logger)
	rewriteService := service.NewRewriteService(repo, llm, recorder, logger)

	r := setupRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		accounts: accountService,
		rewrites: rewriteService,
		health:   handler.NewHealthHandler(repo, sessions),
		metrics:  handler.NewMetricsHandler(recorder),
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return sessions.Close()
	})
	srv.OnShutdown("auth-events", func(context.Context) error {
		accountService.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"completion_provider", cfg.CompletionProvider,
	)

	return srv.Run()
}

// withRetry retries fn with Fibonacci backoff so the server can start
// before its dependencies finish booting.
func withRetry(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewFibonacci(connectBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			logger.Warn("dependency_unavailable", "name", name, "attempt", attempt)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
