package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	dbadapter "github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/db"
	httpadapter "github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/handlers"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/identity"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/ratelimit"
	appservice "github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/app/service"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/config"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/translator"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	if err := translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	}); err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DbDriver), zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	if cfg.DbAutoMigrate {
		if err := dbadapter.EnsureSchema(db); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	keySet := identity.NewKeySet(identity.KeySetConfig{
		URL:          cfg.JwksURL,
		TTL:          cfg.JwksCacheTTL,
		FetchTimeout: cfg.JwksFetchTimeout,
	})
	verifier := identity.NewVerifier(keySet, identity.VerifierConfig{
		Issuer:   cfg.JwtIssuer,
		Audience: cfg.JwtAudience,
		Leeway:   cfg.JwtLeeway,
	})

	limiter, closeLimiter := newRateLimiter(cfg, logger)
	defer closeLimiter()

	taskRepository := dbadapter.NewTaskRepository(db)
	taskService := appservice.NewTaskService(taskRepository)

	router, err := httpadapter.NewRouter(httpadapter.RouterConfig{
		AllowedOrigins:  cfg.AllowedOrigins,
		TrustedProxies:  cfg.TrustedProxies,
		SecurityHeaders: cfg.EnableSecurityHeaders,
	}, logger, httpadapter.Dependencies{
		HealthHandler: handlers.NewHealthHandler(taskRepository, keySet),
		TaskHandler:   handlers.NewTaskHandler(taskService, cfg.StorageRetryBackoff),
		AuthHandler:   handlers.NewAuthHandler(),
		Verifier:      verifier,
		Authorizer:    appservice.NewOwnershipGuard(),
		Limiter:       limiter,
	})
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the key cache; a failure here is retried on the first request.
	if err := keySet.Refresh(ctx); err != nil {
		logger.Warn("initial jwks fetch failed", zap.String("url", cfg.JwksURL), zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err == nil {
		zapConfig.Level = level
	}
	return zapConfig.Build()
}

// newRateLimiter prefers a shared Redis window when REDIS_ADDR is set and
// falls back to per-process buckets. The returned func releases resources.
func newRateLimiter(cfg *config.Config, logger *zap.Logger) (ports.RateLimiter, func()) {
	if !cfg.RateLimitEnabled {
		logger.Info("rate limiting disabled")
		return nil, func() {}
	}

	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// Requests still pass when Redis is down; the middleware fails open.
		logger.Warn("redis unreachable, rate limiter will fail open until it recovers", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	return ratelimit.NewRedisLimiter(client, ratelimit.DefaultKeyPrefix, cfg.RateLimitPerMinute), closeClient
}
