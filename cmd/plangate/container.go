package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/plangate/internal/async"
	"github.com/davidbz/plangate/internal/cache"
	rediscache "github.com/davidbz/plangate/internal/cache/redis"
	"github.com/davidbz/plangate/internal/config"
	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/http"
	"github.com/davidbz/plangate/internal/http/middleware"
	"github.com/davidbz/plangate/internal/observability"
	"github.com/davidbz/plangate/internal/planner"
	"github.com/davidbz/plangate/internal/provider"
	"github.com/davidbz/plangate/internal/provider/registry"
	"github.com/davidbz/plangate/internal/resilience"
	"github.com/davidbz/plangate/internal/routing"
)

const cacheBackendRedis = "redis"

func buildContainer() *dig.Container {
	container := dig.New()

	provide := func(name string, constructor any) {
		if err := container.Provide(constructor); err != nil {
			log.Fatalf("Failed to provide %s: %v", name, err)
		}
	}

	// Configuration
	provide("config", config.Load)
	provide("config dependencies", config.ParseDependenciesConfig)

	// Observability
	provide("logger", func(cfg *config.ObservabilityConfig) (*zap.Logger, error) {
		return observability.InitLogger(cfg.LogLevel, cfg.LogFormat)
	})
	provide("telemetry", func(cfg *config.ObservabilityConfig, _ *zap.Logger) (*observability.Telemetry, error) {
		return observability.NewTelemetry(cfg.MetricsExporter)
	})
	provide("metrics", func(telemetry *observability.Telemetry) (*observability.Metrics, error) {
		return observability.NewMetrics(telemetry.Meter())
	})
	provide("resilience hooks", resilience.NewObservedHooks)

	// Provider Registry
	provide("registry", newRegistry)

	// Resilience
	provide("response cache", newCacheStore)
	provide("breakers", newBreakerSet)
	provide("retry", newRetry)
	provide("worker pool", func(cfg *config.ResilienceConfig) *async.Pool {
		return async.NewPool(cfg.WorkerPoolSize)
	})
	provide("clients", newClientSet)
	provide("fallback", resilience.NewFallback)

	// Domain Services
	provide("router", func(reg domain.ProviderRegistry, cfg *config.PlannerConfig) *routing.ChainRouter {
		return routing.NewRouter(reg, cfg.DefaultProvider, cfg.FallbackProviders)
	})
	provide("planner", newPlanner)

	// HTTP Layer
	provide("middleware", middleware.BuildMiddlewareChain)
	provide("HTTP handler", http.NewHandler)
	provide("HTTP server", http.NewServer)

	return container
}

func newRegistry(cfg *config.Config, _ *zap.Logger) (domain.ProviderRegistry, error) {
	specs, err := cfg.ProviderSpecs()
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry()
	if err := provider.RegisterAll(context.Background(), reg, specs); err != nil {
		return nil, err
	}

	return reg, nil
}

func newCacheStore(
	cfg *config.ResilienceConfig,
	redisCfg *config.RedisConfig,
	_ *zap.Logger,
) (cache.Store, error) {
	logger := observability.FromContext(context.Background())

	if !cfg.CacheEnabled {
		logger.Info("response cache disabled")
		return cache.Disabled{}, nil
	}

	if strings.EqualFold(cfg.CacheBackend, cacheBackendRedis) {
		client := goredis.NewClient(&goredis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})

		store := rediscache.NewStore(client, redisCfg.KeyPrefix, cfg.CacheTTL)
		if err := store.Ping(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", redisCfg.Addr, err)
		}

		logger.Info("response cache ready",
			observability.String("backend", cacheBackendRedis),
			observability.String("addr", redisCfg.Addr),
		)
		return store, nil
	}

	logger.Info("response cache ready",
		observability.String("backend", "memory"),
		observability.Int("capacity", cfg.CacheCapacity),
		observability.Duration("ttl", cfg.CacheTTL),
	)
	return cache.NewMemory(cfg.CacheCapacity, cfg.CacheTTL), nil
}

func newBreakerSet(cfg *config.ResilienceConfig, hooks resilience.Hooks) *resilience.BreakerSet {
	return resilience.NewBreakerSet(resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.BreakerFailureThreshold,
		Window:           cfg.BreakerWindow,
		OpenDuration:     cfg.BreakerOpenDuration,
		Disabled:         !cfg.BreakerEnabled,
		OnStateChange:    hooks.OnStateChange,
	})
}

func newRetry(cfg *config.ResilienceConfig, hooks resilience.Hooks) *resilience.Retry {
	return resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  cfg.RetryMaxAttempts,
		InitialDelay: cfg.RetryInitialDelay,
		MaxDelay:     cfg.RetryMaxDelay,
		OnRetry:      hooks.OnRetry,
	})
}

func newClientSet(
	cfg *config.ResilienceConfig,
	reg domain.ProviderRegistry,
	breakers *resilience.BreakerSet,
	store cache.Store,
	retry *resilience.Retry,
	pool *async.Pool,
	hooks resilience.Hooks,
) *resilience.ClientSet {
	opts := []resilience.ClientOption{
		resilience.WithCache(store),
		resilience.WithRetry(retry),
		resilience.WithPool(pool),
		resilience.WithHooks(hooks),
	}
	if cfg.SingleFlight {
		opts = append(opts, resilience.WithSingleFlight())
	}

	return resilience.NewClientSet(reg, breakers, opts...)
}

func newPlanner(
	cfg *config.PlannerConfig,
	router *routing.ChainRouter,
	clients *resilience.ClientSet,
	fallback *resilience.Fallback,
	pool *async.Pool,
) *planner.Planner {
	return planner.New(router, clients, fallback, pool, planner.WithConfig(planner.Config{
		Provider:     cfg.Provider,
		SystemPrompt: cfg.SystemPrompt,
	}))
}
