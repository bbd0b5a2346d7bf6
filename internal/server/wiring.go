package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/cache"
	"github.com/atul48kumar90/resume-tailor-agent/internal/config"
	"github.com/atul48kumar90/resume-tailor-agent/internal/db"
	"github.com/atul48kumar90/resume-tailor-agent/internal/observability"
	"github.com/atul48kumar90/resume-tailor-agent/internal/server/ratelimit"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "resume_agent"

// OpenStore opens the version store selected by cfg.StoreKind.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (versions.Store, error) {
	switch cfg.StoreKind() {
	case config.StorePostgres:
		s, err := db.NewVersionStore(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreSQLite:
		s, err := versions.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreMemory:
		return versions.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// NewFromConfig builds a server with every production collaborator: the
// configured version store, a metrics collector, a tiered score cache and
// the environment-configured rate limiter. Close releases them.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open version store: %w", err)
	}

	metrics := observability.NewCollector(MetricsNamespace)
	scoreCache := cache.New(ctx, cache.Options{
		RedisURL:   cfg.Cache.RedisURL,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
		OnHit:      metrics.CacheHit,
		OnMiss:     metrics.CacheMiss,
	}, logger)

	s := New(cfg, Deps{
		Store:   store,
		Scorer:  ats.NewCachedScorer(ats.NewScorer(cfg.ATS), scoreCache, logger),
		Metrics: metrics,
		Limiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:  logger,
	})
	s.closers = append(s.closers, store.Close, scoreCache.Close)

	logger.Info("server configured",
		zap.String("store", cfg.StoreKind()),
		zap.Bool("redis", cfg.Cache.RedisURL != ""),
		zap.Int("port", cfg.Server.Port))
	return s, nil
}
