package app

import (
	"context"
	"fmt"
	"time"

	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	"skill-bridge/internal/database/migration"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/logger"
	"skill-bridge/internal/repository"
	"skill-bridge/internal/usecase"
	"skill-bridge/internal/ws"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Redis  *cache.Redis
	Hub    *ws.Hub

	Recommender *usecase.Recommender
	Trigger     *usecase.RecommendationTrigger
	Listing     *usecase.RecommendationList
	Catalog     *usecase.Catalog
}

// NewContainer connects to Postgres, applies pending migrations and wires the
// recommendation usecases. hub may be nil when no websocket clients are served.
func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger, hub *ws.Hub) (*Container, error) {
	log = logger.OrNop(log)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, dbpostgres.WithLogger(log.Named("db")))
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log, DB: db, Hub: hub}

	if sqlDB := db.SQLDB(); sqlDB != nil {
		runner := migration.Runner{FS: migration.Files, Logger: log.Named("migration")}
		if err := runner.Run(ctx, sqlDB); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	inferencer, err := matching.NewInferencer(MatchingOptions(cfg.Matching))
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("matching options: %w", err)
	}

	mode, err := usecase.ParseMode(cfg.Matching.Mode)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	opts := []usecase.RecommenderOption{
		usecase.WithLogger(log.Named("recommender")),
		usecase.WithMode(mode),
	}
	if locker := c.entityLocker(); locker != nil {
		opts = append(opts, usecase.WithLocker(locker))
	}
	if hub != nil {
		opts = append(opts, usecase.WithNotifier(ws.NewNotifier(hub, log.Named("ws"))))
	}

	c.Recommender = usecase.NewRecommender(repository.NewPostgresRecommendationRepository(db), inferencer, opts...)
	c.Trigger = usecase.NewRecommendationTrigger(repository.NewPostgresEntityRepository(db), c.Recommender)
	c.Listing = usecase.NewRecommendationListUsecase(repository.NewPostgresRecommendationQueryRepository(db))
	c.Catalog = usecase.NewCatalog(repository.NewPostgresCatalogRepository(db), c.Recommender, log.Named("catalog"))

	log.Info("container ready",
		zap.Float64("similarity_threshold", inferencer.Threshold()),
		zap.String("mode", cfg.Matching.Mode),
		zap.Bool("lock_enabled", cfg.Matching.LockEnabled),
	)
	return c, nil
}

// entityLocker prefers Redis and falls back to an in-process lock when Redis
// is not configured or not reachable.
func (c *Container) entityLocker() usecase.EntityLocker {
	if !c.Config.Matching.LockEnabled {
		return nil
	}
	if c.Config.Redis.Host == "" {
		c.Logger.Info("recommendation lock is process local", zap.String("reason", "redis_not_configured"))
		return usecase.NewLocalLocker()
	}

	c.Redis = cache.NewRedis(c.Config.Redis, c.Logger.Named("redis"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Redis.Ping(ctx); err != nil {
		c.Logger.Warn("recommendation lock is process local", zap.String("reason", "redis_unavailable"), zap.Error(err))
		return usecase.NewLocalLocker()
	}
	return cache.NewLocker(c.Redis, c.Config.Redis.LockTTL)
}

func MatchingOptions(cfg config.MatchingConfig) matching.Options {
	opts := matching.DefaultOptions()
	opts.SimilarityThreshold = cfg.SimilarityThreshold
	if cfg.StopWords != nil {
		opts.StopWords = cfg.StopWords
	}
	return opts
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
