package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/contentrec/config"
	_ "github.com/rushteam/contentrec/config/builders"
	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/corpus"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/recommend"
	"github.com/rushteam/contentrec/store"
)

func newSource(cfg config.CorpusConfig) (corpus.Source, error) {
	switch cfg.Driver {
	case "", "csv":
		src := corpus.NewCSVSource(cfg.Path)
		src.Comma = cfg.CommaRune()
		return src, nil
	case "sqlite":
		return corpus.NewSQLiteSource(cfg.Path, cfg.Table), nil
	default:
		return nil, fmt.Errorf("unknown corpus driver %q", cfg.Driver)
	}
}

// newStore 按配置创建缓存存储，driver=none 时返回 nil。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newStore(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) (core.Store, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:             cfg.Redis.Addr,
			Password:         cfg.Redis.Password,
			DB:               cfg.Redis.DB,
			DialTimeout:      cfg.Redis.DialTimeout,
			FailureThreshold: cfg.Redis.FailureThreshold,
			BreakerTimeout:   cfg.Redis.BreakerTimeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// newEngine 组装推荐引擎，返回的 cleanup 负责关闭存储。
// Redis 不可用时降级为无缓存运行。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newEngine(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (*recommend.Engine, func(), error) {
	src, err := newSource(cfg.Corpus)
	if err != nil {
		return nil, nil, err
	}

	nodes, err := pipeline.BuildNodes(config.DefaultFactory(), cfg.Recommend.Nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline nodes: %w", err)
	}

	opts := []recommend.Option{
		recommend.WithLogger(logger),
		recommend.WithRecommendConfig(cfg.Recommend),
		recommend.WithWorkers(cfg.Index.Workers),
		recommend.WithBuildTimeout(cfg.Index.BuildTimeout),
		recommend.WithNodes(nodes...),
	}

	cleanup := func() {}
	st, err := newStore(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.Cache.Driver).Msg("cache store unavailable, running without cache")
	} else if st != nil {
		opts = append(opts,
			recommend.WithStore(st),
			recommend.WithCache(recommend.NewResultCache(st, cfg.Cache.Prefix, cfg.Cache.TTL, logger)),
		)
		cleanup = func() {
			if err := st.Close(); err != nil {
				logger.Warn().Err(err).Msg("close store")
			}
		}
	}

	e, err := recommend.NewEngine(src, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return e, cleanup, nil
}
