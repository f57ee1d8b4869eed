package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/contentrec/core"
)

// RedisConfig 是 Redis 连接与熔断配置。
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration

	// 熔断：连续失败 FailureThreshold 次后断开，Timeout 后半开探测
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// RedisStore 是 Redis 实现的 Store。
// 所有调用经过熔断器，Redis 不可用时快速失败，调用方按缓存未命中处理。
// key 不存在不计入失败。
type RedisStore struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[any]
}

// NewRedisStore 连接 Redis 并 Ping 确认可用。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return newRedisStore(client, cfg, logger), nil
}

func newRedisStore(client *redis.Client, cfg RedisConfig, logger zerolog.Logger) *RedisStore {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := logger.With().Str("component", "redis_store").Logger()

	settings := gobreaker.Settings{
		Name:    "redis:" + cfg.Addr,
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsStoreNotFound(err)
		},
	}
	return &RedisStore{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (r *RedisStore) Name() string { return "redis" }

// BreakerState 返回熔断器当前状态。
func (r *RedisStore) BreakerState() string {
	return r.breaker.State().String()
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.breaker.Execute(func() (any, error) {
		val, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrStoreNotFound
		}
		return val, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	_, err := r.breaker.Execute(func() (any, error) {
		return nil, r.client.Set(ctx, key, value, ttl).Err()
	})
	return err
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	_, err := r.breaker.Execute(func() (any, error) {
		return nil, r.client.Del(ctx, key).Err()
	})
	return err
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.Store = (*RedisStore)(nil)
