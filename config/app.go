package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// EnvPrefix 是环境变量覆盖的前缀。
const EnvPrefix = "CONTENTREC_"

// AppConfig 是进程级配置。
type AppConfig struct {
	Corpus    CorpusConfig    `koanf:"corpus"`
	Index     IndexConfig     `koanf:"index"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
}

// CorpusConfig 描述语料来源。
type CorpusConfig struct {
	Driver   string        `koanf:"driver" validate:"oneof=csv sqlite"`
	Path     string        `koanf:"path" validate:"required"`
	Table    string        `koanf:"table" validate:"required_if=Driver sqlite"`
	Comma    string        `koanf:"comma" validate:"omitempty,len=1"`
	Watch    bool          `koanf:"watch"`
	Debounce time.Duration `koanf:"debounce" validate:"gte=0"`
}

// IndexConfig 是索引构建参数。
type IndexConfig struct {
	// Workers 为相似度矩阵的并行度，0 表示 GOMAXPROCS
	Workers      int           `koanf:"workers" validate:"gte=0"`
	BuildTimeout time.Duration `koanf:"build_timeout" validate:"gte=0"`
}

// RecommendConfig 是推荐参数与可配置节点。
type RecommendConfig struct {
	DefaultK int                   `koanf:"default_k" validate:"gte=1"`
	MaxK     int                   `koanf:"max_k" validate:"gte=0"`
	Nodes    []pipeline.NodeConfig `koanf:"nodes" validate:"dive"`
}

func (c RecommendConfig) DefaultTopK() int { return c.DefaultK }

func (c RecommendConfig) MaxTopK() int { return c.MaxK }

var _ core.RecommendConfig = RecommendConfig{}

// CacheConfig 是推荐结果缓存配置。
type CacheConfig struct {
	Driver string        `koanf:"driver" validate:"oneof=none memory redis"`
	TTL    time.Duration `koanf:"ttl" validate:"gte=0"`
	Prefix string        `koanf:"prefix" validate:"required"`
	Redis  RedisConfig   `koanf:"redis"`
}

// RedisConfig 是 Redis 连接配置。
type RedisConfig struct {
	Addr             string        `koanf:"addr"`
	Password         string        `koanf:"password"`
	DB               int           `koanf:"db" validate:"gte=0"`
	DialTimeout      time.Duration `koanf:"dial_timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
}

// ServerConfig 是 HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
	// RateLimit 是每个 IP 每分钟的请求上限，0 表示不限流
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`
	// MaxK 是 HTTP 请求允许的最大 k，超出返回 400；0 表示不限制
	MaxK int `koanf:"max_k" validate:"gte=0"`
}

// LogConfig 是日志配置。
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default 返回默认配置。
func Default() *AppConfig {
	return &AppConfig{
		Corpus: CorpusConfig{
			Driver:   "csv",
			Path:     "data/series.csv",
			Debounce: time.Second,
		},
		Index: IndexConfig{
			BuildTimeout: 5 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultK: core.DefaultTopK,
		},
		Cache: CacheConfig{
			Driver: "memory",
			TTL:    10 * time.Minute,
			Prefix: "contentrec",
			Redis: RedisConfig{
				Addr:             "127.0.0.1:6379",
				DialTimeout:      2 * time.Second,
				FailureThreshold: 5,
				BreakerTimeout:   30 * time.Second,
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxK:            1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 按 默认值 -> 配置文件 -> 环境变量 的顺序加载配置并校验。
// path 为空时只使用默认值与环境变量；.toml 后缀按 TOML 解析，其余按 YAML。
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		var parser koanf.Parser = yaml.Parser()
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			parser = TOMLParser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envMappings 把环境变量名（去掉前缀、小写）映射到配置路径。
var envMappings = map[string]string{
	"corpus_driver":        "corpus.driver",
	"corpus_path":          "corpus.path",
	"corpus_table":         "corpus.table",
	"corpus_watch":         "corpus.watch",
	"corpus_debounce":      "corpus.debounce",
	"index_workers":        "index.workers",
	"index_build_timeout":  "index.build_timeout",
	"recommend_default_k":  "recommend.default_k",
	"recommend_max_k":      "recommend.max_k",
	"cache_driver":         "cache.driver",
	"cache_ttl":            "cache.ttl",
	"cache_prefix":         "cache.prefix",
	"redis_addr":           "cache.redis.addr",
	"redis_password":       "cache.redis.password",
	"redis_db":             "cache.redis.db",
	"server_addr":          "server.addr",
	"server_rate_limit":    "server.rate_limit",
	"server_max_k":         "server.max_k",
	"server_read_timeout":  "server.read_timeout",
	"server_write_timeout": "server.write_timeout",
	"log_level":            "log.level",
	"log_format":           "log.format",
}

// envTransform 返回空串时该变量被忽略。
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envMappings[key]
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置。
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if c.Recommend.MaxK > 0 && c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("recommend.default_k (%d) exceeds recommend.max_k (%d)", c.Recommend.DefaultK, c.Recommend.MaxK)
	}
	if c.Cache.Driver == "redis" && c.Cache.Redis.Addr == "" {
		return errors.New("cache.redis.addr is required when cache.driver=redis")
	}
	return nil
}

// CommaRune 返回 CSV 分隔符，未配置时为 0（使用默认值）。
func (c CorpusConfig) CommaRune() rune {
	if c.Comma == "" {
		return 0
	}
	return []rune(c.Comma)[0]
}
