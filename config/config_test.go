package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rushteam/contentrec/config"
	_ "github.com/rushteam/contentrec/config/builders"
	"github.com/rushteam/contentrec/pipeline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.DefaultK != 5 || cfg.Cache.Driver != "memory" || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	// 库层不截断 k，上限只在 HTTP 入口生效
	if cfg.Recommend.MaxK != 0 || cfg.Server.MaxK != 1000 {
		t.Errorf("max k defaults = recommend %d / server %d, want 0 / 1000", cfg.Recommend.MaxK, cfg.Server.MaxK)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "contentrec.yaml", `
corpus:
  driver: sqlite
  path: /tmp/series.db
  table: series
  debounce: 250ms
recommend:
  default_k: 3
  nodes:
    - type: filter.expr
      config:
        expr: 'item.year >= "2015"'
    - type: rerank.diversity
server:
  addr: ":9090"
  rate_limit: 60
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Corpus.Driver != "sqlite" || cfg.Corpus.Table != "series" {
		t.Errorf("corpus = %+v", cfg.Corpus)
	}
	if cfg.Corpus.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Corpus.Debounce)
	}
	if cfg.Recommend.DefaultK != 3 || cfg.Recommend.MaxK != 0 {
		t.Errorf("recommend = %+v", cfg.Recommend)
	}
	if len(cfg.Recommend.Nodes) != 2 || cfg.Recommend.Nodes[0].Type != "filter.expr" {
		t.Fatalf("nodes = %+v", cfg.Recommend.Nodes)
	}
	if err := config.ValidateNodes(cfg.Recommend.Nodes); err != nil {
		t.Errorf("ValidateNodes() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.RateLimit != 60 {
		t.Errorf("server = %+v", cfg.Server)
	}
	// 未覆盖的字段保留默认值
	if cfg.Cache.Prefix != "contentrec" {
		t.Errorf("cache prefix = %q", cfg.Cache.Prefix)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "contentrec.toml", `
[corpus]
path = "series.csv"

[cache]
driver = "none"
ttl = "30s"

[log]
level = "debug"
format = "console"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Corpus.Path != "series.csv" || cfg.Cache.Driver != "none" || cfg.Cache.TTL != 30*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CONTENTREC_CORPUS_PATH", "/data/other.csv")
	t.Setenv("CONTENTREC_RECOMMEND_MAX_K", "20")
	t.Setenv("CONTENTREC_LOG_LEVEL", "warn")
	t.Setenv("CONTENTREC_UNKNOWN_THING", "ignored")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Corpus.Path != "/data/other.csv" || cfg.Recommend.MaxK != 20 || cfg.Log.Level != "warn" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.AppConfig)
	}{
		{name: "bad driver", mutate: func(c *config.AppConfig) { c.Corpus.Driver = "parquet" }},
		{name: "sqlite without table", mutate: func(c *config.AppConfig) { c.Corpus.Driver = "sqlite" }},
		{name: "default above max", mutate: func(c *config.AppConfig) { c.Recommend.DefaultK = 10; c.Recommend.MaxK = 5 }},
		{name: "bad log level", mutate: func(c *config.AppConfig) { c.Log.Level = "verbose" }},
		{name: "redis without addr", mutate: func(c *config.AppConfig) { c.Cache.Driver = "redis"; c.Cache.Redis.Addr = "" }},
		{name: "node without type", mutate: func(c *config.AppConfig) { c.Recommend.Nodes = []pipeline.NodeConfig{{}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
	if err := config.Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestDefaultFactory(t *testing.T) {
	f := config.DefaultFactory()
	for _, typ := range []string{"filter.expr", "filter.blacklist", "filter.category", "rerank.diversity", "rerank.topn"} {
		if _, err := f.Build(typ, map[string]any{
			"expr":     "score > 0.0",
			"titles":   []any{"Signal"},
			"category": "Drama",
			"n":        3,
		}); err != nil {
			t.Errorf("Build(%s) error = %v", typ, err)
		}
	}
	if _, err := f.Build("filter.expr", map[string]any{"expr": "score +"}); err == nil {
		t.Error("Build(filter.expr) expected compile error")
	}
	if _, err := f.Build("rank.lr", nil); err == nil || !strings.Contains(err.Error(), "filter.blacklist, filter.category") {
		t.Errorf("Build(rank.lr) error = %v, want unknown type listing supported types", err)
	}
	if _, err := pipeline.BuildNodes(f, []pipeline.NodeConfig{{Type: "rank.lr"}}); err == nil {
		t.Error("BuildNodes() expected unknown type error")
	}
	if err := config.ValidateNodes([]pipeline.NodeConfig{{Type: "rank.lr"}}); err == nil {
		t.Error("ValidateNodes() expected unsupported type error")
	}
}
