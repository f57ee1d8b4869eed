package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/metrics"
	"github.com/rushteam/contentrec/pkg/utils"
)

// ResultCache 按索引代次缓存推荐结果。
//
// key 形如 {prefix}:{generation}:{title}:{category}:{k}[:{params}]，代次切换后旧条目自然不可达，
// 只需等待 TTL 过期。值只保存行号、分数与标签，命中时从当前代次取回物品。
// 存储失败只记录日志，按未命中处理。
type ResultCache struct {
	store  core.Store
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

type cachedResult struct {
	Row    int                    `json:"r"`
	Score  float64                `json:"s"`
	Labels map[string]utils.Label `json:"l,omitempty"`
}

// NewResultCache 创建结果缓存。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewResultCache(store core.Store, prefix string, ttl time.Duration, logger zerolog.Logger) *ResultCache {
	if prefix == "" {
		prefix = "contentrec"
	}
	return &ResultCache{
		store:  store,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With().Str("component", "result_cache").Str("store", store.Name()).Logger(),
	}
}

// Key 生成缓存 key。title 与 category 需已归一化；params 非空时按 key 排序后追加。
func (c *ResultCache) Key(generation, title, category string, k int, params map[string]any) string {
	var b strings.Builder
	b.Grow(len(c.prefix) + len(generation) + len(title) + len(category) + 8)
	b.WriteString(c.prefix)
	b.WriteByte(':')
	b.WriteString(generation)
	b.WriteByte(':')
	b.WriteString(title)
	b.WriteByte(':')
	b.WriteString(category)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(k))
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
		for i, name := range names {
			if i == 0 {
				b.WriteByte(':')
			} else {
				b.WriteByte('&')
			}
			fmt.Fprintf(&b, "%s=%v", name, params[name])
		}
	}
	return b.String()
}

// Get 读取缓存并从 catalog 还原推荐结果。
func (c *ResultCache) Get(ctx context.Context, catalog core.Catalog, key string) ([]*core.Recommendation, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		metrics.RecordCache(false)
		return nil, false
	}

	var entries []cachedResult
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		metrics.RecordCache(false)
		return nil, false
	}

	out := make([]*core.Recommendation, 0, len(entries))
	for _, e := range entries {
		if e.Row < 0 || e.Row >= catalog.Len() {
			metrics.RecordCache(false)
			return nil, false
		}
		rec := core.NewRecommendation(catalog.Item(e.Row), e.Score)
		for k, v := range e.Labels {
			rec.Labels[k] = v
		}
		rec.PutLabel("cache", utils.Label{Value: "hit", Source: "cache"})
		out = append(out, rec)
	}
	metrics.RecordCache(true)
	return out, true
}

// Set 写入缓存。
func (c *ResultCache) Set(ctx context.Context, key string, recs []*core.Recommendation) {
	entries := make([]cachedResult, len(recs))
	for i, r := range recs {
		entries[i] = cachedResult{Row: r.Item.Row, Score: r.Score, Labels: r.Labels}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
