// Package recommend 组装索引代次、推荐 Pipeline 与结果缓存，对外提供推荐查询。
package recommend

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/corpus"
	"github.com/rushteam/contentrec/filter"
	"github.com/rushteam/contentrec/index"
	"github.com/rushteam/contentrec/metrics"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/recall"
	"github.com/rushteam/contentrec/rerank"
)

// Request 是一次推荐查询。
type Request struct {
	Title    string
	Category string
	K        int

	// Params 透传给表达式过滤器，在表达式中以 rctx.params 访问
	Params map[string]any
}

// Engine 是推荐服务的门面。
//
// 每次查询固定使用查询开始时的索引代次；Reload 构建完整的新代次后原子切换，
// 构建失败时继续使用上一代。
type Engine struct {
	source       corpus.Source
	holder       *index.Holder
	workers      int
	buildTimeout time.Duration

	cfg    core.RecommendConfig
	nodes  []pipeline.Node
	store  core.Store
	cache  *ResultCache
	logger zerolog.Logger

	// base 是除 k 截断外的固定节点链，组装时构建一次
	base *pipeline.Pipeline
}

// Option 配置 Engine。
type Option func(*Engine)

// WithNodes 追加在类别过滤之后、k 截断之前执行的节点。
func WithNodes(nodes ...pipeline.Node) Option {
	return func(e *Engine) {
		e.nodes = append(e.nodes, nodes...)
	}
}

// WithStore 将存储注入需要它的节点（如黑名单过滤器）。
func WithStore(s core.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithCache 启用结果缓存。
func WithCache(c *ResultCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithRecommendConfig 设置 k 的默认值与上限。
func WithRecommendConfig(cfg core.RecommendConfig) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithWorkers 设置相似度矩阵构建的并行度。
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithBuildTimeout 设置单次构建的超时，<=0 表示不限制。
func WithBuildTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.buildTimeout = d
	}
}

// WithLogger 设置日志。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l.With().Str("component", "recommend").Logger()
	}
}

// NewEngine 创建 Engine。返回的 Engine 尚无索引，需先调用 Reload。
// 有节点依赖 Store（如按 key 读取的黑名单）却没有通过 WithStore 注入时返回 INVALID_INPUT 错误。
func NewEngine(src corpus.Source, opts ...Option) (*Engine, error) {
	e := &Engine{
		source: src,
		holder: index.NewHolder(),
		cfg:    &core.DefaultRecommendConfig{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, n := range e.nodes {
		b, ok := n.(filter.StoreBinder)
		if !ok {
			continue
		}
		if e.store != nil {
			b.BindStore(e.store)
		}
		if b.NeedsStore() {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
				"recommend: node "+n.Name()+" reads from a store but none is configured")
		}
	}

	nodes := make([]pipeline.Node, 0, len(e.nodes)+2)
	nodes = append(nodes,
		&recall.ContentRecall{},
		&filter.FilterNode{Filters: []filter.Filter{&filter.CategoryFilter{}}, Logger: e.logger},
	)
	nodes = append(nodes, e.nodes...)
	e.base = &pipeline.Pipeline{
		Nodes: nodes,
		Hook: func(node pipeline.Node, in, out int) {
			e.logger.Trace().Str("node", node.Name()).Int("in", in).Int("out", out).Msg("node done")
		},
	}
	return e, nil
}

// Reload 从数据源重建索引并切换代次。trigger 标记触发来源（startup / watch / api）。
func (e *Engine) Reload(ctx context.Context, trigger string) (*index.Generation, error) {
	metrics.RecordReload(trigger)

	gen, shared, err := e.holder.Reload(ctx, e.build)
	if err != nil {
		e.logger.Error().Err(err).Str("trigger", trigger).Str("source", e.source.Name()).Msg("index rebuild failed, keeping previous generation")
		return nil, err
	}
	if !shared {
		metrics.RecordGeneration(gen.Len(), gen.VocabularySize())
	}
	return gen, nil
}

func (e *Engine) build(ctx context.Context) (*index.Generation, error) {
	if e.buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.buildTimeout)
		defer cancel()
	}

	start := time.Now()
	gen, err := e.buildGeneration(ctx)
	elapsed := time.Since(start)
	metrics.RecordBuild(elapsed, err)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("generation", gen.ID()).
		Str("source", gen.Source()).
		Int("items", gen.Len()).
		Int("vocabulary", gen.VocabularySize()).
		Int("shadowed_titles", len(gen.Titles().Shadowed())).
		Dur("took", elapsed).
		Msg("index generation built")
	return gen, nil
}

func (e *Engine) buildGeneration(ctx context.Context) (*index.Generation, error) {
	items, err := corpus.Load(ctx, e.source)
	if err != nil {
		return nil, err
	}
	return index.Build(ctx, items, index.BuildOptions{
		Source:  e.source.Name(),
		Workers: e.workers,
	})
}

// Ready 判断是否已有可用索引。
func (e *Engine) Ready() bool {
	return e.holder.Ready()
}

// Generation 返回当前代次。
func (e *Engine) Generation() (*index.Generation, error) {
	return e.holder.Current()
}

// Recommend 返回与查询标题最相似的至多 k 个物品，按分数降序、行号升序排列。
//   - 查询标题不在索引中：NotFound 错误
//   - 过滤后为空：返回空切片，不是错误
func (e *Engine) Recommend(ctx context.Context, req Request) (recs []core.Recommendation, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecommend(resultOf(recs, err), time.Since(start))
	}()

	gen, err := e.holder.Current()
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{
		Catalog:  gen,
		Title:    req.Title,
		Category: req.Category,
		K:        e.ResolveK(req.K),
		Params:   req.Params,
	}

	var key string
	if e.cache != nil {
		key = e.cache.Key(gen.ID(), rctx.NormalizedTitle(), cacheCategory(rctx), rctx.K, rctx.Params)
		if hit, ok := e.cache.Get(ctx, gen, key); ok {
			return flatten(hit), nil
		}
	}

	out, err := e.pipeline(rctx.K).Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(ctx, key, out)
	}
	return flatten(out), nil
}

// ResolveK 返回请求 k 实际生效的值：<= 0 时取默认值，并按配置上限截断。
func (e *Engine) ResolveK(k int) int {
	return core.ResolveTopK(e.cfg, k)
}

// pipeline 组装单次查询的节点链：召回 -> 类别过滤 -> 配置节点 -> k 截断。
func (e *Engine) pipeline(k int) *pipeline.Pipeline {
	return e.base.With(&rerank.TopNNode{N: k})
}

// DistinctCategories 返回当前代次的类别列表。
func (e *Engine) DistinctCategories() ([]string, error) {
	gen, err := e.holder.Current()
	if err != nil {
		return nil, err
	}
	return gen.Categories(), nil
}

// Titles 返回当前代次中可查询的标题。
func (e *Engine) Titles() ([]string, error) {
	gen, err := e.holder.Current()
	if err != nil {
		return nil, err
	}
	return gen.QueryableTitles(), nil
}

func cacheCategory(rctx *core.RecommendContext) string {
	if !rctx.FiltersCategory() {
		return core.AllCategories
	}
	return strings.ToLower(strings.TrimSpace(rctx.Category))
}

func flatten(in []*core.Recommendation) []core.Recommendation {
	out := make([]core.Recommendation, len(in))
	for i, r := range in {
		out[i] = *r
	}
	return out
}

func resultOf(recs []core.Recommendation, err error) string {
	switch {
	case core.IsNotFound(err):
		return metrics.ResultNotFound
	case err != nil:
		return metrics.ResultError
	case len(recs) == 0:
		return metrics.ResultEmpty
	default:
		return metrics.ResultOK
	}
}
