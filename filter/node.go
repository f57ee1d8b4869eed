package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器返回 true，该结果就会被移除；输出保持输入顺序。
// 过滤器返回错误时记录日志并跳过该过滤器，不中断流程。
// 实现了 Preparer 的过滤器在每次请求开始时准备一次。
type FilterNode struct {
	Filters []Filter
	Logger  zerolog.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(n.Filters) == 0 || len(recs) == 0 {
		return recs, nil
	}

	filters := make([]Filter, 0, len(n.Filters))
	for _, f := range n.Filters {
		p, ok := f.(Preparer)
		if !ok {
			filters = append(filters, f)
			continue
		}
		prepared, err := p.Prepare(ctx, rctx)
		if err != nil {
			n.Logger.Warn().Err(err).Str("filter", f.Name()).Msg("filter prepare failed, skipped")
			continue
		}
		filters = append(filters, prepared)
	}

	out := make([]*core.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if rec == nil {
			continue
		}

		drop := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, rec)
			if err != nil {
				n.Logger.Debug().Err(err).Str("filter", f.Name()).Int("row", rec.Item.Row).Msg("filter error, skipped")
				continue
			}
			if ok {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ pipeline.Node = (*FilterNode)(nil)

// Preparer 由需要按请求加载数据的过滤器实现，返回本次请求使用的过滤器。
type Preparer interface {
	Prepare(ctx context.Context, rctx *core.RecommendContext) (Filter, error)
}

// StoreBinder 由需要在组装阶段注入 core.Store 的过滤器实现。
type StoreBinder interface {
	BindStore(s core.Store)
	// NeedsStore 在依赖的 Store 仍未注入时返回 true
	NeedsStore() bool
}

// BindStore 将 s 注入所有实现了 StoreBinder 的过滤器。
func (n *FilterNode) BindStore(s core.Store) {
	for _, f := range n.Filters {
		if b, ok := f.(StoreBinder); ok {
			b.BindStore(s)
		}
	}
}

func (n *FilterNode) NeedsStore() bool {
	for _, f := range n.Filters {
		if b, ok := f.(StoreBinder); ok && b.NeedsStore() {
			return true
		}
	}
	return false
}
