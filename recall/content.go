package recall

import (
	"context"
	"sort"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/pkg/utils"
)

// ContentRecall 是基于内容的召回源。
//
// 读取查询标题在相似度矩阵中的一行，排除查询自身，
// 按分数降序、行号升序返回其余全部物品（分数为 0 的也保留）。
// 查询标题不在标题索引中时返回 NotFound 错误。
type ContentRecall struct{}

func (r *ContentRecall) Name() string {
	return "recall.content"
}

func (r *ContentRecall) Kind() pipeline.Kind {
	return pipeline.KindRecall
}

func (r *ContentRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Recommendation, error) {
	if rctx == nil || rctx.Catalog == nil {
		return nil, core.ErrNoGeneration
	}
	cat := rctx.Catalog

	query, ok := cat.Lookup(rctx.NormalizedTitle())
	if !ok {
		return nil, core.NewNotFoundError(rctx.Title)
	}

	type scored struct {
		row   int
		score float64
	}
	candidates := make([]scored, 0, cat.Len())
	for row := 0; row < cat.Len(); row++ {
		if row == query {
			continue
		}
		candidates = append(candidates, scored{row: row, score: cat.Score(query, row)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].row < candidates[j].row
	})

	out := make([]*core.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		rec := core.NewRecommendation(cat.Item(c.row), c.score)
		rec.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, rec)
	}
	return out, nil
}

// Process 作为 Pipeline 的首个节点时忽略输入，直接产出候选。
func (r *ContentRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Recommendation,
) ([]*core.Recommendation, error) {
	return r.Recall(ctx, rctx)
}

var (
	_ Source        = (*ContentRecall)(nil)
	_ pipeline.Node = (*ContentRecall)(nil)
)
