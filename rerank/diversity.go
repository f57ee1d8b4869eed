package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pipeline"
)

// Diversity 按类别打散：每个类别最多保留 MaxPerCategory 条（默认 1），保持原顺序。
// 类别来源优先级：
//   - LabelKey 指定的 label 值
//   - genre 中的第一个标签
//
// 没有类别的结果总是保留。
type Diversity struct {
	LabelKey       string
	MaxPerCategory int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(recs) == 0 {
		return recs, nil
	}
	limit := n.MaxPerCategory
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		cate := n.category(rec)
		if cate == "" {
			out = append(out, rec)
			continue
		}
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, rec)
	}
	return out, nil
}

func (n *Diversity) category(rec *core.Recommendation) string {
	if n.LabelKey != "" {
		if lbl, ok := rec.Labels[n.LabelKey]; ok && lbl.Value != "" {
			return lbl.Value
		}
	}
	return PrimaryGenre(rec.Item.Genre)
}

// PrimaryGenre 返回 genre 中第一个非空标签（小写）。
func PrimaryGenre(genre string) string {
	for _, part := range strings.Split(genre, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			return strings.ToLower(tag)
		}
	}
	return ""
}
