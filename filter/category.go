package filter

import (
	"context"
	"strings"

	"github.com/rushteam/contentrec/core"
)

// CategoryFilter 按类别过滤：保留原始 genre 字符串中包含过滤值（不区分大小写）的结果。
// 匹配的是逗号拼接的原始字符串，因此 "Action" 也会命中 "Action, Thriller"。
// 过滤值为空或为 "all" 时不过滤。
type CategoryFilter struct {
	// Category 固定的过滤值；为空时使用 rctx.Category
	Category string
}

func (f *CategoryFilter) Name() string {
	return "filter.category"
}

func (f *CategoryFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	category := f.Category
	if category == "" && rctx != nil {
		category = rctx.Category
	}
	if core.IsAllCategories(category) {
		return false, nil
	}
	return !MatchCategory(rec.Item.Genre, category), nil
}

// MatchCategory 判断 genre 是否包含 category（不区分大小写的子串匹配）。
func MatchCategory(genre, category string) bool {
	return strings.Contains(strings.ToLower(genre), strings.ToLower(strings.TrimSpace(category)))
}
