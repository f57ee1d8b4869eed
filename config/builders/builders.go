// Package builders 注册内置的可配置 Pipeline 节点。
package builders

import (
	"fmt"

	"github.com/rushteam/contentrec/config"
	"github.com/rushteam/contentrec/filter"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/pkg/conv"
	"github.com/rushteam/contentrec/rerank"
)

func init() {
	config.Register("filter.expr", BuildExprFilterNode)
	config.Register("filter.blacklist", BuildBlacklistFilterNode)
	config.Register("filter.category", BuildCategoryFilterNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildExprFilterNode 配置：expr（必填）、exclude（默认 false）。
func BuildExprFilterNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	f, err := filter.NewExprFilter(expr, conv.ConfigGetBool(cfg, "exclude", false))
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

// BuildBlacklistFilterNode 配置：titles（内联标题列表）、key（Store 中的 JSON 数组）。
// Store 在引擎组装时注入。
func BuildBlacklistFilterNode(cfg map[string]any) (pipeline.Node, error) {
	titles := conv.ToStrings(cfg["titles"])
	key := conv.ConfigGet(cfg, "key", "")
	if len(titles) == 0 && key == "" {
		return nil, fmt.Errorf("titles or key is required")
	}
	return &filter.FilterNode{
		Filters: []filter.Filter{filter.NewBlacklistFilter(titles, nil, key)},
	}, nil
}

// BuildCategoryFilterNode 配置：category（固定类别，叠加在请求类别之上）。
func BuildCategoryFilterNode(cfg map[string]any) (pipeline.Node, error) {
	category := conv.ConfigGet(cfg, "category", "")
	if category == "" {
		return nil, fmt.Errorf("category not found")
	}
	return &filter.FilterNode{
		Filters: []filter.Filter{&filter.CategoryFilter{Category: category}},
	}, nil
}

// BuildDiversityNode 配置：label_key、max_per_category。
func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		LabelKey:       conv.ConfigGet(cfg, "label_key", ""),
		MaxPerCategory: int(conv.ConfigGetInt64(cfg, "max_per_category", 1)),
	}, nil
}

// BuildTopNNode 配置：n。
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}
	return &rerank.TopNNode{N: int(n)}, nil
}
