package core

import "strings"

// Catalog 是一代只读索引对查询链路暴露的视图。
// 实现必须在构建完成后保持不可变，多个查询可并发读取而无需加锁。
type Catalog interface {
	// ID 返回这一代索引的标识
	ID() string

	// Len 返回目录中的物品数
	Len() int

	// Item 返回指定行的物品
	Item(row int) Item

	// Lookup 以归一化标题精确查找行号
	Lookup(normalizedTitle string) (int, bool)

	// Score 返回两行之间的相似度
	Score(i, j int) float64
}

// RecommendContext 承载单次查询的参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// Catalog 是本次查询固定使用的一代索引快照
	Catalog Catalog

	// Title 是原始查询标题
	Title string

	// Category 是类别过滤值，"" 或 "all" 表示不过滤
	Category string

	// K 是返回数量
	K int

	// Params 是请求级参数，表达式过滤中以 rctx.params 访问
	Params map[string]any
}

// NormalizedTitle 返回查询标题的查找键。
func (rctx *RecommendContext) NormalizedTitle() string {
	return NormalizeTitle(rctx.Title)
}

// FiltersCategory 判断本次查询是否需要按类别过滤。
func (rctx *RecommendContext) FiltersCategory() bool {
	return !IsAllCategories(rctx.Category)
}

// IsAllCategories 判断类别值是否为“不过滤”哨兵。
func IsAllCategories(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || strings.EqualFold(c, AllCategories)
}
