package index

import "github.com/rushteam/contentrec/core"

// TitleIndex 是归一化标题到行号的精确匹配索引。
// 重复的归一化标题只保留加载顺序中的第一条，其余行仍留在目录中，
// 可以作为推荐结果出现，但不能作为查询主体。
type TitleIndex struct {
	rows     map[string]int
	shadowed []int
}

// NewTitleIndex 按加载顺序构建标题索引。
func NewTitleIndex(items []core.Item) *TitleIndex {
	idx := &TitleIndex{rows: make(map[string]int, len(items))}
	for _, it := range items {
		if _, dup := idx.rows[it.NormalizedTitle]; dup {
			idx.shadowed = append(idx.shadowed, it.Row)
			continue
		}
		idx.rows[it.NormalizedTitle] = it.Row
	}
	return idx
}

// Lookup 以归一化标题查找行号。
func (t *TitleIndex) Lookup(normalizedTitle string) (int, bool) {
	row, ok := t.rows[normalizedTitle]
	return row, ok
}

// Len 返回可查询的标题数。
func (t *TitleIndex) Len() int {
	return len(t.rows)
}

// Shadowed 返回因标题重复而不可查询的行号，按加载顺序。
func (t *TitleIndex) Shadowed() []int {
	out := make([]int, len(t.shadowed))
	copy(out, t.shadowed)
	return out
}
