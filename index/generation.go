// Package index 维护不可变的索引代次（语料、向量、相似度矩阵、标题索引），
// 以及在重建时原子切换当前代次的 Holder。
package index

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/similarity"
	"github.com/rushteam/contentrec/vector"
)

// Generation 是一次完整构建的只读快照。
type Generation struct {
	id      string
	builtAt time.Time
	source  string

	items      []core.Item
	model      *vector.Model
	matrix     *similarity.Matrix
	titles     *TitleIndex
	categories []string
}

// BuildOptions 是构建参数。
type BuildOptions struct {
	// Source 是语料来源描述，仅用于展示
	Source string
	// Workers 是相似度矩阵的并行度
	Workers int
	// Vectorizer 为空时使用默认 TF-IDF
	Vectorizer *vector.TFIDF
}

// Build 从归一化后的物品序列构建新一代索引。
// 任何一步失败都不会产生部分结果。
func Build(ctx context.Context, items []core.Item, opts BuildOptions) (*Generation, error) {
	if len(items) == 0 {
		return nil, core.NewCorpusError("no items to index", nil)
	}
	for i, it := range items {
		if it.Row != i {
			return nil, core.NewCorpusError("item rows are not in load order", nil)
		}
	}

	vectorizer := opts.Vectorizer
	if vectorizer == nil {
		vectorizer = vector.NewTFIDF()
	}

	docs := make([]string, len(items))
	for i, it := range items {
		docs[i] = it.Content
	}
	model, err := vectorizer.Fit(ctx, docs)
	if err != nil {
		return nil, err
	}

	matrix, err := similarity.Build(ctx, model.Vectors, similarity.WithWorkers(opts.Workers))
	if err != nil {
		return nil, err
	}

	snapshot := make([]core.Item, len(items))
	copy(snapshot, items)

	return &Generation{
		id:         uuid.NewString(),
		builtAt:    time.Now(),
		source:     opts.Source,
		items:      snapshot,
		model:      model,
		matrix:     matrix,
		titles:     NewTitleIndex(snapshot),
		categories: DistinctCategories(snapshot),
	}, nil
}

func (g *Generation) ID() string { return g.id }

func (g *Generation) Len() int { return len(g.items) }

func (g *Generation) Item(row int) core.Item { return g.items[row] }

func (g *Generation) Lookup(normalizedTitle string) (int, bool) {
	return g.titles.Lookup(normalizedTitle)
}

func (g *Generation) Score(i, j int) float64 { return g.matrix.Score(i, j) }

// BuiltAt 返回构建完成时间。
func (g *Generation) BuiltAt() time.Time { return g.builtAt }

// Source 返回语料来源描述。
func (g *Generation) Source() string { return g.source }

// Matrix 返回相似度矩阵。
func (g *Generation) Matrix() *similarity.Matrix { return g.matrix }

// Model 返回向量化模型。
func (g *Generation) Model() *vector.Model { return g.model }

// Titles 返回标题索引。
func (g *Generation) Titles() *TitleIndex { return g.titles }

// VocabularySize 返回词表大小。
func (g *Generation) VocabularySize() int { return g.model.Dim() }

// Categories 返回去重排序后的类别列表副本。
func (g *Generation) Categories() []string {
	out := make([]string, len(g.categories))
	copy(out, g.categories)
	return out
}

// QueryableTitles 返回所有可作为查询主体的原始标题，按字典序排列。
func (g *Generation) QueryableTitles() []string {
	out := make([]string, 0, g.titles.Len())
	for _, it := range g.items {
		if row, ok := g.titles.Lookup(it.NormalizedTitle); ok && row == it.Row {
			out = append(out, it.Title)
		}
	}
	sort.Strings(out)
	return out
}

// DistinctCategories 将每条 genre 按逗号拆分、去空白、去重后排序。
func DistinctCategories(items []core.Item) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, it := range items {
		for _, part := range strings.Split(it.Genre, ",") {
			c := strings.TrimSpace(part)
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

var _ core.Catalog = (*Generation)(nil)
