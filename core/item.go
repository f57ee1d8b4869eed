package core

import (
	"strings"

	"github.com/rushteam/contentrec/pkg/utils"
)

// Item 是目录中的一条剧集记录。
//
// Row 是加载顺序中的行号，在一代索引内稳定，同时也是标题索引与相似度矩阵之间的关联键。
// Poster / Rating / Year / URL / Episodes / Rank 是透传展示字段，核心逻辑从不解释它们。
type Item struct {
	Row             int    `json:"row"`
	Title           string `json:"title"`
	NormalizedTitle string `json:"-"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	Content         string `json:"-"`

	Poster   string `json:"poster"`
	Rating   string `json:"rating"`
	Year     string `json:"year"`
	URL      string `json:"url"`
	Episodes string `json:"episodes,omitempty"`
	Rank     string `json:"rank,omitempty"`
}

// NewItem 构建一条记录，并派生 NormalizedTitle 与 Content。
func NewItem(row int, title, genre, description string) Item {
	return Item{
		Row:             row,
		Title:           title,
		NormalizedTitle: NormalizeTitle(title),
		Genre:           genre,
		Description:     description,
		Content:         BuildContent(genre, description),
	}
}

// NormalizeTitle 是标题的查找键：去除首尾空白并转小写。
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// BuildContent 拼接用于向量化的文本，两侧总是存在（可能为空）。
func BuildContent(genre, description string) string {
	return strings.TrimSpace(genre) + " " + strings.TrimSpace(description)
}

// Recommendation 是推荐链路中的统一承载结构：物品、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Recommendation struct {
	Item   Item
	Score  float64
	Labels map[string]utils.Label
}

func NewRecommendation(item Item, score float64) *Recommendation {
	return &Recommendation{
		Item:   item,
		Score:  score,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (r *Recommendation) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}
