// Package contentrec 是基于内容的剧集推荐服务。
//
// 设计要点：
// - Generation-first: 语料 -> TF-IDF -> 余弦相似度矩阵 -> 标题索引，一次构建为不可变的一代索引，原子切换
// - Pipeline-first: 单次查询通过 Node 串联（Recall → Filter → ReRank）
// - Labels-first: labels 全链路透传，支持 explain 与表达式过滤
package contentrec

import (
	"github.com/rushteam/contentrec/corpus"
	"github.com/rushteam/contentrec/pipeline"
	"github.com/rushteam/contentrec/recommend"
)

// 轻量 facade：便于用户直接 import "contentrec" 使用核心抽象。
type (
	Engine  = recommend.Engine
	Request = recommend.Request
	Option  = recommend.Option

	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)

// New 创建推荐引擎，需调用 Reload 构建第一代索引后才能查询。
// 节点依赖存储而未配置 WithStore 时返回错误。
func New(src corpus.Source, opts ...Option) (*Engine, error) {
	return recommend.NewEngine(src, opts...)
}
