// Package metrics 定义推荐服务的 Prometheus 指标。
//
// 指标分类：
//   - 索引构建：耗时、失败次数、语料规模、词表大小、重建触发来源
//   - 推荐查询：按结果分类的请求数、延迟
//   - 结果缓存：命中与未命中
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contentrec"

// 推荐结果分类
const (
	ResultOK       = "ok"
	ResultEmpty    = "empty"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// 重建触发来源
const (
	TriggerStartup = "startup"
	TriggerWatch   = "watch"
	TriggerAPI     = "api"
)

var (
	// IndexBuildDuration 记录一次完整构建（加载+向量化+相似度矩阵）的耗时。
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Duration of full index generation builds in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// IndexBuildErrorsTotal 统计失败的构建。
	IndexBuildErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_build_errors_total",
			Help:      "Total number of failed index builds",
		},
	)

	// IndexReloadsTotal 按触发来源统计重建请求。
	IndexReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_reloads_total",
			Help:      "Total number of index reloads by trigger",
		},
		[]string{"trigger"},
	)

	CorpusItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_items",
			Help:      "Number of items in the active index generation",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_size",
			Help:      "Number of terms in the active vocabulary",
		},
	)

	// RecommendRequestsTotal 按结果统计推荐请求。
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_requests_total",
			Help:      "Total number of recommend requests by result",
		},
		[]string{"result"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "Duration of recommend requests in seconds",
			Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of recommendation cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of recommendation cache misses",
		},
	)
)

// RecordBuild 记录一次构建结果。
func RecordBuild(d time.Duration, err error) {
	IndexBuildDuration.Observe(d.Seconds())
	if err != nil {
		IndexBuildErrorsTotal.Inc()
	}
}

// RecordGeneration 更新当前代次的规模指标。
func RecordGeneration(items, vocabulary int) {
	CorpusItems.Set(float64(items))
	VocabularySize.Set(float64(vocabulary))
}

// RecordReload 记录一次重建触发。
func RecordReload(trigger string) {
	IndexReloadsTotal.WithLabelValues(trigger).Inc()
}

// RecordRecommend 记录一次推荐请求。
func RecordRecommend(result string, d time.Duration) {
	RecommendRequestsTotal.WithLabelValues(result).Inc()
	RecommendDuration.Observe(d.Seconds())
}

// RecordCache 记录一次缓存查找。
func RecordCache(hit bool) {
	if hit {
		CacheHitsTotal.Inc()
		return
	}
	CacheMissesTotal.Inc()
}
