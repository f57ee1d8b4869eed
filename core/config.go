package core

const (
	// AllCategories 是类别过滤的哨兵值，表示不过滤
	AllCategories = "all"

	// DefaultTopK 是未指定 k 时返回的推荐数量
	DefaultTopK = 5
)

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultTopK 返回默认的 TopK
	DefaultTopK() int

	// MaxTopK 返回允许的最大 TopK，<= 0 表示不限制
	MaxTopK() int
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopK() int {
	return DefaultTopK
}

// MaxTopK 默认不限制，返回数量只受候选数约束。
func (c *DefaultRecommendConfig) MaxTopK() int {
	return 0
}

// ResolveTopK 按配置修正请求的 k。
func ResolveTopK(cfg RecommendConfig, k int) int {
	if cfg == nil {
		cfg = &DefaultRecommendConfig{}
	}
	if k <= 0 {
		k = cfg.DefaultTopK()
	}
	if max := cfg.MaxTopK(); max > 0 && k > max {
		k = max
	}
	return k
}
