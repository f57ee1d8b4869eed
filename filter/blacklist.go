package filter

import (
	"context"

	"github.com/rushteam/contentrec/core"
)

// BlacklistFilter 是黑名单过滤器，按归一化标题移除结果。
type BlacklistFilter struct {
	// Titles 是内存中的黑名单（归一化后的标题）
	Titles map[string]struct{}

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单标题列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器，titles 会被归一化。
func NewBlacklistFilter(titles []string, store BlacklistStore, key string) *BlacklistFilter {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[core.NormalizeTitle(t)] = struct{}{}
	}
	return &BlacklistFilter{
		Titles: set,
		Store:  store,
		Key:    key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	if rec == nil {
		return true, nil
	}
	_, ok := f.Titles[rec.Item.NormalizedTitle]
	return ok, nil
}

// Prepare 每次请求读取一次 Store 中的黑名单，与内联标题合并成只读的过滤器。
// key 不存在时只使用内联标题。
func (f *BlacklistFilter) Prepare(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	if f.Store == nil || f.Key == "" {
		return f, nil
	}
	stored, err := f.Store.GetBlacklist(ctx, f.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return f, nil
		}
		return nil, err
	}
	if len(stored) == 0 {
		return f, nil
	}

	set := make(map[string]struct{}, len(f.Titles)+len(stored))
	for t := range f.Titles {
		set[t] = struct{}{}
	}
	for _, t := range stored {
		set[core.NormalizeTitle(t)] = struct{}{}
	}
	return &BlacklistFilter{Titles: set}, nil
}

// BindStore 在未配置 Store 时使用 s 读取黑名单。
func (f *BlacklistFilter) BindStore(s core.Store) {
	if f.Store == nil && s != nil {
		f.Store = NewStoreAdapter(s)
	}
}

// NeedsStore 配置了 key 但没有可用 Store 时返回 true。
func (f *BlacklistFilter) NeedsStore() bool {
	return f.Key != "" && f.Store == nil
}

var (
	_ Preparer    = (*BlacklistFilter)(nil)
	_ StoreBinder = (*BlacklistFilter)(nil)
)
