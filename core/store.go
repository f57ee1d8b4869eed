package core

import (
	"context"
	"time"
)

// Store 是键值存储接口，由 store 包实现（内存、Redis）。
// 用于推荐结果缓存与过滤器的黑名单数据，值为不透明字节。
type Store interface {
	Name() string

	// Get 读取 key；不存在或已过期时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入 key，ttl <= 0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Close() error
}

// ErrStoreNotFound 表示 key 不存在
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 store 的 key 不存在，与查询标题不存在区分。
func IsStoreNotFound(err error) bool {
	de := GetDomainError(err)
	return de != nil && de.Module == ModuleStore && de.Code == ErrorCodeNotFound
}
