package index

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/contentrec/core"
)

// BuildFunc 构建一代新索引。
type BuildFunc func(ctx context.Context) (*Generation, error)

// Holder 持有当前生效的索引代次。
//
// 查询通过 Current 拿到一个快照后全程使用它，重建完成时整体替换指针，
// 进行中的查询不会看到半更新的状态。并发的 Reload 会合并为一次构建。
// 构建失败时保留上一代。
type Holder struct {
	current atomic.Pointer[Generation]
	group   singleflight.Group
}

// NewHolder 创建空的 Holder。
func NewHolder() *Holder {
	return &Holder{}
}

// Current 返回当前代次，尚未构建时返回 ErrNoGeneration。
func (h *Holder) Current() (*Generation, error) {
	g := h.current.Load()
	if g == nil {
		return nil, core.ErrNoGeneration
	}
	return g, nil
}

// Ready 判断是否已有可用的代次。
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// Store 直接设置当前代次。
func (h *Holder) Store(g *Generation) {
	if g != nil {
		h.current.Store(g)
	}
}

// Reload 执行构建并在成功后原子替换当前代次。
// shared 表示本次结果是否与其他并发调用共享。
//
// 合并后的构建不随任何单个调用方的 ctx 取消：调用方的 ctx 结束时该调用方
// 立即返回 ctx.Err()，构建继续为其余调用方完成。构建的超时由 build 自行控制。
func (h *Holder) Reload(ctx context.Context, build BuildFunc) (g *Generation, shared bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	buildCtx := context.WithoutCancel(ctx)
	ch := h.group.DoChan("reload", func() (any, error) {
		next, err := build(buildCtx)
		if err != nil {
			return nil, err
		}
		h.current.Store(next)
		return next, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(*Generation), res.Shared, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
