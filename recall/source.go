// Package recall 生成推荐候选集。
package recall

import (
	"context"

	"github.com/rushteam/contentrec/core"
)

// Source 表示一个召回源，从当前索引代次中产出候选。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Recommendation, error)
}
