package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pkg/dsl"
)

// ExprFilter 基于 CEL 表达式过滤。
// 默认保留表达式为 true 的结果；Exclude 为 true 时反过来移除表达式为 true 的结果。
type ExprFilter struct {
	Exclude bool

	program *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string, exclude bool) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("filter.expr %q: %w", expr, err)
	}
	return &ExprFilter{Exclude: exclude, program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	rec *core.Recommendation,
) (bool, error) {
	matched, err := f.program.Eval(rec, rctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", f.program, err)
	}
	return matched == f.Exclude, nil
}
