// Package dsl 基于 CEL 的推荐结果表达式求值。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/pkg/utils"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("score", cel.DoubleType),
			cel.Variable("label", cel.MapType(cel.StringType, cel.StringType)),
			cel.Variable("rctx", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的表达式，可被并发复用。
//
// 可用变量：
//   - item：title / genre / description / poster / rating / year / url / episodes / rank（字符串），row（整数）
//   - score：相似度
//   - label：标签名到值的映射，例如 label.recall_source
//   - rctx：title / category / k / params
//
// 示例：
//   - `item.year >= "2015"`
//   - `score > 0.1 && item.genre.contains("Drama")`
//   - `"recall_source" in label`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，结果类型必须为 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression must return bool, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式，用于日志与错误信息。
func (p *Program) String() string {
	return p.expr
}

// Eval 对单条推荐结果求值。
func (p *Program) Eval(rec *core.Recommendation, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(rec, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(rec *core.Recommendation, rctx *core.RecommendContext) map[string]any {
	item := map[string]any{}
	score := 0.0
	labels := map[string]string{}
	if rec != nil {
		it := rec.Item
		item = map[string]any{
			"row":         int64(it.Row),
			"title":       it.Title,
			"genre":       it.Genre,
			"description": it.Description,
			"poster":      it.Poster,
			"rating":      it.Rating,
			"year":        it.Year,
			"url":         it.URL,
			"episodes":    it.Episodes,
			"rank":        it.Rank,
		}
		score = rec.Score
		labels = utils.LabelValues(rec.Labels)
	}

	req := map[string]any{}
	if rctx != nil {
		params := rctx.Params
		if params == nil {
			params = map[string]any{}
		}
		req = map[string]any{
			"title":    rctx.Title,
			"category": rctx.Category,
			"k":        int64(rctx.K),
			"params":   params,
		}
	}

	return map[string]any{
		"item":  item,
		"score": score,
		"label": labels,
		"rctx":  req,
	}
}
