package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/contentrec/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链，按顺序执行。
type Pipeline struct {
	Nodes []Node

	// Hook 在每个 Node 执行后调用（可选），用于打点
	Hook func(node Node, in, out int)
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	recs []*core.Recommendation,
) ([]*core.Recommendation, error) {
	cur := recs
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		if p.Hook != nil {
			p.Hook(node, len(cur), len(next))
		}
		cur = next
	}
	return cur, nil
}

// With 返回在末尾追加节点后的新 Pipeline，原 Pipeline 不变。
func (p *Pipeline) With(nodes ...Node) *Pipeline {
	all := make([]Node, 0, len(p.Nodes)+len(nodes))
	all = append(all, p.Nodes...)
	all = append(all, nodes...)
	return &Pipeline{Nodes: all, Hook: p.Hook}
}
