package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `koanf:"type" yaml:"type" json:"type" validate:"required"` // filter.expr / rerank.diversity 等
	Config map[string]any `koanf:"config" yaml:"config" json:"config"`               // Node 特定配置
}

// BuildNodes 根据配置构建 Node 列表。
// 注意：factory 在独立的 config 包中注册，避免循环依赖。
func BuildNodes(factory *NodeFactory, configs []NodeConfig) ([]Node, error) {
	nodes := make([]Node, 0, len(configs))
	for _, nc := range configs {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(map[string]any) (Node, error)

// NodeFactory 用于根据配置构建 Node 实例。
type NodeFactory struct {
	mu       sync.RWMutex
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]NodeBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[nodeType] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	f.mu.RLock()
	builder, ok := f.builders[nodeType]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s (supported: %s)", nodeType, strings.Join(f.Types(), ", "))
	}
	return builder(config)
}

// Types 返回已注册的类型，按字典序排列。
func (f *NodeFactory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.builders))
	for t := range f.builders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
