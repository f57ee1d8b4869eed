// Package config 负责进程配置加载，以及配置驱动的 Pipeline 节点注册表。
package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rushteam/contentrec/pipeline"
)

// 内置节点由 config/builders 在 init 中注册，入口处需 import _ "github.com/rushteam/contentrec/config/builders"。

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，同名类型后注册的覆盖先注册的。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidateNodes 在构建前检查 recommend.nodes 中的类型都已注册，错误信息附带可用类型。
func ValidateNodes(nodes []pipeline.NodeConfig) error {
	supported := SupportedTypes()
	for i, nc := range nodes {
		if _, found := slices.BinarySearch(supported, nc.Type); !found {
			return fmt.Errorf("recommend.nodes[%d]: unsupported node type %q (supported: %s)",
				i, nc.Type, strings.Join(supported, ", "))
		}
	}
	return nil
}
