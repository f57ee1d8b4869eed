// Package conv 解析节点配置中的松散类型值。
//
// 节点配置经 koanf 从 YAML、TOML 或环境变量加载，同一字段可能是 int、int64、float64 或字符串，
// 这里统一按目标类型读取。
package conv

import (
	"strconv"
	"strings"
)

// ConfigGet 按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt64 取整数。YAML 得到 int，TOML 得到 int64，JSON 得到 float64，环境变量得到字符串。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return defaultVal
		}
		return n
	default:
		return defaultVal
	}
}

// ConfigGetBool 取布尔值，兼容 "true" / "1" 等字符串。
func ConfigGetBool(m map[string]any, key string, defaultVal bool) bool {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return defaultVal
		}
		return b
	default:
		return defaultVal
	}
}

// ToStrings 取字符串列表。
//   - []any：字符串原样保留，整数格式化为十进制，其余元素跳过
//   - []string：原样返回
//   - string：按逗号拆分并去除空白（环境变量只能这样表达列表）
func ToStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			switch x := e.(type) {
			case string:
				out = append(out, x)
			case int:
				out = append(out, strconv.Itoa(x))
			case int64:
				out = append(out, strconv.FormatInt(x, 10))
			case float64:
				out = append(out, strconv.FormatFloat(x, 'f', -1, 64))
			}
		}
		return out
	default:
		return nil
	}
}
